package grid

import (
	"errors"
	"testing"
)

func TestConvert(t *testing.T) {
	cases := []struct {
		name   string
		key    CellKey
		target Resolution
		want   CellKey
	}{
		{"1km to 100km", "6789:3458", Res100Km, "67:34"},
		{"1km to 10km", "6789:3458", Res10Km, "678:345"},
		{"1km to 50km", "6783:3458", Res50Km, "675:345"},
		{"1km to 50km already aligned", "6759:3451", Res50Km, "675:345"},
		{"1km to 1km identity", "6789:3458", Res1Km, "6789:3458"},
		{"100km idempotent", "67:34", Res100Km, "67:34"},
		{"10km to 100km", "678:345", Res100Km, "67:34"},
		{"50km aligned idempotent", "675:345", Res50Km, "675:345"},
		{"zero padding preserved", "0067:0034", Res100Km, "00:00"},
		{"leading zero output", "678:045", Res100Km, "67:04"},
		{"deficit zero-extended", "67:34", Res1Km, "6700:3400"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got, err := Convert(c.key, c.target)
			if err != nil {
				t.Fatal(err)
			}
			if got != c.want {
				t.Errorf("Convert(%q, %s) = %q, want %q", c.key, c.target, got, c.want)
			}
		})
	}
}

func TestConvertIdempotentAtFixedTarget(t *testing.T) {
	for _, res := range Resolutions {
		once, err := Convert("6789:3458", res)
		if err != nil {
			t.Fatal(err)
		}
		twice, err := Convert(once, res)
		if err != nil {
			t.Fatal(err)
		}
		if once != twice {
			t.Errorf("%s: Convert not idempotent: %q then %q", res, once, twice)
		}
	}
}

func TestConvertMalformed(t *testing.T) {
	for _, key := range []CellKey{"", "6789", "6789:", ":3458", "67a9:3458", "6789:34x8", "-678:345", "67:89:34"} {
		if _, err := Convert(key, Res100Km); !errors.Is(err, ErrInvalidCellKey) {
			t.Errorf("Convert(%q) error = %v, want ErrInvalidCellKey", key, err)
		}
	}
}

func TestConvertInvalidResolution(t *testing.T) {
	if _, err := Convert("6789:3458", Resolution(25)); !errors.Is(err, ErrInvalidResolution) {
		t.Errorf("error = %v, want ErrInvalidResolution", err)
	}
	if _, err := ParseResolution(0); !errors.Is(err, ErrInvalidResolution) {
		t.Errorf("error = %v, want ErrInvalidResolution", err)
	}
}

func TestOriginMeters(t *testing.T) {
	cases := []struct {
		key      CellKey
		res      Resolution
		northing int
		easting  int
	}{
		{"67:34", Res100Km, 6_700_000, 3_400_000},
		{"668:338", Res10Km, 6_680_000, 3_380_000},
		{"675:345", Res50Km, 6_750_000, 3_450_000},
		{"6789:3458", Res1Km, 6_789_000, 3_458_000},
	}
	for _, c := range cases {
		n, e, err := OriginMeters(c.key, c.res)
		if err != nil {
			t.Fatal(err)
		}
		if n != c.northing || e != c.easting {
			t.Errorf("OriginMeters(%q, %s) = %d, %d; want %d, %d", c.key, c.res, n, e, c.northing, c.easting)
		}
	}
}
