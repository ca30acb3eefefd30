/*
Package grid implements the YKJ (Finnish uniform grid) cell model.

Cell keys are "northing:easting" strings of equal-width decimal
components. The digit count encodes the resolution tier: 2 digits is a
100 km cell, 3 digits is 10 km (or 50 km), 4 digits is 1 km. Coarsening
a key truncates low-order digits, which floors coordinates toward the
southwest corner of the enclosing coarse cell. A cell's map-space origin
is always its southwest corner.
*/
package grid

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Resolution is a grid tier in kilometers.
type Resolution int

const (
	Res1Km   Resolution = 1
	Res10Km  Resolution = 10
	Res50Km  Resolution = 50
	Res100Km Resolution = 100
)

var Resolutions = []Resolution{Res1Km, Res10Km, Res50Km, Res100Km}

var (
	ErrInvalidResolution = errors.New("invalid resolution")
	ErrInvalidCellKey    = errors.New("invalid cell key")
)

func (r Resolution) Validate() error {
	switch r {
	case Res1Km, Res10Km, Res50Km, Res100Km:
		return nil
	}
	return fmt.Errorf("%w: %dkm (want one of 1, 10, 50, 100)", ErrInvalidResolution, int(r))
}

// Digits is the coordinate width at this tier.
func (r Resolution) Digits() int {
	switch r {
	case Res1Km:
		return 4
	case Res10Km, Res50Km:
		return 3
	case Res100Km:
		return 2
	}
	return 0
}

// UnitMeters is the map-space size of one coordinate unit at this tier.
// Note the unit for 50 km keys is still 10000 m; 50 km alignment comes
// from coordinates being multiples of 5 units.
func (r Resolution) UnitMeters() int {
	switch r {
	case Res1Km:
		return 1_000
	case Res10Km, Res50Km:
		return 10_000
	case Res100Km:
		return 100_000
	}
	return 0
}

// SizeMeters is the edge length of a cell at this tier.
func (r Resolution) SizeMeters() int {
	return int(r) * 1_000
}

func (r Resolution) String() string {
	return strconv.Itoa(int(r)) + "km"
}

// ParseResolution reads a resolution from its integer kilometer value.
func ParseResolution(km int) (Resolution, error) {
	r := Resolution(km)
	return r, r.Validate()
}

// CellKey is a "northing:easting" grid key at some tier.
type CellKey string

func (k CellKey) String() string {
	return string(k)
}

// Split returns the integer components of the key.
func (k CellKey) Split() (northing, easting int, err error) {
	ns, es, ok := strings.Cut(string(k), ":")
	if !ok {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidCellKey, string(k))
	}
	northing, err = strconv.Atoi(ns)
	if err != nil || northing < 0 {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidCellKey, string(k))
	}
	easting, err = strconv.Atoi(es)
	if err != nil || easting < 0 {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidCellKey, string(k))
	}
	return northing, easting, nil
}

// Convert re-keys k at the target resolution.
// Excess digits are truncated by integer division (southwest flooring),
// missing digits are zero-extended. The 50 km tier additionally floors
// each component to the nearest multiple of 5 after truncation.
func Convert(k CellKey, target Resolution) (CellKey, error) {
	if err := target.Validate(); err != nil {
		return "", err
	}
	ns, es, ok := strings.Cut(string(k), ":")
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrInvalidCellKey, string(k))
	}
	northing, err := scaleComponent(ns, target.Digits())
	if err != nil {
		return "", err
	}
	easting, err := scaleComponent(es, target.Digits())
	if err != nil {
		return "", err
	}
	if target == Res50Km {
		northing = (northing / 5) * 5
		easting = (easting / 5) * 5
	}
	return FormatCellKey(northing, easting, target), nil
}

func scaleComponent(s string, digits int) (int, error) {
	v, err := strconv.Atoi(s)
	if err != nil || v < 0 {
		return 0, fmt.Errorf("%w: component %q", ErrInvalidCellKey, s)
	}
	switch cur := len(s); {
	case cur > digits:
		return v / pow10(cur-digits), nil
	case cur < digits:
		// Zero-extension; should not occur with well-formed input.
		return v * pow10(digits-cur), nil
	}
	return v, nil
}

func pow10(n int) int {
	p := 1
	for i := 0; i < n; i++ {
		p *= 10
	}
	return p
}

// FormatCellKey renders components zero-padded to the tier's exact width.
func FormatCellKey(northing, easting int, res Resolution) CellKey {
	d := res.Digits()
	return CellKey(fmt.Sprintf("%0*d:%0*d", d, northing, d, easting))
}

// OriginMeters returns the southwest corner of the cell in YKJ map
// coordinates (meters), using the tier's unit scale.
func OriginMeters(k CellKey, res Resolution) (northing, easting int, err error) {
	if err := res.Validate(); err != nil {
		return 0, 0, err
	}
	n, e, err := k.Split()
	if err != nil {
		return 0, 0, err
	}
	return n * res.UnitMeters(), e * res.UnitMeters(), nil
}
