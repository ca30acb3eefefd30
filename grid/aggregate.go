package grid

import (
	"context"
	"log/slog"

	"github.com/mikkohei13/biotools/types/occurrence"
)

// AreaRecords maps a cell key at some target resolution to the species
// names observed inside it. Duplicates are kept; they encode abundance.
// Arrival order is preserved so runs are reproducible.
type AreaRecords map[CellKey][]string

// Cells returns the keyed cells in no particular order.
func (a AreaRecords) Cells() []CellKey {
	cells := make([]CellKey, 0, len(a))
	for k := range a {
		cells = append(cells, k)
	}
	return cells
}

// Records counts all observations across all cells.
func (a AreaRecords) Records() int {
	n := 0
	for _, list := range a {
		n += len(list)
	}
	return n
}

// Aggregate groups a stream of occurrence records into cells at the
// target resolution. Records whose key cannot be converted are dropped;
// malformed keys are expected noise in uncurated field data.
func Aggregate(ctx context.Context, res Resolution, in <-chan occurrence.Occurrence) (AreaRecords, error) {
	if err := res.Validate(); err != nil {
		return nil, err
	}
	dropped := 0
	out := AreaRecords{}
	for o := range in {
		select {
		case <-ctx.Done():
			return out, ctx.Err()
		default:
		}
		cell, err := Convert(CellKey(o.CellKey), res)
		if err != nil {
			dropped++
			continue
		}
		out[cell] = append(out[cell], o.ScientificName)
	}
	if dropped > 0 {
		slog.Debug("Aggregate dropped unusable records", "dropped", dropped, "resolution", res)
	}
	return out, nil
}

// AggregateSlice is Aggregate over an in-memory record slice.
func AggregateSlice(ctx context.Context, res Resolution, records []occurrence.Occurrence) (AreaRecords, error) {
	if err := res.Validate(); err != nil {
		return nil, err
	}
	out := AreaRecords{}
	for _, o := range records {
		cell, err := Convert(CellKey(o.CellKey), res)
		if err != nil {
			continue
		}
		out[cell] = append(out[cell], o.ScientificName)
	}
	return out, nil
}
