// Package occurrence defines the raw biodiversity record consumed by
// the aggregation and diversity pipeline.
package occurrence

import (
	"errors"
	"strings"
)

var ErrMissingFields = errors.New("occurrence missing grid cell or scientific name")

// Occurrence is one observation row from a Darwin Core occurrence file.
// CellKey is the source-resolution YKJ grid key (gridCellYKJ);
// ScientificName carries abundance through repetition, one row per
// observation.
type Occurrence struct {
	CellKey        string `json:"gridCellYKJ"`
	ScientificName string `json:"scientificName"`
}

func New(cellKey, scientificName string) Occurrence {
	return Occurrence{
		CellKey:        strings.TrimSpace(cellKey),
		ScientificName: strings.TrimSpace(scientificName),
	}
}

func (o Occurrence) IsEmpty() bool {
	return o.CellKey == "" && o.ScientificName == ""
}

// Normalized collapses runs of whitespace inside the scientific name.
// Estimators key species on the exact name string, so spacing variants
// of one name must fold to one species.
func Normalized(o Occurrence) Occurrence {
	o.ScientificName = strings.Join(strings.Fields(o.ScientificName), " ")
	return o
}

// Validate rejects rows with a blank key or name. Field data is noisy;
// callers drop invalid rows rather than failing the run.
func (o Occurrence) Validate() error {
	if o.CellKey == "" || o.ScientificName == "" {
		return ErrMissingFields
	}
	return nil
}
