/*
Package loader reads Darwin Core occurrence exports.

The TSV layout carries three header rows: DwC field names, then Finnish
and English display names. The first row supplies the column names; the
next two are skipped. Only gridCellYKJ and scientificName are consumed;
rows missing either are dropped as expected field noise.
*/
package loader

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/mikkohei13/biotools/types/occurrence"
)

const (
	FieldGridCell       = "gridCellYKJ"
	FieldScientificName = "scientificName"

	headerRows = 3
)

var ErrMissingColumns = errors.New("occurrence file missing required columns")

// ReadOccurrences streams valid occurrence records from a three-header
// DwC TSV. The error channel receives at most one error and is closed
// with the record channel when the input is exhausted or the context is
// canceled.
func ReadOccurrences(ctx context.Context, in io.Reader) (<-chan occurrence.Occurrence, <-chan error) {
	out := make(chan occurrence.Occurrence)
	errs := make(chan error, 1)

	go func() {
		defer close(out)
		defer close(errs)

		r := csv.NewReader(in)
		r.Comma = '\t'
		r.LazyQuotes = true
		r.FieldsPerRecord = -1

		fieldnames, err := r.Read()
		if err != nil {
			errs <- fmt.Errorf("reading occurrence header: %w", err)
			return
		}
		cellIdx, nameIdx := -1, -1
		for i, name := range fieldnames {
			switch name {
			case FieldGridCell:
				cellIdx = i
			case FieldScientificName:
				nameIdx = i
			}
		}
		if cellIdx < 0 || nameIdx < 0 {
			errs <- fmt.Errorf("%w: want %s and %s", ErrMissingColumns, FieldGridCell, FieldScientificName)
			return
		}

		// Skip the Finnish and English display-name rows.
		for i := 1; i < headerRows; i++ {
			if _, err := r.Read(); err != nil {
				if err != io.EOF {
					errs <- fmt.Errorf("skipping header row %d: %w", i, err)
				}
				return
			}
		}

		for {
			row, err := r.Read()
			if err == io.EOF {
				return
			}
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) {
				// Ragged or corrupt row; field data is noisy.
				continue
			}
			if err != nil {
				// Not a row-level problem. The reader itself failed
				// (closed file, truncated input) and will keep failing.
				if ctx.Err() == nil {
					errs <- fmt.Errorf("reading occurrence rows: %w", err)
				}
				return
			}
			if cellIdx >= len(row) || nameIdx >= len(row) {
				continue
			}
			o := occurrence.New(row[cellIdx], row[nameIdx])
			if o.Validate() != nil {
				continue
			}
			select {
			case <-ctx.Done():
				return
			case out <- o:
			}
		}
	}()

	return out, errs
}

// ReadOccurrencesFile opens and streams path. The file is closed when
// the stream ends.
func ReadOccurrencesFile(ctx context.Context, path string) (<-chan occurrence.Occurrence, <-chan error) {
	f, err := os.Open(path)
	if err != nil {
		out := make(chan occurrence.Occurrence)
		close(out)
		errs := make(chan error, 1)
		errs <- fmt.Errorf("opening occurrence file: %w", err)
		close(errs)
		return out, errs
	}

	records, errs := ReadOccurrences(ctx, f)
	out := make(chan occurrence.Occurrence)
	go func() {
		defer close(out)
		defer f.Close()
		for o := range records {
			select {
			case <-ctx.Done():
				return
			case out <- o:
			}
		}
	}()
	return out, errs
}
