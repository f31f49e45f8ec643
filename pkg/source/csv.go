package source

import (
	"context"
	"encoding/csv"
	"io"

	"github.com/matzehuels/funnelchart/pkg/errors"
)

func readCSV(comma rune) func(context.Context, io.Reader, Options) ([][]any, error) {
	return func(ctx context.Context, r io.Reader, opts Options) ([][]any, error) {
		cr := csv.NewReader(r)
		cr.Comma = comma
		cr.FieldsPerRecord = -1
		cr.TrimLeadingSpace = true

		records, err := cr.ReadAll()
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "invalid delimited text")
		}
		table := make([][]any, 0, len(records))
		for _, rec := range records {
			row := make([]any, len(rec))
			for i, cell := range rec {
				row[i] = cell
			}
			table = append(table, row)
		}
		if opts.Range != "" {
			return selectRange(table, opts.Range)
		}
		return table, nil
	}
}
