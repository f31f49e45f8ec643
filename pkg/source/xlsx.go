package source

import (
	"context"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/matzehuels/funnelchart/pkg/errors"
)

func readXLSX(ctx context.Context, r io.Reader, opts Options) ([][]any, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "invalid workbook")
	}
	defer f.Close()

	sheet := opts.Sheet
	if sheet == "" {
		sheet = f.GetSheetName(f.GetActiveSheetIndex())
	}
	if idx, err := f.GetSheetIndex(sheet); err != nil || idx < 0 {
		return nil, errors.New(errors.ErrCodeNotFound, "sheet %q not found (sheets: %s)",
			sheet, strings.Join(f.GetSheetList(), ", "))
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "read sheet %q", sheet)
	}
	table := make([][]any, len(rows))
	for i, row := range rows {
		table[i] = make([]any, len(row))
		for j, cell := range row {
			table[i][j] = cell
		}
	}
	if opts.Range != "" {
		return selectRange(table, opts.Range)
	}
	return table, nil
}
