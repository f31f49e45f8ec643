package source

import (
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/matzehuels/funnelchart/pkg/errors"
)

// cellRange is an inclusive, 1-based rectangle of cells.
type cellRange struct {
	col1, row1, col2, row2 int
}

// parseRange parses an A1-style range such as "A1:B6" or "$B$2:$C$9".
// A single cell ("C3") is a one-cell range.
func parseRange(s string) (cellRange, error) {
	s = strings.ReplaceAll(strings.TrimSpace(s), "$", "")
	parts := strings.Split(s, ":")
	if len(parts) == 1 {
		parts = append(parts, parts[0])
	}
	if len(parts) != 2 {
		return cellRange{}, errors.New(errors.ErrCodeInvalidInput, "invalid cell range %q", s)
	}

	c1, r1, err := excelize.CellNameToCoordinates(parts[0])
	if err != nil {
		return cellRange{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid cell range %q", s)
	}
	c2, r2, err := excelize.CellNameToCoordinates(parts[1])
	if err != nil {
		return cellRange{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid cell range %q", s)
	}
	if c2 < c1 {
		c1, c2 = c2, c1
	}
	if r2 < r1 {
		r1, r2 = r2, r1
	}
	return cellRange{col1: c1, row1: r1, col2: c2, row2: r2}, nil
}

// selectRange returns the cells of table inside the range. Cells past the
// end of a ragged row come back as empty strings, and trailing empty rows
// are dropped.
func selectRange(table [][]any, ref string) ([][]any, error) {
	rng, err := parseRange(ref)
	if err != nil {
		return nil, err
	}

	var out [][]any
	for r := rng.row1; r <= rng.row2 && r <= len(table); r++ {
		src := table[r-1]
		row := make([]any, 0, rng.col2-rng.col1+1)
		for c := rng.col1; c <= rng.col2; c++ {
			if c <= len(src) {
				row = append(row, src[c-1])
			} else {
				row = append(row, "")
			}
		}
		out = append(out, row)
	}
	for len(out) > 0 && emptyRow(out[len(out)-1]) {
		out = out[:len(out)-1]
	}
	return out, nil
}

func emptyRow(row []any) bool {
	for _, cell := range row {
		if s, ok := cell.(string); !ok || strings.TrimSpace(s) != "" {
			return false
		}
	}
	return true
}
