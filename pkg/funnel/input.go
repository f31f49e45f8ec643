package funnel

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/matzehuels/funnelchart/pkg/errors"
)

// Row is one funnel stage: a label and its engagement value.
type Row struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

// Input is the normalized content of a bound cell range.
type Input struct {
	// Header holds the header row when the first row was detected as one.
	Header []string `json:"header,omitempty"`
	// Rows are the data rows in input order.
	Rows []Row `json:"rows"`
}

// HasHeader reports whether a header row was stripped.
func (in Input) HasHeader() bool { return len(in.Header) > 0 }

// Total returns the sum of all row values.
func (in Input) Total() float64 {
	var sum float64
	for _, r := range in.Rows {
		sum += r.Value
	}
	return sum
}

// ParseTable converts textual rows (CSV records, spreadsheet strings) into an
// Input. See [FromCells] for the detection and validation rules.
func ParseTable(raw [][]string) (Input, error) {
	cells := make([][]any, len(raw))
	for i, rec := range raw {
		row := make([]any, len(rec))
		for j, s := range rec {
			row[j] = s
		}
		cells[i] = row
	}
	return FromCells(cells)
}

// FromCells converts raw cell values into an Input.
//
// If the second field of the first row is not numeric, that row is a header
// and is dropped; no other row is inspected for this. Every remaining row must
// be exactly a (label, number) pair once trailing blank cells are trimmed, and
// at least two rows must remain. Numbers may be Go numeric types or strings;
// strings may carry thousands separators or a trailing percent sign.
//
// Violations return an [errors.ErrCodeInvalidInputShape] error whose user
// message asks for two columns and at least two rows.
func FromCells(raw [][]any) (Input, error) {
	if len(raw) == 0 {
		return Input{}, improperData("no rows selected")
	}

	var in Input
	rows := raw
	if first := trimBlank(raw[0]); len(first) < 2 || !isNumericCell(first[1]) {
		in.Header = make([]string, len(first))
		for i, c := range first {
			in.Header[i] = cellString(c)
		}
		rows = raw[1:]
	}

	in.Rows = make([]Row, 0, len(rows))
	for i, rec := range rows {
		rec = trimBlank(rec)
		if len(rec) != 2 {
			return Input{}, improperData("row %d has %d columns, want 2", i+1, len(rec))
		}
		v, ok := cellNumber(rec[1])
		if !ok {
			return Input{}, improperData("row %d value %q is not a number", i+1, cellString(rec[1]))
		}
		label := cellString(rec[0])
		if err := errors.ValidateLabel(label); err != nil {
			return Input{}, err
		}
		in.Rows = append(in.Rows, Row{Label: label, Value: v})
	}

	if len(in.Rows) < 2 {
		return Input{}, improperData("%d data rows, want at least 2", len(in.Rows))
	}
	return in, nil
}

func improperData(format string, args ...any) error {
	return errors.Wrap(errors.ErrCodeInvalidInputShape, fmt.Errorf(format, args...), errors.MsgImproperData)
}

// trimBlank drops trailing empty cells, which spreadsheet ranges and CSV
// exports often carry.
func trimBlank(rec []any) []any {
	end := len(rec)
	for end > 0 && isBlank(rec[end-1]) {
		end--
	}
	return rec[:end]
}

func isBlank(c any) bool {
	switch v := c.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(v) == ""
	}
	return false
}

func isNumericCell(c any) bool {
	_, ok := cellNumber(c)
	return ok
}

// cellNumber extracts a finite number from a cell.
func cellNumber(c any) (float64, bool) {
	var f float64
	switch v := c.(type) {
	case float64:
		f = v
	case float32:
		f = float64(v)
	case int:
		f = float64(v)
	case int64:
		f = float64(v)
	case int32:
		f = float64(v)
	case uint:
		f = float64(v)
	case uint64:
		f = float64(v)
	case string:
		var ok bool
		if f, ok = parseNumber(v); !ok {
			return 0, false
		}
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// parseNumber parses spreadsheet-formatted numbers such as "1,200" or "45%".
// A percent sign is dropped, not divided out: a column of percentages keeps
// its relative proportions either way.
func parseNumber(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, "%")
	s = strings.ReplaceAll(s, ",", "")
	if s == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

func cellString(c any) string {
	switch v := c.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(v)
	case float64:
		return FormatValue(v)
	default:
		return fmt.Sprint(v)
	}
}

// FormatValue renders a value the way it is shown in segment annotations:
// the shortest decimal representation, without exponent for ordinary sizes.
func FormatValue(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
