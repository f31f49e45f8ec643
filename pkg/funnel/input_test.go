package funnel

import (
	"testing"

	"github.com/matzehuels/funnelchart/pkg/errors"
)

func TestParseTable(t *testing.T) {
	tests := []struct {
		name       string
		raw        [][]string
		wantHeader bool
		wantRows   []Row
	}{
		{
			name:     "no header",
			raw:      [][]string{{"Applied", "100"}, {"Hired", "10"}},
			wantRows: []Row{{"Applied", 100}, {"Hired", 10}},
		},
		{
			name:       "header",
			raw:        [][]string{{"Stage", "Count"}, {"Applied", "100"}, {"Hired", "10"}},
			wantHeader: true,
			wantRows:   []Row{{"Applied", 100}, {"Hired", 10}},
		},
		{
			name:     "formatted numbers",
			raw:      [][]string{{"Visits", "1,200"}, {"Signups", " 45% "}, {"Paid", "7.5"}},
			wantRows: []Row{{"Visits", 1200}, {"Signups", 45}, {"Paid", 7.5}},
		},
		{
			name:     "trailing blank cells",
			raw:      [][]string{{"a", "3", "", " "}, {"b", "1", ""}},
			wantRows: []Row{{"a", 3}, {"b", 1}},
		},
		{
			name:     "labels are trimmed",
			raw:      [][]string{{"  a ", "3"}, {"b", "1"}},
			wantRows: []Row{{"a", 3}, {"b", 1}},
		},
		{
			name:       "header with missing value column",
			raw:        [][]string{{"Stages"}, {"a", "3"}, {"b", "1"}},
			wantHeader: true,
			wantRows:   []Row{{"a", 3}, {"b", 1}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in, err := ParseTable(tt.raw)
			if err != nil {
				t.Fatalf("ParseTable() error = %v", err)
			}
			if in.HasHeader() != tt.wantHeader {
				t.Errorf("HasHeader() = %v, want %v", in.HasHeader(), tt.wantHeader)
			}
			if len(in.Rows) != len(tt.wantRows) {
				t.Fatalf("got %d rows, want %d", len(in.Rows), len(tt.wantRows))
			}
			for i := range in.Rows {
				if in.Rows[i] != tt.wantRows[i] {
					t.Errorf("row %d = %+v, want %+v", i, in.Rows[i], tt.wantRows[i])
				}
			}
		})
	}
}

func TestParseTableImproperData(t *testing.T) {
	tests := []struct {
		name string
		raw  [][]string
	}{
		{"empty", nil},
		{"header only", [][]string{{"Stage", "Count"}}},
		{"one data row", [][]string{{"Stage", "Count"}, {"a", "1"}}},
		{"three columns", [][]string{{"a", "1", "x"}, {"b", "2", "y"}}},
		{"single column", [][]string{{"Stage", "Count"}, {"a"}, {"b"}}},
		{"non-numeric value", [][]string{{"Stage", "Count"}, {"a", "1"}, {"b", "many"}}},
		{"infinite value", [][]string{{"a", "1"}, {"b", "Inf"}}},
		{"second header ignored", [][]string{{"Stage", "Count"}, {"Again", "Count"}, {"a", "1"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in, err := ParseTable(tt.raw)
			if err == nil {
				t.Fatalf("ParseTable() = %+v, want error", in)
			}
			if !errors.Is(err, errors.ErrCodeInvalidInputShape) {
				t.Errorf("error code = %v, want %v", errors.GetCode(err), errors.ErrCodeInvalidInputShape)
			}
			if got := errors.UserMessage(err); got != errors.MsgImproperData {
				t.Errorf("UserMessage() = %q, want %q", got, errors.MsgImproperData)
			}
		})
	}
}

func TestFromCells(t *testing.T) {
	in, err := FromCells([][]any{
		{"Year", "Visitors"},
		{2022, int64(300)},
		{"2023", 150.5},
		{"2024", float32(20)},
		{"2025", nil},
	})
	if err == nil {
		t.Fatalf("FromCells() = %+v, want error for missing value", in)
	}

	in, err = FromCells([][]any{
		{"Year", "Visitors"},
		{2022, int64(300)},
		{"2023", 150.5},
		{"2024", float32(20)},
	})
	if err != nil {
		t.Fatalf("FromCells() error = %v", err)
	}
	want := []Row{{"2022", 300}, {"2023", 150.5}, {"2024", 20}}
	for i := range want {
		if in.Rows[i] != want[i] {
			t.Errorf("row %d = %+v, want %+v", i, in.Rows[i], want[i])
		}
	}
	if in.Total() != 470.5 {
		t.Errorf("Total() = %v, want 470.5", in.Total())
	}
}

func TestFromCellsRejectsControlCharacters(t *testing.T) {
	_, err := FromCells([][]any{{"a\x07", 1}, {"b", 2}})
	if !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("error = %v, want INVALID_INPUT", err)
	}
}

func TestFormatValue(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{100, "100"},
		{12.5, "12.5"},
		{0.1, "0.1"},
		{1e6, "1000000"},
	}
	for _, tt := range tests {
		if got := FormatValue(tt.in); got != tt.want {
			t.Errorf("FormatValue(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
