package source

import (
	"context"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/matzehuels/funnelchart/pkg/errors"
	"github.com/matzehuels/funnelchart/pkg/funnel"
)

func TestReadCSV(t *testing.T) {
	in := "Stage,Candidates\nApplied, \"1,200\"\nHired,40\n"
	table, err := ReadFrom(context.Background(), strings.NewReader(in), "csv", Options{})
	if err != nil {
		t.Fatalf("ReadFrom: %v", err)
	}
	want := [][]any{{"Stage", "Candidates"}, {"Applied", "1,200"}, {"Hired", "40"}}
	if !reflect.DeepEqual(table, want) {
		t.Errorf("table = %v, want %v", table, want)
	}

	parsed, err := funnel.FromCells(table)
	if err != nil {
		t.Fatalf("FromCells: %v", err)
	}
	if parsed.Rows[0].Value != 1200 {
		t.Errorf("Applied = %v, want 1200", parsed.Rows[0].Value)
	}
}

func TestReadTSVRange(t *testing.T) {
	in := "note\t\t\nStage\tCount\textra\nA\t3\tx\nB\t2\ty\n"
	table, err := ReadFrom(context.Background(), strings.NewReader(in), "tsv", Options{Range: "A2:B4"})
	if err != nil {
		t.Fatalf("ReadFrom: %v", err)
	}
	want := [][]any{{"Stage", "Count"}, {"A", "3"}, {"B", "2"}}
	if !reflect.DeepEqual(table, want) {
		t.Errorf("table = %v, want %v", table, want)
	}
}

func TestReadJSON(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want [][]any
	}{
		{
			name: "array",
			in:   `[["Stage","Count"],["A",10],["B","5"]]`,
			want: [][]any{{"Stage", "Count"}, {"A", 10.0}, {"B", "5"}},
		},
		{
			name: "object",
			in:   `{"header":["Stage","Count"],"rows":[{"label":"A","value":10},{"label":"B","value":5}]}`,
			want: [][]any{{"Stage", "Count"}, {"A", 10.0}, {"B", 5.0}},
		},
		{
			name: "object without header",
			in:   ` {"rows":[{"label":"A","value":1}]}`,
			want: [][]any{{"A", 1.0}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table, err := ReadFrom(context.Background(), strings.NewReader(tt.in), "json", Options{})
			if err != nil {
				t.Fatalf("ReadFrom: %v", err)
			}
			if !reflect.DeepEqual(table, tt.want) {
				t.Errorf("table = %#v, want %#v", table, tt.want)
			}
		})
	}
}

func TestReadInvalid(t *testing.T) {
	ctx := context.Background()
	tests := []struct {
		name   string
		format string
		in     string
		code   errors.Code
	}{
		{"bad json", "json", "{", errors.ErrCodeInvalidFormat},
		{"bad csv quote", "csv", "a,\"b\n", errors.ErrCodeInvalidFormat},
		{"bad workbook", "xlsx", "not a zip", errors.ErrCodeInvalidFormat},
		{"unknown format", "ods", "", errors.ErrCodeUnsupported},
		{"bad range", "csv", "a,1\n", errors.ErrCodeInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := Options{}
			if tt.name == "bad range" {
				opts.Range = "1A:ZZ"
			}
			_, err := ReadFrom(ctx, strings.NewReader(tt.in), tt.format, opts)
			if !errors.Is(err, tt.code) {
				t.Errorf("ReadFrom = %v, want %s", err, tt.code)
			}
		})
	}
}

func writeWorkbook(t *testing.T) string {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	rows := [][]any{
		{"Stage", "Candidates"},
		{"Applied", 120},
		{"Screened", 80},
		{"Hired", 12},
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			t.Fatal(err)
		}
		if err := f.SetSheetRow("Sheet1", cell, &row); err != nil {
			t.Fatal(err)
		}
	}

	if _, err := f.NewSheet("Q2"); err != nil {
		t.Fatal(err)
	}
	if err := f.SetCellValue("Q2", "C3", "Visits"); err != nil {
		t.Fatal(err)
	}
	if err := f.SetCellValue("Q2", "D3", 1000); err != nil {
		t.Fatal(err)
	}
	if err := f.SetCellValue("Q2", "C4", "Signups"); err != nil {
		t.Fatal(err)
	}
	if err := f.SetCellValue("Q2", "D4", 150); err != nil {
		t.Fatal(err)
	}

	path := filepath.Join(t.TempDir(), "funnel.xlsx")
	if err := f.SaveAs(path); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestReadXLSX(t *testing.T) {
	ctx := context.Background()
	path := writeWorkbook(t)

	table, err := ReadFile(ctx, path, Options{})
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	want := [][]any{
		{"Stage", "Candidates"},
		{"Applied", "120"},
		{"Screened", "80"},
		{"Hired", "12"},
	}
	if !reflect.DeepEqual(table, want) {
		t.Errorf("active sheet = %v, want %v", table, want)
	}

	bound, err := ReadFile(ctx, path, Options{Sheet: "Q2", Range: "$C$3:$D$4"})
	if err != nil {
		t.Fatalf("ReadFile with range: %v", err)
	}
	want = [][]any{{"Visits", "1000"}, {"Signups", "150"}}
	if !reflect.DeepEqual(bound, want) {
		t.Errorf("bound range = %v, want %v", bound, want)
	}

	_, err = ReadFile(ctx, path, Options{Sheet: "Missing"})
	if !errors.Is(err, errors.ErrCodeNotFound) {
		t.Errorf("missing sheet = %v, want NOT_FOUND", err)
	}
}

func TestReadFileErrors(t *testing.T) {
	ctx := context.Background()
	_, err := ReadFile(ctx, filepath.Join(t.TempDir(), "none.csv"), Options{})
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("missing file = %v, want FILE_NOT_FOUND", err)
	}

	path := filepath.Join(t.TempDir(), "data.txt")
	if err := os.WriteFile(path, []byte("a,1"), 0644); err != nil {
		t.Fatal(err)
	}
	_, err = ReadFile(ctx, path, Options{})
	if !errors.Is(err, errors.ErrCodeUnsupported) {
		t.Errorf("unknown extension = %v, want UNSUPPORTED", err)
	}
}

func TestParseRange(t *testing.T) {
	tests := []struct {
		in      string
		want    cellRange
		wantErr bool
	}{
		{"A1:B6", cellRange{1, 1, 2, 6}, false},
		{"$B$2:$C$9", cellRange{2, 2, 3, 9}, false},
		{"B6:A1", cellRange{1, 1, 2, 6}, false},
		{"C3", cellRange{3, 3, 3, 3}, false},
		{"A1:B2:C3", cellRange{}, true},
		{"", cellRange{}, true},
		{"1A:B2", cellRange{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseRange(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseRange(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("parseRange(%q) = %+v, want %+v", tt.in, got, tt.want)
			}
		})
	}
}

func TestSelectRangePadsRaggedRows(t *testing.T) {
	table := [][]any{{"a"}, {"b", "2", "x"}, {}}
	got, err := selectRange(table, "A1:B5")
	if err != nil {
		t.Fatal(err)
	}
	want := [][]any{{"a", ""}, {"b", "2"}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("selectRange = %v, want %v", got, want)
	}
}

func TestFormats(t *testing.T) {
	want := []string{"csv", "json", "tsv", "xlsm", "xlsx"}
	if got := Formats(); !reflect.DeepEqual(got, want) {
		t.Errorf("Formats() = %v, want %v", got, want)
	}
	if got := FormatOf("/tmp/Data.XLSX"); got != "xlsx" {
		t.Errorf("FormatOf = %q", got)
	}
}

func TestReadExampleData(t *testing.T) {
	tests := []struct {
		file  string
		title string
		first string
	}{
		{"hiring.csv", "Candidates", "Applied"},
		{"signup.json", "Users", "Visited landing page"},
	}
	for _, tt := range tests {
		t.Run(tt.file, func(t *testing.T) {
			table, err := ReadFile(context.Background(), filepath.Join("..", "..", "examples", tt.file), Options{})
			if err != nil {
				t.Fatalf("ReadFile: %v", err)
			}
			in, err := funnel.FromCells(table)
			if err != nil {
				t.Fatalf("FromCells: %v", err)
			}
			if len(in.Rows) != 5 || in.Rows[0].Label != tt.first {
				t.Errorf("rows = %+v", in.Rows)
			}
			if !in.HasHeader() || in.Header[1] != tt.title {
				t.Errorf("header = %v, want value column %q", in.Header, tt.title)
			}
		})
	}
}
