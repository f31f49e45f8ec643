// Package source reads raw funnel tables from files.
//
// A table is the cell grid the user selected: rows of cells, the first of
// which may be a header. Cells keep their native type where the format has
// one (JSON numbers, spreadsheet values), and funnel.FromCells decides what
// is a label and what is a number.
//
// Readers are looked up by file extension in [Readers]:
//
//	.csv .tsv      delimited text
//	.xlsx .xlsm    Excel workbooks, optionally narrowed to a sheet and range
//	.json          an array of rows, or {"header": [...], "rows": [...]}
package source

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/matzehuels/funnelchart/pkg/errors"
)

// Options narrows what a reader returns.
type Options struct {
	// Sheet selects a workbook sheet. Empty uses the active sheet.
	Sheet string
	// Range selects a cell range such as "A1:B6". Empty uses every used cell.
	Range string
}

// Reader decodes a table from r.
type Reader interface {
	Read(ctx context.Context, r io.Reader, opts Options) ([][]any, error)
}

// ReaderFunc adapts a function to a Reader.
type ReaderFunc func(ctx context.Context, r io.Reader, opts Options) ([][]any, error)

// Read calls f.
func (f ReaderFunc) Read(ctx context.Context, r io.Reader, opts Options) ([][]any, error) {
	return f(ctx, r, opts)
}

// Readers maps a format name (a file extension without the dot) to its reader.
var Readers = map[string]Reader{
	"csv":  ReaderFunc(readCSV(',')),
	"tsv":  ReaderFunc(readCSV('\t')),
	"xlsx": ReaderFunc(readXLSX),
	"xlsm": ReaderFunc(readXLSX),
	"json": ReaderFunc(readJSON),
}

// Formats returns the supported format names, sorted.
func Formats() []string {
	names := make([]string, 0, len(Readers))
	for name := range Readers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// FormatOf returns the format name for path based on its extension.
func FormatOf(path string) string {
	return strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
}

// ReadFile reads the table in path using the reader for its extension.
func ReadFile(ctx context.Context, path string, opts Options) ([][]any, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "file not found: %s", path)
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadFrom(ctx, f, FormatOf(path), opts)
}

// ReadFrom reads a table in the named format from r.
func ReadFrom(ctx context.Context, r io.Reader, format string, opts Options) ([][]any, error) {
	reader, ok := Readers[strings.ToLower(format)]
	if !ok {
		return nil, errors.New(errors.ErrCodeUnsupported, "unsupported input format %q (supported: %s)",
			format, strings.Join(Formats(), ", "))
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return reader.Read(ctx, r, opts)
}
