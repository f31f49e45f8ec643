package cli

import (
	"context"

	"github.com/matzehuels/funnelchart/pkg/source"
)

// readTable loads the raw table from a CSV, TSV, XLSX or JSON file.
func readTable(ctx context.Context, path string, f *chartFlags) ([][]any, error) {
	logger := loggerFromContext(ctx)
	table, err := source.ReadFile(ctx, path, source.Options{Sheet: f.sheet, Range: f.cellRng})
	if err != nil {
		return nil, err
	}
	logger.Debug("read table", "path", path, "format", source.FormatOf(path), "rows", len(table))
	return table, nil
}
