package source

import (
	"bytes"
	"context"
	"encoding/json"
	"io"

	"github.com/matzehuels/funnelchart/pkg/errors"
)

// jsonTable is the object form of a JSON table.
type jsonTable struct {
	Header []string `json:"header"`
	Rows   []struct {
		Label string `json:"label"`
		Value any    `json:"value"`
	} `json:"rows"`
}

func readJSON(ctx context.Context, r io.Reader, opts Options) ([][]any, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	data = bytes.TrimSpace(data)

	if len(data) > 0 && data[0] == '[' {
		var table [][]any
		if err := json.Unmarshal(data, &table); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "invalid JSON table")
		}
		return table, nil
	}

	var obj jsonTable
	if err := json.Unmarshal(data, &obj); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "invalid JSON table")
	}
	table := make([][]any, 0, len(obj.Rows)+1)
	if len(obj.Header) > 0 {
		header := make([]any, len(obj.Header))
		for i, h := range obj.Header {
			header[i] = h
		}
		table = append(table, header)
	}
	for _, row := range obj.Rows {
		table = append(table, []any{row.Label, row.Value})
	}
	return table, nil
}
