package writer

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
)

// JSONWriter writes each dataset as a JSON array of objects whose keys keep
// the declared column order. Param indent sets the indentation width.
type JSONWriter struct{}

func (w *JSONWriter) Init(path string) error {
	color.Cyan("📝 Writing JSON to %s", path)
	return nil
}

func (w *JSONWriter) Write(_ context.Context, ds *Dataset) error {
	if err := ensurePath(ds.Path); err != nil {
		return err
	}

	rows := ds.Table.Records()

	var data []byte
	var err error
	if indent := ds.Params.Int("indent", 2); indent > 0 {
		data, err = json.MarshalIndent(rows, "", strings.Repeat(" ", indent))
	} else {
		data, err = json.Marshal(rows)
	}
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", ds.Name(), err)
	}
	if err := os.WriteFile(ds.Path, data, 0644); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}
	return nil
}

func (w *JSONWriter) Finalize() error { return nil }
