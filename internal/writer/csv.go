package writer

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"unicode/utf8"

	"github.com/fatih/color"

	"github.com/Lumos-Labs-HQ/qsynth/internal/seeder"
)

// CSVWriter writes one CSV file per dataset with a header row in declared
// column order. Params: index (bool) prepends a 0-based row index column,
// delimiter sets the field separator.
type CSVWriter struct{}

func (w *CSVWriter) Init(path string) error {
	color.Cyan("📝 Writing CSV to %s", path)
	return nil
}

func (w *CSVWriter) Write(_ context.Context, ds *Dataset) error {
	if err := ensurePath(ds.Path); err != nil {
		return err
	}
	f, err := os.Create(ds.Path)
	if err != nil {
		return fmt.Errorf("failed to create CSV file for %s: %w", ds.Name(), err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	if d := ds.Params.String("delimiter", ""); d != "" {
		r, _ := utf8.DecodeRuneInString(d)
		cw.Comma = r
	}
	index := ds.Params.Bool("index", false)

	header := ds.Table.Columns
	if index {
		header = append([]string{""}, header...)
	}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header for %s: %w", ds.Name(), err)
	}

	for i, row := range ds.Table.Rows {
		record := make([]string, 0, len(header))
		if index {
			record = append(record, strconv.Itoa(i))
		}
		for _, v := range row {
			record = append(record, seeder.FormatValue(v))
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed to write CSV row for %s: %w", ds.Name(), err)
		}
	}
	cw.Flush()
	return cw.Error()
}

func (w *CSVWriter) Finalize() error { return nil }
