package writer

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/xitongsys/parquet-go-source/writerfile"
	"github.com/xitongsys/parquet-go/parquet"
	pqwriter "github.com/xitongsys/parquet-go/writer"

	"github.com/Lumos-Labs-HQ/qsynth/internal/seeder"
)

// ParquetWriter writes one SNAPPY-compressed parquet file per dataset. The
// parquet schema follows the inferred column kinds.
type ParquetWriter struct{}

func (w *ParquetWriter) Init(path string) error {
	color.Cyan("📝 Writing parquet to %s", path)
	return nil
}

func (w *ParquetWriter) Write(_ context.Context, ds *Dataset) error {
	if err := ensurePath(ds.Path); err != nil {
		return err
	}
	f, err := os.Create(ds.Path)
	if err != nil {
		return fmt.Errorf("failed to create parquet file for %s: %w", ds.Name(), err)
	}
	defer f.Close()

	kinds := ds.Table.Kinds()
	pfw := writerfile.NewWriterFile(f)
	pw, err := pqwriter.NewJSONWriter(buildParquetSchema(ds.Table.Columns, kinds), pfw, 4)
	if err != nil {
		return fmt.Errorf("failed to create parquet writer for %s: %w", ds.Name(), err)
	}
	pw.CompressionType = parquet.CompressionCodec_SNAPPY

	for i, row := range ds.Table.Rows {
		rec, err := projectParquetRow(ds.Table.Columns, kinds, row)
		if err != nil {
			_ = pw.WriteStop()
			return fmt.Errorf("%s row %d: %w", ds.Name(), i, err)
		}
		if err := pw.Write(rec); err != nil {
			_ = pw.WriteStop()
			return fmt.Errorf("failed to write parquet row %d of %s: %w", i, ds.Name(), err)
		}
	}
	if err := pw.WriteStop(); err != nil {
		return fmt.Errorf("failed to finish parquet file for %s: %w", ds.Name(), err)
	}
	return nil
}

func (w *ParquetWriter) Finalize() error { return nil }

func buildParquetSchema(columns []string, kinds []seeder.Kind) string {
	fields := make([]map[string]string, 0, len(columns))
	for i, name := range columns {
		fields = append(fields, map[string]string{
			"Tag": fmt.Sprintf("name=%s, %s, repetitiontype=OPTIONAL", name, parquetPhysicalType(kinds[i])),
		})
	}
	out := map[string]any{
		"Tag":    "name=parquet_go_root, repetitiontype=REQUIRED",
		"Fields": fields,
	}
	b, _ := json.Marshal(out)
	return string(b)
}

func parquetPhysicalType(kind seeder.Kind) string {
	switch kind {
	case seeder.KindBool:
		return "type=BOOLEAN"
	case seeder.KindInt:
		return "type=INT64"
	case seeder.KindFloat:
		return "type=DOUBLE"
	default:
		return "type=BYTE_ARRAY, convertedtype=UTF8"
	}
}

// projectParquetRow encodes one row as the JSON document the parquet JSON
// writer expects. Values are coerced to the column kind.
func projectParquetRow(columns []string, kinds []seeder.Kind, row []any) (string, error) {
	rec := make(map[string]any, len(columns))
	for i, name := range columns {
		v := row[i]
		switch {
		case v == nil:
			rec[name] = nil
		case kinds[i] == seeder.KindFloat:
			if n, ok := v.(int64); ok {
				v = float64(n)
			}
			rec[name] = v
		case kinds[i] == seeder.KindInt || kinds[i] == seeder.KindBool:
			rec[name] = v
		default:
			rec[name] = seeder.FormatValue(v)
		}
	}
	b, err := json.Marshal(rec)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
