package writer

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"regexp"
	"time"

	"github.com/fatih/color"
	"github.com/hamba/avro/v2/ocf"

	"github.com/Lumos-Labs-HQ/qsynth/internal/seeder"
)

var avroInvalid = regexp.MustCompile(`[^A-Za-z0-9_]`)

// AvroWriter writes one Avro object container file per dataset. The record is
// named after the dataset; fields follow the inferred column kinds.
// Param codec selects null, deflate or snappy (default deflate).
type AvroWriter struct{}

func (w *AvroWriter) Init(path string) error {
	color.Cyan("📝 Writing Avro to %s", path)
	return nil
}

func (w *AvroWriter) Write(_ context.Context, ds *Dataset) error {
	if err := ensurePath(ds.Path); err != nil {
		return err
	}
	kinds := ds.Table.Kinds()
	schema, err := buildAvroSchema(ds.Model.Name, ds.Name(), ds.Table.Columns, kinds)
	if err != nil {
		return err
	}

	f, err := os.Create(ds.Path)
	if err != nil {
		return fmt.Errorf("failed to create Avro file for %s: %w", ds.Name(), err)
	}
	defer f.Close()

	codec := ocf.CodecName(ds.Params.String("codec", string(ocf.Deflate)))
	enc, err := ocf.NewEncoder(schema, f, ocf.WithCodec(codec))
	if err != nil {
		return fmt.Errorf("failed to create Avro encoder for %s: %w", ds.Name(), err)
	}
	names := avroFieldNames(ds.Table.Columns)
	for i, row := range ds.Table.Rows {
		rec := make(map[string]any, len(row))
		for c, v := range row {
			rec[names[c]] = avroValue(kinds[c], v)
		}
		if err := enc.Encode(rec); err != nil {
			return fmt.Errorf("failed to encode row %d of %s: %w", i, ds.Name(), err)
		}
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("failed to close Avro file for %s: %w", ds.Name(), err)
	}
	return nil
}

func (w *AvroWriter) Finalize() error { return nil }

func avroName(s string) string {
	s = avroInvalid.ReplaceAllString(s, "_")
	if s == "" || (s[0] >= '0' && s[0] <= '9') {
		s = "_" + s
	}
	return s
}

func avroFieldNames(columns []string) []string {
	out := make([]string, len(columns))
	for i, c := range columns {
		out[i] = avroName(c)
	}
	return out
}

func avroType(kind seeder.Kind) any {
	switch kind {
	case seeder.KindInt:
		return "long"
	case seeder.KindFloat:
		return "double"
	case seeder.KindBool:
		return "boolean"
	case seeder.KindDate:
		return map[string]string{"type": "int", "logicalType": "date"}
	case seeder.KindTimestamp:
		return map[string]string{"type": "long", "logicalType": "timestamp-millis"}
	default:
		return "string"
	}
}

func buildAvroSchema(namespace, name string, columns []string, kinds []seeder.Kind) (string, error) {
	names := avroFieldNames(columns)
	fields := make([]map[string]any, len(columns))
	for i := range columns {
		fields[i] = map[string]any{"name": names[i], "type": avroType(kinds[i])}
	}
	schema := map[string]any{
		"type":      "record",
		"name":      avroName(name),
		"namespace": avroName(namespace),
		"fields":    fields,
	}
	b, err := json.Marshal(schema)
	if err != nil {
		return "", fmt.Errorf("failed to build Avro schema for %s: %w", name, err)
	}
	return string(b), nil
}

// avroValue coerces a value to the Go type the field schema encodes. Fields
// are not nullable, so nil becomes the zero value of the kind.
func avroValue(kind seeder.Kind, v any) any {
	switch kind {
	case seeder.KindInt:
		n, _ := v.(int64)
		return n
	case seeder.KindFloat:
		switch x := v.(type) {
		case float64:
			return x
		case int64:
			return float64(x)
		}
		return float64(0)
	case seeder.KindBool:
		b, _ := v.(bool)
		return b
	case seeder.KindDate, seeder.KindTimestamp:
		t, _ := v.(time.Time)
		return t
	default:
		return seeder.FormatValue(v)
	}
}
