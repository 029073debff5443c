package seeder

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

// Key identifies a generated table within a run.
type Key struct {
	Model  string
	Schema string
}

func (k Key) String() string {
	return k.Model + "." + k.Schema
}

// Table is the materialized data of one schema. Rows hold one value per
// column in declared column order. A published table is never mutated.
type Table struct {
	Model   string
	Name    string
	Columns []string
	Rows    [][]any

	kinds []Kind
}

func newTable(modelName, name string, columns []string, rows int) *Table {
	return &Table{
		Model:   modelName,
		Name:    name,
		Columns: columns,
		Rows:    make([][]any, 0, rows),
	}
}

func (t *Table) Key() Key {
	return Key{Model: t.Model, Schema: t.Name}
}

// Len returns the number of rows.
func (t *Table) Len() int {
	return len(t.Rows)
}

// ColumnIndex returns the position of a column, or -1.
func (t *Table) ColumnIndex(name string) int {
	for i, c := range t.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

// Column returns all values of one column in row order.
func (t *Table) Column(name string) ([]any, bool) {
	idx := t.ColumnIndex(name)
	if idx < 0 {
		return nil, false
	}
	out := make([]any, len(t.Rows))
	for i, row := range t.Rows {
		out[i] = row[idx]
	}
	return out, true
}

// Row returns row i as an ordered record.
func (t *Table) Row(i int) Row {
	return Row{columns: t.Columns, values: t.Rows[i]}
}

// Records returns every row as an ordered record.
func (t *Table) Records() []Row {
	out := make([]Row, len(t.Rows))
	for i := range t.Rows {
		out[i] = t.Row(i)
	}
	return out
}

// Kinds returns the inferred scalar kind of every column.
func (t *Table) Kinds() []Kind {
	if t.kinds != nil {
		return t.kinds
	}
	return t.computeKinds()
}

// seal fixes the column kinds before the table is published; after that the
// table is only read.
func (t *Table) seal() {
	t.kinds = t.computeKinds()
}

func (t *Table) computeKinds() []Kind {
	kinds := make([]Kind, len(t.Columns))
	for i := range t.Columns {
		kinds[i] = t.inferKind(i)
	}
	return kinds
}

func (t *Table) inferKind(col int) Kind {
	kind := KindUnknown
	for _, row := range t.Rows {
		k := KindOf(row[col])
		if k == KindUnknown {
			continue
		}
		kind = mergeKinds(kind, k)
	}
	if kind == KindUnknown {
		return KindString
	}
	return kind
}

// Row is an ordered mapping from column name to value.
type Row struct {
	columns []string
	values  []any
}

func (r Row) Columns() []string { return r.columns }
func (r Row) Values() []any     { return r.values }

// Get returns the value of a column.
func (r Row) Get(name string) (any, bool) {
	for i, c := range r.columns {
		if c == name {
			return r.values[i], true
		}
	}
	return nil, false
}

// Map returns the row as an unordered map.
func (r Row) Map() map[string]any {
	out := make(map[string]any, len(r.columns))
	for i, c := range r.columns {
		out[c] = r.values[i]
	}
	return out
}

// MarshalJSON keeps the declared column order. Dates are written as
// YYYY-MM-DD, timestamps as RFC 3339.
func (r Row) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, c := range r.columns {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(c)
		if err != nil {
			return nil, err
		}
		v := r.values[i]
		if t, ok := v.(time.Time); ok && KindOf(t) == KindDate {
			v = t.Format(dateLayout)
		}
		val, err := json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("column %s: %w", c, err)
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Kind is the scalar kind of a generated column.
type Kind int

const (
	KindUnknown Kind = iota
	KindInt
	KindFloat
	KindString
	KindBool
	KindDate
	KindTimestamp
)

func (k Kind) String() string {
	switch k {
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	case KindBool:
		return "bool"
	case KindDate:
		return "date"
	case KindTimestamp:
		return "timestamp"
	default:
		return "unknown"
	}
}

// KindOf classifies a normalized value. nil is KindUnknown.
func KindOf(v any) Kind {
	switch x := v.(type) {
	case int64:
		return KindInt
	case float64:
		return KindFloat
	case string:
		return KindString
	case bool:
		return KindBool
	case time.Time:
		if x.Hour() == 0 && x.Minute() == 0 && x.Second() == 0 && x.Nanosecond() == 0 {
			return KindDate
		}
		return KindTimestamp
	default:
		return KindUnknown
	}
}

func mergeKinds(a, b Kind) Kind {
	switch {
	case a == KindUnknown:
		return b
	case a == b:
		return a
	case (a == KindInt && b == KindFloat) || (a == KindFloat && b == KindInt):
		return KindFloat
	case (a == KindDate && b == KindTimestamp) || (a == KindTimestamp && b == KindDate):
		return KindTimestamp
	default:
		return KindString
	}
}

// normalize maps producer output onto the scalar set tables hold:
// int64, float64, string, bool, time.Time and nil.
func normalize(v any) any {
	switch x := v.(type) {
	case nil, int64, float64, string, bool, time.Time:
		return x
	case int:
		return int64(x)
	case int8:
		return int64(x)
	case int16:
		return int64(x)
	case int32:
		return int64(x)
	case uint:
		return int64(x)
	case uint8:
		return int64(x)
	case uint16:
		return int64(x)
	case uint32:
		return int64(x)
	case uint64:
		return int64(x)
	case float32:
		return float64(x)
	case *time.Time:
		if x == nil {
			return nil
		}
		return *x
	case fmt.Stringer:
		return x.String()
	default:
		return fmt.Sprint(x)
	}
}

// FormatValue renders a table value as text: dates as YYYY-MM-DD, timestamps
// as RFC 3339, nil as the empty string.
func FormatValue(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case int64:
		return strconv.FormatInt(x, 10)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(x)
	case time.Time:
		if KindOf(x) == KindDate {
			return x.Format(dateLayout)
		}
		return x.Format(time.RFC3339)
	default:
		return fmt.Sprint(x)
	}
}
