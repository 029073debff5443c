package common

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/Lumos-Labs-HQ/qsynth/internal/seeder"
)

// validIdentifier matches table and column names that are safe to interpolate
var validIdentifier = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

func IsValidIdentifier(name string) bool {
	return validIdentifier.MatchString(name)
}

// Column is one column of a table to create.
type Column struct {
	Name     string
	Kind     seeder.Kind
	Nullable bool
}

// TableDef describes a table to create from a generated table.
type TableDef struct {
	Name    string
	Columns []Column
}

// TableDefOf derives column kinds and nullability from the generated data.
func TableDefOf(t *seeder.Table) TableDef {
	kinds := t.Kinds()
	def := TableDef{Name: t.Name, Columns: make([]Column, len(t.Columns))}
	for i, name := range t.Columns {
		def.Columns[i] = Column{Name: name, Kind: kinds[i]}
	}
	for _, row := range t.Rows {
		for i, v := range row {
			if v == nil {
				def.Columns[i].Nullable = true
			}
		}
	}
	return def
}

// Validate rejects identifiers that cannot be interpolated safely.
func (d TableDef) Validate() error {
	if !IsValidIdentifier(d.Name) {
		return fmt.Errorf("invalid table name: %s", d.Name)
	}
	for _, c := range d.Columns {
		if !IsValidIdentifier(c.Name) {
			return fmt.Errorf("invalid column name in table %s: %s", d.Name, c.Name)
		}
	}
	return nil
}

// Dialect holds what differs between SQL databases when creating and
// filling tables.
type Dialect struct {
	Types map[seeder.Kind]string
	Quote func(string) string
	// Value converts a table value to a driver argument; nil keeps it as is.
	Value func(any) any
}

// ANSI is the dialect of the portable SQL script writer.
var ANSI = Dialect{
	Types: map[seeder.Kind]string{
		seeder.KindInt:       "INT",
		seeder.KindFloat:     "DECIMAL(15,4)",
		seeder.KindString:    "VARCHAR(255)",
		seeder.KindBool:      "BOOLEAN",
		seeder.KindDate:      "DATE",
		seeder.KindTimestamp: "TIMESTAMP",
	},
	Quote: func(s string) string { return s },
}

func (d Dialect) ColumnType(kind seeder.Kind) string {
	if t, ok := d.Types[kind]; ok {
		return t
	}
	return d.Types[seeder.KindString]
}

// CreateTableSQL renders a CREATE TABLE statement. Columns without nil values
// are NOT NULL.
func (d Dialect) CreateTableSQL(def TableDef, ifNotExists bool) string {
	var b strings.Builder
	b.WriteString("CREATE TABLE ")
	if ifNotExists {
		b.WriteString("IF NOT EXISTS ")
	}
	b.WriteString(d.Quote(def.Name))
	b.WriteString(" (\n")
	for i, c := range def.Columns {
		if i > 0 {
			b.WriteString(",\n")
		}
		fmt.Fprintf(&b, "\t%s %s", d.Quote(c.Name), d.ColumnType(c.Kind))
		if !c.Nullable {
			b.WriteString(" NOT NULL")
		}
	}
	b.WriteString("\n)")
	return b.String()
}

// Arg converts a table value for the driver.
func (d Dialect) Arg(v any) any {
	if d.Value == nil {
		return v
	}
	return d.Value(v)
}

func (d Dialect) DropTableSQL(name string) string {
	return "DROP TABLE IF EXISTS " + d.Quote(name)
}

// Literal formats a value as a SQL literal. Strings double their single quotes.
func Literal(v any) string {
	switch x := v.(type) {
	case nil:
		return "NULL"
	case string:
		return "'" + strings.ReplaceAll(x, "'", "''") + "'"
	case int64:
		return strconv.FormatInt(x, 10)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case bool:
		if x {
			return "TRUE"
		}
		return "FALSE"
	case time.Time:
		if seeder.KindOf(x) == seeder.KindDate {
			return "'" + x.Format("2006-01-02") + "'"
		}
		return "'" + x.Format("2006-01-02 15:04:05") + "'"
	default:
		return "'" + strings.ReplaceAll(fmt.Sprint(x), "'", "''") + "'"
	}
}
