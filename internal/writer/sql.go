package writer

import (
	"fmt"
	"strings"

	"github.com/fatih/color"

	"github.com/Lumos-Labs-HQ/qsynth/internal/database/common"
)

// SQLWriter collects every dataset into one portable SQL script: per dataset
// a header comment, DROP TABLE, CREATE TABLE and one INSERT per row.
type SQLWriter struct {
	collector
}

func (w *SQLWriter) Init(path string) error {
	color.Cyan("📝 Writing SQL script to %s", path)
	return nil
}

func (w *SQLWriter) Finalize() error {
	if len(w.datasets) == 0 {
		return nil
	}

	b := getBuilder()
	defer putBuilder(b)

	for _, ds := range w.datasets {
		if err := writeSQLDataset(b, ds); err != nil {
			return err
		}
	}

	return w.writeString(b.String())
}

func writeSQLDataset(b *strings.Builder, ds *Dataset) error {
	def := common.TableDefOf(ds.Table)
	if err := def.Validate(); err != nil {
		return err
	}

	fmt.Fprintf(b, "-- ==== %s %s ====\n", ds.Model.Name, def.Name)
	fmt.Fprintf(b, "%s;\n", common.ANSI.DropTableSQL(def.Name))
	fmt.Fprintf(b, "%s;\n", common.ANSI.CreateTableSQL(def, false))

	columns := strings.Join(ds.Table.Columns, ", ")
	for _, row := range ds.Table.Rows {
		values := make([]string, len(row))
		for i, v := range row {
			values[i] = common.Literal(v)
		}
		fmt.Fprintf(b, "INSERT INTO %s (%s) VALUES (%s);\n", def.Name, columns, strings.Join(values, ", "))
	}
	b.WriteString("\n")
	return nil
}
