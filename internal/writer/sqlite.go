package writer

import (
	"context"
	"fmt"

	"github.com/fatih/color"

	"github.com/Lumos-Labs-HQ/qsynth/internal/database"
	"github.com/Lumos-Labs-HQ/qsynth/internal/database/sqlite"
	"github.com/Lumos-Labs-HQ/qsynth/internal/seeder"
)

// SQLiteWriter loads every dataset into a fresh sqlite database file. Param
// batch sets the rows per INSERT.
type SQLiteWriter struct {
	collector
}

func (w *SQLiteWriter) Init(path string) error {
	color.Cyan("📝 Writing SQLite database to %s", path)
	return nil
}

func (w *SQLiteWriter) Finalize() error {
	if len(w.datasets) == 0 {
		return nil
	}
	if err := ensurePath(w.path); err != nil {
		return err
	}

	ctx := context.Background()
	adapter := sqlite.New()
	if err := adapter.Connect(ctx, w.path); err != nil {
		return err
	}
	defer adapter.Close()

	tables := make([]*seeder.Table, len(w.datasets))
	for i, ds := range w.datasets {
		tables[i] = ds.Table
	}

	opts := database.LoadOptions{Drop: true, Batch: w.params.Int("batch", 100)}
	if err := database.Load(ctx, adapter, tables, opts); err != nil {
		return fmt.Errorf("failed to write sqlite database %s: %w", w.path, err)
	}
	return nil
}
