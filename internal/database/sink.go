package database

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/fatih/color"

	"github.com/Lumos-Labs-HQ/qsynth/internal/database/common"
	"github.com/Lumos-Labs-HQ/qsynth/internal/seeder"
)

type LoadOptions struct {
	// Drop recreates every table; otherwise tables are created if missing.
	Drop    bool
	Batch   int
	Verbose bool
}

// Load creates and fills one table per generated table inside a single
// transaction. Tables must be given in generation order.
func Load(ctx context.Context, adapter DatabaseAdapter, tables []*seeder.Table, opts LoadOptions) error {
	if len(tables) == 0 {
		return nil
	}
	batchSize := opts.Batch
	if batchSize <= 0 {
		batchSize = 100
	}

	defs := make([]common.TableDef, len(tables))
	names := make([]string, len(tables))
	for i, t := range tables {
		defs[i] = common.TableDefOf(t)
		if err := defs[i].Validate(); err != nil {
			return err
		}
		if slices.Contains(names[:i], t.Name) {
			return fmt.Errorf("table %s is generated by more than one model", t.Name)
		}
		names[i] = t.Name
	}

	if opts.Verbose {
		color.Cyan("📋 Insertion order: %s", strings.Join(names, " → "))
	}

	tx, err := adapter.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	if opts.Verbose {
		color.Cyan("🔒 Transaction started")
	}

	if err := load(ctx, adapter, tx, tables, defs, opts.Drop, batchSize, opts.Verbose); err != nil {
		if opts.Verbose {
			color.Yellow("🔄 Rolling back transaction due to error...")
		}
		if rbErr := tx.Rollback(ctx); rbErr != nil {
			return fmt.Errorf("load failed and rollback failed: %v (original: %w)", rbErr, err)
		}
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		_ = tx.Rollback(ctx)
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	if opts.Verbose {
		color.Cyan("🔓 Transaction committed")
	}
	return nil
}

func load(ctx context.Context, adapter DatabaseAdapter, tx Tx, tables []*seeder.Table, defs []common.TableDef, drop bool, batchSize int, verbose bool) error {
	dialect := adapter.Dialect()

	if drop {
		for i := len(defs) - 1; i >= 0; i-- {
			if err := tx.Exec(ctx, dialect.DropTableSQL(defs[i].Name)); err != nil {
				return fmt.Errorf("failed to drop table %s: %w", defs[i].Name, err)
			}
		}
	}

	for i, t := range tables {
		def := defs[i]
		if err := tx.Exec(ctx, dialect.CreateTableSQL(def, !drop)); err != nil {
			return fmt.Errorf("failed to create table %s: %w", def.Name, err)
		}
		if err := insertRows(ctx, adapter, tx, t, def, batchSize); err != nil {
			return fmt.Errorf("failed to seed table %s: %w", def.Name, err)
		}
		if verbose {
			color.Green("  ✅ %s loaded (%d records)", def.Name, t.Len())
		}
	}
	return nil
}

func insertRows(ctx context.Context, adapter DatabaseAdapter, tx Tx, t *seeder.Table, def common.TableDef, batchSize int) error {
	dialect := adapter.Dialect()
	columns := make([]string, len(def.Columns))
	for i, c := range def.Columns {
		columns[i] = dialect.Quote(c.Name)
	}

	for start := 0; start < t.Len(); start += batchSize {
		end := min(start+batchSize, t.Len())
		insert := adapter.StatementBuilder().Insert(dialect.Quote(def.Name)).Columns(columns...)
		for _, row := range t.Rows[start:end] {
			values := make([]any, len(row))
			for j, v := range row {
				values[j] = argFor(dialect, def.Columns[j].Kind, v)
			}
			insert = insert.Values(values...)
		}

		query, args, err := insert.ToSql()
		if err != nil {
			return fmt.Errorf("failed to build insert: %w", err)
		}
		if err := tx.Exec(ctx, query, args...); err != nil {
			return fmt.Errorf("failed to insert batch: %w", err)
		}
	}
	return nil
}

// argFor renders values of mixed-kind text columns as text so the driver
// sees one type per column.
func argFor(dialect common.Dialect, kind seeder.Kind, v any) any {
	if v == nil {
		return nil
	}
	if kind == seeder.KindString {
		if _, ok := v.(string); !ok {
			return seeder.FormatValue(v)
		}
	}
	return dialect.Arg(v)
}
