package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	_ "github.com/mattn/go-sqlite3"

	"github.com/Lumos-Labs-HQ/qsynth/internal/database/common"
	"github.com/Lumos-Labs-HQ/qsynth/internal/seeder"
)

type Adapter struct {
	db   *sql.DB
	qb   squirrel.StatementBuilderType
	path string
}

var typeMap = map[seeder.Kind]string{
	seeder.KindInt:       "INTEGER",
	seeder.KindFloat:     "REAL",
	seeder.KindString:    "TEXT",
	seeder.KindBool:      "INTEGER",
	seeder.KindDate:      "TEXT",
	seeder.KindTimestamp: "TEXT",
}

func New() *Adapter {
	return &Adapter{
		qb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question),
	}
}

func (s *Adapter) Connect(ctx context.Context, url string) error {
	dbPath := strings.TrimPrefix(url, "sqlite://")
	s.path = dbPath
	if idx := strings.Index(s.path, "?"); idx > 0 {
		s.path = s.path[:idx]
	}
	if !strings.Contains(dbPath, "?") {
		dbPath += "?_journal_mode=WAL"
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return fmt.Errorf("failed to open SQLite connection: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetConnMaxIdleTime(5 * time.Minute)

	s.db = db
	return nil
}

// Path returns the database file the adapter is connected to.
func (s *Adapter) Path() string {
	return s.path
}

func (s *Adapter) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *Adapter) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *Adapter) Begin(ctx context.Context) (common.Tx, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	return &common.SQLTx{Tx: tx}, nil
}

func (s *Adapter) Dialect() common.Dialect {
	return common.Dialect{
		Types: typeMap,
		Quote: func(name string) string { return `"` + strings.ReplaceAll(name, `"`, `""`) + `"` },
		Value: toSQLite,
	}
}

func (s *Adapter) StatementBuilder() squirrel.StatementBuilderType {
	return s.qb
}

// toSQLite stores dates as text in the same layout the SQL writer uses.
func toSQLite(v any) any {
	t, ok := v.(time.Time)
	if !ok {
		return v
	}
	if seeder.KindOf(t) == seeder.KindDate {
		return t.Format("2006-01-02")
	}
	return t.Format("2006-01-02 15:04:05")
}
