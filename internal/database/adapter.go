package database

import (
	"context"

	"github.com/Masterminds/squirrel"

	"github.com/Lumos-Labs-HQ/qsynth/internal/database/common"
)

// DatabaseAdapter is a SQL database generated tables can be loaded into.
type DatabaseAdapter interface {
	Connect(ctx context.Context, url string) error
	Close() error
	Ping(ctx context.Context) error

	Begin(ctx context.Context) (Tx, error)

	// SQL generation
	Dialect() common.Dialect
	StatementBuilder() squirrel.StatementBuilderType
}

type Tx = common.Tx
