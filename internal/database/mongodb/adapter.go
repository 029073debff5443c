package mongodb

import (
	"context"
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Lumos-Labs-HQ/qsynth/internal/seeder"
)

type Adapter struct {
	client   *mongo.Client
	database *mongo.Database
	dbName   string
}

func New() *Adapter {
	return &Adapter{}
}

func (a *Adapter) Connect(ctx context.Context, url string) error {
	clientOpts := options.Client().ApplyURI(url)
	client, err := mongo.Connect(ctx, clientOpts)
	if err != nil {
		return fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	a.client = client
	a.dbName = DatabaseName(url, clientOpts)
	a.database = client.Database(a.dbName)
	return nil
}

// DatabaseName picks the database from the URL path, then the auth source,
// then falls back to "test".
func DatabaseName(url string, opts *options.ClientOptions) string {
	parts := strings.Split(url, "/")
	if len(parts) > 3 {
		dbPart := parts[len(parts)-1]
		if idx := strings.Index(dbPart, "?"); idx >= 0 {
			dbPart = dbPart[:idx]
		}
		if dbPart != "" && dbPart != "admin" {
			return dbPart
		}
	}

	if opts != nil && opts.Auth != nil && opts.Auth.AuthSource != "" && opts.Auth.AuthSource != "admin" {
		return opts.Auth.AuthSource
	}

	return "test"
}

// Use switches the database documents are written to.
func (a *Adapter) Use(name string) {
	a.dbName = name
	if a.client != nil {
		a.database = a.client.Database(name)
	}
}

// Name returns the database documents are written to.
func (a *Adapter) Name() string {
	return a.dbName
}

func (a *Adapter) Close() error {
	if a.client != nil {
		return a.client.Disconnect(context.Background())
	}
	return nil
}

func (a *Adapter) Ping(ctx context.Context) error {
	return a.client.Ping(ctx, nil)
}

func (a *Adapter) DropCollection(ctx context.Context, name string) error {
	if a.database == nil {
		return fmt.Errorf("database not connected")
	}
	return a.database.Collection(name).Drop(ctx)
}

// InsertTable writes every row of t as a document into the collection named
// after the table, batch documents per round trip.
func (a *Adapter) InsertTable(ctx context.Context, t *seeder.Table, batch int) (int, error) {
	if a.database == nil {
		return 0, fmt.Errorf("database not connected")
	}
	if batch <= 0 {
		batch = 100
	}

	coll := a.database.Collection(t.Name)
	inserted := 0
	for start := 0; start < t.Len(); start += batch {
		end := min(start+batch, t.Len())
		docs := make([]any, 0, end-start)
		for i := start; i < end; i++ {
			docs = append(docs, Document(t.Columns, t.Rows[i]))
		}
		res, err := coll.InsertMany(ctx, docs, options.InsertMany().SetOrdered(true))
		if err != nil {
			return inserted, fmt.Errorf("failed to insert into %s: %w", t.Name, err)
		}
		inserted += len(res.InsertedIDs)
	}
	return inserted, nil
}

// Document keeps the column order of a row.
func Document(columns []string, values []any) bson.D {
	doc := make(bson.D, len(columns))
	for i, c := range columns {
		doc[i] = bson.E{Key: c, Value: values[i]}
	}
	return doc
}
