package mongodb

import (
	"testing"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func TestDatabaseName(t *testing.T) {
	tests := []struct {
		name string
		url  string
		want string
	}{
		{"path", "mongodb://localhost:27017/shop", "shop"},
		{"path with query", "mongodb://user:pw@localhost:27017/shop?retryWrites=true", "shop"},
		{"admin falls back", "mongodb://localhost:27017/admin", "test"},
		{"no path", "mongodb://localhost:27017", "test"},
		{"auth source", "mongodb://user:pw@localhost:27017/?authSource=reports", "reports"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := options.Client().ApplyURI(tt.url)
			if got := DatabaseName(tt.url, opts); got != tt.want {
				t.Errorf("DatabaseName(%q) = %q, want %q", tt.url, got, tt.want)
			}
		})
	}
}

func TestDocumentKeepsColumnOrder(t *testing.T) {
	doc := Document([]string{"b", "a", "c"}, []any{int64(1), "x", nil})
	want := bson.D{{Key: "b", Value: int64(1)}, {Key: "a", Value: "x"}, {Key: "c", Value: nil}}
	if len(doc) != len(want) {
		t.Fatalf("got %d fields, want %d", len(doc), len(want))
	}
	for i := range want {
		if doc[i] != want[i] {
			t.Errorf("field %d = %v, want %v", i, doc[i], want[i])
		}
	}
}
