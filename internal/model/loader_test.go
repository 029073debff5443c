package model

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

const sampleDocument = `
models:
  - name: shop
    locales: [en-US, de-DE]
    schemas:
      - name: customers
        rows: 10
        description: people who buy things
        attributes:
          - name: id
            type: uuid4
          - name: name
            type: name
      - name: orders
        rows: {min: 5, max: 20}
        attributes:
          - name: customer_id
            type: ${ref}
            params:
              dataset: customers
              attribute: id
          - name: amount
            type: random_int
            params: {min: 1, max: 100}
  - name: audit
    locales: pl-PL
    schemas:
      - name: log
        rows: {max: 3}
        attributes:
          - name: message
            type: sentence
experiments:
  csv_out:
    type: csv
    path: out/{model-name}/{dataset-name}.csv
  feed:
    type: cron_feed
    path: feed/{dataset-name}-{cron-date}.csv
    cron: "0 * * * *"
    dates: {from: 2024-01-01, count: 3}
    writer: {name: csv}
`

func TestParseDocument(t *testing.T) {
	doc, err := Parse([]byte(sampleDocument))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if len(doc.Models) != 2 {
		t.Fatalf("expected 2 models, got %d", len(doc.Models))
	}

	shop := doc.Model("shop")
	if shop == nil {
		t.Fatal("model shop missing")
	}
	if !reflect.DeepEqual([]string(shop.Locales), []string{"en-US", "de-DE"}) {
		t.Errorf("locales = %v", shop.Locales)
	}
	if shop.Schema("customers").Rows != Rows(10) {
		t.Errorf("customers rows = %v", shop.Schema("customers").Rows)
	}
	if got := shop.Schema("orders").Rows; got != RowRange(5, 20) {
		t.Errorf("orders rows = %v", got)
	}
	if got := doc.Model("audit").Schema("log").Rows; got != RowRange(DefaultMinRows, 3) {
		t.Errorf("log rows = %v", got)
	}
	if got := doc.Model("audit").Locales; !reflect.DeepEqual([]string(got), []string{"pl-PL"}) {
		t.Errorf("audit locales = %v", got)
	}

	ref, err := shop.Schema("orders").Attribute("customer_id").Params.Ref()
	if err != nil {
		t.Fatalf("Ref failed: %v", err)
	}
	if ref.Dataset != "customers" || ref.Attribute != "id" || ref.Cord != OneToMany {
		t.Errorf("unexpected ref params %+v", ref)
	}

	rp, err := shop.Schema("orders").Attribute("amount").Params.Range()
	if err != nil {
		t.Fatalf("Range failed: %v", err)
	}
	if rp.Min == nil || *rp.Min != 1 || rp.Max == nil || *rp.Max != 100 {
		t.Errorf("unexpected range params %+v", rp)
	}

	if got := doc.Experiments.Names(); !reflect.DeepEqual(got, []string{"csv_out", "feed"}) {
		t.Errorf("experiment names = %v", got)
	}
	feed, ok := doc.Experiments.Get("feed")
	if !ok {
		t.Fatal("experiment feed missing")
	}
	if feed.Dates.Count == nil || *feed.Dates.Count != 3 || feed.Writer.Name != "csv" {
		t.Errorf("unexpected feed %+v", feed)
	}
}

func TestDefaultLocale(t *testing.T) {
	doc, err := Parse([]byte("models:\n  - name: m\n    schemas: []\n"))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if got := doc.Models[0].Locale(); got != DefaultLocale {
		t.Errorf("locale = %q, want %q", got, DefaultLocale)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want string
	}{
		{
			name: "empty",
			doc:  "",
			want: "empty model document",
		},
		{
			name: "unknown field",
			doc:  "models:\n  - name: m\n    colour: red\n",
			want: "colour",
		},
		{
			name: "unknown rows field",
			doc:  "models:\n  - name: m\n    schemas:\n      - name: s\n        rows: {min: 1, most: 2}\n        attributes: []\n",
			want: "most",
		},
		{
			name: "inverted rows",
			doc:  "models:\n  - name: m\n    schemas:\n      - name: s\n        rows: {min: 9, max: 2}\n        attributes: []\n",
			want: "rows min (9) cannot be greater than max (2)",
		},
		{
			name: "negative rows",
			doc:  "models:\n  - name: m\n    schemas:\n      - name: s\n        rows: -1\n        attributes: []\n",
			want: "must not be negative",
		},
		{
			name: "duplicate schema",
			doc:  "models:\n  - name: m\n    schemas:\n      - {name: s, rows: 1, attributes: []}\n      - {name: s, rows: 1, attributes: []}\n",
			want: `duplicate schema name "s"`,
		},
		{
			name: "duplicate attribute",
			doc:  "models:\n  - name: m\n    schemas:\n      - name: s\n        rows: 1\n        attributes:\n          - {name: a, type: word}\n          - {name: a, type: word}\n",
			want: `duplicate attribute name "a"`,
		},
		{
			name: "bad cardinality",
			doc:  "models:\n  - name: m\n    schemas:\n      - name: s\n        rows: 1\n        attributes:\n          - {name: a, type: \"${ref}\", params: {dataset: s, attribute: a, cord: \"2-2\"}}\n",
			want: "unknown cardinality",
		},
		{
			name: "ref without dataset",
			doc:  "models:\n  - name: m\n    schemas:\n      - name: s\n        rows: 1\n        attributes:\n          - {name: a, type: \"${ref}\", params: {attribute: a}}\n",
			want: "params.dataset",
		},
		{
			name: "bad locale",
			doc:  "models:\n  - name: m\n    locales: \"not a locale!\"\n",
			want: "invalid locale",
		},
		{
			name: "cron feed without bounds",
			doc:  "models: []\nexperiments:\n  f:\n    type: cron_feed\n    path: x\n    cron: \"* * * * *\"\n    dates: {from: 2024-01-01}\n    writer: {name: csv}\n",
			want: "one of dates.to or dates.count must be present",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.doc))
			if err == nil {
				t.Fatalf("expected an error containing %q", tt.want)
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q does not contain %q", err.Error(), tt.want)
			}
		})
	}
}

func TestValidateReportsAllProblems(t *testing.T) {
	doc := &Document{Models: []*Model{{
		Name: "m",
		Schemas: []*Schema{
			{Name: "a", Rows: Rows(-1)},
			{Name: "b", Rows: RowRange(3, 1)},
		},
	}}}
	err := doc.Validate()
	if err == nil {
		t.Fatal("expected validation errors")
	}
	msg := err.Error()
	for _, want := range []string{`schema "a"`, `schema "b"`} {
		if !strings.Contains(msg, want) {
			t.Errorf("error %q does not mention %s", msg, want)
		}
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "model.yaml")
	if err := os.WriteFile(path, []byte(sampleDocument), 0644); err != nil {
		t.Fatal(err)
	}
	doc, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if doc.Path != path {
		t.Errorf("Path = %q, want %q", doc.Path, path)
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Errorf("expected an error for a missing file")
	}
}

func TestParamsAccessors(t *testing.T) {
	p := Params{"n": "12", "flag": "true", "list": []any{"a", "b"}, "one": "x"}
	if p.Int("n", 0) != 12 {
		t.Errorf("Int = %d", p.Int("n", 0))
	}
	if p.Int("missing", 7) != 7 {
		t.Errorf("Int default not applied")
	}
	if !p.Bool("flag", false) {
		t.Errorf("Bool = false")
	}
	if got := p.Strings("list"); !reflect.DeepEqual(got, []string{"a", "b"}) {
		t.Errorf("Strings(list) = %v", got)
	}
	if got := p.Strings("one"); !reflect.DeepEqual(got, []string{"x"}) {
		t.Errorf("Strings(one) = %v", got)
	}
	if got := p.Keys(); !reflect.DeepEqual(got, []string{"flag", "list", "n", "one"}) {
		t.Errorf("Keys = %v", got)
	}

	text, err := Params{"text": "??-##", "extra": 1}.Text()
	if err != nil {
		t.Fatalf("Text failed: %v", err)
	}
	if text.Text != "??-##" || text.Extra["extra"] != 1 {
		t.Errorf("unexpected text params %+v", text)
	}
}

func TestZeroRowRangeMapping(t *testing.T) {
	doc, err := Parse([]byte(`
models:
  - name: m
    schemas:
      - name: empty
        rows: {min: 0, max: 0}
        attributes:
          - name: id
            type: uuid4
`))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if got := doc.Models[0].Schemas[0].Rows; got != RowRange(0, 0) {
		t.Errorf("rows = %+v, want %+v", got, RowRange(0, 0))
	}
}
