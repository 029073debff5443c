package seeder

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/Lumos-Labs-HQ/qsynth/internal/model"
)

var testNow = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

func attr(name, typ string, params model.Params) *model.Attribute {
	return &model.Attribute{Name: name, Type: typ, Params: params}
}

func ref(name, dataset, attribute string, cord model.Cardinality) *model.Attribute {
	p := model.Params{"dataset": dataset, "attribute": attribute}
	if cord != "" {
		p["cord"] = string(cord)
	}
	return attr(name, model.RefType, p)
}

func schema(name string, rows model.RowCount, attrs ...*model.Attribute) *model.Schema {
	return &model.Schema{Name: name, Rows: rows, Attributes: attrs}
}

func newModel(name string, schemas ...*model.Schema) *model.Model {
	return &model.Model{Name: name, Locales: model.Locales{"en-US"}, Schemas: schemas}
}

func testGenerator(seed int64, parallelism int) *Generator {
	return New(Options{Seed: seed, Parallelism: parallelism, Now: testNow})
}

func shopModel() *model.Model {
	return newModel("shop",
		schema("orders", model.Rows(50),
			attr("id", "uuid4", nil),
			ref("customer_id", "customers", "id", model.OneToMany),
			attr("total", "random_double", model.Params{"min": 1, "max": 500}),
		),
		schema("customers", model.Rows(10),
			attr("id", "uuid4", nil),
			attr("name", "name", nil),
			attr("email", "email", nil),
		),
		schema("profiles", model.Rows(10),
			ref("customer_id", "customers", "id", model.OneToOne),
			attr("bio", "sentence", nil),
		),
	)
}

func names(schemas []*model.Schema) []string {
	out := make([]string, len(schemas))
	for i, s := range schemas {
		out[i] = s.Name
	}
	return out
}

func TestPlanOrdersParentsFirst(t *testing.T) {
	order, err := Plan(shopModel())
	if err != nil {
		t.Fatalf("Plan failed: %v", err)
	}
	want := []string{"customers", "orders", "profiles"}
	if got := names(order); !reflect.DeepEqual(got, want) {
		t.Errorf("order = %v, want %v", got, want)
	}
}

func TestPlanKeepsDeclarationOrderWithoutReferences(t *testing.T) {
	m := newModel("m",
		schema("c", model.Rows(1), attr("x", "word", nil)),
		schema("a", model.Rows(1), attr("x", "word", nil)),
		schema("b", model.Rows(1), attr("x", "word", nil)),
	)
	order, err := Plan(m)
	if err != nil {
		t.Fatalf("Plan failed: %v", err)
	}
	if got, want := names(order), []string{"c", "a", "b"}; !reflect.DeepEqual(got, want) {
		t.Errorf("order = %v, want %v", got, want)
	}
}

func TestPlanUnknownTarget(t *testing.T) {
	tests := []struct {
		name      string
		child     *model.Attribute
		attribute string
	}{
		{"missing schema", ref("p", "nope", "id", ""), ""},
		{"missing attribute", ref("p", "parent", "nope", ""), "nope"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newModel("m",
				schema("parent", model.Rows(1), attr("id", "uuid4", nil)),
				schema("child", model.Rows(1), tt.child),
			)
			_, err := Plan(m)
			if !errors.Is(err, ErrUnknownReferenceTarget) {
				t.Fatalf("expected ErrUnknownReferenceTarget, got %v", err)
			}
			var target *UnknownReferenceTargetError
			if !errors.As(err, &target) {
				t.Fatalf("expected *UnknownReferenceTargetError, got %T", err)
			}
			if target.Model != "m" || target.Schema != "child" || target.Location.Attribute != "p" {
				t.Errorf("unexpected location %+v", target.Location)
			}
			if target.Attribute != tt.attribute {
				t.Errorf("target attribute = %q, want %q", target.Attribute, tt.attribute)
			}
		})
	}
}

func TestPlanDetectsCycles(t *testing.T) {
	t.Run("two schemas", func(t *testing.T) {
		m := newModel("m",
			schema("a", model.Rows(1), attr("id", "uuid4", nil), ref("b_id", "b", "id", "")),
			schema("b", model.Rows(1), attr("id", "uuid4", nil), ref("a_id", "a", "id", "")),
			schema("c", model.Rows(1), attr("id", "uuid4", nil)),
		)
		_, err := Plan(m)
		var cyc *CyclicReferenceError
		if !errors.As(err, &cyc) {
			t.Fatalf("expected *CyclicReferenceError, got %v", err)
		}
		if !reflect.DeepEqual(cyc.Schemas, []string{"a", "b"}) {
			t.Errorf("cycle = %v, want [a b]", cyc.Schemas)
		}
		if !strings.Contains(err.Error(), "a -> b -> a") {
			t.Errorf("message %q does not name the cycle", err.Error())
		}
	})

	t.Run("self reference", func(t *testing.T) {
		m := newModel("m",
			schema("node", model.Rows(3), attr("id", "uuid4", nil), ref("parent_id", "node", "id", "")),
		)
		_, err := Plan(m)
		if !errors.Is(err, ErrCyclicReference) {
			t.Fatalf("expected ErrCyclicReference, got %v", err)
		}
	})
}

func TestOneToOneCopiesParentRows(t *testing.T) {
	res, err := testGenerator(7, 1).GenerateModel(context.Background(), shopModel())
	if err != nil {
		t.Fatalf("GenerateModel failed: %v", err)
	}
	customers, _ := res.Table("customers")
	profiles, _ := res.Table("profiles")
	ids, _ := customers.Column("id")
	refs, _ := profiles.Column("customer_id")
	if !reflect.DeepEqual(ids, refs) {
		t.Errorf("1-1 column differs from parent column")
	}
}

func TestOneToOneMismatch(t *testing.T) {
	m := newModel("m",
		schema("parent", model.Rows(3), attr("id", "uuid4", nil)),
		schema("child", model.Rows(4), ref("pid", "parent", "id", model.OneToOne)),
	)
	_, err := testGenerator(1, 1).GenerateModel(context.Background(), m)
	if !errors.Is(err, ErrCardinalityMismatch) {
		t.Fatalf("expected ErrCardinalityMismatch, got %v", err)
	}
	var mismatch *CardinalityMismatchError
	if errors.As(err, &mismatch) && (mismatch.ChildRows != 4 || mismatch.ParentRows != 3) {
		t.Errorf("unexpected counts %d/%d", mismatch.ChildRows, mismatch.ParentRows)
	}
}

func TestManySamplesFromParent(t *testing.T) {
	for _, cord := range []model.Cardinality{model.OneToMany, model.ManyToMany, ""} {
		t.Run(string(cord), func(t *testing.T) {
			m := newModel("m",
				schema("parent", model.Rows(5), attr("id", "random_int", nil)),
				schema("child", model.Rows(200), ref("pid", "parent", "id", cord)),
			)
			res, err := testGenerator(3, 1).GenerateModel(context.Background(), m)
			if err != nil {
				t.Fatalf("GenerateModel failed: %v", err)
			}
			parent, _ := res.Table("parent")
			child, _ := res.Table("child")
			allowed := make(map[any]bool)
			ids, _ := parent.Column("id")
			for _, v := range ids {
				allowed[v] = true
			}
			refs, _ := child.Column("pid")
			if len(refs) != 200 {
				t.Fatalf("child rows = %d, want 200", len(refs))
			}
			for i, v := range refs {
				if !allowed[v] {
					t.Fatalf("row %d references %v which is not a parent value", i, v)
				}
			}
		})
	}
}

func TestEmptyParent(t *testing.T) {
	t.Run("children need rows", func(t *testing.T) {
		m := newModel("m",
			schema("parent", model.Rows(0), attr("id", "uuid4", nil)),
			schema("child", model.Rows(2), ref("pid", "parent", "id", model.OneToMany)),
		)
		_, err := testGenerator(1, 1).GenerateModel(context.Background(), m)
		if !errors.Is(err, ErrEmptyReferenceTarget) {
			t.Fatalf("expected ErrEmptyReferenceTarget, got %v", err)
		}
	})

	t.Run("no children is fine", func(t *testing.T) {
		m := newModel("m",
			schema("parent", model.Rows(0), attr("id", "uuid4", nil)),
			schema("child", model.Rows(0), ref("pid", "parent", "id", model.ManyToMany)),
			schema("twin", model.Rows(0), ref("pid", "parent", "id", model.OneToOne)),
		)
		res, err := testGenerator(1, 1).GenerateModel(context.Background(), m)
		if err != nil {
			t.Fatalf("GenerateModel failed: %v", err)
		}
		child, _ := res.Table("child")
		if child.Len() != 0 || !reflect.DeepEqual(child.Columns, []string{"pid"}) {
			t.Errorf("unexpected empty table %+v", child)
		}
	})
}

func TestRangedRowCount(t *testing.T) {
	s := schema("events", model.RowRange(5, 15), attr("id", "uuid4", nil))
	m := newModel("m", s)
	for seed := int64(1); seed <= 20; seed++ {
		res, err := testGenerator(seed, 1).GenerateModel(context.Background(), m)
		if err != nil {
			t.Fatalf("GenerateModel failed: %v", err)
		}
		events, _ := res.Table("events")
		if n := events.Len(); n < 5 || n > 15 {
			t.Fatalf("seed %d: %d rows outside [5, 15]", seed, n)
		}
	}
}

func TestRowCountIsDrawnOnce(t *testing.T) {
	gc := NewGenContext(42, nil, testNow)
	state := newRunState("m", gc.Rand)
	s := schema("events", model.RowRange(0, 1000000))
	first := state.RowCount(s)
	for i := 0; i < 10; i++ {
		if n := state.RowCount(s); n != first {
			t.Fatalf("row count changed from %d to %d", first, n)
		}
	}
}

func TestPublishIsWriteOnce(t *testing.T) {
	state := newRunState("m", NewGenContext(1, nil, testNow).Rand)
	if err := state.publish(newTable("m", "t", []string{"a"}, 0)); err != nil {
		t.Fatalf("first publish failed: %v", err)
	}
	if err := state.publish(newTable("m", "t", []string{"a"}, 0)); err == nil {
		t.Errorf("expected second publish to fail")
	}
}

func TestSameSeedSameTables(t *testing.T) {
	models := []*model.Model{shopModel(), newModel("other",
		schema("things", model.RowRange(1, 30),
			attr("name", "word", nil),
			attr("when", "date_time", nil),
			attr("kind", "random_element", model.Params{"elements": []any{"a", "b", "c"}}),
		),
	)}

	sequential, err := testGenerator(99, 1).GenerateAll(context.Background(), models)
	if err != nil {
		t.Fatalf("GenerateAll failed: %v", err)
	}
	parallel, err := testGenerator(99, 4).GenerateAll(context.Background(), models)
	if err != nil {
		t.Fatalf("GenerateAll failed: %v", err)
	}
	a, b := sequential.Tables(), parallel.Tables()
	if len(a) != len(b) {
		t.Fatalf("table counts differ: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i].Key() != b[i].Key() || !reflect.DeepEqual(a[i].Rows, b[i].Rows) {
			t.Errorf("table %s differs between runs", a[i].Key())
		}
	}

	other, err := testGenerator(100, 1).GenerateAll(context.Background(), models)
	if err != nil {
		t.Fatalf("GenerateAll failed: %v", err)
	}
	x, _ := sequential.Table("shop", "customers")
	y, _ := other.Table("shop", "customers")
	if reflect.DeepEqual(x.Rows, y.Rows) {
		t.Errorf("different seeds produced identical customers")
	}
}

func TestResultOrdering(t *testing.T) {
	models := []*model.Model{
		shopModel(),
		newModel("audit", schema("log", model.Rows(2), attr("msg", "sentence", nil))),
	}
	res, err := testGenerator(5, 2).GenerateAll(context.Background(), models)
	if err != nil {
		t.Fatalf("GenerateAll failed: %v", err)
	}
	var keys []string
	for _, tbl := range res.Tables() {
		keys = append(keys, tbl.Key().String())
	}
	want := []string{"shop.customers", "shop.orders", "shop.profiles", "audit.log"}
	if !reflect.DeepEqual(keys, want) {
		t.Errorf("keys = %v, want %v", keys, want)
	}
	orders, ok := res.Table("shop", "orders")
	if !ok {
		t.Fatal("orders missing")
	}
	if !reflect.DeepEqual(orders.Columns, []string{"id", "customer_id", "total"}) {
		t.Errorf("columns = %v", orders.Columns)
	}
	for _, row := range orders.Rows {
		if total, _ := row[2].(float64); total < 1 || total > 500 {
			t.Errorf("total %v outside [1, 500]", row[2])
		}
	}
}

func TestGeneratorErrors(t *testing.T) {
	tests := []struct {
		name   string
		attr   *model.Attribute
		target error
	}{
		{"unknown type", attr("x", "no_such_type", nil), ErrUnknownGenerator},
		{"inverted range", attr("x", "random_int", model.Params{"min": 10, "max": 1}), ErrInvalidParameter},
		{"inverted double range", attr("x", "random_double", model.Params{"min": 2.5, "max": 1}), ErrInvalidParameter},
		{"empty elements", attr("x", "random_element", model.Params{"elements": []any{}}), ErrEmptyChoiceSet},
		{"missing elements", attr("x", "random_element", nil), ErrEmptyChoiceSet},
		{"bad cord", ref("x", "p", "id", "2-2"), ErrInvalidParameter},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newModel("m",
				schema("p", model.Rows(1), attr("id", "uuid4", nil)),
				schema("s", model.Rows(3), tt.attr),
			)
			_, err := testGenerator(1, 1).GenerateModel(context.Background(), m)
			if !errors.Is(err, tt.target) {
				t.Fatalf("expected %v, got %v", tt.target, err)
			}
			var me *ModelError
			if !errors.As(err, &me) || me.Model != "m" {
				t.Errorf("expected a ModelError for m, got %v", err)
			}
			if !strings.Contains(err.Error(), `attribute "x"`) {
				t.Errorf("error %q does not name the attribute", err.Error())
			}
		})
	}
}

func TestProducerFailureCarriesRow(t *testing.T) {
	reg := DefaultRegistry().Clone()
	reg.Register("flaky", func(ctx *GenContext, _ model.Params) (Producer, error) {
		calls := 0
		return func() (any, error) {
			calls++
			if calls == 3 {
				panic("boom")
			}
			return calls, nil
		}, nil
	})
	m := newModel("m", schema("s", model.Rows(5), attr("v", "flaky", nil)))
	g := New(Options{Seed: 1, Registry: reg, Now: testNow})
	_, err := g.GenerateModel(context.Background(), m)
	var ge *GeneratorError
	if !errors.As(err, &ge) {
		t.Fatalf("expected *GeneratorError, got %v", err)
	}
	if ge.Row != 2 || ge.Schema != "s" || ge.Attribute != "v" {
		t.Errorf("unexpected error location %+v row %d", ge.Location, ge.Row)
	}
	if !errors.Is(err, ErrGenerator) {
		t.Errorf("expected ErrGenerator")
	}
}

func TestGenerateEachContinues(t *testing.T) {
	bad := newModel("bad", schema("s", model.Rows(1), attr("x", "nope", nil)))
	good := newModel("good", schema("s", model.Rows(2), attr("x", "word", nil)))
	res, errs := testGenerator(1, 2).GenerateEach(context.Background(), []*model.Model{bad, good})
	if len(errs) != 1 {
		t.Fatalf("errs = %v, want one error", errs)
	}
	var me *ModelError
	if !errors.As(errs[0], &me) || me.Model != "bad" {
		t.Errorf("unexpected error %v", errs[0])
	}
	if _, ok := res.Table("good", "s"); !ok {
		t.Errorf("good model missing from result")
	}
	if _, ok := res.Model("bad"); ok {
		t.Errorf("bad model should not be in the result")
	}

	_, err := testGenerator(1, 2).GenerateAll(context.Background(), []*model.Model{bad, good})
	if !errors.Is(err, ErrUnknownGenerator) {
		t.Errorf("GenerateAll should fail fast, got %v", err)
	}
}

func TestCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := testGenerator(1, 1).GenerateModel(ctx, shopModel())
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestZeroSeedPicksOne(t *testing.T) {
	g := New(Options{})
	if g.Seed() == 0 {
		t.Errorf("expected a clock seed")
	}
	res, err := g.GenerateAll(context.Background(), nil)
	if err != nil {
		t.Fatalf("GenerateAll failed: %v", err)
	}
	if res.Seed != g.Seed() || res.Len() != 0 {
		t.Errorf("unexpected result %+v", res)
	}
}

func TestInvalidRowCounts(t *testing.T) {
	tests := []struct {
		name string
		rows model.RowCount
	}{
		{"inverted range", model.RowRange(5, 2)},
		{"negative exact", model.Rows(-1)},
		{"negative min", model.RowRange(-1, 3)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newModel("m",
				schema("ok", model.Rows(2), attr("id", "uuid4", nil)),
				schema("bad", tt.rows, attr("id", "uuid4", nil)),
			)
			res, err := testGenerator(1, 1).GenerateModel(context.Background(), m)
			if res != nil {
				t.Errorf("expected no result, got %+v", res)
			}
			if !errors.Is(err, ErrInvalidRowCount) {
				t.Fatalf("expected ErrInvalidRowCount, got %v", err)
			}
			var rc *InvalidRowCountError
			if !errors.As(err, &rc) || rc.Model != "m" || rc.Schema != "bad" {
				t.Errorf("unexpected error %v", err)
			}

			_, err = testGenerator(1, 4).GenerateAll(context.Background(), []*model.Model{m})
			if !errors.Is(err, ErrInvalidRowCount) {
				t.Errorf("GenerateAll: expected ErrInvalidRowCount, got %v", err)
			}
		})
	}
}

func TestZeroRowRange(t *testing.T) {
	m := newModel("m", schema("empty", model.RowRange(0, 0),
		attr("id", "uuid4", nil),
		attr("name", "name", nil),
	))
	res, err := testGenerator(1, 1).GenerateModel(context.Background(), m)
	if err != nil {
		t.Fatalf("GenerateModel failed: %v", err)
	}
	empty, _ := res.Table("empty")
	if empty.Len() != 0 || !reflect.DeepEqual(empty.Columns, []string{"id", "name"}) {
		t.Errorf("expected an empty table with headers, got %+v", empty)
	}
}

func TestPlanChain(t *testing.T) {
	m := newModel("m",
		schema("a", model.Rows(1), attr("id", "uuid4", nil), ref("b_id", "b", "id", "")),
		schema("b", model.Rows(1), attr("id", "uuid4", nil), ref("c_id", "c", "id", "")),
		schema("c", model.Rows(1), attr("id", "uuid4", nil)),
	)
	order, err := Plan(m)
	if err != nil {
		t.Fatalf("Plan failed: %v", err)
	}
	if got, want := names(order), []string{"c", "b", "a"}; !reflect.DeepEqual(got, want) {
		t.Errorf("order = %v, want %v", got, want)
	}
}

func TestSingleRowParent(t *testing.T) {
	m := newModel("m",
		schema("parent", model.Rows(1), attr("id", "uuid4", nil)),
		schema("child", model.Rows(25), ref("pid", "parent", "id", model.OneToMany)),
	)
	res, err := testGenerator(8, 1).GenerateModel(context.Background(), m)
	if err != nil {
		t.Fatalf("GenerateModel failed: %v", err)
	}
	parent, _ := res.Table("parent")
	child, _ := res.Table("child")
	ids, _ := parent.Column("id")
	refs, _ := child.Column("pid")
	if len(refs) != 25 {
		t.Fatalf("child rows = %d, want 25", len(refs))
	}
	for i, v := range refs {
		if v != ids[0] {
			t.Fatalf("row %d = %v, want %v", i, v, ids[0])
		}
	}
}

func TestCustomersAndOrders(t *testing.T) {
	m := newModel("shop",
		schema("customers", model.Rows(5),
			attr("id", "random_int", model.Params{"min": 1, "max": 100}),
			attr("email", "email", nil),
		),
		schema("orders", model.Rows(10),
			ref("customer_id", "customers", "id", model.OneToMany),
		),
	)
	res, err := testGenerator(21, 1).GenerateModel(context.Background(), m)
	if err != nil {
		t.Fatalf("GenerateModel failed: %v", err)
	}
	customers, _ := res.Table("customers")
	orders, _ := res.Table("orders")
	if customers.Len() != 5 || orders.Len() != 10 {
		t.Fatalf("rows = %d customers, %d orders, want 5 and 10", customers.Len(), orders.Len())
	}

	ids, _ := customers.Column("id")
	known := make(map[any]bool)
	for _, id := range ids {
		if n, _ := id.(int64); n < 1 || n > 100 {
			t.Errorf("customer id %v outside [1, 100]", id)
		}
		known[id] = true
	}
	refs, _ := orders.Column("customer_id")
	for i, v := range refs {
		if !known[v] {
			t.Errorf("order %d references unknown customer %v", i, v)
		}
	}
}

func TestFailedPlanProducesNoTables(t *testing.T) {
	tests := []struct {
		name   string
		model  *model.Model
		target error
	}{
		{
			"cycle",
			newModel("m",
				schema("a", model.Rows(1), attr("id", "uuid4", nil), ref("b_id", "b", "id", "")),
				schema("b", model.Rows(1), attr("id", "uuid4", nil), ref("a_id", "a", "id", "")),
			),
			ErrCyclicReference,
		},
		{
			"unknown target",
			newModel("m",
				schema("a", model.Rows(1), attr("id", "uuid4", nil)),
				schema("b", model.Rows(1), ref("a_id", "missing", "id", "")),
			),
			ErrUnknownReferenceTarget,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := testGenerator(1, 1).GenerateModel(context.Background(), tt.model)
			if !errors.Is(err, tt.target) {
				t.Fatalf("expected %v, got %v", tt.target, err)
			}
			if res != nil {
				t.Errorf("expected no tables, got %+v", res)
			}
		})
	}
}

func TestAdjacentSeedsDiffer(t *testing.T) {
	m := newModel("m", schema("people", model.Rows(5),
		attr("name", "name", nil),
		attr("email", "email", nil),
	))
	two, err := testGenerator(2, 1).GenerateModel(context.Background(), m)
	if err != nil {
		t.Fatalf("GenerateModel failed: %v", err)
	}
	three, err := testGenerator(3, 1).GenerateModel(context.Background(), m)
	if err != nil {
		t.Fatalf("GenerateModel failed: %v", err)
	}
	a, _ := two.Table("people")
	b, _ := three.Table("people")
	if reflect.DeepEqual(a.Rows, b.Rows) {
		t.Errorf("seeds 2 and 3 produced identical faker columns")
	}
}
