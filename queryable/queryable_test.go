package queryable

import (
	"errors"
	"reflect"
	"testing"

	"github.com/npillmayer/querex"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
)

var intType = reflect.TypeOf(0)

// countingProvider serves a fixed element slice and counts executions.
type countingProvider struct {
	elems []interface{}
	calls int
}

func (p *countingProvider) Execute(tree querex.Expr) (Iterator, error) {
	p.calls++
	return NewSliceIterator(p.elems), nil
}

func TestNewQueryRoot(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "querex.queryable")
	defer teardown()
	//
	p := &countingProvider{}
	q, err := New(p, intType)
	if err != nil {
		t.Fatalf("query construction failed: %v", err)
	}
	root, ok := q.Tree().(*querex.SourceRefExpr)
	if !ok {
		t.Fatalf("fresh query rooted at %T, want source reference", q.Tree())
	}
	if root.Type() != reflect.SliceOf(intType) {
		t.Errorf("root category is %v, want []int", root.Type())
	}
	if q.Provider() != Provider(p) || q.ElemType() != intType {
		t.Errorf("query does not expose provider/element type")
	}
}

func TestQueryValidation(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "querex.queryable")
	defer teardown()
	//
	p := &countingProvider{}
	if _, err := New(nil, intType); !errors.Is(err, querex.ErrArgumentAbsent) {
		t.Errorf("nil provider: got %v", err)
	}
	if _, err := New(p, nil); !errors.Is(err, querex.ErrArgumentAbsent) {
		t.Errorf("nil element type: got %v", err)
	}
	if _, err := FromExpr(p, nil, intType); !errors.Is(err, querex.ErrArgumentAbsent) {
		t.Errorf("nil tree: got %v", err)
	}
	// a scalar tree cannot stand in for a sequence of int
	if _, err := FromExpr(p, querex.Constant(5), intType); !errors.Is(err, querex.ErrCategoryMismatch) {
		t.Errorf("scalar tree: got %v, want ErrCategoryMismatch", err)
	}
	// a source reference of the right element type is fine
	src := querex.SourceRef("ints", intType)
	if _, err := FromExpr(p, src, intType); err != nil {
		t.Errorf("sequence-typed tree rejected: %v", err)
	}
}

func TestQueryEach(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "querex.queryable")
	defer teardown()
	//
	p := &countingProvider{elems: []interface{}{1, 2, 3}}
	q, err := New(p, intType)
	if err != nil {
		t.Fatalf("query construction failed: %v", err)
	}
	var got []interface{}
	if err := q.Each(func(e interface{}) error {
		got = append(got, e)
		return nil
	}); err != nil {
		t.Fatalf("enumeration failed: %v", err)
	}
	if len(got) != 3 || got[0] != 1 || got[2] != 3 {
		t.Errorf("enumerated %v", got)
	}
	if p.calls != 1 {
		t.Errorf("provider executed %d times", p.calls)
	}
	//
	stop := errors.New("stop")
	if err := q.Each(func(interface{}) error { return stop }); !errors.Is(err, stop) {
		t.Errorf("callback error not surfaced: %v", err)
	}
}

func TestSliceIterator(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "querex.queryable")
	defer teardown()
	//
	it := NewSliceIterator(nil)
	if it.Next() {
		t.Errorf("empty iterator has an element")
	}
	if it.Item() != nil {
		t.Errorf("empty iterator item is %v", it.Item())
	}
	it = NewSliceIterator([]interface{}{"x"})
	if !it.Next() || it.Item() != "x" || it.Next() {
		t.Errorf("single-element iteration broken")
	}
}
