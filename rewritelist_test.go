package querex

import (
	"errors"
	"strings"
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
)

func TestRewriteListReferenceLaw(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "querex")
	defer teardown()
	//
	a := Parameter("a", intType)
	b := Parameter("b", intType)
	c := Parameter("c", intType)
	xs := []Expr{a, b, c}
	//
	same, err := RewriteList(xs, func(x Expr) (Expr, error) { return x, nil })
	if err != nil {
		t.Fatalf("identity list rewrite failed: %v", err)
	}
	if !sliceIdentical(same, xs) {
		t.Errorf("identity list rewrite allocated a new sequence")
	}
	//
	five := Constant(5)
	out, err := RewriteList(xs, func(x Expr) (Expr, error) {
		if x == Expr(b) {
			return five, nil
		}
		return x, nil
	})
	if err != nil {
		t.Fatalf("list rewrite failed: %v", err)
	}
	if sliceIdentical(out, xs) {
		t.Fatalf("changed list rewrite returned original sequence")
	}
	if len(out) != len(xs) {
		t.Fatalf("length changed: %d != %d", len(out), len(xs))
	}
	if out[0] != Expr(a) || out[2] != Expr(c) {
		t.Errorf("unchanged positions differ")
	}
	if out[1] != Expr(five) {
		t.Errorf("changed position not rewritten")
	}
	if xs[1] != Expr(b) {
		t.Errorf("original sequence was mutated")
	}
}

func TestRewriteListEmptyAndNil(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "querex")
	defer teardown()
	//
	out, err := RewriteList([]Expr{}, func(x Expr) (Expr, error) { return x, nil })
	if err != nil || len(out) != 0 {
		t.Errorf("empty list rewrite = (%v, %v)", out, err)
	}
	if _, err := RewriteList[Expr](nil, nil); !errors.Is(err, ErrArgumentAbsent) {
		t.Errorf("nil rewrite function: got %v, want ErrArgumentAbsent", err)
	}
}

func TestRewriteListAbsentElement(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "querex")
	defer teardown()
	//
	xs := []Expr{Parameter("a", intType), Parameter("b", intType)}
	_, err := RewriteList(xs, func(x Expr) (Expr, error) {
		if p, ok := x.(*ParamExpr); ok && p.Name() == "b" {
			return nil, nil
		}
		return x, nil
	})
	if !errors.Is(err, ErrKindMismatchInList) {
		t.Fatalf("got %v, want ErrKindMismatchInList", err)
	}
	if !strings.Contains(err.Error(), "index 1") {
		t.Errorf("error does not name the index: %v", err)
	}
	if !strings.Contains(err.Error(), "querex.Expr") {
		t.Errorf("error does not name the element category: %v", err)
	}
}

func TestRewriteListPropagatesErrors(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "querex")
	defer teardown()
	//
	boom := errors.New("boom")
	xs := []Expr{Parameter("a", intType)}
	if _, err := RewriteList(xs, func(Expr) (Expr, error) { return nil, boom }); !errors.Is(err, boom) {
		t.Errorf("element error not surfaced unchanged: %v", err)
	}
}

func TestRewriteListTypedNilIsAbsent(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "querex")
	defer teardown()
	//
	xs := []Expr{Parameter("a", intType)}
	_, err := RewriteList(xs, func(Expr) (Expr, error) {
		var p *ParamExpr // typed nil hiding in the interface
		return p, nil
	})
	if !errors.Is(err, ErrKindMismatchInList) {
		t.Errorf("typed-nil element: got %v, want ErrKindMismatchInList", err)
	}
}
