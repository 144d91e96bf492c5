package queryable

/*
License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/

import (
	"fmt"
	"sync"

	"github.com/cnf/structhash"
	"github.com/npillmayer/querex"
)

// shapeVersion versions the fingerprint layout for structhash.
const shapeVersion = 1

// shape is the hashable summary of a tree: kinds, labels and declared
// categories, structurally nested. Two trees share a fingerprint iff they
// share shape. Node identity plays no role here, so an equal query built
// twice is recognized.
type shape struct {
	Kind  string
	Label string
	Type  string
	Kids  []shape
}

// Fingerprint computes a structural hash of an expression tree, suitable as
// a cache key for compiled or executed queries.
func Fingerprint(tree querex.Expr) (string, error) {
	if tree == nil {
		return "", fmt.Errorf("%w: Fingerprint tree", querex.ErrArgumentAbsent)
	}
	return structhash.Hash(shapeOf(tree), shapeVersion)
}

func shapeOf(x querex.Expr) shape {
	if x == nil {
		return shape{Kind: querex.NoKind.String()}
	}
	s := shape{Kind: x.Kind().String()}
	if t := x.Type(); t != nil {
		s.Type = t.String()
	}
	switch x := x.(type) {
	case *querex.ConstExpr:
		s.Label = fmt.Sprintf("%v", x.Value())
	case *querex.ParamExpr:
		s.Label = x.Name()
	case *querex.UnaryExpr:
		s.Label = x.Op().String()
		s.Kids = []shape{shapeOf(x.Operand())}
	case *querex.BinaryExpr:
		s.Label = x.Op().String()
		s.Kids = []shape{shapeOf(x.Left()), shapeOf(x.Right())}
		if x.Conversion() != nil {
			s.Kids = append(s.Kids, shapeOf(x.Conversion()))
		}
	case *querex.CondExpr:
		s.Kids = []shape{shapeOf(x.Test()), shapeOf(x.Then()), shapeOf(x.Else())}
	case *querex.TypeIsExpr:
		s.Label = x.TypeOperand().String()
		s.Kids = []shape{shapeOf(x.Operand())}
	case *querex.LambdaExpr:
		for _, p := range x.Params() {
			s.Kids = append(s.Kids, shapeOf(p))
		}
		s.Kids = append(s.Kids, shapeOf(x.Body()))
	case *querex.CallExpr:
		s.Label = x.Method().Name
		if x.Receiver() != nil {
			s.Kids = append(s.Kids, shapeOf(x.Receiver()))
		}
		s.Kids = append(s.Kids, shapesOf(x.Args())...)
	case *querex.InvokeExpr:
		s.Kids = append([]shape{shapeOf(x.Target())}, shapesOf(x.Args())...)
	case *querex.MemberExpr:
		s.Label = x.Member().Name
		if x.Instance() != nil {
			s.Kids = []shape{shapeOf(x.Instance())}
		}
	case *querex.NewExpr:
		s.Label = x.Ctor().String()
		for _, m := range x.Members() {
			s.Label += "," + m.Name
		}
		s.Kids = shapesOf(x.Args())
	case *querex.NewArrayExpr:
		s.Label = x.Elem().String()
		s.Kids = shapesOf(x.Exprs())
	case *querex.MemberInitExpr:
		s.Kids = []shape{shapeOf(x.Construct())}
		for _, b := range x.Bindings() {
			s.Kids = append(s.Kids, bindingShape(b))
		}
	case *querex.ListInitExpr:
		s.Kids = []shape{shapeOf(x.Construct())}
		for _, e := range x.Inits() {
			s.Kids = append(s.Kids, elemInitShape(e))
		}
	case *querex.SourceRefExpr:
		s.Label = x.Name()
	default:
		// sub-queries, extensions: opaque, summarized by their rendering
		s.Label = x.String()
	}
	return s
}

func shapesOf(xs []querex.Expr) []shape {
	kids := make([]shape, len(xs))
	for i, x := range xs {
		kids[i] = shapeOf(x)
	}
	return kids
}

func bindingShape(b querex.Binding) shape {
	s := shape{Kind: "Bind" + b.BindKind().String(), Label: b.Member().Name}
	switch b := b.(type) {
	case *querex.Assignment:
		s.Kids = []shape{shapeOf(b.Value())}
	case *querex.NestedBinding:
		for _, c := range b.Bindings() {
			s.Kids = append(s.Kids, bindingShape(c))
		}
	case *querex.ListBinding:
		for _, e := range b.Inits() {
			s.Kids = append(s.Kids, elemInitShape(e))
		}
	}
	return s
}

func elemInitShape(e *querex.ElementInit) shape {
	return shape{
		Kind:  "ElementInit",
		Label: e.AddMethod().Name,
		Kids:  shapesOf(e.Args()),
	}
}

// --- Caching provider -------------------------------------------------------

// Memo decorates a Provider with a result cache keyed by tree fingerprint.
// Results are materialized on first execution, so Memo only suits providers
// whose result sequences fit in memory. Unlike the rewriter core, a Memo is
// shared infrastructure and guards its cache with a mutex.
type Memo struct {
	inner Provider
	mu    sync.Mutex
	cache map[string][]interface{}
}

// NewMemo wraps a provider in a fingerprint-keyed result cache.
func NewMemo(inner Provider) (*Memo, error) {
	if inner == nil {
		return nil, fmt.Errorf("%w: Memo provider", querex.ErrArgumentAbsent)
	}
	return &Memo{inner: inner, cache: make(map[string][]interface{})}, nil
}

// Execute is part of the Provider interface. Structurally equal trees hit
// the cache; anything else is delegated to the wrapped provider and its
// results recorded.
func (m *Memo) Execute(tree querex.Expr) (Iterator, error) {
	key, err := Fingerprint(tree)
	if err != nil {
		return nil, err
	}
	m.mu.Lock()
	elems, hit := m.cache[key]
	m.mu.Unlock()
	if hit {
		tracer().Debugf("memo hit for %s", key)
		return NewSliceIterator(elems), nil
	}
	it, err := m.inner.Execute(tree)
	if err != nil {
		return nil, err
	}
	elems = make([]interface{}, 0, 16)
	for it.Next() {
		elems = append(elems, it.Item())
	}
	m.mu.Lock()
	m.cache[key] = elems
	m.mu.Unlock()
	return NewSliceIterator(elems), nil
}

var _ Provider = (*Memo)(nil)
