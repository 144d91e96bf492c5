package queryable

/*
License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/

import (
	"fmt"
	"reflect"

	"github.com/npillmayer/querex"
)

// Iterator walks the elements a provider produced for a query. Usage:
//
//     for it.Next() {
//         elem := it.Item()
//         …
//     }
//
type Iterator interface {
	Next() bool
	Item() interface{}
}

// Provider executes query expression trees against some backing data
// source. Execute receives the query's current tree and returns an iterator
// over the result sequence.
type Provider interface {
	Execute(tree querex.Expr) (Iterator, error)
}

// A Query is an enumerable data source described by an expression tree.
// A freshly created Query is rooted at a query-source reference node
// ("start of query"); composed queries wrap a caller-supplied tree instead.
type Query struct {
	provider Provider
	tree     querex.Expr
	elem     reflect.Type
}

// New creates a query rooted at a fresh source-reference node whose
// declared category is sequence-of-elem.
func New(p Provider, elem reflect.Type) (*Query, error) {
	if p == nil {
		return nil, fmt.Errorf("%w: Query provider", querex.ErrArgumentAbsent)
	}
	if elem == nil {
		return nil, fmt.Errorf("%w: Query element type", querex.ErrArgumentAbsent)
	}
	root := querex.SourceRef(elem.String(), elem)
	return &Query{provider: p, tree: root, elem: elem}, nil
}

// FromExpr creates a query over a composed expression tree. The tree's
// declared result category must be assignable to a sequence of the declared
// element type.
func FromExpr(p Provider, tree querex.Expr, elem reflect.Type) (*Query, error) {
	if p == nil {
		return nil, fmt.Errorf("%w: Query provider", querex.ErrArgumentAbsent)
	}
	if tree == nil {
		return nil, fmt.Errorf("%w: Query tree", querex.ErrArgumentAbsent)
	}
	if elem == nil {
		return nil, fmt.Errorf("%w: Query element type", querex.ErrArgumentAbsent)
	}
	seq := reflect.SliceOf(elem)
	if t := tree.Type(); t == nil || !t.AssignableTo(seq) {
		return nil, fmt.Errorf("%w: query tree declares %v, need %v",
			querex.ErrCategoryMismatch, tree.Type(), seq)
	}
	return &Query{provider: p, tree: tree, elem: elem}, nil
}

// Tree returns the query's current expression tree.
func (q *Query) Tree() querex.Expr { return q.tree }

// Provider returns the execution provider the query delegates to.
func (q *Query) Provider() Provider { return q.provider }

// ElemType returns the declared element type of the result sequence.
func (q *Query) ElemType() reflect.Type { return q.elem }

// Iterate executes the query through its provider and returns the
// provider's iterator.
func (q *Query) Iterate() (Iterator, error) {
	tracer().Debugf("executing query %s", q.tree)
	return q.provider.Execute(q.tree)
}

// Each executes the query and applies fn to every element. fn returning an
// error stops the enumeration.
func (q *Query) Each(fn func(interface{}) error) error {
	if fn == nil {
		return fmt.Errorf("%w: Each callback", querex.ErrArgumentAbsent)
	}
	it, err := q.Iterate()
	if err != nil {
		return err
	}
	for it.Next() {
		if err := fn(it.Item()); err != nil {
			return err
		}
	}
	return nil
}

// --- Slice-backed helpers ---------------------------------------------------

// SliceIterator iterates over an in-memory element slice. Providers backed
// by materialized results can return one directly.
type SliceIterator struct {
	elems []interface{}
	pos   int
}

// NewSliceIterator wraps a result slice in an Iterator.
func NewSliceIterator(elems []interface{}) *SliceIterator {
	return &SliceIterator{elems: elems}
}

func (it *SliceIterator) Next() bool {
	if it.pos >= len(it.elems) {
		return false
	}
	it.pos++
	return true
}

func (it *SliceIterator) Item() interface{} {
	if it.pos == 0 || it.pos > len(it.elems) {
		return nil
	}
	return it.elems[it.pos-1]
}

var _ Iterator = (*SliceIterator)(nil)
