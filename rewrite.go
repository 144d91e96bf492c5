package querex

/*
License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/

import (
	"fmt"
)

// --- Rewriter ---------------------------------------------------------------

// Handler rewrites a single node. Handlers installed on a Rewriter override
// the default rebuild rule for their kind; they receive the rewriter for
// recursing into children.
type Handler func(*Rewriter, Expr) (Expr, error)

// A Rewriter walks an expression tree depth-first and produces a
// possibly-transformed tree. Unchanged subtrees are returned by the same
// handle as the input (structural sharing); changed nodes are rebuilt
// minimally around their rewritten children, carrying all auxiliary
// metadata verbatim.
//
// A Rewriter with no handlers installed is the identity: it returns the
// root it was given. Per-kind handlers customize the rewrite, and node
// kinds outside the closed set participate through the Rewritable pair.
//
// A Rewriter holds no per-call state and may be reused across independent
// trees, concurrently if the installed handlers are.
type Rewriter struct {
	name     string
	handlers map[Kind]Handler
}

// NewRewriter creates a rewriter. The name labels the rewriter in error
// messages; if empty, a generic label is used.
func NewRewriter(name string) *Rewriter {
	if name == "" {
		name = "querex.Rewriter"
	}
	return &Rewriter{
		name:     name,
		handlers: make(map[Kind]Handler),
	}
}

// Name returns the rewriter's diagnostic label.
func (r *Rewriter) Name() string { return r.name }

// Handle installs a per-kind handler, replacing any previous one for that
// kind. It returns the rewriter for chaining.
func (r *Rewriter) Handle(k Kind, h Handler) *Rewriter {
	if h != nil {
		r.handlers[k] = h
	}
	return r
}

// Rewritable is the capability pair implemented by expression kinds outside
// the closed set. The dispatcher checks for it before anything else, so
// third parties can introduce node kinds without this package knowing about
// them. An extension decides its own rewrite policy, including "always
// return self" for terminal domain-specific leaves.
//
// Accept is the entry point called by the dispatcher. VisitChildren is the
// default traversal an extension may call from its own Accept, or override
// entirely.
type Rewritable interface {
	Expr
	Accept(*Rewriter) (Expr, error)
	VisitChildren(*Rewriter) (Expr, error)
}

// Rewrite visits a node and returns its possibly-rebuilt replacement. A nil
// node (an absent optional child) passes through unchanged.
//
// Dispatch order: the Rewritable capability first (double dispatch), then
// an installed per-kind handler, then the exhaustive default rule for the
// closed kind set. Anything else fails with ErrUnsupportedKind.
func (r *Rewriter) Rewrite(x Expr) (Expr, error) {
	if x == nil {
		return nil, nil
	}
	if ext, ok := x.(Rewritable); ok {
		return ext.Accept(r)
	}
	if h, ok := r.handlers[x.Kind()]; ok {
		return h(r, x)
	}
	switch x := x.(type) {
	case *ConstExpr:
		return x, nil
	case *ParamExpr:
		return x, nil
	case *UnaryExpr:
		return r.rewriteUnary(x)
	case *BinaryExpr:
		return r.rewriteBinary(x)
	case *CondExpr:
		return r.rewriteCond(x)
	case *TypeIsExpr:
		return r.rewriteTypeIs(x)
	case *LambdaExpr:
		return r.rewriteLambda(x)
	case *CallExpr:
		return r.rewriteCall(x)
	case *InvokeExpr:
		return r.rewriteInvoke(x)
	case *MemberExpr:
		return r.rewriteMember(x)
	case *NewExpr:
		return r.rewriteNew(x)
	case *NewArrayExpr:
		return r.rewriteNewArray(x)
	case *MemberInitExpr:
		return r.rewriteMemberInit(x)
	case *ListInitExpr:
		return r.rewriteListInit(x)
	case *SubqueryExpr:
		// Opaque leaf: returned as-is, the wrapped query model is not
		// traversed. Providers owning the model rewrite it themselves.
		return x, nil
	case *SourceRefExpr:
		return x, nil // opaque leaf, same policy as SubqueryExpr
	}
	return nil, fmt.Errorf("%w: %s cannot process %s", ErrUnsupportedKind, r.name, x.Kind())
}

// VisitAndConvert rewrites a typed child and enforces that the result stays
// within the child's declared category T. caller labels the rebuild rule on
// whose behalf the conversion runs; it is required and shows up in the
// error. An absent child passes through.
func VisitAndConvert[T Expr](r *Rewriter, x T, caller string) (T, error) {
	var zero T
	if caller == "" {
		return zero, fmt.Errorf("%w: VisitAndConvert caller label", ErrArgumentAbsent)
	}
	if isAbsent(x) {
		return zero, nil
	}
	y, err := r.Rewrite(x)
	if err != nil {
		return zero, err
	}
	t, ok := y.(T)
	if !ok {
		return zero, fmt.Errorf("%w: %s expected %s, got %s",
			ErrCategoryMismatch, caller, categoryName[T](), kindOf(y))
	}
	return t, nil
}

// --- Default rebuild rules --------------------------------------------------

func (r *Rewriter) rewriteUnary(x *UnaryExpr) (Expr, error) {
	operand, err := r.Rewrite(x.operand)
	if err != nil {
		return nil, err
	}
	if operand == x.operand {
		return x, nil
	}
	tracer().Debugf("rebuilding unary %s", x.op)
	if x.op == OpPlus {
		// unary plus rebuilds without the operator-method reference
		return &UnaryExpr{op: x.op, operand: operand, typ: x.typ}, nil
	}
	return &UnaryExpr{op: x.op, operand: operand, typ: x.typ, method: x.method}, nil
}

func (r *Rewriter) rewriteBinary(x *BinaryExpr) (Expr, error) {
	left, err := r.Rewrite(x.left)
	if err != nil {
		return nil, err
	}
	right, err := r.Rewrite(x.right)
	if err != nil {
		return nil, err
	}
	conversion, err := VisitAndConvert(r, x.conversion, "Binary.Conversion")
	if err != nil {
		return nil, err
	}
	if left == x.left && right == x.right && conversion == x.conversion {
		return x, nil
	}
	tracer().Debugf("rebuilding binary %s", x.op)
	return &BinaryExpr{op: x.op, left: left, right: right, typ: x.typ,
		method: x.method, conversion: conversion}, nil
}

func (r *Rewriter) rewriteCond(x *CondExpr) (Expr, error) {
	test, err := r.Rewrite(x.test)
	if err != nil {
		return nil, err
	}
	then, err := r.Rewrite(x.then)
	if err != nil {
		return nil, err
	}
	els, err := r.Rewrite(x.els)
	if err != nil {
		return nil, err
	}
	if test == x.test && then == x.then && els == x.els {
		return x, nil
	}
	return &CondExpr{test: test, then: then, els: els}, nil
}

func (r *Rewriter) rewriteTypeIs(x *TypeIsExpr) (Expr, error) {
	operand, err := r.Rewrite(x.operand)
	if err != nil {
		return nil, err
	}
	if operand == x.operand {
		return x, nil
	}
	return &TypeIsExpr{operand: operand, typeOperand: x.typeOperand}, nil
}

func (r *Rewriter) rewriteLambda(x *LambdaExpr) (Expr, error) {
	params, err := RewriteList(x.params, func(p *ParamExpr) (*ParamExpr, error) {
		return VisitAndConvert(r, p, "Lambda.Parameters")
	})
	if err != nil {
		return nil, err
	}
	body, err := r.Rewrite(x.body)
	if err != nil {
		return nil, err
	}
	if sliceIdentical(params, x.params) && body == x.body {
		return x, nil
	}
	tracer().Debugf("rebuilding lambda %s", x)
	return &LambdaExpr{params: params, body: body, typ: x.typ}, nil
}

func (r *Rewriter) rewriteCall(x *CallExpr) (Expr, error) {
	recv, err := r.Rewrite(x.recv)
	if err != nil {
		return nil, err
	}
	args, err := RewriteList(x.args, r.Rewrite)
	if err != nil {
		return nil, err
	}
	if recv == x.recv && sliceIdentical(args, x.args) {
		return x, nil
	}
	return &CallExpr{recv: recv, method: x.method, args: args}, nil
}

func (r *Rewriter) rewriteInvoke(x *InvokeExpr) (Expr, error) {
	target, err := r.Rewrite(x.target)
	if err != nil {
		return nil, err
	}
	args, err := RewriteList(x.args, r.Rewrite)
	if err != nil {
		return nil, err
	}
	if target == x.target && sliceIdentical(args, x.args) {
		return x, nil
	}
	return &InvokeExpr{target: target, args: args}, nil
}

func (r *Rewriter) rewriteMember(x *MemberExpr) (Expr, error) {
	instance, err := r.Rewrite(x.instance)
	if err != nil {
		return nil, err
	}
	if instance == x.instance {
		return x, nil
	}
	return &MemberExpr{instance: instance, member: x.member}, nil
}

func (r *Rewriter) rewriteNew(x *NewExpr) (Expr, error) {
	args, err := RewriteList(x.args, r.Rewrite)
	if err != nil {
		return nil, err
	}
	if sliceIdentical(args, x.args) {
		return x, nil
	}
	// the position ↔ member association survives the rebuild untouched
	return &NewExpr{ctor: x.ctor, args: args, members: x.members}, nil
}

func (r *Rewriter) rewriteNewArray(x *NewArrayExpr) (Expr, error) {
	exprs, err := RewriteList(x.exprs, r.Rewrite)
	if err != nil {
		return nil, err
	}
	if sliceIdentical(exprs, x.exprs) {
		return x, nil
	}
	return &NewArrayExpr{kind: x.kind, elem: x.elem, exprs: exprs}, nil
}

func (r *Rewriter) rewriteMemberInit(x *MemberInitExpr) (Expr, error) {
	anchor, err := r.Rewrite(x.construct)
	if err != nil {
		return nil, err
	}
	construct, ok := anchor.(*NewExpr)
	if !ok {
		return nil, fmt.Errorf("%w: MemberInit anchor must remain a construction, got %s",
			ErrStructuralInvariant, kindOf(anchor))
	}
	bindings, err := RewriteList(x.bindings, r.rewriteBinding)
	if err != nil {
		return nil, err
	}
	if construct == x.construct && sliceIdentical(bindings, x.bindings) {
		return x, nil
	}
	return &MemberInitExpr{construct: construct, bindings: bindings}, nil
}

func (r *Rewriter) rewriteListInit(x *ListInitExpr) (Expr, error) {
	anchor, err := r.Rewrite(x.construct)
	if err != nil {
		return nil, err
	}
	construct, ok := anchor.(*NewExpr)
	if !ok {
		return nil, fmt.Errorf("%w: ListInit anchor must remain a construction, got %s",
			ErrStructuralInvariant, kindOf(anchor))
	}
	inits, err := RewriteList(x.inits, r.rewriteElementInit)
	if err != nil {
		return nil, err
	}
	if construct == x.construct && sliceIdentical(inits, x.inits) {
		return x, nil
	}
	return &ListInitExpr{construct: construct, inits: inits}, nil
}

// --- Binding dispatch -------------------------------------------------------

// rewriteBinding dispatches over the closed binding variant set, mirroring
// the node dispatch but scoped to the Binding category.
func (r *Rewriter) rewriteBinding(b Binding) (Binding, error) {
	switch b := b.(type) {
	case *Assignment:
		value, err := r.Rewrite(b.value)
		if err != nil {
			return nil, err
		}
		if isAbsent(value) {
			return nil, fmt.Errorf("%w: Assignment %s rewritten to an absent value",
				ErrArgumentAbsent, b.member)
		}
		if value == b.value {
			return b, nil
		}
		return &Assignment{member: b.member, value: value}, nil
	case *NestedBinding:
		bindings, err := RewriteList(b.bindings, r.rewriteBinding)
		if err != nil {
			return nil, err
		}
		if sliceIdentical(bindings, b.bindings) {
			return b, nil
		}
		return &NestedBinding{member: b.member, bindings: bindings}, nil
	case *ListBinding:
		inits, err := RewriteList(b.inits, r.rewriteElementInit)
		if err != nil {
			return nil, err
		}
		if sliceIdentical(inits, b.inits) {
			return b, nil
		}
		return &ListBinding{member: b.member, inits: inits}, nil
	}
	return nil, fmt.Errorf("%w: %s cannot process binding %v", ErrUnsupportedKind, r.name, b)
}

// rewriteElementInit runs an element initializer's arguments through the
// list rewriter, keeping the add-method reference.
func (r *Rewriter) rewriteElementInit(e *ElementInit) (*ElementInit, error) {
	args, err := RewriteList(e.args, r.Rewrite)
	if err != nil {
		return nil, err
	}
	if sliceIdentical(args, e.args) {
		return e, nil
	}
	return &ElementInit{addMethod: e.addMethod, args: args}, nil
}

// kindOf names a node's kind, tolerating absent nodes.
func kindOf(x Expr) Kind {
	if x == nil {
		return NoKind
	}
	return x.Kind()
}
