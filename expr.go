package querex

/*
License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/

import (
	"fmt"
	"reflect"
	"strings"
)

// Expr is an immutable query-expression tree node. Nodes carry a kind tag,
// zero or more children, kind-specific auxiliary metadata, and a declared
// result category (the static type consumers must respect when substituting
// a rewritten child).
//
// Nodes are never mutated in place. Rewrites allocate fresh nodes and share
// unchanged subtrees with the input tree, which is why "did this child
// change" checks throughout this package compare node handles with ==,
// never structural equality.
type Expr interface {
	Kind() Kind
	Type() reflect.Type // declared result category, may be nil for untyped nodes
	String() string
}

// --- Terminal leaves --------------------------------------------------------

// ConstExpr is a literal value. A terminal leaf: rewriting always returns
// the same instance.
type ConstExpr struct {
	value interface{}
	typ   reflect.Type
}

// Constant creates a literal node. The declared category is taken from the
// value; a nil value yields an untyped constant.
func Constant(value interface{}) *ConstExpr {
	return &ConstExpr{value: value, typ: reflect.TypeOf(value)}
}

// TypedConstant creates a literal node with an explicit declared category.
func TypedConstant(value interface{}, typ reflect.Type) *ConstExpr {
	return &ConstExpr{value: value, typ: typ}
}

func (x *ConstExpr) Kind() Kind { return KindConstant }
func (x *ConstExpr) Type() reflect.Type { return x.typ }
func (x *ConstExpr) Value() interface{} { return x.value }

func (x *ConstExpr) String() string {
	if s, ok := x.value.(string); ok {
		return fmt.Sprintf("%q", s)
	}
	return fmt.Sprintf("%v", x.value)
}

// ParamExpr is a named parameter of a lambda. A terminal leaf.
type ParamExpr struct {
	name string
	typ  reflect.Type
}

// Parameter creates a parameter node. Parameters are referenced by handle:
// two parameters with equal names are still distinct nodes.
func Parameter(name string, typ reflect.Type) *ParamExpr {
	return &ParamExpr{name: name, typ: typ}
}

func (x *ParamExpr) Kind() Kind { return KindParameter }
func (x *ParamExpr) Type() reflect.Type { return x.typ }
func (x *ParamExpr) Name() string { return x.name }
func (x *ParamExpr) String() string { return x.name }

// --- Operator applications --------------------------------------------------

// UnaryExpr applies an operator to a single operand. It may carry a
// reference to a user-defined operator method.
type UnaryExpr struct {
	op      Op
	operand Expr
	typ     reflect.Type
	method  *MethodRef
}

// Unary creates a unary operator node.
func Unary(op Op, operand Expr, typ reflect.Type, method *MethodRef) (*UnaryExpr, error) {
	if operand == nil {
		return nil, fmt.Errorf("%w: Unary operand", ErrArgumentAbsent)
	}
	return &UnaryExpr{op: op, operand: operand, typ: typ, method: method}, nil
}

func (x *UnaryExpr) Kind() Kind { return KindUnary }
func (x *UnaryExpr) Type() reflect.Type { return x.typ }
func (x *UnaryExpr) Op() Op { return x.op }
func (x *UnaryExpr) Operand() Expr { return x.operand }
func (x *UnaryExpr) Method() *MethodRef { return x.method }

func (x *UnaryExpr) String() string {
	return fmt.Sprintf("(%s %s)", x.op, x.operand)
}

// BinaryExpr applies an operator to two operands. It may carry an operator
// method reference and a conversion lambda (a lifted operator's conversion
// step), both auxiliary metadata.
type BinaryExpr struct {
	op         Op
	left       Expr
	right      Expr
	typ        reflect.Type
	method     *MethodRef
	conversion *LambdaExpr
}

// Binary creates a binary operator node.
func Binary(op Op, left, right Expr, typ reflect.Type) (*BinaryExpr, error) {
	if left == nil {
		return nil, fmt.Errorf("%w: Binary left operand", ErrArgumentAbsent)
	}
	if right == nil {
		return nil, fmt.Errorf("%w: Binary right operand", ErrArgumentAbsent)
	}
	return &BinaryExpr{op: op, left: left, right: right, typ: typ}, nil
}

// BinaryFull creates a binary operator node carrying an operator method and
// a conversion lambda. Either may be nil.
func BinaryFull(op Op, left, right Expr, typ reflect.Type, method *MethodRef,
	conversion *LambdaExpr) (*BinaryExpr, error) {
	//
	b, err := Binary(op, left, right, typ)
	if err != nil {
		return nil, err
	}
	b.method = method
	b.conversion = conversion
	return b, nil
}

func (x *BinaryExpr) Kind() Kind { return KindBinary }
func (x *BinaryExpr) Type() reflect.Type { return x.typ }
func (x *BinaryExpr) Op() Op { return x.op }
func (x *BinaryExpr) Left() Expr { return x.left }
func (x *BinaryExpr) Right() Expr { return x.right }
func (x *BinaryExpr) Method() *MethodRef { return x.method }
func (x *BinaryExpr) Conversion() *LambdaExpr { return x.conversion }

func (x *BinaryExpr) String() string {
	return fmt.Sprintf("(%s %s %s)", x.left, x.op, x.right)
}

// CondExpr is a conditional: test, consequent, alternative.
type CondExpr struct {
	test Expr
	then Expr
	els  Expr
}

// Cond creates a conditional node. Its declared category is the consequent's.
func Cond(test, then, els Expr) (*CondExpr, error) {
	if test == nil || then == nil || els == nil {
		return nil, fmt.Errorf("%w: Cond child", ErrArgumentAbsent)
	}
	return &CondExpr{test: test, then: then, els: els}, nil
}

func (x *CondExpr) Kind() Kind { return KindCond }
func (x *CondExpr) Type() reflect.Type {
	return x.then.Type()
}
func (x *CondExpr) Test() Expr { return x.test }
func (x *CondExpr) Then() Expr { return x.then }
func (x *CondExpr) Else() Expr { return x.els }

func (x *CondExpr) String() string {
	return fmt.Sprintf("(%s ? %s : %s)", x.test, x.then, x.els)
}

// TypeIsExpr tests its operand against an immutable type operand.
type TypeIsExpr struct {
	operand     Expr
	typeOperand reflect.Type
}

// TypeIs creates a type-test node.
func TypeIs(operand Expr, typeOperand reflect.Type) (*TypeIsExpr, error) {
	if operand == nil {
		return nil, fmt.Errorf("%w: TypeIs operand", ErrArgumentAbsent)
	}
	if typeOperand == nil {
		return nil, fmt.Errorf("%w: TypeIs type operand", ErrArgumentAbsent)
	}
	return &TypeIsExpr{operand: operand, typeOperand: typeOperand}, nil
}

func (x *TypeIsExpr) Kind() Kind { return KindTypeIs }
func (x *TypeIsExpr) Type() reflect.Type { return reflect.TypeOf(true) }
func (x *TypeIsExpr) Operand() Expr { return x.operand }
func (x *TypeIsExpr) TypeOperand() reflect.Type { return x.typeOperand }

func (x *TypeIsExpr) String() string {
	return fmt.Sprintf("(%s is %s)", x.operand, x.typeOperand)
}

// --- Lambdas, calls and invocations -----------------------------------------

// LambdaExpr is an anonymous function: an ordered parameter list plus a
// body expression.
type LambdaExpr struct {
	params []*ParamExpr
	body   Expr
	typ    reflect.Type
}

// Lambda creates a lambda node. The declared category is a function type
// derived from parameter and body categories; it stays nil as long as any
// of them is untyped.
func Lambda(body Expr, params ...*ParamExpr) (*LambdaExpr, error) {
	if body == nil {
		return nil, fmt.Errorf("%w: Lambda body", ErrArgumentAbsent)
	}
	return &LambdaExpr{params: params, body: body, typ: funcTypeFor(body, params)}, nil
}

func funcTypeFor(body Expr, params []*ParamExpr) reflect.Type {
	if body.Type() == nil {
		return nil
	}
	in := make([]reflect.Type, len(params))
	for i, p := range params {
		if p == nil || p.typ == nil {
			return nil
		}
		in[i] = p.typ
	}
	return reflect.FuncOf(in, []reflect.Type{body.Type()}, false)
}

func (x *LambdaExpr) Kind() Kind { return KindLambda }
func (x *LambdaExpr) Type() reflect.Type { return x.typ }
func (x *LambdaExpr) Body() Expr { return x.body }

// Params returns the ordered parameter list. Callers must not modify the
// returned slice.
func (x *LambdaExpr) Params() []*ParamExpr { return x.params }

func (x *LambdaExpr) String() string {
	var b strings.Builder
	b.WriteString("λ(")
	for i, p := range x.params {
		if i > 0 {
			b.WriteString(" ")
		}
		b.WriteString(p.String())
	}
	b.WriteString(") ↦ ")
	b.WriteString(x.body.String())
	return b.String()
}

// CallExpr calls a method, optionally on a receiver expression.
type CallExpr struct {
	recv   Expr // nil for free functions
	method *MethodRef
	args   []Expr
}

// Call creates a method-call node. recv may be nil.
func Call(recv Expr, method *MethodRef, args ...Expr) (*CallExpr, error) {
	if method == nil {
		return nil, fmt.Errorf("%w: Call method reference", ErrArgumentAbsent)
	}
	return &CallExpr{recv: recv, method: method, args: args}, nil
}

func (x *CallExpr) Kind() Kind { return KindCall }
func (x *CallExpr) Type() reflect.Type {
	return x.method.Result
}
func (x *CallExpr) Receiver() Expr { return x.recv }
func (x *CallExpr) Method() *MethodRef { return x.method }

// Args returns the ordered argument list. Callers must not modify the
// returned slice.
func (x *CallExpr) Args() []Expr { return x.args }

func (x *CallExpr) String() string {
	if x.recv == nil {
		return fmt.Sprintf("%s(%s)", x.method, exprList(x.args))
	}
	return fmt.Sprintf("%s.%s(%s)", x.recv, x.method, exprList(x.args))
}

// InvokeExpr applies a callable expression (usually a lambda) to arguments.
type InvokeExpr struct {
	target Expr
	args   []Expr
}

// Invoke creates an invocation node.
func Invoke(target Expr, args ...Expr) (*InvokeExpr, error) {
	if target == nil {
		return nil, fmt.Errorf("%w: Invoke target", ErrArgumentAbsent)
	}
	return &InvokeExpr{target: target, args: args}, nil
}

func (x *InvokeExpr) Kind() Kind { return KindInvoke }
func (x *InvokeExpr) Type() reflect.Type {
	if t := x.target.Type(); t != nil && t.Kind() == reflect.Func && t.NumOut() > 0 {
		return t.Out(0)
	}
	return nil
}
func (x *InvokeExpr) Target() Expr { return x.target }

// Args returns the ordered argument list. Callers must not modify the
// returned slice.
func (x *InvokeExpr) Args() []Expr { return x.args }

func (x *InvokeExpr) String() string {
	return fmt.Sprintf("%s(%s)", x.target, exprList(x.args))
}

// MemberExpr accesses a member on an instance expression. The member
// reference is fixed; rebuilds only ever rewrite the instance.
type MemberExpr struct {
	instance Expr // nil for members of a static host
	member   *MemberRef
}

// Member creates a member-access node. instance may be nil.
func Member(instance Expr, member *MemberRef) (*MemberExpr, error) {
	if member == nil {
		return nil, fmt.Errorf("%w: Member reference", ErrArgumentAbsent)
	}
	return &MemberExpr{instance: instance, member: member}, nil
}

func (x *MemberExpr) Kind() Kind { return KindMember }
func (x *MemberExpr) Type() reflect.Type { return x.member.Type }
func (x *MemberExpr) Instance() Expr { return x.instance }
func (x *MemberExpr) Member() *MemberRef { return x.member }

func (x *MemberExpr) String() string {
	if x.instance == nil {
		return x.member.Name
	}
	return fmt.Sprintf("%s.%s", x.instance, x.member)
}

// --- Construction -----------------------------------------------------------

// NewExpr constructs an object. If members is set, it associates argument
// positions with member references; the association is preserved verbatim
// on rebuild.
type NewExpr struct {
	ctor    *CtorRef
	args    []Expr
	members []*MemberRef
}

// New creates a construction node.
func New(ctor *CtorRef, args ...Expr) (*NewExpr, error) {
	if ctor == nil {
		return nil, fmt.Errorf("%w: New constructor reference", ErrArgumentAbsent)
	}
	return &NewExpr{ctor: ctor, args: args}, nil
}

// NewWithMembers creates a construction node whose argument positions are
// associated with member references.
func NewWithMembers(ctor *CtorRef, args []Expr, members []*MemberRef) (*NewExpr, error) {
	n, err := New(ctor, args...)
	if err != nil {
		return nil, err
	}
	if len(members) != len(args) {
		return nil, fmt.Errorf("New has %d members for %d arguments", len(members), len(args))
	}
	n.members = members
	return n, nil
}

func (x *NewExpr) Kind() Kind { return KindNew }
func (x *NewExpr) Type() reflect.Type {
	return x.ctor.Type
}
func (x *NewExpr) Ctor() *CtorRef { return x.ctor }

// Args returns the ordered argument list. Callers must not modify the
// returned slice.
func (x *NewExpr) Args() []Expr { return x.args }

// Members returns the member references associated with argument positions,
// or nil. Callers must not modify the returned slice.
func (x *NewExpr) Members() []*MemberRef { return x.members }

func (x *NewExpr) String() string {
	return fmt.Sprintf("new %s(%s)", x.ctor, exprList(x.args))
}

// NewArrayExpr constructs an array, either from dimension bounds or from an
// initializer list. The two variants share a node type but keep distinct
// kind tags, and rebuilds preserve the variant.
type NewArrayExpr struct {
	kind  Kind // KindNewArrayBounds or KindNewArrayInit
	elem  reflect.Type
	exprs []Expr
}

// NewArrayBounds creates an array-construction node with dimension bounds.
func NewArrayBounds(elem reflect.Type, bounds ...Expr) (*NewArrayExpr, error) {
	if elem == nil {
		return nil, fmt.Errorf("%w: NewArrayBounds element type", ErrArgumentAbsent)
	}
	return &NewArrayExpr{kind: KindNewArrayBounds, elem: elem, exprs: bounds}, nil
}

// NewArrayInit creates an array-construction node with initializer elements.
func NewArrayInit(elem reflect.Type, elems ...Expr) (*NewArrayExpr, error) {
	if elem == nil {
		return nil, fmt.Errorf("%w: NewArrayInit element type", ErrArgumentAbsent)
	}
	return &NewArrayExpr{kind: KindNewArrayInit, elem: elem, exprs: elems}, nil
}

func (x *NewArrayExpr) Kind() Kind { return x.kind }
func (x *NewArrayExpr) Type() reflect.Type { return reflect.SliceOf(x.elem) }
func (x *NewArrayExpr) Elem() reflect.Type { return x.elem }

// Exprs returns the bounds or initializer elements, depending on the
// variant. Callers must not modify the returned slice.
func (x *NewArrayExpr) Exprs() []Expr { return x.exprs }

func (x *NewArrayExpr) String() string {
	if x.kind == KindNewArrayBounds {
		return fmt.Sprintf("new %s[%s]", x.elem, exprList(x.exprs))
	}
	return fmt.Sprintf("new %s{%s}", x.elem, exprList(x.exprs))
}

// MemberInitExpr anchors at a construction node and applies member bindings
// to the constructed object. The anchor must be a construction node, and
// must still be one after rewriting.
type MemberInitExpr struct {
	construct *NewExpr
	bindings  []Binding
}

// MemberInit creates a member-initializer node.
func MemberInit(construct *NewExpr, bindings ...Binding) (*MemberInitExpr, error) {
	if construct == nil {
		return nil, fmt.Errorf("%w: MemberInit anchor", ErrArgumentAbsent)
	}
	return &MemberInitExpr{construct: construct, bindings: bindings}, nil
}

func (x *MemberInitExpr) Kind() Kind { return KindMemberInit }
func (x *MemberInitExpr) Type() reflect.Type { return x.construct.Type() }
func (x *MemberInitExpr) Construct() *NewExpr { return x.construct }

// Bindings returns the ordered binding list. Callers must not modify the
// returned slice.
func (x *MemberInitExpr) Bindings() []Binding { return x.bindings }

func (x *MemberInitExpr) String() string {
	parts := make([]string, len(x.bindings))
	for i, b := range x.bindings {
		parts[i] = b.String()
	}
	return fmt.Sprintf("%s{%s}", x.construct, strings.Join(parts, ", "))
}

// ListInitExpr anchors at a construction node and fills the constructed
// collection with element initializers. Same anchor invariant as
// MemberInitExpr.
type ListInitExpr struct {
	construct *NewExpr
	inits     []*ElementInit
}

// ListInit creates a list-initializer node.
func ListInit(construct *NewExpr, inits ...*ElementInit) (*ListInitExpr, error) {
	if construct == nil {
		return nil, fmt.Errorf("%w: ListInit anchor", ErrArgumentAbsent)
	}
	return &ListInitExpr{construct: construct, inits: inits}, nil
}

func (x *ListInitExpr) Kind() Kind { return KindListInit }
func (x *ListInitExpr) Type() reflect.Type { return x.construct.Type() }
func (x *ListInitExpr) Construct() *NewExpr { return x.construct }

// Inits returns the ordered element initializers. Callers must not modify
// the returned slice.
func (x *ListInitExpr) Inits() []*ElementInit { return x.inits }

func (x *ListInitExpr) String() string {
	parts := make([]string, len(x.inits))
	for i, e := range x.inits {
		parts[i] = e.String()
	}
	return fmt.Sprintf("%s{%s}", x.construct, strings.Join(parts, ", "))
}

// --- Provider-specific opaque leaves ----------------------------------------

// SubqueryExpr references a nested query model produced by an upstream
// query compiler. The rewriter treats it as an atomic unit.
type SubqueryExpr struct {
	model interface{}
	typ   reflect.Type
}

// Subquery creates a sub-query reference node wrapping an opaque query
// model.
func Subquery(model interface{}, typ reflect.Type) *SubqueryExpr {
	return &SubqueryExpr{model: model, typ: typ}
}

func (x *SubqueryExpr) Kind() Kind { return KindSubquery }
func (x *SubqueryExpr) Type() reflect.Type { return x.typ }
func (x *SubqueryExpr) Model() interface{} { return x.model }

func (x *SubqueryExpr) String() string {
	return fmt.Sprintf("(subquery %v)", x.typ)
}

// SourceRefExpr references a query source, i.e. the "start of query" root a
// data-source adapter contributes. Its declared category is sequence-of-elem.
type SourceRefExpr struct {
	name string
	elem reflect.Type
}

// SourceRef creates a query-source reference node.
func SourceRef(name string, elem reflect.Type) *SourceRefExpr {
	return &SourceRefExpr{name: name, elem: elem}
}

func (x *SourceRefExpr) Kind() Kind { return KindSourceRef }
func (x *SourceRefExpr) Type() reflect.Type {
	if x.elem == nil {
		return nil
	}
	return reflect.SliceOf(x.elem)
}
func (x *SourceRefExpr) Name() string { return x.name }
func (x *SourceRefExpr) Elem() reflect.Type { return x.elem }

func (x *SourceRefExpr) String() string {
	return fmt.Sprintf("source(%s)", x.name)
}

// --- Helpers ----------------------------------------------------------------

func exprList(xs []Expr) string {
	parts := make([]string, len(xs))
	for i, x := range xs {
		parts[i] = x.String()
	}
	return strings.Join(parts, ", ")
}
