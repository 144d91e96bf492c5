package querex

/*
License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/

import (
	"errors"
	"fmt"
	"reflect"
)

// --- Expression kinds -------------------------------------------------------

// Kind is the tag selecting which rebuild rule an expression node follows.
// The set of kinds is closed, except for KindExtension, which marks nodes
// participating through the Rewritable capability pair.
type Kind int

// The closed set of node kinds.
const (
	NoKind Kind = iota
	KindConstant
	KindParameter
	KindUnary
	KindBinary
	KindCond
	KindLambda
	KindCall
	KindInvoke
	KindMember
	KindNew
	KindNewArrayBounds
	KindNewArrayInit
	KindMemberInit
	KindListInit
	KindTypeIs
	KindSubquery  // opaque leaf, see Rewriter
	KindSourceRef // opaque leaf, see Rewriter
	KindExtension // marker for nodes outside the closed set
)

var kindNames = []string{"None", "Constant", "Parameter", "Unary", "Binary",
	"Cond", "Lambda", "Call", "Invoke", "Member", "New", "NewArrayBounds",
	"NewArrayInit", "MemberInit", "ListInit", "TypeIs", "Subquery",
	"SourceRef", "Extension"}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kindNames[k]
}

// --- Operators --------------------------------------------------------------

// Op is an operator symbol carried by unary and binary nodes. The rewriter
// never interprets operators; they are auxiliary metadata preserved verbatim
// on rebuild.
type Op int

// Operator vocabulary for unary and binary expressions.
const (
	NoOp Op = iota
	OpAdd
	OpSub
	OpMul
	OpDiv
	OpMod
	OpEq
	OpNeq
	OpLt
	OpLeq
	OpGt
	OpGeq
	OpAnd
	OpOr
	OpNeg  // unary minus
	OpPlus // unary plus
	OpNot
)

var opNames = []string{"·", "+", "-", "*", "/", "%", "==", "!=", "<", "<=",
	">", ">=", "and", "or", "-", "+", "not"}

func (op Op) String() string {
	if op < 0 || int(op) >= len(opNames) {
		return fmt.Sprintf("Op(%d)", int(op))
	}
	return opNames[op]
}

// --- Member, method and constructor references ------------------------------

// A MemberRef names a field or property of some host type. References are
// opaque to the rewriter and compared by handle, never by content.
type MemberRef struct {
	Name string       // member name within its host type
	Type reflect.Type // declared type of the member, may be nil
}

func (m *MemberRef) String() string {
	if m == nil {
		return "<no member>"
	}
	return m.Name
}

// A MethodRef names a callable method or function.
type MethodRef struct {
	Name   string       // method name
	Recv   reflect.Type // receiver type, nil for free functions
	Result reflect.Type // declared result type, may be nil
}

func (m *MethodRef) String() string {
	if m == nil {
		return "<no method>"
	}
	return m.Name
}

// A CtorRef names a constructor for a host type.
type CtorRef struct {
	Type reflect.Type // type the constructor produces
}

func (c *CtorRef) String() string {
	if c == nil || c.Type == nil {
		return "<no ctor>"
	}
	return c.Type.String()
}

// --- Errors -----------------------------------------------------------------

// All errors raised by this package signal contract violations in a
// caller-supplied rewrite, not transient conditions. Every one of them
// aborts the visit; there is no partial tree and no recovery.
var (
	// ErrUnsupportedKind: the dispatcher reached a kind outside the closed
	// set which does not implement Rewritable.
	ErrUnsupportedKind = errors.New("unsupported expression kind")

	// ErrKindMismatchInList: a rewritten list element is absent or fails
	// its declared element category.
	ErrKindMismatchInList = errors.New("kind mismatch in list")

	// ErrCategoryMismatch: a rewritten child left the category the calling
	// rebuild rule requires (see VisitAndConvert).
	ErrCategoryMismatch = errors.New("category mismatch on convert")

	// ErrStructuralInvariant: a member-init or list-init anchor is no longer
	// a construction node after rewriting.
	ErrStructuralInvariant = errors.New("structural invariant violation")

	// ErrArgumentAbsent: a required input is missing.
	ErrArgumentAbsent = errors.New("argument absent")
)
