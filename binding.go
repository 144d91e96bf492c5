package querex

/*
License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/

import (
	"fmt"
	"strings"
)

// --- Bindings ---------------------------------------------------------------

// BindKind tags the closed set of binding variants.
type BindKind int

// The three binding variants of member-initializer nodes.
const (
	BindAssign   BindKind = iota // direct assignment of a value expression
	BindNested                   // bindings on a nested member
	BindKindList                 // element initializers on a collection member
)

var bindKindNames = []string{"Assign", "Nested", "List"}

func (k BindKind) String() string {
	if k < 0 || int(k) >= len(bindKindNames) {
		return fmt.Sprintf("BindKind(%d)", int(k))
	}
	return bindKindNames[k]
}

// Binding initializes one member of an object constructed by a
// member-initializer node. Bindings follow the same rewrite discipline as
// Expr nodes (immutable, rebuilt minimally, compared by handle), but over
// their own closed variant set.
type Binding interface {
	BindKind() BindKind
	Member() *MemberRef
	String() string
}

// Assignment binds a member directly to a value expression.
type Assignment struct {
	member *MemberRef
	value  Expr
}

// Bind creates a direct-assignment binding.
func Bind(member *MemberRef, value Expr) (*Assignment, error) {
	if member == nil {
		return nil, fmt.Errorf("%w: Bind member reference", ErrArgumentAbsent)
	}
	if value == nil {
		return nil, fmt.Errorf("%w: Bind value", ErrArgumentAbsent)
	}
	return &Assignment{member: member, value: value}, nil
}

func (b *Assignment) BindKind() BindKind { return BindAssign }
func (b *Assignment) Member() *MemberRef { return b.member }
func (b *Assignment) Value() Expr { return b.value }

func (b *Assignment) String() string {
	return fmt.Sprintf("%s = %s", b.member, b.value)
}

// NestedBinding binds a member by applying further bindings to it.
type NestedBinding struct {
	member   *MemberRef
	bindings []Binding
}

// BindMembers creates a nested-member binding.
func BindMembers(member *MemberRef, bindings ...Binding) (*NestedBinding, error) {
	if member == nil {
		return nil, fmt.Errorf("%w: BindMembers member reference", ErrArgumentAbsent)
	}
	return &NestedBinding{member: member, bindings: bindings}, nil
}

func (b *NestedBinding) BindKind() BindKind { return BindNested }
func (b *NestedBinding) Member() *MemberRef { return b.member }

// Bindings returns the ordered child bindings. Callers must not modify the
// returned slice.
func (b *NestedBinding) Bindings() []Binding { return b.bindings }

func (b *NestedBinding) String() string {
	parts := make([]string, len(b.bindings))
	for i, c := range b.bindings {
		parts[i] = c.String()
	}
	return fmt.Sprintf("%s = {%s}", b.member, strings.Join(parts, ", "))
}

// ListBinding binds a collection member by filling it through element
// initializers.
type ListBinding struct {
	member *MemberRef
	inits  []*ElementInit
}

// BindList creates a list binding.
func BindList(member *MemberRef, inits ...*ElementInit) (*ListBinding, error) {
	if member == nil {
		return nil, fmt.Errorf("%w: BindList member reference", ErrArgumentAbsent)
	}
	return &ListBinding{member: member, inits: inits}, nil
}

func (b *ListBinding) BindKind() BindKind { return BindKindList }
func (b *ListBinding) Member() *MemberRef { return b.member }

// Inits returns the ordered element initializers. Callers must not modify
// the returned slice.
func (b *ListBinding) Inits() []*ElementInit { return b.inits }

func (b *ListBinding) String() string {
	parts := make([]string, len(b.inits))
	for i, e := range b.inits {
		parts[i] = e.String()
	}
	return fmt.Sprintf("%s = [%s]", b.member, strings.Join(parts, ", "))
}

// --- Element initializers ---------------------------------------------------

// ElementInit pairs an add-method reference with the argument expressions
// for one element added to a collection under construction. Used by
// list-initializer nodes and list bindings.
type ElementInit struct {
	addMethod *MethodRef
	args      []Expr
}

// ElemInit creates an element initializer.
func ElemInit(addMethod *MethodRef, args ...Expr) (*ElementInit, error) {
	if addMethod == nil {
		return nil, fmt.Errorf("%w: ElemInit add method", ErrArgumentAbsent)
	}
	if len(args) == 0 {
		return nil, fmt.Errorf("%w: ElemInit arguments", ErrArgumentAbsent)
	}
	return &ElementInit{addMethod: addMethod, args: args}, nil
}

func (e *ElementInit) AddMethod() *MethodRef { return e.addMethod }

// Args returns the ordered argument list. Callers must not modify the
// returned slice.
func (e *ElementInit) Args() []Expr { return e.args }

func (e *ElementInit) String() string {
	return fmt.Sprintf("%s(%s)", e.addMethod, exprList(e.args))
}
