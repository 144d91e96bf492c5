package querex

import (
	"errors"
	"reflect"
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
)

func TestFactoriesRequireArguments(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "querex")
	defer teardown()
	//
	p := Parameter("p", intType)
	member := &MemberRef{Name: "X"}
	cases := []struct {
		name string
		err  error
	}{
		{"Unary", errOf(Unary(OpNeg, nil, intType, nil))},
		{"Binary/left", errOf(Binary(OpAdd, nil, p, intType))},
		{"Binary/right", errOf(Binary(OpAdd, p, nil, intType))},
		{"Cond", errOf(Cond(nil, p, p))},
		{"TypeIs/operand", errOf(TypeIs(nil, intType))},
		{"TypeIs/type", errOf(TypeIs(p, nil))},
		{"Lambda", errOf(Lambda(nil))},
		{"Call", errOf(Call(p, nil))},
		{"Invoke", errOf(Invoke(nil))},
		{"Member", errOf(Member(p, nil))},
		{"New", errOf(New(nil))},
		{"NewArrayBounds", errOf(NewArrayBounds(nil))},
		{"NewArrayInit", errOf(NewArrayInit(nil))},
		{"MemberInit", errOf(MemberInit(nil))},
		{"ListInit", errOf(ListInit(nil))},
		{"Bind/member", errOf(Bind(nil, p))},
		{"Bind/value", errOf(Bind(member, nil))},
		{"BindMembers", errOf(BindMembers(nil))},
		{"BindList", errOf(BindList(nil))},
		{"ElemInit/method", errOf(ElemInit(nil, p))},
		{"ElemInit/args", errOf(ElemInit(&MethodRef{Name: "Add"}))},
	}
	for _, c := range cases {
		if !errors.Is(c.err, ErrArgumentAbsent) {
			t.Errorf("%s: got %v, want ErrArgumentAbsent", c.name, c.err)
		}
	}
}

func errOf[T any](_ T, err error) error { return err }

func TestDeclaredCategories(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "querex")
	defer teardown()
	//
	if typ := Constant(42).Type(); typ != intType {
		t.Errorf("constant category is %v", typ)
	}
	if typ := TypedConstant(nil, intType).Type(); typ != intType {
		t.Errorf("typed constant category is %v", typ)
	}
	src := SourceRef("ints", intType)
	if typ := src.Type(); typ != reflect.SliceOf(intType) {
		t.Errorf("source-reference category is %v, want []int", typ)
	}
	ti := must(TypeIs(Constant(1), intType))
	if typ := ti.Type(); typ.Kind() != reflect.Bool {
		t.Errorf("type-test category is %v, want bool", typ)
	}
	a := Parameter("a", intType)
	lam := must(Lambda(a, a))
	want := reflect.FuncOf([]reflect.Type{intType}, []reflect.Type{intType}, false)
	if typ := lam.Type(); typ != want {
		t.Errorf("lambda category is %v, want %v", typ, want)
	}
	cond := must(Cond(Constant(true), a, Constant(2)))
	if typ := cond.Type(); typ != intType {
		t.Errorf("conditional category is %v", typ)
	}
}

func TestNewWithMembersArity(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "querex")
	defer teardown()
	//
	ctor := &CtorRef{Type: reflect.TypeOf(struct{ X int }{})}
	_, err := NewWithMembers(ctor, []Expr{Constant(1)}, nil)
	if err == nil {
		t.Errorf("mismatched member association accepted")
	}
}

func TestRendering(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "querex")
	defer teardown()
	//
	a := Parameter("a", intType)
	b := Parameter("b", intType)
	add := must(Binary(OpAdd, a, b, intType))
	if s := add.String(); s != "(a + b)" {
		t.Errorf("binary renders as %q", s)
	}
	lam := must(Lambda(add, a, b))
	if s := lam.String(); s != "λ(a b) ↦ (a + b)" {
		t.Errorf("lambda renders as %q", s)
	}
	if s := Constant("hi").String(); s != `"hi"` {
		t.Errorf("string constant renders as %q", s)
	}
	neg := must(Unary(OpNeg, a, intType, nil))
	if s := neg.String(); s != "(- a)" {
		t.Errorf("unary renders as %q", s)
	}
	member := &MemberRef{Name: "Name", Type: reflect.TypeOf("")}
	acc := must(Member(a, member))
	if s := acc.String(); s != "a.Name" {
		t.Errorf("member access renders as %q", s)
	}
}

func TestKindAndOpNames(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "querex")
	defer teardown()
	//
	if KindMemberInit.String() != "MemberInit" {
		t.Errorf("kind name table broken: %s", KindMemberInit)
	}
	if Kind(99).String() != "Kind(99)" {
		t.Errorf("out-of-range kind renders as %s", Kind(99))
	}
	if OpLeq.String() != "<=" {
		t.Errorf("op name table broken: %s", OpLeq)
	}
	if Op(99).String() != "Op(99)" {
		t.Errorf("out-of-range op renders as %s", Op(99))
	}
}
