package pretty

import (
	"reflect"
	"strings"
	"testing"

	"github.com/npillmayer/querex"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
)

func TestSprint(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "querex.pretty")
	defer teardown()
	//
	intType := reflect.TypeOf(0)
	a := querex.Parameter("a", intType)
	b := querex.Parameter("b", intType)
	add, err := querex.Binary(querex.OpAdd, a, b, intType)
	if err != nil {
		t.Fatal(err)
	}
	lam, err := querex.Lambda(add, a, b)
	if err != nil {
		t.Fatal(err)
	}
	dump := Sprint(lam)
	t.Logf("dump =\n%s", dump)
	for _, want := range []string{"Lambda", "Binary +", "Parameter a", "Parameter b"} {
		if !strings.Contains(dump, want) {
			t.Errorf("dump lacks %q", want)
		}
	}
	lines := strings.Split(strings.TrimRight(dump, "\n"), "\n")
	if len(lines) != 6 { // lambda, 2 params, binary, 2 operands
		t.Errorf("dump has %d lines, want 6", len(lines))
	}
	if !strings.HasPrefix(lines[1], "   ") {
		t.Errorf("children not indented:\n%s", dump)
	}
}

func TestSprintBindings(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "querex.pretty")
	defer teardown()
	//
	intType := reflect.TypeOf(0)
	ctor := &querex.CtorRef{Type: reflect.TypeOf(struct{ X int }{})}
	anchor, err := querex.New(ctor)
	if err != nil {
		t.Fatal(err)
	}
	member := &querex.MemberRef{Name: "X", Type: intType}
	bind, err := querex.Bind(member, querex.Constant(1))
	if err != nil {
		t.Fatal(err)
	}
	minit, err := querex.MemberInit(anchor, bind)
	if err != nil {
		t.Fatal(err)
	}
	dump := Sprint(minit)
	for _, want := range []string{"MemberInit", "New", "Bind/Assign X", "Constant 1"} {
		if !strings.Contains(dump, want) {
			t.Errorf("dump lacks %q:\n%s", want, dump)
		}
	}
}

func TestSprintAbsent(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "querex.pretty")
	defer teardown()
	//
	if got := Sprint(nil); !strings.Contains(got, "∅") {
		t.Errorf("absent tree renders as %q", got)
	}
}
