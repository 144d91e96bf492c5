package pretty

/*
License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/

import (
	"fmt"
	"strings"

	"github.com/npillmayer/querex"
	"github.com/pterm/pterm"
)

// Sprint renders an expression tree as a plain indented dump, one node per
// line, children indented below their parent.
func Sprint(x querex.Expr) string {
	var b strings.Builder
	sprint(&b, x, 0)
	return b.String()
}

// Print writes the tree dump to the terminal. We use pterm for moderately
// fancy output.
func Print(x querex.Expr) {
	tracer().Debugf("dumping %s", headline(x))
	pterm.Info.Prefix = pterm.Prefix{
		Text:  " tree",
		Style: pterm.NewStyle(pterm.BgCyan, pterm.FgBlack),
	}
	pterm.Info.Println(headline(x))
	kindStyle := pterm.NewStyle(pterm.FgCyan)
	for _, line := range strings.Split(strings.TrimRight(Sprint(x), "\n"), "\n") {
		trimmed := strings.TrimLeft(line, " ")
		indent := line[:len(line)-len(trimmed)]
		kind := trimmed
		rest := ""
		if i := strings.Index(trimmed, " "); i >= 0 {
			kind, rest = trimmed[:i], trimmed[i:]
		}
		pterm.Println(indent + kindStyle.Sprint(kind) + rest)
	}
}

func headline(x querex.Expr) string {
	if x == nil {
		return "empty expression tree"
	}
	return fmt.Sprintf("expression tree, root %s", x.Kind())
}

const step = 3 // indent step per tree level

func sprint(b *strings.Builder, x querex.Expr, level int) {
	indent := strings.Repeat(" ", level*step)
	if x == nil {
		fmt.Fprintf(b, "%s∅\n", indent)
		return
	}
	fmt.Fprintf(b, "%s%s%s\n", indent, x.Kind(), detail(x))
	for _, child := range children(x) {
		sprint(b, child, level+1)
	}
	switch x := x.(type) {
	case *querex.MemberInitExpr:
		for _, bind := range x.Bindings() {
			sprintBinding(b, bind, level+1)
		}
	case *querex.ListInitExpr:
		for _, e := range x.Inits() {
			sprintElemInit(b, e, level+1)
		}
	}
}

func sprintBinding(b *strings.Builder, bind querex.Binding, level int) {
	indent := strings.Repeat(" ", level*step)
	fmt.Fprintf(b, "%sBind/%s %s\n", indent, bind.BindKind(), bind.Member())
	switch bind := bind.(type) {
	case *querex.Assignment:
		sprint(b, bind.Value(), level+1)
	case *querex.NestedBinding:
		for _, c := range bind.Bindings() {
			sprintBinding(b, c, level+1)
		}
	case *querex.ListBinding:
		for _, e := range bind.Inits() {
			sprintElemInit(b, e, level+1)
		}
	}
}

func sprintElemInit(b *strings.Builder, e *querex.ElementInit, level int) {
	indent := strings.Repeat(" ", level*step)
	fmt.Fprintf(b, "%sElementInit %s\n", indent, e.AddMethod())
	for _, arg := range e.Args() {
		sprint(b, arg, level+1)
	}
}

// detail renders the node-specific metadata shown behind the kind tag.
func detail(x querex.Expr) string {
	var d string
	switch x := x.(type) {
	case *querex.ConstExpr:
		d = fmt.Sprintf("%v", x.Value())
	case *querex.ParamExpr:
		d = x.Name()
	case *querex.UnaryExpr:
		d = x.Op().String()
	case *querex.BinaryExpr:
		d = x.Op().String()
	case *querex.TypeIsExpr:
		d = x.TypeOperand().String()
	case *querex.CallExpr:
		d = x.Method().Name
	case *querex.MemberExpr:
		d = x.Member().Name
	case *querex.NewExpr:
		d = x.Ctor().String()
	case *querex.NewArrayExpr:
		d = x.Elem().String()
	case *querex.SourceRefExpr:
		d = x.Name()
	case *querex.SubqueryExpr:
		d = "…" // opaque, not descended into
	}
	if d != "" {
		d = " " + d
	}
	if t := x.Type(); t != nil {
		d += fmt.Sprintf(" ∈ %s", t)
	}
	return d
}

// children lists a node's child expressions for dumping, in rebuild order.
func children(x querex.Expr) []querex.Expr {
	switch x := x.(type) {
	case *querex.UnaryExpr:
		return []querex.Expr{x.Operand()}
	case *querex.BinaryExpr:
		kids := []querex.Expr{x.Left(), x.Right()}
		if x.Conversion() != nil {
			kids = append(kids, x.Conversion())
		}
		return kids
	case *querex.CondExpr:
		return []querex.Expr{x.Test(), x.Then(), x.Else()}
	case *querex.TypeIsExpr:
		return []querex.Expr{x.Operand()}
	case *querex.LambdaExpr:
		kids := make([]querex.Expr, 0, len(x.Params())+1)
		for _, p := range x.Params() {
			kids = append(kids, p)
		}
		return append(kids, x.Body())
	case *querex.CallExpr:
		var kids []querex.Expr
		if x.Receiver() != nil {
			kids = append(kids, x.Receiver())
		}
		return append(kids, x.Args()...)
	case *querex.InvokeExpr:
		return append([]querex.Expr{x.Target()}, x.Args()...)
	case *querex.MemberExpr:
		if x.Instance() != nil {
			return []querex.Expr{x.Instance()}
		}
	case *querex.NewExpr:
		return x.Args()
	case *querex.NewArrayExpr:
		return x.Exprs()
	case *querex.MemberInitExpr:
		return []querex.Expr{x.Construct()}
	case *querex.ListInitExpr:
		return []querex.Expr{x.Construct()}
	}
	return nil
}
