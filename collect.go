package querex

/*
License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/

import (
	"github.com/emirpasic/gods/lists/arraylist"
	"github.com/emirpasic/gods/sets/hashset"
)

// Parameters collects the distinct parameter nodes of a tree, in the order
// of their first visit. Distinctness is by node handle, not by name: two
// parameters spelled alike are two parameters.
//
// The collector is an ordinary Rewriter with a handler on the parameter
// kind, so it sees exactly what any rewrite would see. In particular it
// does not look into sub-query references, which the rewriter treats as
// opaque leaves.
func Parameters(root Expr) ([]*ParamExpr, error) {
	seen := hashset.New()
	order := arraylist.New()
	r := NewRewriter("querex.Parameters")
	r.Handle(KindParameter, func(_ *Rewriter, x Expr) (Expr, error) {
		if p, ok := x.(*ParamExpr); ok && !seen.Contains(p) {
			seen.Add(p)
			order.Add(p)
		}
		return x, nil
	})
	if _, err := r.Rewrite(root); err != nil {
		return nil, err
	}
	params := make([]*ParamExpr, order.Size())
	for i := range params {
		p, _ := order.Get(i)
		params[i] = p.(*ParamExpr)
	}
	return params, nil
}
