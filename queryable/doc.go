/*
Package queryable adapts query expression trees to enumerable data sources.

A Query pairs an expression tree with a Provider, the component which knows
how to execute such trees against a backing store. The adapter neither
interprets nor executes trees itself: enumeration simply hands the current
tree to the provider and returns the provider's iterator. Providers are
expected to rewrite the tree with querex.Rewriter while compiling it into
whatever their backend understands.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package queryable

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'querex.queryable'.
func tracer() tracing.Trace {
	return tracing.Select("querex.queryable")
}
