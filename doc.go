/*
Package querex implements query expression trees and a rewriting visitor
for them.

QueREx models queries as immutable expression trees, the way LINQ-style
data-source frontends do: a tree of typed nodes (constants, parameters,
operator applications, lambdas, method calls, object construction, …)
describes a query, and providers transform such trees before compiling
them into whatever their backend understands. Package structure is
as follows:

■ querex: The base package contains the node model and the Rewriter, a
minimal-copy tree-rewriting visitor with structural sharing: subtrees
which a rewrite leaves untouched are returned by the very same reference,
and changed nodes are rebuilt around their rewritten children.

■ queryable: Package queryable adapts a rewritten tree to an enumerable
data source, delegating execution to a caller-supplied provider.

■ pretty: Package pretty renders expression trees for debugging.

Trees are walked by synchronous recursive descent. Call depth is bounded
by tree depth; pathologically deep trees will exhaust the native call
stack. This is a known structural limitation. The Rewriter itself holds
no cross-call state, so concurrent rewrites of independent trees are safe.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package querex

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'querex'.
func tracer() tracing.Trace {
	return tracing.Select("querex")
}
