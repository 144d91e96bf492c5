/*
Package pretty renders query expression trees for debugging.

Sprint produces a plain indented tree dump; Print writes the same dump to
the terminal with moderately fancy pterm styling, in the spirit of a quick
look at what a provider is about to compile.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package pretty

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'querex.pretty'.
func tracer() tracing.Trace {
	return tracing.Select("querex.pretty")
}
