package persist

import (
	"strconv"
	"strings"
)

// prologue binds the reconstruction helpers the emitted statements use. The
// helpers live in the persist module of the host namespace (see
// lang/stdlib).
const prologue = `local newmap = persist.newmap
local setmeta = persist.setmeta
local loadbin = persist.loadbin
local setcapture = persist.setcapture
local joincapture = persist.joincapture
local setenv = persist.setenv
`

// finish assembles the script: prologue, every emitted statement in emission
// order, and a trailing return of the root reference, wrapped in a do block
// so the whole script is one evaluable chunk.
func (st *state) finish(rootRef string) string {
	var b strings.Builder
	b.WriteString("do\n")
	b.WriteString(prologue)
	for _, stmt := range st.memo.stmts {
		b.WriteString(stmt)
		b.WriteByte('\n')
	}
	b.WriteString("return ")
	b.WriteString(rootRef)
	b.WriteString("\nend\n")
	return b.String()
}

// quote returns the string literal form of s. The runtime's string literal
// syntax matches Go's quoting rules, so strconv.Quote round-trips.
func quote(s string) string { return strconv.Quote(s) }
