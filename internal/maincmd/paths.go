package maincmd

import (
	"context"
	"fmt"

	"github.com/mna/mainer"
	"github.com/mna/nacre/lang/persist"
	"github.com/mna/nacre/lang/stdlib"
)

// Paths prints the sorted dotted paths of the builtin registry built from
// the standard root namespace.
func (c *Cmd) Paths(ctx context.Context, stdio mainer.Stdio, args []string) error {
	reg, err := persist.BuildRegistry(stdlib.Namespace())
	if err != nil {
		return printError(stdio, err)
	}
	for _, p := range reg.Paths() {
		fmt.Fprintln(stdio.Stdout, p)
	}
	return nil
}
