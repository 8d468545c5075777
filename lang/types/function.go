package types

import (
	"fmt"

	"github.com/mna/nacre/lang/compiler"
)

// A Function is a closure: the code of a compiled function plus the ordered
// list of cells it captures. It may carry a distinct execution environment
// in Env; a nil Env means the function runs in the default environment.
type Function struct {
	Funcode  *compiler.Funcode
	Freevars []*Cell
	Env      *Map
}

var _ Value = (*Function)(nil)

func (fn *Function) String() string { return fmt.Sprintf("function(%p %s)", fn, fn.Name()) }
func (fn *Function) Type() string   { return "function" }

func (fn *Function) Name() string {
	if fn.Funcode == nil || fn.Funcode.Name == "" {
		return "unknown"
	}
	return fn.Funcode.Name
}
