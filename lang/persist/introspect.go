package persist

import (
	"fmt"

	"github.com/mna/nacre/lang/compiler"
	"github.com/mna/nacre/lang/types"
)

// An Introspector gives the serializer access to the internals of a
// callable: its compiled binary form, its captured cells in capture order
// and its execution environment.
type Introspector interface {
	// Bytecode returns the binary image of the callable's compiled form. An
	// error means the callable has no extractable form; the serializer then
	// falls back to an inert placeholder for that one value.
	Bytecode(fn *types.Function) ([]byte, error)

	// Captures returns the callable's captured cells, in capture order.
	Captures(fn *types.Function) []*types.Cell

	// Environment returns the callable's execution environment, or nil if it
	// runs in the default one.
	Environment(fn *types.Function) *types.Map
}

// A CaptureIdentifier is an Introspector that can also identify a captured
// cell across callables. Identity tokens must be comparable and two captures
// must report the same token exactly when they share one cell. Without this
// extension, capture sharing degrades to duplicating the cell's current
// value into each closure, a documented information loss.
type CaptureIdentifier interface {
	Introspector
	CaptureID(fn *types.Function, i int) (any, bool)
}

// runtimeIntrospector is the runtime's own introspector, used when a Dumper
// does not provide one.
type runtimeIntrospector struct{}

var _ CaptureIdentifier = runtimeIntrospector{}

func (runtimeIntrospector) Bytecode(fn *types.Function) ([]byte, error) {
	if fn.Funcode == nil {
		return nil, fmt.Errorf("function %s has no compiled form", fn.Name())
	}
	return compiler.Dump(fn.Funcode)
}

func (runtimeIntrospector) Captures(fn *types.Function) []*types.Cell {
	return fn.Freevars
}

func (runtimeIntrospector) Environment(fn *types.Function) *types.Map {
	return fn.Env
}

func (runtimeIntrospector) CaptureID(fn *types.Function, i int) (any, bool) {
	if c := fn.Freevars[i]; c != nil {
		return c, true
	}
	return nil, false
}
