// Package persist serializes a graph of runtime values to a reconstruction
// script: a sequence of statements that, evaluated as one chunk by a
// compatible runtime, rebuilds a value graph observationally equivalent to
// the original. Shared references are defined once and referenced from every
// use site, cycles terminate through eagerly reserved slots, and cells
// captured by several closures remain shared after reconstruction.
//
// A Dumper performs one serialization per Dump call and keeps no state
// across calls. The one piece of shared state is the Registry, built once
// from a root namespace and read-only afterwards, so it may be consulted by
// concurrent Dump calls without locking.
package persist

import (
	"errors"
	"fmt"

	"github.com/mna/nacre/lang/types"
)

// DefaultMaxEntries is the serialization budget used when a Dumper does not
// specify one.
const DefaultMaxEntries = 10000

var (
	// ErrInvalidArgument is returned when a call-time parameter is invalid:
	// the root is not a map, or the budget is negative.
	ErrInvalidArgument = errors.New("persist: invalid argument")

	// ErrOutOfBudget is returned when serialization would exceed the
	// configured number of newly serialized values. No partial script is
	// returned; raise the budget or trim the input to recover.
	ErrOutOfBudget = errors.New("persist: too many values")
)

// A Dumper serializes value graphs. The zero value is a valid Dumper with no
// registry, the default budget and the runtime's own introspector.
type Dumper struct {
	// Registry resolves well-known host values to their dotted namespace
	// paths. Values found in the registry serialize as a path reference,
	// short-circuiting all other handling. May be nil.
	Registry *Registry

	// MaxEntries bounds the number of newly serialized values in one Dump
	// call. Zero means DefaultMaxEntries; a negative value is an error.
	MaxEntries int

	// Introspector gives access to the internals of callables. Nil means the
	// runtime's own introspector, backed by the compiler's binary image
	// codec.
	Introspector Introspector
}

// Dump serializes the graph rooted at root, which must be a map, and returns
// the reconstruction script.
func (d *Dumper) Dump(root types.Value) (string, error) {
	if _, ok := root.(*types.Map); !ok {
		return "", fmt.Errorf("%w: root must be a map, got %s", ErrInvalidArgument, typeOf(root))
	}
	max := d.MaxEntries
	if max < 0 {
		return "", fmt.Errorf("%w: negative max entries %d", ErrInvalidArgument, max)
	}
	if max == 0 {
		max = DefaultMaxEntries
	}

	intr := d.Introspector
	if intr == nil {
		intr = runtimeIntrospector{}
	}
	st := &state{
		memo: newMemo(max),
		reg:  d.Registry,
		intr: intr,
		caps: newCaptureTable(),
	}
	ref, err := st.resolve(root)
	if err != nil {
		return "", err
	}
	return st.finish(ref), nil
}

// Dump serializes the graph rooted at root with the specified registry and
// budget. It is shorthand for configuring a Dumper.
func Dump(reg *Registry, root types.Value, maxEntries int) (string, error) {
	d := Dumper{Registry: reg, MaxEntries: maxEntries}
	return d.Dump(root)
}

func typeOf(v types.Value) string {
	if v == nil {
		return "<nil>"
	}
	return v.Type()
}
