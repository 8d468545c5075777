package types

import "fmt"

// A Builtin is a callable provided by the host. It has no compiled form that
// could be extracted, so it can only be serialized by reference through a
// registry of well-known host values.
type Builtin struct {
	name string
	fn   func(args Tuple) (Value, error)
}

var _ Value = (*Builtin)(nil)

// NewBuiltin returns a builtin with the specified name and implementation.
func NewBuiltin(name string, fn func(args Tuple) (Value, error)) *Builtin {
	return &Builtin{name: name, fn: fn}
}

func (b *Builtin) String() string { return fmt.Sprintf("builtin: %s", b.name) }
func (b *Builtin) Type() string   { return "builtin" }
func (b *Builtin) Name() string   { return b.name }

// Call invokes the builtin with the specified arguments.
func (b *Builtin) Call(args Tuple) (Value, error) {
	return b.fn(args)
}
