package types

import "fmt"

// A Tuple represents an immutable list of values.
type Tuple []Value

var _ Value = Tuple(nil)

func (t Tuple) String() string { return fmt.Sprintf("tuple(%d)", len(t)) }
func (t Tuple) Type() string   { return "tuple" }
