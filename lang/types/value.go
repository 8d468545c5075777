// Package types defines the runtime values manipulated by the nacre runtime
// and its tooling. The set of kinds is closed: nil, booleans, integers,
// floats, strings, maps, cells, functions and builtins. Any other Value
// implementation is treated as opaque by the rest of the system.
package types

// Value is the interface implemented by any value manipulated by the runtime.
type Value interface {
	// String returns the string representation of the value.
	String() string

	// Type returns a short string describing the value's type.
	Type() string
}

// A Mapping is a mapping from keys to values, such as a map.
type Mapping interface {
	Value
	// Get returns the value corresponding to the specified key, or !found if
	// the mapping does not contain the key.
	Get(Value) (v Value, found bool, err error)
}

// A HasSetKey supports map update using x[k]=v syntax.
type HasSetKey interface {
	Mapping
	SetKey(k, v Value) error
}
