// Package compiler defines the compiled representation of a nacre function
// and the binary image codec used to dump and reload it. A Funcode is
// self-contained: it carries the constants referenced by its code so that
// its image can be reloaded without the enclosing program.
package compiler

// A Funcode is the code of a compiled function. Funcodes are serialized by
// Dump, which must be updated whenever this declaration is changed.
type Funcode struct {
	Name       string     // name of this function
	Code       []byte     // the byte code
	Constants  []Constant // constants referenced by the code
	Locals     []Binding  // locals, parameters first
	Cells      []int      // indices of Locals that require cells
	Freevars   []Binding  // for tracing
	MaxStack   int
	NumParams  int
	HasVarargs bool
}

// A Binding is the name of a local or free variable.
type Binding struct {
	Name string
}

// ConstKind identifies the runtime kind of a constant.
type ConstKind byte

const (
	ConstInt ConstKind = iota + 1
	ConstFloat
	ConstString
)

// A Constant is a literal referenced by the code of a function. Only one of
// the value fields is meaningful, as indicated by Kind.
type Constant struct {
	Kind  ConstKind
	Int   int64
	Float float64
	Str   string
}
