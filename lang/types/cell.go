package types

// A Cell is a box containing a Value. Local variables captured by closures
// hold their value indirectly so that they may be shared by outer and inner
// nested functions: the Freevars list of a Function contains only cells, and
// two functions capturing the same variable reference the same cell. Cell
// identity is pointer identity.
type Cell struct{ V Value }

var _ Value = (*Cell)(nil)

// NewCell returns a cell boxing v.
func NewCell(v Value) *Cell { return &Cell{V: v} }

func (c *Cell) String() string { return "cell" }
func (c *Cell) Type() string   { return "cell" }
