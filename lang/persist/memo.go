package persist

import (
	"fmt"

	"github.com/dolthub/swiss"
	"github.com/mna/nacre/lang/types"
)

type slotState int

const (
	// slotReserved means the slot has a name and a position in the statement
	// stream, but its definition statement is not filled in yet. References
	// to a reserved slot are legal: this is how cycles terminate.
	slotReserved slotState = iota
	// slotDefined means the definition statement has been filled in.
	slotDefined
)

// A slot is the memoizer's unit of output identity for one source value: a
// unique local name plus the reserved position of its definition statement.
type slot struct {
	name  string
	pos   int
	state slotState
}

// memo assigns each distinct value identity a slot on first encounter and
// hands back the same slot on every later one, so that each value is defined
// exactly once regardless of how many places reference it. It owns the
// statement stream: a definition position is reserved eagerly when the slot
// is allocated and filled once the recursive resolution of the value
// completes, which keeps program order equal to dependency order.
type memo struct {
	slots *swiss.Map[types.Value, *slot]
	stmts []string
	count int
	max   int
}

func newMemo(max int) *memo {
	return &memo{
		slots: swiss.NewMap[types.Value, *slot](16),
		max:   max,
	}
}

// lookup returns the slot already assigned to v, if any.
func (m *memo) lookup(v types.Value) (*slot, bool) {
	return m.slots.Get(v)
}

// reserve allocates a slot for v: the next local name and a placeholder
// position in the statement stream. It fails once the number of newly
// memoized values reaches the budget.
func (m *memo) reserve(v types.Value) (*slot, error) {
	if m.count >= m.max {
		return nil, fmt.Errorf("%w: budget of %d reached", ErrOutOfBudget, m.max)
	}
	s := &slot{
		name: fmt.Sprintf("v%d", m.count),
		pos:  len(m.stmts),
	}
	m.count++
	m.stmts = append(m.stmts, "")
	m.slots.Put(v, s)
	return s, nil
}

// define fills the reserved position of s with its definition statement.
func (m *memo) define(s *slot, stmt string) {
	m.stmts[s.pos] = stmt
	s.state = slotDefined
}

// emit appends a follow-up statement after every statement emitted so far.
func (m *memo) emit(stmt string) {
	m.stmts = append(m.stmts, stmt)
}
