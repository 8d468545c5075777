package persist

import (
	"encoding/base64"
	"fmt"
	"math"
	"strconv"

	"github.com/mna/nacre/lang/types"
)

// state is the per-Dump serialization state. It is created fresh for each
// call and discarded once the script is assembled; only the registry is
// shared across calls.
type state struct {
	memo *memo
	reg  *Registry
	intr Introspector
	caps *captureTable
}

// resolve returns the reference for v: a direct literal for nil, booleans
// and numbers, a dotted path for registered host values, and a slot name for
// everything else. On the first encounter of a memoized value it reserves
// the slot, serializes the value's content and fills the definition in
// place; later encounters return the existing slot with no new statements.
func (st *state) resolve(v types.Value) (string, error) {
	// well-known host values short-circuit all other handling, including the
	// serializer's own entry points
	if st.reg != nil {
		if path, ok := st.reg.Lookup(v); ok {
			return path, nil
		}
	}

	switch v := v.(type) {
	case nil:
		return "", fmt.Errorf("%w: untyped nil in value graph", ErrInvalidArgument)
	case types.NilType:
		return "nil", nil
	case types.Bool:
		return v.String(), nil
	case types.Int:
		return strconv.FormatInt(int64(v), 10), nil
	case types.Float:
		return floatLiteral(float64(v)), nil
	}

	if s, ok := st.memo.lookup(v); ok {
		return s.name, nil
	}
	s, err := st.memo.reserve(v)
	if err != nil {
		return "", err
	}

	switch v := v.(type) {
	case types.String:
		st.memo.define(s, fmt.Sprintf("local %s = %s", s.name, quote(string(v))))
	case *types.Map:
		err = st.container(s, v)
	case *types.Function:
		err = st.callable(s, v)
	default:
		// opaque: a raw handle, a host callable missed by the registry, a
		// foreign value. Best-effort description, not reconstructible.
		st.memo.define(s, fmt.Sprintf("local %s = %s", s.name, quote(v.String())))
	}
	if err != nil {
		return "", err
	}
	return s.name, nil
}

// container defines s as an empty map, then emits one statement per entry
// and a final metamap attachment if the map carries one. Keys and values go
// through resolve, so an entry referencing the map itself resolves to the
// already reserved slot.
func (st *state) container(s *slot, m *types.Map) error {
	st.memo.define(s, fmt.Sprintf("local %s = newmap()", s.name))

	for _, item := range m.Items() {
		kref, err := st.resolve(item[0])
		if err != nil {
			return err
		}
		vref, err := st.resolve(item[1])
		if err != nil {
			return err
		}
		st.memo.emit(fmt.Sprintf("%s[%s] = %s", s.name, kref, vref))
	}

	if meta := m.Meta(); meta != nil {
		mref, err := st.resolve(meta)
		if err != nil {
			return err
		}
		st.memo.emit(fmt.Sprintf("setmeta(%s, %s)", s.name, mref))
	}
	return nil
}

// callable defines s by reloading the function's binary image, then binds
// its captures and environment. A capture cell already bound into an earlier
// callable is joined to that earlier (slot, index) site so that both
// closures keep sharing the one cell; otherwise the cell's current value is
// bound directly. Indexes are 1-based in the script.
func (st *state) callable(s *slot, fn *types.Function) error {
	bin, err := st.intr.Bytecode(fn)
	if err != nil {
		// extraction failed: degrade to an inert placeholder for this one
		// value, the rest of the dump proceeds
		st.memo.define(s, fmt.Sprintf("local %s = %s", s.name, quote(fn.String())))
		return nil
	}
	img := base64.StdEncoding.EncodeToString(bin)
	st.memo.define(s, fmt.Sprintf("local %s = loadbin(%s)", s.name, quote(img)))

	idn, _ := st.intr.(CaptureIdentifier)
	for i, cell := range st.intr.Captures(fn) {
		if idn != nil {
			if id, ok := idn.CaptureID(fn, i); ok {
				if prev, found := st.caps.claim(id, captureSite{slot: s.name, index: i}); found {
					st.memo.emit(fmt.Sprintf("joincapture(%s, %d, %s, %d)", s.name, i+1, prev.slot, prev.index+1))
					continue
				}
			}
		}
		var cv types.Value = types.Nil
		if cell != nil && cell.V != nil {
			cv = cell.V
		}
		ref, err := st.resolve(cv)
		if err != nil {
			return err
		}
		st.memo.emit(fmt.Sprintf("setcapture(%s, %d, %s)", s.name, i+1, ref))
	}

	if env := st.intr.Environment(fn); env != nil {
		eref, err := st.resolve(env)
		if err != nil {
			return err
		}
		st.memo.emit(fmt.Sprintf("setenv(%s, %s)", s.name, eref))
	}
	return nil
}

// floatLiteral returns the literal form of f. NaN and the infinities have no
// textual form and are emitted as computed literals.
func floatLiteral(f float64) string {
	switch {
	case math.IsNaN(f):
		return "(0/0)"
	case math.IsInf(f, +1):
		return "(1/0)"
	case math.IsInf(f, -1):
		return "(-1/0)"
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}
