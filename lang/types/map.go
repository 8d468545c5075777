package types

import (
	"fmt"

	"github.com/dolthub/swiss"
)

// A Map represents a map or dictionary. If you know the exact final number of
// entries, it is more efficient to call NewMap. A map may carry a metamap
// that customizes its runtime behavior; the metamap is attached, it is not
// part of the map's own entries.
//
// Key iteration follows insertion order so that operations deriving output
// from a map (such as serialization) are deterministic, but callers must not
// rely on any particular key order.
type Map struct {
	m    *swiss.Map[Value, Value]
	keys []Value // insertion order
	meta *Map
}

var (
	_ Value     = (*Map)(nil)
	_ Mapping   = (*Map)(nil)
	_ HasSetKey = (*Map)(nil)
)

// NewMap returns a map with initial capacity for at least size items.
func NewMap(size int) *Map {
	m := swiss.NewMap[Value, Value](uint32(size))
	return &Map{m: m}
}

func (m *Map) String() string { return fmt.Sprintf("map(%p)", m) }
func (m *Map) Type() string   { return "map" }

func (m *Map) Get(k Value) (Value, bool, error) {
	v, ok := m.m.Get(k)
	return v, ok, nil
}

func (m *Map) SetKey(k, v Value) error {
	if _, ok := m.m.Get(k); !ok {
		m.keys = append(m.keys, k)
	}
	m.m.Put(k, v)
	return nil
}

// Len returns the number of entries in the map.
func (m *Map) Len() int { return len(m.keys) }

// Items returns a new slice containing all key/value pairs, keys in
// insertion order.
func (m *Map) Items() []Tuple {
	items := make([]Tuple, 0, len(m.keys))
	for _, k := range m.keys {
		v, _ := m.m.Get(k)
		items = append(items, Tuple{k, v})
	}
	return items
}

// Meta returns the map's metamap, or nil if it has none.
func (m *Map) Meta() *Map { return m.meta }

// SetMeta attaches meta as the map's metamap. A nil meta detaches it.
func (m *Map) SetMeta(meta *Map) { m.meta = meta }
