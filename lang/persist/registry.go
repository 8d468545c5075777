package persist

import (
	"fmt"
	"sort"

	"github.com/dolthub/swiss"
	"github.com/mna/nacre/lang/types"
)

// A Registry maps the identity of well-known host values to the dotted path
// under which they are reachable from a root namespace (e.g. a builtin
// reachable as "math.sin"). It is read-only after BuildRegistry returns and
// safe for concurrent lookups.
type Registry struct {
	paths *swiss.Map[types.Value, string]
	list  []string
}

// BuildRegistry walks the namespace depth-first and records every callable
// and opaque leaf under its full dotted path. Sub-namespaces may contain
// cycles; each map is walked at most once. When the same value is reachable
// under several paths, the first path found wins; which path that is among
// duplicates is deterministic for a given namespace but not guaranteed
// across namespace shapes.
func BuildRegistry(ns *types.Map) (*Registry, error) {
	if ns == nil {
		return nil, fmt.Errorf("%w: nil root namespace", ErrInvalidArgument)
	}
	r := &Registry{paths: swiss.NewMap[types.Value, string](64)}
	r.walk(ns, "", make(map[*types.Map]bool))
	return r, nil
}

func (r *Registry) walk(ns *types.Map, prefix string, seen map[*types.Map]bool) {
	if seen[ns] {
		return
	}
	seen[ns] = true

	for _, item := range ns.Items() {
		name, ok := item[0].(types.String)
		if !ok {
			// only string-keyed entries have a dotted path
			continue
		}
		path := string(name)
		if prefix != "" {
			path = prefix + "." + path
		}

		switch v := item[1].(type) {
		case *types.Map:
			r.walk(v, path, seen)
		case types.NilType, types.Bool, types.Int, types.Float, types.String:
			// literal kinds are never looked up by identity
		default:
			if _, ok := r.paths.Get(v); !ok {
				r.paths.Put(v, path)
				r.list = append(r.list, path)
			}
		}
	}
}

// Lookup returns the path registered for v.
func (r *Registry) Lookup(v types.Value) (string, bool) {
	return r.paths.Get(v)
}

// Len returns the number of registered values.
func (r *Registry) Len() int { return len(r.list) }

// Paths returns all registered paths, sorted.
func (r *Registry) Paths() []string {
	paths := make([]string, len(r.list))
	copy(paths, r.list)
	sort.Strings(paths)
	return paths
}
