// Package stdlib builds the root namespace of host-provided values: the
// math, str and persist modules. The persist module carries the serializer's
// entry points and the reconstruction helpers referenced by the prologue of
// emitted scripts, so that a value graph reaching any of them serializes as
// a namespace path instead of recursing into the serializer itself.
package stdlib

import (
	"encoding/base64"
	"fmt"
	"math"
	"strings"
	"sync"

	"github.com/mna/nacre/lang/compiler"
	"github.com/mna/nacre/lang/persist"
	"github.com/mna/nacre/lang/types"
)

// Namespace returns a freshly built root namespace. The returned map and its
// sub-modules are new on every call so that callers may extend their copy,
// but the builtin values they contain are process-wide and keep a stable
// identity.
func Namespace() *types.Map {
	root := types.NewMap(3)
	set(root, "math", mathModule())
	set(root, "str", strModule())
	set(root, "persist", persistModule(root))
	return root
}

func set(m *types.Map, name string, v types.Value) {
	_ = m.SetKey(types.String(name), v)
}

func mathModule() *types.Map {
	m := types.NewMap(8)
	set(m, "pi", types.Float(math.Pi))
	set(m, "huge", types.Float(math.Inf(1)))
	set(m, "abs", float1("abs", math.Abs))
	set(m, "ceil", float1("ceil", math.Ceil))
	set(m, "cos", float1("cos", math.Cos))
	set(m, "floor", float1("floor", math.Floor))
	set(m, "sin", float1("sin", math.Sin))
	set(m, "sqrt", float1("sqrt", math.Sqrt))
	return m
}

func strModule() *types.Map {
	m := types.NewMap(4)
	set(m, "len", str1("len", func(s string) types.Value { return types.Int(len(s)) }))
	set(m, "lower", str1("lower", func(s string) types.Value { return types.String(strings.ToLower(s)) }))
	set(m, "upper", str1("upper", func(s string) types.Value { return types.String(strings.ToUpper(s)) }))
	return m
}

// persistModule returns the persist module. The dump builtin serializes
// against the registry of the enclosing root namespace, which is built on
// first use (the namespace is not fully populated when the module is
// created).
func persistModule(root *types.Map) *types.Map {
	var (
		once sync.Once
		reg  *persist.Registry
		rerr error
	)
	registry := func() (*persist.Registry, error) {
		once.Do(func() { reg, rerr = persist.BuildRegistry(root) })
		return reg, rerr
	}

	m := types.NewMap(8)
	set(m, "dump", types.NewBuiltin("dump", func(args types.Tuple) (types.Value, error) {
		root, max, err := dumpArgs(args)
		if err != nil {
			return nil, err
		}
		reg, err := registry()
		if err != nil {
			return nil, err
		}
		script, err := persist.Dump(reg, root, max)
		if err != nil {
			return nil, err
		}
		return types.String(script), nil
	}))
	set(m, "newmap", types.NewBuiltin("newmap", func(args types.Tuple) (types.Value, error) {
		return types.NewMap(0), nil
	}))
	set(m, "setmeta", types.NewBuiltin("setmeta", func(args types.Tuple) (types.Value, error) {
		m, err := mapArg("setmeta", args, 0)
		if err != nil {
			return nil, err
		}
		meta, err := mapArg("setmeta", args, 1)
		if err != nil {
			return nil, err
		}
		m.SetMeta(meta)
		return m, nil
	}))
	set(m, "loadbin", types.NewBuiltin("loadbin", func(args types.Tuple) (types.Value, error) {
		s, err := stringArg("loadbin", args, 0)
		if err != nil {
			return nil, err
		}
		fn, err := LoadBin(s)
		if err != nil {
			return nil, err
		}
		return fn, nil
	}))
	set(m, "setcapture", types.NewBuiltin("setcapture", func(args types.Tuple) (types.Value, error) {
		fn, i, err := captureArgs("setcapture", args)
		if err != nil {
			return nil, err
		}
		if len(args) < 3 {
			return nil, fmt.Errorf("setcapture: missing value argument")
		}
		fn.Freevars[i].V = args[2]
		return fn, nil
	}))
	set(m, "joincapture", types.NewBuiltin("joincapture", func(args types.Tuple) (types.Value, error) {
		fn, i, err := captureArgs("joincapture", args)
		if err != nil {
			return nil, err
		}
		src, j, err := captureArgsAt("joincapture", args, 2)
		if err != nil {
			return nil, err
		}
		fn.Freevars[i] = src.Freevars[j]
		return fn, nil
	}))
	set(m, "setenv", types.NewBuiltin("setenv", func(args types.Tuple) (types.Value, error) {
		fn, err := functionArg("setenv", args, 0)
		if err != nil {
			return nil, err
		}
		env, err := mapArg("setenv", args, 1)
		if err != nil {
			return nil, err
		}
		fn.Env = env
		return fn, nil
	}))
	return m
}

// LoadBin rebuilds a function from the base64 binary image emitted in
// loadbin statements. The function starts with fresh unset cells for each of
// its free variables; capture binding fills them in.
func LoadBin(img string) (*types.Function, error) {
	b, err := base64.StdEncoding.DecodeString(img)
	if err != nil {
		return nil, fmt.Errorf("loadbin: %w", err)
	}
	fc, err := compiler.Load(b)
	if err != nil {
		return nil, fmt.Errorf("loadbin: %w", err)
	}
	cells := make([]*types.Cell, len(fc.Freevars))
	for i := range cells {
		cells[i] = types.NewCell(types.Nil)
	}
	return &types.Function{Funcode: fc, Freevars: cells}, nil
}

func dumpArgs(args types.Tuple) (root types.Value, max int, err error) {
	if len(args) == 0 {
		return nil, 0, fmt.Errorf("dump: missing root argument")
	}
	root = args[0]
	if len(args) > 1 {
		n, ok := args[1].(types.Int)
		if !ok {
			return nil, 0, fmt.Errorf("dump: max entries must be an int, got %s", args[1].Type())
		}
		max = int(n)
	}
	return root, max, nil
}

func mapArg(name string, args types.Tuple, i int) (*types.Map, error) {
	if len(args) <= i {
		return nil, fmt.Errorf("%s: missing argument %d", name, i+1)
	}
	m, ok := args[i].(*types.Map)
	if !ok {
		return nil, fmt.Errorf("%s: argument %d must be a map, got %s", name, i+1, args[i].Type())
	}
	return m, nil
}

func stringArg(name string, args types.Tuple, i int) (string, error) {
	if len(args) <= i {
		return "", fmt.Errorf("%s: missing argument %d", name, i+1)
	}
	s, ok := args[i].(types.String)
	if !ok {
		return "", fmt.Errorf("%s: argument %d must be a string, got %s", name, i+1, args[i].Type())
	}
	return string(s), nil
}

func functionArg(name string, args types.Tuple, i int) (*types.Function, error) {
	if len(args) <= i {
		return nil, fmt.Errorf("%s: missing argument %d", name, i+1)
	}
	fn, ok := args[i].(*types.Function)
	if !ok {
		return nil, fmt.Errorf("%s: argument %d must be a function, got %s", name, i+1, args[i].Type())
	}
	return fn, nil
}

// captureArgs reads a (function, 1-based capture index) pair starting at
// argument 0; captureArgsAt starts at an arbitrary argument offset.
func captureArgs(name string, args types.Tuple) (*types.Function, int, error) {
	return captureArgsAt(name, args, 0)
}

func captureArgsAt(name string, args types.Tuple, at int) (*types.Function, int, error) {
	fn, err := functionArg(name, args, at)
	if err != nil {
		return nil, 0, err
	}
	if len(args) <= at+1 {
		return nil, 0, fmt.Errorf("%s: missing argument %d", name, at+2)
	}
	n, ok := args[at+1].(types.Int)
	if !ok || n < 1 || int(n) > len(fn.Freevars) {
		return nil, 0, fmt.Errorf("%s: invalid capture index for function %s", name, fn.Name())
	}
	return fn, int(n) - 1, nil
}

func float1(name string, f func(float64) float64) *types.Builtin {
	return types.NewBuiltin(name, func(args types.Tuple) (types.Value, error) {
		if len(args) != 1 {
			return nil, fmt.Errorf("%s: want 1 argument, got %d", name, len(args))
		}
		switch v := args[0].(type) {
		case types.Int:
			return types.Float(f(float64(v))), nil
		case types.Float:
			return types.Float(f(float64(v))), nil
		}
		return nil, fmt.Errorf("%s: want a number, got %s", name, args[0].Type())
	})
}

func str1(name string, f func(string) types.Value) *types.Builtin {
	return types.NewBuiltin(name, func(args types.Tuple) (types.Value, error) {
		if len(args) != 1 {
			return nil, fmt.Errorf("%s: want 1 argument, got %d", name, len(args))
		}
		s, ok := args[0].(types.String)
		if !ok {
			return nil, fmt.Errorf("%s: want a string, got %s", name, args[0].Type())
		}
		return f(string(s)), nil
	})
}
