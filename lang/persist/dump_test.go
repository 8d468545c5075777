package persist

import (
	"math"
	"strings"
	"testing"

	"github.com/mna/nacre/lang/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setKey(t *testing.T, m *types.Map, k, v types.Value) {
	t.Helper()
	require.NoError(t, m.SetKey(k, v))
}

func dumpOne(t *testing.T, d *Dumper, root types.Value) string {
	t.Helper()
	script, err := d.Dump(root)
	require.NoError(t, err)
	return script
}

func TestDumpEmptyMap(t *testing.T) {
	var d Dumper
	script := dumpOne(t, &d, types.NewMap(0))

	assert.True(t, strings.HasPrefix(script, "do\n"))
	assert.True(t, strings.HasSuffix(script, "return v0\nend\n"))
	assert.Contains(t, script, "local v0 = newmap()\n")
	assert.Contains(t, script, "local newmap = persist.newmap\n")
}

func TestDumpPrimitives(t *testing.T) {
	root := types.NewMap(0)
	setKey(t, root, types.String("b"), types.True)
	setKey(t, root, types.String("i"), types.Int(-42))
	setKey(t, root, types.String("f"), types.Float(1.5))
	setKey(t, root, types.String("n"), types.Nil)
	setKey(t, root, types.String("s"), types.String("quo\"te\nline"))

	var d Dumper
	script := dumpOne(t, &d, root)

	assert.Contains(t, script, `local v1 = "b"`)
	assert.Contains(t, script, "v0[v1] = true")
	assert.Contains(t, script, "= -42\n")
	assert.Contains(t, script, "= 1.5\n")
	assert.Contains(t, script, "= nil\n")
	// the text literal must round-trip quotes and newlines
	assert.Contains(t, script, `"quo\"te\nline"`)
}

func TestDumpNonFiniteNumbers(t *testing.T) {
	root := types.NewMap(0)
	setKey(t, root, types.Int(1), types.Float(math.NaN()))
	setKey(t, root, types.Int(2), types.Float(math.Inf(+1)))
	setKey(t, root, types.Int(3), types.Float(math.Inf(-1)))

	var d Dumper
	script := dumpOne(t, &d, root)

	assert.Contains(t, script, "v0[1] = (0/0)")
	assert.Contains(t, script, "v0[2] = (1/0)")
	assert.Contains(t, script, "v0[3] = (-1/0)")
}

func TestDumpSharedMap(t *testing.T) {
	inner := types.NewMap(0)
	setKey(t, inner, types.String("k"), types.Int(1))
	root := types.NewMap(0)
	setKey(t, root, types.String("x"), inner)
	setKey(t, root, types.String("y"), inner)

	var d Dumper
	script := dumpOne(t, &d, root)

	// the shared map is defined exactly once and referenced twice
	assert.Equal(t, 2, strings.Count(script, "= newmap()"), script)
	assert.Contains(t, script, "v0[v1] = v2")
	assert.Contains(t, script, "v0[v4] = v2")
}

func TestDumpSelfReference(t *testing.T) {
	root := types.NewMap(0)
	setKey(t, root, types.String("self"), root)

	var d Dumper
	script := dumpOne(t, &d, root)

	assert.Contains(t, script, "local v0 = newmap()")
	assert.Contains(t, script, "v0[v1] = v0")
}

func TestDumpMutualCycle(t *testing.T) {
	a := types.NewMap(0)
	b := types.NewMap(0)
	setKey(t, a, types.String("b"), b)
	setKey(t, b, types.String("a"), a)

	var d Dumper
	script := dumpOne(t, &d, a)

	// a is v0, b is v2; b's entry refers back to the reserved v0
	assert.Contains(t, script, "v0[v1] = v2")
	assert.Contains(t, script, "v2[v3] = v0")
}

func TestDumpMetamap(t *testing.T) {
	meta := types.NewMap(0)
	setKey(t, meta, types.String("kind"), types.String("set"))

	m1 := types.NewMap(0)
	m1.SetMeta(meta)
	m2 := types.NewMap(0)
	m2.SetMeta(meta)
	root := types.NewMap(0)
	setKey(t, root, types.Int(1), m1)
	setKey(t, root, types.Int(2), m2)

	var d Dumper
	script := dumpOne(t, &d, root)

	// the shared metamap is defined once and attached twice
	assert.Equal(t, 2, strings.Count(script, "setmeta("), script)
	lines := strings.Split(script, "\n")
	var attached []string
	for _, l := range lines {
		if strings.HasPrefix(l, "setmeta(") {
			attached = append(attached, l)
		}
	}
	require.Len(t, attached, 2)
	// both attachments reference the same slot
	ref1 := attached[0][strings.Index(attached[0], ", ")+2:]
	ref2 := attached[1][strings.Index(attached[1], ", ")+2:]
	assert.Equal(t, ref1, ref2)
}

func TestDumpBudget(t *testing.T) {
	// root plus four distinct strings: 5 new slots
	root := types.NewMap(0)
	setKey(t, root, types.Int(1), types.String("a"))
	setKey(t, root, types.Int(2), types.String("b"))
	setKey(t, root, types.Int(3), types.String("c"))
	setKey(t, root, types.Int(4), types.String("d"))

	_, err := Dump(nil, root, 3)
	require.ErrorIs(t, err, ErrOutOfBudget)

	script, err := Dump(nil, root, 10)
	require.NoError(t, err)
	assert.Contains(t, script, "v0[4] = v4")
}

func TestDumpBudgetNoPartialScript(t *testing.T) {
	root := types.NewMap(0)
	setKey(t, root, types.Int(1), types.String("a"))
	setKey(t, root, types.Int(2), types.String("b"))

	script, err := Dump(nil, root, 1)
	require.ErrorIs(t, err, ErrOutOfBudget)
	assert.Empty(t, script)
}

func TestDumpInvalidArgument(t *testing.T) {
	var d Dumper

	_, err := d.Dump(types.Int(3))
	require.ErrorIs(t, err, ErrInvalidArgument)

	_, err = d.Dump(nil)
	require.ErrorIs(t, err, ErrInvalidArgument)

	d.MaxEntries = -1
	_, err = d.Dump(types.NewMap(0))
	require.ErrorIs(t, err, ErrInvalidArgument)
}

func TestDumpBuiltinShortCircuit(t *testing.T) {
	sin := types.NewBuiltin("sin", func(args types.Tuple) (types.Value, error) {
		return types.Nil, nil
	})
	lib := types.NewMap(0)
	setKey(t, lib, types.String("sin"), sin)
	ns := types.NewMap(0)
	setKey(t, ns, types.String("mathlib"), lib)

	reg, err := BuildRegistry(ns)
	require.NoError(t, err)

	root := types.NewMap(0)
	setKey(t, root, types.String("f"), sin)

	d := Dumper{Registry: reg}
	script := dumpOne(t, &d, root)

	assert.Contains(t, script, "v0[v1] = mathlib.sin")
	assert.NotContains(t, script, "loadbin")
	assert.NotContains(t, script, "builtin: sin")
}

func TestDumpRegisteredFunctionShortCircuit(t *testing.T) {
	// a registered function serializes as its path even though binary
	// extraction would succeed
	fn := &types.Function{Funcode: testFuncode("registered", 0)}
	lib := types.NewMap(0)
	setKey(t, lib, types.String("fn"), fn)
	ns := types.NewMap(0)
	setKey(t, ns, types.String("lib"), lib)

	reg, err := BuildRegistry(ns)
	require.NoError(t, err)

	root := types.NewMap(0)
	setKey(t, root, types.Int(1), fn)

	d := Dumper{Registry: reg}
	script := dumpOne(t, &d, root)

	assert.Contains(t, script, "v0[1] = lib.fn")
	assert.NotContains(t, script, "loadbin")
}

type opaqueHandle struct{}

func (opaqueHandle) String() string { return "handle<7>" }
func (opaqueHandle) Type() string   { return "handle" }

func TestDumpOpaque(t *testing.T) {
	root := types.NewMap(0)
	setKey(t, root, types.Int(1), opaqueHandle{})

	var d Dumper
	script := dumpOne(t, &d, root)

	assert.Contains(t, script, `local v1 = "handle<7>"`)
	assert.Contains(t, script, "v0[1] = v1")
}

func TestDumpSharedOpaque(t *testing.T) {
	h := opaqueHandle{}
	root := types.NewMap(0)
	setKey(t, root, types.Int(1), h)
	setKey(t, root, types.Int(2), h)

	var d Dumper
	script := dumpOne(t, &d, root)

	assert.Equal(t, 1, strings.Count(script, `= "handle<7>"`), script)
}
