package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapItemsInsertionOrder(t *testing.T) {
	m := NewMap(0)
	require.NoError(t, m.SetKey(String("c"), Int(3)))
	require.NoError(t, m.SetKey(String("a"), Int(1)))
	require.NoError(t, m.SetKey(String("b"), Int(2)))

	items := m.Items()
	require.Len(t, items, 3)
	assert.Equal(t, Tuple{String("c"), Int(3)}, items[0])
	assert.Equal(t, Tuple{String("a"), Int(1)}, items[1])
	assert.Equal(t, Tuple{String("b"), Int(2)}, items[2])
	assert.Equal(t, 3, m.Len())
}

func TestMapOverwriteKeepsOrder(t *testing.T) {
	m := NewMap(0)
	require.NoError(t, m.SetKey(String("a"), Int(1)))
	require.NoError(t, m.SetKey(String("b"), Int(2)))
	require.NoError(t, m.SetKey(String("a"), Int(9)))

	items := m.Items()
	require.Len(t, items, 2)
	assert.Equal(t, Tuple{String("a"), Int(9)}, items[0])
	assert.Equal(t, 2, m.Len())

	v, ok, err := m.Get(String("a"))
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, Int(9), v)
}

func TestMapGetMissing(t *testing.T) {
	m := NewMap(0)
	_, ok, err := m.Get(String("nope"))
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMapMeta(t *testing.T) {
	m := NewMap(0)
	assert.Nil(t, m.Meta())

	meta := NewMap(0)
	m.SetMeta(meta)
	assert.Same(t, meta, m.Meta())

	// the metamap is attached, not merged into the entries
	assert.Equal(t, 0, m.Len())

	m.SetMeta(nil)
	assert.Nil(t, m.Meta())
}
