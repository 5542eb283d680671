package bind

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValues_SetKeepsPosition(t *testing.T) {
	v := New()
	v.Set("foo", 1)
	v.Set("bar", 2)
	v.Set("foo", 3)

	assert.Equal(t, []string{"foo", "bar"}, v.Keys())
	got, ok := v.Get("foo")
	require.True(t, ok)
	assert.Equal(t, 3, got)
}

func TestValues_ZeroValue(t *testing.T) {
	var v Values
	v.Set("a", "x")
	assert.True(t, v.Has("a"))
	assert.Equal(t, 1, v.Len())
}

func TestValues_SetAllNaturalOrder(t *testing.T) {
	v := New()
	v.SetAll(map[string]any{
		"10":  "ten",
		"2":   "two",
		"1":   "one",
		"zim": "gir",
		"baz": "dib",
	})
	assert.Equal(t, []string{"1", "2", "10", "baz", "zim"}, v.Keys())
}

func TestValues_Merge(t *testing.T) {
	a := New()
	a.Set("foo", "bar")
	b := New()
	b.Set("baz", "dib")
	b.Set("foo", "zim")

	a.Merge(b)
	assert.Equal(t, []string{"foo", "baz"}, a.Keys())
	assert.Equal(t, map[string]any{"foo": "zim", "baz": "dib"}, a.Map())

	a.Merge(nil)
	assert.Equal(t, 2, a.Len())
}

func TestValues_DeleteAndReset(t *testing.T) {
	v := New()
	v.Set("a", 1)
	v.Set("b", 2)
	v.Set("c", 3)

	v.Delete("b")
	v.Delete("missing")
	assert.Equal(t, []string{"a", "c"}, v.Keys())

	v.Reset()
	assert.Equal(t, 0, v.Len())
	assert.False(t, v.Has("a"))
}

func TestValues_CloneIsIndependent(t *testing.T) {
	v := New()
	v.Set("a", 1)
	c := v.Clone()
	c.Set("b", 2)

	assert.Equal(t, 1, v.Len())
	assert.Equal(t, 2, c.Len())

	v.Replace(c)
	assert.Equal(t, []string{"a", "b"}, v.Keys())
}

func TestValues_All(t *testing.T) {
	v := New()
	v.Set("x", 1)
	v.Set("y", 2)

	var names []string
	for k := range v.All() {
		names = append(names, k)
		break
	}
	assert.Equal(t, []string{"x"}, names)
}
