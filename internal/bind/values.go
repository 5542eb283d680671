// Package bind holds the named values bound to a statement's placeholders.
package bind

import (
	"iter"
	"slices"
	"strconv"
	"strings"
)

// Values is an insertion-ordered set of named bind values. Setting an
// existing name replaces its value and keeps its position. The zero value
// is ready to use.
type Values struct {
	keys []string
	vals map[string]any
}

// New creates an empty set of bind values.
func New() *Values {
	return &Values{vals: make(map[string]any)}
}

// Set binds value to name.
func (v *Values) Set(name string, value any) {
	if v.vals == nil {
		v.vals = make(map[string]any)
	}
	if _, ok := v.vals[name]; !ok {
		v.keys = append(v.keys, name)
	}
	v.vals[name] = value
}

// SetAll binds every entry of m. Names are applied in natural order so
// sequential names ("1", "2", ..., "10") keep their numeric sequence.
func (v *Values) SetAll(m map[string]any) {
	for _, k := range SortedKeys(m) {
		v.Set(k, m[k])
	}
}

// Merge copies every value of other into v, in other's order.
func (v *Values) Merge(other *Values) {
	if other == nil {
		return
	}
	for _, k := range other.keys {
		v.Set(k, other.vals[k])
	}
}

// Get returns the value bound to name.
func (v *Values) Get(name string) (any, bool) {
	val, ok := v.vals[name]
	return val, ok
}

// Has reports whether name is bound.
func (v *Values) Has(name string) bool {
	_, ok := v.vals[name]
	return ok
}

// Delete removes name.
func (v *Values) Delete(name string) {
	if _, ok := v.vals[name]; !ok {
		return
	}
	delete(v.vals, name)
	v.keys = slices.DeleteFunc(v.keys, func(k string) bool { return k == name })
}

// Keys returns the bound names in order.
func (v *Values) Keys() []string {
	return slices.Clone(v.keys)
}

// Len returns the number of bound names.
func (v *Values) Len() int {
	return len(v.keys)
}

// All iterates over the bound values in order.
func (v *Values) All() iter.Seq2[string, any] {
	return func(yield func(string, any) bool) {
		for _, k := range v.keys {
			if !yield(k, v.vals[k]) {
				return
			}
		}
	}
}

// Map returns a copy of the values as a plain map.
func (v *Values) Map() map[string]any {
	m := make(map[string]any, len(v.keys))
	for _, k := range v.keys {
		m[k] = v.vals[k]
	}
	return m
}

// Clone returns an independent copy.
func (v *Values) Clone() *Values {
	c := New()
	c.Merge(v)
	return c
}

// Reset removes every value.
func (v *Values) Reset() {
	v.keys = nil
	v.vals = make(map[string]any)
}

// Replace makes v an exact copy of other.
func (v *Values) Replace(other *Values) {
	v.Reset()
	v.Merge(other)
}

// SortedKeys returns the keys of m in natural order: all-digit keys first,
// numerically, then the rest lexically.
func SortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, compareNatural)
	return keys
}

func compareNatural(a, b string) int {
	na, aNum := number(a)
	nb, bNum := number(b)
	switch {
	case aNum && bNum:
		if na != nb {
			if na < nb {
				return -1
			}
			return 1
		}
		return strings.Compare(a, b)
	case aNum:
		return -1
	case bNum:
		return 1
	}
	return strings.Compare(a, b)
}

func number(s string) (uint64, bool) {
	if s == "" {
		return 0, false
	}
	n, err := strconv.ParseUint(s, 10, 64)
	return n, err == nil
}
