// Package colset tracks the column assignments of INSERT and UPDATE
// statements and packs multi-row inserts.
package colset

import (
	"slices"
	"strings"

	"github.com/anoxia/sqlquery/internal/bind"
	"github.com/anoxia/sqlquery/internal/quote"
)

// Set is an ordered mapping from quoted column name to the value text
// assigned to it: either a :name placeholder or a raw SQL expression.
type Set struct {
	quoter quote.Quoter
	binds  *bind.Values
	keys   []string
	vals   map[string]string
}

// New creates an empty column set binding values into binds.
func New(quoter quote.Quoter, binds *bind.Values) *Set {
	return &Set{quoter: quoter, binds: binds, vals: make(map[string]string)}
}

// Col assigns the :name placeholder to a column, binding value under name
// when one is given.
func (s *Set) Col(name string, value ...any) {
	s.Placeholder(name, name, value...)
}

// Placeholder assigns the :bindName placeholder to a column, binding value
// under bindName when one is given.
func (s *Set) Placeholder(name, bindName string, value ...any) {
	s.put(s.quoter.QuoteName(name), ":"+bindName)
	if len(value) > 0 {
		s.binds.Set(bindName, value[0])
	}
}

// Cols assigns placeholders to several columns without binding values.
func (s *Set) Cols(names ...string) {
	for _, name := range names {
		s.Col(name)
	}
}

// ColValues assigns a placeholder to each column of m and binds its value.
func (s *Set) ColValues(m map[string]any) {
	for _, name := range bind.SortedKeys(m) {
		s.Col(name, m[name])
	}
}

// Expr assigns a raw SQL expression to a column; qualified names inside it
// are quoted. With no expression the column is set to NULL.
func (s *Set) Expr(name string, expr ...string) {
	value := "NULL"
	if len(expr) > 0 {
		value = s.quoter.QuoteNamesIn(expr[0])
	}
	s.put(s.quoter.QuoteName(name), value)
}

func (s *Set) put(key, value string) {
	if _, ok := s.vals[key]; !ok {
		s.keys = append(s.keys, key)
	}
	s.vals[key] = value
}

// Get returns the value text assigned to a quoted column.
func (s *Set) Get(key string) (string, bool) {
	v, ok := s.vals[key]
	return v, ok
}

// Keys returns the quoted column names in order.
func (s *Set) Keys() []string {
	return slices.Clone(s.keys)
}

// Values returns the value texts in column order.
func (s *Set) Values() []string {
	out := make([]string, len(s.keys))
	for i, k := range s.keys {
		out[i] = s.vals[k]
	}
	return out
}

// Assignments returns "column = value" for every column.
func (s *Set) Assignments() []string {
	out := make([]string, len(s.keys))
	for i, k := range s.keys {
		out[i] = k + " = " + s.vals[k]
	}
	return out
}

// Len returns the number of columns.
func (s *Set) Len() int {
	return len(s.keys)
}

// Reset removes every column. Bound values are left alone.
func (s *Set) Reset() {
	s.keys = nil
	s.vals = make(map[string]string)
}

// placeholder returns the bind name of a :name value text.
func placeholder(value string) (string, bool) {
	if !strings.HasPrefix(value, ":") {
		return "", false
	}
	return value[1:], true
}
