package colset

import (
	"fmt"
	"slices"

	"github.com/anoxia/sqlquery/internal/bind"
	"github.com/anoxia/sqlquery/internal/render"
)

// Bulk packs the rows of a multi-row INSERT. The Set holds the row being
// accumulated; finished rows keep their value texts with placeholders
// renamed to name_<row> and their bound values moved under that name.
type Bulk struct {
	set      *Set
	binds    *bind.Values
	row      int
	order    []string
	rows     [][]string
	rowBinds *bind.Values
}

// NewBulk creates a packer over the current row set and its bind values.
func NewBulk(set *Set, binds *bind.Values) *Bulk {
	return &Bulk{
		set:      set,
		binds:    binds,
		rowBinds: bind.New(),
	}
}

// Active reports whether more than one row has been started.
func (b *Bulk) Active() bool {
	return b.row > 0
}

// Row returns the index of the row being accumulated.
func (b *Bulk) Row() int {
	return b.row
}

// NextRow finishes the current row and starts an empty one. The first
// finished row fixes the column order. If the current row lacks a column
// of that order, nothing changes and a MissingBulkColumnError is returned.
// Values bound for the finished row leave the base registry, so a later
// row that binds nothing for a placeholder leaves it unbound.
func (b *Bulk) NextRow() error {
	order := b.order
	if order == nil {
		order = b.set.Keys()
	}
	vals, rowBinds, used, err := b.finish(order)
	if err != nil {
		return err
	}
	b.order = order
	b.rows = append(b.rows, vals)
	b.rowBinds.Merge(rowBinds)
	for _, name := range used {
		b.binds.Delete(name)
	}
	b.set.Reset()
	b.row++
	return nil
}

// finish computes the finished form of the current row without changing
// any state.
func (b *Bulk) finish(order []string) ([]string, *bind.Values, []string, error) {
	vals := make([]string, len(order))
	rowBinds := bind.New()
	var used []string
	for i, col := range order {
		value, ok := b.set.Get(col)
		if !ok {
			return nil, nil, nil, render.NewMissingBulkColumnError(col, b.row)
		}
		name, ok := placeholder(value)
		if !ok {
			vals[i] = value
			continue
		}
		suffixed := fmt.Sprintf("%s_%d", name, b.row)
		vals[i] = ":" + suffixed
		if v, ok := b.binds.Get(name); ok {
			rowBinds.Set(suffixed, v)
			used = append(used, name)
		}
	}
	return vals, rowBinds, used, nil
}

// Columns returns the fixed bulk column order.
func (b *Bulk) Columns() []string {
	return slices.Clone(b.order)
}

// Rows returns every row's value texts, the row being accumulated
// included. An empty pending row is skipped.
func (b *Bulk) Rows() ([][]string, error) {
	rows := slices.Clone(b.rows)
	if b.set.Len() == 0 {
		return rows, nil
	}
	vals, _, _, err := b.finish(b.order)
	if err != nil {
		return nil, err
	}
	return append(rows, vals), nil
}

// Binds returns the bind values of the whole statement: the base values
// not moved into a row, followed by the row-suffixed values.
func (b *Bulk) Binds() (*bind.Values, error) {
	pending := bind.New()
	var used []string
	if b.set.Len() > 0 {
		var err error
		_, pending, used, err = b.finish(b.order)
		if err != nil {
			return nil, err
		}
	}

	out := bind.New()
	for k, v := range b.binds.All() {
		if !slices.Contains(used, k) {
			out.Set(k, v)
		}
	}
	out.Merge(b.rowBinds)
	out.Merge(pending)
	return out, nil
}

// Reset drops every row.
func (b *Bulk) Reset() {
	b.row = 0
	b.order = nil
	b.rows = nil
	b.rowBinds = bind.New()
}
