package stmtfile

import (
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/anoxia/sqlquery"
)

// Built is a statement built from an Entry.
type Built struct {
	Name      string
	Kind      string
	Rows      bool
	Statement sqlquery.Statement
}

// Build creates the statements of f with factory. Builder errors such as
// unsupported features stay on the statements and surface when they
// render.
func (f *File) Build(factory *sqlquery.QueryFactory) ([]Built, error) {
	b := builder{f: factory}
	out := make([]Built, 0, len(f.Statements))
	for _, e := range f.Statements {
		var (
			stm sqlquery.Statement
			err error
		)
		switch {
		case e.Select != nil:
			stm, err = b.selectStmt(e.Select)
		case e.Insert != nil:
			stm, err = b.insertStmt(e.Insert)
		case e.Update != nil:
			stm, err = b.updateStmt(e.Update)
		case e.Delete != nil:
			stm, err = b.deleteStmt(e.Delete)
		default:
			err = errors.New("no statement kind")
		}
		if err != nil {
			return nil, fmt.Errorf("statement %s: %w", e.Name, err)
		}
		out = append(out, Built{Name: e.Name, Kind: e.Kind(), Rows: e.ReturnsRows(), Statement: stm})
	}
	return out, nil
}

type builder struct {
	f *sqlquery.QueryFactory
}

// value decodes a bind value. A mapping with a single "raw" key becomes
// sqlquery.Raw and one with a single "select" key becomes a sub-select.
func (b builder) value(node *yaml.Node) (any, error) {
	if node.Kind == yaml.MappingNode && len(node.Content) == 2 {
		key, val := node.Content[0], node.Content[1]
		switch key.Value {
		case "raw":
			if val.Kind != yaml.ScalarNode {
				return nil, NewParseError(val, "raw value must be a string")
			}
			return sqlquery.Raw(val.Value), nil
		case "select":
			var spec SelectSpec
			if err := val.Decode(&spec); err != nil {
				return nil, err
			}
			return b.selectStmt(&spec)
		}
	}
	var v any
	if err := node.Decode(&v); err != nil {
		return nil, err
	}
	return v, nil
}

func (b builder) binds(pairs Pairs) (sqlquery.Bind, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	out := make(sqlquery.Bind, len(pairs))
	for _, p := range pairs {
		v, err := b.value(&p.Value)
		if err != nil {
			return nil, fmt.Errorf("bind %s: %w", p.Name, err)
		}
		out[p.Name] = v
	}
	return out, nil
}

func (b builder) bindArgs(pairs Pairs) ([]sqlquery.Bind, error) {
	m, err := b.binds(pairs)
	if err != nil || m == nil {
		return nil, err
	}
	return []sqlquery.Bind{m}, nil
}

// expr returns the SQL expression of p, none for null.
func expr(p Pair) ([]string, error) {
	switch {
	case p.Value.Tag == "!!null":
		return nil, nil
	case p.Value.Kind == yaml.ScalarNode:
		return []string{p.Value.Value}, nil
	}
	return nil, NewParseError(&p.Value, fmt.Sprintf("expression for %s must be a string", p.Name))
}

func (b builder) group(g *sqlquery.Group, conds []Condition) error {
	for _, c := range conds {
		args, err := b.bindArgs(c.Bind)
		if err != nil {
			return err
		}
		switch {
		case len(c.Group) > 0:
			var gerr error
			fn := func(inner *sqlquery.Group) { gerr = b.group(inner, c.Group) }
			if c.Or {
				g.OrGroup(fn, args...)
			} else {
				g.AndGroup(fn, args...)
			}
			if gerr != nil {
				return gerr
			}
		case c.Or:
			g.Or(c.Text, args...)
		default:
			g.And(c.Text, args...)
		}
	}
	return nil
}

func applyConditions[T any](b builder, stm sqlquery.Conditioner[T], conds []Condition) error {
	for _, c := range conds {
		args, err := b.bindArgs(c.Bind)
		if err != nil {
			return err
		}
		switch {
		case len(c.Group) > 0:
			var gerr error
			fn := func(g *sqlquery.Group) { gerr = b.group(g, c.Group) }
			if c.Or {
				stm.OrWhereGroup(fn, args...)
			} else {
				stm.WhereGroup(fn, args...)
			}
			if gerr != nil {
				return gerr
			}
		case c.Or:
			stm.OrWhere(c.Text, args...)
		default:
			stm.Where(c.Text, args...)
		}
	}
	return nil
}

// having routes conditions into a SELECT's HAVING clause.
type having struct {
	s *sqlquery.Select
}

func (h having) Where(condition string, binds ...sqlquery.Bind) *sqlquery.Select {
	return h.s.Having(condition, binds...)
}

func (h having) OrWhere(condition string, binds ...sqlquery.Bind) *sqlquery.Select {
	return h.s.OrHaving(condition, binds...)
}

func (h having) WhereGroup(fn func(*sqlquery.Group), binds ...sqlquery.Bind) *sqlquery.Select {
	return h.s.HavingGroup(fn, binds...)
}

func (h having) OrWhereGroup(fn func(*sqlquery.Group), binds ...sqlquery.Bind) *sqlquery.Select {
	return h.s.OrHavingGroup(fn, binds...)
}

type ordered[T any] interface {
	sqlquery.Orderer[T]
	sqlquery.Limiter[T]
	sqlquery.Offsetter[T]
}

func applyOrdering[T any](stm ordered[T], orderBy []string, limit, offset int) {
	if len(orderBy) > 0 {
		stm.OrderBy(orderBy...)
	}
	if limit > 0 {
		stm.Limit(limit)
	}
	if offset > 0 {
		stm.Offset(offset)
	}
}

func applyReturning[T any](stm sqlquery.Returner[T], cols []string) {
	if len(cols) > 0 {
		stm.Returning(cols...)
	}
}

type flagged[T any] interface {
	SetFlag(flag string, enable bool) T
	BindValuesFrom(values sqlquery.Bind) T
}

func applyFlagsAndBinds[T any](b builder, stm flagged[T], flags []string, pairs Pairs) error {
	for _, flag := range flags {
		stm.SetFlag(flag, true)
	}
	values, err := b.binds(pairs)
	if err != nil {
		return err
	}
	if len(values) > 0 {
		stm.BindValuesFrom(values)
	}
	return nil
}

func (b builder) selectStmt(spec *SelectSpec) (*sqlquery.Select, error) {
	s := b.f.NewSelect()
	if err := b.fillSelect(s, spec); err != nil {
		return nil, err
	}
	return s, nil
}

func (b builder) fillSelect(s *sqlquery.Select, spec *SelectSpec) error {
	if err := applyFlagsAndBinds[*sqlquery.Select](b, s, spec.Flags, spec.Bind); err != nil {
		return err
	}
	if spec.Distinct {
		s.Distinct()
	}
	if len(spec.Cols) > 0 {
		s.Cols(spec.Cols...)
	}
	for _, from := range spec.From {
		s.From(from)
	}
	for _, raw := range spec.FromRaw {
		s.FromRaw(raw)
	}
	for _, sub := range spec.FromSub {
		inner, err := b.selectStmt(&sub.Select)
		if err != nil {
			return fmt.Errorf("from %s: %w", sub.Alias, err)
		}
		s.FromSubSelect(inner, sub.Alias)
	}
	for _, j := range spec.Joins {
		if err := b.join(s, j); err != nil {
			return err
		}
	}
	if err := applyConditions[*sqlquery.Select](b, s, spec.Where); err != nil {
		return fmt.Errorf("where: %w", err)
	}
	if len(spec.GroupBy) > 0 {
		s.GroupBy(spec.GroupBy...)
	}
	if err := applyConditions[*sqlquery.Select](b, having{s}, spec.Having); err != nil {
		return fmt.Errorf("having: %w", err)
	}
	applyOrdering[*sqlquery.Select](s, spec.OrderBy, spec.Limit, spec.Offset)
	if spec.Paging > 0 {
		s.SetPaging(spec.Paging)
	}
	if spec.Page > 0 {
		s.Page(spec.Page)
	}
	if spec.ForUpdate {
		s.ForUpdate()
	}
	for _, u := range spec.Unions {
		if u.All {
			s.UnionAll()
		} else {
			s.Union()
		}
		if err := b.fillSelect(s, &u.SelectSpec); err != nil {
			return err
		}
	}
	return nil
}

func (b builder) join(s *sqlquery.Select, j JoinSpec) error {
	args, err := b.bindArgs(j.Bind)
	if err != nil {
		return fmt.Errorf("join: %w", err)
	}
	joinType := j.Type
	if joinType == "" {
		joinType = "INNER"
	}
	if j.Select == nil {
		s.Join(joinType, j.Table, j.On, args...)
		return nil
	}
	inner, err := b.selectStmt(j.Select)
	if err != nil {
		return fmt.Errorf("join %s: %w", j.Alias, err)
	}
	s.JoinSubSelect(joinType, inner, j.Alias, j.On, args...)
	return nil
}

func (b builder) insertStmt(spec *InsertSpec) (*sqlquery.Insert, error) {
	i := b.f.NewInsert().Into(spec.Into)
	if err := applyFlagsAndBinds[*sqlquery.Insert](b, i, spec.Flags, spec.Bind); err != nil {
		return nil, err
	}
	if spec.Ignore {
		i.Ignore()
	}
	if spec.OrReplace {
		i.OrReplace()
	}
	if len(spec.Cols) > 0 {
		i.Cols(spec.Cols...)
	}
	for _, p := range spec.Values {
		v, err := b.value(&p.Value)
		if err != nil {
			return nil, fmt.Errorf("value %s: %w", p.Name, err)
		}
		i.Col(p.Name, v)
	}
	for _, p := range spec.Set {
		e, err := expr(p)
		if err != nil {
			return nil, err
		}
		i.Set(p.Name, e...)
	}
	for n, row := range spec.Rows {
		values, err := b.binds(row)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", n, err)
		}
		i.AddRow(values)
	}
	for _, p := range spec.OnDuplicateKeyUpdate {
		v, err := b.value(&p.Value)
		if err != nil {
			return nil, fmt.Errorf("on duplicate key %s: %w", p.Name, err)
		}
		i.OnDuplicateKeyUpdateCol(p.Name, v)
	}
	for _, p := range spec.OnDuplicateKeyUpdateSet {
		e, err := expr(p)
		if err != nil {
			return nil, err
		}
		if len(e) == 0 {
			e = []string{"NULL"}
		}
		i.OnDuplicateKeyUpdate(p.Name, e[0])
	}
	applyReturning[*sqlquery.Insert](i, spec.Returning)
	return i, nil
}

func (b builder) updateStmt(spec *UpdateSpec) (*sqlquery.Update, error) {
	u := b.f.NewUpdate().Table(spec.Table)
	if err := applyFlagsAndBinds[*sqlquery.Update](b, u, spec.Flags, spec.Bind); err != nil {
		return nil, err
	}
	if len(spec.Cols) > 0 {
		u.Cols(spec.Cols...)
	}
	for _, p := range spec.Values {
		v, err := b.value(&p.Value)
		if err != nil {
			return nil, fmt.Errorf("value %s: %w", p.Name, err)
		}
		u.Col(p.Name, v)
	}
	for _, p := range spec.Set {
		e, err := expr(p)
		if err != nil {
			return nil, err
		}
		u.Set(p.Name, e...)
	}
	if err := applyConditions[*sqlquery.Update](b, u, spec.Where); err != nil {
		return nil, fmt.Errorf("where: %w", err)
	}
	applyOrdering[*sqlquery.Update](u, spec.OrderBy, spec.Limit, spec.Offset)
	applyReturning[*sqlquery.Update](u, spec.Returning)
	return u, nil
}

func (b builder) deleteStmt(spec *DeleteSpec) (*sqlquery.Delete, error) {
	d := b.f.NewDelete().From(spec.From)
	if err := applyFlagsAndBinds[*sqlquery.Delete](b, d, spec.Flags, spec.Bind); err != nil {
		return nil, err
	}
	if err := applyConditions[*sqlquery.Delete](b, d, spec.Where); err != nil {
		return nil, fmt.Errorf("where: %w", err)
	}
	applyOrdering[*sqlquery.Delete](d, spec.OrderBy, spec.Limit, spec.Offset)
	applyReturning[*sqlquery.Delete](d, spec.Returning)
	return d, nil
}
