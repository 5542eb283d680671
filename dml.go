package sqlquery

import "github.com/anoxia/sqlquery/internal/cond"

// dml holds the clauses UPDATE and DELETE share: a WHERE clause, plus
// ORDER BY, LIMIT, OFFSET and RETURNING where the dialect allows them.
type dml struct {
	statement
	kind      string
	ordered   func(Capabilities) bool
	returns   func(Capabilities) bool
	orderBy   []string
	limit     int
	offset    int
	returning []string
}

func newDML(d Dialect, kind string, ordered, returns func(Capabilities) bool) dml {
	return dml{statement: newStatement(d), kind: kind, ordered: ordered, returns: returns}
}

func (m *dml) where(conn cond.Connective, condition string, binds []Bind) {
	m.addCond(cond.Where, conn, condition, binds)
}

func (m *dml) whereGroup(conn cond.Connective, fn func(*Group), binds []Bind) {
	m.addCondGroup(cond.Where, conn, fn, binds)
}

func (m *dml) addOrderBy(specs []string) {
	if !m.ordered(m.caps()) {
		m.unsupported(m.kind + " ... ORDER BY")
		return
	}
	m.orderBy = append(m.orderBy, m.quoteNamesIn(specs)...)
}

func (m *dml) setLimit(limit int) {
	if !m.ordered(m.caps()) {
		m.unsupported(m.kind + " ... LIMIT")
		return
	}
	m.limit = limit
}

func (m *dml) setOffset(offset int) {
	if !m.caps().OffsetOnModify {
		m.unsupported(m.kind + " ... OFFSET")
		return
	}
	m.offset = offset
}

func (m *dml) addReturning(cols []string) {
	if !m.returns(m.caps()) {
		m.unsupported(m.kind + " ... RETURNING")
		return
	}
	m.returning = append(m.returning, m.quoteNamesIn(cols)...)
}

// tail renders the clauses following the table and SET list.
func (m *dml) tail() string {
	return m.dialect.BuildWhere(m.conds.List(cond.Where)) +
		m.dialect.BuildOrderBy(m.orderBy) +
		m.dialect.BuildLimitOffset(m.limit, m.offset) +
		m.dialect.BuildReturning(m.returning)
}

func (m *dml) render(stm Statement) (*QueryResult, error) {
	sql, err := stm.Statement()
	if err != nil {
		return nil, err
	}
	return m.result(sql, m.binds.Clone()), nil
}
