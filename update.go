package sqlquery

import (
	"github.com/anoxia/sqlquery/internal/colset"
	"github.com/anoxia/sqlquery/internal/cond"
)

// Update builds an UPDATE statement.
type Update struct {
	dml
	table string
	cols  *colset.Set
}

// NewUpdate creates an UPDATE builder for d.
func NewUpdate(d Dialect) *Update {
	u := &Update{dml: newDML(d, "UPDATE",
		func(c Capabilities) bool { return c.OrderedUpdate },
		func(c Capabilities) bool { return c.ReturningOnUpdate },
	)}
	u.cols = colset.New(u.quoter, u.binds)
	return u
}

// Table sets the table to update.
func (u *Update) Table(table string) *Update {
	u.table = u.quoter.QuoteName(table)
	return u
}

// Col sets a column to its :name placeholder, binding value when given.
func (u *Update) Col(name string, value ...any) *Update {
	u.cols.Col(name, value...)
	return u
}

// Cols sets columns to their placeholders without binding values.
func (u *Update) Cols(names ...string) *Update {
	u.cols.Cols(names...)
	return u
}

// ColValues sets a placeholder column for every entry and binds its value.
func (u *Update) ColValues(values Bind) *Update {
	u.cols.ColValues(values)
	return u
}

// Set assigns a raw SQL expression to a column, or NULL when expr is
// omitted.
func (u *Update) Set(name string, expr ...string) *Update {
	u.cols.Expr(name, expr...)
	return u
}

// Where adds a condition joined with AND.
func (u *Update) Where(condition string, binds ...Bind) *Update {
	u.where(cond.And, condition, binds)
	return u
}

// OrWhere adds a condition joined with OR.
func (u *Update) OrWhere(condition string, binds ...Bind) *Update {
	u.where(cond.Or, condition, binds)
	return u
}

// WhereGroup adds the conditions fn adds as a group joined with AND.
func (u *Update) WhereGroup(fn func(*Group), binds ...Bind) *Update {
	u.whereGroup(cond.And, fn, binds)
	return u
}

// OrWhereGroup adds the conditions fn adds as a group joined with OR.
func (u *Update) OrWhereGroup(fn func(*Group), binds ...Bind) *Update {
	u.whereGroup(cond.Or, fn, binds)
	return u
}

// OrderBy adds ORDER BY expressions.
func (u *Update) OrderBy(specs ...string) *Update {
	u.addOrderBy(specs)
	return u
}

// Limit sets the LIMIT.
func (u *Update) Limit(limit int) *Update {
	u.setLimit(limit)
	return u
}

// Offset sets the OFFSET.
func (u *Update) Offset(offset int) *Update {
	u.setOffset(offset)
	return u
}

// Returning adds RETURNING columns.
func (u *Update) Returning(cols ...string) *Update {
	u.addReturning(cols)
	return u
}

// SetFlag adds or removes a statement flag such as LOW_PRIORITY.
func (u *Update) SetFlag(flag string, enable bool) *Update {
	u.setFlag(flag, enable)
	return u
}

// ResetFlags removes every flag.
func (u *Update) ResetFlags() *Update {
	u.resetFlags()
	return u
}

// BindValue binds value to name.
func (u *Update) BindValue(name string, value any) *Update {
	u.bindValue(name, value)
	return u
}

// BindValuesFrom binds every entry of values.
func (u *Update) BindValuesFrom(values Bind) *Update {
	u.bindValuesFrom(values)
	return u
}

// ResetBindValues removes every bound value.
func (u *Update) ResetBindValues() *Update {
	u.resetBindValues()
	return u
}

// Statement renders the statement.
func (u *Update) Statement() (string, error) {
	if u.err != nil {
		return "", u.err
	}
	return "UPDATE" +
		u.dialect.BuildFlags(u.flags) +
		" " + u.table +
		u.dialect.BuildUpdateSet(u.cols.Assignments()) +
		u.tail(), nil
}

// BindValues returns a copy of the bound values.
func (u *Update) BindValues() *BindValues {
	return u.binds.Clone()
}

// Render renders the statement with its bind values.
func (u *Update) Render() (*QueryResult, error) {
	return u.render(u)
}

// MustRender renders the statement or panics on error.
func (u *Update) MustRender() *QueryResult {
	result, err := u.Render()
	if err != nil {
		panic(err)
	}
	return result
}

// String returns the statement text, or "" when the builder has failed.
func (u *Update) String() string {
	return statementText(u)
}
