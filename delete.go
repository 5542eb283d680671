package sqlquery

import "github.com/anoxia/sqlquery/internal/cond"

// Delete builds a DELETE statement.
type Delete struct {
	dml
	from string
}

// NewDelete creates a DELETE builder for d.
func NewDelete(d Dialect) *Delete {
	return &Delete{dml: newDML(d, "DELETE",
		func(c Capabilities) bool { return c.OrderedDelete },
		func(c Capabilities) bool { return c.ReturningOnDelete },
	)}
}

// From sets the table to delete from.
func (d *Delete) From(table string) *Delete {
	d.from = d.quoter.QuoteName(table)
	return d
}

// Where adds a condition joined with AND.
func (d *Delete) Where(condition string, binds ...Bind) *Delete {
	d.where(cond.And, condition, binds)
	return d
}

// OrWhere adds a condition joined with OR.
func (d *Delete) OrWhere(condition string, binds ...Bind) *Delete {
	d.where(cond.Or, condition, binds)
	return d
}

// WhereGroup adds the conditions fn adds as a group joined with AND.
func (d *Delete) WhereGroup(fn func(*Group), binds ...Bind) *Delete {
	d.whereGroup(cond.And, fn, binds)
	return d
}

// OrWhereGroup adds the conditions fn adds as a group joined with OR.
func (d *Delete) OrWhereGroup(fn func(*Group), binds ...Bind) *Delete {
	d.whereGroup(cond.Or, fn, binds)
	return d
}

// OrderBy adds ORDER BY expressions.
func (d *Delete) OrderBy(specs ...string) *Delete {
	d.addOrderBy(specs)
	return d
}

// Limit sets the LIMIT.
func (d *Delete) Limit(limit int) *Delete {
	d.setLimit(limit)
	return d
}

// Offset sets the OFFSET.
func (d *Delete) Offset(offset int) *Delete {
	d.setOffset(offset)
	return d
}

// Returning adds RETURNING columns.
func (d *Delete) Returning(cols ...string) *Delete {
	d.addReturning(cols)
	return d
}

// SetFlag adds or removes a statement flag such as QUICK.
func (d *Delete) SetFlag(flag string, enable bool) *Delete {
	d.setFlag(flag, enable)
	return d
}

// ResetFlags removes every flag.
func (d *Delete) ResetFlags() *Delete {
	d.resetFlags()
	return d
}

// BindValue binds value to name.
func (d *Delete) BindValue(name string, value any) *Delete {
	d.bindValue(name, value)
	return d
}

// BindValuesFrom binds every entry of values.
func (d *Delete) BindValuesFrom(values Bind) *Delete {
	d.bindValuesFrom(values)
	return d
}

// ResetBindValues removes every bound value.
func (d *Delete) ResetBindValues() *Delete {
	d.resetBindValues()
	return d
}

// Statement renders the statement.
func (d *Delete) Statement() (string, error) {
	if d.err != nil {
		return "", d.err
	}
	return "DELETE" +
		d.dialect.BuildFlags(d.flags) +
		" FROM " + d.from +
		d.tail(), nil
}

// BindValues returns a copy of the bound values.
func (d *Delete) BindValues() *BindValues {
	return d.binds.Clone()
}

// Render renders the statement with its bind values.
func (d *Delete) Render() (*QueryResult, error) {
	return d.render(d)
}

// MustRender renders the statement or panics on error.
func (d *Delete) MustRender() *QueryResult {
	result, err := d.Render()
	if err != nil {
		panic(err)
	}
	return result
}

// String returns the statement text, or "" when the builder has failed.
func (d *Delete) String() string {
	return statementText(d)
}
