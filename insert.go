package sqlquery

import (
	"maps"

	"github.com/anoxia/sqlquery/internal/bind"
	"github.com/anoxia/sqlquery/internal/colset"
	"github.com/anoxia/sqlquery/internal/render"
)

// onDuplicateKeySuffix names the placeholders of ON DUPLICATE KEY UPDATE
// values, keeping them apart from the inserted values.
const onDuplicateKeySuffix = "__on_duplicate_key"

// Insert builds an INSERT statement, single or multi-row.
type Insert struct {
	statement
	into              string
	intoRaw           string
	cols              *colset.Set
	bulk              *colset.Bulk
	onDuplicate       *colset.Set
	returning         []string
	replace           bool
	lastInsertIDNames map[string]string
}

// NewInsert creates an INSERT builder for d.
func NewInsert(d Dialect) *Insert {
	i := &Insert{statement: newStatement(d)}
	i.cols = colset.New(i.quoter, i.binds)
	i.bulk = colset.NewBulk(i.cols, i.binds)
	i.onDuplicate = colset.New(i.quoter, i.binds)
	return i
}

// Into sets the table to insert into.
func (i *Insert) Into(table string) *Insert {
	i.intoRaw = table
	i.into = i.quoter.QuoteName(table)
	return i
}

// SetLastInsertIDNames sets the map from "table.col" to the sequence or
// identity holding its last inserted id.
func (i *Insert) SetLastInsertIDNames(names map[string]string) *Insert {
	i.lastInsertIDNames = maps.Clone(names)
	return i
}

// LastInsertIDName returns the name to pass to the driver's last insert id
// lookup for col: the mapped name for "table.col" when there is one, else
// the dialect default ("" when the dialect needs none).
func (i *Insert) LastInsertIDName(col string) string {
	if name, ok := i.lastInsertIDNames[i.intoRaw+"."+col]; ok {
		return name
	}
	return i.dialect.LastInsertIDName(i.intoRaw, col)
}

// Col adds a column with a :name placeholder, binding value when given.
func (i *Insert) Col(name string, value ...any) *Insert {
	i.cols.Col(name, value...)
	return i
}

// Cols adds columns with placeholders and no values.
func (i *Insert) Cols(names ...string) *Insert {
	i.cols.Cols(names...)
	return i
}

// ColValues adds a placeholder column for every entry and binds its value.
func (i *Insert) ColValues(values Bind) *Insert {
	i.cols.ColValues(values)
	return i
}

// Set assigns a raw SQL expression to a column, or NULL when expr is
// omitted.
func (i *Insert) Set(name string, expr ...string) *Insert {
	i.cols.Expr(name, expr...)
	return i
}

// AddRow finishes the current row and starts the next one with cols. On
// the first call, with no columns added yet, it only seeds the first row.
func (i *Insert) AddRow(cols Bind) *Insert {
	if i.err != nil {
		return i
	}
	if i.cols.Len() > 0 {
		if err := i.bulk.NextRow(); err != nil {
			i.err = err
			return i
		}
	}
	i.cols.ColValues(cols)
	return i
}

// AddRows adds each entry of rows as a row.
func (i *Insert) AddRows(rows []Bind) *Insert {
	for _, row := range rows {
		i.AddRow(row)
	}
	return i
}

// OrReplace replaces conflicting rows instead of failing.
func (i *Insert) OrReplace() *Insert {
	switch i.caps().Replace {
	case render.ReplaceVerb:
		i.replace = true
	case render.ReplaceFlag:
		i.setFlag("OR REPLACE", true)
	default:
		i.unsupported("INSERT OR REPLACE")
	}
	return i
}

// Ignore skips conflicting rows instead of failing.
func (i *Insert) Ignore() *Insert {
	flag := i.caps().IgnoreFlag
	if flag == "" {
		i.unsupported("INSERT IGNORE")
		return i
	}
	i.setFlag(flag, true)
	return i
}

// OnDuplicateKeyUpdate assigns a raw expression to col on key conflict.
func (i *Insert) OnDuplicateKeyUpdate(col, expr string) *Insert {
	if !i.upsert() {
		return i
	}
	i.onDuplicate.Expr(col, expr)
	return i
}

// OnDuplicateKeyUpdateCol assigns a placeholder to col on key conflict,
// binding value when given. The placeholder is :col__on_duplicate_key.
func (i *Insert) OnDuplicateKeyUpdateCol(col string, value ...any) *Insert {
	if !i.upsert() {
		return i
	}
	i.onDuplicate.Placeholder(col, col+onDuplicateKeySuffix, value...)
	return i
}

// OnDuplicateKeyUpdateCols assigns a bound placeholder to each column on
// key conflict.
func (i *Insert) OnDuplicateKeyUpdateCols(values Bind) *Insert {
	for _, col := range bind.SortedKeys(values) {
		i.OnDuplicateKeyUpdateCol(col, values[col])
	}
	return i
}

func (i *Insert) upsert() bool {
	if !i.caps().Upsert {
		i.unsupported("ON DUPLICATE KEY UPDATE")
		return false
	}
	return i.err == nil
}

// Returning adds RETURNING columns.
func (i *Insert) Returning(cols ...string) *Insert {
	if !i.caps().ReturningOnInsert {
		i.unsupported("INSERT ... RETURNING")
		return i
	}
	i.returning = append(i.returning, i.quoteNamesIn(cols)...)
	return i
}

// SetFlag adds or removes a statement flag such as LOW_PRIORITY.
func (i *Insert) SetFlag(flag string, enable bool) *Insert {
	i.setFlag(flag, enable)
	return i
}

// ResetFlags removes every flag.
func (i *Insert) ResetFlags() *Insert {
	i.resetFlags()
	return i
}

// BindValue binds value to name.
func (i *Insert) BindValue(name string, value any) *Insert {
	i.bindValue(name, value)
	return i
}

// BindValuesFrom binds every entry of values.
func (i *Insert) BindValuesFrom(values Bind) *Insert {
	i.bindValuesFrom(values)
	return i
}

// ResetBindValues removes every bound value.
func (i *Insert) ResetBindValues() *Insert {
	i.resetBindValues()
	return i
}

func (i *Insert) build() (string, error) {
	verb := "INSERT"
	if i.replace {
		verb = "REPLACE"
	}
	stm := verb + i.dialect.BuildFlags(i.flags) + " INTO " + i.into
	if i.bulk.Active() {
		rows, err := i.bulk.Rows()
		if err != nil {
			return "", err
		}
		stm += i.dialect.BuildBulkInsertValues(i.bulk.Columns(), rows)
	} else {
		stm += i.dialect.BuildInsertValues(i.cols.Keys(), i.cols.Values())
	}
	return stm +
		i.dialect.BuildOnDuplicateKeyUpdate(i.onDuplicate.Assignments()) +
		i.dialect.BuildReturning(i.returning), nil
}

// Statement renders the statement.
func (i *Insert) Statement() (string, error) {
	if i.err != nil {
		return "", i.err
	}
	return i.build()
}

func (i *Insert) bindValues() (*BindValues, error) {
	if !i.bulk.Active() {
		return i.binds.Clone(), nil
	}
	return i.bulk.Binds()
}

// BindValues returns the values bound to the rendered statement. For a
// multi-row insert these are the row-suffixed values; if the pending row is
// incomplete only the base values are returned and Render reports the
// error.
func (i *Insert) BindValues() *BindValues {
	values, err := i.bindValues()
	if err != nil {
		return i.binds.Clone()
	}
	return values
}

// Render renders the statement with its bind values.
func (i *Insert) Render() (*QueryResult, error) {
	stm, err := i.Statement()
	if err != nil {
		return nil, err
	}
	values, err := i.bindValues()
	if err != nil {
		return nil, err
	}
	return i.result(stm, values), nil
}

// MustRender renders the statement or panics on error.
func (i *Insert) MustRender() *QueryResult {
	result, err := i.Render()
	if err != nil {
		panic(err)
	}
	return result
}

// String returns the statement text, or "" when the builder has failed.
func (i *Insert) String() string {
	return statementText(i)
}
