package sqlquery

import (
	"slices"
	"strings"

	"github.com/anoxia/sqlquery/internal/cond"
	"github.com/anoxia/sqlquery/internal/quote"
	"github.com/anoxia/sqlquery/internal/render"
)

// defaultPaging is the number of rows per page.
const defaultPaging = 10

// Indentation of subselects placed in FROM and JOIN references.
const (
	fromSubSelectIndent = "        "
	joinSubSelectIndent = "            "
)

// column is one projected expression with an optional alias.
type column struct {
	expr  string
	alias string
}

func (c column) spec() string {
	if c.alias == "" {
		return c.expr
	}
	return c.expr + " AS " + c.alias
}

// Select builds a SELECT statement.
type Select struct {
	statement
	cols      []column
	from      []string
	joins     map[int][]string
	fromKey   int
	tableRefs map[string]string
	groupBy   []string
	orderBy   []string
	limit     int
	offset    int
	page      int
	paging    int
	forUpdate bool
	unions    []string
}

// NewSelect creates a SELECT builder for d.
func NewSelect(d Dialect) *Select {
	s := &Select{statement: newStatement(d), paging: defaultPaging}
	s.resetTables()
	return s
}

// Distinct adds the DISTINCT flag.
func (s *Select) Distinct() *Select {
	s.setFlag("DISTINCT", true)
	return s
}

// SetFlag adds or removes a statement flag such as SQL_CALC_FOUND_ROWS.
func (s *Select) SetFlag(flag string, enable bool) *Select {
	s.setFlag(flag, enable)
	return s
}

// ResetFlags removes every flag.
func (s *Select) ResetFlags() *Select {
	s.resetFlags()
	return s
}

// Cols adds projected columns. A spec of the form "expr alias" or
// "expr AS alias" is aliased; adding an alias again replaces its
// expression in place.
func (s *Select) Cols(specs ...string) *Select {
	for _, spec := range specs {
		s.addCol(parseColumn(spec))
	}
	return s
}

// ColAs adds a projected expression under alias.
func (s *Select) ColAs(expr, alias string) *Select {
	s.addCol(column{expr: expr, alias: alias})
	return s
}

func parseColumn(spec string) column {
	parts := strings.Split(spec, " ")
	switch {
	case len(parts) == 2 && strings.TrimSpace(parts[0]) != "" && strings.TrimSpace(parts[1]) != "":
		return column{expr: parts[0], alias: parts[1]}
	case len(parts) == 3 && strings.EqualFold(parts[1], "AS"):
		return column{expr: parts[0], alias: parts[2]}
	}
	return column{expr: spec}
}

func (s *Select) addCol(c column) {
	if c.alias != "" {
		i := slices.IndexFunc(s.cols, func(o column) bool { return o.alias == c.alias })
		if i >= 0 {
			s.cols[i] = c
			return
		}
	}
	s.cols = append(s.cols, c)
}

// RemoveCol removes the column with the given alias or, failing that, the
// first unaliased column with the given expression.
func (s *Select) RemoveCol(name string) bool {
	i := s.colIndex(name)
	if i < 0 {
		return false
	}
	s.cols = slices.Delete(s.cols, i, i+1)
	return true
}

// HasCol reports whether a column with the given alias or expression is
// projected.
func (s *Select) HasCol(name string) bool {
	return s.colIndex(name) >= 0
}

func (s *Select) colIndex(name string) int {
	if i := slices.IndexFunc(s.cols, func(c column) bool { return c.alias != "" && c.alias == name }); i >= 0 {
		return i
	}
	return slices.IndexFunc(s.cols, func(c column) bool { return c.alias == "" && c.expr == name })
}

// HasCols reports whether any column is projected.
func (s *Select) HasCols() bool {
	return len(s.cols) > 0
}

// Columns returns the projected columns as "expr" or "expr AS alias".
func (s *Select) Columns() []string {
	out := make([]string, len(s.cols))
	for i, c := range s.cols {
		out[i] = c.spec()
	}
	return out
}

// ResetCols removes every projected column.
func (s *Select) ResetCols() *Select {
	s.cols = nil
	return s
}

// tableRef checks that the effective name of a FROM or JOIN target is
// unused. The returned commit function registers it.
func (s *Select) tableRef(kind, spec string) (func(), error) {
	name := spec
	if pos := quote.LastIndexFold(spec, " AS "); pos >= 0 {
		name = strings.TrimSpace(spec[pos+4:])
	}
	ref := kind + " " + spec
	if prior, ok := s.tableRefs[name]; ok {
		return nil, render.NewDuplicateTableReferenceError(ref, prior)
	}
	return func() { s.tableRefs[name] = ref }, nil
}

// addTableRef registers a table reference, recording an error when its
// name is taken.
func (s *Select) addTableRef(kind, spec string) bool {
	if s.err != nil {
		return false
	}
	commit, err := s.tableRef(kind, spec)
	if err != nil {
		s.err = err
		return false
	}
	commit()
	return true
}

// From adds a table to the FROM clause.
func (s *Select) From(spec string) *Select {
	if s.addTableRef("FROM", spec) {
		s.addFrom(s.quoter.QuoteName(spec))
	}
	return s
}

// FromRaw adds a FROM reference exactly as written.
func (s *Select) FromRaw(spec string) *Select {
	if s.addTableRef("FROM", spec) {
		s.addFrom(spec)
	}
	return s
}

// FromSubSelect adds a subselect to the FROM clause under name. The
// subselect's bind values are merged into this statement.
func (s *Select) FromSubSelect(sub Subquery, name string) *Select {
	if s.err != nil {
		return s
	}
	commit, err := s.tableRef("FROM (SELECT ...) AS", name)
	if err != nil {
		s.err = err
		return s
	}
	text, err := s.subSelect(sub, fromSubSelectIndent)
	if err != nil {
		s.err = err
		return s
	}
	commit()
	s.binds.Merge(sub.BindValues())
	s.addFrom("(" + text + "    ) AS " + s.quoter.QuoteName(name))
	return s
}

func (s *Select) addFrom(spec string) {
	s.from = append(s.from, spec)
	s.fromKey = len(s.from) - 1
}

// subSelect renders sub on its own lines, indented.
func (s *Select) subSelect(sub Subquery, indent string) (string, error) {
	text, err := sub.Statement()
	if err != nil {
		return "", err
	}
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = indent + line
	}
	return "\n" + indent + strings.TrimLeft(strings.Join(lines, "\n"), " \t\n\r") + "\n", nil
}

// Join adds a JOIN of the given type ("INNER", "LEFT", ... or "" for a
// plain JOIN) to the current FROM reference. A condition not starting with
// ON or USING is prefixed with ON.
func (s *Select) Join(joinType, spec, condition string, binds ...Bind) *Select {
	if s.err != nil {
		return s
	}
	join := joinKeyword(joinType)
	commit, err := s.tableRef(join, spec)
	if err != nil {
		s.err = err
		return s
	}
	on, err := s.joinCondition(condition, binds)
	if err != nil {
		s.err = err
		return s
	}
	commit()
	s.addJoin(strings.TrimRight(join+" "+s.quoter.QuoteName(spec)+" "+on, " "))
	return s
}

// InnerJoin adds an INNER JOIN.
func (s *Select) InnerJoin(spec, condition string, binds ...Bind) *Select {
	return s.Join("INNER", spec, condition, binds...)
}

// LeftJoin adds a LEFT JOIN.
func (s *Select) LeftJoin(spec, condition string, binds ...Bind) *Select {
	return s.Join("LEFT", spec, condition, binds...)
}

// JoinSubSelect joins a subselect under name. The subselect's bind values
// are merged into this statement.
func (s *Select) JoinSubSelect(joinType string, sub Subquery, name, condition string, binds ...Bind) *Select {
	if s.err != nil {
		return s
	}
	join := joinKeyword(joinType)
	commit, err := s.tableRef(join+" (SELECT ...) AS", name)
	if err != nil {
		s.err = err
		return s
	}
	text, err := s.subSelect(sub, joinSubSelectIndent)
	if err != nil {
		s.err = err
		return s
	}
	on, err := s.joinCondition(condition, binds)
	if err != nil {
		s.err = err
		return s
	}
	commit()
	s.binds.Merge(sub.BindValues())
	ref := join + " (" + text + "        ) AS " + s.quoter.QuoteName(name) + " " + on
	s.addJoin(fromSubSelectIndent + strings.TrimRight(ref, " "))
	return s
}

func joinKeyword(joinType string) string {
	return strings.ToUpper(strings.TrimSpace(strings.TrimSpace(joinType) + " JOIN"))
}

func (s *Select) joinCondition(condition string, binds []Bind) (string, error) {
	if condition == "" {
		return "", nil
	}
	text, err := s.conds.Rebuild(condition, binds...)
	if err != nil {
		return "", err
	}
	head := strings.ToUpper(strings.TrimLeft(text, " "))
	if strings.HasPrefix(head, "ON ") || strings.HasPrefix(head, "USING ") {
		return text, nil
	}
	return "ON " + text, nil
}

func (s *Select) addJoin(spec string) {
	s.joins[s.fromKey] = append(s.joins[s.fromKey], spec)
}

// ResetTables removes every FROM and JOIN reference.
func (s *Select) ResetTables() *Select {
	s.resetTables()
	return s
}

func (s *Select) resetTables() {
	s.from = nil
	s.joins = make(map[int][]string)
	s.fromKey = 0
	s.tableRefs = make(map[string]string)
}

// Where adds a condition joined with AND.
func (s *Select) Where(condition string, binds ...Bind) *Select {
	s.addCond(cond.Where, cond.And, condition, binds)
	return s
}

// OrWhere adds a condition joined with OR.
func (s *Select) OrWhere(condition string, binds ...Bind) *Select {
	s.addCond(cond.Where, cond.Or, condition, binds)
	return s
}

// WhereGroup adds the conditions fn adds as a group joined with AND.
func (s *Select) WhereGroup(fn func(*Group), binds ...Bind) *Select {
	s.addCondGroup(cond.Where, cond.And, fn, binds)
	return s
}

// OrWhereGroup adds the conditions fn adds as a group joined with OR.
func (s *Select) OrWhereGroup(fn func(*Group), binds ...Bind) *Select {
	s.addCondGroup(cond.Where, cond.Or, fn, binds)
	return s
}

// ResetWhere removes every WHERE condition.
func (s *Select) ResetWhere() *Select {
	s.conds.Reset(cond.Where)
	return s
}

// GroupBy adds GROUP BY expressions.
func (s *Select) GroupBy(specs ...string) *Select {
	s.groupBy = append(s.groupBy, s.quoteNamesIn(specs)...)
	return s
}

// ResetGroupBy removes every GROUP BY expression.
func (s *Select) ResetGroupBy() *Select {
	s.groupBy = nil
	return s
}

// Having adds a HAVING condition joined with AND.
func (s *Select) Having(condition string, binds ...Bind) *Select {
	s.addCond(cond.Having, cond.And, condition, binds)
	return s
}

// OrHaving adds a HAVING condition joined with OR.
func (s *Select) OrHaving(condition string, binds ...Bind) *Select {
	s.addCond(cond.Having, cond.Or, condition, binds)
	return s
}

// HavingGroup adds the conditions fn adds as a HAVING group joined with AND.
func (s *Select) HavingGroup(fn func(*Group), binds ...Bind) *Select {
	s.addCondGroup(cond.Having, cond.And, fn, binds)
	return s
}

// OrHavingGroup adds the conditions fn adds as a HAVING group joined with OR.
func (s *Select) OrHavingGroup(fn func(*Group), binds ...Bind) *Select {
	s.addCondGroup(cond.Having, cond.Or, fn, binds)
	return s
}

// ResetHaving removes every HAVING condition.
func (s *Select) ResetHaving() *Select {
	s.conds.Reset(cond.Having)
	return s
}

// OrderBy adds ORDER BY expressions.
func (s *Select) OrderBy(specs ...string) *Select {
	s.orderBy = append(s.orderBy, s.quoteNamesIn(specs)...)
	return s
}

// ResetOrderBy removes every ORDER BY expression.
func (s *Select) ResetOrderBy() *Select {
	s.orderBy = nil
	return s
}

// Limit sets the LIMIT, leaving page mode.
func (s *Select) Limit(limit int) *Select {
	s.limit = limit
	if s.page != 0 {
		s.page = 0
		s.offset = 0
	}
	return s
}

// Offset sets the OFFSET, leaving page mode.
func (s *Select) Offset(offset int) *Select {
	s.offset = offset
	if s.page != 0 {
		s.page = 0
		s.limit = 0
	}
	return s
}

// Page sets LIMIT and OFFSET for a 1-based page number. Page 0 clears both.
func (s *Select) Page(page int) *Select {
	s.limit = 0
	s.offset = 0
	s.page = page
	if page != 0 {
		s.limit = s.paging
		s.offset = s.paging * (page - 1)
	}
	return s
}

// SetPaging sets the number of rows per page.
func (s *Select) SetPaging(paging int) *Select {
	s.paging = paging
	if s.page != 0 {
		s.Page(s.page)
	}
	return s
}

// Paging returns the number of rows per page.
func (s *Select) Paging() int {
	return s.paging
}

// CurrentPage returns the page number, 0 when not paging.
func (s *Select) CurrentPage() int {
	return s.page
}

// ForUpdate adds FOR UPDATE.
func (s *Select) ForUpdate() *Select {
	if s.caps().RowLocking == render.RowLockingNone {
		s.unsupported("FOR UPDATE")
		return s
	}
	s.forUpdate = true
	return s
}

// BindValue binds value to name.
func (s *Select) BindValue(name string, value any) *Select {
	s.bindValue(name, value)
	return s
}

// BindValuesFrom binds every entry of values.
func (s *Select) BindValuesFrom(values Bind) *Select {
	s.bindValuesFrom(values)
	return s
}

// ResetBindValues removes every bound value.
func (s *Select) ResetBindValues() *Select {
	s.resetBindValues()
	return s
}

// Union closes the current SELECT with UNION and starts a new one. Bound
// values are kept.
func (s *Select) Union() *Select {
	return s.addUnion("UNION")
}

// UnionAll closes the current SELECT with UNION ALL and starts a new one.
// Bound values are kept.
func (s *Select) UnionAll() *Select {
	return s.addUnion("UNION ALL")
}

func (s *Select) addUnion(keyword string) *Select {
	if s.err != nil {
		return s
	}
	stm, err := s.build()
	if err != nil {
		s.err = err
		return s
	}
	s.unions = append(s.unions, stm+"\n"+keyword)
	s.reset()
	return s
}

// ResetUnions drops every UNION segment.
func (s *Select) ResetUnions() *Select {
	s.unions = nil
	return s
}

// reset clears every clause but keeps bound values and unions.
func (s *Select) reset() {
	s.resetFlags()
	s.ResetCols()
	s.resetTables()
	s.ResetWhere()
	s.ResetGroupBy()
	s.ResetHaving()
	s.ResetOrderBy()
	s.limit = 0
	s.offset = 0
	s.page = 0
	s.forUpdate = false
}

func (s *Select) build() (string, error) {
	cols := make([]string, len(s.cols))
	for i, c := range s.cols {
		cols[i] = s.quoter.QuoteNamesIn(c.spec())
	}
	colText, err := s.dialect.BuildCols(cols)
	if err != nil {
		return "", err
	}

	from := make([][]string, len(s.from))
	for i, f := range s.from {
		from[i] = append([]string{f}, s.joins[i]...)
	}

	stm := "SELECT" +
		s.dialect.BuildFlags(s.flags) +
		colText +
		s.dialect.BuildFrom(from) +
		s.dialect.BuildWhere(s.conds.List(cond.Where)) +
		s.dialect.BuildGroupBy(s.groupBy) +
		s.dialect.BuildHaving(s.conds.List(cond.Having)) +
		s.dialect.BuildOrderBy(s.orderBy)
	stm = s.dialect.ApplySelectLimit(stm, s.limit, s.offset)
	return stm + s.dialect.BuildForUpdate(s.forUpdate), nil
}

// Statement renders the statement, UNION segments first.
func (s *Select) Statement() (string, error) {
	if s.err != nil {
		return "", s.err
	}
	stm, err := s.build()
	if err != nil {
		return "", err
	}
	if len(s.unions) == 0 {
		return stm, nil
	}
	return strings.Join(s.unions, "\n") + "\n" + stm, nil
}

// BindValues returns a copy of the bound values.
func (s *Select) BindValues() *BindValues {
	return s.binds.Clone()
}

// Render renders the statement with its bind values.
func (s *Select) Render() (*QueryResult, error) {
	stm, err := s.Statement()
	if err != nil {
		return nil, err
	}
	return s.result(stm, s.BindValues()), nil
}

// MustRender renders the statement or panics on error.
func (s *Select) MustRender() *QueryResult {
	result, err := s.Render()
	if err != nil {
		panic(err)
	}
	return result
}

// String returns the statement text, or "" when the builder has failed.
func (s *Select) String() string {
	return statementText(s)
}
