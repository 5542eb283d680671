package sqlquery

import (
	"slices"

	"github.com/anoxia/sqlquery/internal/bind"
	"github.com/anoxia/sqlquery/internal/bindvar"
	"github.com/anoxia/sqlquery/internal/cond"
	"github.com/anoxia/sqlquery/internal/quote"
	"github.com/anoxia/sqlquery/internal/render"
)

// QueryResult contains the rendered statement and its bind values.
type QueryResult struct {
	SQL   string
	Binds *BindValues
	Style BindStyle
}

// Args rewrites the statement's placeholders in the dialect's bind style
// and returns the matching driver arguments.
func (r *QueryResult) Args() (string, []any, error) {
	return r.Positional(r.Style)
}

// Positional rewrites the statement's placeholders in style and returns
// the matching driver arguments.
func (r *QueryResult) Positional(style BindStyle) (string, []any, error) {
	return bindvar.Convert(r.SQL, style, r.Binds)
}

// statement holds the state shared by every statement kind.
type statement struct {
	dialect Dialect
	quoter  quote.Quoter
	binds   *bind.Values
	conds   *cond.Builder
	flags   []string
	err     error
}

func newStatement(d Dialect) statement {
	binds := bind.New()
	q := d.Quoter()
	return statement{
		dialect: d,
		quoter:  q,
		binds:   binds,
		conds:   cond.New(q, binds),
	}
}

// Err returns the first error recorded by the builder.
func (s *statement) Err() error {
	return s.err
}

// Dialect returns the dialect the statement renders for.
func (s *statement) Dialect() Dialect {
	return s.dialect
}

// QuoteNamePrefix returns the character opening a quoted identifier.
func (s *statement) QuoteNamePrefix() string {
	return s.quoter.Prefix
}

// QuoteNameSuffix returns the character closing a quoted identifier.
func (s *statement) QuoteNameSuffix() string {
	return s.quoter.Suffix
}

// Flags returns the statement flags in order.
func (s *statement) Flags() []string {
	return slices.Clone(s.flags)
}

// HasFlag reports whether flag is set.
func (s *statement) HasFlag(flag string) bool {
	return slices.Contains(s.flags, flag)
}

func (s *statement) setFlag(flag string, enable bool) {
	i := slices.Index(s.flags, flag)
	switch {
	case enable && i < 0:
		s.flags = append(s.flags, flag)
	case !enable && i >= 0:
		s.flags = slices.Delete(s.flags, i, i+1)
	}
}

func (s *statement) resetFlags() {
	s.flags = nil
}

func (s *statement) bindValue(name string, value any) {
	s.binds.Set(name, value)
}

func (s *statement) bindValuesFrom(values Bind) {
	s.binds.SetAll(values)
}

func (s *statement) resetBindValues() {
	s.binds.Reset()
}

func (s *statement) addCond(c cond.Clause, conn cond.Connective, text string, binds []Bind) {
	if s.err != nil {
		return
	}
	s.err = s.conds.Add(c, conn, text, binds...)
}

func (s *statement) addCondGroup(c cond.Clause, conn cond.Connective, fn func(*Group), binds []Bind) {
	if s.err != nil {
		return
	}
	s.err = s.conds.AddGroup(c, conn, fn, binds...)
}

// unsupported records an UnsupportedFeatureError for the dialect.
func (s *statement) unsupported(feature string, hint ...string) {
	if s.err != nil {
		return
	}
	s.err = render.NewUnsupportedFeatureError(s.dialect.Name(), feature, hint...)
}

func (s *statement) caps() Capabilities {
	return s.dialect.Capabilities()
}

// result bundles rendered text with the statement's bind values.
func (s *statement) result(sql string, binds *BindValues) *QueryResult {
	return &QueryResult{SQL: sql, Binds: binds, Style: s.caps().Placeholder}
}

// quoteNamesIn quotes each spec with the statement's quoter.
func (s *statement) quoteNamesIn(specs []string) []string {
	out := make([]string, len(specs))
	for i, spec := range specs {
		out[i] = s.quoter.QuoteNamesIn(spec)
	}
	return out
}

// statementText returns the statement text, or "" when the builder has failed.
func statementText(stm Statement) string {
	sql, err := stm.Statement()
	if err != nil {
		return ""
	}
	return sql
}
