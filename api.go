// Package sqlquery builds parameterized SELECT, INSERT, UPDATE and DELETE
// statements for several SQL dialects.
//
// Statements are mutable builders. Every call returns the builder so calls
// chain; the first failing call records an error that later calls skip
// and that Statement and Render return. Rendering is a pure read of the
// builder state and may be repeated.
//
// # Basic Usage
//
//	f := sqlquery.NewQueryFactory("pgsql")
//
//	sel := f.NewSelect().
//		Cols("id", "u.name AS author").
//		From("users AS u").
//		Where("u.active = :active", sqlquery.Bind{"active": true}).
//		OrderBy("u.name").
//		Page(2)
//
//	result, err := sel.Render()
//	// result.SQL:
//	// SELECT
//	//     id,
//	//     "u"."name" AS "author"
//	// FROM
//	//     "users" AS "u"
//	// WHERE
//	//     "u"."active" = :active
//	// ORDER BY
//	//     "u"."name"
//	// LIMIT 10 OFFSET 10
//	// result.Binds: active => true
//
// Placeholders use the :name form. QueryResult.Args rewrites them into the
// bind variable style of the dialect's driver.
//
// # Dialects
//
// Dialects are looked up by name: common, mysql, mariadb, pgsql (or
// postgres), sqlite and sqlsrv (or mssql). Unknown names fall back to the
// common dialect. Features a dialect lacks, such as RETURNING on MySQL,
// fail with an UnsupportedFeatureError.
package sqlquery

import (
	"github.com/anoxia/sqlquery/internal/bind"
	"github.com/anoxia/sqlquery/internal/bindvar"
	"github.com/anoxia/sqlquery/internal/cond"
	"github.com/anoxia/sqlquery/internal/quote"
	"github.com/anoxia/sqlquery/internal/render"
)

type (
	// Dialect renders the clauses of a statement for one database.
	Dialect = render.Dialect

	// Capabilities lists the optional features of a dialect.
	Capabilities = render.Capabilities

	// Quoter quotes identifiers for a dialect.
	Quoter = quote.Quoter

	// BindValues is the ordered set of values bound to a statement.
	BindValues = bind.Values

	// Bind maps placeholder names to values.
	Bind = map[string]any

	// Group adds conditions to a parenthesized group of a WHERE or HAVING
	// clause.
	Group = cond.Group

	// Subquery is a bind value rendered in place of its placeholder.
	Subquery = cond.Subquery

	// BindStyle is a driver's bind variable syntax.
	BindStyle = bindvar.Style
)

// Bind variable styles.
const (
	BindNamed    = bindvar.Named
	BindQuestion = bindvar.Question
	BindDollar   = bindvar.Dollar
	BindAtP      = bindvar.AtP
)

// Errors returned by statement builders.
type (
	UnsupportedFeatureError      = render.UnsupportedFeatureError
	EmptyProjectionError         = render.EmptyProjectionError
	DuplicateTableReferenceError = render.DuplicateTableReferenceError
	MissingBulkColumnError       = render.MissingBulkColumnError
	MissingValueError            = bindvar.MissingValueError
)

// Raw is SQL text bound in place of a placeholder, e.g.
// Bind{"now": Raw("CURRENT_TIMESTAMP")}.
type Raw string

// Statement returns the text.
func (r Raw) Statement() (string, error) {
	return string(r), nil
}

// BindValues returns nil; raw text carries no values.
func (r Raw) BindValues() *BindValues {
	return nil
}

// Statement is implemented by every statement kind.
type Statement interface {
	Statement() (string, error)
	BindValues() *BindValues
	Render() (*QueryResult, error)
	Err() error
	String() string
}

// Conditioner is a statement with a WHERE clause.
type Conditioner[T any] interface {
	Where(condition string, binds ...Bind) T
	OrWhere(condition string, binds ...Bind) T
	WhereGroup(fn func(*Group), binds ...Bind) T
	OrWhereGroup(fn func(*Group), binds ...Bind) T
}

// Limiter is a statement accepting a LIMIT.
type Limiter[T any] interface {
	Limit(limit int) T
}

// Offsetter is a statement accepting an OFFSET.
type Offsetter[T any] interface {
	Offset(offset int) T
}

// Orderer is a statement accepting ORDER BY.
type Orderer[T any] interface {
	OrderBy(specs ...string) T
}

// Returner is a statement accepting RETURNING.
type Returner[T any] interface {
	Returning(cols ...string) T
}

var (
	_ Statement            = (*Select)(nil)
	_ Statement            = (*Insert)(nil)
	_ Statement            = (*Update)(nil)
	_ Statement            = (*Delete)(nil)
	_ Subquery             = (*Select)(nil)
	_ Subquery             = Raw("")
	_ Conditioner[*Select] = (*Select)(nil)
	_ Conditioner[*Update] = (*Update)(nil)
	_ Conditioner[*Delete] = (*Delete)(nil)
	_ Limiter[*Select]     = (*Select)(nil)
	_ Limiter[*Update]     = (*Update)(nil)
	_ Limiter[*Delete]     = (*Delete)(nil)
	_ Offsetter[*Select]   = (*Select)(nil)
	_ Offsetter[*Update]   = (*Update)(nil)
	_ Offsetter[*Delete]   = (*Delete)(nil)
	_ Orderer[*Select]     = (*Select)(nil)
	_ Orderer[*Update]     = (*Update)(nil)
	_ Orderer[*Delete]     = (*Delete)(nil)
	_ Returner[*Insert]    = (*Insert)(nil)
	_ Returner[*Update]    = (*Update)(nil)
	_ Returner[*Delete]    = (*Delete)(nil)
)
