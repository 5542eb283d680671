// Package render holds the clause builders shared by every SQL dialect.
package render

import (
	"strconv"
	"strings"

	"github.com/anoxia/sqlquery/internal/quote"
)

// indent prefixes each element of a clause block.
const indent = "    "

// Dialect renders the clauses of a statement for one database.
type Dialect interface {
	Name() string
	Quoter() quote.Quoter
	Capabilities() Capabilities

	BuildFlags(flags []string) string
	BuildCols(cols []string) (string, error)
	BuildFrom(from [][]string) string
	BuildWhere(where []string) string
	BuildGroupBy(groupBy []string) string
	BuildHaving(having []string) string
	BuildOrderBy(orderBy []string) string
	BuildLimit(limit int) string
	BuildLimitOffset(limit, offset int) string
	ApplySelectLimit(stm string, limit, offset int) string
	BuildForUpdate(forUpdate bool) string
	BuildReturning(cols []string) string
	BuildInsertValues(cols, vals []string) string
	BuildBulkInsertValues(cols []string, rows [][]string) string
	BuildUpdateSet(assignments []string) string
	BuildOnDuplicateKeyUpdate(assignments []string) string

	// LastInsertIDName returns the sequence or identity name holding the
	// last id inserted into table.col, or "" when the driver needs none.
	LastInsertIDName(table, col string) string
}

// IndentCSV renders list as indented, comma-separated lines.
func IndentCSV(list []string) string {
	return "\n" + indent + strings.Join(list, ",\n"+indent)
}

// Indent renders list as indented lines.
func Indent(list []string) string {
	return "\n" + indent + strings.Join(list, "\n"+indent)
}

// Common is the dialect-agnostic clause builder. Dialects embed it and
// override the clauses they spell differently.
type Common struct {
	name   string
	quoter quote.Quoter
	caps   Capabilities
}

// NewCommon creates a clause builder for the named dialect.
func NewCommon(name string, quoter quote.Quoter, caps Capabilities) Common {
	return Common{name: name, quoter: quoter, caps: caps}
}

// Name returns the dialect name.
func (c Common) Name() string { return c.name }

// Quoter returns the identifier quoter.
func (c Common) Quoter() quote.Quoter { return c.quoter }

// Capabilities returns the supported optional features.
func (c Common) Capabilities() Capabilities { return c.caps }

func (c Common) BuildFlags(flags []string) string {
	if len(flags) == 0 {
		return ""
	}
	return " " + strings.Join(flags, " ")
}

func (c Common) BuildCols(cols []string) (string, error) {
	if len(cols) == 0 {
		return "", EmptyProjectionError{}
	}
	return IndentCSV(cols), nil
}

// BuildFrom renders one reference per FROM entry; each entry's first
// element is the table and the rest are its joins.
func (c Common) BuildFrom(from [][]string) string {
	if len(from) == 0 {
		return ""
	}
	refs := make([]string, len(from))
	for i, ref := range from {
		refs[i] = strings.Join(ref, "\n")
	}
	return "\nFROM" + IndentCSV(refs)
}

func (c Common) BuildWhere(where []string) string {
	if len(where) == 0 {
		return ""
	}
	return "\nWHERE" + Indent(where)
}

func (c Common) BuildGroupBy(groupBy []string) string {
	if len(groupBy) == 0 {
		return ""
	}
	return "\nGROUP BY" + IndentCSV(groupBy)
}

func (c Common) BuildHaving(having []string) string {
	if len(having) == 0 {
		return ""
	}
	return "\nHAVING" + Indent(having)
}

func (c Common) BuildOrderBy(orderBy []string) string {
	if len(orderBy) == 0 {
		return ""
	}
	return "\nORDER BY" + IndentCSV(orderBy)
}

func (c Common) BuildLimit(limit int) string {
	if limit <= 0 {
		return ""
	}
	return "\nLIMIT " + strconv.Itoa(limit)
}

func (c Common) BuildLimitOffset(limit, offset int) string {
	var clause string
	if limit > 0 {
		clause = "LIMIT " + strconv.Itoa(limit)
	}
	if offset > 0 {
		clause += " OFFSET " + strconv.Itoa(offset)
	}
	if clause == "" {
		return ""
	}
	return "\n" + strings.TrimSpace(clause)
}

// ApplySelectLimit appends the LIMIT/OFFSET clause to a SELECT.
func (c Common) ApplySelectLimit(stm string, limit, offset int) string {
	return stm + c.BuildLimitOffset(limit, offset)
}

func (c Common) BuildForUpdate(forUpdate bool) string {
	if !forUpdate {
		return ""
	}
	return "\nFOR UPDATE"
}

func (c Common) BuildReturning(cols []string) string {
	if len(cols) == 0 {
		return ""
	}
	return "\nRETURNING" + IndentCSV(cols)
}

func (c Common) BuildInsertValues(cols, vals []string) string {
	return " (" + IndentCSV(cols) + "\n) VALUES (" + IndentCSV(vals) + "\n)"
}

func (c Common) BuildBulkInsertValues(cols []string, rows [][]string) string {
	vals := make([]string, len(rows))
	for i, row := range rows {
		vals[i] = indent + "(" + strings.Join(row, ", ") + ")"
	}
	return "\n" + indent + "(" + strings.Join(cols, ", ") + ")\nVALUES\n" + strings.Join(vals, ",\n")
}

func (c Common) BuildUpdateSet(assignments []string) string {
	return "\nSET" + IndentCSV(assignments)
}

// BuildOnDuplicateKeyUpdate renders nothing; only dialects with upsert
// support override it.
func (c Common) BuildOnDuplicateKeyUpdate([]string) string {
	return ""
}

func (c Common) LastInsertIDName(string, string) string {
	return ""
}
