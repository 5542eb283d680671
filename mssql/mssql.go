// Package mssql provides the SQL Server dialect renderer for sqlquery.
package mssql

import (
	"regexp"
	"strconv"

	"github.com/anoxia/sqlquery/internal/bindvar"
	"github.com/anoxia/sqlquery/internal/quote"
	"github.com/anoxia/sqlquery/internal/render"
)

// selectHead matches the keyword TOP is inserted after.
var selectHead = regexp.MustCompile(`^(SELECT( DISTINCT)?)`)

// Renderer implements the SQL Server dialect renderer.
type Renderer struct {
	render.Common
}

// New creates a new SQL Server renderer.
func New() *Renderer {
	return &Renderer{Common: render.NewCommon("sqlsrv", quote.New("[", "]"), render.Capabilities{})}
}

// Capabilities returns the SQL features supported by SQL Server.
func (r *Renderer) Capabilities() render.Capabilities {
	return render.Capabilities{
		ReturningOnInsert: false,
		ReturningOnUpdate: false,
		ReturningOnDelete: false,
		Upsert:            false,
		OrderedUpdate:     false,
		OrderedDelete:     false,
		OffsetOnModify:    false,
		Replace:           render.ReplaceNone,
		RowLocking:        render.RowLockingNone,
		Placeholder:       bindvar.AtP,
	}
}

// ApplySelectLimit uses TOP for a bare limit and OFFSET ... FETCH when an
// offset is present. OFFSET needs an ORDER BY in the statement.
func (r *Renderer) ApplySelectLimit(stm string, limit, offset int) string {
	switch {
	case limit <= 0 && offset <= 0:
		return stm
	case offset <= 0:
		return selectHead.ReplaceAllString(stm, "${1} TOP "+strconv.Itoa(limit))
	case limit <= 0:
		return stm + "\nOFFSET " + strconv.Itoa(offset) + " ROWS"
	}
	return stm + "\nOFFSET " + strconv.Itoa(offset) + " ROWS FETCH NEXT " + strconv.Itoa(limit) + " ROWS ONLY"
}
