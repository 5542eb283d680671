// Package postgres provides the PostgreSQL dialect renderer for sqlquery.
package postgres

import (
	"github.com/anoxia/sqlquery/internal/bindvar"
	"github.com/anoxia/sqlquery/internal/quote"
	"github.com/anoxia/sqlquery/internal/render"
)

// Renderer implements the PostgreSQL dialect renderer.
type Renderer struct {
	render.Common
}

// New creates a new PostgreSQL renderer.
func New() *Renderer {
	return &Renderer{Common: render.NewCommon("pgsql", quote.New(`"`, `"`), render.Capabilities{})}
}

// Capabilities returns the SQL features supported by PostgreSQL.
func (r *Renderer) Capabilities() render.Capabilities {
	return render.Capabilities{
		ReturningOnInsert: true,
		ReturningOnUpdate: true,
		ReturningOnDelete: true,
		Upsert:            false,
		OrderedUpdate:     false,
		OrderedDelete:     false,
		OffsetOnModify:    false,
		Replace:           render.ReplaceNone,
		RowLocking:        render.RowLockingBasic,
		Placeholder:       bindvar.Dollar,
	}
}

// LastInsertIDName returns the implicit sequence of a serial column.
func (r *Renderer) LastInsertIDName(table, col string) string {
	return table + "_" + col + "_seq"
}
