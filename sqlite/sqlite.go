// Package sqlite provides the SQLite dialect renderer for sqlquery.
package sqlite

import (
	"github.com/anoxia/sqlquery/internal/bindvar"
	"github.com/anoxia/sqlquery/internal/quote"
	"github.com/anoxia/sqlquery/internal/render"
)

// Renderer implements the SQLite dialect renderer.
type Renderer struct {
	render.Common
}

// New creates a new SQLite renderer.
func New() *Renderer {
	return &Renderer{Common: render.NewCommon("sqlite", quote.New(`"`, `"`), render.Capabilities{})}
}

// Capabilities returns the SQL features supported by SQLite.
// ORDER BY, LIMIT and OFFSET on UPDATE and DELETE need a build with
// SQLITE_ENABLE_UPDATE_DELETE_LIMIT.
func (r *Renderer) Capabilities() render.Capabilities {
	return render.Capabilities{
		ReturningOnInsert: true,
		ReturningOnUpdate: true,
		ReturningOnDelete: true,
		Upsert:            false,
		OrderedUpdate:     true,
		OrderedDelete:     true,
		OffsetOnModify:    true,
		Replace:           render.ReplaceFlag,
		IgnoreFlag:        "OR IGNORE",
		RowLocking:        render.RowLockingNone,
		Placeholder:       bindvar.Named,
	}
}
