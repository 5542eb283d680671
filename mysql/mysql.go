// Package mysql provides the MySQL dialect renderer for sqlquery.
package mysql

import (
	"strings"

	"github.com/anoxia/sqlquery/internal/bindvar"
	"github.com/anoxia/sqlquery/internal/quote"
	"github.com/anoxia/sqlquery/internal/render"
)

// Renderer implements the MySQL dialect renderer.
type Renderer struct {
	render.Common
}

// New creates a new MySQL renderer.
func New() *Renderer {
	return NewNamed("mysql")
}

// NewNamed creates a MySQL renderer reporting itself under name, for
// servers speaking the MySQL dialect.
func NewNamed(name string) *Renderer {
	return &Renderer{Common: render.NewCommon(name, quote.New("`", "`"), render.Capabilities{})}
}

// Capabilities returns the SQL features supported by MySQL.
func (r *Renderer) Capabilities() render.Capabilities {
	return render.Capabilities{
		ReturningOnInsert: false,
		ReturningOnUpdate: false,
		ReturningOnDelete: false,
		Upsert:            true,
		OrderedUpdate:     true,
		OrderedDelete:     true,
		OffsetOnModify:    false,
		Replace:           render.ReplaceVerb,
		IgnoreFlag:        "IGNORE",
		RowLocking:        render.RowLockingBasic,
		Placeholder:       bindvar.Question,
	}
}

// BuildOnDuplicateKeyUpdate renders the ON DUPLICATE KEY UPDATE clause.
func (r *Renderer) BuildOnDuplicateKeyUpdate(assignments []string) string {
	if len(assignments) == 0 {
		return ""
	}
	values := make([]string, len(assignments))
	for i, a := range assignments {
		values[i] = render.Indent([]string{a})
	}
	return " ON DUPLICATE KEY UPDATE" + strings.Join(values, ",")
}
