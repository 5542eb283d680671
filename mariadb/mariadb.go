// Package mariadb provides the MariaDB dialect renderer for sqlquery.
package mariadb

import (
	"github.com/anoxia/sqlquery/internal/render"
	"github.com/anoxia/sqlquery/mysql"
)

// Renderer implements the MariaDB dialect renderer. It speaks MySQL plus
// RETURNING on INSERT and DELETE.
type Renderer struct {
	*mysql.Renderer
}

// New creates a new MariaDB renderer.
func New() *Renderer {
	return &Renderer{Renderer: mysql.NewNamed("mariadb")}
}

// Capabilities returns the SQL features supported by MariaDB.
func (r *Renderer) Capabilities() render.Capabilities {
	caps := r.Renderer.Capabilities()
	caps.ReturningOnInsert = true
	caps.ReturningOnDelete = true
	return caps
}
