package sqlquery

import (
	"slices"
	"strings"
	"sync"

	"github.com/anoxia/sqlquery/internal/bindvar"
	"github.com/anoxia/sqlquery/internal/quote"
	"github.com/anoxia/sqlquery/internal/render"
	"github.com/anoxia/sqlquery/mariadb"
	"github.com/anoxia/sqlquery/mssql"
	"github.com/anoxia/sqlquery/mysql"
	"github.com/anoxia/sqlquery/postgres"
	"github.com/anoxia/sqlquery/sqlite"
)

// CommonDialect is the name of the dialect-agnostic clause builder.
const CommonDialect = "common"

var (
	dialectsMu sync.RWMutex
	dialects   = make(map[string]Dialect)
)

func init() {
	RegisterDialect(CommonDialect, newCommonDialect(CommonDialect, quote.New(`"`, `"`), bindvar.Named))
	RegisterDialect("mysql", mysql.New())
	RegisterDialect("mariadb", mariadb.New())
	pg := postgres.New()
	RegisterDialect("pgsql", pg)
	RegisterDialect("postgres", pg)
	RegisterDialect("sqlite", sqlite.New())
	ms := mssql.New()
	RegisterDialect("sqlsrv", ms)
	RegisterDialect("mssql", ms)
}

// commonCapabilities are the features the common clause builder renders.
func commonCapabilities(style BindStyle) Capabilities {
	return Capabilities{RowLocking: render.RowLockingBasic, Placeholder: style}
}

func newCommonDialect(name string, q Quoter, style BindStyle) Dialect {
	return render.NewCommon(name, q, commonCapabilities(style))
}

// RegisterDialect registers d under name, replacing any dialect already
// registered there. Names are case-insensitive.
func RegisterDialect(name string, d Dialect) {
	dialectsMu.Lock()
	defer dialectsMu.Unlock()
	dialects[strings.ToLower(name)] = d
}

// LookupDialect returns the dialect registered under name.
func LookupDialect(name string) (Dialect, bool) {
	dialectsMu.RLock()
	defer dialectsMu.RUnlock()
	d, ok := dialects[strings.ToLower(name)]
	return d, ok
}

// ResolveDialect returns the dialect registered under name, or the common
// dialect when there is none.
func ResolveDialect(name string) Dialect {
	if d, ok := LookupDialect(name); ok {
		return d
	}
	d, _ := LookupDialect(CommonDialect)
	return d
}

// Dialects returns the registered dialect names in order.
func Dialects() []string {
	dialectsMu.RLock()
	defer dialectsMu.RUnlock()
	names := make([]string, 0, len(dialects))
	for name := range dialects {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
