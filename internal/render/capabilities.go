package render

import "github.com/anoxia/sqlquery/internal/bindvar"

// RowLockingLevel indicates the level of row-level locking support.
type RowLockingLevel int

const (
	RowLockingNone  RowLockingLevel = iota // No row locking
	RowLockingBasic                        // FOR UPDATE
)

// ReplaceStyle indicates how a dialect spells INSERT-or-replace.
type ReplaceStyle int

const (
	ReplaceNone ReplaceStyle = iota
	ReplaceVerb              // REPLACE INTO
	ReplaceFlag              // INSERT OR REPLACE INTO
)

// Capabilities describes the optional SQL features supported by a dialect.
type Capabilities struct {
	ReturningOnInsert bool            // INSERT ... RETURNING
	ReturningOnUpdate bool            // UPDATE ... RETURNING
	ReturningOnDelete bool            // DELETE ... RETURNING
	Upsert            bool            // ON DUPLICATE KEY UPDATE
	OrderedUpdate     bool            // ORDER BY / LIMIT on UPDATE
	OrderedDelete     bool            // ORDER BY / LIMIT on DELETE
	OffsetOnModify    bool            // OFFSET on UPDATE / DELETE
	Replace           ReplaceStyle    // INSERT-or-replace spelling
	IgnoreFlag        string          // flag making INSERT skip conflicts
	RowLocking        RowLockingLevel // FOR UPDATE support
	Placeholder       bindvar.Style   // driver bind variable style
}
