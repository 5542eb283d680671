package render

import "fmt"

// UnsupportedFeatureError indicates a feature not supported by the dialect.
type UnsupportedFeatureError struct {
	Feature string
	Dialect string
	Hint    string
}

func (e UnsupportedFeatureError) Error() string {
	if e.Hint != "" {
		return fmt.Sprintf("%s: %s is not supported: %s", e.Dialect, e.Feature, e.Hint)
	}
	return fmt.Sprintf("%s: %s is not supported", e.Dialect, e.Feature)
}

// NewUnsupportedFeatureError creates a new unsupported feature error.
func NewUnsupportedFeatureError(dialect, feature string, hint ...string) error {
	err := UnsupportedFeatureError{Feature: feature, Dialect: dialect}
	if len(hint) > 0 {
		err.Hint = hint[0]
	}
	return err
}

// EmptyProjectionError indicates a SELECT rendered without any columns.
type EmptyProjectionError struct{}

func (EmptyProjectionError) Error() string {
	return "no columns in the SELECT"
}

// DuplicateTableReferenceError indicates a FROM or JOIN target whose
// effective name is already in use.
type DuplicateTableReferenceError struct {
	Ref   string // the rejected reference, e.g. "INNER JOIN b AS a"
	Prior string // the reference already holding the name, e.g. "FROM a"
}

func (e DuplicateTableReferenceError) Error() string {
	return fmt.Sprintf("cannot reference '%s' after '%s'", e.Ref, e.Prior)
}

// NewDuplicateTableReferenceError creates a new duplicate table reference error.
func NewDuplicateTableReferenceError(ref, prior string) error {
	return DuplicateTableReferenceError{Ref: ref, Prior: prior}
}

// MissingBulkColumnError indicates a bulk insert row lacking one of the
// columns fixed by the first row.
type MissingBulkColumnError struct {
	Column string
	Row    int
}

func (e MissingBulkColumnError) Error() string {
	return fmt.Sprintf("column %s missing from row %d", e.Column, e.Row)
}

// NewMissingBulkColumnError creates a new missing bulk column error.
func NewMissingBulkColumnError(column string, row int) error {
	return MissingBulkColumnError{Column: column, Row: row}
}
