// Package stmtfile reads statements described in YAML documents.
//
// A document lists statements under "statements", each with exactly one
// of select, insert, update or delete:
//
//	dialect: pgsql
//	statements:
//	  - name: adults
//	    select:
//	      cols: [id, u.name AS author]
//	      from: [users AS u]
//	      where:
//	        - and: u.age >= :age
//	          bind: {age: 18}
//	      order_by: [u.name]
//	      page: 2
//
// Mappings whose order reaches the SQL text (values, set, bind) keep the
// order they have in the document.
package stmtfile

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// File is a parsed statement document.
type File struct {
	Dialect    string  `yaml:"dialect"`
	Statements []Entry `yaml:"statements"`
}

// Entry is one named statement.
type Entry struct {
	Name   string      `yaml:"name"`
	Select *SelectSpec `yaml:"select"`
	Insert *InsertSpec `yaml:"insert"`
	Update *UpdateSpec `yaml:"update"`
	Delete *DeleteSpec `yaml:"delete"`
}

// Kind returns the statement kind: select, insert, update or delete.
func (e *Entry) Kind() string {
	switch {
	case e.Select != nil:
		return "select"
	case e.Insert != nil:
		return "insert"
	case e.Update != nil:
		return "update"
	case e.Delete != nil:
		return "delete"
	}
	return ""
}

// ReturnsRows reports whether the statement yields a result set: a SELECT
// or a statement with RETURNING.
func (e *Entry) ReturnsRows() bool {
	switch {
	case e.Select != nil:
		return true
	case e.Insert != nil:
		return len(e.Insert.Returning) > 0
	case e.Update != nil:
		return len(e.Update.Returning) > 0
	case e.Delete != nil:
		return len(e.Delete.Returning) > 0
	}
	return false
}

func (e *Entry) kinds() int {
	n := 0
	for _, set := range []bool{e.Select != nil, e.Insert != nil, e.Update != nil, e.Delete != nil} {
		if set {
			n++
		}
	}
	return n
}

// SelectSpec describes a SELECT.
type SelectSpec struct {
	Distinct  bool        `yaml:"distinct"`
	Flags     []string    `yaml:"flags"`
	Cols      []string    `yaml:"cols"`
	From      []string    `yaml:"from"`
	FromRaw   []string    `yaml:"from_raw"`
	FromSub   []SubSelect `yaml:"from_sub"`
	Joins     []JoinSpec  `yaml:"joins"`
	Where     []Condition `yaml:"where"`
	GroupBy   []string    `yaml:"group_by"`
	Having    []Condition `yaml:"having"`
	OrderBy   []string    `yaml:"order_by"`
	Limit     int         `yaml:"limit"`
	Offset    int         `yaml:"offset"`
	Paging    int         `yaml:"paging"`
	Page      int         `yaml:"page"`
	ForUpdate bool        `yaml:"for_update"`
	Bind      Pairs       `yaml:"bind"`
	Unions    []UnionSpec `yaml:"unions"`
}

// SubSelect is a SELECT used as a derived table.
type SubSelect struct {
	Alias  string     `yaml:"alias"`
	Select SelectSpec `yaml:"select"`
}

// JoinSpec describes a join against a table or, when Select is set, a
// derived table named Alias.
type JoinSpec struct {
	Type   string      `yaml:"type"`
	Table  string      `yaml:"table"`
	Select *SelectSpec `yaml:"select"`
	Alias  string      `yaml:"alias"`
	On     string      `yaml:"on"`
	Bind   Pairs       `yaml:"bind"`
}

// UnionSpec is a SELECT appended with UNION, or UNION ALL when All is set.
type UnionSpec struct {
	All        bool `yaml:"all"`
	SelectSpec `yaml:",inline"`
}

// InsertSpec describes an INSERT.
type InsertSpec struct {
	Into                    string   `yaml:"into"`
	Flags                   []string `yaml:"flags"`
	Cols                    []string `yaml:"cols"`
	Values                  Pairs    `yaml:"values"`
	Set                     Pairs    `yaml:"set"`
	Rows                    []Pairs  `yaml:"rows"`
	Ignore                  bool     `yaml:"ignore"`
	OrReplace               bool     `yaml:"or_replace"`
	OnDuplicateKeyUpdate    Pairs    `yaml:"on_duplicate_key_update"`
	OnDuplicateKeyUpdateSet Pairs    `yaml:"on_duplicate_key_update_set"`
	Returning               []string `yaml:"returning"`
	Bind                    Pairs    `yaml:"bind"`
}

// UpdateSpec describes an UPDATE.
type UpdateSpec struct {
	Table     string      `yaml:"table"`
	Flags     []string    `yaml:"flags"`
	Cols      []string    `yaml:"cols"`
	Values    Pairs       `yaml:"values"`
	Set       Pairs       `yaml:"set"`
	Where     []Condition `yaml:"where"`
	OrderBy   []string    `yaml:"order_by"`
	Limit     int         `yaml:"limit"`
	Offset    int         `yaml:"offset"`
	Returning []string    `yaml:"returning"`
	Bind      Pairs       `yaml:"bind"`
}

// DeleteSpec describes a DELETE.
type DeleteSpec struct {
	From      string      `yaml:"from"`
	Flags     []string    `yaml:"flags"`
	Where     []Condition `yaml:"where"`
	OrderBy   []string    `yaml:"order_by"`
	Limit     int         `yaml:"limit"`
	Offset    int         `yaml:"offset"`
	Returning []string    `yaml:"returning"`
	Bind      Pairs       `yaml:"bind"`
}

// Pair is one entry of an ordered mapping. Value is decoded when the
// statement is built.
type Pair struct {
	Name  string
	Value yaml.Node
}

// Pairs is a YAML mapping kept in document order.
type Pairs []Pair

// UnmarshalYAML implements yaml.Unmarshaler.
func (p *Pairs) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return NewParseError(node, "expected a mapping")
	}
	out := make(Pairs, 0, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		key, val := node.Content[i], node.Content[i+1]
		if key.Kind != yaml.ScalarNode {
			return NewParseError(key, "mapping keys must be scalars")
		}
		out = append(out, Pair{Name: key.Value, Value: *val})
	}
	*p = out
	return nil
}

// Names returns the keys in document order.
func (p Pairs) Names() []string {
	names := make([]string, len(p))
	for i, pair := range p {
		names[i] = pair.Name
	}
	return names
}

// Condition is a WHERE or HAVING entry. It is either a condition text or,
// when Group is set, a parenthesized group of conditions.
//
// In YAML a bare string is an AND condition; a mapping uses an "and" or
// "or" key holding the text or a list of nested conditions, plus an
// optional "bind" mapping.
type Condition struct {
	Or    bool
	Text  string
	Group []Condition
	Bind  Pairs
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (c *Condition) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		*c = Condition{Text: node.Value}
		return nil
	case yaml.MappingNode:
	default:
		return NewParseError(node, "expected a condition string or mapping")
	}

	var out Condition
	seen := false
	for i := 0; i+1 < len(node.Content); i += 2 {
		key, val := node.Content[i], node.Content[i+1]
		switch key.Value {
		case "and", "or":
			if seen {
				return NewParseError(key, "condition has more than one of and/or")
			}
			seen = true
			out.Or = key.Value == "or"
			switch val.Kind {
			case yaml.ScalarNode:
				out.Text = val.Value
			case yaml.SequenceNode:
				if err := val.Decode(&out.Group); err != nil {
					return err
				}
				if len(out.Group) == 0 {
					return NewParseError(val, "condition group is empty")
				}
			default:
				return NewParseError(val, "expected a condition string or list")
			}
		case "bind":
			if err := val.Decode(&out.Bind); err != nil {
				return err
			}
		default:
			return NewParseError(key, fmt.Sprintf("unknown condition key %q", key.Value))
		}
	}
	if !seen {
		return NewParseError(node, "condition needs an and or or key")
	}
	*c = out
	return nil
}

// ParseError reports an invalid document node.
type ParseError struct {
	Line   int
	Column int
	Msg    string
}

// NewParseError creates a ParseError positioned at node.
func NewParseError(node *yaml.Node, msg string) ParseError {
	return ParseError{Line: node.Line, Column: node.Column, Msg: msg}
}

func (e ParseError) Error() string {
	return fmt.Sprintf("line %d, column %d: %s", e.Line, e.Column, e.Msg)
}

// Parse reads a statement document.
func Parse(r io.Reader) (*File, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var f File
	if err := dec.Decode(&f); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("statement file is empty")
		}
		return nil, fmt.Errorf("parse statements: %w", err)
	}
	if len(f.Statements) == 0 {
		return nil, errors.New("statement file lists no statements")
	}
	for i := range f.Statements {
		e := &f.Statements[i]
		if e.kinds() != 1 {
			return nil, fmt.Errorf("statement %d: need exactly one of select, insert, update or delete", i+1)
		}
		if e.Name == "" {
			e.Name = fmt.Sprintf("%s_%d", e.Kind(), i+1)
		}
	}
	return &f, nil
}

// ParseBytes reads a statement document from data.
func ParseBytes(data []byte) (*File, error) {
	return Parse(bytes.NewReader(data))
}

// Load reads the statement document at path.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read statements: %w", err)
	}
	return ParseBytes(data)
}
