// Package cond builds the AND/OR condition lists of WHERE and HAVING
// clauses, including nested groups and placeholder rebinding.
package cond

import (
	"fmt"
	"slices"
	"strings"

	"github.com/anoxia/sqlquery/internal/bind"
	"github.com/anoxia/sqlquery/internal/quote"
)

// groupIndent prefixes every line inside a parenthesized group.
const groupIndent = "    "

// Clause selects the condition list being built.
type Clause int

const (
	Where Clause = iota
	Having
)

func (c Clause) String() string {
	switch c {
	case Where:
		return "WHERE"
	case Having:
		return "HAVING"
	default:
		return fmt.Sprintf("Clause(%d)", int(c))
	}
}

// Connective joins a condition to the ones before it.
type Connective string

const (
	And Connective = "AND"
	Or  Connective = "OR"
)

// Subquery is a bind value rendered inline in place of its placeholder.
// Its own bind values are merged into the outer statement.
type Subquery interface {
	Statement() (string, error)
	BindValues() *bind.Values
}

// Builder holds the WHERE and HAVING lists of one statement.
type Builder struct {
	quoter quote.Quoter
	binds  *bind.Values
	where  []string
	having []string
}

// New creates a condition builder writing bind values into binds.
func New(quoter quote.Quoter, binds *bind.Values) *Builder {
	return &Builder{quoter: quoter, binds: binds}
}

func (b *Builder) list(c Clause) *[]string {
	switch c {
	case Where:
		return &b.where
	case Having:
		return &b.having
	default:
		panic(fmt.Sprintf("cond: unknown clause %d", int(c)))
	}
}

// List returns the conditions of a clause, connectives included.
func (b *Builder) List(c Clause) []string {
	return slices.Clone(*b.list(c))
}

// Len returns the number of lines in a clause.
func (b *Builder) Len(c Clause) int {
	return len(*b.list(c))
}

// Reset clears a clause.
func (b *Builder) Reset(c Clause) {
	*b.list(c) = nil
}

// Add appends a condition to a clause. Qualified names in cond are quoted
// and args are bound; subquery values are rendered in place of their
// placeholder. On error nothing changes.
func (b *Builder) Add(c Clause, conn Connective, cond string, args ...map[string]any) error {
	text, err := b.Rebuild(cond, args...)
	if err != nil {
		return err
	}
	b.push(c, conn, text)
	return nil
}

// AddGroup runs fn against an empty view of the clause and appends what it
// added as one parenthesized group. A group that adds nothing leaves the
// clause untouched. args are bound either way.
func (b *Builder) AddGroup(c Clause, conn Connective, fn func(*Group), args ...map[string]any) error {
	list := b.list(c)
	saved := *list
	snapshot := b.binds.Clone()

	*list = nil
	g := &Group{b: b, clause: c}
	fn(g)
	added := *list
	*list = saved

	if g.err != nil {
		b.binds.Replace(snapshot)
		return g.err
	}
	if err := b.bindArgs(args); err != nil {
		b.binds.Replace(snapshot)
		return err
	}
	if len(added) == 0 {
		return nil
	}

	open := "("
	if len(saved) > 0 {
		open = string(conn) + " ("
	}
	grouped := make([]string, 0, len(saved)+len(added)+2)
	grouped = append(grouped, saved...)
	grouped = append(grouped, open)
	for _, line := range added {
		grouped = append(grouped, groupIndent+line)
	}
	*list = append(grouped, ")")
	return nil
}

// Rebuild quotes the qualified names in cond and binds args. A Subquery
// value replaces its :name placeholder with the rendered statement and
// contributes its bind values; any other value is bound under its name.
// The replacement is plain text substitution, so a :name inside a quoted
// literal in cond is replaced too.
func (b *Builder) Rebuild(cond string, args ...map[string]any) (string, error) {
	text := b.quoter.QuoteNamesIn(cond)
	subs := make(map[string]string)
	pending := bind.New()
	for _, m := range args {
		for _, key := range bind.SortedKeys(m) {
			sq, ok := m[key].(Subquery)
			if !ok {
				pending.Set(key, m[key])
				continue
			}
			stm, err := sq.Statement()
			if err != nil {
				return "", fmt.Errorf("rendering subquery for :%s: %w", key, err)
			}
			subs[key] = stm
			pending.Merge(sq.BindValues())
		}
	}
	b.binds.Merge(pending)
	if len(subs) == 0 {
		return text, nil
	}
	return substitute(text, subs), nil
}

// bindArgs binds group arguments without touching any text.
func (b *Builder) bindArgs(args []map[string]any) error {
	pending := bind.New()
	for _, m := range args {
		for _, key := range bind.SortedKeys(m) {
			sq, ok := m[key].(Subquery)
			if !ok {
				pending.Set(key, m[key])
				continue
			}
			if _, err := sq.Statement(); err != nil {
				return fmt.Errorf("rendering subquery for :%s: %w", key, err)
			}
			pending.Merge(sq.BindValues())
		}
	}
	b.binds.Merge(pending)
	return nil
}

func (b *Builder) push(c Clause, conn Connective, text string) {
	list := b.list(c)
	if len(*list) == 0 {
		*list = append(*list, text)
		return
	}
	*list = append(*list, string(conn)+" "+text)
}

// substitute replaces each :name placeholder found in subs. Placeholders
// match whole names only, and "::" casts are skipped.
func substitute(text string, subs map[string]string) string {
	var sb strings.Builder
	i := 0
	for i < len(text) {
		c := text[i]
		if c != ':' {
			sb.WriteByte(c)
			i++
			continue
		}
		if i+1 < len(text) && text[i+1] == ':' {
			sb.WriteString("::")
			i += 2
			continue
		}
		j := i + 1
		for j < len(text) && isNameByte(text[j]) {
			j++
		}
		if repl, ok := subs[text[i+1:j]]; ok && j > i+1 {
			sb.WriteString(repl)
		} else {
			sb.WriteString(text[i:j])
		}
		i = j
	}
	return sb.String()
}

func isNameByte(c byte) bool {
	return c == '_' || ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z') || ('0' <= c && c <= '9')
}
