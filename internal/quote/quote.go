// Package quote wraps SQL identifiers in dialect-specific quote characters.
package quote

import (
	"regexp"
	"strings"
)

// dottedName matches a table-qualified identifier such as foo.bar or foo.*.
var dottedName = regexp.MustCompile(`(?i)\b([a-z_][a-z0-9_]*)\.([a-z_][a-z0-9_]*\b|\*)`)

// bareName matches a single unquoted identifier.
var bareName = regexp.MustCompile(`(?i)^[a-z_][a-z0-9_]*$`)

// separators are tried in order when splitting an identifier spec.
var separators = []string{" AS ", " ", "."}

// Quoter quotes identifiers with a prefix and suffix.
type Quoter struct {
	Prefix string
	Suffix string
}

// New creates a quoter for the given prefix and suffix.
func New(prefix, suffix string) Quoter {
	return Quoter{Prefix: prefix, Suffix: suffix}
}

// QuoteName quotes an identifier spec of the form "table.col AS alias",
// "table.col alias", "table.col" or "col". A "*" segment is left as is.
func (q Quoter) QuoteName(spec string) string {
	spec = strings.TrimSpace(spec)
	for _, sep := range separators {
		pos := LastIndexFold(spec, sep)
		if pos > 0 {
			left := spec[:pos]
			right := spec[pos+len(sep):]
			return q.QuoteName(left) + sep + q.quoteSingle(right)
		}
	}
	return q.quoteSingle(spec)
}

func (q Quoter) quoteSingle(name string) string {
	name = strings.TrimSpace(name)
	if name == "*" || name == "" {
		return name
	}
	return q.Prefix + name + q.Suffix
}

// QuoteNamesIn quotes the qualified identifiers (foo.bar) found in a SQL
// fragment, plus a trailing "AS alias". Text inside string literals is
// copied untouched. Bare identifiers, keywords and function names are
// left alone.
func (q Quoter) QuoteNamesIn(text string) string {
	spans := splitLiterals(text)
	var sb strings.Builder
	sb.Grow(len(text) + 8)
	last := len(spans) - 1
	for i, s := range spans {
		if s.literal {
			sb.WriteString(s.text)
			continue
		}
		if i == last {
			sb.WriteString(q.replaceNamesAndAlias(s.text))
			continue
		}
		sb.WriteString(q.replaceNames(s.text))
	}
	return sb.String()
}

func (q Quoter) replaceNames(text string) string {
	if q.contains(text) {
		return text
	}
	matches := dottedName.FindAllStringSubmatchIndex(text, -1)
	if len(matches) == 0 {
		return text
	}
	var sb strings.Builder
	prev := 0
	for _, m := range matches {
		// schema-qualified function calls keep their name as written
		if m[1] < len(text) && text[m[1]] == '(' {
			continue
		}
		sb.WriteString(text[prev:m[0]])
		sb.WriteString(q.quoteSingle(text[m[2]:m[3]]))
		sb.WriteByte('.')
		sb.WriteString(q.quoteSingle(text[m[4]:m[5]]))
		prev = m[1]
	}
	sb.WriteString(text[prev:])
	return sb.String()
}

// contains reports whether text already carries quote characters.
func (q Quoter) contains(text string) bool {
	return (q.Prefix != "" && strings.Contains(text, q.Prefix)) ||
		(q.Suffix != "" && strings.Contains(text, q.Suffix))
}

func (q Quoter) replaceNamesAndAlias(text string) string {
	text = q.replaceNames(text)
	pos := LastIndexFold(text, " AS ")
	if pos < 0 {
		return text
	}
	alias := strings.TrimSpace(text[pos+4:])
	if !bareName.MatchString(alias) {
		return text
	}
	return text[:pos] + " AS " + q.quoteSingle(alias)
}

// LastIndexFold is strings.LastIndex with ASCII case folding.
func LastIndexFold(s, substr string) int {
	n := len(substr)
	for i := len(s) - n; i >= 0; i-- {
		if equalFoldASCII(s[i:i+n], substr) {
			return i
		}
	}
	return -1
}

func equalFoldASCII(a, b string) bool {
	for i := 0; i < len(a); i++ {
		ca, cb := a[i], b[i]
		if 'a' <= ca && ca <= 'z' {
			ca -= 'a' - 'A'
		}
		if 'a' <= cb && cb <= 'z' {
			cb -= 'a' - 'A'
		}
		if ca != cb {
			return false
		}
	}
	return true
}
