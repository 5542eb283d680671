// Package bindvar rewrites :name placeholders into the bind variable style a
// database driver expects.
package bindvar

import (
	"database/sql"
	"fmt"
	"strconv"
	"strings"

	"github.com/anoxia/sqlquery/internal/bind"
)

// Style is a driver's bind variable syntax.
type Style int

const (
	Named    Style = iota // :name, values passed as sql.NamedArg
	Question              // ?
	Dollar                // $1, $2
	AtP                   // @p1, @p2
)

func (s Style) String() string {
	switch s {
	case Named:
		return "named"
	case Question:
		return "question"
	case Dollar:
		return "dollar"
	case AtP:
		return "atp"
	default:
		return "Style(" + strconv.Itoa(int(s)) + ")"
	}
}

// ParseStyle returns the style with the given name.
func ParseStyle(name string) (Style, error) {
	switch strings.ToLower(name) {
	case "named":
		return Named, nil
	case "question", "?":
		return Question, nil
	case "dollar", "$":
		return Dollar, nil
	case "atp", "@p":
		return AtP, nil
	}
	return 0, fmt.Errorf("unknown bind style %q", name)
}

// MissingValueError indicates a placeholder without a bound value.
type MissingValueError struct {
	Name string
}

func (e MissingValueError) Error() string {
	return fmt.Sprintf("no value bound for placeholder :%s", e.Name)
}

// Convert rewrites the placeholders of query in style and returns the
// matching driver arguments. Text inside quoted literals and identifiers is
// left alone, as are "::" casts. Question repeats a value for every
// occurrence of its placeholder; Dollar and AtP number each name once.
func Convert(query string, style Style, values *bind.Values) (string, []any, error) {
	var (
		sb    strings.Builder
		args  []any
		index = make(map[string]int)
	)
	sb.Grow(len(query))

	i := 0
	for i < len(query) {
		c := query[i]
		switch {
		case c == '\'' || c == '"' || c == '`':
			end := skipQuoted(query, i, c)
			sb.WriteString(query[i:end])
			i = end
			continue
		case c != ':':
			sb.WriteByte(c)
			i++
			continue
		}

		if i+1 < len(query) && query[i+1] == ':' {
			sb.WriteString("::")
			i += 2
			continue
		}
		j := i + 1
		for j < len(query) && isNameByte(query[j]) {
			j++
		}
		if j == i+1 {
			sb.WriteByte(c)
			i++
			continue
		}

		name := query[i+1 : j]
		i = j
		value, ok := values.Get(name)
		if !ok {
			return "", nil, MissingValueError{Name: name}
		}

		switch style {
		case Named:
			sb.WriteString(":" + name)
			if _, seen := index[name]; !seen {
				args = append(args, sql.Named(name, value))
				index[name] = len(args)
			}
		case Question:
			sb.WriteByte('?')
			args = append(args, value)
		case Dollar, AtP:
			n, seen := index[name]
			if !seen {
				args = append(args, value)
				n = len(args)
				index[name] = n
			}
			if style == Dollar {
				sb.WriteString("$" + strconv.Itoa(n))
			} else {
				sb.WriteString("@p" + strconv.Itoa(n))
			}
		default:
			return "", nil, fmt.Errorf("unknown bind style %d", int(style))
		}
	}
	return sb.String(), args, nil
}

// skipQuoted returns the offset just past the quoted run opened at
// query[open] and closed by closer. Unterminated runs extend to the end.
func skipQuoted(query string, open int, closer byte) int {
	for j := open + 1; j < len(query); j++ {
		if query[j] != closer {
			continue
		}
		if j+1 < len(query) && query[j+1] == closer {
			j++
			continue
		}
		return j + 1
	}
	return len(query)
}

func isNameByte(c byte) bool {
	return c == '_' || ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z') || ('0' <= c && c <= '9')
}
