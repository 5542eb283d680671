package quote

// span is a piece of SQL text, either a quoted string literal or the text
// between literals.
type span struct {
	text    string
	literal bool
}

// splitLiterals cuts text into literal and non-literal spans. A literal
// opens with ' or " and closes at the next unpaired occurrence of the same
// character; a doubled quote inside a literal is an escape. An unterminated
// quote is plain text. The result always ends with a non-literal span,
// possibly empty.
func splitLiterals(text string) []span {
	var spans []span
	start := 0
	i := 0
	for i < len(text) {
		c := text[i]
		if c != '\'' && c != '"' {
			i++
			continue
		}
		end := closeLiteral(text, i)
		if end < 0 {
			i++
			continue
		}
		spans = append(spans, span{text: text[start:i]}, span{text: text[i:end], literal: true})
		start = end
		i = end
	}
	return append(spans, span{text: text[start:]})
}

// closeLiteral returns the offset just past the literal opened at text[open],
// or -1 when it is never closed.
func closeLiteral(text string, open int) int {
	c := text[open]
	for j := open + 1; j < len(text); j++ {
		if text[j] != c {
			continue
		}
		if j+1 < len(text) && text[j+1] == c {
			j++
			continue
		}
		return j + 1
	}
	return -1
}
