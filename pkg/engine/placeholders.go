package engine

import "strings"

// ExpandPlaceholders rewrites each uniform `?` marker in query with the text
// produced by marker, which receives the 1-based parameter index. Markers
// inside single-quoted string literals (with '' escaping), double-quoted or
// bracket-quoted identifiers, backtick-quoted identifiers, line comments
// (`--`) and block comments are left untouched.
//
// The scan is a single deterministic pass, so translation is a pure function
// of the query text.
func ExpandPlaceholders(query string, marker func(n int) string) string {
	var b strings.Builder
	b.Grow(len(query) + 8)

	const (
		stateNormal = iota
		stateSingleQuote
		stateDoubleQuote
		stateBacktick
		stateBracket
		stateLineComment
		stateBlockComment
	)

	state := stateNormal
	n := 0

	for i := 0; i < len(query); i++ {
		ch := query[i]

		switch state {
		case stateNormal:
			switch {
			case ch == '?':
				n++
				b.WriteString(marker(n))
				continue
			case ch == '\'':
				state = stateSingleQuote
			case ch == '"':
				state = stateDoubleQuote
			case ch == '`':
				state = stateBacktick
			case ch == '[':
				state = stateBracket
			case ch == '-' && i+1 < len(query) && query[i+1] == '-':
				state = stateLineComment
			case ch == '/' && i+1 < len(query) && query[i+1] == '*':
				state = stateBlockComment
			}
		case stateSingleQuote:
			if ch == '\'' {
				// A doubled quote is an escaped quote, not a terminator.
				if i+1 < len(query) && query[i+1] == '\'' {
					b.WriteByte(ch)
					i++
				} else {
					state = stateNormal
				}
			}
		case stateDoubleQuote:
			if ch == '"' {
				state = stateNormal
			}
		case stateBacktick:
			if ch == '`' {
				state = stateNormal
			}
		case stateBracket:
			if ch == ']' {
				state = stateNormal
			}
		case stateLineComment:
			if ch == '\n' {
				state = stateNormal
			}
		case stateBlockComment:
			if ch == '*' && i+1 < len(query) && query[i+1] == '/' {
				b.WriteByte(ch)
				i++
				ch = '/'
				state = stateNormal
			}
		}

		b.WriteByte(ch)
	}

	return b.String()
}
