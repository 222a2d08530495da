package engine

import "strings"

// SplitStatements splits a SQL script on semicolons into individual
// statements. Semicolons inside string literals, quoted identifiers and
// comments do not split, using the same scan rules as placeholder expansion.
// Trailing semicolons are dropped and whitespace-only statements discarded.
func SplitStatements(script string) []string {
	const (
		stateNormal = iota
		stateSingleQuote
		stateDoubleQuote
		stateBacktick
		stateBracket
		stateLineComment
		stateBlockComment
	)

	var stmts []string
	var b strings.Builder
	state := stateNormal

	flush := func() {
		s := strings.TrimSpace(b.String())
		b.Reset()
		if s != "" {
			stmts = append(stmts, s)
		}
	}

	for i := 0; i < len(script); i++ {
		ch := script[i]

		switch state {
		case stateNormal:
			switch {
			case ch == ';':
				flush()
				continue
			case ch == '\'':
				state = stateSingleQuote
			case ch == '"':
				state = stateDoubleQuote
			case ch == '`':
				state = stateBacktick
			case ch == '[':
				state = stateBracket
			case ch == '-' && i+1 < len(script) && script[i+1] == '-':
				state = stateLineComment
			case ch == '/' && i+1 < len(script) && script[i+1] == '*':
				state = stateBlockComment
			}
		case stateSingleQuote:
			if ch == '\'' {
				if i+1 < len(script) && script[i+1] == '\'' {
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
			if ch == '*' && i+1 < len(script) && script[i+1] == '/' {
				b.WriteByte(ch)
				i++
				ch = '/'
				state = stateNormal
			}
		}

		b.WriteByte(ch)
	}
	flush()

	return stmts
}
