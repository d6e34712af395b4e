package markup

import "strings"

// escapedDirectives are the directive words that a doubled backslash keeps
// from being read as block directives.
var escapedDirectives = []string{`\begin`, `\end`, `\include`}

// UnescapeLine removes the escape backslash from \$ and from \\begin,
// \\end and \\include. It must run after all math has been replaced.
func UnescapeLine(line string) string {
	if !strings.Contains(line, `\`) {
		return line
	}

	var b strings.Builder
	b.Grow(len(line))

	for i := 0; i < len(line); i++ {
		if line[i] != '\\' || i+1 >= len(line) {
			b.WriteByte(line[i])
			continue
		}
		if line[i+1] == '$' {
			b.WriteByte('$')
			i++
			continue
		}
		if hasDirectivePrefix(line[i+1:]) {
			// Drop this backslash; the next one opens the directive word.
			continue
		}
		b.WriteByte(line[i])
	}
	return b.String()
}

func hasDirectivePrefix(s string) bool {
	for _, d := range escapedDirectives {
		if strings.HasPrefix(s, d) {
			return true
		}
	}
	return false
}
