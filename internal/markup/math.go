package markup

import "strings"

// MathMatch is a math span found on a line.
type MathMatch struct {
	Span
	// Formula is the text between the delimiters, untrimmed.
	Formula string
	// Options is the raw text inside a trailing [...] suffix, without brackets.
	Options string
	// HasOptions reports whether a suffix was present, even an empty one.
	HasOptions bool
}

// FindDisplayMath returns every $$...$$ span on line. The body must be
// non-empty, contain no '$', and neither delimiter may be escaped.
func FindDisplayMath(line string) []MathMatch {
	return findMath(line, "$$")
}

// FindInlineMath returns every $...$ span on line. Run it after display
// math has been replaced, otherwise "$$x$$" yields "$x$" at offset 1.
func FindInlineMath(line string) []MathMatch {
	return findMath(line, "$")
}

func findMath(line, delim string) []MathMatch {
	var matches []MathMatch

	i := 0
	for i < len(line) {
		if !strings.HasPrefix(line[i:], delim) || escaped(line, i) {
			i++
			continue
		}

		body := i + len(delim)
		n := strings.IndexByte(line[body:], '$')
		if n < 0 {
			break
		}
		end := body + n
		if n == 0 || escaped(line, end) || !strings.HasPrefix(line[end:], delim) {
			i++
			continue
		}

		m := MathMatch{
			Span:    Span{Start: i, End: end + len(delim)},
			Formula: line[body:end],
		}
		m.End, m.Options, m.HasOptions = optionSuffix(line, m.End)
		matches = append(matches, m)
		i = m.End
	}
	return matches
}

// optionSuffix looks for "[...]" starting exactly at pos. Brackets holding
// text without any '=' are prose, such as a link after the formula.
func optionSuffix(line string, pos int) (end int, opts string, ok bool) {
	if pos >= len(line) || line[pos] != '[' {
		return pos, "", false
	}
	n := strings.IndexByte(line[pos+1:], ']')
	if n < 0 {
		return pos, "", false
	}
	opts = line[pos+1 : pos+1+n]
	if strings.TrimSpace(opts) != "" && !strings.Contains(opts, "=") {
		return pos, "", false
	}
	return pos + 1 + n + 1, opts, true
}

// escaped reports whether the byte at i is preceded by a backslash.
func escaped(line string, i int) bool {
	return i > 0 && line[i-1] == '\\'
}
