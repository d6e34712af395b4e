package markup

import "regexp"

// Block directives must stand alone on their line. Trailing "\n" or "\r\n"
// is absorbed by \s*.
var (
	beginPattern   = regexp.MustCompile(`^\s*\\begin(?:\[(.*)\])?\s*$`)
	endPattern     = regexp.MustCompile(`^\s*\\end\s*$`)
	includePattern = regexp.MustCompile(`^\s*\\include\[(.*)\]\s*$`)
)

// ParseBegin reports whether line is a \begin or \begin[options] directive
// and returns the raw option text.
func ParseBegin(line string) (options string, ok bool) {
	sub := beginPattern.FindStringSubmatch(line)
	if sub == nil {
		return "", false
	}
	return sub[1], true
}

// IsEnd reports whether line is an \end directive.
func IsEnd(line string) bool {
	return endPattern.MatchString(line)
}

// ParseInclude reports whether line is an \include[...] directive and
// returns the raw argument text: a path optionally followed by options.
func ParseInclude(line string) (args string, ok bool) {
	sub := includePattern.FindStringSubmatch(line)
	if sub == nil {
		return "", false
	}
	return sub[1], true
}
