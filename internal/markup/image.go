package markup

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	// imagePattern matches ![alt](target). Alt cannot contain ']' or ')'.
	imagePattern = regexp.MustCompile(`!\[([^\])]*)\]\(([^)]+)\)`)

	// sizeSuffixPattern splits "url =WxH" into url, width and height.
	// Either dimension may be omitted.
	sizeSuffixPattern = regexp.MustCompile(`^(.*?)\s+=\s*(\d*)\s*x\s*(\d*)\s*$`)
)

// ImageMatch is an image directive found on a line.
type ImageMatch struct {
	Span
	Alt string
	URL string
	// Width and Height are zero when not given.
	Width  int
	Height int
	// Sized reports whether the directive carried a "=WxH" suffix.
	Sized bool
}

// HasSize reports whether at least one explicit dimension was given.
func (m ImageMatch) HasSize() bool {
	return m.Width > 0 || m.Height > 0
}

// FindImages returns every image directive on line, in order.
func FindImages(line string) []ImageMatch {
	locs := imagePattern.FindAllStringSubmatchIndex(line, -1)
	if len(locs) == 0 {
		return nil
	}

	matches := make([]ImageMatch, 0, len(locs))
	for _, loc := range locs {
		m := ImageMatch{
			Span: Span{Start: loc[0], End: loc[1]},
			Alt:  line[loc[2]:loc[3]],
		}
		m.URL, m.Width, m.Height, m.Sized = parseImageTarget(line[loc[4]:loc[5]])
		matches = append(matches, m)
	}
	return matches
}

// parseImageTarget splits the parenthesized part of an image directive.
func parseImageTarget(target string) (url string, width, height int, sized bool) {
	target = strings.TrimSpace(target)
	sub := sizeSuffixPattern.FindStringSubmatch(target)
	if sub == nil {
		return target, 0, 0, false
	}
	// Digits only, so Atoi can only fail on overflow. An oversized
	// dimension leaves the whole target as the URL.
	var err error
	if width, err = atoiOrZero(sub[2]); err != nil {
		return target, 0, 0, false
	}
	if height, err = atoiOrZero(sub[3]); err != nil {
		return target, 0, 0, false
	}
	return strings.TrimSpace(sub[1]), width, height, true
}

func atoiOrZero(s string) (int, error) {
	if s == "" {
		return 0, nil
	}
	return strconv.Atoi(s)
}
