package gitex

import (
	"strconv"
	"strings"

	"golang.org/x/net/html"
)

// imgTag builds the HTML image markup written in place of a formula or a
// sized image directive. Zero dimensions are omitted.
func imgTag(src, alt string, width, height int) string {
	var b strings.Builder
	b.WriteString(`<img src="`)
	b.WriteString(attrEscape(src))
	b.WriteString(`" alt="`)
	b.WriteString(attrEscape(alt))
	b.WriteByte('"')
	if width > 0 {
		b.WriteString(` width="` + strconv.Itoa(width) + `"`)
	}
	if height > 0 {
		b.WriteString(` height="` + strconv.Itoa(height) + `"`)
	}
	b.WriteString(" />")
	return b.String()
}

// attrEscape escapes s for a double-quoted attribute. Dollars are encoded
// too, so later math passes over the same line never see them.
func attrEscape(s string) string {
	return strings.ReplaceAll(html.EscapeString(s), "$", "&#36;")
}

// altText flattens a formula to one line of alt text.
func altText(formula string) string {
	return strings.Join(strings.Fields(formula), " ")
}
