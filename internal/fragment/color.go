package fragment

import (
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/image/colornames"
)

// NormalizeColor converts a color to the "rgb r g b" float form dvipng
// expects. "rgb R G B" with 0-255 components and SVG/CSS color names are
// converted; anything else, including dvipng names like "Transparent" or
// values already in float form, is returned unchanged.
func NormalizeColor(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return s
	}

	if c, ok := colornames.Map[strings.ToLower(s)]; ok {
		return rgbFloat(int(c.R), int(c.G), int(c.B))
	}

	fields := strings.Fields(s)
	if len(fields) != 4 || !strings.EqualFold(fields[0], "rgb") {
		return s
	}
	var rgb [3]int
	for i, f := range fields[1:] {
		n, err := strconv.Atoi(f)
		if err != nil || n < 0 || n > 255 {
			return s
		}
		rgb[i] = n
	}
	return rgbFloat(rgb[0], rgb[1], rgb[2])
}

func rgbFloat(r, g, b int) string {
	return fmt.Sprintf("rgb %.3f %.3f %.3f", float64(r)/255, float64(g)/255, float64(b)/255)
}
