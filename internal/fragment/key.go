package fragment

import (
	"crypto/md5"
	"encoding/hex"
	"strings"
)

// Mode bytes mixed into the key. Display and inline keep the historical
// '1'/'0' split; verbatim modes get their own byte so they never collide
// with wrapped formulas.
const (
	modeByteDisplay  = '1'
	modeByteInline   = '0'
	modeByteHeadless = 'h'
	modeByteNone     = 'n'
)

// artifactPrefix and artifactExt frame the key in artifact file names.
const (
	artifactPrefix = "tex_"
	artifactExt    = ".png"
)

// Key returns the lowercase hex MD5 of the formula, its mode and its sorted
// render options. Identical inputs always produce the same key.
func Key(formula string, mode MathMode, opts Options) string {
	var b strings.Builder
	b.WriteString(formula)
	b.WriteByte(modeByte(mode))
	for _, p := range opts.renderPairs() {
		b.WriteString(p)
	}

	sum := md5.Sum([]byte(b.String()))
	return hex.EncodeToString(sum[:])
}

// ArtifactName returns the PNG file name for a key: tex_<key>.png.
func ArtifactName(key string) string {
	return artifactPrefix + key + artifactExt
}

// KeyFromArtifact extracts the key from an artifact file name.
func KeyFromArtifact(name string) (string, bool) {
	if !strings.HasPrefix(name, artifactPrefix) || !strings.HasSuffix(name, artifactExt) {
		return "", false
	}
	key := strings.TrimSuffix(strings.TrimPrefix(name, artifactPrefix), artifactExt)
	if len(key) != hex.EncodedLen(md5.Size) {
		return "", false
	}
	return key, true
}

func modeByte(m MathMode) byte {
	switch m {
	case ModeDisplay:
		return modeByteDisplay
	case ModeInline:
		return modeByteInline
	case ModeHeadless:
		return modeByteHeadless
	default:
		return modeByteNone
	}
}
