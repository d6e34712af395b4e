// Package hints provides actionable error hints for common failure scenarios.
// Hints are formatted consistently as "\n  hint: <text>" for appending to error messages.
package hints

import (
	"strings"

	"github.com/alnah/go-gitex/internal/fileutil"
)

// IsInContainer detects if running inside a Docker container or similar.
// Checks for /.dockerenv file which Docker creates automatically.
var IsInContainer = func() bool {
	return fileutil.FileExists("/.dockerenv")
}

// toolPackages maps an external tool to the package that usually ships it.
var toolPackages = map[string]string{
	"latex":   "texlive-latex-base",
	"dvipng":  "dvipng",
	"optipng": "optipng",
	"git":     "git",
}

// ForMissingTool returns hints for an external program that is not on PATH.
func ForMissingTool(tool string) string {
	var hints []string

	if pkg, ok := toolPackages[tool]; ok && IsInContainer() {
		hints = append(hints, "apt-get install "+pkg)
	} else {
		hints = append(hints, "install a TeX distribution providing "+tool+" (TeX Live, MiKTeX)")
	}
	hints = append(hints, "or point to it with --"+tool+" /path/to/"+tool)

	return formatHints(hints)
}

// ForConfigNotFound returns hints for config file not found errors.
// Suggests --config flag and creating a config in ~/.config/gitex/.
func ForConfigNotFound(searchedPaths []string) string {
	hint := "use --config /path/to/file.yaml"

	for _, p := range searchedPaths {
		if strings.Contains(p, ".config/gitex") {
			hint += " or create " + p
			break
		}
	}

	return format(hint)
}

// ForOutputDirectory returns hints for output directory creation errors.
func ForOutputDirectory() string {
	return format("check parent directory exists and is writable")
}

// ForStyleNotFound returns hints for preview style not found errors.
func ForStyleNotFound(available []string) string {
	if len(available) == 0 {
		return ""
	}
	return format("available: " + strings.Join(available, ", "))
}

// ForUnterminatedBlock returns hints for a \begin without matching \end.
func ForUnterminatedBlock() string {
	return format(`close the block with a line containing only \end, or write \\begin for a literal`)
}

// ForInvalidOptions returns hints for malformed [k=v] option suffixes.
func ForInvalidOptions() string {
	return format("separate options with ',' and package names with ';' (packages=bm;mathtools)")
}

// ForGitHubRoot returns hints when raw GitHub links were requested but no
// root could be determined.
func ForGitHubRoot() string {
	return format("pass --github-root <user>/<repo>/<branch> or run inside a clone with a github.com remote")
}

// format creates a single hint string with consistent formatting.
func format(hint string) string {
	if hint == "" {
		return ""
	}
	return "\n  hint: " + hint
}

// formatHints joins multiple hints with consistent formatting.
func formatHints(hints []string) string {
	if len(hints) == 0 {
		return ""
	}
	return format(strings.Join(hints, "; "))
}
