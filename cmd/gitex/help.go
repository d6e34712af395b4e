package main

import (
	"fmt"
	"io"

	gitex "github.com/alnah/go-gitex"
	"github.com/alnah/go-gitex/internal/config"
)

// printUsage prints the main usage message.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: gitex [command] [flags] [args]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  translate  Replace LaTeX in a Markdown file with rendered images (default)")
	fmt.Fprintln(w, "  render     Render one formula to a PNG file")
	fmt.Fprintln(w, "  cache      List or prune the render manifest")
	fmt.Fprintln(w, "  doctor     Check external programs and the environment")
	fmt.Fprintln(w, "  completion Generate shell completion script")
	fmt.Fprintln(w, "  version    Show version information")
	fmt.Fprintln(w, "  help       Show help for a command (\"help config\" prints the config schema)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run 'gitex help <command>' for details on a specific command.")
}

// printTranslateUsage prints usage for the translate command.
func printTranslateUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: gitex [translate] <input> [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Replace $inline$, $$display$$, \\begin...\\end blocks and \\include[file]")
	fmt.Fprintln(w, "directives with images rendered by latex and dvipng.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Arguments:")
	fmt.Fprintln(w, "  input    Markdown source (\"-\" or omitted = stdin, or config input)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Input/Output:")
	fmt.Fprintln(w, "  -o, --output <path>       Output file (\"-\" or omitted = stdout)")
	fmt.Fprintln(w, "  -c, --config <name>       Config file name or path")
	fmt.Fprintln(w, "      --manifest <path>     Record images in a manifest database")
	fmt.Fprintln(w, "      --asset-path <dir>    Custom templates and styles")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Images:")
	fmt.Fprintln(w, "  -i, --image-folder <dir>  Image folder relative to the output")
	fmt.Fprintln(w, "  -r, --redraw              Re-render images that already exist")
	fmt.Fprintln(w)
	printRenderFlagUsage(w)
	fmt.Fprintln(w)
	fmt.Fprintln(w, "GitHub:")
	fmt.Fprintln(w, "  -g, --github-root <root>  Link images as raw GitHub URLs under <user>/<repo>/<branch>")
	fmt.Fprintln(w, "      --github-auto         Derive the root from git remote and branch")
	fmt.Fprintln(w, "      --remote <name>       Remote used by --github-auto (default origin)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Preview:")
	fmt.Fprintln(w, "      --preview             Also write an HTML preview")
	fmt.Fprintln(w, "      --preview-output <p>  Preview path (default: output with .html)")
	fmt.Fprintf(w, "      --style <name>        Preview style: %v\n", gitex.StyleNames())
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Output Control:")
	fmt.Fprintln(w, "  -q, --quiet               Only show errors")
	fmt.Fprintln(w, "  -v, --verbose             Report every formula")
}

// printRenderFlagUsage prints the rendering flag group.
func printRenderFlagUsage(w io.Writer) {
	fmt.Fprintln(w, "Rendering:")
	fmt.Fprintln(w, "      --dpi <n>             Resolution (default 300)")
	fmt.Fprintln(w, "      --packages <list>     Extra LaTeX packages, comma separated")
	fmt.Fprintln(w, "      --fg <color>          Foreground: name, \"rgb R G B\" (0-255) or raw dvipng color")
	fmt.Fprintln(w, "      --bg <color>          Background: name, \"rgb R G B\" (0-255) or raw dvipng color")
	fmt.Fprintln(w, "      --optimize            Run optipng on new images")
	fmt.Fprintln(w, "      --latex <path>        latex program")
	fmt.Fprintln(w, "      --dvipng <path>       dvipng program")
	fmt.Fprintln(w, "      --optipng <path>      optipng program")
}

// printRenderUsage prints usage for the render command.
func printRenderUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: gitex render <formula> [output] [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Render one formula to a PNG file (\"-\" reads the formula from stdin).")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  -o, --output <path>       PNG file (default formula.png)")
	fmt.Fprintln(w, "  -d, --display             Display style instead of inline")
	fmt.Fprintln(w, "  -c, --config <name>       Config file name or path")
	fmt.Fprintln(w)
	printRenderFlagUsage(w)
}

// printCacheUsage prints usage for the cache command.
func printCacheUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: gitex cache <list|prune> [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Inspect the render manifest.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  list                      Show every recorded image")
	fmt.Fprintln(w, "  prune                     Drop entries whose image no longer exists")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "      --manifest <path>     Manifest database (default: config manifest.path)")
	fmt.Fprintln(w, "      --older-than <dur>    With prune, also drop entries older than dur (e.g. 720h)")
	fmt.Fprintln(w, "      --json                With list, print JSON")
	fmt.Fprintln(w, "      --date-format <fmt>   With list, render time format: iso, datetime, european,")
	fmt.Fprintln(w, "                            us, long or tokens like \"DD/MM/YYYY HH:mm\" (default iso)")
	fmt.Fprintln(w, "  -c, --config <name>       Config file name or path")
}

// printDoctorUsage prints usage for the doctor command.
func printDoctorUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: gitex doctor [--json]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Check latex, dvipng, optipng and git, and that scratch directories can be created.")
}

// printConfigHelp prints the configuration file schema with its defaults.
func printConfigHelp(w io.Writer) error {
	data, err := config.Marshal(config.DefaultConfig())
	if err != nil {
		return err
	}
	fmt.Fprintln(w, "Configuration file (gitex.yaml), shown with defaults:")
	fmt.Fprintln(w)
	_, err = w.Write(data)
	return err
}

// runHelp prints help for a specific command.
func runHelp(args []string, env *Environment) int {
	if len(args) == 0 {
		printUsage(env.Stdout)
		return ExitSuccess
	}

	switch args[0] {
	case "translate":
		printTranslateUsage(env.Stdout)
	case "render":
		printRenderUsage(env.Stdout)
	case "cache":
		printCacheUsage(env.Stdout)
	case "doctor":
		printDoctorUsage(env.Stdout)
	case "completion":
		printCompletionUsage(env.Stdout)
	case "config":
		if err := printConfigHelp(env.Stdout); err != nil {
			fmt.Fprintf(env.Stderr, "gitex: %v\n", err)
			return ExitGeneral
		}
	case "version":
		fmt.Fprintln(env.Stdout, "Usage: gitex version")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show version information.")
	case "help":
		fmt.Fprintln(env.Stdout, "Usage: gitex help [command]")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show help for a command.")
	default:
		fmt.Fprintf(env.Stderr, "Unknown command: %s\n", args[0])
		printUsage(env.Stderr)
		return ExitUsage
	}
	return ExitSuccess
}
