package main

import (
	"fmt"
	"io"
	"time"

	gitex "github.com/alnah/go-gitex"
)

// clearLine returns the cursor to column 0 and erases the line.
const clearLine = "\r\033[K"

// reporter prints translation progress to stderr.
// On a terminal, verbose progress is one status line rewritten in place;
// otherwise every event gets its own line.
type reporter struct {
	w       io.Writer
	quiet   bool
	verbose bool
	tty     bool

	// status is true while a status line awaits clearing.
	status bool
}

func newReporter(env *Environment, flags commonFlags) *reporter {
	return &reporter{
		w:       env.Stderr,
		quiet:   flags.quiet,
		verbose: flags.verbose,
		tty:     env.StderrIsTerminal,
	}
}

// Event handles a translator event.
func (r *reporter) Event(e gitex.Event) {
	switch {
	case e.Kind == gitex.EventNotice:
		if !r.quiet {
			r.line("note: " + e.Message)
		}
	case !r.verbose:
		return
	case e.Kind == gitex.EventFolderCreated:
		r.line("created image folder " + e.Path)
	case r.tty:
		fmt.Fprintf(r.w, "%sline %d: %s %s", clearLine, e.Line, e.Kind, e.Path)
		r.status = true
	default:
		fmt.Fprintf(r.w, "line %d: %s %s\n", e.Line, e.Kind, e.Path)
	}
}

// Done prints the summary of a finished translation.
func (r *reporter) Done(output string, res *gitex.Result, elapsed time.Duration) {
	r.clear()
	if r.quiet {
		return
	}

	fmt.Fprintf(r.w, "Wrote %s: %d formula(s), %d rendered, %d cached", output, res.Formulas, res.Rendered, res.Cached)
	if res.Images > 0 {
		fmt.Fprintf(r.w, ", %d image link(s)", res.Images)
	}
	if r.verbose {
		fmt.Fprintf(r.w, " (%v)", elapsed.Round(time.Millisecond))
	}
	fmt.Fprintln(r.w)
}

// Fail clears any pending status line before an error is printed.
func (r *reporter) Fail() {
	r.clear()
}

func (r *reporter) line(s string) {
	r.clear()
	fmt.Fprintln(r.w, s)
}

func (r *reporter) clear() {
	if r.status {
		fmt.Fprint(r.w, clearLine)
		r.status = false
	}
}
