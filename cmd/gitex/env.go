package main

import (
	"io"
	"os"
	"os/exec"
	"time"

	"github.com/mattn/go-isatty"

	gitex "github.com/alnah/go-gitex"
	"github.com/alnah/go-gitex/internal/gitremote"
)

// Environment holds injectable dependencies for testability.
// Includes I/O, time, external programs and the formula renderer.
type Environment struct {
	Now    func() time.Time
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer

	// StderrIsTerminal switches progress output to a single
	// overwritten status line.
	StderrIsTerminal bool

	// Git runs git for GitHub root discovery.
	Git gitremote.GitFunc
	// LookPath finds external programs for doctor; ToolVersion reports
	// their version line and may be nil.
	LookPath    func(string) (string, error)
	ToolVersion func(path string) string

	// Renderer and Measurer replace the TeX toolchain when set.
	Renderer gitex.Renderer
	Measurer gitex.Measurer
}

// DefaultEnv returns the production environment.
func DefaultEnv() *Environment {
	fd := os.Stderr.Fd()
	return &Environment{
		Now:              time.Now,
		Stdin:            os.Stdin,
		Stdout:           os.Stdout,
		Stderr:           os.Stderr,
		StderrIsTerminal: isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd),
		Git:              gitremote.ExecGit,
		LookPath:         exec.LookPath,
		ToolVersion:      toolVersion,
	}
}

// translatorOptions returns the options injected by the environment.
func (e *Environment) translatorOptions() []gitex.Option {
	var opts []gitex.Option
	if e.Renderer != nil {
		opts = append(opts, gitex.WithRenderer(e.Renderer))
	}
	if e.Measurer != nil {
		opts = append(opts, gitex.WithMeasurer(e.Measurer))
	}
	return opts
}
