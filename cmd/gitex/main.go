package main

import (
	"context"
	"fmt"
	"os"
	"slices"

	"go.uber.org/automaxprocs/maxprocs"
)

// Version is set at build time via ldflags.
var Version = "dev"

func main() {
	args := os.Args[1:]

	// Error ignored: maxprocs.Set only fails if GOMAXPROCS env is invalid,
	// in which case Go runtime defaults apply and the program continues safely.
	if wantsVerbose(args) {
		_, _ = maxprocs.Set(maxprocs.Logger(func(format string, a ...interface{}) {
			fmt.Fprintf(os.Stderr, format+"\n", a...)
		}))
	} else {
		_, _ = maxprocs.Set(maxprocs.Logger(func(string, ...interface{}) {}))
	}

	ctx, stop := notifyContext(context.Background())
	code := run(ctx, args, DefaultEnv())
	stop()
	os.Exit(code)
}

// wantsVerbose reports whether -v or --verbose appears before any "--".
func wantsVerbose(args []string) bool {
	if i := slices.Index(args, "--"); i >= 0 {
		args = args[:i]
	}
	return slices.Contains(args, "-v") || slices.Contains(args, "--verbose")
}

// run dispatches to a command and returns the process exit code.
// A first argument that is not a command name is a translate input.
func run(ctx context.Context, args []string, env *Environment) int {
	warnUnknownEnvVars(env.Stderr)

	if len(args) == 0 {
		printUsage(env.Stderr)
		return ExitUsage
	}

	var err error
	switch args[0] {
	case "translate":
		err = runTranslate(ctx, args[1:], env)
	case "render":
		err = runRender(ctx, args[1:], env)
	case "cache":
		err = runCache(args[1:], env)
	case "doctor":
		return runDoctorCmd(args[1:], env)
	case "completion":
		err = runCompletion(args[1:], env)
	case "version", "--version":
		fmt.Fprintf(env.Stdout, "gitex %s\n", Version)
		return ExitSuccess
	case "help", "-h", "--help":
		return runHelp(args[1:], env)
	default:
		err = runTranslate(ctx, args, env)
	}

	if err != nil {
		fmt.Fprintf(env.Stderr, "gitex: %v\n", err)
	}
	return exitCodeFor(err)
}
