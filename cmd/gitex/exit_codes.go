package main

import (
	"errors"
	"os"

	gitex "github.com/alnah/go-gitex"
	"github.com/alnah/go-gitex/internal/config"
	"github.com/alnah/go-gitex/internal/gitremote"
)

// Exit codes for the gitex CLI.
// Follows Unix conventions: 0=success, 1=general, 2=usage, and custom codes < 126.
const (
	ExitSuccess  = 0 // Successful translation
	ExitGeneral  = 1 // General/unexpected error
	ExitUsage    = 2 // Invalid flags, config, or malformed input
	ExitIO       = 3 // File not found, permission denied
	ExitRenderer = 4 // latex/dvipng failures or missing programs
)

// exitCodeFor returns the appropriate exit code for an error.
// It uses errors.Is to check wrapped errors, so callers must use fmt.Errorf("%w", err).
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	// Renderer errors (exit 4)
	if errors.Is(err, gitex.ErrRender) ||
		errors.Is(err, gitex.ErrToolNotFound) ||
		errors.Is(err, gitex.ErrArtifactMissing) {
		return ExitRenderer
	}

	// Usage/config/malformed input (exit 2). Checked before I/O: a missing
	// include or config file is a problem with what the user asked for.
	if errors.Is(err, ErrUsage) ||
		errors.Is(err, config.ErrConfigNotFound) ||
		errors.Is(err, config.ErrConfigParse) ||
		errors.Is(err, config.ErrFieldTooLong) ||
		errors.Is(err, config.ErrInvalidValue) ||
		errors.Is(err, gitex.ErrUnterminatedBlock) ||
		errors.Is(err, gitex.ErrIncludeNotFound) ||
		errors.Is(err, gitex.ErrInvalidOptions) ||
		errors.Is(err, gitex.ErrInvalidImageFolder) ||
		errors.Is(err, gitex.ErrInvalidGitHubRoot) ||
		errors.Is(err, gitex.ErrInvalidAssetPath) ||
		errors.Is(err, gitex.ErrInvalidDefaults) ||
		errors.Is(err, gitex.ErrStyleNotFound) ||
		errors.Is(err, gitremote.ErrNotGitHub) ||
		errors.Is(err, gitremote.ErrNoRemote) ||
		errors.Is(err, gitremote.ErrNoBranch) {
		return ExitUsage
	}

	// I/O errors (exit 3)
	if errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, os.ErrPermission) ||
		errors.Is(err, gitex.ErrManifestLocked) ||
		errors.Is(err, ErrReadInput) ||
		errors.Is(err, ErrWriteOutput) {
		return ExitIO
	}

	return ExitGeneral
}
