package gitex

import (
	"errors"

	"github.com/alnah/go-gitex/internal/assets"
	"github.com/alnah/go-gitex/internal/fragment"
	"github.com/alnah/go-gitex/internal/latex"
	"github.com/alnah/go-gitex/internal/manifest"
)

// Sentinel errors for translation.
var (
	// Malformed input.
	ErrUnterminatedBlock = errors.New("unterminated block")
	ErrIncludeNotFound   = errors.New("include file not found")
	ErrNoSource          = errors.New("no source document")

	// ErrArtifactMissing means the renderer returned without error but the
	// image it was asked for does not exist.
	ErrArtifactMissing = errors.New("rendered image is missing")

	// Translator configuration.
	ErrInvalidImageFolder = errors.New("invalid image folder")
	ErrInvalidGitHubRoot  = errors.New("invalid GitHub root")
	ErrInvalidAssetPath   = errors.New("invalid asset path")
	ErrInvalidDefaults    = errors.New("invalid default options")
)

// Errors raised by internal stages, re-exported for errors.Is.
var (
	ErrInvalidOptions = fragment.ErrInvalidOptions
	ErrRender         = latex.ErrRender
	ErrToolNotFound   = latex.ErrToolNotFound
	ErrStyleNotFound  = assets.ErrStyleNotFound
	ErrManifestLocked = manifest.ErrLocked
)
