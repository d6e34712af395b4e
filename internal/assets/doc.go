// Package assets provides the LaTeX document templates used to render
// formulas and the CSS styles used by the HTML preview.
//
// # Loader Architecture
//
// The package implements a layered loading system:
//
//	AssetLoader (interface)
//	    │
//	    ├── EmbeddedLoader    - loads from go:embed filesystem (defaults)
//	    ├── FilesystemLoader  - loads from custom directory on disk
//	    └── AssetResolver     - combines both with custom-first fallback
//
// AssetResolver tries the custom FilesystemLoader first and falls back to
// EmbeddedLoader when the asset is not found, so a user can override the
// display template while keeping the embedded inline one.
//
// # Directory Structure
//
//	{basePath}/
//	├── styles/
//	│   └── {name}.css           # preview styles (e.g., default.css)
//	└── templates/
//	    ├── inline.tex           # $...$ wrapper
//	    └── display.tex          # $$...$$ wrapper
//
// Templates are parsed with text/template using << and >> as delimiters,
// since LaTeX itself is full of braces. They receive .Formula and
// .Packages.
//
// # Security
//
// Asset names are validated to prevent path traversal attacks.
// FilesystemLoader resolves symlinks and verifies paths stay within basePath.
package assets
