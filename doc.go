// Package gitex translates Markdown with embedded LaTeX into Markdown that
// static viewers such as GitHub display as-is.
//
// # Quick Start
//
// Create a translator, translate a file, and close when done:
//
//	tr, err := gitex.New(gitex.WithImageFolder("img"))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer tr.Close()
//
//	res, err := tr.TranslateFile(ctx, "README.src.md", "README.md")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(res.Rendered, "formulas rendered")
//
// # Source Syntax
//
// Every line is scanned for, in this order:
//
//  1. image directives ![alt](url =WxH), where either dimension may be
//     omitted
//  2. display math $$...$$
//  3. inline math $...$
//  4. escapes: \$ for a literal dollar, \\begin, \\end and \\include for
//     literal directive words
//
// Math may carry per-formula options in a trailing [key=value,...] suffix.
// Two directives must stand alone on their line:
//
//	\begin[math_mode=display, dpi=200]
//	\sum_{i=1}^n i
//	  = \frac{n(n+1)}{2}
//	\end
//
//	\include[figures/diagram.tex, packages=tikz]
//
// Blocks and includes default to math_mode=none: the body is compiled as a
// complete LaTeX document.
//
// # Caching
//
// Each formula is rendered to <image folder>/tex_<key>.png, where the key
// digests the formula, its math mode and its render options. An existing
// file is reused unless WithRedraw is set, so a second run over an
// unchanged document invokes no external program. WithManifestPath adds a
// bbolt database recording what each image contains.
//
// # Rendering
//
// The default renderer runs latex and dvipng (and optipng when optimize is
// set) in a scratch directory that is removed on every path. Replace it
// with WithRenderer, for instance to render remotely or in tests.
package gitex
