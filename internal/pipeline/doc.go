// Package pipeline renders a translated Markdown document as a standalone
// HTML preview.
//
// The stages run in order:
//   - Markdown to HTML conversion via Goldmark (raw HTML kept, since formula
//     images are emitted as <img> tags)
//   - image rewriting: relative sources become file:// URLs, raw GitHub
//     links are mapped back to the local checkout, and formula images are
//     tagged with MathClass
//   - CSS injection into the document head
//
// The translation itself lives in the root gitex package; this package only
// deals with presenting its output in a browser before it is pushed.
package pipeline
