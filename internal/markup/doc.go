// Package markup recognizes gitex markup inside Markdown lines and splices
// replacements back into them.
//
// Recognizers are independent functions, each returning typed matches with
// byte offsets into the scanned line:
//
//   - FindImages: ![alt](url =WxH) image directives
//   - FindDisplayMath: $$...$$ with an optional [k=v,...] suffix
//   - FindInlineMath: $...$ with an optional [k=v,...] suffix
//   - UnescapeLine: \$ and \\begin, \\end, \\include escapes
//   - ParseBegin, IsEnd, ParseInclude: whole-line block directives
//
// A dollar sign preceded by a backslash is escaped and never opens or closes
// a math span. Matches returned by one recognizer are ascending and never
// overlap, so they can be fed straight into ReplaceN.
package markup
