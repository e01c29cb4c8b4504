// Package pipeline implements the bracket markup to HTML conversion pipeline.
//
// The package has two halves:
//   - Converter: escapes the source once, fences code blocks, then applies a
//     fixed sequence of tag rules and restores the code blocks
//   - Document assembly: embeds a fragment in a themed HTML document and
//     injects extra stylesheets
//
// Supporting pieces are the chroma highlighter for language-tagged code, the
// output audit (golang.org/x/net/html) and the bluemonday sanitizer.
//
// PDF rendering lives in the root bbcode package, which drives headless
// Chrome (go-rod) on the assembled document.
package pipeline
