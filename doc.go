// Package bbcode converts BBCode forum markup to safe HTML.
//
// # Quick Start
//
// Convert a snippet to an HTML fragment:
//
//	fragment := bbcode.ToHTML("[b]Hello[/b], [url=https://example.com]world[/url]")
//
// ToHTML never fails. Markup it does not recognise, and tags whose
// attributes are rejected (unsafe URL schemes, CSS expressions), stay in the
// output as escaped literal text.
//
// For a complete document, use a Converter:
//
//	conv, err := bbcode.NewConverter(bbcode.WithHighlighting("github"))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer conv.Close()
//
//	result, err := conv.Convert(ctx, bbcode.Input{
//	    Source: "[quote=ann]Hi[/quote]",
//	    Title:  "Thread",
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	os.WriteFile("thread.html", result.HTML, 0644)
//
// The result contains the fragment (result.Fragment), the assembled document
// (result.HTML) and, when Input.PDF is set, the PDF bytes (result.PDF).
//
// # Conversion Pipeline
//
// The conversion process follows these stages:
//
//  1. HTML escaping of the whole source
//  2. Fencing of code and pre blocks, so no later rule reads their content
//  3. Tag rewriting, one pass per rule, innermost pairs first
//  4. Optional sanitizing (WithSanitizer) and audit (WithStrict)
//  5. Document assembly with a script-free content security policy
//  6. CSS injection (style, highlighting, user CSS)
//  7. Optional PDF rendering via headless Chrome with scripts disabled
//
// # Themes and Styles
//
// A Theme holds the CSS expressions used for document colors. The built-in
// presets are "vscode" (editor host variables with system color fallbacks,
// the default) and "system" (CSS system colors). An extra stylesheet is
// chosen with WithStyle by name, file path or CSS text.
//
// Use WithAssetPath to load styles and themes from a directory:
//
//	conv, err := bbcode.NewConverter(
//	    bbcode.WithAssetPath("/path/to/assets"),
//	    bbcode.WithTheme("night"),
//	)
//
// The directory holds styles/{name}.css and themes/{name}.yaml. Missing
// assets fall back to the embedded ones.
//
// # Parallel Processing
//
// For batch conversion, use ConverterPool:
//
//	pool, err := bbcode.NewConverterPool(bbcode.ResolvePoolSize(0))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer pool.Close()
//
//	conv, err := pool.Acquire()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer pool.Release(conv)
//
// Each converter owns its browser instance for PDF export. ResolvePoolSize
// picks a size from GOMAXPROCS.
//
// # Error Handling
//
// The package exports sentinel errors for common failure cases:
//
//   - ErrUnsafeOutput: strict mode audit found a violation
//   - ErrInvalidTheme: theme token contains forbidden characters
//   - ErrStyleNotFound, ErrThemeNotFound: unknown asset name
//   - ErrInvalidAssetPath: asset directory unusable
//   - ErrBrowserConnect, ErrPageCreate, ErrPageLoad, ErrPDFGeneration: PDF export
//
// Use errors.Is to check for specific errors.
package bbcode
