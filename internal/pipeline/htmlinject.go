package pipeline

import (
	"context"
	"strings"
)

// CSSInjector adds stylesheets to an assembled document.
type CSSInjector interface {
	InjectCSS(ctx context.Context, htmlContent, cssContent string) string
}

// CSSInjection injects CSS as a <style> block.
type CSSInjection struct{}

// Compile-time interface check.
var _ CSSInjector = (*CSSInjection)(nil)

// InjectCSS inserts cssContent as a <style> block before </head>, else right
// after the opening <body> tag, else at the very start. A cancelled context
// or empty CSS leaves the document unchanged.
func (s *CSSInjection) InjectCSS(ctx context.Context, htmlContent, cssContent string) string {
	if cssContent == "" || ctx.Err() != nil {
		return htmlContent
	}

	block := "<style>" + sanitizeCSS(cssContent) + "</style>"
	lower := strings.ToLower(htmlContent)

	if idx := strings.Index(lower, "</head>"); idx != -1 {
		return htmlContent[:idx] + block + htmlContent[idx:]
	}
	if pos := afterOpenTag(lower, "<body"); pos != -1 {
		return htmlContent[:pos] + block + htmlContent[pos:]
	}
	return block + htmlContent
}

// afterOpenTag returns the offset just past the '>' of the first tag starting
// with prefix, or -1.
func afterOpenTag(lower, prefix string) int {
	idx := strings.Index(lower, prefix)
	if idx == -1 {
		return -1
	}
	end := strings.IndexByte(lower[idx:], '>')
	if end == -1 {
		return -1
	}
	return idx + end + 1
}

// sanitizeCSS escapes "</" so the CSS cannot close its <style> element.
func sanitizeCSS(css string) string {
	return strings.ReplaceAll(css, "</", `<\/`)
}
