package pipeline

import (
	"html"
	"regexp"
	"strings"
)

// DefaultLang is the document language when none is given.
const DefaultLang = "en"

// ThemeTokens are CSS expressions for the document colors. They are inserted
// into the style block as is; callers validate them first.
type ThemeTokens struct {
	Foreground          string
	Background          string
	Link                string
	CodeBackground      string
	SelectionBackground string
}

// DocumentData holds everything the document shell needs besides the
// fragment.
type DocumentData struct {
	Title string
	Lang  string
	Theme ThemeTokens
}

// contentSecurityPolicy forbids scripts, plugins and foreign frames.
const contentSecurityPolicy = "default-src 'none'; img-src http: https: data:; style-src 'unsafe-inline'; " +
	"frame-src https://www.youtube.com; base-uri 'none'; form-action 'none'"

var langPattern = regexp.MustCompile(`^[a-zA-Z]{1,8}(-[a-zA-Z0-9]{1,8})*$`)

// AssembleDocument embeds fragment verbatim in a complete HTML document.
// The fragment is never escaped or parsed again.
func AssembleDocument(fragment string, doc DocumentData) string {
	lang := doc.Lang
	if !langPattern.MatchString(lang) {
		lang = DefaultLang
	}
	t := doc.Theme

	var b strings.Builder
	b.Grow(len(fragment) + 1536)

	b.WriteString("<!DOCTYPE html>\n<html lang=\"")
	b.WriteString(lang)
	b.WriteString("\">\n<head>\n")
	b.WriteString("<meta charset=\"UTF-8\">\n")
	b.WriteString("<meta name=\"viewport\" content=\"width=device-width, initial-scale=1.0\">\n")
	b.WriteString("<meta http-equiv=\"Content-Security-Policy\" content=\"" + contentSecurityPolicy + "\">\n")
	if doc.Title != "" {
		b.WriteString("<title>" + html.EscapeString(doc.Title) + "</title>\n")
	}
	b.WriteString("<style>\n")
	b.WriteString(":root { color-scheme: light dark; }\n")
	b.WriteString("body {\n")
	b.WriteString("  font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', system-ui, sans-serif;\n")
	b.WriteString("  margin: 0;\n  padding: 16px;\n  line-height: 1.5;\n")
	b.WriteString("  background: " + t.Background + ";\n")
	b.WriteString("  color: " + t.Foreground + ";\n")
	b.WriteString("}\n")
	b.WriteString("a { color: " + t.Link + "; }\n")
	b.WriteString("::selection { background: " + t.SelectionBackground + "; }\n")
	b.WriteString("pre {\n  background: " + t.CodeBackground + ";\n  padding: 12px;\n  border-radius: 6px;\n  overflow: auto;\n}\n")
	b.WriteString("blockquote {\n  border-left: 3px solid " + t.Foreground + ";\n  padding-left: 12px;\n  margin-left: 0;\n  opacity: 0.9;\n}\n")
	b.WriteString("img {\n  max-width: 100%;\n  height: auto;\n}\n")
	b.WriteString(".container {\n  white-space: pre-wrap;\n  word-wrap: break-word;\n}\n")
	b.WriteString("</style>\n</head>\n<body>\n")
	b.WriteString(`<div class="container">`)
	b.WriteString(fragment)
	b.WriteString("</div>\n</body>\n</html>\n")
	return b.String()
}
