package pipeline

import "strings"

// Slot markers use Unicode Private Use Area characters. They delimit fenced
// code blocks in the working string and never survive into the output.
const (
	slotStart = "\uE000" // U+E000: Private Use Area start
	slotEnd   = "\uE001" // U+E001: Private Use Area end
)

// htmlEscaper converts every character with HTML significance to an entity.
// The slot markers are mapped to numeric character references so source text
// can never forge a fenced block; browsers render them as the same code point.
var htmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#39;",
	slotStart, "&#xE000;",
	slotEnd, "&#xE001;",
)

// markupEscaper escapes markup characters in text captured from the working
// string. Ampersands are left alone: every '&' in the working string is the
// start of an entity produced by EscapeHTML, and escaping it again would
// double-escape literal text.
var markupEscaper = strings.NewReplacer(
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#39;",
)

// attrEscaper extends markupEscaper with the bracket characters, so captured
// text placed in an attribute or a citation cannot be matched by a later rule.
var attrEscaper = strings.NewReplacer(
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#39;",
	"[", "&#91;",
	"]", "&#93;",
)

// EscapeHTML escapes raw source text. It is applied exactly once, to the whole
// input, before any tag rule runs.
func EscapeHTML(s string) string {
	return htmlEscaper.Replace(s)
}

// escapeCaptured prepares already-escaped captured text for re-emission.
// Captures may carry markup produced by earlier passes (for example a span
// inside a link destination); that markup is neutralised here.
func escapeCaptured(s string) string {
	return markupEscaper.Replace(s)
}

// escapeAttr is escapeCaptured plus bracket neutralisation.
func escapeAttr(s string) string {
	return attrEscaper.Replace(s)
}
