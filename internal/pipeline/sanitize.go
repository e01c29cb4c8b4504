package pipeline

import (
	"regexp"

	"github.com/microcosm-cc/bluemonday"
)

// Sanitizer re-filters a fragment through a bluemonday policy mirroring the
// converter whitelist. Converter output is already safe; the sanitizer is for
// hosts that embed fragments without a content security policy.
type Sanitizer struct {
	policy *bluemonday.Policy
}

var (
	classValue    = regexp.MustCompile(`^[a-zA-Z0-9 _-]+$`)
	langValue     = regexp.MustCompile(`^[^<>"']+$`)
	dimension     = regexp.MustCompile(`^[0-9]{1,4}$`)
	embedSource   = regexp.MustCompile(`^` + regexp.QuoteMeta(YouTubeEmbedPrefix) + `[a-zA-Z0-9_-]{5,}$`)
	blankTarget   = regexp.MustCompile(`^_blank$`)
	noopenerRel   = regexp.MustCompile(`^noopener$`)
	imageAltValue = regexp.MustCompile(`^` + regexp.QuoteMeta(ImageAlt) + `$`)
)

// NewSanitizer builds the policy.
func NewSanitizer() *Sanitizer {
	p := bluemonday.NewPolicy()

	p.AllowElements(
		"strong", "em", "u", "s", "blockquote", "cite",
		"div", "span", "pre", "code",
		"details", "summary",
		"ul", "ol", "li",
		"table", "tbody", "tr", "th", "td",
	)
	p.AllowStyles("text-align", "font-size", "color").OnElements("div", "span")
	p.AllowAttrs("class").Matching(classValue).OnElements("span", "pre", "code")
	p.AllowAttrs("data-lang").Matching(langValue).OnElements("code")

	p.AllowURLSchemes("http", "https", "mailto", "ftp")
	p.AllowRelativeURLs(true)
	p.AllowAttrs("href").OnElements("a")
	p.AllowAttrs("target").Matching(blankTarget).OnElements("a")
	p.AllowAttrs("rel").Matching(noopenerRel).OnElements("a")

	p.AllowAttrs("src").OnElements("img")
	p.AllowAttrs("alt").Matching(imageAltValue).OnElements("img")
	p.AllowAttrs("width", "height").Matching(dimension).OnElements("img")

	p.AllowAttrs("src").Matching(embedSource).OnElements("iframe")
	p.AllowAttrs("title", "frameborder", "allowfullscreen").OnElements("iframe")

	return &Sanitizer{policy: p}
}

// Sanitize returns the filtered fragment.
func (s *Sanitizer) Sanitize(fragment string) string {
	return s.policy.Sanitize(fragment)
}
