package pipeline

import (
	"html"
	"regexp"
	"strings"
)

// ImageAlt is the fixed fallback text of every image.
const ImageAlt = "BBCode image"

// YouTubeEmbedPrefix is the only frame source the converter emits.
const YouTubeEmbedPrefix = "https://www.youtube.com/embed/"

// allowedSchemes lists the URL schemes accepted in link and image
// destinations. Destinations without a scheme are relative and allowed.
var allowedSchemes = map[string]bool{
	"http":   true,
	"https":  true,
	"mailto": true,
	"ftp":    true,
}

var (
	schemePattern = regexp.MustCompile(`^([a-zA-Z][a-zA-Z0-9+.\-]*):`)
	urlStrip      = strings.NewReplacer("\t", "", "\r", "", "\n", "")

	labeledURLPattern = regexp.MustCompile(`(?is)\[url=([^\]]+)\](.*?)\[/url\]`)
	bareURLPattern    = regexp.MustCompile(`(?is)\[url\](.*?)\[/url\]`)

	imagePattern        = regexp.MustCompile(`(?i)\[img\]([^\]]+)\[/img\]`)
	sizedImagePattern   = regexp.MustCompile(`(?i)\[img\s+width=([0-9]{1,4})(?:\s+height=([0-9]{1,4}))?\]([^\]]+)\[/img\]`)
	compactImagePattern = regexp.MustCompile(`(?i)\[img=([0-9]{1,4})x([0-9]{1,4})\]([^\]]+)\[/img\]`)

	youtubePattern = regexp.MustCompile(`(?i)\[youtube\]([a-zA-Z0-9_-]{5,})\[/youtube\]`)
)

// SafeURL reports whether u may be used as an href or src value. Browsers
// drop tab and newline characters and leading control characters before
// reading the scheme, so the probe does the same.
func SafeURL(u string) bool {
	u = strings.TrimLeftFunc(urlStrip.Replace(u), func(r rune) bool { return r <= ' ' })
	if u == "" {
		return false
	}
	m := schemePattern.FindStringSubmatch(u)
	if m == nil {
		return true
	}
	return allowedSchemes[strings.ToLower(m[1])]
}

// destination prepares a captured URL for an attribute value. The scheme is
// probed on the decoded value, which is what the browser reads.
func (c *conversion) destination(raw string) (string, bool) {
	u := c.attrText(strings.TrimSpace(raw))
	if !SafeURL(html.UnescapeString(u)) {
		return "", false
	}
	return u, true
}

func anchor(href, label string) string {
	return `<a href="` + href + `" target="_blank" rel="noopener">` + label + "</a>"
}

func image(src, width, height string) string {
	var b strings.Builder
	b.WriteString(`<img src="`)
	b.WriteString(src)
	b.WriteString(`"`)
	if width != "" {
		b.WriteString(` width="` + width + `"`)
	}
	if height != "" {
		b.WriteString(` height="` + height + `"`)
	}
	b.WriteString(` alt="` + ImageAlt + `" />`)
	return b.String()
}

var labeledURLPass = rewriteRule{
	pattern: labeledURLPattern,
	render: func(c *conversion, m []string) string {
		href, ok := c.destination(m[1])
		if !ok {
			return m[0]
		}
		return anchor(href, m[2])
	},
}

var bareURLPass = rewriteRule{
	pattern: bareURLPattern,
	render: func(c *conversion, m []string) string {
		href, ok := c.destination(m[1])
		if !ok {
			return m[0]
		}
		return anchor(href, href)
	},
}

var imagePass = rewriteRule{
	pattern: imagePattern,
	render: func(c *conversion, m []string) string {
		src, ok := c.destination(m[1])
		if !ok {
			return m[0]
		}
		return image(src, "", "")
	},
}

var sizedImagePass = rewriteRule{
	pattern: sizedImagePattern,
	render: func(c *conversion, m []string) string {
		src, ok := c.destination(m[3])
		if !ok {
			return m[0]
		}
		return image(src, m[1], m[2])
	},
}

var compactImagePass = rewriteRule{
	pattern: compactImagePattern,
	render: func(c *conversion, m []string) string {
		src, ok := c.destination(m[3])
		if !ok {
			return m[0]
		}
		return image(src, m[1], m[2])
	},
}

var youtubePass = rewriteRule{
	pattern: youtubePattern,
	render: func(_ *conversion, m []string) string {
		return `<iframe src="` + YouTubeEmbedPrefix + m[1] + `" title="YouTube video" frameborder="0" allowfullscreen></iframe>`
	},
}
