package pipeline

import (
	"regexp"
	"strings"
)

// simpleTag maps a bracket tag to the element it becomes.
type simpleTag struct {
	Tag     string
	Element string
	// Cited tags accept an optional =name attribute rendered as a <cite>
	// ahead of the content.
	Cited bool
}

// simpleTags is applied in order, one pass per entry.
var simpleTags = []simpleTag{
	{Tag: "b", Element: "strong"},
	{Tag: "i", Element: "em"},
	{Tag: "u", Element: "u"},
	{Tag: "s", Element: "s"},
	{Tag: "quote", Element: "blockquote", Cited: true},
}

// alignments are the block alignment tags; the tag name is the CSS value.
var alignments = []string{"center", "left", "right"}

// colorClass is the only character class accepted in a color value.
const colorClass = `[#a-zA-Z0-9(),.\s]`

var (
	styleSizePattern  = regexp.MustCompile(`(?i)\bsize\s*=\s*([0-9]{1,3})\b`)
	styleColorPattern = regexp.MustCompile(`(?i)\bcolor\s*=\s*(` + colorClass + `+?)\s*(?:\s+[a-z-]+\s*=|[^#a-zA-Z0-9(),.\s]|$)`)
	unsafeColor       = regexp.MustCompile(`(?i)url\s*\(|expression\s*\(`)
)

func simpleTagPass(t simpleTag) pass {
	mode := attrNone
	if t.Cited {
		mode = attrOptional
	}
	return newBlockRule([]string{t.Tag}, `=([^\]]+)`, mode, func(c *conversion, m tagMatch, body string) (string, bool) {
		open := "<" + t.Element + ">"
		if m.HasAttr {
			open += "<cite>" + c.attrText(m.Attr) + "</cite>"
		}
		return open + body + "</" + t.Element + ">", true
	})
}

var alignPass = newBlockRule(alignments, "", attrNone, func(_ *conversion, m tagMatch, body string) (string, bool) {
	return `<div style="text-align:` + m.Name + `;">` + body + "</div>", true
})

var sizePass = newBlockRule([]string{"size"}, `=([0-9]{1,3})`, attrRequired, func(_ *conversion, m tagMatch, body string) (string, bool) {
	return `<span style="font-size:` + m.Attr + `px;">` + body + "</span>", true
})

var colorPass = newBlockRule([]string{"color"}, `=(`+colorClass+`+)`, attrRequired, func(_ *conversion, m tagMatch, body string) (string, bool) {
	color, ok := cleanColor(m.Attr)
	if !ok {
		return "", false
	}
	return `<span style="color:` + color + `;">` + body + "</span>", true
})

// stylePass handles [style size=N color=V]. Unknown fields are ignored and a
// clause with no usable field keeps only the content.
var stylePass = newBlockRule([]string{"style"}, `\s+([^\]]+)`, attrRequired, func(_ *conversion, m tagMatch, body string) (string, bool) {
	var parts []string
	if sm := styleSizePattern.FindStringSubmatch(m.Attr); sm != nil {
		parts = append(parts, "font-size:"+sm[1]+"px")
	}
	if cm := styleColorPattern.FindStringSubmatch(m.Attr); cm != nil {
		if color, ok := cleanColor(cm[1]); ok {
			parts = append(parts, "color:"+color)
		}
	}
	if len(parts) == 0 {
		return body, true
	}
	return `<span style="` + strings.Join(parts, ";") + `;">` + body + "</span>", true
})

var spoilerPass = newBlockRule([]string{"spoiler"}, "", attrNone, func(_ *conversion, _ tagMatch, body string) (string, bool) {
	return "<details><summary>Spoiler</summary><div>" + body + "</div></details>", true
})

// cleanColor trims a captured color value and rejects values that are empty
// or use a CSS function able to fetch or evaluate anything.
func cleanColor(v string) (string, bool) {
	v = strings.TrimSpace(v)
	if v == "" || unsafeColor.MatchString(v) {
		return "", false
	}
	return escapeCaptured(v), true
}
