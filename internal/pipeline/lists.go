package pipeline

import (
	"regexp"
	"strings"
)

// listElements maps the list tags to their element. [list] and [ul] are
// synonyms.
var listElements = map[string]string{
	"list": "ul",
	"ul":   "ul",
	"ol":   "ol",
}

var (
	// shortItemPattern is the [*] marker; the item runs up to the next '['.
	shortItemPattern = regexp.MustCompile(`\[\*\]([^\[]+)`)
	itemPattern      = regexp.MustCompile(`(?is)\[li\](.*?)\[/li\]`)
)

// listPass converts every list form in one scan. Inner lists close first, so
// by the time an outer list renders its body the inner ones are already
// elements and land inside the enclosing item.
var listPass = newBlockRule([]string{"list", "ul", "ol"}, "", attrNone, func(_ *conversion, m tagMatch, body string) (string, bool) {
	el := listElements[m.Name]
	return "<" + el + ">" + listItems(body) + "</" + el + ">", true
})

func listItems(body string) string {
	body = replaceSubmatches(shortItemPattern, body, func(m []string) string {
		return "<li>" + strings.TrimSpace(m[1]) + "</li>"
	})
	return replaceSubmatches(itemPattern, body, func(m []string) string {
		return "<li>" + strings.TrimSpace(m[1]) + "</li>"
	})
}

// tablePass maps the table tags directly to elements. Row and cell structure
// is not validated.
var tablePass = newBlockRule([]string{"table", "tr", "th", "td"}, "", attrNone, func(_ *conversion, m tagMatch, body string) (string, bool) {
	return "<" + m.Name + ">" + body + "</" + m.Name + ">", true
})
