package pipeline

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// allowedAttrs is the element whitelist of converter output with the
// attributes each element may carry.
var allowedAttrs = map[string]map[string]bool{
	"strong":     {},
	"em":         {},
	"u":          {},
	"s":          {},
	"blockquote": {},
	"cite":       {},
	"div":        {"style": true},
	"span":       {"style": true, "class": true},
	"pre":        {"class": true},
	"code":       {"class": true, "data-lang": true},
	"a":          {"href": true, "target": true, "rel": true},
	"img":        {"src": true, "alt": true, "width": true, "height": true},
	"details":    {},
	"summary":    {},
	"ul":         {},
	"ol":         {},
	"li":         {},
	"table":      {},
	"tr":         {},
	"th":         {},
	"td":         {},
	"iframe":     {"src": true, "title": true, "frameborder": true, "allowfullscreen": true},
	// Inserted by the HTML parser around table rows.
	"tbody": {},
}

// allowedStyleProps are the only CSS properties emitted in style attributes.
var allowedStyleProps = map[string]bool{
	"text-align": true,
	"font-size":  true,
	"color":      true,
}

// Violation is one finding of Audit.
type Violation struct {
	Element string
	Attr    string // empty when the element itself is not allowed
	Value   string
	Reason  string
}

func (v Violation) String() string {
	if v.Attr == "" {
		return fmt.Sprintf("<%s>: %s", v.Element, v.Reason)
	}
	return fmt.Sprintf("<%s %s=%q>: %s", v.Element, v.Attr, v.Value, v.Reason)
}

// Audit parses an HTML fragment and reports everything outside the converter
// whitelist: unknown elements, unknown attributes, style properties other
// than alignment, size and color, unsafe URL schemes and foreign frames.
// A nil result means the fragment is clean.
func Audit(fragment string) ([]Violation, error) {
	body := &html.Node{
		Type:     html.ElementNode,
		DataAtom: atom.Body,
		Data:     "body",
	}
	nodes, err := html.ParseFragment(strings.NewReader(fragment), body)
	if err != nil {
		return nil, err
	}

	var out []Violation
	for _, n := range nodes {
		out = auditNode(n, out)
	}
	return out, nil
}

func auditNode(n *html.Node, out []Violation) []Violation {
	if n.Type == html.ElementNode {
		out = auditElement(n, out)
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		out = auditNode(c, out)
	}
	return out
}

func auditElement(n *html.Node, out []Violation) []Violation {
	attrs, ok := allowedAttrs[n.Data]
	if !ok {
		return append(out, Violation{Element: n.Data, Reason: "element not allowed"})
	}

	for _, a := range n.Attr {
		v := Violation{Element: n.Data, Attr: a.Key, Value: a.Val}
		switch {
		case a.Namespace != "" || !attrs[a.Key]:
			v.Reason = "attribute not allowed"
		case a.Key == "style":
			v.Reason = auditStyle(a.Val)
		case a.Key == "href" || (a.Key == "src" && n.Data == "img"):
			if !SafeURL(a.Val) {
				v.Reason = "unsafe URL scheme"
			}
		case a.Key == "src" && n.Data == "iframe":
			if !strings.HasPrefix(a.Val, YouTubeEmbedPrefix) {
				v.Reason = "frame source not allowed"
			}
		}
		if v.Reason != "" {
			out = append(out, v)
		}
	}
	return out
}

// auditStyle returns the reason a style attribute is rejected, or "".
func auditStyle(style string) string {
	for _, decl := range strings.Split(style, ";") {
		if strings.TrimSpace(decl) == "" {
			continue
		}
		prop, value, ok := strings.Cut(decl, ":")
		if !ok {
			return "malformed style declaration"
		}
		prop = strings.ToLower(strings.TrimSpace(prop))
		if !allowedStyleProps[prop] {
			return "style property " + prop + " not allowed"
		}
		if unsafeColor.MatchString(value) {
			return "style value not allowed"
		}
	}
	return ""
}
