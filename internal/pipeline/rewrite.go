package pipeline

import (
	"regexp"
	"strings"
)

// pass is one global rewrite over the working string.
type pass interface {
	apply(c *conversion, s string) string
}

// conversion holds the per-call state threaded through the passes.
type conversion struct {
	fence fence
}

// attrText turns captured text into a value safe for an attribute or a plain
// text node: fenced blocks become their source text, markup left by earlier
// passes is escaped and brackets are hidden from later passes.
func (c *conversion) attrText(s string) string {
	return escapeAttr(c.fence.source(s))
}

// rewriteRule is a pass driven by a single pattern. The render function
// receives the capture groups (index 0 is the whole match) and returns the
// replacement; returning the whole match leaves the text unchanged.
type rewriteRule struct {
	pattern *regexp.Regexp
	render  func(c *conversion, m []string) string
}

func (r rewriteRule) apply(c *conversion, s string) string {
	return replaceSubmatches(r.pattern, s, func(m []string) string {
		return r.render(c, m)
	})
}

// replaceSubmatches works like ReplaceAllStringFunc but hands the callback
// the capture groups. Optional groups that did not participate are "".
func replaceSubmatches(re *regexp.Regexp, s string, repl func(m []string) string) string {
	locs := re.FindAllStringSubmatchIndex(s, -1)
	if locs == nil {
		return s
	}

	var b strings.Builder
	b.Grow(len(s))
	last := 0
	for _, loc := range locs {
		b.WriteString(s[last:loc[0]])
		groups := make([]string, len(loc)/2)
		for i := range groups {
			if loc[2*i] >= 0 {
				groups[i] = s[loc[2*i]:loc[2*i+1]]
			}
		}
		b.WriteString(repl(groups))
		last = loc[1]
	}
	b.WriteString(s[last:])
	return b.String()
}
