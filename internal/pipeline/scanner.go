package pipeline

import (
	"regexp"
	"strings"
)

// attrMode says whether an opening tag carries an attribute clause.
type attrMode int

const (
	attrNone     attrMode = iota // [tag]
	attrOptional                 // [tag] or [tag=value]
	attrRequired                 // [tag=value] only
)

// tagMatch is an opening tag matched by a blockRule.
type tagMatch struct {
	Name    string // lower-cased tag name
	Attr    string // attribute clause capture, already escaped
	HasAttr bool
}

// blockRule is a pass over a family of paired tags that may nest. Pairs are
// matched innermost first with a frame stack in a single left-to-right scan,
// so every token is consumed once and the pass always terminates.
type blockRule struct {
	tokens *regexp.Regexp
	mode   attrMode
	// render returns the HTML for a matched pair. ok=false keeps the pair as
	// literal text.
	render func(c *conversion, t tagMatch, body string) (out string, ok bool)
}

// newBlockRule compiles the token pattern for the given tag names.
// attrSyntax is the regexp for the attribute clause (including its leading
// '=' or whitespace) with exactly one capture group.
func newBlockRule(names []string, attrSyntax string, mode attrMode, render func(*conversion, tagMatch, string) (string, bool)) blockRule {
	quoted := make([]string, len(names))
	for i, n := range names {
		quoted[i] = regexp.QuoteMeta(n)
	}

	pattern := `(?i)\[(/?)(` + strings.Join(quoted, "|") + `)`
	if mode != attrNone {
		pattern += `(?:` + attrSyntax + `)?`
	}
	pattern += `\]`

	return blockRule{
		tokens: regexp.MustCompile(pattern),
		mode:   mode,
		render: render,
	}
}

// frame is an open tag waiting for its closing tag. Its opening token and
// body are already in the output buffer, starting at openAt and bodyAt, so a
// frame that never closes stays in place as literal text.
type frame struct {
	tag    tagMatch
	openAt int
	bodyAt int
}

func (r blockRule) apply(c *conversion, s string) string {
	locs := r.tokens.FindAllStringSubmatchIndex(s, -1)
	if locs == nil {
		return s
	}

	out := make([]byte, 0, len(s))
	var stack []frame
	open := make(map[string]int)
	last := 0

	for _, loc := range locs {
		out = append(out, s[last:loc[0]]...)
		last = loc[1]

		token := s[loc[0]:loc[1]]
		closing := loc[3] > loc[2]
		hasAttr := len(loc) > 6 && loc[6] >= 0
		tm := tagMatch{Name: strings.ToLower(s[loc[4]:loc[5]]), HasAttr: hasAttr}
		if hasAttr {
			tm.Attr = s[loc[6]:loc[7]]
		}

		switch {
		case closing && hasAttr, !closing && r.mode == attrRequired && !hasAttr:
			out = append(out, token...)

		case !closing:
			stack = append(stack, frame{tag: tm, openAt: len(out), bodyAt: len(out) + len(token)})
			open[tm.Name]++
			out = append(out, token...)

		case open[tm.Name] == 0:
			out = append(out, token...)

		default:
			j := len(stack) - 1
			for stack[j].tag.Name != tm.Name {
				open[stack[j].tag.Name]--
				j--
			}
			f := stack[j]
			open[f.tag.Name]--
			stack = stack[:j]

			if rendered, ok := r.render(c, f.tag, string(out[f.bodyAt:])); ok {
				out = append(out[:f.openAt], rendered...)
			} else {
				out = append(out, token...)
			}
		}
	}

	out = append(out, s[last:]...)
	return string(out)
}
