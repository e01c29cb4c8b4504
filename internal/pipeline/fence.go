package pipeline

import (
	"html"
	"regexp"
	"strconv"
	"strings"
)

// Code block patterns. Blocks are fenced in this order so a [pre] body may
// contain already fenced [code] blocks.
var (
	codePattern     = regexp.MustCompile(`(?is)\[code\](.*?)\[/code\]`)
	langCodePattern = regexp.MustCompile(`(?is)\[code=([^\]]+)\](.*?)\[/code\]`)
	prePattern      = regexp.MustCompile(`(?is)\[pre\](.*?)\[/pre\]`)

	// slotPattern matches a slot marker: slotStart, decimal index, slotEnd.
	slotPattern = regexp.MustCompile(`\x{E000}([0-9]+)\x{E001}`)
)

// slot is one fenced code block.
type slot struct {
	source string // escaped source text of the whole block, tags included
	html   string // rendered block
}

// fence moves code block bodies out of the working string so that no tag
// rule reinterprets them, and restores the rendered blocks at the end.
// A fence lives for a single conversion.
type fence struct {
	slots       []slot
	highlighter Highlighter
}

// extract replaces every code, language-tagged code and pre block with a
// slot marker.
func (f *fence) extract(s string) string {
	s = replaceSubmatches(codePattern, s, func(m []string) string {
		return f.store(m[0], "<pre><code>"+m[1]+"</code></pre>")
	})
	s = replaceSubmatches(langCodePattern, s, func(m []string) string {
		return f.store(m[0], f.renderLangCode(m[1], m[2]))
	})
	s = replaceSubmatches(prePattern, s, func(m []string) string {
		return f.store(m[0], "<pre>"+m[1]+"</pre>")
	})
	return s
}

// renderLangCode renders a [code=lang] block. A nested [code] block inside the
// body was fenced first; it is put back as literal text here.
func (f *fence) renderLangCode(lang, body string) string {
	lang = strings.TrimSpace(f.source(lang))
	body = f.source(body)
	if lang == "" {
		return "<pre><code>" + body + "</code></pre>"
	}

	if f.highlighter != nil {
		if tokens, ok := f.highlighter.Highlight(html.UnescapeString(lang), html.UnescapeString(body)); ok {
			return `<pre class="chroma"><code data-lang="` + escapeCaptured(lang) + `">` + tokens + "</code></pre>"
		}
	}
	return `<pre><code data-lang="` + escapeCaptured(lang) + `">` + body + "</code></pre>"
}

// store appends a slot and returns its marker.
func (f *fence) store(source, rendered string) string {
	f.slots = append(f.slots, slot{source: source, html: rendered})
	return slotStart + strconv.Itoa(len(f.slots)-1) + slotEnd
}

// restore replaces slot markers with the rendered blocks.
func (f *fence) restore(s string) string {
	return f.expand(s, func(sl slot) string { return sl.html })
}

// source replaces slot markers with the escaped source text of the blocks.
// Used wherever captured text lands in an attribute or a text node that must
// not contain markup.
func (f *fence) source(s string) string {
	return f.expand(s, func(sl slot) string { return sl.source })
}

// expand substitutes slot markers recursively. A slot only ever refers to
// slots stored before it, so recursion ends.
func (f *fence) expand(s string, pick func(slot) string) string {
	if len(f.slots) == 0 || !strings.Contains(s, slotStart) {
		return s
	}
	return replaceSubmatches(slotPattern, s, func(m []string) string {
		idx, err := strconv.Atoi(m[1])
		if err != nil || idx >= len(f.slots) {
			return ""
		}
		return f.expand(pick(f.slots[idx]), pick)
	})
}
