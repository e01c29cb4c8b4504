package pipeline

import (
	"strings"
	"testing"
)

func TestChromaHighlighter_Highlight(t *testing.T) {
	t.Parallel()

	h := NewChromaHighlighter("github")

	got, ok := h.Highlight("go", "package main\n\nfunc main() {}\n")
	if !ok {
		t.Fatal("Highlight(go) should succeed")
	}
	if !strings.Contains(got, `class="`) {
		t.Errorf("Highlight(go) = %q, want class-annotated spans", got)
	}
	if strings.Contains(got, "<pre") {
		t.Errorf("Highlight(go) = %q, want no surrounding pre", got)
	}

	if _, ok := h.Highlight("no-such-language", "x"); ok {
		t.Error("Highlight() with unknown language should report false")
	}
}

func TestChromaHighlighter_EscapesCode(t *testing.T) {
	t.Parallel()

	h := NewChromaHighlighter("")
	got, ok := h.Highlight("html", `<script>alert("x")</script>`)
	if !ok {
		t.Fatal("Highlight(html) should succeed")
	}
	if strings.Contains(got, "<script") {
		t.Errorf("Highlight() = %q, code must be escaped", got)
	}
}

func TestChromaHighlighter_CSS(t *testing.T) {
	t.Parallel()

	css := NewChromaHighlighter("monokai").CSS()
	if !strings.Contains(css, ".chroma") {
		t.Errorf("CSS() = %q, want .chroma rules", css)
	}
}

func TestConverter_ChromaHighlighting(t *testing.T) {
	t.Parallel()

	cv := NewConverter(WithHighlighter(NewChromaHighlighter("")))

	got := cv.Convert("[code=go]x := \"<b>\"[/code] [code=nope]y[/code]")
	if !strings.Contains(got, `<pre class="chroma"><code data-lang="go">`) {
		t.Errorf("Convert() = %q, want highlighted go block", got)
	}
	if !strings.Contains(got, `<pre><code data-lang="nope">y</code></pre>`) {
		t.Errorf("Convert() = %q, want plain block for unknown language", got)
	}
	if strings.Contains(got, "<b>") {
		t.Errorf("Convert() = %q, code must stay escaped", got)
	}

	violations, err := Audit(got)
	if err != nil {
		t.Fatalf("Audit() unexpected error: %v", err)
	}
	if len(violations) > 0 {
		t.Errorf("highlighted output has violations: %v", violations)
	}
}

func TestConverter_HighlightedMarkersStayEscaped(t *testing.T) {
	t.Parallel()

	cv := NewConverter(WithHighlighter(NewChromaHighlighter("")))

	got := cv.Convert("[code=go]s := \"" + slotStart + "0" + slotEnd + "\"[/code]")
	if strings.Contains(got, slotStart) || strings.Contains(got, slotEnd) {
		t.Errorf("Convert() = %q, slot markers leaked", got)
	}
}
