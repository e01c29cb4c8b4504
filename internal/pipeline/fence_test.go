package pipeline

import (
	"strings"
	"testing"
)

func TestFence_Extract(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "language code wrapping plain code",
			input:    "[code=go][code]a[/code][/code]",
			expected: `<pre><code data-lang="go">[code]a[/code]</code></pre>`,
		},
		{
			name:     "pre wrapping code",
			input:    "[pre][code]a[/code][/pre]",
			expected: "<pre><pre><code>a</code></pre></pre>",
		},
		{
			name:     "several blocks",
			input:    "[code]a[/code] [pre]b[/pre] [code=sh]c[/code]",
			expected: `<pre><code>a</code></pre> <pre>b</pre> <pre><code data-lang="sh">c</code></pre>`,
		},
		{
			name:     "upper-case tags",
			input:    "[CODE]a[/Code]",
			expected: "<pre><code>a</code></pre>",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			f := &fence{}
			fenced := f.extract(tt.input)
			if strings.Contains(fenced, "[code") || strings.Contains(fenced, "[pre") {
				t.Errorf("extract() left tags behind: %q", fenced)
			}
			if got := f.restore(fenced); got != tt.expected {
				t.Errorf("restore(extract(%q)) = %q, want %q", tt.input, got, tt.expected)
			}
			if got := f.source(fenced); got != tt.input {
				t.Errorf("source(extract(%q)) = %q, want the input back", tt.input, got)
			}
		})
	}
}

func TestFence_UnknownSlot(t *testing.T) {
	t.Parallel()

	f := &fence{}
	f.store("[code]a[/code]", "<pre><code>a</code></pre>")

	got := f.restore("x" + slotStart + "7" + slotEnd + "y")
	if got != "xy" {
		t.Errorf("restore() with unknown slot = %q, want %q", got, "xy")
	}
}

func TestEscapeHTML(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input    string
		expected string
	}{
		{"", ""},
		{"plain", "plain"},
		{"<>&\"'", "&lt;&gt;&amp;&quot;&#39;"},
		{"&amp;", "&amp;amp;"},
		{slotStart + slotEnd, "&#xE000;&#xE001;"},
		{"[b]", "[b]"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()

			if got := EscapeHTML(tt.input); got != tt.expected {
				t.Errorf("EscapeHTML(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestEscapeAttr(t *testing.T) {
	t.Parallel()

	got := escapeAttr(`&amp; <b> "x" 'y' [z]`)
	want := "&amp; &lt;b&gt; &quot;x&quot; &#39;y&#39; &#91;z&#93;"
	if got != want {
		t.Errorf("escapeAttr() = %q, want %q", got, want)
	}
}
