package pipeline

import (
	"strings"
	"testing"
)

func TestSanitizer_Sanitize(t *testing.T) {
	t.Parallel()

	s := NewSanitizer()

	tests := []struct {
		name    string
		input   string
		keep    []string
		discard []string
	}{
		{
			name:  "converter output survives",
			input: Convert("[b]a[/b] [i]b[/i] [quote=c]d[/quote] [list][*]e[/list]"),
			keep:  []string{"<strong>a</strong>", "<em>b</em>", "<cite>c</cite>", "<li>e</li>"},
		},
		{
			name:    "script removed",
			input:   "<strong>a</strong><script>alert(1)</script>",
			keep:    []string{"<strong>a</strong>"},
			discard: []string{"<script", "alert"},
		},
		{
			name:    "event handler removed",
			input:   `<span onclick="x">a</span>`,
			discard: []string{"onclick"},
		},
		{
			name:    "javascript link removed",
			input:   `<a href="javascript:alert(1)">x</a>`,
			discard: []string{"javascript"},
		},
		{
			name:  "safe link kept",
			input: Convert("[url=https://example.com/]x[/url]"),
			keep:  []string{`href="https://example.com/"`},
		},
		{
			name:  "video frame kept",
			input: Convert("[youtube]dQw4w9WgXcQ[/youtube]"),
			keep:  []string{YouTubeEmbedPrefix + "dQw4w9WgXcQ"},
		},
		{
			name:    "foreign frame source removed",
			input:   `<iframe src="https://evil.example/x"></iframe>`,
			discard: []string{"evil.example"},
		},
		{
			name:    "disallowed style property removed",
			input:   `<div style="position:fixed">x</div>`,
			discard: []string{"position"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := s.Sanitize(tt.input)
			for _, want := range tt.keep {
				if !strings.Contains(got, want) {
					t.Errorf("Sanitize(%q) = %q, want it to contain %q", tt.input, got, want)
				}
			}
			for _, bad := range tt.discard {
				if strings.Contains(got, bad) {
					t.Errorf("Sanitize(%q) = %q, must not contain %q", tt.input, got, bad)
				}
			}
		})
	}
}
