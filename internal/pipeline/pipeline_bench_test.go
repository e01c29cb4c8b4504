//go:build bench

package pipeline

import (
	"context"
	"strings"
	"testing"
)

const benchPost = `[quote=alice][b]Hello[/b] [i]world[/i][/quote]
[center][size=18][color=#ff0000]Title[/color][/size][/center]
[list][*]one[*]two[list][*]nested[/list][/list]
[table][tr][th]a[/th][td]b[/td][/tr][/table]
[url=https://example.com]link[/url] [img=100x50]https://example.com/i.png[/img]
[code=go]func main() { fmt.Println("<hi>") }[/code]
[spoiler]secret[/spoiler] [youtube]dQw4w9WgXcQ[/youtube]
`

// BenchmarkConvert measures conversion of post-sized inputs.
func BenchmarkConvert(b *testing.B) {
	inputs := []struct {
		name   string
		source string
	}{
		{"plain_text", strings.Repeat("Just some text & more. ", 200)},
		{"small_post", benchPost},
		{"large_post", strings.Repeat(benchPost, 100)},
		{"deep_nesting", strings.Repeat("[quote]", 200) + "x" + strings.Repeat("[/quote]", 200)},
		{"unbalanced", strings.Repeat("[list][*]a", 500)},
	}

	for _, input := range inputs {
		b.Run(input.name, func(b *testing.B) {
			b.ReportAllocs()
			b.ResetTimer()

			for i := 0; i < b.N; i++ {
				_ = Convert(input.source)
			}
		})
	}
}

// BenchmarkConvert_Highlighted measures the chroma path.
func BenchmarkConvert_Highlighted(b *testing.B) {
	cv := NewConverter(WithHighlighter(NewChromaHighlighter("")))
	source := strings.Repeat("[code=go]package main\nfunc main() {}\n[/code]\n", 50)

	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		_ = cv.Convert(source)
	}
}

// BenchmarkAssembleDocument measures document assembly with CSS injection.
func BenchmarkAssembleDocument(b *testing.B) {
	fragment := Convert(strings.Repeat(benchPost, 20))
	injector := &CSSInjection{}
	ctx := context.Background()
	css := strings.Repeat(".chroma .k { color: #d73a49; }\n", 100)

	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		doc := AssembleDocument(fragment, DocumentData{Title: "bench"})
		_ = injector.InjectCSS(ctx, doc, css)
	}
}

// BenchmarkAudit measures the output audit on a converted post.
func BenchmarkAudit(b *testing.B) {
	fragment := Convert(strings.Repeat(benchPost, 20))

	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		_, _ = Audit(fragment)
	}
}
