package service

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/pmezard/go-difflib/difflib"
)

// diffText shows how got differs from want, for readable failures.
func diffText(want, got string) string {
	d, _ := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(want),
		B:        difflib.SplitLines(got),
		FromFile: "want",
		ToFile:   "got",
		Context:  2,
	})
	return d
}

func TestRenderMarkupScenario(t *testing.T) {
	doc := "**Title**\nSome `code` text\n```js\nlet a=1;\n```"
	out := RenderMarkup(doc)

	page, err := goquery.NewDocumentFromReader(strings.NewReader(out))
	if err != nil {
		t.Fatalf("markup does not parse: %v", err)
	}
	if got := page.Find("h2.md-heading").Text(); got != "Title" {
		t.Errorf("heading = %q, want %q", got, "Title")
	}
	if got := page.Find("span.md-code").Text(); got != "code" {
		t.Errorf("inline code = %q, want %q", got, "code")
	}
	if got := page.Find("pre > code").Text(); got != "let a=1;\n" {
		t.Errorf("code block = %q, want %q", got, "let a=1;\n")
	}
}

func TestRenderMarkup(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want string
	}{
		{
			name: "empty document",
			doc:  "",
			want: "<br/>",
		},
		{
			name: "code is escaped",
			doc:  "```html\n<script>alert('x') && 1</script>\n```",
			want: "<pre><code>&lt;script&gt;alert('x') &amp;&amp; 1&lt;/script&gt;\n</code></pre>",
		},
		{
			name: "markup in code is not formatted",
			doc:  "```\n**not bold** `x`\n```",
			want: "<pre><code>**not bold** `x`\n</code></pre>",
		},
		{
			name: "unterminated fence is closed",
			doc:  "intro\n```go\nfmt.Println(1)",
			want: "intro<br/><pre><code>fmt.Println(1)\n</code></pre>",
		},
		{
			name: "indented fence",
			doc:  "  ```\nx\n  ```",
			want: "<pre><code>x\n</code></pre>",
		},
		{
			name: "normal text is escaped",
			doc:  "a <b>bold</b> claim",
			want: "a &lt;b&gt;bold&lt;/b&gt; claim<br/>",
		},
		{
			name: "literal newline sequences",
			doc:  `one\ntwo`,
			want: "one<br/>two<br/>",
		},
		{
			name: "crlf line endings",
			doc:  "a\r\n```js\r\nx<y\r\n```",
			want: "a<br/><pre><code>x&lt;y\n</code></pre>",
		},
		{
			name: "heading then inline code",
			doc:  "**Use `ctx`**",
			want: `<h2 class="md-heading">Use <span class="md-code">ctx</span></h2><br/>`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := RenderMarkup(tt.doc); got != tt.want {
				t.Errorf("RenderMarkup() = %q, want %q\n%s", got, tt.want, diffText(tt.want, got))
			}
		})
	}
}

func TestExtractCode(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want string
	}{
		{"empty", "", ""},
		{"no fences", "just text", ""},
		{"single block", "Here:\n```js\nconst x = 1;\n```\nDone.", "const x = 1;"},
		{"two blocks", "```js\na()\n```\ntext\n```\nb()\n```", "a()\n\nb()"},
		{"unterminated tail dropped", "```js\nkeep\n```\n```py\nlost", "keep"},
		{"only unterminated", "```js\nlost", ""},
		{"language with digits is not a fence", "```es6\nx\n```", ""},
		{"body trimmed", "```\n\n  spaced  \n\n```", "spaced"},
		{"crlf fence", "Here:\r\n```js\r\nconst x = 1;\r\nx++\r\n```\r\n", "const x = 1;\nx++"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExtractCode(tt.doc); got != tt.want {
				t.Errorf("ExtractCode() = %q, want %q", got, tt.want)
			}
		})
	}
}
