package service

import (
	"regexp"
	"strings"
)

const codeFence = "```"

// Markup emitted by RenderMarkup.
const (
	codeBlockOpen  = "<pre><code>"
	codeBlockClose = "</code></pre>"
	lineBreak      = "<br/>"
	headingSpan    = `<h2 class="md-heading">$1</h2>`
	inlineCodeSpan = `<span class="md-code">$1</span>`
)

var (
	reBold       = regexp.MustCompile(`\*\*(.*?)\*\*`)
	reInlineCode = regexp.MustCompile("`([^`]+)`")
	reCodeBlock  = regexp.MustCompile("```[a-zA-Z]*\n([\\s\\S]*?)```")

	htmlEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")
)

// normalizeNewlines turns CRLF line endings into LF.
func normalizeNewlines(s string) string {
	return strings.ReplaceAll(s, "\r\n", "\n")
}

// EscapeHTML escapes &, < and >.
func EscapeHTML(s string) string {
	return htmlEscaper.Replace(s)
}

// RenderMarkup converts an answer into HTML. It understands fenced code
// blocks, **bold** (rendered as a heading) and `inline code`; everything
// else is escaped text with a <br/> per line. A fence left open at the end
// of the document is closed.
func RenderMarkup(doc string) string {
	lines := strings.Split(strings.ReplaceAll(normalizeNewlines(doc), `\n`, "\n"), "\n")

	var b strings.Builder
	inCode := false
	for _, line := range lines {
		if strings.HasPrefix(strings.TrimSpace(line), codeFence) {
			if inCode {
				b.WriteString(codeBlockClose)
			} else {
				b.WriteString(codeBlockOpen)
			}
			inCode = !inCode
			continue
		}

		if inCode {
			b.WriteString(EscapeHTML(line))
			b.WriteByte('\n')
			continue
		}

		formatted := EscapeHTML(line)
		formatted = reBold.ReplaceAllString(formatted, headingSpan)
		formatted = reInlineCode.ReplaceAllString(formatted, inlineCodeSpan)
		b.WriteString(formatted)
		b.WriteString(lineBreak)
	}
	if inCode {
		b.WriteString(codeBlockClose)
	}
	return b.String()
}

// ExtractCode returns the bodies of all closed fenced code blocks, each
// trimmed, separated by a blank line. An unterminated fence contributes
// nothing.
func ExtractCode(doc string) string {
	if doc == "" {
		return ""
	}
	var b strings.Builder
	for _, m := range reCodeBlock.FindAllStringSubmatch(normalizeNewlines(doc), -1) {
		b.WriteString(strings.TrimSpace(m[1]))
		b.WriteString("\n\n")
	}
	return strings.TrimSpace(b.String())
}
