package service

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/charmbracelet/glamour"
	"github.com/muesli/reflow/wordwrap"
)

// OutputFormat selects how an answer is presented.
type OutputFormat string

const (
	FormatHTML OutputFormat = "html" // RenderMarkup output
	FormatText OutputFormat = "text" // plain text recovered from the markup
	FormatTerm OutputFormat = "term" // styled terminal output
	FormatCode OutputFormat = "code" // fenced code only
	FormatRaw  OutputFormat = "raw"  // the answer as received
)

// ParseOutputFormat validates a format name.
func ParseOutputFormat(s string) (OutputFormat, error) {
	switch f := OutputFormat(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatHTML, FormatText, FormatTerm, FormatCode, FormatRaw:
		return f, nil
	case "":
		return FormatTerm, nil
	default:
		return "", fmt.Errorf("unknown output format %q (want html, text, term, code or raw)", s)
	}
}

// Markdown accumulates streamed answer text for rendering once complete.
type Markdown struct {
	buffer strings.Builder
}

// NewMarkdown creates a new instance of Markdown
func NewMarkdown() *Markdown {
	return &Markdown{}
}

func (mr *Markdown) Writef(format string, args ...interface{}) {
	mr.buffer.WriteString(fmt.Sprintf(format, args...))
}

func (mr *Markdown) Write(args ...interface{}) {
	mr.buffer.WriteString(fmt.Sprint(args...))
}

func (mr *Markdown) String() string {
	return mr.buffer.String()
}

func (mr *Markdown) Reset() {
	mr.buffer.Reset()
}

// Render formats the buffered answer.
func (mr *Markdown) Render(format OutputFormat, style string, width int) (string, error) {
	return RenderAnswer(mr.buffer.String(), format, style, width)
}

// RenderAnswer formats doc in the requested format.
func RenderAnswer(doc string, format OutputFormat, style string, width int) (string, error) {
	switch format {
	case FormatHTML:
		return RenderMarkup(doc), nil
	case FormatText:
		return MarkupToText(RenderMarkup(doc), width)
	case FormatCode:
		return ExtractCode(doc), nil
	case FormatRaw:
		return doc, nil
	default:
		return RenderTerminal(doc, style, width)
	}
}

// RenderTerminal styles doc for a terminal with glamour. style is a glamour
// standard style name or "auto".
func RenderTerminal(doc, style string, width int) (string, error) {
	opts := []glamour.TermRendererOption{}
	if style == "" || style == "auto" {
		opts = append(opts, glamour.WithAutoStyle())
	} else {
		opts = append(opts, glamour.WithStandardStyle(style))
	}
	if width > 0 {
		opts = append(opts, glamour.WithWordWrap(width))
	}

	tr, err := glamour.NewTermRenderer(opts...)
	if err != nil {
		return "", fmt.Errorf("failed to create terminal renderer: %w", err)
	}
	out, err := tr.Render(strings.ReplaceAll(doc, `\n`, "\n"))
	if err != nil {
		return "", fmt.Errorf("cannot render markdown: %w", err)
	}
	return out, nil
}

// MarkupToText turns RenderMarkup output back into readable text: line breaks
// become newlines and entities are decoded. Prose is wrapped at width; code
// blocks are left as they are.
func MarkupToText(markup string, width int) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return "", fmt.Errorf("failed to parse markup: %w", err)
	}

	var b, line strings.Builder
	flush := func() {
		text := line.String()
		if width > 0 {
			text = wordwrap.String(text, width)
		}
		b.WriteString(text)
		line.Reset()
	}
	doc.Find("body").Contents().Each(func(_ int, s *goquery.Selection) {
		switch goquery.NodeName(s) {
		case "br":
			flush()
			b.WriteByte('\n')
		case "pre":
			flush()
			b.WriteString(s.Text())
		default:
			line.WriteString(s.Text())
		}
	})
	flush()
	return b.String(), nil
}
