package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
	"github.com/olekukonko/tablewriter"
)

// Renderer writes a Document in one output format
type Renderer interface {
	Render(w io.Writer, doc *Document) error
}

// NewRenderer returns the renderer for format ("text", "markdown" or "html")
func NewRenderer(format string, useColor bool) (Renderer, error) {
	switch format {
	case "text", "":
		return NewTextRenderer(useColor), nil
	case "markdown":
		return &MarkdownRenderer{}, nil
	case "html":
		return &HTMLRenderer{}, nil
	}
	return nil, fmt.Errorf("unknown report format %q", format)
}

// TextRenderer prints a console report with box-drawn tables
type TextRenderer struct {
	title   *color.Color
	heading *color.Color
	note    *color.Color
	key     *color.Color
}

// NewTextRenderer creates a console renderer. Color still follows terminal
// detection when enabled.
func NewTextRenderer(useColor bool) *TextRenderer {
	r := &TextRenderer{
		title:   color.New(color.Bold),
		heading: color.New(color.FgCyan, color.Bold),
		note:    color.New(color.FgYellow),
		key:     color.New(color.FgGreen, color.Bold),
	}
	if !useColor {
		for _, c := range []*color.Color{r.title, r.heading, r.note, r.key} {
			c.DisableColor()
		}
	}
	return r
}

// Render implements Renderer
func (r *TextRenderer) Render(w io.Writer, doc *Document) error {
	rule := strings.Repeat("=", 70)
	fmt.Fprintln(w, rule)
	r.title.Fprintln(w, doc.Title)
	fmt.Fprintln(w, rule)
	if doc.Source != "" {
		fmt.Fprintf(w, "Data: %s\n", doc.Source)
	}
	if doc.Checksum != "" {
		fmt.Fprintf(w, "SHA-256: %s\n", doc.Checksum)
	}
	if doc.ReportID != "" {
		fmt.Fprintf(w, "Report ID: %s\n", doc.ReportID)
	}

	for _, s := range doc.Sections {
		fmt.Fprintln(w)
		r.heading.Fprintf(w, "【%s】\n", s.Heading)
		for _, b := range s.Blocks {
			switch b.Kind {
			case BlockText:
				fmt.Fprintln(w, b.Text)
			case BlockNote:
				r.note.Fprintf(w, "  Note: %s\n", b.Text)
			case BlockKey:
				r.key.Fprintf(w, "→ %s\n", b.Text)
			case BlockTable:
				writeTextTable(w, b.Table)
			}
		}
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, rule)
	return nil
}

func writeTextTable(w io.Writer, t *Table) {
	table := tablewriter.NewWriter(w)
	table.SetHeader(t.Headers)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.AppendBulk(t.Rows)
	table.Render()
}

// MarkdownRenderer writes GitHub-flavoured markdown
type MarkdownRenderer struct{}

// Render implements Renderer
func (r *MarkdownRenderer) Render(w io.Writer, doc *Document) error {
	_, err := io.WriteString(w, toMarkdown(doc))
	return err
}

func toMarkdown(doc *Document) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", doc.Title)
	if doc.Source != "" {
		fmt.Fprintf(&b, "Data: `%s`\n\n", doc.Source)
	}
	if doc.Checksum != "" {
		fmt.Fprintf(&b, "SHA-256: `%s`\n\n", doc.Checksum)
	}
	if doc.ReportID != "" {
		fmt.Fprintf(&b, "Report ID: `%s`\n\n", doc.ReportID)
	}

	for _, s := range doc.Sections {
		fmt.Fprintf(&b, "## %s\n\n", s.Heading)
		for _, blk := range s.Blocks {
			switch blk.Kind {
			case BlockText:
				fmt.Fprintf(&b, "%s\n\n", blk.Text)
			case BlockNote:
				fmt.Fprintf(&b, "*Note: %s*\n\n", blk.Text)
			case BlockKey:
				fmt.Fprintf(&b, "**%s**\n\n", blk.Text)
			case BlockTable:
				writeMarkdownTable(&b, blk.Table)
			}
		}
	}
	return b.String()
}

func writeMarkdownTable(b *strings.Builder, t *Table) {
	row := func(cells []string) {
		escaped := make([]string, len(cells))
		for i, c := range cells {
			escaped[i] = strings.ReplaceAll(c, "|", `\|`)
		}
		fmt.Fprintf(b, "| %s |\n", strings.Join(escaped, " | "))
	}
	row(t.Headers)
	sep := make([]string, len(t.Headers))
	for i := range sep {
		sep[i] = "---"
	}
	row(sep)
	for _, r := range t.Rows {
		row(r)
	}
	b.WriteString("\n")
}

// HTMLRenderer converts the markdown form into a standalone HTML page
type HTMLRenderer struct{}

// Render implements Renderer
func (r *HTMLRenderer) Render(w io.Writer, doc *Document) error {
	p := parser.NewWithExtensions(parser.CommonExtensions)
	renderer := html.NewRenderer(html.RendererOptions{
		Title: doc.Title,
		Flags: html.CommonFlags | html.CompletePage,
	})
	_, err := w.Write(markdown.ToHTML([]byte(toMarkdown(doc)), p, renderer))
	return err
}
