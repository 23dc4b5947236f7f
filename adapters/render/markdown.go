package render

import (
	"bytes"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"

	"effcost/domain/efficiency"
)

// MarkdownRenderer writes the report as a Markdown table followed by the totals
type MarkdownRenderer struct{}

func NewMarkdownRenderer() *MarkdownRenderer { return &MarkdownRenderer{} }

func (r *MarkdownRenderer) ContentType() string { return "text/markdown; charset=utf-8" }

func (r *MarkdownRenderer) Render(w io.Writer, report *efficiency.Report) error {
	_, err := w.Write(markdownReport(report))
	return err
}

func markdownReport(report *efficiency.Report) []byte {
	var b bytes.Buffer
	b.WriteString("# Efficiency report\n\n")
	b.WriteString("| entry | ideal | actual | efficiency loss |\n")
	b.WriteString("|---|---:|---:|---:|\n")
	for _, e := range report.Entries {
		fmt.Fprintf(&b, "| %s | %s | %s | %s |\n",
			escapeCell(e.Entry), e.Ideal, e.Actual, formatFloat(e.EfficiencyLoss))
	}

	agg := report.Aggregate
	b.WriteString("\n## " + efficiency.ReservedEntry + "\n\n")
	b.WriteString("| metric | value |\n")
	b.WriteString("|---|---:|\n")
	fmt.Fprintf(&b, "| total ideal | %s |\n", formatFloat(agg.TotalIdeal))
	fmt.Fprintf(&b, "| total actual | %s |\n", formatFloat(agg.TotalActual))
	fmt.Fprintf(&b, "| total efficiency loss | %s |\n", formatFloat(agg.TotalEfficiencyLoss))
	fmt.Fprintf(&b, "| efficiency | %s |\n", formatFloat(agg.Efficiency))
	return b.Bytes()
}

// HTMLRenderer converts the Markdown report into a standalone HTML page
type HTMLRenderer struct {
	Title string
}

func NewHTMLRenderer() *HTMLRenderer { return &HTMLRenderer{Title: "Efficiency report"} }

func (r *HTMLRenderer) ContentType() string { return "text/html; charset=utf-8" }

func (r *HTMLRenderer) Render(w io.Writer, report *efficiency.Report) error {
	p := parser.NewWithExtensions(parser.CommonExtensions)
	renderer := html.NewRenderer(html.RendererOptions{
		Flags: html.CommonFlags | html.CompletePage,
		Title: r.Title,
	})
	_, err := w.Write(markdown.ToHTML(markdownReport(report), p, renderer))
	return err
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// entry names are free text; keep them from breaking the table
func escapeCell(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, "|", "\\|")
	return strings.ReplaceAll(s, "\n", " ")
}
