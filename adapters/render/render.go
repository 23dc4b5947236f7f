// Package render turns a finished efficiency report into output bytes.
// The calculator never formats anything; every presentation choice lives here.
package render

import (
	"fmt"
	"sort"
	"strings"

	"effcost/ports"
)

// Output formats
const (
	FormatJSON     = "json"
	FormatMarkdown = "markdown"
	FormatHTML     = "html"
)

var renderers = map[string]func() ports.ReportRenderer{
	FormatJSON:     func() ports.ReportRenderer { return NewJSONRenderer() },
	FormatMarkdown: func() ports.ReportRenderer { return NewMarkdownRenderer() },
	FormatHTML:     func() ports.ReportRenderer { return NewHTMLRenderer() },
}

// ForFormat returns the renderer registered for format; empty means JSON.
func ForFormat(format string) (ports.ReportRenderer, error) {
	if format == "" {
		format = FormatJSON
	}
	fn, ok := renderers[strings.ToLower(format)]
	if !ok {
		return nil, fmt.Errorf("unknown output format %q (supported: %s)", format, strings.Join(Formats(), ", "))
	}
	return fn(), nil
}

// Formats lists the registered format names.
func Formats() []string {
	out := make([]string, 0, len(renderers))
	for name := range renderers {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
