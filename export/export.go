// CLAUDE:SUMMARY Result and page export: JSON output writer and HTML-to-markdown page rendering.
// Package export renders extraction results and source pages for output.
package export

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/table"

	"github.com/ElanGll2023/specsift/specsift"
)

// WriteJSON writes an extraction result as indented JSON with attribute
// keys sorted inside each model, so repeated runs diff cleanly.
func WriteJSON(w io.Writer, r specsift.Result) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(r); err != nil {
		return fmt.Errorf("export: encode result: %w", err)
	}
	return nil
}

// Summary is a compact per-model listing for terminal output.
func Summary(r specsift.Result) string {
	models := make([]string, 0, len(r))
	for m := range r {
		models = append(models, m)
	}
	sort.Strings(models)

	var b strings.Builder
	for _, m := range models {
		fmt.Fprintf(&b, "%s (%d attributes)\n", m, len(r[m]))
		attrs := make([]string, 0, len(r[m]))
		for k := range r[m] {
			attrs = append(attrs, k)
		}
		sort.Strings(attrs)
		for _, k := range attrs {
			fmt.Fprintf(&b, "  %s: %v\n", k, r[m][k])
		}
	}
	return b.String()
}

// Markdown converts a fetched page's HTML to structured markdown.
// Used to archive pages in a reviewable form next to their JSON results.
type Markdown struct {
	conv *converter.Converter
}

// NewMarkdown creates a page renderer with table support.
func NewMarkdown() *Markdown {
	return &Markdown{
		conv: converter.NewConverter(
			converter.WithPlugins(
				base.NewBasePlugin(),
				commonmark.NewCommonmarkPlugin(),
				table.NewTablePlugin(),
			),
		),
	}
}

// Render converts html to markdown. If conversion fails or produces empty
// output, it returns the empty string rather than an error; page archiving
// is best-effort.
func (m *Markdown) Render(html, sourceURL string) string {
	if html == "" {
		return ""
	}
	out, err := m.conv.ConvertString(html, converter.WithDomain(sourceURL))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(out)
}
