// CLAUDE:SUMMARY Parses HTML tables into ordered headers and row mappings, resolving colspan by value duplication.
// Package tables turns raw HTML tables into ordered headers and row mappings.
//
// The parser resolves colspan by duplicating the cell value into every
// covered column. Rowspan is detected but not expanded: a spanning cell
// leaves the covered rows without a value for that column, and consumers
// resolve it by carrying the last seen value across rows.
package tables

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// DefaultMinText is the minimum visible text length for a table to count
// as data rather than navigation or decoration.
const DefaultMinText = 200

// Table is one parsed data table from a page.
type Table struct {
	Index      int                 // position among all tables on the page
	Headers    []string            // column headers, in document order
	Rows       []map[string]string // header → cell text, colspan duplicated
	Text       string              // full visible text, used by the classifier
	HasRowspan bool
	HasColspan bool
}

// Parse extracts data tables from an HTML document.
//
// Tables whose visible text is shorter than minText characters are skipped;
// pass 0 to use DefaultMinText. A document with no table elements yields an
// empty slice, not an error.
func Parse(htmlText string, minText int) ([]Table, error) {
	if minText <= 0 {
		minText = DefaultMinText
	}

	doc, err := html.Parse(strings.NewReader(sanitize(htmlText)))
	if err != nil {
		return nil, err
	}

	var out []Table
	index := 0
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.DataAtom == atom.Table {
			t := parseTable(n, index)
			index++
			if utf8.RuneCountInString(t.Text) >= minText && len(t.Headers) > 0 && len(t.Rows) > 0 {
				out = append(out, t)
			}
			// Nested tables are parsed as tables of their own.
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return out, nil
}

func parseTable(table *html.Node, index int) Table {
	t := Table{Index: index, Text: CollectText(table)}

	headerRow, dataRows := splitRows(table)
	if headerRow == nil {
		return t
	}

	for _, cell := range rowCells(headerRow) {
		t.Headers = append(t.Headers, CollectText(cell))
	}

	// Tables whose title row was mis-parsed as a single wide header really
	// have two columns. Only feature/entries tables get this recovery;
	// organization/protocol tables keep their structure.
	if len(t.Headers) == 1 {
		h := strings.ToLower(t.Headers[0])
		if strings.Contains(h, "feature") || strings.Contains(h, "entries") {
			t.Headers = []string{"Feature", "Description"}
		}
	}

	for _, tr := range dataRows {
		row := make(map[string]string)
		empty := true
		col := 0
		for _, cell := range rowCells(tr) {
			span := intAttr(cell, "colspan", 1)
			if span > 1 {
				t.HasColspan = true
			}
			if intAttr(cell, "rowspan", 1) > 1 {
				t.HasRowspan = true
			}
			// A span past the header row is corrupted markup; clamp it so
			// the duplication loop stays bounded by the column count.
			if rem := len(t.Headers) - col; span > rem {
				if rem < 1 {
					rem = 1
				}
				span = rem
			}
			value := CollectText(cell)
			for j := 0; j < span; j++ {
				if col+j < len(t.Headers) {
					row[t.Headers[col+j]] = value
				}
			}
			if value != "" {
				empty = false
			}
			col += span
		}
		if len(row) > 0 && !empty {
			t.Rows = append(t.Rows, row)
		}
	}

	return t
}

// splitRows returns the header row and the data rows of a table.
// Headers come from <thead> when present, else the first row.
// Rows belonging to nested tables are not included.
func splitRows(table *html.Node) (header *html.Node, data []*html.Node) {
	var thead *html.Node
	var rows []*html.Node
	var walk func(n *html.Node, inHead bool)
	walk = func(n *html.Node, inHead bool) {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if c.Type != html.ElementNode {
				continue
			}
			switch c.DataAtom {
			case atom.Table:
				continue // nested
			case atom.Thead:
				walk(c, true)
			case atom.Tr:
				if inHead {
					if thead == nil {
						thead = c
					}
				} else {
					rows = append(rows, c)
				}
			default:
				walk(c, inHead)
			}
		}
	}
	walk(table, false)

	if thead != nil {
		return thead, rows
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], rows[1:]
}

func rowCells(tr *html.Node) []*html.Node {
	var cells []*html.Node
	for c := tr.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && (c.DataAtom == atom.Td || c.DataAtom == atom.Th) {
			cells = append(cells, c)
		}
	}
	return cells
}

func intAttr(n *html.Node, key string, def int) int {
	for _, a := range n.Attr {
		if a.Key == key {
			if v, err := strconv.Atoi(strings.TrimSpace(a.Val)); err == nil && v >= 1 {
				return v
			}
		}
	}
	return def
}
