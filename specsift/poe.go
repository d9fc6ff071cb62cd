// CLAUDE:SUMMARY POE power-table extractor: rowspan model fold, AC/DC power split, power-class port counts.
package specsift

import (
	"regexp"
	"strconv"
	"strings"
)

// POE port counts above this are considered mis-parses from adjacent numbers.
const (
	minPOEPortCount = 1
	maxPOEPortCount = 48
)

// poeClassPatterns extract port counts per power class. Each class gets two
// phrasings: value after the class ("15.4W (802.3af): 8") and value before
// it ("15.4W: 8 (802.3af)").
var poeClassPatterns = []struct {
	attr     string
	patterns []*regexp.Regexp
}{
	{attrPOEAf, []*regexp.Regexp{
		regexp.MustCompile(`15\.4W\s*\(802\.3af\)[:\s]+(\d+)`),
		regexp.MustCompile(`15\.4W[:\s]+(\d+)\s*\(802\.3af\)`),
	}},
	{attrPOEAt, []*regexp.Regexp{
		regexp.MustCompile(`30W\s*\(802\.3at\)[:\s]+(\d+)`),
		regexp.MustCompile(`30W[:\s]+(\d+)\s*\(802\.3at\)`),
	}},
	{attrPOEBt60, []*regexp.Regexp{
		regexp.MustCompile(`60W\s*\(802\.3bt\)[:\s]+(\d+)`),
		regexp.MustCompile(`60W[:\s]+(\d+)\s*\(802\.3bt\)`),
	}},
	{attrPOEBt90, []*regexp.Regexp{
		regexp.MustCompile(`90W\s*\(802\.3bt\)[:\s]+(\d+)`),
		regexp.MustCompile(`90W[:\s]+(\d+)\s*\(802\.3bt\)`),
	}},
}

// poeCell pairs a value with the header column it came from. The header is
// only trustworthy on rows that start with a model name; rowspan-covered rows
// are shifted left and their cells land under the wrong columns.
type poeCell struct {
	header string
	value  string
}

// poePowerHeader reports whether a column header names the total power
// capacity.
func poePowerHeader(h string) bool {
	lower := strings.ToLower(h)
	return strings.Contains(lower, "power") ||
		strings.Contains(lower, "capacity") ||
		strings.Contains(h, "功率")
}

// extractPOE handles POE power tables. The model cell is commonly merged
// across rows (rowspan); a covered row then starts with a power or port
// value in the model slot, so rows are read by value shape, not by column:
// a leading model name opens a new entry, anything else folds into the last
// seen model. Rows that do start with a model keep their column alignment,
// so for those the power column's header locates the total even when the
// cell carries a bare number with no unit.
func extractPOE(headers []string, rows []map[string]string) Result {
	result := Result{}

	lastModel := ""
	for _, row := range rows {
		var cells []poeCell
		for _, h := range headers {
			if v := strings.TrimSpace(row[h]); v != "" {
				if len(cells) > 0 && cells[len(cells)-1].value == v {
					continue // colspan duplicate
				}
				cells = append(cells, poeCell{header: h, value: v})
			}
		}
		if len(cells) == 0 {
			continue
		}

		model := lastModel
		shifted := true
		if isModelName(cells[0].value) {
			model = cells[0].value
			lastModel = model
			cells = cells[1:]
			shifted = false
		}
		if model == "" {
			continue
		}
		if result[model] == nil {
			result[model] = Attributes{}
		}

		for _, c := range cells {
			v := c.value
			if strings.Contains(v, "AC:") || strings.Contains(v, "DC:") {
				parts := strings.SplitN(v, ":", 2)
				key := attrPOETotal + "_" + strings.TrimSpace(parts[0])
				result[model][key] = strings.TrimSpace(parts[1])
				continue
			}
			if counts := parsePOEPorts(v); len(counts) > 0 {
				for attr, count := range counts {
					result[model][attr] = count
				}
				continue
			}
			if strings.Contains(v, "802.3") {
				continue
			}
			// Plain wattage with no per-class breakdown is the total. On an
			// aligned row the power column is the total even without a unit.
			if strings.Contains(v, "W") || (!shifted && poePowerHeader(c.header)) {
				if _, has := result[model][attrPOETotal]; !has {
					result[model][attrPOETotal] = v
				}
			}
		}
	}

	return result
}

// parsePOEPorts reads per-power-class port counts from free text. A captured
// count outside the sane range is rejected and the alternative phrasing is
// tried instead.
func parsePOEPorts(text string) map[string]int {
	out := map[string]int{}
	for _, class := range poeClassPatterns {
		for _, re := range class.patterns {
			m := re.FindStringSubmatch(text)
			if m == nil {
				continue
			}
			v, err := strconv.Atoi(m[1])
			if err != nil || v < minPOEPortCount || v > maxPOEPortCount {
				continue
			}
			out[class.attr] = v
			break
		}
	}
	return out
}
