// CLAUDE:SUMMARY Page analysis: per-table classification report, parameter discovery, profile suggestion.
// Package analyze inspects a spec page and reports what the extraction
// pipeline would see: table kinds with confidence, merged-cell structure,
// discovered parameter names, and a suggested rule profile.
//
// The report feeds the review wizard and the profile template generator;
// it never changes extraction behaviour by itself.
package analyze

import (
	"regexp"
	"sort"
	"strings"

	"github.com/ElanGll2023/specsift/rules"
	"github.com/ElanGll2023/specsift/tables"
)

// sampleRows caps how many data rows a table report carries.
const sampleRows = 3

// TableReport describes one classified table.
type TableReport struct {
	Index              int                 `json:"index"`
	Kind               tables.Kind         `json:"kind"`
	Confidence         float64             `json:"confidence"`
	Headers            []string            `json:"headers"`
	RowCount           int                 `json:"row_count"`
	HasRowspan         bool                `json:"has_rowspan"`
	HasColspan         bool                `json:"has_colspan"`
	Sample             []map[string]string `json:"sample,omitempty"`
	SuggestedExtractor string              `json:"suggested_extractor"`
}

// ParamReport is one parameter name discovered in hardware tables.
type ParamReport struct {
	Name             string `json:"name"`
	Frequency        int    `json:"frequency"`
	SuggestedMapping string `json:"suggested_mapping,omitempty"`
}

// Report is the full page analysis.
type Report struct {
	URL              string        `json:"url"`
	Tables           []TableReport `json:"tables"`
	Params           []ParamReport `json:"params,omitempty"`
	SuggestedProfile string        `json:"suggested_profile,omitempty"`
	Confidence       float64       `json:"confidence"`
}

// Analyze parses and classifies every data table on a page.
func Analyze(htmlText, pageURL string, eng *rules.Engine) (*Report, error) {
	ts, err := tables.Parse(htmlText, 0)
	if err != nil {
		return nil, err
	}

	r := &Report{URL: pageURL}
	paramFreq := make(map[string]int)
	var paramOrder []string

	var confSum float64
	for _, t := range ts {
		cls := tables.Classify(t.Text, t.Headers)
		tr := TableReport{
			Index:              t.Index,
			Kind:               cls.Kind,
			Confidence:         cls.Confidence,
			Headers:            t.Headers,
			RowCount:           len(t.Rows),
			HasRowspan:         t.HasRowspan,
			HasColspan:         t.HasColspan,
			SuggestedExtractor: suggestedExtractor(cls.Kind, t.Headers),
		}
		for i, row := range t.Rows {
			if i == sampleRows {
				break
			}
			tr.Sample = append(tr.Sample, row)
		}
		r.Tables = append(r.Tables, tr)
		confSum += cls.Confidence

		// Parameter discovery: first-column names of hardware tables.
		if tr.SuggestedExtractor == "multi_model_hardware" || tr.SuggestedExtractor == "generic" {
			for _, row := range t.Rows {
				name := strings.TrimSpace(row[t.Headers[0]])
				if name == "" {
					continue
				}
				if paramFreq[name] == 0 {
					paramOrder = append(paramOrder, name)
				}
				paramFreq[name]++
			}
		}
	}

	for _, name := range paramOrder {
		p := ParamReport{Name: name, Frequency: paramFreq[name]}
		if target, ok := eng.MapParam(nil, name); ok {
			p.SuggestedMapping = target
		}
		r.Params = append(r.Params, p)
	}

	if len(r.Tables) > 0 {
		r.Confidence = confSum / float64(len(r.Tables))
	}
	r.SuggestedProfile = SuggestProfile(ts, pageURL, eng)
	return r, nil
}

var modelHeaderPattern = regexp.MustCompile(`S\d+[\w\-]+`)

func suggestedExtractor(kind tables.Kind, headers []string) string {
	switch kind {
	case tables.KindPOEPower:
		return "poe_power"
	case tables.KindSoftware:
		return "software"
	case tables.KindPerformance:
		return "performance"
	case tables.KindProtocols:
		return "protocols"
	}
	if len(headers) > 2 {
		for _, h := range headers[1:] {
			if modelHeaderPattern.MatchString(h) {
				return "multi_model_hardware"
			}
		}
	}
	return "generic"
}

// SuggestProfile picks a loaded profile for a page. Structure evidence
// (profile structure terms found in table headers) beats URL patterns;
// URL matching is only the tiebreaker when no structure term matches.
func SuggestProfile(ts []tables.Table, pageURL string, eng *rules.Engine) string {
	profiles := eng.Profiles()

	for _, p := range profiles {
		if matchesStructure(p, ts) {
			return p.Name
		}
	}

	urlLower := strings.ToLower(pageURL)
	for _, p := range profiles {
		for _, pat := range p.URLPatterns {
			re, err := regexp.Compile(pat)
			if err != nil {
				continue
			}
			if re.MatchString(urlLower) {
				return p.Name
			}
		}
	}
	return ""
}

func matchesStructure(p *rules.Profile, ts []tables.Table) bool {
	if len(p.StructureTerms) == 0 {
		return false
	}
	for _, t := range ts {
		hdr := strings.ToLower(strings.Join(t.Headers, " "))
		for _, term := range p.StructureTerms {
			if strings.Contains(hdr, strings.ToLower(term)) {
				return true
			}
		}
	}
	return false
}

// SortParamsByFrequency orders discovered parameters most frequent first,
// for template generation and wizard display.
func (r *Report) SortParamsByFrequency() {
	sort.SliceStable(r.Params, func(i, j int) bool {
		return r.Params[i].Frequency > r.Params[j].Frequency
	})
}
