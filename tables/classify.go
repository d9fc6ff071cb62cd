// CLAUDE:SUMMARY Heuristic table-kind classifier scoring text keywords and header terms against a fixed catalogue.
package tables

import "strings"

// Kind is the semantic kind of a spec table.
type Kind string

const (
	KindHardwareMulti  Kind = "hardware_multi_model"
	KindHardwareSingle Kind = "hardware_single_model"
	KindPOEPower       Kind = "poe_power"
	KindSoftware       Kind = "software_features"
	KindPerformance    Kind = "performance"
	KindProtocols      Kind = "protocols"
	KindGeneric        Kind = "generic"
	KindUnknown        Kind = "unknown"
)

// Classification is the outcome of classifying one table.
type Classification struct {
	Kind       Kind
	Confidence float64 // 0..1
}

// signature describes the textual fingerprint of one table kind.
// Keywords are matched against the full table text (2 points each),
// header terms against the concatenated header string (3 points each).
type signature struct {
	kind        Kind
	keywords    []string
	headerTerms []string
}

// Declaration order matters: on a score tie the first declared kind wins,
// and protocols must come before poe_power because POE keyword sets overlap
// with model-name substrings that also appear in compliance tables.
var catalogue = []signature{
	{
		kind:        KindProtocols,
		keywords:    []string{"organization", "ieee", "standard", "protocol", "compliance"},
		headerTerms: []string{"organization", "standards"},
	},
	{
		kind:        KindPOEPower,
		keywords:    []string{"poe", "power capacity", "802.3af", "802.3at", "quantity"},
		headerTerms: []string{"model", "power", "quantity"},
	},
	{
		kind:        KindSoftware,
		keywords:    []string{"software", "feature", "vlan", "routing", "multicast"},
		headerTerms: []string{"feature", "description", "specification"},
	},
	{
		kind:        KindPerformance,
		keywords:    []string{"entries", "mac address", "vlan table", "routing", "performance"},
		headerTerms: []string{"entries", "table", "capacity"},
	},
	{
		kind:        KindHardwareMulti,
		keywords:    []string{"port", "switching capacity", "feature", "model"},
		headerTerms: []string{"feature", "port", "model"},
	},
	{
		kind:        KindHardwareSingle,
		keywords:    []string{"specification", "attribute", "value"},
		headerTerms: []string{"attribute", "value", "specification"},
	},
}

const unknownConfidence = 0.3

// Classify scores a table's text and headers against the kind catalogue.
func Classify(text string, headers []string) Classification {
	textLower := strings.ToLower(text)
	headerStr := strings.ToLower(strings.Join(headers, " "))

	// Protocol/standards signals are checked before any scoring: compliance
	// tables routinely contain "PoE" inside model names and would otherwise
	// leak into poe_power.
	if strings.Contains(textLower, "organization") && containsAny(textLower, "ieee", "rfc", "standard") {
		return Classification{Kind: KindProtocols, Confidence: clamp(score(catalogue[0], textLower, headerStr))}
	}

	best := Classification{Kind: KindUnknown, Confidence: unknownConfidence}
	bestScore := 0
	for _, sig := range catalogue {
		s := score(sig, textLower, headerStr)
		if s > bestScore {
			bestScore = s
			best = Classification{Kind: sig.kind, Confidence: clamp(s)}
		}
	}
	return best
}

func score(sig signature, textLower, headerStr string) int {
	s := 0
	for _, kw := range sig.keywords {
		if strings.Contains(textLower, kw) {
			s += 2
		}
	}
	for _, h := range sig.headerTerms {
		if strings.Contains(headerStr, h) {
			s += 3
		}
	}
	return s
}

func clamp(score int) float64 {
	c := float64(score) / 10
	if c > 1.0 {
		return 1.0
	}
	return c
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
