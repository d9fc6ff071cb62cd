// CLAUDE:SUMMARY Model-name recognition: naming patterns, model columns, dominant series prefixes.
package specsift

import (
	"regexp"
	"strings"

	"github.com/ElanGll2023/specsift/rules"
)

var (
	// modelNamePatterns match full model identifiers like "S5130S-28P-EI".
	modelNamePatterns = []*regexp.Regexp{
		regexp.MustCompile(`^S\d{4}[A-Z]*-[\w-]+`),
		regexp.MustCompile(`^[A-Z]{2,}\d{3,}`),
	}

	// modelColumnPattern spots a model name anywhere in a column header.
	modelColumnPattern = regexp.MustCompile(`S\d+[\w\-]+`)

	// seriesKeyPrefixes mark standards-body pseudo-keys.
	seriesKeyPrefixes = []string{"RFC", "IEEE", "ITU", "IETF"}
)

// isModelName reports whether text looks like a concrete model identifier.
func isModelName(text string) bool {
	if text == "" {
		return false
	}
	for _, re := range modelNamePatterns {
		if re.MatchString(text) {
			return true
		}
	}
	return false
}

// isModelColumn reports whether a table header names a model, either by the
// naming pattern or by a known prefix from the profile.
func isModelColumn(header string, p *rules.Profile) bool {
	if modelColumnPattern.MatchString(header) {
		return true
	}
	if p != nil {
		for _, prefix := range p.ModelPrefixes {
			if strings.Contains(header, prefix) {
				return true
			}
		}
	}
	return false
}

// isMultiModelTable reports whether the table carries one column per model.
func isMultiModelTable(headers []string, p *rules.Profile) bool {
	if len(headers) <= 2 {
		return false
	}
	for _, h := range headers[1:] {
		if isModelColumn(h, p) {
			return true
		}
	}
	return false
}

// isSeriesKey reports whether an entity key denotes series-level facts
// rather than one sellable model.
func isSeriesKey(key string) bool {
	if strings.Contains(key, "Series") || strings.Contains(key, "Performance") || strings.Contains(key, "Protocols") {
		return true
	}
	for _, prefix := range seriesKeyPrefixes {
		if strings.HasPrefix(key, prefix) {
			return true
		}
	}
	return false
}

// dominantPrefix finds the page's series prefix from the first model key that
// starts with a known prefix. Prefix lists are ordered most specific first.
func dominantPrefix(modelKeys []string, p *rules.Profile) string {
	prefixes := rules.DefaultProfile().ModelPrefixes
	if p != nil && len(p.ModelPrefixes) > 0 {
		prefixes = p.ModelPrefixes
	}
	for _, key := range modelKeys {
		for _, prefix := range prefixes {
			if strings.HasPrefix(key, prefix) {
				return prefix
			}
		}
	}
	return ""
}
