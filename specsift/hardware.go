// CLAUDE:SUMMARY Multi-model hardware matrix and generic key/value table extractors.
package specsift

import (
	"strings"

	"github.com/ElanGll2023/specsift/rules"
)

// genericKey is the synthetic entity key for single-model key/value tables.
const genericKey = "generic"

// extractMultiModel handles hardware matrices with one column per model.
// The first column is the raw parameter name; each model column contributes
// its cell value under the normalized name, with port descriptions
// decomposed into typed counts.
func (e *Engine) extractMultiModel(headers []string, rows []map[string]string, p *rules.Profile) Result {
	result := Result{}

	featureCol := headers[0]
	var modelCols []string
	for _, h := range headers[1:] {
		if isModelColumn(h, p) {
			modelCols = append(modelCols, h)
		}
	}
	for _, m := range modelCols {
		result[m] = Attributes{}
	}

	for _, row := range rows {
		feature := strings.TrimSpace(row[featureCol])
		if feature == "" || e.rules.ShouldSkipParam(p, feature) {
			continue
		}
		// Unmapped generic parameters are noise, not data loss.
		canonical, ok := e.rules.MapParam(p, feature)
		if !ok {
			continue
		}

		for _, model := range modelCols {
			value := strings.TrimSpace(row[model])
			if value == "" || value == "-" {
				continue
			}
			if isPortDescription(feature) {
				for attr, v := range parsePortDescription(feature, value) {
					result[model][attr] = v
				}
			} else {
				result[model][canonical] = value
			}
		}
	}

	return result
}

// extractGeneric handles plain two-column key/value tables with no
// multi-model structure. When the value column header names a model the
// entry is keyed by that model; otherwise everything lands under one
// synthetic entity.
func (e *Engine) extractGeneric(headers []string, rows []map[string]string, p *rules.Profile) Result {
	if len(headers) < 2 {
		return Result{}
	}

	key := genericKey
	if isModelColumn(headers[1], p) {
		if m := modelColumnPattern.FindString(headers[1]); m != "" {
			key = m
		}
	}
	result := Result{key: Attributes{}}

	for _, row := range rows {
		name := strings.TrimSpace(row[headers[0]])
		value := strings.TrimSpace(row[headers[1]])
		if name == "" || value == "" || value == "-" || e.rules.ShouldSkipParam(p, name) {
			continue
		}
		canonical, ok := e.rules.MapParam(p, name)
		if !ok {
			continue
		}
		if isPortDescription(name) {
			for attr, v := range parsePortDescription(name, value) {
				result[key][attr] = v
			}
		} else {
			result[key][canonical] = value
		}
	}

	return result
}
