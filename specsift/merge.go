// CLAUDE:SUMMARY Cross-table merge: series propagation, field folding, form-factor derivation, page attributes.
package specsift

import (
	"fmt"
	"sort"
	"strings"

	"github.com/ElanGll2023/specsift/rules"
)

// merger accumulates per-table fragments for one page, keeping entity keys
// partitioned into model entries and series-level pseudo-entries. Insertion
// order of model keys is tracked explicitly: the dominant series prefix is
// taken from the first recognized model.
type merger struct {
	models      map[string]Attributes
	modelOrder  []string
	series      map[string]Attributes
	seriesOrder []string
}

func newMerger() *merger {
	return &merger{
		models: make(map[string]Attributes),
		series: make(map[string]Attributes),
	}
}

// add folds one table's fragment into the accumulator. For duplicate
// attributes the later table wins. Fragment keys are visited in sorted order
// so a page always merges deterministically.
func (m *merger) add(frag Result) {
	keys := make([]string, 0, len(frag))
	for k := range frag {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		attrs := frag[key]
		if len(attrs) == 0 {
			continue
		}
		if isSeriesKey(key) {
			if m.series[key] == nil {
				m.series[key] = Attributes{}
				m.seriesOrder = append(m.seriesOrder, key)
			}
			for a, v := range attrs {
				m.series[key][a] = v
			}
			continue
		}
		if m.models[key] == nil {
			m.models[key] = Attributes{}
			m.modelOrder = append(m.modelOrder, key)
		}
		for a, v := range attrs {
			m.models[key][a] = v
		}
	}
}

// finalize produces the page result: series facts propagated onto every
// model, legacy fields folded, derived attributes attached.
func (m *merger) finalize(p *rules.Profile, pageURL string, descriptions map[string]string, seriesFeatures string) Result {
	dominant := dominantPrefix(m.modelOrder, p)

	for _, seriesKey := range m.seriesOrder {
		if !m.seriesApplies(seriesKey, dominant) {
			continue
		}
		for _, model := range m.modelOrder {
			for a, v := range m.series[seriesKey] {
				m.models[model][a] = v
			}
		}
	}

	for _, model := range m.modelOrder {
		attrs := m.models[model]
		foldLegacyFields(attrs)
		attrs[attrSwitchType] = switchType(model, attrs, p)
		attrs[attrURL] = pageURL
		if desc, ok := descriptions[model]; ok {
			attrs[attrModelDesc] = desc
		}
		if seriesFeatures != "" {
			attrs[attrSeriesFeatures] = seriesFeatures
		}
	}

	out := Result{}
	for _, model := range m.modelOrder {
		out[model] = m.models[model]
	}
	return out
}

// seriesApplies decides whether a series fragment belongs on this page's
// models: protocol and performance facts apply universally, everything else
// only when the series key carries the page's dominant model prefix.
func (m *merger) seriesApplies(seriesKey, dominant string) bool {
	if strings.Contains(seriesKey, "Protocols") || strings.Contains(seriesKey, "Performance") {
		return true
	}
	return dominant != "" && strings.Contains(seriesKey, dominant)
}

// foldLegacyFields reconciles duplicate attribute names in place.
func foldLegacyFields(attrs Attributes) {
	// A generic 1G count is the 1000Base-T count when nothing better exists.
	if v, ok := attrs[attrPorts1G]; ok {
		if _, has := attrs[attrPortsBaseT]; !has {
			attrs[attrPortsBaseT] = v
		}
		delete(attrs, attrPorts1G)
	}

	// AC/DC power sub-attributes join into the single total.
	var parts []string
	if v, ok := attrs[attrPOETotalAC]; ok {
		parts = append(parts, "AC:"+watts(v))
	}
	if v, ok := attrs[attrPOETotalDC]; ok {
		parts = append(parts, "DC:"+watts(v))
	}
	if len(parts) > 0 {
		if _, has := attrs[attrPOETotal]; !has {
			attrs[attrPOETotal] = strings.Join(parts, "/")
		}
	}
	delete(attrs, attrPOETotalAC)
	delete(attrs, attrPOETotalDC)
}

// watts renders a power value with exactly one trailing W, whatever unit
// spelling the source cell used.
func watts(v any) string {
	s := strings.TrimSpace(fmt.Sprint(v))
	s = strings.TrimSpace(strings.TrimSuffix(strings.TrimSuffix(s, "W"), "w"))
	return s + "W"
}

// chassisAttrTerms mark attributes only modular chassis products carry.
var chassisAttrTerms = []string{"业务板槽位", "主控板槽位", "接口板槽位", "槽位数", "chassis", "slot"}

// switchType derives the hardware form factor: fixed-configuration box
// vs modular chassis.
func switchType(model string, attrs Attributes, p *rules.Profile) string {
	prefixes := rules.DefaultProfile().ChassisPrefixes
	if p != nil && len(p.ChassisPrefixes) > 0 {
		prefixes = p.ChassisPrefixes
	}
	for _, prefix := range prefixes {
		if strings.HasPrefix(model, prefix) {
			return switchTypeChassis
		}
	}
	for name := range attrs {
		lower := strings.ToLower(name)
		for _, term := range chassisAttrTerms {
			if strings.Contains(lower, term) {
				return switchTypeChassis
			}
		}
	}
	return switchTypeBox
}
