// CLAUDE:SUMMARY Software-feature and performance extractors producing series-level pseudo-entries.
package specsift

import (
	"fmt"
	"strings"

	"github.com/ElanGll2023/specsift/rules"
)

// maxSoftwareFeatures caps how many feature lines fold into the single
// series-level software attribute.
const maxSoftwareFeatures = 10

// extractSoftware handles two-column feature tables whose value column names
// a model series. All features collapse into one series-level attribute.
func (e *Engine) extractSoftware(headers []string, rows []map[string]string, p *rules.Profile) Result {
	result := Result{}
	if len(headers) < 2 {
		return result
	}
	featureCol, valueCol := headers[0], headers[1]

	var features []string
	for _, row := range rows {
		feature := strings.TrimSpace(row[featureCol])
		value := strings.TrimSpace(row[valueCol])
		if feature == "" || value == "" || e.rules.ShouldSkipParam(p, feature) {
			continue
		}
		features = append(features, feature+": "+value)
		if len(features) == maxSoftwareFeatures {
			break
		}
	}
	if len(features) == 0 {
		return result
	}

	series := softwareSeriesKey(valueCol)
	result[series] = Attributes{attrSoftware: strings.Join(features, "; ")}
	return result
}

func softwareSeriesKey(valueCol string) string {
	if strings.Contains(valueCol, "S") {
		return valueCol
	}
	return "Series"
}

// perfRules map feature-name substrings to canonical performance attributes.
// Ordered; first match wins.
var perfRules = []struct {
	match func(string) bool
	attr  string
}{
	{func(s string) bool { return strings.Contains(s, "mac") }, attrMACTable},
	{func(s string) bool { return strings.Contains(s, "vlan") && strings.Contains(s, "table") }, attrVLANTable},
	{func(s string) bool { return strings.Contains(s, "routing") || strings.Contains(s, "route") }, attrRouteTable},
	{func(s string) bool { return strings.Contains(s, "arp") }, attrARPTable},
	{func(s string) bool { return strings.Contains(s, "acl") }, attrACLRules},
	{func(s string) bool { return strings.Contains(s, "mroute") || strings.Contains(s, "multicast") }, attrMcastTable},
}

// extractPerformance handles entry-count tables. The result key is derived
// from the series name but rewritten so it can never collide with the
// software-feature series key for the same table header.
func extractPerformance(headers []string, rows []map[string]string) Result {
	result := Result{}
	if len(headers) < 2 {
		return result
	}
	featureCol, valueCol := headers[0], headers[1]

	perf := Attributes{}
	for _, row := range rows {
		feature := strings.ToLower(strings.TrimSpace(row[featureCol]))
		value := strings.TrimSpace(row[valueCol])
		if feature == "" || value == "" {
			continue
		}
		for _, pr := range perfRules {
			if pr.match(feature) {
				perf[pr.attr] = value
				break
			}
		}
	}
	if len(perf) == 0 {
		return result
	}

	result[performanceSeriesKey(valueCol)] = perf
	return result
}

func performanceSeriesKey(valueCol string) string {
	if !strings.Contains(valueCol, "S") {
		return "Performance"
	}
	if strings.Contains(valueCol, "Switches") {
		return strings.ReplaceAll(valueCol, "Switches", "Performance")
	}
	return fmt.Sprintf("%s Performance", valueCol)
}
