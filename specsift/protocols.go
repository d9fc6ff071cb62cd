// CLAUDE:SUMMARY Protocol compliance extractor with rowspan organization fold.
package specsift

import "strings"

// seriesKeyProtocols is the reserved pseudo-key protocol facts collect under.
const seriesKeyProtocols = "Protocols"

// extractProtocols handles organization/standard compliance tables. The
// organization column is routinely merged by rowspan, so a standard
// identifier ("802.*" or "RFC*") found in the organization slot means the
// real organization is the last one seen and the slot holds the standard.
func extractProtocols(headers []string, rows []map[string]string) Result {
	result := Result{}
	if len(headers) == 0 {
		return result
	}

	var pairs []string
	lastOrg := ""
	for _, row := range rows {
		org := strings.TrimSpace(row[headers[0]])
		std := ""
		if len(headers) > 1 {
			std = strings.TrimSpace(row[headers[1]])
		}

		if org != "" && !isStandardID(org) {
			lastOrg = org
		}
		if org != "" && isStandardID(org) {
			std = org
			org = lastOrg
		}

		if org != "" && std != "" {
			pairs = append(pairs, org+": "+std)
		}
	}
	if len(pairs) == 0 {
		return result
	}

	result[seriesKeyProtocols] = Attributes{attrProtocols: strings.Join(pairs, "; ")}
	return result
}

func isStandardID(s string) bool {
	return strings.HasPrefix(s, "802.") || strings.HasPrefix(s, "RFC")
}
