// CLAUDE:SUMMARY Decomposes compound port descriptions ("24 (8*BASE-T combo)") into typed count attributes.
package specsift

import (
	"regexp"
	"strconv"
	"strings"
)

var portFamilyKeywords = []string{
	"sfp", "qsfp", "base-t", "ethernet", "port", "光口", "电口", "multigiga", "multi-giga",
}

// isPortDescription reports whether a feature row describes ports.
func isPortDescription(feature string) bool {
	lower := strings.ToLower(feature)
	for _, kw := range portFamilyKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

var (
	portCountPattern = regexp.MustCompile(`^(\d+)\s*(?:\([^)]*\))?`)
	comboPattern     = regexp.MustCompile(`\((\d+)\s*\*?\s*(?:base-t\s*)?combo\)`)

	// Guarded family patterns: the [^q] prefix keeps "sfp28" from matching
	// inside "qsfp28", and "sfp" from matching inside "qsfp". Order is most
	// specific family first; the generic families must never shadow them.
	famSFP28     = regexp.MustCompile(`(^|[^q])sfp28`)
	famSFPPlus   = regexp.MustCompile(`(^|[^q])sfp\+|(^|[^q])sfp plus`)
	famQSFP28    = regexp.MustCompile(`qsfp28`)
	famQSFPPlus  = regexp.MustCompile(`qsfp\+|qsfp plus`)
	famSFP       = regexp.MustCompile(`(^|[^q])sfp`)
	famMultiGiga = regexp.MustCompile(`multigiga|multi-giga|2\.5g`)
	famBaseT     = regexp.MustCompile(`base-t|ethernet|电口`)

	ratePatterns = []struct {
		re   *regexp.Regexp
		attr string
	}{
		{regexp.MustCompile(`(\d+)\s*[\*x×]?\s*2\.5g`), attrPorts2G5},
		{regexp.MustCompile(`(\d+)\s*[\*x×]?\s*5g`), attrPorts5G},
		{regexp.MustCompile(`(\d+)\s*[\*x×]?\s*10g`), attrPorts10G},
	}
)

// parsePortDescription decomposes a compound port cell into typed counts.
// One cell may yield several attributes: the primary family count, a combo
// count, and rate-specific sub-counts. Values of "/", "-" or empty are
// "not applicable" and yield nothing.
func parsePortDescription(feature, value string) Attributes {
	out := Attributes{}

	v := strings.TrimSpace(value)
	if v == "" || v == "/" || v == "-" {
		return out
	}

	text := strings.ToLower(v + " " + feature)
	valueLower := strings.ToLower(v)

	if m := portCountPattern.FindStringSubmatch(valueLower); m != nil {
		count, _ := strconv.Atoi(m[1])
		switch {
		case famSFP28.MatchString(text):
			out[attrPortsSFP28] = count
		case famSFPPlus.MatchString(text):
			out[attrPortsSFPPlus] = count
		case famQSFP28.MatchString(text):
			out[attrPortsQSFP28] = count
		case famQSFPPlus.MatchString(text):
			out[attrPortsQSFPPlus] = count
		case famSFP.MatchString(text):
			out[attrPortsSFP] = count
		case famMultiGiga.MatchString(text):
			out[attrPortsMultiGiga] = count
			// MultiGiga ports run at several rates; record each one the
			// cell mentions explicitly.
			if strings.Contains(text, "1g") {
				out[attrPorts1G] = count
			}
			if strings.Contains(text, "2.5g") {
				out[attrPorts2G5] = count
			}
			if strings.Contains(text, "5g") {
				out[attrPorts5G] = count
			}
			if strings.Contains(text, "10g") {
				out[attrPorts10G] = count
			}
		case famBaseT.MatchString(text):
			out[attrPortsBaseT] = count
		}
	}

	if m := comboPattern.FindStringSubmatch(text); m != nil {
		n, _ := strconv.Atoi(m[1])
		out[attrPortsCombo] = n
	}

	for _, rp := range ratePatterns {
		if m := rp.re.FindStringSubmatch(text); m != nil {
			n, _ := strconv.Atoi(m[1])
			out[rp.attr] = n
		}
	}

	return out
}
