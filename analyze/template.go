// CLAUDE:SUMMARY Generates a starter rule-profile YAML from a page analysis report.
package analyze

import (
	"fmt"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ElanGll2023/specsift/rules"
)

// ProfileTemplate builds a YAML rule profile seeded from a page analysis.
// Every classified table becomes a table_detection rule and every
// discovered parameter becomes a param_mapping rule; mappings the builtin
// catalogue could not resolve are left with an empty target for the
// operator to fill in.
func ProfileTemplate(name string, r *Report) (string, error) {
	p := rules.Profile{Name: name}

	for _, t := range r.Tables {
		pat := tablePattern(t.Headers)
		if pat == "" {
			continue
		}
		p.TableDetectionRules = append(p.TableDetectionRules, rules.Rule{
			Name:    fmt.Sprintf("table_%d_%s", t.Index, t.Kind),
			Pattern: pat,
			Kind:    rules.KindTableDetection,
			Action:  rules.ActionUseExtractor,
			Params:  map[string]string{"extractor": t.SuggestedExtractor},
			Enabled: true,
		})
	}

	for _, par := range r.Params {
		p.ParamMappingRules = append(p.ParamMappingRules, rules.Rule{
			Name:    "map_" + sanitizeRuleName(par.Name),
			Pattern: regexp.QuoteMeta(strings.ToLower(par.Name)),
			Kind:    rules.KindParamMapping,
			Action:  rules.ActionMapTo,
			Params:  map[string]string{"target": par.SuggestedMapping},
			Enabled: true,
		})
	}

	out, err := yaml.Marshal(&p)
	if err != nil {
		return "", fmt.Errorf("analyze: marshal profile template: %w", err)
	}
	var b strings.Builder
	b.WriteString("# Generated profile template. Review patterns and fill in\n")
	b.WriteString("# empty targets before enabling.\n")
	b.Write(out)
	return b.String(), nil
}

// tablePattern derives a case-insensitive detection pattern from the first
// two header cells.
func tablePattern(headers []string) string {
	var parts []string
	for _, h := range headers {
		h = strings.TrimSpace(h)
		if h == "" {
			continue
		}
		parts = append(parts, regexp.QuoteMeta(strings.ToLower(h)))
		if len(parts) == 2 {
			break
		}
	}
	if len(parts) == 0 {
		return ""
	}
	return strings.Join(parts, `.*`)
}

func sanitizeRuleName(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r > 127:
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	return strings.Trim(b.String(), "_")
}
