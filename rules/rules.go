// CLAUDE:SUMMARY Rule and Profile types for the configurable extraction rule sets, with YAML defaults.
// Package rules implements the configurable rule sets that drive table
// detection and parameter normalization.
//
// Rules live in YAML files: global rule sets under <dir>/rules and per-product
// profiles under <dir>/profiles. A profile may name a parent profile; child
// rules with the same name replace the parent's, all others are appended.
package rules

import "gopkg.in/yaml.v3"

// RuleKind identifies what a rule applies to.
type RuleKind string

const (
	KindTableDetection RuleKind = "table_detection"
	KindParamMapping   RuleKind = "param_mapping"
)

// Action is what a matching rule does.
type Action string

const (
	ActionMapTo        Action = "map_to"        // map a parameter name to params["target"]
	ActionUseExtractor Action = "use_extractor" // force the extractor in params["extractor"]
	ActionSkip         Action = "skip"          // drop the table or parameter
)

// Rule is a single prioritized pattern rule. Identity is by Name.
type Rule struct {
	Name     string            `yaml:"name" json:"name"`
	Pattern  string            `yaml:"pattern" json:"pattern"`
	Kind     RuleKind          `yaml:"rule_kind" json:"rule_kind"`
	Action   Action            `yaml:"action" json:"action"`
	Params   map[string]string `yaml:"params,omitempty" json:"params,omitempty"`
	Priority int               `yaml:"priority" json:"priority"`
	Enabled  bool              `yaml:"enabled" json:"enabled"`
}

// UnmarshalYAML applies defaults for fields rule files usually omit.
func (r *Rule) UnmarshalYAML(value *yaml.Node) error {
	type plain Rule
	tmp := plain{Priority: 100, Enabled: true}
	if err := value.Decode(&tmp); err != nil {
		return err
	}
	*r = Rule(tmp)
	return nil
}

// Profile is a named, inheritable bundle of rules for one product family.
type Profile struct {
	Name                string   `yaml:"name" json:"name"`
	ProductType         string   `yaml:"product_type" json:"product_type"`
	SubType             string   `yaml:"sub_type" json:"sub_type"`
	ParentProfile       string   `yaml:"parent_profile,omitempty" json:"parent_profile,omitempty"`
	TableDetectionRules []Rule   `yaml:"table_detection_rules,omitempty" json:"table_detection_rules,omitempty"`
	ParamMappingRules   []Rule   `yaml:"param_mapping_rules,omitempty" json:"param_mapping_rules,omitempty"`
	SkipPatterns        []string `yaml:"skip_patterns,omitempty" json:"skip_patterns,omitempty"`

	// URLPatterns and StructureTerms feed profile auto-detection:
	// regexes matched against the page URL, and substrings matched
	// against table headers.
	URLPatterns    []string `yaml:"url_patterns,omitempty" json:"url_patterns,omitempty"`
	StructureTerms []string `yaml:"structure_terms,omitempty" json:"structure_terms,omitempty"`

	// ModelPrefixes are known model-name prefixes for this family, most
	// specific first. ChassisPrefixes mark modular (chassis) families.
	ModelPrefixes   []string `yaml:"model_prefixes,omitempty" json:"model_prefixes,omitempty"`
	ChassisPrefixes []string `yaml:"chassis_prefixes,omitempty" json:"chassis_prefixes,omitempty"`
}

// clone returns a copy with its own slices. Rule updates swap a clone into
// the engine's profile map, so a profile handed to a reader is an immutable
// snapshot and extraction never observes an update mid-flight.
func (p *Profile) clone() *Profile {
	c := *p
	c.TableDetectionRules = append([]Rule(nil), p.TableDetectionRules...)
	c.ParamMappingRules = append([]Rule(nil), p.ParamMappingRules...)
	c.SkipPatterns = append([]string(nil), p.SkipPatterns...)
	c.URLPatterns = append([]string(nil), p.URLPatterns...)
	c.StructureTerms = append([]string(nil), p.StructureTerms...)
	c.ModelPrefixes = append([]string(nil), p.ModelPrefixes...)
	c.ChassisPrefixes = append([]string(nil), p.ChassisPrefixes...)
	return &c
}

// mergeRules combines parent and child rule lists. A child rule replaces a
// same-named parent rule in place; remaining child rules are appended.
// Both inputs are left untouched.
func mergeRules(parent, child []Rule) []Rule {
	byName := make(map[string]Rule, len(child))
	for _, r := range child {
		byName[r.Name] = r
	}

	out := make([]Rule, 0, len(parent)+len(child))
	seen := make(map[string]bool, len(parent))
	for _, p := range parent {
		if c, ok := byName[p.Name]; ok {
			out = append(out, c)
		} else {
			out = append(out, p)
		}
		seen[p.Name] = true
	}
	for _, c := range child {
		if !seen[c.Name] {
			out = append(out, c)
		}
	}
	return out
}

// inherit resolves one level of parent inheritance, producing a new profile.
func (p *Profile) inherit(parent *Profile) {
	p.TableDetectionRules = mergeRules(parent.TableDetectionRules, p.TableDetectionRules)
	p.ParamMappingRules = mergeRules(parent.ParamMappingRules, p.ParamMappingRules)
	p.SkipPatterns = appendMissing(parent.SkipPatterns, p.SkipPatterns)
	p.ModelPrefixes = appendMissing(parent.ModelPrefixes, p.ModelPrefixes)
	p.ChassisPrefixes = appendMissing(parent.ChassisPrefixes, p.ChassisPrefixes)
}

func appendMissing(parent, child []string) []string {
	seen := make(map[string]bool, len(parent))
	out := make([]string, 0, len(parent)+len(child))
	for _, s := range parent {
		out = append(out, s)
		seen[s] = true
	}
	for _, s := range child {
		if !seen[s] {
			out = append(out, s)
		}
	}
	return out
}
