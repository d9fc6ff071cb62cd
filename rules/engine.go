// CLAUDE:SUMMARY Rule engine: YAML profile/rule loading, parent inheritance, persistence, and prioritized matching.
package rules

import (
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

// ErrProfileNotFound is returned when a named profile is not loaded.
var ErrProfileNotFound = errors.New("rules: profile not found")

// Config configures the rule engine.
type Config struct {
	// Dir is the configuration directory holding profiles/ and rules/.
	// Empty means built-in rules only, nothing is persisted.
	Dir string

	// Logger for load warnings.
	Logger *slog.Logger
}

func (c *Config) defaults() {
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
}

// Engine holds loaded profiles and global rules. It is read-mostly: lookups
// take the read lock, AddProfile/UpdateRule the write lock. A profile handed
// out by Profile() is never mutated afterwards — updates swap in a clone —
// so extraction can run concurrently with rule edits.
type Engine struct {
	dir    string
	logger *slog.Logger

	mu       sync.RWMutex
	profiles map[string]*Profile
	global   map[RuleKind][]Rule
}

// NewEngine loads all configuration from cfg.Dir. A missing directory is not
// an error: the engine starts with built-in rules only. Individual files that
// fail to parse are skipped with a warning, never a fatal abort.
func NewEngine(cfg Config) (*Engine, error) {
	cfg.defaults()
	e := &Engine{
		dir:      cfg.Dir,
		logger:   cfg.Logger,
		profiles: make(map[string]*Profile),
		global:   make(map[RuleKind][]Rule),
	}
	if cfg.Dir != "" {
		e.loadGlobalRules()
		e.loadProfiles()
	}
	return e, nil
}

// ruleFile is the on-disk shape of a global rule set.
type ruleFile struct {
	Rules []Rule `yaml:"rules"`
}

func (e *Engine) loadGlobalRules() {
	files := map[RuleKind]string{
		KindTableDetection: "table_detection.yaml",
		KindParamMapping:   "param_mappings.yaml",
	}
	for kind, name := range files {
		path := filepath.Join(e.dir, "rules", name)
		data, err := os.ReadFile(path)
		if err != nil {
			continue // optional
		}
		var rf ruleFile
		if err := yaml.Unmarshal(data, &rf); err != nil {
			e.logger.Warn("rules: skipping unparseable rule file", "path", path, "error", err)
			continue
		}
		e.global[kind] = rf.Rules
	}
}

func (e *Engine) loadProfiles() {
	dir := filepath.Join(e.dir, "profiles")
	entries, err := os.ReadDir(dir)
	if err != nil {
		return
	}
	// Sorted load order makes parent-before-child resolution deterministic.
	names := make([]string, 0, len(entries))
	for _, ent := range entries {
		if !ent.IsDir() && (strings.HasSuffix(ent.Name(), ".yaml") || strings.HasSuffix(ent.Name(), ".yml")) {
			names = append(names, ent.Name())
		}
	}
	sort.Strings(names)

	for _, name := range names {
		path := filepath.Join(dir, name)
		data, err := os.ReadFile(path)
		if err != nil {
			e.logger.Warn("rules: cannot read profile", "path", path, "error", err)
			continue
		}
		var p Profile
		if err := yaml.Unmarshal(data, &p); err != nil {
			e.logger.Warn("rules: skipping unparseable profile", "path", path, "error", err)
			continue
		}
		if p.Name == "" {
			p.Name = strings.TrimSuffix(strings.TrimSuffix(name, ".yaml"), ".yml")
		}
		if p.ParentProfile != "" {
			if parent, ok := e.profiles[p.ParentProfile]; ok {
				p.inherit(parent)
			} else {
				e.logger.Warn("rules: parent profile not loaded, inheriting nothing",
					"profile", p.Name, "parent", p.ParentProfile)
			}
		}
		e.profiles[p.Name] = &p
	}
}

// Profile returns a loaded profile by name.
func (e *Engine) Profile(name string) (*Profile, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	p, ok := e.profiles[name]
	return p, ok
}

// Profiles lists all loaded profiles sorted by name.
func (e *Engine) Profiles() []*Profile {
	e.mu.RLock()
	defer e.mu.RUnlock()
	out := make([]*Profile, 0, len(e.profiles))
	for _, p := range e.profiles {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// AddProfile registers a profile and, when a config dir is set, persists it.
func (e *Engine) AddProfile(p *Profile) error {
	if p == nil || p.Name == "" {
		return fmt.Errorf("rules: profile needs a name")
	}
	e.mu.Lock()
	e.profiles[p.Name] = p
	e.mu.Unlock()
	return e.saveProfile(p)
}

// UpdateRule upserts a rule (by name) into a profile's rule list of the given
// kind and persists the profile. The update is applied to a clone that is
// swapped into the profile map: anyone already holding the profile keeps
// reading the pre-update snapshot.
func (e *Engine) UpdateRule(profileName string, kind RuleKind, r Rule) error {
	e.mu.Lock()
	old, ok := e.profiles[profileName]
	if !ok {
		e.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrProfileNotFound, profileName)
	}
	p := old.clone()
	r.Params = maps.Clone(r.Params)
	list := &p.TableDetectionRules
	if kind == KindParamMapping {
		list = &p.ParamMappingRules
	}
	replaced := false
	for i := range *list {
		if (*list)[i].Name == r.Name {
			(*list)[i] = r
			replaced = true
			break
		}
	}
	if !replaced {
		*list = append(*list, r)
	}
	e.profiles[profileName] = p
	e.mu.Unlock()
	return e.saveProfile(p)
}

func (e *Engine) saveProfile(p *Profile) error {
	if e.dir == "" {
		return nil
	}
	dir := filepath.Join(e.dir, "profiles")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("rules: mkdir: %w", err)
	}
	data, err := yaml.Marshal(p)
	if err != nil {
		return fmt.Errorf("rules: marshal profile %s: %w", p.Name, err)
	}
	path := filepath.Join(dir, p.Name+".yaml")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("rules: write profile %s: %w", p.Name, err)
	}
	return nil
}

// MapParam resolves a raw parameter name to a canonical attribute name.
// Resolution order: profile rules, global rules, built-in fallback table.
// Returns false when nothing maps — callers drop the parameter.
func (e *Engine) MapParam(p *Profile, raw string) (string, bool) {
	lower := strings.ToLower(raw)

	if p != nil {
		if target, ok := e.matchMapping(p.ParamMappingRules, lower); ok {
			return target, true
		}
	}
	e.mu.RLock()
	global := e.global[KindParamMapping]
	e.mu.RUnlock()
	if target, ok := e.matchMapping(global, lower); ok {
		return target, true
	}

	for _, m := range builtinMappings {
		if m.pattern.MatchString(lower) {
			return m.target, true
		}
	}
	return "", false
}

func (e *Engine) matchMapping(list []Rule, lower string) (string, bool) {
	for _, r := range sortByPriority(list) {
		if !r.Enabled || r.Action != ActionMapTo {
			continue
		}
		re := e.compile(r)
		if re == nil {
			continue
		}
		if re.MatchString(lower) {
			return r.Params["target"], true
		}
	}
	return "", false
}

// TableHint consults table_detection rules against the table's lowercased
// text. It returns the forced extractor name, or skip=true for a skip rule.
func (e *Engine) TableHint(p *Profile, text string) (extractor string, skip bool, ok bool) {
	lower := strings.ToLower(text)

	lists := make([][]Rule, 0, 2)
	if p != nil {
		lists = append(lists, p.TableDetectionRules)
	}
	e.mu.RLock()
	lists = append(lists, e.global[KindTableDetection])
	e.mu.RUnlock()

	for _, list := range lists {
		for _, r := range sortByPriority(list) {
			if !r.Enabled {
				continue
			}
			re := e.compile(r)
			if re == nil {
				continue
			}
			if !re.MatchString(lower) {
				continue
			}
			switch r.Action {
			case ActionSkip:
				return "", true, true
			case ActionUseExtractor:
				return r.Params["extractor"], false, true
			}
		}
	}
	return "", false, false
}

// ShouldSkipParam reports whether a parameter name matches a skip pattern
// (built-in or profile-defined) or a param_mapping rule with a skip action.
func (e *Engine) ShouldSkipParam(p *Profile, param string) bool {
	lower := strings.ToLower(param)
	for _, re := range builtinSkipPatterns {
		if re.MatchString(lower) {
			return true
		}
	}
	if p != nil {
		for _, pat := range p.SkipPatterns {
			re, err := regexp.Compile(pat)
			if err != nil {
				e.logger.Debug("rules: bad skip pattern", "pattern", pat, "error", err)
				continue
			}
			if re.MatchString(lower) {
				return true
			}
		}
		if e.matchSkip(p.ParamMappingRules, lower) {
			return true
		}
	}
	e.mu.RLock()
	global := e.global[KindParamMapping]
	e.mu.RUnlock()
	return e.matchSkip(global, lower)
}

func (e *Engine) matchSkip(list []Rule, lower string) bool {
	for _, r := range list {
		if !r.Enabled || r.Action != ActionSkip {
			continue
		}
		re := e.compile(r)
		if re != nil && re.MatchString(lower) {
			return true
		}
	}
	return false
}

// compile compiles a rule's pattern. A malformed pattern disables only that
// rule; one bad user rule must never break extraction of a page.
func (e *Engine) compile(r Rule) *regexp.Regexp {
	re, err := regexp.Compile(r.Pattern)
	if err != nil {
		e.logger.Debug("rules: skipping rule with bad pattern",
			"rule", r.Name, "pattern", r.Pattern, "error", err)
		return nil
	}
	return re
}

// sortByPriority returns rules ordered highest priority first, preserving
// declaration order on ties.
func sortByPriority(list []Rule) []Rule {
	out := make([]Rule, len(list))
	copy(out, list)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Priority > out[j].Priority })
	return out
}
