// CLAUDE:SUMMARY Extraction engine: profile resolution, per-table classify/dispatch, page merge.
// Package specsift extracts structured product specifications from vendor
// HTML spec pages.
//
// A page runs through a fixed pipeline: table structure parsing, heuristic
// table-kind classification, one kind-specific extractor per table, and a
// cross-table merge that propagates series-level facts (protocols,
// performance, software features) onto every model found on the page.
// Extraction is best-effort: tables, rows and parameters that fail to
// classify or normalize contribute nothing, they never fail the page.
//
// Usage:
//
//	eng := specsift.New(specsift.Config{})
//	result := eng.Extract(htmlText, pageURL, "")
//	for model, attrs := range result { ... }
package specsift

import (
	"log/slog"

	"github.com/ElanGll2023/specsift/analyze"
	"github.com/ElanGll2023/specsift/rules"
	"github.com/ElanGll2023/specsift/tables"
)

// Extractor names, as referenced by rule files through the use_extractor
// action.
const (
	ExtractorMultiModel  = "multi_model_hardware"
	ExtractorGeneric     = "generic"
	ExtractorPOEPower    = "poe_power"
	ExtractorSoftware    = "software"
	ExtractorPerformance = "performance"
	ExtractorProtocols   = "protocols"
)

// Config configures the extraction engine.
type Config struct {
	// MinTableText is the minimum visible text length for a table to be
	// treated as data. Default: tables.DefaultMinText.
	MinTableText int

	// Rules is the rule engine. Default: built-in rules only.
	Rules *rules.Engine

	// Logger for skip/warning messages.
	Logger *slog.Logger
}

func (c *Config) defaults() {
	if c.MinTableText <= 0 {
		c.MinTableText = tables.DefaultMinText
	}
	if c.Rules == nil {
		c.Rules, _ = rules.NewEngine(rules.Config{})
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
}

// Engine runs the extraction pipeline. It is an explicit object, not hidden
// process state: concurrent Extract calls against a stable rule set are safe.
type Engine struct {
	cfg    Config
	rules  *rules.Engine
	logger *slog.Logger
}

// New creates an Engine with the given configuration.
func New(cfg Config) *Engine {
	cfg.defaults()
	return &Engine{cfg: cfg, rules: cfg.Rules, logger: cfg.Logger}
}

// Rules exposes the engine's rule set, for profile management surfaces.
func (e *Engine) Rules() *rules.Engine { return e.rules }

// Extract runs the full pipeline over one page.
//
// profileName selects the rule profile; empty means auto-detect from the
// page structure, then the URL, then the built-in default. HTML too broken
// to locate any table yields an empty result, never an error.
func (e *Engine) Extract(htmlText, pageURL, profileName string) Result {
	ts, err := tables.Parse(htmlText, e.cfg.MinTableText)
	if err != nil {
		e.logger.Warn("specsift: unparseable page", "url", pageURL, "error", err)
		return Result{}
	}
	if len(ts) == 0 {
		return Result{}
	}

	profile := e.resolveProfile(profileName, pageURL, ts)
	descriptions, features := pageNotes(htmlText)

	m := newMerger()
	for _, t := range ts {
		if frag := e.extractTable(t, profile); frag != nil {
			m.add(frag)
		}
	}
	return m.finalize(profile, pageURL, descriptions, features)
}

// extractTable classifies one table and dispatches to its extractor.
// Profile table-detection rules may force an extractor or skip the table
// before the heuristic classification is consulted.
func (e *Engine) extractTable(t tables.Table, profile *rules.Profile) Result {
	name, skip, ok := e.rules.TableHint(profile, t.Text)
	if ok && skip {
		e.logger.Debug("specsift: table skipped by rule", "index", t.Index)
		return nil
	}
	if !ok || name == "" {
		cls := tables.Classify(t.Text, t.Headers)
		name = e.extractorFor(cls.Kind, t.Headers, profile)
	}

	switch name {
	case ExtractorPOEPower:
		return extractPOE(t.Headers, t.Rows)
	case ExtractorSoftware:
		return e.extractSoftware(t.Headers, t.Rows, profile)
	case ExtractorPerformance:
		return extractPerformance(t.Headers, t.Rows)
	case ExtractorProtocols:
		return extractProtocols(t.Headers, t.Rows)
	case ExtractorMultiModel:
		return e.extractMultiModel(t.Headers, t.Rows, profile)
	default:
		return e.extractGeneric(t.Headers, t.Rows, profile)
	}
}

// extractorFor maps a classification to an extractor. Hardware and unknown
// kinds fall through to the header shape: a table with model columns is a
// multi-model matrix, anything else is generic key/value.
func (e *Engine) extractorFor(kind tables.Kind, headers []string, profile *rules.Profile) string {
	switch kind {
	case tables.KindPOEPower:
		return ExtractorPOEPower
	case tables.KindSoftware:
		return ExtractorSoftware
	case tables.KindPerformance:
		return ExtractorPerformance
	case tables.KindProtocols:
		return ExtractorProtocols
	}
	if isMultiModelTable(headers, profile) {
		return ExtractorMultiModel
	}
	return ExtractorGeneric
}

// resolveProfile picks the rule profile for a page. An explicit name that
// does not resolve falls back to the default with a warning; auto-detection
// prefers page structure over the URL.
func (e *Engine) resolveProfile(name, pageURL string, ts []tables.Table) *rules.Profile {
	if name != "" {
		if p, ok := e.rules.Profile(name); ok {
			return p
		}
		e.logger.Warn("specsift: profile not found, using default", "profile", name)
		return rules.DefaultProfile()
	}

	if suggested := analyze.SuggestProfile(ts, pageURL, e.rules); suggested != "" {
		if p, ok := e.rules.Profile(suggested); ok {
			e.logger.Debug("specsift: auto-detected profile", "profile", suggested)
			return p
		}
	}
	return rules.DefaultProfile()
}
