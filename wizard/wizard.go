// CLAUDE:SUMMARY Interactive review of low-confidence tables and unmapped parameters, persisting rule overrides.
// Package wizard walks an operator through the uncertain parts of a page
// analysis: tables the classifier was unsure about and parameters the
// mapping rules could not resolve. Confirmed answers are persisted as
// profile rules so the next run needs no review.
package wizard

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"regexp"
	"strings"

	"github.com/ElanGll2023/specsift/analyze"
	"github.com/ElanGll2023/specsift/rules"
)

// extractor choices offered during table review, in menu order.
var extractorChoices = []string{
	"multi_model_hardware",
	"generic",
	"poe_power",
	"software",
	"performance",
	"protocols",
	"skip",
}

// Config configures the wizard.
type Config struct {
	Rules *rules.Engine // required
	In    io.Reader     // answers; required
	Out   io.Writer     // prompts; required
	// ConfidenceThreshold: tables at or above it are not reviewed.
	// Default: 0.5.
	ConfidenceThreshold float64
	Logger              *slog.Logger
}

func (c *Config) defaults() {
	if c.ConfidenceThreshold <= 0 {
		c.ConfidenceThreshold = 0.5
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
}

// Wizard runs interactive review sessions.
type Wizard struct {
	rules     *rules.Engine
	in        *bufio.Scanner
	out       io.Writer
	threshold float64
	logger    *slog.Logger
}

// New creates a Wizard.
func New(cfg Config) (*Wizard, error) {
	cfg.defaults()
	if cfg.Rules == nil || cfg.In == nil || cfg.Out == nil {
		return nil, fmt.Errorf("wizard: Rules, In, and Out are required")
	}
	return &Wizard{
		rules:     cfg.Rules,
		in:        bufio.NewScanner(cfg.In),
		out:       cfg.Out,
		threshold: cfg.ConfidenceThreshold,
		logger:    cfg.Logger,
	}, nil
}

// Review walks the report's low-confidence tables and unmapped parameters,
// saving each confirmed answer as a rule in profileName. It returns the
// number of rules written. Input exhaustion ends the session cleanly.
func (w *Wizard) Review(report *analyze.Report, profileName string) (int, error) {
	if _, ok := w.rules.Profile(profileName); !ok {
		p := &rules.Profile{Name: profileName}
		if err := w.rules.AddProfile(p); err != nil {
			return 0, fmt.Errorf("wizard: create profile: %w", err)
		}
	}

	saved := 0
	for _, t := range report.Tables {
		if t.Confidence >= w.threshold {
			continue
		}
		n, err := w.reviewTable(t, profileName)
		if err != nil {
			return saved, err
		}
		saved += n
	}

	for _, p := range report.Params {
		if p.SuggestedMapping != "" {
			continue
		}
		n, err := w.reviewParam(p, profileName)
		if err != nil {
			return saved, err
		}
		saved += n
	}

	fmt.Fprintf(w.out, "\nReview complete: %d rule(s) saved to profile %q.\n", saved, profileName)
	return saved, nil
}

func (w *Wizard) reviewTable(t analyze.TableReport, profileName string) (int, error) {
	fmt.Fprintf(w.out, "\nTable %d classified as %s (confidence %.1f)\n", t.Index, t.Kind, t.Confidence)
	fmt.Fprintf(w.out, "  headers: %s\n", strings.Join(t.Headers, " | "))
	for _, row := range t.Sample {
		fmt.Fprintf(w.out, "  sample:  %s\n", sampleLine(t.Headers, row))
	}
	fmt.Fprintln(w.out, "Choose extractor:")
	for i, name := range extractorChoices {
		marker := " "
		if name == t.SuggestedExtractor {
			marker = "*"
		}
		fmt.Fprintf(w.out, "  %s[%d] %s\n", marker, i+1, name)
	}
	fmt.Fprint(w.out, "Choice (enter keeps suggestion, 0 leaves unreviewed): ")

	answer, ok := w.read()
	if !ok || answer == "0" {
		return 0, nil
	}
	choice := t.SuggestedExtractor
	if answer != "" {
		idx := parseChoice(answer, len(extractorChoices))
		if idx < 0 {
			fmt.Fprintln(w.out, "Unrecognized choice, skipping table.")
			return 0, nil
		}
		choice = extractorChoices[idx]
	}

	r := rules.Rule{
		Name:     fmt.Sprintf("review_table_%d", t.Index),
		Pattern:  headerPattern(t.Headers),
		Kind:     rules.KindTableDetection,
		Priority: 100,
		Enabled:  true,
	}
	if choice == "skip" {
		r.Action = rules.ActionSkip
	} else {
		r.Action = rules.ActionUseExtractor
		r.Params = map[string]string{"extractor": choice}
	}
	if err := w.rules.UpdateRule(profileName, rules.KindTableDetection, r); err != nil {
		return 0, fmt.Errorf("wizard: save table rule: %w", err)
	}
	w.logger.Info("table rule saved", "profile", profileName, "rule", r.Name, "action", r.Action)
	return 1, nil
}

func (w *Wizard) reviewParam(p analyze.ParamReport, profileName string) (int, error) {
	fmt.Fprintf(w.out, "\nParameter %q (seen %d time(s)) has no mapping.\n", p.Name, p.Frequency)
	fmt.Fprint(w.out, "Canonical name (enter skips, '-' drops the parameter): ")

	answer, ok := w.read()
	if !ok || answer == "" {
		return 0, nil
	}

	r := rules.Rule{
		Name:     "review_param_" + strings.ToLower(p.Name),
		Pattern:  regexp.QuoteMeta(strings.ToLower(p.Name)),
		Kind:     rules.KindParamMapping,
		Priority: 100,
		Enabled:  true,
	}
	if answer == "-" {
		r.Action = rules.ActionSkip
	} else {
		r.Action = rules.ActionMapTo
		r.Params = map[string]string{"target": answer}
	}
	if err := w.rules.UpdateRule(profileName, rules.KindParamMapping, r); err != nil {
		return 0, fmt.Errorf("wizard: save param rule: %w", err)
	}
	w.logger.Info("param rule saved", "profile", profileName, "rule", r.Name, "action", r.Action)
	return 1, nil
}

// read returns the next trimmed input line; ok=false on EOF.
func (w *Wizard) read() (string, bool) {
	if !w.in.Scan() {
		return "", false
	}
	return strings.TrimSpace(w.in.Text()), true
}

func parseChoice(s string, n int) int {
	idx := 0
	for _, r := range s {
		if r < '0' || r > '9' {
			return -1
		}
		idx = idx*10 + int(r-'0')
	}
	if idx < 1 || idx > n {
		return -1
	}
	return idx - 1
}

func sampleLine(headers []string, row map[string]string) string {
	parts := make([]string, 0, len(headers))
	for _, h := range headers {
		parts = append(parts, row[h])
	}
	return strings.Join(parts, " | ")
}

// headerPattern builds a detection pattern from the first two header cells.
func headerPattern(headers []string) string {
	var parts []string
	for _, h := range headers {
		h = strings.TrimSpace(strings.ToLower(h))
		if h == "" {
			continue
		}
		parts = append(parts, regexp.QuoteMeta(h))
		if len(parts) == 2 {
			break
		}
	}
	return strings.Join(parts, `.*`)
}
