package wizard

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ElanGll2023/specsift/analyze"
	"github.com/ElanGll2023/specsift/rules"
	"github.com/ElanGll2023/specsift/tables"
)

func testReport() *analyze.Report {
	return &analyze.Report{
		Tables: []analyze.TableReport{
			{
				Index:              0,
				Kind:               tables.KindUnknown,
				Confidence:         0.3,
				Headers:            []string{"Thing", "Amount"},
				SuggestedExtractor: "generic",
			},
			{
				Index:              1,
				Kind:               tables.KindProtocols,
				Confidence:         0.9,
				Headers:            []string{"Organization", "Standards"},
				SuggestedExtractor: "protocols",
			},
		},
		Params: []analyze.ParamReport{
			{Name: "Switching capacity", Frequency: 1, SuggestedMapping: "交换容量"},
			{Name: "Mystery knob", Frequency: 2},
		},
	}
}

func testWizard(t *testing.T, dir string, answers string) (*Wizard, *strings.Builder) {
	t.Helper()
	eng, err := rules.NewEngine(rules.Config{Dir: dir})
	if err != nil {
		t.Fatalf("rules engine: %v", err)
	}
	var out strings.Builder
	w, err := New(Config{Rules: eng, In: strings.NewReader(answers), Out: &out})
	if err != nil {
		t.Fatalf("wizard: %v", err)
	}
	return w, &out
}

func TestReviewSavesRules(t *testing.T) {
	// WHAT: Accepting the table suggestion and naming an unmapped
	// parameter writes two rules into the profile and persists them.
	// WHY: The wizard's whole point is that the next run needs no review.
	dir := t.TempDir()
	// Line 1: enter keeps the suggested extractor for the low-confidence
	// table. Line 2: canonical name for the unmapped parameter.
	w, out := testWizard(t, dir, "\n神秘旋钮\n")

	saved, err := w.Review(testReport(), "reviewed")
	if err != nil {
		t.Fatalf("review: %v", err)
	}
	if saved != 2 {
		t.Errorf("saved: got %d, want 2", saved)
	}

	// High-confidence table and already-mapped parameter are not prompted.
	if strings.Contains(out.String(), "Organization") {
		t.Error("high-confidence table was reviewed")
	}
	if strings.Contains(out.String(), "Switching capacity") {
		t.Error("mapped parameter was reviewed")
	}

	// A fresh engine over the same dir sees the persisted rules.
	eng2, err := rules.NewEngine(rules.Config{Dir: dir})
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	p, ok := eng2.Profile("reviewed")
	if !ok {
		t.Fatal("profile not persisted")
	}
	if len(p.TableDetectionRules) != 1 || p.TableDetectionRules[0].Name != "review_table_0" {
		t.Errorf("table rules: got %+v", p.TableDetectionRules)
	}
	if p.TableDetectionRules[0].Params["extractor"] != "generic" {
		t.Errorf("extractor: got %+v", p.TableDetectionRules[0].Params)
	}
	if target, ok := eng2.MapParam(p, "Mystery knob"); !ok || target != "神秘旋钮" {
		t.Errorf("param mapping: got %q ok=%v", target, ok)
	}
}

func TestReviewTableExplicitChoiceAndSkip(t *testing.T) {
	// WHAT: A numeric answer picks that extractor; the "skip" choice
	// saves a skip rule; answer 0 leaves the table unreviewed.
	dir := t.TempDir()
	report := &analyze.Report{
		Tables: []analyze.TableReport{
			{Index: 0, Confidence: 0.1, Headers: []string{"A", "B"}, SuggestedExtractor: "generic"},
			{Index: 1, Confidence: 0.1, Headers: []string{"C", "D"}, SuggestedExtractor: "generic"},
			{Index: 2, Confidence: 0.1, Headers: []string{"E", "F"}, SuggestedExtractor: "generic"},
		},
	}
	// Table 0: choice 4 = software. Table 1: choice 7 = skip. Table 2: 0.
	w, _ := testWizard(t, dir, "4\n7\n0\n")

	saved, err := w.Review(report, "choices")
	if err != nil {
		t.Fatalf("review: %v", err)
	}
	if saved != 2 {
		t.Errorf("saved: got %d, want 2", saved)
	}

	p, ok := w.rules.Profile("choices")
	if !ok {
		t.Fatal("profile missing")
	}
	if len(p.TableDetectionRules) != 2 {
		t.Fatalf("rules: got %+v", p.TableDetectionRules)
	}
	if p.TableDetectionRules[0].Params["extractor"] != "software" {
		t.Errorf("table 0: got %+v", p.TableDetectionRules[0])
	}
	if p.TableDetectionRules[1].Action != rules.ActionSkip {
		t.Errorf("table 1: got %+v", p.TableDetectionRules[1])
	}
}

func TestReviewParamDrop(t *testing.T) {
	// WHAT: Answering '-' saves a skip rule so the parameter is dropped
	// without future prompting.
	dir := t.TempDir()
	report := &analyze.Report{
		Params: []analyze.ParamReport{{Name: "Ordering information", Frequency: 1}},
	}
	w, _ := testWizard(t, dir, "-\n")

	saved, err := w.Review(report, "drops")
	if err != nil {
		t.Fatalf("review: %v", err)
	}
	if saved != 1 {
		t.Errorf("saved: got %d, want 1", saved)
	}
	p, _ := w.rules.Profile("drops")
	if !w.rules.ShouldSkipParam(p, "Ordering information") {
		t.Error("dropped parameter not skipped")
	}
}

func TestReviewEndsCleanlyOnEOF(t *testing.T) {
	// WHAT: Input running out mid-session ends the review without error,
	// keeping whatever was already saved.
	dir := t.TempDir()
	w, _ := testWizard(t, dir, "")

	saved, err := w.Review(testReport(), "eof")
	if err != nil {
		t.Fatalf("review: %v", err)
	}
	if saved != 0 {
		t.Errorf("saved: got %d, want 0", saved)
	}
}

func TestReviewUnrecognizedChoice(t *testing.T) {
	dir := t.TempDir()
	report := &analyze.Report{
		Tables: []analyze.TableReport{
			{Index: 0, Confidence: 0.1, Headers: []string{"A", "B"}, SuggestedExtractor: "generic"},
		},
	}
	w, out := testWizard(t, dir, "banana\n")

	saved, err := w.Review(report, "bad")
	if err != nil {
		t.Fatalf("review: %v", err)
	}
	if saved != 0 {
		t.Errorf("saved: got %d, want 0", saved)
	}
	if !strings.Contains(out.String(), "Unrecognized choice") {
		t.Errorf("output: %s", out.String())
	}
}

func TestNewRequiresIO(t *testing.T) {
	eng, err := rules.NewEngine(rules.Config{})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := New(Config{Rules: eng, In: strings.NewReader("")}); err == nil {
		t.Fatal("expected error for missing Out")
	}
	if _, err := New(Config{In: strings.NewReader(""), Out: io.Discard}); err == nil {
		t.Fatal("expected error for missing Rules")
	}
}

func TestProfileFileWritten(t *testing.T) {
	// WHAT: Saved rules land in <dir>/profiles/<name>.yaml.
	dir := t.TempDir()
	w, _ := testWizard(t, dir, "\n")
	report := &analyze.Report{
		Tables: []analyze.TableReport{
			{Index: 0, Confidence: 0.1, Headers: []string{"A", "B"}, SuggestedExtractor: "generic"},
		},
	}
	if _, err := w.Review(report, "ondisk"); err != nil {
		t.Fatalf("review: %v", err)
	}
	path := filepath.Join(dir, "profiles", "ondisk.yaml")
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("profile file: %v", err)
	}
	if !strings.Contains(string(data), "review_table_0") {
		t.Errorf("file content:\n%s", data)
	}
}
