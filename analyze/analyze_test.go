package analyze

import (
	"strings"
	"testing"

	"github.com/ElanGll2023/specsift/rules"
	"github.com/ElanGll2023/specsift/tables"
)

const samplePage = `<html><body>
<table>
	<tr><th>Feature</th><th>S5130S-28P-EI</th><th>S5130S-52P-EI</th></tr>
	<tr><td>Switching capacity</td><td>336 Gbps full duplex wire speed</td><td>598 Gbps full duplex wire speed</td></tr>
	<tr><td>Packet forwarding rate</td><td>108 Mpps sixty four byte packets</td><td>222 Mpps sixty four byte packets</td></tr>
	<tr><td>Mystery knob</td><td>on</td><td>off</td></tr>
	<tr><td>Mystery knob</td><td>a</td><td>b</td></tr>
</table>
<table>
	<tr><th>Organization</th><th>Standards compliance</th></tr>
	<tr><td>IEEE</td><td>802.1Q VLAN, 802.1p CoS, 802.1D STP, 802.1w RSTP, 802.1s MSTP</td></tr>
	<tr><td>IEEE</td><td>802.3 Ethernet, 802.3u Fast Ethernet, 802.3ab 1000Base-T, 802.3z 1000Base-X</td></tr>
	<tr><td>RFC</td><td>RFC 791 IP, RFC 792 ICMP, RFC 826 ARP, RFC 1812 IPv4 routers</td></tr>
</table>
</body></html>`

func testRules(t *testing.T) *rules.Engine {
	t.Helper()
	e, err := rules.NewEngine(rules.Config{})
	if err != nil {
		t.Fatalf("rules engine: %v", err)
	}
	return e
}

func TestAnalyzeReport(t *testing.T) {
	// WHAT: The report carries one entry per table with kind, headers, and a
	// suggested extractor, plus discovered parameters with mappings.
	// WHY: The report is what operators review before trusting a new page
	// layout.
	r, err := Analyze(samplePage, "https://example.com/spec", testRules(t))
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}

	if len(r.Tables) != 2 {
		t.Fatalf("tables: got %d, want 2", len(r.Tables))
	}
	if r.Tables[0].SuggestedExtractor != "multi_model_hardware" {
		t.Errorf("table 0 extractor: got %q", r.Tables[0].SuggestedExtractor)
	}
	if r.Tables[1].Kind != tables.KindProtocols {
		t.Errorf("table 1 kind: got %q", r.Tables[1].Kind)
	}
	if r.Confidence <= 0 {
		t.Errorf("confidence: got %v", r.Confidence)
	}

	var mapped, unmapped *ParamReport
	for i := range r.Params {
		switch r.Params[i].Name {
		case "Switching capacity":
			mapped = &r.Params[i]
		case "Mystery knob":
			unmapped = &r.Params[i]
		}
	}
	if mapped == nil || mapped.SuggestedMapping != "交换容量" {
		t.Errorf("mapped param: got %+v", mapped)
	}
	if unmapped == nil {
		t.Fatal("unmapped param missing")
	}
	if unmapped.SuggestedMapping != "" {
		t.Errorf("unmapped suggestion: got %q", unmapped.SuggestedMapping)
	}
	if unmapped.Frequency != 2 {
		t.Errorf("frequency: got %d, want 2", unmapped.Frequency)
	}
}

func TestAnalyzeSampleRowsCapped(t *testing.T) {
	// WHAT: Table reports carry at most three sample rows.
	// WHY: The report is a summary, not a second copy of the page.
	var b strings.Builder
	b.WriteString(`<table><tr><th>Feature</th><th>S5130S-28P-EI</th><th>S5130S-52P-EI</th></tr>`)
	filler := strings.Repeat("x", 30)
	for i := 0; i < 10; i++ {
		b.WriteString(`<tr><td>row</td><td>` + filler + `</td><td>b</td></tr>`)
	}
	b.WriteString(`</table>`)

	r, err := Analyze(b.String(), "", testRules(t))
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if len(r.Tables) != 1 {
		t.Fatalf("tables: got %d", len(r.Tables))
	}
	if len(r.Tables[0].Sample) != 3 {
		t.Errorf("sample rows: got %d, want 3", len(r.Tables[0].Sample))
	}
	if r.Tables[0].RowCount != 10 {
		t.Errorf("row count: got %d, want 10", r.Tables[0].RowCount)
	}
}

func TestSuggestProfileStructureBeatsURL(t *testing.T) {
	// WHAT: A profile matching table structure wins over one matching only
	// the URL.
	// WHY: URLs move and get proxied; the page's own structure is the
	// stronger signal.
	eng := testRules(t)
	if err := eng.AddProfile(&rules.Profile{
		Name:        "by-url",
		URLPatterns: []string{`example\.com`},
	}); err != nil {
		t.Fatalf("add profile: %v", err)
	}
	if err := eng.AddProfile(&rules.Profile{
		Name:           "by-structure",
		StructureTerms: []string{"standards compliance"},
	}); err != nil {
		t.Fatalf("add profile: %v", err)
	}

	ts, err := tables.Parse(samplePage, 1)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	got := SuggestProfile(ts, "https://example.com/spec", eng)
	if got != "by-structure" {
		t.Errorf("got %q, want by-structure", got)
	}
}

func TestSuggestProfileURLFallback(t *testing.T) {
	// WHAT: Without a structure match, URL patterns decide; with neither,
	// the suggestion is empty.
	// WHY: Empty means "use the built-in default", never a guess.
	eng := testRules(t)
	if err := eng.AddProfile(&rules.Profile{
		Name:        "by-url",
		URLPatterns: []string{`example\.com`},
	}); err != nil {
		t.Fatalf("add profile: %v", err)
	}

	ts, _ := tables.Parse(samplePage, 1)
	if got := SuggestProfile(ts, "https://example.com/spec", eng); got != "by-url" {
		t.Errorf("got %q, want by-url", got)
	}
	if got := SuggestProfile(ts, "https://other.net/spec", eng); got != "" {
		t.Errorf("got %q, want empty", got)
	}
}

func TestProfileTemplate(t *testing.T) {
	// WHAT: The generated template has a detection rule per table and a
	// mapping rule per discovered parameter, loadable as profile YAML.
	// WHY: Operators edit the template instead of writing profiles from
	// scratch.
	r, err := Analyze(samplePage, "", testRules(t))
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	tpl, err := ProfileTemplate("new-family", r)
	if err != nil {
		t.Fatalf("template: %v", err)
	}
	if !strings.Contains(tpl, "name: new-family") {
		t.Errorf("template missing profile name:\n%s", tpl)
	}
	if !strings.Contains(tpl, "table_detection_rules") {
		t.Error("template missing detection rules")
	}
	if !strings.Contains(tpl, "mystery knob") {
		t.Errorf("template missing discovered param:\n%s", tpl)
	}
}
