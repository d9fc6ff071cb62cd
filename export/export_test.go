package export

import (
	"strings"
	"testing"

	"github.com/ElanGll2023/specsift/specsift"
)

func TestWriteJSON(t *testing.T) {
	// WHAT: Results encode as indented JSON without HTML escaping.
	// WHY: Output is read and diffed by people; < soup is not.
	r := specsift.Result{
		"S5130S-28P-EI": {
			"交换容量": "336 Gbps",
			"链接地址": "https://example.com/spec?a=1&b=2",
		},
	}
	var b strings.Builder
	if err := WriteJSON(&b, r); err != nil {
		t.Fatalf("write: %v", err)
	}
	out := b.String()
	if !strings.Contains(out, `"S5130S-28P-EI"`) || !strings.Contains(out, `"交换容量"`) {
		t.Errorf("output missing keys:\n%s", out)
	}
	if strings.Contains(out, `&`) {
		t.Errorf("HTML escaping left on:\n%s", out)
	}
	if !strings.Contains(out, "\n  ") {
		t.Error("output not indented")
	}
}

func TestSummary(t *testing.T) {
	// WHAT: The summary lists models and attributes in sorted order with
	// per-model counts.
	r := specsift.Result{
		"S5130S-52P-EI": {"功耗": "58 W"},
		"S5130S-28P-EI": {"功耗": "32 W", "重量": "3.5 kg"},
	}
	out := Summary(r)

	first := strings.Index(out, "S5130S-28P-EI")
	second := strings.Index(out, "S5130S-52P-EI")
	if first < 0 || second < 0 || first > second {
		t.Errorf("models missing or unsorted:\n%s", out)
	}
	if !strings.Contains(out, "S5130S-28P-EI (2 attributes)") {
		t.Errorf("attribute count missing:\n%s", out)
	}
	if !strings.Contains(out, "  功耗: 32 W") {
		t.Errorf("attribute line missing:\n%s", out)
	}
}

func TestSummaryEmpty(t *testing.T) {
	if out := Summary(specsift.Result{}); out != "" {
		t.Errorf("got %q, want empty", out)
	}
}

func TestMarkdownRender(t *testing.T) {
	// WHAT: Page HTML renders to markdown with tables preserved and
	// relative links resolved against the source URL.
	m := NewMarkdown()
	html := `<h1>S5130S Series</h1>
<p>See the <a href="/docs/guide">guide</a>.</p>
<table><tr><th>Feature</th><th>Value</th></tr><tr><td>Ports</td><td>24</td></tr></table>`

	out := m.Render(html, "https://example.com/spec")
	if !strings.Contains(out, "# S5130S Series") {
		t.Errorf("heading missing:\n%s", out)
	}
	if !strings.Contains(out, "https://example.com/docs/guide") {
		t.Errorf("relative link not resolved:\n%s", out)
	}
	if !strings.Contains(out, "| Feature | Value |") {
		t.Errorf("table not rendered:\n%s", out)
	}
}

func TestMarkdownRenderEmpty(t *testing.T) {
	// WHAT: Empty input renders to empty output, no error surfaced.
	m := NewMarkdown()
	if out := m.Render("", "https://example.com"); out != "" {
		t.Errorf("got %q, want empty", out)
	}
}
