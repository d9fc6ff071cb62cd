package specsift

import "testing"

func TestMergeSeriesPropagation(t *testing.T) {
	// WHAT: Protocol facts collected under the series pseudo-key land on
	// every model of the page.
	// WHY: Compliance tables describe the whole series; each sellable model
	// must carry the data.
	m := newMerger()
	m.add(Result{
		"S5130S-28P-EI": {"交换容量": "336 Gbps"},
		"S5130S-52P-EI": {"交换容量": "598 Gbps"},
	})
	m.add(Result{
		"Protocols": {attrProtocols: "IEEE: 802.1Q; IEEE: 802.3af"},
	})

	out := m.finalize(nil, "https://example.com/spec", nil, "")
	for _, model := range []string{"S5130S-28P-EI", "S5130S-52P-EI"} {
		attrs, ok := out[model]
		if !ok {
			t.Fatalf("%s missing: %v", model, out)
		}
		if attrs[attrProtocols] != "IEEE: 802.1Q; IEEE: 802.3af" {
			t.Errorf("%s protocols: got %v", model, attrs[attrProtocols])
		}
		if attrs[attrURL] != "https://example.com/spec" {
			t.Errorf("%s url: got %v", model, attrs[attrURL])
		}
	}
	if _, leaked := out["Protocols"]; leaked {
		t.Error("series pseudo-key must not appear in the final result")
	}
}

func TestMergeSeriesPrefixGate(t *testing.T) {
	// WHAT: A software-feature series entry applies only when its key carries
	// the page's dominant model prefix.
	// WHY: Aggregate pages mix several series; features of one series must
	// not bleed onto another's models.
	m := newMerger()
	m.add(Result{"S5130S-28P-EI": {"交换容量": "336 Gbps"}})
	m.add(Result{"S5130S Switch Series": {attrSoftware: "VLAN: 4094"}})
	m.add(Result{"S6520 Switch Series": {attrSoftware: "VXLAN: yes"}})

	out := m.finalize(nil, "u", nil, "")
	attrs := out["S5130S-28P-EI"]
	if attrs[attrSoftware] != "VLAN: 4094" {
		t.Errorf("software: got %v, want the matching series' features", attrs[attrSoftware])
	}
}

func TestMergeLaterTableWins(t *testing.T) {
	// WHAT: When two tables supply the same attribute, the later one wins.
	// WHY: Later tables are more specific on vendor pages (details follow
	// overviews).
	m := newMerger()
	m.add(Result{"S5130S-28P-EI": {"功耗": "30 W"}})
	m.add(Result{"S5130S-28P-EI": {"功耗": "28.5 W"}})

	out := m.finalize(nil, "u", nil, "")
	if got := out["S5130S-28P-EI"]["功耗"]; got != "28.5 W" {
		t.Errorf("got %v, want 28.5 W", got)
	}
}

func TestMergeFoldsLegacyPortField(t *testing.T) {
	// WHAT: A 1G count becomes the 1000Base-T count when none exists, and the
	// 1G key disappears either way.
	// WHY: Two spellings of the same fact would double-report port counts.
	m := newMerger()
	m.add(Result{"S5130S-28P-EI": {attrPorts1G: 24}})

	out := m.finalize(nil, "u", nil, "")
	attrs := out["S5130S-28P-EI"]
	if attrs[attrPortsBaseT] != 24 {
		t.Errorf("base-t: got %v", attrs[attrPortsBaseT])
	}
	if _, has := attrs[attrPorts1G]; has {
		t.Error("1G key should be folded away")
	}
}

func TestMergeJoinsACDCPower(t *testing.T) {
	// WHAT: AC and DC sub-totals join into one POE total attribute with a
	// single W suffix each.
	// WHY: The catalogue has one POE capacity field per model.
	m := newMerger()
	m.add(Result{"S5130S-28P-EI": {
		attrPOETotalAC: "370 W",
		attrPOETotalDC: "740",
	}})

	out := m.finalize(nil, "u", nil, "")
	attrs := out["S5130S-28P-EI"]
	if got := attrs[attrPOETotal]; got != "AC:370W/DC:740W" {
		t.Errorf("total: got %v, want AC:370W/DC:740W", got)
	}
	if _, has := attrs[attrPOETotalAC]; has {
		t.Error("AC sub-attribute should be folded away")
	}
	if _, has := attrs[attrPOETotalDC]; has {
		t.Error("DC sub-attribute should be folded away")
	}
}

func TestMergeSwitchType(t *testing.T) {
	// WHAT: Chassis prefixes and slot attributes mark a chassis switch;
	// everything else is a box switch.
	// WHY: Form factor drives which catalogue the product lands in.
	m := newMerger()
	m.add(Result{
		"S5130S-28P-EI": {"交换容量": "336 Gbps"},
		"S9820-64H":     {"交换容量": "12.8 Tbps"},
	})
	out := m.finalize(nil, "u", nil, "")
	if got := out["S5130S-28P-EI"][attrSwitchType]; got != switchTypeBox {
		t.Errorf("box model: got %v", got)
	}
	if got := out["S9820-64H"][attrSwitchType]; got != switchTypeChassis {
		t.Errorf("chassis model: got %v", got)
	}

	// Slot attributes flip a prefix-unknown model to chassis.
	m2 := newMerger()
	m2.add(Result{"S1000-X": {"业务板槽位数": "8"}})
	out2 := m2.finalize(nil, "u", nil, "")
	if got := out2["S1000-X"][attrSwitchType]; got != switchTypeChassis {
		t.Errorf("slotted model: got %v", got)
	}
}

func TestMergeAttachesDescriptionsAndFeatures(t *testing.T) {
	// WHAT: Page-level model descriptions and series features attach to the
	// matching models.
	// WHY: Free text around the tables carries the one-line product pitch.
	m := newMerger()
	m.add(Result{"S5130S-28P-EI": {"交换容量": "336 Gbps"}})

	descs := map[string]string{"S5130S-28P-EI": "24-port gigabit access switch"}
	out := m.finalize(nil, "u", descs, "Green Ethernet; Smart management")
	attrs := out["S5130S-28P-EI"]
	if attrs[attrModelDesc] != "24-port gigabit access switch" {
		t.Errorf("description: got %v", attrs[attrModelDesc])
	}
	if attrs[attrSeriesFeatures] != "Green Ethernet; Smart management" {
		t.Errorf("features: got %v", attrs[attrSeriesFeatures])
	}
}
