package levels

import "testing"

func standardPayload(texts ...string) map[string]any {
	raw := make([]any, len(texts))
	for i, txt := range texts {
		raw[i] = any(map[string]any{"text": txt})
	}
	return map[string]any{"labels": raw}
}

func TestParseStandardPivots(t *testing.T) {
	labels := ParseStandardPivots(standardPayload(
		"R1 (1850.25)",
		"S1 (1750.5)",
		" P (1800)",
		"garbage",
	), 1800)

	if len(labels) != 3 {
		t.Fatalf("parsed %d labels, want 3 (garbage skipped)", len(labels))
	}
	if labels[0].Name != "R1" || labels[0].Y != 1850.25 || labels[0].Kind != Resistance {
		t.Errorf("R1 = %+v", labels[0])
	}
	if labels[1].Name != "S1" || labels[1].Kind != Support {
		t.Errorf("S1 = %+v", labels[1])
	}
	// Leading space trimmed, exact price → Pivot.
	if labels[2].Name != "P" || labels[2].Kind != Pivot {
		t.Errorf("P = %+v", labels[2])
	}
}

func TestStandardPivotLookup_ClassificationDominatesName(t *testing.T) {
	payload := standardPayload("R1 (1850.25)")

	// Below the price it is a resistance and resolvable from that pool.
	if l, ok := StandardPivotLookup(payload, 1800, Resistance, "R1"); !ok || l.Y != 1850.25 {
		t.Errorf("R1 under resistance = %+v ok=%v", l, ok)
	}
	// Above the price the same label fails the resistance filter even though
	// its name matches.
	if _, ok := StandardPivotLookup(payload, 1900, Resistance, "R1"); ok {
		t.Error("R1 must be excluded from the resistance pool when y <= price")
	}
	// It is, however, reachable from the support pool.
	if _, ok := StandardPivotLookup(payload, 1900, Support, "R1"); !ok {
		t.Error("R1 below price belongs to the support pool")
	}
}

func TestStandardPivotLookup_PivotPoolMatchesNameExactly(t *testing.T) {
	payload := standardPayload(" P (1800)", "R1 (1850)")

	if l, ok := StandardPivotLookup(payload, 1700, Pivot, "P"); !ok || l.Y != 1800 {
		t.Errorf("pivot-only lookup = %+v ok=%v", l, ok)
	}
	// The pivot pool never resolves other names.
	if _, ok := StandardPivotLookup(payload, 1700, Pivot, "R1"); ok {
		t.Error("pivot pool must only hold the row named P")
	}
	// Sub-key arrives with the source's historical leading space.
	if _, ok := StandardPivotLookup(payload, 1700, Pivot, " P"); !ok {
		t.Error("leading-space sub-key must be trimmed")
	}
}

func TestStandardPivotCombined(t *testing.T) {
	rows := StandardPivotCombined(standardPayload(
		"S1 (1750)",
		"R1 (1850)",
		"P (1800)",
	), 1790)

	wantNames := []string{"R1", "P", "CurrentPrice", "S1"}
	if len(rows) != len(wantNames) {
		t.Fatalf("rows = %d, want %d", len(rows), len(wantNames))
	}
	for i, name := range wantNames {
		if rows[i].Name != name {
			t.Errorf("rows[%d] = %q, want %q", i, rows[i].Name, name)
		}
	}
	// Boundary crossing: first row below the price following a row at or
	// above it. The synthetic row sits at the price, so S1 carries the flag.
	if rows[2].GapBefore {
		t.Error("synthetic row sits at the price, no gap")
	}
	if !rows[3].GapBefore {
		t.Error("S1 must be flagged as the support-side boundary")
	}
}

func TestStandardPivotCombined_NoPriceNoSyntheticRow(t *testing.T) {
	rows := StandardPivotCombined(standardPayload("R1 (1850)"), 0)
	for _, r := range rows {
		if r.Kind == CurrentPrice {
			t.Fatal("no synthetic row without a price")
		}
	}
}

func TestStandardPivot_MalformedPayload(t *testing.T) {
	if rows := StandardPivotCombined(nil, 1800); len(rows) != 1 {
		// Only the synthetic price row survives.
		t.Errorf("nil payload rows = %+v", rows)
	}
	if _, ok := StandardPivotLookup("bogus", 1800, Resistance, "R1"); ok {
		t.Error("non-object payload must yield no data")
	}
}
