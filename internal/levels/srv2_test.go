package levels

import "testing"

func srv2Payload(labels ...map[string]any) map[string]any {
	raw := make([]any, len(labels))
	for i, l := range labels {
		raw[i] = any(l)
	}
	return map[string]any{"labels": raw}
}

func TestSRv2_ExplicitTextClassification(t *testing.T) {
	l := SRv2(srv2Payload(
		map[string]any{"y": 10.0, "text": "Support"},
		map[string]any{"y": 20.0, "text": "Resistance"},
	), 15)

	s1, ok := l.Level(Support, 1)
	if !ok || s1.Y != 10 {
		t.Errorf("support Level1 = %+v ok=%v, want y=10", s1, ok)
	}
	r1, ok := l.Level(Resistance, 1)
	if !ok || r1.Y != 20 {
		t.Errorf("resistance Level1 = %+v ok=%v, want y=20", r1, ok)
	}

	// Synthetic row: price 15 sits above max support (10) and at/below min
	// resistance (20) — resistance side only.
	if _, ok := l.SubLevel(Support, "CurrentPrice"); ok {
		t.Error("no synthetic current-price row on the support side")
	}
	if _, ok := l.SubLevel(Resistance, "CurrentPrice"); !ok {
		t.Error("synthetic current-price row expected on the resistance side")
	}
}

func TestSRv2_SortOrders(t *testing.T) {
	l := SRv2(srv2Payload(
		map[string]any{"y": 5.0},
		map[string]any{"y": 9.0},
		map[string]any{"y": 30.0},
		map[string]any{"y": 20.0},
	), 10)

	// Support nearest-below first (descending).
	if l.Support[0].Y != 9 || l.Support[1].Y != 5 {
		t.Errorf("support order = %+v, want [9 5]", l.Support)
	}
	// Resistance nearest-above first (ascending).
	if l.Resistance[0].Y != 20 || l.Resistance[1].Y != 30 {
		t.Errorf("resistance order = %+v, want [20 30]", l.Resistance)
	}
}

func TestSRv2_SupportTextOverridesButPoolRestricts(t *testing.T) {
	// Text says support but y is above the price: classified support, yet
	// excluded from the support pool (restricted to y ≤ price).
	l := SRv2(srv2Payload(map[string]any{"y": 25.0, "text": "Major Support"}), 10)
	if len(l.Support) != 0 {
		t.Errorf("support pool = %+v, want empty", l.Support)
	}
	if len(l.Resistance) != 0 {
		t.Errorf("text-marked support must not become resistance: %+v", l.Resistance)
	}
}

func TestSRv2_NoSyntheticRowAtSupport(t *testing.T) {
	// Price exactly on the highest support: the strict-above check fails.
	l := SRv2(srv2Payload(
		map[string]any{"y": 10.0, "text": "Support"},
		map[string]any{"y": 20.0, "text": "Resistance"},
	), 10)
	if l.ShowCurrentPrice {
		t.Error("synthetic row requires price strictly above max support")
	}
}

func TestSRv2_NoSyntheticRowWithoutPrice(t *testing.T) {
	l := SRv2(srv2Payload(map[string]any{"y": 20.0, "text": "Resistance"}), 0)
	if l.ShowCurrentPrice {
		t.Error("no synthetic row when the market price is unknown")
	}
}

func TestSRv2_DeterministicFallbackIDs(t *testing.T) {
	payload := srv2Payload(
		map[string]any{"y": 5.0},
		map[string]any{"y": 6.0, "id": "srv2-6"},
	)
	a := SRv2(payload, 10)
	b := SRv2(payload, 10)

	if a.Support[1].ID != "label-0" {
		t.Errorf("fallback id = %q, want positional label-0", a.Support[1].ID)
	}
	if a.Support[0].ID != "srv2-6" {
		t.Errorf("explicit id must be kept, got %q", a.Support[0].ID)
	}
	if a.Support[0].ID != b.Support[0].ID || a.Support[1].ID != b.Support[1].ID {
		t.Error("ids must be reproducible across derivations")
	}
}

func TestSRv2_ResistanceRowsPlaceSyntheticBetween(t *testing.T) {
	l := SRv2(srv2Payload(
		map[string]any{"y": 10.0, "text": "Support"},
		map[string]any{"y": 20.0, "text": "Resistance"},
		map[string]any{"y": 25.0, "text": "Resistance"},
	), 15)

	rows := l.ResistanceRows()
	if len(rows) != 3 {
		t.Fatalf("rows = %d, want 3", len(rows))
	}
	// Descending by y: 25, 20, then the synthetic row at 15.
	if rows[2].Kind != CurrentPrice || rows[2].Y != 15 {
		t.Errorf("last row = %+v, want synthetic current price", rows[2])
	}
}

func TestSRv2_LabelsWithoutNumericYSkipped(t *testing.T) {
	l := SRv2(srv2Payload(
		map[string]any{"text": "Support"},
		map[string]any{"y": "oops"},
		map[string]any{"y": 5.0},
	), 10)
	if len(l.Support) != 1 {
		t.Errorf("support = %+v, want single y=5 label", l.Support)
	}
}

func TestSRv2_EmptyPayload(t *testing.T) {
	l := SRv2(nil, 10)
	if len(l.Support) != 0 || len(l.Resistance) != 0 {
		t.Errorf("nil payload must yield no levels: %+v", l)
	}
	if l.ShowCurrentPrice != true {
		// No supports and no resistances: price > -inf and price <= +inf.
		t.Error("degenerate bounds admit the synthetic row")
	}
}
