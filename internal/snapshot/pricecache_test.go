package snapshot

import "testing"

func TestPriceCache_PartialUpdateRetainsPrevious(t *testing.T) {
	c := NewPriceCache()
	c.Update("X", 10, 5)
	c.Update("X", 0, 50) // volume-only update

	got := c.Get("X")
	if got.MarketPrice != 10 {
		t.Errorf("marketPrice = %v, want retained 10", got.MarketPrice)
	}
	if got.Volume != 50 {
		t.Errorf("volume = %v, want 50", got.Volume)
	}
}

func TestPriceCache_DefaultZero(t *testing.T) {
	c := NewPriceCache()
	if got := c.Get("UNKNOWN"); got.MarketPrice != 0 || got.Volume != 0 {
		t.Errorf("unknown symbol = %+v, want zero entry", got)
	}
}

func TestPriceCache_FirstPartialUpdateInitializesZero(t *testing.T) {
	c := NewPriceCache()
	c.Update("Y", 3.25, 0)
	got := c.Get("Y")
	if got.MarketPrice != 3.25 || got.Volume != 0 {
		t.Errorf("entry = %+v, want {3.25 0}", got)
	}
}
