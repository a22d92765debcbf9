package model

// Side is the direction of a watchlist entry.
type Side string

const (
	SideLong  Side = "long"
	SideShort Side = "short"
)

// SymbolEntry is one row of the bulk symbol list served by the watchlist
// collaborator.
type SymbolEntry struct {
	ID         int64   `json:"id"`
	Symbol     string  `json:"symbol"`
	EntryPrice float64 `json:"entryPrice"`
	Side       Side    `json:"side"`
}

// SymbolListResponse is the wire shape of the bulk symbol list endpoint.
type SymbolListResponse struct {
	Success bool          `json:"success"`
	Symbols []SymbolEntry `json:"symbols"`
}

// PartitionBySide splits entries into buy (long) and sell (short) lists,
// preserving order. Entries with any other side value are dropped.
func PartitionBySide(entries []SymbolEntry) (buy, sell []SymbolEntry) {
	buy = []SymbolEntry{}
	sell = []SymbolEntry{}
	for _, e := range entries {
		switch e.Side {
		case SideLong:
			buy = append(buy, e)
		case SideShort:
			sell = append(sell, e)
		}
	}
	return buy, sell
}
