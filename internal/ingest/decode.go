package ingest

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"levelboard/internal/model"
)

// reserved top-level keys of a tick message that are not indicator aliases.
var reservedTickKeys = map[string]bool{
	"symbol":      true,
	"timeframe":   true,
	"marketPrice": true,
	"volume":      true,
	"indicators":  true,
}

var aliasKeySet = func() map[string]bool {
	s := make(map[string]bool, len(model.AliasKeys))
	for _, k := range model.AliasKeys {
		s[k] = true
	}
	return s
}()

// ParseTick decodes one raw feed message. The feed mixes two layouts: the
// indicator payloads normally live under "indicators", but some producers
// put well-known indicators at the top level of the message. Both are
// accepted; unknown top-level keys are ignored.
func ParseTick(raw []byte) (model.Tick, error) {
	var msg map[string]json.RawMessage
	if err := json.Unmarshal(raw, &msg); err != nil {
		return model.Tick{}, fmt.Errorf("decode tick: %w", err)
	}

	var tick model.Tick
	if err := unmarshalField(msg, "symbol", &tick.Symbol); err != nil {
		return model.Tick{}, err
	}
	if err := unmarshalField(msg, "timeframe", &tick.Timeframe); err != nil {
		return model.Tick{}, err
	}
	// Optional fields decode tolerantly: a malformed price or volume must
	// not cost the tick its indicator payload. Numeric strings are coerced
	// the same way the derivations coerce payload values.
	tick.MarketPrice = floatField(msg, "marketPrice")
	tick.Volume = floatField(msg, "volume")
	if raw, ok := msg["indicators"]; ok && string(raw) != "null" {
		if err := json.Unmarshal(raw, &tick.Indicators); err != nil {
			tick.Indicators = nil
		}
	}

	for key, rawVal := range msg {
		if reservedTickKeys[key] || !aliasKeySet[key] {
			continue
		}
		var v any
		if err := json.Unmarshal(rawVal, &v); err != nil {
			continue
		}
		if tick.Aliases == nil {
			tick.Aliases = make(map[string]any)
		}
		tick.Aliases[key] = v
	}

	if !tick.Valid() {
		return model.Tick{}, fmt.Errorf("decode tick: missing symbol or timeframe")
	}
	return tick, nil
}

// floatField extracts an optional numeric field, accepting a JSON number or
// a numeric string; anything else yields zero.
func floatField(msg map[string]json.RawMessage, key string) float64 {
	raw, ok := msg[key]
	if !ok {
		return 0
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err == nil {
		return f
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if f, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil {
			return f
		}
	}
	return 0
}

func unmarshalField(msg map[string]json.RawMessage, key string, dst any) error {
	raw, ok := msg[key]
	if !ok || string(raw) == "null" {
		return nil
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("decode tick field %q: %w", key, err)
	}
	return nil
}
