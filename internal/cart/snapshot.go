package cart

import (
	"encoding/json"

	"storefront-service/internal/models"
)

// Marshal encodes the ledger as a JSON array of lines. An empty cart is "[]".
func Marshal(l *Ledger) ([]byte, error) {
	lines := l.Lines()
	if lines == nil {
		lines = []models.CartLine{}
	}
	return json.Marshal(lines)
}

// Restore decodes a persisted cart. Anything that is not a JSON array of
// line records yields an empty cart. Records with an empty id or a
// non-positive quantity are dropped, and a repeated id keeps its first line.
func Restore(data []byte) *Ledger {
	if len(data) == 0 {
		return NewLedger(nil)
	}
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return NewLedger(nil)
	}
	lines := make([]models.CartLine, 0, len(raw))
	for _, item := range raw {
		var line models.CartLine
		if err := json.Unmarshal(item, &line); err != nil {
			continue
		}
		lines = append(lines, line)
	}
	return NewLedger(lines)
}
