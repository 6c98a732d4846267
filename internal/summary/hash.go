package summary

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// HashPayload returns the SHA-256 hex digest of the JSON encoding of v.
// Used to key cached summaries: the same settlement state always produces
// the same hash, so a summary is regenerated only when balances actually
// change.
func HashPayload(v any) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("failed to encode payload: %w", err)
	}
	digest := sha256.Sum256(data)
	return hex.EncodeToString(digest[:]), nil
}
