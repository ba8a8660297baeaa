package identity

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

const hashLen = 12

// Fingerprint derives the stable dedup key for a hotel offer from its name,
// location and current discounted price. Casing and surrounding whitespace do
// not affect the result; a missing price contributes an empty component, so a
// price change yields a different identity.
func Fingerprint(name, location, discountedPrice string) string {
	input := normalize(name) + "|" + normalize(location) + "|" + normalize(discountedPrice)
	hash := sha256.Sum256([]byte(input))
	return hex.EncodeToString(hash[:])[:hashLen]
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
