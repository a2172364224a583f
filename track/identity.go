package track

import (
	"crypto/sha1"
	"encoding/hex"
	"strings"
)

// Fingerprint derives the stable identity for a track from its artist and
// title. Matching (artist, title) pairs always map to the same fingerprint
// regardless of case, so repeated polls hit the same cache entries.
//
// Album is deliberately excluded: two recordings of the same song share an
// identity. That collision is accepted; the fingerprint is a cache key, not
// a catalog ID.
func Fingerprint(artist, title string) string {
	h := sha1.Sum([]byte(strings.ToLower(artist) + "|" + strings.ToLower(title)))
	return hex.EncodeToString(h[:])
}
