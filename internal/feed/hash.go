package feed

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
)

// contentHash returns a short stable hex digest of the joined parts.
func contentHash(parts ...string) string {
	sum := sha256.Sum256([]byte(strings.Join(parts, "/")))
	return hex.EncodeToString(sum[:])[:20]
}

// SourceID derives the stable id of a source from its identity tuple. The
// canonical key is the normalized feed URL or handle, so re-adding the same
// logical feed always lands on the same id.
func SourceID(sourceType, userID, columnID, canonicalKey string) string {
	return fmt.Sprintf("%s-%s", sourceType, contentHash(userID, columnID, canonicalKey))
}

// ItemID derives the content-addressed id of an item from its source and the
// entry's identifier (GUID when present, first link otherwise).
func ItemID(sourceID, entryKey string) string {
	return contentHash(sourceID, entryKey)
}
