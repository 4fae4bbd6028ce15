package pagelingo

import (
	"crypto/sha256"
	"encoding/hex"
)

// HashText computes the SHA-256 hash of the text exactly as given. The
// pipeline treats strings as opaque; whitespace handling is up to the
// extractor that supplies them.
func HashText(text string) string {
	hash := sha256.Sum256([]byte(text))
	return hex.EncodeToString(hash[:])
}

// CacheKey generates a session cache key from a text hash and target
// language.
func CacheKey(hash, targetLang string) string {
	return hash + ":" + targetLang
}
