package tlgate

import (
	"crypto/sha256"
	"encoding/hex"
	"hash"
	"strconv"
	"strings"
)

// HashText computes the SHA-256 hash of the trimmed text.
func HashText(text string) string {
	trimmed := strings.TrimSpace(text)
	sum := sha256.Sum256([]byte(trimmed))
	return hex.EncodeToString(sum[:])
}

// CacheKey derives the cache key of a plain-text request from its source
// language (empty when absent), target language and full original text.
// The key is a 64-character hex string.
func CacheKey(source, target, text string) string {
	return CacheKeyForFormat(FormatText, source, target, text)
}

// CacheKeyForFormat is CacheKey with the content format folded in, so the
// same text translated as HTML and as plain text never shares an entry.
func CacheKeyForFormat(format Format, source, target, text string) string {
	h := sha256.New()
	writeField(h, string(normalizeFormat(format)))
	writeField(h, source)
	writeField(h, target)
	h.Write([]byte(text))
	return hex.EncodeToString(h.Sum(nil))
}

// writeField length-prefixes s so field boundaries stay unambiguous.
func writeField(h hash.Hash, s string) {
	h.Write([]byte(strconv.Itoa(len(s))))
	h.Write([]byte{':'})
	h.Write([]byte(s))
	h.Write([]byte{'|'})
}
