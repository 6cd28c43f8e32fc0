package internal

import (
	"crypto/md5"
	"encoding/hex"
	"unicode/utf8"
)

// Version is the slidetrans release version
const Version = "0.3.0"

// ShortHash returns the first 8 hex characters of the MD5 digest of s.
// It is used to disambiguate per-document file names, not for integrity.
func ShortHash(s string) string {
	hash := md5.Sum([]byte(s))
	return hex.EncodeToString(hash[:])[:8]
}

// Truncate shortens s to at most n runes, appending "..." when it was cut
func Truncate(s string, n int) string {
	if n <= 0 || utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n]) + "..."
}
