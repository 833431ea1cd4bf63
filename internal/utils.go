package internal

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"time"
	"unicode/utf8"
)

// GenerateRecordID creates a unique ID for a translation record based on
// the time of the request and the source text.
// Format: epochMillis_md5(source)[:8]
func GenerateRecordID(source string, at time.Time) string {
	epochMillis := at.UnixNano() / 1000000

	hash := md5.Sum([]byte(source))
	hashStr := hex.EncodeToString(hash[:])[:8]

	return fmt.Sprintf("%d_%s", epochMillis, hashStr)
}

// Abbreviate shortens s to at most max runes, appending an ellipsis when
// something was cut off. Used for single-line previews of translations.
func Abbreviate(s string, max int) string {
	if max <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= max {
		return s
	}

	runes := []rune(s)
	return string(runes[:max]) + "…"
}
