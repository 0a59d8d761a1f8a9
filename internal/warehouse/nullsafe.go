package warehouse

import (
	"strings"
	"time"
)

// Null-safe equality: two absent values are equal to each other, one absent
// and one present never are. Matching itself runs over the naturalKey
// encoding below; these comparisons state the rule the encoding must agree
// with, and the tests hold the two together.

// textEqual reports null-safe equality of two text attributes, where ""
// is the absent marker.
func textEqual(a, b string) bool { return a == b }

// dateEqual reports null-safe equality of two optional dates.
func dateEqual(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Equal(*b)
}

// boolEqual reports null-safe equality of two tri-state booleans.
func boolEqual(a, b *bool) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

// keySep separates natural-key parts; it cannot occur in cleaned text.
const keySep = "\x1f"

// naturalKey encodes natural-key parts so that map equality of encodings
// coincides exactly with part-wise null-safe equality.
func naturalKey(parts ...string) string {
	return strings.Join(parts, keySep)
}

func dateKeyPart(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format("2006-01-02")
}

func boolKeyPart(b *bool) string {
	if b == nil {
		return ""
	}
	if *b {
		return "t"
	}
	return "f"
}
