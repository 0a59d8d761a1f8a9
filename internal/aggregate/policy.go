// Package aggregate collapses all normalized rows sharing an identity key
// into one canonical row, applying a fixed per-column merge policy.
package aggregate

import (
	"sort"
	"strings"
	"time"

	"github.com/campusinsights/dwh-cli/internal/normalize"
)

// FirstText returns the first non-absent value in input order.
func FirstText(vals []string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

// LongestText returns the non-absent value with the greatest character
// length; ties go to the earlier value in input order.
func LongestText(vals []string) string {
	var best string
	for _, v := range vals {
		if v != "" && len([]rune(v)) > len([]rune(best)) {
			best = v
		}
	}
	return best
}

// OrBool is the logical OR over tri-state values: true if any contributor
// is true, else false if any is explicitly false, else absent. Absent
// contributors never count as false.
func OrBool(vals []*bool) *bool {
	var sawFalse bool
	for _, v := range vals {
		if v == nil {
			continue
		}
		if *v {
			t := true
			return &t
		}
		sawFalse = true
	}
	if sawFalse {
		f := false
		return &f
	}
	return nil
}

// FirstDate returns the first non-absent date in input order.
func FirstDate(vals []*time.Time) *time.Time {
	for _, v := range vals {
		if v != nil {
			return v
		}
	}
	return nil
}

// MinDate returns the earliest non-absent date.
func MinDate(vals []*time.Time) *time.Time {
	var min *time.Time
	for _, v := range vals {
		if v != nil && (min == nil || v.Before(*min)) {
			min = v
		}
	}
	return min
}

// MaxDate returns the latest non-absent date.
func MaxDate(vals []*time.Time) *time.Time {
	var max *time.Time
	for _, v := range vals {
		if v != nil && v.After(deref(max)) {
			max = v
		}
	}
	return max
}

// FirstInt returns the first non-absent integer in input order.
func FirstInt(vals []*int) *int {
	for _, v := range vals {
		if v != nil {
			return v
		}
	}
	return nil
}

// UniqueSortedJoin splits every contributing value on the list delimiter,
// normalizes the atomic tokens, deduplicates, sorts lexicographically and
// joins with sep. Absent when no tokens remain.
func UniqueSortedJoin(vals []string, sep string) string {
	seen := make(map[string]bool)
	var tokens []string
	for _, v := range vals {
		for _, raw := range strings.Split(v, ";") {
			tok := normalize.Subject(raw)
			if tok == "" || seen[tok] {
				continue
			}
			seen[tok] = true
			tokens = append(tokens, tok)
		}
	}
	if len(tokens) == 0 {
		return ""
	}
	sort.Strings(tokens)
	return strings.Join(tokens, sep)
}

func deref(t *time.Time) time.Time {
	if t == nil {
		return time.Time{}
	}
	return *t
}
