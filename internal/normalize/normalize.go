// Package normalize canonicalizes raw field values into typed form: text
// cleanup, French name casing, tri-state boolean coercion and multi-format
// date parsing. Field-level parse failures are never fatal; the field
// becomes absent and the failure is reported back to the caller for the
// run summary.
package normalize

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var (
	spaceRuns = regexp.MustCompile(`\s+`)

	// French connective particles stay lowercase inside proper names
	// regardless of position ("Jean de la Fontaine").
	particles = regexp.MustCompile(`\b(D|L|De|Du|Des|La|Le|Les|D')\b`)

	oneRe  = regexp.MustCompile(`^1(\.0+)?$`)
	zeroRe = regexp.MustCompile(`^0(\.0+)?$`)

	frTitle = cases.Title(language.French)
)

// dateLayouts is the fixed ordered list tried before the permissive
// day-first fallback.
var dateLayouts = []string{
	"2006-01-02",
	"02/01/2006",
	"02-01-2006",
	"01/02/2006",
	"2006/01/02",
	"2006-01-02 15:04:05",
	time.RFC3339,
}

var truthy = map[string]bool{
	"true": true, "vrai": true, "oui": true, "o": true,
	"yes": true, "y": true, "1": true, "t": true, "x": true,
	"✓": true, "✔": true, "publié": true, "published": true,
}

var falsy = map[string]bool{
	"false": true, "faux": true, "non": true, "n": true,
	"no": true, "0": true, "f": true, "✗": true, "×": true,
	"non publié": true, "unpublished": true,
}

// Text trims s, collapses internal whitespace runs to a single space and
// maps the empty string and the literal NULL marker to absent ("").
func Text(s string) string {
	s = spaceRuns.ReplaceAllString(strings.TrimSpace(s), " ")
	if strings.EqualFold(s, "NULL") {
		return ""
	}
	return s
}

// Name cleans s like Text, then title-cases each token and re-lowercases
// the French particles.
func Name(s string) string {
	s = Text(s)
	if s == "" {
		return ""
	}
	s = frTitle.String(strings.ToLower(s))
	return particles.ReplaceAllStringFunc(s, strings.ToLower)
}

// Subject normalizes one atomic subject token: cleaned and title-cased so
// "art" and "Art" collapse to the same value.
func Subject(s string) string {
	s = Text(s)
	if s == "" {
		return ""
	}
	return frTitle.String(strings.ToLower(s))
}

// Bool coerces s to a tri-state boolean. It accepts numeric 0/1 and their
// float spellings, the usual French and English truthy/falsy words and the
// check-mark symbols. The second return is false when a non-empty value
// could not be interpreted; the value is then absent, never an error.
func Bool(s string) (*bool, bool) {
	s = strings.ToLower(Text(s))
	if s == "" {
		return nil, true
	}
	switch {
	case oneRe.MatchString(s):
		return boolPtr(true), true
	case zeroRe.MatchString(s):
		return boolPtr(false), true
	case truthy[s]:
		return boolPtr(true), true
	case falsy[s]:
		return boolPtr(false), true
	}
	// Typed numeric cells arrive as float strings; round like the source
	// system does.
	if f, err := strconv.ParseFloat(s, 64); err == nil && !math.IsNaN(f) {
		return boolPtr(math.Round(f) != 0), true
	}
	return nil, false
}

// Date parses s against the fixed layout list, then falls back to a
// permissive day-first parse. The second return is false when a non-empty
// value could not be parsed; the value is then absent.
func Date(s string) (*time.Time, bool) {
	s = Text(s)
	if s == "" {
		return nil, true
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			d := t.UTC().Truncate(24 * time.Hour)
			return &d, true
		}
	}
	if t, ok := dayFirst(s); ok {
		return t, true
	}
	return nil, false
}

// Year parses a period year, tolerating float spellings like "2021.0".
func Year(s string) (*int, bool) {
	s = Text(s)
	if s == "" {
		return nil, true
	}
	if n, err := strconv.Atoi(s); err == nil {
		return &n, true
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil && f == math.Trunc(f) {
		n := int(f)
		return &n, true
	}
	return nil, false
}

var dateSep = regexp.MustCompile(`[./\-\s]+`)

// dayFirst is the permissive fallback: three numeric components separated
// by any of . / - or spaces, day first unless the leading component can
// only be a year.
func dayFirst(s string) (*time.Time, bool) {
	parts := dateSep.Split(s, -1)
	if len(parts) != 3 {
		return nil, false
	}
	nums := make([]int, 3)
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			return nil, false
		}
		nums[i] = n
	}

	var y, m, d int
	if nums[0] > 31 {
		y, m, d = nums[0], nums[1], nums[2]
	} else {
		d, m, y = nums[0], nums[1], nums[2]
	}
	if y < 100 {
		if y < 70 {
			y += 2000
		} else {
			y += 1900
		}
	}
	if m < 1 || m > 12 || d < 1 || d > 31 {
		return nil, false
	}
	t := time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
	// Reject overflowed dates like 31/02.
	if t.Day() != d || t.Month() != time.Month(m) {
		return nil, false
	}
	return &t, true
}

func boolPtr(b bool) *bool { return &b }
