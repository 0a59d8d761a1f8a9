// Package identity derives the grouping key that decides which normalized
// rows are fragments of the same student within the same reporting year.
package identity

import (
	"strconv"
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/campusinsights/dwh-cli/internal/model"
)

var stripAccents = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Key identifies one student-year. Name components are accent- and
// case-folded; absent birth date or year are explicit empty markers, so
// any combination of absent components still yields a valid key. Rows with
// equal keys must be merged; rows with different keys are always distinct.
type Key struct {
	Nom       string
	Prenom    string
	Naissance string
	Annee     string
}

// New derives the key for the given identity components.
func New(nom, prenom string, naissance *time.Time, annee *int) Key {
	k := Key{
		Nom:    Fold(nom),
		Prenom: Fold(prenom),
	}
	if naissance != nil {
		k.Naissance = naissance.Format("2006-01-02")
	}
	if annee != nil {
		k.Annee = strconv.Itoa(*annee)
	}
	return k
}

// Of derives the key for a normalized record.
func Of(rec model.NormalizedRecord) Key {
	return New(rec.Nom, rec.Prenom, rec.DateNaissance, rec.Annee)
}

// String renders the key in a stable, sortable form.
func (k Key) String() string {
	return k.Nom + "|" + k.Prenom + "|" + k.Naissance + "|" + k.Annee
}

// Fold lowercases s and strips combining accents ("Élodie" -> "elodie").
func Fold(s string) string {
	folded, _, err := transform.String(stripAccents, strings.ToLower(s))
	if err != nil {
		return strings.ToLower(s)
	}
	return folded
}
