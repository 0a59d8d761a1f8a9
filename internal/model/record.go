// Package model defines the record types flowing through the warehouse
// pipeline: raw cells as read from the source file, their normalized typed
// projection, and the canonical per-student-year row.
package model

import "time"

// RawRecord is one input row with cells mapped to logical fields by header
// name. Values are untouched strings as read from the source; they may carry
// stray whitespace, mixed casing, literal "NULL" markers, or any of the date
// and boolean spellings the source is known to produce.
type RawRecord struct {
	Nom               string
	Prenom            string
	DateNaissance     string
	Nationalite       string
	Ecole             string
	Matiere           string
	Annee             string
	Projet            string
	DescriptionProjet string
	Publie            string
	Entreprise        string
	PaysEntreprise    string
	DateEmbauche      string
	StageEntreprise   string
	StagePays         string
	StageDebut        string
	StageFin          string
}

// NormalizedRecord is the typed projection of a RawRecord.
//
// Text fields are trimmed with internal whitespace collapsed; the empty
// string means absent. Dates, the year and the published flag are pointers
// where nil means absent (for Publie, nil is the tri-state "unknown",
// distinct from false).
type NormalizedRecord struct {
	Nom               string
	Prenom            string
	DateNaissance     *time.Time
	Nationalite       string
	Ecole             string
	Matiere           string
	Annee             *int
	Projet            string
	DescriptionProjet string
	Publie            *bool
	Entreprise        string
	PaysEntreprise    string
	DateEmbauche      *time.Time
	StageEntreprise   string
	StagePays         string
	StageDebut        *time.Time
	StageFin          *time.Time
}

// CanonicalRecord is the single merged row for one student-year group.
// Matiere holds the unique-sorted-joined subject list. Immutable once
// produced by the aggregation step.
type CanonicalRecord struct {
	Nom               string
	Prenom            string
	DateNaissance     *time.Time
	Nationalite       string
	Ecole             string
	Matiere           string
	Annee             *int
	Projet            string
	DescriptionProjet string
	Publie            *bool
	Entreprise        string
	PaysEntreprise    string
	DateEmbauche      *time.Time
	StageEntreprise   string
	StagePays         string
	StageDebut        *time.Time
	StageFin          *time.Time
}

// Date builds a UTC calendar date. Test and fixture helper.
func Date(year int, month time.Month, day int) *time.Time {
	t := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	return &t
}

// Int returns a pointer to n.
func Int(n int) *int { return &n }

// Bool returns a pointer to b.
func Bool(b bool) *bool { return &b }
