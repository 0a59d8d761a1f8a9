// Package warehouse re-derives stable dimension entries and fact rows from
// canonical student-year records. All matching state is scoped to one run
// and threaded through a Builder, never held globally.
package warehouse

import "time"

// Variant selects how the multi-valued subject list is represented.
type Variant string

const (
	// VariantAggregate keeps one subject-dimension entry per distinct
	// joined subject string; each fact references exactly one entry.
	VariantAggregate Variant = "aggregate"
	// VariantBridge keeps one subject-dimension entry per atomic subject
	// and links facts through a many-to-many bridge.
	VariantBridge Variant = "bridge"
)

// Employer is the employment dimension (hire date, company, country).
type Employer struct {
	ID         int64
	Embauche   *time.Time
	Entreprise string
	Pays       string
}

// Student is the student dimension. The natural key is (nom, prenom,
// date_naissance); nationality, school and the employment link are the only
// attributes allowed to fill in on a repeated match, because students recur
// across reporting years.
type Student struct {
	ID            int64
	Nom           string
	Prenom        string
	DateNaissance *time.Time
	Nationalite   string
	Ecole         string
	EmployeID     *int64
}

// School is the school dimension, keyed by name.
type School struct {
	ID  int64
	Nom string
}

// Project is the project dimension, keyed null-safely by name,
// description and published flag.
type Project struct {
	ID          int64
	Nom         string
	Description string
	Publie      *bool
}

// Internship is the internship-info dimension. An entry requires the
// company plus at least one of country, start or end date.
type Internship struct {
	ID         int64
	Pays       string
	Entreprise string
	Debut      *time.Time
	Fin        *time.Time
}

// Subject is the subject dimension: one aggregate entry per joined subject
// string, or one entry per atomic subject in the bridge variant.
type Subject struct {
	ID  int64
	Nom string
}

// Fact is one student-year fact row. All dimension references are nullable:
// an unmatched dimension is legal and never drops the row.
type Fact struct {
	ID         int64
	Annee      int
	EcoleID    *int64
	StageID    *int64
	EtudiantID *int64
	ProjetID   *int64
	MatiereID  *int64
}

// FactSubject is one bridge row in the bridge variant.
type FactSubject struct {
	FaitID    int64
	MatiereID int64
}

// Snapshot is the complete warehouse content produced by one run,
// ready for atomic republication to the backing store.
type Snapshot struct {
	Variant Variant

	Employers   []Employer
	Students    []Student
	Schools     []School
	Projects    []Project
	Internships []Internship
	Subjects    []Subject

	Facts        []Fact
	FactSubjects []FactSubject
}
