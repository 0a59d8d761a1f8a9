package warehouse

import (
	"strings"

	"go.uber.org/zap"

	"github.com/campusinsights/dwh-cli/internal/model"
	"github.com/campusinsights/dwh-cli/internal/normalize"
)

// Options configures a warehouse build.
type Options struct {
	Variant Variant
	ListSep string // delimiter of the joined subject list
}

// Builder carries the run-scoped matching state: every dimension entry
// created so far, with natural-key lookup indexes. Surrogate ids are
// assigned in first-seen order, so callers must feed canonical records in
// a fixed order (the pipeline sorts them by identity key).
type Builder struct {
	opts Options
	snap *Snapshot

	employers   map[string]int64
	students    map[string]int64
	schools     map[string]int64
	projects    map[string]int64
	internships map[string]int64
	subjects    map[string]int64
}

// NewBuilder creates an empty run-scoped builder.
func NewBuilder(opts Options) *Builder {
	if opts.Variant == "" {
		opts.Variant = VariantAggregate
	}
	// A separator that trims to nothing cannot split the joined subject
	// list; treat it as unset.
	if strings.TrimSpace(opts.ListSep) == "" {
		opts.ListSep = "; "
	}
	return &Builder{
		opts:        opts,
		snap:        &Snapshot{Variant: opts.Variant},
		employers:   make(map[string]int64),
		students:    make(map[string]int64),
		schools:     make(map[string]int64),
		projects:    make(map[string]int64),
		internships: make(map[string]int64),
		subjects:    make(map[string]int64),
	}
}

// Build matches every canonical record against the dimensions and emits one
// fact per record with a non-absent year. Records must be pre-sorted.
func Build(records []model.CanonicalRecord, opts Options) *Snapshot {
	b := NewBuilder(opts)
	for _, rec := range records {
		b.Add(rec)
	}
	zap.L().Info("warehouse: build complete",
		zap.Int("employers", len(b.snap.Employers)),
		zap.Int("students", len(b.snap.Students)),
		zap.Int("schools", len(b.snap.Schools)),
		zap.Int("projects", len(b.snap.Projects)),
		zap.Int("internships", len(b.snap.Internships)),
		zap.Int("subjects", len(b.snap.Subjects)),
		zap.Int("facts", len(b.snap.Facts)),
		zap.String("variant", string(b.snap.Variant)),
	)
	return b.snap
}

// Snapshot returns the warehouse content built so far.
func (b *Builder) Snapshot() *Snapshot { return b.snap }

// Add matches one canonical record and, when it carries a year, assembles
// its fact row.
func (b *Builder) Add(rec model.CanonicalRecord) {
	employeID := b.ensureEmployer(rec)
	etudiantID := b.ensureStudent(rec, employeID)
	ecoleID := b.ensureSchool(rec.Ecole)
	projetID := b.ensureProject(rec)
	stageID := b.ensureInternship(rec)

	// A record with an absent period contributes to the dimensions above
	// but can never belong to a period-scoped fact.
	if rec.Annee == nil {
		return
	}

	fact := Fact{
		ID:         int64(len(b.snap.Facts) + 1),
		Annee:      *rec.Annee,
		EcoleID:    ecoleID,
		StageID:    stageID,
		EtudiantID: etudiantID,
		ProjetID:   projetID,
	}

	switch b.opts.Variant {
	case VariantBridge:
		for _, tok := range b.splitSubjects(rec.Matiere) {
			b.snap.FactSubjects = append(b.snap.FactSubjects, FactSubject{
				FaitID:    fact.ID,
				MatiereID: b.ensureSubject(tok),
			})
		}
	default:
		if rec.Matiere != "" {
			id := b.ensureSubject(rec.Matiere)
			fact.MatiereID = &id
		}
	}

	b.snap.Facts = append(b.snap.Facts, fact)
}

func (b *Builder) ensureEmployer(rec model.CanonicalRecord) *int64 {
	if rec.DateEmbauche == nil && rec.Entreprise == "" && rec.PaysEntreprise == "" {
		return nil
	}
	key := naturalKey(dateKeyPart(rec.DateEmbauche), rec.Entreprise, rec.PaysEntreprise)
	if id, ok := b.employers[key]; ok {
		return &id
	}
	id := int64(len(b.snap.Employers) + 1)
	b.snap.Employers = append(b.snap.Employers, Employer{
		ID:         id,
		Embauche:   rec.DateEmbauche,
		Entreprise: rec.Entreprise,
		Pays:       rec.PaysEntreprise,
	})
	b.employers[key] = id
	return &id
}

func (b *Builder) ensureStudent(rec model.CanonicalRecord, employeID *int64) *int64 {
	key := naturalKey(rec.Nom, rec.Prenom, dateKeyPart(rec.DateNaissance))
	if id, ok := b.students[key]; ok {
		// Students recur across years, so the non-key attributes may
		// fill in from a later record instead of duplicating the entry.
		s := &b.snap.Students[id-1]
		if s.Nationalite == "" {
			s.Nationalite = rec.Nationalite
		}
		if s.Ecole == "" {
			s.Ecole = rec.Ecole
		}
		if s.EmployeID == nil {
			s.EmployeID = employeID
		}
		return &id
	}
	id := int64(len(b.snap.Students) + 1)
	b.snap.Students = append(b.snap.Students, Student{
		ID:            id,
		Nom:           rec.Nom,
		Prenom:        rec.Prenom,
		DateNaissance: rec.DateNaissance,
		Nationalite:   rec.Nationalite,
		Ecole:         rec.Ecole,
		EmployeID:     employeID,
	})
	b.students[key] = id
	return &id
}

func (b *Builder) ensureSchool(nom string) *int64 {
	if nom == "" {
		return nil
	}
	if id, ok := b.schools[nom]; ok {
		return &id
	}
	id := int64(len(b.snap.Schools) + 1)
	b.snap.Schools = append(b.snap.Schools, School{ID: id, Nom: nom})
	b.schools[nom] = id
	return &id
}

func (b *Builder) ensureProject(rec model.CanonicalRecord) *int64 {
	key := naturalKey(rec.Projet, rec.DescriptionProjet, boolKeyPart(rec.Publie))
	if id, ok := b.projects[key]; ok {
		return &id
	}
	id := int64(len(b.snap.Projects) + 1)
	b.snap.Projects = append(b.snap.Projects, Project{
		ID:          id,
		Nom:         rec.Projet,
		Description: rec.DescriptionProjet,
		Publie:      rec.Publie,
	})
	b.projects[key] = id
	return &id
}

func (b *Builder) ensureInternship(rec model.CanonicalRecord) *int64 {
	// The minimum-field gate: company plus at least one of country or
	// dates. Rows failing it are excluded from this dimension only.
	if rec.StageEntreprise == "" {
		return nil
	}
	if rec.StagePays == "" && rec.StageDebut == nil && rec.StageFin == nil {
		return nil
	}
	key := naturalKey(rec.StagePays, rec.StageEntreprise, dateKeyPart(rec.StageDebut), dateKeyPart(rec.StageFin))
	if id, ok := b.internships[key]; ok {
		return &id
	}
	id := int64(len(b.snap.Internships) + 1)
	b.snap.Internships = append(b.snap.Internships, Internship{
		ID:         id,
		Pays:       rec.StagePays,
		Entreprise: rec.StageEntreprise,
		Debut:      rec.StageDebut,
		Fin:        rec.StageFin,
	})
	b.internships[key] = id
	return &id
}

func (b *Builder) ensureSubject(nom string) int64 {
	if id, ok := b.subjects[nom]; ok {
		return id
	}
	id := int64(len(b.snap.Subjects) + 1)
	b.snap.Subjects = append(b.snap.Subjects, Subject{ID: id, Nom: nom})
	b.subjects[nom] = id
	return id
}

func (b *Builder) splitSubjects(joined string) []string {
	if joined == "" {
		return nil
	}
	var out []string
	for _, tok := range strings.Split(joined, strings.TrimSpace(b.opts.ListSep)) {
		tok = normalize.Subject(tok)
		if tok != "" {
			out = append(out, tok)
		}
	}
	return out
}
