package normalize

import (
	"github.com/campusinsights/dwh-cli/internal/model"
)

// Field names reported in parse-failure summaries.
const (
	FieldDateNaissance = "date_naissance"
	FieldAnnee         = "annee"
	FieldPublie        = "publie"
	FieldDateEmbauche  = "date_embauche"
	FieldStageDebut    = "stage_debut"
	FieldStageFin      = "stage_fin"
)

// Record normalizes one raw row. Unparseable fields become absent and are
// returned by name so the caller can aggregate a run-level summary; no row
// is ever rejected here.
func Record(raw model.RawRecord) (model.NormalizedRecord, []string) {
	var issues []string

	rec := model.NormalizedRecord{
		Nom:               Name(raw.Nom),
		Prenom:            Name(raw.Prenom),
		Nationalite:       Text(raw.Nationalite),
		Ecole:             Text(raw.Ecole),
		Matiere:           Text(raw.Matiere),
		Projet:            Text(raw.Projet),
		DescriptionProjet: Text(raw.DescriptionProjet),
		Entreprise:        Text(raw.Entreprise),
		PaysEntreprise:    Text(raw.PaysEntreprise),
		StageEntreprise:   Text(raw.StageEntreprise),
		StagePays:         Text(raw.StagePays),
	}

	var ok bool
	if rec.DateNaissance, ok = Date(raw.DateNaissance); !ok {
		issues = append(issues, FieldDateNaissance)
	}
	if rec.Annee, ok = Year(raw.Annee); !ok {
		issues = append(issues, FieldAnnee)
	}
	if rec.Publie, ok = Bool(raw.Publie); !ok {
		issues = append(issues, FieldPublie)
	}
	if rec.DateEmbauche, ok = Date(raw.DateEmbauche); !ok {
		issues = append(issues, FieldDateEmbauche)
	}
	if rec.StageDebut, ok = Date(raw.StageDebut); !ok {
		issues = append(issues, FieldStageDebut)
	}
	if rec.StageFin, ok = Date(raw.StageFin); !ok {
		issues = append(issues, FieldStageFin)
	}

	// An inverted internship range is a data-entry slip: swap the roles so
	// start <= end always holds downstream, keeping both original values.
	if rec.StageDebut != nil && rec.StageFin != nil && rec.StageFin.Before(*rec.StageDebut) {
		rec.StageDebut, rec.StageFin = rec.StageFin, rec.StageDebut
	}

	// The internship company falls back to the direct employer before
	// identity keying.
	if rec.StageEntreprise == "" {
		rec.StageEntreprise = rec.Entreprise
	}

	return rec, issues
}
