package store

import (
	"fmt"
	"strconv"
	"time"

	"github.com/campusinsights/dwh-cli/internal/model"
	"github.com/campusinsights/dwh-cli/internal/warehouse"
)

// Column lists per relation, in load order.
var (
	employeCols  = []string{"id_employe", "date_embauche", "entreprise", "pays"}
	etudiantCols = []string{"id_etudiant", "nom", "prenom", "date_naissance", "nationalite", "ecole", "id_employe"}
	ecoleCols    = []string{"id_ecole", "nom_ecole"}
	matiereCols  = []string{"id_matiere", "nom_matiere"}
	projetCols   = []string{"id_projet", "nom_projet", "description", "publier"}
	stageCols    = []string{"id_stage", "pays", "entreprise", "date_debut", "date_fin"}
	faitCols     = []string{"id_fait", "annee", "id_ecole", "id_stage", "id_etudiant", "id_projet", "id_matiere"}
	faitMatCols  = []string{"id_fait", "id_matiere"}

	stagingCols = []string{
		"nom", "prenom", "date_naissance", "annee", "nationalite", "ecole",
		"matiere", "projet", "description_projet", "publie", "entreprise",
		"pays_entreprise", "date_embauche", "stage_entreprise", "stage_pays",
		"stage_debut", "stage_fin",
	}
)

// encoder converts optional domain values into driver-level arguments.
// The Postgres driver takes native time.Time and bool; SQLite stores dates
// as ISO text and booleans as 0/1.
type encoder struct {
	date    func(*time.Time) any
	boolean func(*bool) any
}

var pgEncoder = encoder{
	date: func(t *time.Time) any {
		if t == nil {
			return nil
		}
		return *t
	},
	boolean: func(b *bool) any {
		if b == nil {
			return nil
		}
		return *b
	},
}

var sqliteEncoder = encoder{
	date: func(t *time.Time) any {
		if t == nil {
			return nil
		}
		return t.Format("2006-01-02")
	},
	boolean: func(b *bool) any {
		if b == nil {
			return nil
		}
		if *b {
			return 1
		}
		return 0
	},
}

func textArg(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func idArg(p *int64) any {
	if p == nil {
		return nil
	}
	return *p
}

func intArg(p *int) any {
	if p == nil {
		return nil
	}
	return *p
}

func employerRows(snap *warehouse.Snapshot, e encoder) [][]any {
	rows := make([][]any, len(snap.Employers))
	for i, d := range snap.Employers {
		rows[i] = []any{d.ID, e.date(d.Embauche), textArg(d.Entreprise), textArg(d.Pays)}
	}
	return rows
}

func studentRows(snap *warehouse.Snapshot, e encoder) [][]any {
	rows := make([][]any, len(snap.Students))
	for i, d := range snap.Students {
		rows[i] = []any{d.ID, textArg(d.Nom), textArg(d.Prenom), e.date(d.DateNaissance), textArg(d.Nationalite), textArg(d.Ecole), idArg(d.EmployeID)}
	}
	return rows
}

func schoolRows(snap *warehouse.Snapshot) [][]any {
	rows := make([][]any, len(snap.Schools))
	for i, d := range snap.Schools {
		rows[i] = []any{d.ID, d.Nom}
	}
	return rows
}

func subjectRows(snap *warehouse.Snapshot) [][]any {
	rows := make([][]any, len(snap.Subjects))
	for i, d := range snap.Subjects {
		rows[i] = []any{d.ID, d.Nom}
	}
	return rows
}

func projectRows(snap *warehouse.Snapshot, e encoder) [][]any {
	rows := make([][]any, len(snap.Projects))
	for i, d := range snap.Projects {
		rows[i] = []any{d.ID, textArg(d.Nom), textArg(d.Description), e.boolean(d.Publie)}
	}
	return rows
}

func internshipRows(snap *warehouse.Snapshot, e encoder) [][]any {
	rows := make([][]any, len(snap.Internships))
	for i, d := range snap.Internships {
		rows[i] = []any{d.ID, textArg(d.Pays), textArg(d.Entreprise), e.date(d.Debut), e.date(d.Fin)}
	}
	return rows
}

func factRows(snap *warehouse.Snapshot) [][]any {
	rows := make([][]any, len(snap.Facts))
	for i, f := range snap.Facts {
		rows[i] = []any{f.ID, f.Annee, idArg(f.EcoleID), idArg(f.StageID), idArg(f.EtudiantID), idArg(f.ProjetID), idArg(f.MatiereID)}
	}
	return rows
}

func factSubjectRows(snap *warehouse.Snapshot) [][]any {
	rows := make([][]any, len(snap.FactSubjects))
	for i, fs := range snap.FactSubjects {
		rows[i] = []any{fs.FaitID, fs.MatiereID}
	}
	return rows
}

func stagingRows(recs []model.CanonicalRecord, e encoder) [][]any {
	rows := make([][]any, len(recs))
	for i, r := range recs {
		rows[i] = []any{
			textArg(r.Nom), textArg(r.Prenom), e.date(r.DateNaissance), intArg(r.Annee),
			textArg(r.Nationalite), textArg(r.Ecole), textArg(r.Matiere), textArg(r.Projet),
			textArg(r.DescriptionProjet), e.boolean(r.Publie), textArg(r.Entreprise),
			textArg(r.PaysEntreprise), e.date(r.DateEmbauche), textArg(r.StageEntreprise),
			textArg(r.StagePays), e.date(r.StageDebut), e.date(r.StageFin),
		}
	}
	return rows
}

// renderValue stringifies a scanned cell for CSV export. Absent values
// render as the empty string, dates as ISO calendar dates.
func renderValue(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case time.Time:
		if x.Hour() == 0 && x.Minute() == 0 && x.Second() == 0 {
			return x.Format("2006-01-02")
		}
		return x.Format(time.RFC3339)
	case string:
		return x
	case []byte:
		return string(x)
	case bool:
		return strconv.FormatBool(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case int32:
		return strconv.FormatInt(int64(x), 10)
	case int:
		return strconv.Itoa(x)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	default:
		return fmt.Sprintf("%v", x)
	}
}
