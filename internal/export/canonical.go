package export

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/campusinsights/dwh-cli/internal/model"
)

// canonicalHeader is the column order of the cleaned snapshot files.
var canonicalHeader = []string{
	"nom", "prenom", "date_naissance", "annee", "nationalite", "ecole",
	"matiere", "projet", "description_projet", "publie", "entreprise",
	"pays_entreprise", "date_embauche", "stage_entreprise", "stage_pays",
	"stage_debut", "stage_fin",
}

func canonicalRow(r model.CanonicalRecord) []string {
	return []string{
		r.Nom, r.Prenom, fmtDate(r.DateNaissance), fmtInt(r.Annee),
		r.Nationalite, r.Ecole, r.Matiere, r.Projet, r.DescriptionProjet,
		fmtBool(r.Publie), r.Entreprise, r.PaysEntreprise,
		fmtDate(r.DateEmbauche), r.StageEntreprise, r.StagePays,
		fmtDate(r.StageDebut), fmtDate(r.StageFin),
	}
}

// WriteCanonicalCSV writes the cleaned, aggregated snapshot to a CSV file.
func WriteCanonicalCSV(path string, recs []model.CanonicalRecord, sep rune) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return eris.Wrapf(err, "export: create dir for %s", path)
	}
	f, err := os.Create(path)
	if err != nil {
		return eris.Wrapf(err, "export: create %s", path)
	}
	defer f.Close()

	if _, err := f.Write(utf8BOM); err != nil {
		return eris.Wrapf(err, "export: write BOM to %s", path)
	}

	w := csv.NewWriter(f)
	if sep != 0 {
		w.Comma = sep
	}
	if err := w.Write(canonicalHeader); err != nil {
		return eris.Wrapf(err, "export: write header to %s", path)
	}
	for _, rec := range recs {
		if err := w.Write(canonicalRow(rec)); err != nil {
			return eris.Wrapf(err, "export: write row to %s", path)
		}
	}
	w.Flush()
	return eris.Wrapf(w.Error(), "export: flush %s", path)
}

// WriteCanonicalXLSX writes the cleaned, aggregated snapshot to an XLSX
// workbook with a single sheet.
func WriteCanonicalXLSX(path string, recs []model.CanonicalRecord) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return eris.Wrapf(err, "export: create dir for %s", path)
	}

	f := xlsx.NewFile()
	sheet, err := f.AddSheet("clean_by_year")
	if err != nil {
		return eris.Wrap(err, "export: add xlsx sheet")
	}

	header := sheet.AddRow()
	for _, col := range canonicalHeader {
		header.AddCell().SetString(col)
	}
	for _, rec := range recs {
		row := sheet.AddRow()
		for _, val := range canonicalRow(rec) {
			row.AddCell().SetString(val)
		}
	}

	return eris.Wrapf(f.Save(path), "export: save %s", path)
}

func fmtDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format("2006-01-02")
}

func fmtInt(n *int) string {
	if n == nil {
		return ""
	}
	return strconv.Itoa(*n)
}

func fmtBool(b *bool) string {
	if b == nil {
		return ""
	}
	if *b {
		return "True"
	}
	return "False"
}
