// Package fetcher reads the tabular source resource (XLSX or CSV) into
// header-mapped raw records. It is plumbing around the pipeline: values are
// handed over exactly as read, normalization happens downstream.
package fetcher

import (
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/campusinsights/dwh-cli/internal/model"
)

// Options configures source reading.
type Options struct {
	SheetIndex int    // XLSX sheet index, default 0
	SheetName  string // if set, overrides SheetIndex
	Comma      rune   // CSV field separator, default ','
}

// logical field names, also accepted directly as header names.
const (
	colNom               = "nom"
	colPrenom            = "prenom"
	colDateNaissance     = "date_naissance"
	colNationalite       = "nationalite"
	colEcole             = "ecole"
	colMatiere           = "matiere"
	colAnnee             = "annee"
	colProjet            = "projet"
	colDescriptionProjet = "description_projet"
	colPublie            = "publie"
	colEntreprise        = "entreprise"
	colPaysEntreprise    = "pays_entreprise"
	colDateEmbauche      = "date_embauche"
	colStageEntreprise   = "stage_entreprise"
	colStagePays         = "stage_pays"
	colStageDebut        = "stage_debut"
	colStageFin          = "stage_fin"
)

// headerAliases maps the source file's display headers to logical fields.
var headerAliases = map[string]string{
	"Nom":                colNom,
	"Prénom":             colPrenom,
	"Date_Naissance":     colDateNaissance,
	"Nationalité":        colNationalite,
	"École":              colEcole,
	"Matière":            colMatiere,
	"Année":              colAnnee,
	"Projet":             colProjet,
	"Description_Projet": colDescriptionProjet,
	"Publié":             colPublie,
	"Entreprise":         colEntreprise,
	"Pays_Entreprise":    colPaysEntreprise,
	"Date_Embauche":      colDateEmbauche,
	"Stage_Entreprise":   colStageEntreprise,
	"Stage_Pays":         colStagePays,
	"Stage_Début":        colStageDebut,
	"Stage_Fin":          colStageFin,
}

var requiredColumns = []string{
	colNom, colPrenom, colDateNaissance, colNationalite, colEcole,
	colMatiere, colAnnee, colProjet, colDescriptionProjet, colPublie,
	colEntreprise, colPaysEntreprise, colDateEmbauche,
	colStageEntreprise, colStagePays, colStageDebut, colStageFin,
}

// ReadSource reads the resource at path, dispatching on its extension.
// A missing file, empty sheet or missing required column is fatal.
func ReadSource(path string, opts Options) ([]model.RawRecord, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		return ReadXLSXSource(path, opts)
	case ".csv":
		return ReadCSVSource(path, opts)
	default:
		return nil, eris.Errorf("fetcher: unsupported source type %q", filepath.Ext(path))
	}
}

// mapHeader resolves the header row to logical column indexes, failing
// with the full list of missing required columns.
func mapHeader(header []string) (map[string]int, error) {
	index := make(map[string]int, len(header))
	for i, h := range header {
		h = strings.TrimSpace(h)
		if logical, ok := headerAliases[h]; ok {
			index[logical] = i
			continue
		}
		if lower := strings.ToLower(h); lower != "" {
			index[lower] = i
		}
	}

	var missing []string
	for _, c := range requiredColumns {
		if _, ok := index[c]; !ok {
			missing = append(missing, c)
		}
	}
	if len(missing) > 0 {
		return nil, eris.Errorf("fetcher: required columns missing from source: %s", strings.Join(missing, ", "))
	}
	return index, nil
}

func toRecord(cells []string, index map[string]int) model.RawRecord {
	get := func(col string) string {
		i := index[col]
		if i >= len(cells) {
			return ""
		}
		return cells[i]
	}
	return model.RawRecord{
		Nom:               get(colNom),
		Prenom:            get(colPrenom),
		DateNaissance:     get(colDateNaissance),
		Nationalite:       get(colNationalite),
		Ecole:             get(colEcole),
		Matiere:           get(colMatiere),
		Annee:             get(colAnnee),
		Projet:            get(colProjet),
		DescriptionProjet: get(colDescriptionProjet),
		Publie:            get(colPublie),
		Entreprise:        get(colEntreprise),
		PaysEntreprise:    get(colPaysEntreprise),
		DateEmbauche:      get(colDateEmbauche),
		StageEntreprise:   get(colStageEntreprise),
		StagePays:         get(colStagePays),
		StageDebut:        get(colStageDebut),
		StageFin:          get(colStageFin),
	}
}

func toRecords(header []string, rows [][]string, path string) ([]model.RawRecord, error) {
	index, err := mapHeader(header)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, eris.Errorf("fetcher: source %s has a header but no data rows", path)
	}

	records := make([]model.RawRecord, len(rows))
	for i, cells := range rows {
		records[i] = toRecord(cells, index)
	}

	zap.L().Info("fetcher: source read",
		zap.String("path", path),
		zap.Int("rows", len(records)),
	)
	return records, nil
}
