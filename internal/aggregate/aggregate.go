package aggregate

import (
	"sort"
	"time"

	"github.com/campusinsights/dwh-cli/internal/identity"
	"github.com/campusinsights/dwh-cli/internal/model"
)

// Group holds all normalized rows sharing one identity key, in input order.
type Group struct {
	Key     identity.Key
	Records []model.NormalizedRecord
}

// GroupByKey buckets records by identity key. Groups are returned sorted by
// key so every downstream step sees a fixed, reproducible order; rows inside
// a group keep their input order for deterministic tie-breaks.
func GroupByKey(records []model.NormalizedRecord) []Group {
	index := make(map[identity.Key]int)
	var groups []Group
	for _, rec := range records {
		k := identity.Of(rec)
		if i, ok := index[k]; ok {
			groups[i].Records = append(groups[i].Records, rec)
			continue
		}
		index[k] = len(groups)
		groups = append(groups, Group{Key: k, Records: []model.NormalizedRecord{rec}})
	}
	sort.Slice(groups, func(i, j int) bool {
		return groups[i].Key.String() < groups[j].Key.String()
	})
	return groups
}

// Reduce merges one group into its canonical record. Each column follows
// its fixed policy; re-running on any permutation of the same rows yields
// the same result, with ties resolved by input order.
func Reduce(g Group, listSep string) model.CanonicalRecord {
	n := len(g.Records)
	text := func(get func(model.NormalizedRecord) string) []string {
		vals := make([]string, n)
		for i, rec := range g.Records {
			vals[i] = get(rec)
		}
		return vals
	}
	dates := func(get func(model.NormalizedRecord) *time.Time) []*time.Time {
		vals := make([]*time.Time, n)
		for i, rec := range g.Records {
			vals[i] = get(rec)
		}
		return vals
	}

	years := make([]*int, n)
	bools := make([]*bool, n)
	for i, rec := range g.Records {
		years[i] = rec.Annee
		bools[i] = rec.Publie
	}

	return model.CanonicalRecord{
		Nom:               FirstText(text(func(r model.NormalizedRecord) string { return r.Nom })),
		Prenom:            FirstText(text(func(r model.NormalizedRecord) string { return r.Prenom })),
		DateNaissance:     FirstDate(dates(func(r model.NormalizedRecord) *time.Time { return r.DateNaissance })),
		Nationalite:       FirstText(text(func(r model.NormalizedRecord) string { return r.Nationalite })),
		Ecole:             FirstText(text(func(r model.NormalizedRecord) string { return r.Ecole })),
		Matiere:           UniqueSortedJoin(text(func(r model.NormalizedRecord) string { return r.Matiere }), listSep),
		Annee:             FirstInt(years),
		Projet:            FirstText(text(func(r model.NormalizedRecord) string { return r.Projet })),
		DescriptionProjet: LongestText(text(func(r model.NormalizedRecord) string { return r.DescriptionProjet })),
		Publie:            OrBool(bools),
		Entreprise:        FirstText(text(func(r model.NormalizedRecord) string { return r.Entreprise })),
		PaysEntreprise:    FirstText(text(func(r model.NormalizedRecord) string { return r.PaysEntreprise })),
		DateEmbauche:      MaxDate(dates(func(r model.NormalizedRecord) *time.Time { return r.DateEmbauche })),
		StageEntreprise:   FirstText(text(func(r model.NormalizedRecord) string { return r.StageEntreprise })),
		StagePays:         FirstText(text(func(r model.NormalizedRecord) string { return r.StagePays })),
		StageDebut:        MinDate(dates(func(r model.NormalizedRecord) *time.Time { return r.StageDebut })),
		StageFin:          MaxDate(dates(func(r model.NormalizedRecord) *time.Time { return r.StageFin })),
	}
}

// ReduceAll groups and merges every record, returning canonical rows in
// key order.
func ReduceAll(records []model.NormalizedRecord, listSep string) []model.CanonicalRecord {
	groups := GroupByKey(records)
	out := make([]model.CanonicalRecord, len(groups))
	for i, g := range groups {
		out[i] = Reduce(g, listSep)
	}
	return out
}
