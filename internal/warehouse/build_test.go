package warehouse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campusinsights/dwh-cli/internal/model"
)

func TestBuild_NullSafeProjectMatching(t *testing.T) {
	tr := true
	recs := []model.CanonicalRecord{
		{Nom: "A", Prenom: "A", Annee: model.Int(2021), Projet: "Atlas"},
		{Nom: "B", Prenom: "B", Annee: model.Int(2021), Projet: "Atlas"},
		{Nom: "C", Prenom: "C", Annee: model.Int(2021), Projet: "Atlas", Publie: &tr},
	}

	snap := Build(recs, Options{})
	// Absent Publie matches absent Publie; present true is a distinct entry.
	require.Len(t, snap.Projects, 2)
	assert.Nil(t, snap.Projects[0].Publie)
	require.NotNil(t, snap.Projects[1].Publie)
	assert.True(t, *snap.Projects[1].Publie)

	require.Len(t, snap.Facts, 3)
	assert.Equal(t, snap.Facts[0].ProjetID, snap.Facts[1].ProjetID)
	assert.NotEqual(t, snap.Facts[0].ProjetID, snap.Facts[2].ProjetID)
}

func TestBuild_FullyAbsentProjectIsStillAnEntry(t *testing.T) {
	recs := []model.CanonicalRecord{
		{Nom: "A", Prenom: "A", Annee: model.Int(2021)},
		{Nom: "B", Prenom: "B", Annee: model.Int(2021)},
	}
	snap := Build(recs, Options{})
	require.Len(t, snap.Projects, 1)
	assert.Equal(t, "", snap.Projects[0].Nom)
	assert.Equal(t, snap.Facts[0].ProjetID, snap.Facts[1].ProjetID)
}

func TestBuild_EmployerSkippedWhenFullyAbsent(t *testing.T) {
	recs := []model.CanonicalRecord{
		{Nom: "A", Prenom: "A", Annee: model.Int(2021)},
		{Nom: "B", Prenom: "B", Annee: model.Int(2021), Entreprise: "Acme"},
	}
	snap := Build(recs, Options{})
	require.Len(t, snap.Employers, 1)
	assert.Equal(t, "Acme", snap.Employers[0].Entreprise)
	assert.Nil(t, snap.Students[0].EmployeID)
	require.NotNil(t, snap.Students[1].EmployeID)
}

func TestBuild_StudentUpsertFillsAbsentAttributes(t *testing.T) {
	birth := model.Date(1999, 2, 1)
	recs := []model.CanonicalRecord{
		{Nom: "Dupont", Prenom: "Marie", DateNaissance: birth, Annee: model.Int(2021)},
		{Nom: "Dupont", Prenom: "Marie", DateNaissance: birth, Annee: model.Int(2022),
			Nationalite: "Française", Ecole: "ENS", Entreprise: "Acme"},
		{Nom: "Dupont", Prenom: "Marie", DateNaissance: birth, Annee: model.Int(2023),
			Nationalite: "Belge"},
	}

	snap := Build(recs, Options{})
	require.Len(t, snap.Students, 1)
	s := snap.Students[0]
	// First non-absent value wins; later values never overwrite.
	assert.Equal(t, "Française", s.Nationalite)
	assert.Equal(t, "ENS", s.Ecole)
	require.NotNil(t, s.EmployeID)
	assert.Len(t, snap.Facts, 3)
}

func TestBuild_InternshipGate(t *testing.T) {
	recs := []model.CanonicalRecord{
		// Company alone fails the gate.
		{Nom: "A", Prenom: "A", Annee: model.Int(2021), StageEntreprise: "Acme"},
		// Country alone fails too.
		{Nom: "B", Prenom: "B", Annee: model.Int(2021), StagePays: "France"},
		// Company plus one date passes.
		{Nom: "C", Prenom: "C", Annee: model.Int(2021),
			StageEntreprise: "Acme", StageDebut: model.Date(2021, 6, 1)},
	}

	snap := Build(recs, Options{})
	require.Len(t, snap.Internships, 1)
	assert.Nil(t, snap.Facts[0].StageID)
	assert.Nil(t, snap.Facts[1].StageID)
	require.NotNil(t, snap.Facts[2].StageID)
}

func TestBuild_NoFactWithoutYear(t *testing.T) {
	recs := []model.CanonicalRecord{
		{Nom: "Dupont", Prenom: "Marie", Ecole: "ENS", Projet: "Atlas"},
	}
	snap := Build(recs, Options{})
	assert.Empty(t, snap.Facts)
	// The dimensions still get their entries.
	assert.Len(t, snap.Students, 1)
	assert.Len(t, snap.Schools, 1)
	assert.Len(t, snap.Projects, 1)
}

func TestBuild_VariantAggregate(t *testing.T) {
	recs := []model.CanonicalRecord{
		{Nom: "A", Prenom: "A", Annee: model.Int(2021), Matiere: "Art; Maths"},
		{Nom: "B", Prenom: "B", Annee: model.Int(2021), Matiere: "Art; Maths"},
		{Nom: "C", Prenom: "C", Annee: model.Int(2021), Matiere: "Art"},
	}

	snap := Build(recs, Options{Variant: VariantAggregate, ListSep: "; "})
	// One entry per distinct joined list.
	require.Len(t, snap.Subjects, 2)
	assert.Equal(t, "Art; Maths", snap.Subjects[0].Nom)
	assert.Equal(t, "Art", snap.Subjects[1].Nom)
	assert.Empty(t, snap.FactSubjects)
	require.NotNil(t, snap.Facts[0].MatiereID)
	assert.Equal(t, *snap.Facts[0].MatiereID, *snap.Facts[1].MatiereID)
}

func TestBuild_VariantBridge(t *testing.T) {
	recs := []model.CanonicalRecord{
		{Nom: "A", Prenom: "A", Annee: model.Int(2021), Matiere: "Art; Maths"},
		{Nom: "B", Prenom: "B", Annee: model.Int(2021), Matiere: "Maths"},
	}

	snap := Build(recs, Options{Variant: VariantBridge, ListSep: "; "})
	// One entry per atomic subject, bridge rows carry the association.
	require.Len(t, snap.Subjects, 2)
	assert.Equal(t, "Art", snap.Subjects[0].Nom)
	assert.Equal(t, "Maths", snap.Subjects[1].Nom)
	require.Len(t, snap.FactSubjects, 3)
	assert.Nil(t, snap.Facts[0].MatiereID)
	assert.Equal(t, snap.FactSubjects[0].FaitID, snap.FactSubjects[1].FaitID)
	assert.Equal(t, snap.FactSubjects[1].MatiereID, snap.FactSubjects[2].MatiereID)
}

func TestBuild_WhitespaceListSepFallsBack(t *testing.T) {
	recs := []model.CanonicalRecord{
		{Nom: "A", Prenom: "A", Annee: model.Int(2021), Matiere: "Art; Maths"},
	}

	snap := Build(recs, Options{Variant: VariantBridge, ListSep: "   "})
	// The joined list still splits on the default delimiter instead of
	// exploding per rune.
	require.Len(t, snap.Subjects, 2)
	assert.Equal(t, "Art", snap.Subjects[0].Nom)
	assert.Equal(t, "Maths", snap.Subjects[1].Nom)
}

func TestBuild_Idempotent(t *testing.T) {
	recs := []model.CanonicalRecord{
		{Nom: "Dupont", Prenom: "Marie", Annee: model.Int(2021), Ecole: "ENS", Matiere: "Art"},
		{Nom: "Aubry", Prenom: "Luc", Annee: model.Int(2021), Ecole: "ENS", Projet: "Atlas"},
	}
	a := Build(recs, Options{})
	b := Build(recs, Options{})
	assert.Equal(t, a, b)
}
