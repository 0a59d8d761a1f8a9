package normalize

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campusinsights/dwh-cli/internal/model"
)

func TestRecord_Basic(t *testing.T) {
	rec, issues := Record(model.RawRecord{
		Nom:           "  DUPONT ",
		Prenom:        "marie",
		DateNaissance: "01/02/1999",
		Annee:         "2021",
		Nationalite:   " Française ",
		Publie:        "oui",
	})

	assert.Empty(t, issues)
	assert.Equal(t, "Dupont", rec.Nom)
	assert.Equal(t, "Marie", rec.Prenom)
	require.NotNil(t, rec.DateNaissance)
	assert.Equal(t, time.Date(1999, time.February, 1, 0, 0, 0, 0, time.UTC), *rec.DateNaissance)
	require.NotNil(t, rec.Annee)
	assert.Equal(t, 2021, *rec.Annee)
	assert.Equal(t, "Française", rec.Nationalite)
	require.NotNil(t, rec.Publie)
	assert.True(t, *rec.Publie)
}

func TestRecord_SwapsInvertedInternshipDates(t *testing.T) {
	rec, issues := Record(model.RawRecord{
		StageDebut: "2021-06-01",
		StageFin:   "2021-01-01",
	})

	assert.Empty(t, issues)
	require.NotNil(t, rec.StageDebut)
	require.NotNil(t, rec.StageFin)
	// The two original values survive, only their roles swap.
	assert.Equal(t, time.Date(2021, time.January, 1, 0, 0, 0, 0, time.UTC), *rec.StageDebut)
	assert.Equal(t, time.Date(2021, time.June, 1, 0, 0, 0, 0, time.UTC), *rec.StageFin)
	assert.False(t, rec.StageFin.Before(*rec.StageDebut))
}

func TestRecord_InternshipCompanyFallback(t *testing.T) {
	rec, _ := Record(model.RawRecord{
		Entreprise:      "Acme",
		StageEntreprise: "  ",
	})
	assert.Equal(t, "Acme", rec.StageEntreprise)

	rec, _ = Record(model.RawRecord{
		Entreprise:      "Acme",
		StageEntreprise: "Globex",
	})
	assert.Equal(t, "Globex", rec.StageEntreprise)
}

func TestRecord_BadFieldsAreAbsentNotFatal(t *testing.T) {
	rec, issues := Record(model.RawRecord{
		Nom:           "Durand",
		DateNaissance: "invalide",
		Annee:         "l'an dernier",
		Publie:        "peut-être",
	})

	assert.ElementsMatch(t, []string{FieldDateNaissance, FieldAnnee, FieldPublie}, issues)
	assert.Equal(t, "Durand", rec.Nom)
	assert.Nil(t, rec.DateNaissance)
	assert.Nil(t, rec.Annee)
	assert.Nil(t, rec.Publie)
}
