package identity

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/campusinsights/dwh-cli/internal/model"
)

func TestFold(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Élodie", "elodie"},
		{"DUPONT", "dupont"},
		{"Nuñez", "nunez"},
		{"Gwenaël", "gwenael"},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Fold(tt.in), "Fold(%q)", tt.in)
	}
}

func TestKey_AccentAndCaseInsensitive(t *testing.T) {
	birth := model.Date(1999, 2, 1)
	year := model.Int(2021)

	a := New("Dupont", "Élodie", birth, year)
	b := New("DUPONT", "elodie", birth, year)
	assert.Equal(t, a, b)
	assert.Equal(t, "dupont|elodie|1999-02-01|2021", a.String())
}

func TestKey_AbsentComponentsStayDistinct(t *testing.T) {
	year := model.Int(2021)

	withBirth := New("Dupont", "Marie", model.Date(1999, 2, 1), year)
	noBirth := New("Dupont", "Marie", nil, year)
	noYear := New("Dupont", "Marie", nil, nil)

	assert.NotEqual(t, withBirth, noBirth)
	assert.NotEqual(t, noBirth, noYear)
	assert.Equal(t, "dupont|marie||2021", noBirth.String())
	assert.Equal(t, "dupont|marie||", noYear.String())
}

func TestOf(t *testing.T) {
	rec := model.NormalizedRecord{
		Nom:           "Gwenaël",
		Prenom:        "Le Goff",
		DateNaissance: model.Date(2000, 12, 31),
		Annee:         model.Int(2022),
	}
	assert.Equal(t, "gwenael|le goff|2000-12-31|2022", Of(rec).String())
}
