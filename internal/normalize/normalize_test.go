package normalize

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestText(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"  hello   world  ", "hello world"},
		{"a\t b\n c", "a b c"},
		{"", ""},
		{"   ", ""},
		{"NULL", ""},
		{"null", ""},
		{"nullable", "nullable"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Text(tt.in), "Text(%q)", tt.in)
	}
}

func TestName_FrenchParticles(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"DUPONT", "Dupont"},
		{"jean de la fontaine", "Jean de la Fontaine"},
		{"  marie   CURIE ", "Marie Curie"},
		{"DE LA TOUR", "de la Tour"},
		{"du pont des arts", "du Pont des Arts"},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Name(tt.in), "Name(%q)", tt.in)
	}
}

func TestSubject(t *testing.T) {
	assert.Equal(t, "Art", Subject("art"))
	assert.Equal(t, "Art", Subject("  ART "))
	assert.Equal(t, "", Subject("  "))
}

func TestBool(t *testing.T) {
	tr, fa := true, false
	tests := []struct {
		in   string
		want *bool
		ok   bool
	}{
		{"1", &tr, true},
		{"1.0", &tr, true},
		{"0", &fa, true},
		{"0.00", &fa, true},
		{"true", &tr, true},
		{"VRAI", &tr, true},
		{"Oui", &tr, true},
		{"o", &tr, true},
		{"yes", &tr, true},
		{"✓", &tr, true},
		{"publié", &tr, true},
		{"false", &fa, true},
		{"faux", &fa, true},
		{"non", &fa, true},
		{"✗", &fa, true},
		{"non publié", &fa, true},
		{"", nil, true},
		{"NULL", nil, true},
		{"2.5", &tr, true},  // typed numeric cell, rounds away from zero
		{"0.4", &fa, true},  // rounds to zero
		{"peut-être", nil, false},
	}
	for _, tt := range tests {
		got, ok := Bool(tt.in)
		assert.Equal(t, tt.ok, ok, "Bool(%q) ok", tt.in)
		if tt.want == nil {
			assert.Nil(t, got, "Bool(%q)", tt.in)
		} else {
			require.NotNil(t, got, "Bool(%q)", tt.in)
			assert.Equal(t, *tt.want, *got, "Bool(%q)", tt.in)
		}
	}
}

func TestDate_Layouts(t *testing.T) {
	want := time.Date(2021, time.June, 1, 0, 0, 0, 0, time.UTC)
	for _, in := range []string{
		"2021-06-01",
		"01/06/2021",
		"01-06-2021",
		"2021/06/01",
	} {
		got, ok := Date(in)
		require.True(t, ok, "Date(%q)", in)
		require.NotNil(t, got, "Date(%q)", in)
		assert.True(t, want.Equal(*got), "Date(%q) = %v", in, got)
	}
}

func TestDate_MonthFirstLayout(t *testing.T) {
	// 06/13/2021 cannot be day-first, so the US layout handles it via the
	// ordered layout list falling through.
	got, ok := Date("06/13/2021")
	require.True(t, ok)
	require.NotNil(t, got)
	assert.Equal(t, time.Date(2021, time.June, 13, 0, 0, 0, 0, time.UTC), *got)
}

func TestDate_DayFirstFallback(t *testing.T) {
	got, ok := Date("1.6.2021")
	require.True(t, ok)
	require.NotNil(t, got)
	assert.Equal(t, time.Date(2021, time.June, 1, 0, 0, 0, 0, time.UTC), *got)

	got, ok = Date("2021 06 01")
	require.True(t, ok)
	require.NotNil(t, got)
	assert.Equal(t, time.Date(2021, time.June, 1, 0, 0, 0, 0, time.UTC), *got)
}

func TestDate_Invalid(t *testing.T) {
	got, ok := Date("pas une date")
	assert.False(t, ok)
	assert.Nil(t, got)

	got, ok = Date("31/02/2021")
	assert.False(t, ok)
	assert.Nil(t, got)

	got, ok = Date("")
	assert.True(t, ok)
	assert.Nil(t, got)
}

func TestYear(t *testing.T) {
	got, ok := Year("2021")
	require.True(t, ok)
	require.NotNil(t, got)
	assert.Equal(t, 2021, *got)

	got, ok = Year("2021.0")
	require.True(t, ok)
	require.NotNil(t, got)
	assert.Equal(t, 2021, *got)

	got, ok = Year("")
	assert.True(t, ok)
	assert.Nil(t, got)

	got, ok = Year("deux mille")
	assert.False(t, ok)
	assert.Nil(t, got)
}
