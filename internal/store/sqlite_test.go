package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campusinsights/dwh-cli/internal/model"
	"github.com/campusinsights/dwh-cli/internal/warehouse"
)

func openTestSQLite(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLite(filepath.Join(t.TempDir(), "dwh.db"), 2)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSQLiteLoadStaging(t *testing.T) {
	s := openTestSQLite(t)

	recs := []model.CanonicalRecord{
		{Nom: "Dupont", Prenom: "Marie", Annee: model.Int(2021), DateNaissance: model.Date(1999, 2, 1), Publie: model.Bool(true)},
		{Nom: "Aubry", Prenom: "Luc"},
		{Nom: "Caron", Prenom: "Zoé", Annee: model.Int(2022)},
	}
	n, err := s.LoadStaging(context.Background(), recs)
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)

	// Reloading replaces, never appends.
	n, err = s.LoadStaging(context.Background(), recs[:1])
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	var count int
	require.NoError(t, s.db.QueryRow("SELECT count(*) FROM ods_etudiants_clean").Scan(&count))
	assert.Equal(t, 1, count)

	var naissance, publie any
	require.NoError(t, s.db.QueryRow("SELECT date_naissance, publie FROM ods_etudiants_clean").Scan(&naissance, &publie))
	assert.Equal(t, "1999-02-01", naissance)
	assert.EqualValues(t, 1, publie)
}

func TestSQLiteRebuildAndRead(t *testing.T) {
	s := openTestSQLite(t)

	snap := warehouse.Build([]model.CanonicalRecord{
		{Nom: "Dupont", Prenom: "Marie", Annee: model.Int(2021), Ecole: "ENS",
			Matiere: "Art; Maths", Projet: "Atlas",
			StageEntreprise: "Acme", StagePays: "France"},
		{Nom: "Aubry", Prenom: "Luc", Annee: model.Int(2021), Ecole: "ENS"},
	}, warehouse.Options{Variant: warehouse.VariantBridge, ListSep: "; "})

	run := &RunInfo{
		ID: "run-1", Source: "source.csv", Variant: "bridge",
		StartedAt: time.Now(), FinishedAt: time.Now(),
		RowsIn: 2, RowsCanonical: 2, Facts: 2,
	}
	require.NoError(t, s.Rebuild(context.Background(), snap, run))

	cols, students, err := s.ReadTable(context.Background(), "dimension_etudiant")
	require.NoError(t, err)
	assert.Equal(t, etudiantCols, cols)
	require.Len(t, students, 2)
	assert.Equal(t, "Dupont", students[0][1])

	_, bridge, err := s.ReadTable(context.Background(), "fait_annee_matiere")
	require.NoError(t, err)
	assert.Len(t, bridge, 2)

	// Rebuilding again yields the same content.
	require.NoError(t, s.Rebuild(context.Background(), snap, nil))
	_, again, err := s.ReadTable(context.Background(), "dimension_etudiant")
	require.NoError(t, err)
	assert.Equal(t, students, again)

	var runs int
	require.NoError(t, s.db.QueryRow("SELECT count(*) FROM etl_runs").Scan(&runs))
	assert.Equal(t, 1, runs)
}

func TestSQLiteReadFlat(t *testing.T) {
	s := openTestSQLite(t)

	snap := warehouse.Build([]model.CanonicalRecord{
		{Nom: "Dupont", Prenom: "Marie", Annee: model.Int(2021), Ecole: "ENS", Matiere: "Art; Maths"},
	}, warehouse.Options{Variant: warehouse.VariantBridge, ListSep: "; "})
	require.NoError(t, s.Rebuild(context.Background(), snap, nil))

	cols, rows, err := s.ReadFlat(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 1)

	byName := make(map[string]string, len(cols))
	for i, c := range cols {
		byName[c] = rows[0][i]
	}
	assert.Equal(t, "Dupont", byName["nom"])
	assert.Equal(t, "ENS", byName["nom_ecole"])
	assert.Equal(t, "Art; Maths", byName["matieres"])
	assert.Equal(t, "2021", byName["annee"])
}

func TestSQLiteReadTable_UnknownTable(t *testing.T) {
	s := openTestSQLite(t)
	_, _, err := s.ReadTable(context.Background(), "sqlite_master")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown warehouse table")
}
