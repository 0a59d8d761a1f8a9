package store

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/campusinsights/dwh-cli/internal/db"
	"github.com/campusinsights/dwh-cli/internal/model"
	"github.com/campusinsights/dwh-cli/internal/warehouse"
)

// PostgresStore implements Store on pgxpool, loading tables with COPY.
type PostgresStore struct {
	pool      db.Pool
	batchSize int
}

// NewPostgres connects and pings the warehouse database.
func NewPostgres(ctx context.Context, connString string, batchSize int) (*PostgresStore, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}
	pgxCfg.MaxConns = 10
	pgxCfg.MinConns = 2
	pgxCfg.MaxConnLifetime = 30 * time.Minute
	pgxCfg.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return NewPostgresWithPool(pool, batchSize), nil
}

// NewPostgresWithPool wraps an existing pool; tests inject a mock here.
func NewPostgresWithPool(pool db.Pool, batchSize int) *PostgresStore {
	return &PostgresStore{pool: pool, batchSize: batchSize}
}

const stagingDDL = `
CREATE SCHEMA IF NOT EXISTS ods;

DROP TABLE IF EXISTS ods.etudiants_clean;

CREATE TABLE ods.etudiants_clean (
	nom                TEXT,
	prenom             TEXT,
	date_naissance     DATE,
	annee              INT,
	nationalite        TEXT,
	ecole              TEXT,
	matiere            TEXT,
	projet             TEXT,
	description_projet TEXT,
	publie             BOOLEAN,
	entreprise         TEXT,
	pays_entreprise    TEXT,
	date_embauche      DATE,
	stage_entreprise   TEXT,
	stage_pays         TEXT,
	stage_debut        DATE,
	stage_fin          DATE
);
`

const warehouseDDL = `
CREATE SCHEMA IF NOT EXISTS dwh;

DROP TABLE IF EXISTS dwh.fait_annee_matiere CASCADE;
DROP TABLE IF EXISTS dwh.fait_annee CASCADE;
DROP TABLE IF EXISTS dwh.dimension_info_stage CASCADE;
DROP TABLE IF EXISTS dwh.dimension_projet CASCADE;
DROP TABLE IF EXISTS dwh.dimension_matiere CASCADE;
DROP TABLE IF EXISTS dwh.dimension_ecole CASCADE;
DROP TABLE IF EXISTS dwh.dimension_etudiant CASCADE;
DROP TABLE IF EXISTS dwh.dimension_employe CASCADE;

CREATE TABLE dwh.dimension_employe (
	id_employe    BIGINT PRIMARY KEY,
	date_embauche DATE,
	entreprise    TEXT,
	pays          TEXT
);

CREATE TABLE dwh.dimension_etudiant (
	id_etudiant    BIGINT PRIMARY KEY,
	nom            TEXT,
	prenom         TEXT,
	date_naissance DATE,
	nationalite    TEXT,
	ecole          TEXT,
	id_employe     BIGINT REFERENCES dwh.dimension_employe(id_employe)
);

CREATE TABLE dwh.dimension_ecole (
	id_ecole  BIGINT PRIMARY KEY,
	nom_ecole TEXT UNIQUE
);

CREATE TABLE dwh.dimension_matiere (
	id_matiere  BIGINT PRIMARY KEY,
	nom_matiere TEXT
);

CREATE TABLE dwh.dimension_projet (
	id_projet   BIGINT PRIMARY KEY,
	nom_projet  TEXT,
	description TEXT,
	publier     BOOLEAN
);

CREATE TABLE dwh.dimension_info_stage (
	id_stage   BIGINT PRIMARY KEY,
	pays       TEXT,
	entreprise TEXT,
	date_debut DATE,
	date_fin   DATE
);

CREATE TABLE dwh.fait_annee (
	id_fait     BIGINT PRIMARY KEY,
	annee       INT NOT NULL,
	id_ecole    BIGINT REFERENCES dwh.dimension_ecole(id_ecole),
	id_stage    BIGINT REFERENCES dwh.dimension_info_stage(id_stage),
	id_etudiant BIGINT REFERENCES dwh.dimension_etudiant(id_etudiant),
	id_projet   BIGINT REFERENCES dwh.dimension_projet(id_projet),
	id_matiere  BIGINT REFERENCES dwh.dimension_matiere(id_matiere)
);

CREATE TABLE dwh.fait_annee_matiere (
	id_fait    BIGINT NOT NULL REFERENCES dwh.fait_annee(id_fait),
	id_matiere BIGINT NOT NULL REFERENCES dwh.dimension_matiere(id_matiere),
	PRIMARY KEY (id_fait, id_matiere)
);

CREATE INDEX ON dwh.fait_annee (annee);
CREATE INDEX ON dwh.fait_annee (id_etudiant);
`

const runLogDDL = `
CREATE SCHEMA IF NOT EXISTS meta;

CREATE TABLE IF NOT EXISTS meta.etl_runs (
	id             TEXT PRIMARY KEY,
	source         TEXT NOT NULL,
	variant        TEXT NOT NULL,
	started_at     TIMESTAMPTZ NOT NULL,
	finished_at    TIMESTAMPTZ NOT NULL,
	rows_in        INT NOT NULL,
	rows_canonical INT NOT NULL,
	facts          INT NOT NULL
);
`

// LoadStaging drops and reloads ods.etudiants_clean.
func (s *PostgresStore) LoadStaging(ctx context.Context, recs []model.CanonicalRecord) (int64, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return 0, eris.Wrap(err, "postgres: begin staging tx")
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, stagingDDL); err != nil {
		return 0, eris.Wrap(err, "postgres: recreate staging")
	}

	n, err := db.CopyFromSchema(ctx, tx, "ods", "etudiants_clean", stagingCols, stagingRows(recs, pgEncoder), s.batchSize)
	if err != nil {
		return 0, err
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, eris.Wrap(err, "postgres: commit staging tx")
	}
	return n, nil
}

// Rebuild replaces the dwh schema content from the snapshot inside one
// transaction and appends the run-log entry.
func (s *PostgresStore) Rebuild(ctx context.Context, snap *warehouse.Snapshot, run *RunInfo) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return eris.Wrap(err, "postgres: begin rebuild tx")
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, warehouseDDL); err != nil {
		return eris.Wrap(err, "postgres: recreate warehouse schema")
	}

	loads := []struct {
		table string
		cols  []string
		rows  [][]any
	}{
		{"dimension_employe", employeCols, employerRows(snap, pgEncoder)},
		{"dimension_etudiant", etudiantCols, studentRows(snap, pgEncoder)},
		{"dimension_ecole", ecoleCols, schoolRows(snap)},
		{"dimension_matiere", matiereCols, subjectRows(snap)},
		{"dimension_projet", projetCols, projectRows(snap, pgEncoder)},
		{"dimension_info_stage", stageCols, internshipRows(snap, pgEncoder)},
		{"fait_annee", faitCols, factRows(snap)},
		{"fait_annee_matiere", faitMatCols, factSubjectRows(snap)},
	}
	for _, l := range loads {
		n, err := db.CopyFromSchema(ctx, tx, "dwh", l.table, l.cols, l.rows, s.batchSize)
		if err != nil {
			return err
		}
		zap.L().Info("postgres: table loaded", zap.String("table", l.table), zap.Int64("rows", n))
	}

	if run != nil {
		if _, err := tx.Exec(ctx, runLogDDL); err != nil {
			return eris.Wrap(err, "postgres: ensure run log")
		}
		if _, err := tx.Exec(ctx,
			`INSERT INTO meta.etl_runs (id, source, variant, started_at, finished_at, rows_in, rows_canonical, facts)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			run.ID, run.Source, run.Variant, run.StartedAt, run.FinishedAt, run.RowsIn, run.RowsCanonical, run.Facts,
		); err != nil {
			return eris.Wrap(err, "postgres: record run")
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return eris.Wrap(err, "postgres: commit rebuild tx")
	}
	return nil
}

func (s *PostgresStore) TableNames() []string {
	return append([]string(nil), warehouseTables...)
}

// ReadTable dumps one warehouse relation ordered by its first column.
func (s *PostgresStore) ReadTable(ctx context.Context, table string) ([]string, [][]string, error) {
	if !knownTable(table) {
		return nil, nil, eris.Errorf("postgres: unknown warehouse table %q", table)
	}
	sql := "SELECT * FROM " + pgx.Identifier{"dwh", table}.Sanitize() + " ORDER BY 1"
	return s.readRows(ctx, sql)
}

const flatSQL = `
SELECT
	f.id_fait, f.annee,
	et.nom, et.prenom, et.date_naissance, et.nationalite,
	ec.nom_ecole,
	st.pays AS stage_pays, st.entreprise AS stage_entreprise,
	st.date_debut AS stage_debut, st.date_fin AS stage_fin,
	pr.nom_projet, pr.description, pr.publier,
	COALESCE(dm.nom_matiere, bm.matieres) AS matieres
FROM dwh.fait_annee f
LEFT JOIN dwh.dimension_etudiant   et ON et.id_etudiant = f.id_etudiant
LEFT JOIN dwh.dimension_ecole      ec ON ec.id_ecole = f.id_ecole
LEFT JOIN dwh.dimension_info_stage st ON st.id_stage = f.id_stage
LEFT JOIN dwh.dimension_projet     pr ON pr.id_projet = f.id_projet
LEFT JOIN dwh.dimension_matiere    dm ON dm.id_matiere = f.id_matiere
LEFT JOIN (
	SELECT fm.id_fait, string_agg(m.nom_matiere, '; ' ORDER BY m.nom_matiere) AS matieres
	FROM dwh.fait_annee_matiere fm
	JOIN dwh.dimension_matiere m ON m.id_matiere = fm.id_matiere
	GROUP BY fm.id_fait
) bm ON bm.id_fait = f.id_fait
ORDER BY f.id_etudiant, f.annee, f.id_fait
`

// ReadFlat dumps the reporting projection, one row per fact.
func (s *PostgresStore) ReadFlat(ctx context.Context) ([]string, [][]string, error) {
	return s.readRows(ctx, flatSQL)
}

func (s *PostgresStore) readRows(ctx context.Context, sql string) ([]string, [][]string, error) {
	rows, err := s.pool.Query(ctx, sql)
	if err != nil {
		return nil, nil, eris.Wrap(err, "postgres: query export rows")
	}
	defer rows.Close()

	fields := rows.FieldDescriptions()
	cols := make([]string, len(fields))
	for i, f := range fields {
		cols[i] = f.Name
	}

	var out [][]string
	for rows.Next() {
		vals, err := rows.Values()
		if err != nil {
			return nil, nil, eris.Wrap(err, "postgres: scan export row")
		}
		rec := make([]string, len(vals))
		for i, v := range vals {
			rec[i] = renderValue(v)
		}
		out = append(out, rec)
	}
	return cols, out, eris.Wrap(rows.Err(), "postgres: iterate export rows")
}

func (s *PostgresStore) Close() error {
	if s.pool != nil {
		s.pool.Close()
	}
	return nil
}
