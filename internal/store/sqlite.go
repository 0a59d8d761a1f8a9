package store

import (
	"context"
	"database/sql"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"github.com/campusinsights/dwh-cli/internal/model"
	"github.com/campusinsights/dwh-cli/internal/warehouse"
)

// SQLiteStore implements Store using modernc.org/sqlite, for local runs
// without a Postgres server. Dates are stored as ISO text, booleans as 0/1.
type SQLiteStore struct {
	db        *sql.DB
	batchSize int
}

// NewSQLite opens or creates a SQLite database at the given path.
func NewSQLite(dsn string, batchSize int) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA foreign_keys=ON",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db, batchSize: batchSize}, nil
}

const sqliteStagingDDL = `
DROP TABLE IF EXISTS ods_etudiants_clean;

CREATE TABLE ods_etudiants_clean (
	nom                TEXT,
	prenom             TEXT,
	date_naissance     TEXT,
	annee              INTEGER,
	nationalite        TEXT,
	ecole              TEXT,
	matiere            TEXT,
	projet             TEXT,
	description_projet TEXT,
	publie             INTEGER,
	entreprise         TEXT,
	pays_entreprise    TEXT,
	date_embauche      TEXT,
	stage_entreprise   TEXT,
	stage_pays         TEXT,
	stage_debut        TEXT,
	stage_fin          TEXT
);
`

const sqliteWarehouseDDL = `
DROP TABLE IF EXISTS fait_annee_matiere;
DROP TABLE IF EXISTS fait_annee;
DROP TABLE IF EXISTS dimension_info_stage;
DROP TABLE IF EXISTS dimension_projet;
DROP TABLE IF EXISTS dimension_matiere;
DROP TABLE IF EXISTS dimension_ecole;
DROP TABLE IF EXISTS dimension_etudiant;
DROP TABLE IF EXISTS dimension_employe;

CREATE TABLE dimension_employe (
	id_employe    INTEGER PRIMARY KEY,
	date_embauche TEXT,
	entreprise    TEXT,
	pays          TEXT
);

CREATE TABLE dimension_etudiant (
	id_etudiant    INTEGER PRIMARY KEY,
	nom            TEXT,
	prenom         TEXT,
	date_naissance TEXT,
	nationalite    TEXT,
	ecole          TEXT,
	id_employe     INTEGER REFERENCES dimension_employe(id_employe)
);

CREATE TABLE dimension_ecole (
	id_ecole  INTEGER PRIMARY KEY,
	nom_ecole TEXT UNIQUE
);

CREATE TABLE dimension_matiere (
	id_matiere  INTEGER PRIMARY KEY,
	nom_matiere TEXT
);

CREATE TABLE dimension_projet (
	id_projet   INTEGER PRIMARY KEY,
	nom_projet  TEXT,
	description TEXT,
	publier     INTEGER
);

CREATE TABLE dimension_info_stage (
	id_stage   INTEGER PRIMARY KEY,
	pays       TEXT,
	entreprise TEXT,
	date_debut TEXT,
	date_fin   TEXT
);

CREATE TABLE fait_annee (
	id_fait     INTEGER PRIMARY KEY,
	annee       INTEGER NOT NULL,
	id_ecole    INTEGER REFERENCES dimension_ecole(id_ecole),
	id_stage    INTEGER REFERENCES dimension_info_stage(id_stage),
	id_etudiant INTEGER REFERENCES dimension_etudiant(id_etudiant),
	id_projet   INTEGER REFERENCES dimension_projet(id_projet),
	id_matiere  INTEGER REFERENCES dimension_matiere(id_matiere)
);

CREATE TABLE fait_annee_matiere (
	id_fait    INTEGER NOT NULL REFERENCES fait_annee(id_fait),
	id_matiere INTEGER NOT NULL REFERENCES dimension_matiere(id_matiere),
	PRIMARY KEY (id_fait, id_matiere)
);

CREATE INDEX idx_fait_annee_annee ON fait_annee(annee);
CREATE INDEX idx_fait_annee_etudiant ON fait_annee(id_etudiant);
`

const sqliteRunLogDDL = `
CREATE TABLE IF NOT EXISTS etl_runs (
	id             TEXT PRIMARY KEY,
	source         TEXT NOT NULL,
	variant        TEXT NOT NULL,
	started_at     TEXT NOT NULL,
	finished_at    TEXT NOT NULL,
	rows_in        INTEGER NOT NULL,
	rows_canonical INTEGER NOT NULL,
	facts          INTEGER NOT NULL
);
`

// LoadStaging drops and reloads the staging table.
func (s *SQLiteStore) LoadStaging(ctx context.Context, recs []model.CanonicalRecord) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, eris.Wrap(err, "sqlite: begin staging tx")
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, sqliteStagingDDL); err != nil {
		return 0, eris.Wrap(err, "sqlite: recreate staging")
	}

	n, err := s.insertBatched(ctx, tx, "ods_etudiants_clean", stagingCols, stagingRows(recs, sqliteEncoder))
	if err != nil {
		return 0, err
	}

	if err := tx.Commit(); err != nil {
		return 0, eris.Wrap(err, "sqlite: commit staging tx")
	}
	return n, nil
}

// Rebuild replaces the warehouse tables from the snapshot in one
// transaction and appends the run-log entry.
func (s *SQLiteStore) Rebuild(ctx context.Context, snap *warehouse.Snapshot, run *RunInfo) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return eris.Wrap(err, "sqlite: begin rebuild tx")
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, sqliteWarehouseDDL); err != nil {
		return eris.Wrap(err, "sqlite: recreate warehouse tables")
	}

	loads := []struct {
		table string
		cols  []string
		rows  [][]any
	}{
		{"dimension_employe", employeCols, employerRows(snap, sqliteEncoder)},
		{"dimension_etudiant", etudiantCols, studentRows(snap, sqliteEncoder)},
		{"dimension_ecole", ecoleCols, schoolRows(snap)},
		{"dimension_matiere", matiereCols, subjectRows(snap)},
		{"dimension_projet", projetCols, projectRows(snap, sqliteEncoder)},
		{"dimension_info_stage", stageCols, internshipRows(snap, sqliteEncoder)},
		{"fait_annee", faitCols, factRows(snap)},
		{"fait_annee_matiere", faitMatCols, factSubjectRows(snap)},
	}
	for _, l := range loads {
		n, err := s.insertBatched(ctx, tx, l.table, l.cols, l.rows)
		if err != nil {
			return err
		}
		zap.L().Info("sqlite: table loaded", zap.String("table", l.table), zap.Int64("rows", n))
	}

	if run != nil {
		if _, err := tx.ExecContext(ctx, sqliteRunLogDDL); err != nil {
			return eris.Wrap(err, "sqlite: ensure run log")
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO etl_runs (id, source, variant, started_at, finished_at, rows_in, rows_canonical, facts)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			run.ID, run.Source, run.Variant,
			run.StartedAt.UTC().Format("2006-01-02 15:04:05"),
			run.FinishedAt.UTC().Format("2006-01-02 15:04:05"),
			run.RowsIn, run.RowsCanonical, run.Facts,
		); err != nil {
			return eris.Wrap(err, "sqlite: record run")
		}
	}

	if err := tx.Commit(); err != nil {
		return eris.Wrap(err, "sqlite: commit rebuild tx")
	}
	return nil
}

// insertBatched inserts rows in fixed-size multi-row statements. Batch
// size is a throughput knob only.
func (s *SQLiteStore) insertBatched(ctx context.Context, tx *sql.Tx, table string, cols []string, rows [][]any) (int64, error) {
	if len(rows) == 0 {
		return 0, nil
	}
	batch := s.batchSize
	if batch <= 0 {
		batch = len(rows)
	}

	placeholder := "(" + strings.TrimSuffix(strings.Repeat("?, ", len(cols)), ", ") + ")"
	prefix := "INSERT INTO " + table + " (" + strings.Join(cols, ", ") + ") VALUES "

	var total int64
	for start := 0; start < len(rows); start += batch {
		end := start + batch
		if end > len(rows) {
			end = len(rows)
		}
		chunk := rows[start:end]

		placeholders := make([]string, len(chunk))
		args := make([]any, 0, len(chunk)*len(cols))
		for i, row := range chunk {
			placeholders[i] = placeholder
			args = append(args, row...)
		}
		if _, err := tx.ExecContext(ctx, prefix+strings.Join(placeholders, ", "), args...); err != nil {
			return total, eris.Wrapf(err, "sqlite: insert into %s", table)
		}
		total += int64(len(chunk))
	}
	return total, nil
}

func (s *SQLiteStore) TableNames() []string {
	return append([]string(nil), warehouseTables...)
}

// ReadTable dumps one warehouse relation ordered by its first column.
func (s *SQLiteStore) ReadTable(ctx context.Context, table string) ([]string, [][]string, error) {
	if !knownTable(table) {
		return nil, nil, eris.Errorf("sqlite: unknown warehouse table %q", table)
	}
	return s.readRows(ctx, "SELECT * FROM "+table+" ORDER BY 1")
}

const sqliteFlatSQL = `
SELECT
	f.id_fait, f.annee,
	et.nom, et.prenom, et.date_naissance, et.nationalite,
	ec.nom_ecole,
	st.pays AS stage_pays, st.entreprise AS stage_entreprise,
	st.date_debut AS stage_debut, st.date_fin AS stage_fin,
	pr.nom_projet, pr.description, pr.publier,
	COALESCE(dm.nom_matiere, bm.matieres) AS matieres
FROM fait_annee f
LEFT JOIN dimension_etudiant   et ON et.id_etudiant = f.id_etudiant
LEFT JOIN dimension_ecole      ec ON ec.id_ecole = f.id_ecole
LEFT JOIN dimension_info_stage st ON st.id_stage = f.id_stage
LEFT JOIN dimension_projet     pr ON pr.id_projet = f.id_projet
LEFT JOIN dimension_matiere    dm ON dm.id_matiere = f.id_matiere
LEFT JOIN (
	SELECT fm.id_fait, group_concat(m.nom_matiere, '; ') AS matieres
	FROM fait_annee_matiere fm
	JOIN dimension_matiere m ON m.id_matiere = fm.id_matiere
	GROUP BY fm.id_fait
) bm ON bm.id_fait = f.id_fait
ORDER BY f.id_etudiant, f.annee, f.id_fait
`

// ReadFlat dumps the reporting projection, one row per fact.
func (s *SQLiteStore) ReadFlat(ctx context.Context) ([]string, [][]string, error) {
	return s.readRows(ctx, sqliteFlatSQL)
}

func (s *SQLiteStore) readRows(ctx context.Context, query string) ([]string, [][]string, error) {
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, nil, eris.Wrap(err, "sqlite: query export rows")
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, nil, eris.Wrap(err, "sqlite: read export columns")
	}

	var out [][]string
	for rows.Next() {
		vals := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, nil, eris.Wrap(err, "sqlite: scan export row")
		}
		rec := make([]string, len(vals))
		for i, v := range vals {
			rec[i] = renderValue(v)
		}
		out = append(out, rec)
	}
	return cols, out, eris.Wrap(rows.Err(), "sqlite: iterate export rows")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
