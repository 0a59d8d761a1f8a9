// Package store persists the warehouse to a relational backend. The
// Postgres implementation is the production target; the SQLite one serves
// local runs without a server. Both republish the warehouse atomically:
// the drop, recreate and bulk load happen inside a single transaction, so
// readers see either the prior complete warehouse or the new one.
package store

import (
	"context"
	"time"

	"github.com/campusinsights/dwh-cli/internal/model"
	"github.com/campusinsights/dwh-cli/internal/warehouse"
)

// RunInfo is the run-log entry written alongside each rebuild.
type RunInfo struct {
	ID            string
	Source        string
	Variant       string
	StartedAt     time.Time
	FinishedAt    time.Time
	RowsIn        int
	RowsCanonical int
	Facts         int
}

// Store is the persistence interface the pipeline needs from its backend.
type Store interface {
	// LoadStaging rebuilds the staging relation from canonical rows.
	LoadStaging(ctx context.Context, recs []model.CanonicalRecord) (int64, error)

	// Rebuild destructively replaces the warehouse with the snapshot and
	// records the run, all in one transaction.
	Rebuild(ctx context.Context, snap *warehouse.Snapshot, run *RunInfo) error

	// TableNames lists the warehouse relations available to ReadTable.
	TableNames() []string

	// ReadTable returns a warehouse relation as column names plus
	// stringified rows, ordered by surrogate id.
	ReadTable(ctx context.Context, table string) ([]string, [][]string, error)

	// ReadFlat returns the reporting projection joining facts to all
	// dimension attributes, one row per fact.
	ReadFlat(ctx context.Context) ([]string, [][]string, error)

	Close() error
}

// warehouseTables is the fixed set of exportable relations, in FK-safe
// load order.
var warehouseTables = []string{
	"dimension_employe",
	"dimension_etudiant",
	"dimension_ecole",
	"dimension_matiere",
	"dimension_projet",
	"dimension_info_stage",
	"fait_annee",
	"fait_annee_matiere",
}

func knownTable(name string) bool {
	for _, t := range warehouseTables {
		if t == name {
			return true
		}
	}
	return false
}
