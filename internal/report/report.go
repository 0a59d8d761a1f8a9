// Package report aggregates run-level counters: row counts per stage and
// the non-fatal field parse failures, which are summarized rather than
// reported per row.
package report

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/rotisserie/eris"
)

// Report is the data-quality summary of one pipeline run.
type Report struct {
	RunID      string    `json:"run_id"`
	Source     string    `json:"source"`
	Variant    string    `json:"variant"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`

	RowsIn        int `json:"rows_in"`
	RowsCanonical int `json:"rows_canonical"`

	// FieldIssues counts unparseable values per field; the fields became
	// absent, no row was dropped.
	FieldIssues map[string]int `json:"field_issues"`

	Dimensions map[string]int `json:"dimensions"`
	Facts      int            `json:"facts"`
	BridgeRows int            `json:"bridge_rows,omitempty"`
}

// AddIssues counts one row's failed fields.
func (r *Report) AddIssues(fields []string) {
	if len(fields) == 0 {
		return
	}
	if r.FieldIssues == nil {
		r.FieldIssues = make(map[string]int)
	}
	for _, f := range fields {
		r.FieldIssues[f]++
	}
}

// WriteJSON writes the report to path, creating parent directories.
func (r *Report) WriteJSON(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return eris.Wrapf(err, "report: create dir for %s", path)
	}
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return eris.Wrap(err, "report: marshal")
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return eris.Wrapf(err, "report: write %s", path)
	}
	return nil
}
