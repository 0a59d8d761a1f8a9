package report

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddIssues(t *testing.T) {
	var r Report
	r.AddIssues(nil)
	assert.Nil(t, r.FieldIssues)

	r.AddIssues([]string{"annee", "publie"})
	r.AddIssues([]string{"annee"})
	assert.Equal(t, map[string]int{"annee": 2, "publie": 1}, r.FieldIssues)
}

func TestWriteJSON(t *testing.T) {
	r := Report{
		RunID:         "run-1",
		Source:        "source.csv",
		Variant:       "aggregate",
		RowsIn:        10,
		RowsCanonical: 7,
		Facts:         6,
	}
	r.AddIssues([]string{"date_naissance"})

	path := filepath.Join(t.TempDir(), "reports", "run.json")
	require.NoError(t, r.WriteJSON(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var got Report
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, r, got)
}
