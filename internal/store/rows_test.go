package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campusinsights/dwh-cli/internal/warehouse"
)

func TestEncoders(t *testing.T) {
	d := time.Date(2021, 6, 1, 0, 0, 0, 0, time.UTC)
	tr := true

	assert.Equal(t, d, pgEncoder.date(&d))
	assert.Nil(t, pgEncoder.date(nil))
	assert.Equal(t, true, pgEncoder.boolean(&tr))
	assert.Nil(t, pgEncoder.boolean(nil))

	assert.Equal(t, "2021-06-01", sqliteEncoder.date(&d))
	assert.Nil(t, sqliteEncoder.date(nil))
	assert.Equal(t, 1, sqliteEncoder.boolean(&tr))
	assert.Nil(t, sqliteEncoder.boolean(nil))

	assert.Nil(t, textArg(""))
	assert.Equal(t, "x", textArg("x"))
}

func TestEmployerRows_NullColumns(t *testing.T) {
	snap := &warehouse.Snapshot{
		Employers: []warehouse.Employer{{ID: 1, Entreprise: "Acme"}},
	}
	rows := employerRows(snap, pgEncoder)
	require.Len(t, rows, 1)
	assert.Equal(t, []any{int64(1), nil, "Acme", nil}, rows[0])
}

func TestRenderValue(t *testing.T) {
	midnight := time.Date(2021, 6, 1, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, "", renderValue(nil))
	assert.Equal(t, "2021-06-01", renderValue(midnight))
	assert.Equal(t, "true", renderValue(true))
	assert.Equal(t, "42", renderValue(int64(42)))
	assert.Equal(t, "x", renderValue("x"))
	assert.Equal(t, "x", renderValue([]byte("x")))
	assert.Equal(t, "1.5", renderValue(1.5))
}
