package store

import (
	"database/sql"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aadhaarclean/internal/table"
)

func TestWriteSQLite_ReplacesTableAndTypesCounters(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cleaned.sqlite")
	tbl := &table.Table{
		Header: []string{"date", "state", "district", "pincode", "age_0_5", "state_original"},
		Rows: [][]string{
			{"2025-03-01", "Goa", "North Goa", "403001", "4", "GOA"},
			{"2025-03-01", "Kerala", "Idukki", "685501", "", "kerala"},
		},
	}
	require.NoError(t, WriteSQLite(path, TableName("enrolment"), tbl, []string{"age_0_5"}))
	require.NoError(t, WriteSQLite(path, TableName("biometric"), &table.Table{Header: []string{"date"}, Rows: [][]string{{"x"}}}, nil))

	n, err := Count(path, "enrolment_cleaned")
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	db, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	defer db.Close()

	var sum int
	require.NoError(t, db.QueryRow(`SELECT SUM(age_0_5) FROM enrolment_cleaned`).Scan(&sum))
	assert.Equal(t, 4, sum)

	var pin string
	require.NoError(t, db.QueryRow(`SELECT pincode FROM enrolment_cleaned WHERE state = 'Goa'`).Scan(&pin))
	assert.Equal(t, "403001", pin)

	// second write of the same table replaces, not appends
	require.NoError(t, WriteSQLite(path, TableName("enrolment"), tbl, []string{"age_0_5"}))
	n, err = Count(path, "enrolment_cleaned")
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	n, err = Count(path, "biometric_cleaned")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestDropTable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cleaned.sqlite")
	require.NoError(t, DropTable(path, "enrolment_cleaned"))
	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err), "drop on a missing database must not create it")

	tbl := &table.Table{Header: []string{"date"}, Rows: [][]string{{"x"}}}
	require.NoError(t, WriteSQLite(path, "enrolment_cleaned", tbl, nil))
	require.NoError(t, WriteSQLite(path, "biometric_cleaned", tbl, nil))
	require.NoError(t, DropTable(path, "enrolment_cleaned"))

	_, err = Count(path, "enrolment_cleaned")
	assert.Error(t, err)
	n, err := Count(path, "biometric_cleaned")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}
