package table

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(body), 0o644))
	return p
}

func TestReadFile_StripsBOMAndPadsShortRows(t *testing.T) {
	dir := t.TempDir()
	p := writeFile(t, dir, "a.csv", "\xEF\xBB\xBFdate, state ,district\n01-03-2025,Goa\n02-03-2025,Goa,North Goa\n")

	tbl, err := ReadFile(p)
	require.NoError(t, err)
	assert.Equal(t, []string{"date", "state", "district"}, tbl.Header)
	require.Equal(t, 2, tbl.Len())
	assert.Equal(t, []string{"01-03-2025", "Goa", ""}, tbl.Rows[0])
}

func TestReadFile_RejectsLongRows(t *testing.T) {
	p := writeFile(t, t.TempDir(), "a.csv", "a,b\n1,2,3\n")
	_, err := ReadFile(p)
	require.Error(t, err)
}

func TestLoad_ConcatenatesInOrderAndCountsSources(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "b.csv", "state,pincode\nGoa,403001\n")
	writeFile(t, dir, "a.csv", "state,pincode\nKerala,695001\nBihar,800001\n")
	writeFile(t, dir, "notes.txt", "ignored")

	paths, err := ListCSV(dir)
	require.NoError(t, err)
	require.Len(t, paths, 2)

	tbl, sources, err := Load(paths, []string{"state"})
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"Kerala", "695001"}, {"Bihar", "800001"}, {"Goa", "403001"}}, tbl.Rows)
	assert.Equal(t, []SourceFile{{Name: "a.csv", Rows: 2}, {Name: "b.csv", Rows: 1}}, sources)
}

func TestLoad_SchemaErrors(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.csv", "state,pincode\nGoa,403001\n")
	b := writeFile(t, dir, "b.csv", "pincode,state\n403001,Goa\n")

	_, _, err := Load([]string{a, b}, []string{"state"})
	assert.True(t, errors.Is(err, ErrSchemaMismatch), "got %v", err)

	_, _, err = Load([]string{a}, []string{"state", "district"})
	assert.True(t, errors.Is(err, ErrMissingColumn), "got %v", err)
}

func TestWrite_QuotesLikePandasAndCountsBytes(t *testing.T) {
	var buf bytes.Buffer
	n, err := Write(&buf, []string{"a", "b"}, [][]string{{"x,y", `say "hi"`}, {"", " lead"}})
	require.NoError(t, err)
	want := "a,b\n\"x,y\",\"say \"\"hi\"\"\"\n, lead\n"
	assert.Equal(t, want, buf.String())
	assert.Equal(t, int64(len(want)), n)
	assert.Equal(t, n, EncodedSize([]string{"a", "b"}, [][]string{{"x,y", `say "hi"`}, {"", " lead"}}))
}
