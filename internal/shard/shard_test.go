package shard

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"aadhaarclean/internal/table"
)

func makeTable(n int) *table.Table {
	t := &table.Table{Header: []string{"date", "pincode"}}
	for i := 0; i < n; i++ {
		t.Rows = append(t.Rows, []string{"2025-03-01", fmt.Sprintf("%06d", i)})
	}
	return t
}

func concat(shards []Shard) [][]string {
	var out [][]string
	for _, s := range shards {
		out = append(out, s.Rows...)
	}
	return out
}

func TestSplit_ExactlyCapIsOneShard(t *testing.T) {
	shards, err := Split(makeTable(5), 5)
	require.NoError(t, err)
	require.Len(t, shards, 1)
	assert.Equal(t, 1, shards[0].Index)
	assert.Equal(t, 5, shards[0].RowCount)
}

func TestSplit_CapPlusOneIsTwoShards(t *testing.T) {
	tbl := makeTable(6)
	shards, err := Split(tbl, 5)
	require.NoError(t, err)
	require.Len(t, shards, 2)
	assert.Equal(t, 5, shards[0].RowCount)
	assert.Equal(t, 1, shards[1].RowCount)
	assert.Equal(t, 2, shards[1].Index)
	assert.Equal(t, tbl.Rows, concat(shards))
}

func TestSplit_RoundTripAndSizes(t *testing.T) {
	for _, n := range []int{0, 1, 9, 10, 11, 29, 30, 31} {
		tbl := makeTable(n)
		shards, err := Split(tbl, 10)
		require.NoError(t, err)

		want := (n + 9) / 10
		if want == 0 {
			want = 1
		}
		require.Len(t, shards, want, "n=%d", n)
		if n > 0 {
			assert.Equal(t, tbl.Rows, concat(shards), "n=%d", n)
		}
		for _, s := range shards {
			assert.LessOrEqual(t, s.RowCount, 10)
			assert.Equal(t, table.EncodedSize(tbl.Header, s.Rows), s.ByteSize)
		}
	}
}

func TestSplit_RejectsNonPositiveCap(t *testing.T) {
	_, err := Split(makeTable(3), 0)
	require.ErrorIs(t, err, ErrInvalidShardSize)
}

func TestWriteCSV_WritesNumberedPartsAndRemovesStale(t *testing.T) {
	dir := t.TempDir()
	for _, stale := range []string{"bio_cleaned_part1.csv", "bio_cleaned_part7.csv", "bio_cleaned_part3.xlsx"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, stale), []byte("old"), 0o644))
	}
	keep := filepath.Join(dir, "demo_cleaned_part1.csv")
	require.NoError(t, os.WriteFile(keep, []byte("other category"), 0o644))

	require.NoError(t, RemoveStale(dir, "bio"))

	tbl := makeTable(3)
	shards, err := Split(tbl, 2)
	require.NoError(t, err)
	written, err := WriteCSV(dir, "bio", tbl.Header, shards)
	require.NoError(t, err)
	require.Len(t, written, 2)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	assert.ElementsMatch(t, []string{"bio_cleaned_part1.csv", "bio_cleaned_part2.csv", "demo_cleaned_part1.csv"}, names)

	for i, w := range written {
		b, err := os.ReadFile(w.Path)
		require.NoError(t, err)
		assert.Equal(t, int64(len(b)), w.Bytes)
		assert.Equal(t, shards[i].ByteSize, w.Bytes)
	}
	b, err := os.ReadFile(written[1].Path)
	require.NoError(t, err)
	assert.Equal(t, "date,pincode\n2025-03-01,000002\n", string(b))
}

func TestWriteCSV_RejectsSizeDifferentFromSplit(t *testing.T) {
	dir := t.TempDir()
	tbl := makeTable(3)
	shards, err := Split(tbl, 2)
	require.NoError(t, err)
	shards[1].ByteSize++

	written, err := WriteCSV(dir, "bio", tbl.Header, shards)
	require.ErrorIs(t, err, ErrSizeMismatch)
	assert.Len(t, written, 1)
}

func TestParseFileName(t *testing.T) {
	p, idx, ext, ok := ParseFileName("enrolment_cleaned_part12.xlsx")
	require.True(t, ok)
	assert.Equal(t, "enrolment", p)
	assert.Equal(t, 12, idx)
	assert.Equal(t, ".xlsx", ext)

	_, _, _, ok = ParseFileName("enrolment_cleaned.csv")
	assert.False(t, ok)
}

func TestWriteXLSX_MirrorsCSVShards(t *testing.T) {
	dir := t.TempDir()
	tbl := makeTable(3)
	shards, err := Split(tbl, 2)
	require.NoError(t, err)

	written, err := WriteXLSX(dir, "enrolment", tbl.Header, shards)
	require.NoError(t, err)
	require.Len(t, written, 2)

	f, err := excelize.OpenFile(written[0].Path)
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows("enrolment")
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"date", "pincode"}, {"2025-03-01", "000000"}, {"2025-03-01", "000001"}}, rows)
}
