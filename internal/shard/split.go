// Package shard partitions a cleaned table into row-capped parts and writes
// them as numbered files.
package shard

import (
	"errors"
	"fmt"

	"aadhaarclean/internal/table"
)

// ExcelMaxRows is the row limit of one spreadsheet sheet. A shard also needs a
// header row, so DefaultMaxRows leaves room for it.
const (
	ExcelMaxRows   = 1048576
	DefaultMaxRows = ExcelMaxRows - 1
)

var ErrInvalidShardSize = errors.New("max rows per shard must be positive")

// Shard is a contiguous slice of a table's rows. Index starts at 1.
type Shard struct {
	Index    int
	Rows     [][]string
	RowCount int
	// ByteSize is the length of the shard's CSV encoding, header included.
	ByteSize int64
}

// Split cuts t into ceil(len/maxRows) shards in row order. A table that fits
// the cap, including an empty one, yields exactly one shard.
// The shards share t's row storage.
func Split(t *table.Table, maxRows int) ([]Shard, error) {
	if maxRows <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidShardSize, maxRows)
	}
	total := t.Len()
	parts := (total + maxRows - 1) / maxRows
	if parts == 0 {
		parts = 1
	}
	out := make([]Shard, 0, parts)
	for i := 0; i < parts; i++ {
		start := i * maxRows
		end := min(start+maxRows, total)
		rows := t.Rows[start:end:end]
		out = append(out, Shard{
			Index:    i + 1,
			Rows:     rows,
			RowCount: len(rows),
			ByteSize: table.EncodedSize(t.Header, rows),
		})
	}
	return out, nil
}

// FileName is the base name of part index for a category prefix.
func FileName(prefix string, index int, ext string) string {
	return fmt.Sprintf("%s_cleaned_part%d%s", prefix, index, ext)
}
