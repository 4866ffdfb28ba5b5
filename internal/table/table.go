// Package table holds the in-memory row model shared by every pipeline stage and
// the CSV reading/writing used for raw inputs and cleaned shards.
package table

import (
	"errors"
	"fmt"
)

var (
	ErrMissingColumn  = errors.New("missing required column")
	ErrSchemaMismatch = errors.New("header does not match")
)

// Table is a header plus positional rows. Every row has len(Header) cells.
type Table struct {
	Header []string
	Rows   [][]string
}

func (t *Table) Len() int {
	return len(t.Rows)
}

// Index returns the position of col in the header, or -1.
func (t *Table) Index(col string) int {
	for i, h := range t.Header {
		if h == col {
			return i
		}
	}
	return -1
}

// Columns resolves every name in cols, failing on the first one not present.
func (t *Table) Columns(cols ...string) ([]int, error) {
	out := make([]int, len(cols))
	for i, c := range cols {
		idx := t.Index(c)
		if idx < 0 {
			return nil, fmt.Errorf("%w: %q", ErrMissingColumn, c)
		}
		out[i] = idx
	}
	return out, nil
}
