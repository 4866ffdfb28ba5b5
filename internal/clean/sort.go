package clean

import (
	"slices"
	"strings"

	"aadhaarclean/internal/table"
)

// SortKey orders cleaned rows by date, then state, then district, comparing
// cells as strings. Missing values sort after every present value: UnknownDate
// comes after all real dates and an empty district after all named ones.
type SortKey struct {
	date, state, district int
}

func NewSortKey(header []string) (SortKey, error) {
	t := table.Table{Header: header}
	idx, err := t.Columns(ColDate, ColState, ColDistrict)
	if err != nil {
		return SortKey{}, err
	}
	return SortKey{date: idx[0], state: idx[1], district: idx[2]}, nil
}

// Compare returns -1, 0 or 1 like strings.Compare.
func (k SortKey) Compare(a, b []string) int {
	if c := missingLast(a[k.date], b[k.date], isUnknownDate); c != 0 {
		return c
	}
	if c := strings.Compare(a[k.state], b[k.state]); c != 0 {
		return c
	}
	return missingLast(a[k.district], b[k.district], isEmpty)
}

// Sort orders t.Rows in place. Rows with equal keys keep their relative order.
func Sort(t *table.Table) error {
	k, err := NewSortKey(t.Header)
	if err != nil {
		return err
	}
	slices.SortStableFunc(t.Rows, k.Compare)
	return nil
}

func missingLast(a, b string, missing func(string) bool) int {
	am, bm := missing(a), missing(b)
	switch {
	case am && bm:
		return 0
	case am:
		return 1
	case bm:
		return -1
	}
	return strings.Compare(a, b)
}

func isUnknownDate(s string) bool { return s == UnknownDate || s == "" }

func isEmpty(s string) bool { return s == "" }
