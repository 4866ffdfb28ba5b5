package clean

import (
	"strconv"
	"strings"
)

// Dedupe drops rows that repeat an earlier row in every cell. The first
// occurrence is kept and survivors stay in input order. It returns the kept rows
// and the number removed.
//
// Dedupe runs on raw cells, before Normalize: two rows that differ only in the
// spelling of the state are both kept.
func Dedupe(rows [][]string) ([][]string, int) {
	seen := make(map[string]struct{}, len(rows))
	out := make([][]string, 0, len(rows))
	var b strings.Builder
	for _, r := range rows {
		b.Reset()
		for _, cell := range r {
			// length prefix keeps ["a,b","c"] apart from ["a","b,c"]
			b.WriteString(strconv.Itoa(len(cell)))
			b.WriteByte(':')
			b.WriteString(cell)
		}
		k := b.String()
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, r)
	}
	return out, len(rows) - len(out)
}
