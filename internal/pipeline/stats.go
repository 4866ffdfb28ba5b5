package pipeline

import (
	"sort"

	"aadhaarclean/internal/shard"
	"aadhaarclean/internal/table"
)

// Stats summarises one category's run. It is filled in once, after the cleaned
// table has been written, and not modified afterwards.
type Stats struct {
	Dataset  string
	Prefix   string
	InputDir string
	Sources  []table.SourceFile

	OriginalRows      int
	DuplicatesRemoved int
	InvalidStates     int
	UnparseableDates  int
	OverlongPincodes  int
	MissingPincodes   int
	FinalRows         int
	UniqueStates      int

	// TopInvalidValues are the most frequent raw state values that mapped to INVALID.
	TopInvalidValues []ValueCount

	MaxRowsPerShard int
	Files           []shard.Written
	Workbooks       []shard.Written
	SQLiteTable     string
}

type ValueCount struct {
	Value string
	Count int
}

// Failure is a category whose run aborted.
type Failure struct {
	Dataset string
	Err     error
}

const topInvalidLimit = 10

func topValues(counts map[string]int, limit int) []ValueCount {
	out := make([]ValueCount, 0, len(counts))
	for v, c := range counts {
		out = append(out, ValueCount{Value: v, Count: c})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count == out[j].Count {
			return out[i].Value < out[j].Value
		}
		return out[i].Count > out[j].Count
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

func distinct(t *table.Table, col int) int {
	seen := map[string]struct{}{}
	for _, r := range t.Rows {
		seen[r[col]] = struct{}{}
	}
	return len(seen)
}
