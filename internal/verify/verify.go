// Package verify checks a directory of written shards against the guarantees
// the cleaner makes: contiguous parts, one header, the row cap, canonical
// states and global sort order. Reading the parts back in numeric order must
// reproduce the cleaned table.
package verify

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sort"

	"aadhaarclean/internal/clean"
	"aadhaarclean/internal/shard"
	"aadhaarclean/internal/states"
	"aadhaarclean/internal/store"
	"aadhaarclean/internal/table"
)

// ErrShardMismatch is returned when the shard set breaks any guarantee. The
// Result still lists every problem found.
var ErrShardMismatch = errors.New("shard mismatch")

// maxProblems bounds how many per-row problems are recorded.
const maxProblems = 20

type Part struct {
	File string `json:"file"`
	Rows int    `json:"rows"`
}

type Result struct {
	Status     string   `json:"status"`
	Prefix     string   `json:"prefix"`
	Dir        string   `json:"dir"`
	MaxRows    int      `json:"max_rows"`
	Parts      []Part   `json:"parts"`
	Rows       int      `json:"rows"`
	SQLiteRows *int     `json:"sqlite_rows,omitempty"`
	Problems   []string `json:"problems,omitempty"`
}

func (r *Result) problem(format string, args ...any) {
	if len(r.Problems) < maxProblems {
		r.Problems = append(r.Problems, fmt.Sprintf(format, args...))
	}
}

func (r *Result) finish() error {
	if len(r.Problems) == 0 {
		r.Status = "ok"
		return nil
	}
	r.Status = "mismatch"
	return fmt.Errorf("%s: %w: %s", r.Prefix, ErrShardMismatch, r.Problems[0])
}

type partPath struct {
	index int
	path  string
}

// Dir verifies the CSV shards for prefix in dir. A maxRows of zero skips the
// cap checks.
func Dir(dir, prefix string, maxRows int) (Result, error) {
	res := Result{Prefix: prefix, Dir: dir, MaxRows: maxRows}
	parts, err := listParts(dir, prefix)
	if err != nil {
		return res, err
	}
	if len(parts) == 0 {
		res.problem("no %s shards in %s", prefix, dir)
		return res, res.finish()
	}
	for i, p := range parts {
		if p.index != i+1 {
			res.problem("expected part%d, found part%d", i+1, p.index)
			return res, res.finish()
		}
	}

	var (
		header []string
		key    clean.SortKey
		si     int
		prev   []string
	)
	for i, p := range parts {
		t, err := table.ReadFile(p.path)
		if err != nil {
			return res, err
		}
		name := filepath.Base(p.path)
		res.Parts = append(res.Parts, Part{File: name, Rows: t.Len()})
		res.Rows += t.Len()

		if header == nil {
			header = t.Header
			if len(header) == 0 || header[len(header)-1] != clean.ColStateOriginal {
				res.problem("%s: last column is not %s", name, clean.ColStateOriginal)
			}
			if key, err = clean.NewSortKey(header); err != nil {
				res.problem("%s: %v", name, err)
				return res, res.finish()
			}
			si = t.Index(clean.ColState)
		} else if !slices.Equal(header, t.Header) {
			res.problem("%s: header differs from part1", name)
			continue
		}

		if maxRows > 0 {
			if t.Len() > maxRows {
				res.problem("%s: %d rows exceeds cap %d", name, t.Len(), maxRows)
			}
			if i < len(parts)-1 && t.Len() != maxRows {
				res.problem("%s: %d rows, non-final parts must hold %d", name, t.Len(), maxRows)
			}
		}
		if t.Len() == 0 && len(parts) > 1 {
			res.problem("%s: empty part", name)
		}

		for j, row := range t.Rows {
			if s := row[si]; s != states.Invalid && !states.IsCanonical(s) {
				res.problem("%s row %d: state %q is not canonical", name, j+1, s)
			}
			if prev != nil && key.Compare(prev, row) > 0 {
				res.problem("%s row %d: out of order", name, j+1)
			}
			prev = row
		}
	}
	return res, res.finish()
}

// SQLite checks that the exported table for prefix holds exactly res.Rows rows
// and records the count in res.
func SQLite(res *Result, path string) error {
	n, err := store.Count(path, store.TableName(res.Prefix))
	if err != nil {
		return err
	}
	res.SQLiteRows = &n
	if n != res.Rows {
		res.problem("sqlite table %s has %d rows, shards hold %d", store.TableName(res.Prefix), n, res.Rows)
	}
	return res.finish()
}

func listParts(dir, prefix string) ([]partPath, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var parts []partPath
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		p, idx, ext, ok := shard.ParseFileName(e.Name())
		if !ok || p != prefix || ext != ".csv" {
			continue
		}
		parts = append(parts, partPath{index: idx, path: filepath.Join(dir, e.Name())})
	}
	sort.Slice(parts, func(i, j int) bool { return parts[i].index < parts[j].index })
	return parts, nil
}
