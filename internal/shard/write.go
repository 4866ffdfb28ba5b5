package shard

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strconv"

	"aadhaarclean/internal/table"
)

// Written describes one shard file on disk.
type Written struct {
	Index int
	File  string
	Path  string
	Rows  int
	Bytes int64
}

// ErrSizeMismatch means a written CSV part differs in length from the encoding
// measured when the table was split.
var ErrSizeMismatch = errors.New("shard size mismatch")

var partFile = regexp.MustCompile(`^(.+)_cleaned_part([0-9]+)\.(csv|xlsx)$`)

// ParseFileName splits a shard file name into its category prefix, part index
// and extension. ok is false for any other name.
func ParseFileName(name string) (prefix string, index int, ext string, ok bool) {
	m := partFile.FindStringSubmatch(name)
	if m == nil {
		return "", 0, "", false
	}
	index, err := strconv.Atoi(m[2])
	if err != nil {
		return "", 0, "", false
	}
	return m[1], index, "." + m[3], true
}

// RemoveStale deletes every shard file a previous run left for prefix, so a
// rerun that produces fewer parts cannot leave orphans behind.
func RemoveStale(dir, prefix string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		p, _, _, ok := ParseFileName(e.Name())
		if !ok || p != prefix {
			continue
		}
		if err := os.Remove(filepath.Join(dir, e.Name())); err != nil && !os.IsNotExist(err) {
			return err
		}
	}
	return nil
}

// WriteCSV writes each shard to <dir>/<prefix>_cleaned_part<N>.csv with the
// header repeated in every file.
func WriteCSV(dir, prefix string, header []string, shards []Shard) ([]Written, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	out := make([]Written, 0, len(shards))
	for _, s := range shards {
		name := FileName(prefix, s.Index, ".csv")
		path := filepath.Join(dir, name)
		n, err := writeAtomic(path, func(w io.Writer) (int64, error) {
			return table.Write(w, header, s.Rows)
		})
		if err != nil {
			return out, fmt.Errorf("write %s: %w", name, err)
		}
		if n != s.ByteSize {
			return out, fmt.Errorf("write %s: %w: wrote %d bytes, split measured %d", name, ErrSizeMismatch, n, s.ByteSize)
		}
		out = append(out, Written{Index: s.Index, File: name, Path: path, Rows: s.RowCount, Bytes: n})
	}
	return out, nil
}

// writeAtomic writes through a temp file in the target directory and renames
// it into place, so readers never see a partial file.
func writeAtomic(path string, fill func(io.Writer) (int64, error)) (int64, error) {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return 0, err
	}
	defer os.Remove(tmp.Name())

	n, err := fill(tmp)
	if err != nil {
		tmp.Close()
		return 0, err
	}
	if err := tmp.Close(); err != nil {
		return 0, err
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return 0, err
	}
	return n, nil
}
