package table

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"strings"
)

// SourceFile records how many data rows one input file contributed.
type SourceFile struct {
	Name string
	Rows int
}

// ListCSV returns the *.csv files directly under dir, sorted by name so that
// concatenation order does not depend on the filesystem.
func ListCSV(dir string) ([]string, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.csv"))
	if err != nil {
		return nil, err
	}
	sort.Strings(paths)
	return paths, nil
}

// ReadFile loads a single CSV file with a header row. A leading UTF-8 BOM is
// dropped; short rows are padded with empty cells.
func ReadFile(path string) (*Table, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	b = bytes.TrimPrefix(b, []byte{0xEF, 0xBB, 0xBF})
	r := csv.NewReader(bytes.NewReader(b))
	r.FieldsPerRecord = -1
	header, err := r.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%s: empty file", path)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: read header: %w", path, err)
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	t := &Table{Header: header}
	line := 1
	for {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		if len(rec) > len(header) {
			return nil, fmt.Errorf("%s:%d: expected %d fields, saw %d", path, line, len(header), len(rec))
		}
		for len(rec) < len(header) {
			rec = append(rec, "")
		}
		t.Rows = append(t.Rows, rec)
	}
	return t, nil
}

// Load reads every path and concatenates the rows in order. All files must carry
// the same header, and that header must include every required column.
func Load(paths []string, required []string) (*Table, []SourceFile, error) {
	var out *Table
	sources := make([]SourceFile, 0, len(paths))
	for _, p := range paths {
		t, err := ReadFile(p)
		if err != nil {
			return nil, nil, err
		}
		if out == nil {
			if _, err := t.Columns(required...); err != nil {
				return nil, nil, fmt.Errorf("%s: %w", p, err)
			}
			out = &Table{Header: t.Header}
		} else if !slices.Equal(out.Header, t.Header) {
			return nil, nil, fmt.Errorf("%s: %w: got %v, want %v", p, ErrSchemaMismatch, t.Header, out.Header)
		}
		out.Rows = append(out.Rows, t.Rows...)
		sources = append(sources, SourceFile{Name: filepath.Base(p), Rows: t.Len()})
	}
	if out == nil {
		out = &Table{}
	}
	return out, sources, nil
}
