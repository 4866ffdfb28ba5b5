package shard

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/xuri/excelize/v2"
)

// WriteXLSX writes each shard as a single-sheet workbook next to the CSV parts.
// Cells are written as text so pincodes keep their leading zeros.
func WriteXLSX(dir, prefix string, header []string, shards []Shard) ([]Written, error) {
	out := make([]Written, 0, len(shards))
	for _, s := range shards {
		if s.RowCount+1 > ExcelMaxRows {
			return out, fmt.Errorf("part %d: %d rows plus header exceed the %d-row sheet limit", s.Index, s.RowCount, ExcelMaxRows)
		}
		name := FileName(prefix, s.Index, ".xlsx")
		path := filepath.Join(dir, name)
		n, err := writeAtomic(path, func(w io.Writer) (int64, error) {
			return writeWorkbook(w, prefix, header, s.Rows)
		})
		if err != nil {
			return out, fmt.Errorf("write %s: %w", name, err)
		}
		out = append(out, Written{Index: s.Index, File: name, Path: path, Rows: s.RowCount, Bytes: n})
	}
	return out, nil
}

func writeWorkbook(w io.Writer, sheet string, header []string, rows [][]string) (int64, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
		return 0, err
	}
	sw, err := f.NewStreamWriter(sheet)
	if err != nil {
		return 0, err
	}
	if err := sw.SetRow("A1", cells(header)); err != nil {
		return 0, err
	}
	for i, r := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return 0, err
		}
		if err := sw.SetRow(cell, cells(r)); err != nil {
			return 0, err
		}
	}
	if err := sw.Flush(); err != nil {
		return 0, err
	}
	return f.WriteTo(w)
}

func cells(rec []string) []interface{} {
	out := make([]interface{}, len(rec))
	for i, v := range rec {
		out[i] = v
	}
	return out
}
