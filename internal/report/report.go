// Package report renders cleaning statistics as the plain-text cleaning report
// and the split-files manifest. It only formats what it is given.
package report

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"aadhaarclean/internal/pipeline"
	"aadhaarclean/internal/shard"
)

const (
	CleaningReportFile = "cleaning_report.txt"
	ManifestFile       = "SPLIT_FILES_SUMMARY.txt"

	timeLayout = "2006-01-02 15:04:05"
)

var (
	rule  = strings.Repeat("=", 70)
	short = strings.Repeat("-", 40)
	long  = strings.Repeat("-", 70)
)

type Report struct {
	RunID           string
	GeneratedAt     time.Time
	MaxRowsPerShard int
	Stats           []*pipeline.Stats
	Failures        []pipeline.Failure
}

func WriteCleaningReport(w io.Writer, r Report) error {
	lines := []string{
		rule,
		"AADHAAR DATA CLEANING REPORT",
		"Generated: " + r.GeneratedAt.Format(timeLayout),
		"Run ID: " + r.RunID,
		rule,
		"",
	}
	for _, st := range r.Stats {
		lines = append(lines,
			"",
			st.Dataset,
			short,
			count("Input files", len(st.Sources)),
			count("Original rows", st.OriginalRows),
			count("Duplicates removed", st.DuplicatesRemoved),
			count("Invalid states", st.InvalidStates),
			count("Unparseable dates", st.UnparseableDates),
			count("Pincodes > 6 chars", st.OverlongPincodes),
			count("Missing pincodes", st.MissingPincodes),
			count("Final rows", st.FinalRows),
			count("Unique states", st.UniqueStates),
		)
		if len(st.TopInvalidValues) > 0 {
			lines = append(lines, "  Most frequent invalid state values:")
			for _, v := range st.TopInvalidValues {
				lines = append(lines, fmt.Sprintf("    %-30s %10s", strconv.Quote(v.Value), humanize.Comma(int64(v.Count))))
			}
		}
	}
	if len(r.Failures) > 0 {
		lines = append(lines, "", "FAILED DATASETS", short)
		for _, f := range r.Failures {
			lines = append(lines, fmt.Sprintf("  %s: %v", f.Dataset, f.Err))
		}
	}

	lines = append(lines,
		"",
		rule,
		"CLEANING OPERATIONS PERFORMED:",
		rule,
		"1. Removed exact duplicate rows (compared on raw values, before normalization)",
		"2. Standardized state names (spelling variants -> 36 official names)",
		"3. Marked invalid state entries (city names, numbers, unknown values) as 'INVALID'",
		"4. Standardized district names (trimmed, Title Case)",
		"5. Converted dates to YYYY-MM-DD format (unparseable dates marked 'UNKNOWN')",
		"6. Padded pincodes to 6 digits (longer values kept and counted)",
		"7. Added 'state_original' column for reference",
		"8. Sorted rows by date, state, district (stable; UNKNOWN dates last)",
		fmt.Sprintf("9. Split large files into parts of at most %s rows", humanize.Comma(int64(r.MaxRowsPerShard))),
		"",
	)
	_, err := io.WriteString(w, strings.Join(lines, "\n"))
	return err
}

func WriteManifest(w io.Writer, r Report) error {
	lines := []string{
		rule,
		"CLEANED DATA - SPLIT FILES SUMMARY",
		rule,
		"Generated: " + r.GeneratedAt.Format(timeLayout),
		rule,
		"",
		fmt.Sprintf("NOTE: Files have been split to at most %s rows each", humanize.Comma(int64(r.MaxRowsPerShard))),
		fmt.Sprintf("      Excel maximum rows per sheet: %s (one is taken by the header)", humanize.Comma(shard.ExcelMaxRows)),
		"",
		rule,
	}
	for _, st := range r.Stats {
		lines = append(lines, "", st.Dataset+" DATASET", long)
		total := 0
		for _, f := range st.Files {
			lines = append(lines,
				"  "+f.File,
				"    Rows: "+humanize.Comma(int64(f.Rows)),
				fmt.Sprintf("    Size: %.2f MB (%s bytes)", float64(f.Bytes)/(1024*1024), humanize.Comma(f.Bytes)),
			)
			total += f.Rows
		}
		lines = append(lines, "", fmt.Sprintf("  Total: %d file(s), %s rows", len(st.Files), humanize.Comma(int64(total))))
		if len(st.Workbooks) > 0 {
			names := make([]string, len(st.Workbooks))
			for i, wb := range st.Workbooks {
				names[i] = wb.File
			}
			lines = append(lines, "  Excel workbooks: "+strings.Join(names, ", "))
		}
		if st.SQLiteTable != "" {
			lines = append(lines, "  SQLite table: "+st.SQLiteTable)
		}
	}

	example := "biometric"
	if len(r.Stats) > 0 {
		example = r.Stats[0].Prefix
	}
	lines = append(lines,
		"",
		rule,
		"USAGE INSTRUCTIONS",
		rule,
		"1. Each part file can be opened separately in Excel",
		"2. For complete analysis, concatenate the parts in numeric order",
		"   (part1, part2, ..., part10), keeping only the first header row",
		"3. All files have the same columns; state_original is the last column",
		"4. Data is split sequentially (no data loss, no overlap, order preserved)",
		"",
		"Example shell commands to combine:",
		fmt.Sprintf("  head -n 1 %s > %s_cleaned.csv", shard.FileName(example, 1, ".csv"), example),
		fmt.Sprintf("  for f in $(ls %s_cleaned_part*.csv | sort -V); do tail -n +2 \"$f\" >> %s_cleaned.csv; done", example, example),
		"",
	)
	_, err := io.WriteString(w, strings.Join(lines, "\n"))
	return err
}

// WriteFiles renders both reports into dir and returns their paths.
func WriteFiles(dir string, r Report) (string, string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", "", err
	}
	var buf bytes.Buffer
	if err := WriteCleaningReport(&buf, r); err != nil {
		return "", "", err
	}
	reportPath := filepath.Join(dir, CleaningReportFile)
	if err := os.WriteFile(reportPath, buf.Bytes(), 0o644); err != nil {
		return "", "", err
	}

	buf.Reset()
	if err := WriteManifest(&buf, r); err != nil {
		return "", "", err
	}
	manifestPath := filepath.Join(dir, ManifestFile)
	if err := os.WriteFile(manifestPath, buf.Bytes(), 0o644); err != nil {
		return "", "", err
	}
	return reportPath, manifestPath, nil
}

func count(label string, n int) string {
	return fmt.Sprintf("  %-20s%12s", label+":", humanize.Comma(int64(n)))
}
