// Package clean implements the row-level stages of the pipeline: exact
// deduplication, per-column normalization and the stable date/state/district sort.
package clean

import (
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"aadhaarclean/internal/states"
	"aadhaarclean/internal/table"
)

const (
	ColDate          = "date"
	ColState         = "state"
	ColDistrict      = "district"
	ColPincode       = "pincode"
	ColStateOriginal = "state_original"

	// UnknownDate replaces dates that do not parse as day-month-year.
	UnknownDate = "UNKNOWN"

	PincodeWidth = 6

	rawDateLayout   = "2-1-2006"
	cleanDateLayout = "2006-01-02"
)

// RequiredColumns must be present in every raw input.
var RequiredColumns = []string{ColDate, ColState, ColDistrict, ColPincode}

// FormatStats counts the anomalies Normalize recovered from.
type FormatStats struct {
	InvalidStates    int
	UnparseableDates int
	OverlongPincodes int
	MissingPincodes  int
	// InvalidValues counts each raw state value that mapped to states.Invalid.
	InvalidValues map[string]int
}

// Normalize returns a new table with the same rows in the same order: state
// canonicalized, district trimmed and title-cased, date rewritten as YYYY-MM-DD,
// pincode zero-padded, and the raw state kept in a trailing state_original column.
func Normalize(t *table.Table) (*table.Table, FormatStats, error) {
	st := FormatStats{InvalidValues: map[string]int{}}
	idx, err := t.Columns(ColDate, ColState, ColDistrict, ColPincode)
	if err != nil {
		return nil, st, err
	}
	di, si, dsi, pi := idx[0], idx[1], idx[2], idx[3]
	tc := newTitleCaser()

	header := make([]string, 0, len(t.Header)+1)
	header = append(header, t.Header...)
	header = append(header, ColStateOriginal)
	out := &table.Table{Header: header, Rows: make([][]string, len(t.Rows))}

	for n, r := range t.Rows {
		row := make([]string, len(r), len(r)+1)
		copy(row, r)
		raw := r[si]
		row = append(row, raw)

		row[si] = states.Canonicalize(raw)
		if row[si] == states.Invalid {
			st.InvalidStates++
			st.InvalidValues[raw]++
		}

		row[dsi] = tc.district(r[dsi])

		var ok bool
		if row[di], ok = FormatDate(r[di]); !ok {
			st.UnparseableDates++
		}

		pin := FormatPincode(r[pi])
		switch {
		case pin == "":
			st.MissingPincodes++
		case utf8.RuneCountInString(pin) > PincodeWidth:
			st.OverlongPincodes++
		}
		row[pi] = pin

		out.Rows[n] = row
	}
	return out, st, nil
}

// FormatDistrict trims, collapses inner whitespace and title-cases a district.
// Missing values become empty.
func FormatDistrict(raw string) string {
	return newTitleCaser().district(raw)
}

// titleCaser upper-cases the first letter of every run of cased letters and
// lower-cases the rest, so "s.a.s nagar" becomes "S.A.S Nagar" and
// "o'neil" becomes "O'Neil". Any rune that is not a cased letter ends a run.
type titleCaser struct {
	upper, lower cases.Caser
}

func newTitleCaser() *titleCaser {
	return &titleCaser{upper: cases.Upper(language.Und), lower: cases.Lower(language.Und)}
}

func (c *titleCaser) district(raw string) string {
	if states.IsMissing(raw) {
		return ""
	}
	return c.title(strings.Join(strings.Fields(raw), " "))
}

func (c *titleCaser) title(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	start := -1
	word := func(end int) {
		w := s[start:end]
		_, n := utf8.DecodeRuneInString(w)
		b.WriteString(c.upper.String(w[:n]))
		b.WriteString(c.lower.String(w[n:]))
	}
	for i, r := range s {
		if isCased(r) {
			if start < 0 {
				start = i
			}
			continue
		}
		if start >= 0 {
			word(i)
			start = -1
		}
		b.WriteRune(r)
	}
	if start >= 0 {
		word(len(s))
	}
	return b.String()
}

func isCased(r rune) bool {
	return unicode.IsUpper(r) || unicode.IsLower(r) || unicode.IsTitle(r)
}

// FormatDate parses a D-M-YYYY date and rewrites it as YYYY-MM-DD. Anything
// else yields UnknownDate and false.
func FormatDate(raw string) (string, bool) {
	tm, err := time.Parse(rawDateLayout, strings.TrimSpace(raw))
	if err != nil {
		return UnknownDate, false
	}
	return tm.Format(cleanDateLayout), true
}

// FormatPincode left-pads a pincode with zeros to PincodeWidth characters. The
// value is handled as text; longer values are returned untruncated.
func FormatPincode(raw string) string {
	if states.IsMissing(raw) {
		return ""
	}
	s := strings.TrimSpace(raw)
	if pad := PincodeWidth - utf8.RuneCountInString(s); pad > 0 {
		s = strings.Repeat("0", pad) + s
	}
	return s
}
