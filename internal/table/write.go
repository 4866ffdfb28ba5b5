package table

import (
	"bufio"
	"io"
	"strings"
)

// Write encodes header and rows the way pandas' to_csv does (minimal quoting,
// "\n" terminator, no BOM) and returns the number of bytes written.
func Write(w io.Writer, header []string, rows [][]string) (int64, error) {
	cw := &countingWriter{w: w}
	bw := bufio.NewWriterSize(cw, 64*1024)
	if err := writeRecord(bw, header); err != nil {
		return cw.n, err
	}
	for _, rec := range rows {
		if err := writeRecord(bw, rec); err != nil {
			return cw.n, err
		}
	}
	err := bw.Flush()
	return cw.n, err
}

// EncodedSize is the byte length Write would produce.
func EncodedSize(header []string, rows [][]string) int64 {
	n, _ := Write(io.Discard, header, rows)
	return n
}

func writeRecord(w io.Writer, rec []string) error {
	for i, field := range rec {
		if i > 0 {
			if _, err := io.WriteString(w, ","); err != nil {
				return err
			}
		}
		if needsQuote(field) {
			field = `"` + strings.ReplaceAll(field, `"`, `""`) + `"`
		}
		if _, err := io.WriteString(w, field); err != nil {
			return err
		}
	}
	_, err := io.WriteString(w, "\n")
	return err
}

func needsQuote(s string) bool {
	return strings.ContainsAny(s, ",\"\n\r")
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}
