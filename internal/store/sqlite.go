// Package store exports cleaned tables into a SQLite database for downstream
// aggregation queries.
package store

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	_ "modernc.org/sqlite"

	"aadhaarclean/internal/table"
)

// TableName is the SQLite table holding a category's cleaned rows.
func TableName(prefix string) string {
	return prefix + "_cleaned"
}

// WriteSQLite replaces the table name in the database at path with the rows of
// t. Columns listed in integerCols are typed INTEGER; everything else is TEXT.
// Other tables in the same database are left alone.
func WriteSQLite(path, name string, t *table.Table, integerCols []string) error {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return err
	}
	defer db.Close()

	isInt := make(map[string]bool, len(integerCols))
	for _, c := range integerCols {
		isInt[c] = true
	}
	defs := make([]string, 0, len(t.Header))
	cols := make([]string, 0, len(t.Header))
	for _, c := range t.Header {
		typ := "TEXT"
		if isInt[c] {
			typ = "INTEGER"
		}
		defs = append(defs, quoteIdent(c)+" "+typ)
		cols = append(cols, quoteIdent(c))
	}

	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DROP TABLE IF EXISTS ` + quoteIdent(name)); err != nil {
		return err
	}
	if _, err := tx.Exec(`CREATE TABLE ` + quoteIdent(name) + ` (` + strings.Join(defs, ",") + `)`); err != nil {
		return err
	}
	ph := strings.TrimRight(strings.Repeat("?,", len(cols)), ",")
	stmt, err := tx.Prepare(`INSERT INTO ` + quoteIdent(name) + ` (` + strings.Join(cols, ",") + `) VALUES (` + ph + `)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	args := make([]any, len(t.Header))
	for _, r := range t.Rows {
		for i, c := range t.Header {
			args[i] = sqliteValue(r[i], isInt[c])
		}
		if _, err := stmt.Exec(args...); err != nil {
			return err
		}
	}
	for _, col := range []string{"date", "state", "district"} {
		if t.Index(col) < 0 {
			continue
		}
		idx := fmt.Sprintf("idx_%s_%s", name, col)
		if _, err := tx.Exec(`CREATE INDEX IF NOT EXISTS ` + quoteIdent(idx) + ` ON ` + quoteIdent(name) + `(` + quoteIdent(col) + `)`); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// DropTable removes table name from the database at path. A missing database
// file is left uncreated.
func DropTable(path, name string) error {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return err
	}
	defer db.Close()
	_, err = db.Exec(`DROP TABLE IF EXISTS ` + quoteIdent(name))
	return err
}

// Count returns the number of rows in table name.
func Count(path, name string) (int, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return 0, err
	}
	defer db.Close()
	var n int
	if err := db.QueryRow(`SELECT COUNT(*) FROM ` + quoteIdent(name)).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

func sqliteValue(v string, integer bool) any {
	if !integer {
		return v
	}
	s := strings.TrimSpace(v)
	if s == "" {
		return nil
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n
	}
	return v
}

func quoteIdent(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}
