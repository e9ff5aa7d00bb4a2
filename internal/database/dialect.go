package database

import (
	"fmt"
	"strings"
)

// Dialect is the SQL flavour of a driver.
type Dialect string

const (
	MySQL    Dialect = "mysql"
	Postgres Dialect = "postgres"
	SQLite   Dialect = "sqlite3"
)

// DialectFor maps a database/sql driver name to its dialect.
func DialectFor(driver string) (Dialect, error) {
	switch d := Dialect(driver); d {
	case MySQL, Postgres, SQLite:
		return d, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedDriver, driver)
	}
}

// Placeholder returns the bind parameter for the n-th (1-based) argument.
func (d Dialect) Placeholder(n int) string {
	if d == Postgres {
		return fmt.Sprintf("$%d", n)
	}
	return "?"
}

// Quote quotes an identifier.
func (d Dialect) Quote(ident string) string {
	if d == MySQL {
		return "`" + ident + "`"
	}
	return `"` + ident + `"`
}

// InsertIgnore builds a multi-row insert that skips rows whose unique
// key already exists: INSERT IGNORE on MySQL, INSERT OR IGNORE on SQLite,
// ON CONFLICT DO NOTHING on PostgreSQL.
func (d Dialect) InsertIgnore(table string, columns []string, rows int) string {
	quoted := make([]string, len(columns))
	for i, c := range columns {
		quoted[i] = d.Quote(c)
	}

	values := make([]string, rows)
	n := 1
	for r := 0; r < rows; r++ {
		ph := make([]string, len(columns))
		for c := range columns {
			ph[c] = d.Placeholder(n)
			n++
		}
		values[r] = "(" + strings.Join(ph, ", ") + ")"
	}

	var verb, suffix string
	switch d {
	case MySQL:
		verb = "INSERT IGNORE INTO"
	case SQLite:
		verb = "INSERT OR IGNORE INTO"
	default:
		verb = "INSERT INTO"
		suffix = " ON CONFLICT DO NOTHING"
	}

	return fmt.Sprintf("%s %s (%s) VALUES %s%s",
		verb, d.Quote(table), strings.Join(quoted, ", "), strings.Join(values, ", "), suffix)
}

// CreateLevelTable returns the DDL for the xp_lv table.
func (d Dialect) CreateLevelTable() string {
	return levelTableDDL[d]
}
