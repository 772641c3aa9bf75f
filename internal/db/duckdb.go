// Package db opens the DuckDB database that holds imported POI tables.
package db

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "github.com/marcboeker/go-duckdb"
	"github.com/rotisserie/eris"
)

// Config holds database configuration.
type Config struct {
	DataDir string
	DBName  string
}

// Open opens (creating if needed) <DataDir>/duckdb/<DBName>.duckdb.
// An empty DataDir opens an in-memory database.
func Open(cfg Config) (*sql.DB, error) {
	if cfg.DataDir == "" {
		conn, err := sql.Open("duckdb", "")
		return conn, eris.Wrap(err, "db: open in-memory duckdb")
	}

	duckdbDir := filepath.Join(cfg.DataDir, "duckdb")
	if err := os.MkdirAll(duckdbDir, 0755); err != nil {
		return nil, eris.Wrap(err, "db: create duckdb directory")
	}

	dbPath := filepath.Join(duckdbDir, cfg.DBName+".duckdb")
	conn, err := sql.Open("duckdb", dbPath)
	if err != nil {
		return nil, eris.Wrapf(err, "db: open %s", dbPath)
	}
	return conn, nil
}

// ImportCSV replaces table with the contents of a CSV file. The CSV needs
// latitude, longitude, label and category columns; county is optional.
func ImportCSV(ctx context.Context, conn *sql.DB, table, csvPath string) (int64, error) {
	if !ValidIdent(table) {
		return 0, eris.Errorf("db: invalid table name %q", table)
	}
	if _, err := os.Stat(csvPath); err != nil {
		return 0, eris.Wrapf(err, "db: csv %s", csvPath)
	}

	src := fmt.Sprintf("read_csv_auto('%s', header = true)", strings.ReplaceAll(csvPath, "'", "''"))
	stmt := fmt.Sprintf(`CREATE OR REPLACE TABLE %s AS SELECT * FROM %s`, table, src)
	if _, err := conn.ExecContext(ctx, stmt); err != nil {
		return 0, eris.Wrapf(err, "db: import %s", csvPath)
	}

	// county is optional in the file but queried by the POI source
	var hasCounty int
	err := conn.QueryRowContext(ctx,
		`SELECT count(*) FROM information_schema.columns WHERE table_name = ? AND column_name = 'county'`, table,
	).Scan(&hasCounty)
	if err != nil {
		return 0, eris.Wrap(err, "db: inspect columns")
	}
	if hasCounty == 0 {
		if _, err := conn.ExecContext(ctx, fmt.Sprintf(`ALTER TABLE %s ADD COLUMN county VARCHAR`, table)); err != nil {
			return 0, eris.Wrap(err, "db: add county column")
		}
	}

	var n int64
	if err := conn.QueryRowContext(ctx, fmt.Sprintf(`SELECT count(*) FROM %s`, table)).Scan(&n); err != nil {
		return 0, eris.Wrap(err, "db: count rows")
	}
	return n, nil
}

// Tables lists the tables of the database.
func Tables(ctx context.Context, conn *sql.DB) ([]string, error) {
	return queryNames(ctx, conn, "SHOW TABLES")
}

// queryNames runs a query whose first column is a name and collects it.
func queryNames(ctx context.Context, conn *sql.DB, query string) ([]string, error) {
	rows, err := conn.QueryContext(ctx, query)
	if err != nil {
		return nil, eris.Wrapf(err, "db: %s", query)
	}
	defer rows.Close()

	names := []string{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, eris.Wrap(err, "db: scan name")
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, eris.Wrapf(err, "db: %s", query)
	}
	return names, nil
}

// ValidIdent reports whether name is a plain SQL identifier: ASCII letters,
// digits and underscores. Table names are interpolated, so callers check
// them with this first.
func ValidIdent(name string) bool {
	if name == "" {
		return false
	}
	for _, r := range strings.ToLower(name) {
		if (r < 'a' || r > 'z') && (r < '0' || r > '9') && r != '_' {
			return false
		}
	}
	return true
}
