// ABOUTME: Opens the SQLite snapshot archive
// ABOUTME: WAL journaling, enforced foreign keys and a single connection; schema applied on open
package db

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
)

// archiveDSN enables WAL so offline readers don't block a concurrent save,
// and foreign keys so snapshot rows can't outlive their snapshot.
const archiveDSN = "?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on"

// OpenDatabase opens (creating if needed) the archive at path and applies the schema.
func OpenDatabase(path string) (*sql.DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create archive directory: %w", err)
	}

	database, err := sql.Open("sqlite3", path+archiveDSN)
	if err != nil {
		return nil, fmt.Errorf("failed to open archive: %w", err)
	}

	// One writer; also keeps the connection-scoped pragmas on every query.
	database.SetMaxOpenConns(1)

	if err := InitSchema(database); err != nil {
		_ = database.Close()
		return nil, err
	}
	return database, nil
}
