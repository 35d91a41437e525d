package sqlite

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"
)

// Open opens (or creates) a SQLite database at the given path and enables
// WAL journal mode and foreign keys. ":memory:" opens a private in-memory
// database, used by tests.
func Open(path string) (*sql.DB, error) {
	var dsn string
	if path == ":memory:" || strings.HasPrefix(path, "file:") {
		dsn = path
	} else {
		// ensure parent directory exists to avoid SQLITE_CANTOPEN errors
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, err
		}
		dsn = fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=foreign_keys(ON)", path)
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}
