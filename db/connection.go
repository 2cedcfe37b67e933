// Package db opens the host-side SQLite database that holds the session
// journal and applies its embedded schema migrations.
package db

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"

	"github.com/teranos/moodmap/errors"
	"github.com/teranos/moodmap/logger"
	"github.com/teranos/moodmap/sym"
)

// BusyTimeoutMS is how long SQLite waits on a locked database.
const BusyTimeoutMS = 5000

// Open opens a SQLite database at path with WAL, foreign keys and a busy
// timeout. A nil logger operates silently.
func Open(path string, log *zap.SugaredLogger) (*sql.DB, error) {
	log = logger.OrNop(log)
	log.Debugw("Opening database", logger.FieldPath, path, "symbol", sym.DB)

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open database")
	}

	pragmas := []struct {
		stmt string
		what string
	}{
		{"PRAGMA journal_mode = WAL", "enable WAL mode"},
		{"PRAGMA foreign_keys = ON", "enable foreign keys"},
		{fmt.Sprintf("PRAGMA busy_timeout = %d", BusyTimeoutMS), "set busy timeout"},
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p.stmt); err != nil {
			db.Close()
			return nil, errors.Wrapf(err, "failed to %s", p.what)
		}
	}

	log.Infow("Database opened",
		logger.FieldPath, path,
		"symbol", sym.DB,
		"wal_mode", true,
		"foreign_keys", true,
	)
	return db, nil
}

// OpenWithMigrations opens path and brings its schema up to date.
func OpenWithMigrations(path string, log *zap.SugaredLogger) (*sql.DB, error) {
	db, err := Open(path, log)
	if err != nil {
		return nil, errors.WithHint(
			errors.Wrapf(err, "failed to open journal at %s", path),
			"check database.path in am.toml",
		)
	}
	if err := Migrate(db, log); err != nil {
		db.Close()
		return nil, errors.Wrapf(err, "failed to migrate journal at %s", path)
	}
	return db, nil
}
