package db

import (
	"strings"

	"github.com/teranos/moodmap/errors"
)

// ErrDatabaseClosed is returned when the journal is used after shutdown.
var ErrDatabaseClosed = errors.New("database is closed")

// IsDatabaseClosed reports whether err means the connection is closed,
// either as ErrDatabaseClosed or as the raw driver message.
func IsDatabaseClosed(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrDatabaseClosed) {
		return true
	}
	return strings.Contains(err.Error(), "database is closed")
}
