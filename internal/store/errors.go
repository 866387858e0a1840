package store

import "strings"

// IsBusy reports whether err is a SQLite concurrency failure (SQLITE_BUSY
// or "database is locked"). Writes that hit one usually succeed on retry.
func IsBusy(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "SQLITE_BUSY") || strings.Contains(msg, "database is locked")
}
