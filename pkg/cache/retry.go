// retry.go provides automatic retry for transient SQLite errors.
//
// The busy_timeout pragma handles SQLITE_BUSY at the connection level,
// but WAL-mode SQLite under concurrent writers can still surface
// SQLITE_LOCKED and IOERR_SHORT_READ, which need application-level
// retries.
package cache

import (
	"math/rand"
	"strings"
	"time"
)

const (
	retryMax       = 3
	retryBaseDelay = 50 * time.Millisecond
	retryMaxDelay  = 500 * time.Millisecond
)

// isTransientSQLiteErr reports whether the error can be resolved by
// retrying: SQLITE_BUSY (5), SQLITE_LOCKED (6), IOERR_SHORT_READ (522),
// or the text-level "database is locked" fallthrough.
func isTransientSQLiteErr(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	for _, pattern := range []string{
		"SQLITE_BUSY",
		"SQLITE_LOCKED",
		"IOERR_SHORT_READ",
		"database is locked",
		"database table is locked",
		"(5)",
		"(6)",
		"(522)",
	} {
		if strings.Contains(msg, pattern) {
			return true
		}
	}
	return false
}

// retryOnContention executes fn with exponential backoff plus jitter
// for transient errors. Success or a non-transient error returns
// immediately.
func retryOnContention(fn func() error) error {
	var lastErr error
	for attempt := 0; attempt <= retryMax; attempt++ {
		lastErr = fn()
		if lastErr == nil {
			return nil
		}
		if !isTransientSQLiteErr(lastErr) {
			return lastErr
		}
		if attempt < retryMax {
			time.Sleep(backoffDelay(attempt))
		}
	}
	return lastErr
}

// backoffDelay is baseDelay * 2^attempt capped at retryMaxDelay, plus
// random jitter in [0, baseDelay).
func backoffDelay(attempt int) time.Duration {
	delay := retryBaseDelay << uint(attempt)
	if delay > retryMaxDelay {
		delay = retryMaxDelay
	}
	return delay + time.Duration(rand.Int63n(int64(retryBaseDelay)))
}
