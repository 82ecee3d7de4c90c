package cache

import (
	"errors"
	"testing"
)

func TestIsTransientSQLiteErr(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"non-transient", errors.New("syntax error"), false},
		{"SQLITE_BUSY text", errors.New("SQLITE_BUSY"), true},
		{"SQLITE_LOCKED text", errors.New("SQLITE_LOCKED"), true},
		{"IOERR_SHORT_READ text", errors.New("IOERR_SHORT_READ"), true},
		{"database is locked", errors.New("database is locked"), true},
		{"code 5", errors.New("sqlite: (5) database is busy"), true},
		{"code 522", errors.New("sqlite: (522) short read"), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isTransientSQLiteErr(tt.err); got != tt.want {
				t.Errorf("isTransientSQLiteErr(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

func TestRetryOnContentionSucceedsImmediately(t *testing.T) {
	calls := 0
	if err := retryOnContention(func() error {
		calls++
		return nil
	}); err != nil {
		t.Errorf("expected nil, got %v", err)
	}
	if calls != 1 {
		t.Errorf("expected 1 call, got %d", calls)
	}
}

func TestRetryOnContentionNonTransientNoRetry(t *testing.T) {
	calls := 0
	permanentErr := errors.New("syntax error near SELECT")
	err := retryOnContention(func() error {
		calls++
		return permanentErr
	})
	if err != permanentErr {
		t.Errorf("expected permanentErr, got %v", err)
	}
	if calls != 1 {
		t.Errorf("expected 1 call (no retry for non-transient), got %d", calls)
	}
}

func TestRetryOnContentionRetriesTransient(t *testing.T) {
	calls := 0
	err := retryOnContention(func() error {
		calls++
		if calls < 3 {
			return errors.New("SQLITE_BUSY")
		}
		return nil
	})
	if err != nil {
		t.Errorf("expected nil after retries, got %v", err)
	}
	if calls != 3 {
		t.Errorf("expected 3 calls, got %d", calls)
	}
}

func TestRetryOnContentionExhausts(t *testing.T) {
	calls := 0
	err := retryOnContention(func() error {
		calls++
		return errors.New("SQLITE_BUSY")
	})
	if err == nil {
		t.Error("expected error after exhausting retries")
	}
	// retryMax retries after the initial attempt.
	if calls != retryMax+1 {
		t.Errorf("expected %d calls, got %d", retryMax+1, calls)
	}
}

func TestBackoffDelay(t *testing.T) {
	// Attempt 0: ~base + jitter in [0, base).
	if d := backoffDelay(0); d < retryBaseDelay || d >= 2*retryBaseDelay {
		t.Errorf("attempt 0 delay %v not in [%v, %v)", d, retryBaseDelay, 2*retryBaseDelay)
	}
	// Attempt 5: 50ms * 2^5 = 1600ms, capped at retryMaxDelay + jitter.
	if d := backoffDelay(5); d >= retryMaxDelay+retryBaseDelay {
		t.Errorf("attempt 5 delay %v should be capped near %v", d, retryMaxDelay)
	}
}
