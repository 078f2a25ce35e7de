package sqlite

import (
	"errors"
	"fmt"
	"strings"

	"trendscan/internal/logger"
)

// ErrUnavailable is returned once contention retries are exhausted. It is the
// only storage failure that aborts an operation; callers distinguish it from
// transient errors with errors.Is.
var ErrUnavailable = errors.New("storage unavailable")

// withRetry runs op, retrying lock-contention failures with exponential
// backoff. Non-contention errors propagate immediately.
func (s *Store) withRetry(label string, op func() error) error {
	var lastErr error
	delay := s.baseDelay
	for attempt := 0; attempt < s.attempts; attempt++ {
		if attempt > 0 {
			s.sleep(delay)
			delay *= 2
		}
		err := op()
		if err == nil {
			return nil
		}
		if !isContention(err) {
			return err
		}
		lastErr = err
		logger.Warnf("store: %s hit lock contention (attempt %d/%d): %v", label, attempt+1, s.attempts, err)
	}
	return fmt.Errorf("%w: %s: %v", ErrUnavailable, label, lastErr)
}

func isContention(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "database is locked") ||
		strings.Contains(msg, "database table is locked") ||
		strings.Contains(msg, "busy")
}
