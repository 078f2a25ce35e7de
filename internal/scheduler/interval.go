package scheduler

import (
	"strconv"
	"strings"
	"time"
)

// ParseIntervalDuration parses exchange timeframe notation ("1s", "5m", "1h",
// "1d", "1w") into a time.Duration. Returns (0, false) on invalid input.
func ParseIntervalDuration(interval string) (time.Duration, bool) {
	interval = strings.ToLower(strings.TrimSpace(interval))
	if interval == "" {
		return 0, false
	}
	unit := interval[len(interval)-1]
	numStr := strings.TrimSpace(interval[:len(interval)-1])
	if numStr == "" {
		return 0, false
	}
	n, err := strconv.Atoi(numStr)
	if err != nil || n <= 0 {
		return 0, false
	}
	switch unit {
	case 's':
		return time.Duration(n) * time.Second, true
	case 'm':
		return time.Duration(n) * time.Minute, true
	case 'h':
		return time.Duration(n) * time.Hour, true
	case 'd':
		return time.Duration(n) * 24 * time.Hour, true
	case 'w':
		return time.Duration(n) * 7 * 24 * time.Hour, true
	default:
		return 0, false
	}
}

// ValidTimeframes filters a list down to parseable timeframes, preserving
// order and dropping duplicates.
func ValidTimeframes(timeframes []string) []string {
	seen := make(map[string]struct{}, len(timeframes))
	out := make([]string, 0, len(timeframes))
	for _, tf := range timeframes {
		tf = strings.ToLower(strings.TrimSpace(tf))
		if _, ok := seen[tf]; ok {
			continue
		}
		if _, ok := ParseIntervalDuration(tf); !ok {
			continue
		}
		seen[tf] = struct{}{}
		out = append(out, tf)
	}
	return out
}
