package scheduler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseIntervalDuration(t *testing.T) {
	cases := []struct {
		interval string
		want     time.Duration
		ok       bool
	}{
		{"1s", time.Second, true},
		{"30s", 30 * time.Second, true},
		{"1m", time.Minute, true},
		{"5m", 5 * time.Minute, true},
		{"15M", 15 * time.Minute, true},
		{"1h", time.Hour, true},
		{"4h", 4 * time.Hour, true},
		{"1d", 24 * time.Hour, true},
		{"1w", 7 * 24 * time.Hour, true},
		{" 5m ", 5 * time.Minute, true},
		{"", 0, false},
		{"m", 0, false},
		{"0m", 0, false},
		{"-5m", 0, false},
		{"5x", 0, false},
		{"abc", 0, false},
	}
	for _, tc := range cases {
		got, ok := ParseIntervalDuration(tc.interval)
		assert.Equalf(t, tc.ok, ok, "interval %q", tc.interval)
		assert.Equalf(t, tc.want, got, "interval %q", tc.interval)
	}
}

func TestValidTimeframes(t *testing.T) {
	got := ValidTimeframes([]string{"5m", "bogus", "1H", "5m", " 15m ", ""})
	assert.Equal(t, []string{"5m", "1h", "15m"}, got)

	assert.Empty(t, ValidTimeframes(nil))
	assert.Empty(t, ValidTimeframes([]string{"zzz"}))
}
