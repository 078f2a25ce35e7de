package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadAppliesDefaultsToMinimalConfig(t *testing.T) {
	path := writeConfig(t, "app:\n  log_level: debug\n")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.App.LogLevel)
	assert.Equal(t, ":8088", cfg.App.HTTPAddr)
	assert.Equal(t, []string{"5m"}, cfg.Scan.Timeframes)
	assert.Equal(t, 200, cfg.Scan.BarLimit)
	assert.Equal(t, 30, cfg.Scan.CoinLimit)
	assert.Equal(t, 300, cfg.Scan.CycleIntervalSeconds)
	assert.Equal(t, 60, cfg.Scan.ErrorBackoffSeconds)
	assert.Equal(t, 8, cfg.Strategy.SMAFast)
	assert.Equal(t, 9, cfg.Strategy.SMAMedium)
	assert.Equal(t, 13, cfg.Strategy.SMASlow)
	assert.Equal(t, 11, cfg.Strategy.SupertrendATR)
	assert.Equal(t, 4.0, cfg.Strategy.SupertrendFactor)
	assert.Equal(t, 0.01, cfg.Strategy.TP1Percent)
	assert.Equal(t, 0.02, cfg.Strategy.TP2Percent)
	assert.Equal(t, 0.03, cfg.Strategy.TP3Percent)
	assert.Equal(t, 5000, cfg.Database.BusyTimeoutMs)
	assert.Equal(t, 3, cfg.Database.RetryAttempts)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
	assert.Equal(t, 300, cfg.Redis.SignalTTLSeconds)
	assert.Equal(t, 60, cfg.Redis.PositionTTLSeconds)
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
scan:
  timeframes: ["15m", "1h"]
  coin_limit: 10
strategy:
  tp1_percent: 0.02
  tp2_percent: 0.04
  tp3_percent: 0.06
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"15m", "1h"}, cfg.Scan.Timeframes)
	assert.Equal(t, 10, cfg.Scan.CoinLimit)
	assert.Equal(t, 0.04, cfg.Strategy.TP2Percent)
}

func TestLoadDropsInvalidTimeframes(t *testing.T) {
	path := writeConfig(t, `
scan:
  timeframes: ["5m", "bogus", "5m"]
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"5m"}, cfg.Scan.Timeframes)
}

func TestLoadRejectsAllInvalidTimeframes(t *testing.T) {
	path := writeConfig(t, `
scan:
  timeframes: ["bogus", "nope"]
`)

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoadRejectsNonAscendingTakeProfits(t *testing.T) {
	path := writeConfig(t, `
strategy:
  tp1_percent: 0.03
  tp2_percent: 0.02
  tp3_percent: 0.01
`)

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoadRejectsEnabledTelegramWithoutCredentials(t *testing.T) {
	path := writeConfig(t, `
notify:
  telegram:
    enabled: true
`)

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "telegram")
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)

	_, err = Load("")
	assert.Error(t, err)
}
