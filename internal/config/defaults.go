package config

func (c *Config) applyDefaults() {
	if c.App.LogLevel == "" {
		c.App.LogLevel = "info"
	}
	if c.App.HTTPAddr == "" {
		c.App.HTTPAddr = ":8088"
	}

	if len(c.Scan.Timeframes) == 0 {
		c.Scan.Timeframes = []string{"5m"}
	}
	if c.Scan.BarLimit <= 0 {
		c.Scan.BarLimit = 200
	}
	if c.Scan.CoinLimit <= 0 {
		c.Scan.CoinLimit = 30
	}
	if c.Scan.CycleIntervalSeconds <= 0 {
		c.Scan.CycleIntervalSeconds = 300
	}
	if c.Scan.ErrorBackoffSeconds <= 0 {
		c.Scan.ErrorBackoffSeconds = 60
	}
	if c.Scan.PacingMs <= 0 {
		c.Scan.PacingMs = 50
	}

	if c.Strategy.SMAFast <= 0 {
		c.Strategy.SMAFast = 8
	}
	if c.Strategy.SMAMedium <= 0 {
		c.Strategy.SMAMedium = 9
	}
	if c.Strategy.SMASlow <= 0 {
		c.Strategy.SMASlow = 13
	}
	if c.Strategy.SupertrendATR <= 0 {
		c.Strategy.SupertrendATR = 11
	}
	if c.Strategy.SupertrendFactor <= 0 {
		c.Strategy.SupertrendFactor = 4
	}
	if c.Strategy.TP1Percent <= 0 {
		c.Strategy.TP1Percent = 0.01
	}
	if c.Strategy.TP2Percent <= 0 {
		c.Strategy.TP2Percent = 0.02
	}
	if c.Strategy.TP3Percent <= 0 {
		c.Strategy.TP3Percent = 0.03
	}

	if c.Database.Path == "" {
		c.Database.Path = "data/trendscan.db"
	}
	if c.Database.BusyTimeoutMs <= 0 {
		c.Database.BusyTimeoutMs = 5000
	}
	if c.Database.RetryAttempts <= 0 {
		c.Database.RetryAttempts = 3
	}
	if c.Database.RetryBaseDelayMs <= 0 {
		c.Database.RetryBaseDelayMs = 500
	}

	if c.Redis.Addr == "" {
		c.Redis.Addr = "localhost:6379"
	}
	if c.Redis.SignalTTLSeconds <= 0 {
		c.Redis.SignalTTLSeconds = 300
	}
	if c.Redis.PositionTTLSeconds <= 0 {
		c.Redis.PositionTTLSeconds = 60
	}

	if c.Binance.HTTPTimeoutSeconds <= 0 {
		c.Binance.HTTPTimeoutSeconds = 30
	}
}
