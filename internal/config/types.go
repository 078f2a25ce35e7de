package config

// Config is the top-level runtime configuration.
type Config struct {
	App      AppConfig      `toml:"app"`
	Scan     ScanConfig     `toml:"scan"`
	Strategy StrategyConfig `toml:"strategy"`
	Database DatabaseConfig `toml:"database"`
	Redis    RedisConfig    `toml:"redis"`
	Binance  BinanceConfig  `toml:"binance"`
	Notify   NotifyConfig   `toml:"notify"`
}

type AppConfig struct {
	LogLevel string `toml:"log_level"`
	LogPath  string `toml:"log_path"`
	HTTPAddr string `toml:"http_addr"`
}

// ScanConfig controls the background scan loop.
type ScanConfig struct {
	Timeframes           []string `toml:"timeframes"`
	BarLimit             int      `toml:"bar_limit"`
	CoinLimit            int      `toml:"coin_limit"`
	CycleIntervalSeconds int      `toml:"cycle_interval_seconds"`
	ErrorBackoffSeconds  int      `toml:"error_backoff_seconds"`
	PacingMs             int      `toml:"pacing_ms"`
}

// StrategyConfig holds the indicator and take-profit parameters.
type StrategyConfig struct {
	SMAFast          int     `toml:"sma_fast"`
	SMAMedium        int     `toml:"sma_medium"`
	SMASlow          int     `toml:"sma_slow"`
	SupertrendATR    int     `toml:"supertrend_atr"`
	SupertrendFactor float64 `toml:"supertrend_factor"`
	TP1Percent       float64 `toml:"tp1_percent"`
	TP2Percent       float64 `toml:"tp2_percent"`
	TP3Percent       float64 `toml:"tp3_percent"`
}

type DatabaseConfig struct {
	Path             string `toml:"path"`
	BusyTimeoutMs    int    `toml:"busy_timeout_ms"`
	RetryAttempts    int    `toml:"retry_attempts"`
	RetryBaseDelayMs int    `toml:"retry_base_delay_ms"`
}

type RedisConfig struct {
	Enabled            bool   `toml:"enabled"`
	Addr               string `toml:"addr"`
	Password           string `toml:"password"`
	DB                 int    `toml:"db"`
	SignalTTLSeconds   int    `toml:"signal_ttl_seconds"`
	PositionTTLSeconds int    `toml:"position_ttl_seconds"`
}

type BinanceConfig struct {
	RESTBaseURL        string `toml:"rest_base_url"`
	HTTPTimeoutSeconds int    `toml:"http_timeout_seconds"`
}

type NotifyConfig struct {
	Telegram TelegramConfig `toml:"telegram"`
}

type TelegramConfig struct {
	Enabled  bool   `toml:"enabled"`
	BotToken string `toml:"bot_token"`
	ChatID   string `toml:"chat_id"`
}
