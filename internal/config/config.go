package config

import (
	"fmt"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"

	"trendscan/internal/scheduler"
)

// Load reads a YAML config file, applies defaults and validates the result.
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path cannot be empty")
	}
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("reading config file failed (%s): %w", path, err)
	}
	var cfg Config
	if err := v.Unmarshal(&cfg, func(dc *mapstructure.DecoderConfig) {
		dc.TagName = "toml"
		dc.WeaklyTypedInput = true
	}); err != nil {
		return nil, fmt.Errorf("parsing config failed: %w", err)
	}
	cfg.applyDefaults()
	if err := validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func validate(cfg *Config) error {
	timeframes := scheduler.ValidTimeframes(cfg.Scan.Timeframes)
	if len(timeframes) == 0 {
		return fmt.Errorf("scan.timeframes contains no valid timeframe (got %v)", cfg.Scan.Timeframes)
	}
	cfg.Scan.Timeframes = timeframes

	s := cfg.Strategy
	if !(s.TP1Percent < s.TP2Percent && s.TP2Percent < s.TP3Percent) {
		return fmt.Errorf("strategy take-profit percents must ascend: tp1=%v tp2=%v tp3=%v",
			s.TP1Percent, s.TP2Percent, s.TP3Percent)
	}
	if cfg.Notify.Telegram.Enabled {
		if cfg.Notify.Telegram.BotToken == "" || cfg.Notify.Telegram.ChatID == "" {
			return fmt.Errorf("notify.telegram requires bot_token and chat_id when enabled")
		}
	}
	return nil
}
