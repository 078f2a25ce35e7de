package app

import (
	"context"
	"time"

	"trendscan/internal/analysis/indicator"
	"trendscan/internal/config"
	"trendscan/internal/gateway/binance"
	"trendscan/internal/gateway/cache"
	"trendscan/internal/gateway/notifier"
	"trendscan/internal/logger"
	"trendscan/internal/scanner"
	"trendscan/internal/service/position"
	"trendscan/internal/service/view"
	"trendscan/internal/store"
	"trendscan/internal/store/sqlite"
	transport "trendscan/internal/transport/http"
)

// App owns the wired component graph and its lifecycle.
type App struct {
	cfg     *config.Config
	store   *sqlite.Store
	cache   *cache.RedisCache
	scanner *scanner.Scanner
	server  *transport.Server
}

func New(cfg *config.Config) (*App, error) {
	ledger, err := sqlite.New(cfg.Database.Path, sqlite.Options{
		BusyTimeoutMs:  cfg.Database.BusyTimeoutMs,
		RetryAttempts:  cfg.Database.RetryAttempts,
		RetryBaseDelay: time.Duration(cfg.Database.RetryBaseDelayMs) * time.Millisecond,
	})
	if err != nil {
		return nil, err
	}

	resultCache := cache.NewRedis(cache.Config{
		Enabled:  cfg.Redis.Enabled,
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	var notify notifier.TextNotifier = notifier.Noop{}
	if cfg.Notify.Telegram.Enabled {
		notify = notifier.NewTelegram(cfg.Notify.Telegram.BotToken, cfg.Notify.Telegram.ChatID)
	}

	source := binance.New(binance.Config{
		RESTBaseURL: cfg.Binance.RESTBaseURL,
		HTTPTimeout: time.Duration(cfg.Binance.HTTPTimeoutSeconds) * time.Second,
	})

	positions := position.NewService(ledger, notify, position.TakeProfitPercents{
		TP1: cfg.Strategy.TP1Percent,
		TP2: cfg.Strategy.TP2Percent,
		TP3: cfg.Strategy.TP3Percent,
	})

	scan := scanner.New(
		scanner.Config{
			Timeframes:   cfg.Scan.Timeframes,
			BarLimit:     cfg.Scan.BarLimit,
			CoinLimit:    cfg.Scan.CoinLimit,
			CycleEvery:   time.Duration(cfg.Scan.CycleIntervalSeconds) * time.Second,
			ErrorBackoff: time.Duration(cfg.Scan.ErrorBackoffSeconds) * time.Second,
			Pacing:       time.Duration(cfg.Scan.PacingMs) * time.Millisecond,
			Indicator: indicator.Settings{
				FastSMA:   cfg.Strategy.SMAFast,
				MediumSMA: cfg.Strategy.SMAMedium,
				SlowSMA:   cfg.Strategy.SMASlow,
				ATRPeriod: cfg.Strategy.SupertrendATR,
				Factor:    cfg.Strategy.SupertrendFactor,
			},
		},
		source,
		store.NewMemoryKlineStore(),
		ledger,
		positions,
		resultCache,
		notify,
	)

	views := view.NewService(ledger, resultCache,
		time.Duration(cfg.Redis.SignalTTLSeconds)*time.Second,
		time.Duration(cfg.Redis.PositionTTLSeconds)*time.Second,
	)

	server := transport.NewServer(cfg.App.HTTPAddr, views, scan)

	return &App{
		cfg:     cfg,
		store:   ledger,
		cache:   resultCache,
		scanner: scan,
		server:  server,
	}, nil
}

// Run starts the background scan loop and serves HTTP until ctx is cancelled.
func (a *App) Run(ctx context.Context) error {
	go a.scanner.Run(ctx)

	err := a.server.Run(ctx)

	if cerr := a.store.Close(); cerr != nil {
		logger.Warnf("app: closing store failed: %v", cerr)
	}
	if cerr := a.cache.Close(); cerr != nil {
		logger.Warnf("app: closing cache failed: %v", cerr)
	}
	return err
}
