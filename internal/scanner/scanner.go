package scanner

import (
	"context"
	"fmt"
	"time"

	"trendscan/internal/analysis/indicator"
	"trendscan/internal/gateway/cache"
	"trendscan/internal/gateway/notifier"
	"trendscan/internal/logger"
	"trendscan/internal/market"
	"trendscan/internal/scheduler"
	"trendscan/internal/store/model"
)

// Positions is the lifecycle manager slice the scanner drives.
type Positions interface {
	Open(ctx context.Context, symbol string, price, stopLevel float64, timeframe string) (*model.PositionModel, error)
	EvaluateExits(ctx context.Context, symbol string, currentPrice float64, timeframe string) error
	CloseOnOpposingSignal(ctx context.Context, symbol string, exitPrice float64, timeframe string) error
}

// Ledger is the persistence slice the scanner writes to directly.
type Ledger interface {
	InsertSignal(ctx context.Context, sig *model.SignalModel) error
	InsertScanned(ctx context.Context, symbols []string) error
}

// Invalidator drops derived cache views after a cycle mutates the ledger.
type Invalidator interface {
	Invalidate(ctx context.Context, keys ...string)
}

// Config tunes the scan loop.
type Config struct {
	Timeframes   []string
	BarLimit     int
	CoinLimit    int
	CycleEvery   time.Duration
	ErrorBackoff time.Duration
	Pacing       time.Duration
	Indicator    indicator.Settings
}

func (c Config) withDefaults() Config {
	if len(c.Timeframes) == 0 {
		c.Timeframes = []string{"5m"}
	}
	if c.BarLimit <= 0 {
		c.BarLimit = 200
	}
	if c.CoinLimit <= 0 {
		c.CoinLimit = 30
	}
	if c.CycleEvery <= 0 {
		c.CycleEvery = 300 * time.Second
	}
	if c.ErrorBackoff <= 0 {
		c.ErrorBackoff = 60 * time.Second
	}
	if c.Pacing <= 0 {
		c.Pacing = 50 * time.Millisecond
	}
	return c
}

// Scanner owns the background scan cycle: select universe, fetch bars,
// evaluate signals, update positions, persist, invalidate cached views,
// sleep, repeat. It holds no shared mutable state beyond the injected
// collaborators and is cancelled through its context.
type Scanner struct {
	cfg       Config
	source    market.Source
	klines    market.KlineStore
	ledger    Ledger
	positions Positions
	views     Invalidator
	notify    notifier.TextNotifier
	sleep     func(time.Duration)
}

func New(cfg Config, source market.Source, klines market.KlineStore, ledger Ledger, positions Positions, views Invalidator, notify notifier.TextNotifier) *Scanner {
	if notify == nil {
		notify = notifier.Noop{}
	}
	return &Scanner{
		cfg:       cfg.withDefaults(),
		source:    source,
		klines:    klines,
		ledger:    ledger,
		positions: positions,
		views:     views,
		notify:    notify,
		sleep:     time.Sleep,
	}
}

// Run loops until ctx is cancelled. A failed cycle sleeps the shorter error
// backoff instead of the full interval before retrying.
func (s *Scanner) Run(ctx context.Context) {
	logger.Infof("scanner: started timeframes=%v coins=%d interval=%s",
		s.cfg.Timeframes, s.cfg.CoinLimit, s.cfg.CycleEvery)
	for {
		wait := s.cfg.CycleEvery
		if err := s.RunOnce(ctx); err != nil {
			logger.Errorf("scanner: cycle failed: %v", err)
			wait = s.cfg.ErrorBackoff
		}
		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			logger.Infof("scanner: stopped")
			return
		case <-timer.C:
		}
	}
}

// RunOnce executes a single full scan cycle. Per-symbol failures are logged
// and skipped; only universe selection or persistence failures abort the
// cycle.
func (s *Scanner) RunOnce(ctx context.Context) error {
	tickers, err := s.source.TopVolumeSymbols(ctx, s.cfg.CoinLimit)
	if err != nil {
		return fmt.Errorf("fetching universe: %w", err)
	}
	if len(tickers) == 0 {
		return fmt.Errorf("universe is empty")
	}
	symbols := make([]string, 0, len(tickers))
	for _, t := range tickers {
		symbols = append(symbols, t.Symbol)
	}
	if err := s.ledger.InsertScanned(ctx, symbols); err != nil {
		return fmt.Errorf("recording scanned universe: %w", err)
	}
	logger.Infof("scanner: evaluating %d symbols", len(symbols))

	for _, sym := range symbols {
		for _, tf := range s.cfg.Timeframes {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if err := s.evaluateSymbol(ctx, sym, tf); err != nil {
				logger.Errorf("scanner: %s %s failed: %v", sym, tf, err)
				continue
			}
			s.sleep(s.cfg.Pacing)
		}
	}

	if s.views != nil {
		s.views.Invalidate(ctx,
			cache.KeySignalsBuy,
			cache.KeySignalsSell,
			cache.KeyScannedCoins,
			cache.KeyPositionsOpen,
			cache.KeyPositionsHistory,
		)
	}
	return nil
}

func (s *Scanner) evaluateSymbol(ctx context.Context, symbol, timeframe string) error {
	bars, err := s.freshBars(ctx, symbol, timeframe)
	if err != nil {
		return err
	}
	v := indicator.Evaluate(bars, s.cfg.Indicator)

	// exits are checked on every cycle, signal or not
	if err := s.positions.EvaluateExits(ctx, symbol, v.Price, timeframe); err != nil {
		return err
	}

	switch v.Signal {
	case indicator.SignalBuy:
		if _, err := s.positions.Open(ctx, symbol, v.Price, v.Stop, timeframe); err != nil {
			return err
		}
		s.send(fmt.Sprintf("📈 *BUY Signal (%s)*\nCoin: %s\nPrice: %.4f\nStrength: %s\nStop Loss: %.4f",
			timeframe, symbol, v.Price, v.Strength, v.Stop))
	case indicator.SignalSell:
		if err := s.positions.CloseOnOpposingSignal(ctx, symbol, v.Price, timeframe); err != nil {
			return err
		}
		s.send(fmt.Sprintf("📉 *SELL Signal (%s)*\nCoin: %s\nPrice: %.4f\nStrength: %s\nStop Loss: %.4f",
			timeframe, symbol, v.Price, v.Strength, v.Stop))
	default:
		return nil
	}

	return s.ledger.InsertSignal(ctx, &model.SignalModel{
		Symbol:    symbol,
		Kind:      model.SignalKind(v.Signal),
		Price:     v.Price,
		Strength:  model.SignalStrength(v.Strength),
		StopLevel: v.Stop,
		Timeframe: timeframe,
	})
}

// freshBars serves the local bar cache when its tail is still current and
// falls back to a live fetch (refreshing the cache) otherwise.
func (s *Scanner) freshBars(ctx context.Context, symbol, timeframe string) ([]market.Candle, error) {
	cached, err := s.klines.Get(ctx, symbol, timeframe)
	if err == nil && len(cached) >= 3 && !s.stale(cached, timeframe) {
		return cached, nil
	}
	bars, err := s.source.FetchHistory(ctx, symbol, timeframe, s.cfg.BarLimit)
	if err != nil {
		return nil, fmt.Errorf("fetching bars: %w", err)
	}
	if len(bars) > 0 {
		if err := s.klines.Set(ctx, symbol, timeframe, bars); err != nil {
			logger.Warnf("scanner: caching bars for %s %s failed: %v", symbol, timeframe, err)
		}
	}
	return bars, nil
}

// stale reports whether the cached tail bar has aged past one interval.
func (s *Scanner) stale(bars []market.Candle, timeframe string) bool {
	dur, ok := scheduler.ParseIntervalDuration(timeframe)
	if !ok {
		return true
	}
	last := bars[len(bars)-1]
	closeAt := time.UnixMilli(last.CloseTime)
	return time.Since(closeAt) > dur
}

func (s *Scanner) send(text string) {
	if err := s.notify.SendText(text); err != nil {
		logger.Warnf("scanner: notification failed: %v", err)
	}
}
