package view

import (
	"context"
	"fmt"
	"time"

	"trendscan/internal/gateway/cache"
	"trendscan/internal/store/model"
)

// Cache is the TTL snapshot store the views consult before the ledger.
// Absence is a valid state, never an error.
type Cache interface {
	Get(ctx context.Context, key string, dest any) bool
	Put(ctx context.Context, key string, value any, ttl time.Duration)
}

// Ledger is the authoritative fallback for every view.
type Ledger interface {
	LatestSignals(ctx context.Context, limit int) ([]model.SignalModel, error)
	ListOpen(ctx context.Context) ([]model.PositionModel, error)
	ListHistory(ctx context.Context) ([]model.PositionModel, error)
	ScannedUniverse(ctx context.Context, limit int) ([]model.ScannedSymbolModel, error)
}

// SignalView is one rendered row of the latest-signals table.
type SignalView struct {
	Coin      string `json:"coin"`
	Price     string `json:"price"`
	Strength  string `json:"strength"`
	StopLevel string `json:"st_level"`
	Timeframe string `json:"timeframe"`
	TimeAgo   string `json:"time_ago"`
}

// OpenPositionView is one rendered open-position row.
type OpenPositionView struct {
	OrderNumber int64   `json:"order_number"`
	Coin        string  `json:"coin"`
	EntryPrice  float64 `json:"entry_price"`
	StopLoss    float64 `json:"sl"`
	TakeProfit1 float64 `json:"tp1"`
	TakeProfit2 float64 `json:"tp2"`
	TakeProfit3 float64 `json:"tp3"`
	Timeframe   string  `json:"timeframe"`
	TimeAgo     string  `json:"time_ago"`
	Duration    string  `json:"duration"`
}

// HistoryView is one rendered closed-position row.
type HistoryView struct {
	OrderNumber int64   `json:"order_number"`
	Coin        string  `json:"coin"`
	EntryPrice  float64 `json:"entry_price"`
	ExitPrice   float64 `json:"exit_price"`
	ExitReason  string  `json:"exit_reason"`
	Timeframe   string  `json:"timeframe"`
	TimeAgoIn   string  `json:"time_ago_entry"`
	TimeAgoOut  string  `json:"time_ago_exit"`
	Duration    string  `json:"duration"`
}

const signalListLimit = 50

// Service serves the derived read views: cache first, ledger fallback, cache
// repopulated on miss. Bounded staleness up to the view TTL is accepted.
type Service struct {
	ledger      Ledger
	cache       Cache
	signalTTL   time.Duration
	positionTTL time.Duration
	nowFn       func() time.Time
}

func NewService(ledger Ledger, c Cache, signalTTL, positionTTL time.Duration) *Service {
	if signalTTL <= 0 {
		signalTTL = 300 * time.Second
	}
	if positionTTL <= 0 {
		positionTTL = 60 * time.Second
	}
	return &Service{
		ledger:      ledger,
		cache:       c,
		signalTTL:   signalTTL,
		positionTTL: positionTTL,
		nowFn:       time.Now,
	}
}

// LatestSignals returns the rendered signal rows for one kind. One ledger
// query refreshes both the buy and sell snapshots.
func (s *Service) LatestSignals(ctx context.Context, kind model.SignalKind) ([]SignalView, error) {
	key := cache.KeySignalsBuy
	if kind == model.SignalSell {
		key = cache.KeySignalsSell
	}
	var cached []SignalView
	if s.cache.Get(ctx, key, &cached) {
		return cached, nil
	}
	rows, err := s.ledger.LatestSignals(ctx, signalListLimit)
	if err != nil {
		return nil, err
	}
	buy := make([]SignalView, 0)
	sell := make([]SignalView, 0)
	for _, row := range rows {
		v := SignalView{
			Coin:      row.Symbol,
			Price:     fmt.Sprintf("%.4f", row.Price),
			Strength:  string(row.Strength),
			StopLevel: fmt.Sprintf("%.4f", row.StopLevel),
			Timeframe: row.Timeframe,
			TimeAgo:   timeAgo(s.nowFn(), row.CreatedAt),
		}
		if row.Kind == model.SignalBuy {
			buy = append(buy, v)
		} else {
			sell = append(sell, v)
		}
	}
	s.cache.Put(ctx, cache.KeySignalsBuy, buy, s.signalTTL)
	s.cache.Put(ctx, cache.KeySignalsSell, sell, s.signalTTL)
	if kind == model.SignalSell {
		return sell, nil
	}
	return buy, nil
}

func (s *Service) OpenPositions(ctx context.Context) ([]OpenPositionView, error) {
	var cached []OpenPositionView
	if s.cache.Get(ctx, cache.KeyPositionsOpen, &cached) {
		return cached, nil
	}
	rows, err := s.ledger.ListOpen(ctx)
	if err != nil {
		return nil, err
	}
	now := s.nowFn()
	out := make([]OpenPositionView, 0, len(rows))
	for _, row := range rows {
		out = append(out, OpenPositionView{
			OrderNumber: row.OrderNumber,
			Coin:        row.Symbol,
			EntryPrice:  row.EntryPrice,
			StopLoss:    row.StopLoss,
			TakeProfit1: row.TakeProfit1,
			TakeProfit2: row.TakeProfit2,
			TakeProfit3: row.TakeProfit3,
			Timeframe:   row.Timeframe,
			TimeAgo:     timeAgo(now, row.EntryAt),
			Duration:    duration(row.EntryAt, now),
		})
	}
	s.cache.Put(ctx, cache.KeyPositionsOpen, out, s.positionTTL)
	return out, nil
}

func (s *Service) PositionHistory(ctx context.Context) ([]HistoryView, error) {
	var cached []HistoryView
	if s.cache.Get(ctx, cache.KeyPositionsHistory, &cached) {
		return cached, nil
	}
	rows, err := s.ledger.ListHistory(ctx)
	if err != nil {
		return nil, err
	}
	now := s.nowFn()
	out := make([]HistoryView, 0, len(rows))
	for _, row := range rows {
		exitAt := now
		timeAgoOut := ""
		if row.ExitAt != nil {
			exitAt = *row.ExitAt
			timeAgoOut = timeAgo(now, exitAt)
		}
		out = append(out, HistoryView{
			OrderNumber: row.OrderNumber,
			Coin:        row.Symbol,
			EntryPrice:  row.EntryPrice,
			ExitPrice:   row.ExitPrice,
			ExitReason:  row.ExitReason,
			Timeframe:   row.Timeframe,
			TimeAgoIn:   timeAgo(now, row.EntryAt),
			TimeAgoOut:  timeAgoOut,
			Duration:    duration(row.EntryAt, exitAt),
		})
	}
	s.cache.Put(ctx, cache.KeyPositionsHistory, out, s.positionTTL)
	return out, nil
}

func (s *Service) ScannedUniverse(ctx context.Context) ([]string, error) {
	var cached []string
	if s.cache.Get(ctx, cache.KeyScannedCoins, &cached) {
		return cached, nil
	}
	rows, err := s.ledger.ScannedUniverse(ctx, signalListLimit)
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.Symbol)
	}
	s.cache.Put(ctx, cache.KeyScannedCoins, out, s.signalTTL)
	return out, nil
}

func timeAgo(now, ts time.Time) string {
	diff := now.Sub(ts)
	switch {
	case diff >= 24*time.Hour:
		return fmt.Sprintf("%d days ago", int(diff.Hours())/24)
	case diff >= time.Hour:
		return fmt.Sprintf("%d hours ago", int(diff.Hours()))
	case diff >= time.Minute:
		return fmt.Sprintf("%d minutes ago", int(diff.Minutes()))
	default:
		return "Just now"
	}
}

func duration(start, end time.Time) string {
	diff := end.Sub(start)
	if diff < 0 {
		diff = 0
	}
	days := int(diff.Hours()) / 24
	hours := int(diff.Hours()) % 24
	minutes := int(diff.Minutes()) % 60
	switch {
	case days > 0:
		return fmt.Sprintf("%dd %dh", days, hours)
	case hours > 0:
		return fmt.Sprintf("%dh %dm", hours, minutes)
	default:
		return fmt.Sprintf("%dm", minutes)
	}
}
