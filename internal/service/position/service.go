package position

import (
	"context"
	"fmt"
	"strings"
	"time"

	"trendscan/internal/gateway/notifier"
	"trendscan/internal/logger"
	"trendscan/internal/store/model"
)

// Ledger is the slice of the persistent store the lifecycle manager needs.
type Ledger interface {
	CreatePosition(ctx context.Context, p *model.PositionModel) error
	OpenPositions(ctx context.Context, symbol, timeframe string) ([]model.PositionModel, error)
	ClosePosition(ctx context.Context, id int64, exitPrice float64, reason string) (bool, error)
}

// TakeProfitPercents is the ladder of exit offsets above entry, ascending.
type TakeProfitPercents struct {
	TP1 float64
	TP2 float64
	TP3 float64
}

func (t TakeProfitPercents) withDefaults() TakeProfitPercents {
	if t.TP1 <= 0 {
		t.TP1 = 0.01
	}
	if t.TP2 <= 0 {
		t.TP2 = 0.02
	}
	if t.TP3 <= 0 {
		t.TP3 = 0.03
	}
	return t
}

// Service drives the position lifecycle: open on BUY, close on threshold
// breach or opposing SELL. Terminal once closed, no reopening.
type Service struct {
	ledger Ledger
	notify notifier.TextNotifier
	tp     TakeProfitPercents
}

func NewService(ledger Ledger, notify notifier.TextNotifier, tp TakeProfitPercents) *Service {
	if notify == nil {
		notify = notifier.Noop{}
	}
	return &Service{ledger: ledger, notify: notify, tp: tp.withDefaults()}
}

// Open creates a new position with the trend line as dynamic stop and a fixed
// percentage take-profit ladder. The order number is allocated inside the
// ledger transaction.
func (s *Service) Open(ctx context.Context, symbol string, price, stopLevel float64, timeframe string) (*model.PositionModel, error) {
	if price <= 0 {
		return nil, fmt.Errorf("entry price must be positive, got %v", price)
	}
	if stopLevel > price {
		return nil, fmt.Errorf("stop level %.4f above entry %.4f", stopLevel, price)
	}
	p := &model.PositionModel{
		Symbol:      symbol,
		EntryPrice:  price,
		StopLoss:    stopLevel,
		TakeProfit1: price * (1 + s.tp.TP1),
		TakeProfit2: price * (1 + s.tp.TP2),
		TakeProfit3: price * (1 + s.tp.TP3),
		Timeframe:   timeframe,
	}
	if err := s.ledger.CreatePosition(ctx, p); err != nil {
		return nil, err
	}
	s.send(fmt.Sprintf(
		"🚀 *Order Entry*\nOrder #: %d\nCoin: %s\nEntry Price: %.4f\nSL (Supertrend): %.4f\nTP1: %.4f\nTP2: %.4f\nTP3: %.4f\nTimeframe: %s",
		p.OrderNumber, symbol, price, stopLevel, p.TakeProfit1, p.TakeProfit2, p.TakeProfit3, timeframe,
	))
	logger.Infof("position: opened %s order #%d entry=%.4f sl=%.4f tf=%s",
		symbol, p.OrderNumber, price, stopLevel, timeframe)
	return p, nil
}

// EvaluateExits applies the threshold checks to every open position on the
// symbol/timeframe. Priority is fixed: stop-loss first, then the take-profit
// tiers highest first, so a gap through several tiers credits the furthest
// tier reached. At most one exit per position per call; the exit price is the
// breached level, not the observed tick.
func (s *Service) EvaluateExits(ctx context.Context, symbol string, currentPrice float64, timeframe string) error {
	if currentPrice <= 0 {
		return nil
	}
	open, err := s.ledger.OpenPositions(ctx, symbol, timeframe)
	if err != nil {
		return err
	}
	for _, p := range open {
		exitPrice, reason := exitThreshold(p, currentPrice)
		if reason == "" {
			continue
		}
		closed, err := s.ledger.ClosePosition(ctx, p.ID, exitPrice, reason)
		if err != nil {
			return err
		}
		if !closed {
			// lost the race to a concurrent close; nothing to report
			continue
		}
		s.notifyExit(p, exitPrice, reason)
	}
	return nil
}

// CloseOnOpposingSignal force-closes every open position on the symbol at the
// signal price, regardless of threshold state. A SELL overrides the ladder.
func (s *Service) CloseOnOpposingSignal(ctx context.Context, symbol string, exitPrice float64, timeframe string) error {
	open, err := s.ledger.OpenPositions(ctx, symbol, timeframe)
	if err != nil {
		return err
	}
	for _, p := range open {
		closed, err := s.ledger.ClosePosition(ctx, p.ID, exitPrice, model.ExitReasonSellSignal)
		if err != nil {
			return err
		}
		if !closed {
			continue
		}
		s.notifyExit(p, exitPrice, model.ExitReasonSellSignal)
	}
	return nil
}

// exitThreshold picks the exit level the current price has reached, if any.
func exitThreshold(p model.PositionModel, price float64) (float64, string) {
	switch {
	case price <= p.StopLoss:
		return p.StopLoss, model.ExitReasonStopLoss
	case price >= p.TakeProfit3:
		return p.TakeProfit3, model.ExitReasonTP3
	case price >= p.TakeProfit2:
		return p.TakeProfit2, model.ExitReasonTP2
	case price >= p.TakeProfit1:
		return p.TakeProfit1, model.ExitReasonTP1
	}
	return 0, ""
}

func (s *Service) notifyExit(p model.PositionModel, exitPrice float64, reason string) {
	pnl := exitPrice - p.EntryPrice
	pnlPct := 0.0
	if p.EntryPrice > 0 {
		pnlPct = pnl / p.EntryPrice * 100
	}
	s.send(fmt.Sprintf(
		"📉 *Order Exit*\nOrder #: %d\nCoin: %s\nEntry Price: %.4f\nExit Price: %.4f\nReason: %s\nP/L: %.4f (%.2f%%)\nTimestamp: %s",
		p.OrderNumber, p.Symbol, p.EntryPrice, exitPrice, strings.ToUpper(reason), pnl, pnlPct,
		time.Now().UTC().Format("2006-01-02 15:04:05"),
	))
	logger.Infof("position: closed %s order #%d exit=%.4f reason=%s pnl=%.4f",
		p.Symbol, p.OrderNumber, exitPrice, reason, pnl)
}

func (s *Service) send(text string) {
	if err := s.notify.SendText(text); err != nil {
		logger.Warnf("position: notification failed: %v", err)
	}
}
