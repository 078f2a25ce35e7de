package model

import "time"

type SignalKind string

const (
	SignalBuy  SignalKind = "BUY"
	SignalSell SignalKind = "SELL"
)

type SignalStrength string

const (
	StrengthNormal SignalStrength = "NORMAL"
	StrengthStrong SignalStrength = "STRONG"
)

type PositionStatus string

const (
	PositionOpen   PositionStatus = "open"
	PositionClosed PositionStatus = "closed"
)

// ExitReason values written on close. A position closes exactly once.
const (
	ExitReasonStopLoss   = "sl"
	ExitReasonTP1        = "tp1"
	ExitReasonTP2        = "tp2"
	ExitReasonTP3        = "tp3"
	ExitReasonSellSignal = "sell_signal"
)

// SignalModel is an append-only signal fact. Rows are never mutated.
type SignalModel struct {
	ID        int64          `gorm:"column:id;primaryKey"`
	Symbol    string         `gorm:"column:symbol;index"`
	Kind      SignalKind     `gorm:"column:kind"`
	Price     float64        `gorm:"column:price"`
	Strength  SignalStrength `gorm:"column:strength"`
	StopLevel float64        `gorm:"column:stop_level"`
	Timeframe string         `gorm:"column:timeframe"`
	CreatedAt time.Time      `gorm:"column:created_at;index"`
}

func (SignalModel) TableName() string { return "signals" }

// PositionModel tracks one synthetic trade from entry to close.
// OrderNumber is allocated inside the same transaction that inserts the row.
type PositionModel struct {
	ID          int64          `gorm:"column:id;primaryKey"`
	OrderNumber int64          `gorm:"column:order_number;uniqueIndex"`
	Symbol      string         `gorm:"column:symbol;index"`
	EntryPrice  float64        `gorm:"column:entry_price"`
	StopLoss    float64        `gorm:"column:stop_loss"`
	TakeProfit1 float64        `gorm:"column:tp1"`
	TakeProfit2 float64        `gorm:"column:tp2"`
	TakeProfit3 float64        `gorm:"column:tp3"`
	Status      PositionStatus `gorm:"column:status;index"`
	ExitPrice   float64        `gorm:"column:exit_price"`
	ExitReason  string         `gorm:"column:exit_reason"`
	Timeframe   string         `gorm:"column:timeframe"`
	EntryAt     time.Time      `gorm:"column:entry_at"`
	ExitAt      *time.Time     `gorm:"column:exit_at"`
}

func (PositionModel) TableName() string { return "positions" }

// ScannedSymbolModel records universe membership per scan cycle.
// Audit trail only, never used for control flow.
type ScannedSymbolModel struct {
	ID        int64     `gorm:"column:id;primaryKey"`
	Symbol    string    `gorm:"column:symbol"`
	CreatedAt time.Time `gorm:"column:created_at;index"`
}

func (ScannedSymbolModel) TableName() string { return "scanned_coins" }
