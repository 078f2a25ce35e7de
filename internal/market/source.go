package market

import "context"

// TickerVolume is one entry of the volume-ranked universe snapshot.
type TickerVolume struct {
	Symbol      string  `json:"symbol"`
	QuoteVolume float64 `json:"quote_volume"`
}

// Source supplies OHLCV history and the volume-ranked symbol universe.
type Source interface {
	FetchHistory(ctx context.Context, symbol, interval string, limit int) ([]Candle, error)

	TopVolumeSymbols(ctx context.Context, limit int) ([]TickerVolume, error)
}

// KlineStore is the local bar cache consulted before a live fetch.
type KlineStore interface {
	Get(ctx context.Context, symbol, interval string) ([]Candle, error)
	Set(ctx context.Context, symbol, interval string, klines []Candle) error
}
