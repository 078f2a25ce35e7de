package indicator

import (
	"github.com/markcheno/go-talib"

	"trendscan/internal/market"
)

// Supertrend computes the ATR-banded trailing trend line. The line rides the
// lower band while price holds above it and flips to the upper band when a
// close crosses through, so it doubles as a dynamic stop level.
//
// Warmup values (the first `period` bars, where ATR is not yet formed) are
// reported as 0 and treated as unavailable by the signal evaluation.
func Supertrend(candles []market.Candle, period int, factor float64) []float64 {
	n := len(candles)
	if n == 0 {
		return nil
	}
	if period <= 0 {
		period = 11
	}
	if factor <= 0 {
		factor = 4
	}
	highs := make([]float64, n)
	lows := make([]float64, n)
	closes := make([]float64, n)
	for i, c := range candles {
		highs[i] = c.High
		lows[i] = c.Low
		closes[i] = c.Close
	}
	atr := talib.Atr(highs, lows, closes, period)

	st := make([]float64, n)
	upper := make([]float64, n)
	lower := make([]float64, n)
	uptrend := true
	for i := 0; i < n; i++ {
		if i < period || atr[i] == 0 {
			continue
		}
		hl2 := (highs[i] + lows[i]) / 2
		ub := hl2 + factor*atr[i]
		lb := hl2 - factor*atr[i]

		if upper[i-1] == 0 && lower[i-1] == 0 {
			// first formed bar seeds the bands
			upper[i] = ub
			lower[i] = lb
			uptrend = closes[i] >= hl2
		} else {
			// bands only tighten unless the prior close already broke them
			if ub < upper[i-1] || closes[i-1] > upper[i-1] {
				upper[i] = ub
			} else {
				upper[i] = upper[i-1]
			}
			if lb > lower[i-1] || closes[i-1] < lower[i-1] {
				lower[i] = lb
			} else {
				lower[i] = lower[i-1]
			}
			if uptrend {
				uptrend = closes[i] >= lower[i]
			} else {
				uptrend = closes[i] > upper[i]
			}
		}

		if uptrend {
			st[i] = lower[i]
		} else {
			st[i] = upper[i]
		}
	}
	return st
}
