package indicator

import (
	"math"

	"github.com/markcheno/go-talib"

	"trendscan/internal/market"
)

type Signal string

const (
	SignalNone Signal = ""
	SignalBuy  Signal = "BUY"
	SignalSell Signal = "SELL"
)

type Strength string

const (
	StrengthNormal Strength = "NORMAL"
	StrengthStrong Strength = "STRONG"
)

// Settings holds the moving-average and trend-line parameters.
type Settings struct {
	FastSMA   int
	MediumSMA int
	SlowSMA   int
	ATRPeriod int
	Factor    float64
}

func (s Settings) withDefaults() Settings {
	if s.FastSMA <= 0 {
		s.FastSMA = 8
	}
	if s.MediumSMA <= 0 {
		s.MediumSMA = 9
	}
	if s.SlowSMA <= 0 {
		s.SlowSMA = 13
	}
	if s.ATRPeriod <= 0 {
		s.ATRPeriod = 11
	}
	if s.Factor <= 0 {
		s.Factor = 4
	}
	return s
}

// Verdict is the engine output. The zero value is the defined degenerate
// result for series too short to evaluate.
type Verdict struct {
	Signal   Signal
	Strength Strength
	Price    float64
	Stop     float64
}

// Evaluate maps an ordered bar series to at most one BUY/SELL verdict.
// Fewer than 3 bars is a defined degenerate case, never an error.
//
// The still-forming last bar is excluded: the crossover is read on the last
// two fully-closed bars (index -3 against -2 from the end).
func Evaluate(candles []market.Candle, cfg Settings) Verdict {
	if len(candles) < 3 {
		return Verdict{}
	}
	cfg = cfg.withDefaults()
	closes := make([]float64, len(candles))
	for i, c := range candles {
		closes[i] = c.Close
	}
	trend := Supertrend(candles, cfg.ATRPeriod, cfg.Factor)
	fast := talib.Sma(closes, cfg.FastSMA)
	medium := talib.Sma(closes, cfg.MediumSMA)
	slow := talib.Sma(closes, cfg.SlowSMA)
	return EvaluateSeries(closes, trend, fast, medium, slow)
}

// EvaluateSeries runs the crossover decision on prepared series. Exposed so
// the gating logic can be exercised against exact fixture values.
//
// The slow SMA gates the signal; strength compares the fast SMA against the
// medium one on the same bar.
func EvaluateSeries(closes, trend, fast, medium, slow []float64) Verdict {
	n := len(closes)
	if n < 3 || len(trend) != n || len(fast) != n || len(medium) != n || len(slow) != n {
		return Verdict{}
	}
	prior, prev := n-3, n-2
	out := Verdict{Price: closes[prev], Stop: trend[prev]}
	if !formed(trend[prior]) || !formed(trend[prev]) || !formed(slow[prev]) {
		// warmup not complete: price still reported for exit evaluation
		return out
	}

	crossover := closes[prior] < trend[prior] && closes[prev] > trend[prev]
	crossunder := closes[prior] > trend[prior] && closes[prev] < trend[prev]
	switch {
	case crossover && closes[prev] >= slow[prev]:
		out.Signal = SignalBuy
		out.Strength = StrengthNormal
		if formed(fast[prev]) && formed(medium[prev]) && fast[prev] < medium[prev] {
			out.Strength = StrengthStrong
		}
	case crossunder && closes[prev] <= slow[prev]:
		out.Signal = SignalSell
		out.Strength = StrengthNormal
		if formed(fast[prev]) && formed(medium[prev]) && fast[prev] > medium[prev] {
			out.Strength = StrengthStrong
		}
	}
	return out
}

// formed reports whether a series value is past its warmup window.
// TALib seeds unformed values with 0; NaN guards crafted inputs.
func formed(v float64) bool {
	return v != 0 && !math.IsNaN(v)
}
