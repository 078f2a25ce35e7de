package store

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trendscan/internal/market"
)

func TestMemoryKlineStoreRoundTrip(t *testing.T) {
	s := NewMemoryKlineStore()
	ctx := context.Background()

	in := []market.Candle{
		{OpenTime: 1, CloseTime: 2, Close: 100},
		{OpenTime: 2, CloseTime: 3, Close: 101},
	}
	require.NoError(t, s.Set(ctx, "BTCUSDT", "5m", in))

	got, err := s.Get(ctx, "BTCUSDT", "5m")
	require.NoError(t, err)
	assert.Equal(t, in, got)

	// keys are scoped per symbol and interval
	other, err := s.Get(ctx, "BTCUSDT", "1h")
	require.NoError(t, err)
	assert.Empty(t, other)
}

func TestMemoryKlineStoreCopiesOnBothSides(t *testing.T) {
	s := NewMemoryKlineStore()
	ctx := context.Background()

	in := []market.Candle{{OpenTime: 1, Close: 100}}
	require.NoError(t, s.Set(ctx, "BTCUSDT", "5m", in))
	in[0].Close = 999

	got, err := s.Get(ctx, "BTCUSDT", "5m")
	require.NoError(t, err)
	assert.Equal(t, 100.0, got[0].Close, "caller mutations must not leak in")

	got[0].Close = 888
	again, err := s.Get(ctx, "BTCUSDT", "5m")
	require.NoError(t, err)
	assert.Equal(t, 100.0, again[0].Close, "caller mutations must not leak out")
}

func TestMemoryKlineStoreRejectsEmptyKey(t *testing.T) {
	s := NewMemoryKlineStore()
	assert.Error(t, s.Set(context.Background(), "", "5m", nil))
	assert.Error(t, s.Set(context.Background(), "BTCUSDT", "", nil))
}

func TestMemoryKlineStoreConcurrentAccess(t *testing.T) {
	s := NewMemoryKlineStore()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			sym := fmt.Sprintf("COIN%dUSDT", i%4)
			for j := 0; j < 50; j++ {
				_ = s.Set(ctx, sym, "5m", []market.Candle{{OpenTime: int64(j)}})
				_, _ = s.Get(ctx, sym, "5m")
			}
		}(i)
	}
	wg.Wait()
}
