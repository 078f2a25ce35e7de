package sqlite

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trendscan/internal/store/model"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(filepath.Join(t.TempDir(), "test.db"), Options{})
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestNewRejectsEmptyPath(t *testing.T) {
	_, err := New("   ", Options{})
	assert.Error(t, err)
}

func TestSignalRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		sig := &model.SignalModel{
			Symbol:    fmt.Sprintf("COIN%dUSDT", i),
			Kind:      model.SignalBuy,
			Price:     100 + float64(i),
			Strength:  model.StrengthNormal,
			StopLevel: 95,
			Timeframe: "5m",
			CreatedAt: time.Date(2025, 1, 1, 0, i, 0, 0, time.UTC),
		}
		require.NoError(t, s.InsertSignal(ctx, sig))
	}

	got, err := s.LatestSignals(ctx, 2)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "COIN2USDT", got[0].Symbol, "newest first")
	assert.Equal(t, "COIN1USDT", got[1].Symbol)
}

func TestCreatePositionAllocatesSequentialOrderNumbers(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	const workers = 8
	var wg sync.WaitGroup
	errs := make([]error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = s.CreatePosition(ctx, &model.PositionModel{
				Symbol:     fmt.Sprintf("COIN%dUSDT", i),
				EntryPrice: 100,
				StopLoss:   95,
				Timeframe:  "5m",
			})
		}(i)
	}
	wg.Wait()
	for i, err := range errs {
		require.NoErrorf(t, err, "worker %d", i)
	}

	open, err := s.ListOpen(ctx)
	require.NoError(t, err)
	require.Len(t, open, workers)

	seen := make(map[int64]bool, workers)
	for _, p := range open {
		seen[p.OrderNumber] = true
	}
	for n := int64(1); n <= workers; n++ {
		assert.Truef(t, seen[n], "order number %d must be allocated exactly once", n)
	}
}

func TestClosePositionIsSingleShot(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	p := &model.PositionModel{Symbol: "BTCUSDT", EntryPrice: 100, StopLoss: 95, Timeframe: "5m"}
	require.NoError(t, s.CreatePosition(ctx, p))

	closed, err := s.ClosePosition(ctx, p.ID, 103, model.ExitReasonTP3)
	require.NoError(t, err)
	assert.True(t, closed)

	// second close loses the status guard and updates nothing
	closed, err = s.ClosePosition(ctx, p.ID, 97, model.ExitReasonStopLoss)
	require.NoError(t, err)
	assert.False(t, closed)

	history, err := s.ListHistory(ctx)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, 103.0, history[0].ExitPrice, "first close wins")
	assert.Equal(t, model.ExitReasonTP3, history[0].ExitReason)
	require.NotNil(t, history[0].ExitAt)

	open, err := s.ListOpen(ctx)
	require.NoError(t, err)
	assert.Empty(t, open)
}

func TestOpenPositionsFiltersSymbolAndTimeframe(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.CreatePosition(ctx, &model.PositionModel{Symbol: "BTCUSDT", EntryPrice: 100, Timeframe: "5m"}))
	require.NoError(t, s.CreatePosition(ctx, &model.PositionModel{Symbol: "BTCUSDT", EntryPrice: 100, Timeframe: "1h"}))
	require.NoError(t, s.CreatePosition(ctx, &model.PositionModel{Symbol: "ETHUSDT", EntryPrice: 100, Timeframe: "5m"}))

	got, err := s.OpenPositions(ctx, "BTCUSDT", "5m")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "BTCUSDT", got[0].Symbol)
	assert.Equal(t, "5m", got[0].Timeframe)
}

func TestScannedUniverseRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.InsertScanned(ctx, nil), "empty batch is a no-op")
	require.NoError(t, s.InsertScanned(ctx, []string{"BTCUSDT", "ETHUSDT"}))

	got, err := s.ScannedUniverse(ctx, 10)
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestWithRetryExhaustionReturnsErrUnavailable(t *testing.T) {
	var slept []time.Duration
	s := &Store{
		attempts:  3,
		baseDelay: 100 * time.Millisecond,
		sleep:     func(d time.Duration) { slept = append(slept, d) },
	}

	calls := 0
	err := s.withRetry("test op", func() error {
		calls++
		return errors.New("database is locked")
	})

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnavailable))
	assert.Equal(t, 3, calls)
	assert.Equal(t, []time.Duration{100 * time.Millisecond, 200 * time.Millisecond}, slept, "delay doubles between attempts")
}

func TestWithRetryPassesThroughNonContentionErrors(t *testing.T) {
	s := &Store{attempts: 3, baseDelay: time.Millisecond, sleep: func(time.Duration) {}}

	boom := errors.New("constraint failed")
	calls := 0
	err := s.withRetry("test op", func() error {
		calls++
		return boom
	})

	assert.Equal(t, boom, err)
	assert.Equal(t, 1, calls, "non-contention errors never retry")
	assert.False(t, errors.Is(err, ErrUnavailable))
}

func TestWithRetryRecoversMidway(t *testing.T) {
	s := &Store{attempts: 3, baseDelay: time.Millisecond, sleep: func(time.Duration) {}}

	calls := 0
	err := s.withRetry("test op", func() error {
		calls++
		if calls < 2 {
			return errors.New("database table is locked")
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 2, calls)
}

func TestIsContention(t *testing.T) {
	assert.True(t, isContention(errors.New("database is locked (5) (SQLITE_BUSY)")))
	assert.True(t, isContention(errors.New("database table is locked")))
	assert.True(t, isContention(errors.New("SQLITE_BUSY: busy")))
	assert.False(t, isContention(errors.New("UNIQUE constraint failed")))
	assert.False(t, isContention(nil))
}
