package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trendscan/internal/service/view"
	"trendscan/internal/store/model"
	"trendscan/internal/store/sqlite"
)

type fakeViews struct {
	signals []view.SignalView
	open    []view.OpenPositionView
	history []view.HistoryView
	scanned []string
	err     error
}

func (f *fakeViews) LatestSignals(context.Context, model.SignalKind) ([]view.SignalView, error) {
	return f.signals, f.err
}

func (f *fakeViews) OpenPositions(context.Context) ([]view.OpenPositionView, error) {
	return f.open, f.err
}

func (f *fakeViews) PositionHistory(context.Context) ([]view.HistoryView, error) {
	return f.history, f.err
}

func (f *fakeViews) ScannedUniverse(context.Context) ([]string, error) {
	return f.scanned, f.err
}

type fakeScans struct {
	mu   sync.Mutex
	runs int
}

func (f *fakeScans) RunOnce(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.runs++
	return nil
}

func (f *fakeScans) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.runs
}

func doRequest(t *testing.T, srv *Server, method, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	w := httptest.NewRecorder()
	srv.router.ServeHTTP(w, req)
	return w
}

func TestHealthz(t *testing.T) {
	srv := NewServer(":0", &fakeViews{}, nil)
	w := doRequest(t, srv, http.MethodGet, "/healthz")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestSignalsEndpoint(t *testing.T) {
	views := &fakeViews{signals: []view.SignalView{{Coin: "BTCUSDT", Price: "65000.0000"}}}
	srv := NewServer(":0", views, nil)

	w := doRequest(t, srv, http.MethodGet, "/api/signals")
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Buy  []view.SignalView `json:"buy_signals"`
		Sell []view.SignalView `json:"sell_signals"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body.Buy, 1)
	assert.Equal(t, "BTCUSDT", body.Buy[0].Coin)
}

func TestPositionsEndpoints(t *testing.T) {
	views := &fakeViews{
		open:    []view.OpenPositionView{{OrderNumber: 1, Coin: "BTCUSDT"}},
		history: []view.HistoryView{{OrderNumber: 2, Coin: "ETHUSDT", ExitReason: model.ExitReasonTP1}},
		scanned: []string{"BTCUSDT", "ETHUSDT"},
	}
	srv := NewServer(":0", views, nil)

	w := doRequest(t, srv, http.MethodGet, "/api/positions/open")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "open_positions")

	w = doRequest(t, srv, http.MethodGet, "/api/positions/history")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "order_history")

	w = doRequest(t, srv, http.MethodGet, "/api/scanned")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "scanned_coins")
}

func TestStorageUnavailableMapsTo503(t *testing.T) {
	views := &fakeViews{err: fmt.Errorf("%w: list open: timeout", sqlite.ErrUnavailable)}
	srv := NewServer(":0", views, nil)

	w := doRequest(t, srv, http.MethodGet, "/api/positions/open")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestOtherErrorsMapTo500(t *testing.T) {
	views := &fakeViews{err: errors.New("boom")}
	srv := NewServer(":0", views, nil)

	w := doRequest(t, srv, http.MethodGet, "/api/signals")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestScanTriggerIsAsync(t *testing.T) {
	scans := &fakeScans{}
	srv := NewServer(":0", &fakeViews{}, scans)

	w := doRequest(t, srv, http.MethodPost, "/api/scan")
	assert.Equal(t, http.StatusAccepted, w.Code)

	require.Eventually(t, func() bool { return scans.count() == 1 },
		time.Second, 10*time.Millisecond)
}

func TestScanRouteAbsentWithoutTrigger(t *testing.T) {
	srv := NewServer(":0", &fakeViews{}, nil)
	w := doRequest(t, srv, http.MethodPost, "/api/scan")
	assert.Equal(t, http.StatusNotFound, w.Code)
}
