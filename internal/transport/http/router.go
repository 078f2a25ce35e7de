package http

import (
	"context"
	"errors"
	"net/http"

	"trendscan/internal/logger"
	"trendscan/internal/service/view"
	"trendscan/internal/store/model"
	"trendscan/internal/store/sqlite"

	"github.com/gin-gonic/gin"
)

// Views is the read-side surface backing the API.
type Views interface {
	LatestSignals(ctx context.Context, kind model.SignalKind) ([]view.SignalView, error)
	OpenPositions(ctx context.Context) ([]view.OpenPositionView, error)
	PositionHistory(ctx context.Context) ([]view.HistoryView, error)
	ScannedUniverse(ctx context.Context) ([]string, error)
}

// ScanTrigger runs one full scan cycle on demand.
type ScanTrigger interface {
	RunOnce(ctx context.Context) error
}

type router struct {
	views Views
	scans ScanTrigger
}

func newRouter(views Views, scans ScanTrigger) *router {
	return &router{views: views, scans: scans}
}

func (r *router) register(group *gin.RouterGroup) {
	group.GET("/signals", r.handleSignals)
	group.GET("/positions/open", r.handleOpenPositions)
	group.GET("/positions/history", r.handlePositionHistory)
	group.GET("/scanned", r.handleScanned)
	if r.scans != nil {
		group.POST("/scan", r.handleScan)
	}
}

func (r *router) handleSignals(c *gin.Context) {
	buy, err := r.views.LatestSignals(c.Request.Context(), model.SignalBuy)
	if err != nil {
		abortStorageError(c, err)
		return
	}
	sell, err := r.views.LatestSignals(c.Request.Context(), model.SignalSell)
	if err != nil {
		abortStorageError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"buy_signals": buy, "sell_signals": sell})
}

func (r *router) handleOpenPositions(c *gin.Context) {
	out, err := r.views.OpenPositions(c.Request.Context())
	if err != nil {
		abortStorageError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"open_positions": out})
}

func (r *router) handlePositionHistory(c *gin.Context) {
	out, err := r.views.PositionHistory(c.Request.Context())
	if err != nil {
		abortStorageError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"order_history": out})
}

func (r *router) handleScanned(c *gin.Context) {
	out, err := r.views.ScannedUniverse(c.Request.Context())
	if err != nil {
		abortStorageError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"scanned_coins": out})
}

// handleScan kicks off a full cycle in the background; the caller polls the
// read views for the refreshed result.
func (r *router) handleScan(c *gin.Context) {
	go func() {
		if err := r.scans.RunOnce(context.Background()); err != nil {
			logger.Errorf("http: on-demand scan failed: %v", err)
		}
	}()
	c.JSON(http.StatusAccepted, gin.H{"status": "scan started"})
}

func abortStorageError(c *gin.Context, err error) {
	if errors.Is(err, sqlite.ErrUnavailable) {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "storage unavailable"})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}
