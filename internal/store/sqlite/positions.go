package sqlite

import (
	"context"

	"trendscan/internal/store/model"

	"gorm.io/gorm"
)

// CreatePosition allocates the next order number and inserts the position in
// one transaction, so concurrent callers can never observe the same maximum
// and produce duplicate numbers.
func (s *Store) CreatePosition(ctx context.Context, p *model.PositionModel) error {
	if p.EntryAt.IsZero() {
		p.EntryAt = s.nowFn()
	}
	p.Status = model.PositionOpen
	return s.withRetry("create position", func() error {
		return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			var next int64
			if err := tx.Model(&model.PositionModel{}).
				Select("COALESCE(MAX(order_number), 0) + 1").
				Scan(&next).Error; err != nil {
				return err
			}
			p.OrderNumber = next
			return tx.Create(p).Error
		})
	})
}

// OpenPositions returns open positions for one symbol/timeframe.
func (s *Store) OpenPositions(ctx context.Context, symbol, timeframe string) ([]model.PositionModel, error) {
	var out []model.PositionModel
	err := s.withRetry("list open positions", func() error {
		return s.db.WithContext(ctx).
			Where("symbol = ? AND timeframe = ? AND status = ?", symbol, timeframe, model.PositionOpen).
			Order("entry_at DESC").
			Find(&out).Error
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// ListOpen returns every open position, newest entry first.
func (s *Store) ListOpen(ctx context.Context) ([]model.PositionModel, error) {
	var out []model.PositionModel
	err := s.withRetry("list open", func() error {
		return s.db.WithContext(ctx).
			Where("status = ?", model.PositionOpen).
			Order("entry_at DESC").
			Find(&out).Error
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// ListHistory returns closed positions, most recent exit first.
func (s *Store) ListHistory(ctx context.Context) ([]model.PositionModel, error) {
	var out []model.PositionModel
	err := s.withRetry("list history", func() error {
		return s.db.WithContext(ctx).
			Where("status = ?", model.PositionClosed).
			Order("exit_at DESC").
			Find(&out).Error
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// ClosePosition flips a position to closed, setting the exit fields together.
// The status guard in the WHERE clause makes a lost double-close race update
// zero rows instead of overwriting an earlier exit. Returns whether this call
// performed the close.
func (s *Store) ClosePosition(ctx context.Context, id int64, exitPrice float64, reason string) (bool, error) {
	closed := false
	err := s.withRetry("close position", func() error {
		now := s.nowFn()
		res := s.db.WithContext(ctx).
			Model(&model.PositionModel{}).
			Where("id = ? AND status = ?", id, model.PositionOpen).
			Updates(map[string]interface{}{
				"status":      model.PositionClosed,
				"exit_price":  exitPrice,
				"exit_reason": reason,
				"exit_at":     now,
			})
		if res.Error != nil {
			return res.Error
		}
		closed = res.RowsAffected > 0
		return nil
	})
	if err != nil {
		return false, err
	}
	return closed, nil
}
