package sqlite

import (
	"context"

	"trendscan/internal/store/model"
)

func (s *Store) InsertSignal(ctx context.Context, sig *model.SignalModel) error {
	if sig.CreatedAt.IsZero() {
		sig.CreatedAt = s.nowFn()
	}
	return s.withRetry("insert signal", func() error {
		return s.db.WithContext(ctx).Create(sig).Error
	})
}

// LatestSignals returns the most recent signals of both kinds, newest first.
func (s *Store) LatestSignals(ctx context.Context, limit int) ([]model.SignalModel, error) {
	if limit <= 0 {
		limit = 50
	}
	var out []model.SignalModel
	err := s.withRetry("list signals", func() error {
		return s.db.WithContext(ctx).
			Order("created_at DESC").
			Limit(limit).
			Find(&out).Error
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
