package sqlite

import (
	"context"

	"trendscan/internal/store/model"
)

// InsertScanned appends one audit row per symbol for the current cycle.
func (s *Store) InsertScanned(ctx context.Context, symbols []string) error {
	if len(symbols) == 0 {
		return nil
	}
	now := s.nowFn()
	rows := make([]model.ScannedSymbolModel, 0, len(symbols))
	for _, sym := range symbols {
		rows = append(rows, model.ScannedSymbolModel{Symbol: sym, CreatedAt: now})
	}
	return s.withRetry("insert scanned", func() error {
		return s.db.WithContext(ctx).Create(&rows).Error
	})
}

// ScannedUniverse returns the most recently recorded universe, newest first.
func (s *Store) ScannedUniverse(ctx context.Context, limit int) ([]model.ScannedSymbolModel, error) {
	if limit <= 0 {
		limit = 50
	}
	var out []model.ScannedSymbolModel
	err := s.withRetry("list scanned", func() error {
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
