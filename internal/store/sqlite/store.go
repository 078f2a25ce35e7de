package sqlite

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"trendscan/internal/store/model"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Store is the durable ledger for signals, positions and scanned symbols.
// It is the sole source of truth; cached views derive from it.
type Store struct {
	db        *gorm.DB
	attempts  int
	baseDelay time.Duration
	sleep     func(time.Duration)
	nowFn     func() time.Time
}

// Options tune the contention-retry wrapper and the SQLite busy timeout.
type Options struct {
	BusyTimeoutMs  int
	RetryAttempts  int
	RetryBaseDelay time.Duration
}

func (o Options) withDefaults() Options {
	if o.BusyTimeoutMs <= 0 {
		o.BusyTimeoutMs = 5000
	}
	if o.RetryAttempts <= 0 {
		o.RetryAttempts = 3
	}
	if o.RetryBaseDelay <= 0 {
		o.RetryBaseDelay = 500 * time.Millisecond
	}
	return o
}

func New(path string, opts Options) (*Store, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, fmt.Errorf("database path cannot be empty")
	}
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}
	opts = opts.withDefaults()
	dsn := fmt.Sprintf(
		"file:%s?_pragma=busy_timeout(%d)&_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)&_pragma=temp_store(MEMORY)&cache=shared",
		path, opts.BusyTimeoutMs,
	)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:                                   logger.Default.LogMode(logger.Silent),
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		return nil, err
	}
	return newStore(db, opts)
}

// NewFromDB wraps an existing gorm handle. Used by tests with an in-memory DSN.
func NewFromDB(db *gorm.DB, opts Options) (*Store, error) {
	if db == nil {
		return nil, fmt.Errorf("gorm db cannot be nil")
	}
	return newStore(db, opts.withDefaults())
}

func newStore(db *gorm.DB, opts Options) (*Store, error) {
	models := []interface{}{
		&model.SignalModel{},
		&model.PositionModel{},
		&model.ScannedSymbolModel{},
	}
	if err := db.AutoMigrate(models...); err != nil {
		return nil, err
	}
	if sqlDB, err := db.DB(); err == nil {
		// WAL lets readers proceed under a writer; a small pool keeps
		// write-side lock contention low.
		sqlDB.SetMaxOpenConns(2)
		sqlDB.SetMaxIdleConns(2)
	}
	return &Store{
		db:        db,
		attempts:  opts.RetryAttempts,
		baseDelay: opts.RetryBaseDelay,
		sleep:     time.Sleep,
		nowFn:     func() time.Time { return time.Now().UTC() },
	}, nil
}

func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
