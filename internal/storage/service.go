package storage

import (
	"time"
)

// Service provides high-level operations for persisted card data.
type Service struct {
	db  *DB
	now func() time.Time
}

// NewService creates a new storage service.
func NewService(db *DB) *Service {
	return &Service{
		db:  db,
		now: time.Now,
	}
}

// Close releases the underlying database.
func (s *Service) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// WithClock replaces the clock used to stamp fetched rows.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}
