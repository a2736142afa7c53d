package repository

import (
	"context"
	"errors"
	"sync/atomic"

	"gorm.io/gorm"
)

var (
	ErrDBNotReady         = errors.New("database not initialized")
	ErrInsufficientPoints = errors.New("insufficient points")
	ErrRewardNotFound     = errors.New("reward not found")
)

// base carries the connection shared by every repository. The API starts
// serving before the database is reachable, so the handle is swapped in later
// through SetDB.
type base struct {
	db atomic.Pointer[gorm.DB]
}

func (b *base) SetDB(db *gorm.DB) {
	b.db.Store(db)
}

func (b *base) conn(ctx context.Context) (*gorm.DB, error) {
	db := b.db.Load()
	if db == nil {
		return nil, ErrDBNotReady
	}
	return db.WithContext(ctx), nil
}

func clampPage(limit, offset, def, max int) (int, int) {
	if limit <= 0 || limit > max {
		limit = def
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
