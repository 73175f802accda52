package mocks

import (
	"context"
	"sync/atomic"

	"gorm.io/gorm"
)

// Transactor runs fn with a nil *gorm.DB. Repository mocks ignore the handle,
// so usecases can be exercised without a database.
type Transactor struct {
	// Err, when set, is returned instead of running fn.
	Err   error
	Calls int32
}

func (t *Transactor) Transaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	atomic.AddInt32(&t.Calls, 1)
	if t.Err != nil {
		return t.Err
	}
	return fn(nil)
}
