package repo

import (
	"context"
	"errors"
	"strings"

	"github.com/Skotchmaster/sdp_shop/internal/models"
	"github.com/Skotchmaster/sdp_shop/internal/store"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// GormRepo is the relational store. It runs on postgres in production and on
// sqlite locally and in tests.
type GormRepo struct {
	DB *gorm.DB
}

var _ store.Store = (*GormRepo)(nil)

func (r *GormRepo) Migrate(ctx context.Context) error {
	return r.DB.WithContext(ctx).AutoMigrate(models.All()...)
}

func (r *GormRepo) Ping(ctx context.Context) error {
	sqlDB, err := r.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (r *GormRepo) Close(context.Context) error {
	sqlDB, err := r.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

var constraintFields = map[string]string{
	"uq_users_username":  "username",
	"uq_users_email":     "email",
	"uq_products_name":   "name",
	"uq_categories_name": "name",
	"uq_carts_user_id":   "user_id",
}

// duplicate turns a unique constraint violation into a *store.DuplicateError and
// returns every other error unchanged.
func duplicate(err error) error {
	if err == nil {
		return nil
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
		return &store.DuplicateError{Field: constraintFields[pqErr.Constraint]}
	}

	// sqlite: "UNIQUE constraint failed: users.email"
	msg := err.Error()
	if i := strings.Index(msg, "UNIQUE constraint failed: "); i >= 0 {
		col := msg[i+len("UNIQUE constraint failed: "):]
		if j := strings.IndexAny(col, ", "); j >= 0 {
			col = col[:j]
		}
		if k := strings.LastIndex(col, "."); k >= 0 {
			col = col[k+1:]
		}
		return &store.DuplicateError{Field: col}
	}

	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return &store.DuplicateError{}
	}
	return err
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return store.ErrNotFound
	}
	return err
}
