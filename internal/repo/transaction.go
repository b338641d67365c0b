package repo

import (
	"context"

	"github.com/Skotchmaster/sdp_shop/internal/models"
	"github.com/google/uuid"
)

func (r *GormRepo) CreateTransaction(ctx context.Context, t *models.Transaction) error {
	return r.DB.WithContext(ctx).Create(t).Error
}

func (r *GormRepo) ListTransactions(ctx context.Context, userID uuid.UUID) ([]models.Transaction, error) {
	txs := []models.Transaction{}
	if err := r.DB.WithContext(ctx).Where("user_id = ?", userID).Order("created_at DESC").Find(&txs).Error; err != nil {
		return nil, err
	}
	return txs, nil
}
