package repo

import (
	"context"

	"github.com/Skotchmaster/sdp_shop/internal/models"
	"github.com/Skotchmaster/sdp_shop/internal/store"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

func (r *GormRepo) ActiveCart(ctx context.Context, userID uuid.UUID) (*models.Cart, error) {
	var cart models.Cart
	if err := r.DB.WithContext(ctx).Where("user_id = ?", userID).Order("created_at DESC").First(&cart).Error; err != nil {
		return nil, notFound(err)
	}
	return &cart, nil
}

// cartFor returns the user's cart, creating it first if needed. The unique
// user_id index turns concurrent first inserts into no-ops, so every caller
// ends up on the same row.
func cartFor(tx *gorm.DB, userID uuid.UUID) (*models.Cart, error) {
	candidate := models.Cart{UserID: userID}
	err := tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoNothing: true,
	}).Create(&candidate).Error
	if err != nil {
		return nil, err
	}

	var cart models.Cart
	if err := tx.Where("user_id = ?", userID).First(&cart).Error; err != nil {
		return nil, err
	}
	return &cart, nil
}

func (r *GormRepo) OpenCart(ctx context.Context, userID uuid.UUID) (*models.Cart, error) {
	var cart *models.Cart
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		c, err := cartFor(tx, userID)
		cart = c
		return err
	})
	if err != nil {
		return nil, err
	}
	return cart, nil
}

func (r *GormRepo) AddItem(ctx context.Context, userID uuid.UUID, item *models.CartItem) (*models.Cart, error) {
	var cart *models.Cart
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		c, err := cartFor(tx, userID)
		if err != nil {
			return err
		}

		item.CartID = c.ID
		if err := tx.Create(item).Error; err != nil {
			return err
		}
		cart = c
		return nil
	})
	if err != nil {
		return nil, err
	}
	return cart, nil
}

func (r *GormRepo) CartLines(ctx context.Context, cartID uuid.UUID) ([]models.CartLine, error) {
	var items []models.CartItem
	if err := r.DB.WithContext(ctx).Where("cart_id = ?", cartID).Order("created_at ASC").Find(&items).Error; err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return []models.CartLine{}, nil
	}

	ids := make([]uuid.UUID, 0, len(items))
	for _, it := range items {
		ids = append(ids, it.ProductID)
	}
	var products []models.Product
	if err := r.DB.WithContext(ctx).Where("id IN ?", ids).Find(&products).Error; err != nil {
		return nil, err
	}

	return models.JoinLines(items, products), nil
}

func (r *GormRepo) GetItem(ctx context.Context, itemID uuid.UUID) (*models.CartItem, error) {
	var item models.CartItem
	if err := r.DB.WithContext(ctx).Where("id = ?", itemID).First(&item).Error; err != nil {
		return nil, notFound(err)
	}
	return &item, nil
}

func (r *GormRepo) UpdateItemQuantity(ctx context.Context, itemID uuid.UUID, quantity int) (*models.CartItem, error) {
	var item models.CartItem
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ?", itemID).First(&item).Error; err != nil {
			return notFound(err)
		}
		if err := tx.Model(&item).Update("quantity", quantity).Error; err != nil {
			return err
		}
		item.Quantity = quantity
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *GormRepo) RemoveItem(ctx context.Context, itemID uuid.UUID) (*models.CartItem, error) {
	var item models.CartItem
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ?", itemID).First(&item).Error; err != nil {
			return notFound(err)
		}
		res := tx.Where("id = ?", itemID).Delete(&models.CartItem{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return store.ErrNotFound
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &item, nil
}
