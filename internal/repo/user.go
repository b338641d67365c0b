package repo

import (
	"context"

	"github.com/Skotchmaster/sdp_shop/internal/models"
	"github.com/Skotchmaster/sdp_shop/internal/store"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

func (r *GormRepo) ListUsers(ctx context.Context) ([]models.User, error) {
	users := []models.User{}
	if err := r.DB.WithContext(ctx).Order("created_at ASC").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func (r *GormRepo) GetUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := r.DB.WithContext(ctx).Where("id = ?", id).First(&user).Error; err != nil {
		return nil, notFound(err)
	}
	return &user, nil
}

// userTaken reports which of username/email is already used by a user other than exclude.
func userTaken(tx *gorm.DB, username, email string, exclude uuid.UUID) error {
	var existing []models.User
	q := tx.Select("id", "username", "email").Where("username = ? OR email = ?", username, email)
	if exclude != uuid.Nil {
		q = q.Where("id <> ?", exclude)
	}
	if err := q.Limit(2).Find(&existing).Error; err != nil {
		return err
	}
	for _, u := range existing {
		if u.Username == username {
			return &store.DuplicateError{Field: "username"}
		}
	}
	if len(existing) > 0 {
		return &store.DuplicateError{Field: "email"}
	}
	return nil
}

func (r *GormRepo) CreateUser(ctx context.Context, u *models.User) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := userTaken(tx, u.Username, u.Email, uuid.Nil); err != nil {
			return err
		}
		return duplicate(tx.Create(u).Error)
	})
}

func (r *GormRepo) UpdateUser(ctx context.Context, u *models.User) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var current models.User
		if err := tx.Where("id = ?", u.ID).First(&current).Error; err != nil {
			return notFound(err)
		}
		if err := userTaken(tx, u.Username, u.Email, u.ID); err != nil {
			return err
		}

		fields := map[string]any{
			"username":      u.Username,
			"email":         u.Email,
			"password_hash": u.PasswordHash,
			"role":          u.Role,
		}
		if u.Address != nil {
			fields["address"] = *u.Address
		}
		if err := tx.Model(&models.User{}).Where("id = ?", u.ID).Updates(fields).Error; err != nil {
			return duplicate(err)
		}
		return tx.Where("id = ?", u.ID).First(u).Error
	})
}

// DeleteUser removes the user together with their cart. Ledger entries stay.
func (r *GormRepo) DeleteUser(ctx context.Context, id uuid.UUID) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("id = ?", id).Delete(&models.User{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return store.ErrNotFound
		}

		carts := tx.Model(&models.Cart{}).Select("id").Where("user_id = ?", id)
		if err := tx.Where("cart_id IN (?)", carts).Delete(&models.CartItem{}).Error; err != nil {
			return err
		}
		return tx.Where("user_id = ?", id).Delete(&models.Cart{}).Error
	})
}
