package repo

import (
	"context"
	"strings"

	"github.com/Skotchmaster/sdp_shop/internal/models"
	"github.com/Skotchmaster/sdp_shop/internal/store"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// productCategory is the join row between products and categories.
type productCategory struct {
	ProductID  uuid.UUID `gorm:"type:uuid;primaryKey"`
	CategoryID uuid.UUID `gorm:"type:uuid;primaryKey"`
}

func (productCategory) TableName() string {
	return "product_categories"
}

func (r *GormRepo) ListProducts(ctx context.Context) ([]models.Product, error) {
	products := []models.Product{}
	if err := r.DB.WithContext(ctx).Preload("Categories").Order("created_at ASC").Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

func (r *GormRepo) GetProduct(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	if err := r.DB.WithContext(ctx).Preload("Categories").Where("id = ?", id).First(&product).Error; err != nil {
		return nil, notFound(err)
	}
	return &product, nil
}

func nameTaken(tx *gorm.DB, name string, exclude uuid.UUID) error {
	q := tx.Model(&models.Product{}).Where("name = ?", name)
	if exclude != uuid.Nil {
		q = q.Where("id <> ?", exclude)
	}
	var count int64
	if err := q.Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return &store.DuplicateError{Field: "name"}
	}
	return nil
}

func resolveCategories(tx *gorm.DB, ids []uuid.UUID) ([]models.Category, error) {
	cats := []models.Category{}
	if len(ids) == 0 {
		return cats, nil
	}

	unique := make(map[uuid.UUID]struct{}, len(ids))
	for _, id := range ids {
		unique[id] = struct{}{}
	}
	if err := tx.Where("id IN ?", ids).Order("name ASC").Find(&cats).Error; err != nil {
		return nil, err
	}
	if len(cats) != len(unique) {
		return nil, store.ErrInvalidReference
	}
	return cats, nil
}

func linkCategories(tx *gorm.DB, productID uuid.UUID, cats []models.Category) error {
	if len(cats) == 0 {
		return nil
	}
	rows := make([]productCategory, 0, len(cats))
	for _, c := range cats {
		rows = append(rows, productCategory{ProductID: productID, CategoryID: c.ID})
	}
	return tx.Create(&rows).Error
}

func (r *GormRepo) CreateProduct(ctx context.Context, p *models.Product, categoryIDs []uuid.UUID) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := nameTaken(tx, p.Name, uuid.Nil); err != nil {
			return err
		}
		cats, err := resolveCategories(tx, categoryIDs)
		if err != nil {
			return err
		}

		p.Categories = nil
		if err := tx.Create(p).Error; err != nil {
			return duplicate(err)
		}
		if err := linkCategories(tx, p.ID, cats); err != nil {
			return err
		}
		p.Categories = cats
		return nil
	})
}

func (r *GormRepo) UpdateProduct(ctx context.Context, p *models.Product, categoryIDs []uuid.UUID) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var current models.Product
		if err := tx.Where("id = ?", p.ID).First(&current).Error; err != nil {
			return notFound(err)
		}
		if err := nameTaken(tx, p.Name, p.ID); err != nil {
			return err
		}

		err := tx.Model(&models.Product{}).Where("id = ?", p.ID).Updates(map[string]any{
			"name":        p.Name,
			"stock":       p.Stock,
			"price":       p.Price,
			"image":       p.Image,
			"description": p.Description,
		}).Error
		if err != nil {
			return duplicate(err)
		}

		if categoryIDs != nil {
			cats, err := resolveCategories(tx, categoryIDs)
			if err != nil {
				return err
			}
			if err := tx.Where("product_id = ?", p.ID).Delete(&productCategory{}).Error; err != nil {
				return err
			}
			if err := linkCategories(tx, p.ID, cats); err != nil {
				return err
			}
		}

		return tx.Preload("Categories").Where("id = ?", p.ID).First(p).Error
	})
}

// DeleteProduct drops the product's category links and the cart lines that
// reference it before the product row itself.
func (r *GormRepo) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("product_id = ?", id).Delete(&productCategory{}).Error; err != nil {
			return err
		}
		if err := tx.Where("product_id = ?", id).Delete(&models.CartItem{}).Error; err != nil {
			return err
		}

		res := tx.Where("id = ?", id).Delete(&models.Product{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return store.ErrNotFound
		}
		return nil
	})
}

func (r *GormRepo) SearchProducts(ctx context.Context, q string, offset, limit int) (int64, []models.Product, error) {
	pattern := "%" + strings.ToLower(strings.TrimSpace(q)) + "%"
	where := "LOWER(name) LIKE ? OR LOWER(description) LIKE ?"

	var total int64
	if err := r.DB.WithContext(ctx).Model(&models.Product{}).Where(where, pattern, pattern).Count(&total).Error; err != nil {
		return 0, nil, err
	}

	items := make([]models.Product, 0, limit)
	if err := r.DB.WithContext(ctx).
		Preload("Categories").
		Where(where, pattern, pattern).
		Order("name ASC").
		Offset(offset).
		Limit(limit).
		Find(&items).Error; err != nil {
		return 0, nil, err
	}

	return total, items, nil
}

func (r *GormRepo) ListCategories(ctx context.Context) ([]models.Category, error) {
	cats := []models.Category{}
	if err := r.DB.WithContext(ctx).Order("name ASC").Find(&cats).Error; err != nil {
		return nil, err
	}
	return cats, nil
}

func (r *GormRepo) CreateCategory(ctx context.Context, c *models.Category) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Category{}).Where("name = ?", c.Name).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return &store.DuplicateError{Field: "name"}
		}
		return duplicate(tx.Create(c).Error)
	})
}

func (r *GormRepo) AttachCategory(ctx context.Context, productID, categoryID uuid.UUID) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Product{}).Where("id = ?", productID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return store.ErrNotFound
		}
		if err := tx.Model(&models.Category{}).Where("id = ?", categoryID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return store.ErrNotFound
		}

		row := productCategory{ProductID: productID, CategoryID: categoryID}
		return tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&row).Error
	})
}
