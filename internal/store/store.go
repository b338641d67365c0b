// Package store declares the persistence contracts shared by the relational
// (gorm) and document (MongoDB) backends.
package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/Skotchmaster/sdp_shop/internal/models"
	"github.com/google/uuid"
)

var (
	ErrNotFound = errors.New("record not found")
	// ErrInvalidReference is returned when a write points at a row that does not exist,
	// for example an unknown category id in a product's association set.
	ErrInvalidReference = errors.New("invalid reference")
)

// DuplicateError reports a unique constraint violation. Field is empty when the
// violated column could not be derived.
type DuplicateError struct {
	Field string
}

func (e *DuplicateError) Error() string {
	if e.Field == "" {
		return "duplicate record"
	}
	return fmt.Sprintf("duplicate %s", e.Field)
}

type Users interface {
	ListUsers(ctx context.Context) ([]models.User, error)
	GetUser(ctx context.Context, id uuid.UUID) (*models.User, error)
	CreateUser(ctx context.Context, u *models.User) error
	UpdateUser(ctx context.Context, u *models.User) error
	DeleteUser(ctx context.Context, id uuid.UUID) error
}

type Catalog interface {
	ListProducts(ctx context.Context) ([]models.Product, error)
	GetProduct(ctx context.Context, id uuid.UUID) (*models.Product, error)
	CreateProduct(ctx context.Context, p *models.Product, categoryIDs []uuid.UUID) error
	// UpdateProduct replaces the scalar fields. A nil categoryIDs keeps the current
	// associations, a non-nil one replaces the whole set.
	UpdateProduct(ctx context.Context, p *models.Product, categoryIDs []uuid.UUID) error
	DeleteProduct(ctx context.Context, id uuid.UUID) error
	SearchProducts(ctx context.Context, q string, offset, limit int) (int64, []models.Product, error)

	ListCategories(ctx context.Context) ([]models.Category, error)
	CreateCategory(ctx context.Context, c *models.Category) error
	AttachCategory(ctx context.Context, productID, categoryID uuid.UUID) error
}

type Carts interface {
	ActiveCart(ctx context.Context, userID uuid.UUID) (*models.Cart, error)
	// OpenCart returns the user's cart, creating it when the user has none.
	OpenCart(ctx context.Context, userID uuid.UUID) (*models.Cart, error)
	// AddItem resolves or creates the user's cart and appends a new line, atomically.
	AddItem(ctx context.Context, userID uuid.UUID, item *models.CartItem) (*models.Cart, error)
	CartLines(ctx context.Context, cartID uuid.UUID) ([]models.CartLine, error)
	GetItem(ctx context.Context, itemID uuid.UUID) (*models.CartItem, error)
	UpdateItemQuantity(ctx context.Context, itemID uuid.UUID, quantity int) (*models.CartItem, error)
	RemoveItem(ctx context.Context, itemID uuid.UUID) (*models.CartItem, error)
}

type Ledger interface {
	CreateTransaction(ctx context.Context, t *models.Transaction) error
	ListTransactions(ctx context.Context, userID uuid.UUID) ([]models.Transaction, error)
}

type Store interface {
	Users
	Catalog
	Carts
	Ledger

	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}
