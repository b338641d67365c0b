package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const DefaultRole = "user"

type User struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"                         json:"id"`
	Username     string    `gorm:"uniqueIndex:uq_users_username;not null"       json:"username"`
	Email        string    `gorm:"uniqueIndex:uq_users_email;not null"          json:"email"`
	PasswordHash string    `gorm:"not null"                                     json:"-"`
	Address      *string   `                                                    json:"address,omitempty"`
	Role         string    `gorm:"not null;default:user"                        json:"role"`
	CreatedAt    time.Time `                                                    json:"createdAt"`
}

type Category struct {
	ID   uuid.UUID `gorm:"type:uuid;primaryKey"                   json:"id"`
	Name string    `gorm:"uniqueIndex:uq_categories_name;not null" json:"name"`
}

type Product struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey"                  json:"id"`
	Name        string          `gorm:"uniqueIndex:uq_products_name;not null" json:"name"`
	Stock       int             `gorm:"not null;check:stock >= 0"             json:"stock"`
	Price       decimal.Decimal `gorm:"type:numeric(12,2);not null"           json:"price"`
	Image       string          `gorm:"not null"                              json:"image"`
	Description string          `                                             json:"description"`
	Categories  []Category      `gorm:"many2many:product_categories;"         json:"categories"`
	CreatedAt   time.Time       `                                             json:"createdAt"`
}

// Cart is the single active cart of a user. Its total is never stored.
type Cart struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"                             json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;uniqueIndex:uq_carts_user_id;not null" json:"userId"`
	CreatedAt time.Time `                                                        json:"createdAt"`
}

type CartItem struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"      json:"id"`
	CartID    uuid.UUID `gorm:"type:uuid;index;not null"  json:"cartId"`
	ProductID uuid.UUID `gorm:"type:uuid;index;not null"  json:"productId"`
	Quantity  int       `gorm:"not null;check:quantity > 0" json:"quantity"`
	CreatedAt time.Time `                                 json:"createdAt"`
}

type Transaction struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey"        json:"id"`
	UserID      uuid.UUID       `gorm:"type:uuid;index;not null"    json:"userId"`
	TotalAmount decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"totalAmount"`
	CreatedAt   time.Time       `                                   json:"createdAt"`
}

func (u *User) AssignID() {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
}

func (c *Category) AssignID() {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
}

func (p *Product) AssignID() {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
}

func (c *Cart) AssignID() {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
}

func (c *CartItem) AssignID() {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
}

func (t *Transaction) AssignID() {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
}

func (u *User) BeforeCreate(*gorm.DB) error        { u.AssignID(); return nil }
func (c *Category) BeforeCreate(*gorm.DB) error    { c.AssignID(); return nil }
func (p *Product) BeforeCreate(*gorm.DB) error     { p.AssignID(); return nil }
func (c *Cart) BeforeCreate(*gorm.DB) error        { c.AssignID(); return nil }
func (c *CartItem) BeforeCreate(*gorm.DB) error    { c.AssignID(); return nil }
func (t *Transaction) BeforeCreate(*gorm.DB) error { t.AssignID(); return nil }

// All lists every table model in migration order.
func All() []any {
	return []any{&User{}, &Category{}, &Product{}, &Cart{}, &CartItem{}, &Transaction{}}
}
