package transport

import "github.com/google/uuid"

type RegisterUserRequest struct {
	Username string  `json:"username"`
	Password string  `json:"password"`
	Email    string  `json:"email"`
	Address  *string `json:"address"`
}

type UpdateUserRequest struct {
	Username string  `json:"username"`
	Password string  `json:"password"`
	Email    string  `json:"email"`
	Role     *string `json:"role"`
	Address  *string `json:"address"`
}

// ProductRequest is the body of both create and update. A missing categoryIds
// leaves the associations alone on update; an empty list clears them.
type ProductRequest struct {
	Name        string    `json:"name"`
	Stock       Numeric   `json:"stock"`
	Price       Numeric   `json:"price"`
	Image       string    `json:"image"`
	Description *string   `json:"description"`
	CategoryIDs *[]string `json:"categoryIds"`
}

type CreateCategoryRequest struct {
	CategoryName string `json:"categoryName"`
}

type AttachCategoryRequest struct {
	ProductID  string `json:"productId"`
	CategoryID string `json:"categoryId"`
}

type AddCartItemRequest struct {
	ProductID string  `json:"productId"`
	Quantity  Numeric `json:"quantity"`
}

type UpdateCartItemRequest struct {
	Quantity Numeric `json:"quantity"`
}

type OpenCartRequest struct {
	UserID string `json:"userId"`
}

type CreateTransactionRequest struct {
	UserID      string  `json:"userId"`
	TotalAmount Numeric `json:"totalAmount"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type UserCreatedResponse struct {
	UserID  uuid.UUID `json:"userId"`
	Message string    `json:"message"`
}

type ProductCreatedResponse struct {
	ProductID uuid.UUID `json:"productId"`
	Message   string    `json:"message"`
}

type CategoryCreatedResponse struct {
	CategoryID uuid.UUID `json:"categoryId"`
}

type CartItemAddedResponse struct {
	CartItemID uuid.UUID `json:"cartItemId"`
	Message    string    `json:"message"`
}

type CartOpenedResponse struct {
	CartID uuid.UUID `json:"cartId"`
}

type TransactionCreatedResponse struct {
	TransactionID uuid.UUID `json:"transactionId"`
	Message       string    `json:"message"`
}
