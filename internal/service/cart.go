package service

import (
	"context"
	"errors"
	"strings"

	"github.com/Skotchmaster/sdp_shop/internal/models"
	"github.com/Skotchmaster/sdp_shop/internal/store"
	"github.com/Skotchmaster/sdp_shop/internal/transport"
	"github.com/Skotchmaster/sdp_shop/pkg/events"
	"github.com/Skotchmaster/sdp_shop/pkg/i18n"
	"github.com/google/uuid"
)

// CartService owns the one active cart of each user. Totals are always
// computed from the current product prices when the cart is read.
type CartService struct {
	Store  store.Store
	Events events.Publisher
}

func quantity(n transport.Numeric) (int, error) {
	q, ok := n.Int()
	if !ok || q < 1 {
		return 0, invalid("quantity", i18n.CartQuantityInvalid)
	}
	return q, nil
}

func (s *CartService) ActiveCart(ctx context.Context, userID uuid.UUID) (*models.Cart, error) {
	cart, err := s.Store.ActiveCart(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, notFound(i18n.CartNotFound, err)
		}
		return nil, err
	}
	return cart, nil
}

// OpenCart returns the user's cart and creates it on first call. Repeated calls
// return the same cart.
func (s *CartService) OpenCart(ctx context.Context, req transport.OpenCartRequest) (*models.Cart, error) {
	raw := strings.TrimSpace(req.UserID)
	if raw == "" {
		return nil, invalid("userId", i18n.UserIDRequired)
	}
	userID, err := uuid.Parse(raw)
	if err != nil {
		return nil, invalid("userId", i18n.InvalidID)
	}

	if _, err := s.Store.GetUser(ctx, userID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, notFound(i18n.UserNotFound, err)
		}
		return nil, err
	}
	return s.Store.OpenCart(ctx, userID)
}

// item loads a cart line, mapping a missing one to CartItemNotFound.
func (s *CartService) item(ctx context.Context, itemID uuid.UUID) (*models.CartItem, error) {
	item, err := s.Store.GetItem(ctx, itemID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, notFound(i18n.CartItemNotFound, err)
		}
		return nil, err
	}
	return item, nil
}

// GetCartContents lists the lines of the user's cart. A user without a cart
// has an empty one.
func (s *CartService) GetCartContents(ctx context.Context, userID uuid.UUID) ([]models.CartLine, error) {
	cart, err := s.Store.ActiveCart(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return []models.CartLine{}, nil
		}
		return nil, err
	}
	return s.Store.CartLines(ctx, cart.ID)
}

// AddItem appends a new line to the user's cart, creating the cart on first
// use. Adding a product that is already in the cart adds a second line.
func (s *CartService) AddItem(ctx context.Context, userID uuid.UUID, req transport.AddCartItemRequest) (*models.CartItem, error) {
	productID, err := uuid.Parse(strings.TrimSpace(req.ProductID))
	if err != nil {
		return nil, invalid("productId", i18n.InvalidID)
	}
	qty, err := quantity(req.Quantity)
	if err != nil {
		return nil, err
	}

	if _, err := s.Store.GetUser(ctx, userID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, notFound(i18n.UserNotFound, err)
		}
		return nil, err
	}
	if _, err := s.Store.GetProduct(ctx, productID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, notFound(i18n.ProductNotFound, err)
		}
		return nil, err
	}

	item := &models.CartItem{ProductID: productID, Quantity: qty}
	cart, err := s.Store.AddItem(ctx, userID, item)
	if err != nil {
		return nil, err
	}

	events.Emit(ctx, s.Events, events.TopicCarts, userID.String(), events.Event{
		"type":       "cart_item_added",
		"userId":     userID,
		"cartId":     cart.ID,
		"cartItemId": item.ID,
		"productId":  productID,
		"quantity":   qty,
	})
	return item, nil
}

func (s *CartService) UpdateItemQuantity(ctx context.Context, itemID uuid.UUID, req transport.UpdateCartItemRequest) (*models.CartItem, error) {
	qty, err := quantity(req.Quantity)
	if err != nil {
		return nil, err
	}
	if _, err := s.item(ctx, itemID); err != nil {
		return nil, err
	}

	item, err := s.Store.UpdateItemQuantity(ctx, itemID, qty)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, notFound(i18n.CartItemNotFound, err)
		}
		return nil, err
	}

	events.Emit(ctx, s.Events, events.TopicCarts, item.CartID.String(), events.Event{
		"type":       "cart_item_updated",
		"cartId":     item.CartID,
		"cartItemId": item.ID,
		"quantity":   qty,
	})
	return item, nil
}

// RemoveItem deletes one line. The cart stays, even when it becomes empty.
func (s *CartService) RemoveItem(ctx context.Context, itemID uuid.UUID) error {
	if _, err := s.item(ctx, itemID); err != nil {
		return err
	}

	item, err := s.Store.RemoveItem(ctx, itemID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return notFound(i18n.CartItemNotFound, err)
		}
		return err
	}

	events.Emit(ctx, s.Events, events.TopicCarts, item.CartID.String(), events.Event{
		"type":       "cart_item_removed",
		"cartId":     item.CartID,
		"cartItemId": item.ID,
		"productId":  item.ProductID,
	})
	return nil
}

func (s *CartService) Summary(ctx context.Context, userID uuid.UUID) (*models.CartSummary, error) {
	cart, err := s.ActiveCart(ctx, userID)
	if err != nil {
		return nil, err
	}
	lines, err := s.Store.CartLines(ctx, cart.ID)
	if err != nil {
		return nil, err
	}
	summary := models.Summarize(*cart, lines)
	return &summary, nil
}
