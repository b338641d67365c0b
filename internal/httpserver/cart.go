package httpserver

import (
	"net/http"

	"github.com/Skotchmaster/sdp_shop/internal/service"
	"github.com/Skotchmaster/sdp_shop/internal/transport"
	"github.com/Skotchmaster/sdp_shop/pkg/i18n"
	"github.com/Skotchmaster/sdp_shop/pkg/logging"
	"github.com/labstack/echo/v4"
)

type CartHTTP struct {
	Svc *service.CartService
	T   *i18n.Translator
}

func (h *CartHTTP) GetCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.get_cart")

	userID, err := pathID(c, "userId")
	if err != nil {
		return badRequest(l, h.T, "get_cart_error", i18n.InvalidID, err)
	}

	lines, err := h.Svc.GetCartContents(ctx, userID)
	if err != nil {
		return failure(l, h.T, "get_cart_error", err)
	}

	return c.JSON(http.StatusOK, lines)
}

func (h *CartHTTP) OpenCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.open_cart")

	var req transport.OpenCartRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(l, h.T, "open_cart_error", i18n.InvalidBody, err)
	}

	cart, err := h.Svc.OpenCart(ctx, req)
	if err != nil {
		return failure(l, h.T, "open_cart_error", err)
	}

	l.Info("open_cart_success", "user_id", cart.UserID, "cart_id", cart.ID)
	return c.JSON(http.StatusOK, transport.CartOpenedResponse{CartID: cart.ID})
}

func (h *CartHTTP) AddItem(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.add_item")

	userID, err := pathID(c, "userId")
	if err != nil {
		return badRequest(l, h.T, "add_item_error", i18n.InvalidID, err)
	}

	var req transport.AddCartItemRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(l, h.T, "add_item_error", i18n.InvalidBody, err)
	}

	item, err := h.Svc.AddItem(ctx, userID, req)
	if err != nil {
		return failure(l, h.T, "add_item_error", err)
	}

	l.Info("add_item_success", "user_id", userID, "cart_item_id", item.ID)
	return c.JSON(http.StatusCreated, transport.CartItemAddedResponse{
		CartItemID: item.ID,
		Message:    h.T.T(i18n.CartItemAdded),
	})
}

func (h *CartHTTP) UpdateItem(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.update_item")

	itemID, err := pathID(c, "cartItemId")
	if err != nil {
		return badRequest(l, h.T, "update_item_error", i18n.InvalidID, err)
	}

	var req transport.UpdateCartItemRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(l, h.T, "update_item_error", i18n.InvalidBody, err)
	}

	if _, err := h.Svc.UpdateItemQuantity(ctx, itemID, req); err != nil {
		return failure(l, h.T, "update_item_error", err)
	}

	l.Info("update_item_success", "cart_item_id", itemID)
	return c.JSON(http.StatusOK, message(h.T, i18n.CartItemUpdated))
}

func (h *CartHTTP) RemoveItem(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.remove_item")

	itemID, err := pathID(c, "cartItemId")
	if err != nil {
		return badRequest(l, h.T, "remove_item_error", i18n.InvalidID, err)
	}

	if err := h.Svc.RemoveItem(ctx, itemID); err != nil {
		return failure(l, h.T, "remove_item_error", err)
	}

	l.Info("remove_item_success", "cart_item_id", itemID)
	return c.JSON(http.StatusOK, message(h.T, i18n.CartItemRemoved))
}

func (h *CartHTTP) Summary(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.summary")

	userID, err := pathID(c, "userId")
	if err != nil {
		return badRequest(l, h.T, "cart_summary_error", i18n.InvalidID, err)
	}

	summary, err := h.Svc.Summary(ctx, userID)
	if err != nil {
		return failure(l, h.T, "cart_summary_error", err)
	}

	return c.JSON(http.StatusOK, summary)
}
