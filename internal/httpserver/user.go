package httpserver

import (
	"net/http"

	"github.com/Skotchmaster/sdp_shop/internal/service"
	"github.com/Skotchmaster/sdp_shop/internal/transport"
	"github.com/Skotchmaster/sdp_shop/pkg/i18n"
	"github.com/Skotchmaster/sdp_shop/pkg/logging"
	"github.com/labstack/echo/v4"
)

type UserHTTP struct {
	Svc *service.AccountService
	T   *i18n.Translator
}

func (h *UserHTTP) ListUsers(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "user.list_users")

	users, err := h.Svc.ListUsers(ctx)
	if err != nil {
		return failure(l, h.T, "list_users_error", err)
	}

	return c.JSON(http.StatusOK, users)
}

func (h *UserHTTP) GetUser(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "user.get_user")

	id, err := pathID(c, "id")
	if err != nil {
		return badRequest(l, h.T, "get_user_error", i18n.InvalidID, err)
	}

	user, err := h.Svc.GetUser(ctx, id)
	if err != nil {
		return failure(l, h.T, "get_user_error", err)
	}

	return c.JSON(http.StatusOK, user)
}

func (h *UserHTTP) Register(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "user.register")

	var req transport.RegisterUserRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(l, h.T, "register_error", i18n.InvalidBody, err)
	}

	user, err := h.Svc.Register(ctx, req)
	if err != nil {
		return failure(l, h.T, "register_error", err)
	}

	l.Info("register_success", "user_id", user.ID)
	return c.JSON(http.StatusCreated, transport.UserCreatedResponse{
		UserID:  user.ID,
		Message: h.T.T(i18n.UserRegistered),
	})
}

func (h *UserHTTP) UpdateUser(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "user.update_user")

	id, err := pathID(c, "id")
	if err != nil {
		return badRequest(l, h.T, "update_user_error", i18n.InvalidID, err)
	}

	var req transport.UpdateUserRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(l, h.T, "update_user_error", i18n.InvalidBody, err)
	}

	if _, err := h.Svc.UpdateUser(ctx, id, req); err != nil {
		return failure(l, h.T, "update_user_error", err)
	}

	l.Info("update_user_success", "user_id", id)
	return c.JSON(http.StatusOK, message(h.T, i18n.UserUpdated))
}

func (h *UserHTTP) DeleteUser(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "user.delete_user")

	id, err := pathID(c, "id")
	if err != nil {
		return badRequest(l, h.T, "delete_user_error", i18n.InvalidID, err)
	}

	if err := h.Svc.DeleteUser(ctx, id); err != nil {
		return failure(l, h.T, "delete_user_error", err)
	}

	l.Info("delete_user_success", "user_id", id)
	return c.JSON(http.StatusOK, message(h.T, i18n.UserDeleted))
}
