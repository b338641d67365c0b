package httpserver

import (
	"net/http"

	"github.com/Skotchmaster/sdp_shop/internal/service"
	"github.com/Skotchmaster/sdp_shop/internal/transport"
	"github.com/Skotchmaster/sdp_shop/pkg/i18n"
	"github.com/Skotchmaster/sdp_shop/pkg/logging"
	"github.com/labstack/echo/v4"
)

type LedgerHTTP struct {
	Svc *service.LedgerService
	T   *i18n.Translator
}

func (h *LedgerHTTP) CreateTransaction(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "transaction.create")

	var req transport.CreateTransactionRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(l, h.T, "create_transaction_error", i18n.InvalidBody, err)
	}

	tx, err := h.Svc.Record(ctx, req)
	if err != nil {
		return failure(l, h.T, "create_transaction_error", err)
	}

	l.Info("create_transaction_success", "transaction_id", tx.ID, "user_id", tx.UserID)
	return c.JSON(http.StatusCreated, transport.TransactionCreatedResponse{
		TransactionID: tx.ID,
		Message:       h.T.T(i18n.TransactionRecorded),
	})
}

func (h *LedgerHTTP) ListTransactions(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "transaction.list")

	userID, err := pathID(c, "userId")
	if err != nil {
		return badRequest(l, h.T, "list_transactions_error", i18n.InvalidID, err)
	}

	txs, err := h.Svc.ListForUser(ctx, userID)
	if err != nil {
		return failure(l, h.T, "list_transactions_error", err)
	}

	return c.JSON(http.StatusOK, txs)
}
