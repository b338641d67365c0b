package service

import (
	"context"
	"errors"
	"strings"

	"github.com/Skotchmaster/sdp_shop/internal/models"
	"github.com/Skotchmaster/sdp_shop/internal/store"
	"github.com/Skotchmaster/sdp_shop/internal/transport"
	"github.com/Skotchmaster/sdp_shop/pkg/i18n"
	"github.com/google/uuid"
)

// LedgerService records completed purchases. Entries are independent of carts.
type LedgerService struct {
	Store store.Store
}

func (s *LedgerService) Record(ctx context.Context, req transport.CreateTransactionRequest) (*models.Transaction, error) {
	raw := strings.TrimSpace(req.UserID)
	if raw == "" {
		return nil, invalid("userId", i18n.UserIDRequired)
	}
	userID, err := uuid.Parse(raw)
	if err != nil {
		return nil, invalid("userId", i18n.InvalidID)
	}

	amount, ok := req.TotalAmount.Decimal()
	if !ok {
		return nil, invalid("totalAmount", i18n.TransactionAmountInvalid)
	}
	amount = amount.Round(2)
	if amount.IsNegative() || amount.GreaterThanOrEqual(maxPrice) {
		return nil, invalid("totalAmount", i18n.TransactionAmountInvalid)
	}

	if _, err := s.Store.GetUser(ctx, userID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, notFound(i18n.UserNotFound, err)
		}
		return nil, err
	}

	t := &models.Transaction{UserID: userID, TotalAmount: amount}
	if err := s.Store.CreateTransaction(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

func (s *LedgerService) ListForUser(ctx context.Context, userID uuid.UUID) ([]models.Transaction, error) {
	return s.Store.ListTransactions(ctx, userID)
}
