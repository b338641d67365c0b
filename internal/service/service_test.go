package service

import (
	"context"
	"sync"
	"testing"

	"github.com/Skotchmaster/sdp_shop/internal/repo"
	"github.com/Skotchmaster/sdp_shop/internal/testutil"
	"github.com/Skotchmaster/sdp_shop/internal/transport"
	"github.com/Skotchmaster/sdp_shop/pkg/events"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	mu     sync.Mutex
	events []events.Event
}

func (r *recorder) Publish(_ context.Context, _, _ string, e events.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
	return nil
}

func (r *recorder) Close() error { return nil }

func (r *recorder) types() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.events))
	for _, e := range r.events {
		out = append(out, e["type"].(string))
	}
	return out
}

type services struct {
	repo    *repo.GormRepo
	events  *recorder
	account *AccountService
	catalog *CatalogService
	cart    *CartService
	ledger  *LedgerService
}

func newServices(t *testing.T) *services {
	t.Helper()
	r := testutil.NewSQLiteRepo(t)
	rec := &recorder{}
	return &services{
		repo:    r,
		events:  rec,
		account: &AccountService{Store: r, Events: rec},
		catalog: &CatalogService{Store: r, Events: rec},
		cart:    &CartService{Store: r, Events: rec},
		ledger:  &LedgerService{Store: r},
	}
}

func productReq(name, price, stock string) transport.ProductRequest {
	return transport.ProductRequest{
		Name:  name,
		Price: transport.Num(price),
		Stock: transport.Num(stock),
		Image: "https://img.example/" + name + ".png",
	}
}

func (s *services) register(t *testing.T, username, email string) uuid.UUID {
	t.Helper()
	u, err := s.account.Register(context.Background(), transport.RegisterUserRequest{
		Username: username,
		Password: "secret",
		Email:    email,
	})
	require.NoError(t, err)
	return u.ID
}

func (s *services) product(t *testing.T, name, price, stock string) uuid.UUID {
	t.Helper()
	p, err := s.catalog.CreateProduct(context.Background(), productReq(name, price, stock))
	require.NoError(t, err)
	return p.ID
}
