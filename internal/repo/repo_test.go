package repo_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/Skotchmaster/sdp_shop/internal/models"
	"github.com/Skotchmaster/sdp_shop/internal/repo"
	"github.com/Skotchmaster/sdp_shop/internal/store"
	"github.com/Skotchmaster/sdp_shop/internal/testutil"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedUser(t *testing.T, r *repo.GormRepo, username string) *models.User {
	t.Helper()
	u := &models.User{
		Username:     username,
		Email:        username + "@x.com",
		PasswordHash: "hash",
		Role:         models.DefaultRole,
	}
	require.NoError(t, r.CreateUser(context.Background(), u))
	return u
}

func seedProduct(t *testing.T, r *repo.GormRepo, name string, price int64, categoryIDs ...uuid.UUID) *models.Product {
	t.Helper()
	p := &models.Product{
		Name:  name,
		Stock: 5,
		Price: decimal.NewFromInt(price),
		Image: name + ".png",
	}
	require.NoError(t, r.CreateProduct(context.Background(), p, categoryIDs))
	return p
}

func duplicateField(t *testing.T, err error) string {
	t.Helper()
	var dup *store.DuplicateError
	require.True(t, errors.As(err, &dup), "expected duplicate error, got %v", err)
	return dup.Field
}

func TestGormRepo_CreateUser_Duplicates(t *testing.T) {
	r := testutil.NewSQLiteRepo(t)
	ctx := context.Background()
	seedUser(t, r, "alice")

	err := r.CreateUser(ctx, &models.User{Username: "alice", Email: "other@x.com", PasswordHash: "h"})
	assert.Equal(t, "username", duplicateField(t, err))

	err = r.CreateUser(ctx, &models.User{Username: "bob", Email: "alice@x.com", PasswordHash: "h"})
	assert.Equal(t, "email", duplicateField(t, err))

	users, err := r.ListUsers(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 1)
}

func TestGormRepo_UpdateUser(t *testing.T) {
	r := testutil.NewSQLiteRepo(t)
	ctx := context.Background()
	alice := seedUser(t, r, "alice")
	seedUser(t, r, "bob")

	upd := &models.User{ID: alice.ID, Username: "bob", Email: "alice@x.com", PasswordHash: "h", Role: "user"}
	assert.Equal(t, "username", duplicateField(t, r.UpdateUser(ctx, upd)))

	upd = &models.User{ID: alice.ID, Username: "alice2", Email: "alice@x.com", PasswordHash: "h2", Role: "admin"}
	require.NoError(t, r.UpdateUser(ctx, upd))
	assert.Equal(t, "alice2", upd.Username)
	assert.Equal(t, "admin", upd.Role)

	missing := &models.User{ID: uuid.New(), Username: "x", Email: "x@x.com"}
	assert.ErrorIs(t, r.UpdateUser(ctx, missing), store.ErrNotFound)
}

func TestGormRepo_DeleteUser_RemovesCartKeepsLedger(t *testing.T) {
	r := testutil.NewSQLiteRepo(t)
	ctx := context.Background()
	alice := seedUser(t, r, "alice")
	widget := seedProduct(t, r, "Widget", 10)

	cart, err := r.AddItem(ctx, alice.ID, &models.CartItem{ProductID: widget.ID, Quantity: 1})
	require.NoError(t, err)
	require.NoError(t, r.CreateTransaction(ctx, &models.Transaction{UserID: alice.ID, TotalAmount: decimal.NewFromInt(10)}))

	require.NoError(t, r.DeleteUser(ctx, alice.ID))

	_, err = r.GetUser(ctx, alice.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)
	_, err = r.ActiveCart(ctx, alice.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)
	lines, err := r.CartLines(ctx, cart.ID)
	require.NoError(t, err)
	assert.Empty(t, lines)

	txs, err := r.ListTransactions(ctx, alice.ID)
	require.NoError(t, err)
	assert.Len(t, txs, 1)

	assert.ErrorIs(t, r.DeleteUser(ctx, alice.ID), store.ErrNotFound)
}

func TestGormRepo_CreateProduct_WithCategories(t *testing.T) {
	r := testutil.NewSQLiteRepo(t)
	ctx := context.Background()

	tools := &models.Category{Name: "tools"}
	home := &models.Category{Name: "home"}
	require.NoError(t, r.CreateCategory(ctx, tools))
	require.NoError(t, r.CreateCategory(ctx, home))

	p := seedProduct(t, r, "Widget", 10, tools.ID, home.ID)

	got, err := r.GetProduct(ctx, p.ID)
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(10).Equal(got.Price))
	assert.Equal(t, 5, got.Stock)
	require.Len(t, got.Categories, 2)

	err = r.CreateProduct(ctx, &models.Product{Name: "Widget", Price: decimal.NewFromInt(1), Image: "x"}, nil)
	assert.Equal(t, "name", duplicateField(t, err))

	err = r.CreateProduct(ctx, &models.Product{Name: "Gadget", Price: decimal.NewFromInt(1), Image: "x"}, []uuid.UUID{uuid.New()})
	assert.ErrorIs(t, err, store.ErrInvalidReference)
	_, err = r.GetProduct(ctx, uuid.New())
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestGormRepo_CreateCategory_Duplicate(t *testing.T) {
	r := testutil.NewSQLiteRepo(t)
	ctx := context.Background()

	require.NoError(t, r.CreateCategory(ctx, &models.Category{Name: "tools"}))
	err := r.CreateCategory(ctx, &models.Category{Name: "tools"})
	assert.Equal(t, "name", duplicateField(t, err))

	cats, err := r.ListCategories(ctx)
	require.NoError(t, err)
	assert.Len(t, cats, 1)
}

func TestGormRepo_UpdateProduct_ReplacesCategories(t *testing.T) {
	r := testutil.NewSQLiteRepo(t)
	ctx := context.Background()

	tools := &models.Category{Name: "tools"}
	home := &models.Category{Name: "home"}
	require.NoError(t, r.CreateCategory(ctx, tools))
	require.NoError(t, r.CreateCategory(ctx, home))
	p := seedProduct(t, r, "Widget", 10, tools.ID)

	upd := &models.Product{ID: p.ID, Name: "Widget", Stock: 1, Price: decimal.NewFromInt(12), Image: "w.png"}
	require.NoError(t, r.UpdateProduct(ctx, upd, nil))
	require.Len(t, upd.Categories, 1)
	assert.Equal(t, tools.ID, upd.Categories[0].ID)

	upd = &models.Product{ID: p.ID, Name: "Widget", Stock: 1, Price: decimal.NewFromInt(12), Image: "w.png"}
	require.NoError(t, r.UpdateProduct(ctx, upd, []uuid.UUID{home.ID}))
	require.Len(t, upd.Categories, 1)
	assert.Equal(t, home.ID, upd.Categories[0].ID)

	upd = &models.Product{ID: p.ID, Name: "Widget", Stock: 1, Price: decimal.NewFromInt(12), Image: "w.png"}
	require.NoError(t, r.UpdateProduct(ctx, upd, []uuid.UUID{}))
	assert.Empty(t, upd.Categories)

	missing := &models.Product{ID: uuid.New(), Name: "Nope", Price: decimal.NewFromInt(1), Image: "x"}
	assert.ErrorIs(t, r.UpdateProduct(ctx, missing, nil), store.ErrNotFound)
}

func TestGormRepo_DeleteProduct_DropsCartLines(t *testing.T) {
	r := testutil.NewSQLiteRepo(t)
	ctx := context.Background()
	alice := seedUser(t, r, "alice")
	tools := &models.Category{Name: "tools"}
	require.NoError(t, r.CreateCategory(ctx, tools))
	widget := seedProduct(t, r, "Widget", 10, tools.ID)
	gadget := seedProduct(t, r, "Gadget", 3)

	cart, err := r.AddItem(ctx, alice.ID, &models.CartItem{ProductID: widget.ID, Quantity: 1})
	require.NoError(t, err)
	_, err = r.AddItem(ctx, alice.ID, &models.CartItem{ProductID: gadget.ID, Quantity: 2})
	require.NoError(t, err)

	require.NoError(t, r.DeleteProduct(ctx, widget.ID))
	assert.ErrorIs(t, r.DeleteProduct(ctx, widget.ID), store.ErrNotFound)

	lines, err := r.CartLines(ctx, cart.ID)
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, gadget.ID, lines[0].Product.ID)

	var links int64
	require.NoError(t, r.DB.Table("product_categories").Where("product_id = ?", widget.ID).Count(&links).Error)
	assert.Zero(t, links)
}

func TestGormRepo_SearchProducts(t *testing.T) {
	r := testutil.NewSQLiteRepo(t)
	ctx := context.Background()
	seedProduct(t, r, "Blue Widget", 10)
	seedProduct(t, r, "Red Widget", 10)
	seedProduct(t, r, "Gadget", 10)

	total, items, err := r.SearchProducts(ctx, "widget", 0, 1)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	require.Len(t, items, 1)
	assert.Equal(t, "Blue Widget", items[0].Name)
}

func TestGormRepo_AttachCategory(t *testing.T) {
	r := testutil.NewSQLiteRepo(t)
	ctx := context.Background()
	p := seedProduct(t, r, "Widget", 10)
	tools := &models.Category{Name: "tools"}
	require.NoError(t, r.CreateCategory(ctx, tools))

	require.NoError(t, r.AttachCategory(ctx, p.ID, tools.ID))
	require.NoError(t, r.AttachCategory(ctx, p.ID, tools.ID))

	got, err := r.GetProduct(ctx, p.ID)
	require.NoError(t, err)
	assert.Len(t, got.Categories, 1)

	assert.ErrorIs(t, r.AttachCategory(ctx, uuid.New(), tools.ID), store.ErrNotFound)
	assert.ErrorIs(t, r.AttachCategory(ctx, p.ID, uuid.New()), store.ErrNotFound)
}

func TestGormRepo_AddItem_ReusesCartAndKeepsLinesApart(t *testing.T) {
	r := testutil.NewSQLiteRepo(t)
	ctx := context.Background()
	alice := seedUser(t, r, "alice")
	widget := seedProduct(t, r, "Widget", 10)

	first, err := r.AddItem(ctx, alice.ID, &models.CartItem{ProductID: widget.ID, Quantity: 1})
	require.NoError(t, err)
	second, err := r.AddItem(ctx, alice.ID, &models.CartItem{ProductID: widget.ID, Quantity: 1})
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	lines, err := r.CartLines(ctx, first.ID)
	require.NoError(t, err)
	require.Len(t, lines, 2)
	assert.NotEqual(t, lines[0].Item.ID, lines[1].Item.ID)
	assert.Equal(t, 1, lines[0].Item.Quantity)
	assert.True(t, decimal.NewFromInt(20).Equal(models.Total(lines)))
}

func TestGormRepo_OpenCart_Idempotent(t *testing.T) {
	r := testutil.NewSQLiteRepo(t)
	ctx := context.Background()
	alice := seedUser(t, r, "alice")
	widget := seedProduct(t, r, "Widget", 10)

	_, err := r.ActiveCart(ctx, alice.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)

	opened, err := r.OpenCart(ctx, alice.ID)
	require.NoError(t, err)
	again, err := r.OpenCart(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, opened.ID, again.ID)

	cart, err := r.AddItem(ctx, alice.ID, &models.CartItem{ProductID: widget.ID, Quantity: 1})
	require.NoError(t, err)
	assert.Equal(t, opened.ID, cart.ID)
}

func TestGormRepo_AddItem_ConcurrentFirstAddsShareOneCart(t *testing.T) {
	r := testutil.NewSQLiteRepo(t)
	ctx := context.Background()
	alice := seedUser(t, r, "alice")
	widget := seedProduct(t, r, "Widget", 10)

	const n = 8
	var wg sync.WaitGroup
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := r.AddItem(ctx, alice.ID, &models.CartItem{ProductID: widget.ID, Quantity: 1})
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	var carts int64
	require.NoError(t, r.DB.Model(&models.Cart{}).Where("user_id = ?", alice.ID).Count(&carts).Error)
	assert.EqualValues(t, 1, carts)

	cart, err := r.ActiveCart(ctx, alice.ID)
	require.NoError(t, err)
	lines, err := r.CartLines(ctx, cart.ID)
	require.NoError(t, err)
	assert.Len(t, lines, n)
}

func TestGormRepo_CartItemMutations(t *testing.T) {
	r := testutil.NewSQLiteRepo(t)
	ctx := context.Background()
	alice := seedUser(t, r, "alice")
	widget := seedProduct(t, r, "Widget", 10)

	item := &models.CartItem{ProductID: widget.ID, Quantity: 2}
	cart, err := r.AddItem(ctx, alice.ID, item)
	require.NoError(t, err)

	updated, err := r.UpdateItemQuantity(ctx, item.ID, 4)
	require.NoError(t, err)
	assert.Equal(t, 4, updated.Quantity)

	_, err = r.UpdateItemQuantity(ctx, uuid.New(), 3)
	assert.ErrorIs(t, err, store.ErrNotFound)
	got, err := r.GetItem(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, 4, got.Quantity)

	removed, err := r.RemoveItem(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, cart.ID, removed.CartID)
	_, err = r.RemoveItem(ctx, item.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)

	kept, err := r.ActiveCart(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, cart.ID, kept.ID)
	lines, err := r.CartLines(ctx, kept.ID)
	require.NoError(t, err)
	assert.Empty(t, lines)
	assert.True(t, decimal.Zero.Equal(models.Total(lines)))
}

func TestGormRepo_ListTransactions_NewestFirst(t *testing.T) {
	r := testutil.NewSQLiteRepo(t)
	ctx := context.Background()
	alice := seedUser(t, r, "alice")

	for _, amount := range []int64{5, 7} {
		require.NoError(t, r.CreateTransaction(ctx, &models.Transaction{UserID: alice.ID, TotalAmount: decimal.NewFromInt(amount)}))
	}

	txs, err := r.ListTransactions(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, txs, 2)
	assert.False(t, txs[0].CreatedAt.Before(txs[1].CreatedAt))

	none, err := r.ListTransactions(ctx, uuid.New())
	require.NoError(t, err)
	assert.Empty(t, none)
}
