package httpserver

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Skotchmaster/sdp_shop/internal/models"
	"github.com/Skotchmaster/sdp_shop/internal/service"
	"github.com/Skotchmaster/sdp_shop/internal/testutil"
	"github.com/Skotchmaster/sdp_shop/pkg/events"
	"github.com/Skotchmaster/sdp_shop/pkg/i18n"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testEnv struct {
	E    *echo.Echo
	Deps *Deps
}

func newTestEnv(t *testing.T, locale string) *testEnv {
	t.Helper()

	r := testutil.NewSQLiteRepo(t)
	tr := i18n.New(locale)
	pub := events.Nop{}

	d := &Deps{
		Store:          r,
		UserHandler:    &UserHTTP{Svc: &service.AccountService{Store: r, Events: pub}, T: tr},
		CatalogHandler: &CatalogHTTP{Svc: &service.CatalogService{Store: r, Events: pub}, T: tr},
		CartHandler:    &CartHTTP{Svc: &service.CartService{Store: r, Events: pub}, T: tr},
		LedgerHandler:  &LedgerHTTP{Svc: &service.LedgerService{Store: r}, T: tr},
	}
	e := echo.New()
	Register(e, d)
	return &testEnv{E: e, Deps: d}
}

func (env *testEnv) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	env.E.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func (env *testEnv) register(t *testing.T, username string) string {
	t.Helper()
	rec := env.do(t, http.MethodPost, "/users", `{"username":"`+username+`","password":"secret","email":"`+username+`@example.com"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return decode[map[string]string](t, rec)["userId"]
}

func (env *testEnv) product(t *testing.T, name, price string) string {
	t.Helper()
	rec := env.do(t, http.MethodPost, "/products", `{"name":"`+name+`","price":"`+price+`","stock":5,"image":"https://img.example/x.png"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return decode[map[string]string](t, rec)["productId"]
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t, "en")

	assert.Equal(t, http.StatusOK, env.do(t, http.MethodGet, "/health/live", "").Code)
	assert.Equal(t, http.StatusOK, env.do(t, http.MethodGet, "/health/ready", "").Code)
}

func TestUsers(t *testing.T) {
	env := newTestEnv(t, "en")

	id := env.register(t, "alice")

	rec := env.do(t, http.MethodPost, "/users", `{"username":"alice","password":"p","email":"other@example.com"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "username already exists", decode[map[string]string](t, rec)["message"])

	rec = env.do(t, http.MethodGet, "/users/"+id, "")
	require.Equal(t, http.StatusOK, rec.Code)
	user := decode[map[string]any](t, rec)
	assert.Equal(t, "alice", user["username"])
	assert.NotContains(t, user, "passwordHash")

	rec = env.do(t, http.MethodPut, "/users/"+id, `{"username":"alice","password":"p2","email":"alice@example.com","role":"admin"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "User updated successfully", decode[map[string]string](t, rec)["message"])

	rec = env.do(t, http.MethodGet, "/users", "")
	require.Equal(t, http.StatusOK, rec.Code)
	users := decode[[]models.User](t, rec)
	require.Len(t, users, 1)
	assert.Equal(t, "admin", users[0].Role)

	rec = env.do(t, http.MethodDelete, "/users/"+id, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, http.StatusNotFound, env.do(t, http.MethodGet, "/users/"+id, "").Code)
	assert.Equal(t, http.StatusBadRequest, env.do(t, http.MethodGet, "/users/not-a-uuid", "").Code)
}

func TestRegister_LocalizedValidation(t *testing.T) {
	env := newTestEnv(t, "id")

	rec := env.do(t, http.MethodPost, "/users", `{"username":"","password":"p","email":"a@example.com"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Username, email, dan password wajib diisi", decode[map[string]string](t, rec)["message"])

	rec = env.do(t, http.MethodPost, "/users", `{"username":`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Format permintaan tidak valid", decode[map[string]string](t, rec)["message"])
}

func TestProducts(t *testing.T) {
	env := newTestEnv(t, "en")

	rec := env.do(t, http.MethodPost, "/categories", `{"categoryName":"Tools"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	catID := decode[map[string]string](t, rec)["categoryId"]

	rec = env.do(t, http.MethodPost, "/products", `{"name":"Hammer","price":"19.90","stock":"7","image":"https://img.example/h.png","categoryIds":["`+catID+`"]}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	id := decode[map[string]string](t, rec)["productId"]

	rec = env.do(t, http.MethodGet, "/products/"+id, "")
	require.Equal(t, http.StatusOK, rec.Code)
	p := decode[models.Product](t, rec)
	assert.True(t, decimal.RequireFromString("19.9").Equal(p.Price))
	assert.Equal(t, "19.9", decode[map[string]any](t, rec)["price"], "prices travel as exact decimal strings")
	assert.Equal(t, 7, p.Stock)
	require.Len(t, p.Categories, 1)
	assert.Equal(t, "Tools", p.Categories[0].Name)

	rec = env.do(t, http.MethodPost, "/products", `{"name":"Hammer","price":1,"stock":1,"image":"x"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "A product with that name already exists", decode[map[string]string](t, rec)["message"])

	rec = env.do(t, http.MethodPost, "/products", `{"name":"Saw","price":"abc","stock":1,"image":"x"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Price must be a positive number", decode[map[string]string](t, rec)["message"])

	rec = env.do(t, http.MethodPut, "/products/"+id, `{"name":"Hammer","price":25,"stock":1,"image":"x"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = env.do(t, http.MethodPut, "/products/"+uuid.NewString(), `{"name":"Ghost","price":25,"stock":1,"image":"x"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = env.do(t, http.MethodGet, "/products/search?q=hamm", "")
	require.Equal(t, http.StatusOK, rec.Code)
	res := decode[map[string]any](t, rec)
	assert.EqualValues(t, 1, res["total"])

	rec = env.do(t, http.MethodGet, "/products", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]models.Product](t, rec), 1)

	rec = env.do(t, http.MethodDelete, "/products/"+id, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, http.StatusNotFound, env.do(t, http.MethodDelete, "/products/"+id, "").Code)
}

func TestCategories(t *testing.T) {
	env := newTestEnv(t, "en")
	productID := env.product(t, "Hammer", "10")

	rec := env.do(t, http.MethodPost, "/categories", `{"categoryName":"Tools"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	catID := decode[map[string]string](t, rec)["categoryId"]

	assert.Equal(t, http.StatusBadRequest, env.do(t, http.MethodPost, "/categories", `{"categoryName":"Tools"}`).Code)
	assert.Equal(t, http.StatusBadRequest, env.do(t, http.MethodPost, "/categories", `{}`).Code)

	rec = env.do(t, http.MethodPost, "/product-category", `{"productId":"`+productID+`","categoryId":"`+catID+`"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = env.do(t, http.MethodPost, "/product-category", `{"productId":"`+uuid.NewString()+`","categoryId":"`+catID+`"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = env.do(t, http.MethodGet, "/categories", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]models.Category](t, rec), 1)
}

func TestCartFlow(t *testing.T) {
	env := newTestEnv(t, "en")
	userID := env.register(t, "alice")
	productID := env.product(t, "Widget", "10.00")

	rec := env.do(t, http.MethodGet, "/cart/"+userID, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
	assert.Equal(t, http.StatusNotFound, env.do(t, http.MethodGet, "/carts/"+userID, "").Code)

	rec = env.do(t, http.MethodPost, "/cart/"+userID+"/items", `{"productId":"`+productID+`","quantity":2}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	itemID := decode[map[string]string](t, rec)["cartItemId"]

	rec = env.do(t, http.MethodGet, "/carts/"+userID, "")
	require.Equal(t, http.StatusOK, rec.Code)
	summary := decode[models.CartSummary](t, rec)
	assert.True(t, decimal.NewFromInt(20).Equal(summary.Total), summary.Total.String())

	rec = env.do(t, http.MethodPut, "/cart/items/"+itemID, `{"quantity":"4"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = env.do(t, http.MethodGet, "/cart/"+userID, "")
	require.Equal(t, http.StatusOK, rec.Code)
	lines := decode[[]models.CartLine](t, rec)
	require.Len(t, lines, 1)
	assert.Equal(t, 4, lines[0].Item.Quantity)
	assert.Equal(t, "Widget", lines[0].Product.Name)

	rec = env.do(t, http.MethodDelete, "/cart/items/"+itemID, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, http.StatusNotFound, env.do(t, http.MethodDelete, "/cart/items/"+itemID, "").Code)

	rec = env.do(t, http.MethodGet, "/carts/"+userID, "")
	require.Equal(t, http.StatusOK, rec.Code)
	summary = decode[models.CartSummary](t, rec)
	assert.True(t, summary.Total.IsZero())
	assert.Zero(t, summary.ItemCount)
}

func TestOpenCart(t *testing.T) {
	env := newTestEnv(t, "en")
	userID := env.register(t, "alice")
	productID := env.product(t, "Widget", "10")

	rec := env.do(t, http.MethodPost, "/carts", `{"userId":"`+userID+`"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	cartID := decode[map[string]string](t, rec)["cartId"]
	require.NotEmpty(t, cartID)

	rec = env.do(t, http.MethodPost, "/carts", `{"userId":"`+userID+`"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, cartID, decode[map[string]string](t, rec)["cartId"])

	rec = env.do(t, http.MethodGet, "/carts/"+userID, "")
	require.Equal(t, http.StatusOK, rec.Code)
	summary := decode[models.CartSummary](t, rec)
	assert.Equal(t, cartID, summary.Cart.ID.String())
	assert.Zero(t, summary.ItemCount)

	rec = env.do(t, http.MethodPost, "/cart/"+userID+"/items", `{"productId":"`+productID+`","quantity":1}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	rec = env.do(t, http.MethodGet, "/carts/"+userID, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, cartID, decode[models.CartSummary](t, rec).Cart.ID.String())

	tests := []struct {
		name   string
		body   string
		status int
		msg    string
	}{
		{name: "missing user", body: `{}`, status: http.StatusBadRequest, msg: "User id is required"},
		{name: "malformed user", body: `{"userId":"abc"}`, status: http.StatusBadRequest},
		{name: "unknown user", body: `{"userId":"` + uuid.NewString() + `"}`, status: http.StatusNotFound},
		{name: "malformed body", body: `{"userId":`, status: http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := env.do(t, http.MethodPost, "/carts", tt.body)
			assert.Equal(t, tt.status, rec.Code, rec.Body.String())
			got := decode[map[string]string](t, rec)["message"]
			assert.NotEmpty(t, got)
			if tt.msg != "" {
				assert.Equal(t, tt.msg, got)
			}
		})
	}
}

func TestCartErrors(t *testing.T) {
	env := newTestEnv(t, "en")
	userID := env.register(t, "alice")
	productID := env.product(t, "Widget", "10")

	tests := []struct {
		name   string
		method string
		path   string
		body   string
		status int
	}{
		{name: "malformed user id", method: http.MethodPost, path: "/cart/abc/items", body: `{"productId":"` + productID + `","quantity":1}`, status: http.StatusBadRequest},
		{name: "zero quantity", method: http.MethodPost, path: "/cart/" + userID + "/items", body: `{"productId":"` + productID + `","quantity":0}`, status: http.StatusBadRequest},
		{name: "unknown product", method: http.MethodPost, path: "/cart/" + userID + "/items", body: `{"productId":"` + uuid.NewString() + `","quantity":1}`, status: http.StatusNotFound},
		{name: "update missing item", method: http.MethodPut, path: "/cart/items/" + uuid.NewString(), body: `{"quantity":1}`, status: http.StatusNotFound},
		{name: "malformed item id", method: http.MethodDelete, path: "/cart/items/xyz", status: http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := env.do(t, tt.method, tt.path, tt.body)
			assert.Equal(t, tt.status, rec.Code, rec.Body.String())
			assert.NotEmpty(t, decode[map[string]string](t, rec)["message"])
		})
	}
}

func TestTransactions(t *testing.T) {
	env := newTestEnv(t, "en")
	userID := env.register(t, "alice")

	rec := env.do(t, http.MethodPost, "/transactions", `{"userId":"`+userID+`","totalAmount":"40.00"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decode[map[string]string](t, rec)
	assert.NotEmpty(t, created["transactionId"])
	assert.Equal(t, "Transaction recorded", created["message"])

	rec = env.do(t, http.MethodPost, "/transactions", `{"userId":"`+userID+`","totalAmount":-1}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(t, http.MethodPost, "/transactions", `{"userId":"`+uuid.NewString()+`","totalAmount":1}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = env.do(t, http.MethodGet, "/transactions/"+userID, "")
	require.Equal(t, http.StatusOK, rec.Code)
	txs := decode[[]models.Transaction](t, rec)
	require.Len(t, txs, 1)
	assert.True(t, decimal.NewFromInt(40).Equal(txs[0].TotalAmount))
}

func TestGetProduct_DirectContext(t *testing.T) {
	env := newTestEnv(t, "en")

	req := httptest.NewRequest(http.MethodGet, "/products/"+uuid.NewString(), nil)
	rec := httptest.NewRecorder()
	c := env.E.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("bad")

	err := env.Deps.CatalogHandler.GetProduct(c)
	var he *echo.HTTPError
	require.ErrorAs(t, err, &he)
	assert.Equal(t, http.StatusBadRequest, he.Code)
	assert.Equal(t, "Invalid id", he.Message)
}
