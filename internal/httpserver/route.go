package httpserver

import (
	"context"
	"net/http"
	"time"

	"github.com/Skotchmaster/sdp_shop/pkg/logging"
	"github.com/labstack/echo/v4"
)

// Pinger reports whether the backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Deps struct {
	Store          Pinger
	UserHandler    *UserHTTP
	CatalogHandler *CatalogHTTP
	CartHandler    *CartHTTP
	LedgerHandler  *LedgerHTTP
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", d.ready)

	users := e.Group("/users")
	users.GET("", d.UserHandler.ListUsers)
	users.POST("", d.UserHandler.Register)
	users.GET("/:id", d.UserHandler.GetUser)
	users.PUT("/:id", d.UserHandler.UpdateUser)
	users.DELETE("/:id", d.UserHandler.DeleteUser)

	products := e.Group("/products")
	products.GET("/search", d.CatalogHandler.SearchProducts)
	products.GET("", d.CatalogHandler.GetProducts)
	products.GET("/:id", d.CatalogHandler.GetProduct)
	products.POST("", d.CatalogHandler.CreateProduct)
	products.PUT("/:id", d.CatalogHandler.UpdateProduct)
	products.DELETE("/:id", d.CatalogHandler.DeleteProduct)

	e.GET("/categories", d.CatalogHandler.GetCategories)
	e.POST("/categories", d.CatalogHandler.CreateCategory)
	e.POST("/product-category", d.CatalogHandler.AttachCategory)

	cart := e.Group("/cart")
	cart.PUT("/items/:cartItemId", d.CartHandler.UpdateItem)
	cart.DELETE("/items/:cartItemId", d.CartHandler.RemoveItem)
	cart.GET("/:userId", d.CartHandler.GetCart)
	cart.POST("/:userId/items", d.CartHandler.AddItem)
	e.POST("/carts", d.CartHandler.OpenCart)
	e.GET("/carts/:userId", d.CartHandler.Summary)

	e.POST("/transactions", d.LedgerHandler.CreateTransaction)
	e.GET("/transactions/:userId", d.LedgerHandler.ListTransactions)
}

func (d *Deps) ready(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
	defer cancel()

	if err := d.Store.Ping(ctx); err != nil {
		logging.FromContext(ctx).Warn("readiness_failed", "status", http.StatusServiceUnavailable, "error", err)
		return c.NoContent(http.StatusServiceUnavailable)
	}
	return c.NoContent(http.StatusOK)
}
