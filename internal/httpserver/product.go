package httpserver

import (
	"net/http"

	"github.com/Skotchmaster/sdp_shop/internal/service"
	"github.com/Skotchmaster/sdp_shop/internal/transport"
	"github.com/Skotchmaster/sdp_shop/internal/util"
	"github.com/Skotchmaster/sdp_shop/pkg/i18n"
	"github.com/Skotchmaster/sdp_shop/pkg/logging"
	"github.com/labstack/echo/v4"
)

type CatalogHTTP struct {
	Svc *service.CatalogService
	T   *i18n.Translator
}

func (h *CatalogHTTP) GetProducts(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.get_products")

	products, err := h.Svc.ListProducts(ctx)
	if err != nil {
		return failure(l, h.T, "get_products_error", err)
	}

	return c.JSON(http.StatusOK, products)
}

func (h *CatalogHTTP) GetProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.get_product")

	id, err := pathID(c, "id")
	if err != nil {
		return badRequest(l, h.T, "get_product_error", i18n.InvalidID, err)
	}

	product, err := h.Svc.GetProduct(ctx, id)
	if err != nil {
		return failure(l, h.T, "get_product_error", err)
	}

	return c.JSON(http.StatusOK, product)
}

func (h *CatalogHTTP) SearchProducts(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.search_products")

	page := util.ParseIntDefault(c.QueryParam("page"), 1)
	size := util.ParseIntDefault(c.QueryParam("size"), util.DefaultPageSize)

	res, err := h.Svc.SearchProducts(ctx, c.QueryParam("q"), page, size)
	if err != nil {
		return failure(l, h.T, "search_products_error", err)
	}

	return c.JSON(http.StatusOK, map[string]any{
		"total":       res.Total,
		"page":        res.Page,
		"size":        res.Size,
		"total_pages": util.TotalPages(res.Total, res.Size),
		"products":    res.Products,
	})
}

func (h *CatalogHTTP) CreateProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.create_product")

	var req transport.ProductRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(l, h.T, "create_product_error", i18n.InvalidBody, err)
	}

	product, err := h.Svc.CreateProduct(ctx, req)
	if err != nil {
		return failure(l, h.T, "create_product_error", err)
	}

	l.Info("create_product_success", "product_id", product.ID)
	return c.JSON(http.StatusCreated, transport.ProductCreatedResponse{
		ProductID: product.ID,
		Message:   h.T.T(i18n.ProductCreated),
	})
}

func (h *CatalogHTTP) UpdateProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.update_product")

	id, err := pathID(c, "id")
	if err != nil {
		return badRequest(l, h.T, "update_product_error", i18n.InvalidID, err)
	}

	var req transport.ProductRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(l, h.T, "update_product_error", i18n.InvalidBody, err)
	}

	if _, err := h.Svc.UpdateProduct(ctx, id, req); err != nil {
		return failure(l, h.T, "update_product_error", err)
	}

	l.Info("update_product_success", "product_id", id)
	return c.JSON(http.StatusOK, message(h.T, i18n.ProductUpdated))
}

func (h *CatalogHTTP) DeleteProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.delete_product")

	id, err := pathID(c, "id")
	if err != nil {
		return badRequest(l, h.T, "delete_product_error", i18n.InvalidID, err)
	}

	if err := h.Svc.DeleteProduct(ctx, id); err != nil {
		return failure(l, h.T, "delete_product_error", err)
	}

	l.Info("delete_product_success", "product_id", id)
	return c.JSON(http.StatusOK, message(h.T, i18n.ProductDeleted))
}

func (h *CatalogHTTP) GetCategories(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "category.get_categories")

	cats, err := h.Svc.ListCategories(ctx)
	if err != nil {
		return failure(l, h.T, "get_categories_error", err)
	}

	return c.JSON(http.StatusOK, cats)
}

func (h *CatalogHTTP) CreateCategory(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "category.create_category")

	var req transport.CreateCategoryRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(l, h.T, "create_category_error", i18n.InvalidBody, err)
	}

	cat, err := h.Svc.CreateCategory(ctx, req)
	if err != nil {
		return failure(l, h.T, "create_category_error", err)
	}

	l.Info("create_category_success", "category_id", cat.ID)
	return c.JSON(http.StatusCreated, transport.CategoryCreatedResponse{CategoryID: cat.ID})
}

func (h *CatalogHTTP) AttachCategory(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "category.attach_category")

	var req transport.AttachCategoryRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(l, h.T, "attach_category_error", i18n.InvalidBody, err)
	}

	if err := h.Svc.AttachCategory(ctx, req); err != nil {
		return failure(l, h.T, "attach_category_error", err)
	}

	l.Info("attach_category_success", "product_id", req.ProductID, "category_id", req.CategoryID)
	return c.JSON(http.StatusOK, message(h.T, i18n.ProductCategoryAdded))
}
