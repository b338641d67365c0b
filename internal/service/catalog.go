package service

import (
	"context"
	"errors"
	"strings"

	"github.com/Skotchmaster/sdp_shop/internal/models"
	"github.com/Skotchmaster/sdp_shop/internal/store"
	"github.com/Skotchmaster/sdp_shop/internal/transport"
	"github.com/Skotchmaster/sdp_shop/internal/util"
	"github.com/Skotchmaster/sdp_shop/pkg/events"
	"github.com/Skotchmaster/sdp_shop/pkg/i18n"
	"github.com/Skotchmaster/sdp_shop/pkg/logging"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// maxPrice is the first value that no longer fits numeric(12,2).
var maxPrice = decimal.New(1, 10)

// ProductIndex is the full text index kept next to the catalog.
type ProductIndex interface {
	Index(ctx context.Context, p models.Product) error
	Delete(ctx context.Context, id uuid.UUID) error
	Search(ctx context.Context, query string, from, size int) (int64, []models.Product, error)
}

type CatalogService struct {
	Store  store.Catalog
	Index  ProductIndex
	Events events.Publisher
}

type SearchResult struct {
	Total    int64
	Page     int
	Size     int
	Products []models.Product
}

func productStoreError(err error) error {
	var dup *store.DuplicateError
	switch {
	case errors.As(err, &dup):
		return conflict("name", i18n.ProductDuplicate)
	case errors.Is(err, store.ErrInvalidReference):
		return invalid("categoryIds", i18n.CategoryInvalid)
	case errors.Is(err, store.ErrNotFound):
		return notFound(i18n.ProductNotFound, err)
	}
	return err
}

// parseProduct validates a product body. The returned ids are nil when the
// body carries no categoryIds.
func parseProduct(req transport.ProductRequest) (*models.Product, []uuid.UUID, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, nil, invalid("name", i18n.ProductNameRequired)
	}

	price, ok := req.Price.Decimal()
	if !ok {
		return nil, nil, invalid("price", i18n.ProductPriceInvalid)
	}
	price = price.Round(2)
	if !price.IsPositive() || price.GreaterThanOrEqual(maxPrice) {
		return nil, nil, invalid("price", i18n.ProductPriceInvalid)
	}

	stock, ok := req.Stock.Int()
	if !ok || stock < 0 {
		return nil, nil, invalid("stock", i18n.ProductStockInvalid)
	}

	image := strings.TrimSpace(req.Image)
	if image == "" {
		return nil, nil, invalid("image", i18n.ProductImageRequired)
	}

	p := &models.Product{
		Name:  name,
		Stock: stock,
		Price: price,
		Image: image,
	}
	if req.Description != nil {
		p.Description = strings.TrimSpace(*req.Description)
	}

	var ids []uuid.UUID
	if req.CategoryIDs != nil {
		ids = make([]uuid.UUID, 0, len(*req.CategoryIDs))
		for _, raw := range *req.CategoryIDs {
			id, err := uuid.Parse(strings.TrimSpace(raw))
			if err != nil {
				return nil, nil, invalid("categoryIds", i18n.CategoryInvalid)
			}
			ids = append(ids, id)
		}
	}
	return p, ids, nil
}

func (s *CatalogService) GetProduct(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	p, err := s.Store.GetProduct(ctx, id)
	if err != nil {
		return nil, productStoreError(err)
	}
	return p, nil
}

func (s *CatalogService) ListProducts(ctx context.Context) ([]models.Product, error) {
	return s.Store.ListProducts(ctx)
}

func (s *CatalogService) CreateProduct(ctx context.Context, req transport.ProductRequest) (*models.Product, error) {
	p, ids, err := parseProduct(req)
	if err != nil {
		return nil, err
	}
	if err := s.Store.CreateProduct(ctx, p, ids); err != nil {
		return nil, productStoreError(err)
	}

	s.reindex(ctx, p)
	s.emit(ctx, "product_created", p)
	return p, nil
}

func (s *CatalogService) UpdateProduct(ctx context.Context, id uuid.UUID, req transport.ProductRequest) (*models.Product, error) {
	p, ids, err := parseProduct(req)
	if err != nil {
		return nil, err
	}
	p.ID = id
	if err := s.Store.UpdateProduct(ctx, p, ids); err != nil {
		return nil, productStoreError(err)
	}

	s.reindex(ctx, p)
	s.emit(ctx, "product_updated", p)
	return p, nil
}

func (s *CatalogService) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	if err := s.Store.DeleteProduct(ctx, id); err != nil {
		return productStoreError(err)
	}

	if s.Index != nil {
		if err := s.Index.Delete(ctx, id); err != nil {
			logging.FromContext(ctx).Warn("search_index_error", "op", "delete", "product_id", id, "error", err)
		}
	}
	events.Emit(ctx, s.Events, events.TopicProducts, id.String(), events.Event{
		"type":      "product_deleted",
		"productId": id,
	})
	return nil
}

// SearchProducts asks the search index first and falls back to the store when
// no index is configured or the index fails.
func (s *CatalogService) SearchProducts(ctx context.Context, q string, page, size int) (*SearchResult, error) {
	offset, limit := util.Calculate(page, size)
	page = min(max(page, 1), util.MaxPage)
	res := &SearchResult{Page: page, Size: limit, Products: []models.Product{}}

	q = strings.TrimSpace(q)
	if q == "" {
		return res, nil
	}

	if s.Index != nil {
		total, items, err := s.Index.Search(ctx, q, offset, limit)
		if err == nil {
			res.Total, res.Products = total, items
			return res, nil
		}
		logging.FromContext(ctx).Warn("search_index_error", "op", "search", "error", err)
	}

	total, items, err := s.Store.SearchProducts(ctx, q, offset, limit)
	if err != nil {
		return nil, err
	}
	res.Total, res.Products = total, items
	return res, nil
}

func (s *CatalogService) ListCategories(ctx context.Context) ([]models.Category, error) {
	return s.Store.ListCategories(ctx)
}

func (s *CatalogService) CreateCategory(ctx context.Context, req transport.CreateCategoryRequest) (*models.Category, error) {
	name := strings.TrimSpace(req.CategoryName)
	if name == "" {
		return nil, invalid("categoryName", i18n.CategoryNameRequired)
	}

	c := &models.Category{Name: name}
	if err := s.Store.CreateCategory(ctx, c); err != nil {
		var dup *store.DuplicateError
		if errors.As(err, &dup) {
			return nil, conflict("categoryName", i18n.CategoryDuplicate)
		}
		return nil, err
	}
	return c, nil
}

func (s *CatalogService) AttachCategory(ctx context.Context, req transport.AttachCategoryRequest) error {
	productID, err := uuid.Parse(strings.TrimSpace(req.ProductID))
	if err != nil {
		return invalid("productId", i18n.InvalidID)
	}
	categoryID, err := uuid.Parse(strings.TrimSpace(req.CategoryID))
	if err != nil {
		return invalid("categoryId", i18n.InvalidID)
	}

	if _, err := s.Store.GetProduct(ctx, productID); err != nil {
		return productStoreError(err)
	}
	if err := s.Store.AttachCategory(ctx, productID, categoryID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return notFound(i18n.CategoryNotFound, err)
		}
		return err
	}

	if p, err := s.Store.GetProduct(ctx, productID); err == nil {
		s.reindex(ctx, p)
	}
	events.Emit(ctx, s.Events, events.TopicProducts, productID.String(), events.Event{
		"type":       "product_category_added",
		"productId":  productID,
		"categoryId": categoryID,
	})
	return nil
}

func (s *CatalogService) reindex(ctx context.Context, p *models.Product) {
	if s.Index == nil {
		return
	}
	if err := s.Index.Index(ctx, *p); err != nil {
		logging.FromContext(ctx).Warn("search_index_error", "op", "index", "product_id", p.ID, "error", err)
	}
}

func (s *CatalogService) emit(ctx context.Context, typ string, p *models.Product) {
	events.Emit(ctx, s.Events, events.TopicProducts, p.ID.String(), events.Event{
		"type":      typ,
		"productId": p.ID,
		"name":      p.Name,
		"price":     p.Price,
		"stock":     p.Stock,
	})
}
