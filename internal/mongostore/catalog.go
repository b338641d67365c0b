package mongostore

import (
	"context"
	"regexp"
	"strings"
	"time"

	"github.com/Skotchmaster/sdp_shop/internal/models"
	"github.com/Skotchmaster/sdp_shop/internal/store"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type categoryDoc struct {
	ID   string `bson:"_id"`
	Name string `bson:"name"`
}

type productDoc struct {
	ID          string               `bson:"_id"`
	Name        string               `bson:"name"`
	Stock       int                  `bson:"stock"`
	Price       primitive.Decimal128 `bson:"price"`
	Image       string               `bson:"image"`
	Description string               `bson:"description"`
	CategoryIDs []string             `bson:"category_ids"`
	CreatedAt   time.Time            `bson:"created_at"`
}

func (d productDoc) model(cats map[string]models.Category) models.Product {
	p := models.Product{
		ID:          parseID(d.ID),
		Name:        d.Name,
		Stock:       d.Stock,
		Price:       fromDecimal128(d.Price),
		Image:       d.Image,
		Description: d.Description,
		Categories:  []models.Category{},
		CreatedAt:   d.CreatedAt,
	}
	for _, id := range d.CategoryIDs {
		if c, ok := cats[id]; ok {
			p.Categories = append(p.Categories, c)
		}
	}
	return p
}

// hydrate resolves the category ids of docs in one query.
func (s *MongoStore) hydrate(ctx context.Context, docs []productDoc) ([]models.Product, error) {
	seen := map[string]struct{}{}
	ids := []string{}
	for _, d := range docs {
		for _, id := range d.CategoryIDs {
			if _, ok := seen[id]; !ok {
				seen[id] = struct{}{}
				ids = append(ids, id)
			}
		}
	}

	cats := map[string]models.Category{}
	if len(ids) > 0 {
		found, err := s.findCategories(ctx, ids)
		if err != nil {
			return nil, err
		}
		for _, c := range found {
			cats[c.ID.String()] = c
		}
	}

	products := make([]models.Product, 0, len(docs))
	for _, d := range docs {
		products = append(products, d.model(cats))
	}
	return products, nil
}

func (s *MongoStore) findCategories(ctx context.Context, ids []string) ([]models.Category, error) {
	filter := bson.D{{Key: "_id", Value: bson.D{{Key: "$in", Value: ids}}}}
	cur, err := s.col(colCategories).Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		return nil, err
	}
	var docs []categoryDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}

	cats := make([]models.Category, 0, len(docs))
	for _, d := range docs {
		cats = append(cats, models.Category{ID: parseID(d.ID), Name: d.Name})
	}
	return cats, nil
}

func (s *MongoStore) findProducts(ctx context.Context, filter any, opts *options.FindOptions) ([]models.Product, error) {
	cur, err := s.col(colProducts).Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	var docs []productDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	return s.hydrate(ctx, docs)
}

func (s *MongoStore) ListProducts(ctx context.Context) ([]models.Product, error) {
	return s.findProducts(ctx, bson.D{}, options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}}))
}

func (s *MongoStore) GetProduct(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var doc productDoc
	if err := s.col(colProducts).FindOne(ctx, byID(id)).Decode(&doc); err != nil {
		return nil, notFound(err)
	}
	products, err := s.hydrate(ctx, []productDoc{doc})
	if err != nil {
		return nil, err
	}
	return &products[0], nil
}

func (s *MongoStore) nameTaken(ctx context.Context, name string, exclude uuid.UUID) error {
	filter := bson.D{{Key: "name", Value: name}}
	if exclude != uuid.Nil {
		filter = append(filter, bson.E{Key: "_id", Value: bson.D{{Key: "$ne", Value: exclude.String()}}})
	}
	n, err := s.col(colProducts).CountDocuments(ctx, filter)
	if err != nil {
		return err
	}
	if n > 0 {
		return &store.DuplicateError{Field: "name"}
	}
	return nil
}

// resolveCategories returns the categories for ids, or ErrInvalidReference
// when any of them is unknown.
func (s *MongoStore) resolveCategories(ctx context.Context, ids []uuid.UUID) ([]models.Category, error) {
	if len(ids) == 0 {
		return []models.Category{}, nil
	}
	unique := map[uuid.UUID]struct{}{}
	for _, id := range ids {
		unique[id] = struct{}{}
	}

	cats, err := s.findCategories(ctx, idStrings(ids))
	if err != nil {
		return nil, err
	}
	if len(cats) != len(unique) {
		return nil, store.ErrInvalidReference
	}
	return cats, nil
}

func categoryIDs(cats []models.Category) []string {
	ids := make([]string, 0, len(cats))
	for _, c := range cats {
		ids = append(ids, c.ID.String())
	}
	return ids
}

func (s *MongoStore) CreateProduct(ctx context.Context, p *models.Product, ids []uuid.UUID) error {
	if err := s.nameTaken(ctx, p.Name, uuid.Nil); err != nil {
		return err
	}
	cats, err := s.resolveCategories(ctx, ids)
	if err != nil {
		return err
	}

	p.AssignID()
	p.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)
	doc := productDoc{
		ID:          p.ID.String(),
		Name:        p.Name,
		Stock:       p.Stock,
		Price:       toDecimal128(p.Price),
		Image:       p.Image,
		Description: p.Description,
		CategoryIDs: categoryIDs(cats),
		CreatedAt:   p.CreatedAt,
	}
	if _, err := s.col(colProducts).InsertOne(ctx, doc); err != nil {
		return duplicate(err)
	}
	p.Categories = cats
	return nil
}

func (s *MongoStore) UpdateProduct(ctx context.Context, p *models.Product, ids []uuid.UUID) error {
	if _, err := s.GetProduct(ctx, p.ID); err != nil {
		return err
	}
	if err := s.nameTaken(ctx, p.Name, p.ID); err != nil {
		return err
	}

	set := bson.D{
		{Key: "name", Value: p.Name},
		{Key: "stock", Value: p.Stock},
		{Key: "price", Value: toDecimal128(p.Price)},
		{Key: "image", Value: p.Image},
		{Key: "description", Value: p.Description},
	}
	if ids != nil {
		cats, err := s.resolveCategories(ctx, ids)
		if err != nil {
			return err
		}
		set = append(set, bson.E{Key: "category_ids", Value: categoryIDs(cats)})
	}

	res, err := s.col(colProducts).UpdateOne(ctx, byID(p.ID), bson.D{{Key: "$set", Value: set}})
	if err != nil {
		return duplicate(err)
	}
	if res.MatchedCount == 0 {
		return store.ErrNotFound
	}

	fresh, err := s.GetProduct(ctx, p.ID)
	if err != nil {
		return err
	}
	*p = *fresh
	return nil
}

// DeleteProduct drops the cart lines that reference the product, then the
// product. Category links live on the product document and go with it.
func (s *MongoStore) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	if _, err := s.GetProduct(ctx, id); err != nil {
		return err
	}
	return s.atomic(ctx, func(ctx context.Context) error {
		if _, err := s.col(colCartItems).DeleteMany(ctx, bson.D{{Key: "product_id", Value: id.String()}}); err != nil {
			return err
		}
		res, err := s.col(colProducts).DeleteOne(ctx, byID(id))
		if err != nil {
			return err
		}
		if res.DeletedCount == 0 {
			return store.ErrNotFound
		}
		return nil
	})
}

func (s *MongoStore) SearchProducts(ctx context.Context, q string, offset, limit int) (int64, []models.Product, error) {
	pattern := primitive.Regex{Pattern: regexp.QuoteMeta(strings.TrimSpace(q)), Options: "i"}
	filter := bson.D{{Key: "$or", Value: bson.A{
		bson.D{{Key: "name", Value: pattern}},
		bson.D{{Key: "description", Value: pattern}},
	}}}

	total, err := s.col(colProducts).CountDocuments(ctx, filter)
	if err != nil {
		return 0, nil, err
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "name", Value: 1}}).
		SetSkip(int64(offset)).
		SetLimit(int64(limit))
	items, err := s.findProducts(ctx, filter, opts)
	if err != nil {
		return 0, nil, err
	}
	return total, items, nil
}

func (s *MongoStore) ListCategories(ctx context.Context) ([]models.Category, error) {
	cur, err := s.col(colCategories).Find(ctx, bson.D{}, options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		return nil, err
	}
	var docs []categoryDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}

	cats := make([]models.Category, 0, len(docs))
	for _, d := range docs {
		cats = append(cats, models.Category{ID: parseID(d.ID), Name: d.Name})
	}
	return cats, nil
}

func (s *MongoStore) CreateCategory(ctx context.Context, c *models.Category) error {
	n, err := s.col(colCategories).CountDocuments(ctx, bson.D{{Key: "name", Value: c.Name}})
	if err != nil {
		return err
	}
	if n > 0 {
		return &store.DuplicateError{Field: "name"}
	}

	c.AssignID()
	_, err = s.col(colCategories).InsertOne(ctx, categoryDoc{ID: c.ID.String(), Name: c.Name})
	return duplicate(err)
}

func (s *MongoStore) AttachCategory(ctx context.Context, productID, categoryID uuid.UUID) error {
	n, err := s.col(colCategories).CountDocuments(ctx, byID(categoryID))
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}

	update := bson.D{{Key: "$addToSet", Value: bson.D{{Key: "category_ids", Value: categoryID.String()}}}}
	res, err := s.col(colProducts).UpdateOne(ctx, byID(productID), update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return store.ErrNotFound
	}
	return nil
}
