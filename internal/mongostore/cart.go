package mongostore

import (
	"context"
	"time"

	"github.com/Skotchmaster/sdp_shop/internal/models"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type cartDoc struct {
	ID        string    `bson:"_id"`
	UserID    string    `bson:"user_id"`
	CreatedAt time.Time `bson:"created_at"`
}

func (d cartDoc) model() models.Cart {
	return models.Cart{ID: parseID(d.ID), UserID: parseID(d.UserID), CreatedAt: d.CreatedAt}
}

type cartItemDoc struct {
	ID        string    `bson:"_id"`
	CartID    string    `bson:"cart_id"`
	ProductID string    `bson:"product_id"`
	Quantity  int       `bson:"quantity"`
	CreatedAt time.Time `bson:"created_at"`
}

func (d cartItemDoc) model() models.CartItem {
	return models.CartItem{
		ID:        parseID(d.ID),
		CartID:    parseID(d.CartID),
		ProductID: parseID(d.ProductID),
		Quantity:  d.Quantity,
		CreatedAt: d.CreatedAt,
	}
}

func (s *MongoStore) ActiveCart(ctx context.Context, userID uuid.UUID) (*models.Cart, error) {
	var doc cartDoc
	if err := s.col(colCarts).FindOne(ctx, bson.D{{Key: "user_id", Value: userID.String()}}).Decode(&doc); err != nil {
		return nil, notFound(err)
	}
	cart := doc.model()
	return &cart, nil
}

// cartFor upserts the user's cart. Two racing upserts can both miss and one
// of them then fails on the unique user_id index; the loser reads the
// winner's document.
func (s *MongoStore) cartFor(ctx context.Context, userID uuid.UUID) (*models.Cart, error) {
	filter := bson.D{{Key: "user_id", Value: userID.String()}}
	update := bson.D{{Key: "$setOnInsert", Value: bson.D{
		{Key: "_id", Value: uuid.NewString()},
		{Key: "created_at", Value: time.Now().UTC().Truncate(time.Millisecond)},
	}}}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	var doc cartDoc
	err := s.col(colCarts).FindOneAndUpdate(ctx, filter, update, opts).Decode(&doc)
	if mongo.IsDuplicateKeyError(err) {
		err = s.col(colCarts).FindOne(ctx, filter).Decode(&doc)
	}
	if err != nil {
		return nil, err
	}
	cart := doc.model()
	return &cart, nil
}

func (s *MongoStore) OpenCart(ctx context.Context, userID uuid.UUID) (*models.Cart, error) {
	return s.cartFor(ctx, userID)
}

// AddItem resolves the cart and inserts the line in one transaction when the
// deployment supports it, so a concurrent DeleteUser cannot orphan the line.
func (s *MongoStore) AddItem(ctx context.Context, userID uuid.UUID, item *models.CartItem) (*models.Cart, error) {
	var cart *models.Cart
	err := s.atomic(ctx, func(ctx context.Context) error {
		c, err := s.cartFor(ctx, userID)
		if err != nil {
			return err
		}

		item.AssignID()
		item.CartID = c.ID
		item.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)
		doc := cartItemDoc{
			ID:        item.ID.String(),
			CartID:    item.CartID.String(),
			ProductID: item.ProductID.String(),
			Quantity:  item.Quantity,
			CreatedAt: item.CreatedAt,
		}
		if _, err := s.col(colCartItems).InsertOne(ctx, doc); err != nil {
			return err
		}
		cart = c
		return nil
	})
	if err != nil {
		return nil, err
	}
	return cart, nil
}

func (s *MongoStore) CartLines(ctx context.Context, cartID uuid.UUID) ([]models.CartLine, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}})
	cur, err := s.col(colCartItems).Find(ctx, bson.D{{Key: "cart_id", Value: cartID.String()}}, opts)
	if err != nil {
		return nil, err
	}
	var docs []cartItemDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	if len(docs) == 0 {
		return []models.CartLine{}, nil
	}

	items := make([]models.CartItem, 0, len(docs))
	ids := make([]string, 0, len(docs))
	for _, d := range docs {
		items = append(items, d.model())
		ids = append(ids, d.ProductID)
	}

	cur, err = s.col(colProducts).Find(ctx, bson.D{{Key: "_id", Value: bson.D{{Key: "$in", Value: ids}}}})
	if err != nil {
		return nil, err
	}
	var productDocs []productDoc
	if err := cur.All(ctx, &productDocs); err != nil {
		return nil, err
	}
	products := make([]models.Product, 0, len(productDocs))
	for _, d := range productDocs {
		products = append(products, d.model(nil))
	}

	return models.JoinLines(items, products), nil
}

func (s *MongoStore) GetItem(ctx context.Context, itemID uuid.UUID) (*models.CartItem, error) {
	var doc cartItemDoc
	if err := s.col(colCartItems).FindOne(ctx, byID(itemID)).Decode(&doc); err != nil {
		return nil, notFound(err)
	}
	item := doc.model()
	return &item, nil
}

func (s *MongoStore) UpdateItemQuantity(ctx context.Context, itemID uuid.UUID, quantity int) (*models.CartItem, error) {
	update := bson.D{{Key: "$set", Value: bson.D{{Key: "quantity", Value: quantity}}}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var doc cartItemDoc
	if err := s.col(colCartItems).FindOneAndUpdate(ctx, byID(itemID), update, opts).Decode(&doc); err != nil {
		return nil, notFound(err)
	}
	item := doc.model()
	return &item, nil
}

func (s *MongoStore) RemoveItem(ctx context.Context, itemID uuid.UUID) (*models.CartItem, error) {
	var doc cartItemDoc
	if err := s.col(colCartItems).FindOneAndDelete(ctx, byID(itemID)).Decode(&doc); err != nil {
		return nil, notFound(err)
	}
	item := doc.model()
	return &item, nil
}
