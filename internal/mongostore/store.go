// Package mongostore is the document backend of store.Store. Categories live in
// their own collection and products reference them through category_ids.
package mongostore

import (
	"context"
	"errors"
	"strings"

	"github.com/Skotchmaster/sdp_shop/internal/store"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	colUsers        = "users"
	colProducts     = "products"
	colCategories   = "categories"
	colCarts        = "carts"
	colCartItems    = "cart_items"
	colTransactions = "transactions"
)

type MongoStore struct {
	db *mongo.Database
	// txn is set when the deployment accepts multi-document transactions.
	txn bool
}

var _ store.Store = (*MongoStore)(nil)

func New(db *mongo.Database) *MongoStore {
	return &MongoStore{db: db}
}

// uniqueIndexes maps index name to the field reported in a DuplicateError.
var uniqueIndexes = map[string]string{
	"uq_users_username":  "username",
	"uq_users_email":     "email",
	"uq_products_name":   "name",
	"uq_categories_name": "name",
	"uq_carts_user_id":   "user_id",
}

func (s *MongoStore) EnsureIndexes(ctx context.Context) error {
	unique := func(field, name string) mongo.IndexModel {
		return mongo.IndexModel{
			Keys:    bson.D{{Key: field, Value: 1}},
			Options: options.Index().SetUnique(true).SetName(name),
		}
	}
	plain := func(field string) mongo.IndexModel {
		return mongo.IndexModel{Keys: bson.D{{Key: field, Value: 1}}}
	}

	indexes := map[string][]mongo.IndexModel{
		colUsers:        {unique("username", "uq_users_username"), unique("email", "uq_users_email")},
		colProducts:     {unique("name", "uq_products_name"), plain("category_ids")},
		colCategories:   {unique("name", "uq_categories_name")},
		colCarts:        {unique("user_id", "uq_carts_user_id")},
		colCartItems:    {plain("cart_id"), plain("product_id")},
		colTransactions: {plain("user_id")},
	}
	for col, idx := range indexes {
		if _, err := s.db.Collection(col).Indexes().CreateMany(ctx, idx); err != nil {
			return err
		}
	}
	return nil
}

// DetectTransactions asks the server what it is. Replica set members and
// mongos routers run multi-document writes in a transaction, standalone
// servers do not support them.
func (s *MongoStore) DetectTransactions(ctx context.Context) error {
	var hello struct {
		SetName string `bson:"setName"`
		Msg     string `bson:"msg"`
	}
	if err := s.db.RunCommand(ctx, bson.D{{Key: "hello", Value: 1}}).Decode(&hello); err != nil {
		return err
	}
	s.txn = hello.SetName != "" || hello.Msg == "isdbgrid"
	return nil
}

func (s *MongoStore) Transactional() bool {
	return s.txn
}

// atomic runs fn inside a session transaction when the deployment has them,
// and directly otherwise. fn must use the context it is given.
func (s *MongoStore) atomic(ctx context.Context, fn func(ctx context.Context) error) error {
	if !s.txn {
		return fn(ctx)
	}
	return s.db.Client().UseSession(ctx, func(sc mongo.SessionContext) error {
		_, err := sc.WithTransaction(sc, func(sc mongo.SessionContext) (interface{}, error) {
			return nil, fn(sc)
		})
		return err
	})
}

func (s *MongoStore) Ping(ctx context.Context) error {
	return s.db.Client().Ping(ctx, nil)
}

func (s *MongoStore) Close(ctx context.Context) error {
	return s.db.Client().Disconnect(ctx)
}

func (s *MongoStore) col(name string) *mongo.Collection {
	return s.db.Collection(name)
}

func duplicate(err error) error {
	if err == nil || !mongo.IsDuplicateKeyError(err) {
		return err
	}
	msg := err.Error()
	for index, field := range uniqueIndexes {
		if strings.Contains(msg, index) {
			return &store.DuplicateError{Field: field}
		}
	}
	return &store.DuplicateError{}
}

func notFound(err error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return store.ErrNotFound
	}
	return err
}

func byID(id uuid.UUID) bson.D {
	return bson.D{{Key: "_id", Value: id.String()}}
}

func parseID(s string) uuid.UUID {
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil
	}
	return id
}

func idStrings(ids []uuid.UUID) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		out = append(out, id.String())
	}
	return out
}

func toDecimal128(d decimal.Decimal) primitive.Decimal128 {
	v, err := primitive.ParseDecimal128(d.String())
	if err != nil {
		return primitive.NewDecimal128(0, 0)
	}
	return v
}

func fromDecimal128(v primitive.Decimal128) decimal.Decimal {
	d, err := decimal.NewFromString(v.String())
	if err != nil {
		return decimal.Zero
	}
	return d
}
