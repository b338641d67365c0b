package mongostore

import (
	"context"
	"time"

	"github.com/Skotchmaster/sdp_shop/internal/models"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type transactionDoc struct {
	ID          string               `bson:"_id"`
	UserID      string               `bson:"user_id"`
	TotalAmount primitive.Decimal128 `bson:"total_amount"`
	CreatedAt   time.Time            `bson:"created_at"`
}

func (s *MongoStore) CreateTransaction(ctx context.Context, t *models.Transaction) error {
	t.AssignID()
	t.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)

	_, err := s.col(colTransactions).InsertOne(ctx, transactionDoc{
		ID:          t.ID.String(),
		UserID:      t.UserID.String(),
		TotalAmount: toDecimal128(t.TotalAmount),
		CreatedAt:   t.CreatedAt,
	})
	return err
}

func (s *MongoStore) ListTransactions(ctx context.Context, userID uuid.UUID) ([]models.Transaction, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cur, err := s.col(colTransactions).Find(ctx, bson.D{{Key: "user_id", Value: userID.String()}}, opts)
	if err != nil {
		return nil, err
	}
	var docs []transactionDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}

	txs := make([]models.Transaction, 0, len(docs))
	for _, d := range docs {
		txs = append(txs, models.Transaction{
			ID:          parseID(d.ID),
			UserID:      parseID(d.UserID),
			TotalAmount: fromDecimal128(d.TotalAmount),
			CreatedAt:   d.CreatedAt,
		})
	}
	return txs, nil
}
