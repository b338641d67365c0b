package mongostore

import (
	"context"
	"errors"
	"time"

	"github.com/Skotchmaster/sdp_shop/internal/models"
	"github.com/Skotchmaster/sdp_shop/internal/store"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type userDoc struct {
	ID           string    `bson:"_id"`
	Username     string    `bson:"username"`
	Email        string    `bson:"email"`
	PasswordHash string    `bson:"password_hash"`
	Address      *string   `bson:"address,omitempty"`
	Role         string    `bson:"role"`
	CreatedAt    time.Time `bson:"created_at"`
}

func (d userDoc) model() models.User {
	return models.User{
		ID:           parseID(d.ID),
		Username:     d.Username,
		Email:        d.Email,
		PasswordHash: d.PasswordHash,
		Address:      d.Address,
		Role:         d.Role,
		CreatedAt:    d.CreatedAt,
	}
}

func (s *MongoStore) ListUsers(ctx context.Context) ([]models.User, error) {
	cur, err := s.col(colUsers).Find(ctx, bson.D{}, options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}}))
	if err != nil {
		return nil, err
	}
	var docs []userDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}

	users := make([]models.User, 0, len(docs))
	for _, d := range docs {
		users = append(users, d.model())
	}
	return users, nil
}

func (s *MongoStore) GetUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var doc userDoc
	if err := s.col(colUsers).FindOne(ctx, byID(id)).Decode(&doc); err != nil {
		return nil, notFound(err)
	}
	u := doc.model()
	return &u, nil
}

func (s *MongoStore) userTaken(ctx context.Context, username, email string, exclude uuid.UUID) error {
	check := func(field, value string) error {
		filter := bson.D{{Key: field, Value: value}}
		if exclude != uuid.Nil {
			filter = append(filter, bson.E{Key: "_id", Value: bson.D{{Key: "$ne", Value: exclude.String()}}})
		}
		n, err := s.col(colUsers).CountDocuments(ctx, filter)
		if err != nil {
			return err
		}
		if n > 0 {
			return &store.DuplicateError{Field: field}
		}
		return nil
	}

	if err := check("username", username); err != nil {
		return err
	}
	return check("email", email)
}

func (s *MongoStore) CreateUser(ctx context.Context, u *models.User) error {
	if err := s.userTaken(ctx, u.Username, u.Email, uuid.Nil); err != nil {
		return err
	}

	u.AssignID()
	if u.Role == "" {
		u.Role = models.DefaultRole
	}
	u.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)

	doc := userDoc{
		ID:           u.ID.String(),
		Username:     u.Username,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		Address:      u.Address,
		Role:         u.Role,
		CreatedAt:    u.CreatedAt,
	}
	_, err := s.col(colUsers).InsertOne(ctx, doc)
	return duplicate(err)
}

func (s *MongoStore) UpdateUser(ctx context.Context, u *models.User) error {
	if _, err := s.GetUser(ctx, u.ID); err != nil {
		return err
	}
	if err := s.userTaken(ctx, u.Username, u.Email, u.ID); err != nil {
		return err
	}

	set := bson.D{
		{Key: "username", Value: u.Username},
		{Key: "email", Value: u.Email},
		{Key: "password_hash", Value: u.PasswordHash},
		{Key: "role", Value: u.Role},
	}
	if u.Address != nil {
		set = append(set, bson.E{Key: "address", Value: *u.Address})
	}
	res, err := s.col(colUsers).UpdateOne(ctx, byID(u.ID), bson.D{{Key: "$set", Value: set}})
	if err != nil {
		return duplicate(err)
	}
	if res.MatchedCount == 0 {
		return store.ErrNotFound
	}

	fresh, err := s.GetUser(ctx, u.ID)
	if err != nil {
		return err
	}
	*u = *fresh
	return nil
}

// DeleteUser removes the user and their cart. Ledger entries stay.
func (s *MongoStore) DeleteUser(ctx context.Context, id uuid.UUID) error {
	return s.atomic(ctx, func(ctx context.Context) error {
		res, err := s.col(colUsers).DeleteOne(ctx, byID(id))
		if err != nil {
			return err
		}
		if res.DeletedCount == 0 {
			return store.ErrNotFound
		}

		var cart cartDoc
		err = s.col(colCarts).FindOne(ctx, bson.D{{Key: "user_id", Value: id.String()}}).Decode(&cart)
		if err != nil {
			if errors.Is(err, mongo.ErrNoDocuments) {
				return nil
			}
			return err
		}
		if _, err := s.col(colCartItems).DeleteMany(ctx, bson.D{{Key: "cart_id", Value: cart.ID}}); err != nil {
			return err
		}
		_, err = s.col(colCarts).DeleteOne(ctx, bson.D{{Key: "_id", Value: cart.ID}})
		return err
	})
}
