package store

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/lumina-market/backend/internal/domain"
)

type UserStore struct {
	col *mongo.Collection
}

func NewUserStore(db *mongo.Database) *UserStore {
	return &UserStore{col: db.Collection("users")}
}

// Create inserts the user, rejecting duplicate emails. The lookup-then-insert
// pair is not atomic; a unique index on email backs it in deployment.
func (s *UserStore) Create(ctx context.Context, u domain.User) (domain.User, error) {
	if _, err := s.FindByEmail(ctx, u.Email); err == nil {
		return domain.User{}, domain.ErrEmailTaken
	} else if !errors.Is(err, domain.ErrNotFound) {
		return domain.User{}, err
	}

	u.ID = primitive.NewObjectID()
	if _, err := s.col.InsertOne(ctx, u); err != nil {
		return domain.User{}, fmt.Errorf("user insert: %w", err)
	}
	return u, nil
}

func (s *UserStore) FindByEmail(ctx context.Context, email string) (domain.User, error) {
	var u domain.User
	err := s.col.FindOne(ctx, bson.M{"email": email}).Decode(&u)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return domain.User{}, domain.ErrNotFound
	}
	if err != nil {
		return domain.User{}, fmt.Errorf("user find: %w", err)
	}
	return u, nil
}

func (s *UserStore) FindByID(ctx context.Context, id primitive.ObjectID) (domain.User, error) {
	var u domain.User
	err := s.col.FindOne(ctx, bson.M{"_id": id}).Decode(&u)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return domain.User{}, domain.ErrNotFound
	}
	if err != nil {
		return domain.User{}, fmt.Errorf("user find: %w", err)
	}
	return u, nil
}
