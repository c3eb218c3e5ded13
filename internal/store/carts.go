package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/lumina-market/backend/internal/domain"
)

type CartStore struct {
	col *mongo.Collection
}

func NewCartStore(db *mongo.Database) *CartStore {
	return &CartStore{col: db.Collection("carts")}
}

// Get returns the user's cart. A user without a cart document gets an empty
// cart, not an error; the document is created on first write.
func (s *CartStore) Get(ctx context.Context, userID primitive.ObjectID) (domain.Cart, error) {
	var cart domain.Cart
	err := s.col.FindOne(ctx, bson.M{"userId": userID}).Decode(&cart)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return domain.Cart{UserID: userID}, nil
	}
	if err != nil {
		return domain.Cart{}, fmt.Errorf("cart find: %w", err)
	}
	return cart, nil
}

// SetItems replaces the cart's lines wholesale, upserting the document. One
// cart per user is enforced by the userId filter.
func (s *CartStore) SetItems(ctx context.Context, userID primitive.ObjectID, items []domain.CartLine) error {
	if items == nil {
		items = []domain.CartLine{}
	}

	_, err := s.col.UpdateOne(ctx,
		bson.M{"userId": userID},
		bson.M{"$set": bson.M{"items": items, "updatedAt": time.Now().UTC()}},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("cart update: %w", err)
	}
	return nil
}

// Clear empties the cart but keeps the document. Idempotent, safe to retry.
func (s *CartStore) Clear(ctx context.Context, userID primitive.ObjectID) error {
	return s.SetItems(ctx, userID, nil)
}
