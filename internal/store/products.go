package store

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/lumina-market/backend/internal/domain"
)

// ProductFilter narrows a catalog listing. Zero values mean "no constraint".
type ProductFilter struct {
	Category    string
	MinPrice    float64
	MaxPrice    float64
	MinRating   float64
	Search      string
	NewArrivals bool
}

type ProductStore struct {
	col *mongo.Collection
}

func NewProductStore(db *mongo.Database) *ProductStore {
	return &ProductStore{col: db.Collection("products")}
}

func buildFilter(f ProductFilter) bson.M {
	filter := bson.M{}

	if f.Category != "" {
		filter["category"] = f.Category
	}

	price := bson.M{}
	if f.MinPrice > 0 {
		price["$gte"] = f.MinPrice
	}
	if f.MaxPrice > 0 {
		price["$lte"] = f.MaxPrice
	}
	if len(price) > 0 {
		filter["price"] = price
	}

	if f.MinRating > 0 {
		filter["rating"] = bson.M{"$gte": f.MinRating}
	}

	if f.NewArrivals {
		filter["isNewArrival"] = true
	}

	if f.Search != "" {
		re := primitive.Regex{Pattern: regexp.QuoteMeta(f.Search), Options: "i"}
		filter["$or"] = bson.A{
			bson.M{"name": re},
			bson.M{"description": re},
			bson.M{"category": re},
		}
	}

	return filter
}

func (s *ProductStore) List(ctx context.Context, f ProductFilter) ([]domain.Product, error) {
	cur, err := s.col.Find(ctx, buildFilter(f))
	if err != nil {
		return nil, fmt.Errorf("products find: %w", err)
	}

	var products []domain.Product
	if err := cur.All(ctx, &products); err != nil {
		return nil, fmt.Errorf("products decode: %w", err)
	}
	return products, nil
}

// All returns the full catalog in natural order.
func (s *ProductStore) All(ctx context.Context) ([]domain.Product, error) {
	return s.List(ctx, ProductFilter{})
}

func (s *ProductStore) Get(ctx context.Context, id primitive.ObjectID) (domain.Product, error) {
	var p domain.Product
	err := s.col.FindOne(ctx, bson.M{"_id": id}).Decode(&p)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return domain.Product{}, domain.ErrNotFound
	}
	if err != nil {
		return domain.Product{}, fmt.Errorf("product find: %w", err)
	}
	return p, nil
}

func (s *ProductStore) GetByIDs(ctx context.Context, ids []primitive.ObjectID) ([]domain.Product, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	cur, err := s.col.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, fmt.Errorf("products find by ids: %w", err)
	}

	var products []domain.Product
	if err := cur.All(ctx, &products); err != nil {
		return nil, fmt.Errorf("products decode: %w", err)
	}
	return products, nil
}

func (s *ProductStore) Create(ctx context.Context, p domain.Product) (domain.Product, error) {
	now := time.Now().UTC()
	p.ID = primitive.NewObjectID()
	p.CreatedAt = now
	p.UpdatedAt = now

	if _, err := s.col.InsertOne(ctx, p); err != nil {
		return domain.Product{}, fmt.Errorf("product insert: %w", err)
	}
	return p, nil
}

func (s *ProductStore) Update(ctx context.Context, id primitive.ObjectID, p domain.Product) (domain.Product, error) {
	update := bson.M{"$set": bson.M{
		"name":         p.Name,
		"description":  p.Description,
		"category":     p.Category,
		"price":        p.Price,
		"image":        p.Image,
		"rating":       p.Rating,
		"stock":        p.Stock,
		"isNewArrival": p.IsNewArrival,
		"updatedAt":    time.Now().UTC(),
	}}

	res, err := s.col.UpdateByID(ctx, id, update)
	if err != nil {
		return domain.Product{}, fmt.Errorf("product update: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.Product{}, domain.ErrNotFound
	}
	return s.Get(ctx, id)
}

func (s *ProductStore) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("product delete: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (s *ProductStore) Categories(ctx context.Context) ([]string, error) {
	values, err := s.col.Distinct(ctx, "category", bson.M{})
	if err != nil {
		return nil, fmt.Errorf("categories distinct: %w", err)
	}

	categories := make([]string, 0, len(values))
	for _, v := range values {
		if s, ok := v.(string); ok {
			categories = append(categories, s)
		}
	}
	return categories, nil
}
