package search

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/lumina-market/backend/internal/domain"
)

type fakeCatalog struct {
	products []domain.Product
	allCalls int
}

func (f *fakeCatalog) All(ctx context.Context) ([]domain.Product, error) {
	f.allCalls++
	return f.products, nil
}

func (f *fakeCatalog) GetByIDs(ctx context.Context, ids []primitive.ObjectID) ([]domain.Product, error) {
	var out []domain.Product
	for _, id := range ids {
		for _, p := range f.products {
			if p.ID == id {
				out = append(out, p)
			}
		}
	}
	return out, nil
}

type fakeResolver struct {
	ids []primitive.ObjectID
	err error
}

func (f *fakeResolver) Resolve(ctx context.Context, query string, catalog []domain.Product) ([]primitive.ObjectID, error) {
	return f.ids, f.err
}

func TestService_AI(t *testing.T) {
	ctx := context.Background()

	t.Run("empty query rejected before any catalog access", func(t *testing.T) {
		catalog := &fakeCatalog{products: sampleCatalog()}
		svc := NewService(catalog, &fakeResolver{}, discardLogger())

		_, err := svc.AI(ctx, "   ")
		assert.ErrorIs(t, err, domain.ErrEmptyQuery)
		assert.Zero(t, catalog.allCalls)
	})

	t.Run("nil resolver takes the text path", func(t *testing.T) {
		svc := NewService(&fakeCatalog{products: sampleCatalog()}, nil, discardLogger())

		result, err := svc.AI(ctx, "cotton")
		require.NoError(t, err)
		assert.Equal(t, domain.SearchTypeText, result.Type)
		assert.Len(t, result.Products, 2)
	})

	t.Run("successful resolution returns ai-marked products", func(t *testing.T) {
		products := sampleCatalog()
		resolver := &fakeResolver{ids: []primitive.ObjectID{products[1].ID}}
		svc := NewService(&fakeCatalog{products: products}, resolver, discardLogger())

		result, err := svc.AI(ctx, "something for music")
		require.NoError(t, err)
		assert.Equal(t, domain.SearchTypeAI, result.Type)
		require.Len(t, result.Products, 1)
		assert.Equal(t, products[1].ID, result.Products[0].ID)
		assert.Equal(t, "something for music", result.Query)
	})

	t.Run("resolution failure falls back to text search", func(t *testing.T) {
		resolver := &fakeResolver{err: ErrResolutionFailed}
		svc := NewService(&fakeCatalog{products: sampleCatalog()}, resolver, discardLogger())

		result, err := svc.AI(ctx, "cotton")
		require.NoError(t, err)
		assert.Equal(t, domain.SearchTypeText, result.Type)
		assert.Len(t, result.Products, 2)
	})

	t.Run("ai no-match falls back to text search", func(t *testing.T) {
		resolver := &fakeResolver{err: ErrNoMatch}
		svc := NewService(&fakeCatalog{products: sampleCatalog()}, resolver, discardLogger())

		result, err := svc.AI(ctx, "leather")
		require.NoError(t, err)
		assert.Equal(t, domain.SearchTypeText, result.Type)
		require.Len(t, result.Products, 1)
		assert.Equal(t, "Leather Backpack", result.Products[0].Name)
	})

	t.Run("empty catalog is an empty ai success", func(t *testing.T) {
		resolver := &fakeResolver{err: errors.New("should not be called")}
		svc := NewService(&fakeCatalog{}, resolver, discardLogger())

		result, err := svc.AI(ctx, "anything")
		require.NoError(t, err)
		assert.Equal(t, domain.SearchTypeAI, result.Type)
		assert.Empty(t, result.Products)
	})
}

func TestService_Text(t *testing.T) {
	ctx := context.Background()
	svc := NewService(&fakeCatalog{products: sampleCatalog()}, nil, discardLogger())

	t.Run("empty query rejected", func(t *testing.T) {
		_, err := svc.Text(ctx, "")
		assert.ErrorIs(t, err, domain.ErrEmptyQuery)
	})

	t.Run("no results is a valid success", func(t *testing.T) {
		result, err := svc.Text(ctx, "submarine")
		require.NoError(t, err)
		assert.Equal(t, domain.SearchTypeText, result.Type)
		assert.Empty(t, result.Products)
	})
}
