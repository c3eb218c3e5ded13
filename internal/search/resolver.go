package search

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/lumina-market/backend/internal/domain"
)

var (
	// ErrResolutionFailed covers every way the AI path can come up empty-
	// handed: provider errors, unusable response text, hallucinated IDs.
	ErrResolutionFailed = errors.New("ai resolution failed")

	// ErrNoMatch means the model answered with a well-formed empty ID list.
	// The orchestrator currently treats it like any other failure and falls
	// back to text search; it is separated out so that call can be revisited
	// without touching the resolver.
	ErrNoMatch = errors.New("ai returned no matching products")
)

// Resolver turns a free-text query plus the full catalog into a list of
// matching product identities, or reports a resolution failure. Implemented
// by GeminiResolver; faked in tests.
type Resolver interface {
	Resolve(ctx context.Context, query string, catalog []domain.Product) ([]primitive.ObjectID, error)
}
