package search

import (
	"context"
	"log/slog"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/lumina-market/backend/internal/domain"
)

// ProductCatalog is the slice of the catalog store the search pipeline
// needs: a full scan for matching and a by-ids read for mapping resolver
// output back to products.
type ProductCatalog interface {
	All(ctx context.Context) ([]domain.Product, error)
	GetByIDs(ctx context.Context, ids []primitive.ObjectID) ([]domain.Product, error)
}

// Service orchestrates query resolution. The AI path is attempted only when
// asked for and configured; any failure inside it downgrades to the text
// matcher with the same query, so the caller always sees one success
// response.
type Service struct {
	catalog  ProductCatalog
	resolver Resolver // nil when no API key is configured
	log      *slog.Logger
}

func NewService(catalog ProductCatalog, resolver Resolver, log *slog.Logger) *Service {
	return &Service{
		catalog:  catalog,
		resolver: resolver,
		log:      log,
	}
}

// Text runs the deterministic fallback matcher over the full catalog.
func (s *Service) Text(ctx context.Context, query string) (domain.SearchResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return domain.SearchResult{}, domain.ErrEmptyQuery
	}
	return s.textSearch(ctx, query)
}

// AI resolves the query through the configured resolver, falling back to
// text search on any resolution failure.
func (s *Service) AI(ctx context.Context, query string) (domain.SearchResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return domain.SearchResult{}, domain.ErrEmptyQuery
	}

	if s.resolver == nil {
		s.log.Debug("ai search disabled, using text search", slog.String("query", query))
		return s.textSearch(ctx, query)
	}

	catalog, err := s.catalog.All(ctx)
	if err != nil {
		return domain.SearchResult{}, err
	}
	if len(catalog) == 0 {
		return domain.SearchResult{Query: query, Type: domain.SearchTypeAI, Products: nil}, nil
	}

	ids, err := s.resolver.Resolve(ctx, query, catalog)
	if err != nil {
		// Resolution failure is routine (quota, malformed output, no
		// matches); the user gets the fallback result, never the error.
		s.log.Info("ai resolution failed, falling back to text search",
			slog.String("query", query), slog.Any("err", err))
		return s.textSearch(ctx, query)
	}

	products, err := s.catalog.GetByIDs(ctx, ids)
	if err != nil {
		return domain.SearchResult{}, err
	}

	return domain.SearchResult{Query: query, Type: domain.SearchTypeAI, Products: products}, nil
}

func (s *Service) textSearch(ctx context.Context, query string) (domain.SearchResult, error) {
	catalog, err := s.catalog.All(ctx)
	if err != nil {
		return domain.SearchResult{}, err
	}

	return domain.SearchResult{
		Query:    query,
		Type:     domain.SearchTypeText,
		Products: Match(catalog, query),
	}, nil
}
