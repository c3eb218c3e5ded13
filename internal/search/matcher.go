// Package search implements the query resolution pipeline: an AI resolver
// backed by the Gemini API and a deterministic substring fallback, glued
// together by a service that never lets an AI failure reach the client.
package search

import (
	"strings"

	"github.com/lumina-market/backend/internal/domain"
)

// Match returns every product whose name, description or category contains
// query as a case-insensitive substring, preserving catalog order. No
// ranking, no configuration; this path has to work when nothing else does.
// Callers must reject empty queries before calling.
func Match(products []domain.Product, query string) []domain.Product {
	q := strings.ToLower(strings.TrimSpace(query))

	var matched []domain.Product
	for _, p := range products {
		if strings.Contains(strings.ToLower(p.Name), q) ||
			strings.Contains(strings.ToLower(p.Description), q) ||
			strings.Contains(strings.ToLower(p.Category), q) {
			matched = append(matched, p)
		}
	}
	return matched
}
