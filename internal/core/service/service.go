package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/niksmo/teerex/internal/core/domain"
	"github.com/niksmo/teerex/internal/core/port"
)

var _ port.CatalogReader = (*CatalogService)(nil)

// CatalogService serves the catalog held by the products repository and
// performs the server-side search.
type CatalogService struct {
	productsRepo port.ProductsRepository
}

func NewCatalogService(productsRepo port.ProductsRepository) CatalogService {
	if productsRepo == nil {
		panic("service.NewCatalogService: nil products repository") // develop mistake
	}
	return CatalogService{productsRepo}
}

func (s CatalogService) ListProducts(ctx context.Context) ([]domain.Product, error) {
	const op = "CatalogService.ListProducts"

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	ps, err := s.productsRepo.ReadProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return ps, nil
}

// SearchProducts returns the products matching every whitespace separated
// token of query. A token matches when it is a case-insensitive substring of
// the name, type, color or gender. An empty query matches the whole catalog.
//
// Returns [domain.ErrNotFound] when nothing matches.
func (s CatalogService) SearchProducts(
	ctx context.Context, query string,
) ([]domain.Product, error) {
	const op = "CatalogService.SearchProducts"

	ps, err := s.ListProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	tokens := strings.Fields(strings.ToLower(query))
	if len(tokens) == 0 {
		return ps, nil
	}

	var found []domain.Product
	for _, p := range ps {
		if matchAll(p, tokens) {
			found = append(found, p)
		}
	}

	if len(found) == 0 {
		return nil, fmt.Errorf("%s: %q: %w", op, query, domain.ErrNotFound)
	}
	return found, nil
}

func matchAll(p domain.Product, tokens []string) bool {
	fields := [...]string{
		strings.ToLower(p.Name),
		strings.ToLower(p.Type),
		strings.ToLower(p.Color),
		strings.ToLower(p.Gender),
	}
	for _, t := range tokens {
		if !matchAny(fields[:], t) {
			return false
		}
	}
	return true
}

func matchAny(fields []string, token string) bool {
	for _, f := range fields {
		if strings.Contains(f, token) {
			return true
		}
	}
	return false
}
