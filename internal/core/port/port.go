package port

import (
	"context"

	"github.com/niksmo/teerex/internal/core/domain"
)

// CatalogFetcher retrieves the catalog from the remote source.
//
// Implementations issue exactly one request per call and report failures
// as [*domain.FetchError].
type CatalogFetcher interface {
	FetchCatalog(context.Context) ([]domain.Product, error)
	SearchCatalog(ctx context.Context, query string) ([]domain.Product, error)
}

type Notifier interface {
	Notify(message string, severity domain.Severity)
}

// SearchEventRecorder must not block the caller.
type SearchEventRecorder interface {
	RecordSearchEvent(domain.SearchEvent)
}

type ProductsRepository interface {
	ReadProducts(context.Context) ([]domain.Product, error)
}

type CatalogReader interface {
	ListProducts(context.Context) ([]domain.Product, error)
	SearchProducts(ctx context.Context, query string) ([]domain.Product, error)
}
