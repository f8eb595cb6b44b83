package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/niksmo/teerex/internal/core/domain"
	"github.com/niksmo/teerex/internal/core/port"
)

var _ port.ProductsRepository = (*ProductsRepository)(nil)

// ProductsRepository keeps the catalog read from a JSON or YAML file.
type ProductsRepository struct {
	path     string
	products []domain.Product
}

func NewProductsRepository(path string) (*ProductsRepository, error) {
	const op = "NewProductsRepository"
	log := slog.With("op", op)

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	ps, err := decodeCatalog(filepath.Ext(path), data)
	if err != nil {
		return nil, fmt.Errorf("%s: %s: %w", op, path, err)
	}

	log.Info("catalog file loaded", "path", path, "nProducts", len(ps))
	return &ProductsRepository{path: path, products: ps}, nil
}

func (r *ProductsRepository) ReadProducts(ctx context.Context) ([]domain.Product, error) {
	const op = "ProductsRepository.ReadProducts"

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return slices.Clone(r.products), nil
}

func decodeCatalog(ext string, data []byte) ([]domain.Product, error) {
	var rs []record

	switch strings.ToLower(ext) {
	case ".json":
		if err := json.Unmarshal(data, &rs); err != nil {
			return nil, err
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &rs); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unsupported catalog file extension %q", ext)
	}

	ps := make([]domain.Product, len(rs))
	for i, r := range rs {
		ps[i] = r.toDomain()
	}

	if err := domain.ValidateCatalog(ps); err != nil {
		return nil, err
	}
	return ps, nil
}
