package storage_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/niksmo/teerex/internal/adapter/storage"
	"github.com/niksmo/teerex/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	jsonCatalog = `[
  {"id": 1, "name": "Black Polo", "price": 250, "currency": "INR",
   "type": "Polo", "color": "Black", "gender": "Men", "quantity": 3},
  {"id": "2", "name": "Blue Polo", "price": 350.5, "currency": "INR",
   "imageURL": "https://cdn.example.com/blue.png",
   "type": "Polo", "color": "Blue", "gender": "Women", "quantity": 3}
]`

	yamlCatalog = `
- id: 1
  name: Black Polo
  price: 250
  currency: INR
  type: Polo
  color: Black
  gender: Men
  quantity: 3
- id: "2"
  name: Blue Polo
  price: 350.5
  currency: INR
  imageURL: https://cdn.example.com/blue.png
  type: Polo
  color: Blue
  gender: Women
  quantity: 3
`
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestProductsRepository(t *testing.T) {
	want := []domain.Product{
		{
			ID: "1", Name: "Black Polo", Price: 250, Currency: "INR",
			Type: "Polo", Color: "Black", Gender: "Men", Quantity: 3,
		},
		{
			ID: "2", Name: "Blue Polo", Price: 350.5, Currency: "INR",
			ImageURL: "https://cdn.example.com/blue.png",
			Type: "Polo", Color: "Blue", Gender: "Women", Quantity: 3,
		},
	}

	for name, file := range map[string]string{
		"JSON": writeFile(t, "catalog.json", jsonCatalog),
		"YAML": writeFile(t, "catalog.yaml", yamlCatalog),
		"YML":  writeFile(t, "catalog.yml", yamlCatalog),
	} {
		t.Run(name, func(t *testing.T) {
			repo, err := storage.NewProductsRepository(file)
			require.NoError(t, err)

			ps, err := repo.ReadProducts(t.Context())
			require.NoError(t, err)
			assert.Equal(t, want, ps)
		})
	}

	t.Run("ReadReturnsCopy", func(t *testing.T) {
		repo, err := storage.NewProductsRepository(writeFile(t, "c.json", jsonCatalog))
		require.NoError(t, err)

		ps, err := repo.ReadProducts(t.Context())
		require.NoError(t, err)
		ps[0].Name = "changed"

		again, err := repo.ReadProducts(t.Context())
		require.NoError(t, err)
		assert.Equal(t, "Black Polo", again[0].Name)
	})

	t.Run("CanceledContext", func(t *testing.T) {
		repo, err := storage.NewProductsRepository(writeFile(t, "c.json", `[]`))
		require.NoError(t, err)

		ctx, cancel := context.WithCancel(t.Context())
		cancel()
		_, err = repo.ReadProducts(ctx)
		assert.ErrorIs(t, err, context.Canceled)
	})

	t.Run("Invalid", func(t *testing.T) {
		tests := []struct {
			name    string
			file    string
			content string
		}{
			{"UnsupportedExtension", "catalog.csv", "id,name"},
			{"BrokenJSON", "catalog.json", `[{"id":`},
			{"DuplicateID", "catalog.json", `[{"id":1},{"id":"1"}]`},
			{"NegativeQuantity", "catalog.yaml", "- id: 1\n  quantity: -1\n"},
			{"BadID", "catalog.json", `[{"id":true}]`},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				_, err := storage.NewProductsRepository(writeFile(t, tt.file, tt.content))
				assert.Error(t, err)
			})
		}
	})

	t.Run("MissingFile", func(t *testing.T) {
		_, err := storage.NewProductsRepository(filepath.Join(t.TempDir(), "none.json"))
		assert.ErrorIs(t, err, os.ErrNotExist)
	})
}
