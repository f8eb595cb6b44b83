package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/niksmo/teerex/internal/core/domain"
	"github.com/niksmo/teerex/internal/core/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type productsRepoMock struct {
	mock.Mock
}

func (m *productsRepoMock) ReadProducts(ctx context.Context) ([]domain.Product, error) {
	args := m.Called(ctx)
	ps, _ := args.Get(0).([]domain.Product)
	return ps, args.Error(1)
}

var products = []domain.Product{
	{ID: "1", Name: "Black Polo", Type: "Polo", Color: "Black", Gender: "Men", Price: 250, Quantity: 3},
	{ID: "2", Name: "Blue Polo", Type: "Polo", Color: "Blue", Gender: "Women", Price: 350, Quantity: 3},
	{ID: "3", Name: "Grey Hoodie", Type: "Hoodie", Color: "Grey", Gender: "Men", Price: 700, Quantity: 1},
}

func ids(ps []domain.Product) []domain.ProductID {
	out := make([]domain.ProductID, len(ps))
	for i, p := range ps {
		out[i] = p.ID
	}
	return out
}

func TestCatalogServiceSearchProducts(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  []domain.ProductID
	}{
		{"EmptyQuery", "", []domain.ProductID{"1", "2", "3"}},
		{"BlankQuery", "   ", []domain.ProductID{"1", "2", "3"}},
		{"ByName", "black", []domain.ProductID{"1"}},
		{"CaseInsensitive", "POLO", []domain.ProductID{"1", "2"}},
		{"ByType", "hoodie", []domain.ProductID{"3"}},
		{"ByGender", "women", []domain.ProductID{"2"}},
		{"AllTokensMustMatch", "men polo", []domain.ProductID{"1", "2"}},
		{"Narrowing", "blue polo", []domain.ProductID{"2"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &productsRepoMock{}
			repo.On("ReadProducts", mock.Anything).Return(products, nil).Once()

			got, err := service.NewCatalogService(repo).SearchProducts(t.Context(), tt.query)
			require.NoError(t, err)
			assert.Equal(t, tt.want, ids(got))
			repo.AssertExpectations(t)
		})
	}

	t.Run("NotFound", func(t *testing.T) {
		repo := &productsRepoMock{}
		repo.On("ReadProducts", mock.Anything).Return(products, nil)

		_, err := service.NewCatalogService(repo).SearchProducts(t.Context(), "xyz")
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("RepositoryError", func(t *testing.T) {
		errRead := errors.New("read failed")
		repo := &productsRepoMock{}
		repo.On("ReadProducts", mock.Anything).Return(nil, errRead)

		_, err := service.NewCatalogService(repo).SearchProducts(t.Context(), "polo")
		assert.ErrorIs(t, err, errRead)
	})

	t.Run("CanceledContext", func(t *testing.T) {
		repo := &productsRepoMock{}
		ctx, cancel := context.WithCancel(t.Context())
		cancel()

		_, err := service.NewCatalogService(repo).ListProducts(ctx)
		assert.ErrorIs(t, err, context.Canceled)
		repo.AssertNotCalled(t, "ReadProducts", mock.Anything)
	})
}
