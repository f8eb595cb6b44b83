package controller

import (
	"testing"

	"github.com/niksmo/teerex/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore(t *testing.T) {
	products := []domain.Product{
		{ID: "1", Name: "Black Polo", Price: 250, Currency: "INR", Quantity: 3},
		{ID: "2", Name: "Blue Polo", Price: 350, Currency: "INR", Quantity: 3},
	}

	t.Run("Initial", func(t *testing.T) {
		s := NewStore().Get()
		assert.Equal(t, domain.StatusLoading, s.Status)
		assert.True(t, s.IsLoading)
		assert.NotNil(t, s.AllProducts)
		assert.Empty(t, s.AllProducts)
		assert.Empty(t, s.VisibleProducts)
		assert.Nil(t, s.LastError)
	})

	t.Run("SnapshotIsDetached", func(t *testing.T) {
		st := NewStore()
		st.setCatalog(products, true)

		s := st.Get()
		s.VisibleProducts[0].Name = "changed"
		s.AllProducts = nil

		again := st.Get()
		assert.Equal(t, "Black Polo", again.VisibleProducts[0].Name)
		assert.Len(t, again.AllProducts, 2)
	})

	t.Run("CatalogHiddenBehindSearch", func(t *testing.T) {
		st := NewStore()
		st.setLoading("blue")
		st.setCatalog(products, false)

		s := st.Get()
		assert.True(t, st.isWarm())
		assert.Len(t, s.AllProducts, 2)
		assert.Empty(t, s.VisibleProducts)
		assert.Equal(t, domain.StatusLoading, s.Status)
		assert.Equal(t, "blue", s.Query)
	})

	t.Run("FailureThenRecovery", func(t *testing.T) {
		st := NewStore()
		st.setCatalog(products, true)
		st.setFailure(&domain.FetchError{Kind: domain.KindTimeout})

		s := st.Get()
		assert.Equal(t, domain.StatusError, s.Status)
		assert.False(t, s.IsLoading)
		assert.Empty(t, s.VisibleProducts)
		require.NotNil(t, s.LastError)
		assert.Equal(t, domain.KindTimeout, s.LastError.Kind)

		st.resetVisible()
		s = st.Get()
		assert.Equal(t, domain.StatusLoaded, s.Status)
		assert.Nil(t, s.LastError)
		assert.Equal(t, products, s.VisibleProducts)
	})

	t.Run("NilResultsBecomeEmpty", func(t *testing.T) {
		st := NewStore()
		st.setVisible("xyz", nil)

		s := st.Get()
		assert.NotNil(t, s.VisibleProducts)
		assert.Empty(t, s.VisibleProducts)
		assert.Equal(t, "xyz", s.Query)
		assert.Equal(t, domain.StatusLoaded, s.Status)
		assert.False(t, st.isWarm())
	})

	t.Run("LoadingWhileCatalogFetchOutstanding", func(t *testing.T) {
		st := NewStore()
		st.beginLoad()
		st.setLoading("")
		st.setLoading("blue")
		st.setVisible("blue", products[1:])

		s := st.Get()
		assert.Equal(t, domain.StatusLoaded, s.Status)
		assert.True(t, s.IsLoading)

		st.finishLoad()
		st.setCatalog(products, false)

		s = st.Get()
		assert.False(t, s.IsLoading)
		assert.Len(t, s.AllProducts, 2)
		assert.Equal(t, products[1:], s.VisibleProducts)
	})

	t.Run("SearchOutstandingAfterCatalog", func(t *testing.T) {
		st := NewStore()
		st.beginLoad()
		st.setLoading("")
		st.finishLoad()
		st.setCatalog(products, true)
		assert.False(t, st.Get().IsLoading)

		st.setLoading("blue")
		assert.True(t, st.Get().IsLoading)

		st.setFailure(&domain.FetchError{Kind: domain.KindTimeout})
		assert.False(t, st.Get().IsLoading)
	})
}
