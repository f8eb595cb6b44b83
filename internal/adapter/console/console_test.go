package console_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/niksmo/teerex/internal/adapter/console"
	"github.com/niksmo/teerex/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var products = []domain.Product{
	{
		ID: "1", Name: "Black Polo", Price: 250, Currency: "INR",
		Type: "Polo", Color: "Black", Gender: "Men", Quantity: 3,
	},
	{
		ID: "2", Name: "Blue Polo", Price: 350.5, Currency: "INR",
		Type: "Polo", Color: "Blue", Gender: "Women", Quantity: 3,
	},
}

func TestNotifier(t *testing.T) {
	var buf bytes.Buffer
	n := console.NewNotifier(&buf, false)

	n.Notify("Could not fetch products: Internal Server Error.", domain.SeverityError)
	n.Notify("Products are available again.", domain.SeverityInfo)

	assert.Equal(t,
		"[error] Could not fetch products: Internal Server Error.\n"+
			"[info] Products are available again.\n",
		buf.String())
}

func TestRenderer(t *testing.T) {
	render := func(s domain.CatalogState) string {
		var buf bytes.Buffer
		console.NewRenderer(&buf).Render(s)
		return buf.String()
	}

	t.Run("Loading", func(t *testing.T) {
		out := render(domain.NewCatalogState())
		assert.Equal(t, "Loading Products...\n", out)
	})

	t.Run("Products", func(t *testing.T) {
		out := render(domain.CatalogState{
			Status:          domain.StatusLoaded,
			AllProducts:     products,
			VisibleProducts: products,
		})
		assert.Contains(t, strings.ToUpper(out), "NAME")
		assert.Contains(t, out, "Black Polo")
		assert.Contains(t, out, "Blue Polo")
		assert.Contains(t, out, "INR 350.5")
		assert.NotContains(t, out, "Results for")
	})

	t.Run("SearchResults", func(t *testing.T) {
		out := render(domain.CatalogState{
			Status:          domain.StatusLoaded,
			Query:           "blue",
			VisibleProducts: products[1:],
		})
		assert.Contains(t, out, `Results for "blue":`)
		assert.Contains(t, out, "Blue Polo")
		assert.NotContains(t, out, "Black Polo")
	})

	t.Run("NoProductsFound", func(t *testing.T) {
		out := render(domain.CatalogState{
			Status:          domain.StatusLoaded,
			Query:           "xyz",
			VisibleProducts: []domain.Product{},
		})
		assert.Contains(t, out, "No Products Found")
		assert.NotContains(t, out, "unavailable")
	})

	t.Run("Error", func(t *testing.T) {
		out := render(domain.CatalogState{
			Status:          domain.StatusError,
			VisibleProducts: []domain.Product{},
			LastError:       &domain.FetchError{Kind: domain.KindTimeout},
		})
		assert.Contains(t, out, "unavailable")
		assert.NotContains(t, out, "No Products Found")
	})
}

type sessionMock struct {
	mock.Mock
}

func (m *sessionMock) OnSearchInput(text string) { m.Called(text) }
func (m *sessionMock) Retry()                    { m.Called() }

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("read failed") }

func TestInputLoop(t *testing.T) {
	t.Run("ForwardsLines", func(t *testing.T) {
		s := &sessionMock{}
		s.On("OnSearchInput", mock.Anything).Return()
		s.On("Retry").Return()

		in := strings.NewReader("b\nbl\n:retry\n  \nblue\n")
		err := console.NewInputLoop(in, s).Run(t.Context())
		require.NoError(t, err)

		s.AssertNumberOfCalls(t, "OnSearchInput", 4)
		s.AssertCalled(t, "OnSearchInput", "bl")
		s.AssertCalled(t, "OnSearchInput", "  ")
		s.AssertCalled(t, "OnSearchInput", "blue")
		s.AssertNumberOfCalls(t, "Retry", 1)
	})

	t.Run("Quit", func(t *testing.T) {
		s := &sessionMock{}
		s.On("OnSearchInput", mock.Anything).Return()

		in := strings.NewReader("polo\n:quit\nnever\n")
		require.NoError(t, console.NewInputLoop(in, s).Run(t.Context()))

		s.AssertNumberOfCalls(t, "OnSearchInput", 1)
		s.AssertNotCalled(t, "OnSearchInput", "never")
	})

	t.Run("ReadError", func(t *testing.T) {
		err := console.NewInputLoop(failingReader{}, &sessionMock{}).Run(t.Context())
		assert.Error(t, err)
	})

	t.Run("ContextDone", func(t *testing.T) {
		r, w := io.Pipe()
		defer func() { _ = w.Close() }()

		ctx, cancel := context.WithTimeout(t.Context(), 20*time.Millisecond)
		defer cancel()

		done := make(chan error, 1)
		go func() { done <- console.NewInputLoop(r, &sessionMock{}).Run(ctx) }()

		select {
		case err := <-done:
			assert.NoError(t, err)
		case <-time.After(time.Second):
			t.Fatal("input loop did not stop")
		}
	})
}
