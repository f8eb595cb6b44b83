package httpclient

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/niksmo/teerex/internal/core/domain"
)

type (
	product struct {
		ID       productID `json:"id"`
		Name     string    `json:"name"`
		Price    float64   `json:"price"`
		Currency string    `json:"currency"`
		ImageURL string    `json:"imageURL"`
		Type     string    `json:"type"`
		Color    string    `json:"color"`
		Gender   string    `json:"gender"`
		Quantity int       `json:"quantity"`
	}

	// productID accepts both JSON strings and JSON numbers.
	productID string

	failure struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
	}
)

func (id *productID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		return fmt.Errorf("product id is null")
	}

	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = productID(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("product id: %w", err)
	}
	*id = productID(n.String())
	return nil
}

func toDomain(ps []product) []domain.Product {
	out := make([]domain.Product, len(ps))
	for i, p := range ps {
		out[i] = domain.Product{
			ID:       domain.ProductID(p.ID),
			Name:     p.Name,
			Price:    p.Price,
			Currency: p.Currency,
			ImageURL: p.ImageURL,
			Type:     p.Type,
			Color:    p.Color,
			Gender:   p.Gender,
			Quantity: p.Quantity,
		}
	}
	return out
}
