package httphandler

import "github.com/niksmo/teerex/internal/core/domain"

type (
	Product struct {
		ID       string  `json:"id"`
		Name     string  `json:"name"`
		Price    float64 `json:"price"`
		Currency string  `json:"currency"`
		ImageURL string  `json:"imageURL"`
		Type     string  `json:"type"`
		Color    string  `json:"color"`
		Gender   string  `json:"gender,omitempty"`
		Quantity int     `json:"quantity"`
	}

	Failure struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
	}
)

func fromDomain(ps []domain.Product) []Product {
	out := make([]Product, len(ps))
	for i, p := range ps {
		out[i] = Product{
			ID:       string(p.ID),
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
