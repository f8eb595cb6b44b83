package storage

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/niksmo/teerex/internal/core/domain"
)

type record struct {
	ID       recordID `json:"id" yaml:"id"`
	Name     string   `json:"name" yaml:"name"`
	Price    float64  `json:"price" yaml:"price"`
	Currency string   `json:"currency" yaml:"currency"`
	ImageURL string   `json:"imageURL" yaml:"imageURL"`
	Type     string   `json:"type" yaml:"type"`
	Color    string   `json:"color" yaml:"color"`
	Gender   string   `json:"gender" yaml:"gender"`
	Quantity int      `json:"quantity" yaml:"quantity"`
}

func (r record) toDomain() domain.Product {
	return domain.Product{
		ID:       domain.ProductID(r.ID),
		Name:     r.Name,
		Price:    r.Price,
		Currency: r.Currency,
		ImageURL: r.ImageURL,
		Type:     r.Type,
		Color:    r.Color,
		Gender:   r.Gender,
		Quantity: r.Quantity,
	}
}

// recordID is written either as a number or as a string in catalog files.
type recordID string

func (id *recordID) UnmarshalJSON(b []byte) error {
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	return id.set(v)
}

func (id *recordID) UnmarshalYAML(unmarshal func(any) error) error {
	var v any
	if err := unmarshal(&v); err != nil {
		return err
	}
	return id.set(v)
}

func (id *recordID) set(v any) error {
	switch v := v.(type) {
	case string:
		*id = recordID(v)
	case float64:
		*id = recordID(strconv.FormatFloat(v, 'f', -1, 64))
	case int:
		*id = recordID(strconv.Itoa(v))
	case int64:
		*id = recordID(strconv.FormatInt(v, 10))
	case uint64:
		*id = recordID(strconv.FormatUint(v, 10))
	default:
		return fmt.Errorf("unsupported product id %v (%T)", v, v)
	}
	return nil
}
