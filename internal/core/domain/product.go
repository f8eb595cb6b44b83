package domain

import (
	"errors"
	"fmt"
)

type ProductID string

type Product struct {
	ID       ProductID
	Name     string
	Price    float64
	Currency string
	ImageURL string
	Type     string
	Color    string
	Gender   string
	Quantity int
}

// Validate reports whether p satisfies the catalog entry invariants.
func (p Product) Validate() error {
	switch {
	case p.ID == "":
		return errors.New("empty product id")
	case p.Price < 0:
		return fmt.Errorf("product %q: negative price %v", p.ID, p.Price)
	case p.Quantity < 0:
		return fmt.Errorf("product %q: negative quantity %d", p.ID, p.Quantity)
	}
	return nil
}

// ValidateCatalog checks every product and the uniqueness of ids within
// the snapshot.
func ValidateCatalog(ps []Product) error {
	seen := make(map[ProductID]struct{}, len(ps))
	for _, p := range ps {
		if err := p.Validate(); err != nil {
			return err
		}
		if _, ok := seen[p.ID]; ok {
			return fmt.Errorf("duplicate product id %q", p.ID)
		}
		seen[p.ID] = struct{}{}
	}
	return nil
}
