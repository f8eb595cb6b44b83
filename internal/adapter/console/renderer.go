package console

import (
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"sync"

	"github.com/niksmo/teerex/internal/core/domain"
	"github.com/olekukonko/tablewriter"
)

const (
	loadingText  = "Loading Products..."
	notFoundText = "No Products Found"
	errorText    = "Products are unavailable. Type :retry to try again."
)

// Renderer draws the catalog state. The output is chosen by the state
// status; an empty visible set alone never means an error.
type Renderer struct {
	mu sync.Mutex
	w  io.Writer
}

func NewRenderer(w io.Writer) *Renderer {
	return &Renderer{w: w}
}

// Render has the signature of a controller listener.
func (r *Renderer) Render(s domain.CatalogState) {
	const op = "Renderer.Render"
	log := slog.With("op", op)

	r.mu.Lock()
	defer r.mu.Unlock()

	var err error
	switch s.Status {
	case domain.StatusLoading:
		_, err = fmt.Fprintln(r.w, loadingText)
	case domain.StatusError:
		_, err = fmt.Fprintln(r.w, errorText)
	case domain.StatusLoaded:
		err = r.renderLoaded(s)
	}
	if err != nil {
		log.Error("failed to render state", "status", s.Status, "err", err)
	}
}

func (r *Renderer) renderLoaded(s domain.CatalogState) error {
	if s.Query != "" {
		if _, err := fmt.Fprintf(r.w, "Results for %q:\n", s.Query); err != nil {
			return err
		}
	}

	if len(s.VisibleProducts) == 0 {
		_, err := fmt.Fprintln(r.w, notFoundText)
		return err
	}

	table := tablewriter.NewTable(r.w)
	table.Header("Name", "Type", "Color", "Gender", "Price", "Stock")
	for _, p := range s.VisibleProducts {
		err := table.Append(
			p.Name,
			p.Type,
			p.Color,
			p.Gender,
			formatPrice(p),
			strconv.Itoa(p.Quantity),
		)
		if err != nil {
			return err
		}
	}
	return table.Render()
}

func formatPrice(p domain.Product) string {
	price := strconv.FormatFloat(p.Price, 'f', -1, 64)
	if p.Currency == "" {
		return price
	}
	return p.Currency + " " + price
}
