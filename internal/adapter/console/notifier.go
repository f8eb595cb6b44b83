// Package console is the terminal presenter of the storefront.
package console

import (
	"io"
	"log/slog"
	"sync"

	"github.com/fatih/color"
	"github.com/niksmo/teerex/internal/core/domain"
	"github.com/niksmo/teerex/internal/core/port"
)

var _ port.Notifier = (*Notifier)(nil)

// Notifier prints user notifications as "[severity] message" lines.
type Notifier struct {
	mu      sync.Mutex
	w       io.Writer
	colored bool
}

func NewNotifier(w io.Writer, colored bool) *Notifier {
	return &Notifier{w: w, colored: colored}
}

func (n *Notifier) Notify(message string, severity domain.Severity) {
	const op = "Notifier.Notify"
	log := slog.With("op", op)

	c := color.New(color.FgGreen)
	if severity == domain.SeverityError {
		c = color.New(color.FgRed, color.Bold)
	}
	if n.colored {
		c.EnableColor()
	} else {
		c.DisableColor()
	}

	n.mu.Lock()
	defer n.mu.Unlock()
	if _, err := c.Fprintf(n.w, "[%s] %s\n", severity, message); err != nil {
		log.Error("failed to write notification", "err", err)
	}
}
