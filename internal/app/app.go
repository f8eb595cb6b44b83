package app

import (
	"crypto/tls"
	"fmt"
	"log/slog"
	"os"

	"github.com/niksmo/teerex/internal/adapter"
)

func initLogger(level slog.Level) {
	opts := &slog.HandlerOptions{Level: level}
	logger := slog.New(slog.NewJSONHandler(os.Stderr, opts))
	slog.SetDefault(logger)
}

// makeTLSConfig returns nil when TLS is not configured.
func makeTLSConfig(
	role adapter.TLSRole, enabled bool, ca, cert, key string,
) (*tls.Config, error) {
	if !enabled {
		return nil, nil
	}
	return adapter.MakeTLSConfig(role, ca, cert, key)
}

func fallDown(op string, err error) {
	panic(fmt.Errorf("%s: %w", op, err))
}
