package sigctx_test

import (
	"context"
	"syscall"
	"testing"
	"time"

	"github.com/niksmo/teerex/pkg/sigctx"
	"github.com/stretchr/testify/assert"
)

func TestNotifyContext(t *testing.T) {
	t.Run("StopFunc", func(t *testing.T) {
		ctx, stop := sigctx.NotifyContext()
		stop()
		assert.Eventually(t, func() bool { return ctx.Err() != nil },
			time.Second, 5*time.Millisecond)
	})

	t.Run("ParentCanceled", func(t *testing.T) {
		parent, cancel := context.WithCancel(t.Context())
		ctx, stop := sigctx.NotifyContextFrom(parent)
		defer stop()

		cancel()
		assert.ErrorIs(t, ctx.Err(), context.Canceled)
	})

	t.Run("Signal", func(t *testing.T) {
		ctx, stop := sigctx.NotifyContext()
		defer stop()

		assert.NoError(t, syscall.Kill(syscall.Getpid(), syscall.SIGTERM))
		assert.Eventually(t, func() bool { return ctx.Err() != nil },
			time.Second, 5*time.Millisecond)
	})
}
