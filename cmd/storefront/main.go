package main

import (
	"context"
	"os"
	"time"

	"github.com/niksmo/teerex/config"
	"github.com/niksmo/teerex/internal/app"
	"github.com/niksmo/teerex/pkg/sigctx"
)

const closeTimeout = 5 * time.Second

func main() {
	sigCtx, closeApp := sigctx.NotifyContext()
	defer closeApp()

	cfg := config.Load()

	storefront := app.NewStorefront(sigCtx, cfg, os.Stdin, os.Stdout)

	storefront.Run(closeApp)

	<-sigCtx.Done()
	ctx, cancel := context.WithTimeout(context.Background(), closeTimeout)
	defer cancel()

	storefront.Close(ctx)
}
