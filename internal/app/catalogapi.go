package app

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/niksmo/teerex/config"
	"github.com/niksmo/teerex/internal/adapter"
	"github.com/niksmo/teerex/internal/adapter/httphandler"
	"github.com/niksmo/teerex/internal/adapter/storage"
	"github.com/niksmo/teerex/internal/core/port"
	"github.com/niksmo/teerex/internal/core/service"
)

// CatalogAPI serves the catalog file over HTTP.
type CatalogAPI struct {
	cfg        config.Config
	catalog    port.CatalogReader
	httpServer httphandler.HTTPServer
}

func NewCatalogAPI(cfg config.Config) *CatalogAPI {
	app := &CatalogAPI{cfg: cfg}

	initLogger(cfg.LogLevel)
	app.initCoreService()
	app.initInboundAdapters()

	return app
}

func (app *CatalogAPI) initCoreService() {
	const op = "CatalogAPI.initCoreService"

	repo, err := storage.NewProductsRepository(app.cfg.CatalogAPI.CatalogFile)
	if err != nil {
		fallDown(op, err)
	}
	app.catalog = service.NewCatalogService(repo)
}

func (app *CatalogAPI) initInboundAdapters() {
	const op = "CatalogAPI.initInboundAdapters"

	apiCfg := app.cfg.CatalogAPI
	tlsCfg, err := makeTLSConfig(adapter.TLSServer,
		apiCfg.TLS.Enabled(), apiCfg.TLS.CA, apiCfg.TLS.Cert, apiCfg.TLS.Key,
	)
	if err != nil {
		fallDown(op, err)
	}

	mux := http.NewServeMux()
	httphandler.RegisterProducts(mux, app.catalog)

	handler := httphandler.LogRequests(httphandler.AllowJSON(mux))
	app.httpServer = httphandler.NewHTTPServer(apiCfg.HTTPServerAddr, handler, tlsCfg)
}

func (app *CatalogAPI) Run(stopFn context.CancelFunc) {
	go app.httpServer.Run(stopFn)

	slog.Info("catalog api is running")
}

func (app *CatalogAPI) Close(ctx context.Context) {
	slog.Info("catalog api is closing...")

	app.httpServer.Close(ctx)

	slog.Info("catalog api is closed")
}
