package app

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/niksmo/teerex/config"
	"github.com/niksmo/teerex/internal/adapter"
	"github.com/niksmo/teerex/internal/adapter/console"
	"github.com/niksmo/teerex/internal/adapter/httpclient"
	"github.com/niksmo/teerex/internal/adapter/kafka"
	"github.com/niksmo/teerex/internal/core/controller"
	"github.com/niksmo/teerex/internal/core/port"
	"github.com/niksmo/teerex/pkg/retry"
	"github.com/niksmo/teerex/pkg/schema"
	"github.com/twmb/franz-go/pkg/sr"
)

type presenter struct {
	notifier *console.Notifier
	renderer *console.Renderer
	input    console.InputLoop
}

// Storefront is the console storefront: one controller session fed from
// stdin and rendered to stdout.
type Storefront struct {
	ctx    context.Context
	cfg    config.Config
	stdin  io.Reader
	stdout io.Writer

	eventsProducer *kafka.SearchEventsProducer
	recorder       port.SearchEventRecorder
	presenter      presenter
	controller     *controller.Controller
}

func NewStorefront(
	ctx context.Context, cfg config.Config, stdin io.Reader, stdout io.Writer,
) *Storefront {
	app := &Storefront{ctx: ctx, cfg: cfg, stdin: stdin, stdout: stdout}

	initLogger(cfg.LogLevel)
	app.initRecorder()
	app.initPresenter()
	app.initController()
	app.initInput()

	return app
}

func (app *Storefront) initRecorder() {
	const op = "Storefront.initRecorder"

	broker := app.cfg.Broker
	if !broker.Enabled() {
		slog.Info("search events are disabled, no seed brokers")
		return
	}

	srClient, err := sr.NewClient(sr.URLs(broker.SchemaRegistryURLs...))
	if err != nil {
		fallDown(op, err)
	}

	topic := broker.Topics.SearchEvents
	serde, err := schema.NewSerdeSearchEventV1(
		app.ctx,
		schema.SubjectOpt(topic+"-value"),
		schema.SchemaIdentifierOpt(schema.NewSchemaCreater(srClient)),
	)
	if err != nil {
		fallDown(op, err)
	}

	producer, err := kafka.NewSearchEventsProducer(
		kafka.ProducerClientOpt(app.ctx, broker.SeedBrokers, topic, nil),
		kafka.ProducerEncoderOpt(serde),
	)
	if err != nil {
		fallDown(op, err)
	}

	app.eventsProducer = producer
	app.recorder = producer
}

func (app *Storefront) initPresenter() {
	colored := false
	if f, ok := app.stdout.(*os.File); ok {
		colored = isatty.IsTerminal(f.Fd())
	}
	app.presenter.notifier = console.NewNotifier(app.stdout, colored)
	app.presenter.renderer = console.NewRenderer(app.stdout)
}

func (app *Storefront) initController() {
	const op = "Storefront.initController"

	catalogCfg := app.cfg.Catalog
	tlsCfg, err := makeTLSConfig(adapter.TLSClient,
		catalogCfg.TLS.Enabled(), catalogCfg.TLS.CA, catalogCfg.TLS.Cert, catalogCfg.TLS.Key,
	)
	if err != nil {
		fallDown(op, err)
	}

	client, err := httpclient.NewCatalogClient(
		catalogCfg.BaseURL,
		httpclient.ProductsPathOpt(catalogCfg.ProductsPath),
		httpclient.SearchPathOpt(catalogCfg.SearchPath),
		httpclient.TimeoutOpt(catalogCfg.FetchTimeout),
		httpclient.TLSOpt(tlsCfg),
	)
	if err != nil {
		fallDown(op, err)
	}

	searchCfg := app.cfg.Search
	c := controller.New(
		client,
		app.presenter.notifier,
		controller.DebounceOpt(searchCfg.Debounce),
		controller.InitialLoadRetryOpt(retry.RetryConfig{
			MaxAttempts: searchCfg.InitialLoadAttempts,
			Backoff:     retry.ExponentialBackoff(searchCfg.RetryDelay),
		}),
		controller.RecorderOpt(app.recorder),
	)
	c.Subscribe(app.presenter.renderer.Render)
	app.controller = c
}

func (app *Storefront) initInput() {
	app.presenter.input = console.NewInputLoop(app.stdin, app.controller)
}

// Run starts the session. stopFn is called when the user quits or the
// input is closed.
func (app *Storefront) Run(stopFn context.CancelFunc) {
	const op = "Storefront.Run"
	log := slog.With("op", op)

	go app.controller.Run(app.ctx)
	go func() {
		defer stopFn()
		if err := app.presenter.input.Run(app.ctx); err != nil {
			log.Error("input loop failed", "err", err)
		}
	}()

	log.Info("storefront is running")
}

// Close waits for the session to stop and flushes the search events. The
// context passed to NewStorefront must be done.
func (app *Storefront) Close(ctx context.Context) {
	slog.Info("storefront is closing...")

	select {
	case <-app.controller.Done():
	case <-ctx.Done():
		slog.Warn("session did not stop in time")
	}

	if app.eventsProducer != nil {
		app.eventsProducer.Close()
	}

	slog.Info("storefront is closed")
}
