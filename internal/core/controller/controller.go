// Package controller drives catalog retrieval and search for one storefront
// session.
//
// All state transitions happen on a single event loop started by
// [Controller.Run]. User commands, debounce timers and fetch completions are
// queued as closures and executed one at a time in enqueue order. Fetches
// run on their own goroutines and only post their completion back.
package controller

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/niksmo/teerex/internal/core/domain"
	"github.com/niksmo/teerex/internal/core/port"
	"github.com/niksmo/teerex/pkg/debounce"
	"github.com/niksmo/teerex/pkg/retry"
)

const (
	eventsBuffer    = 64
	recoveredNotice = "Products are available again."
)

type Listener func(domain.CatalogState)

type Opt func(*options)

type options struct {
	debounce  time.Duration
	loadRetry retry.RetryConfig
	recorder  port.SearchEventRecorder
	now       func() time.Time
}

// DebounceOpt sets the quiet period after the last search input.
func DebounceOpt(d time.Duration) Opt {
	return func(o *options) {
		o.debounce = d
	}
}

// InitialLoadRetryOpt sets the retry policy of full catalog loads. Only
// transient failures are retried unless c.ShouldRetry is set.
func InitialLoadRetryOpt(c retry.RetryConfig) Opt {
	return func(o *options) {
		o.loadRetry = c
	}
}

func RecorderOpt(r port.SearchEventRecorder) Opt {
	return func(o *options) {
		if r != nil {
			o.recorder = r
		}
	}
}

type nopRecorder struct{}

func (nopRecorder) RecordSearchEvent(domain.SearchEvent) {}

// Controller is the search controller of one session.
type Controller struct {
	fetcher   port.CatalogFetcher
	notifier  port.Notifier
	opts      options
	store     *Store
	debouncer *debounce.Scheduler

	events  chan func()
	done    chan struct{}
	started atomic.Bool

	listenersMu sync.RWMutex
	listeners   []Listener

	// Owned by the event loop.
	ctx       context.Context
	loadSeq   uint64
	viewSeq   uint64
	lastQuery string
	failed    bool
}

func New(
	fetcher port.CatalogFetcher, notifier port.Notifier, opts ...Opt,
) *Controller {
	if fetcher == nil || notifier == nil {
		panic("controller.New: nil fetcher or notifier") // develop mistake
	}

	o := options{
		debounce: debounce.DefaultDelay,
		recorder: nopRecorder{},
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.loadRetry.ShouldRetry == nil {
		o.loadRetry.ShouldRetry = domain.IsTransient
	}

	c := &Controller{
		fetcher:  fetcher,
		notifier: notifier,
		opts:     o,
		store:    NewStore(),
		events:   make(chan func(), eventsBuffer),
		done:     make(chan struct{}),
	}
	c.debouncer = debounce.New(c.post)
	return c
}

// Run issues the initial catalog load and processes events until ctx is
// done. It must be called once per Controller.
func (c *Controller) Run(ctx context.Context) {
	const op = "Controller.Run"
	log := slog.With("op", op)

	if !c.started.CompareAndSwap(false, true) {
		panic(op + ": called twice") // develop mistake
	}

	c.ctx = ctx
	defer close(c.done)
	defer c.debouncer.CancelPending()

	log.Info("session started")
	c.load()

	for {
		select {
		case <-ctx.Done():
			log.Info("session closed")
			return
		case fn := <-c.events:
			fn()
		}
	}
}

// Done is closed when Run returns.
func (c *Controller) Done() <-chan struct{} {
	return c.done
}

// State returns a snapshot of the session state.
func (c *Controller) State() domain.CatalogState {
	return c.store.Get()
}

// Subscribe registers fn to receive the state after every transition.
// Listeners run on the event loop and must not block.
func (c *Controller) Subscribe(fn Listener) {
	c.listenersMu.Lock()
	defer c.listenersMu.Unlock()
	c.listeners = append(c.listeners, fn)
}

// OnSearchInput forwards the raw search box content. The search runs once
// the input has been quiet for the debounce period.
func (c *Controller) OnSearchInput(text string) {
	c.post(func() {
		c.debouncer.Schedule(text, c.opts.debounce, c.runSearch)
	})
}

// Retry repeats the last operation: the full catalog load while no load has
// succeeded yet, the last search otherwise.
func (c *Controller) Retry() {
	c.post(func() {
		c.debouncer.CancelPending()
		if !c.store.isWarm() {
			c.load()
			return
		}
		c.runSearch(c.lastQuery)
	})
}

// post queues fn for the event loop. Until Run starts, fn is dropped with a
// warning when the queue is full.
func (c *Controller) post(fn func()) {
	if !c.started.Load() {
		select {
		case c.events <- fn:
		default:
			slog.Warn("event dropped, session is not running",
				"op", "Controller.post")
		}
		return
	}

	select {
	case c.events <- fn:
	case <-c.done:
	}
}

func (c *Controller) load() {
	c.loadSeq++
	c.lastQuery = ""
	c.store.beginLoad()
	loadSeq, viewSeq := c.loadSeq, c.issue("")

	go func() {
		ps, err := retry.DoWithResult(
			c.ctx, c.opts.loadRetry,
			func() ([]domain.Product, error) {
				return c.fetcher.FetchCatalog(c.ctx)
			},
		)
		c.post(func() { c.completeLoad(loadSeq, viewSeq, ps, err) })
	}()
}

func (c *Controller) runSearch(text string) {
	text = strings.TrimSpace(text)
	c.lastQuery = text

	if text == "" && c.store.isWarm() {
		c.viewSeq++
		c.recovered()
		c.store.resetVisible()
		c.record(domain.SearchEventReset, "", nil)
		c.publish()
		return
	}

	viewSeq := c.issue(text)
	go func() {
		ps, err := c.fetcher.SearchCatalog(c.ctx, text)
		c.post(func() { c.completeSearch(viewSeq, text, ps, err) })
	}()
}

// issue marks the start of a request that decides the visible set and
// returns its sequence number.
func (c *Controller) issue(query string) uint64 {
	c.viewSeq++
	c.store.setLoading(query)
	c.publish()
	return c.viewSeq
}

func (c *Controller) completeLoad(
	loadSeq, viewSeq uint64, ps []domain.Product, err error,
) {
	const op = "Controller.completeLoad"
	log := slog.With("op", op)

	if c.ctx.Err() != nil {
		return
	}

	if loadSeq != c.loadSeq {
		log.Debug("stale catalog response discarded",
			"seq", loadSeq, "latest", c.loadSeq)
		return
	}

	c.store.finishLoad()
	current := viewSeq == c.viewSeq

	if err != nil {
		if !current {
			log.Warn("catalog load failed behind a newer search", "err", err)
			c.publish()
			return
		}
		c.fail(domain.SearchEventLoad, "", err)
		return
	}

	if !current {
		c.store.setCatalog(ps, false)
		log.Debug("catalog cached behind a newer search", "nProducts", len(ps))
		c.publish()
		return
	}

	log.Info("catalog loaded", "nProducts", len(ps))
	c.recovered()
	c.store.setCatalog(ps, true)
	c.record(domain.SearchEventLoad, "", nil)
	c.publish()
}

func (c *Controller) completeSearch(
	viewSeq uint64, query string, ps []domain.Product, err error,
) {
	const op = "Controller.completeSearch"
	log := slog.With("op", op)

	if c.ctx.Err() != nil {
		return
	}

	if viewSeq != c.viewSeq {
		log.Debug("stale search response discarded",
			"query", query, "seq", viewSeq, "latest", c.viewSeq)
		return
	}

	if err != nil {
		c.fail(domain.SearchEventSearch, query, err)
		return
	}

	log.Info("search completed", "query", query, "nProducts", len(ps))
	c.recovered()
	c.store.setVisible(query, ps)
	c.record(domain.SearchEventSearch, query, nil)
	c.publish()
}

func (c *Controller) fail(
	kind domain.SearchEventKind, query string, err error,
) {
	const op = "Controller.fail"
	log := slog.With("op", op)

	fe := domain.AsFetchError(err)
	log.Error("catalog request failed",
		"kind", kind, "query", query, "err", err)

	c.failed = true
	c.notifier.Notify(fe.UserMessage(), domain.SeverityError)
	c.store.setFailure(fe)
	c.record(kind, query, fe)
	c.publish()
}

// recovered sends one info notice on the first success after a failure.
func (c *Controller) recovered() {
	if !c.failed {
		return
	}
	c.failed = false
	c.notifier.Notify(recoveredNotice, domain.SeverityInfo)
}

func (c *Controller) record(
	kind domain.SearchEventKind, query string, fe *domain.FetchError,
) {
	s := c.store.Get()
	e := domain.SearchEvent{
		Kind:        kind,
		Query:       query,
		Status:      s.Status,
		ResultCount: len(s.VisibleProducts),
		OccurredAt:  c.opts.now(),
	}
	if fe != nil {
		e.ErrorKind = fe.Kind.String()
	}
	c.opts.recorder.RecordSearchEvent(e)
}

func (c *Controller) publish() {
	c.listenersMu.RLock()
	ls := c.listeners
	c.listenersMu.RUnlock()

	if len(ls) == 0 {
		return
	}
	s := c.store.Get()
	for _, fn := range ls {
		fn(s)
	}
}
