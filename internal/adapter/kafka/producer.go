package kafka

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/niksmo/teerex/internal/core/domain"
	"github.com/niksmo/teerex/internal/core/port"
	"github.com/twmb/franz-go/pkg/kgo"
)

// A producer is used for composition.
//
// Producing records to kafka broker and closing underlying [kgo.Client].
type producer struct {
	opPrefix string
	cl       ProducerClient
}

func (p producer) close() {
	const op = "close"
	log := slog.With("op", makeOp(p.opPrefix, op))
	log.Info("closing producer...")
	p.cl.Close()
	log.Info("producer is closed")
}

func (p producer) produce(ctx context.Context, rs ...*kgo.Record) error {
	const op = "produce"
	res := p.cl.ProduceSync(ctx, rs...)
	if err := res.FirstErr(); err != nil {
		return opErr(err, p.opPrefix, op)
	}
	return nil
}

var _ port.SearchEventRecorder = (*SearchEventsProducer)(nil)

// A SearchEventsProducer used for produce [domain.SearchEvent].
//
// Events are queued without blocking and produced in batches from a
// separate goroutine. Events that do not fit into the queue are dropped.
type SearchEventsProducer struct {
	producer      producer
	encoder       Encoder
	opPrefix      string
	flushInterval time.Duration

	mu     sync.RWMutex
	closed bool
	events chan domain.SearchEvent
	done   chan struct{}
}

// NewSearchEventsProducer requires a client option and [ProducerEncoderOpt].
func NewSearchEventsProducer(opts ...ProducerOpt) (*SearchEventsProducer, error) {
	const op = "NewSearchEventsProducer"

	options := producerOpts{
		flushInterval: defaultFlushInterval,
		bufferSize:    defaultBufferSize,
	}
	for _, opt := range opts {
		if err := opt(&options); err != nil {
			return nil, opErr(err, op)
		}
	}
	if options.cl == nil || options.encoder == nil {
		panic(opErr(ErrTooFewOpts, op)) // develop mistake
	}

	opPrefix := "SearchEventsProducer"
	p := &SearchEventsProducer{
		producer: producer{
			opPrefix: opPrefix,
			cl:       options.cl,
		},
		encoder:       options.encoder,
		opPrefix:      opPrefix,
		flushInterval: options.flushInterval,
		events:        make(chan domain.SearchEvent, options.bufferSize),
		done:          make(chan struct{}),
	}
	go p.flushLoop()
	return p, nil
}

func (p *SearchEventsProducer) RecordSearchEvent(e domain.SearchEvent) {
	const op = "RecordSearchEvent"

	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.closed {
		return
	}

	select {
	case p.events <- e:
	default:
		slog.Warn("search event dropped, buffer is full",
			"op", makeOp(p.opPrefix, op), "kind", e.Kind)
	}
}

// Close produces the queued events and closes the client.
func (p *SearchEventsProducer) Close() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	close(p.events)
	p.mu.Unlock()

	<-p.done
	p.producer.close()
}

func (p *SearchEventsProducer) flushLoop() {
	defer close(p.done)

	batch := make([]domain.SearchEvent, 0, defaultBatchSize)
	ticker := time.NewTicker(p.flushInterval)
	defer ticker.Stop()

	for {
		select {
		case e, ok := <-p.events:
			if !ok {
				p.flush(batch)
				return
			}
			batch = append(batch, e)
			if len(batch) >= defaultBatchSize {
				p.flush(batch)
				batch = batch[:0]
			}
		case <-ticker.C:
			if len(batch) > 0 {
				p.flush(batch)
				batch = batch[:0]
			}
		}
	}
}

func (p *SearchEventsProducer) flush(batch []domain.SearchEvent) {
	const op = "flush"
	log := slog.With("op", makeOp(p.opPrefix, op))

	if len(batch) == 0 {
		return
	}

	rs := p.createRecords(batch)
	if len(rs) == 0 {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), produceTimeout)
	defer cancel()

	if err := p.producer.produce(ctx, rs...); err != nil {
		log.Error("failed to produce search events",
			"nEvents", len(rs), "err", err)
		return
	}
	log.Debug("search events produced", "nEvents", len(rs))
}

func (p *SearchEventsProducer) createRecords(vs []domain.SearchEvent) []*kgo.Record {
	const op = "createRecords"
	log := slog.With("op", makeOp(p.opPrefix, op))

	rs := make([]*kgo.Record, 0, len(vs))
	for _, v := range vs {
		s := searchEventToSchemaV1(v)
		b, err := p.encoder.Encode(s)
		if err != nil {
			log.Error("failed to encode search event", "err", err)
			continue
		}
		rs = append(rs, &kgo.Record{
			Key:       []byte(s.Kind),
			Value:     b,
			Timestamp: v.OccurredAt,
		})
	}
	return rs
}
