package kafka

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/niksmo/teerex/internal/core/domain"
	"github.com/niksmo/teerex/pkg/schema"
	"github.com/twmb/franz-go/pkg/kgo"
)

var ErrTooFewOpts = errors.New("too few options")

const (
	defaultBatchSize     = 64
	defaultBufferSize    = 1024
	defaultFlushInterval = time.Second
	produceTimeout       = 10 * time.Second
)

type ProducerOpt func(*producerOpts) error

type producerOpts struct {
	cl            ProducerClient
	encoder       Encoder
	flushInterval time.Duration
	bufferSize    int
}

// ProducerClientOpt creates the [kgo.Client] and checks that the brokers are
// reachable. tlsCfg may be nil.
func ProducerClientOpt(
	ctx context.Context, seedBrokers []string, topic string, tlsCfg *tls.Config,
) ProducerOpt {
	return func(opts *producerOpts) error {
		if len(seedBrokers) == 0 {
			return errors.New("no seed brokers")
		}
		kopts := []kgo.Opt{
			kgo.SeedBrokers(seedBrokers...),
			kgo.DefaultProduceTopicAlways(),
			kgo.DefaultProduceTopic(topic),
			kgo.RequiredAcks(kgo.AllISRAcks()),
			kgo.AllowAutoTopicCreation(),
		}
		if tlsCfg != nil {
			kopts = append(kopts, kgo.DialTLSConfig(tlsCfg))
		}

		cl, err := kgo.NewClient(kopts...)
		if err != nil {
			return err
		}

		if err := cl.Ping(ctx); err != nil {
			cl.Close()
			return err
		}
		opts.cl = cl
		return nil
	}
}

// ProducerClientInstanceOpt uses an already created client.
func ProducerClientInstanceOpt(cl ProducerClient) ProducerOpt {
	return func(opts *producerOpts) error {
		if cl == nil {
			return errors.New("producer client is nil")
		}
		opts.cl = cl
		return nil
	}
}

func ProducerEncoderOpt(encoder Encoder) ProducerOpt {
	return func(opts *producerOpts) error {
		if encoder == nil {
			return errors.New("encoder is nil")
		}
		opts.encoder = encoder
		return nil
	}
}

func FlushIntervalOpt(d time.Duration) ProducerOpt {
	return func(opts *producerOpts) error {
		if d <= 0 {
			return fmt.Errorf("invalid flush interval %s", d)
		}
		opts.flushInterval = d
		return nil
	}
}

func BufferSizeOpt(n int) ProducerOpt {
	return func(opts *producerOpts) error {
		if n <= 0 {
			return fmt.Errorf("invalid buffer size %d", n)
		}
		opts.bufferSize = n
		return nil
	}
}

type ProducerClient interface {
	ProduceSync(ctx context.Context, rs ...*kgo.Record) kgo.ProduceResults
	Close()
}

type Encoder interface {
	Encode(v any) ([]byte, error)
}

func makeOp(s ...string) string {
	return strings.Join(s, ".")
}

func opErr(err error, op ...string) error {
	return fmt.Errorf("%s: %w", makeOp(op...), err)
}

func searchEventToSchemaV1(v domain.SearchEvent) (s schema.SearchEventV1) {
	s.Kind = string(v.Kind)
	s.Query = v.Query
	s.Status = v.Status.String()
	s.ResultCount = int64(v.ResultCount)
	s.ErrorKind = v.ErrorKind
	s.OccurredAt = v.OccurredAt
	return
}
