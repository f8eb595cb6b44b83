package schema

import (
	"context"
	"errors"
	"fmt"

	"github.com/hamba/avro/v2"
	"github.com/twmb/franz-go/pkg/sr"
)

func AvroEncodeFn(s avro.Schema) func(v any) ([]byte, error) {
	return func(v any) ([]byte, error) {
		return avro.Marshal(s, v)
	}
}

func AvroDecodeFn(s avro.Schema) func([]byte, any) error {
	return func(data []byte, v any) error {
		return avro.Unmarshal(s, data, v)
	}
}

// A SchemaIdentifier returns the registry id of the schema text under the
// subject.
type SchemaIdentifier interface {
	DetermineID(ctx context.Context, subject string, avroSchemaText string) (int, error)
}

// SchemaRegistry is the part of [*sr.Client] used by [SchemaCreater].
type SchemaRegistry interface {
	CreateSchema(ctx context.Context, subject string, s sr.Schema) (sr.SubjectSchema, error)
}

var _ SchemaIdentifier = SchemaCreater{}

// A SchemaCreater registers the schema in the schema registry, or looks up
// the id of an identical schema registered before.
type SchemaCreater struct {
	registry SchemaRegistry
}

func NewSchemaCreater(registry SchemaRegistry) SchemaCreater {
	if registry == nil {
		panic("schema.NewSchemaCreater: nil registry") // develop mistake
	}
	return SchemaCreater{registry}
}

func (c SchemaCreater) DetermineID(
	ctx context.Context, subject string, avroSchemaText string,
) (int, error) {
	const op = "SchemaCreater.DetermineID"

	if subject == "" {
		return 0, fmt.Errorf("%s: %w", op, errors.New("empty subject"))
	}

	ss, err := c.registry.CreateSchema(ctx, subject, sr.Schema{
		Type:   sr.TypeAvro,
		Schema: avroSchemaText,
	})
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return ss.ID, nil
}
