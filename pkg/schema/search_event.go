package schema

import "time"

const SearchEventSchemaTextV1 = `{
	"type": "record",
	"namespace": "storefront",
	"name": "search_event",
	"fields": [
		{"name": "kind", "type": "string"},
		{"name": "query", "type": "string"},
		{"name": "status", "type": "string"},
		{"name": "result_count", "type": "long"},
		{"name": "error_kind", "type": "string", "default": ""},
		{"name": "occurred_at", "type": {"type": "long", "logicalType": "timestamp-millis"}}
	]
}`

type SearchEventV1 struct {
	Kind        string    `avro:"kind"`
	Query       string    `avro:"query"`
	Status      string    `avro:"status"`
	ResultCount int64     `avro:"result_count"`
	ErrorKind   string    `avro:"error_kind"`
	OccurredAt  time.Time `avro:"occurred_at"`
}
