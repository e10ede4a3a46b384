package schema

import (
	"time"

	"github.com/hamba/avro/v2"
)

const AdminEventSchemaTextV1 = `{
	"type": "record",
	"namespace": "shop.admin",
	"name": "admin_event",
	"fields": [
		{"name": "kind", "type": "string"},
		{"name": "entity_id", "type": "string"},
		{"name": "status", "type": ["null", "string"], "default": null},
		{"name": "title", "type": ["null", "string"], "default": null},
		{"name": "price", "type": ["null", "double"], "default": null},
		{"name": "image_ref", "type": ["null", "string"], "default": null},
		{"name": "occurred_at", "type": {"type": "long", "logicalType": "timestamp-millis"}}
	]
}`

// AdminEventV1 is a confirmed mutation made by an operator.
// Optional fields are set only for the kinds they belong to.
type AdminEventV1 struct {
	Kind       string    `avro:"kind"`
	EntityID   string    `avro:"entity_id"`
	Status     *string   `avro:"status"`
	Title      *string   `avro:"title"`
	Price      *float64  `avro:"price"`
	ImageRef   *string   `avro:"image_ref"`
	OccurredAt time.Time `avro:"occurred_at"`
}

func AdminEventV1Avro() avro.Schema {
	return avro.MustParse(AdminEventSchemaTextV1)
}
