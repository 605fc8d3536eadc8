package model

import (
	"meridian/shared/model"

	"github.com/lib/pq"
)

const (
	TableName  = "rooms"
	EntityName = "room"

	FieldID            = "id"
	FieldName          = "name"
	FieldCategory      = "category"
	FieldDescription   = "description"
	FieldPricePerNight = "price_per_night"
	FieldCapacity      = "capacity"
	FieldAmenities     = "amenities"
	FieldImages        = "images"
	FieldIsAvailable   = "is_available"
)

type Room struct {
	ID            string         `db:"id"`
	Name          string         `db:"name"`
	Category      string         `db:"category"`
	Description   string         `db:"description"`
	PricePerNight float64        `db:"price_per_night"`
	Capacity      int            `db:"capacity"`
	Amenities     pq.StringArray `db:"amenities"`
	Images        pq.StringArray `db:"images"`
	IsAvailable   bool           `db:"is_available"`
	model.Metadata
}
