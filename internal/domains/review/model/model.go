package model

import (
	"meridian/shared/model"

	"github.com/lib/pq"
)

const (
	TableName  = "reviews"
	EntityName = "review"

	FieldID           = "id"
	FieldBookingID    = "booking_id"
	FieldRoomID       = "room_id"
	FieldCustomerID   = "customer_id"
	FieldCustomerName = "customer_name"
	FieldRating       = "rating"
	FieldComment      = "comment"
	FieldPhotos       = "photos"
)

type Review struct {
	ID           string         `db:"id"`
	BookingID    string         `db:"booking_id"`
	RoomID       string         `db:"room_id"`
	CustomerID   string         `db:"customer_id"`
	CustomerName string         `db:"customer_name"`
	Rating       int            `db:"rating"`
	Comment      string         `db:"comment"`
	Photos       pq.StringArray `db:"photos"`
	model.Metadata
}
