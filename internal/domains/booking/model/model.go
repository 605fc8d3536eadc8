package model

import (
	"meridian/shared/constant"
	"meridian/shared/model"
	"meridian/shared/timezone"
	"time"
)

const (
	TableName  = "bookings"
	EntityName = "booking"

	FieldID               = "id"
	FieldBookingReference = "booking_reference"
	FieldRoomID           = "room_id"
	FieldCustomerID       = "customer_id"
	FieldCustomerName     = "customer_name"
	FieldCustomerEmail    = "customer_email"
	FieldCustomerPhone    = "customer_phone"
	FieldCheckIn          = "check_in"
	FieldCheckOut         = "check_out"
	FieldGuests           = "guests"
	FieldTotalPrice       = "total_price"
	FieldStatus           = "status"
	FieldPaymentStatus    = "payment_status"
	FieldPaymentIntentID  = "payment_intent_id"
)

type Booking struct {
	ID               string    `db:"id"`
	BookingReference string    `db:"booking_reference"`
	RoomID           string    `db:"room_id"`
	CustomerID       *string   `db:"customer_id"`
	CustomerName     string    `db:"customer_name"`
	CustomerEmail    string    `db:"customer_email"`
	CustomerPhone    string    `db:"customer_phone"`
	CheckIn          time.Time `db:"check_in"`
	CheckOut         time.Time `db:"check_out"`
	Guests           int       `db:"guests"`
	TotalPrice       float64   `db:"total_price"`
	Status           string    `db:"status"`
	PaymentStatus    string    `db:"payment_status"`
	PaymentIntentID  string    `db:"payment_intent_id"`
	model.Metadata
}

// Nights returns the length of stay; check-out day is not slept in.
func (b *Booking) Nights() int {
	return timezone.DaysBetween(b.CheckIn, b.CheckOut)
}

// EffectiveStatus derives completed from a confirmed stay whose check-out
// date has passed. The stored status stays "confirmed"; completion is a
// read-time projection, never written back.
func (b *Booking) EffectiveStatus() string {
	if b.Status == constant.BookingStatusConfirmed && !timezone.Date(b.CheckOut).After(timezone.Date(timezone.Today())) {
		return constant.BookingStatusCompleted
	}

	return b.Status
}

// Active reports whether the booking still holds its room dates.
func (b *Booking) Active() bool {
	return b.Status == constant.BookingStatusPending || b.Status == constant.BookingStatusConfirmed
}
