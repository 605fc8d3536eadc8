package dto

import (
	"time"

	"meridian/internal/domains/booking/model"
	"meridian/shared"
	"meridian/shared/constant"
	gDto "meridian/shared/dto"
	gModel "meridian/shared/model"
	"meridian/shared/failure"
	"meridian/shared/timezone"

	"github.com/google/uuid"
)

type CreateBookingRequest struct {
	RoomID        string `json:"room_id"        validate:"required,uuid"`
	CustomerName  string `json:"customer_name"  validate:"required,max=100"`
	CustomerEmail string `json:"customer_email" validate:"required,email,max=100"`
	CustomerPhone string `json:"customer_phone" validate:"omitempty,max=20"`
	CheckIn       string `json:"check_in"       validate:"required,dateonly"`
	CheckOut      string `json:"check_out"      validate:"required,dateonly"`
	Guests        int    `json:"guests"         validate:"required,min=1"`
}

// ParseStay parses and validates the requested date range. Dates are
// half-open: the check-out day is free for the next guest.
func (c *CreateBookingRequest) ParseStay() (checkIn, checkOut time.Time, err error) {
	checkIn, err = timezone.Parse(constant.DateOnlyFormat, c.CheckIn)
	if err != nil {
		return checkIn, checkOut, failure.BadRequestFromString("check_in must be a date in YYYY-MM-DD format") // nolint:wrapcheck
	}

	checkOut, err = timezone.Parse(constant.DateOnlyFormat, c.CheckOut)
	if err != nil {
		return checkIn, checkOut, failure.BadRequestFromString("check_out must be a date in YYYY-MM-DD format") // nolint:wrapcheck
	}

	if !checkOut.After(checkIn) {
		return checkIn, checkOut, failure.BadRequestFromString("check_out must be after check_in") // nolint:wrapcheck
	}

	if checkIn.Before(timezone.Today()) {
		return checkIn, checkOut, failure.BadRequestFromString("check_in must not be in the past") // nolint:wrapcheck
	}

	return checkIn, checkOut, nil
}

func (c *CreateBookingRequest) ToModel(customerID, reference string, checkIn, checkOut time.Time, totalPrice float64, user string) model.Booking {
	var custID *string
	if customerID != constant.Empty {
		custID = &customerID
	}

	return model.Booking{
		ID:               uuid.NewString(),
		BookingReference: reference,
		RoomID:           c.RoomID,
		CustomerID:       custID,
		CustomerName:     c.CustomerName,
		CustomerEmail:    c.CustomerEmail,
		CustomerPhone:    c.CustomerPhone,
		CheckIn:          checkIn,
		CheckOut:         checkOut,
		Guests:           c.Guests,
		TotalPrice:       totalPrice,
		Status:           constant.BookingStatusPending,
		PaymentStatus:    constant.PaymentStatusPending,
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
			CreatedBy:  user,
			ModifiedBy: user,
		},
	}
}

type RescheduleBookingRequest struct {
	RoomID   string `json:"room_id,omitempty" validate:"omitempty,uuid"`
	CheckIn  string `json:"check_in"  validate:"required,dateonly"`
	CheckOut string `json:"check_out" validate:"required,dateonly"`
}

func (r *RescheduleBookingRequest) ParseStay() (checkIn, checkOut time.Time, err error) {
	req := CreateBookingRequest{CheckIn: r.CheckIn, CheckOut: r.CheckOut}

	return req.ParseStay()
}

type ConfirmPaymentRequest struct {
	SessionID string `json:"session_id" validate:"required,max=200"`
}

type GuestBookingRequest struct {
	Reference string `json:"reference" validate:"required,max=20"`
	Email     string `json:"email"     validate:"required,email,max=100"`
}

type BookingResponse struct {
	ID               string  `json:"id"`
	BookingReference string  `json:"booking_reference"`
	RoomID           string  `json:"room_id"`
	CustomerID       *string `json:"customer_id,omitempty"`
	CustomerName     string  `json:"customer_name"`
	CustomerEmail    string  `json:"customer_email"`
	CustomerPhone    string  `json:"customer_phone"`
	CheckIn          string  `json:"check_in"`
	CheckOut         string  `json:"check_out"`
	Guests           int     `json:"guests"`
	TotalPrice       float64 `json:"total_price"`
	Status           string  `json:"status"`
	PaymentStatus    string  `json:"payment_status"`
	gDto.Metadata
}

func (r *BookingResponse) FromModel(mod model.Booking) {
	r.ID = mod.ID
	r.BookingReference = mod.BookingReference
	r.RoomID = mod.RoomID
	r.CustomerID = mod.CustomerID
	r.CustomerName = mod.CustomerName
	r.CustomerEmail = mod.CustomerEmail
	r.CustomerPhone = mod.CustomerPhone
	r.CheckIn = mod.CheckIn.Format(constant.DateOnlyFormat)
	r.CheckOut = mod.CheckOut.Format(constant.DateOnlyFormat)
	r.Guests = mod.Guests
	r.TotalPrice = mod.TotalPrice
	r.Status = mod.EffectiveStatus()
	r.PaymentStatus = mod.PaymentStatus
	r.Metadata.FromModel(mod.Metadata)
}

type CreateBookingResponse struct {
	Booking     BookingResponse `json:"booking"`
	SessionID   string          `json:"session_id,omitempty"`
	PaymentURL  string          `json:"payment_url,omitempty"`
	DemoPayment bool            `json:"demo_payment,omitempty"`
}

type GetBookingsResponse struct {
	Bookings  []BookingResponse `json:"bookings"`
	TotalPage int               `json:"total_page"`
	TotalData int               `json:"total_data"`
}

func (r *GetBookingsResponse) FromModels(models []model.Booking, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Bookings = make([]BookingResponse, len(models))
	for i, mod := range models {
		r.Bookings[i].FromModel(mod)
	}
}

type AvailabilityResponse struct {
	RoomID    string `json:"room_id"`
	CheckIn   string `json:"check_in"`
	CheckOut  string `json:"check_out"`
	Available bool   `json:"available"`
}
