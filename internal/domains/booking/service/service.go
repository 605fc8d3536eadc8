package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"meridian/config"
	"meridian/infras/checkout"
	"meridian/infras/kafka"
	"meridian/infras/mailer"
	"meridian/infras/otel"
	"meridian/internal/domains/booking/model"
	"meridian/internal/domains/booking/model/dto"
	"meridian/internal/domains/booking/repository"
	roomModel "meridian/internal/domains/room/model"
	roomRepo "meridian/internal/domains/room/repository"
	"meridian/shared"
	"meridian/shared/cache"
	"meridian/shared/constant"
	gDto "meridian/shared/dto"
	"meridian/shared/failure"
	gRepo "meridian/shared/repository"
	"meridian/shared/timezone"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const (
	cacheGetBooking    = "booking:get"
	cacheGetAllBooking = "booking:gets"
	cacheCountBooking  = "booking:count"
)

type Booking interface {
	Create(ctx context.Context, req dto.CreateBookingRequest) (dto.CreateBookingResponse, error)
	CheckAvailability(ctx context.Context, roomID string, checkIn, checkOut time.Time, excludeID string) (bool, error)
	Availability(ctx context.Context, roomID, checkIn, checkOut string) (dto.AvailabilityResponse, error)
	GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (dto.GetBookingsResponse, error)
	Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (int, error)
	Get(ctx context.Context, id string) (dto.BookingResponse, error)
	GetMine(ctx context.Context, req gDto.QueryParams) (dto.GetBookingsResponse, error)
	Cancel(ctx context.Context, id string) error
	GuestLookup(ctx context.Context, req dto.GuestBookingRequest) (dto.BookingResponse, error)
	GuestCancel(ctx context.Context, req dto.GuestBookingRequest) error
	ConfirmPayment(ctx context.Context, id string, req dto.ConfirmPaymentRequest) (dto.BookingResponse, error)
	DemoConfirm(ctx context.Context, id string) (dto.BookingResponse, error)
	Reschedule(ctx context.Context, id string, req dto.RescheduleBookingRequest) error
}

type serviceImpl struct {
	repo     repository.Booking
	roomRepo roomRepo.Room
	cfg      *config.Config
	cache    cache.RedisCache
	otel     otel.Otel
	checkout checkout.Checkout
	mailer   mailer.Mailer
	kafka    kafka.Client
}

func New(
	repo repository.Booking,
	roomRepo roomRepo.Room,
	cfg *config.Config,
	cache cache.RedisCache,
	otl otel.Otel,
	checkoutClient checkout.Checkout,
	mailerClient mailer.Mailer,
	kafkaClient kafka.Client,
) Booking {
	return &serviceImpl{
		repo:     repo,
		roomRepo: roomRepo,
		cfg:      cfg,
		cache:    cache,
		otel:     otl,
		checkout: checkoutClient,
		mailer:   mailerClient,
		kafka:    kafkaClient,
	}
}

func (s *serviceImpl) Create(ctx context.Context, req dto.CreateBookingRequest) (res dto.CreateBookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Create")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	checkIn, checkOut, err := req.ParseStay()
	if err != nil {
		return res, err
	}

	room, err := s.roomRepo.Get(ctx, shared.FilterByID(req.RoomID, roomModel.FieldID, roomModel.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get room for booking")

		return res, fmt.Errorf("failed to get room: %w", err)
	}

	if room.ID == constant.Empty {
		return res, failure.NotFound("room not found") // nolint:wrapcheck
	}

	if !room.IsAvailable {
		return res, failure.Conflict("room is not open for booking") // nolint:wrapcheck
	}

	if req.Guests > room.Capacity {
		return res, failure.BadRequestFromString(fmt.Sprintf("room holds at most %d guests", room.Capacity)) // nolint:wrapcheck
	}

	available, err := s.CheckAvailability(ctx, req.RoomID, checkIn, checkOut, constant.Empty)
	if err != nil {
		return res, err
	}

	if !available {
		return res, failure.Conflict("room is not available for the selected dates") // nolint:wrapcheck
	}

	nights := timezone.DaysBetween(checkIn, checkOut)
	totalPrice := float64(nights) * room.PricePerNight

	booking, err := s.insertWithReference(ctx, req, user, checkIn, checkOut, totalPrice)
	if err != nil {
		return res, err
	}

	s.invalidateListCaches(ctx)
	s.publishEvent(ctx, constant.BookingEventCreated, booking)

	res.Booking.FromModel(booking)

	if s.demoPayments() {
		res.DemoPayment = true

		return res, nil
	}

	session, err := s.checkout.CreateSession(ctx, checkout.CreateSessionRequest{
		AmountCents:   checkout.AmountToCents(totalPrice),
		Currency:      s.cfg.External.Checkout.Currency,
		CustomerEmail: booking.CustomerEmail,
		CustomerName:  booking.CustomerName,
		Description:   fmt.Sprintf("%s, %d night(s), booking %s", room.Name, nights, booking.BookingReference),
		SuccessURL:    fmt.Sprintf("%s/bookings/%s/payment-success", s.cfg.App.PublicURL, booking.ID),
		CancelURL:     fmt.Sprintf("%s/bookings/%s/payment-cancelled", s.cfg.App.PublicURL, booking.ID),
		Metadata:      map[string]string{"booking_id": booking.ID},
	})
	if err != nil {
		// The booking stays pending; payment can be retried against it.
		log.Error().Err(err).Str("booking_id", booking.ID).Msg("failed to create checkout session")

		return res, fmt.Errorf("booking %s created but payment could not be started: %w", booking.BookingReference, err)
	}

	res.SessionID = session.ID
	res.PaymentURL = session.URL

	return res, nil
}

// insertWithReference retries insertion with a fresh reference when the
// unique index on booking_reference rejects a collision. A date overlap lost
// to a concurrent insert is not retryable and surfaces as a conflict.
func (s *serviceImpl) insertWithReference(ctx context.Context, req dto.CreateBookingRequest, user string, checkIn, checkOut time.Time, totalPrice float64) (model.Booking, error) {
	maxAttempts := s.cfg.Booking.ReferenceMaxAttempts

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		reference, err := generateReference()
		if err != nil {
			return model.Booking{}, err
		}

		booking := req.ToModel(user, reference, checkIn, checkOut, totalPrice, user)

		err = s.repo.Insert(ctx, booking)
		if err == nil {
			return booking, nil
		}

		if errors.Is(err, gRepo.ErrUniqueViolation) {
			log.Warn().Int("attempt", attempt).Str("reference", reference).Msg("booking reference collision, regenerating")

			continue
		}

		if errors.Is(err, gRepo.ErrExclusionViolation) {
			return model.Booking{}, failure.Conflict("room is not available for the selected dates") // nolint:wrapcheck
		}

		log.Error().Err(err).Msg("failed to create booking")

		return model.Booking{}, fmt.Errorf("failed to create booking: %w", err)
	}

	return model.Booking{}, failure.InternalError(fmt.Errorf("failed to allocate a booking reference after %d attempts", maxAttempts)) // nolint:wrapcheck
}

func (s *serviceImpl) CheckAvailability(ctx context.Context, roomID string, checkIn, checkOut time.Time, excludeID string) (available bool, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".CheckAvailability")
	defer scope.End()
	defer scope.TraceIfError(err)

	count, err := s.repo.Count(ctx, repository.OverlapFilter(roomID, checkIn, checkOut, excludeID))
	if err != nil {
		log.Error().Err(err).Msg("failed to count overlapping bookings")

		return false, fmt.Errorf("failed to check availability: %w", err)
	}

	return count == 0, nil
}

// Availability answers the public date-range query. The result is advisory:
// creation re-checks and the database constraint has the final word.
func (s *serviceImpl) Availability(ctx context.Context, roomID, checkIn, checkOut string) (res dto.AvailabilityResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Availability")
	defer scope.End()
	defer scope.TraceIfError(err)

	req := dto.CreateBookingRequest{CheckIn: checkIn, CheckOut: checkOut}

	from, to, err := req.ParseStay()
	if err != nil {
		return res, err
	}

	exists, err := s.roomRepo.Exist(ctx, shared.FilterByID(roomID, roomModel.FieldID, roomModel.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to check if room exists")

		return res, fmt.Errorf("failed to check if room exists: %w", err)
	}

	if !exists {
		return res, failure.NotFound("room not found") // nolint:wrapcheck
	}

	available, err := s.CheckAvailability(ctx, roomID, from, to, constant.Empty)
	if err != nil {
		return res, err
	}

	res = dto.AvailabilityResponse{
		RoomID:    roomID,
		CheckIn:   from.Format(constant.DateOnlyFormat),
		CheckOut:  to.Format(constant.DateOnlyFormat),
		Available: available,
	}

	return res, nil
}

func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetBookingsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetAll")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKeyWithQuery(cacheGetAllBooking, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for bookings")

		return res, nil
	}

	total, err := s.Count(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count bookings")

		return res, fmt.Errorf("failed to count bookings: %w", err)
	}

	models, err := s.repo.GetAll(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get bookings")

		return res, fmt.Errorf("failed to get bookings: %w", err)
	}

	res.FromModels(models, total, req.Limit)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save bookings to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res int, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Count")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKeyWithQuery(cacheCountBooking, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for booking count")

		return res, nil
	}

	res, err = s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count bookings")

		return res, fmt.Errorf("failed to count bookings: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save booking count to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Get")
	defer scope.End()
	defer scope.TraceIfError(err)

	booking, err := s.getBooking(ctx, id)
	if err != nil {
		return res, err
	}

	res.FromModel(booking)

	return res, nil
}

func (s *serviceImpl) GetMine(ctx context.Context, req gDto.QueryParams) (res dto.GetBookingsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetMine")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	if user == constant.Empty {
		return res, failure.Unauthorized("missing user identity") // nolint:wrapcheck
	}

	filter := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{
				Field:    model.FieldCustomerID,
				Value:    user,
				Operator: gDto.FilterOperatorEq,
				Table:    model.TableName,
			},
		},
	}

	return s.GetAll(ctx, req, filter)
}

func (s *serviceImpl) Cancel(ctx context.Context, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Cancel")
	defer scope.End()
	defer scope.TraceIfError(err)

	booking, err := s.getBooking(ctx, id)
	if err != nil {
		return err
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	role, _ := ctx.Value(constant.ContextKeyUserRole).(string)

	admin := role == constant.RoleAdmin
	if !admin {
		if booking.CustomerID == nil || *booking.CustomerID != user {
			return failure.ResourceRestrictedError
		}
	}

	return s.cancelBooking(ctx, booking, admin)
}

func (s *serviceImpl) GuestLookup(ctx context.Context, req dto.GuestBookingRequest) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GuestLookup")
	defer scope.End()
	defer scope.TraceIfError(err)

	booking, err := s.getGuestBooking(ctx, req)
	if err != nil {
		return res, err
	}

	res.FromModel(booking)

	return res, nil
}

func (s *serviceImpl) GuestCancel(ctx context.Context, req dto.GuestBookingRequest) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GuestCancel")
	defer scope.End()
	defer scope.TraceIfError(err)

	booking, err := s.getGuestBooking(ctx, req)
	if err != nil {
		return err
	}

	return s.cancelBooking(ctx, booking, false)
}

func (s *serviceImpl) ConfirmPayment(ctx context.Context, id string, req dto.ConfirmPaymentRequest) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".ConfirmPayment")
	defer scope.End()
	defer scope.TraceIfError(err)

	booking, err := s.getBooking(ctx, id)
	if err != nil {
		return res, err
	}

	// Reconciliation is idempotent: a booking already confirmed is reported
	// as-is and no second email goes out.
	if booking.Status == constant.BookingStatusConfirmed {
		res.FromModel(booking)

		return res, nil
	}

	if booking.Status == constant.BookingStatusCancelled {
		return res, failure.Conflict("booking has been cancelled") // nolint:wrapcheck
	}

	session, err := s.checkout.GetSessionStatus(ctx, req.SessionID)
	if err != nil {
		// Unknown outcome: the booking stays pending and the caller retries.
		return res, fmt.Errorf("failed to verify payment: %w", err)
	}

	if !session.Paid() {
		return res, failure.BadRequestFromString("payment has not been completed") // nolint:wrapcheck
	}

	paymentIntentID := session.PaymentIntentID
	if paymentIntentID == constant.Empty {
		paymentIntentID = session.ID
	}

	return s.confirmBooking(ctx, booking, paymentIntentID)
}

func (s *serviceImpl) DemoConfirm(ctx context.Context, id string) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".DemoConfirm")
	defer scope.End()
	defer scope.TraceIfError(err)

	if !s.demoPayments() {
		return res, failure.Forbidden("demo payments are disabled") // nolint:wrapcheck
	}

	booking, err := s.getBooking(ctx, id)
	if err != nil {
		return res, err
	}

	if booking.Status == constant.BookingStatusConfirmed {
		res.FromModel(booking)

		return res, nil
	}

	if booking.Status == constant.BookingStatusCancelled {
		return res, failure.Conflict("booking has been cancelled") // nolint:wrapcheck
	}

	return s.confirmBooking(ctx, booking, constant.DemoPaymentIntentPrefix+uuid.NewString())
}

func (s *serviceImpl) Reschedule(ctx context.Context, id string, req dto.RescheduleBookingRequest) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Reschedule")
	defer scope.End()
	defer scope.TraceIfError(err)

	booking, err := s.getBooking(ctx, id)
	if err != nil {
		return err
	}

	if !booking.Active() {
		return failure.Conflict("only pending or confirmed bookings can be rescheduled") // nolint:wrapcheck
	}

	if booking.EffectiveStatus() == constant.BookingStatusCompleted {
		return failure.Conflict("completed bookings cannot be rescheduled") // nolint:wrapcheck
	}

	checkIn, checkOut, err := req.ParseStay()
	if err != nil {
		return err
	}

	// The booking can move to another room as well as other dates.
	targetRoomID := booking.RoomID
	if req.RoomID != constant.Empty {
		targetRoomID = req.RoomID
	}

	room, err := s.roomRepo.Get(ctx, shared.FilterByID(targetRoomID, roomModel.FieldID, roomModel.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get room for reschedule")

		return fmt.Errorf("failed to get room: %w", err)
	}

	if room.ID == constant.Empty {
		return failure.NotFound("room not found") // nolint:wrapcheck
	}

	if targetRoomID != booking.RoomID {
		if !room.IsAvailable {
			return failure.Conflict("room is not open for booking") // nolint:wrapcheck
		}

		if booking.Guests > room.Capacity {
			return failure.BadRequestFromString(fmt.Sprintf("room holds at most %d guests", room.Capacity)) // nolint:wrapcheck
		}
	}

	available, err := s.CheckAvailability(ctx, targetRoomID, checkIn, checkOut, booking.ID)
	if err != nil {
		return err
	}

	if !available {
		return failure.Conflict("room is not available for the selected dates") // nolint:wrapcheck
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	nights := timezone.DaysBetween(checkIn, checkOut)

	updatedFields := map[string]any{
		model.FieldRoomID:        targetRoomID,
		model.FieldCheckIn:       checkIn,
		model.FieldCheckOut:      checkOut,
		model.FieldTotalPrice:    float64(nights) * room.PricePerNight,
		constant.FieldModifiedAt: timezone.Now(),
		constant.FieldModifiedBy: user,
	}

	err = s.repo.Update(ctx, updatedFields, shared.FilterByID(booking.ID, model.FieldID, model.TableName))
	if err != nil {
		if errors.Is(err, gRepo.ErrExclusionViolation) {
			return failure.Conflict("room is not available for the selected dates") // nolint:wrapcheck
		}

		log.Error().Err(err).Msg("failed to reschedule booking")

		return fmt.Errorf("failed to reschedule booking: %w", err)
	}

	s.invalidateBookingCaches(ctx, booking.ID)

	return nil
}

func (s *serviceImpl) getBooking(ctx context.Context, id string) (model.Booking, error) {
	booking, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get booking")

		return booking, fmt.Errorf("failed to get booking: %w", err)
	}

	if booking.ID == constant.Empty {
		return booking, failure.NotFound("booking not found") // nolint:wrapcheck
	}

	return booking, nil
}

// getGuestBooking resolves a booking by reference and email in one query. A
// wrong reference and a right reference with the wrong email are
// indistinguishable to the caller.
func (s *serviceImpl) getGuestBooking(ctx context.Context, req dto.GuestBookingRequest) (model.Booking, error) {
	booking, err := s.repo.Get(ctx, repository.GuestFilter(req.Reference, req.Email))
	if err != nil {
		log.Error().Err(err).Msg("failed to look up guest booking")

		return booking, fmt.Errorf("failed to look up booking: %w", err)
	}

	if booking.ID == constant.Empty {
		return booking, failure.NotFound("booking not found") // nolint:wrapcheck
	}

	return booking, nil
}

func (s *serviceImpl) confirmBooking(ctx context.Context, booking model.Booking, paymentIntentID string) (res dto.BookingResponse, err error) {
	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	updatedFields := map[string]any{
		model.FieldStatus:          constant.BookingStatusConfirmed,
		model.FieldPaymentStatus:   constant.PaymentStatusPaid,
		model.FieldPaymentIntentID: paymentIntentID,
		constant.FieldModifiedAt:   timezone.Now(),
		constant.FieldModifiedBy:   user,
	}

	err = s.repo.Update(ctx, updatedFields, shared.FilterByID(booking.ID, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to confirm booking")

		return res, fmt.Errorf("failed to confirm booking: %w", err)
	}

	booking.Status = constant.BookingStatusConfirmed
	booking.PaymentStatus = constant.PaymentStatusPaid
	booking.PaymentIntentID = paymentIntentID

	s.invalidateBookingCaches(ctx, booking.ID)
	s.publishEvent(ctx, constant.BookingEventConfirmed, booking)
	s.sendEmail(ctx, booking, constant.EmailTypeConfirmation)

	res.FromModel(booking)

	return res, nil
}

// cancelBooking applies the cancellation transition. Customers and guests can
// only cancel before the stay starts; admins can cancel an in-progress stay.
func (s *serviceImpl) cancelBooking(ctx context.Context, booking model.Booking, admin bool) error {
	if booking.Status == constant.BookingStatusCancelled {
		return failure.Conflict("booking is already cancelled") // nolint:wrapcheck
	}

	if booking.EffectiveStatus() == constant.BookingStatusCompleted {
		return failure.Conflict("completed bookings cannot be cancelled") // nolint:wrapcheck
	}

	if !admin && !timezone.Date(booking.CheckIn).After(timezone.Date(timezone.Today())) {
		return failure.Conflict("the stay has already started and can no longer be cancelled") // nolint:wrapcheck
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	updatedFields := map[string]any{
		model.FieldStatus:        constant.BookingStatusCancelled,
		constant.FieldModifiedAt: timezone.Now(),
		constant.FieldModifiedBy: user,
	}

	err := s.repo.Update(ctx, updatedFields, shared.FilterByID(booking.ID, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to cancel booking")

		return fmt.Errorf("failed to cancel booking: %w", err)
	}

	booking.Status = constant.BookingStatusCancelled

	s.invalidateBookingCaches(ctx, booking.ID)
	s.publishEvent(ctx, constant.BookingEventCancelled, booking)
	s.sendEmail(ctx, booking, constant.EmailTypeCancellation)

	return nil
}

func (s *serviceImpl) demoPayments() bool {
	return s.cfg.External.Checkout.DemoMode || s.cfg.External.Checkout.BaseURL == constant.Empty
}

func (s *serviceImpl) invalidateListCaches(ctx context.Context) {
	go func() {
		c := context.WithoutCancel(ctx)

		shared.InvalidateCaches(c, s.cache, cacheGetAllBooking)
		shared.InvalidateCaches(c, s.cache, cacheCountBooking)
	}()
}

func (s *serviceImpl) invalidateBookingCaches(ctx context.Context, id string) {
	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Delete(c, shared.BuildCacheKey(cacheGetBooking, id)); err != nil {
			log.Error().Err(err).Msg("failed to delete booking cache")
		}

		shared.InvalidateCaches(c, s.cache, cacheGetAllBooking)
		shared.InvalidateCaches(c, s.cache, cacheCountBooking)
	}()
}

// sendEmail delivers the booking email in the background. Failures are
// logged, never propagated: a bounced email must not fail the booking.
func (s *serviceImpl) sendEmail(ctx context.Context, booking model.Booking, emailType string) {
	go func() {
		c := context.WithoutCancel(ctx)

		roomName := constant.Empty
		room, err := s.roomRepo.Get(c, shared.FilterByID(booking.RoomID, roomModel.FieldID, roomModel.TableName))
		if err == nil {
			roomName = room.Name
		}

		err = s.mailer.SendBookingEmail(c, mailer.BookingEmail{
			Type:             emailType,
			To:               booking.CustomerEmail,
			CustomerName:     booking.CustomerName,
			BookingReference: booking.BookingReference,
			RoomName:         roomName,
			CheckIn:          booking.CheckIn.Format(constant.DateOnlyFormat),
			CheckOut:         booking.CheckOut.Format(constant.DateOnlyFormat),
			Guests:           booking.Guests,
			TotalPrice:       booking.TotalPrice,
		})
		if err != nil {
			log.Error().Err(err).Str("booking_id", booking.ID).Str("email_type", emailType).Msg("failed to send booking email")
		}
	}()
}

func (s *serviceImpl) publishEvent(ctx context.Context, eventType string, booking model.Booking) {
	if !s.cfg.Kafka.Enable {
		return
	}

	go func() {
		c := context.WithoutCancel(ctx)

		err := s.kafka.SendMessages(c, constant.KafkaTopicBookingEvents, kafka.Message{
			Key: booking.ID,
			Value: map[string]any{
				"event":             eventType,
				"booking_id":        booking.ID,
				"booking_reference": booking.BookingReference,
				"room_id":           booking.RoomID,
				"status":            booking.Status,
				"occurred_at":       timezone.Now(),
			},
		})
		if err != nil {
			log.Error().Err(err).Str("booking_id", booking.ID).Str("event", eventType).Msg("failed to publish booking event")
		}
	}()
}
