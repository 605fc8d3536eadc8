package service_test

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"meridian/config"
	"meridian/infras/checkout"
	checkoutMocks "meridian/infras/checkout/mocks"
	kafkaMocks "meridian/infras/kafka/mocks"
	mailerMocks "meridian/infras/mailer/mocks"
	"meridian/infras/otel/mocks"
	bookingMocks "meridian/internal/domains/booking/mocks"
	"meridian/internal/domains/booking/model"
	"meridian/internal/domains/booking/model/dto"
	"meridian/internal/domains/booking/service"
	roomMocks "meridian/internal/domains/room/mocks"
	roomModel "meridian/internal/domains/room/model"
	cacheMocks "meridian/shared/cache/mocks"
	"meridian/shared/constant"
	"meridian/shared/failure"
	gModel "meridian/shared/model"
	gRepo "meridian/shared/repository"
	"meridian/shared/timezone"
)

type testDeps struct {
	repo     *bookingMocks.MockBooking
	roomRepo *roomMocks.MockRoom
	cache    *cacheMocks.MockRedisCache
	checkout *checkoutMocks.MockCheckout
	mailer   *mailerMocks.MockMailer
	kafka    *kafkaMocks.MockClient
}

func newService(t *testing.T, cfg *config.Config) (service.Booking, testDeps) {
	t.Helper()

	ctrl := gomock.NewController(t)

	deps := testDeps{
		repo:     bookingMocks.NewMockBooking(ctrl),
		roomRepo: roomMocks.NewMockRoom(ctrl),
		cache:    cacheMocks.NewMockRedisCache(ctrl),
		checkout: checkoutMocks.NewMockCheckout(ctrl),
		mailer:   mailerMocks.NewMockMailer(ctrl),
		kafka:    kafkaMocks.NewMockClient(ctrl),
	}

	// Cache invalidation and emails run on background goroutines.
	deps.cache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	deps.cache.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	deps.cache.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	deps.mailer.EXPECT().SendBookingEmail(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	svc := service.New(deps.repo, deps.roomRepo, cfg, deps.cache, mocks.NewOtel(), deps.checkout, deps.mailer, deps.kafka)

	return svc, deps
}

func demoConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Booking.ReferenceMaxAttempts = 5
	cfg.Cache.TTL = 3600
	cfg.External.Checkout.DemoMode = true

	return cfg
}

func liveConfig() *config.Config {
	cfg := demoConfig()
	cfg.External.Checkout.DemoMode = false
	cfg.External.Checkout.BaseURL = "https://pay.example.com"
	cfg.External.Checkout.Currency = "usd"
	cfg.App.PublicURL = "https://meridian.example.com"

	return cfg
}

func futureDate(days int) string {
	return timezone.Today().AddDate(0, 0, days).Format(constant.DateOnlyFormat)
}

func testRoom() roomModel.Room {
	return roomModel.Room{
		ID:            "room-1",
		Name:          "Harbour View Deluxe",
		Category:      "deluxe",
		PricePerNight: 150,
		Capacity:      2,
		IsAvailable:   true,
	}
}

func createRequest() dto.CreateBookingRequest {
	return dto.CreateBookingRequest{
		RoomID:        "room-1",
		CustomerName:  "Ada Lovelace",
		CustomerEmail: "ada@example.com",
		CheckIn:       futureDate(10),
		CheckOut:      futureDate(13),
		Guests:        2,
	}
}

func pendingBooking() model.Booking {
	customerID := "user-1"

	return model.Booking{
		ID:               "booking-1",
		BookingReference: "BK260901ABCDEF",
		RoomID:           "room-1",
		CustomerID:       &customerID,
		CustomerName:     "Ada Lovelace",
		CustomerEmail:    "ada@example.com",
		CheckIn:          timezone.Today().AddDate(0, 0, 10),
		CheckOut:         timezone.Today().AddDate(0, 0, 13),
		Guests:           2,
		TotalPrice:       450,
		Status:           constant.BookingStatusPending,
		PaymentStatus:    constant.PaymentStatusPending,
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
		},
	}
}

func TestBookingService_Create(t *testing.T) {
	tests := []struct {
		name      string
		cfg       *config.Config
		req       dto.CreateBookingRequest
		setupMock func(deps testDeps)
		check     func(t *testing.T, res dto.CreateBookingResponse, err error)
	}{
		{
			name: "demo mode skips the payment processor",
			cfg:  demoConfig(),
			req:  createRequest(),
			setupMock: func(deps testDeps) {
				deps.roomRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(testRoom(), nil)
				deps.repo.EXPECT().Count(gomock.Any(), gomock.Any()).Return(0, nil)
				deps.repo.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(nil)
			},
			check: func(t *testing.T, res dto.CreateBookingResponse, err error) {
				assert.NoError(t, err)
				assert.True(t, res.DemoPayment)
				assert.Empty(t, res.PaymentURL)
				assert.Equal(t, float64(3*150), res.Booking.TotalPrice)
				assert.Equal(t, constant.BookingStatusPending, res.Booking.Status)
			},
		},
		{
			name: "checkout session started for live payments",
			cfg:  liveConfig(),
			req:  createRequest(),
			setupMock: func(deps testDeps) {
				deps.roomRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(testRoom(), nil)
				deps.repo.EXPECT().Count(gomock.Any(), gomock.Any()).Return(0, nil)
				deps.repo.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(nil)
				deps.checkout.EXPECT().
					CreateSession(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, req checkout.CreateSessionRequest) (checkout.Session, error) {
						assert.Equal(t, int64(45000), req.AmountCents)
						assert.Equal(t, "ada@example.com", req.CustomerEmail)

						return checkout.Session{ID: "cs_123", URL: "https://pay.example.com/cs_123"}, nil
					})
			},
			check: func(t *testing.T, res dto.CreateBookingResponse, err error) {
				assert.NoError(t, err)
				assert.False(t, res.DemoPayment)
				assert.Equal(t, "cs_123", res.SessionID)
				assert.Equal(t, "https://pay.example.com/cs_123", res.PaymentURL)
			},
		},
		{
			name: "checkout failure leaves the booking pending",
			cfg:  liveConfig(),
			req:  createRequest(),
			setupMock: func(deps testDeps) {
				deps.roomRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(testRoom(), nil)
				deps.repo.EXPECT().Count(gomock.Any(), gomock.Any()).Return(0, nil)
				deps.repo.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(nil)
				deps.checkout.EXPECT().
					CreateSession(gomock.Any(), gomock.Any()).
					Return(checkout.Session{}, errors.New("processor unreachable"))
			},
			check: func(t *testing.T, res dto.CreateBookingResponse, err error) {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), "payment could not be started")
			},
		},
		{
			name: "room not found",
			cfg:  demoConfig(),
			req:  createRequest(),
			setupMock: func(deps testDeps) {
				deps.roomRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(roomModel.Room{}, nil)
			},
			check: func(t *testing.T, _ dto.CreateBookingResponse, err error) {
				assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
			},
		},
		{
			name: "room closed for booking",
			cfg:  demoConfig(),
			req:  createRequest(),
			setupMock: func(deps testDeps) {
				room := testRoom()
				room.IsAvailable = false

				deps.roomRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(room, nil)
			},
			check: func(t *testing.T, _ dto.CreateBookingResponse, err error) {
				assert.Equal(t, http.StatusConflict, failure.GetCode(err))
			},
		},
		{
			name: "too many guests",
			cfg:  demoConfig(),
			req: func() dto.CreateBookingRequest {
				req := createRequest()
				req.Guests = 5

				return req
			}(),
			setupMock: func(deps testDeps) {
				deps.roomRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(testRoom(), nil)
			},
			check: func(t *testing.T, _ dto.CreateBookingResponse, err error) {
				assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
			},
		},
		{
			name: "dates already taken",
			cfg:  demoConfig(),
			req:  createRequest(),
			setupMock: func(deps testDeps) {
				deps.roomRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(testRoom(), nil)
				deps.repo.EXPECT().Count(gomock.Any(), gomock.Any()).Return(1, nil)
			},
			check: func(t *testing.T, _ dto.CreateBookingResponse, err error) {
				assert.Equal(t, http.StatusConflict, failure.GetCode(err))
			},
		},
		{
			name: "reference collision retried with a fresh code",
			cfg:  demoConfig(),
			req:  createRequest(),
			setupMock: func(deps testDeps) {
				deps.roomRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(testRoom(), nil)
				deps.repo.EXPECT().Count(gomock.Any(), gomock.Any()).Return(0, nil)
				deps.repo.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(gRepo.ErrUniqueViolation)
				deps.repo.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(nil)
			},
			check: func(t *testing.T, res dto.CreateBookingResponse, err error) {
				assert.NoError(t, err)
				assert.True(t, res.DemoPayment)
			},
		},
		{
			name: "concurrent insert loses to the exclusion constraint",
			cfg:  demoConfig(),
			req:  createRequest(),
			setupMock: func(deps testDeps) {
				deps.roomRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(testRoom(), nil)
				deps.repo.EXPECT().Count(gomock.Any(), gomock.Any()).Return(0, nil)
				deps.repo.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(gRepo.ErrExclusionViolation)
			},
			check: func(t *testing.T, _ dto.CreateBookingResponse, err error) {
				assert.Equal(t, http.StatusConflict, failure.GetCode(err))
			},
		},
		{
			name: "reference attempts exhausted",
			cfg:  demoConfig(),
			req:  createRequest(),
			setupMock: func(deps testDeps) {
				deps.roomRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(testRoom(), nil)
				deps.repo.EXPECT().Count(gomock.Any(), gomock.Any()).Return(0, nil)
				deps.repo.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(gRepo.ErrUniqueViolation).Times(5)
			},
			check: func(t *testing.T, _ dto.CreateBookingResponse, err error) {
				assert.Equal(t, http.StatusInternalServerError, failure.GetCode(err))
			},
		},
		{
			name: "check-out before check-in rejected",
			cfg:  demoConfig(),
			req: func() dto.CreateBookingRequest {
				req := createRequest()
				req.CheckIn = futureDate(13)
				req.CheckOut = futureDate(10)

				return req
			}(),
			setupMock: func(_ testDeps) {},
			check: func(t *testing.T, _ dto.CreateBookingResponse, err error) {
				assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
			},
		},
		{
			name: "same-day stay rejected",
			cfg:  demoConfig(),
			req: func() dto.CreateBookingRequest {
				req := createRequest()
				req.CheckIn = futureDate(10)
				req.CheckOut = futureDate(10)

				return req
			}(),
			setupMock: func(_ testDeps) {},
			check: func(t *testing.T, _ dto.CreateBookingResponse, err error) {
				assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
			},
		},
		{
			name: "check-in in the past rejected",
			cfg:  demoConfig(),
			req: func() dto.CreateBookingRequest {
				req := createRequest()
				req.CheckIn = timezone.Today().AddDate(0, 0, -2).Format(constant.DateOnlyFormat)
				req.CheckOut = futureDate(2)

				return req
			}(),
			setupMock: func(_ testDeps) {},
			check: func(t *testing.T, _ dto.CreateBookingResponse, err error) {
				assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, deps := newService(t, tt.cfg)
			tt.setupMock(deps)

			ctx := context.WithValue(context.Background(), constant.ContextKeyUserID, "user-1")
			res, err := svc.Create(ctx, tt.req)

			tt.check(t, res, err)
		})
	}
}

func TestBookingService_CheckAvailability(t *testing.T) {
	checkIn := timezone.Today().AddDate(0, 0, 5)
	checkOut := timezone.Today().AddDate(0, 0, 8)

	tests := []struct {
		name          string
		count         int
		countErr      error
		wantAvailable bool
		wantErr       bool
	}{
		{name: "no overlap", count: 0, wantAvailable: true},
		{name: "overlapping booking", count: 1, wantAvailable: false},
		{name: "repository error", countErr: errors.New("db down"), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, deps := newService(t, demoConfig())

			deps.repo.EXPECT().Count(gomock.Any(), gomock.Any()).Return(tt.count, tt.countErr)

			available, err := svc.CheckAvailability(context.Background(), "room-1", checkIn, checkOut, constant.Empty)

			if tt.wantErr {
				assert.Error(t, err)

				return
			}

			assert.NoError(t, err)
			assert.Equal(t, tt.wantAvailable, available)
		})
	}
}

func TestBookingService_Availability(t *testing.T) {
	t.Run("room does not exist", func(t *testing.T) {
		svc, deps := newService(t, demoConfig())

		deps.roomRepo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)

		_, err := svc.Availability(context.Background(), "missing-room", futureDate(5), futureDate(8))
		assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
	})

	t.Run("reports a free range", func(t *testing.T) {
		svc, deps := newService(t, demoConfig())

		deps.roomRepo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
		deps.repo.EXPECT().Count(gomock.Any(), gomock.Any()).Return(0, nil)

		res, err := svc.Availability(context.Background(), "room-1", futureDate(5), futureDate(8))
		assert.NoError(t, err)
		assert.True(t, res.Available)
		assert.Equal(t, "room-1", res.RoomID)
	})

	t.Run("reports a taken range", func(t *testing.T) {
		svc, deps := newService(t, demoConfig())

		deps.roomRepo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
		deps.repo.EXPECT().Count(gomock.Any(), gomock.Any()).Return(2, nil)

		res, err := svc.Availability(context.Background(), "room-1", futureDate(5), futureDate(8))
		assert.NoError(t, err)
		assert.False(t, res.Available)
	})

	t.Run("rejects malformed dates", func(t *testing.T) {
		svc, _ := newService(t, demoConfig())

		_, err := svc.Availability(context.Background(), "room-1", "05/10/2030", futureDate(8))
		assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
	})
}

func TestBookingService_ConfirmPayment(t *testing.T) {
	t.Run("confirms a paid session", func(t *testing.T) {
		svc, deps := newService(t, liveConfig())

		booking := pendingBooking()

		deps.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(booking, nil)
		deps.checkout.EXPECT().
			GetSessionStatus(gomock.Any(), "cs_123").
			Return(checkout.Session{ID: "cs_123", PaymentStatus: "paid", PaymentIntentID: "pi_456"}, nil)
		deps.repo.EXPECT().
			Update(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, fields map[string]any, _ any) error {
				assert.Equal(t, constant.BookingStatusConfirmed, fields[model.FieldStatus])
				assert.Equal(t, constant.PaymentStatusPaid, fields[model.FieldPaymentStatus])
				assert.Equal(t, "pi_456", fields[model.FieldPaymentIntentID])

				return nil
			})
		deps.roomRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(testRoom(), nil).AnyTimes()

		res, err := svc.ConfirmPayment(context.Background(), booking.ID, dto.ConfirmPaymentRequest{SessionID: "cs_123"})
		assert.NoError(t, err)
		assert.Equal(t, constant.BookingStatusConfirmed, res.Status)
		assert.Equal(t, constant.PaymentStatusPaid, res.PaymentStatus)
	})

	t.Run("already confirmed booking is returned unchanged", func(t *testing.T) {
		svc, deps := newService(t, liveConfig())

		booking := pendingBooking()
		booking.Status = constant.BookingStatusConfirmed
		booking.PaymentStatus = constant.PaymentStatusPaid

		// No session lookup, no update, no second email.
		deps.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(booking, nil)

		res, err := svc.ConfirmPayment(context.Background(), booking.ID, dto.ConfirmPaymentRequest{SessionID: "cs_123"})
		assert.NoError(t, err)
		assert.Equal(t, constant.BookingStatusConfirmed, res.Status)
	})

	t.Run("cancelled booking cannot be confirmed", func(t *testing.T) {
		svc, deps := newService(t, liveConfig())

		booking := pendingBooking()
		booking.Status = constant.BookingStatusCancelled

		deps.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(booking, nil)

		_, err := svc.ConfirmPayment(context.Background(), booking.ID, dto.ConfirmPaymentRequest{SessionID: "cs_123"})
		assert.Equal(t, http.StatusConflict, failure.GetCode(err))
	})

	t.Run("processor error keeps the booking pending", func(t *testing.T) {
		svc, deps := newService(t, liveConfig())

		deps.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(pendingBooking(), nil)
		deps.checkout.EXPECT().
			GetSessionStatus(gomock.Any(), "cs_123").
			Return(checkout.Session{}, errors.New("timeout"))

		_, err := svc.ConfirmPayment(context.Background(), "booking-1", dto.ConfirmPaymentRequest{SessionID: "cs_123"})
		assert.Error(t, err)
	})

	t.Run("unpaid session rejected", func(t *testing.T) {
		svc, deps := newService(t, liveConfig())

		deps.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(pendingBooking(), nil)
		deps.checkout.EXPECT().
			GetSessionStatus(gomock.Any(), "cs_123").
			Return(checkout.Session{ID: "cs_123", PaymentStatus: "open"}, nil)

		_, err := svc.ConfirmPayment(context.Background(), "booking-1", dto.ConfirmPaymentRequest{SessionID: "cs_123"})
		assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
	})
}

func TestBookingService_DemoConfirm(t *testing.T) {
	t.Run("rejected when demo payments are disabled", func(t *testing.T) {
		svc, _ := newService(t, liveConfig())

		_, err := svc.DemoConfirm(context.Background(), "booking-1")
		assert.Equal(t, http.StatusForbidden, failure.GetCode(err))
	})

	t.Run("confirms a pending booking", func(t *testing.T) {
		svc, deps := newService(t, demoConfig())

		deps.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(pendingBooking(), nil)
		deps.repo.EXPECT().
			Update(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, fields map[string]any, _ any) error {
				intent, _ := fields[model.FieldPaymentIntentID].(string)
				assert.Contains(t, intent, constant.DemoPaymentIntentPrefix)

				return nil
			})
		deps.roomRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(testRoom(), nil).AnyTimes()

		res, err := svc.DemoConfirm(context.Background(), "booking-1")
		assert.NoError(t, err)
		assert.Equal(t, constant.BookingStatusConfirmed, res.Status)
	})
}

func TestBookingService_Cancel(t *testing.T) {
	tests := []struct {
		name      string
		userID    string
		role      string
		booking   model.Booking
		setupMock func(deps testDeps, booking model.Booking)
		wantCode  int
	}{
		{
			name:    "owner cancels a pending booking",
			userID:  "user-1",
			role:    constant.RoleUser,
			booking: pendingBooking(),
			setupMock: func(deps testDeps, booking model.Booking) {
				deps.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(booking, nil)
				deps.repo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
				deps.roomRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(testRoom(), nil).AnyTimes()
			},
		},
		{
			name:    "admin cancels someone else's booking",
			userID:  "admin-1",
			role:    constant.RoleAdmin,
			booking: pendingBooking(),
			setupMock: func(deps testDeps, booking model.Booking) {
				deps.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(booking, nil)
				deps.repo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
				deps.roomRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(testRoom(), nil).AnyTimes()
			},
		},
		{
			name:    "stranger cannot cancel",
			userID:  "user-2",
			role:    constant.RoleUser,
			booking: pendingBooking(),
			setupMock: func(deps testDeps, booking model.Booking) {
				deps.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(booking, nil)
			},
			wantCode: http.StatusForbidden,
		},
		{
			name:   "already cancelled",
			userID: "user-1",
			role:   constant.RoleUser,
			booking: func() model.Booking {
				b := pendingBooking()
				b.Status = constant.BookingStatusCancelled

				return b
			}(),
			setupMock: func(deps testDeps, booking model.Booking) {
				deps.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(booking, nil)
			},
			wantCode: http.StatusConflict,
		},
		{
			// Dates coming back from the database are midnight UTC.
			name:   "customer cannot cancel on the check-in day",
			userID: "user-1",
			role:   constant.RoleUser,
			booking: func() model.Booking {
				b := pendingBooking()
				b.Status = constant.BookingStatusConfirmed
				b.CheckIn = timezone.Date(timezone.Today())
				b.CheckOut = timezone.Date(timezone.Today().AddDate(0, 0, 3))

				return b
			}(),
			setupMock: func(deps testDeps, booking model.Booking) {
				deps.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(booking, nil)
			},
			wantCode: http.StatusConflict,
		},
		{
			name:   "customer cannot cancel a started stay",
			userID: "user-1",
			role:   constant.RoleUser,
			booking: func() model.Booking {
				b := pendingBooking()
				b.Status = constant.BookingStatusConfirmed
				b.CheckIn = timezone.Today().AddDate(0, 0, -1)
				b.CheckOut = timezone.Today().AddDate(0, 0, 2)

				return b
			}(),
			setupMock: func(deps testDeps, booking model.Booking) {
				deps.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(booking, nil)
			},
			wantCode: http.StatusConflict,
		},
		{
			name:   "admin cancels an in-progress stay",
			userID: "admin-1",
			role:   constant.RoleAdmin,
			booking: func() model.Booking {
				b := pendingBooking()
				b.Status = constant.BookingStatusConfirmed
				b.CheckIn = timezone.Today().AddDate(0, 0, -1)
				b.CheckOut = timezone.Today().AddDate(0, 0, 2)

				return b
			}(),
			setupMock: func(deps testDeps, booking model.Booking) {
				deps.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(booking, nil)
				deps.repo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
				deps.roomRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(testRoom(), nil).AnyTimes()
			},
		},
		{
			name:   "completed stay cannot be cancelled",
			userID: "user-1",
			role:   constant.RoleUser,
			booking: func() model.Booking {
				b := pendingBooking()
				b.Status = constant.BookingStatusConfirmed
				b.CheckIn = timezone.Today().AddDate(0, 0, -5)
				b.CheckOut = timezone.Today().AddDate(0, 0, -2)

				return b
			}(),
			setupMock: func(deps testDeps, booking model.Booking) {
				deps.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(booking, nil)
			},
			wantCode: http.StatusConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, deps := newService(t, demoConfig())
			tt.setupMock(deps, tt.booking)

			ctx := context.WithValue(context.Background(), constant.ContextKeyUserID, tt.userID)
			ctx = context.WithValue(ctx, constant.ContextKeyUserRole, tt.role)

			err := svc.Cancel(ctx, tt.booking.ID)

			if tt.wantCode != 0 {
				assert.Equal(t, tt.wantCode, failure.GetCode(err))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestBookingService_GuestLookup(t *testing.T) {
	t.Run("finds a booking by reference and email", func(t *testing.T) {
		svc, deps := newService(t, demoConfig())

		booking := pendingBooking()
		deps.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(booking, nil)

		res, err := svc.GuestLookup(context.Background(), dto.GuestBookingRequest{
			Reference: booking.BookingReference,
			Email:     booking.CustomerEmail,
		})
		assert.NoError(t, err)
		assert.Equal(t, booking.BookingReference, res.BookingReference)
	})

	t.Run("wrong email and wrong reference are indistinguishable", func(t *testing.T) {
		svc, deps := newService(t, demoConfig())

		deps.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Booking{}, nil)

		_, err := svc.GuestLookup(context.Background(), dto.GuestBookingRequest{
			Reference: "BK260901ABCDEF",
			Email:     "wrong@example.com",
		})
		assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
		assert.Contains(t, err.Error(), "booking not found")
	})
}

func TestBookingService_GuestCancel(t *testing.T) {
	t.Run("cancels the matched booking", func(t *testing.T) {
		svc, deps := newService(t, demoConfig())

		booking := pendingBooking()
		deps.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(booking, nil)
		deps.repo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
		deps.roomRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(testRoom(), nil).AnyTimes()

		err := svc.GuestCancel(context.Background(), dto.GuestBookingRequest{
			Reference: booking.BookingReference,
			Email:     booking.CustomerEmail,
		})
		assert.NoError(t, err)
	})

	t.Run("unknown credentials", func(t *testing.T) {
		svc, deps := newService(t, demoConfig())

		deps.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Booking{}, nil)

		err := svc.GuestCancel(context.Background(), dto.GuestBookingRequest{
			Reference: "BK260901ABCDEF",
			Email:     "wrong@example.com",
		})
		assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
	})
}

func TestBookingService_Reschedule(t *testing.T) {
	t.Run("moves the stay and reprices it", func(t *testing.T) {
		svc, deps := newService(t, demoConfig())

		booking := pendingBooking()

		deps.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(booking, nil)
		deps.repo.EXPECT().Count(gomock.Any(), gomock.Any()).Return(0, nil)
		deps.roomRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(testRoom(), nil)
		deps.repo.EXPECT().
			Update(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, fields map[string]any, _ any) error {
				// Two nights at the room rate.
				assert.Equal(t, float64(2*150), fields[model.FieldTotalPrice])

				return nil
			})

		err := svc.Reschedule(context.Background(), booking.ID, dto.RescheduleBookingRequest{
			CheckIn:  futureDate(20),
			CheckOut: futureDate(22),
		})
		assert.NoError(t, err)
	})

	t.Run("cancelled booking cannot move", func(t *testing.T) {
		svc, deps := newService(t, demoConfig())

		booking := pendingBooking()
		booking.Status = constant.BookingStatusCancelled

		deps.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(booking, nil)

		err := svc.Reschedule(context.Background(), booking.ID, dto.RescheduleBookingRequest{
			CheckIn:  futureDate(20),
			CheckOut: futureDate(22),
		})
		assert.Equal(t, http.StatusConflict, failure.GetCode(err))
	})

	t.Run("moves the stay to another room", func(t *testing.T) {
		svc, deps := newService(t, demoConfig())

		booking := pendingBooking()
		target := testRoom()
		target.ID = "room-2"
		target.PricePerNight = 200

		deps.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(booking, nil)
		deps.roomRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(target, nil)
		deps.repo.EXPECT().Count(gomock.Any(), gomock.Any()).Return(0, nil)
		deps.repo.EXPECT().
			Update(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, fields map[string]any, _ any) error {
				assert.Equal(t, "room-2", fields[model.FieldRoomID])
				assert.Equal(t, float64(2*200), fields[model.FieldTotalPrice])

				return nil
			})

		err := svc.Reschedule(context.Background(), booking.ID, dto.RescheduleBookingRequest{
			RoomID:   "room-2",
			CheckIn:  futureDate(20),
			CheckOut: futureDate(22),
		})
		assert.NoError(t, err)
	})

	t.Run("target room too small for the party", func(t *testing.T) {
		svc, deps := newService(t, demoConfig())

		booking := pendingBooking()
		booking.Guests = 4
		target := testRoom()
		target.ID = "room-2"
		target.Capacity = 2

		deps.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(booking, nil)
		deps.roomRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(target, nil)

		err := svc.Reschedule(context.Background(), booking.ID, dto.RescheduleBookingRequest{
			RoomID:   "room-2",
			CheckIn:  futureDate(20),
			CheckOut: futureDate(22),
		})
		assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
	})

	t.Run("target dates taken", func(t *testing.T) {
		svc, deps := newService(t, demoConfig())

		booking := pendingBooking()

		deps.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(booking, nil)
		deps.roomRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(testRoom(), nil)
		deps.repo.EXPECT().Count(gomock.Any(), gomock.Any()).Return(1, nil)

		err := svc.Reschedule(context.Background(), booking.ID, dto.RescheduleBookingRequest{
			CheckIn:  futureDate(20),
			CheckOut: futureDate(22),
		})
		assert.Equal(t, http.StatusConflict, failure.GetCode(err))
	})

	t.Run("lost race surfaces as a conflict", func(t *testing.T) {
		svc, deps := newService(t, demoConfig())

		booking := pendingBooking()

		deps.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(booking, nil)
		deps.repo.EXPECT().Count(gomock.Any(), gomock.Any()).Return(0, nil)
		deps.roomRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(testRoom(), nil)
		deps.repo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).Return(gRepo.ErrExclusionViolation)

		err := svc.Reschedule(context.Background(), booking.ID, dto.RescheduleBookingRequest{
			CheckIn:  futureDate(20),
			CheckOut: futureDate(22),
		})
		assert.Equal(t, http.StatusConflict, failure.GetCode(err))
	})
}

func TestBooking_EffectiveStatus(t *testing.T) {
	tests := []struct {
		name     string
		status   string
		checkOut time.Time
		want     string
	}{
		{
			name:     "confirmed future stay stays confirmed",
			status:   constant.BookingStatusConfirmed,
			checkOut: timezone.Today().AddDate(0, 0, 3),
			want:     constant.BookingStatusConfirmed,
		},
		{
			name:     "confirmed past stay reads as completed",
			status:   constant.BookingStatusConfirmed,
			checkOut: timezone.Today().AddDate(0, 0, -1),
			want:     constant.BookingStatusCompleted,
		},
		{
			name:     "check-out today reads as completed",
			status:   constant.BookingStatusConfirmed,
			checkOut: timezone.Today(),
			want:     constant.BookingStatusCompleted,
		},
		{
			// Postgres DATE columns scan as midnight UTC, not midnight in
			// the application timezone.
			name:     "check-out today at midnight UTC reads as completed",
			status:   constant.BookingStatusConfirmed,
			checkOut: timezone.Date(timezone.Today()),
			want:     constant.BookingStatusCompleted,
		},
		{
			name:     "pending past stay is not completed",
			status:   constant.BookingStatusPending,
			checkOut: timezone.Today().AddDate(0, 0, -1),
			want:     constant.BookingStatusPending,
		},
		{
			name:     "cancelled stays cancelled",
			status:   constant.BookingStatusCancelled,
			checkOut: timezone.Today().AddDate(0, 0, -1),
			want:     constant.BookingStatusCancelled,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			booking := model.Booking{Status: tt.status, CheckOut: tt.checkOut}

			assert.Equal(t, tt.want, booking.EffectiveStatus())
		})
	}
}
