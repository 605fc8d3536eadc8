package service_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"meridian/config"
	"meridian/infras/otel/mocks"
	s3Mocks "meridian/infras/s3/mocks"
	bookingMocks "meridian/internal/domains/booking/mocks"
	bookingModel "meridian/internal/domains/booking/model"
	reviewMocks "meridian/internal/domains/review/mocks"
	"meridian/internal/domains/review/model"
	"meridian/internal/domains/review/model/dto"
	"meridian/internal/domains/review/service"
	"meridian/shared/cache"
	cacheMocks "meridian/shared/cache/mocks"
	"meridian/shared/constant"
	gDto "meridian/shared/dto"
	"meridian/shared/failure"
	gRepo "meridian/shared/repository"
	"meridian/shared/timezone"
)

type testDeps struct {
	repo        *reviewMocks.MockReview
	bookingRepo *bookingMocks.MockBooking
	cache       *cacheMocks.MockRedisCache
	s3          *s3Mocks.MockS3
}

func newService(t *testing.T) (service.Review, testDeps) {
	t.Helper()

	ctrl := gomock.NewController(t)

	deps := testDeps{
		repo:        reviewMocks.NewMockReview(ctrl),
		bookingRepo: bookingMocks.NewMockBooking(ctrl),
		cache:       cacheMocks.NewMockRedisCache(ctrl),
		s3:          s3Mocks.NewMockS3(ctrl),
	}

	// Cache writes and invalidation run on background goroutines.
	deps.cache.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	deps.cache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	cfg := &config.Config{}
	cfg.Cache.TTL = 3600
	cfg.External.S3.BucketName = "meridian-assets"

	svc := service.New(deps.repo, deps.bookingRepo, cfg, deps.cache, mocks.NewOtel(), deps.s3)

	return svc, deps
}

// completedBooking is a confirmed stay whose check-out has passed, so its
// effective status reads completed.
func completedBooking(customerID string) bookingModel.Booking {
	return bookingModel.Booking{
		ID:            "booking-1",
		RoomID:        "room-1",
		CustomerID:    &customerID,
		CustomerName:  "Ada Lovelace",
		CustomerEmail: "ada@example.com",
		CheckIn:       timezone.Today().AddDate(0, 0, -5),
		CheckOut:      timezone.Today().AddDate(0, 0, -2),
		Status:        constant.BookingStatusConfirmed,
		PaymentStatus: constant.PaymentStatusPaid,
	}
}

func TestReviewService_Create(t *testing.T) {
	req := dto.CreateReviewRequest{
		BookingID: "booking-1",
		Rating:    5,
		Comment:   "Wonderful stay",
	}

	tests := []struct {
		name      string
		userID    string
		setupMock func(deps testDeps)
		wantCode  int
		wantErr   string
	}{
		{
			name:   "completed stay reviewed by its customer",
			userID: "user-1",
			setupMock: func(deps testDeps) {
				deps.bookingRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(completedBooking("user-1"), nil)
				deps.repo.EXPECT().
					Insert(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, review model.Review) error {
						assert.Equal(t, "room-1", review.RoomID)
						assert.Equal(t, "Ada Lovelace", review.CustomerName)
						assert.Equal(t, 5, review.Rating)

						return nil
					})
			},
		},
		{
			name:      "anonymous caller rejected",
			userID:    constant.Empty,
			setupMock: func(_ testDeps) {},
			wantCode:  http.StatusUnauthorized,
		},
		{
			name:   "booking not found",
			userID: "user-1",
			setupMock: func(deps testDeps) {
				deps.bookingRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(bookingModel.Booking{}, nil)
			},
			wantCode: http.StatusNotFound,
		},
		{
			name:   "someone else's booking",
			userID: "user-2",
			setupMock: func(deps testDeps) {
				deps.bookingRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(completedBooking("user-1"), nil)
			},
			wantCode: http.StatusForbidden,
		},
		{
			name:   "stay not finished yet",
			userID: "user-1",
			setupMock: func(deps testDeps) {
				booking := completedBooking("user-1")
				booking.CheckIn = timezone.Today().AddDate(0, 0, 5)
				booking.CheckOut = timezone.Today().AddDate(0, 0, 8)

				deps.bookingRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(booking, nil)
			},
			wantCode: http.StatusConflict,
			wantErr:  "only completed stays can be reviewed",
		},
		{
			name:   "guest booking cannot be reviewed",
			userID: "user-1",
			setupMock: func(deps testDeps) {
				booking := completedBooking("user-1")
				booking.CustomerID = nil

				deps.bookingRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(booking, nil)
			},
			wantCode: http.StatusForbidden,
		},
		{
			name:   "second review for the same booking rejected",
			userID: "user-1",
			setupMock: func(deps testDeps) {
				deps.bookingRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(completedBooking("user-1"), nil)
				deps.repo.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(gRepo.ErrUniqueViolation)
			},
			wantCode: http.StatusConflict,
			wantErr:  "booking has already been reviewed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, deps := newService(t)
			tt.setupMock(deps)

			ctx := context.Background()
			if tt.userID != constant.Empty {
				ctx = context.WithValue(ctx, constant.ContextKeyUserID, tt.userID)
			}

			res, err := svc.Create(ctx, req)

			if tt.wantCode != 0 {
				assert.Equal(t, tt.wantCode, failure.GetCode(err))
				if tt.wantErr != constant.Empty {
					assert.Contains(t, err.Error(), tt.wantErr)
				}

				return
			}

			assert.NoError(t, err)
			assert.Equal(t, "booking-1", res.BookingID)
		})
	}
}

func TestReviewService_GetByRoom(t *testing.T) {
	params := gDto.QueryParams{Page: 1, Limit: 10}

	t.Run("cache miss falls through to the repository", func(t *testing.T) {
		svc, deps := newService(t)

		reviews := []model.Review{
			{ID: "review-1", RoomID: "room-1", Rating: 5, CustomerName: "Ada Lovelace"},
			{ID: "review-2", RoomID: "room-1", Rating: 4, CustomerName: "Grace Hopper"},
		}

		deps.cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(cache.Nil)
		deps.repo.EXPECT().Count(gomock.Any(), gomock.Any()).Return(2, nil)
		deps.repo.EXPECT().GetAll(gomock.Any(), params, gomock.Any()).Return(reviews, nil)
		deps.repo.EXPECT().AverageByRoom(gomock.Any(), "room-1").Return(4.5, nil)

		res, err := svc.GetByRoom(context.Background(), "room-1", params)
		assert.NoError(t, err)
		assert.Len(t, res.Reviews, 2)
		assert.Equal(t, 2, res.TotalData)
		assert.Equal(t, 4.5, res.AverageRating)
	})

	t.Run("cache hit skips the repository", func(t *testing.T) {
		svc, deps := newService(t)

		deps.cache.EXPECT().
			Get(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, _ string, value any) error {
				res, _ := value.(*dto.GetReviewsResponse)
				res.TotalData = 7

				return nil
			})

		res, err := svc.GetByRoom(context.Background(), "room-1", params)
		assert.NoError(t, err)
		assert.Equal(t, 7, res.TotalData)
	})

	t.Run("repository error surfaces", func(t *testing.T) {
		svc, deps := newService(t)

		deps.cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(cache.Nil)
		deps.repo.EXPECT().Count(gomock.Any(), gomock.Any()).Return(0, errors.New("db down"))

		_, err := svc.GetByRoom(context.Background(), "room-1", params)
		assert.Error(t, err)
	})
}

func TestReviewService_Delete(t *testing.T) {
	t.Run("deletes the review and its photos", func(t *testing.T) {
		svc, deps := newService(t)

		review := model.Review{
			ID:     "review-1",
			Photos: pq.StringArray{"https://cdn.example.com/photo.jpg"},
		}

		deps.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(review, nil)
		deps.repo.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil)
		deps.s3.EXPECT().GetObjectNameFromURL("meridian-assets", "https://cdn.example.com/photo.jpg").Return("photo.jpg")
		deps.s3.EXPECT().DeleteFile(gomock.Any(), "meridian-assets", model.EntityName, "photo.jpg").Return(nil)

		err := svc.Delete(context.Background(), "review-1")
		assert.NoError(t, err)
	})

	t.Run("review not found", func(t *testing.T) {
		svc, deps := newService(t)

		deps.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Review{}, nil)

		err := svc.Delete(context.Background(), "missing")
		assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
	})
}
