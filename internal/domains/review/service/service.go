package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"meridian/config"
	"meridian/infras/otel"
	"meridian/infras/s3"
	bookingModel "meridian/internal/domains/booking/model"
	bookingRepo "meridian/internal/domains/booking/repository"
	"meridian/internal/domains/review/model"
	"meridian/internal/domains/review/model/dto"
	"meridian/internal/domains/review/repository"
	"meridian/shared"
	"meridian/shared/cache"
	"meridian/shared/constant"
	gDto "meridian/shared/dto"
	"meridian/shared/failure"
	gRepo "meridian/shared/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const (
	cacheGetAllReview = "review:gets"
	cacheCountReview  = "review:count"
)

type Review interface {
	Create(ctx context.Context, req dto.CreateReviewRequest) (dto.ReviewResponse, error)
	GetByRoom(ctx context.Context, roomID string, req gDto.QueryParams) (dto.GetReviewsResponse, error)
	Delete(ctx context.Context, id string) error
}

type serviceImpl struct {
	repo        repository.Review
	bookingRepo bookingRepo.Booking
	cfg         *config.Config
	cache       cache.RedisCache
	otel        otel.Otel
	s3          s3.S3
}

func New(repo repository.Review, bookingRepo bookingRepo.Booking, cfg *config.Config, cache cache.RedisCache, otl otel.Otel, s3 s3.S3) Review {
	return &serviceImpl{
		repo:        repo,
		bookingRepo: bookingRepo,
		cfg:         cfg,
		cache:       cache,
		otel:        otl,
		s3:          s3,
	}
}

// Create accepts a review only from the customer who completed the stay. The
// unique index on booking_id keeps it to one review per booking.
func (s *serviceImpl) Create(ctx context.Context, req dto.CreateReviewRequest) (res dto.ReviewResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Create")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	if user == constant.Empty {
		return res, failure.Unauthorized("missing user identity") // nolint:wrapcheck
	}

	booking, err := s.bookingRepo.Get(ctx, shared.FilterByID(req.BookingID, bookingModel.FieldID, bookingModel.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get booking for review")

		return res, fmt.Errorf("failed to get booking: %w", err)
	}

	if booking.ID == constant.Empty {
		return res, failure.NotFound("booking not found") // nolint:wrapcheck
	}

	if booking.CustomerID == nil || *booking.CustomerID != user {
		return res, failure.ResourceRestrictedError
	}

	if booking.EffectiveStatus() != constant.BookingStatusCompleted {
		return res, failure.Conflict("only completed stays can be reviewed") // nolint:wrapcheck
	}

	photoURLs, uploadedObjects, err := s.uploadPhotos(ctx, req)
	if err != nil {
		return res, err
	}

	review := req.ToModel(booking.RoomID, user, booking.CustomerName, photoURLs)

	if err = s.repo.Insert(ctx, review); err != nil {
		s.deleteObjects(ctx, uploadedObjects)

		if errors.Is(err, gRepo.ErrUniqueViolation) {
			return res, failure.Conflict("booking has already been reviewed") // nolint:wrapcheck
		}

		log.Error().Err(err).Msg("failed to create review")

		return res, fmt.Errorf("failed to create review: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		shared.InvalidateCaches(c, s.cache, cacheGetAllReview)
		shared.InvalidateCaches(c, s.cache, cacheCountReview)
	}()

	res.FromModel(review)

	return res, nil
}

func (s *serviceImpl) GetByRoom(ctx context.Context, roomID string, req gDto.QueryParams) (res dto.GetReviewsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetByRoom")
	defer scope.End()
	defer scope.TraceIfError(err)

	filter := shared.FilterByID(roomID, model.FieldRoomID, model.TableName)
	cacheKey := shared.BuildCacheKeyWithQuery(cacheGetAllReview, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for reviews")

		return res, nil
	}

	total, err := s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count reviews")

		return res, fmt.Errorf("failed to count reviews: %w", err)
	}

	models, err := s.repo.GetAll(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get reviews")

		return res, fmt.Errorf("failed to get reviews: %w", err)
	}

	// The average spans the whole room, not just the current page.
	average, err := s.repo.AverageByRoom(ctx, roomID)
	if err != nil {
		log.Error().Err(err).Msg("failed to get average rating")

		return res, fmt.Errorf("failed to get average rating: %w", err)
	}

	res.FromModels(models, total, req.Limit)
	res.AverageRating = average

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save reviews to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Delete(ctx context.Context, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Delete")
	defer scope.End()
	defer scope.TraceIfError(err)

	review, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get review")

		return fmt.Errorf("failed to get review: %w", err)
	}

	if review.ID == constant.Empty {
		return failure.NotFound("review not found") // nolint:wrapcheck
	}

	if err := s.repo.Delete(ctx, shared.FilterByID(id, model.FieldID, model.TableName)); err != nil {
		log.Error().Err(err).Msg("failed to delete review")

		return fmt.Errorf("failed to delete review: %w", err)
	}

	bucketName := s.cfg.External.S3.BucketName
	for _, photoURL := range review.Photos {
		objectName := s.s3.GetObjectNameFromURL(bucketName, photoURL)
		if objectName != constant.Empty {
			_ = s.s3.DeleteFile(ctx, bucketName, model.EntityName, objectName)
		}
	}

	go func() {
		c := context.WithoutCancel(ctx)

		shared.InvalidateCaches(c, s.cache, cacheGetAllReview)
		shared.InvalidateCaches(c, s.cache, cacheCountReview)
	}()

	return nil
}

func (s *serviceImpl) uploadPhotos(ctx context.Context, req dto.CreateReviewRequest) (urls, objectNames []string, err error) {
	if len(req.Photos) == 0 {
		return nil, nil, nil
	}

	if len(req.PhotoFiles) != len(req.Photos) {
		return nil, nil, failure.BadRequestFromString("photo files do not match photo headers") // nolint:wrapcheck
	}

	bucketName := s.cfg.External.S3.BucketName

	for i, header := range req.Photos {
		filename := uuid.NewString()

		parts := strings.Split(header.Filename, ".")
		if len(parts) > 1 {
			filename = fmt.Sprintf("%s.%s", filename, parts[len(parts)-1])
		}

		url, err := s.s3.UploadFile(ctx, bucketName, model.EntityName, req.PhotoFiles[i], header, filename)
		if err != nil {
			log.Error().Err(err).Msg("failed to upload review photo to S3")

			s.deleteObjects(ctx, objectNames)

			return nil, nil, fmt.Errorf("failed to upload photo: %w", err)
		}

		urls = append(urls, url)
		objectNames = append(objectNames, filename)
	}

	return urls, objectNames, nil
}

func (s *serviceImpl) deleteObjects(ctx context.Context, objectNames []string) {
	bucketName := s.cfg.External.S3.BucketName
	for _, objectName := range objectNames {
		_ = s.s3.DeleteFile(ctx, bucketName, model.EntityName, objectName)
	}
}
