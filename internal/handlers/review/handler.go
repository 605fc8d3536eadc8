package review

import (
	"net/http"

	"meridian/infras/otel"
	"meridian/internal/domains/review/model"
	"meridian/internal/domains/review/model/dto"
	"meridian/internal/domains/review/service"
	"meridian/shared"
	"meridian/shared/constant"
	gDto "meridian/shared/dto"
	"meridian/shared/validator"
	"meridian/transport/http/response"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

type Handler struct {
	service service.Review
	otel    otel.Otel
}

func New(service service.Review, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/reviews", func(routerGroup chi.Router) {
		routerGroup.Post("/", handler.CreateReview)
		routerGroup.Delete("/{id}", handler.DeleteReview)
	})

	// Reviews for a room are browsed from the room page, so the listing
	// lives under the rooms prefix.
	router.Get("/rooms/{id}/reviews", handler.GetRoomReviews)
}

// CreateReview handles review submission for a completed stay.
// @Summary Create a review
// @Description Submit a review for a completed booking, with optional photos.
// @Tags Review
// @Accept multipart/form-data
// @Produce json
// @Param booking_id formData string true "Booking ID"
// @Param rating formData integer true "Rating between 1 and 5"
// @Param comment formData string false "Review comment"
// @Param photos formData file false "Review photos"
// @Success 201 {object} response.Data[dto.ReviewResponse] "Review created successfully"
// @Failure 400 {object} response.Error
// @Failure 403 {object} response.Error
// @Failure 409 {object} response.Error
// @Router /v1/reviews [post]
// @Security BearerAuth
func (handler *Handler) CreateReview(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreateReview")
	defer scope.End()

	if err := request.ParseMultipartForm(constant.RequestMaxMemory); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to parse multipart form")
		response.WithError(writer, err)

		return
	}

	req := dto.CreateReviewRequest{
		BookingID: request.FormValue(model.FieldBookingID),
		Comment:   request.FormValue(model.FieldComment),
	}

	if ratingStr := request.FormValue(model.FieldRating); ratingStr != "" {
		if rating, err := shared.ConvertStringToInt(ratingStr); err == nil {
			req.Rating = rating
		}
	}

	if request.MultipartForm != nil {
		for _, fileHeader := range request.MultipartForm.File[model.FieldPhotos] {
			file, err := fileHeader.Open()
			if err != nil {
				continue
			}

			req.Photos = append(req.Photos, fileHeader)
			req.PhotoFiles = append(req.PhotoFiles, file)

			defer file.Close()
		}
	}

	if err := validator.ValidateStruct(&req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request")

		response.WithError(writer, err)

		return
	}

	res, err := handler.service.Create(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to create review")

		response.WithError(writer, err)

		return
	}

	scope.AddEvent("Review created successfully")

	response.WithJSON(writer, http.StatusCreated, res)
}

// GetRoomReviews retrieves the reviews of a room.
// @Summary Get reviews for a room
// @Tags Review
// @Produce json
// @Param id path string true "Room ID"
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Success 200 {object} response.Data[dto.GetReviewsResponse] "List of reviews"
// @Failure 404 {object} response.Error
// @Router /v1/rooms/{id}/reviews [get]
func (handler *Handler) GetRoomReviews(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetRoomReviews")
	defer scope.End()

	roomID := chi.URLParam(r, constant.RequestParamID)

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)

	reviews, err := handler.service.GetByRoom(ctx, roomID, queryParams)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get room reviews")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, reviews)
}

// DeleteReview deletes a review by its ID.
// @Summary Delete a review by ID
// @Tags Review
// @Produce json
// @Param id path string true "Review ID"
// @Success 200 {object} response.Message "Review deleted successfully"
// @Failure 404 {object} response.Error
// @Router /v1/reviews/{id} [delete]
// @Security BearerAuth
func (handler *Handler) DeleteReview(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".DeleteReview")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	if err := handler.service.Delete(ctx, id); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to delete review")

		response.WithError(w, err)

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	scope.AddEvent("Review deleted successfully by user " + user)

	response.WithMessage(w, http.StatusOK, "Review deleted successfully")
}
