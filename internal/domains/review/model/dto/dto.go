package dto

import (
	"mime/multipart"

	"meridian/internal/domains/review/model"
	"meridian/shared"
	gDto "meridian/shared/dto"
	gModel "meridian/shared/model"
	"meridian/shared/timezone"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

type CreateReviewRequest struct {
	BookingID  string                  `json:"booking_id" validate:"required,uuid"`
	Rating     int                     `json:"rating"     validate:"required,min=1,max=5"`
	Comment    string                  `json:"comment"    validate:"omitempty,max=2000"`
	Photos     []*multipart.FileHeader `json:"photos"     validate:"omitempty,max=5,dive,mimetypes=image/png image/jpg image/jpeg,maxfilesize=2"`
	PhotoFiles []multipart.File        `json:"-"`
}

func (c *CreateReviewRequest) ToModel(roomID, customerID, customerName string, photoURLs []string) model.Review {
	return model.Review{
		ID:           uuid.NewString(),
		BookingID:    c.BookingID,
		RoomID:       roomID,
		CustomerID:   customerID,
		CustomerName: customerName,
		Rating:       c.Rating,
		Comment:      c.Comment,
		Photos:       pq.StringArray(photoURLs),
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
			CreatedBy:  customerID,
			ModifiedBy: customerID,
		},
	}
}

type ReviewResponse struct {
	ID           string   `json:"id"`
	BookingID    string   `json:"booking_id"`
	RoomID       string   `json:"room_id"`
	CustomerName string   `json:"customer_name"`
	Rating       int      `json:"rating"`
	Comment      string   `json:"comment"`
	Photos       []string `json:"photos"`
	gDto.Metadata
}

func (r *ReviewResponse) FromModel(mod model.Review) {
	r.ID = mod.ID
	r.BookingID = mod.BookingID
	r.RoomID = mod.RoomID
	r.CustomerName = mod.CustomerName
	r.Rating = mod.Rating
	r.Comment = mod.Comment
	r.Photos = mod.Photos
	r.Metadata.FromModel(mod.Metadata)
}

type GetReviewsResponse struct {
	Reviews       []ReviewResponse `json:"reviews"`
	AverageRating float64          `json:"average_rating"`
	TotalPage     int              `json:"total_page"`
	TotalData     int              `json:"total_data"`
}

func (r *GetReviewsResponse) FromModels(models []model.Review, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Reviews = make([]ReviewResponse, len(models))
	for i, mod := range models {
		r.Reviews[i].FromModel(mod)
	}
}
