package dto

import (
	"mime/multipart"

	"meridian/internal/domains/room/model"
	"meridian/shared"
	gDto "meridian/shared/dto"
	gModel "meridian/shared/model"
	"meridian/shared/timezone"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

type CreateRoomRequest struct {
	Name          string                  `json:"name"            validate:"required,max=100"`
	Category      string                  `json:"category"        validate:"required,oneof=standard deluxe executive_suite"`
	Description   string                  `json:"description"     validate:"omitempty,max=2000"`
	PricePerNight float64                 `json:"price_per_night" validate:"gte=0"`
	Capacity      int                     `json:"capacity"        validate:"required,min=1,max=10"`
	Amenities     []string                `json:"amenities"       validate:"omitempty,max=20,dive,max=50"`
	Images        []*multipart.FileHeader `json:"images"          validate:"omitempty,max=8,dive,mimetypes=image/png image/jpg image/jpeg,maxfilesize=2"`
	ImageFiles    []multipart.File        `json:"-"`
	IsAvailable   *bool                   `json:"is_available"    validate:"omitempty"`
}

func (c *CreateRoomRequest) ToModel(user string, imageURLs []string) model.Room {
	available := true
	if c.IsAvailable != nil {
		available = *c.IsAvailable
	}

	return model.Room{
		ID:            uuid.NewString(),
		Name:          c.Name,
		Category:      c.Category,
		Description:   c.Description,
		PricePerNight: c.PricePerNight,
		Capacity:      c.Capacity,
		Amenities:     pq.StringArray(c.Amenities),
		Images:        pq.StringArray(imageURLs),
		IsAvailable:   available,
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
			CreatedBy:  user,
			ModifiedBy: user,
		},
	}
}

type UpdateRoomRequest struct {
	Name          string                  `db:"name"            json:"name"            validate:"omitempty,max=100"`
	Category      string                  `db:"category"        json:"category"        validate:"omitempty,oneof=standard deluxe executive_suite"`
	Description   *string                 `db:"description"     json:"description"     validate:"omitempty,max=2000"`
	PricePerNight *float64                `db:"price_per_night" json:"price_per_night" validate:"omitempty,gte=0"`
	Capacity      *int                    `db:"capacity"        json:"capacity"        validate:"omitempty,min=1,max=10"`
	Amenities     []string                `db:"amenities"       json:"amenities"       validate:"omitempty,max=20,dive,max=50"`
	Images        []*multipart.FileHeader `json:"images"        validate:"omitempty,max=8,dive,mimetypes=image/png image/jpg image/jpeg,maxfilesize=2"`
	ImageFiles    []multipart.File        `json:"-"`
	IsAvailable   *bool                   `db:"is_available"    json:"is_available"    validate:"omitempty"`
}

type RoomResponse struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	Category      string   `json:"category"`
	Description   string   `json:"description"`
	PricePerNight float64  `json:"price_per_night"`
	Capacity      int      `json:"capacity"`
	Amenities     []string `json:"amenities"`
	Images        []string `json:"images"`
	IsAvailable   bool     `json:"is_available"`
	gDto.Metadata
}

func (r *RoomResponse) FromModel(model model.Room) {
	r.ID = model.ID
	r.Name = model.Name
	r.Category = model.Category
	r.Description = model.Description
	r.PricePerNight = model.PricePerNight
	r.Capacity = model.Capacity
	r.Amenities = model.Amenities
	r.Images = model.Images
	r.IsAvailable = model.IsAvailable
	r.Metadata.FromModel(model.Metadata)
}

type GetRoomsResponse struct {
	Rooms     []RoomResponse `json:"rooms"`
	TotalPage int            `json:"total_page"`
	TotalData int            `json:"total_data"`
}

func (r *GetRoomsResponse) FromModels(models []model.Room, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Rooms = make([]RoomResponse, len(models))
	for i, mod := range models {
		r.Rooms[i].FromModel(mod)
	}
}

type RoomAvailabilityResponse struct {
	RoomID    string `json:"room_id"`
	CheckIn   string `json:"check_in"`
	CheckOut  string `json:"check_out"`
	Available bool   `json:"available"`
}
