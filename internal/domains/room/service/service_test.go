package service_test

import (
	"context"
	"errors"
	"mime/multipart"
	"net/http"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"meridian/config"
	"meridian/infras/otel/mocks"
	s3Mocks "meridian/infras/s3/mocks"
	roomMocks "meridian/internal/domains/room/mocks"
	"meridian/internal/domains/room/model"
	"meridian/internal/domains/room/model/dto"
	"meridian/internal/domains/room/service"
	"meridian/shared/cache"
	cacheMocks "meridian/shared/cache/mocks"
	"meridian/shared/constant"
	gDto "meridian/shared/dto"
	"meridian/shared/failure"
)

type testDeps struct {
	repo  *roomMocks.MockRoom
	cache *cacheMocks.MockRedisCache
	s3    *s3Mocks.MockS3
}

func newService(t *testing.T) (service.Room, testDeps) {
	t.Helper()

	ctrl := gomock.NewController(t)

	deps := testDeps{
		repo:  roomMocks.NewMockRoom(ctrl),
		cache: cacheMocks.NewMockRedisCache(ctrl),
		s3:    s3Mocks.NewMockS3(ctrl),
	}

	// Cache writes and invalidation run on background goroutines.
	deps.cache.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	deps.cache.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	deps.cache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	cfg := &config.Config{}
	cfg.Cache.TTL = 3600
	cfg.External.S3.BucketName = "meridian-assets"

	svc := service.New(deps.repo, cfg, deps.cache, mocks.NewOtel(), deps.s3)

	return svc, deps
}

func testRoom() model.Room {
	return model.Room{
		ID:            "room-1",
		Name:          "Harbour View Deluxe",
		Category:      "deluxe",
		PricePerNight: 150,
		Capacity:      2,
		Amenities:     pq.StringArray{"wifi", "minibar"},
		IsAvailable:   true,
	}
}

func imageUpload(name string) ([]*multipart.FileHeader, []multipart.File) {
	return []*multipart.FileHeader{{Filename: name}}, []multipart.File{nil}
}

func TestRoomService_Create(t *testing.T) {
	ctx := context.WithValue(context.Background(), constant.ContextKeyUserID, "admin-1")

	t.Run("creates a room without images", func(t *testing.T) {
		svc, deps := newService(t)

		deps.repo.EXPECT().
			Insert(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, room model.Room) error {
				assert.Equal(t, "Harbour View Deluxe", room.Name)
				assert.True(t, room.IsAvailable)

				return nil
			})

		err := svc.Create(ctx, dto.CreateRoomRequest{
			Name:          "Harbour View Deluxe",
			Category:      "deluxe",
			PricePerNight: 150,
			Capacity:      2,
		})
		assert.NoError(t, err)
	})

	t.Run("uploads images and keeps the extension", func(t *testing.T) {
		svc, deps := newService(t)

		headers, files := imageUpload("front.jpg")

		deps.s3.EXPECT().
			UploadFile(gomock.Any(), "meridian-assets", model.EntityName, gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, _, _ string, _ multipart.File, _ *multipart.FileHeader, fileName string) (string, error) {
				assert.Contains(t, fileName, ".jpg")

				return "https://cdn.example.com/" + fileName, nil
			})
		deps.repo.EXPECT().
			Insert(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, room model.Room) error {
				assert.Len(t, room.Images, 1)

				return nil
			})

		err := svc.Create(ctx, dto.CreateRoomRequest{
			Name:          "Harbour View Deluxe",
			Category:      "deluxe",
			PricePerNight: 150,
			Capacity:      2,
			Images:        headers,
			ImageFiles:    files,
		})
		assert.NoError(t, err)
	})

	t.Run("cleans up uploads when the insert fails", func(t *testing.T) {
		svc, deps := newService(t)

		headers, files := imageUpload("front.png")

		deps.s3.EXPECT().
			UploadFile(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Return("https://cdn.example.com/front.png", nil)
		deps.repo.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(errors.New("db down"))
		deps.s3.EXPECT().DeleteFile(gomock.Any(), "meridian-assets", model.EntityName, gomock.Any()).Return(nil)

		err := svc.Create(ctx, dto.CreateRoomRequest{
			Name:          "Harbour View Deluxe",
			Category:      "deluxe",
			PricePerNight: 150,
			Capacity:      2,
			Images:        headers,
			ImageFiles:    files,
		})
		assert.Error(t, err)
	})

	t.Run("mismatched image files rejected", func(t *testing.T) {
		svc, _ := newService(t)

		headers, _ := imageUpload("front.jpg")

		err := svc.Create(ctx, dto.CreateRoomRequest{
			Name:          "Harbour View Deluxe",
			Category:      "deluxe",
			PricePerNight: 150,
			Capacity:      2,
			Images:        headers,
			ImageFiles:    nil,
		})
		assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
	})
}

func TestRoomService_GetAll(t *testing.T) {
	params := gDto.QueryParams{Page: 1, Limit: 10}

	t.Run("cache miss falls through to the repository", func(t *testing.T) {
		svc, deps := newService(t)

		deps.cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(cache.Nil).Times(2)
		deps.repo.EXPECT().Count(gomock.Any(), gomock.Any()).Return(1, nil)
		deps.repo.EXPECT().GetAll(gomock.Any(), params, gomock.Any()).Return([]model.Room{testRoom()}, nil)

		res, err := svc.GetAll(context.Background(), params, gDto.FilterGroup{})
		assert.NoError(t, err)
		assert.Len(t, res.Rooms, 1)
		assert.Equal(t, 1, res.TotalData)
		assert.Equal(t, 1, res.TotalPage)
	})

	t.Run("cache hit skips the repository", func(t *testing.T) {
		svc, deps := newService(t)

		deps.cache.EXPECT().
			Get(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, _ string, value any) error {
				res, _ := value.(*dto.GetRoomsResponse)
				res.TotalData = 3

				return nil
			})

		res, err := svc.GetAll(context.Background(), params, gDto.FilterGroup{})
		assert.NoError(t, err)
		assert.Equal(t, 3, res.TotalData)
	})

	t.Run("repository error surfaces", func(t *testing.T) {
		svc, deps := newService(t)

		deps.cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(cache.Nil).Times(2)
		deps.repo.EXPECT().Count(gomock.Any(), gomock.Any()).Return(0, errors.New("db down"))

		_, err := svc.GetAll(context.Background(), params, gDto.FilterGroup{})
		assert.Error(t, err)
	})
}

func TestRoomService_Get(t *testing.T) {
	t.Run("returns the room", func(t *testing.T) {
		svc, deps := newService(t)

		deps.cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(cache.Nil)
		deps.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(testRoom(), nil)

		res, err := svc.Get(context.Background(), "room-1")
		assert.NoError(t, err)
		assert.Equal(t, "room-1", res.ID)
		assert.Equal(t, []string{"wifi", "minibar"}, res.Amenities)
	})

	t.Run("room not found", func(t *testing.T) {
		svc, deps := newService(t)

		deps.cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(cache.Nil)
		deps.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Room{}, nil)

		_, err := svc.Get(context.Background(), "missing")
		assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
	})
}

func TestRoomService_Update(t *testing.T) {
	ctx := context.WithValue(context.Background(), constant.ContextKeyUserID, "admin-1")

	t.Run("updates amenities as a text array", func(t *testing.T) {
		svc, deps := newService(t)

		deps.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(testRoom(), nil)
		deps.repo.EXPECT().
			Update(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, fields map[string]any, _ gDto.FilterGroup) error {
				assert.Equal(t, pq.StringArray{"wifi", "sea view"}, fields[model.FieldAmenities])
				assert.Equal(t, "admin-1", fields[constant.FieldModifiedBy])

				return nil
			})

		err := svc.Update(ctx, dto.UpdateRoomRequest{Amenities: []string{"wifi", "sea view"}}, "room-1")
		assert.NoError(t, err)
	})

	t.Run("replacing images drops the old objects", func(t *testing.T) {
		svc, deps := newService(t)

		current := testRoom()
		current.Images = pq.StringArray{"https://cdn.example.com/old.jpg"}

		headers, files := imageUpload("new.jpg")

		deps.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(current, nil)
		deps.s3.EXPECT().
			UploadFile(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Return("https://cdn.example.com/new.jpg", nil)
		deps.repo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
		deps.s3.EXPECT().GetObjectNameFromURL("meridian-assets", "https://cdn.example.com/old.jpg").Return("old.jpg")
		deps.s3.EXPECT().DeleteFile(gomock.Any(), "meridian-assets", model.EntityName, "old.jpg").Return(nil)

		err := svc.Update(ctx, dto.UpdateRoomRequest{Images: headers, ImageFiles: files}, "room-1")
		assert.NoError(t, err)
	})

	t.Run("room not found", func(t *testing.T) {
		svc, deps := newService(t)

		deps.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Room{}, nil)

		err := svc.Update(ctx, dto.UpdateRoomRequest{Name: "New Name"}, "missing")
		assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
	})
}

func TestRoomService_Delete(t *testing.T) {
	t.Run("deletes an existing room", func(t *testing.T) {
		svc, deps := newService(t)

		deps.repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
		deps.repo.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil)

		err := svc.Delete(context.Background(), "room-1")
		assert.NoError(t, err)
	})

	t.Run("room not found", func(t *testing.T) {
		svc, deps := newService(t)

		deps.repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)

		err := svc.Delete(context.Background(), "missing")
		assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
	})
}
