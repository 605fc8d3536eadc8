package service_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"meridian/config"
	"meridian/infras/otel/mocks"
	userMocks "meridian/internal/domains/user/mocks"
	"meridian/internal/domains/user/model"
	"meridian/internal/domains/user/model/dto"
	"meridian/internal/domains/user/service"
	"meridian/shared/cache"
	cacheMocks "meridian/shared/cache/mocks"
	"meridian/shared/constant"
	gDto "meridian/shared/dto"
	"meridian/shared/failure"
	"meridian/shared/password"
)

func newService(t *testing.T) (service.User, *userMocks.MockUser, *cacheMocks.MockRedisCache) {
	t.Helper()

	ctrl := gomock.NewController(t)
	mockRepo := userMocks.NewMockUser(ctrl)
	mockCache := cacheMocks.NewMockRedisCache(ctrl)

	// Cache writes and invalidation run on background goroutines.
	mockCache.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	mockCache.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	mockCache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	cfg := &config.Config{}
	cfg.Cache.TTL = 3600

	svc := service.New(mockRepo, cfg, mockCache, mocks.NewOtel())

	return svc, mockRepo, mockCache
}

func testUser() model.User {
	return model.User{
		ID:       "user-1",
		Email:    "ada@example.com",
		Role:     constant.RoleUser,
		FullName: "Ada Lovelace",
		Active:   true,
	}
}

func TestUserService_Create(t *testing.T) {
	req := dto.CreateUserRequest{
		Email:    "ada@example.com",
		Password: "password123",
		FullName: "Ada Lovelace",
	}

	t.Run("hashes the password and defaults the role", func(t *testing.T) {
		svc, mockRepo, _ := newService(t)

		mockRepo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)
		mockRepo.EXPECT().
			Insert(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, user model.User) error {
				assert.Equal(t, constant.RoleUser, user.Role)
				assert.True(t, user.Active)
				assert.NotEqual(t, "password123", user.Password)
				assert.NoError(t, password.Verify("password123", user.Password))

				return nil
			})

		err := svc.Create(context.Background(), req)
		assert.NoError(t, err)
	})

	t.Run("email already registered", func(t *testing.T) {
		svc, mockRepo, _ := newService(t)

		mockRepo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)

		err := svc.Create(context.Background(), req)
		assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
	})

	t.Run("repository error surfaces", func(t *testing.T) {
		svc, mockRepo, _ := newService(t)

		mockRepo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, errors.New("db down"))

		err := svc.Create(context.Background(), req)
		assert.Error(t, err)
	})
}

func TestUserService_GetAll(t *testing.T) {
	params := gDto.QueryParams{Page: 1, Limit: 10}

	t.Run("cache miss falls through to the repository", func(t *testing.T) {
		svc, mockRepo, mockCache := newService(t)

		mockCache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(cache.Nil).Times(2)
		mockRepo.EXPECT().Count(gomock.Any(), gomock.Any()).Return(1, nil)
		mockRepo.EXPECT().GetAll(gomock.Any(), params, gomock.Any()).Return([]model.User{testUser()}, nil)

		res, err := svc.GetAll(context.Background(), params, gDto.FilterGroup{})
		assert.NoError(t, err)
		assert.Len(t, res.Users, 1)
		assert.Equal(t, 1, res.TotalData)
	})

	t.Run("cache hit skips the repository", func(t *testing.T) {
		svc, _, mockCache := newService(t)

		mockCache.EXPECT().
			Get(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, _ string, value any) error {
				res, _ := value.(*dto.GetUsersResponse)
				res.TotalData = 4

				return nil
			})

		res, err := svc.GetAll(context.Background(), params, gDto.FilterGroup{})
		assert.NoError(t, err)
		assert.Equal(t, 4, res.TotalData)
	})
}

func TestUserService_Get(t *testing.T) {
	t.Run("returns the user", func(t *testing.T) {
		svc, mockRepo, mockCache := newService(t)

		mockCache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(cache.Nil)
		mockRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(testUser(), nil)

		res, err := svc.Get(context.Background(), "user-1")
		assert.NoError(t, err)
		assert.Equal(t, "ada@example.com", res.Email)
	})

	t.Run("user not found", func(t *testing.T) {
		svc, mockRepo, mockCache := newService(t)

		mockCache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(cache.Nil)
		mockRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.User{}, nil)

		_, err := svc.Get(context.Background(), "missing")
		assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
	})
}

func TestUserService_Update(t *testing.T) {
	ctx := context.WithValue(context.Background(), constant.ContextKeyUserID, "admin-1")

	t.Run("updates the changed fields only", func(t *testing.T) {
		svc, mockRepo, _ := newService(t)

		mockRepo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
		mockRepo.EXPECT().
			Update(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, fields map[string]any, _ gDto.FilterGroup) error {
				assert.Equal(t, "Ada King", fields[model.FieldFullName])
				assert.NotContains(t, fields, model.FieldPhone)
				assert.Equal(t, "admin-1", fields[constant.FieldModifiedBy])

				return nil
			})

		err := svc.Update(ctx, dto.UpdateUserRequest{FullName: "Ada King"}, "user-1")
		assert.NoError(t, err)
	})

	t.Run("empty update rejected", func(t *testing.T) {
		svc, _, _ := newService(t)

		err := svc.Update(ctx, dto.UpdateUserRequest{}, "user-1")
		assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
	})

	t.Run("user not found", func(t *testing.T) {
		svc, mockRepo, _ := newService(t)

		mockRepo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)

		err := svc.Update(ctx, dto.UpdateUserRequest{FullName: "Ada King"}, "missing")
		assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
	})
}

func TestUserService_Delete(t *testing.T) {
	t.Run("deletes an existing user", func(t *testing.T) {
		svc, mockRepo, _ := newService(t)

		mockRepo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
		mockRepo.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil)

		err := svc.Delete(context.Background(), "user-1")
		assert.NoError(t, err)
	})

	t.Run("user not found", func(t *testing.T) {
		svc, mockRepo, _ := newService(t)

		mockRepo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)

		err := svc.Delete(context.Background(), "missing")
		assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
	})
}
