package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"fmt"
	"meridian/infras/otel"
	"meridian/infras/postgres"
	"meridian/internal/domains/review/model"
	"meridian/shared/constant"
	gDto "meridian/shared/dto"
	"meridian/shared/logger"
	gRepo "meridian/shared/repository"
)

const averageRatingQuery = `
SELECT COALESCE(AVG(rating), 0) FROM reviews WHERE room_id = :room_id`

type Review interface {
	Insert(ctx context.Context, model model.Review) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Review, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Review, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	AverageByRoom(ctx context.Context, roomID string) (float64, error)
	Delete(ctx context.Context, filter gDto.FilterGroup) error
}

type repositoryImpl struct {
	gRepo.Repository[model.Review]
	db   *postgres.Connection
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Review {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Review](model.EntityName, model.TableName, model.FieldID, db, otel),
		db:         db,
		otel:       otel,
	}
}

func (repo *repositoryImpl) AverageByRoom(ctx context.Context, roomID string) (float64, error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, fmt.Sprintf("%s.%s.AverageByRoom", constant.OtelRepositoryScopeName, model.EntityName))
	defer scope.End()

	scope.SetAttribute(constant.OtelQueryAttributeKey, averageRatingQuery)

	var average float64

	prepare, err := repo.db.Read.PrepareNamedContext(ctx, averageRatingQuery)
	if err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return average, fmt.Errorf("failed to prepare statement (%s): %w", model.EntityName, err)
	}
	defer prepare.Close()

	err = prepare.GetContext(ctx, &average, map[string]any{"room_id": roomID})
	if err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return average, fmt.Errorf("failed to get average rating: %w", err)
	}

	return average, nil
}
