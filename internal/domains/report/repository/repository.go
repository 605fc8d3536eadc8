package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"fmt"
	"meridian/infras/otel"
	"meridian/infras/postgres"
	"meridian/internal/domains/report/model"
	"meridian/shared/constant"
	"meridian/shared/logger"
	"time"
)

const revenueQuery = `
SELECT to_char(date_trunc('month', b.check_in), 'YYYY-MM') AS month,
       r.category AS category,
       COALESCE(SUM(b.total_price), 0) AS revenue,
       COUNT(b.id) AS bookings
FROM bookings b
JOIN rooms r ON r.id = b.room_id
WHERE b.payment_status = :payment_status
  AND b.status = :status
  AND b.check_in >= :from
  AND b.check_in < :to
GROUP BY 1, 2
ORDER BY 1, 2`

const occupancyQuery = `
SELECT r.category AS category,
       COUNT(DISTINCT r.id) AS room_count,
       COALESCE(SUM(GREATEST(0, LEAST(b.check_out, :to)::date - GREATEST(b.check_in, :from)::date)), 0) AS booked_nights
FROM rooms r
LEFT JOIN bookings b
  ON b.room_id = r.id
  AND b.status IN (:status_pending, :status_confirmed)
  AND b.check_in < :to
  AND b.check_out > :from
GROUP BY 1
ORDER BY 1`

type Report interface {
	Revenue(ctx context.Context, from, to time.Time) ([]model.RevenueRow, error)
	Occupancy(ctx context.Context, from, to time.Time) ([]model.OccupancyRow, error)
}

type repositoryImpl struct {
	db   *postgres.Connection
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Report {
	return &repositoryImpl{
		db:   db,
		otel: otel,
	}
}

func (repo *repositoryImpl) Revenue(ctx context.Context, from, to time.Time) ([]model.RevenueRow, error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, fmt.Sprintf("%s.%s.Revenue", constant.OtelRepositoryScopeName, model.EntityName))
	defer scope.End()

	scope.SetAttribute(constant.OtelQueryAttributeKey, revenueQuery)

	args := map[string]any{
		"payment_status": constant.PaymentStatusPaid,
		"status":         constant.BookingStatusConfirmed,
		"from":           from,
		"to":             to,
	}

	var rows []model.RevenueRow

	prepare, err := repo.db.Read.PrepareNamedContext(ctx, revenueQuery)
	if err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return rows, fmt.Errorf("failed to prepare statement (%s): %w", model.EntityName, err)
	}
	defer prepare.Close()

	err = prepare.SelectContext(ctx, &rows, args)
	if err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return rows, fmt.Errorf("failed to get revenue report: %w", err)
	}

	return rows, nil
}

func (repo *repositoryImpl) Occupancy(ctx context.Context, from, to time.Time) ([]model.OccupancyRow, error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, fmt.Sprintf("%s.%s.Occupancy", constant.OtelRepositoryScopeName, model.EntityName))
	defer scope.End()

	scope.SetAttribute(constant.OtelQueryAttributeKey, occupancyQuery)

	args := map[string]any{
		"status_pending":   constant.BookingStatusPending,
		"status_confirmed": constant.BookingStatusConfirmed,
		"from":             from,
		"to":               to,
	}

	var rows []model.OccupancyRow

	prepare, err := repo.db.Read.PrepareNamedContext(ctx, occupancyQuery)
	if err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return rows, fmt.Errorf("failed to prepare statement (%s): %w", model.EntityName, err)
	}
	defer prepare.Close()

	err = prepare.SelectContext(ctx, &rows, args)
	if err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return rows, fmt.Errorf("failed to get occupancy report: %w", err)
	}

	return rows, nil
}
