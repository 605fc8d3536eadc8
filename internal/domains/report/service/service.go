package service

import (
	"context"
	"fmt"

	"meridian/config"
	"meridian/infras/otel"
	"meridian/internal/domains/report/model/dto"
	"meridian/internal/domains/report/repository"
	"meridian/shared"
	"meridian/shared/cache"
	"meridian/shared/constant"

	"github.com/rs/zerolog/log"
)

const (
	cacheRevenueReport   = "report:revenue"
	cacheOccupancyReport = "report:occupancy"
)

type Report interface {
	Revenue(ctx context.Context, period dto.ReportPeriod) (dto.RevenueReportResponse, error)
	Occupancy(ctx context.Context, period dto.ReportPeriod) (dto.OccupancyReportResponse, error)
}

type serviceImpl struct {
	repo  repository.Report
	cfg   *config.Config
	cache cache.RedisCache
	otel  otel.Otel
}

func New(repo repository.Report, cfg *config.Config, cache cache.RedisCache, otel otel.Otel) Report {
	return &serviceImpl{
		repo:  repo,
		cfg:   cfg,
		cache: cache,
		otel:  otel,
	}
}

func (s *serviceImpl) Revenue(ctx context.Context, period dto.ReportPeriod) (res dto.RevenueReportResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Revenue")
	defer scope.End()
	defer scope.TraceIfError(err)

	from, to, err := period.Parse()
	if err != nil {
		return res, err
	}

	cacheKey := shared.BuildCacheKey(cacheRevenueReport, from.Format(constant.DateOnlyFormat), to.Format(constant.DateOnlyFormat))

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for revenue report")

		return res, nil
	}

	rows, err := s.repo.Revenue(ctx, from, to)
	if err != nil {
		log.Error().Err(err).Msg("failed to build revenue report")

		return res, fmt.Errorf("failed to build revenue report: %w", err)
	}

	res.FromRows(rows, from, to)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save revenue report to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Occupancy(ctx context.Context, period dto.ReportPeriod) (res dto.OccupancyReportResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Occupancy")
	defer scope.End()
	defer scope.TraceIfError(err)

	from, to, err := period.Parse()
	if err != nil {
		return res, err
	}

	cacheKey := shared.BuildCacheKey(cacheOccupancyReport, from.Format(constant.DateOnlyFormat), to.Format(constant.DateOnlyFormat))

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for occupancy report")

		return res, nil
	}

	rows, err := s.repo.Occupancy(ctx, from, to)
	if err != nil {
		log.Error().Err(err).Msg("failed to build occupancy report")

		return res, fmt.Errorf("failed to build occupancy report: %w", err)
	}

	res.FromRows(rows, from, to)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save occupancy report to cache")
		}
	}()

	return res, nil
}
