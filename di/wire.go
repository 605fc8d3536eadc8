//go:build wireinject
// +build wireinject

package di

import (
	"meridian/config"
	"meridian/infras/checkout"
	"meridian/infras/jwt"
	"meridian/infras/kafka"
	"meridian/infras/mailer"
	"meridian/infras/otel"
	"meridian/infras/postgres"
	"meridian/infras/redis"
	"meridian/infras/s3"
	"meridian/permissions"
	"meridian/shared/cache"
	"meridian/transport/http"
	"meridian/transport/http/middleware"
	"meridian/transport/http/router"

	"github.com/google/wire"

	authService "meridian/internal/domains/auth/service"
	bookingRepository "meridian/internal/domains/booking/repository"
	bookingService "meridian/internal/domains/booking/service"
	reportRepository "meridian/internal/domains/report/repository"
	reportService "meridian/internal/domains/report/service"
	reviewRepository "meridian/internal/domains/review/repository"
	reviewService "meridian/internal/domains/review/service"
	roomRepository "meridian/internal/domains/room/repository"
	roomService "meridian/internal/domains/room/service"
	userRepository "meridian/internal/domains/user/repository"
	userService "meridian/internal/domains/user/service"

	authHandler "meridian/internal/handlers/auth"
	bookingHandler "meridian/internal/handlers/booking"
	reportHandler "meridian/internal/handlers/report"
	reviewHandler "meridian/internal/handlers/review"
	roomHandler "meridian/internal/handlers/room"
	userHandler "meridian/internal/handlers/user"
)

var configurations = wire.NewSet(
	config.Get,
	permissions.Get,
)

var infrastructures = wire.NewSet(
	postgres.New,
	otel.New,
	redis.New,
	jwt.New,
	s3.New,
	kafka.New,
	checkout.New,
	mailer.New,
)

var middlewares = wire.NewSet(
	middleware.NewAppMiddleware,
	middleware.NewAuthRoleMiddleware,
)

var sharedHelpers = wire.NewSet(
	cache.NewRedisCache,
)

var authDomain = wire.NewSet(
	userRepository.New,
	authService.New,
)

var userDomain = wire.NewSet(
	userService.New,
)

var roomDomain = wire.NewSet(
	roomRepository.New,
	roomService.New,
)

var bookingDomain = wire.NewSet(
	bookingRepository.New,
	bookingService.New,
)

var reviewDomain = wire.NewSet(
	reviewRepository.New,
	reviewService.New,
)

var reportDomain = wire.NewSet(
	reportRepository.New,
	reportService.New,
)

var domains = wire.NewSet(
	authDomain,
	userDomain,
	roomDomain,
	bookingDomain,
	reviewDomain,
	reportDomain,
)

var routing = wire.NewSet(
	wire.Struct(new(router.DomainHandlers), "*"),
	authHandler.New,
	roomHandler.New,
	bookingHandler.New,
	reviewHandler.New,
	userHandler.New,
	reportHandler.New,
	router.New,
)

func InitializeService() *http.HTTP {
	wire.Build(
		configurations,
		infrastructures,
		middlewares,
		sharedHelpers,
		domains,
		routing,
		http.New,
	)

	return &http.HTTP{}
}
