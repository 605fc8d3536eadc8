package report

import (
	"net/http"

	"meridian/infras/otel"
	"meridian/internal/domains/report/model/dto"
	"meridian/internal/domains/report/service"
	"meridian/shared/constant"
	"meridian/shared/validator"
	"meridian/transport/http/response"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

type Handler struct {
	service service.Report
	otel    otel.Otel
}

func New(service service.Report, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/reports", func(routerGroup chi.Router) {
		routerGroup.Get("/revenue", handler.GetRevenueReport)
		routerGroup.Get("/occupancy", handler.GetOccupancyReport)
	})
}

// GetRevenueReport returns revenue aggregated per month and room category.
// @Summary Get the revenue report
// @Description Revenue from paid bookings grouped by month and room category.
// @Tags Report
// @Produce json
// @Param from query string false "Start date (YYYY-MM-DD), defaults to 30 days ago"
// @Param to query string false "End date (YYYY-MM-DD), exclusive, defaults to tomorrow"
// @Success 200 {object} response.Data[dto.RevenueReportResponse] "Revenue report"
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/reports/revenue [get]
// @Security BearerAuth
func (handler *Handler) GetRevenueReport(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetRevenueReport")
	defer scope.End()

	period := dto.ReportPeriod{
		From: r.URL.Query().Get(constant.RequestParamFrom),
		To:   r.URL.Query().Get(constant.RequestParamTo),
	}

	if err := validator.ValidateStruct(&period); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate report period")

		response.WithError(w, err)

		return
	}

	res, err := handler.service.Revenue(ctx, period)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get revenue report")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, res)
}

// GetOccupancyReport returns occupancy rates per room category.
// @Summary Get the occupancy report
// @Description Nights booked against nights available, grouped by room category.
// @Tags Report
// @Produce json
// @Param from query string false "Start date (YYYY-MM-DD), defaults to 30 days ago"
// @Param to query string false "End date (YYYY-MM-DD), exclusive, defaults to tomorrow"
// @Success 200 {object} response.Data[dto.OccupancyReportResponse] "Occupancy report"
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/reports/occupancy [get]
// @Security BearerAuth
func (handler *Handler) GetOccupancyReport(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetOccupancyReport")
	defer scope.End()

	period := dto.ReportPeriod{
		From: r.URL.Query().Get(constant.RequestParamFrom),
		To:   r.URL.Query().Get(constant.RequestParamTo),
	}

	if err := validator.ValidateStruct(&period); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate report period")

		response.WithError(w, err)

		return
	}

	res, err := handler.service.Occupancy(ctx, period)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get occupancy report")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, res)
}
