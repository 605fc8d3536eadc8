package dto_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"meridian/internal/domains/report/model/dto"
	"meridian/shared/constant"
	"meridian/shared/failure"
	"meridian/shared/timezone"
)

func TestReportPeriod_Parse(t *testing.T) {
	t.Run("defaults to the last 30 days including today", func(t *testing.T) {
		period := dto.ReportPeriod{}

		from, to, err := period.Parse()
		assert.NoError(t, err)

		assert.Equal(t, timezone.Today().AddDate(0, 0, 1), to)
		assert.Equal(t, to.AddDate(0, 0, -30), from)
	})

	t.Run("explicit window", func(t *testing.T) {
		period := dto.ReportPeriod{From: "2026-06-01", To: "2026-09-01"}

		from, to, err := period.Parse()
		assert.NoError(t, err)
		assert.Equal(t, "2026-06-01", from.Format(constant.DateOnlyFormat))
		assert.Equal(t, "2026-09-01", to.Format(constant.DateOnlyFormat))
	})

	t.Run("from only keeps the default end", func(t *testing.T) {
		period := dto.ReportPeriod{From: "2026-01-01"}

		from, to, err := period.Parse()
		assert.NoError(t, err)
		assert.Equal(t, "2026-01-01", from.Format(constant.DateOnlyFormat))
		assert.Equal(t, timezone.Today().AddDate(0, 0, 1), to)
	})

	t.Run("inverted window rejected", func(t *testing.T) {
		period := dto.ReportPeriod{From: "2026-09-01", To: "2026-06-01"}

		_, _, err := period.Parse()
		assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
	})

	t.Run("malformed dates rejected", func(t *testing.T) {
		for _, period := range []dto.ReportPeriod{
			{From: "01/06/2026"},
			{To: "not-a-date"},
		} {
			_, _, err := period.Parse()
			assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
		}
	})
}
