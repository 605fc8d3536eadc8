package dto

import (
	"meridian/internal/domains/report/model"
	"meridian/shared/constant"
	"meridian/shared/failure"
	"meridian/shared/timezone"
	"time"
)

const defaultReportDays = 30

type ReportPeriod struct {
	From string `json:"from" validate:"omitempty,dateonly"`
	To   string `json:"to"   validate:"omitempty,dateonly"`
}

// Parse resolves the reporting window, defaulting to the last 30 days. The
// window is half-open: [from, to).
func (p *ReportPeriod) Parse() (from, to time.Time, err error) {
	to = timezone.Today().AddDate(0, 0, 1)
	from = to.AddDate(0, 0, -defaultReportDays)

	if p.From != "" {
		from, err = timezone.Parse(constant.DateOnlyFormat, p.From)
		if err != nil {
			return from, to, failure.BadRequestFromString("from must be a date in YYYY-MM-DD format") // nolint:wrapcheck
		}
	}

	if p.To != "" {
		to, err = timezone.Parse(constant.DateOnlyFormat, p.To)
		if err != nil {
			return from, to, failure.BadRequestFromString("to must be a date in YYYY-MM-DD format") // nolint:wrapcheck
		}
	}

	if !to.After(from) {
		return from, to, failure.BadRequestFromString("to must be after from") // nolint:wrapcheck
	}

	return from, to, nil
}

type RevenueBucket struct {
	Month    string  `json:"month"`
	Category string  `json:"category"`
	Revenue  float64 `json:"revenue"`
	Bookings int     `json:"bookings"`
}

type RevenueReportResponse struct {
	From          string          `json:"from"`
	To            string          `json:"to"`
	TotalRevenue  float64         `json:"total_revenue"`
	TotalBookings int             `json:"total_bookings"`
	Buckets       []RevenueBucket `json:"buckets"`
}

func (r *RevenueReportResponse) FromRows(rows []model.RevenueRow, from, to time.Time) {
	r.From = from.Format(constant.DateOnlyFormat)
	r.To = to.Format(constant.DateOnlyFormat)
	r.Buckets = make([]RevenueBucket, len(rows))

	for i, row := range rows {
		r.Buckets[i] = RevenueBucket{
			Month:    row.Month,
			Category: row.Category,
			Revenue:  row.Revenue,
			Bookings: row.Bookings,
		}
		r.TotalRevenue += row.Revenue
		r.TotalBookings += row.Bookings
	}
}

type OccupancyBucket struct {
	Category        string  `json:"category"`
	RoomCount       int     `json:"room_count"`
	BookedNights    int     `json:"booked_nights"`
	AvailableNights int     `json:"available_nights"`
	OccupancyRate   float64 `json:"occupancy_rate"`
}

type OccupancyReportResponse struct {
	From    string            `json:"from"`
	To      string            `json:"to"`
	Buckets []OccupancyBucket `json:"buckets"`
}

func (r *OccupancyReportResponse) FromRows(rows []model.OccupancyRow, from, to time.Time) {
	days := timezone.DaysBetween(from, to)

	r.From = from.Format(constant.DateOnlyFormat)
	r.To = to.Format(constant.DateOnlyFormat)
	r.Buckets = make([]OccupancyBucket, len(rows))

	for i, row := range rows {
		available := row.RoomCount * days

		rate := 0.0
		if available > 0 {
			rate = float64(row.BookedNights) / float64(available)
		}

		r.Buckets[i] = OccupancyBucket{
			Category:        row.Category,
			RoomCount:       row.RoomCount,
			BookedNights:    row.BookedNights,
			AvailableNights: available,
			OccupancyRate:   rate,
		}
	}
}
