package model

const (
	EntityName = "report"
)

// RevenueRow is one month/category bucket of paid booking revenue.
type RevenueRow struct {
	Month    string  `db:"month"`
	Category string  `db:"category"`
	Revenue  float64 `db:"revenue"`
	Bookings int     `db:"bookings"`
}

// OccupancyRow aggregates booked nights per room category; nights outside the
// reporting window are clipped before summing.
type OccupancyRow struct {
	Category     string `db:"category"`
	RoomCount    int    `db:"room_count"`
	BookedNights int    `db:"booked_nights"`
}
