package repository_test

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"meridian/internal/domains/booking/repository"
)

func TestOverlapFilter(t *testing.T) {
	checkIn := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	checkOut := time.Date(2026, 5, 4, 0, 0, 0, 0, time.UTC)

	t.Run("uses strict inequalities on the half-open range", func(t *testing.T) {
		filter := repository.OverlapFilter("room-1", checkIn, checkOut, "")

		clause, args := filter.GetWhereClause()

		// An existing check-in equal to the new check-out (and vice versa)
		// must not collide, so back-to-back stays stay legal.
		assert.Contains(t, clause, "bookings.check_in < :overlap_check_out")
		assert.Contains(t, clause, "bookings.check_out > :overlap_check_in")
		assert.NotContains(t, clause, "<=")
		assert.NotContains(t, clause, ">=")

		assert.Equal(t, checkOut, args["overlap_check_out"])
		assert.Equal(t, checkIn, args["overlap_check_in"])
	})

	t.Run("scopes to the room and live statuses", func(t *testing.T) {
		filter := repository.OverlapFilter("room-1", checkIn, checkOut, "")

		clause, args := filter.GetWhereClause()

		assert.Contains(t, clause, "bookings.room_id = :room_id")
		assert.Contains(t, clause, "bookings.status IN (:status_0, :status_1)")
		assert.Equal(t, 3, strings.Count(clause, " AND "))

		assert.Equal(t, "room-1", args["room_id"])
		assert.Equal(t, "pending", args["status_0"])
		assert.Equal(t, "confirmed", args["status_1"])
	})

	t.Run("without an exclusion the id is not filtered", func(t *testing.T) {
		filter := repository.OverlapFilter("room-1", checkIn, checkOut, "")

		clause, args := filter.GetWhereClause()

		assert.NotContains(t, clause, "exclude_id")
		assert.NotContains(t, args, "exclude_id")
	})

	t.Run("excludes the booking being rescheduled", func(t *testing.T) {
		filter := repository.OverlapFilter("room-1", checkIn, checkOut, "booking-1")

		clause, args := filter.GetWhereClause()

		assert.Contains(t, clause, "bookings.id != :exclude_id")
		assert.Equal(t, "booking-1", args["exclude_id"])
	})
}

func TestGuestFilter(t *testing.T) {
	filter := repository.GuestFilter("  bk260901x7q2mf ", " guest@example.com ")

	clause, args := filter.GetWhereClause()

	assert.Contains(t, clause, "bookings.booking_reference = :booking_reference")
	assert.Contains(t, clause, "bookings.customer_email = :customer_email")

	assert.Equal(t, "BK260901X7Q2MF", args["booking_reference"])
	assert.Equal(t, "guest@example.com", args["customer_email"])
}
