package model

import (
	"time"

	"github.com/cohubhq/space-booking/internal/booking"
)

// Booking represents one reservation of one space at one hub for one
// half-open time interval [StartTime, EndTime).  Start and end instants
// are stored in the `bookings` table as epoch milliseconds and surfaced
// here as UTC time.Time values.
//
// For any fixed (hub, space) pair, no two bookings with status
// `confirmed` may overlap.  SpaceID must reference a space that exists in
// the hub; the repository validates this at creation time, not the
// storage layer.
//
// Fields:
//  ID         – primary key identifier.
//  UserID     – user who owns the reservation.
//  HubID      – hub where the space is located.
//  SpaceID    – space id within that hub.
//  StartTime  – start instant (inclusive), UTC.
//  EndTime    – end instant (exclusive), UTC, strictly after StartTime.
//  Status     – pending, confirmed or cancelled.
//  PaymentRef – optional reference into the payments table.
//  CreatedAt  – creation timestamp.
//  UpdatedAt  – last update timestamp.
type Booking struct {
	ID         uint64         // bookings.id
	UserID     uint64         // bookings.user_id
	HubID      uint64         // bookings.hub_id
	SpaceID    string         // bookings.space_id
	StartTime  time.Time      // bookings.start_time_ms
	EndTime    time.Time      // bookings.end_time_ms
	Status     booking.Status // bookings.status
	PaymentRef *uint64        // bookings.payment_ref (nullable)
	CreatedAt  time.Time      // bookings.created_at
	UpdatedAt  time.Time      // bookings.updated_at
}

// Interval returns the booking's half-open time range.
func (b *Booking) Interval() booking.Interval {
	return booking.Interval{Start: b.StartTime, End: b.EndTime}
}
