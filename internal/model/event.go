package model

import "time"

// Event is a community event hosted at or around a hub.  Attendance is
// capped by Capacity; attendees are tracked in the `event_attendees`
// join table rather than inline.
type Event struct {
	ID          uint64    // events.id
	Title       string    // events.title
	Description string    // events.description
	Date        time.Time // events.date_ms (epoch millis in storage)
	Location    string    // events.location
	Capacity    int       // events.capacity
	PriceCents  uint32    // events.price_cents
	Images      []string  // events.images (JSON)
	CreatedAt   time.Time // events.created_at
}
