// Package queue defines message payloads exchanged over the message
// broker and the background consumer that drains them.
package queue

// BookingConfirmedEvent is published when a booking reaches the
// confirmed status.  It carries enough information for downstream
// consumers to log or notify without querying the primary database.
type BookingConfirmedEvent struct {
	BookingID   uint64 `json:"booking_id"`
	UserID      uint64 `json:"user_id"`
	HubID       uint64 `json:"hub_id"`
	SpaceID     string `json:"space_id"`
	StartTime   string `json:"start_time"` // RFC3339 UTC
	EndTime     string `json:"end_time"`   // RFC3339 UTC
	PaymentRef  uint64 `json:"payment_ref,omitempty"`
	ConfirmedAt string `json:"confirmed_at"`
}
