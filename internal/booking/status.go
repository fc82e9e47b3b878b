package booking

import "errors"

// Status is the lifecycle state of a booking.  The string values are
// stored verbatim in the bookings table and returned on the wire.
type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCancelled Status = "cancelled"
)

// ErrSlotUnavailable signals that the requested interval overlaps an
// existing confirmed booking for the same space.
var ErrSlotUnavailable = errors.New("time slot not available")

// ErrInvalidTransition signals a status change that is not permitted from
// the booking's current state.
var ErrInvalidTransition = errors.New("invalid status transition")

// ErrPaymentRefRequired is returned when a booking is confirmed without a
// payment reference.
var ErrPaymentRefRequired = errors.New("payment reference required to confirm")

// Valid reports whether s is one of the three known statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCancelled:
		return true
	}
	return false
}

// Terminal reports whether no further transitions are allowed out of s.
// Cancelled is the only terminal state; reactivation is not supported.
func (s Status) Terminal() bool { return s == StatusCancelled }

// CanTransition reports whether a booking may move from one status to
// another.  The permitted transitions are pending→confirmed,
// pending→cancelled and confirmed→cancelled.  Self-transitions are not
// permitted.
func CanTransition(from, to Status) bool {
	switch from {
	case StatusPending:
		return to == StatusConfirmed || to == StatusCancelled
	case StatusConfirmed:
		return to == StatusCancelled
	}
	return false
}

// CheckTransition validates a requested status change, including the
// payment-reference requirement on confirmation.  hasPaymentRef tells
// whether the caller supplied a reference; the service does not verify the
// underlying transaction, that is the payment collaborator's contract.
func CheckTransition(from, to Status, hasPaymentRef bool) error {
	if !to.Valid() {
		return ErrInvalidTransition
	}
	if !CanTransition(from, to) {
		return ErrInvalidTransition
	}
	if to == StatusConfirmed && !hasPaymentRef {
		return ErrPaymentRefRequired
	}
	return nil
}
