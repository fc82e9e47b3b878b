package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/cohubhq/space-booking/internal/booking"
	"github.com/cohubhq/space-booking/internal/model"
)

// BookingRepo is the sole writer of the bookings table.  Creating a
// booking and confirming one both run inside a transaction that locks the
// hub row first, so the conflict scan and the write are serialized per
// hub across concurrent requests.  Start/end instants are stored as epoch
// milliseconds (UTC).
type BookingRepo struct {
	db *sql.DB
}

// NewBookingRepo returns a BookingRepo bound to the given database.
func NewBookingRepo(db *sql.DB) *BookingRepo { return &BookingRepo{db: db} }

const bookingColumns = `id, user_id, hub_id, space_id, start_time_ms, end_time_ms, status, payment_ref, created_at, updated_at`

func scanBooking(row interface {
	Scan(dest ...interface{}) error
}) (*model.Booking, error) {
	var (
		b          model.Booking
		startMs    int64
		endMs      int64
		status     string
		paymentRef sql.NullInt64
	)
	err := row.Scan(&b.ID, &b.UserID, &b.HubID, &b.SpaceID, &startMs, &endMs, &status, &paymentRef, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return nil, err
	}
	b.StartTime = time.UnixMilli(startMs).UTC()
	b.EndTime = time.UnixMilli(endMs).UTC()
	b.Status = booking.Status(status)
	if paymentRef.Valid {
		ref := uint64(paymentRef.Int64)
		b.PaymentRef = &ref
	}
	return &b, nil
}

// lockHubTx takes a row lock on the hub, serializing booking writes for
// that hub for the duration of the transaction.  Returns ErrHubNotFound
// when the hub does not exist.
func lockHubTx(ctx context.Context, tx *sql.Tx, hubID uint64) error {
	var id uint64
	err := tx.QueryRowContext(ctx, `SELECT id FROM hubs WHERE id = ? FOR UPDATE`, hubID).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrHubNotFound
	}
	return err
}

// confirmedIntervalsTx returns the intervals of all confirmed bookings
// for (hub, space), optionally excluding one booking id.  Must run inside
// a transaction that holds the hub lock so the result cannot change
// before the caller writes.
func confirmedIntervalsTx(ctx context.Context, tx *sql.Tx, hubID uint64, spaceID string, excludeID uint64) ([]booking.Interval, error) {
	const q = `SELECT start_time_ms, end_time_ms FROM bookings
	           WHERE hub_id = ? AND space_id = ? AND status = ? AND id <> ?`
	rows, err := tx.QueryContext(ctx, q, hubID, spaceID, string(booking.StatusConfirmed), excludeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []booking.Interval
	for rows.Next() {
		var startMs, endMs int64
		if err := rows.Scan(&startMs, &endMs); err != nil {
			return nil, err
		}
		out = append(out, booking.Interval{
			Start: time.UnixMilli(startMs).UTC(),
			End:   time.UnixMilli(endMs).UTC(),
		})
	}
	return out, rows.Err()
}

// Create inserts a new pending booking after checking the requested
// interval against every confirmed booking for the same (hub, space).
// The scan and the insert share one transaction holding the hub lock, so
// two concurrent requests for the same space cannot both pass the check
// against stale state.  On conflict it returns booking.ErrSlotUnavailable
// and writes nothing.  On success the generated ID, status and timestamps
// are populated on b.
func (r *BookingRepo) Create(ctx context.Context, b *model.Booking) error {
	iv, err := booking.NewInterval(b.StartTime, b.EndTime)
	if err != nil {
		return err
	}
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	if err := lockHubTx(ctx, tx, b.HubID); err != nil {
		return err
	}
	existing, err := confirmedIntervalsTx(ctx, tx, b.HubID, b.SpaceID, 0)
	if err != nil {
		return err
	}
	if booking.ConflictsWith(existing, iv) {
		return booking.ErrSlotUnavailable
	}

	const q = `INSERT INTO bookings (user_id, hub_id, space_id, start_time_ms, end_time_ms, status)
	           VALUES (?, ?, ?, ?, ?, ?)`
	res, err := tx.ExecContext(ctx, q, b.UserID, b.HubID, b.SpaceID,
		iv.Start.UnixMilli(), iv.End.UnixMilli(), string(booking.StatusPending))
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	b.ID = uint64(id)

	// Read the row back so defaults (status, timestamps) are populated.
	stored, err := scanBooking(tx.QueryRowContext(ctx,
		`SELECT `+bookingColumns+` FROM bookings WHERE id = ?`, b.ID))
	if err != nil {
		return err
	}
	*b = *stored

	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// GetByID fetches one booking.  Returns ErrBookingNotFound when no row
// exists.
func (r *BookingRepo) GetByID(ctx context.Context, id uint64) (*model.Booking, error) {
	b, err := scanBooking(r.db.QueryRowContext(ctx,
		`SELECT `+bookingColumns+` FROM bookings WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, err
	}
	return b, nil
}

// ListByUser returns every booking owned by the user.  Callers sort if
// they need an order; rows come back by creation time descending for
// display convenience only.
func (r *BookingRepo) ListByUser(ctx context.Context, userID uint64) ([]model.Booking, error) {
	const q = `SELECT ` + bookingColumns + ` FROM bookings WHERE user_id = ? ORDER BY created_at DESC`
	rows, err := r.db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Booking, 0)
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *b)
	}
	return out, rows.Err()
}

// UpdateStatus applies a lifecycle transition to a booking and, when
// supplied, records the payment reference.  Permitted transitions are
// pending→confirmed (payment reference required), pending→cancelled and
// confirmed→cancelled; anything else fails with
// booking.ErrInvalidTransition.
//
// Confirming re-runs the conflict scan under the hub lock: if another
// overlapping booking was confirmed since this one was created, the
// transition fails with booking.ErrSlotUnavailable and the booking stays
// pending.  The no-overlap invariant over confirmed bookings therefore
// holds even when two pending bookings cover the same interval.
func (r *BookingRepo) UpdateStatus(ctx context.Context, id uint64, next booking.Status, paymentRef *uint64) (*model.Booking, error) {
	// Resolve the hub outside the transaction to establish lock order:
	// hub row first, booking row second, same as Create.
	var hubID uint64
	err := r.db.QueryRowContext(ctx, `SELECT hub_id FROM bookings WHERE id = ?`, id).Scan(&hubID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, err
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	if err := lockHubTx(ctx, tx, hubID); err != nil {
		return nil, err
	}
	cur, err := scanBooking(tx.QueryRowContext(ctx,
		`SELECT `+bookingColumns+` FROM bookings WHERE id = ? FOR UPDATE`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, err
	}

	hasRef := paymentRef != nil || cur.PaymentRef != nil
	if err := booking.CheckTransition(cur.Status, next, hasRef); err != nil {
		return nil, err
	}
	if next == booking.StatusConfirmed {
		existing, err := confirmedIntervalsTx(ctx, tx, cur.HubID, cur.SpaceID, cur.ID)
		if err != nil {
			return nil, err
		}
		if booking.ConflictsWith(existing, cur.Interval()) {
			return nil, booking.ErrSlotUnavailable
		}
	}

	if paymentRef != nil {
		_, err = tx.ExecContext(ctx,
			`UPDATE bookings SET status = ?, payment_ref = ? WHERE id = ?`,
			string(next), *paymentRef, id)
	} else {
		_, err = tx.ExecContext(ctx,
			`UPDATE bookings SET status = ? WHERE id = ?`, string(next), id)
	}
	if err != nil {
		return nil, err
	}

	updated, err := scanBooking(tx.QueryRowContext(ctx,
		`SELECT `+bookingColumns+` FROM bookings WHERE id = ?`, id))
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	committed = true
	return updated, nil
}

// ConfirmedIntervals returns the intervals of confirmed bookings for
// (hub, space) that overlap the given window.  The window test uses the
// overlap predicate, not containment, so bookings crossing the window
// boundary are included.  Used by the slot availability query.
func (r *BookingRepo) ConfirmedIntervals(ctx context.Context, hubID uint64, spaceID string, window booking.Interval) ([]booking.Interval, error) {
	const q = `SELECT start_time_ms, end_time_ms FROM bookings
	           WHERE hub_id = ? AND space_id = ? AND status = ?
	             AND start_time_ms < ? AND end_time_ms > ?`
	rows, err := r.db.QueryContext(ctx, q, hubID, spaceID,
		string(booking.StatusConfirmed), window.End.UnixMilli(), window.Start.UnixMilli())
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []booking.Interval
	for rows.Next() {
		var startMs, endMs int64
		if err := rows.Scan(&startMs, &endMs); err != nil {
			return nil, err
		}
		out = append(out, booking.Interval{
			Start: time.UnixMilli(startMs).UTC(),
			End:   time.UnixMilli(endMs).UTC(),
		})
	}
	return out, rows.Err()
}
