package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/cohubhq/space-booking/internal/model"
)

// EventRepo provides persistence for community events and their
// attendance.  Attendees live in the `event_attendees` join table with a
// unique (event_id, user_id) index; RSVP runs in a transaction that locks
// the event row so the capacity check cannot race.
type EventRepo struct {
	db *sql.DB
}

// NewEventRepo constructs an EventRepo with the given DB handle.
func NewEventRepo(db *sql.DB) *EventRepo { return &EventRepo{db: db} }

const eventColumns = `id, title, description, date_ms, location, capacity, price_cents, images, created_at`

func scanEvent(row interface {
	Scan(dest ...interface{}) error
}) (*model.Event, error) {
	var (
		e      model.Event
		dateMs int64
		images []byte
	)
	err := row.Scan(&e.ID, &e.Title, &e.Description, &dateMs, &e.Location,
		&e.Capacity, &e.PriceCents, &images, &e.CreatedAt)
	if err != nil {
		return nil, err
	}
	e.Date = time.UnixMilli(dateMs).UTC()
	if err := json.Unmarshal(images, &e.Images); err != nil {
		return nil, err
	}
	return &e, nil
}

// Create inserts a new event and populates its generated ID.
func (r *EventRepo) Create(ctx context.Context, e *model.Event) error {
	images := e.Images
	if images == nil {
		images = []string{}
	}
	imgJSON, err := json.Marshal(images)
	if err != nil {
		return err
	}
	const q = `INSERT INTO events (title, description, date_ms, location, capacity, price_cents, images)
	           VALUES (?, ?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, e.Title, e.Description, e.Date.UnixMilli(),
		e.Location, e.Capacity, e.PriceCents, imgJSON)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	e.ID = uint64(id)
	stored, err := scanEvent(r.db.QueryRowContext(ctx,
		`SELECT `+eventColumns+` FROM events WHERE id = ?`, e.ID))
	if err != nil {
		return err
	}
	*e = *stored
	return nil
}

// GetByID fetches one event.  Returns ErrEventNotFound when no row
// exists.
func (r *EventRepo) GetByID(ctx context.Context, id uint64) (*model.Event, error) {
	e, err := scanEvent(r.db.QueryRowContext(ctx,
		`SELECT `+eventColumns+` FROM events WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrEventNotFound
	}
	if err != nil {
		return nil, err
	}
	return e, nil
}

// ListAll returns every event ordered by date ascending.
func (r *EventRepo) ListAll(ctx context.Context) ([]model.Event, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+eventColumns+` FROM events ORDER BY date_ms`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Event, 0)
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *e)
	}
	return out, rows.Err()
}

// Attendees returns the user IDs registered for the event.
func (r *EventRepo) Attendees(ctx context.Context, eventID uint64) ([]uint64, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT user_id FROM event_attendees WHERE event_id = ? ORDER BY created_at`, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []uint64
	for rows.Next() {
		var uid uint64
		if err := rows.Scan(&uid); err != nil {
			return nil, err
		}
		out = append(out, uid)
	}
	return out, rows.Err()
}

// RSVP registers a user for an event.  It locks the event row, verifies
// capacity and the duplicate guard, then inserts the attendance.  Returns
// ErrEventNotFound, ErrEventFull or ErrAlreadyRegistered.
func (r *EventRepo) RSVP(ctx context.Context, eventID, userID uint64) error {
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

	var capacity int
	err = tx.QueryRowContext(ctx,
		`SELECT capacity FROM events WHERE id = ? FOR UPDATE`, eventID).Scan(&capacity)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrEventNotFound
	}
	if err != nil {
		return err
	}

	var registered int
	if err := tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM event_attendees WHERE event_id = ?`, eventID).Scan(&registered); err != nil {
		return err
	}
	var already int
	if err := tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM event_attendees WHERE event_id = ? AND user_id = ?`,
		eventID, userID).Scan(&already); err != nil {
		return err
	}
	if already > 0 {
		return ErrAlreadyRegistered
	}
	if registered >= capacity {
		return ErrEventFull
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO event_attendees (event_id, user_id) VALUES (?, ?)`, eventID, userID); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// CancelRSVP removes a user's attendance.  Missing attendance is not an
// error, matching the idempotent cancel semantics of the public API.
func (r *EventRepo) CancelRSVP(ctx context.Context, eventID, userID uint64) error {
	if _, err := r.GetByID(ctx, eventID); err != nil {
		return err
	}
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM event_attendees WHERE event_id = ? AND user_id = ?`, eventID, userID)
	return err
}
