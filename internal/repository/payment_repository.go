package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/cohubhq/space-booking/internal/model"
)

// PaymentRepo stores references to external gateway transactions.  The
// gateway is the source of truth for payment state; these rows exist so
// bookings can carry a payment_ref and users can list their payments.
type PaymentRepo struct {
	db *sql.DB
}

// NewPaymentRepo returns a PaymentRepo bound to the given database.
func NewPaymentRepo(db *sql.DB) *PaymentRepo { return &PaymentRepo{db: db} }

const paymentColumns = `id, user_id, gateway_payment_id, order_id, amount_cents, status, created_at`

func scanPayment(row interface {
	Scan(dest ...interface{}) error
}) (*model.Payment, error) {
	var p model.Payment
	err := row.Scan(&p.ID, &p.UserID, &p.GatewayPaymentID, &p.OrderID,
		&p.AmountCents, &p.Status, &p.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Create inserts a payment record and populates its generated ID.
func (r *PaymentRepo) Create(ctx context.Context, p *model.Payment) error {
	const q = `INSERT INTO payments (user_id, gateway_payment_id, order_id, amount_cents, status)
	           VALUES (?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, p.UserID, p.GatewayPaymentID, p.OrderID, p.AmountCents, p.Status)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	p.ID = uint64(id)
	stored, err := scanPayment(r.db.QueryRowContext(ctx,
		`SELECT `+paymentColumns+` FROM payments WHERE id = ?`, p.ID))
	if err != nil {
		return err
	}
	*p = *stored
	return nil
}

// GetByID fetches one payment.  Returns ErrPaymentNotFound when no row
// exists.
func (r *PaymentRepo) GetByID(ctx context.Context, id uint64) (*model.Payment, error) {
	p, err := scanPayment(r.db.QueryRowContext(ctx,
		`SELECT `+paymentColumns+` FROM payments WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrPaymentNotFound
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

// UpdateStatus records the gateway-reported status and, when supplied,
// the gateway payment id assigned after capture.
func (r *PaymentRepo) UpdateStatus(ctx context.Context, id uint64, status string, gatewayPaymentID *string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE payments SET status = ?, gateway_payment_id = COALESCE(?, gateway_payment_id) WHERE id = ?`,
		status, gatewayPaymentID, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		// Either missing or unchanged; distinguish with a lookup.
		if _, err := r.GetByID(ctx, id); err != nil {
			return err
		}
	}
	return nil
}

// ListByUser returns all payments made by the user, newest first.
func (r *PaymentRepo) ListByUser(ctx context.Context, userID uint64) ([]model.Payment, error) {
	const q = `SELECT ` + paymentColumns + ` FROM payments WHERE user_id = ? ORDER BY created_at DESC`
	rows, err := r.db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Payment, 0)
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}
