package repository

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/cohubhq/space-booking/internal/model"
)

// PlanRepo reads subscription tiers.  Plans are seeded out of band; the
// API only lists them.
type PlanRepo struct {
	db *sql.DB
}

// NewPlanRepo constructs a PlanRepo with the given DB handle.
func NewPlanRepo(db *sql.DB) *PlanRepo { return &PlanRepo{db: db} }

// ListAll returns every plan ordered by monthly price.
func (r *PlanRepo) ListAll(ctx context.Context) ([]model.Plan, error) {
	const q = `SELECT id, name, price_monthly_cents, price_yearly_cents, benefits,
	                  monthly_bookings, event_access, priority, is_popular
	           FROM plans ORDER BY price_monthly_cents`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Plan, 0)
	for rows.Next() {
		var (
			p        model.Plan
			benefits []byte
		)
		if err := rows.Scan(&p.ID, &p.Name, &p.PriceMonthlyCents, &p.PriceYearlyCents,
			&benefits, &p.MonthlyBookings, &p.EventAccess, &p.Priority, &p.IsPopular); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(benefits, &p.Benefits); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
