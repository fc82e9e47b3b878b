package model

// Plan is a subscription tier.  Plans are seeded by operations and read
// by the plans listing; nothing in the booking flow mutates them.
type Plan struct {
	ID                uint64   // plans.id
	Name              string   // plans.name
	PriceMonthlyCents uint32   // plans.price_monthly_cents
	PriceYearlyCents  uint32   // plans.price_yearly_cents
	Benefits          []string // plans.benefits (JSON)
	MonthlyBookings   int      // plans.monthly_bookings limit
	EventAccess       bool     // plans.event_access
	Priority          string   // plans.priority (standard | high)
	IsPopular         bool     // plans.is_popular
}
