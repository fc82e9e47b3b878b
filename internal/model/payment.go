package model

import "time"

// Payment stores the outcome of an external checkout.  The gateway owns
// the transaction; this row merely correlates a gateway payment id and
// order id with a user and an amount.  Bookings point at payments via
// their payment_ref column.
//
// Fields:
//  ID               – primary key identifier.
//  UserID           – paying user.
//  GatewayPaymentID – opaque id issued by the payment gateway.
//  OrderID          – gateway order id the payment belongs to.
//  AmountCents      – amount charged, in cents.
//  Status           – gateway-reported status (e.g. created, captured, failed).
//  CreatedAt        – creation timestamp.
type Payment struct {
	ID               uint64    // payments.id
	UserID           uint64    // payments.user_id
	GatewayPaymentID string    // payments.gateway_payment_id
	OrderID          string    // payments.order_id
	AmountCents      uint32    // payments.amount_cents
	Status           string    // payments.status
	CreatedAt        time.Time // payments.created_at
}
