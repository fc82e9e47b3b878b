// Package repository defines sentinel error values shared across the data
// access layer.  Handlers use these to map failures onto HTTP status
// codes: not-found sentinels become 404, conflict conditions become 409.
// Persistence failures that do not match a sentinel are propagated
// unchanged; nothing here retries or swallows.
package repository

import "errors"

// ErrHubNotFound is returned when a hub lookup finds no row.
var ErrHubNotFound = errors.New("hub not found")

// ErrBookingNotFound is returned when a booking lookup finds no row.
var ErrBookingNotFound = errors.New("booking not found")

// ErrEventNotFound is returned when an event lookup finds no row.
var ErrEventNotFound = errors.New("event not found")

// ErrPaymentNotFound is returned when a payment lookup finds no row.
var ErrPaymentNotFound = errors.New("payment not found")

// ErrEventFull is returned when an RSVP would exceed the event capacity.
var ErrEventFull = errors.New("event is full")

// ErrAlreadyRegistered is returned when a user RSVPs twice to the same
// event.
var ErrAlreadyRegistered = errors.New("already registered for event")
