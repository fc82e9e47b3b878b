package booking

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusValid(t *testing.T) {
	assert.True(t, StatusPending.Valid())
	assert.True(t, StatusConfirmed.Valid())
	assert.True(t, StatusCancelled.Valid())
	assert.False(t, Status("PENDING").Valid())
	assert.False(t, Status("").Valid())
	assert.False(t, Status("expired").Valid())
}

// Exhaustive check of all nine ordered status pairs: only
// pending→confirmed, pending→cancelled and confirmed→cancelled are legal.
func TestCanTransitionExhaustive(t *testing.T) {
	all := []Status{StatusPending, StatusConfirmed, StatusCancelled}
	allowed := map[[2]Status]bool{
		{StatusPending, StatusConfirmed}:   true,
		{StatusPending, StatusCancelled}:   true,
		{StatusConfirmed, StatusCancelled}: true,
	}
	for _, from := range all {
		for _, to := range all {
			want := allowed[[2]Status{from, to}]
			assert.Equal(t, want, CanTransition(from, to), "%s -> %s", from, to)
		}
	}
}

func TestCheckTransition(t *testing.T) {
	tests := []struct {
		name       string
		from, to   Status
		paymentRef bool
		wantErr    error
	}{
		{"confirm with payment ref", StatusPending, StatusConfirmed, true, nil},
		{"confirm without payment ref", StatusPending, StatusConfirmed, false, ErrPaymentRefRequired},
		{"cancel pending", StatusPending, StatusCancelled, false, nil},
		{"cancel confirmed", StatusConfirmed, StatusCancelled, false, nil},
		{"revive cancelled", StatusCancelled, StatusPending, false, ErrInvalidTransition},
		{"confirm cancelled", StatusCancelled, StatusConfirmed, true, ErrInvalidTransition},
		{"demote confirmed", StatusConfirmed, StatusPending, false, ErrInvalidTransition},
		{"self transition", StatusPending, StatusPending, false, ErrInvalidTransition},
		{"unknown target", StatusPending, Status("held"), true, ErrInvalidTransition},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckTransition(tt.from, tt.to, tt.paymentRef)
			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestTerminal(t *testing.T) {
	assert.False(t, StatusPending.Terminal())
	assert.False(t, StatusConfirmed.Terminal())
	assert.True(t, StatusCancelled.Terminal())
}
