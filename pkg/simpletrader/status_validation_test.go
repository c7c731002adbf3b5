package simpletrader

import (
	"errors"
	"testing"
)

// TestCanTransition tests the canTransition validation function
func TestCanTransition(t *testing.T) {
	tests := []struct {
		name      string
		from      OrderStatus
		to        OrderStatus
		wantOK    bool
		wantError error
	}{
		{name: "allow: pending to confirmed", from: OrderStatusPending, to: OrderStatusConfirmed, wantOK: true},
		{name: "allow: confirmed to paid", from: OrderStatusConfirmed, to: OrderStatusPaid, wantOK: true},
		{name: "allow: paid to completed", from: OrderStatusPaid, to: OrderStatusCompleted, wantOK: true},
		{name: "deny: pending to paid", from: OrderStatusPending, to: OrderStatusPaid, wantError: ErrInvalidOrderStatus},
		{name: "deny: pending to completed", from: OrderStatusPending, to: OrderStatusCompleted, wantError: ErrInvalidOrderStatus},
		{name: "deny: confirmed again", from: OrderStatusConfirmed, to: OrderStatusConfirmed, wantError: ErrInvalidOrderStatus},
		{name: "deny: paid back to pending", from: OrderStatusPaid, to: OrderStatusPending, wantError: ErrInvalidOrderStatus},
		{name: "deny: completed", from: OrderStatusCompleted, to: OrderStatusConfirmed, wantError: ErrInvalidOrderStatus},
		{name: "deny: unknown status", from: OrderStatus("lost"), to: OrderStatusConfirmed, wantError: ErrInvalidOrderStatus},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ok, err := canTransition(tt.from, tt.to)
			if ok != tt.wantOK {
				t.Errorf("canTransition() ok = %v, want %v", ok, tt.wantOK)
			}
			if tt.wantError == nil && err != nil {
				t.Errorf("canTransition() unexpected error = %v", err)
			}
			if tt.wantError != nil && !errors.Is(err, tt.wantError) {
				t.Errorf("canTransition() error = %v, want %v", err, tt.wantError)
			}
		})
	}
}
