package simpletrader

import "fmt"

// canTransition checks whether an order may move from one status to another.
// Orders advance one step at a time: pending, confirmed, paid, completed.
func canTransition(from, to OrderStatus) (bool, error) {
	var next OrderStatus
	switch from {
	case OrderStatusPending:
		next = OrderStatusConfirmed
	case OrderStatusConfirmed:
		next = OrderStatusPaid
	case OrderStatusPaid:
		next = OrderStatusCompleted
	case OrderStatusCompleted:
		return false, fmt.Errorf("%w: order is already completed", ErrInvalidOrderStatus)
	default:
		return false, fmt.Errorf("%w: unknown status %s", ErrInvalidOrderStatus, from)
	}

	if to != next {
		return false, fmt.Errorf("%w: cannot move order from %s to %s", ErrInvalidOrderStatus, from, to)
	}
	return true, nil
}
