package models

import "fmt"

type OrderStatus int

const (
	OrderStatusCancelled      OrderStatus = -1
	OrderStatusUnconfirmed    OrderStatus = 1
	OrderStatusConfirmed      OrderStatus = 2
	OrderStatusPrepared       OrderStatus = 3
	OrderStatusOutForDelivery OrderStatus = 4
	OrderStatusCompleted      OrderStatus = 5
)

var orderStatusNames = map[OrderStatus]string{
	OrderStatusCancelled:      "Cancelled",
	OrderStatusUnconfirmed:    "Unconfirmed",
	OrderStatusConfirmed:      "Confirmed",
	OrderStatusPrepared:       "Prepared",
	OrderStatusOutForDelivery: "OutForDelivery",
	OrderStatusCompleted:      "Completed",
}

func (s OrderStatus) String() string {
	if name, ok := orderStatusNames[s]; ok {
		return name
	}

	return fmt.Sprintf("OrderStatus(%d)", int(s))
}

func (s OrderStatus) IsValid() bool {
	_, ok := orderStatusNames[s]
	return ok
}

func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusCompleted || s == OrderStatusCancelled
}

// Successor returns the next status on the fulfilment path. Terminal states have none.
func (s OrderStatus) Successor() (OrderStatus, bool) {
	switch s {
	case OrderStatusUnconfirmed:
		return OrderStatusConfirmed, true
	case OrderStatusConfirmed:
		return OrderStatusPrepared, true
	case OrderStatusPrepared:
		return OrderStatusOutForDelivery, true
	case OrderStatusOutForDelivery:
		return OrderStatusCompleted, true
	default:
		return 0, false
	}
}

// CanTransitionTo allows exactly the direct successor, or Cancelled from any
// non-terminal state. Nothing leaves a terminal state.
func (s OrderStatus) CanTransitionTo(target OrderStatus) bool {
	if !s.IsValid() || !target.IsValid() || s.IsTerminal() {
		return false
	}

	if target == OrderStatusCancelled {
		return true
	}

	next, ok := s.Successor()

	return ok && next == target
}
