package enums

import "fmt"

// OrderStatus tracks the lifecycle of an order after submission.
type OrderStatus string

const (
	OrderStatusDraft     OrderStatus = "draft"
	OrderStatusPlaced    OrderStatus = "placed"
	OrderStatusFulfilled OrderStatus = "fulfilled"
	OrderStatusCancelled OrderStatus = "cancelled"
)

var validOrderStatuses = []OrderStatus{
	OrderStatusDraft,
	OrderStatusPlaced,
	OrderStatusFulfilled,
	OrderStatusCancelled,
}

// orderStatusTransitions encodes draft -> placed -> fulfilled|cancelled.
var orderStatusTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusDraft:  {OrderStatusPlaced, OrderStatusCancelled},
	OrderStatusPlaced: {OrderStatusFulfilled, OrderStatusCancelled},
}

// String implements fmt.Stringer.
func (s OrderStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known OrderStatus.
func (s OrderStatus) IsValid() bool {
	for _, candidate := range validOrderStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// CanTransitionTo reports whether the status machine allows moving to next.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	for _, candidate := range orderStatusTransitions[s] {
		if candidate == next {
			return true
		}
	}
	return false
}

// ParseOrderStatus converts raw input into an OrderStatus.
func ParseOrderStatus(value string) (OrderStatus, error) {
	for _, candidate := range validOrderStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid order status %q", value)
}
