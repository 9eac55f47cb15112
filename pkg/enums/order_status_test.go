package enums

import "testing"

func TestOrderStatusTransitions(t *testing.T) {
	cases := []struct {
		from, to OrderStatus
		allowed  bool
	}{
		{OrderStatusDraft, OrderStatusPlaced, true},
		{OrderStatusDraft, OrderStatusCancelled, true},
		{OrderStatusPlaced, OrderStatusFulfilled, true},
		{OrderStatusPlaced, OrderStatusCancelled, true},
		{OrderStatusPlaced, OrderStatusDraft, false},
		{OrderStatusFulfilled, OrderStatusCancelled, false},
		{OrderStatusCancelled, OrderStatusPlaced, false},
		{OrderStatusFulfilled, OrderStatusPlaced, false},
	}
	for _, tc := range cases {
		if got := tc.from.CanTransitionTo(tc.to); got != tc.allowed {
			t.Fatalf("%s -> %s: expected %v, got %v", tc.from, tc.to, tc.allowed, got)
		}
	}
}

func TestParseOrderStatus(t *testing.T) {
	if _, err := ParseOrderStatus("placed"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := ParseOrderStatus("shipped"); err == nil {
		t.Fatal("expected error for unknown status")
	}
}
