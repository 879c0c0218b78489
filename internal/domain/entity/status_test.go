package entity

import "testing"

func TestCanTransition(t *testing.T) {
	tests := []struct {
		name string
		from Status
		to   Status
		want bool
	}{
		{"forward step", StatusPending, StatusCollected, true},
		{"forward skip", StatusPending, StatusOutForDelivery, true},
		{"straight to delivered", StatusCollected, StatusDelivered, true},
		{"backward", StatusInTransit, StatusCollected, false},
		{"self", StatusInTransit, StatusInTransit, false},
		{"active to failed", StatusInTransit, StatusFailed, true},
		{"active to returned", StatusOutForDelivery, StatusReturned, true},
		{"delivered to failed", StatusDelivered, StatusFailed, false},
		{"delivered to returned", StatusDelivered, StatusReturned, false},
		{"failed retry to chain", StatusFailed, StatusInTransit, true},
		{"failed retry to pending", StatusFailed, StatusPending, true},
		{"failed straight to delivered", StatusFailed, StatusDelivered, false},
		{"failed to returned", StatusFailed, StatusReturned, true},
		{"returned is terminal", StatusReturned, StatusPending, false},
		{"returned to failed", StatusReturned, StatusFailed, false},
		{"unknown from", Status("lost"), StatusCollected, false},
		{"unknown to", StatusPending, Status("teleported"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CanTransition(tt.from, tt.to); got != tt.want {
				t.Errorf("CanTransition(%s, %s) = %v, want %v", tt.from, tt.to, got, tt.want)
			}
		})
	}
}

func TestIsTerminal(t *testing.T) {
	terminal := []Status{StatusDelivered, StatusFailed, StatusReturned}
	for _, s := range terminal {
		if !s.IsTerminal() {
			t.Errorf("expected %s to be terminal", s)
		}
	}
	for _, s := range []Status{StatusPending, StatusCollected, StatusInTransit, StatusOutForDelivery} {
		if s.IsTerminal() {
			t.Errorf("expected %s to be active", s)
		}
	}
}

func TestStagesAfter(t *testing.T) {
	got := StagesAfter(StatusInTransit)
	want := []Status{StatusOutForDelivery, StatusDelivered}
	if len(got) != len(want) {
		t.Fatalf("StagesAfter(in_transit) = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("StagesAfter(in_transit)[%d] = %s, want %s", i, got[i], want[i])
		}
	}

	if got := StagesAfter(StatusDelivered); len(got) != 0 {
		t.Fatalf("expected no stages after delivered, got %v", got)
	}
	if got := StagesAfter(StatusFailed); got != nil {
		t.Fatalf("expected nil stages for failed, got %v", got)
	}
}
