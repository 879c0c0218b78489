package entity

// Status represents the lifecycle state of a delivery
type Status string

const (
	StatusPending        Status = "pending"
	StatusCollected      Status = "collected"
	StatusInTransit      Status = "in_transit"
	StatusOutForDelivery Status = "out_for_delivery"
	StatusDelivered      Status = "delivered"
	StatusFailed         Status = "failed"
	StatusReturned       Status = "returned"
)

// ActiveChain is the ordered forward progression of an active delivery.
var ActiveChain = []Status{
	StatusPending,
	StatusCollected,
	StatusInTransit,
	StatusOutForDelivery,
	StatusDelivered,
}

var chainRank = map[Status]int{
	StatusPending:        0,
	StatusCollected:      1,
	StatusInTransit:      2,
	StatusOutForDelivery: 3,
	StatusDelivered:      4,
}

// IsValid reports whether s is a known delivery status
func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusCollected, StatusInTransit, StatusOutForDelivery,
		StatusDelivered, StatusFailed, StatusReturned:
		return true
	}
	return false
}

// IsTerminal reports whether no further scheduled events apply to s.
// delivered and returned end the lifecycle; failed is terminal for
// scheduling purposes until a retry moves the delivery back into the chain.
func (s Status) IsTerminal() bool {
	return s == StatusDelivered || s == StatusFailed || s == StatusReturned
}

// Rank returns the position of s in the active chain and whether s is part
// of it. failed and returned are outside the chain.
func (s Status) Rank() (int, bool) {
	r, ok := chainRank[s]
	return r, ok
}

// CanTransition reports whether a delivery may move from one status to
// another. Transitions along the active chain are monotonic: forward moves
// only, skips allowed. Any active status may drop to failed or returned.
// failed may retry back into any non-delivered chain status. returned is
// strictly terminal.
func CanTransition(from, to Status) bool {
	if !from.IsValid() || !to.IsValid() || from == to {
		return false
	}

	if from == StatusReturned {
		return false
	}

	if from == StatusFailed {
		// Retry path: back into the chain, but never straight to delivered.
		r, ok := to.Rank()
		return ok && r < chainRank[StatusDelivered] || to == StatusReturned
	}

	if to == StatusFailed || to == StatusReturned {
		return from != StatusDelivered
	}

	fromRank, fromOK := from.Rank()
	toRank, toOK := to.Rank()
	if !fromOK || !toOK {
		return false
	}
	return toRank > fromRank
}

// StagesAfter returns the chain statuses strictly after s, through delivered.
// For statuses outside the chain the result is empty.
func StagesAfter(s Status) []Status {
	r, ok := s.Rank()
	if !ok {
		return nil
	}
	return ActiveChain[r+1:]
}
