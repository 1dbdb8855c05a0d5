package domain

// Lifecycle state of a parcel.
type ParcelStatus string

const (
	StatusPending   ParcelStatus = "PENDING"
	StatusAssigned  ParcelStatus = "ASSIGNED"
	StatusInTransit ParcelStatus = "IN_TRANSIT"
	StatusDelivered ParcelStatus = "DELIVERED"
	StatusFailed    ParcelStatus = "FAILED"
)

// ActiveStatuses are the states scanned for SLA risk.
var ActiveStatuses = []ParcelStatus{StatusPending, StatusAssigned, StatusInTransit}

var transitions = map[ParcelStatus][]ParcelStatus{
	StatusPending:   {StatusAssigned, StatusFailed},
	StatusAssigned:  {StatusInTransit, StatusPending, StatusFailed},
	StatusInTransit: {StatusDelivered, StatusFailed},
	StatusDelivered: {},
	StatusFailed:    {StatusPending},
}

// Valid reports whether s is a known status.
func (s ParcelStatus) Valid() bool {
	_, ok := transitions[s]
	return ok
}

// IsTerminal reports whether no further transitions are possible.
func (s ParcelStatus) IsTerminal() bool {
	next, ok := transitions[s]
	return ok && len(next) == 0
}

// CanTransition reports whether the table allows from -> to.
func CanTransition(from, to ParcelStatus) bool {
	for _, s := range transitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// ValidateTransition returns a *TransitionError naming both states when the
// change is not in the table.
func ValidateTransition(from, to ParcelStatus) error {
	if !CanTransition(from, to) {
		return &TransitionError{From: from, To: to}
	}
	return nil
}
