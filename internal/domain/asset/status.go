package asset

// Status represents the lifecycle state of an asset
type Status string

const (
	StatusAvailable Status = "AVAILABLE"
	StatusAssigned  Status = "ASSIGNED"
	StatusInactive  Status = "INACTIVE"
	StatusStolen    Status = "STOLEN"
	StatusDisposed  Status = "DISPOSED"
)

// String returns the string representation of the status
func (s Status) String() string {
	return string(s)
}

// IsValid returns true if the status is a known status
func (s Status) IsValid() bool {
	switch s {
	case StatusAvailable, StatusAssigned, StatusInactive, StatusStolen, StatusDisposed:
		return true
	default:
		return false
	}
}

// IsTerminal reports whether the status freezes the asset's valuation.
// Terminal assets accept no further lifecycle transitions.
func (s Status) IsTerminal() bool {
	return s == StatusStolen || s == StatusDisposed
}

// AllStatuses returns all valid statuses
func AllStatuses() []Status {
	return []Status{StatusAvailable, StatusAssigned, StatusInactive, StatusStolen, StatusDisposed}
}
