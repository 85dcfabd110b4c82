package appointment

// Terminal reports whether no transition is defined out of the status.
func Terminal(status string) bool {
	switch status {
	case StatusRejected, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// ValidStatus reports whether the string is a known appointment status.
func ValidStatus(status string) bool {
	switch status {
	case StatusPending, StatusApproved, StatusRejected, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// canTransition reports whether a doctor-driven status change is defined.
// Cancellation is patient-driven and handled separately.
func canTransition(from, to string) bool {
	switch from {
	case StatusPending:
		return to == StatusApproved || to == StatusRejected
	case StatusApproved:
		return to == StatusCompleted
	}
	return false
}
