package appointment

import "errors"

var (
	// ErrValidation is returned when a required field is missing or malformed.
	ErrValidation = errors.New("missing or invalid required fields")
	// ErrNotFound is returned when the referenced appointment does not exist.
	ErrNotFound = errors.New("appointment not found")
	// ErrDoctorNotFound is returned when booking references an identity that
	// does not exist or is not a doctor.
	ErrDoctorNotFound = errors.New("doctor not found")
	// ErrForbidden is returned when the caller is authenticated but does not
	// own the appointment, or holds the wrong role for the operation.
	ErrForbidden = errors.New("not allowed to act on this appointment")
	// ErrInvalidTransition is returned when the requested status change is not
	// defined by the lifecycle.
	ErrInvalidTransition = errors.New("status transition not allowed")
	// ErrAlreadyCancelled is returned when cancelling an appointment that is
	// already cancelled. Kept separate from ErrInvalidTransition for a clearer
	// user message.
	ErrAlreadyCancelled = errors.New("appointment is already cancelled")
)
