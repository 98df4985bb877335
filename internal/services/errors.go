package services

import "errors"

var (
	ErrActivityNotFound   = errors.New("activity not found")
	ErrAttendanceNotFound = errors.New("attendance not found")
	ErrUserNotFound       = errors.New("user not found")
	ErrPhotoNotFound      = errors.New("photo not found")
	ErrAlreadyAttending   = errors.New("already attending this activity")
	ErrHostCannotLeave    = errors.New("hosts cannot leave their own activity")
	ErrUsernameTaken      = errors.New("username already taken")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrInvalidToken       = errors.New("invalid or expired refresh token")
	ErrMainPhotoDelete    = errors.New("the main photo cannot be deleted")

	// ErrNothingCommitted reports a write that passed validation but
	// affected zero rows. It is fatal to the request, not a business-rule
	// rejection.
	ErrNothingCommitted = errors.New("commit affected no rows")
)

// ValidationError reports a required field that was missing at creation.
type ValidationError struct {
	Field string
}

func (e *ValidationError) Error() string {
	return e.Field + " is required"
}
