package proc

import (
	"errors"
	"fmt"
)

var (
	// ErrProvisioningFailed wraps any remote failure while looking up or creating a role.
	ErrProvisioningFailed = errors.New("role provisioning failed")

	ErrRoleNotFound         = errors.New("role not found")
	ErrMessageNotFound      = errors.New("message not found")
	ErrChannelNotConfigured = errors.New("anchor channel not configured")
	ErrReconcileInFlight    = errors.New("reconciliation already in flight")
	ErrRateLimited          = errors.New("custom role requests rate limited")
)

// ValidationReason says which rule a custom role name broke.
type ValidationReason int

const (
	TooLong ValidationReason = iota + 1
	TooManyDigits
	Profane
	Reserved
	Empty
)

func (r ValidationReason) String() string {
	switch r {
	case TooLong:
		return "too long"
	case TooManyDigits:
		return "too many digits"
	case Profane:
		return "profane"
	case Reserved:
		return "reserved"
	case Empty:
		return "empty"
	default:
		return "unknown"
	}
}

// ValidationError rejects user input before any remote mutation happens.
type ValidationError struct {
	Reason ValidationReason
	Name   string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid custom role name %q: %s", e.Name, e.Reason)
}

// ValidationReasonOf returns the reason carried by err, or 0 when err is not a ValidationError.
func ValidationReasonOf(err error) ValidationReason {
	var verr *ValidationError
	if errors.As(err, &verr) {
		return verr.Reason
	}
	return 0
}

func provisioningFailed(err error) error {
	return fmt.Errorf("%w: %w", ErrProvisioningFailed, err)
}
