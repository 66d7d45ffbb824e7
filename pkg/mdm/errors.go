package mdm

import "errors"

var (
	// ErrInvalidEnrollment means the enrollment code is unknown or was
	// already consumed by another device.
	ErrInvalidEnrollment = errors.New("invalid or already used enrollment code")

	ErrDeviceNotFound  = errors.New("device not found")
	ErrCommandNotFound = errors.New("command not found")

	// ErrAccessDenied means the requesting family is not linked to the
	// device's senior.
	ErrAccessDenied = errors.New("access denied")

	ErrAuthenticationFailed = errors.New("authentication failed")

	// ErrDeliveryFailed is non-fatal: the command stays pending and is
	// picked up on the device's next heartbeat.
	ErrDeliveryFailed = errors.New("command delivery failed")

	ErrInvalidTransition   = errors.New("invalid command status transition")
	ErrLocationUnavailable = errors.New("location not available")
)
