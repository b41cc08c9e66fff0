package domain

import (
	"github.com/allisson/sporeid/internal/errors"
)

var (
	// ErrDeviceNotFound indicates no device is registered under the identifier.
	ErrDeviceNotFound = errors.Wrap(errors.ErrNotFound, "device not found")

	// ErrDeviceAlreadyExists indicates the identifier is already registered.
	ErrDeviceAlreadyExists = errors.Wrap(errors.ErrConflict, "device id already registered")

	// ErrDeviceRevoked indicates the device exists but has been revoked.
	ErrDeviceRevoked = errors.Wrap(errors.ErrGone, "device has been revoked")

	// ErrInvalidDeviceID indicates an identifier that fails parsing or checksum validation.
	ErrInvalidDeviceID = errors.Wrap(errors.ErrInvalidInput, "invalid device id")

	// ErrMalformedDeviceID indicates an identifier that does not have the expected structure.
	ErrMalformedDeviceID = errors.Wrap(ErrInvalidDeviceID, "malformed")

	// ErrChecksumMismatch indicates a well-formed identifier whose check symbol is wrong.
	ErrChecksumMismatch = errors.Wrap(ErrInvalidDeviceID, "checksum mismatch")

	// ErrProvisionExhausted indicates every provisioning attempt collided with an existing id.
	ErrProvisionExhausted = errors.Wrap(errors.ErrConflict, "could not allocate a unique device id")

	// ErrInvalidBatchSize indicates a batch count outside the accepted range.
	ErrInvalidBatchSize = errors.Wrap(errors.ErrInvalidInput, "invalid batch size")
)
