package pkg

import "errors"

// DBM driver errors.
var (
	// ErrEndpointNotMapped indicates the logical USB endpoint has no
	// DBM endpoint bound to it.
	ErrEndpointNotMapped = errors.New("endpoint not mapped to a DBM endpoint")

	// ErrEndpointRange indicates a DBM endpoint index outside the
	// fixed endpoint count.
	ErrEndpointRange = errors.New("DBM endpoint index out of range")

	// ErrNotSupported indicates an unsupported operation or feature.
	ErrNotSupported = errors.New("not supported")

	// ErrInvalidSize indicates a negative or otherwise invalid buffer size.
	ErrInvalidSize = errors.New("invalid buffer size")

	// ErrNoDevice indicates no matching device is present.
	ErrNoDevice = errors.New("device not present")

	// ErrNoDriver indicates no driver is registered for the device's
	// compatible strings.
	ErrNoDriver = errors.New("no driver for device")

	// ErrClosed indicates the register window has been closed.
	ErrClosed = errors.New("register window closed")

	// ErrInvalidParameter indicates an invalid parameter was provided.
	ErrInvalidParameter = errors.New("invalid parameter")
)
