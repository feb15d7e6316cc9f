package i2c

import "errors"

var (
	// ErrShortRead is returned when a device yields fewer bytes than requested.
	ErrShortRead = errors.New("short read")
	// ErrInvalidLength is returned for reads of zero or fewer bytes.
	ErrInvalidLength = errors.New("invalid read length")
)
