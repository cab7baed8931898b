package smartcube

import "errors"

// Sentinel errors for the smartcube package.
var (
	// Codec errors
	ErrMalformedInput   = errors.New("smartcube: malformed input")
	ErrUnsupportedState = errors.New("smartcube: unsupported cube state")
	ErrInvalidState     = errors.New("smartcube: invalid cube state")

	// Connection errors
	ErrDeviceNotFound = errors.New("smartcube: device not found")

	// Parsing errors
	ErrInvalidNotation = errors.New("smartcube: invalid move notation")
)
