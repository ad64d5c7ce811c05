package mqtt

import "errors"

var (
	// ErrNotConnected is returned when publishing without a broker connection.
	ErrNotConnected = errors.New("mqtt client not connected")
	// ErrInvalidPayload is returned for messages that cannot be decoded.
	ErrInvalidPayload = errors.New("invalid payload")
)
