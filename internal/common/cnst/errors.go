package cnst

import "errors"

var (
	// ErrNotReceiver is returned when a notifier cannot receive updates
	ErrNotReceiver = errors.New("notifier is not configured as receiver")
	// ErrNotSender is returned when a notifier cannot send updates
	ErrNotSender = errors.New("notifier is not configured as sender")
	// ErrUnknownEvent is returned when an event name is outside the known vocabulary
	ErrUnknownEvent = errors.New("unknown event name")
	// ErrMissingToken is returned when a handshake carries no usable token
	ErrMissingToken = errors.New("missing handshake token")
)
