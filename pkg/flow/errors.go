package flow

import "errors"

var (
	// ErrChannelClosed is the closure signal. Get returns it once a channel is
	// closed and drained; Put returns it when the channel is closed.
	ErrChannelClosed = errors.New("channel closed")

	// ErrInvalidCapacity is returned when a channel is created with a negative
	// capacity.
	ErrInvalidCapacity = errors.New("channel capacity must not be negative")
)

// IsClosed checks if an error is the channel closure signal.
func IsClosed(err error) bool {
	return errors.Is(err, ErrChannelClosed)
}
