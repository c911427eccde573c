package gxserialstream

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidArgument reports a malformed needle, payload or size.
	// The operation that returned it did not touch the buffer.
	ErrInvalidArgument = errors.New("gxserialstream: invalid argument")

	// ErrNotConnected reports an operation that needs an open port.
	ErrNotConnected = errors.New("gxserialstream: not connected")

	// ErrTransportOpenFailed reports that Open could not resolve or open the port.
	// The stream is back in the closed state and Open may be retried.
	ErrTransportOpenFailed = errors.New("gxserialstream: transport open failed")

	// ErrReadFault marks a transient read error. The reader keeps running.
	ErrReadFault = errors.New("gxserialstream: transient read fault")

	// ErrOverflow reports that unread data was discarded to keep the buffer within capacity.
	ErrOverflow = errors.New("gxserialstream: buffer overflow")
)

// OverflowError is sent to the error handler each time received data evicts
// unread bytes from the buffer.
type OverflowError struct {
	// Dropped is the number of discarded bytes.
	Dropped int
}

func (e *OverflowError) Error() string {
	return fmt.Sprintf("gxserialstream: discarded %d bytes of unread data", e.Dropped)
}

// Unwrap returns ErrOverflow.
func (e *OverflowError) Unwrap() error {
	return ErrOverflow
}
