package gxserialstream

// readSize is the largest chunk a transport returns from one Read.
const readSize = 4096

// Transport is an open serial connection.
type Transport interface {
	// Read blocks until data is received. It returns io.EOF at the end of
	// the stream and after Cancel. Errors wrapping ErrReadFault are
	// transient and the next Read may succeed.
	Read() ([]byte, error)
	// Write sends p to the device.
	Write(p []byte) (int, error)
	// Cancel wakes up a pending Read, which then returns io.EOF.
	Cancel() error
	// Close releases the connection.
	Close() error
}

// Dialer opens the named port with the given settings.
type Dialer func(name string, settings Settings) (Transport, error)
