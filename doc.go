// Package gxserialstream provides a buffered serial port connection for Gurux
// components. A background goroutine keeps receiving data from the port into
// a bounded buffer, and the application reads framed data from that buffer
// whenever it wants, without ever blocking.
//
// Features
//
//   - Open by port name, by USB vendor/product id filters, by board preset
//     ("Arduino", "MicroPython") or with an already opened transport.
//   - Bounded receive buffer (1 MiB by default). When it is full the oldest
//     unread data is discarded and the error handler is told how much.
//   - Text reads that never split a UTF-8 character, also when a character
//     arrives in two chunks.
//   - Delimited reads: a needle (byte, string or byte slice) ends a frame.
//   - Writes are queued and sent one at a time in call order.
//   - Tracing, error and state change callbacks; localized messages.
//
// # Construction
//
//	media := gxserialstream.NewGXSerialStream()
//	media.SetOnError(func(s *gxserialstream.GXSerialStream, err error) {
//	    // log/handle error
//	})
//	if err := media.Open(gxserialstream.Preset{Name: "Arduino"}); err != nil {
//	    // handle connect error
//	}
//	defer media.Close()
//
// # Reading
//
// All reads return immediately. When there is not enough data the result is
// empty and nothing is consumed, so the same call can be repeated later:
//
//	line, err := media.ReadTextUntil("\n")
//	if err == nil && line != "" {
//	    // handle line
//	}
//
// ReadText returns complete characters, ReadBytes raw bytes. Last and
// LastByte return the newest data and discard everything else.
//
// # Errors
//
// Invalid needles and payloads return ErrInvalidArgument, writes on a closed
// port return ErrNotConnected and failed opens return an error wrapping
// ErrTransportOpenFailed. Errors of the background reader, including
// *OverflowError, are passed to the error handler.
//
// # Notes
//
// The zero value of GXSerialStream is not ready for use; always construct via
// NewGXSerialStream. Handlers run on the reader goroutine; they must not call
// Close and long-running work should be offloaded.
package gxserialstream
