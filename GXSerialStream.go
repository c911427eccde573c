package gxserialstream

// --------------------------------------------------------------------------
//
//	Gurux Ltd
//
// Filename:        $HeadURL$
//
// Version:         $Revision$,
//
//	$Date$
//	$Author$
//
// # Copyright (c) Gurux Ltd
//
// ---------------------------------------------------------------------------
//
//	DESCRIPTION
//
// This file is a part of Gurux Device Framework.
//
// Gurux Device Framework is Open Source software; you can redistribute it
// and/or modify it under the terms of the GNU General Public License
// as published by the Free Software Foundation; version 2 of the License.
// Gurux Device Framework is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.
// See the GNU General Public License for more details.
//
// More information of Gurux products: https://www.gurux.org
//
// This code is licensed under the GNU General Public License v2.
// Full text may be retrieved at http://www.gnu.org/licenses/gpl-2.0.txt

import (
	"errors"
	"fmt"
	"io"
	"sync"
	"sync/atomic"

	"github.com/Gurux/gxcommon-go"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// ErrorHandler is called for errors that happen in the background reader,
// for example discarded data or a lost connection.
type ErrorHandler func(s *GXSerialStream, err error)

// TraceHandler is called for trace messages allowed by the trace level.
type TraceHandler func(s *GXSerialStream, e gxcommon.TraceEventArgs)

// MediaStateHandler is called when the connection state changes.
type MediaStateHandler func(s *GXSerialStream, e gxcommon.MediaStateEventArgs)

type writeRequest struct {
	data []byte
	done chan error
}

// GXSerialStream is a serial connection whose received data is kept in a
// GXStreamBuffer. A background goroutine appends every received chunk to
// the buffer; the application reads from it at its own pace with the
// buffer methods, which never block.
type GXSerialStream struct {
	*GXStreamBuffer

	mu sync.Mutex
	// wg tracks the reader and writer of the current connection.
	wg *sync.WaitGroup

	state       gxcommon.MediaState
	name        string
	transport   Transport
	keepReading bool
	cancelOpen  bool
	writes      chan writeRequest
	stop        chan struct{}

	dialer     Dialer
	enumerate  Enumerator
	traceLevel gxcommon.TraceLevel

	onState MediaStateHandler
	onTrace TraceHandler
	onErr   ErrorHandler

	bytesSent     atomic.Uint64
	bytesReceived atomic.Uint64

	// Printer for localized messages.
	p *message.Printer
}

// NewGXSerialStream returns a closed stream with a DefaultBufferSize buffer.
func NewGXSerialStream() *GXSerialStream {
	g := &GXSerialStream{
		GXStreamBuffer: NewGXStreamBuffer(DefaultBufferSize),
		state:          gxcommon.MediaStateClosed,
		dialer:         openPort,
		enumerate:      GetPorts,
	}
	g.Localize(language.AmericanEnglish)
	return g
}

// Localize messages for the specified language.
// No errors is returned if language is not supported.
func (g *GXSerialStream) Localize(language language.Tag) {
	g.mu.Lock()
	g.p = message.NewPrinter(language)
	g.mu.Unlock()
}

func (g *GXSerialStream) sprintf(key string, a ...any) string {
	g.mu.Lock()
	p := g.p
	g.mu.Unlock()
	return p.Sprintf(key, a...)
}

// SetDialer replaces the function that opens ports by name.
func (g *GXSerialStream) SetDialer(value Dialer) {
	g.mu.Lock()
	g.dialer = value
	g.mu.Unlock()
}

// SetEnumerator replaces the function that lists ports for Filter, Preset
// and Params without a port name.
func (g *GXSerialStream) SetEnumerator(value Enumerator) {
	g.mu.Lock()
	g.enumerate = value
	g.mu.Unlock()
}

// SetOnError sets the background error handler.
func (g *GXSerialStream) SetOnError(value ErrorHandler) {
	g.mu.Lock()
	g.onErr = value
	g.mu.Unlock()
}

// SetOnTrace sets the trace handler.
func (g *GXSerialStream) SetOnTrace(value TraceHandler) {
	g.mu.Lock()
	g.onTrace = value
	g.mu.Unlock()
}

// SetOnMediaStateChange sets the state change handler.
func (g *GXSerialStream) SetOnMediaStateChange(value MediaStateHandler) {
	g.mu.Lock()
	g.onState = value
	g.mu.Unlock()
}

// GetTrace returns the trace level.
func (g *GXSerialStream) GetTrace() gxcommon.TraceLevel {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.traceLevel
}

// SetTrace sets the trace level.
func (g *GXSerialStream) SetTrace(traceLevel gxcommon.TraceLevel) error {
	g.mu.Lock()
	g.traceLevel = traceLevel
	g.mu.Unlock()
	return nil
}

// State returns the connection state.
func (g *GXSerialStream) State() gxcommon.MediaState {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state
}

// Opened reports whether the port is open.
func (g *GXSerialStream) Opened() bool {
	return g.State() == gxcommon.MediaStateOpen
}

// GetName returns the name of the opened port.
func (g *GXSerialStream) GetName() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.name
}

func (g *GXSerialStream) String() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return fmt.Sprintf("%s %s", g.name, g.state)
}

// GetBytesSent returns the number of bytes sent.
func (g *GXSerialStream) GetBytesSent() uint64 {
	return g.bytesSent.Load()
}

// GetBytesReceived returns the number of bytes received.
func (g *GXSerialStream) GetBytesReceived() uint64 {
	return g.bytesReceived.Load()
}

// ResetByteCounters zeroes the sent and received byte counters.
func (g *GXSerialStream) ResetByteCounters() {
	g.bytesSent.Store(0)
	g.bytesReceived.Store(0)
}

// Open connects to the port selected by spec and starts receiving into the buffer.
// Buffered data of an earlier connection is discarded. Open on an open
// stream does nothing. On failure the stream is closed again, the returned
// error wraps ErrTransportOpenFailed and Open may be retried.
func (g *GXSerialStream) Open(spec ConnectionSpec) error {
	g.mu.Lock()
	switch g.state {
	case gxcommon.MediaStateClosed:
	case gxcommon.MediaStateOpen:
		g.mu.Unlock()
		return nil
	default:
		state := g.state
		g.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrTransportOpenFailed, g.sprintf("msg.open_busy", state))
	}
	g.state = gxcommon.MediaStateOpening
	g.cancelOpen = false
	g.mu.Unlock()
	g.statef(gxcommon.MediaStateOpening)
	g.trace(gxcommon.TraceTypesInfo, g.sprintf("msg.opening", spec))

	t, name, err := g.resolve(spec)
	if err != nil {
		g.setState(gxcommon.MediaStateClosed)
		g.trace(gxcommon.TraceTypesError, g.sprintf("msg.open_failed", spec, err))
		g.statef(gxcommon.MediaStateClosed)
		g.errorf(err)
		return fmt.Errorf("%w: %w", ErrTransportOpenFailed, err)
	}

	g.mu.Lock()
	if g.cancelOpen {
		g.state = gxcommon.MediaStateClosed
		g.mu.Unlock()
		_ = t.Close()
		g.statef(gxcommon.MediaStateClosed)
		return fmt.Errorf("%w: %s", ErrTransportOpenFailed, g.sprintf("msg.open_cancelled"))
	}
	g.GXStreamBuffer.Clear()
	g.transport = t
	g.name = name
	g.keepReading = true
	g.stop = make(chan struct{})
	g.writes = make(chan writeRequest)
	g.state = gxcommon.MediaStateOpen
	stop, writes := g.stop, g.writes
	wg := &sync.WaitGroup{}
	wg.Add(2)
	g.wg = wg
	g.mu.Unlock()

	g.trace(gxcommon.TraceTypesInfo, g.sprintf("msg.connected_to", name))
	g.statef(gxcommon.MediaStateOpen)
	go g.reader(wg, t, name, stop)
	go g.writer(wg, t, writes, stop)
	return nil
}

// resolve turns spec into an open transport and the name of its port.
func (g *GXSerialStream) resolve(spec ConnectionSpec) (Transport, string, error) {
	g.mu.Lock()
	dial, enumerate := g.dialer, g.enumerate
	g.mu.Unlock()
	switch s := spec.(type) {
	case Handle:
		if s.Transport == nil {
			return nil, "", fmt.Errorf("%w: handle without transport", ErrInvalidArgument)
		}
		return s.Transport, s.String(), nil
	case Filter:
		return g.dialMatching(dial, enumerate, spec, s.Filters, s.Settings)
	case Preset:
		filters, err := PresetFilters(s.Name)
		if err != nil {
			return nil, "", err
		}
		return g.dialMatching(dial, enumerate, spec, filters, s.Settings)
	case Params:
		if s.Port == "" {
			return g.dialMatching(dial, enumerate, spec, nil, s.Settings)
		}
		t, err := dial(s.Port, s.Settings.withDefaults())
		if err != nil {
			return nil, "", err
		}
		return t, s.Port, nil
	case nil:
		return nil, "", fmt.Errorf("%w: nil connection spec", ErrInvalidArgument)
	default:
		return nil, "", fmt.Errorf("%w: unsupported connection spec %T", ErrInvalidArgument, spec)
	}
}

func (g *GXSerialStream) dialMatching(dial Dialer, enumerate Enumerator,
	spec ConnectionSpec, filters []PortFilter, settings Settings) (Transport, string, error) {
	ports, err := enumerate()
	if err != nil {
		return nil, "", err
	}
	p, ok := matchPort(ports, filters)
	if !ok {
		return nil, "", errors.New(g.sprintf("msg.no_port", spec))
	}
	t, err := dial(p.Name, settings.withDefaults())
	if err != nil {
		return nil, "", err
	}
	return t, p.Name, nil
}

// Close stops the reader, closes the port and discards buffered data.
// Close on a closed or closing stream does nothing. Close while Open is in
// progress makes that Open fail. Close must not be called from a handler.
func (g *GXSerialStream) Close() error {
	g.mu.Lock()
	switch g.state {
	case gxcommon.MediaStateOpen:
	case gxcommon.MediaStateOpening:
		g.cancelOpen = true
		g.mu.Unlock()
		g.trace(gxcommon.TraceTypesInfo, g.sprintf("msg.open_cancelled"))
		return nil
	default:
		state := g.state
		g.mu.Unlock()
		g.trace(gxcommon.TraceTypesInfo, g.sprintf("msg.already_closed", state))
		return nil
	}
	g.state = gxcommon.MediaStateClosing
	g.keepReading = false
	t, name, wg := g.transport, g.name, g.wg
	g.mu.Unlock()

	g.trace(gxcommon.TraceTypesInfo, g.sprintf("msg.closing_connection", name))
	g.statef(gxcommon.MediaStateClosing)
	err := t.Cancel()
	wg.Wait()
	return err
}

// Send writes data to the port. data is a string (sent UTF-8 encoded), a
// byte, an integer in [0, 255], an []int of byte values or a []byte.
// Writes are sent one at a time in call order and Send returns when the
// transport has taken the data. ErrNotConnected is returned when the port
// is not open; the data is dropped.
func (g *GXSerialStream) Send(data any) error {
	tmp, err := toBytes(data)
	if err != nil {
		return err
	}
	g.mu.Lock()
	if g.state != gxcommon.MediaStateOpen {
		g.mu.Unlock()
		g.trace(gxcommon.TraceTypesError, g.sprintf("msg.not_open"))
		return ErrNotConnected
	}
	writes, stop := g.writes, g.stop
	g.mu.Unlock()

	req := writeRequest{data: tmp, done: make(chan error, 1)}
	select {
	case writes <- req:
	case <-stop:
		return ErrNotConnected
	}
	if err := <-req.done; err != nil {
		g.trace(gxcommon.TraceTypesError, err.Error())
		return err
	}
	g.bytesSent.Add(uint64(len(tmp)))
	if g.tracing(gxcommon.TraceTypesSent) {
		str, err := gxcommon.ToString(tmp)
		if err == nil {
			g.tracef(gxcommon.TraceTypesSent, "TX: %s", str)
		}
	}
	return nil
}

// Write implements io.Writer on top of Send.
func (g *GXSerialStream) Write(p []byte) (int, error) {
	if err := g.Send(p); err != nil {
		return 0, err
	}
	return len(p), nil
}

func (g *GXSerialStream) writer(wg *sync.WaitGroup, t Transport, writes <-chan writeRequest, stop <-chan struct{}) {
	defer wg.Done()
	for {
		select {
		case req := <-writes:
			_, err := t.Write(req.data)
			req.done <- err
		case <-stop:
			return
		}
	}
}

func (g *GXSerialStream) reading() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.keepReading
}

func (g *GXSerialStream) reader(wg *sync.WaitGroup, t Transport, name string, stop chan struct{}) {
	defer wg.Done()
	for {
		data, err := t.Read()
		if len(data) != 0 {
			g.handleData(data)
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			if !g.reading() {
				break
			}
			if errors.Is(err, ErrReadFault) {
				g.trace(gxcommon.TraceTypesError, g.sprintf("msg.read_fault", err))
				g.errorf(err)
				continue
			}
			g.trace(gxcommon.TraceTypesError, g.sprintf("msg.connection_failed", err))
			g.errorf(err)
			break
		}
		if !g.reading() {
			break
		}
	}
	g.shutdown(t, name, stop)
}

// shutdown runs on the reader goroutine when it exits.
func (g *GXSerialStream) shutdown(t Transport, name string, stop chan struct{}) {
	g.mu.Lock()
	notify := g.state != gxcommon.MediaStateClosing
	g.state = gxcommon.MediaStateClosing
	g.keepReading = false
	g.mu.Unlock()
	if notify {
		g.trace(gxcommon.TraceTypesInfo, g.sprintf("msg.closing_connection", name))
		g.statef(gxcommon.MediaStateClosing)
	}
	close(stop)
	if err := t.Close(); err != nil {
		g.errorf(err)
	}
	g.GXStreamBuffer.Clear()

	g.mu.Lock()
	g.state = gxcommon.MediaStateClosed
	g.transport = nil
	g.wg = nil
	g.writes = nil
	g.stop = nil
	g.mu.Unlock()
	g.trace(gxcommon.TraceTypesInfo, g.sprintf("msg.connection_closed", name))
	g.statef(gxcommon.MediaStateClosed)
}

// BufferSize changes the capacity of the receive buffer. Unread bytes that
// no longer fit are discarded and reported to the error handler as
// *OverflowError.
func (g *GXSerialStream) BufferSize(capacity int) error {
	dropped, err := g.GXStreamBuffer.BufferSize(capacity)
	if err != nil {
		return err
	}
	g.dropped(dropped)
	return nil
}

func (g *GXSerialStream) dropped(n int) {
	if n == 0 {
		return
	}
	g.trace(gxcommon.TraceTypesError, g.sprintf("msg.discarding", n))
	g.errorf(&OverflowError{Dropped: n})
}

func (g *GXSerialStream) handleData(data []byte) {
	g.bytesReceived.Add(uint64(len(data)))
	if g.tracing(gxcommon.TraceTypesReceived) {
		str, err := gxcommon.ToString(data)
		if err != nil {
			g.tracef(gxcommon.TraceTypesError, "RX failed: %v", err)
			g.errorf(err)
		} else {
			g.tracef(gxcommon.TraceTypesReceived, "RX: %s", str)
		}
	}
	g.dropped(g.Append(data))
}

func (g *GXSerialStream) setState(state gxcommon.MediaState) {
	g.mu.Lock()
	g.state = state
	g.mu.Unlock()
}

func (g *GXSerialStream) tracing(traceType gxcommon.TraceTypes) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.onTrace != nil && !(int(g.traceLevel) < int(traceType))
}

func (g *GXSerialStream) tracef(traceType gxcommon.TraceTypes, fmtStr string, a ...any) {
	g.trace(traceType, fmt.Sprintf(fmtStr, a...))
}

func (g *GXSerialStream) trace(traceType gxcommon.TraceTypes, message string) {
	g.mu.Lock()
	trace := !(int(g.traceLevel) < int(traceType))
	cb := g.onTrace
	g.mu.Unlock()
	if cb != nil && trace {
		p := gxcommon.NewTraceEventArgs(traceType, message, "")
		cb(g, *p)
	}
}

func (g *GXSerialStream) errorf(err error) {
	g.mu.Lock()
	cb := g.onErr
	g.mu.Unlock()
	if cb != nil {
		cb(g, err)
	}
}

func (g *GXSerialStream) statef(state gxcommon.MediaState) {
	g.mu.Lock()
	cb := g.onState
	g.mu.Unlock()
	if cb != nil {
		cb(g, *gxcommon.NewMediaStateEventArgs(state))
	}
}
