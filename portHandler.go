//go:build !linux

package gxserialstream

import (
	"errors"
	"fmt"
	"io"
	"sync"
	"sync/atomic"

	"github.com/Gurux/gxcommon-go"
	"go.bug.st/serial"
)

// port wraps a go.bug.st/serial port. Cancel closes the port, which wakes up
// a pending Read.
type port struct {
	p         serial.Port
	cancelled atomic.Bool
	once      sync.Once
	closeErr  error
}

func openPort(name string, settings Settings) (Transport, error) {
	mode := &serial.Mode{
		BaudRate: int(settings.BaudRate),
		DataBits: settings.DataBits,
	}
	switch settings.Parity {
	case gxcommon.ParityNone:
		mode.Parity = serial.NoParity
	case gxcommon.ParityEven:
		mode.Parity = serial.EvenParity
	case gxcommon.ParityOdd:
		mode.Parity = serial.OddParity
	case gxcommon.ParityMark:
		mode.Parity = serial.MarkParity
	case gxcommon.ParitySpace:
		mode.Parity = serial.SpaceParity
	default:
		return nil, fmt.Errorf("%w: invalid parity", ErrInvalidArgument)
	}
	switch settings.StopBits {
	case gxcommon.StopBitsOne:
		mode.StopBits = serial.OneStopBit
	case gxcommon.StopBitsTwo:
		mode.StopBits = serial.TwoStopBits
	default:
		return nil, fmt.Errorf("%w: invalid stop bits %d", ErrInvalidArgument, settings.StopBits)
	}
	sp, err := serial.Open(name, mode)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", name, err)
	}
	return &port{p: sp}, nil
}

func (p *port) Read() ([]byte, error) {
	buf := make([]byte, readSize)
	n, err := p.p.Read(buf)
	if p.cancelled.Load() {
		return nil, io.EOF
	}
	if err != nil {
		var pe *serial.PortError
		if errors.As(err, &pe) && pe.Code() == serial.PortClosed {
			return nil, io.EOF
		}
		return nil, err
	}
	if n == 0 {
		return nil, nil
	}
	return buf[:n], nil
}

func (p *port) Write(data []byte) (int, error) {
	return p.p.Write(data)
}

func (p *port) Cancel() error {
	p.cancelled.Store(true)
	return p.Close()
}

func (p *port) Close() error {
	p.once.Do(func() {
		p.closeErr = p.p.Close()
	})
	return p.closeErr
}
