//go:build linux

package gxserialstream

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/Gurux/gxcommon-go"
	"golang.org/x/sys/unix"
)

// port is a raw termios serial port. Read waits with poll on the port and
// on a self-pipe, so Cancel can wake it up.
type port struct {
	f    *os.File
	fd   int
	r    *os.File
	w    *os.File
	rfd  int
	once sync.Once
}

// toUnixBaudRate maps a baud rate to the corresponding constant in the unix package.
var toUnixBaudRate = map[int]uint32{
	50:     unix.B50,
	75:     unix.B75,
	110:    unix.B110,
	134:    unix.B134,
	150:    unix.B150,
	200:    unix.B200,
	300:    unix.B300,
	600:    unix.B600,
	1200:   unix.B1200,
	1800:   unix.B1800,
	2400:   unix.B2400,
	4800:   unix.B4800,
	9600:   unix.B9600,
	19200:  unix.B19200,
	38400:  unix.B38400,
	57600:  unix.B57600,
	115200: unix.B115200,
	230400: unix.B230400,
	460800: unix.B460800,
	921600: unix.B921600,
}

func openPort(name string, settings Settings) (Transport, error) {
	p, err := openTermios(name, settings)
	if err != nil {
		return nil, err
	}
	return p, nil
}

func openTermios(name string, settings Settings) (*port, error) {
	speed, ok := toUnixBaudRate[int(settings.BaudRate)]
	if !ok {
		return nil, fmt.Errorf("%w: unsupported baud rate %d", ErrInvalidArgument, int(settings.BaudRate))
	}
	fd, err := unix.Open(name, unix.O_RDWR|unix.O_NOCTTY|unix.O_NONBLOCK, 0666)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", name, err)
	}
	p := &port{fd: fd}
	fail := func(err error) (*port, error) {
		_ = p.Close()
		return nil, err
	}
	t, err := unix.IoctlGetTermios(fd, unix.TCGETS)
	if err != nil {
		_ = unix.Close(fd)
		return nil, fmt.Errorf("tcgetattr failed: %w", err)
	}
	// Raw mode.
	t.Cflag |= unix.CLOCAL | unix.CREAD
	t.Lflag &^= unix.ICANON | unix.ECHO | unix.ECHOE | unix.ECHOK | unix.ECHONL | unix.ISIG | unix.IEXTEN
	t.Oflag &^= unix.OPOST | unix.ONLCR | unix.OCRNL
	t.Iflag &^= unix.INLCR | unix.IGNCR | unix.ICRNL | unix.IGNBRK | unix.BRKINT | unix.PARMRK
	// Baud rate:
	t.Cflag &^= unix.CBAUD
	t.Cflag |= speed
	t.Ispeed = speed
	t.Ospeed = speed
	// Databits:
	t.Cflag &^= unix.CSIZE
	switch settings.DataBits {
	case 5:
		t.Cflag |= unix.CS5
	case 6:
		t.Cflag |= unix.CS6
	case 7:
		t.Cflag |= unix.CS7
	case 8:
		t.Cflag |= unix.CS8
	default:
		_ = unix.Close(fd)
		return nil, fmt.Errorf("%w: invalid databits %d (must be 5..8)", ErrInvalidArgument, settings.DataBits)
	}
	// Stop bits
	switch settings.StopBits {
	case gxcommon.StopBitsOne:
		t.Cflag &^= unix.CSTOPB
	case gxcommon.StopBitsTwo:
		t.Cflag |= unix.CSTOPB
	default:
		_ = unix.Close(fd)
		return nil, fmt.Errorf("%w: invalid stop bits %d", ErrInvalidArgument, settings.StopBits)
	}
	// Parity
	const CMSPAR = 0x40000000
	t.Iflag &^= unix.INPCK | unix.ISTRIP
	t.Cflag &^= unix.PARENB | unix.PARODD | CMSPAR
	switch settings.Parity {
	case gxcommon.ParityNone:
	case gxcommon.ParityEven:
		t.Cflag |= unix.PARENB
	case gxcommon.ParityOdd:
		t.Cflag |= unix.PARENB | unix.PARODD
	case gxcommon.ParityMark:
		t.Cflag |= unix.PARENB | CMSPAR | unix.PARODD
	case gxcommon.ParitySpace:
		t.Cflag |= unix.PARENB | CMSPAR
	default:
		_ = unix.Close(fd)
		return nil, fmt.Errorf("%w: invalid parity", ErrInvalidArgument)
	}
	t.Iflag &^= unix.IXON | unix.IXOFF
	t.Cflag &^= unix.CRTSCTS
	// Return as soon as one byte is available.
	t.Cc[unix.VMIN] = 1
	t.Cc[unix.VTIME] = 0
	if err := unix.IoctlSetTermios(fd, unix.TCSETS, t); err != nil {
		_ = unix.Close(fd)
		return nil, fmt.Errorf("tcsetattr failed: %w", err)
	}
	if err := unix.IoctlSetInt(fd, unix.TCFLSH, unix.TCIFLUSH); err != nil {
		_ = unix.Close(fd)
		return nil, fmt.Errorf("tcflush failed: %w", err)
	}
	// Reads wait in poll, the descriptor itself can block.
	if err := unix.SetNonblock(fd, false); err != nil {
		_ = unix.Close(fd)
		return nil, err
	}
	p.f = os.NewFile(uintptr(fd), name)
	p.r, p.w, err = os.Pipe()
	if err != nil {
		return fail(err)
	}
	p.rfd = int(p.r.Fd())
	_ = unix.SetNonblock(p.rfd, true)
	return p, nil
}

func (p *port) ensureOpen() error {
	if p == nil || p.f == nil {
		return errors.New("serial port not open")
	}
	return nil
}

func (p *port) Read() ([]byte, error) {
	if err := p.ensureOpen(); err != nil {
		return nil, err
	}
	pfds := []unix.PollFd{
		{Fd: int32(p.fd), Events: unix.POLLIN},
		{Fd: int32(p.rfd), Events: unix.POLLIN},
	}
	if _, err := unix.Poll(pfds, -1); err != nil {
		if errors.Is(err, unix.EINTR) {
			return nil, fmt.Errorf("%w: %w", ErrReadFault, err)
		}
		return nil, err
	}
	if (pfds[1].Revents & unix.POLLIN) != 0 {
		return nil, io.EOF
	}
	if pfds[0].Revents == 0 {
		return nil, nil
	}
	buf := make([]byte, readSize)
	n, err := p.f.Read(buf)
	if err != nil {
		if errors.Is(err, unix.EAGAIN) || errors.Is(err, unix.EINTR) {
			return nil, fmt.Errorf("%w: %w", ErrReadFault, err)
		}
		return nil, err
	}
	return buf[:n], nil
}

func (p *port) Write(data []byte) (int, error) {
	if err := p.ensureOpen(); err != nil {
		return 0, err
	}
	return p.f.Write(data)
}

func (p *port) Cancel() error {
	if p.w == nil {
		return nil
	}
	_, err := p.w.Write([]byte{1})
	if errors.Is(err, os.ErrClosed) {
		// The reader already ended and closed the port.
		return nil
	}
	return err
}

func (p *port) Close() error {
	var err error
	p.once.Do(func() {
		if p.r != nil {
			_ = p.r.Close()
		}
		if p.w != nil {
			_ = p.w.Close()
		}
		if p.f != nil {
			err = p.f.Close()
		}
	})
	return err
}
