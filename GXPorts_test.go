package gxserialstream

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPortFilter_Match(t *testing.T) {
	uno := PortInfo{Name: "/dev/ttyACM0", IsUSB: true, VendorID: 0x2341, ProductID: 0x0043}
	require.True(t, PortFilter{}.Match(uno))
	require.True(t, PortFilter{VendorID: 0x2341}.Match(uno))
	require.True(t, PortFilter{VendorID: 0x2341, ProductID: 0x0043}.Match(uno))
	require.False(t, PortFilter{VendorID: 0x2341, ProductID: 0x0001}.Match(uno))
	require.False(t, PortFilter{VendorID: 0x0403}.Match(uno))
	require.Equal(t, "2341:0043", PortFilter{VendorID: 0x2341, ProductID: 0x43}.String())
}

func TestMatchPort(t *testing.T) {
	ports := []PortInfo{
		{Name: "/dev/ttyS0"},
		{Name: "/dev/ttyUSB0", IsUSB: true, VendorID: 0x0403, ProductID: 0x6001},
	}
	p, ok := matchPort(ports, nil)
	require.True(t, ok)
	require.Equal(t, "/dev/ttyS0", p.Name)

	p, ok = matchPort(ports, []PortFilter{{VendorID: 0x2341}, {VendorID: 0x0403, ProductID: 0x6001}})
	require.True(t, ok)
	require.Equal(t, "/dev/ttyUSB0", p.Name)

	_, ok = matchPort(ports, []PortFilter{{VendorID: 0x2341}})
	require.False(t, ok)
	_, ok = matchPort(nil, nil)
	require.False(t, ok)
}

func TestPresets(t *testing.T) {
	require.Equal(t, []string{"Arduino", "MicroPython"}, PresetNames())

	f, err := PresetFilters("MicroPython")
	require.NoError(t, err)
	require.Contains(t, f, PortFilter{VendorID: 0x0d28, ProductID: 0x0204})

	// Callers get a copy of the table.
	f[0] = PortFilter{}
	f2, err := PresetFilters("MicroPython")
	require.NoError(t, err)
	require.NotEqual(t, PortFilter{}, f2[0])

	_, err = PresetFilters("arduino")
	require.ErrorIs(t, err, ErrInvalidArgument)
}

func TestParseUSBID(t *testing.T) {
	require.Equal(t, uint16(0x2341), parseUSBID("2341"))
	require.Equal(t, uint16(0xea60), parseUSBID("EA60"))
	require.Equal(t, uint16(0), parseUSBID(""))
	require.Equal(t, uint16(0), parseUSBID("zz"))
}
