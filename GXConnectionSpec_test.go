package gxserialstream

import (
	"testing"

	"github.com/Gurux/gxcommon-go"
	"github.com/stretchr/testify/require"
)

func TestSettings_WithDefaults(t *testing.T) {
	require.Equal(t, DefaultSettings(), Settings{}.withDefaults())

	s := DefaultSettings()
	s.BaudRate = gxcommon.BaudRate(115200)
	require.Equal(t, s, s.withDefaults())

	partial := Settings{BaudRate: gxcommon.BaudRate(57600), Parity: gxcommon.ParityNone, StopBits: gxcommon.StopBitsOne}
	require.Equal(t, 8, partial.withDefaults().DataBits)

	noStop := Settings{BaudRate: gxcommon.BaudRate(57600), DataBits: 7, Parity: gxcommon.ParityNone}
	require.Equal(t, gxcommon.StopBitsOne, noStop.withDefaults().StopBits)
}

func TestParams_Settings(t *testing.T) {
	var p Params
	require.NoError(t, p.SetSettings(""))
	require.Equal(t, Params{}, p)

	require.NoError(t, p.SetSettings("<Port>/dev/ttyUSB0</Port>\n<Bps>115200</Bps>\n<ByteSize>7</ByteSize>\n<Unknown>1</Unknown>"))
	require.Equal(t, "/dev/ttyUSB0", p.Port)
	require.Equal(t, gxcommon.BaudRate(115200), p.Settings.BaudRate)
	require.Equal(t, 7, p.Settings.DataBits)

	xml := p.GetSettings()
	require.Contains(t, xml, "<Port>/dev/ttyUSB0</Port>")
	require.Contains(t, xml, "<Bps>115200</Bps>")
	require.Contains(t, xml, "<ByteSize>7</ByteSize>")

	require.Error(t, p.SetSettings("<ByteSize>eight</ByteSize>"))
}

func TestConnectionSpec_String(t *testing.T) {
	require.Equal(t, "handle", Handle{}.String())
	require.Equal(t, "COM3", Handle{Name: "COM3"}.String())
	require.Equal(t, "preset Arduino", Preset{Name: "Arduino"}.String())
	require.Equal(t, "first available port", Params{}.String())
	require.Equal(t, "filter [2341:0000 0403:6001]",
		Filter{Filters: []PortFilter{{VendorID: 0x2341}, {VendorID: 0x0403, ProductID: 0x6001}}}.String())
}
