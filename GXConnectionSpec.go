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
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/Gurux/gxcommon-go"
)

// Settings holds the line settings used when a port is opened.
type Settings struct {
	BaudRate gxcommon.BaudRate
	DataBits int
	Parity   gxcommon.Parity
	StopBits gxcommon.StopBits
}

// DefaultSettings returns 9600 baud, 8 data bits, no parity and one stop bit.
func DefaultSettings() Settings {
	return Settings{
		BaudRate: gxcommon.BaudRate(9600),
		DataBits: 8,
		Parity:   gxcommon.ParityNone,
		StopBits: gxcommon.StopBitsOne,
	}
}

// withDefaults fills unset fields from DefaultSettings.
func (s Settings) withDefaults() Settings {
	if s == (Settings{}) {
		return DefaultSettings()
	}
	d := DefaultSettings()
	if s.BaudRate == 0 {
		s.BaudRate = d.BaudRate
	}
	if s.DataBits == 0 {
		s.DataBits = d.DataBits
	}
	if s.StopBits == 0 {
		s.StopBits = d.StopBits
	}
	return s
}

func (s Settings) String() string {
	return fmt.Sprintf("%v %d %v %v", s.BaudRate, s.DataBits, s.Parity, s.StopBits)
}

// ConnectionSpec selects the port that Open connects to.
// It is one of Handle, Filter, Preset or Params.
type ConnectionSpec interface {
	connectionSpec()
}

// Handle opens an already opened transport, for example a port the
// application used before.
type Handle struct {
	Name      string
	Transport Transport
}

// Filter opens the first port whose USB ids pass one of the filters.
type Filter struct {
	Filters  []PortFilter
	Settings Settings
}

// Preset opens the first port that matches a named board family,
// see PresetNames.
type Preset struct {
	Name     string
	Settings Settings
}

// Params opens the named port. When Port is empty the first available port is used.
type Params struct {
	Port     string
	Settings Settings
}

func (Handle) connectionSpec() {}
func (Filter) connectionSpec() {}
func (Preset) connectionSpec() {}
func (Params) connectionSpec() {}

func (h Handle) String() string {
	if h.Name == "" {
		return "handle"
	}
	return h.Name
}

func (f Filter) String() string {
	ids := make([]string, len(f.Filters))
	for i, v := range f.Filters {
		ids[i] = v.String()
	}
	return "filter [" + strings.Join(ids, " ") + "]"
}

func (p Preset) String() string {
	return "preset " + p.Name
}

func (p Params) String() string {
	if p.Port == "" {
		return "first available port"
	}
	return p.Port
}

func xmlEscape(s string) string {
	var buf bytes.Buffer
	if err := xml.EscapeText(&buf, []byte(s)); err != nil {
		return s
	}
	return buf.String()
}

// GetSettings returns the parameters as Gurux media settings XML.
func (p Params) GetSettings() string {
	var b strings.Builder
	if p.Port != "" {
		fmt.Fprintf(&b, "<Port>%s</Port>\n", xmlEscape(p.Port))
	}
	if p.Settings.BaudRate != 0 {
		fmt.Fprintf(&b, "<Bps>%d</Bps>\n", p.Settings.BaudRate)
	}
	if p.Settings.DataBits != 0 {
		fmt.Fprintf(&b, "<ByteSize>%d</ByteSize>\n", p.Settings.DataBits)
	}
	if p.Settings.StopBits != 0 {
		fmt.Fprintf(&b, "<StopBits>%d</StopBits>\n", p.Settings.StopBits)
	}
	if p.Settings.Parity != 0 {
		fmt.Fprintf(&b, "<Parity>%d</Parity>\n", p.Settings.Parity)
	}
	return b.String()
}

// SetSettings reads parameters from Gurux media settings XML.
// Elements that are missing keep their current value.
func (p *Params) SetSettings(value string) error {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	dec := xml.NewDecoder(strings.NewReader("<root>" + value + "</root>"))
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}
		se, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}
		var v string
		switch se.Name.Local {
		case "Port", "Bps", "ByteSize", "StopBits", "Parity":
			if err := dec.DecodeElement(&v, &se); err != nil {
				return err
			}
		default:
			continue
		}
		switch se.Name.Local {
		case "Port":
			p.Port = v
		case "Bps":
			p.Settings.BaudRate, err = gxcommon.BaudRateParse(v)
		case "ByteSize":
			p.Settings.DataBits, err = strconv.Atoi(v)
			if err != nil {
				err = fmt.Errorf("invalid ByteSize value: %w", err)
			}
		case "StopBits":
			p.Settings.StopBits, err = gxcommon.StopBitsParse(v)
		case "Parity":
			p.Settings.Parity, err = gxcommon.ParityParse(v)
		}
		if err != nil {
			return err
		}
	}
	return nil
}
