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
	"fmt"
	"slices"
	"strconv"
	"strings"

	"go.bug.st/serial/enumerator"
)

// PortInfo describes a serial port found on the system.
type PortInfo struct {
	Name         string
	IsUSB        bool
	VendorID     uint16
	ProductID    uint16
	SerialNumber string
	Product      string
}

// Enumerator lists the serial ports that can be opened.
type Enumerator func() ([]PortInfo, error)

// GetPorts returns the serial ports of the system with their USB details.
func GetPorts() ([]PortInfo, error) {
	list, err := enumerator.GetDetailedPortsList()
	if err != nil {
		return nil, fmt.Errorf("list serial ports: %w", err)
	}
	ret := make([]PortInfo, 0, len(list))
	for _, d := range list {
		info := PortInfo{
			Name:         d.Name,
			IsUSB:        d.IsUSB,
			SerialNumber: d.SerialNumber,
			Product:      d.Product,
		}
		if d.IsUSB {
			info.VendorID = parseUSBID(d.VID)
			info.ProductID = parseUSBID(d.PID)
		}
		ret = append(ret, info)
	}
	return ret, nil
}

// GetPortNames returns the names of the available serial ports.
func GetPortNames() ([]string, error) {
	ports, err := GetPorts()
	if err != nil {
		return nil, err
	}
	ret := make([]string, len(ports))
	for i, p := range ports {
		ret[i] = p.Name
	}
	return ret, nil
}

func parseUSBID(s string) uint16 {
	v, err := strconv.ParseUint(s, 16, 16)
	if err != nil {
		return 0
	}
	return uint16(v)
}

// PortFilter selects USB ports by vendor and product id. Zero matches any id.
type PortFilter struct {
	VendorID  uint16
	ProductID uint16
}

// Match reports whether the port passes the filter.
func (f PortFilter) Match(p PortInfo) bool {
	if f.VendorID != 0 && f.VendorID != p.VendorID {
		return false
	}
	if f.ProductID != 0 && f.ProductID != p.ProductID {
		return false
	}
	return true
}

func (f PortFilter) String() string {
	return fmt.Sprintf("%04x:%04x", f.VendorID, f.ProductID)
}

// presets map board families to the USB ids of their serial adapters.
var presets = map[string][]PortFilter{
	// From Arduino's boards.txt files.
	"Arduino": {
		{VendorID: 0x03eb, ProductID: 0x2111}, // Arduino M0 Pro (Atmel Corporation)
		{VendorID: 0x03eb, ProductID: 0x2157}, // Arduino Zero (Atmel Corporation)
		{VendorID: 0x10c4, ProductID: 0xea70}, // Arduino Tian (Silicon Laboratories)
		{VendorID: 0x1b4f},                    // SparkFun Electronics
		{VendorID: 0x2341},                    // Arduino SA
		{VendorID: 0x239a},                    // Adafruit
		{VendorID: 0x2a03},                    // dog hunter AG
	},
	// From mu-editor.
	"MicroPython": {
		{VendorID: 0x0403, ProductID: 0x6001}, // M5Stack & FT232/FT245
		{VendorID: 0x0403, ProductID: 0x6010}, // FT2232C/D/L/HL/Q (ESP-WROVER-KIT)
		{VendorID: 0x0403, ProductID: 0x6011}, // FT4232
		{VendorID: 0x0403, ProductID: 0x6014}, // FT232H
		{VendorID: 0x0403, ProductID: 0x6015}, // FT X-Series (SparkFun ESP32)
		{VendorID: 0x0403, ProductID: 0x601c}, // FT4222H
		{VendorID: 0x0d28, ProductID: 0x0204}, // BBC micro:bit
		{VendorID: 0x10c4, ProductID: 0xea60}, // CP210x
		{VendorID: 0x1a86, ProductID: 0x7523}, // HL-340
		{VendorID: 0xf055, ProductID: 0x9800}, // Pyboard
	},
}

// PresetNames returns the names accepted by Preset.
func PresetNames() []string {
	ret := make([]string, 0, len(presets))
	for k := range presets {
		ret = append(ret, k)
	}
	slices.Sort(ret)
	return ret
}

// PresetFilters returns the filters of the named preset.
func PresetFilters(name string) ([]PortFilter, error) {
	f, ok := presets[name]
	if !ok {
		return nil, fmt.Errorf("%w: unrecognized preset %q, available: %s",
			ErrInvalidArgument, name, strings.Join(PresetNames(), ", "))
	}
	return slices.Clone(f), nil
}

// matchPort returns the first port that passes any of the filters.
// Every port passes an empty filter list.
func matchPort(ports []PortInfo, filters []PortFilter) (PortInfo, bool) {
	for _, p := range ports {
		if len(filters) == 0 {
			return p, true
		}
		for _, f := range filters {
			if f.Match(p) {
				return p, true
			}
		}
	}
	return PortInfo{}, false
}
