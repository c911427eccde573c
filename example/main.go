package main

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/Gurux/gxcommon-go"
	"github.com/Gurux/gxserialstream-go"
	"golang.org/x/text/language"
)

var (
	port     = flag.String("S", "", "Port name. Empty selects the first available port.")
	preset   = flag.String("preset", "", "Board preset ("+strings.Join(gxserialstream.PresetNames(), ", ")+")")
	baudRate = flag.Int("b", 9600, "Baud rate")
	dataBits = flag.Int("d", 8, "DataBits (5, 6, 7, 8)")
	parity   = flag.String("p", "None", "Parity (None, Odd, Even, Mark, Space)")
	message  = flag.String("m", "", "Send message")
	t        = flag.String("t", "", "Trace level.")
	w        = flag.Int("w", 1000, "WaitTime in milliseconds.")
	lang     = flag.String("lang", "", "Used language.")
	list     = flag.Bool("l", false, "List available serial ports.")
)

func main() {
	flag.Parse()
	if *list {
		listPorts()
		return
	}
	if *message == "" {
		flag.PrintDefaults()
		return
	}

	Parity, err := gxcommon.ParityParse(*parity)
	if err != nil {
		fmt.Fprintln(os.Stderr, "error parsing parity:", err)
		return
	}
	settings := gxserialstream.Settings{
		BaudRate: gxcommon.BaudRate(*baudRate),
		DataBits: *dataBits,
		Parity:   Parity,
		StopBits: gxcommon.StopBitsOne,
	}
	var spec gxserialstream.ConnectionSpec = gxserialstream.Params{Port: *port, Settings: settings}
	if *preset != "" {
		spec = gxserialstream.Preset{Name: *preset, Settings: settings}
	}

	media := gxserialstream.NewGXSerialStream()
	if *lang != "" {
		tag, err := language.Parse(*lang)
		if err != nil {
			fmt.Fprintln(os.Stderr, "error parsing language:", err)
			return
		}
		media.Localize(tag)
	}

	media.SetOnError(func(s *gxserialstream.GXSerialStream, err error) {
		// log/handle error
		fmt.Fprintln(os.Stderr, "error:", err)
	})

	media.SetOnMediaStateChange(func(s *gxserialstream.GXSerialStream, e gxcommon.MediaStateEventArgs) {
		fmt.Printf("Media state change : %s\n", e.State().String())
	})

	media.SetOnTrace(func(s *gxserialstream.GXSerialStream, e gxcommon.TraceEventArgs) {
		fmt.Printf("Trace: %s\n", e.String())
	})

	if *t != "" {
		tl, err := gxcommon.TraceLevelParse(*t)
		if err != nil {
			fmt.Fprintln(os.Stderr, "error:", err)
			return
		}
		err = media.SetTrace(tl)
		if err != nil {
			fmt.Fprintln(os.Stderr, "error:", err)
			return
		}
	}
	fmt.Printf("Connection: %v\n", spec)
	fmt.Printf("Message: '%s'\n", *message)
	fmt.Printf("Trace level %s\n", media.GetTrace().String())
	err = media.Open(spec)
	if err != nil {
		fmt.Fprintln(os.Stderr, "error returned:", err)
		listPorts()
		return
	}
	//Close the connection.
	defer func() {
		if err := media.Close(); err != nil {
			fmt.Fprintln(os.Stderr, "close failed:", err)
		}
	}()

	if err = media.Send(*message + "\n"); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		return
	}
	//Reads never block. Poll until the reply line arrives or the wait time ends.
	deadline := time.Now().Add(time.Duration(*w) * time.Millisecond)
	for time.Now().Before(deadline) {
		reply, err := media.ReadTextUntil("\n")
		if err != nil {
			fmt.Fprintln(os.Stderr, "error returned:", err)
			return
		}
		if reply != "" {
			fmt.Printf("Reply: %s", reply)
			break
		}
		time.Sleep(10 * time.Millisecond)
	}
	fmt.Printf("Sent %d bytes, received %d bytes.\n", media.GetBytesSent(), media.GetBytesReceived())
	fmt.Printf("Exit\n")
}

func listPorts() {
	ports, err := gxserialstream.GetPorts()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Failed to get available serial ports: ", err)
		return
	}
	if len(ports) == 0 {
		fmt.Fprintln(os.Stderr, "No serial ports found.")
		return
	}
	fmt.Fprintln(os.Stderr, "Available serial ports:")
	for _, p := range ports {
		if p.IsUSB {
			fmt.Fprintf(os.Stderr, "  %s %04x:%04x %s\n", p.Name, p.VendorID, p.ProductID, p.Product)
		} else {
			fmt.Fprintf(os.Stderr, "  %s\n", p.Name)
		}
	}
}
