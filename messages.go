package gxserialstream

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

//nolint:errcheck
func init() {
	// --- English (default) ---
	message.SetString(language.AmericanEnglish, "msg.opening", "Opening %s")
	message.SetString(language.AmericanEnglish, "msg.open_failed", "Open %s failed: %v")
	message.SetString(language.AmericanEnglish, "msg.open_busy", "Port is %s")
	message.SetString(language.AmericanEnglish, "msg.open_cancelled", "Open cancelled by close")
	message.SetString(language.AmericanEnglish, "msg.no_port", "No serial port matches %s")
	message.SetString(language.AmericanEnglish, "msg.connected_to", "Connected to %s")
	message.SetString(language.AmericanEnglish, "msg.closing_connection", "Closing connection to %s")
	message.SetString(language.AmericanEnglish, "msg.connection_closed", "Connection closed to %s")
	message.SetString(language.AmericanEnglish, "msg.already_closed", "Port is already %s")
	message.SetString(language.AmericanEnglish, "msg.connection_failed", "Connection failed: %v")
	message.SetString(language.AmericanEnglish, "msg.read_fault", "Read failed, retrying: %v")
	message.SetString(language.AmericanEnglish, "msg.discarding", "Discarding %d bytes of unread serial data")
	message.SetString(language.AmericanEnglish, "msg.not_open", "Serial port is not open, ignoring write")

	// --- German (de) ---
	message.SetString(language.German, "msg.opening", "%s wird geöffnet")
	message.SetString(language.German, "msg.open_failed", "Öffnen von %s fehlgeschlagen: %v")
	message.SetString(language.German, "msg.open_busy", "Port ist %s")
	message.SetString(language.German, "msg.open_cancelled", "Öffnen durch Schließen abgebrochen")
	message.SetString(language.German, "msg.no_port", "Kein serieller Port passt zu %s")
	message.SetString(language.German, "msg.connected_to", "Verbunden mit %s")
	message.SetString(language.German, "msg.closing_connection", "Verbindung zu %s wird geschlossen")
	message.SetString(language.German, "msg.connection_closed", "Verbindung zu %s wurde geschlossen")
	message.SetString(language.German, "msg.already_closed", "Port ist bereits %s")
	message.SetString(language.German, "msg.connection_failed", "Verbindung fehlgeschlagen: %v")
	message.SetString(language.German, "msg.read_fault", "Lesen fehlgeschlagen, neuer Versuch: %v")
	message.SetString(language.German, "msg.discarding", "%d Bytes ungelesener serieller Daten werden verworfen")
	message.SetString(language.German, "msg.not_open", "Serieller Port ist nicht geöffnet, Schreiben wird ignoriert")

	// --- Finnish (fi) ---
	message.SetString(language.Finnish, "msg.opening", "Avataan %s")
	message.SetString(language.Finnish, "msg.open_failed", "Kohteen %s avaus epäonnistui: %v")
	message.SetString(language.Finnish, "msg.open_busy", "Portti on tilassa %s")
	message.SetString(language.Finnish, "msg.open_cancelled", "Avaus peruttiin sulkemalla")
	message.SetString(language.Finnish, "msg.no_port", "Sarjaporttia ei löytynyt: %s")
	message.SetString(language.Finnish, "msg.connected_to", "Yhdistetty kohteeseen %s")
	message.SetString(language.Finnish, "msg.closing_connection", "Suljetaan yhteys kohteeseen %s")
	message.SetString(language.Finnish, "msg.connection_closed", "Yhteys suljettu kohteeseen %s")
	message.SetString(language.Finnish, "msg.already_closed", "Portti on jo tilassa %s")
	message.SetString(language.Finnish, "msg.connection_failed", "Yhteyden muodostus epäonnistui: %v")
	message.SetString(language.Finnish, "msg.read_fault", "Luku epäonnistui, yritetään uudelleen: %v")
	message.SetString(language.Finnish, "msg.discarding", "Hylätään %d tavua lukematonta sarjadataa")
	message.SetString(language.Finnish, "msg.not_open", "Sarjaportti ei ole auki, kirjoitus ohitetaan")

	// --- Swedish (sv) ---
	message.SetString(language.Swedish, "msg.opening", "Öppnar %s")
	message.SetString(language.Swedish, "msg.open_failed", "Öppning av %s misslyckades: %v")
	message.SetString(language.Swedish, "msg.open_busy", "Porten är %s")
	message.SetString(language.Swedish, "msg.open_cancelled", "Öppning avbröts av stängning")
	message.SetString(language.Swedish, "msg.no_port", "Ingen seriell port matchar %s")
	message.SetString(language.Swedish, "msg.connected_to", "Ansluten till %s")
	message.SetString(language.Swedish, "msg.closing_connection", "Stänger anslutning till %s")
	message.SetString(language.Swedish, "msg.connection_closed", "Anslutning stängd till %s")
	message.SetString(language.Swedish, "msg.already_closed", "Porten är redan %s")
	message.SetString(language.Swedish, "msg.connection_failed", "Anslutningen misslyckades: %v")
	message.SetString(language.Swedish, "msg.read_fault", "Läsning misslyckades, försöker igen: %v")
	message.SetString(language.Swedish, "msg.discarding", "Kastar %d byte oläst seriell data")
	message.SetString(language.Swedish, "msg.not_open", "Seriell port är inte öppen, skrivning ignoreras")
}
