/*
Package main contains a command-line example for gxserialstream.

The example shows how to:
  - open a serial port by name, by board preset or the first available one
  - register stream callbacks (trace, state, error)
  - send a message
  - poll the receive buffer for a newline terminated reply
*/
package main
