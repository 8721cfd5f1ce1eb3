// Package keypad speaks the alarm keypad protocol on top of an RS-485
// transport.
//
// Every frame is an address byte, a payload and a checksum, the checksum
// being the sum of the address and payload bytes modulo 256. The address
// byte is sent parity-marked by the transport. The panel sends LCD ('L')
// and LED ('P') frames; the keypad answers with 3-byte key reports ('K').
package keypad
