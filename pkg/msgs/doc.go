// Package msgs defines the messages exchanged between the keypad daemon,
// its command sources and its event listeners, plus the typed envelope
// used to carry them over MQTT and websocket.
package msgs
