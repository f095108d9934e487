// Package protocol implements the text protocol spoken between the device
// configuration UI and the device.
//
// # Inbound
//
// Every message from the UI is "<opcode>:<payload>" where opcode is a
// decimal integer:
//
//   - 0 - request the page list
//   - 1..4 - request the values of a screen (clock, leds, extras, info)
//   - 9 - update a value, payload "<screenId>:<key>:<value>"
//
// Any other opcode is ignored.
//
// # Outbound
//
// Every reply is an Envelope, {"type": "<tag>", "value": <payload>}. Screen
// replies carry the full screen; "sv.update" carries only the changed
// key, except for the console which always carries the whole buffer.
package protocol
