// Package server provides the mock device backend for the configuration UI.
//
// The server serves the UI bundle and speaks the device's websocket protocol
// so the UI can be developed without real hardware. All connections share one
// state.Store; updates from any client are broadcast to every client.
//
// # Endpoints
//
//   - GET / with Upgrade: websocket - device protocol (opcode-prefixed text in,
//     {type,value} JSON envelopes out)
//   - GET /... - static UI bundle, preferring precompressed .br and .gz files
//
// # Protocol
//
// Inbound messages are "<opcode>:<payload>". Opcode 0 requests the menu,
// 1-4 request a screen's values and 9 updates a value with the payload
// "<screen>:<key>:<value>". Anything else is ignored.
//
// Each connection also receives a console_data update on every console tick
// until it closes.
package server
