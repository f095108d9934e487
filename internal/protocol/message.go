package protocol

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/thruflo/devmock/internal/state"
)

// Opcode selects the operation requested by an inbound message.
type Opcode int

const (
	OpPages        Opcode = 0
	OpClock        Opcode = 1
	OpLEDs         Opcode = 2
	OpExtras       Opcode = 3
	OpInfo         Opcode = 4
	OpUpdate       Opcode = 9
	opUnrecognized Opcode = -1
)

// ErrMalformed is returned for messages that do not follow "<opcode>:<payload>".
var ErrMalformed = errors.New("malformed message")

// Screen returns the screen requested by a screen opcode.
func (op Opcode) Screen() (state.ScreenID, bool) {
	switch op {
	case OpClock, OpLEDs, OpExtras, OpInfo:
		return state.ScreenID(op), true
	}
	return 0, false
}

// Known reports whether the dispatcher answers op.
func (op Opcode) Known() bool {
	if op == OpPages || op == OpUpdate {
		return true
	}
	_, ok := op.Screen()
	return ok
}

// Request is a decoded inbound message.
type Request struct {
	Op      Opcode
	Payload string
}

// Parse splits a message into its opcode and payload.
func Parse(msg string) (Request, error) {
	code, payload, ok := strings.Cut(msg, ":")
	if !ok {
		return Request{Op: opUnrecognized}, fmt.Errorf("%w: missing opcode separator", ErrMalformed)
	}
	n, err := strconv.Atoi(strings.TrimSpace(code))
	if err != nil {
		return Request{Op: opUnrecognized}, fmt.Errorf("%w: opcode %q: %v", ErrMalformed, code, err)
	}
	return Request{Op: Opcode(n), Payload: payload}, nil
}

// Update is the payload of an OpUpdate message.
type Update struct {
	Screen state.ScreenID
	Key    string
	Raw    string
}

// ParseUpdate splits "<screenId>:<key>:<value>" on its first two colons.
// The value may itself contain colons.
func ParseUpdate(payload string) (Update, error) {
	screen, rest, ok := strings.Cut(payload, ":")
	if !ok {
		return Update{}, fmt.Errorf("%w: update without key", ErrMalformed)
	}
	key, raw, ok := strings.Cut(rest, ":")
	if !ok {
		return Update{}, fmt.Errorf("%w: update without value", ErrMalformed)
	}
	if key == "" {
		return Update{}, fmt.Errorf("%w: empty key", ErrMalformed)
	}
	id, err := state.ParseScreenID(strings.TrimSpace(screen))
	if err != nil {
		return Update{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return Update{Screen: id, Key: key, Raw: raw}, nil
}
