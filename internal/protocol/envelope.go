package protocol

import (
	"bytes"
	"encoding/json"

	"github.com/thruflo/devmock/internal/state"
)

// Envelope tags.
const (
	TypeMenu   = "sv.init.menu"
	TypeUpdate = "sv.update"
)

// ConsoleKey is the update key under which the console buffer is pushed.
const ConsoleKey = "console_data"

// Envelope wraps every outbound message.
type Envelope struct {
	Type  string `json:"type"`
	Value any    `json:"value"`
}

// Encode returns the JSON text of the envelope. HTML characters are left
// unescaped so "<" and ">" reach the UI as written.
func (e Envelope) Encode() ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(e); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// ScreenType returns the "sv.init.<name>" tag for a screen.
func ScreenType(id state.ScreenID) string {
	return "sv.init." + id.Name()
}

// MenuEnvelope carries the page list.
func MenuEnvelope(pages []state.Page) Envelope {
	return Envelope{Type: TypeMenu, Value: pages}
}

// ScreenEnvelope carries the full values of a screen.
func ScreenEnvelope(id state.ScreenID, values map[string]any) Envelope {
	return Envelope{Type: ScreenType(id), Value: values}
}

// UpdateEnvelope carries a single changed key.
func UpdateEnvelope(key string, value any) Envelope {
	return Envelope{Type: TypeUpdate, Value: map[string]any{key: value}}
}

// ConsoleEnvelope carries the whole console buffer.
func ConsoleEnvelope(lines []string) Envelope {
	return UpdateEnvelope(ConsoleKey, lines)
}
