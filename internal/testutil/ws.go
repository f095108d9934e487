package testutil

import (
	"encoding/json"
	"errors"
	"net"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"
)

// Envelope is a decoded reply from the mock device. Value is left raw so
// tests can decode it into whatever shape they expect.
type Envelope struct {
	Type  string          `json:"type"`
	Value json.RawMessage `json:"value"`
}

// Decode unmarshals the envelope value into v or fails the test.
func (e Envelope) Decode(t *testing.T, v any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(e.Value, v), "decode %s value %s", e.Type, e.Value)
}

// WSURL converts an http:// test server URL into the ws:// URL of its root.
func WSURL(httpURL string) string {
	return "ws" + strings.TrimPrefix(httpURL, "http") + "/"
}

// DialWS connects to url and closes the connection when the test ends.
func DialWS(t *testing.T, url string) *websocket.Conn {
	t.Helper()

	dialer := websocket.Dialer{HandshakeTimeout: 5 * time.Second}
	conn, resp, err := dialer.Dial(url, nil)
	require.NoError(t, err, "dial %s", url)
	if resp != nil && resp.Body != nil {
		resp.Body.Close()
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

// Send writes msg as a text message.
func Send(t *testing.T, conn *websocket.Conn, msg string) {
	t.Helper()
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(msg)))
}

// ReadEnvelope reads one message within timeout.
func ReadEnvelope(t *testing.T, conn *websocket.Conn, timeout time.Duration) Envelope {
	t.Helper()

	env, err := readEnvelope(conn, timeout)
	require.NoError(t, err)
	return env
}

// ReadEnvelopeOfType reads until a message of the given type arrives,
// skipping others (typically console updates).
func ReadEnvelopeOfType(t *testing.T, conn *websocket.Conn, typ string, timeout time.Duration) Envelope {
	t.Helper()

	deadline := time.Now().Add(timeout)
	for {
		remaining := time.Until(deadline)
		require.Greater(t, remaining, time.Duration(0), "timed out waiting for %s", typ)

		env, err := readEnvelope(conn, remaining)
		require.NoError(t, err, "waiting for %s", typ)
		if env.Type == typ {
			return env
		}
	}
}

// ReadUpdate reads until an sv.update carrying key arrives and returns the
// raw value of that key.
func ReadUpdate(t *testing.T, conn *websocket.Conn, key string, timeout time.Duration) json.RawMessage {
	t.Helper()

	deadline := time.Now().Add(timeout)
	for {
		env := ReadEnvelopeOfType(t, conn, "sv.update", time.Until(deadline))
		var value map[string]json.RawMessage
		env.Decode(t, &value)
		if raw, ok := value[key]; ok {
			return raw
		}
	}
}

// ExpectNoEnvelopeOfType reads for wait and fails if a message of the given
// type arrives. A websocket read that timed out cannot be retried, so conn
// must not be read from afterwards.
func ExpectNoEnvelopeOfType(t *testing.T, conn *websocket.Conn, typ string, wait time.Duration) {
	t.Helper()

	deadline := time.Now().Add(wait)
	for time.Until(deadline) > 0 {
		env, err := readEnvelope(conn, time.Until(deadline))
		if err != nil {
			var netErr net.Error
			if errors.As(err, &netErr) && netErr.Timeout() {
				return
			}
			require.NoError(t, err)
		}
		require.NotEqual(t, typ, env.Type, "unexpected %s: %s", typ, env.Value)
	}
}

func readEnvelope(conn *websocket.Conn, timeout time.Duration) (Envelope, error) {
	if err := conn.SetReadDeadline(time.Now().Add(timeout)); err != nil {
		return Envelope{}, err
	}
	_, data, err := conn.ReadMessage()
	if err != nil {
		return Envelope{}, err
	}
	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return Envelope{}, err
	}
	return env, nil
}
