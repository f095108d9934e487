package server

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/thruflo/devmock/internal/logging"
	"github.com/thruflo/devmock/internal/protocol"
	"github.com/thruflo/devmock/internal/state"
)

// writeWait bounds a single websocket write.
const writeWait = 10 * time.Second

// errConnClosed is returned by Send after Close.
var errConnClosed = errors.New("connection closed")

// Conn is one UI websocket connection. Writes from the dispatcher and the
// console ticker are serialized by writeMu.
type Conn struct {
	id  string
	ws  *websocket.Conn
	log *logging.Logger

	writeMu sync.Mutex
	closed  bool
}

func newConn(ws *websocket.Conn, log *logging.Logger) *Conn {
	id := uuid.NewString()
	return &Conn{
		id:  id,
		ws:  ws,
		log: log.With("conn", id),
	}
}

// ID returns the connection id.
func (c *Conn) ID() string {
	return c.id
}

// Send writes env as one text message.
func (c *Conn) Send(env protocol.Envelope) error {
	data, err := env.Encode()
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", env.Type, err)
	}

	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	if c.closed {
		return errConnClosed
	}
	if err := c.ws.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return fmt.Errorf("failed to set write deadline: %w", err)
	}
	if err := c.ws.WriteMessage(websocket.TextMessage, data); err != nil {
		return fmt.Errorf("failed to write %s: %w", env.Type, err)
	}
	c.log.Info("sent", "msg", data)
	return nil
}

// Close sends a close frame and closes the underlying connection.
func (c *Conn) Close() error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	if c.closed {
		return nil
	}
	c.closed = true
	_ = c.ws.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(time.Second))
	return c.ws.Close()
}

// runConsole appends a console line every interval and pushes the whole
// buffer to c until ctx is cancelled.
func runConsole(ctx context.Context, c client, console *state.ConsoleLog, interval time.Duration, log *logging.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if ctx.Err() != nil {
				return
			}
			lines := console.Tick()
			if err := c.Send(protocol.ConsoleEnvelope(lines)); err != nil {
				log.Warn("failed to send console update", "error", err)
			}
		}
	}
}
