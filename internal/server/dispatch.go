package server

import (
	"errors"

	"github.com/thruflo/devmock/internal/logging"
	"github.com/thruflo/devmock/internal/protocol"
	"github.com/thruflo/devmock/internal/state"
)

// Dispatcher answers inbound protocol messages from the shared Store.
type Dispatcher struct {
	store *state.Store
	hub   *Hub
	log   *logging.Logger
}

// NewDispatcher creates a Dispatcher. Updates are broadcast through hub.
func NewDispatcher(store *state.Store, hub *Hub, log *logging.Logger) *Dispatcher {
	return &Dispatcher{store: store, hub: hub, log: log}
}

// Handle processes one message from c. Unknown opcodes and malformed
// messages get no reply; send failures are logged and never close c.
func (d *Dispatcher) Handle(c client, msg string) {
	log := d.log.With("conn", c.ID())

	req, err := protocol.Parse(msg)
	if err != nil {
		log.Debug("ignoring message", "msg", msg, "error", err)
		return
	}

	if !req.Op.Known() {
		log.Debug("ignoring opcode", "opcode", int(req.Op))
		return
	}

	switch req.Op {
	case protocol.OpPages:
		d.reply(log, c, protocol.MenuEnvelope(d.store.Pages()))

	case protocol.OpClock, protocol.OpLEDs, protocol.OpExtras, protocol.OpInfo:
		id, _ := req.Op.Screen()
		values, err := d.store.Screen(id)
		if err != nil {
			log.Warn("failed to read screen", "screen", int(id), "error", err)
			return
		}
		d.reply(log, c, protocol.ScreenEnvelope(id, values))

	case protocol.OpUpdate:
		d.update(log, req.Payload)
	}
}

func (d *Dispatcher) update(log *logging.Logger, payload string) {
	upd, err := protocol.ParseUpdate(payload)
	if err != nil {
		log.Warn("ignoring update", "payload", payload, "error", err)
		return
	}

	value, err := d.store.Set(upd.Screen, upd.Key, upd.Raw)
	if err != nil {
		switch {
		case errors.Is(err, state.ErrScreenNotFound):
			log.Warn("update for unknown screen", "screen", int(upd.Screen), "key", upd.Key)
		default:
			kind, _ := d.store.Kind(upd.Screen, upd.Key)
			log.Warn("rejected update", "screen", int(upd.Screen), "key", upd.Key, "kind", kind, "error", err)
		}
		return
	}

	log.Info("updated", "screen", int(upd.Screen), "key", upd.Key, "value", value)
	for id, err := range d.hub.Broadcast(protocol.UpdateEnvelope(upd.Key, value)) {
		log.Warn("failed to broadcast update", "to", id, "error", err)
	}
}

func (d *Dispatcher) reply(log *logging.Logger, c client, env protocol.Envelope) {
	if err := c.Send(env); err != nil {
		log.Warn("failed to send reply", "type", env.Type, "error", err)
	}
}
