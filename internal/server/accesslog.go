package server

import (
	"net/http"

	"github.com/felixge/httpsnoop"
	"github.com/gorilla/websocket"

	"github.com/thruflo/devmock/internal/logging"
)

// withAccessLog logs every request path. Plain requests are logged once
// they complete, with status and timing; websocket upgrades are logged up
// front since their handler runs for the life of the connection.
func withAccessLog(log *logging.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if websocket.IsWebSocketUpgrade(r) {
			log.Info("upgrade", "path", r.URL.Path, "remote", r.RemoteAddr)
			next.ServeHTTP(w, r)
			return
		}

		m := httpsnoop.CaptureMetrics(next, w, r)
		log.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", m.Code,
			"bytes", m.Written,
			"duration", m.Duration,
		)
	})
}
