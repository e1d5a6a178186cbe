package httpapi

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/signalsfoundry/satwatch/internal/logging"
	"github.com/signalsfoundry/satwatch/kb"
)

const (
	wsWriteWait  = 10 * time.Second
	wsSendBuffer = 16

	// wsTypeSnapshot tags the message sent right after connecting.
	wsTypeSnapshot = "snapshot"
)

// telemetryMessage is one frame on the telemetry socket.
type telemetryMessage struct {
	Type     string      `json:"type"`
	Snapshot kb.Snapshot `json:"snapshot"`
}

// TelemetryStream upgrades to a WebSocket and pushes the current snapshot
// followed by every store change. Slow clients miss intermediate events;
// each message carries the full state so the next one catches them up.
func (s *Server) TelemetryStream(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := s.requestLog(ctx)

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warn(ctx, "websocket upgrade failed", logging.Err(err))
		return
	}
	defer conn.Close()

	s.collector.AddWebSocketClients(1)
	defer s.collector.AddWebSocketClients(-1)

	send := make(chan telemetryMessage, wsSendBuffer)
	unsubscribe := s.dash.Store.Subscribe(func(ev kb.Event) {
		select {
		case send <- telemetryMessage{Type: ev.Type.String(), Snapshot: ev.Snapshot}:
		default:
		}
	})
	defer unsubscribe()

	// The reader only watches for the close frame.
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	log.Debug(ctx, "telemetry client connected")
	defer log.Debug(ctx, "telemetry client disconnected")

	if err := s.writeMessage(conn, telemetryMessage{Type: wsTypeSnapshot, Snapshot: s.dash.Telemetry()}); err != nil {
		return
	}

	ping := time.NewTicker(s.wsPing)
	defer ping.Stop()

	for {
		select {
		case msg := <-send:
			if err := s.writeMessage(conn, msg); err != nil {
				return
			}
		case <-ping.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(wsWriteWait)); err != nil {
				return
			}
		case <-closed:
			return
		case <-ctx.Done():
			return
		}
	}
}

func (s *Server) writeMessage(conn *websocket.Conn, msg telemetryMessage) error {
	_ = conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
	return conn.WriteJSON(msg)
}
