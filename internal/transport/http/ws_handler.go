package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"
	"mock-exam-service/internal/app"
	"mock-exam-service/internal/domain"
)

type WSHandler struct {
	service  *app.ExamService
	upgrader websocket.Upgrader
}

func NewWSHandler(service *app.ExamService) *WSHandler {
	return &WSHandler{
		service: service,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

type inboundMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type intentPayload struct {
	Round     int    `json:"round"`
	Question  int    `json:"question"`
	Choice    int    `json:"choice"`
	Direction int    `json:"direction"`
	PageSize  int    `json:"pageSize"`
	Name      string `json:"name"`
}

type outboundMessage[T any] struct {
	Type    string `json:"type"`
	Payload T      `json:"payload"`
}

type rejectedPayload struct {
	Intent  string `json:"intent"`
	Version uint64 `json:"version"`
}

type errorPayload struct {
	Message string `json:"message"`
}

// ServeWS upgrades HTTP requests to websockets. Each connection owns one exam
// session: intents come in, snapshots go out after every change.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Warn("ws upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	ctx := r.Context()
	opened, err := h.service.Open(ctx)
	if err != nil {
		_ = conn.WriteJSON(outboundMessage[errorPayload]{Type: "error", Payload: errorPayload{Message: err.Error()}})
		return
	}
	sessionID := opened.SessionID
	logger := slog.Default().With("session", sessionID, "remote", r.RemoteAddr)
	defer h.service.Close(ctx, sessionID)

	updates, cancel, err := h.service.Subscribe(ctx, sessionID)
	if err != nil {
		_ = conn.WriteJSON(outboundMessage[errorPayload]{Type: "error", Payload: errorPayload{Message: err.Error()}})
		return
	}
	defer cancel()

	send := make(chan outboundMessage[any], 16)
	closeSignals := make(chan struct{})
	writerDone := make(chan struct{})
	updatesDone := make(chan struct{})

	// Single writer goroutine; gorilla connections allow one concurrent writer.
	go func() {
		defer close(writerDone)
		for msg := range send {
			if err := conn.WriteJSON(msg); err != nil {
				logger.Warn("ws write error", "error", err)
				return
			}
		}
	}()

	go func() {
		defer close(updatesDone)
		for {
			select {
			case snap, ok := <-updates:
				if !ok {
					return
				}
				select {
				case send <- outboundMessage[any]{Type: "session", Payload: snap}:
				case <-writerDone:
					return
				case <-closeSignals:
					return
				}
			case <-closeSignals:
				return
			}
		}
	}()

	enqueue := func(msg outboundMessage[any]) bool {
		return queueMessage(send, writerDone, msg)
	}

	for {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			break
		}
		intent, ok := decodeIntent(inbound)
		if !ok {
			if !enqueue(outboundMessage[any]{Type: "error", Payload: errorPayload{Message: "invalid " + inbound.Type + " payload"}}) {
				break
			}
			continue
		}
		snap, changed, err := h.service.Apply(ctx, sessionID, intent)
		if err != nil {
			logger.Error("intent failed", "intent", intent.Type, "error", err)
			if !enqueue(outboundMessage[any]{Type: "error", Payload: errorPayload{Message: err.Error()}}) {
				break
			}
			continue
		}
		if !changed {
			if !enqueue(outboundMessage[any]{Type: "rejected", Payload: rejectedPayload{Intent: inbound.Type, Version: snap.Version}}) {
				break
			}
		}
	}

	close(closeSignals)
	<-updatesDone
	close(send)
	<-writerDone
}

// queueMessage hands msg to the writer. It reports false once the writer has
// stopped, so callers never block on a dead connection.
func queueMessage(send chan<- outboundMessage[any], writerDone <-chan struct{}, msg outboundMessage[any]) bool {
	select {
	case send <- msg:
		return true
	case <-writerDone:
		return false
	}
}

func decodeIntent(inbound inboundMessage) (domain.Intent, bool) {
	var payload intentPayload
	if len(inbound.Payload) > 0 && string(inbound.Payload) != "null" {
		if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
			return domain.Intent{}, false
		}
	}
	return domain.Intent{
		Type:      domain.IntentType(inbound.Type),
		Round:     payload.Round,
		Question:  payload.Question,
		Choice:    payload.Choice,
		Direction: payload.Direction,
		PageSize:  payload.PageSize,
		Subject:   payload.Name,
	}, true
}
