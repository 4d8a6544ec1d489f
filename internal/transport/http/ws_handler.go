package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"trivia-quiz/internal/app"
)

// EngineFactory builds the engine owned by one websocket connection.
type EngineFactory func() *app.Engine

// SessionObserver is notified when websocket sessions open and close.
type SessionObserver interface {
	SessionOpened()
	SessionClosed()
}

type WSHandler struct {
	newEngine     EngineFactory
	upgrader      websocket.Upgrader
	log           *slog.Logger
	sessions      SessionObserver
	intentTimeout time.Duration
}

type WSOption func(*WSHandler)

func WithLogger(l *slog.Logger) WSOption {
	return func(h *WSHandler) { h.log = l }
}

func WithSessionObserver(o SessionObserver) WSOption {
	return func(h *WSHandler) { h.sessions = o }
}

// WithCheckOrigin overrides the upgrader origin check (all origins are accepted by default).
func WithCheckOrigin(fn func(r *http.Request) bool) WSOption {
	return func(h *WSHandler) { h.upgrader.CheckOrigin = fn }
}

func NewWSHandler(newEngine EngineFactory, opts ...WSOption) *WSHandler {
	h := &WSHandler{
		newEngine: newEngine,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		log:           slog.Default(),
		intentTimeout: 10 * time.Second,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

type outboundMessage struct {
	Type    string `json:"type"`
	Payload any    `json:"payload"`
}

type errorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type answerResult struct {
	Answer  string `json:"answer"`
	Correct bool   `json:"correct"`
}

// ServeWS upgrades the request and runs one quiz session over the connection. Every
// published snapshot is pushed as a "session" frame; client frames are intents.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("ws upgrade failed", "err", err)
		return
	}
	defer conn.Close()

	engine := h.newEngine()
	defer engine.Close()
	if h.sessions != nil {
		h.sessions.SessionOpened()
		defer h.sessions.SessionClosed()
	}

	updates, cancel := engine.Subscribe()
	defer cancel()

	send := make(chan outboundMessage, 16)
	closeSignals := make(chan struct{})
	writerDone := make(chan struct{})
	updatesDone := make(chan struct{})

	go func() {
		defer close(writerDone)
		for msg := range send {
			if err := conn.WriteJSON(msg); err != nil {
				h.log.Debug("ws write failed", "err", err)
				return
			}
		}
	}()

	go func() {
		defer close(updatesDone)
		for {
			select {
			case update, ok := <-updates:
				if !ok {
					return
				}
				select {
				case send <- outboundMessage{Type: "session", Payload: update}:
				case <-closeSignals:
					return
				}
			case <-closeSignals:
				return
			}
		}
	}()

	push := func(msg outboundMessage) {
		select {
		case send <- msg:
		case <-writerDone:
		}
	}

	for {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			break
		}
		ctx, cancelIntent := context.WithTimeout(r.Context(), h.intentTimeout)
		reply, err := dispatch(ctx, engine, inbound)
		cancelIntent()
		if err != nil {
			h.log.Debug("intent rejected", "type", inbound.Type, "err", err)
			push(outboundMessage{Type: "error", Payload: errorPayload{Code: errorCode(err), Message: err.Error()}})
			continue
		}
		if reply != nil {
			push(*reply)
		}
	}

	close(closeSignals)
	<-updatesDone
	close(send)
	<-writerDone
}
