// Package sync exposes the engine's per-frame snapshots to external
// renderers over WebSocket, and accepts control messages from an upstream
// dialogue or touch controller. The animation core itself performs no I/O;
// this server is the boundary around it.
package sync

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	stdsync "sync"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/normanking/cortexgesture/internal/bus"
	"github.com/normanking/cortexgesture/internal/driver"
	"github.com/normanking/cortexgesture/internal/gesture"
)

// ControlMessage is received from an upstream controller.
type ControlMessage struct {
	Type      string  `json:"type"`
	Gesture   string  `json:"gesture,omitempty"`
	Speed     float32 `json:"speed,omitempty"`
	Intensity float32 `json:"intensity,omitempty"`
	Active    bool    `json:"active,omitempty"`
}

// OutboundMessage is broadcast to connected renderers.
type OutboundMessage struct {
	Type     string            `json:"type"`
	Snapshot *gesture.Snapshot `json:"snapshot,omitempty"`
	Gesture  string            `json:"gesture,omitempty"`
	Gestures []gesture.Type    `json:"gestures,omitempty"`
	UsedMs   float64           `json:"used_ms,omitempty"`
	BudgetMs float64           `json:"budget_ms,omitempty"`
	Factor   float64           `json:"factor,omitempty"`
	Message  string            `json:"message,omitempty"`
}

// Server is a small WebSocket hub broadcasting snapshots and engine events.
type Server struct {
	addr   string
	logger zerolog.Logger
	engine *gesture.Engine
	drv    *driver.Driver
	events *bus.EventBus

	upgrader websocket.Upgrader
	httpSrv  *http.Server

	mu      stdsync.Mutex
	clients map[*websocket.Conn]struct{}
}

// NewServer creates a snapshot sync server listening on addr.
func NewServer(addr string, engine *gesture.Engine, drv *driver.Driver, events *bus.EventBus, logger zerolog.Logger) *Server {
	return &Server{
		addr:   addr,
		logger: logger.With().Str("component", "sync-server").Logger(),
		engine: engine,
		drv:    drv,
		events: events,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		clients: make(map[*websocket.Conn]struct{}),
	}
}

// Start begins serving and bridges bus events onto connected clients.
func (s *Server) Start() error {
	s.events.Subscribe(bus.EventTypeFrameSnapshot, func(ev bus.Event) {
		if snap, ok := ev.Data["snapshot"].(gesture.Snapshot); ok {
			s.Broadcast(OutboundMessage{Type: "snapshot", Snapshot: &snap})
		}
	})
	s.events.SubscribeMultiple([]bus.EventType{bus.EventTypeGestureStarted, bus.EventTypeGestureEnded}, func(ev bus.Event) {
		name, _ := ev.Data["gesture"].(string)
		s.Broadcast(OutboundMessage{Type: string(ev.Type), Gesture: name})
	})
	s.events.Subscribe(bus.EventTypeBudgetExceeded, func(ev bus.Event) {
		used, _ := ev.Data["used_ms"].(float64)
		budgetMs, _ := ev.Data["budget_ms"].(float64)
		s.Broadcast(OutboundMessage{Type: string(ev.Type), UsedMs: used, BudgetMs: budgetMs})
	})
	s.events.Subscribe(bus.EventTypeQualityAdjusted, func(ev bus.Event) {
		factor, _ := ev.Data["factor"].(float64)
		s.Broadcast(OutboundMessage{Type: string(ev.Type), Factor: factor})
	})

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWS)
	s.httpSrv = &http.Server{Addr: s.addr, Handler: mux}

	go func() {
		s.logger.Info().Str("addr", s.addr).Msg("Sync server listening")
		if err := s.httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.logger.Error().Err(err).Msg("Sync server failed")
		}
	}()

	return nil
}

// Shutdown closes all client connections and stops the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	for conn := range s.clients {
		conn.Close()
	}
	s.clients = make(map[*websocket.Conn]struct{})
	s.mu.Unlock()

	if s.httpSrv == nil {
		return nil
	}
	return s.httpSrv.Shutdown(ctx)
}

// Broadcast sends a message to every connected client, dropping clients
// whose writes fail.
func (s *Server) Broadcast(msg OutboundMessage) {
	data, err := json.Marshal(msg)
	if err != nil {
		s.logger.Warn().Err(err).Msg("Failed to marshal outbound message")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for conn := range s.clients {
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			s.logger.Debug().Err(err).Msg("Dropping client after write failure")
			conn.Close()
			delete(s.clients, conn)
		}
	}
}

// ClientCount returns the number of connected renderers.
func (s *Server) ClientCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.clients)
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn().Err(err).Msg("WebSocket upgrade failed")
		return
	}

	s.mu.Lock()
	s.clients[conn] = struct{}{}
	count := len(s.clients)
	s.mu.Unlock()
	s.logger.Info().Str("remote", conn.RemoteAddr().String()).Int("clients", count).Msg("Renderer connected")

	go s.readLoop(conn)
}

func (s *Server) readLoop(conn *websocket.Conn) {
	defer func() {
		s.mu.Lock()
		delete(s.clients, conn)
		s.mu.Unlock()
		conn.Close()
		s.logger.Info().Str("remote", conn.RemoteAddr().String()).Msg("Renderer disconnected")
	}()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return
		}

		var msg ControlMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			s.sendTo(conn, OutboundMessage{Type: "error", Message: "invalid control message"})
			continue
		}
		s.handleControl(conn, msg)
	}
}

func (s *Server) handleControl(conn *websocket.Conn, msg ControlMessage) {
	switch msg.Type {
	case "play":
		s.engine.Play(gesture.Type(msg.Gesture), playOptions(msg))
	case "queue":
		s.engine.Queue(gesture.Type(msg.Gesture), playOptions(msg))
		s.events.Publish(bus.Event{
			Type: bus.EventTypeGestureQueued,
			Data: map[string]any{"gesture": msg.Gesture},
		})
	case "stop":
		s.engine.Stop()
	case "clear_queue":
		s.engine.ClearQueue()
	case "speaking":
		s.drv.SetSpeaking(msg.Active)
		evType := bus.EventTypeSpeakingStopped
		if msg.Active {
			evType = bus.EventTypeSpeakingStarted
		}
		s.events.Publish(bus.Event{Type: evType, Data: map[string]any{}})
	case "list_gestures":
		s.sendTo(conn, OutboundMessage{Type: "gestures", Gestures: gesture.AvailableGestures()})
	default:
		s.sendTo(conn, OutboundMessage{Type: "error", Message: fmt.Sprintf("unknown control type %q", msg.Type)})
	}
}

func (s *Server) sendTo(conn *websocket.Conn, msg OutboundMessage) {
	data, err := json.Marshal(msg)
	if err != nil {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.clients[conn]; !ok {
		return
	}
	if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
		conn.Close()
		delete(s.clients, conn)
	}
}

func playOptions(msg ControlMessage) *gesture.PlayOptions {
	if msg.Speed == 0 && msg.Intensity == 0 {
		return nil
	}
	return &gesture.PlayOptions{Speed: msg.Speed, Intensity: msg.Intensity}
}
