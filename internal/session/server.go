// ABOUTME: Websocket server accepting customer connections and dispatching frames
// ABOUTME: One reader goroutine per connection; sessions die on disconnect, state does not

package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"golang.org/x/sync/errgroup"

	"github.com/Partha-CreoIT/customer-support-agent/internal/config"
	"github.com/Partha-CreoIT/customer-support-agent/internal/orchestrator"
)

// Session is the per-connection record. It owns nothing beyond the
// connection; conversation state lives with the orchestrator under the
// user ID and survives a disconnect.
type Session struct {
	ConnectionID string
	UserID       string
	CreatedAt    time.Time
	LastActivity time.Time
	MessageCount int

	conn    *websocket.Conn
	writeMu sync.Mutex
}

func (s *Session) writeJSON(v any) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	return s.conn.WriteJSON(v)
}

// Server accepts websocket connections and bridges them to the orchestrator.
type Server struct {
	cfg      *config.Config
	orch     *orchestrator.Orchestrator
	upgrader websocket.Upgrader
	logger   *slog.Logger

	mu       sync.Mutex
	sessions map[string]*Session

	httpServer *http.Server
}

// NewServer creates the session server.
func NewServer(cfg *config.Config, orch *orchestrator.Orchestrator, logger *slog.Logger) *Server {
	return &Server{
		cfg:  cfg,
		orch: orch,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			// The support widget is embedded on arbitrary customer pages.
			CheckOrigin: func(*http.Request) bool { return true },
		},
		logger:   logger.With("component", "session"),
		sessions: make(map[string]*Session),
	}
}

// Run serves until the context is cancelled, then broadcasts a shutdown
// frame, closes every session, and shuts the listener down.
func (s *Server) Run(ctx context.Context) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWS)
	mux.HandleFunc("/health", s.handleHealth)

	s.httpServer = &http.Server{
		Addr:    s.cfg.Server.ListenAddr,
		Handler: mux,
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		s.logger.Info("session server listening", "addr", s.cfg.Server.ListenAddr)
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("session server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		s.closeAll()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return s.httpServer.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"status":          "ok",
		"active_sessions": s.SessionCount(),
		"timestamp":       time.Now().UTC(),
	})
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", "error", err, "remote", r.RemoteAddr)
		return
	}

	connID := uuid.New().String()
	now := time.Now().UTC()
	sess := &Session{
		ConnectionID: connID,
		UserID:       connID,
		CreatedAt:    now,
		LastActivity: now,
		conn:         conn,
	}

	s.mu.Lock()
	s.sessions[connID] = sess
	s.mu.Unlock()

	s.logger.Info("client connected", "connection_id", connID, "remote", r.RemoteAddr)

	welcome := welcomeFrame{
		Type:      "connection",
		Status:    "connected",
		ClientID:  connID,
		Timestamp: now,
		Message:   s.cfg.Session.WelcomeText,
	}
	if err := sess.writeJSON(welcome); err != nil {
		s.logger.Warn("welcome write failed", "connection_id", connID, "error", err)
		s.dropSession(sess)
		return
	}

	// The reader goroutine is this handler; messages on one connection are
	// processed strictly in arrival order.
	s.readLoop(r.Context(), sess)
}

func (s *Server) readLoop(ctx context.Context, sess *Session) {
	defer s.dropSession(sess)

	for {
		if err := sess.conn.SetReadDeadline(time.Now().Add(s.cfg.Session.IdleTimeout)); err != nil {
			return
		}

		_, raw, err := sess.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				s.logger.Warn("connection closed abnormally",
					"connection_id", sess.ConnectionID, "error", err)
			} else {
				s.logger.Info("client disconnected", "connection_id", sess.ConnectionID)
			}
			return
		}

		sess.LastActivity = time.Now().UTC()
		sess.MessageCount++

		var frame inboundFrame
		if err := json.Unmarshal(raw, &frame); err != nil || frame.Type == "" {
			// Not JSON, or JSON without a discriminator: literal chat text.
			frame = inboundFrame{Type: "message", Content: string(raw)}
		}

		response := s.dispatch(ctx, sess, frame)
		if err := sess.writeJSON(response); err != nil {
			s.logger.Warn("write failed", "connection_id", sess.ConnectionID, "error", err)
			return
		}
	}
}

// dispatch answers one inbound frame. Chat goes through the orchestrator;
// status and session queries are answered from counters directly.
func (s *Server) dispatch(ctx context.Context, sess *Session, frame inboundFrame) any {
	switch frame.Type {
	case "message":
		return s.handleChat(ctx, sess, frame)
	case "status":
		return s.handleStatus(frame)
	case "session":
		return s.handleSession(sess, frame)
	default:
		return newErrorFrame(fmt.Sprintf("Unknown message type: %s", frame.Type))
	}
}

func (s *Server) handleChat(ctx context.Context, sess *Session, frame inboundFrame) any {
	userID := frame.UserID
	if userID == "" {
		userID = sess.ConnectionID
	}
	sess.UserID = userID

	reply, err := s.orch.Submit(ctx, frame.Content, userID)
	if err != nil {
		s.logger.Error("submit failed", "user_id", userID, "error", err)
		return newErrorFrame("An error occurred while processing your message. Please try again.")
	}

	return messageFrame{
		Type:       "message",
		Content:    reply.Text,
		AgentType:  string(reply.Handler),
		Confidence: reply.Confidence,
		Timestamp:  reply.Timestamp,
		Metadata:   reply.Metadata,
	}
}

func (s *Server) handleStatus(frame inboundFrame) any {
	statusType := frame.StatusType
	if statusType == "" {
		statusType = "system"
	}

	switch statusType {
	case "system":
		return statusFrame{
			Type:       "status",
			StatusType: "system",
			Data:       s.orch.SystemStats(),
			Timestamp:  time.Now().UTC(),
		}
	case "agents":
		return statusFrame{
			Type:       "status",
			StatusType: "agents",
			Data:       s.orch.HandlerStatus(),
			Timestamp:  time.Now().UTC(),
		}
	default:
		return newErrorFrame(fmt.Sprintf("Unknown status type: %s", statusType))
	}
}

func (s *Server) handleSession(sess *Session, frame inboundFrame) any {
	action := frame.Action
	if action == "" {
		action = "get"
	}
	userID := frame.UserID
	if userID == "" {
		userID = sess.UserID
	}

	switch action {
	case "get":
		info, err := s.orch.SessionInfo(userID)
		if err != nil {
			return newErrorFrame("Session not found")
		}
		return sessionFrame{
			Type:      "session",
			Action:    "get",
			Data:      &info,
			Timestamp: time.Now().UTC(),
		}
	case "clear":
		s.orch.ClearSession(userID)
		return sessionFrame{
			Type:      "session",
			Action:    "clear",
			Message:   "Session cleared successfully",
			Timestamp: time.Now().UTC(),
		}
	default:
		return newErrorFrame(fmt.Sprintf("Unknown session action: %s", action))
	}
}

// dropSession removes the session and closes the connection. Conversation
// state is deliberately left alone so the user can resume after reconnect.
func (s *Server) dropSession(sess *Session) {
	s.mu.Lock()
	delete(s.sessions, sess.ConnectionID)
	s.mu.Unlock()

	sess.conn.Close()
}

// closeAll broadcasts a shutdown notice and closes every live connection.
func (s *Server) closeAll() {
	s.mu.Lock()
	sessions := make([]*Session, 0, len(s.sessions))
	for _, sess := range s.sessions {
		sessions = append(sessions, sess)
	}
	s.sessions = make(map[string]*Session)
	s.mu.Unlock()

	notice := map[string]any{
		"type":      "connection",
		"status":    "closing",
		"message":   "Server is shutting down.",
		"timestamp": time.Now().UTC(),
	}
	for _, sess := range sessions {
		if err := sess.writeJSON(notice); err == nil {
			sess.writeMu.Lock()
			sess.conn.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseGoingAway, "shutting down"))
			sess.writeMu.Unlock()
		}
		sess.conn.Close()
	}

	s.logger.Info("all sessions closed", "count", len(sessions))
}

// SessionCount returns the number of live connections.
func (s *Server) SessionCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}
