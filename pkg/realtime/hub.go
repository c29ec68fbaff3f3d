package realtime

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
	"liyu1981.xyz/safekids-geofence-service/pkg/common"
	"liyu1981.xyz/safekids-geofence-service/pkg/metrics"
)

type Config struct {
	// Time allowed to write a message to the peer
	WriteWait time.Duration
	// Time allowed to read the next pong message from the peer
	PongWait time.Duration
	// Send pings to peer with this period, must be less than PongWait
	PingPeriod     time.Duration
	MaxMessageSize int64
	SendBuffer     int
}

func DefaultConfig() Config {
	return Config{
		WriteWait:      10 * time.Second,
		PongWait:       60 * time.Second,
		PingPeriod:     (60 * time.Second * 9) / 10,
		MaxMessageSize: 64 * 1024,
		SendBuffer:     64,
	}
}

// Envelope is the frame written to clients for every emitted event.
type Envelope struct {
	Event   string `json:"event"`
	Payload any    `json:"payload"`
}

// Hub tracks live websocket sessions per user id. A user may hold several
// sessions (phone and tablet); events go to all of them.
type Hub struct {
	cfg      Config
	upgrader websocket.Upgrader

	mu       sync.RWMutex
	sessions map[string]map[*session]struct{}
}

type session struct {
	hub    *Hub
	userID string
	conn   *websocket.Conn
	send   chan []byte
	once   sync.Once
}

func NewHub(cfg Config) *Hub {
	return &Hub{
		cfg: cfg,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		sessions: make(map[string]map[*session]struct{}),
	}
}

// ServeWS upgrades the request and registers the session under userID. The
// session lives until the peer disconnects or stops answering pings.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request, userID string) error {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return err
	}

	s := &session{
		hub:    h,
		userID: userID,
		conn:   conn,
		send:   make(chan []byte, h.cfg.SendBuffer),
	}
	h.register(s)

	go s.writePump()
	go s.readPump()
	return nil
}

// Emit delivers event to every session of userID and reports whether at
// least one session accepted it. No session is not an error.
func (h *Hub) Emit(userID string, event string, payload any) bool {
	msg, err := json.Marshal(Envelope{Event: event, Payload: payload})
	if err != nil {
		h.logger().Warn("marshal realtime event failed", zap.String("event", event), zap.Error(err))
		metrics.RealtimeEmitsTotal.WithLabelValues("error").Inc()
		return false
	}

	// sends happen under the read lock so a session cannot be closed mid-send
	var slow []*session
	delivered := false
	h.mu.RLock()
	for s := range h.sessions[userID] {
		select {
		case s.send <- msg:
			delivered = true
		default:
			slow = append(slow, s)
		}
	}
	h.mu.RUnlock()

	for _, s := range slow {
		h.logger().Warn("slow realtime session dropped", zap.String("user_id", userID))
		s.close()
	}

	if delivered {
		metrics.RealtimeEmitsTotal.WithLabelValues("delivered").Inc()
	} else {
		metrics.RealtimeEmitsTotal.WithLabelValues("offline").Inc()
	}
	return delivered
}

func (h *Hub) Connected(userID string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.sessions[userID]) > 0
}

func (h *Hub) SessionCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	n := 0
	for _, set := range h.sessions {
		n += len(set)
	}
	return n
}

func (h *Hub) register(s *session) {
	h.mu.Lock()
	defer h.mu.Unlock()
	set, ok := h.sessions[s.userID]
	if !ok {
		set = make(map[*session]struct{})
		h.sessions[s.userID] = set
	}
	set[s] = struct{}{}
	h.logger().Info("realtime session connected", zap.String("user_id", s.userID), zap.Int("sessions", len(set)))
}

// unregister removes s and closes its send channel while holding the write
// lock, so no Emit can be sending on it.
func (h *Hub) unregister(s *session) {
	h.mu.Lock()
	if set, ok := h.sessions[s.userID]; ok {
		delete(set, s)
		if len(set) == 0 {
			delete(h.sessions, s.userID)
		}
	}
	close(s.send)
	h.mu.Unlock()

	h.logger().Info("realtime session disconnected", zap.String("user_id", s.userID))
}

func (h *Hub) logger() *zap.Logger {
	return common.GetLoggerWith(common.LoggerNameRealtime)
}

func (s *session) close() {
	s.once.Do(func() {
		s.hub.unregister(s)
	})
}

// readPump only services control frames; clients do not send events.
func (s *session) readPump() {
	defer func() {
		s.close()
		s.conn.Close()
	}()

	s.conn.SetReadLimit(s.hub.cfg.MaxMessageSize)
	_ = s.conn.SetReadDeadline(time.Now().Add(s.hub.cfg.PongWait))
	s.conn.SetPongHandler(func(string) error {
		return s.conn.SetReadDeadline(time.Now().Add(s.hub.cfg.PongWait))
	})

	for {
		if _, _, err := s.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				s.hub.logger().Warn("realtime read error", zap.String("user_id", s.userID), zap.Error(err))
			}
			return
		}
	}
}

func (s *session) writePump() {
	ticker := time.NewTicker(s.hub.cfg.PingPeriod)
	defer func() {
		ticker.Stop()
		s.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-s.send:
			_ = s.conn.SetWriteDeadline(time.Now().Add(s.hub.cfg.WriteWait))
			if !ok {
				_ = s.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := s.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				s.close()
				return
			}
		case <-ticker.C:
			_ = s.conn.SetWriteDeadline(time.Now().Add(s.hub.cfg.WriteWait))
			if err := s.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				s.close()
				return
			}
		}
	}
}
