// Package hub fans the active-order snapshot out to connected staff
// terminals over WebSocket. It owns the subscriber registry and nothing
// else: the store of record stays authoritative and the pushed snapshot
// is rebuilt from it on every cycle.
package hub

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/hneno001/qr-cafe/internal/domain"
	"github.com/hneno001/qr-cafe/internal/metrics"
)

// SnapshotSource builds the read-model pushed to subscribers.
type SnapshotSource interface {
	Build(ctx context.Context) (domain.Snapshot, error)
}

const (
	defaultHeartbeatInterval = 30 * time.Second
	defaultRefreshInterval   = 5 * time.Second

	// Outbound frames buffered per subscriber before pushes are skipped.
	sendBuffer = 8

	writeWait = 10 * time.Second
)

// Hub is the broadcast side of the service. Connections authenticate
// with the shared staff key at handshake time, are probed on the
// heartbeat interval, and receive every snapshot push best-effort.
type Hub struct {
	secret string
	source SnapshotSource
	logger *log.Logger

	heartbeatInterval time.Duration
	refreshInterval   time.Duration

	upgrader websocket.Upgrader

	// trigger coalesces mutation notifications into at most one pending
	// rebuild; the refresh loop drains it.
	trigger chan struct{}

	mu    sync.Mutex
	conns map[*subscriber]struct{}
}

type subscriber struct {
	id   string
	ws   *websocket.Conn
	send chan []byte

	// lastAck is when the connection last proved liveness: connect time,
	// then refreshed by every pong. Guarded by Hub.mu and evaluated only
	// by the heartbeat task.
	lastAck time.Time
}

type Option func(*Hub)

// WithIntervals overrides the heartbeat and periodic refresh cadence.
func WithIntervals(heartbeat, refresh time.Duration) Option {
	return func(h *Hub) {
		if heartbeat > 0 {
			h.heartbeatInterval = heartbeat
		}
		if refresh > 0 {
			h.refreshInterval = refresh
		}
	}
}

func New(secret string, source SnapshotSource, logger *log.Logger, opts ...Option) *Hub {
	if logger == nil {
		logger = log.Default()
	}
	h := &Hub{
		secret: secret,
		source: source,
		logger: logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
		heartbeatInterval: defaultHeartbeatInterval,
		refreshInterval:   defaultRefreshInterval,
		trigger:           make(chan struct{}, 1),
		conns:             make(map[*subscriber]struct{}),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// OrderMutated satisfies app.Notifier: a committed mutation requests a
// rebuild-and-push without ever blocking the mutation path.
func (h *Hub) OrderMutated(domain.Mutation) {
	select {
	case h.trigger <- struct{}{}:
	default:
	}
}

// ServeHTTP upgrades a staff terminal connection. The staff key must be
// presented at handshake time (key query parameter or X-Staff-Key
// header); anything else is closed with a policy violation before the
// connection reaches the registry.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ws, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Printf("ws upgrade failed: %v", err)
		return
	}

	key := r.URL.Query().Get("key")
	if key == "" {
		key = r.Header.Get("X-Staff-Key")
	}
	if h.secret == "" || key != h.secret {
		msg := websocket.FormatCloseMessage(websocket.ClosePolicyViolation, "unauthorized")
		_ = ws.WriteControl(websocket.CloseMessage, msg, time.Now().Add(writeWait))
		_ = ws.Close()
		return
	}

	sub := &subscriber{
		id:      uuid.NewString(),
		ws:      ws,
		send:    make(chan []byte, sendBuffer),
		lastAck: time.Now(),
	}
	ws.SetPongHandler(func(string) error {
		h.mu.Lock()
		sub.lastAck = time.Now()
		h.mu.Unlock()
		return nil
	})

	h.mu.Lock()
	h.conns[sub] = struct{}{}
	n := len(h.conns)
	h.mu.Unlock()
	metrics.Subscribers.Set(float64(n))
	h.logger.Printf("subscriber %s connected (%d live)", sub.id, n)

	go h.writeLoop(sub)
	go h.readLoop(sub)
}

// Run drives the heartbeat and periodic refresh timers until ctx is
// cancelled. Both feed the same push path; pushes are serialized by the
// refresh loop so overlapping triggers cannot interleave.
func (h *Hub) Run(ctx context.Context) {
	go h.heartbeatLoop(ctx)
	h.refreshLoop(ctx)
}

func (h *Hub) heartbeatLoop(ctx context.Context) {
	ticker := time.NewTicker(h.heartbeatInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			h.heartbeat()
		}
	}
}

func (h *Hub) refreshLoop(ctx context.Context) {
	ticker := time.NewTicker(h.refreshInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			return
		case <-h.trigger:
		case <-ticker.C:
		}
		h.push(ctx)
	}
}

// heartbeat terminates subscribers whose last acknowledgement predates
// the previous probe cycle, then probes the rest. A healthy connection
// pongs within writeWait of each ping.
func (h *Hub) heartbeat() {
	deadline := time.Now().Add(-h.heartbeatInterval - writeWait)

	h.mu.Lock()
	var dead, probed []*subscriber
	for sub := range h.conns {
		if sub.lastAck.Before(deadline) {
			dead = append(dead, sub)
			continue
		}
		probed = append(probed, sub)
	}
	h.mu.Unlock()

	for _, sub := range dead {
		h.drop(sub, "missed heartbeat")
	}
	for _, sub := range probed {
		if err := sub.ws.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
			h.drop(sub, "ping failed")
		}
	}
}

type envelope struct {
	Type   string                 `json:"type"`
	Orders []domain.SnapshotOrder `json:"orders"`
}

// push rebuilds the snapshot once, serializes it once, and delivers the
// identical payload to every live subscriber. A build failure skips this
// cycle only; the timers keep running so the system converges once the
// store recovers.
func (h *Hub) push(ctx context.Context) {
	snap, err := h.source.Build(ctx)
	if err != nil {
		h.logger.Printf("snapshot build failed: %v", err)
		return
	}
	payload, err := json.Marshal(envelope{Type: "snapshot", Orders: snap.Orders})
	if err != nil {
		h.logger.Printf("snapshot encode failed: %v", err)
		return
	}

	h.mu.Lock()
	for sub := range h.conns {
		select {
		case sub.send <- payload:
		default:
			// Slow subscriber: skip the frame rather than stall the
			// fan-out. The heartbeat reaps it if it is actually gone.
			h.logger.Printf("subscriber %s send buffer full, frame skipped", sub.id)
		}
	}
	h.mu.Unlock()
	metrics.SnapshotPushes.Inc()
}

func (h *Hub) readLoop(sub *subscriber) {
	defer h.drop(sub, "read closed")
	for {
		// Inbound frames are not part of the protocol; reading keeps the
		// connection serviced so pong control frames are processed.
		if _, _, err := sub.ws.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *Hub) writeLoop(sub *subscriber) {
	for payload := range sub.send {
		_ = sub.ws.SetWriteDeadline(time.Now().Add(writeWait))
		if err := sub.ws.WriteMessage(websocket.TextMessage, payload); err != nil {
			h.drop(sub, "write failed")
			return
		}
	}
}

// drop removes sub from the registry and tears the connection down.
// Safe to call from any goroutine; only the first call acts.
func (h *Hub) drop(sub *subscriber, reason string) {
	h.mu.Lock()
	_, live := h.conns[sub]
	if live {
		delete(h.conns, sub)
	}
	n := len(h.conns)
	h.mu.Unlock()
	if !live {
		return
	}

	close(sub.send)
	_ = sub.ws.Close()
	metrics.Subscribers.Set(float64(n))
	h.logger.Printf("subscriber %s dropped: %s (%d live)", sub.id, reason, n)
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	subs := make([]*subscriber, 0, len(h.conns))
	for sub := range h.conns {
		subs = append(subs, sub)
	}
	h.mu.Unlock()

	for _, sub := range subs {
		h.drop(sub, "shutdown")
	}
}
