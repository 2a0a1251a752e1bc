package socket

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/queuify/qboard/internal/queuify"
)

// Event is one inbound frame from the realtime channel. The payload is an
// opaque change signal: subscribers react by re-fetching canonical state,
// never by applying the payload itself.
type Event struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// Hint returns the payload's optional "type" field (queue_advancement,
// status_change). Malformed payloads yield an empty hint, which callers
// treat the same as any other change signal.
func (e Event) Hint() string {
	var inner struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(e.Payload, &inner); err != nil {
		return ""
	}
	return inner.Type
}

// Rooms names the broadcast groups a caller wants updates for. Org is
// required; Service and Resource are optional refinements.
type Rooms struct {
	Org      string
	Service  string
	Resource string
}

type roomKey struct {
	kind string // "org", "service", "resource"
	id   string
}

func (r Rooms) keys() []roomKey {
	var keys []roomKey
	if r.Org != "" {
		keys = append(keys, roomKey{"org", r.Org})
	}
	if r.Service != "" {
		keys = append(keys, roomKey{"service", r.Service})
	}
	if r.Resource != "" {
		keys = append(keys, roomKey{"resource", r.Resource})
	}
	return keys
}

type frame struct {
	Type    string         `json:"type"`
	Payload map[string]any `json:"payload,omitempty"`
}

const (
	subscriberBuffer = 8
	initialRedial    = time.Second
	maxRedial        = 30 * time.Second
	writeTimeout     = 5 * time.Second
)

// Manager owns the process-wide realtime connection. It dials lazily on the
// first Join, re-dials with backoff when the connection drops, replays room
// joins after reconnect, and fans inbound events out to subscribers.
// Connection failures are never surfaced to callers; polling is the
// fallback for every view that uses the socket.
type Manager struct {
	url      string
	token    string
	clientID string

	ctx    context.Context
	cancel context.CancelFunc

	mu      sync.Mutex
	conn    *websocket.Conn
	rooms   map[roomKey]int
	subs    map[int]chan Event
	nextSub int
	latest  *Event
	started bool
}

// NewManager builds a Manager for the given websocket URL. No connection is
// made until the first Join.
func NewManager(url, token string) *Manager {
	ctx, cancel := context.WithCancel(context.Background())
	return &Manager{
		url:      url,
		token:    token,
		clientID: uuid.NewString(),
		ctx:      ctx,
		cancel:   cancel,
		rooms:    make(map[roomKey]int),
		subs:     make(map[int]chan Event),
	}
}

// Join registers interest in the given rooms, reference-counting each so
// that concurrent views can share membership. It returns the most recently
// received event (or nil) so late subscribers see the latest signal.
// A Rooms value without an org id is a no-op.
func (m *Manager) Join(r Rooms) *Event {
	if r.Org == "" {
		return m.Latest()
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.started {
		m.started = true
		go m.run()
	}

	for _, key := range r.keys() {
		m.rooms[key]++
		if m.rooms[key] == 1 && m.conn != nil {
			m.writeLocked(joinFrame(key))
		}
	}
	return m.latest
}

// Leave drops one reference per room and leaves rooms whose count reaches
// zero, so an unmounting view does not strand membership.
func (m *Manager) Leave(r Rooms) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, key := range r.keys() {
		count, ok := m.rooms[key]
		if !ok {
			continue
		}
		if count > 1 {
			m.rooms[key] = count - 1
			continue
		}
		delete(m.rooms, key)
		if m.conn != nil {
			m.writeLocked(frame{Type: "leave_" + key.kind, Payload: map[string]any{key.kind + "_id": key.id}})
		}
	}
}

// Subscribe returns a channel of inbound events and a cancel func. Slow
// subscribers drop events rather than blocking the read loop; a dropped
// event costs nothing because every event means the same thing: re-fetch.
func (m *Manager) Subscribe() (<-chan Event, func()) {
	m.mu.Lock()
	defer m.mu.Unlock()

	id := m.nextSub
	m.nextSub++
	ch := make(chan Event, subscriberBuffer)
	m.subs[id] = ch

	cancel := func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		if existing, ok := m.subs[id]; ok {
			delete(m.subs, id)
			close(existing)
		}
	}
	return ch, cancel
}

// Latest returns the most recently received event, or nil.
func (m *Manager) Latest() *Event {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.latest
}

// Announce broadcasts a local status change to the org room. Fire and
// forget: when disconnected the frame is silently dropped, since every
// remote client re-fetches on its own poll anyway.
func (m *Manager) Announce(appointmentID int64, status queuify.Status, orgID string) {
	if orgID == "" {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.conn == nil {
		return
	}
	m.writeLocked(frame{Type: "status_change", Payload: map[string]any{
		"appointment_id": appointmentID,
		"status":         string(status),
		"org_id":         orgID,
		"request_id":     uuid.NewString(),
		"client_id":      m.clientID,
	}})
}

// Close tears the connection down and stops the redial loop.
func (m *Manager) Close() {
	m.cancel()
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.conn != nil {
		_ = m.conn.Close()
		m.conn = nil
	}
}

func (m *Manager) run() {
	delay := initialRedial
	for {
		if m.ctx.Err() != nil {
			return
		}

		conn, err := m.dial()
		if err != nil {
			log.Printf("socket: dial %s: %v", m.url, err)
			select {
			case <-m.ctx.Done():
				return
			case <-time.After(delay):
			}
			if delay *= 2; delay > maxRedial {
				delay = maxRedial
			}
			continue
		}
		delay = initialRedial

		m.mu.Lock()
		m.conn = conn
		for key := range m.rooms {
			m.writeLocked(joinFrame(key))
		}
		m.mu.Unlock()

		m.readLoop(conn)

		m.mu.Lock()
		if m.conn == conn {
			m.conn = nil
		}
		m.mu.Unlock()
		_ = conn.Close()
	}
}

func (m *Manager) dial() (*websocket.Conn, error) {
	header := http.Header{}
	if m.token != "" {
		header.Set("Authorization", "Bearer "+m.token)
	}
	conn, resp, err := websocket.DefaultDialer.DialContext(m.ctx, m.url, header)
	if resp != nil && resp.Body != nil {
		_ = resp.Body.Close()
	}
	return conn, err
}

// readLoop delivers inbound frames until the connection errors. Frames that
// fail to decode still become bare queue_update events: a broken payload is
// still a valid "something changed" signal.
func (m *Manager) readLoop(conn *websocket.Conn) {
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if m.ctx.Err() == nil {
				log.Printf("socket: read: %v", err)
			}
			return
		}

		var event Event
		if err := json.Unmarshal(data, &event); err != nil || event.Type == "" {
			event = Event{Type: "queue_update"}
		}
		m.deliver(event)
	}
}

func (m *Manager) deliver(event Event) {
	m.mu.Lock()
	defer m.mu.Unlock()

	copied := event
	m.latest = &copied
	for id, ch := range m.subs {
		select {
		case ch <- event:
		default:
			log.Printf("socket: drop event for slow subscriber %d", id)
		}
	}
}

// writeLocked sends a frame on the current connection. Callers hold m.mu.
// Write errors are logged and otherwise ignored; the read loop notices the
// dead connection and triggers a redial.
func (m *Manager) writeLocked(f frame) {
	if m.conn == nil {
		return
	}
	_ = m.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	if err := m.conn.WriteJSON(f); err != nil {
		log.Printf("socket: write %s: %v", f.Type, err)
	}
}

func joinFrame(key roomKey) frame {
	return frame{Type: "join_" + key.kind, Payload: map[string]any{key.kind + "_id": key.id}}
}
