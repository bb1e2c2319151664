package httpserve

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/aandrx/portfolio/dlog"
	"github.com/aandrx/portfolio/specification"
	"github.com/aandrx/portfolio/store"
	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"
	"github.com/vmihailenco/msgpack/v5"
)

const (
	liveChannel = "rsvp:live"
	pongWait    = 60 * time.Second
	pingPeriod  = pongWait * 9 / 10
	writeWait   = 10 * time.Second
)

// LiveCount is pushed to rsvp watchers whenever an event's count changes.
type LiveCount struct {
	EventID        string `json:"eventId" msgpack:"eventId"`
	AttendingCount int64  `json:"attendingCount" msgpack:"attendingCount"`
	TotalGuests    int64  `json:"totalGuests" msgpack:"totalGuests"`
}

type liveConn struct {
	ws      *websocket.Conn
	mu      sync.Mutex
	msgpack bool
}

func (c *liveConn) send(msg LiveCount) error {
	var (
		data []byte
		err  error
		mt   = websocket.TextMessage
	)
	if c.msgpack {
		data, err = specification.MarshalApiOutput(msg)
		mt = websocket.BinaryMessage
	} else {
		data, err = json.Marshal(msg)
	}
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ws.SetWriteDeadline(time.Now().Add(writeWait))
	return c.ws.WriteMessage(mt, data)
}

func (c *liveConn) ping() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ws.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait))
}

// Hub fans rsvp counts out to websocket watchers. With redis, counts travel
// through pub/sub so watchers on every instance are notified.
type Hub struct {
	rds      *redis.Client
	upgrader websocket.Upgrader
	mu       sync.RWMutex
	subs     map[string]map[*liveConn]struct{}
	ready    chan struct{}
}

// NewHub relays through rc when it is not nil. checkOrigin vets websocket
// upgrades, nil keeps the same host rule of gorilla/websocket.
func NewHub(rc *redis.Client, checkOrigin func(r *http.Request) bool) *Hub {
	return &Hub{
		rds:      rc,
		upgrader: websocket.Upgrader{CheckOrigin: checkOrigin},
		subs:     map[string]map[*liveConn]struct{}{},
		ready:    make(chan struct{}),
	}
}

// Ready is closed once the hub receives published counts.
func (h *Hub) Ready() <-chan struct{} { return h.ready }

func (h *Hub) add(eventID string, c *liveConn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.subs[eventID] == nil {
		h.subs[eventID] = map[*liveConn]struct{}{}
	}
	h.subs[eventID][c] = struct{}{}
}

func (h *Hub) remove(eventID string, c *liveConn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.subs[eventID], c)
	if len(h.subs[eventID]) == 0 {
		delete(h.subs, eventID)
	}
}

// Watchers counts the connections watching eventID.
func (h *Hub) Watchers(eventID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs[eventID])
}

// Publish announces a new count of eventID.
func (h *Hub) Publish(eventID string, count store.RSVPCount) {
	msg := LiveCount{EventID: eventID, AttendingCount: count.AttendingCount, TotalGuests: count.TotalGuests}
	if h.rds == nil {
		h.broadcast(msg)
		return
	}
	data, err := msgpack.Marshal(msg)
	if err == nil {
		ctx, cancel := context.WithTimeout(context.Background(), writeWait)
		defer cancel()
		err = h.rds.Publish(ctx, liveChannel, data).Err()
	}
	if err != nil {
		dlog.Warn().Err(err).Str("eventId", eventID).Msg("publish rsvp count failed, notifying local watchers only")
		h.broadcast(msg)
	}
}

func (h *Hub) broadcast(msg LiveCount) {
	h.mu.RLock()
	conns := make([]*liveConn, 0, len(h.subs[msg.EventID]))
	for c := range h.subs[msg.EventID] {
		conns = append(conns, c)
	}
	h.mu.RUnlock()
	for _, c := range conns {
		if err := c.send(msg); err != nil {
			dlog.Debug().Err(err).Str("eventId", msg.EventID).Msg("live write failed")
			c.ws.Close()
		}
	}
}

// Run relays published counts until ctx is done, then closes every watcher.
func (h *Hub) Run(ctx context.Context) error {
	defer h.closeAll()
	if h.rds == nil {
		close(h.ready)
		<-ctx.Done()
		return nil
	}
	sub := h.rds.Subscribe(ctx, liveChannel)
	defer sub.Close()
	if _, err := sub.Receive(ctx); err != nil {
		if ctx.Err() != nil {
			return nil
		}
		return err
	}
	close(h.ready)
	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case m, ok := <-ch:
			if !ok {
				return nil
			}
			var msg LiveCount
			if err := msgpack.Unmarshal([]byte(m.Payload), &msg); err != nil {
				dlog.Warn().Err(err).Msg("bad live rsvp message")
				continue
			}
			h.broadcast(msg)
		}
	}
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, conns := range h.subs {
		for c := range conns {
			c.ws.Close()
		}
	}
	h.subs = map[string]map[*liveConn]struct{}{}
}

// ServeWS streams the counts of ?eventId= to a websocket, starting with the
// current one. Add ?rt=application/msgpack for binary frames.
func (h *Hub) ServeWS(current func(ctx context.Context, eventID string) (*store.RSVPCount, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		eventID := r.URL.Query().Get("eventId")
		if eventID == "" {
			writeResult(w, r, http.StatusBadRequest, errorBody{Error: "eventId parameter is required"})
			return
		}
		ws, err := h.upgrader.Upgrade(w, r, nil)
		if err != nil {
			dlog.Warn().Err(err).Msg("websocket upgrade failed")
			return
		}
		defer ws.Close()
		c := &liveConn{ws: ws, msgpack: r.URL.Query().Get("rt") == "application/msgpack"}

		count, err := current(r.Context(), eventID)
		if err != nil {
			dlog.Error().Err(err).Str("eventId", eventID).Msg("Failed to fetch RSVP count")
			return
		}
		if err = c.send(LiveCount{EventID: eventID, AttendingCount: count.AttendingCount, TotalGuests: count.TotalGuests}); err != nil {
			return
		}
		h.add(eventID, c)
		defer h.remove(eventID, c)

		//enable auto ping
		ws.SetReadLimit(512)
		ws.SetReadDeadline(time.Now().Add(pongWait))
		ws.SetPongHandler(func(string) error { ws.SetReadDeadline(time.Now().Add(pongWait)); return nil })
		done := make(chan struct{})
		defer close(done)
		go func() {
			ticker := time.NewTicker(pingPeriod)
			defer ticker.Stop()
			for {
				select {
				case <-done:
					return
				case <-ticker.C:
					if c.ping() != nil {
						return
					}
				}
			}
		}()
		for {
			if _, _, err := ws.ReadMessage(); err != nil {
				return
			}
		}
	}
}
