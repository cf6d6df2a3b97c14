package live

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"go.uber.org/zap"
)

const (
	EventRoundAdded   = "round_added"
	EventRoundUpdated = "round_updated"
	EventRoundDeleted = "round_deleted"
	EventWeisAdded    = "weis_added"
	EventMatchDeleted = "match_deleted"
	EventSnapshot     = "snapshot"

	broadcastBuffer = 256
	clientBuffer    = 16
)

// Update is the payload pushed to every subscriber of a match.
type Update struct {
	Event   string      `json:"event"`
	MatchID uint        `json:"spiel_id"`
	Data    interface{} `json:"data"`
}

// Client is one subscriber of a match.
type Client struct {
	MatchID uint
	Send    chan []byte
}

type message struct {
	matchID uint
	data    []byte
}

// Hub fans score updates out to the websocket clients watching a match.
type Hub struct {
	rooms map[uint]map[*Client]struct{}
	mu    sync.RWMutex

	broadcast  chan message
	register   chan *Client
	unregister chan *Client
	done       chan struct{}
}

func NewHub() *Hub {
	return &Hub{
		rooms:      make(map[uint]map[*Client]struct{}),
		broadcast:  make(chan message, broadcastBuffer),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
	}
}

// Run serves the hub until ctx is cancelled, then disconnects every client.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)

	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			return

		case c := <-h.register:
			h.mu.Lock()
			if h.rooms[c.MatchID] == nil {
				h.rooms[c.MatchID] = make(map[*Client]struct{})
			}
			h.rooms[c.MatchID][c] = struct{}{}
			h.mu.Unlock()

		case c := <-h.unregister:
			h.remove(c)

		case msg := <-h.broadcast:
			h.mu.RLock()
			var slow []*Client
			for c := range h.rooms[msg.matchID] {
				select {
				case c.Send <- msg.data:
				default:
					slow = append(slow, c)
				}
			}
			h.mu.RUnlock()

			for _, c := range slow {
				zap.L().Warn("dropping slow live client", zap.Uint("spiel_id", c.MatchID))
				h.remove(c)
			}
		}
	}
}

// Subscribe registers a new client for matchID. It returns nil once the hub
// has stopped.
func (h *Hub) Subscribe(matchID uint) *Client {
	c := &Client{MatchID: matchID, Send: make(chan []byte, clientBuffer)}

	select {
	case h.register <- c:
		return c
	case <-h.done:
		return nil
	}
}

func (h *Hub) Unsubscribe(c *Client) {
	select {
	case h.unregister <- c:
	case <-h.done:
	}
}

// Publish queues update for the subscribers of its match. It never blocks;
// when the queue is full the update is dropped.
func (h *Hub) Publish(update Update) error {
	data, err := json.Marshal(update)
	if err != nil {
		return fmt.Errorf("json.Marshal -> %w", err)
	}

	select {
	case h.broadcast <- message{matchID: update.MatchID, data: data}:
	default:
		zap.L().Warn("live broadcast queue full, update dropped",
			zap.Uint("spiel_id", update.MatchID), zap.String("event", update.Event))
	}

	return nil
}

func (h *Hub) Subscribers(matchID uint) int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return len(h.rooms[matchID])
}

// Done is closed when Run has returned.
func (h *Hub) Done() <-chan struct{} {
	return h.done
}

func (h *Hub) remove(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	room, ok := h.rooms[c.MatchID]
	if !ok {
		return
	}
	if _, ok := room[c]; !ok {
		return
	}

	delete(room, c)
	close(c.Send)
	if len(room) == 0 {
		delete(h.rooms, c.MatchID)
	}
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for id, room := range h.rooms {
		for c := range room {
			close(c.Send)
		}
		delete(h.rooms, id)
	}
}
