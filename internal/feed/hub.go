// Package feed pushes complaint lifecycle events to staff dashboards over
// WebSocket.
//
// Every server instance relays the Redis feed channel into its own Hub, so
// events published by any instance reach every connected dashboard.
package feed

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"complaintdesk/backend/internal/models"

	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

const sendBuffer = 64

var errHubStopped = errors.New("feed hub stopped")

// Hub keeps the set of connected dashboards and fans events out to them.
type Hub struct {
	register   chan *Client
	unregister chan *Client
	clients    map[*Client]struct{}
	done       chan struct{}
	upgrader   websocket.Upgrader
	log        logrus.FieldLogger
}

// NewHub creates a hub. checkOrigin may be nil to accept any origin.
func NewHub(checkOrigin func(r *http.Request) bool, log logrus.FieldLogger) *Hub {
	if checkOrigin == nil {
		checkOrigin = func(r *http.Request) bool { return true }
	}
	return &Hub{
		register:   make(chan *Client),
		unregister: make(chan *Client),
		clients:    make(map[*Client]struct{}),
		done:       make(chan struct{}),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     checkOrigin,
		},
		log: log,
	}
}

// Run delivers events to every registered client until ctx is done or
// events is closed. A client that cannot keep up is disconnected. Run must
// be called once.
func (h *Hub) Run(ctx context.Context, events <-chan models.ComplaintEvent) {
	defer func() {
		h.closeAll()
		close(h.done)
	}()
	for {
		select {
		case <-ctx.Done():
			return

		case c := <-h.register:
			h.clients[c] = struct{}{}
			h.log.WithField("clients", len(h.clients)).Debug("feed client connected")

		case c := <-h.unregister:
			h.remove(c)

		case ev, ok := <-events:
			if !ok {
				return
			}
			for c := range h.clients {
				select {
				case c.send <- ev:
				default:
					h.log.WithField("remote", c.remote).Warn("feed client too slow, disconnecting")
					h.remove(c)
				}
			}
		}
	}
}

func (h *Hub) remove(c *Client) {
	if _, ok := h.clients[c]; !ok {
		return
	}
	delete(h.clients, c)
	close(c.send)
}

func (h *Hub) closeAll() {
	for c := range h.clients {
		h.remove(c)
	}
}

// ServeWS upgrades the request to a WebSocket and registers it with the hub.
// Run must be running.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) error {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return err
	}
	c := &Client{
		hub:    h,
		conn:   conn,
		send:   make(chan models.ComplaintEvent, sendBuffer),
		remote: r.RemoteAddr,
		log:    h.log,
	}
	select {
	case h.register <- c:
	case <-h.done:
		conn.Close()
		return errHubStopped
	case <-r.Context().Done():
		conn.Close()
		return r.Context().Err()
	}
	c.run()
	return nil
}

// Relay decodes the messages of a Redis subscription into out until ctx is
// done or the subscription is closed. Undecodable payloads are skipped.
func Relay(ctx context.Context, ps *redis.PubSub, out chan<- models.ComplaintEvent, log logrus.FieldLogger) {
	defer ps.Close()
	ch := ps.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			var ev models.ComplaintEvent
			if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
				log.WithError(err).Warn("error unmarshalling feed event")
				continue
			}
			select {
			case out <- ev:
			case <-ctx.Done():
				return
			}
		}
	}
}
