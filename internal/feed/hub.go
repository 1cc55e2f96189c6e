package feed

import (
	"context"
	"encoding/json"
	"sync/atomic"

	"github.com/vincentyono/icp-smart-contract/internal/common/logger"
	contentdomain "github.com/vincentyono/icp-smart-contract/internal/content/domain"
	"github.com/vincentyono/icp-smart-contract/internal/observability/metrics"
)

const broadcastBuffer = 256

// Hub fans content events out to every connected client. Client bookkeeping
// happens only on the Run goroutine.
type Hub struct {
	clients    map[*Client]struct{}
	register   chan *Client
	unregister chan *Client
	broadcast  chan []byte
	done       chan struct{}
	count      atomic.Int64
	log        *logger.Logger
}

func NewHub(log *logger.Logger) *Hub {
	return &Hub{
		clients:    make(map[*Client]struct{}),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan []byte, broadcastBuffer),
		done:       make(chan struct{}),
		log:        log,
	}
}

func (h *Hub) Register(client *Client) {
	select {
	case h.register <- client:
	case <-h.done:
		close(client.send)
	}
}

func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

func (h *Hub) ClientCount() int64 {
	return h.count.Load()
}

// Publish never blocks the caller; events are dropped when the hub is saturated.
func (h *Hub) Publish(ctx context.Context, event contentdomain.Event) {
	payload, err := json.Marshal(messageFromEvent(event))
	if err != nil {
		h.log.WithFields(ctx, logger.Fields{
			"event_type": string(event.Type),
			"action":     "feed_marshal_failed",
		}).Errorf("feed failed to marshal event: %v", err)
		return
	}

	select {
	case h.broadcast <- payload:
		metrics.FeedEventsPublished.WithLabelValues(string(event.Type)).Inc()
	case <-h.done:
	default:
		metrics.FeedDroppedMessages.Inc()
		h.log.WithFields(ctx, logger.Fields{
			"event_type": string(event.Type),
			"action":     "feed_broadcast_full",
		}).Warn("feed broadcast buffer full, event dropped")
	}
}

func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)

	for {
		select {
		case <-ctx.Done():
			h.shutdown()
			return

		case client := <-h.register:
			h.clients[client] = struct{}{}
			total := h.count.Add(1)
			metrics.FeedConnectionsActive.Inc()
			h.log.WithFields(ctx, logger.Fields{
				"remote": client.remote,
				"total":  total,
				"action": "feed_register",
			}).Info("feed client registered")

		case client := <-h.unregister:
			h.remove(client)

		case payload := <-h.broadcast:
			for client := range h.clients {
				select {
				case client.send <- payload:
				default:
					metrics.FeedDroppedMessages.Inc()
					h.log.WithFields(ctx, logger.Fields{
						"remote": client.remote,
						"action": "feed_slow_client",
					}).Warn("feed client too slow, disconnecting")
					h.remove(client)
				}
			}
		}
	}
}

func (h *Hub) remove(client *Client) {
	if _, ok := h.clients[client]; !ok {
		return
	}
	delete(h.clients, client)
	close(client.send)
	h.count.Add(-1)
	metrics.FeedConnectionsActive.Dec()
}

func (h *Hub) shutdown() {
	msg, _ := json.Marshal(Message{Type: TypeShutdown})
	n := len(h.clients)
	for client := range h.clients {
		select {
		case client.send <- msg:
		default:
		}
		h.remove(client)
	}

	h.log.WithFields(context.Background(), logger.Fields{
		"clients": n,
		"action":  "feed_hub_shutdown",
	}).Info("feed hub shutdown completed")
}
