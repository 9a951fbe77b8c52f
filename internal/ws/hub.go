package ws

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/miguel-isidro05/neurosync-rehab/internal/bridge"
	"github.com/miguel-isidro05/neurosync-rehab/internal/metrics"
	"github.com/miguel-isidro05/neurosync-rehab/internal/models"
)

// Hub fans incoming signals out to every connected observer. The client
// set is owned by the Run goroutine; everything else talks to it through
// channels, so no lock is needed.
type Hub struct {
	clients     map[*Client]bool
	register    chan *Client
	unregister  chan *Client
	bus         *bridge.Bus
	idleTimeout time.Duration
	done        chan struct{}
	count       atomic.Int32
}

func NewHub(bus *bridge.Bus, idleTimeout time.Duration) *Hub {
	return &Hub{
		clients:     make(map[*Client]bool),
		register:    make(chan *Client),
		unregister:  make(chan *Client),
		bus:         bus,
		idleTimeout: idleTimeout,
		done:        make(chan struct{}),
	}
}

// Run drains the bridge and serves registrations until ctx is cancelled.
// Signals are fanned out in the order they were published.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)

	for {
		select {
		case <-ctx.Done():
			for client := range h.clients {
				client.closeSend()
			}
			h.clients = make(map[*Client]bool)
			h.setCount()
			return
		case client := <-h.register:
			h.clients[client] = true
			h.setCount()
			log.Info().
				Str("observer", client.id).
				Int("observers", len(h.clients)).
				Msg("observer connected")
		case client := <-h.unregister:
			h.drop(client)
		case event := <-h.bus.Events():
			h.fanOut(event)
		}
	}
}

// fanOut delivers one signal to every client registered at entry. A
// client whose queue is full is dropped; the rest still get the signal.
func (h *Hub) fanOut(event models.SignalEvent) {
	msg := Message{Type: "signal", Signal: event.Signal, Timestamp: event.Timestamp}
	for client := range h.clients {
		if !client.enqueue(msg) {
			log.Warn().Str("observer", client.id).Msg("observer not accepting delivery")
			h.drop(client)
		}
	}
}

// drop is idempotent: removing an already-removed client is a no-op.
func (h *Hub) drop(client *Client) {
	if _, ok := h.clients[client]; !ok {
		return
	}
	delete(h.clients, client)
	client.closeSend()
	h.setCount()
	log.Info().
		Str("observer", client.id).
		Int("observers", len(h.clients)).
		Msg("observer removed")
}

func (h *Hub) setCount() {
	h.count.Store(int32(len(h.clients)))
	metrics.ObserversConnected.Set(float64(len(h.clients)))
}

// Register adds an observer session. Safe to call after shutdown.
func (h *Hub) Register(client *Client) {
	select {
	case h.register <- client:
	case <-h.done:
	}
}

// Unregister removes an observer session. Safe to call after shutdown.
func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

// Count reports the number of registered observers.
func (h *Hub) Count() int {
	return int(h.count.Load())
}
