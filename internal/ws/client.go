package ws

import (
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

const (
	writeWait      = 10 * time.Second
	sendBufferSize = 64
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// The signal source and its dashboards run on the local network.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Client is one observer session. All socket writes happen on writePump;
// readPump only reads and queues replies.
type Client struct {
	id       string
	hub      *Hub
	conn     *websocket.Conn
	send     chan Message
	activity chan struct{}
	once     sync.Once

	// mu guards closed so that enqueue and closeSend cannot race on the
	// send channel.
	mu     sync.Mutex
	closed bool
}

func newClient(hub *Hub, conn *websocket.Conn) *Client {
	return &Client{
		id:       uuid.NewString(),
		hub:      hub,
		conn:     conn,
		send:     make(chan Message, sendBufferSize),
		activity: make(chan struct{}, 1),
	}
}

// Serve upgrades an observer connection, registers it with the hub and
// starts its session pumps.
func Serve(hub *Hub, w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error().Err(err).Msg("websocket upgrade failed")
		return
	}

	client := newClient(hub, conn)

	// The confirmation must be the first frame the observer sees, so it
	// is queued before the client can receive any fan-out.
	client.enqueue(Message{
		Type:    "connection",
		Message: "Connected to signal stream",
		Status:  "connected",
	})
	hub.Register(client)

	go client.writePump()
	go client.readPump()
}

// readPump consumes inbound frames: "ping" gets a queued pong, anything
// else only counts as activity. Any read error ends the session.
func (c *Client) readPump() {
	defer c.teardown()

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Warn().Err(err).Str("observer", c.id).Msg("observer read error")
			}
			return
		}

		select {
		case c.activity <- struct{}{}:
		default:
		}

		if strings.TrimSpace(string(data)) == "ping" {
			c.enqueue(Message{Type: "pong"})
		}
	}
}

// writePump owns the socket write side: queued messages, plus a
// keepalive push whenever the observer has been silent for the hub's
// idle timeout.
func (c *Client) writePump() {
	idle := time.NewTimer(c.hub.idleTimeout)
	defer func() {
		idle.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// Hub closed the session.
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteJSON(msg); err != nil {
				log.Debug().Err(err).Str("observer", c.id).Msg("observer write failed")
				return
			}
		case <-c.activity:
			if !idle.Stop() {
				select {
				case <-idle.C:
				default:
				}
			}
			idle.Reset(c.hub.idleTimeout)
		case <-idle.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteJSON(Message{Type: "keepalive"}); err != nil {
				return
			}
			idle.Reset(c.hub.idleTimeout)
		}
	}
}

// enqueue queues a message for writePump. It reports false when the
// session is closed or its queue is full; a full queue means the
// observer is not keeping up and the next fan-out attempt prunes it.
func (c *Client) enqueue(msg Message) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return false
	}
	select {
	case c.send <- msg:
		return true
	default:
		return false
	}
}

// closeSend closes the session queue exactly once. Called only by the
// hub run goroutine (or its shutdown path).
func (c *Client) closeSend() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.closed {
		c.closed = true
		close(c.send)
	}
}

func (c *Client) teardown() {
	c.once.Do(func() {
		c.hub.Unregister(c)
		c.conn.Close()
	})
}
