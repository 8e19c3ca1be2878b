package server

import (
	"context"
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/coursekit/coursechat/internal/types"
	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingInterval   = (pongWait * 9) / 10
	maxMessageSize = 1024

	// counterTimeout bounds the unread-store round trip so a slow
	// counter backend cannot stall a connection's receive loop forever.
	counterTimeout = 5 * time.Second
)

// Client is one live connection: a single user bound to a single
// course room for the lifetime of the socket. Each client runs an
// independent read/write goroutine pair; the registry is the only
// state it shares with other clients.
type Client struct {
	id         string
	conn       *websocket.Conn
	chatServer *ChatServer
	log        *log.Logger
	user       types.User
	courseId   int
	send       chan *ServerMessage
	stop       chan struct{}
	stopOnce   sync.Once
}

func NewClient(id string, user types.User, courseId int, conn *websocket.Conn, cs *ChatServer, l *log.Logger) *Client {
	return &Client{
		id:         id,
		conn:       conn,
		chatServer: cs,
		log:        l,
		user:       user,
		courseId:   courseId,
		send:       make(chan *ServerMessage, 256),
		stop:       make(chan struct{}),
	}
}

func (c *Client) Write() {
	ticker := time.NewTicker(pingInterval)
	defer func() {
		ticker.Stop()
		c.conn.Close()
		c.log.Printf("write pump for session %q exiting", c.id)
	}()

	for {
		select {
		case msg, ok := <-c.send:
			if !ok {
				return
			}

			bytes, err := serializeMessage(msg)
			if err != nil {
				c.log.Println("failed to serialize message:", err)
				continue
			}

			if !c.sendMessage(websocket.TextMessage, bytes) {
				return
			}
		case <-c.stop:
			return
		case <-ticker.C:
			if !c.sendMessage(websocket.PingMessage, nil) {
				return
			}
		}
	}
}

func (c *Client) Read() {
	defer func() {
		c.conn.Close()
		c.cleanup()
		c.log.Printf("read pump for session %q exiting", c.id)
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(appData string) error { c.conn.SetReadDeadline(time.Now().Add(pongWait)); return nil })
	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure,
				websocket.CloseNormalClosure) {
				c.log.Printf("ws: read: %v", err)
			}
			break
		}

		var msg ClientMessage
		if err := json.Unmarshal(raw, &msg); err != nil {
			c.log.Println("error parsing message:", err)
			continue
		}

		c.handleFrame(&msg)
	}
}

// handleFrame drives the per-message pipeline: authorization gate,
// room broadcast, then unread accounting. A frame that fails any stage
// is dropped without closing the connection.
func (c *Client) handleFrame(msg *ClientMessage) {
	if msg.Type != MessageTypeChat {
		c.log.Printf("ignoring frame of type %q from user %d", msg.Type, c.user.Id)
		return
	}

	if msg.Content == "" {
		c.log.Printf("dropping empty chat message from user %d in course %d", c.user.Id, c.courseId)
		return
	}

	sender := msg.Sender
	if sender == 0 {
		sender = c.user.Id
	}

	if !c.chatServer.authorize(sender, c.courseId) {
		return
	}

	out := &ServerMessage{
		Type:      MessageTypeChat,
		Sender:    sender,
		Content:   msg.Content,
		CourseId:  c.courseId,
		Timestamp: Now(),
	}

	c.chatServer.Broadcast(c.courseId, out)

	// unread accounting is best-effort: chat delivery is never blocked
	// on the counter store
	ctx, cancel := context.WithTimeout(context.Background(), counterTimeout)
	defer cancel()
	c.chatServer.recordDelivery(ctx, c.courseId, sender)
}

func (c *Client) queueMessage(msg *ServerMessage) bool {
	select {
	case c.send <- msg:
	default:
		c.log.Printf("dropping message for session %q, send buffer full", c.id)
		return false
	}

	return true
}

func (c *Client) sendMessage(msgType int, msg []byte) bool {
	c.conn.SetWriteDeadline(time.Now().Add(writeWait))

	if err := c.conn.WriteMessage(msgType, msg); err != nil {
		if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure,
			websocket.CloseNormalClosure) {
			c.log.Printf("write message: %s", err)
		}
		return false
	}

	return true
}

func (c *Client) stopClient() {
	c.stopOnce.Do(func() {
		close(c.stop)
	})
}

func (c *Client) cleanup() {
	c.chatServer.Deregister(c)
	c.stopClient()
}
