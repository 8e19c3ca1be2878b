package server

import (
	"context"
	"log"
	"sync"

	"github.com/coursekit/coursechat/internal/membership"
	"github.com/coursekit/coursechat/internal/stats"
	"github.com/coursekit/coursechat/internal/unread"
)

const (
	numActiveClientsMetric      = "NumActiveClients"
	numActiveRoomsMetric        = "NumActiveRooms"
	messagesBroadcastMetric     = "MessagesBroadcast"
	messagesRejectedMetric      = "MessagesRejected"
	counterUpdateFailuresMetric = "CounterUpdateFailures"
)

// ChatServer owns the connection registry and drives the
// authorize/broadcast/account pipeline for every course room. It is an
// explicit service object with its own shutdown so tests can spin up
// isolated instances.
type ChatServer struct {
	log      *log.Logger
	oracle   membership.Oracle
	unread   unread.Store
	notifier Notifier
	stats    stats.StatsProvider
	registry *registry

	// lifecycles tracks running connection pumps so Shutdown can wait
	// for them to drain
	lifecycles sync.WaitGroup

	mu       sync.Mutex
	shutdown bool
}

func NewChatServer(logger *log.Logger, oracle membership.Oracle, unreadStore unread.Store, notifier Notifier, statsProvider stats.StatsProvider) (*ChatServer, error) {
	cs := &ChatServer{
		log:      logger,
		oracle:   oracle,
		unread:   unreadStore,
		notifier: notifier,
		stats:    statsProvider,
		registry: newRegistry(),
	}

	cs.stats.RegisterMetric(numActiveClientsMetric)
	cs.stats.RegisterMetric(numActiveRoomsMetric)
	cs.stats.RegisterMetric(messagesBroadcastMetric)
	cs.stats.RegisterMetric(messagesRejectedMetric)
	cs.stats.RegisterMetric(counterUpdateFailuresMetric)

	return cs, nil
}

// HandleConnection registers an authenticated, authorized connection
// in its course room and starts its read/write pumps. The read pump's
// exit path deregisters the connection on every kind of termination.
func (cs *ChatServer) HandleConnection(c *Client) {
	cs.mu.Lock()
	if cs.shutdown {
		cs.mu.Unlock()
		c.conn.Close()
		return
	}
	cs.mu.Unlock()

	cs.Register(c)

	go c.Write()
	go c.Read()
}

func (cs *ChatServer) Register(c *Client) {
	cs.lifecycles.Add(1)
	created := cs.registry.add(c.courseId, c)

	cs.stats.Incr(numActiveClientsMetric)
	if created {
		cs.stats.Incr(numActiveRoomsMetric)
	}

	cs.log.Printf("user %d connected to course %d (session %q)", c.user.Id, c.courseId, c.id)
}

func (cs *ChatServer) Deregister(c *Client) {
	emptied := cs.registry.remove(c.courseId, c)

	cs.stats.Decr(numActiveClientsMetric)
	if emptied {
		cs.stats.Decr(numActiveRoomsMetric)
	}

	cs.log.Printf("user %d disconnected from course %d (session %q)", c.user.Id, c.courseId, c.id)
	cs.lifecycles.Done()
}

// authorize re-derives the sender's permission from the membership
// oracle at send time. An oracle failure denies the message rather
// than letting an unverified sender through.
func (cs *ChatServer) authorize(senderId, courseId int) bool {
	role, err := cs.oracle.IsMember(context.Background(), senderId, courseId)
	if err != nil {
		cs.log.Printf("authorize user %d in course %d: %v", senderId, courseId, err)
		cs.stats.Incr(messagesRejectedMetric)
		return false
	}

	if !role.Member() {
		cs.log.Printf("unauthorized message from user %d in course %d", senderId, courseId)
		cs.stats.Incr(messagesRejectedMetric)
		return false
	}

	return true
}

// Broadcast delivers the message to every connection present in the
// course room at call time. Delivery to each connection is isolated: a
// full or broken peer never aborts delivery to the rest.
func (cs *ChatServer) Broadcast(courseId int, msg *ServerMessage) {
	if msg.Timestamp.IsZero() {
		msg.Timestamp = Now()
	}

	clients := cs.registry.snapshot(courseId)
	for _, client := range clients {
		client.queueMessage(msg)
	}

	cs.stats.Incr(messagesBroadcastMetric)
	cs.notifier.ChatDelivered(courseId, msg)
	cs.log.Printf("broadcast message from user %d to %d connections in course %d", msg.Sender, len(clients), courseId)
}

// recordDelivery updates unread counters for the course's enrolled
// users. Failures are logged and counted, never surfaced to a user.
func (cs *ChatServer) recordDelivery(ctx context.Context, courseId, senderId int) {
	if err := cs.unread.RecordDelivery(ctx, courseId, senderId); err != nil {
		cs.log.Printf("record delivery for course %d: %v", courseId, err)
		cs.stats.Incr(counterUpdateFailuresMetric)
	}
}

// RoomSize reports the number of live connections in a course room.
func (cs *ChatServer) RoomSize(courseId int) int {
	return cs.registry.roomSize(courseId)
}

// Shutdown stops accepting connections, closes every live connection
// and waits for their lifecycles to drain or the context to expire.
func (cs *ChatServer) Shutdown(ctx context.Context) error {
	cs.mu.Lock()
	cs.shutdown = true
	cs.mu.Unlock()

	for _, c := range cs.registry.allClients() {
		c.stopClient()
		c.conn.Close()
	}

	done := make(chan struct{})
	go func() {
		cs.lifecycles.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
