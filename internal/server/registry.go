package server

import (
	"sync"
)

// registry maps a course id to the set of live connections subscribed
// to that course's room. Rooms are created lazily on the first add and
// removed when their last connection leaves; a missing room reads as
// an empty set. Snapshots are copied out so the broadcaster never
// holds the lock across a fan-out.
type registry struct {
	mu    sync.RWMutex
	rooms map[int]map[*Client]struct{}
}

func newRegistry() *registry {
	return &registry{
		rooms: make(map[int]map[*Client]struct{}),
	}
}

// add registers the connection under courseId and reports whether the
// room was created by this call.
func (r *registry) add(courseId int, c *Client) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	room, ok := r.rooms[courseId]
	if !ok {
		room = make(map[*Client]struct{})
		r.rooms[courseId] = room
	}
	room[c] = struct{}{}

	return !ok
}

// remove deregisters the connection. It is idempotent and reports
// whether the room was emptied and dropped by this call.
func (r *registry) remove(courseId int, c *Client) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	room, ok := r.rooms[courseId]
	if !ok {
		return false
	}

	delete(room, c)
	if len(room) == 0 {
		delete(r.rooms, courseId)
		return true
	}

	return false
}

// snapshot returns a point-in-time copy of the room's connection set.
func (r *registry) snapshot(courseId int) []*Client {
	r.mu.RLock()
	defer r.mu.RUnlock()

	room := r.rooms[courseId]
	if len(room) == 0 {
		return nil
	}

	clients := make([]*Client, 0, len(room))
	for c := range room {
		clients = append(clients, c)
	}

	return clients
}

// contains reports whether the connection is registered under courseId.
func (r *registry) contains(courseId int, c *Client) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.rooms[courseId][c]
	return ok
}

func (r *registry) roomSize(courseId int) int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.rooms[courseId])
}

// allClients returns a copy of every registered connection across all
// rooms, used during shutdown.
func (r *registry) allClients() []*Client {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var clients []*Client
	for _, room := range r.rooms {
		for c := range room {
			clients = append(clients, c)
		}
	}

	return clients
}
