package server

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_registry_add_remove(t *testing.T) {
	r := newRegistry()

	c1 := &Client{courseId: 42}
	c2 := &Client{courseId: 42}

	created := r.add(42, c1)
	assert.True(t, created, "expected first add to create the room")
	created = r.add(42, c2)
	assert.False(t, created, "expected second add to reuse the room")
	assert.Equal(t, 2, r.roomSize(42), "expected 2 connections in room")

	emptied := r.remove(42, c1)
	assert.False(t, emptied, "expected room to survive while a connection remains")
	assert.False(t, r.contains(42, c1), "expected removed connection to be absent")
	assert.True(t, r.contains(42, c2), "expected remaining connection to be present")

	emptied = r.remove(42, c2)
	assert.True(t, emptied, "expected room to be dropped with its last connection")
	assert.Equal(t, 0, r.roomSize(42), "expected empty room to read as size 0")
}

func Test_registry_remove_idempotent(t *testing.T) {
	r := newRegistry()
	c := &Client{courseId: 42}

	assert.NotPanics(t, func() {
		r.remove(42, c)
	}, "expected removing an unregistered connection to be a no-op")

	r.add(42, c)
	r.remove(42, c)
	assert.False(t, r.remove(42, c), "expected second remove to be a no-op")
}

func Test_registry_snapshot(t *testing.T) {
	r := newRegistry()

	assert.Nil(t, r.snapshot(42), "expected snapshot of a missing room to be empty")

	c1 := &Client{courseId: 42}
	c2 := &Client{courseId: 42}
	other := &Client{courseId: 7}
	r.add(42, c1)
	r.add(42, c2)
	r.add(7, other)

	snap := r.snapshot(42)
	assert.Len(t, snap, 2, "expected snapshot to contain both connections")
	assert.Contains(t, snap, c1)
	assert.Contains(t, snap, c2)
	assert.NotContains(t, snap, other, "expected snapshot to be scoped to the room")

	// mutations after the snapshot must not affect it
	r.remove(42, c1)
	assert.Len(t, snap, 2, "expected snapshot to be a point-in-time copy")
}

func Test_registry_concurrent(t *testing.T) {
	r := newRegistry()

	const numClients = 64
	clients := make([]*Client, numClients)
	for i := range clients {
		clients[i] = &Client{courseId: 42}
	}

	var wg sync.WaitGroup
	for _, c := range clients {
		wg.Add(1)
		go func(c *Client) {
			defer wg.Done()
			r.add(42, c)
			r.snapshot(42)
			r.remove(42, c)
		}(c)
	}
	wg.Wait()

	assert.Equal(t, 0, r.roomSize(42), "expected all connections to be removed")
}

func Test_registry_allClients(t *testing.T) {
	r := newRegistry()
	c1 := &Client{courseId: 42}
	c2 := &Client{courseId: 7}
	r.add(42, c1)
	r.add(7, c2)

	all := r.allClients()
	assert.Len(t, all, 2, "expected all connections across rooms")
	assert.Contains(t, all, c1)
	assert.Contains(t, all, c2)
}
