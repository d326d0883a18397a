package hub

import (
	"sync"
)

// Client is the interface that hub/room expects from a subscriber connection.
type Client interface {
	Username() string
	Send(data []byte)
}

// Room holds the subscribers of one table and fans notifications out to them.
type Room struct {
	table     string
	clients   map[Client]bool
	mu        sync.RWMutex
	broadcast chan []byte
	quit      chan struct{}
}

// NewRoom creates a new room for the given table.
func NewRoom(table string) *Room {
	return &Room{
		table:     table,
		clients:   make(map[Client]bool),
		broadcast: make(chan []byte, 256),
		quit:      make(chan struct{}),
	}
}

// Run starts the room's broadcast loop. Should be called as a goroutine.
func (r *Room) Run() {
	for {
		select {
		case msg := <-r.broadcast:
			r.mu.RLock()
			for c := range r.clients {
				c.Send(msg)
			}
			r.mu.RUnlock()
		case <-r.quit:
			return
		}
	}
}

// Stop signals the room's broadcast loop to exit.
func (r *Room) Stop() {
	close(r.quit)
}

// Join adds a subscriber.
func (r *Room) Join(c Client) {
	r.mu.Lock()
	r.clients[c] = true
	r.mu.Unlock()
}

// Leave removes a subscriber.
func (r *Room) Leave(c Client) {
	r.mu.Lock()
	delete(r.clients, c)
	r.mu.Unlock()
}

// Broadcast sends a raw JSON frame to all subscribers.
func (r *Room) Broadcast(data []byte) {
	select {
	case r.broadcast <- data:
	case <-r.quit:
	}
}

// ClientCount returns the number of subscribers.
func (r *Room) ClientCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.clients)
}

// Table returns the table name.
func (r *Room) Table() string {
	return r.table
}

// Users returns the usernames of the subscribers.
func (r *Room) Users() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	users := make([]string, 0, len(r.clients))
	for c := range r.clients {
		users = append(users, c.Username())
	}
	return users
}
