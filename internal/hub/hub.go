package hub

import (
	"errors"
	"log/slog"
	"sync"

	"github.com/devaloi/msgboard/internal/domain"
)

var (
	// ErrTooManyTables rejects a subscription that would open a table past the limit.
	ErrTooManyTables = errors.New("max subscribed tables reached")
	// ErrStopped is returned by Subscribe once the hub has stopped.
	ErrStopped = errors.New("hub stopped")
)

// SubscribeRequest asks the hub to subscribe a client to a table.
type SubscribeRequest struct {
	Client Client
	Table  string
	result chan error
}

// UnsubscribeRequest asks the hub to remove a client from a table.
type UnsubscribeRequest struct {
	Client Client
	Table  string
}

// PublishRequest announces a newly created record.
type PublishRequest struct {
	Table  string
	Record domain.Record
}

// Hub manages per-table subscriber rooms and routes created notifications.
type Hub struct {
	rooms       map[string]*Room
	mu          sync.RWMutex
	subscribe   chan SubscribeRequest
	unsubscribe chan UnsubscribeRequest
	publish     chan PublishRequest
	maxTables   int
	log         *slog.Logger
	quit        chan struct{}
}

// New creates a new Hub.
func New(maxTables int, log *slog.Logger) *Hub {
	return &Hub{
		rooms:       make(map[string]*Room),
		subscribe:   make(chan SubscribeRequest, 256),
		unsubscribe: make(chan UnsubscribeRequest, 256),
		publish:     make(chan PublishRequest, 256),
		maxTables:   maxTables,
		log:         log,
		quit:        make(chan struct{}),
	}
}

// Run starts the hub's main event loop. Should be called as a goroutine.
func (h *Hub) Run() {
	for {
		select {
		case req := <-h.subscribe:
			h.handleSubscribe(req)
		case req := <-h.unsubscribe:
			h.handleUnsubscribe(req)
		case req := <-h.publish:
			h.handlePublish(req)
		case <-h.quit:
			return
		}
	}
}

// Stop signals the hub's event loop to exit and stops all rooms.
func (h *Hub) Stop() {
	close(h.quit)
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, r := range h.rooms {
		r.Stop()
	}
}

// Subscribe asks the hub to subscribe client to table and waits for the answer.
// A rejected client also receives an error frame.
func (h *Hub) Subscribe(client Client, table string) error {
	req := SubscribeRequest{Client: client, Table: table, result: make(chan error, 1)}
	select {
	case h.subscribe <- req:
	case <-h.quit:
		return ErrStopped
	}
	select {
	case err := <-req.result:
		return err
	case <-h.quit:
		return ErrStopped
	}
}

// Unsubscribe queues an unsubscription request.
func (h *Hub) Unsubscribe(client Client, table string) {
	h.unsubscribe <- UnsubscribeRequest{Client: client, Table: table}
}

// Publish queues a created notification. It never blocks the caller for long:
// a full queue drops the notification, subscribers recover on their next refresh.
func (h *Hub) Publish(table string, rec domain.Record) {
	select {
	case h.publish <- PublishRequest{Table: table, Record: rec}:
	default:
		h.log.Warn("Publish queue full, dropping notification", "table", table, "id", rec.ID)
	}
}

// ListTables returns the tables with live subscribers.
func (h *Hub) ListTables() []domain.Table {
	h.mu.RLock()
	defer h.mu.RUnlock()
	tables := make([]domain.Table, 0, len(h.rooms))
	for _, r := range h.rooms {
		tables = append(tables, domain.Table{
			Name:        r.Table(),
			Subscribers: r.ClientCount(),
		})
	}
	return tables
}

// TableInfo returns subscriber details for a table, or nil if nobody listens to it.
func (h *Hub) TableInfo(name string) *domain.Table {
	h.mu.RLock()
	defer h.mu.RUnlock()
	r, ok := h.rooms[name]
	if !ok {
		return nil
	}
	return &domain.Table{
		Name:        r.Table(),
		Subscribers: r.ClientCount(),
	}
}

func (h *Hub) handleSubscribe(req SubscribeRequest) {
	h.mu.Lock()
	r, ok := h.rooms[req.Table]
	if !ok {
		if len(h.rooms) >= h.maxTables {
			h.mu.Unlock()
			errFrame := domain.ErrorFrame{Type: domain.FrameError, Message: ErrTooManyTables.Error()}
			if data, err := domain.Encode(errFrame); err == nil {
				req.Client.Send(data)
			}
			req.reply(ErrTooManyTables)
			return
		}
		r = NewRoom(req.Table)
		h.rooms[req.Table] = r
		go r.Run()
		h.log.Debug("Room created", "table", req.Table)
	}
	h.mu.Unlock()
	r.Join(req.Client)
	req.reply(nil)
}

func (req SubscribeRequest) reply(err error) {
	if req.result != nil {
		req.result <- err
	}
}

func (h *Hub) handleUnsubscribe(req UnsubscribeRequest) {
	h.mu.Lock()
	r, ok := h.rooms[req.Table]
	if !ok {
		h.mu.Unlock()
		return
	}
	h.mu.Unlock()

	r.Leave(req.Client)

	// Auto-cleanup empty rooms.
	if r.ClientCount() == 0 {
		h.mu.Lock()
		// Double-check after acquiring write lock.
		if r.ClientCount() == 0 {
			r.Stop()
			delete(h.rooms, req.Table)
			h.log.Debug("Room deleted", "table", req.Table)
		}
		h.mu.Unlock()
	}
}

func (h *Hub) handlePublish(req PublishRequest) {
	h.mu.RLock()
	r, ok := h.rooms[req.Table]
	h.mu.RUnlock()
	if !ok {
		return
	}

	rec := req.Record
	frame := domain.Frame{Type: domain.FrameCreated, Table: req.Table, Record: &rec}
	if data, err := domain.Encode(frame); err == nil {
		r.Broadcast(data)
	}
}
