package testutil

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/devaloi/msgboard/internal/domain"
)

// MockClient implements hub.Client for testing.
type MockClient struct {
	Name     string
	messages [][]byte
	mu       sync.Mutex
}

// NewMockClient creates a new MockClient with the given name.
func NewMockClient(name string) *MockClient {
	return &MockClient{Name: name}
}

// Username returns the mock client's name.
func (m *MockClient) Username() string { return m.Name }

// Send records a message sent to the mock client.
func (m *MockClient) Send(data []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := make([]byte, len(data))
	copy(cp, data)
	m.messages = append(m.messages, cp)
}

// GetMessages returns a copy of all messages received by the mock client.
func (m *MockClient) GetMessages() [][]byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := make([][]byte, len(m.messages))
	copy(cp, m.messages)
	return cp
}

// MockStore implements store.Store in memory.
type MockStore struct {
	mu      sync.Mutex
	objects map[string][]domain.Record
	// Err, when set, is returned by every call.
	Err error
}

// NewMockStore creates a new MockStore.
func NewMockStore() *MockStore {
	return &MockStore{objects: make(map[string][]domain.Record)}
}

// Create appends a record to the table.
func (s *MockStore) Create(_ context.Context, table string, fields domain.Fields) (domain.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return domain.Record{}, s.Err
	}
	rec := domain.Record{ID: uuid.NewString(), Text: fields.Text, CreatedAt: time.Now().UTC()}
	s.objects[table] = append(s.objects[table], rec)
	return rec, nil
}

// QueryAll returns a copy of the table.
func (s *MockStore) QueryAll(_ context.Context, table string) ([]domain.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	recs := make([]domain.Record, len(s.objects[table]))
	copy(recs, s.objects[table])
	return recs, nil
}

// Close is a no-op for the mock store.
func (s *MockStore) Close() error { return nil }
