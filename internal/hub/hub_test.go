package hub

import (
	"encoding/json"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/mama165/sdk-go/logs"

	"github.com/devaloi/msgboard/internal/domain"
	"github.com/devaloi/msgboard/internal/testutil"
)

func newTestHub(t *testing.T, maxTables int) *Hub {
	t.Helper()
	h := New(maxTables, logs.GetLoggerFromLevel(slog.LevelDebug))
	go h.Run()
	t.Cleanup(h.Stop)
	return h
}

func TestHubSubscribeCreatesRoom(t *testing.T) {
	t.Parallel()
	h := newTestHub(t, 100)

	h.Subscribe(testutil.NewMockClient("alice"), "Message")
	time.Sleep(100 * time.Millisecond)

	tables := h.ListTables()
	if len(tables) != 1 {
		t.Fatalf("expected 1 table, got %d", len(tables))
	}
	if tables[0].Name != "Message" {
		t.Errorf("expected table 'Message', got %q", tables[0].Name)
	}
}

func TestHubTableInfo(t *testing.T) {
	t.Parallel()
	h := newTestHub(t, 100)

	h.Subscribe(testutil.NewMockClient("alice"), "Message")
	time.Sleep(100 * time.Millisecond)

	info := h.TableInfo("Message")
	if info == nil {
		t.Fatal("expected table info, got nil")
	}
	if info.Subscribers != 1 {
		t.Errorf("expected 1 subscriber, got %d", info.Subscribers)
	}
	if h.TableInfo("nonexistent") != nil {
		t.Error("expected nil for nonexistent table")
	}
}

func TestHubPublish(t *testing.T) {
	t.Parallel()
	h := newTestHub(t, 100)

	c1 := testutil.NewMockClient("alice")
	c2 := testutil.NewMockClient("bob")
	other := testutil.NewMockClient("charlie")
	h.Subscribe(c1, "Message")
	h.Subscribe(c2, "Message")
	h.Subscribe(other, "Note")
	time.Sleep(100 * time.Millisecond)

	h.Publish("Message", domain.Record{ID: "a1", Text: domain.SomeText("hello")})
	time.Sleep(100 * time.Millisecond)

	for _, c := range []*testutil.MockClient{c1, c2} {
		found := false
		for _, m := range c.GetMessages() {
			var f domain.Frame
			if err := json.Unmarshal(m, &f); err == nil && f.Type == domain.FrameCreated && f.Record != nil && f.Record.ID == "a1" {
				found = true
			}
		}
		if !found {
			t.Errorf("client %s did not receive created frame", c.Name)
		}
	}
	if len(other.GetMessages()) != 0 {
		t.Error("subscriber of another table should not be notified")
	}
}

func TestHubAutoCleanup(t *testing.T) {
	t.Parallel()
	h := newTestHub(t, 100)

	c := testutil.NewMockClient("alice")
	h.Subscribe(c, "temp")
	time.Sleep(100 * time.Millisecond)

	if len(h.ListTables()) != 1 {
		t.Fatal("expected 1 table")
	}

	h.Unsubscribe(c, "temp")
	time.Sleep(100 * time.Millisecond)

	if len(h.ListTables()) != 0 {
		t.Error("expected room to be auto-deleted")
	}
}

func TestHubMaxTables(t *testing.T) {
	t.Parallel()
	h := newTestHub(t, 2)

	c3 := testutil.NewMockClient("charlie")
	h.Subscribe(testutil.NewMockClient("alice"), "t1")
	h.Subscribe(testutil.NewMockClient("bob"), "t2")
	time.Sleep(100 * time.Millisecond)

	if err := h.Subscribe(c3, "t3"); !errors.Is(err, ErrTooManyTables) {
		t.Errorf("expected ErrTooManyTables, got %v", err)
	}

	if len(h.ListTables()) != 2 {
		t.Errorf("expected 2 tables (max), got %d", len(h.ListTables()))
	}

	found := false
	for _, m := range c3.GetMessages() {
		var ef domain.ErrorFrame
		if err := json.Unmarshal(m, &ef); err == nil && ef.Type == domain.FrameError {
			found = true
		}
	}
	if !found {
		t.Error("expected error frame for max tables")
	}
}
