package websocket

import (
	"encoding/json"
	"log/slog"
	"sync"
	"testing"
	"time"
)

// mockClient creates a Client with a send channel but no real connection.
func mockClient(hub *Hub, entities ...string) *Client {
	return NewClient(hub, nil, entities...)
}

func TestRegisterUnregister(t *testing.T) {
	hub := NewHub(slog.Default())

	c1 := mockClient(hub)
	c2 := mockClient(hub)

	hub.Register(c1)
	hub.Register(c2)

	if got := hub.ClientCount(); got != 2 {
		t.Fatalf("expected 2 clients, got %d", got)
	}

	hub.Unregister(c1)

	if got := hub.ClientCount(); got != 1 {
		t.Fatalf("expected 1 client after unregister, got %d", got)
	}

	hub.Unregister(c2)

	if got := hub.ClientCount(); got != 0 {
		t.Fatalf("expected 0 clients, got %d", got)
	}
}

func TestDoubleUnregister(t *testing.T) {
	hub := NewHub(slog.Default())
	c := mockClient(hub)
	hub.Register(c)
	hub.Unregister(c)
	// Should not panic
	hub.Unregister(c)

	if got := hub.ClientCount(); got != 0 {
		t.Fatalf("expected 0 clients, got %d", got)
	}
}

func TestBroadcast(t *testing.T) {
	hub := NewHub(slog.Default())

	c1 := mockClient(hub)
	c2 := mockClient(hub)
	hub.Register(c1)
	hub.Register(c2)

	msg := NewMessage(EntityShoppingItem, ActionCreated, 42, map[string]any{"list_id": float64(1)})
	hub.Broadcast(msg)

	// Check both clients received the message
	for _, c := range []*Client{c1, c2} {
		select {
		case data := <-c.send:
			var got Message
			if err := json.Unmarshal(data, &got); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}
			if got.Type != "shopping_item_created" {
				t.Errorf("expected type shopping_item_created, got %s", got.Type)
			}
			if got.Entity != EntityShoppingItem {
				t.Errorf("expected entity shopping_item, got %s", got.Entity)
			}
			if got.ID != 42 {
				t.Errorf("expected id 42, got %d", got.ID)
			}
		case <-time.After(100 * time.Millisecond):
			t.Fatal("timeout waiting for message")
		}
	}

	hub.Unregister(c1)
	hub.Unregister(c2)
}

func TestBroadcastEmptyHub(t *testing.T) {
	hub := NewHub(slog.Default())
	// Should not panic
	msg := NewMessage(EntityMealPlan, ActionDeleted, 1, nil)
	hub.Broadcast(msg)
}

func TestBroadcastFullBuffer(t *testing.T) {
	hub := NewHub(slog.Default())

	c := mockClient(hub)
	hub.Register(c)

	// Fill the send buffer
	for i := 0; i < sendBufferSize; i++ {
		hub.Broadcast(NewMessage("test", "fill", int64(i), nil))
	}

	// This should drop the message, not panic or block
	hub.Broadcast(NewMessage("test", "dropped", 999, nil))

	// Drain to verify buffer was full
	count := 0
	for {
		select {
		case <-c.send:
			count++
		default:
			goto done
		}
	}
done:
	if count != sendBufferSize {
		t.Errorf("expected %d messages, got %d", sendBufferSize, count)
	}

	hub.Unregister(c)
}

func TestNewMessage(t *testing.T) {
	msg := NewMessage(EntityShoppingList, ActionGenerated, 5, nil)
	if msg.Type != "shopping_list_generated" {
		t.Errorf("expected type shopping_list_generated, got %s", msg.Type)
	}
	if msg.Entity != EntityShoppingList {
		t.Errorf("expected entity shopping_list, got %s", msg.Entity)
	}
	if msg.Action != ActionGenerated {
		t.Errorf("expected action generated, got %s", msg.Action)
	}
	if msg.ID != 5 {
		t.Errorf("expected id 5, got %d", msg.ID)
	}
}

func TestConcurrentAccess(t *testing.T) {
	hub := NewHub(slog.Default())
	var wg sync.WaitGroup

	// Spawn goroutines that register, broadcast, and unregister concurrently
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c := mockClient(hub)
			hub.Register(c)
			hub.Broadcast(NewMessage("test", "concurrent", 0, nil))
			// Drain any messages
			for {
				select {
				case <-c.send:
				default:
					hub.Unregister(c)
					return
				}
			}
		}()
	}

	wg.Wait()

	if got := hub.ClientCount(); got != 0 {
		t.Errorf("expected 0 clients after concurrent test, got %d", got)
	}
}

func TestClose(t *testing.T) {
	hub := NewHub(slog.Default())
	c1 := mockClient(hub)
	c2 := mockClient(hub)
	hub.Register(c1)
	hub.Register(c2)

	hub.Close()

	if got := hub.ClientCount(); got != 0 {
		t.Fatalf("expected 0 clients after close, got %d", got)
	}
	for _, c := range []*Client{c1, c2} {
		if _, ok := <-c.send; ok {
			t.Error("expected send channel to be closed")
		}
	}
	// Unregister after Close must not double-close.
	hub.Unregister(c1)
}

func TestBroadcastEntityFilter(t *testing.T) {
	hub := NewHub(slog.Default())
	all := mockClient(hub)
	shopping := mockClient(hub, EntityShoppingList, " "+EntityShoppingItem)
	hub.Register(all)
	hub.Register(shopping)

	hub.Broadcast(NewMessage(EntityMeal, ActionCreated, 1, nil))
	hub.Broadcast(NewMessage(EntityShoppingItem, ActionToggled, 2, nil))

	if got := len(all.send); got != 2 {
		t.Errorf("unfiltered client got %d messages, want 2", got)
	}
	if got := len(shopping.send); got != 1 {
		t.Fatalf("filtered client got %d messages, want 1", got)
	}
	var msg Message
	if err := json.Unmarshal(<-shopping.send, &msg); err != nil {
		t.Fatal(err)
	}
	if msg.Type != "shopping_item_toggled" {
		t.Errorf("filtered client got %q", msg.Type)
	}
}
