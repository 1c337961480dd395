package websocket

import (
	"encoding/json"
	"testing"
	"time"
)

func newTestClient(hub *Hub, userID string) *Client {
	return &Client{
		UserID: userID,
		hub:    hub,
		send:   make(chan []byte, 16),
		tables: make(map[string]bool),
	}
}

func receiveEvent(t *testing.T, c *Client) ChangeEvent {
	t.Helper()
	select {
	case data := <-c.send:
		var event ChangeEvent
		if err := json.Unmarshal(data, &event); err != nil {
			t.Fatalf("failed to decode event: %v", err)
		}
		return event
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for event")
		return ChangeEvent{}
	}
}

// TestHubDeliversToSubscribedTables verifies an event only reaches clients
// subscribed to its table.
func TestHubDeliversToSubscribedTables(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	deviceWatcher := newTestClient(hub, "devices-watcher")
	routeWatcher := newTestClient(hub, "routes-watcher")
	hub.register <- deviceWatcher
	hub.register <- routeWatcher

	hub.subscriptions <- subscription{client: deviceWatcher, tables: []string{"devices"}, active: true}
	hub.subscriptions <- subscription{client: routeWatcher, tables: []string{"routes"}, active: true}

	hub.Publish("devices", EventUpdate, map[string]int64{"unique_id": 1001})

	event := receiveEvent(t, deviceWatcher)
	if event.Table != "devices" || event.Type != EventUpdate {
		t.Errorf("unexpected event: %+v", event)
	}

	select {
	case data := <-routeWatcher.send:
		t.Errorf("routes watcher received foreign event: %s", data)
	case <-time.After(100 * time.Millisecond):
	}
}

// TestHubUnsubscribeStopsDelivery checks the unsubscribe path.
func TestHubUnsubscribeStopsDelivery(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	client := newTestClient(hub, "watcher")
	hub.register <- client
	hub.subscriptions <- subscription{client: client, tables: []string{"historical"}, active: true}

	hub.Publish("historical", EventInsert, nil)
	receiveEvent(t, client)

	hub.subscriptions <- subscription{client: client, tables: []string{"historical"}, active: false}
	hub.Publish("historical", EventInsert, nil)

	select {
	case data := <-client.send:
		t.Errorf("received event after unsubscribe: %s", data)
	case <-time.After(100 * time.Millisecond):
	}
}

// TestHubUnregisterClosesSend confirms the hub closes the send channel on
// unregister and drops the client from the count.
func TestHubUnregisterClosesSend(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	client := newTestClient(hub, "leaver")
	hub.register <- client
	hub.unregister <- client

	select {
	case _, ok := <-client.send:
		if ok {
			t.Error("expected send channel to be closed")
		}
	case <-time.After(time.Second):
		t.Fatal("send channel not closed after unregister")
	}

	if n := hub.ClientCount(); n != 0 {
		t.Errorf("expected 0 clients after unregister, got %d", n)
	}
}
