package realtime

import (
	"encoding/json"
	"sync"
	"testing"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/dulhara79/Nexora-sub000/internal/models"
)

func newTestClient(userID uuid.UUID, buffer int) *Client {
	return &Client{
		ID:     uuid.New().String(),
		UserID: userID,
		send:   make(chan WSMessage, buffer),
	}
}

func TestSendToRegisteredUser(t *testing.T) {
	hub := NewHub(zap.NewNop())
	userID := uuid.New()
	client := newTestClient(userID, 4)
	hub.Register(client)

	if !hub.SendToUser(userID, "notification_read", map[string]string{"id": "x"}) {
		t.Fatal("send to a connected user must succeed")
	}
	msg := <-client.send
	if msg.Event != "notification_read" {
		t.Fatalf("unexpected event %q", msg.Event)
	}
}

func TestSendToDisconnectedUser(t *testing.T) {
	hub := NewHub(zap.NewNop())
	if hub.SendToUser(uuid.New(), "notification", nil) {
		t.Fatal("send to an unknown user must report false")
	}
}

func TestDeliverWrapsNotification(t *testing.T) {
	hub := NewHub(zap.NewNop())
	userID := uuid.New()
	client := newTestClient(userID, 4)
	hub.Register(client)

	n := &models.Notification{ID: uuid.New(), RecipientID: userID, Message: "hello", Type: models.NotifComment}
	hub.Deliver(n)

	msg := <-client.send
	if msg.Event != "notification" {
		t.Fatalf("expected notification envelope, got %q", msg.Event)
	}
	var got models.Notification
	if err := json.Unmarshal(msg.Data, &got); err != nil {
		t.Fatalf("unmarshal payload: %v", err)
	}
	if got.ID != n.ID || got.Message != "hello" {
		t.Fatalf("unexpected payload %+v", got)
	}
}

func TestRegisterSupersedesPreviousConnection(t *testing.T) {
	hub := NewHub(zap.NewNop())
	userID := uuid.New()
	first := newTestClient(userID, 4)
	second := newTestClient(userID, 4)

	hub.Register(first)
	hub.Register(second)

	if !hub.SendToUser(userID, "ping", nil) {
		t.Fatal("send after supersede must succeed")
	}
	select {
	case <-second.send:
	default:
		t.Fatal("message must land on the newest connection")
	}
	select {
	case <-first.send:
		t.Fatal("superseded connection must not receive messages")
	default:
	}
}

func TestStaleUnregisterKeepsReplacement(t *testing.T) {
	hub := NewHub(zap.NewNop())
	userID := uuid.New()
	first := newTestClient(userID, 4)
	second := newTestClient(userID, 4)

	hub.Register(first)
	hub.Register(second)
	// the superseded connection's read pump shuts down late
	hub.Unregister(first)

	if !hub.Connected(userID) {
		t.Fatal("stale unregister must not evict the current connection")
	}
	hub.Unregister(second)
	if hub.Connected(userID) {
		t.Fatal("current connection unregister must disconnect the user")
	}
}

func TestFullBufferDropsMessage(t *testing.T) {
	hub := NewHub(zap.NewNop())
	userID := uuid.New()
	client := newTestClient(userID, 1)
	hub.Register(client)

	if !hub.SendToUser(userID, "a", nil) {
		t.Fatal("first send must succeed")
	}
	if hub.SendToUser(userID, "b", nil) {
		t.Fatal("send into a full buffer must drop and report false")
	}
}

func TestConcurrentSends(t *testing.T) {
	hub := NewHub(zap.NewNop())
	userID := uuid.New()
	client := newTestClient(userID, 256)
	hub.Register(client)

	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			hub.SendToUser(userID, "burst", nil)
		}()
	}
	wg.Wait()

	if len(client.send) != 32 {
		t.Fatalf("expected 32 buffered messages, got %d", len(client.send))
	}
}
