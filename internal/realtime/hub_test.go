package realtime_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"go.uber.org/goleak"

	"github.com/Windi-Fikriyansyah/devhire_be/internal/realtime"
)

func TestMain(m *testing.M) {
	// the hub owns goroutines; every test must leave none behind
	goleak.VerifyTestMain(m)
}

func startHub(t *testing.T) (*realtime.Hub, func()) {
	t.Helper()
	hub := realtime.NewHub(nil)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		hub.Run(ctx)
		close(done)
	}()
	return hub, func() {
		cancel()
		<-done
	}
}

func waitConnected(t *testing.T, hub *realtime.Hub, userID uuid.UUID, want int) {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for hub.Connected(userID) != want {
		if time.Now().After(deadline) {
			t.Fatalf("Connected(%s) = %d, want %d", userID, hub.Connected(userID), want)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestPublishWithoutRedisDeliversLocally(t *testing.T) {
	hub, stop := startHub(t)
	defer stop()

	alice, bob := uuid.New(), uuid.New()
	ca := realtime.NewClient(alice, nil)
	cb := realtime.NewClient(bob, nil)
	hub.RegisterClient(ca)
	hub.RegisterClient(cb)
	waitConnected(t, hub, alice, 1)
	waitConnected(t, hub, bob, 1)

	if err := hub.Publish(context.Background(), alice, map[string]string{"type": "notification"}); err != nil {
		t.Fatalf("Publish: %v", err)
	}

	select {
	case msg := <-ca.Send:
		var got map[string]string
		if err := json.Unmarshal(msg, &got); err != nil || got["type"] != "notification" {
			t.Fatalf("unexpected payload %s", msg)
		}
	case <-time.After(time.Second):
		t.Fatal("alice got nothing")
	}

	select {
	case msg := <-cb.Send:
		t.Fatalf("bob must not receive alice's event: %s", msg)
	default:
	}
}

func TestUnregisterClosesSend(t *testing.T) {
	hub, stop := startHub(t)
	defer stop()

	user := uuid.New()
	c := realtime.NewClient(user, nil)
	hub.RegisterClient(c)
	waitConnected(t, hub, user, 1)

	hub.UnregisterClient(c)
	waitConnected(t, hub, user, 0)

	if _, ok := <-c.Send; ok {
		t.Fatal("Send should be closed after unregister")
	}
}

func TestStopClosesClientsAndUnblocksCallers(t *testing.T) {
	hub, stop := startHub(t)

	user := uuid.New()
	c := realtime.NewClient(user, nil)
	hub.RegisterClient(c)
	waitConnected(t, hub, user, 1)

	stop()

	if _, ok := <-c.Send; ok {
		t.Fatal("Send should be closed when the hub stops")
	}
	// must not block once Run has returned
	hub.UnregisterClient(c)
	late := realtime.NewClient(user, nil)
	hub.RegisterClient(late)
	if _, ok := <-late.Send; ok {
		t.Fatal("late client should be closed immediately")
	}
}
