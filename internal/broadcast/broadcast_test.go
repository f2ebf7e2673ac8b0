package broadcast

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/fayzullarakhmatullayev/cosmo-fox-mini/internal/events"
)

func TestNewBroadcaster(t *testing.T) {
	b := NewBroadcaster()
	if b == nil {
		t.Fatal("NewBroadcaster() returned nil")
	}
}

func TestBroadcaster_SubscribeUnsubscribe(t *testing.T) {
	b := NewBroadcaster()

	ch := b.Subscribe()
	if ch == nil {
		t.Fatal("Subscribe() returned nil")
	}
	if b.Len() != 1 {
		t.Errorf("clients count = %d, want 1", b.Len())
	}

	b.Unsubscribe(ch)

	if b.Len() != 0 {
		t.Errorf("clients count after unsubscribe = %d, want 0", b.Len())
	}
	if _, ok := <-ch; ok {
		t.Error("channel should be closed after unsubscribe")
	}
}

func TestBroadcaster_Broadcast(t *testing.T) {
	b := NewBroadcaster()

	ch1 := b.Subscribe()
	ch2 := b.Subscribe()

	b.Broadcast("test-event", "hello")

	for i, ch := range []chan Message{ch1, ch2} {
		select {
		case msg := <-ch:
			if msg.Event != "test-event" || msg.Data != "hello" {
				t.Errorf("ch%d got %+v, want event=test-event, data=hello", i+1, msg)
			}
		case <-time.After(1 * time.Second):
			t.Fatalf("ch%d timed out", i+1)
		}
	}

	b.Unsubscribe(ch1)
	b.Unsubscribe(ch2)
}

func TestBroadcaster_SkipsFullChannels(t *testing.T) {
	b := NewBroadcaster()

	ch := b.Subscribe()

	// Fill the channel buffer (capacity 10)
	for i := 0; i < 10; i++ {
		b.Broadcast("fill", "data")
	}

	// This should not block even though channel is full
	done := make(chan bool)
	go func() {
		b.Broadcast("overflow", "data")
		done <- true
	}()

	select {
	case <-done:
		// Success - didn't block
	case <-time.After(1 * time.Second):
		t.Fatal("Broadcast blocked on full channel")
	}

	b.Unsubscribe(ch)
}

func TestBroadcaster_PublishOutcome(t *testing.T) {
	b := NewBroadcaster()
	ch := b.Subscribe()
	defer b.Unsubscribe(ch)

	b.PublishOutcome(events.OutcomeEvent{
		SessionID: "s1",
		TargetID:  "tap-1",
		Kind:      "tap",
		Outcome:   "hit",
		Reaction:  640 * time.Millisecond,
	})

	select {
	case msg := <-ch:
		if msg.Event != "outcome" {
			t.Errorf("event = %q, want outcome", msg.Event)
		}
		var got outcomePayload
		if err := json.Unmarshal([]byte(msg.Data), &got); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		if got.Target != "tap-1" || got.Outcome != "hit" || got.ReactionMS != 640 {
			t.Errorf("payload = %+v", got)
		}
	case <-time.After(1 * time.Second):
		t.Fatal("timed out waiting for outcome broadcast")
	}
}
