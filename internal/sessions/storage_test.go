package sessions

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/fayzullarakhmatullayev/cosmo-fox-mini/internal/game"
	"github.com/fayzullarakhmatullayev/cosmo-fox-mini/internal/host"
	"github.com/fayzullarakhmatullayev/cosmo-fox-mini/internal/profile"
	"github.com/fayzullarakhmatullayev/cosmo-fox-mini/internal/wshub"
)

type sink struct {
	mu   sync.Mutex
	msgs []wshub.ServerMessage
}

func (s *sink) Enqueue(msg wshub.ServerMessage) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.msgs = append(s.msgs, msg)
	return true
}

func (s *sink) count(typ string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, m := range s.msgs {
		if m.Type == typ {
			n++
		}
	}
	return n
}

func testConfig() Config {
	cfg := game.DefaultConfig()
	cfg.StartDelay = 10 * time.Millisecond
	return Config{Game: cfg, Profiles: profile.Default(), TTL: time.Minute}
}

func doCtx(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	t.Cleanup(cancel)
	return ctx
}

func TestNewStore(t *testing.T) {
	s := NewStore(testConfig(), nil)
	if s == nil {
		t.Fatal("NewStore() returned nil")
	}
	if len(s.List()) != 0 {
		t.Error("new store should have no sessions")
	}
}

func TestStore_Create(t *testing.T) {
	s := NewStore(testConfig(), nil)
	sess, err := s.Create(&sink{})
	if err != nil {
		t.Fatal(err)
	}
	defer s.Delete(sess.ID)

	if sess.Code == "" || sess.ID == "" {
		t.Errorf("session code/id empty: %q/%q", sess.Code, sess.ID)
	}
	if sess.Game.ID() != sess.ID {
		t.Errorf("game ID = %q, want %q", sess.Game.ID(), sess.ID)
	}
	if s.Get(sess.ID) != sess {
		t.Error("Get() should return the created session")
	}
	if s.Get("nope") != nil {
		t.Error("Get() should return nil for an unknown id")
	}
}

func TestSession_PlaysAndCloses(t *testing.T) {
	s := NewStore(testConfig(), nil)
	out := &sink{}
	sess, err := s.Create(out, game.WithPicker(game.Always(profile.Tap)))
	if err != nil {
		t.Fatal(err)
	}

	err = sess.Do(doCtx(t), func() {
		sess.Host.SetBounds(host.Bounds{Width: 400, Height: 600})
		sess.Game.Start()
	})
	if err != nil {
		t.Fatalf("Do() error = %v", err)
	}

	deadline := time.Now().Add(2 * time.Second)
	for out.count("create") == 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if out.count("create") != 1 {
		t.Fatalf("create messages = %d, want 1", out.count("create"))
	}

	s.Delete(sess.ID)
	if s.Get(sess.ID) != nil {
		t.Error("session should be deleted")
	}
	if got := sess.Game.Snapshot().State; got != game.StateInactive {
		t.Errorf("state after Delete = %s, want inactive", got)
	}
	if out.count("remove") != 1 {
		t.Errorf("remove messages = %d, want 1", out.count("remove"))
	}
	// Closing twice must not block or panic.
	sess.Close()
}

func TestSession_DoAfterClose(t *testing.T) {
	s := NewStore(testConfig(), nil)
	sess, err := s.Create(&sink{})
	if err != nil {
		t.Fatal(err)
	}
	s.Sweep(time.Now().Add(time.Hour))

	result := make(chan error, 1)
	ran := false
	go func() {
		result <- sess.Do(context.Background(), func() { ran = true })
	}()
	select {
	case err := <-result:
		if !errors.Is(err, ErrClosed) {
			t.Errorf("Do() after close = %v, want ErrClosed", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Do() blocked on a closed session")
	}
	if ran {
		t.Error("fn ran on a closed session")
	}
}

func TestStore_Sweep(t *testing.T) {
	var evicted []string
	s := NewStore(testConfig(), func(sess *Session) { evicted = append(evicted, sess.ID) })

	old, _ := s.Create(&sink{})
	fresh, _ := s.Create(&sink{})
	defer s.Delete(fresh.ID)

	now := time.Now().Add(90 * time.Second)
	fresh.mu.Lock()
	fresh.lastSeen = now
	fresh.mu.Unlock()

	if n := s.Sweep(now); n != 1 {
		t.Errorf("Sweep() = %d, want 1", n)
	}
	if s.Get(old.ID) != nil {
		t.Error("stale session should be removed")
	}
	if s.Get(fresh.ID) == nil {
		t.Error("fresh session should survive the sweep")
	}
	if len(evicted) != 1 || evicted[0] != old.ID {
		t.Errorf("evicted = %v, want [%s]", evicted, old.ID)
	}
}

func TestSession_Touch(t *testing.T) {
	s := NewStore(testConfig(), nil)
	sess, _ := s.Create(&sink{})
	defer s.Delete(sess.ID)

	before := sess.LastSeen()
	time.Sleep(2 * time.Millisecond)
	sess.Touch()
	if !sess.LastSeen().After(before) {
		t.Error("Touch() should move LastSeen forward")
	}
}

func TestStore_ConcurrentAccess(t *testing.T) {
	s := NewStore(testConfig(), nil)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := s.Create(&sink{}); err != nil {
				t.Error(err)
			}
		}()
	}
	wg.Wait()

	list := s.List()
	if len(list) != 50 {
		t.Errorf("concurrent creates: got %d sessions, want 50", len(list))
	}
	codes := map[string]bool{}
	for _, sess := range list {
		if codes[sess.Code] {
			t.Errorf("duplicate code %q", sess.Code)
		}
		codes[sess.Code] = true
		s.Delete(sess.ID)
	}
	if s.Len() != 0 {
		t.Errorf("Len() = %d after deleting all, want 0", s.Len())
	}
}
