package sessions

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/fayzullarakhmatullayev/cosmo-fox-mini/internal/eventloop"
	"github.com/fayzullarakhmatullayev/cosmo-fox-mini/internal/game"
	"github.com/fayzullarakhmatullayev/cosmo-fox-mini/internal/profile"
	"github.com/fayzullarakhmatullayev/cosmo-fox-mini/internal/wshub"

	"github.com/google/uuid"
)

const (
	defaultTTL    = 1 * time.Hour
	sweepInterval = 5 * time.Minute
	closeTimeout  = 2 * time.Second
)

type Config struct {
	Game     game.Config
	Profiles *profile.Table
	// TTL is how long a session may go without client messages.
	TTL time.Duration
}

// Session is one player's connection: its event loop, the game running on
// it and the websocket host the game draws through.
type Session struct {
	ID        string
	Code      string
	Loop      *eventloop.Loop
	Game      *game.Session
	Host      *wshub.Host
	CreatedAt time.Time

	mu       sync.Mutex
	lastSeen time.Time

	cancel    context.CancelFunc
	done      chan struct{}
	closeOnce sync.Once
}

// ErrClosed is returned by Session.Do once the session's loop has stopped.
var ErrClosed = errors.New("session closed")

// Do runs fn on the session's loop and waits for it. It returns ErrClosed
// instead of blocking when the loop is stopped or stops while waiting.
func (s *Session) Do(ctx context.Context, fn func()) error {
	select {
	case <-s.done:
		return ErrClosed
	default:
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	go func() {
		select {
		case <-s.done:
			cancel()
		case <-ctx.Done():
		}
	}()

	err := s.Loop.Do(ctx, fn)
	if err != nil {
		select {
		case <-s.done:
			return ErrClosed
		default:
		}
	}
	return err
}

// Touch marks the session as seen now.
func (s *Session) Touch() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastSeen = time.Now()
}

func (s *Session) LastSeen() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}

// Close stops the game, releasing everything it holds, then stops the loop.
// Safe to call more than once.
func (s *Session) Close() {
	s.closeOnce.Do(func() {
		ctx, cancel := context.WithTimeout(context.Background(), closeTimeout)
		defer cancel()
		if err := s.Loop.Do(ctx, func() { s.Game.Stop() }); err != nil {
			log.Printf("[Sessions] Stop %s error: %v\n", s.Code, err)
		}
		s.cancel()
		<-s.done
	})
}

type Store struct {
	mu       sync.Mutex
	sessions map[string]*Session
	cfg      Config
	onEvict  func(*Session)
}

// NewStore creates a store and starts its stale sweep. onEvict, if set, runs
// for every session the sweep closes.
func NewStore(cfg Config, onEvict func(*Session)) *Store {
	if cfg.TTL <= 0 {
		cfg.TTL = defaultTTL
	}
	if cfg.Profiles == nil {
		cfg.Profiles = profile.Default()
	}
	s := &Store{
		sessions: make(map[string]*Session),
		cfg:      cfg,
		onEvict:  onEvict,
	}
	go s.sweepStale()
	return s
}

// Create starts a session drawing through out. The game is not started.
func (s *Store) Create(out wshub.Sender, opts ...game.Option) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	code, err := newCode(s.codeTaken)
	if err != nil {
		return nil, fmt.Errorf("creating session: %w", err)
	}

	id := uuid.NewString()
	loop := eventloop.New(nil)
	h := wshub.NewHost(out)
	opts = append([]game.Option{game.WithID(id)}, opts...)
	ctx, cancel := context.WithCancel(context.Background())

	now := time.Now()
	sess := &Session{
		ID:        id,
		Code:      code,
		Loop:      loop,
		Game:      game.NewSession(loop, s.cfg.Profiles, h, s.cfg.Game, opts...),
		Host:      h,
		CreatedAt: now,
		lastSeen:  now,
		cancel:    cancel,
		done:      make(chan struct{}),
	}
	go func() {
		defer close(sess.done)
		loop.Run(ctx)
	}()

	s.sessions[id] = sess
	return sess, nil
}

// codeTaken must be called with s.mu held.
func (s *Store) codeTaken(code string) bool {
	for _, sess := range s.sessions {
		if sess.Code == code {
			return true
		}
	}
	return false
}

func (s *Store) Get(id string) *Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sessions[id]
}

// Delete removes the session and closes it.
func (s *Store) Delete(id string) {
	s.mu.Lock()
	sess, ok := s.sessions[id]
	delete(s.sessions, id)
	s.mu.Unlock()

	if ok {
		sess.Close()
	}
}

func (s *Store) List() []*Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	list := make([]*Session, 0, len(s.sessions))
	for _, sess := range s.sessions {
		list = append(list, sess)
	}
	return list
}

func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// Sweep closes every session not seen since now minus the TTL and returns
// how many it closed.
func (s *Store) Sweep(now time.Time) int {
	s.mu.Lock()
	var stale []*Session
	for id, sess := range s.sessions {
		if now.Sub(sess.LastSeen()) > s.cfg.TTL {
			stale = append(stale, sess)
			delete(s.sessions, id)
		}
	}
	s.mu.Unlock()

	for _, sess := range stale {
		log.Printf("[Sessions] Evicting stale session %s\n", sess.Code)
		sess.Close()
		if s.onEvict != nil {
			s.onEvict(sess)
		}
	}
	return len(stale)
}

func (s *Store) sweepStale() {
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()
	for now := range ticker.C {
		s.Sweep(now)
	}
}
