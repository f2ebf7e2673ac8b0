package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/fayzullarakhmatullayev/cosmo-fox-mini/internal/db"
	"github.com/fayzullarakhmatullayev/cosmo-fox-mini/internal/events"
	"github.com/fayzullarakhmatullayev/cosmo-fox-mini/internal/game"
	"github.com/fayzullarakhmatullayev/cosmo-fox-mini/internal/host"
	"github.com/fayzullarakhmatullayev/cosmo-fox-mini/internal/sessions"
	"github.com/fayzullarakhmatullayev/cosmo-fox-mini/internal/wshub"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
)

// handlePlay runs one game session for the lifetime of a websocket.
func (s *Server) handlePlay(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{InsecureSkipVerify: true})
	if err != nil {
		log.Printf("[WSHub] Accept error: %v\n", err)
		return
	}
	defer conn.CloseNow()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	client := wshub.NewClient("", conn)
	sess, err := s.Sessions.Create(client, game.WithBus(s.Bus))
	if err != nil {
		log.Printf("[Server] Create session error: %v\n", err)
		conn.Close(websocket.StatusInternalError, "session unavailable")
		return
	}
	client.SessionID = sess.ID
	s.Hub.Register(client)
	s.Metrics.SessionOpened()
	s.Tally.Begin(sess.ID, sess.Code)
	if s.DB != nil {
		if err := s.DB.CreateSession(sess.ID, sess.Code); err != nil {
			log.Printf("[DB] CreateSession error: %v\n", err)
		}
	}
	defer s.endSession(sess)

	go client.WritePump(ctx)
	client.Enqueue(wshub.ServerMessage{Type: "hello", ID: sess.Code, State: string(game.StateInactive)})

	for {
		var msg wshub.ClientMessage
		if err := wsjson.Read(ctx, conn, &msg); err != nil {
			status := websocket.CloseStatus(err)
			if status != websocket.StatusNormalClosure && status != websocket.StatusGoingAway && !errors.Is(err, context.Canceled) {
				log.Printf("[WSHub] Read error for %s: %v\n", sess.Code, err)
			}
			return
		}
		sess.Touch()
		if err := s.dispatch(ctx, sess, msg); err != nil {
			return
		}
	}
}

// dispatch applies one client message on the session's loop.
func (s *Server) dispatch(ctx context.Context, sess *sessions.Session, msg wshub.ClientMessage) error {
	switch msg.Type {
	case "resize":
		return sess.Do(ctx, func() {
			sess.Host.SetBounds(host.Bounds{Width: msg.W, Height: msg.H})
		})
	case "start", "stop":
		return sess.Do(ctx, func() {
			if msg.Type == "start" {
				sess.Game.Start()
			} else {
				sess.Game.Stop()
			}
			s.Hub.SendTo(sess.ID, wshub.ServerMessage{Type: "state", State: string(sess.Game.State())})
		})
	default:
		return sess.Do(ctx, func() {
			sess.Host.Input(msg)
		})
	}
}

// endSession stops the session's game and persists its final counts. Safe
// to run after the stale sweep already closed the session.
func (s *Server) endSession(sess *sessions.Session) {
	s.Sessions.Delete(sess.ID)
	sess.Close()
	s.Hub.Unregister(sess.ID)
	s.Metrics.SessionClosed()

	snap := sess.Game.Snapshot()
	if s.DB != nil {
		if err := s.DB.EndSession(sess.ID, snap.Hits, snap.Misses, snap.BestStreak); err != nil {
			log.Printf("[DB] EndSession error: %v\n", err)
		}
	}
	s.Tally.Forget(sess.ID)
	log.Printf("[Server] Session %s ended: %d hits, %d misses\n", sess.Code, snap.Hits, snap.Misses)
}

// fanOut delivers every published outcome to the player, the SSE feed, the
// tally and the outcome log.
func (s *Server) fanOut(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev := <-s.Bus.Outcomes:
			s.handleOutcome(ev)
		}
	}
}

func (s *Server) handleOutcome(ev events.OutcomeEvent) {
	s.Hub.SendTo(ev.SessionID, wshub.ServerMessage{
		Type:     "outcome",
		ID:       ev.TargetID,
		Kind:     ev.Kind,
		Outcome:  ev.Outcome,
		Reaction: ev.Reaction.Milliseconds(),
	})
	s.Broadcaster.PublishOutcome(ev)
	s.Metrics.ObserveOutcome(ev)

	for _, b := range s.Tally.Record(ev) {
		s.Hub.SendTo(ev.SessionID, wshub.ServerMessage{Type: "badge", ID: string(b.ID)})
		s.Metrics.BadgeAwarded(string(b.ID))
		if data, err := json.Marshal(b); err == nil {
			s.Broadcaster.Broadcast("badge", string(data))
		}
		if s.DB != nil {
			if err := s.DB.AwardBadge(ev.SessionID, string(b.ID)); err != nil {
				log.Printf("[DB] AwardBadge error: %v\n", err)
			}
		}
	}

	if s.OutcomeBuffer != nil {
		select {
		case s.OutcomeBuffer <- db.OutcomeRecord{
			SessionID:  ev.SessionID,
			TargetID:   ev.TargetID,
			Kind:       ev.Kind,
			Outcome:    ev.Outcome,
			ReactionMs: int(ev.Reaction.Milliseconds()),
			FinishedAt: ev.At,
		}:
		default:
			s.Metrics.OutcomeWriteDropped()
			log.Println("[DB] Outcome buffer full, dropping outcome")
		}
	}
}

func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	msgChan := s.Broadcaster.Subscribe()
	defer s.Broadcaster.Unsubscribe(msgChan)

	for {
		select {
		case <-r.Context().Done():
			return
		case msg := <-msgChan:
			fmt.Fprintf(w, "event: %s\n", msg.Event)
			for _, line := range strings.Split(msg.Data, "\n") {
				fmt.Fprintf(w, "data: %s\n", line)
			}
			fmt.Fprint(w, "\n")
			flusher.Flush()
		}
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	status := "ok"
	if s.DB != nil {
		if err := s.DB.Ping(); err != nil {
			status = "db_error"
			w.WriteHeader(http.StatusServiceUnavailable)
			fmt.Fprintf(w, `{"status":"%s","error":%q}`, status, err.Error())
			return
		}
	}
	fmt.Fprintf(w, `{"status":"%s","sessions":%d}`, status, s.Sessions.Len())
}
