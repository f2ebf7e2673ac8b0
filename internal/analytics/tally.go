package analytics

import (
	"sort"
	"sync"
	"time"

	"github.com/fayzullarakhmatullayev/cosmo-fox-mini/internal/events"
)

type kindTally struct {
	hits, misses   int
	totalReactions int64
}

// Tally keeps live per-session and service-wide outcome counts in memory.
type Tally struct {
	mu       sync.Mutex
	sessions map[string]*SessionStats
	kinds    map[string]*kindTally
	started  int
	since    time.Time
}

func NewTally() *Tally {
	return &Tally{
		sessions: make(map[string]*SessionStats),
		kinds:    make(map[string]*kindTally),
		since:    time.Now(),
	}
}

// Begin registers a session under its player-facing code.
func (t *Tally) Begin(sessionID, code string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.sessions[sessionID]; ok {
		return
	}
	t.sessions[sessionID] = &SessionStats{SessionID: sessionID, Code: code}
	t.started++
}

// Record adds ev to the tally and returns the badges it newly earned.
// Outcomes of sessions that were never begun, or already forgotten, only
// count toward service totals.
func (t *Tally) Record(ev events.OutcomeEvent) []Badge {
	t.mu.Lock()
	defer t.mu.Unlock()

	k, ok := t.kinds[ev.Kind]
	if !ok {
		k = &kindTally{}
		t.kinds[ev.Kind] = k
	}
	ms := ev.Reaction.Milliseconds()
	if ev.Outcome == "hit" {
		k.hits++
		k.totalReactions += ms
	} else {
		k.misses++
	}

	st, ok := t.sessions[ev.SessionID]
	if !ok {
		return nil
	}
	st.Targets++
	switch ev.Outcome {
	case "hit":
		st.Hits++
		st.Streak++
		st.BestStreak = max(st.BestStreak, st.Streak)
		st.totalReactions += ms
		st.AvgReaction = float64(st.totalReactions) / float64(st.Hits)
		if st.Hits == 1 || int(ms) < st.BestReaction {
			st.BestReaction = int(ms)
		}
	default:
		st.Misses++
		st.Streak = 0
	}
	st.Accuracy = float64(st.Hits) / float64(st.Targets) * 100

	var fresh []Badge
	for _, b := range EvaluateSessionBadges(*st) {
		if !hasBadge(st.Badges, b.ID) {
			st.Badges = append(st.Badges, b)
			fresh = append(fresh, b)
		}
	}
	return fresh
}

// Session returns a copy of one session's stats.
func (t *Tally) Session(sessionID string) (SessionStats, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	st, ok := t.sessions[sessionID]
	if !ok {
		return SessionStats{}, false
	}
	out := *st
	out.Badges = append([]Badge(nil), st.Badges...)
	return out, true
}

// Forget drops a finished session's stats. Service totals keep its outcomes.
func (t *Tally) Forget(sessionID string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.sessions, sessionID)
}

func (t *Tally) Totals() Totals {
	t.mu.Lock()
	defer t.mu.Unlock()

	out := Totals{Sessions: t.started, Since: t.since}
	for name, k := range t.kinds {
		ks := KindStats{Kind: name, Hits: k.hits, Misses: k.misses}
		if k.hits > 0 {
			ks.AvgReaction = float64(k.totalReactions) / float64(k.hits)
		}
		out.Hits += k.hits
		out.Misses += k.misses
		out.Kinds = append(out.Kinds, ks)
	}
	out.Targets = out.Hits + out.Misses
	sort.Slice(out.Kinds, func(i, j int) bool { return out.Kinds[i].Kind < out.Kinds[j].Kind })
	return out
}

func hasBadge(badges []Badge, id BadgeID) bool {
	for _, b := range badges {
		if b.ID == id {
			return true
		}
	}
	return false
}
