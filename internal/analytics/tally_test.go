package analytics

import (
	"testing"
	"time"

	"github.com/fayzullarakhmatullayev/cosmo-fox-mini/internal/events"
)

func hit(session string, ms int) events.OutcomeEvent {
	return events.OutcomeEvent{SessionID: session, Kind: "tap", Outcome: "hit", Reaction: time.Duration(ms) * time.Millisecond}
}

func miss(session, kind string) events.OutcomeEvent {
	return events.OutcomeEvent{SessionID: session, Kind: kind, Outcome: "missed"}
}

func TestTally_SessionStats(t *testing.T) {
	tally := NewTally()
	tally.Begin("s1", "ABCDE")

	tally.Record(hit("s1", 500))
	tally.Record(hit("s1", 700))
	tally.Record(miss("s1", "swipe"))
	tally.Record(hit("s1", 600))

	st, ok := tally.Session("s1")
	if !ok {
		t.Fatal("Session(s1) not found")
	}
	if st.Code != "ABCDE" {
		t.Errorf("Code = %q, want ABCDE", st.Code)
	}
	if st.Targets != 4 || st.Hits != 3 || st.Misses != 1 {
		t.Errorf("targets/hits/misses = %d/%d/%d, want 4/3/1", st.Targets, st.Hits, st.Misses)
	}
	if st.Streak != 1 || st.BestStreak != 2 {
		t.Errorf("streak/best = %d/%d, want 1/2", st.Streak, st.BestStreak)
	}
	if st.AvgReaction != 600 {
		t.Errorf("AvgReaction = %v, want 600", st.AvgReaction)
	}
	if st.BestReaction != 500 {
		t.Errorf("BestReaction = %d, want 500", st.BestReaction)
	}
	if st.Accuracy != 75 {
		t.Errorf("Accuracy = %v, want 75", st.Accuracy)
	}
}

func TestTally_BadgesAwardedOnce(t *testing.T) {
	tally := NewTally()
	tally.Begin("s1", "ABCDE")

	fresh := tally.Record(hit("s1", 350))
	if !hasBadge(fresh, BadgeQuickDraw) {
		t.Fatalf("first fast hit badges = %v, want quick_draw", fresh)
	}
	if again := tally.Record(hit("s1", 300)); hasBadge(again, BadgeQuickDraw) {
		t.Error("quick_draw should only be reported once")
	}

	var onFire int
	for i := 0; i < 10; i++ {
		for _, b := range tally.Record(hit("s1", 900)) {
			if b.ID == BadgeOnFire {
				onFire++
			}
		}
	}
	if onFire != 1 {
		t.Errorf("on_fire reported %d times, want 1", onFire)
	}
	st, _ := tally.Session("s1")
	if !hasBadge(st.Badges, BadgeOnFire) || !hasBadge(st.Badges, BadgeQuickDraw) {
		t.Errorf("session badges = %v", st.Badges)
	}
}

func TestTally_Totals(t *testing.T) {
	tally := NewTally()
	tally.Begin("s1", "AAAAA")
	tally.Begin("s1", "AAAAA")
	tally.Begin("s2", "BBBBB")
	tally.Record(hit("s1", 400))
	tally.Record(miss("s2", "swipe"))
	tally.Record(miss("s2", "tap"))

	tot := tally.Totals()
	if tot.Sessions != 2 {
		t.Errorf("Sessions = %d, want 2", tot.Sessions)
	}
	if tot.Targets != 3 || tot.Hits != 1 || tot.Misses != 2 {
		t.Errorf("targets/hits/misses = %d/%d/%d, want 3/1/2", tot.Targets, tot.Hits, tot.Misses)
	}
	if len(tot.Kinds) != 2 || tot.Kinds[0].Kind != "swipe" || tot.Kinds[1].Kind != "tap" {
		t.Fatalf("kinds = %+v, want swipe then tap", tot.Kinds)
	}
	if tot.Kinds[1].AvgReaction != 400 {
		t.Errorf("tap AvgReaction = %v, want 400", tot.Kinds[1].AvgReaction)
	}

	tally.Forget("s1")
	if _, ok := tally.Session("s1"); ok {
		t.Error("Forget() should drop the session")
	}
	if tally.Totals().Hits != 1 {
		t.Error("Forget() must not change service totals")
	}
}

func TestTally_LateOutcomeAfterForget(t *testing.T) {
	tally := NewTally()
	tally.Begin("s1", "ABCDE")
	tally.Forget("s1")

	if fresh := tally.Record(hit("s1", 300)); len(fresh) != 0 {
		t.Errorf("badges for a forgotten session = %v, want none", fresh)
	}
	if _, ok := tally.Session("s1"); ok {
		t.Error("a late outcome must not bring the session back")
	}
	tot := tally.Totals()
	if tot.Sessions != 1 {
		t.Errorf("Sessions = %d, want 1", tot.Sessions)
	}
	if tot.Hits != 1 {
		t.Errorf("Hits = %d, want the late hit in service totals", tot.Hits)
	}
}

func TestTally_UnknownSessionIgnored(t *testing.T) {
	tally := NewTally()
	tally.Record(miss("ghost", "tap"))
	if _, ok := tally.Session("ghost"); ok {
		t.Error("Record should not create sessions")
	}
	if tally.Totals().Sessions != 0 {
		t.Errorf("Sessions = %d, want 0", tally.Totals().Sessions)
	}
}

func TestTally_ZeroReactionCounts(t *testing.T) {
	tally := NewTally()
	tally.Begin("s1", "ABCDE")

	fresh := tally.Record(hit("s1", 0))
	if !hasBadge(fresh, BadgeQuickDraw) {
		t.Errorf("badges = %v, want quick_draw for a 0ms hit", fresh)
	}
	tally.Record(hit("s1", 250))
	st, _ := tally.Session("s1")
	if st.BestReaction != 0 {
		t.Errorf("BestReaction = %d, want 0", st.BestReaction)
	}
}
