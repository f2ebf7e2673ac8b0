package analytics

import "testing"

func TestEvaluateSessionBadges_OnFire(t *testing.T) {
	stats := SessionStats{BestStreak: 10, Hits: 10, Targets: 12}
	if !hasBadge(EvaluateSessionBadges(stats), BadgeOnFire) {
		t.Error("should earn On Fire with a 10-hit streak")
	}
}

func TestEvaluateSessionBadges_NoOnFire(t *testing.T) {
	stats := SessionStats{BestStreak: 9, Hits: 9, Targets: 12}
	if hasBadge(EvaluateSessionBadges(stats), BadgeOnFire) {
		t.Error("should not earn On Fire with a 9-hit streak")
	}
}

func TestEvaluateSessionBadges_Sharpshooter(t *testing.T) {
	stats := SessionStats{Targets: 20, Hits: 16, Accuracy: 80.0}
	if !hasBadge(EvaluateSessionBadges(stats), BadgeSharpshooter) {
		t.Error("should earn Sharpshooter with 80% of 20 targets")
	}
}

func TestEvaluateSessionBadges_NoSharpshooterTooFewTargets(t *testing.T) {
	stats := SessionStats{Targets: 19, Hits: 19, Accuracy: 100.0}
	if hasBadge(EvaluateSessionBadges(stats), BadgeSharpshooter) {
		t.Error("should not earn Sharpshooter with fewer than 20 targets")
	}
}

func TestEvaluateSessionBadges_QuickDraw(t *testing.T) {
	stats := SessionStats{Hits: 1, BestReaction: 399}
	if !hasBadge(EvaluateSessionBadges(stats), BadgeQuickDraw) {
		t.Error("should earn Quick Draw with a 399ms hit")
	}
}

func TestEvaluateSessionBadges_NoQuickDraw(t *testing.T) {
	stats := SessionStats{Hits: 1, BestReaction: 400}
	if hasBadge(EvaluateSessionBadges(stats), BadgeQuickDraw) {
		t.Error("should not earn Quick Draw with a 400ms hit")
	}
}

func TestEvaluateSessionBadges_QuickDrawZeroReaction(t *testing.T) {
	stats := SessionStats{Hits: 1, BestReaction: 0}
	if !hasBadge(EvaluateSessionBadges(stats), BadgeQuickDraw) {
		t.Error("a 0ms best reaction should earn Quick Draw")
	}
	if hasBadge(EvaluateSessionBadges(SessionStats{}), BadgeQuickDraw) {
		t.Error("no hits should not earn Quick Draw")
	}
}

func TestEvaluateSessionBadges_SpeedDemon(t *testing.T) {
	stats := SessionStats{Hits: 10, AvgReaction: 550}
	if !hasBadge(EvaluateSessionBadges(stats), BadgeSpeedDemon) {
		t.Error("should earn Speed Demon with 550ms average over 10 hits")
	}
}

func TestEvaluateSessionBadges_NoSpeedDemon(t *testing.T) {
	stats := SessionStats{Hits: 9, AvgReaction: 300}
	if hasBadge(EvaluateSessionBadges(stats), BadgeSpeedDemon) {
		t.Error("should not earn Speed Demon with only 9 hits")
	}
}

func TestEvaluateSessionBadges_Marathon(t *testing.T) {
	stats := SessionStats{Targets: 50}
	if !hasBadge(EvaluateSessionBadges(stats), BadgeMarathon) {
		t.Error("should earn Marathon with 50 targets")
	}
}

func TestEvaluateSessionBadges_NoBadges(t *testing.T) {
	stats := SessionStats{
		Targets:      5,
		Hits:         2,
		Misses:       3,
		BestStreak:   2,
		AvgReaction:  900,
		BestReaction: 800,
		Accuracy:     40.0,
	}
	if badges := EvaluateSessionBadges(stats); len(badges) != 0 {
		t.Errorf("should earn no badges, got %d", len(badges))
	}
}

func TestEvaluateSessionBadges_MultipleBadges(t *testing.T) {
	stats := SessionStats{
		Targets:      60,
		Hits:         55,
		Misses:       5,
		BestStreak:   30,
		AvgReaction:  450,
		BestReaction: 280,
		Accuracy:     91.6,
	}
	// Should earn all five
	if badges := EvaluateSessionBadges(stats); len(badges) != 5 {
		t.Errorf("should earn 5 badges, got %d", len(badges))
	}
}
