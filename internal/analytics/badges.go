package analytics

type BadgeID string

const (
	BadgeOnFire       BadgeID = "on_fire"
	BadgeSharpshooter BadgeID = "sharpshooter"
	BadgeQuickDraw    BadgeID = "quick_draw"
	BadgeSpeedDemon   BadgeID = "speed_demon"
	BadgeMarathon     BadgeID = "marathon"
)

type Badge struct {
	ID          BadgeID `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Icon        string  `json:"icon"`
}

var AllBadges = map[BadgeID]Badge{
	BadgeOnFire:       {ID: BadgeOnFire, Name: "On Fire", Description: "10 hits in a row", Icon: "🔥"},
	BadgeSharpshooter: {ID: BadgeSharpshooter, Name: "Sharpshooter", Description: "80%+ of 20 or more targets hit", Icon: "🎯"},
	BadgeQuickDraw:    {ID: BadgeQuickDraw, Name: "Quick Draw", Description: "A target hit within 400ms", Icon: "⚡"},
	BadgeSpeedDemon:   {ID: BadgeSpeedDemon, Name: "Speed Demon", Description: "Average reaction under 600ms over 10+ hits", Icon: "🦊"},
	BadgeMarathon:     {ID: BadgeMarathon, Name: "Marathon", Description: "50 targets in one session", Icon: "🏅"},
}

// EvaluateSessionBadges checks which badges a session has earned so far.
func EvaluateSessionBadges(stats SessionStats) []Badge {
	var earned []Badge

	// On Fire: 10 consecutive hits
	if stats.BestStreak >= 10 {
		earned = append(earned, AllBadges[BadgeOnFire])
	}

	// Sharpshooter: 80%+ accuracy over at least 20 targets
	if stats.Targets >= 20 && stats.Accuracy >= 80.0 {
		earned = append(earned, AllBadges[BadgeSharpshooter])
	}

	// Quick Draw: best reaction < 400ms
	if stats.Hits > 0 && stats.BestReaction < 400 {
		earned = append(earned, AllBadges[BadgeQuickDraw])
	}

	// Speed Demon: avg reaction < 600ms over 10+ hits
	if stats.Hits >= 10 && stats.AvgReaction > 0 && stats.AvgReaction < 600 {
		earned = append(earned, AllBadges[BadgeSpeedDemon])
	}

	// Marathon: 50 targets
	if stats.Targets >= 50 {
		earned = append(earned, AllBadges[BadgeMarathon])
	}

	return earned
}
