package analytics

import "time"

// SessionStats summarizes one player session.
type SessionStats struct {
	SessionID      string  `json:"sessionId"`
	Code           string  `json:"code,omitempty"`
	Targets        int     `json:"targets"`
	Hits           int     `json:"hits"`
	Misses         int     `json:"misses"`
	Streak         int     `json:"streak"`
	BestStreak     int     `json:"bestStreak"`
	AvgReaction    float64 `json:"avgReactionMs"`
	BestReaction   int     `json:"bestReactionMs"`
	Accuracy       float64 `json:"accuracy"` // percentage of targets hit
	Badges         []Badge `json:"badges,omitempty"`
	totalReactions int64
}

// KindStats breaks outcomes down by target kind.
type KindStats struct {
	Kind        string  `json:"kind"`
	Hits        int     `json:"hits"`
	Misses      int     `json:"misses"`
	AvgReaction float64 `json:"avgReactionMs"`
}

// Totals is the service-wide tally.
type Totals struct {
	Sessions int         `json:"sessions"`
	Targets  int         `json:"targets"`
	Hits     int         `json:"hits"`
	Misses   int         `json:"misses"`
	Kinds    []KindStats `json:"kinds"`
	Since    time.Time   `json:"since"`
}

type LeaderboardEntry struct {
	SessionID string `json:"sessionId"`
	Code      string `json:"code"`
	Value     int    `json:"value"`
	Rank      int    `json:"rank"`
}
