package analytics

import (
	"fmt"

	"github.com/fayzullarakhmatullayev/cosmo-fox-mini/internal/db"
)

type Queries struct {
	DB *db.DB
}

func NewQueries(database *db.DB) *Queries {
	return &Queries{DB: database}
}

// GetSessionStats rebuilds a session's stats from the outcome log.
func (q *Queries) GetSessionStats(sessionID string) (*SessionStats, error) {
	stats := &SessionStats{SessionID: sessionID}

	err := q.DB.QueryRow(`
		SELECT code, best_streak FROM sessions WHERE id = $1
	`, sessionID).Scan(&stats.Code, &stats.BestStreak)
	if err != nil {
		return nil, fmt.Errorf("getting session: %w", err)
	}

	err = q.DB.QueryRow(`
		SELECT
			COUNT(*) as targets,
			COUNT(*) FILTER (WHERE outcome = 'hit') as hits,
			COALESCE(AVG(reaction_ms) FILTER (WHERE outcome = 'hit'), 0) as avg_reaction,
			COALESCE(MIN(reaction_ms) FILTER (WHERE outcome = 'hit'), 0) as best_reaction
		FROM outcomes
		WHERE session_id = $1
	`, sessionID).Scan(&stats.Targets, &stats.Hits, &stats.AvgReaction, &stats.BestReaction)
	if err != nil {
		return nil, fmt.Errorf("getting outcome stats: %w", err)
	}
	stats.Misses = stats.Targets - stats.Hits
	if stats.Targets > 0 {
		stats.Accuracy = float64(stats.Hits) / float64(stats.Targets) * 100
	}

	ids, err := q.DB.GetSessionBadges(sessionID)
	if err != nil {
		return nil, err
	}
	for _, id := range ids {
		if b, ok := AllBadges[BadgeID(id)]; ok {
			stats.Badges = append(stats.Badges, b)
		}
	}
	return stats, nil
}

// GetKindBreakdown returns all-time outcomes per target kind.
func (q *Queries) GetKindBreakdown() ([]KindStats, error) {
	rows, err := q.DB.Query(`
		SELECT kind,
			COUNT(*) FILTER (WHERE outcome = 'hit') as hits,
			COUNT(*) FILTER (WHERE outcome <> 'hit') as misses,
			COALESCE(AVG(reaction_ms) FILTER (WHERE outcome = 'hit'), 0) as avg_reaction
		FROM outcomes
		GROUP BY kind
		ORDER BY kind
	`)
	if err != nil {
		return nil, fmt.Errorf("getting kind breakdown: %w", err)
	}
	defer rows.Close()

	var out []KindStats
	for rows.Next() {
		var k KindStats
		if err := rows.Scan(&k.Kind, &k.Hits, &k.Misses, &k.AvgReaction); err != nil {
			return nil, err
		}
		out = append(out, k)
	}
	return out, rows.Err()
}

func (q *Queries) GetLeaderboard(category string, limit int) ([]LeaderboardEntry, error) {
	var query string
	switch category {
	case "streak":
		query = `
			SELECT id, code, best_streak as value
			FROM sessions
			WHERE best_streak > 0
			ORDER BY value DESC
			LIMIT $1`
	case "hits":
		query = `
			SELECT s.id, s.code, COUNT(o.id)::int as value
			FROM sessions s
			JOIN outcomes o ON o.session_id = s.id AND o.outcome = 'hit'
			GROUP BY s.id, s.code
			ORDER BY value DESC
			LIMIT $1`
	case "reaction":
		query = `
			SELECT s.id, s.code, MIN(o.reaction_ms) as value
			FROM sessions s
			JOIN outcomes o ON o.session_id = s.id AND o.outcome = 'hit'
			GROUP BY s.id, s.code
			ORDER BY value ASC
			LIMIT $1`
	default:
		return nil, fmt.Errorf("unknown leaderboard category: %s", category)
	}

	rows, err := q.DB.Query(query, limit)
	if err != nil {
		return nil, fmt.Errorf("getting leaderboard: %w", err)
	}
	defer rows.Close()

	var entries []LeaderboardEntry
	rank := 1
	for rows.Next() {
		var e LeaderboardEntry
		if err := rows.Scan(&e.SessionID, &e.Code, &e.Value); err != nil {
			return nil, err
		}
		e.Rank = rank
		rank++
		entries = append(entries, e)
	}
	return entries, nil
}
