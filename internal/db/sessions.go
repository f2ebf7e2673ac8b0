package db

import (
	"fmt"
	"time"
)

type SessionRecord struct {
	ID         string
	Code       string
	StartedAt  time.Time
	EndedAt    *time.Time
	Hits       int
	Misses     int
	BestStreak int
}

func (d *DB) CreateSession(id, code string) error {
	_, err := d.conn.Exec(`
		INSERT INTO sessions (id, code) VALUES ($1, $2)
		ON CONFLICT (id) DO NOTHING
	`, id, code)
	if err != nil {
		return fmt.Errorf("creating session: %w", err)
	}
	return nil
}

// EndSession stamps the session's end time and final counts.
func (d *DB) EndSession(id string, hits, misses, bestStreak int) error {
	_, err := d.conn.Exec(`
		UPDATE sessions SET ended_at = now(), hits = $2, misses = $3, best_streak = $4
		WHERE id = $1
	`, id, hits, misses, bestStreak)
	if err != nil {
		return fmt.Errorf("ending session: %w", err)
	}
	return nil
}

func (d *DB) GetSession(id string) (*SessionRecord, error) {
	rec := &SessionRecord{}
	err := d.conn.QueryRow(`
		SELECT id, code, started_at, ended_at, hits, misses, best_streak
		FROM sessions WHERE id = $1
	`, id).Scan(&rec.ID, &rec.Code, &rec.StartedAt, &rec.EndedAt, &rec.Hits, &rec.Misses, &rec.BestStreak)
	if err != nil {
		return nil, fmt.Errorf("getting session: %w", err)
	}
	return rec, nil
}
