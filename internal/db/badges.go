package db

import "fmt"

func (d *DB) AwardBadge(sessionID, badgeID string) error {
	_, err := d.conn.Exec(`
		INSERT INTO session_badges (session_id, badge_id)
		VALUES ($1, $2)
		ON CONFLICT (session_id, badge_id) DO NOTHING
	`, sessionID, badgeID)
	if err != nil {
		return fmt.Errorf("awarding badge: %w", err)
	}
	return nil
}

func (d *DB) GetSessionBadges(sessionID string) ([]string, error) {
	rows, err := d.conn.Query(`
		SELECT badge_id FROM session_badges WHERE session_id = $1 ORDER BY awarded_at
	`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("getting badges: %w", err)
	}
	defer rows.Close()

	var badges []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		badges = append(badges, id)
	}
	return badges, nil
}
