package db

import (
	"fmt"
	"time"
)

type OutcomeRecord struct {
	SessionID  string
	TargetID   string
	Kind       string
	Outcome    string
	ReactionMs int
	FinishedAt time.Time
}

const insertOutcome = `
	INSERT INTO outcomes (session_id, target_id, kind, outcome, reaction_ms, finished_at)
	VALUES ($1, $2, $3, $4, $5, $6)
`

func (d *DB) RecordOutcome(rec OutcomeRecord) error {
	_, err := d.conn.Exec(insertOutcome, rec.SessionID, rec.TargetID, rec.Kind, rec.Outcome, rec.ReactionMs, rec.FinishedAt)
	if err != nil {
		return fmt.Errorf("recording outcome: %w", err)
	}
	return nil
}

// BatchRecordOutcomes writes records in one transaction.
func (d *DB) BatchRecordOutcomes(records []OutcomeRecord) error {
	tx, err := d.conn.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(insertOutcome)
	if err != nil {
		return fmt.Errorf("preparing statement: %w", err)
	}
	defer stmt.Close()

	for _, rec := range records {
		if _, err := stmt.Exec(rec.SessionID, rec.TargetID, rec.Kind, rec.Outcome, rec.ReactionMs, rec.FinishedAt); err != nil {
			return fmt.Errorf("recording outcome in batch: %w", err)
		}
	}

	return tx.Commit()
}
