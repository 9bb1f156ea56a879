package pgstore

import (
	"context"
	"fmt"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS daily_progress (
		user_id           TEXT NOT NULL,
		date              DATE NOT NULL,
		tasks             JSONB NOT NULL DEFAULT '[]',
		routine_completed BOOLEAN NOT NULL DEFAULT FALSE,
		updated_at        TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		PRIMARY KEY (user_id, date)
	)`,
	`CREATE TABLE IF NOT EXISTS custom_tasks (
		user_id         TEXT NOT NULL,
		id              TEXT NOT NULL,
		title           TEXT NOT NULL,
		subject         TEXT NOT NULL,
		description     TEXT,
		date            DATE NOT NULL,
		time_slot_start TEXT,
		time_slot_end   TEXT,
		type            TEXT NOT NULL,
		completed       BOOLEAN NOT NULL DEFAULT FALSE,
		created_at      TIMESTAMPTZ NOT NULL,
		PRIMARY KEY (user_id, id)
	)`,
	`CREATE TABLE IF NOT EXISTS exams (
		user_id    TEXT NOT NULL,
		id         TEXT NOT NULL,
		title      TEXT NOT NULL,
		type       TEXT NOT NULL,
		subject    TEXT,
		date       DATE NOT NULL,
		completed  BOOLEAN NOT NULL DEFAULT FALSE,
		results    JSONB,
		created_at TIMESTAMPTZ NOT NULL,
		PRIMARY KEY (user_id, id)
	)`,
	`CREATE TABLE IF NOT EXISTS topic_notes (
		user_id    TEXT NOT NULL,
		id         TEXT NOT NULL,
		topic_id   TEXT NOT NULL,
		subject    TEXT NOT NULL,
		content    TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL,
		PRIMARY KEY (user_id, id)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_topic_notes_topic ON topic_notes (user_id, topic_id)`,
}

// EnsureSchema creates the tables if they do not exist.
func (s *Store) EnsureSchema(ctx context.Context) error {
	for i, stmt := range schema {
		if _, err := s.db.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("schema statement %d: %w", i, classify(err))
		}
	}
	return nil
}
