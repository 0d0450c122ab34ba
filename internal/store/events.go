// Copyright (c) 2025-2026 Monarch360
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// Event is a persisted audit log entry.
type Event struct {
	ID        int64     `json:"id"`
	Level     string    `json:"level"`
	Message   string    `json:"message"`
	Source    string    `json:"source"`
	CreatedAt time.Time `json:"createdAt"`
}

// EventStore persists audit events in the local SQLite database.
type EventStore struct {
	db *sql.DB
}

// NewEventStore creates an event store backed by the given database.
func NewEventStore(db *sql.DB) *EventStore {
	return &EventStore{db: db}
}

// Insert records a single audit event.
func (s *EventStore) Insert(ctx context.Context, level, message, source string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO event (level, message, source, created_at) VALUES (?, ?, ?, ?)`,
		level, message, source, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("inserting event: %w", err)
	}
	return nil
}

// Recent returns up to limit events, newest first.
func (s *EventStore) Recent(ctx context.Context, limit int) ([]Event, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, level, message, source, created_at FROM event ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying events: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var events []Event
	for rows.Next() {
		var ev Event
		if err := rows.Scan(&ev.ID, &ev.Level, &ev.Message, &ev.Source, &ev.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning event: %w", err)
		}
		events = append(events, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating events: %w", err)
	}
	return events, nil
}
