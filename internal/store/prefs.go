// Copyright (c) 2025-2026 Monarch360
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"time"
)

// DefaultTogglerPosition is the vertical toggler offset in percent used when
// no preference has been saved yet.
const DefaultTogglerPosition = 20

const togglerPositionKey = "toggler_position"

// PrefsStore persists per-device preferences in the local SQLite database.
type PrefsStore struct {
	db *sql.DB
}

// NewPrefsStore creates a preference store backed by the given database.
func NewPrefsStore(db *sql.DB) *PrefsStore {
	return &PrefsStore{db: db}
}

// GetTogglerPosition returns the saved toggler offset, clamped to 0..100.
// Missing or unparsable values fall back to DefaultTogglerPosition.
func (s *PrefsStore) GetTogglerPosition(ctx context.Context) (int, error) {
	var raw string
	err := s.db.QueryRowContext(ctx,
		`SELECT value FROM preference WHERE key = ?`, togglerPositionKey).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return DefaultTogglerPosition, nil
	}
	if err != nil {
		return 0, fmt.Errorf("reading toggler position: %w", err)
	}

	pos, err := strconv.Atoi(raw)
	if err != nil {
		return DefaultTogglerPosition, nil
	}
	return clampPosition(pos), nil
}

// SetTogglerPosition saves the toggler offset, clamping it to 0..100.
func (s *PrefsStore) SetTogglerPosition(ctx context.Context, pos int) error {
	pos = clampPosition(pos)
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO preference (key, value, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		togglerPositionKey, strconv.Itoa(pos), time.Now().UTC())
	if err != nil {
		return fmt.Errorf("saving toggler position: %w", err)
	}
	return nil
}

func clampPosition(pos int) int {
	if pos < 0 {
		return 0
	}
	if pos > 100 {
		return 100
	}
	return pos
}
