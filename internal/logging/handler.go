// Copyright (c) 2025-2026 Monarch360
// SPDX-License-Identifier: GPL-3.0-or-later

// Package logging provides a slog handler that mirrors WARN and ERROR level
// records into the local audit event table, so remote storage trouble leaves
// a trace even when nobody watches the console.
package logging

import (
	"context"
	"database/sql"
	"log/slog"
	"strings"

	"github.com/monarch360/sidenav-go/internal/store"
)

// Audit event levels.
const (
	EventLevelInfo    = "INFO"
	EventLevelWarning = "WARNING"
	EventLevelError   = "ERROR"
)

// AuditHandler is a slog.Handler that wraps another handler and also writes
// records at or above a threshold level to the audit event table.
type AuditHandler struct {
	inner  slog.Handler
	events *store.EventStore
	level  slog.Level
}

// NewAuditHandler creates a handler that forwards WARN and above to the
// audit table in addition to the wrapped handler.
func NewAuditHandler(inner slog.Handler, db *sql.DB) *AuditHandler {
	return NewAuditHandlerWithLevel(inner, db, slog.LevelWarn)
}

// NewAuditHandlerWithLevel creates an AuditHandler with a custom minimum
// level for audit persistence.
func NewAuditHandlerWithLevel(inner slog.Handler, db *sql.DB, level slog.Level) *AuditHandler {
	return &AuditHandler{
		inner:  inner,
		events: store.NewEventStore(db),
		level:  level,
	}
}

// Enabled implements slog.Handler.
func (h *AuditHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.inner.Enabled(ctx, level)
}

// Handle implements slog.Handler.
func (h *AuditHandler) Handle(ctx context.Context, r slog.Record) error {
	if err := h.inner.Handle(ctx, r); err != nil {
		return err
	}
	if r.Level >= h.level {
		h.writeAudit(r)
	}
	return nil
}

// WithAttrs implements slog.Handler.
func (h *AuditHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &AuditHandler{
		inner:  h.inner.WithAttrs(attrs),
		events: h.events,
		level:  h.level,
	}
}

// WithGroup implements slog.Handler.
func (h *AuditHandler) WithGroup(name string) slog.Handler {
	return &AuditHandler{
		inner:  h.inner.WithGroup(name),
		events: h.events,
		level:  h.level,
	}
}

func (h *AuditHandler) writeAudit(r slog.Record) {
	// Background context so the event lands even when the request context
	// was already cancelled.
	_ = h.events.Insert(context.Background(),
		eventLevel(r.Level), r.Message, extractSource(r))
}

// eventLevel converts a slog.Level to an audit event level string.
func eventLevel(level slog.Level) string {
	switch {
	case level >= slog.LevelError:
		return EventLevelError
	case level >= slog.LevelWarn:
		return EventLevelWarning
	default:
		return EventLevelInfo
	}
}

// extractSource looks for an explicit "source" attribute, otherwise infers
// the subsystem from the message.
func extractSource(r slog.Record) string {
	var source string
	r.Attrs(func(a slog.Attr) bool {
		if a.Key == "source" {
			source = a.Value.String()
			return false
		}
		return true
	})
	if source != "" {
		return source
	}

	msg := strings.ToLower(r.Message)
	switch {
	case strings.Contains(msg, "cache"):
		return "cache"
	case strings.Contains(msg, "config"):
		return "config"
	case strings.Contains(msg, "fetch") || strings.Contains(msg, "upload") || strings.Contains(msg, "remote"):
		return "remote"
	default:
		return "system"
	}
}
