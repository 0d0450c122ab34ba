// Copyright (c) 2025-2026 Monarch360
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/monarch360/sidenav-go/internal/store"
)

// PrefsHandler serves per-device preferences from the local database.
type PrefsHandler struct {
	prefs *store.PrefsStore
	log   *slog.Logger
}

// NewPrefsHandler creates a new preferences handler.
func NewPrefsHandler(prefs *store.PrefsStore, log *slog.Logger) *PrefsHandler {
	if log == nil {
		log = slog.Default()
	}
	return &PrefsHandler{prefs: prefs, log: log}
}

// GetToggler handles GET /api/v1/prefs/toggler.
func (h *PrefsHandler) GetToggler(w http.ResponseWriter, r *http.Request) {
	pos, err := h.prefs.GetTogglerPosition(r.Context())
	if err != nil {
		h.log.Error("reading toggler position failed", "error", err)
		writeJSONError(w, http.StatusInternalServerError, "Failed to read toggler position")
		return
	}
	writeJSONSuccess(w, map[string]any{"position": pos})
}

// SetToggler handles PUT /api/v1/prefs/toggler.
func (h *PrefsHandler) SetToggler(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Position int `json:"position"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSONError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	if err := h.prefs.SetTogglerPosition(r.Context(), body.Position); err != nil {
		h.log.Error("saving toggler position failed", "error", err)
		writeJSONError(w, http.StatusInternalServerError, "Failed to save toggler position")
		return
	}

	pos, err := h.prefs.GetTogglerPosition(r.Context())
	if err != nil {
		h.log.Error("reading toggler position failed", "error", err)
		writeJSONError(w, http.StatusInternalServerError, "Failed to read toggler position")
		return
	}
	writeJSONSuccess(w, map[string]any{"position": pos})
}
