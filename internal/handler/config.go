// Copyright (c) 2025-2026 Monarch360
// SPDX-License-Identifier: GPL-3.0-or-later

// Package handler implements the JSON API of the sidebar configuration
// service.
package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/monarch360/sidenav-go/internal/model"
	"github.com/monarch360/sidenav-go/internal/nav"
	"github.com/monarch360/sidenav-go/internal/service"
)

// ConfigHandler serves the configuration document and its item operations.
type ConfigHandler struct {
	svc *service.ConfigService
	log *slog.Logger
}

// NewConfigHandler creates a new configuration handler.
func NewConfigHandler(svc *service.ConfigService, log *slog.Logger) *ConfigHandler {
	if log == nil {
		log = slog.Default()
	}
	return &ConfigHandler{svc: svc, log: log}
}

// Get handles GET /api/v1/config.
func (h *ConfigHandler) Get(w http.ResponseWriter, r *http.Request) {
	doc, err := h.svc.Load(r.Context())
	if err != nil {
		h.log.Error("loading configuration failed", "error", err)
		writeJSONError(w, http.StatusInternalServerError, "Failed to load configuration")
		return
	}
	writeJSONSuccess(w, map[string]any{"config": doc})
}

// Save handles PUT /api/v1/config, replacing the whole document.
func (h *ConfigHandler) Save(w http.ResponseWriter, r *http.Request) {
	var doc model.ConfigDocument
	if err := json.NewDecoder(r.Body).Decode(&doc); err != nil {
		writeJSONError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	if fields := validateItems(doc.Items); len(fields) > 0 {
		writeValidationError(w, fields)
		return
	}

	saved, err := h.svc.Save(r.Context(), doc)
	if err != nil {
		h.log.Error("saving configuration failed", "error", err)
		writeJSONError(w, http.StatusBadGateway, "Failed to save configuration")
		return
	}
	writeJSONSuccess(w, map[string]any{"config": saved})
}

// AddItem handles POST /api/v1/config/items.
func (h *ConfigHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	var item model.NavigationItem
	if err := json.NewDecoder(r.Body).Decode(&item); err != nil {
		writeJSONError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	doc, err := h.svc.AddItem(r.Context(), item, item.ParentID)
	if err != nil {
		h.writeMutationError(w, err, "adding navigation item failed")
		return
	}
	writeJSONSuccess(w, map[string]any{"config": doc})
}

// UpdateItem handles PUT /api/v1/config/items/{id}.
func (h *ConfigHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	id, ok := itemID(w, r)
	if !ok {
		return
	}

	var item model.NavigationItem
	if err := json.NewDecoder(r.Body).Decode(&item); err != nil {
		writeJSONError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	item.ID = id

	doc, err := h.svc.UpdateItem(r.Context(), item)
	if err != nil {
		h.writeMutationError(w, err, "updating navigation item failed")
		return
	}
	writeJSONSuccess(w, map[string]any{"config": doc})
}

// DeleteItem handles DELETE /api/v1/config/items/{id}. Removing a root item
// also removes its children.
func (h *ConfigHandler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	id, ok := itemID(w, r)
	if !ok {
		return
	}

	doc, err := h.svc.RemoveItem(r.Context(), id)
	if err != nil {
		h.writeMutationError(w, err, "removing navigation item failed")
		return
	}
	writeJSONSuccess(w, map[string]any{"config": doc})
}

// Search handles GET /api/v1/config/search?q=.
func (h *ConfigHandler) Search(w http.ResponseWriter, r *http.Request) {
	doc, err := h.svc.Load(r.Context())
	if err != nil {
		h.log.Error("loading configuration failed", "error", err)
		writeJSONError(w, http.StatusInternalServerError, "Failed to load configuration")
		return
	}

	query := r.URL.Query().Get("q")
	results := nav.Search(doc.Items, query)
	filtered := nav.Filter(doc.Items, query)

	writeJSONSuccess(w, map[string]any{
		"query":           query,
		"results":         results,
		"expandedParents": filtered.ExpandedParents,
	})
}

func (h *ConfigHandler) writeMutationError(w http.ResponseWriter, err error, logMsg string) {
	var verr *service.ErrValidation
	if errors.As(err, &verr) {
		writeValidationError(w, verr.Fields)
		return
	}
	h.log.Error(logMsg, "error", err)
	writeJSONError(w, http.StatusBadGateway, "Failed to save configuration")
}

// itemID extracts and validates the {id} route parameter.
func itemID(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || id <= 0 {
		writeJSONError(w, http.StatusBadRequest, "Invalid item id")
		return 0, false
	}
	return id, true
}

// validateItems runs the field rules over a whole document's items, keying
// messages by item id so the caller can attribute them.
func validateItems(items []model.NavigationItem) map[string]string {
	fields := make(map[string]string)
	roots := make(map[int]bool)
	for _, item := range items {
		if item.IsRoot() {
			roots[item.ID] = true
		}
	}
	for _, item := range items {
		for field, msg := range nav.ValidateItem(item) {
			fields[fmt.Sprintf("items[%d].%s", item.ID, field)] = msg
		}
		if !item.IsRoot() && !roots[item.ParentID] {
			fields[fmt.Sprintf("items[%d].parentId", item.ID)] = "Parent must be an existing top-level item"
		}
	}
	if len(fields) == 0 {
		return nil
	}
	return fields
}
