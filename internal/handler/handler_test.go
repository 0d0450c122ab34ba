// Copyright (c) 2025-2026 Monarch360
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/monarch360/sidenav-go/internal/cache"
	"github.com/monarch360/sidenav-go/internal/model"
	"github.com/monarch360/sidenav-go/internal/service"
	"github.com/monarch360/sidenav-go/internal/store"
)

type fakeRemote struct {
	data      []byte
	fetchErr  error
	uploadErr error
	uploads   [][]byte
}

func (f *fakeRemote) Fetch(ctx context.Context) ([]byte, error) {
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}
	return f.data, nil
}

func (f *fakeRemote) Upload(ctx context.Context, data []byte) error {
	if f.uploadErr != nil {
		return f.uploadErr
	}
	f.uploads = append(f.uploads, data)
	return nil
}

type testEnv struct {
	router chi.Router
	remote *fakeRemote
	db     *sql.DB
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	data, err := json.Marshal(model.DefaultDocument("Author"))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	remote := &fakeRemote{data: data}

	mem := cache.NewSimpleMemoryCache(time.Hour)
	t.Cleanup(func() { _ = mem.Close() })

	svc := service.NewConfigService(service.Options{
		Remote:        remote,
		Cache:         mem,
		CacheTTL:      time.Hour,
		RetryAttempts: 1,
		UserName:      "Test User",
	})

	db, err := store.NewDB(filepath.Join(t.TempDir(), "handler-test.db"))
	if err != nil {
		t.Fatalf("NewDB: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	if err := store.Migrate(db); err != nil {
		t.Fatalf("Migrate: %v", err)
	}

	router := NewRouter(
		NewConfigHandler(svc, nil),
		NewPrefsHandler(store.NewPrefsStore(db), nil),
		NewHealthHandler(db, mem, "test"),
	)
	return &testEnv{router: router, remote: remote, db: db}
}

func (e *testEnv) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

type configResponse struct {
	Success bool                 `json:"success"`
	Error   string               `json:"error"`
	Fields  map[string]string    `json:"fields"`
	Config  model.ConfigDocument `json:"config"`
}

func decodeConfig(t *testing.T, rec *httptest.ResponseRecorder) configResponse {
	t.Helper()
	var resp configResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding response: %v (%s)", err, rec.Body.String())
	}
	return resp
}

func TestGetConfig(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/api/v1/config", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	resp := decodeConfig(t, rec)
	if !resp.Success {
		t.Error("expected success")
	}
	if len(resp.Config.Items) != 9 {
		t.Errorf("items = %d, want 9", len(resp.Config.Items))
	}
	if resp.Config.Version != model.ConfigVersion {
		t.Errorf("version = %q", resp.Config.Version)
	}
}

func TestPutConfigRejectsInvalidItems(t *testing.T) {
	env := newTestEnv(t)

	doc := model.DefaultDocument("Author")
	doc.Items[0].Title = ""

	rec := env.do(t, http.MethodPut, "/api/v1/config", doc)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", rec.Code)
	}

	resp := decodeConfig(t, rec)
	if resp.Fields["items[1].title"] != "Title is required" {
		t.Errorf("fields = %v", resp.Fields)
	}
	if len(env.remote.uploads) != 0 {
		t.Error("invalid document must not be uploaded")
	}
}

func TestPutConfigRejectsOrphanChild(t *testing.T) {
	env := newTestEnv(t)

	doc := model.DefaultDocument("Author")
	doc.Items = append(doc.Items, model.NavigationItem{
		ID: 10, Title: "Lost", URL: "/lost", Order: 1, ParentID: 77,
	})

	rec := env.do(t, http.MethodPut, "/api/v1/config", doc)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", rec.Code)
	}
	resp := decodeConfig(t, rec)
	if resp.Fields["items[10].parentId"] == "" {
		t.Errorf("fields = %v", resp.Fields)
	}
}

func TestPutConfigSaves(t *testing.T) {
	env := newTestEnv(t)

	doc := model.DefaultDocument("Author")
	doc.SearchEnabled = false

	rec := env.do(t, http.MethodPut, "/api/v1/config", doc)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}

	resp := decodeConfig(t, rec)
	if resp.Config.SearchEnabled {
		t.Error("saved document must carry the change")
	}
	if resp.Config.ModifiedBy != "Test User" {
		t.Errorf("modifiedBy = %q", resp.Config.ModifiedBy)
	}
	if len(env.remote.uploads) != 1 {
		t.Errorf("uploads = %d, want 1", len(env.remote.uploads))
	}
}

func TestPutConfigRemoteFailure(t *testing.T) {
	env := newTestEnv(t)
	env.remote.uploadErr = errors.New("storage offline")

	rec := env.do(t, http.MethodPut, "/api/v1/config", model.DefaultDocument("Author"))
	if rec.Code != http.StatusBadGateway {
		t.Fatalf("status = %d, want 502", rec.Code)
	}
}

func TestAddItem(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/v1/config/items", map[string]any{
		"title": "News", "url": "/news", "order": 5,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}

	resp := decodeConfig(t, rec)
	if len(resp.Config.Items) != 10 {
		t.Errorf("items = %d, want 10", len(resp.Config.Items))
	}
	added, ok := findItem(resp.Config.Items, "News")
	if !ok {
		t.Fatal("added item missing from document")
	}
	if added.ID != 10 {
		t.Errorf("id = %d, want 10 (max+1)", added.ID)
	}
	if added.Target != model.TargetSelf {
		t.Errorf("target = %q, want default _self", added.Target)
	}
}

func TestAddItemValidation(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/v1/config/items", map[string]any{
		"title": "Bad", "url": "not a url", "order": 1,
	})
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", rec.Code)
	}
	resp := decodeConfig(t, rec)
	if resp.Fields["url"] == "" {
		t.Errorf("fields = %v", resp.Fields)
	}
}

func TestUpdateItem(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPut, "/api/v1/config/items/1", map[string]any{
		"title": "Start", "url": "/", "order": 1, "target": "_self",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}

	resp := decodeConfig(t, rec)
	if _, ok := findItem(resp.Config.Items, "Start"); !ok {
		t.Error("updated title missing from document")
	}
	if _, ok := findItem(resp.Config.Items, "Home"); ok {
		t.Error("old title still present")
	}
}

func TestUpdateItemBadID(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPut, "/api/v1/config/items/abc", map[string]any{
		"title": "X", "url": "/x", "order": 1,
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestDeleteItemCascades(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodDelete, "/api/v1/config/items/4", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}

	resp := decodeConfig(t, rec)
	if len(resp.Config.Items) != 5 {
		t.Errorf("items = %d, want 5 after cascade", len(resp.Config.Items))
	}
	for _, item := range resp.Config.Items {
		if item.ID == 4 || item.ParentID == 4 {
			t.Errorf("item %d survived cascade", item.ID)
		}
	}
}

func TestSearch(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/api/v1/config/search?q=policies", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var resp struct {
		Success bool `json:"success"`
		Results []struct {
			Item        model.NavigationItem `json:"item"`
			Path        []string             `json:"path"`
			Highlighted string               `json:"highlighted"`
		} `json:"results"`
		ExpandedParents map[string]bool `json:"expandedParents"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Results) != 1 {
		t.Fatalf("results = %d, want 1", len(resp.Results))
	}
	if resp.Results[0].Item.Title != "Policies" {
		t.Errorf("title = %q", resp.Results[0].Item.Title)
	}
	if len(resp.Results[0].Path) != 2 || resp.Results[0].Path[0] != "Documents" {
		t.Errorf("path = %v", resp.Results[0].Path)
	}
	if resp.Results[0].Highlighted != "<mark>Policies</mark>" {
		t.Errorf("highlighted = %q", resp.Results[0].Highlighted)
	}
	if !resp.ExpandedParents["2"] {
		t.Errorf("expandedParents = %v, want parent 2 expanded", resp.ExpandedParents)
	}
}

func TestSearchEmptyQueryReturnsAll(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/api/v1/config/search", nil)
	var resp struct {
		Results []json.RawMessage `json:"results"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Results) != 9 {
		t.Errorf("results = %d, want 9", len(resp.Results))
	}
}

func TestTogglerDefaultAndRoundTrip(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/api/v1/prefs/toggler", nil)
	var resp struct {
		Position int `json:"position"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Position != store.DefaultTogglerPosition {
		t.Errorf("position = %d, want %d", resp.Position, store.DefaultTogglerPosition)
	}

	rec = env.do(t, http.MethodPut, "/api/v1/prefs/toggler", map[string]any{"position": 70})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Position != 70 {
		t.Errorf("position = %d, want 70", resp.Position)
	}
}

func TestTogglerBadBody(t *testing.T) {
	env := newTestEnv(t)

	req := httptest.NewRequest(http.MethodPut, "/api/v1/prefs/toggler", bytes.NewReader([]byte("{bad")))
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/health", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}

	var status HealthStatus
	if err := json.Unmarshal(rec.Body.Bytes(), &status); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if status.Status != "healthy" {
		t.Errorf("status = %q", status.Status)
	}
	if status.Checks["database"].Status != "healthy" || status.Checks["cache"].Status != "healthy" {
		t.Errorf("checks = %+v", status.Checks)
	}
}

func TestHealthLiveAndReady(t *testing.T) {
	env := newTestEnv(t)

	if rec := env.do(t, http.MethodGet, "/health/live", nil); rec.Code != http.StatusOK {
		t.Errorf("live status = %d", rec.Code)
	}
	if rec := env.do(t, http.MethodGet, "/health/ready", nil); rec.Code != http.StatusOK {
		t.Errorf("ready status = %d", rec.Code)
	}
}

func findItem(items []model.NavigationItem, title string) (model.NavigationItem, bool) {
	for _, item := range items {
		if item.Title == title {
			return item, true
		}
	}
	return model.NavigationItem{}, false
}
