// Copyright (c) 2025-2026 Monarch360
// SPDX-License-Identifier: GPL-3.0-or-later

// Package service implements the configuration persistence layer: loading
// and saving the shared document against the remote asset library, with a
// TTL cache in front and hard-coded defaults behind.
package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/monarch360/sidenav-go/internal/cache"
	"github.com/monarch360/sidenav-go/internal/model"
	"github.com/monarch360/sidenav-go/internal/nav"
	"github.com/monarch360/sidenav-go/internal/store"
)

// cacheKey is the single cache entry holding the whole document.
const cacheKey = "config:document"

// UnknownAuthor is stamped into modifiedBy when no user identity is known.
const UnknownAuthor = "Unknown"

// Remote is the storage surface the service reads and writes the raw
// document through. *store.AssetClient is the production implementation.
type Remote interface {
	Fetch(ctx context.Context) ([]byte, error)
	Upload(ctx context.Context, data []byte) error
}

// ErrValidation is returned by item operations when field validation fails.
// Callers inspect Fields to render per-field messages.
type ErrValidation struct {
	Fields map[string]string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation failed for %d field(s)", len(e.Fields))
}

// Options configures a ConfigService.
type Options struct {
	Remote        Remote
	Cache         cache.Cacher
	CacheTTL      time.Duration
	RetryAttempts int           // Attempts per remote load, minimum 1
	RetryDelay    time.Duration // Fixed delay between attempts
	UserName      string        // Display name stamped into modifiedBy
	Logger        *slog.Logger
}

// ConfigService loads and saves the shared configuration document.
//
// Load never fails: any remote or validation problem degrades to the
// hard-coded defaults, which are written back once so the next load finds
// a real file. Save is strict and surfaces upload errors to the caller.
type ConfigService struct {
	remote   Remote
	cache    *cache.TypedCache[model.ConfigDocument]
	attempts int
	delay    time.Duration
	userName string
	log      *slog.Logger
}

// NewConfigService wires up a ConfigService.
func NewConfigService(opts Options) *ConfigService {
	attempts := opts.RetryAttempts
	if attempts < 1 {
		attempts = 1
	}
	ttl := opts.CacheTTL
	if ttl == 0 {
		ttl = 24 * time.Hour
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &ConfigService{
		remote:   opts.Remote,
		cache:    cache.NewTypedCache[model.ConfigDocument](opts.Cache, ttl),
		attempts: attempts,
		delay:    opts.RetryDelay,
		userName: opts.UserName,
		log:      logger,
	}
}

// Load returns the current configuration document. The cache is consulted
// first; otherwise the remote file is fetched, validated and cached. When
// nothing usable can be obtained the defaults are returned and written
// through exactly once.
func (s *ConfigService) Load(ctx context.Context) (model.ConfigDocument, error) {
	if doc, ok := s.cache.Get(ctx, cacheKey); ok {
		return *doc, nil
	}
	return s.loadRemote(ctx)
}

// Refresh bypasses the cache and reloads the document from the remote
// store, repopulating the cache. The background scheduler calls this. Unlike
// Load it is strict: a failure is returned and the cached document (and the
// remote file) are left exactly as they were, so a transient outage during a
// refresh tick never replaces a good configuration with the defaults.
func (s *ConfigService) Refresh(ctx context.Context) (model.ConfigDocument, error) {
	doc, err := s.fetchDocument(ctx)
	if err != nil {
		return model.ConfigDocument{}, err
	}

	if err := s.cache.Set(ctx, cacheKey, &doc); err != nil {
		s.log.Warn("caching configuration failed", "error", err)
	}
	return doc, nil
}

func (s *ConfigService) loadRemote(ctx context.Context) (model.ConfigDocument, error) {
	doc, err := s.fetchDocument(ctx)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			s.log.Info("no stored configuration, creating defaults")
		} else {
			s.log.Warn("remote configuration unusable, using defaults", "error", err)
		}
		return s.installDefaults(ctx), nil
	}

	if err := s.cache.Set(ctx, cacheKey, &doc); err != nil {
		s.log.Warn("caching configuration failed", "error", err)
	}
	return doc, nil
}

// fetchDocument retrieves, parses and validates the remote document without
// any fallback behavior.
func (s *ConfigService) fetchDocument(ctx context.Context) (model.ConfigDocument, error) {
	data, err := s.fetchWithRetry(ctx)
	if err != nil {
		return model.ConfigDocument{}, err
	}

	doc, err := parseDocument(data)
	if err == nil {
		err = validateDocument(doc)
	}
	if err != nil {
		return model.ConfigDocument{}, fmt.Errorf("stored configuration rejected: %w", err)
	}
	return doc, nil
}

func (s *ConfigService) fetchWithRetry(ctx context.Context) ([]byte, error) {
	var lastErr error
	for attempt := 1; attempt <= s.attempts; attempt++ {
		data, err := s.remote.Fetch(ctx)
		if err == nil {
			return data, nil
		}
		if errors.Is(err, store.ErrNotFound) {
			// A missing file will not appear by retrying.
			return nil, err
		}
		lastErr = err
		if attempt < s.attempts {
			s.log.Warn("remote fetch failed, retrying",
				"attempt", attempt, "of", s.attempts, "error", err)
			select {
			case <-time.After(s.delay):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}
	}
	return nil, lastErr
}

// installDefaults builds the fallback document, writes it through once and
// caches it. A failed write-through is logged but never surfaced: the
// caller still gets a working navigation.
func (s *ConfigService) installDefaults(ctx context.Context) model.ConfigDocument {
	doc := model.DefaultDocument(s.author())
	if err := s.upload(ctx, doc); err != nil {
		s.log.Warn("writing default configuration failed", "error", err)
	}
	if err := s.cache.Set(ctx, cacheKey, &doc); err != nil {
		s.log.Warn("caching default configuration failed", "error", err)
	}
	return doc
}

// Save stamps and persists the document, refreshing the cache only after
// the upload succeeded. Last writer wins; there is no concurrency check.
func (s *ConfigService) Save(ctx context.Context, doc model.ConfigDocument) (model.ConfigDocument, error) {
	doc = doc.Clone()
	doc.LastModified = time.Now().UTC().Format(time.RFC3339)
	doc.ModifiedBy = s.author()
	if doc.Version == "" {
		doc.Version = model.ConfigVersion
	}

	if err := s.upload(ctx, doc); err != nil {
		return model.ConfigDocument{}, err
	}
	if err := s.cache.Set(ctx, cacheKey, &doc); err != nil {
		s.log.Warn("caching saved configuration failed", "error", err)
	}
	return doc, nil
}

func (s *ConfigService) upload(ctx context.Context, doc model.ConfigDocument) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding configuration: %w", err)
	}
	return s.remote.Upload(ctx, data)
}

// InvalidateCache drops the cached document so the next Load hits the
// remote store.
func (s *ConfigService) InvalidateCache(ctx context.Context) {
	if err := s.cache.Delete(ctx, cacheKey); err != nil {
		s.log.Warn("invalidating configuration cache failed", "error", err)
	}
}

func (s *ConfigService) author() string {
	if s.userName == "" {
		return UnknownAuthor
	}
	return s.userName
}

// AddItem validates and appends a navigation item under the given parent,
// then persists the updated document.
func (s *ConfigService) AddItem(ctx context.Context, item model.NavigationItem, parentID int) (model.ConfigDocument, error) {
	doc, err := s.Load(ctx)
	if err != nil {
		return model.ConfigDocument{}, err
	}

	item.Title = nav.SanitizeTitle(item.Title)
	if fields := nav.ValidateItem(item); len(fields) > 0 {
		return model.ConfigDocument{}, &ErrValidation{Fields: fields}
	}
	if parentID != model.RootParentID {
		parent, ok := nav.FindByID(doc.Items, parentID)
		if !ok || !parent.IsRoot() {
			return model.ConfigDocument{}, &ErrValidation{Fields: map[string]string{
				"parentId": "Parent must be an existing top-level item",
			}}
		}
	}

	doc.Items = nav.Add(doc.Items, item, parentID)
	return s.Save(ctx, doc)
}

// UpdateItem validates and replaces an existing navigation item, then
// persists the updated document.
func (s *ConfigService) UpdateItem(ctx context.Context, item model.NavigationItem) (model.ConfigDocument, error) {
	doc, err := s.Load(ctx)
	if err != nil {
		return model.ConfigDocument{}, err
	}

	if _, ok := nav.FindByID(doc.Items, item.ID); !ok {
		return model.ConfigDocument{}, &ErrValidation{Fields: map[string]string{
			"id": "Item not found",
		}}
	}
	item.Title = nav.SanitizeTitle(item.Title)
	if fields := nav.ValidateItem(item); len(fields) > 0 {
		return model.ConfigDocument{}, &ErrValidation{Fields: fields}
	}

	doc.Items = nav.Update(doc.Items, item)
	return s.Save(ctx, doc)
}

// RemoveItem deletes a navigation item and, for a root, its children, then
// persists the updated document. Removing an unknown ID is a no-op save.
func (s *ConfigService) RemoveItem(ctx context.Context, id int) (model.ConfigDocument, error) {
	doc, err := s.Load(ctx)
	if err != nil {
		return model.ConfigDocument{}, err
	}

	doc.Items = nav.Remove(doc.Items, id)
	return s.Save(ctx, doc)
}
