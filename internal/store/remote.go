// Copyright (c) 2025-2026 Monarch360
// SPDX-License-Identifier: GPL-3.0-or-later

// Package store provides the two storage surfaces of the sidebar widget: the
// remote asset-library client holding the shared configuration document, and
// the local SQLite database holding per-device preferences and the audit log.
package store

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound is returned when the configuration file does not exist in the
// asset library yet.
var ErrNotFound = errors.New("configuration file not found")

// AssetClient reads and writes the configuration document as a single file
// in the portal site's asset library. Writes are whole-file overwrites;
// there is no partial update and no concurrency check (last writer wins).
type AssetClient struct {
	httpClient *http.Client
	siteURL    string
	library    string
	fileName   string
	token      string
}

// AssetClientOptions configures an AssetClient.
type AssetClientOptions struct {
	// SiteURL is the absolute portal site URL.
	SiteURL string

	// Library is the asset library name (e.g. "SiteAssets").
	Library string

	// FileName is the configuration file name within the library.
	FileName string

	// Token is the bearer token presented on every call.
	Token string

	// Timeout bounds each HTTP call (default 15s).
	Timeout time.Duration

	// HTTPClient overrides the default client, used in tests.
	HTTPClient *http.Client
}

// NewAssetClient creates a client for the well-known configuration file.
func NewAssetClient(opts AssetClientOptions) *AssetClient {
	httpClient := opts.HTTPClient
	if httpClient == nil {
		timeout := opts.Timeout
		if timeout == 0 {
			timeout = 15 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	return &AssetClient{
		httpClient: httpClient,
		siteURL:    strings.TrimSuffix(opts.SiteURL, "/"),
		library:    opts.Library,
		fileName:   opts.FileName,
		token:      opts.Token,
	}
}

// FetchURL returns the direct URL of the configuration file.
func (c *AssetClient) FetchURL() string {
	return fmt.Sprintf("%s/%s/%s", c.siteURL, c.library, c.fileName)
}

// UploadURL returns the REST endpoint that overwrites the configuration file.
func (c *AssetClient) UploadURL() string {
	return fmt.Sprintf("%s/_api/web/GetFolderByServerRelativeUrl('%s')/Files/add(url='%s',overwrite=true)",
		c.siteURL, c.library, c.fileName)
}

// Fetch downloads the raw configuration document. Returns ErrNotFound when
// the file does not exist.
func (c *AssetClient) Fetch(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.FetchURL(), nil)
	if err != nil {
		return nil, fmt.Errorf("building fetch request: %w", err)
	}
	c.setHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching configuration: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusNotFound {
		return nil, ErrNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("fetching configuration: unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading configuration body: %w", err)
	}
	return body, nil
}

// Upload overwrites the configuration file with the given JSON payload.
func (c *AssetClient) Upload(ctx context.Context, data []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.UploadURL(), bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("building upload request: %w", err)
	}
	c.setHeaders(req)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("uploading configuration: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// Read a little of the body for the diagnostic, then discard.
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("uploading configuration: status %d: %s", resp.StatusCode, strings.TrimSpace(string(snippet)))
	}
	return nil
}

func (c *AssetClient) setHeaders(req *http.Request) {
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-Id", uuid.NewString())
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
}
