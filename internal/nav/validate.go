// Copyright (c) 2025-2026 Monarch360
// SPDX-License-Identifier: GPL-3.0-or-later

package nav

import (
	"html"
	"net/url"
	"strings"

	"github.com/microcosm-cc/bluemonday"

	"github.com/monarch360/sidenav-go/internal/model"
)

// Validation limits applied at the edit boundary. The storage layer itself
// does not enforce them.
const (
	MaxTitleLength = 50
	MinOrder       = 1
	MaxOrder       = 999
)

// titlePolicy strips all HTML from user-entered titles before they are
// stored or highlighted.
var titlePolicy = bluemonday.StrictPolicy()

// ValidateItem applies the edit-form field rules and returns a field->message
// map. An empty map means the item is valid; validation gates the save
// action and is never raised as an error.
func ValidateItem(item model.NavigationItem) map[string]string {
	errors := make(map[string]string)

	title := strings.TrimSpace(item.Title)
	if title == "" {
		errors["title"] = "Title is required"
	} else if len(item.Title) > MaxTitleLength {
		errors["title"] = "Title must be 50 characters or less"
	}

	rawURL := strings.TrimSpace(item.URL)
	if rawURL == "" {
		errors["url"] = "URL is required"
	} else if !isAbsoluteURL(rawURL) && !isRelativePath(rawURL) {
		errors["url"] = "Please enter a valid URL (https://...) or relative path (/path)"
	}

	if item.Order < MinOrder || item.Order > MaxOrder {
		errors["order"] = "Order must be between 1 and 999"
	}

	if item.Target != "" && !model.IsValidTarget(item.Target) {
		errors["target"] = "Invalid link target"
	}

	return errors
}

// SanitizeTitle trims whitespace and strips any HTML markup from a
// user-entered title. The sanitizer entity-escapes characters like "&";
// unescape afterwards so plain text is stored as typed and the length
// rule counts the characters the user sees.
func SanitizeTitle(title string) string {
	return strings.TrimSpace(html.UnescapeString(titlePolicy.Sanitize(title)))
}

func isAbsoluteURL(raw string) bool {
	u, err := url.Parse(raw)
	return err == nil && u.Scheme != "" && u.Host != ""
}

func isRelativePath(raw string) bool {
	return strings.HasPrefix(raw, "/") && len(raw) > 1
}
