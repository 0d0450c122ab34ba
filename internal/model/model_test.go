// Copyright (c) 2025-2026 Monarch360
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"encoding/json"
	"testing"
)

func TestIsValidTarget(t *testing.T) {
	tests := []struct {
		target string
		want   bool
	}{
		{TargetSelf, true},
		{TargetBlank, true},
		{"_parent", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := IsValidTarget(tt.target); got != tt.want {
			t.Errorf("IsValidTarget(%q) = %v, want %v", tt.target, got, tt.want)
		}
	}
}

func TestIsValidHexColor(t *testing.T) {
	tests := []struct {
		color string
		want  bool
	}{
		{"#0078d4", true},
		{"#fff", true},
		{"#FFFFFF", true},
		{"0078d4", false},
		{"#0078d", false},
		{"#gggggg", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := IsValidHexColor(tt.color); got != tt.want {
			t.Errorf("IsValidHexColor(%q) = %v, want %v", tt.color, got, tt.want)
		}
	}
}

func TestDefaultDocument(t *testing.T) {
	doc := DefaultDocument("")

	if doc.Version != ConfigVersion {
		t.Errorf("version = %q, want %q", doc.Version, ConfigVersion)
	}
	if doc.CreatedBy != SystemAuthor || doc.ModifiedBy != SystemAuthor {
		t.Errorf("author = %q/%q, want %q", doc.CreatedBy, doc.ModifiedBy, SystemAuthor)
	}
	if len(doc.Items) != 9 {
		t.Fatalf("items = %d, want 9", len(doc.Items))
	}
	if !doc.SearchEnabled || !doc.AutoSave || !doc.Sidebar.IsOpen {
		t.Error("expected search, autosave and open sidebar enabled by default")
	}

	// Every non-root parent reference must resolve to a root item.
	roots := make(map[int]bool)
	for _, item := range doc.Items {
		if item.IsRoot() {
			roots[item.ID] = true
		}
	}
	for _, item := range doc.Items {
		if !item.IsRoot() && !roots[item.ParentID] {
			t.Errorf("item %d has dangling parent %d", item.ID, item.ParentID)
		}
	}
}

func TestDefaultDocumentAuthor(t *testing.T) {
	doc := DefaultDocument("Jane Editor")
	if doc.CreatedBy != "Jane Editor" || doc.ModifiedBy != "Jane Editor" {
		t.Errorf("author = %q/%q, want Jane Editor", doc.CreatedBy, doc.ModifiedBy)
	}
}

func TestConfigDocumentClone(t *testing.T) {
	doc := DefaultDocument("")
	clone := doc.Clone()

	clone.Items[0].Title = "Changed"
	if doc.Items[0].Title == "Changed" {
		t.Error("mutating clone items must not affect the original")
	}
}

func TestNavigationItemJSONRoundTrip(t *testing.T) {
	item := NavigationItem{ID: 7, Title: "Help Desk", URL: "/support/helpdesk", Target: TargetSelf, Order: 1, ParentID: 4}

	data, err := json.Marshal(item)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var got NavigationItem
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got != item {
		t.Errorf("round-trip = %+v, want %+v", got, item)
	}
}
