// Copyright (c) 2025-2026 Monarch360
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import "time"

// ConfigVersion is the schema version written into new documents.
const ConfigVersion = "2.1.9.0"

// SystemAuthor is recorded on documents generated without a signed-in user.
const SystemAuthor = "System"

// SidebarState is the persisted UI state of the sidebar, independent of the
// navigation content itself.
type SidebarState struct {
	IsOpen   bool   `json:"isOpen"`
	IsPinned bool   `json:"isPinned"`
	Position string `json:"position"`
}

// ConfigDocument is the aggregate persisted as a single JSON file in the
// site's asset storage. The whole document is read and written wholesale;
// there is no partial update.
type ConfigDocument struct {
	Version       string           `json:"version"`
	Items         []NavigationItem `json:"items"`
	Theme         ThemeConfig      `json:"theme"`
	Sidebar       SidebarState     `json:"sidebar"`
	SearchEnabled bool             `json:"searchEnabled"`
	AutoSave      bool             `json:"autoSave"`
	LastModified  string           `json:"lastModified"`
	CreatedBy     string           `json:"createdBy"`
	ModifiedBy    string           `json:"modifiedBy"`
}

// Clone returns a deep copy of the document. CRUD operations work on clones
// so that a failed save never corrupts the caller's snapshot.
func (d ConfigDocument) Clone() ConfigDocument {
	out := d
	out.Items = make([]NavigationItem, len(d.Items))
	copy(out.Items, d.Items)
	return out
}

// DefaultItems returns the stock navigation list written the first time no
// remote document exists.
func DefaultItems() []NavigationItem {
	return []NavigationItem{
		{ID: 1, Title: "Home", URL: "/", Target: TargetSelf, Order: 1, ParentID: 0},
		{ID: 2, Title: "Documents", URL: "/documents", Target: TargetSelf, Order: 2, ParentID: 0},
		{ID: 3, Title: "Resources", URL: "/resources", Target: TargetSelf, Order: 3, ParentID: 0},
		{ID: 4, Title: "Support", URL: "/support", Target: TargetSelf, Order: 4, ParentID: 0},
		{ID: 5, Title: "Policies", URL: "/documents/policies", Target: TargetSelf, Order: 1, ParentID: 2},
		{ID: 6, Title: "Procedures", URL: "/documents/procedures", Target: TargetSelf, Order: 2, ParentID: 2},
		{ID: 7, Title: "Help Desk", URL: "/support/helpdesk", Target: TargetSelf, Order: 1, ParentID: 4},
		{ID: 8, Title: "FAQ", URL: "/support/faq", Target: TargetSelf, Order: 2, ParentID: 4},
		{ID: 9, Title: "Contact Us", URL: "/support/contact", Target: TargetSelf, Order: 3, ParentID: 4},
	}
}

// DefaultDocument returns the hard-coded fallback document, authored by the
// given user (SystemAuthor when empty).
func DefaultDocument(author string) ConfigDocument {
	if author == "" {
		author = SystemAuthor
	}
	theme := DefaultTheme()
	return ConfigDocument{
		Version: ConfigVersion,
		Items:   DefaultItems(),
		Theme:   theme,
		Sidebar: SidebarState{
			IsOpen:   true,
			IsPinned: false,
			Position: theme.Position,
		},
		SearchEnabled: true,
		AutoSave:      true,
		LastModified:  time.Now().UTC().Format(time.RFC3339),
		CreatedBy:     author,
		ModifiedBy:    author,
	}
}
