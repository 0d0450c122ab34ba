// Copyright (c) 2025-2026 Monarch360
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"encoding/json"
	"fmt"

	"github.com/monarch360/sidenav-go/internal/model"
	"github.com/monarch360/sidenav-go/internal/nav"
)

// rawDocument accepts both the current flat schema and the legacy
// hierarchical one, where the list lived under a "navigation" key and
// children nested inside their parents.
type rawDocument struct {
	Version       string                       `json:"version"`
	Items         []model.LegacyNavigationItem `json:"items"`
	Navigation    []model.LegacyNavigationItem `json:"navigation"`
	Theme         *model.ThemeConfig           `json:"theme"`
	Sidebar       *model.SidebarState          `json:"sidebar"`
	SearchEnabled *bool                        `json:"searchEnabled"`
	AutoSave      *bool                        `json:"autoSave"`
	LastModified  string                       `json:"lastModified"`
	CreatedBy     string                       `json:"createdBy"`
	ModifiedBy    string                       `json:"modifiedBy"`
}

// parseDocument decodes a stored configuration payload, migrating legacy
// schemas to the current flat two-level shape and filling in missing
// sections with defaults.
func parseDocument(data []byte) (model.ConfigDocument, error) {
	var raw rawDocument
	if err := json.Unmarshal(data, &raw); err != nil {
		return model.ConfigDocument{}, fmt.Errorf("decoding configuration: %w", err)
	}

	source := raw.Items
	if len(source) == 0 && len(raw.Navigation) > 0 {
		source = raw.Navigation
	}
	if source == nil {
		return model.ConfigDocument{}, fmt.Errorf("configuration has no navigation items")
	}

	items := flattenItems(source)
	items = nav.Sort(items)

	doc := model.ConfigDocument{
		Version:       raw.Version,
		Items:         items,
		Sidebar:       model.SidebarState{IsOpen: true, Position: model.PositionLeft},
		SearchEnabled: true,
		AutoSave:      true,
		LastModified:  raw.LastModified,
		CreatedBy:     raw.CreatedBy,
		ModifiedBy:    raw.ModifiedBy,
	}
	if doc.Version == "" {
		doc.Version = model.ConfigVersion
	}
	if raw.Theme != nil {
		doc.Theme = *raw.Theme
	} else {
		doc.Theme = model.DefaultTheme()
	}
	if raw.Sidebar != nil {
		doc.Sidebar = *raw.Sidebar
	} else if doc.Theme.Position != "" {
		doc.Sidebar.Position = doc.Theme.Position
	}
	if raw.SearchEnabled != nil {
		doc.SearchEnabled = *raw.SearchEnabled
	}
	if raw.AutoSave != nil {
		doc.AutoSave = *raw.AutoSave
	}
	return doc, nil
}

// flattenItems converts a possibly hierarchical item list into the flat
// two-level form. Children at any nesting depth attach directly to their
// top-level ancestor; items without an ID get the next free one.
func flattenItems(source []model.LegacyNavigationItem) []model.NavigationItem {
	var items []model.NavigationItem

	var walk func(legacy model.LegacyNavigationItem, rootID int)
	walk = func(legacy model.LegacyNavigationItem, rootID int) {
		item := model.NavigationItem{
			ID:       legacy.ID,
			Title:    legacy.Title,
			URL:      legacy.URL,
			Target:   legacy.Target,
			Order:    legacy.Order,
			ParentID: legacy.ParentID,
		}
		if rootID != model.RootParentID {
			item.ParentID = rootID
		}
		items = append(items, item)

		anchor := item.ID
		if rootID != model.RootParentID {
			// Already below a root: deeper descendants attach to the same root.
			anchor = rootID
		}
		for _, child := range legacy.Children {
			walk(child, anchor)
		}
	}

	for _, legacy := range source {
		walk(legacy, model.RootParentID)
	}

	// Items migrated from the legacy schema may lack IDs.
	for i := range items {
		if items[i].ID == 0 {
			items[i].ID = nav.NextID(items)
		}
	}
	return items
}

// validateDocument applies the structural checks a stored document must pass
// before it is trusted. A failing document is replaced by the defaults.
func validateDocument(doc model.ConfigDocument) error {
	if doc.Version == "" {
		return fmt.Errorf("configuration version is empty")
	}
	if doc.Items == nil {
		return fmt.Errorf("configuration has no navigation items")
	}

	roots := make(map[int]bool)
	seen := make(map[int]bool)
	for _, item := range doc.Items {
		if item.ID <= 0 {
			return fmt.Errorf("item %q has invalid id %d", item.Title, item.ID)
		}
		if seen[item.ID] {
			return fmt.Errorf("duplicate item id %d", item.ID)
		}
		seen[item.ID] = true
		if item.IsRoot() {
			roots[item.ID] = true
		}
	}
	for _, item := range doc.Items {
		if item.Title == "" {
			return fmt.Errorf("item %d has no title", item.ID)
		}
		if item.URL == "" {
			return fmt.Errorf("item %d has no url", item.ID)
		}
		if !item.IsRoot() && !roots[item.ParentID] {
			return fmt.Errorf("item %d references missing parent %d", item.ID, item.ParentID)
		}
	}
	return nil
}
