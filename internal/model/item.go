// Copyright (c) 2025-2026 Monarch360
// SPDX-License-Identifier: GPL-3.0-or-later

// Package model defines the sidebar navigation data model: navigation items,
// the theme record, the persisted sidebar state and the aggregate
// configuration document.
package model

// Link target values
const (
	TargetSelf  = "_self"
	TargetBlank = "_blank"
)

// ValidTargets contains all valid link target values.
var ValidTargets = []string{TargetSelf, TargetBlank}

// RootParentID marks an item that sits at the top level of the navigation.
const RootParentID = 0

// NavigationItem is a single entry in the flat, two-level navigation list.
// ParentID is 0 for root items; any other value references the ID of an
// existing root item. Order is the sort key within a sibling group and is
// neither required to be contiguous nor unique.
type NavigationItem struct {
	ID       int    `json:"id"`
	Title    string `json:"title"`
	URL      string `json:"url"`
	Target   string `json:"target,omitempty"`
	Order    int    `json:"order"`
	ParentID int    `json:"parentId"`
}

// IsRoot reports whether the item sits at the top level.
func (i NavigationItem) IsRoot() bool {
	return i.ParentID == RootParentID
}

// LegacyNavigationItem is the hierarchical predecessor of NavigationItem,
// where children nested inside their parent instead of referencing it.
// It is accepted only during schema migration of old documents.
type LegacyNavigationItem struct {
	ID       int                    `json:"id"`
	Title    string                 `json:"title"`
	URL      string                 `json:"url"`
	Target   string                 `json:"target,omitempty"`
	Order    int                    `json:"order"`
	ParentID int                    `json:"parentId,omitempty"`
	Children []LegacyNavigationItem `json:"children,omitempty"`
}

// IsValidTarget checks if a target value is valid.
func IsValidTarget(target string) bool {
	for _, t := range ValidTargets {
		if t == target {
			return true
		}
	}
	return false
}
