// Copyright (c) 2025-2026 Monarch360
// SPDX-License-Identifier: GPL-3.0-or-later

// Package nav implements the navigation CRUD engine: pure operations over
// immutable snapshots of the flat navigation item list, plus search,
// filtering and edit-boundary validation. Callers never mutate a slice in
// place; every mutation returns a fresh top-level slice so reference
// comparison reflects any change.
package nav

import (
	"sort"

	"github.com/monarch360/sidenav-go/internal/model"
)

// FindByID returns the item with the given ID. The scan is linear; the
// collection is a navigation list of tens of items, not a data set worth
// indexing.
func FindByID(items []model.NavigationItem, id int) (model.NavigationItem, bool) {
	for _, item := range items {
		if item.ID == id {
			return item, true
		}
	}
	return model.NavigationItem{}, false
}

// NextID returns max(existing ids)+1, starting at 1 for an empty list.
func NextID(items []model.NavigationItem) int {
	maxID := 0
	for _, item := range items {
		if item.ID > maxID {
			maxID = item.ID
		}
	}
	return maxID + 1
}

// Add appends a new item and returns the re-sorted collection. A zero ID is
// replaced with NextID, an empty target defaults to _self, and parentID
// becomes the item's parent (0 = root). Add never fails and is not
// idempotent: repeated calls with a zero ID create duplicates.
func Add(items []model.NavigationItem, item model.NavigationItem, parentID int) []model.NavigationItem {
	if item.ID == 0 {
		item.ID = NextID(items)
	}
	if item.Target == "" {
		item.Target = model.TargetSelf
	}
	item.ParentID = parentID

	out := make([]model.NavigationItem, len(items), len(items)+1)
	copy(out, items)
	out = append(out, item)
	return Sort(out)
}

// Update replaces the item whose ID matches. When no item matches, the input
// slice is returned unchanged; callers that need to distinguish a no-op
// compare the result against the input.
func Update(items []model.NavigationItem, updated model.NavigationItem) []model.NavigationItem {
	idx := -1
	for i, item := range items {
		if item.ID == updated.ID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return items
	}

	out := make([]model.NavigationItem, len(items))
	copy(out, items)
	out[idx] = updated
	return Sort(out)
}

// Remove deletes the item with the given ID together with all of its direct
// children (one-level cascade). The input slice is returned unchanged when
// nothing matched.
func Remove(items []model.NavigationItem, id int) []model.NavigationItem {
	matched := false
	out := make([]model.NavigationItem, 0, len(items))
	for _, item := range items {
		if item.ID == id || item.ParentID == id {
			matched = true
			continue
		}
		out = append(out, item)
	}
	if !matched {
		return items
	}
	return out
}

// Sort returns the collection in canonical rendering order: root items
// ascending by order, each root immediately followed by its children
// ascending by order. Order values are only comparable within one sibling
// group, so the sort never compares across groups. Items with a dangling
// parent reference are appended at the end.
func Sort(items []model.NavigationItem) []model.NavigationItem {
	roots := make([]model.NavigationItem, 0, len(items))
	children := make(map[int][]model.NavigationItem)
	for _, item := range items {
		if item.IsRoot() {
			roots = append(roots, item)
		} else {
			children[item.ParentID] = append(children[item.ParentID], item)
		}
	}

	sortByOrder(roots)

	out := make([]model.NavigationItem, 0, len(items))
	for _, root := range roots {
		out = append(out, root)
		group := children[root.ID]
		sortByOrder(group)
		out = append(out, group...)
		delete(children, root.ID)
	}

	// Orphans: keep them visible rather than dropping data silently.
	orphanParents := make([]int, 0, len(children))
	for pid := range children {
		orphanParents = append(orphanParents, pid)
	}
	sort.Ints(orphanParents)
	for _, pid := range orphanParents {
		group := children[pid]
		sortByOrder(group)
		out = append(out, group...)
	}
	return out
}

func sortByOrder(group []model.NavigationItem) {
	sort.SliceStable(group, func(i, j int) bool {
		return group[i].Order < group[j].Order
	})
}

// Children returns the direct children of the given root ID, ascending by
// order.
func Children(items []model.NavigationItem, parentID int) []model.NavigationItem {
	var out []model.NavigationItem
	for _, item := range items {
		if item.ParentID == parentID {
			out = append(out, item)
		}
	}
	sortByOrder(out)
	return out
}

// Roots returns all top-level items ascending by order.
func Roots(items []model.NavigationItem) []model.NavigationItem {
	var out []model.NavigationItem
	for _, item := range items {
		if item.IsRoot() {
			out = append(out, item)
		}
	}
	sortByOrder(out)
	return out
}
