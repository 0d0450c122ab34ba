// Copyright (c) 2025-2026 Monarch360
// SPDX-License-Identifier: GPL-3.0-or-later

package nav

import (
	"regexp"
	"strings"

	"github.com/monarch360/sidenav-go/internal/model"
)

// SearchResult is one match with its breadcrumb path from root to the item
// and the title with query occurrences wrapped in highlight markers.
type SearchResult struct {
	Item        model.NavigationItem `json:"item"`
	Path        []string             `json:"path"`
	Highlighted string               `json:"highlighted"`
}

// FilterResult is the tree-shaped view of a query: the included roots, the
// children shown beneath each root, and the set of root IDs the UI must
// auto-expand because they have matching children.
type FilterResult struct {
	Roots           []model.NavigationItem         `json:"roots"`
	Children        map[int][]model.NavigationItem `json:"children"`
	ExpandedParents map[int]bool                   `json:"expandedParents"`
}

// Search returns all items whose title or url contains the query,
// case-insensitively. A whitespace-only query matches everything in canonical
// order. The path resolves parentId, so a child result reads
// [root title, child title].
func Search(items []model.NavigationItem, query string) []SearchResult {
	term := strings.ToLower(strings.TrimSpace(query))

	var results []SearchResult
	for _, item := range Sort(items) {
		if term != "" && !matches(item, term) {
			continue
		}
		results = append(results, SearchResult{
			Item:        item,
			Path:        pathOf(items, item),
			Highlighted: Highlight(item.Title, query),
		})
	}
	return results
}

// Filter returns the two-level view of a query. An empty query is the
// identity transform: all roots with all their children. Otherwise a root is
// included when it matches directly or has at least one matching child, and
// only matching children are shown beneath it.
func Filter(items []model.NavigationItem, query string) FilterResult {
	term := strings.ToLower(strings.TrimSpace(query))
	result := FilterResult{
		Children:        make(map[int][]model.NavigationItem),
		ExpandedParents: make(map[int]bool),
	}

	for _, root := range Roots(items) {
		children := Children(items, root.ID)

		if term == "" {
			result.Roots = append(result.Roots, root)
			if len(children) > 0 {
				result.Children[root.ID] = children
			}
			continue
		}

		var matchedChildren []model.NavigationItem
		for _, child := range children {
			if matches(child, term) {
				matchedChildren = append(matchedChildren, child)
			}
		}

		if !matches(root, term) && len(matchedChildren) == 0 {
			continue
		}
		result.Roots = append(result.Roots, root)
		if len(matchedChildren) > 0 {
			result.Children[root.ID] = matchedChildren
			result.ExpandedParents[root.ID] = true
		}
	}
	return result
}

// Highlight wraps each case-insensitive occurrence of the query inside the
// title with <mark> markers. It is a display transform only; the underlying
// item is never modified. The query is regex-escaped, so user input cannot
// inject pattern syntax.
func Highlight(title, query string) string {
	query = strings.TrimSpace(query)
	if query == "" {
		return title
	}
	re, err := regexp.Compile("(?i)" + regexp.QuoteMeta(query))
	if err != nil {
		return title
	}
	return re.ReplaceAllString(title, "<mark>$0</mark>")
}

func matches(item model.NavigationItem, term string) bool {
	return strings.Contains(strings.ToLower(item.Title), term) ||
		strings.Contains(strings.ToLower(item.URL), term)
}

func pathOf(items []model.NavigationItem, item model.NavigationItem) []string {
	if item.IsRoot() {
		return []string{item.Title}
	}
	if parent, ok := FindByID(items, item.ParentID); ok {
		return []string{parent.Title, item.Title}
	}
	return []string{item.Title}
}
