// Copyright (c) 2025-2026 Monarch360
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import "regexp"

// Sidebar positions
const (
	PositionLeft  = "left"
	PositionRight = "right"
)

// hexColorRegex loosely matches 3- and 6-digit hex color strings.
var hexColorRegex = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// ThemeConfig is the flat record of presentation properties persisted with
// the navigation document. It is a pure value object; color fields are only
// loosely validated as hex strings.
type ThemeConfig struct {
	PrimaryColor     string `json:"primaryColor"`
	SecondaryColor   string `json:"secondaryColor"`
	BackgroundColor  string `json:"backgroundColor"`
	TextColor        string `json:"textColor"`
	HoverColor       string `json:"hoverColor"`
	FontFamily       string `json:"fontFamily"`
	FontSize         string `json:"fontSize"`
	BorderRadius     string `json:"borderRadius"`
	SidebarWidth     string `json:"sidebarWidth"`
	BorderEnabled    bool   `json:"borderEnabled"`
	BorderColor      string `json:"borderColor"`
	PaddingTopBottom string `json:"paddingTopBottom"`
	LogoURL          string `json:"logoUrl"`
	LogoSize         string `json:"logoSize"`
	SiteName         string `json:"siteName"`
	SiteURL          string `json:"siteUrl"`
	Position         string `json:"position,omitempty"`
}

// IsValidHexColor checks if a string looks like a hex CSS color.
func IsValidHexColor(s string) bool {
	return hexColorRegex.MatchString(s)
}

// IsValidPosition checks if a sidebar position value is valid.
func IsValidPosition(p string) bool {
	return p == PositionLeft || p == PositionRight
}

// DefaultTheme returns the stock theme shipped with the widget.
func DefaultTheme() ThemeConfig {
	return ThemeConfig{
		PrimaryColor:     "#0078d4",
		SecondaryColor:   "#106ebe",
		BackgroundColor:  "#ffffff",
		TextColor:        "#323130",
		HoverColor:       "#f3f2f1",
		FontFamily:       "Segoe UI, system-ui, sans-serif",
		FontSize:         "14px",
		BorderRadius:     "4px",
		SidebarWidth:     "300px",
		BorderEnabled:    false,
		BorderColor:      "#d2d0ce",
		PaddingTopBottom: "2px",
		LogoURL:          "",
		LogoSize:         "40px",
		SiteName:         "",
		SiteURL:          "",
		Position:         PositionLeft,
	}
}
