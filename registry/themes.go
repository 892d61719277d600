package registry

import (
	"encoding/json"
	"fmt"
)

// ThemeColors are the ten named color slots every theme must fill
type ThemeColors struct {
	Primary       string `json:"primary"`
	Secondary     string `json:"secondary"`
	Accent        string `json:"accent"`
	Background    string `json:"background"`
	Surface       string `json:"surface"`
	Text          string `json:"text"`
	TextSecondary string `json:"textSecondary"`
	Border        string `json:"border"`
	Success       string `json:"success"`
	Error         string `json:"error"`
}

// ThemeFonts are the two required font slots
type ThemeFonts struct {
	Heading string `json:"heading"`
	Body    string `json:"body"`
}

// Theme is a visual preset for an event's public page. Events store a copy
// of the chosen theme, never a reference: later edits to the preset table do
// not affect existing events.
type Theme struct {
	Name         string      `json:"name"`
	Colors       ThemeColors `json:"colors"`
	Fonts        ThemeFonts  `json:"fonts"`
	Layout       string      `json:"layout"`
	BorderRadius string      `json:"borderRadius"`
	Logo         *string     `json:"logo"`
}

// Validate checks the full theme shape: all ten colors and both fonts must
// be present. Generated themes are untrusted input and go through the same
// check as preset copies.
func (t Theme) Validate() error {
	colors := map[string]string{
		"primary":       t.Colors.Primary,
		"secondary":     t.Colors.Secondary,
		"accent":        t.Colors.Accent,
		"background":    t.Colors.Background,
		"surface":       t.Colors.Surface,
		"text":          t.Colors.Text,
		"textSecondary": t.Colors.TextSecondary,
		"border":        t.Colors.Border,
		"success":       t.Colors.Success,
		"error":         t.Colors.Error,
	}
	for slot, value := range colors {
		if value == "" {
			return fmt.Errorf("theme missing color: %s", slot)
		}
	}
	if t.Fonts.Heading == "" || t.Fonts.Body == "" {
		return fmt.Errorf("theme missing font definitions")
	}
	return nil
}

// ParseTheme decodes and validates a raw theme object
func ParseTheme(raw []byte) (Theme, error) {
	var t Theme
	if err := json.Unmarshal(raw, &t); err != nil {
		return Theme{}, fmt.Errorf("malformed theme: %w", err)
	}
	if err := t.Validate(); err != nil {
		return Theme{}, err
	}
	return t, nil
}

// DefaultThemes returns the fixed preset catalog keyed by preset name
func DefaultThemes() map[string]Theme {
	return map[string]Theme{
		"default": {
			Name: "Campus Default",
			Colors: ThemeColors{
				Primary:       "#2563eb",
				Secondary:     "#7c3aed",
				Accent:        "#f59e0b",
				Background:    "#ffffff",
				Surface:       "#f8fafc",
				Text:          "#0f172a",
				TextSecondary: "#64748b",
				Border:        "#e2e8f0",
				Success:       "#22c55e",
				Error:         "#ef4444",
			},
			Fonts: ThemeFonts{
				Heading: "Inter, system-ui, sans-serif",
				Body:    "Inter, system-ui, sans-serif",
			},
			Layout:       "standard",
			BorderRadius: "8px",
		},
		"hackathon": {
			Name: "Hackathon Neon",
			Colors: ThemeColors{
				Primary:       "#00ff88",
				Secondary:     "#00ccff",
				Accent:        "#ff00ff",
				Background:    "#0a0a0a",
				Surface:       "#1a1a2e",
				Text:          "#e0e0e0",
				TextSecondary: "#888888",
				Border:        "#333333",
				Success:       "#00ff88",
				Error:         "#ff4444",
			},
			Fonts: ThemeFonts{
				Heading: "'JetBrains Mono', monospace",
				Body:    "'Inter', sans-serif",
			},
			Layout:       "tech",
			BorderRadius: "4px",
		},
		"cultural": {
			Name: "Cultural Fest",
			Colors: ThemeColors{
				Primary:       "#e11d48",
				Secondary:     "#f97316",
				Accent:        "#eab308",
				Background:    "#fffbeb",
				Surface:       "#fff7ed",
				Text:          "#1c1917",
				TextSecondary: "#78716c",
				Border:        "#e7e5e4",
				Success:       "#16a34a",
				Error:         "#dc2626",
			},
			Fonts: ThemeFonts{
				Heading: "'Playfair Display', serif",
				Body:    "'Lato', sans-serif",
			},
			Layout:       "festive",
			BorderRadius: "16px",
		},
		"sports": {
			Name: "Sports Arena",
			Colors: ThemeColors{
				Primary:       "#dc2626",
				Secondary:     "#1d4ed8",
				Accent:        "#fbbf24",
				Background:    "#f0f9ff",
				Surface:       "#ffffff",
				Text:          "#0c0a09",
				TextSecondary: "#57534e",
				Border:        "#d6d3d1",
				Success:       "#15803d",
				Error:         "#b91c1c",
			},
			Fonts: ThemeFonts{
				Heading: "'Oswald', sans-serif",
				Body:    "'Roboto', sans-serif",
			},
			Layout:       "bold",
			BorderRadius: "6px",
		},
		"workshop": {
			Name: "Workshop Minimal",
			Colors: ThemeColors{
				Primary:       "#6366f1",
				Secondary:     "#8b5cf6",
				Accent:        "#06b6d4",
				Background:    "#fafafa",
				Surface:       "#ffffff",
				Text:          "#18181b",
				TextSecondary: "#71717a",
				Border:        "#e4e4e7",
				Success:       "#22c55e",
				Error:         "#f43f5e",
			},
			Fonts: ThemeFonts{
				Heading: "'Plus Jakarta Sans', sans-serif",
				Body:    "'Plus Jakarta Sans', sans-serif",
			},
			Layout:       "clean",
			BorderRadius: "12px",
		},
	}
}
