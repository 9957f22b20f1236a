package catalog

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// modelNames maps display names of film models to their normalized ids.
var modelNames = map[string]string{
	"Color":              "color",
	"Black & White":      "black_white",
	"Color Frame":        "color_frame",
	"Black Frame B&W":    "black_frame_bw",
	"Duochrome (Blue)":   "duochrome_blue",
	"Duochrome (Green)":  "duochrome_green",
	"Duochrome (Yellow)": "duochrome_yellow",
	"Duochrome (Red)":    "duochrome_red",
	"Duochrome (Orange)": "duochrome_orange",
	"Metallic":           "metallic",
	"Gold Frame":         "gold_frame",
	"Silver Frame":       "silver_frame",
	"Round Frame":        "round_frame",
	"Retro":              "retro",
	"Vintage":            "vintage",
	"Multicolor 600":     "multicolor_600",
	"Rounded":            "rounded",
}

var displayNames = func() map[string]string {
	m := make(map[string]string, len(modelNames))
	for display, normalized := range modelNames {
		m[normalized] = display
	}
	return m
}()

// Normalize converts a display name to its normalized id.
// Unknown names are lowercased with spaces replaced by underscores.
func Normalize(name string) string {
	if id, ok := modelNames[name]; ok {
		return id
	}
	return strings.ReplaceAll(strings.ToLower(name), " ", "_")
}

// ToUIName converts a normalized id back to a display name.
// Unknown ids have underscores replaced by spaces and are title cased.
func ToUIName(id string) string {
	if name, ok := displayNames[id]; ok {
		return name
	}
	return cases.Title(language.English).String(strings.ReplaceAll(id, "_", " "))
}

// IsKnownModelName reports whether name is a known display name.
func IsKnownModelName(name string) bool {
	_, ok := modelNames[name]
	return ok
}

// FindModel returns the model whose id equals the normalized display name,
// or whose name matches it case-insensitively.
func FindModel(name string, models []FilmPackModel) (FilmPackModel, bool) {
	normalized := Normalize(name)
	for _, m := range models {
		if m.ID == normalized || strings.EqualFold(m.Name, normalized) {
			return m, true
		}
	}
	return FilmPackModel{}, false
}
