// Package embedded carries the built-in reference catalog used when neither
// the network nor the persisted cache can provide one.
package embedded

import (
	"embed"
)

// FS embeds the default catalog documents at build time.
//
//go:embed catalog/*.yaml
var FS embed.FS

// Default catalog document paths inside FS.
const (
	CameraModelsPath   = "catalog/camera_models.yaml"
	FilmPackModelsPath = "catalog/film_pack_models.yaml"
)
