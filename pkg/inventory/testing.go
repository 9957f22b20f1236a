package inventory

import "time"

// TestCamera returns a camera with sensible defaults for tests.
func TestCamera(id, model string) Camera {
	now := time.Date(2025, time.March, 1, 12, 0, 0, 0, time.UTC)
	return Camera{
		ID:        id,
		Nickname:  model,
		Model:     model,
		Capacity:  8,
		Image:     "camera.fill",
		Icon:      "camera.fill",
		IconColor: "blue",
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// TestFilmPack returns a fresh, unassociated pack for tests.
func TestFilmPack(id, filmType, model string, total int) FilmPack {
	now := time.Date(2025, time.March, 1, 12, 0, 0, 0, time.UTC)
	return FilmPack{
		ID:           id,
		Type:         filmType,
		Model:        model,
		Total:        total,
		Remaining:    total,
		PurchaseDate: now,
		UpdatedAt:    now,
	}
}
