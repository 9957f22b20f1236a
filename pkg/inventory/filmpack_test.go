package inventory

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFilmPackExpiry(t *testing.T) {
	now := time.Date(2025, time.June, 10, 18, 30, 0, 0, time.UTC)
	at := func(y int, m time.Month, d int) *time.Time {
		v := time.Date(y, m, d, 1, 0, 0, 0, time.UTC)
		return &v
	}

	tests := []struct {
		name        string
		expiry      *time.Time
		wantDays    int
		wantHasDays bool
		wantExpired bool
		wantSoon    bool
		wantToday   bool
	}{
		{name: "no expiry"},
		{name: "expires today", expiry: at(2025, time.June, 10), wantHasDays: true, wantSoon: true, wantToday: true},
		{name: "expired yesterday", expiry: at(2025, time.June, 9), wantDays: -1, wantHasDays: true, wantExpired: true},
		{name: "thirty days out", expiry: at(2025, time.July, 10), wantDays: 30, wantHasDays: true, wantSoon: true},
		{name: "thirty one days out", expiry: at(2025, time.July, 11), wantDays: 31, wantHasDays: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := TestFilmPack("p", "600", "Color", 8)
			p.ExpiryDate = tt.expiry

			days, ok := p.DaysUntilExpiry(now)
			assert.Equal(t, tt.wantHasDays, ok)
			assert.Equal(t, tt.wantDays, days)
			assert.Equal(t, tt.wantExpired, p.IsExpired(now))
			assert.Equal(t, tt.wantSoon, p.IsExpiringSoon(now))
			assert.Equal(t, tt.wantToday, p.ExpiresToday(now))
		})
	}
}

func TestFilmPackUsage(t *testing.T) {
	p := TestFilmPack("p", "600", "Color", 8)
	assert.Equal(t, 0.0, p.UsagePercent())
	assert.False(t, p.IsFinished())

	p.Remaining = 2
	assert.Equal(t, 75.0, p.UsagePercent())

	p.Remaining = 0
	assert.True(t, p.IsFinished())

	empty := TestFilmPack("e", "8x10", "Color", 0)
	assert.Equal(t, 0.0, empty.UsagePercent())
}

func TestFilmPackAssociation(t *testing.T) {
	p := TestFilmPack("p", "600", "Color", 8)
	assert.False(t, p.InUse())
	assert.False(t, p.LoadedIn("cam"))

	cam := "cam"
	p.AssociatedCamera = &cam
	assert.True(t, p.InUse())
	assert.True(t, p.LoadedIn("cam"))
	assert.False(t, p.LoadedIn("other"))
}

func TestGroupKey(t *testing.T) {
	p := TestFilmPack("p", "i-Type", "Black & White", 8)
	assert.Equal(t, "i-Type_Black & White", p.GroupKey())
}

func TestDefaultExpiry(t *testing.T) {
	purchase := time.Date(2024, time.February, 29, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC), DefaultExpiry(purchase))
}

func TestCameraClone(t *testing.T) {
	desc := "first camera"
	c := TestCamera("c", "600")
	c.Description = &desc
	c.CustomPhoto = []byte{1, 2, 3}

	clone := c.Clone()
	clone.CustomPhoto[0] = 9
	*clone.Description = "changed"

	assert.Equal(t, byte(1), c.CustomPhoto[0])
	assert.Equal(t, "first camera", *c.Description)
}

func TestCameraDisplayName(t *testing.T) {
	c := TestCamera("c", "Polaroid Now")
	c.Nickname = ""
	assert.Equal(t, "Polaroid Now", c.DisplayName())
	c.Nickname = "Blue"
	assert.Equal(t, "Blue", c.DisplayName())
}

func TestRandomIconColor(t *testing.T) {
	for range 20 {
		assert.Contains(t, IconColors, RandomIconColor())
	}
}
