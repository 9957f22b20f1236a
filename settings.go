package instantbox

import (
	"context"

	"github.com/agentstation/instantbox/pkg/constants"
)

// Compile-time interface check to ensure proper implementation.
var _ Settings = (*client)(nil)

// Settings toggles features at runtime. Sync and reminders are gated by
// the caller's entitlement, which the inventory never queries itself.
type Settings interface {
	SetSyncEnabled(enabled bool)
	SyncEnabled() bool
	SetRemindersEnabled(enabled bool)
	SetReminderDelay(minutes int)
	SetIgnoreCompatibility(ignore bool)
	IgnoreCompatibility() bool
}

// SetSyncEnabled toggles replication.
func (c *client) SetSyncEnabled(enabled bool) {
	c.syncEnabled.Store(enabled)
}

// SyncEnabled reports whether replication is enabled and configured.
func (c *client) SyncEnabled() bool {
	return c.syncEnabled.Load() && c.options.replication != nil
}

// SetRemindersEnabled toggles development reminders. Disabling them also
// cancels the reminders already scheduled.
func (c *client) SetRemindersEnabled(enabled bool) {
	c.assoc.SetRemindersEnabled(enabled)
	if enabled {
		return
	}
	ctx, cancel := context.WithTimeout(c.bgCtx, constants.DefaultTimeout)
	defer cancel()
	c.assoc.CancelReminders(ctx)
}

// SetReminderDelay changes the reminder delay in minutes.
func (c *client) SetReminderDelay(minutes int) {
	c.assoc.SetReminderDelay(minutes)
}

// SetIgnoreCompatibility lets any pack load into any camera.
func (c *client) SetIgnoreCompatibility(ignore bool) {
	c.resolver.SetIgnoreCompatibility(ignore)
}

// IgnoreCompatibility reports whether compatibility checks are bypassed.
func (c *client) IgnoreCompatibility() bool {
	return c.resolver.IgnoreCompatibility()
}
