package instantbox

import (
	"context"
	stderrors "errors"
	"time"

	"github.com/agentstation/instantbox/pkg/constants"
	"github.com/agentstation/instantbox/pkg/errors"
	"github.com/agentstation/instantbox/pkg/logging"
)

// Compile-time interface check to ensure proper implementation.
var _ AutoSyncer = (*client)(nil)

// AutoSyncer provides controls for periodic full syncs.
type AutoSyncer interface {
	// AutoSyncOn begins periodic syncs
	AutoSyncOn() error

	// AutoSyncOff stops periodic syncs
	AutoSyncOff() error
}

// AutoSyncOn begins periodic syncs at the configured interval.
func (c *client) AutoSyncOn() error {
	if c.autoInterval <= 0 {
		return errors.NewValidationError("autoSyncInterval", c.autoInterval, "sync interval must be positive")
	}
	if c.options.replication == nil {
		return errors.NewConfigError("autosync", "no replication backend configured", nil)
	}

	// Stop any existing ticker first
	if err := c.AutoSyncOff(); err != nil {
		return err
	}

	c.autoMu.Lock()
	defer c.autoMu.Unlock()

	stop := make(chan struct{})
	ticker := time.NewTicker(c.autoInterval)
	ctx, cancel := context.WithCancel(c.bgCtx)
	c.autoStop, c.autoTicker, c.autoCancel = stop, ticker, cancel

	started := c.background(func(context.Context) {
		for {
			select {
			case <-ticker.C:
				syncCtx, syncCancel := context.WithTimeout(ctx, constants.SyncContextTimeout)
				_, err := c.Sync(syncCtx)
				syncCancel()

				switch {
				case err == nil:
				case stderrors.Is(err, errors.ErrSyncDisabled):
					logging.Debug().Msg("Auto-sync skipped, sync disabled")
				case stderrors.Is(err, context.Canceled):
					return
				default:
					logging.Error().Err(err).Msg("Auto-sync failed")
				}
			case <-ctx.Done():
				return
			case <-stop:
				return
			}
		}
	})
	if !started {
		ticker.Stop()
		cancel()
		return errors.NewConfigError("autosync", "client is closed", nil)
	}

	logging.Debug().Dur("interval", c.autoInterval).Msg("Auto-sync started")
	return nil
}

// AutoSyncOff stops periodic syncs.
func (c *client) AutoSyncOff() error {
	c.autoMu.Lock()
	defer c.autoMu.Unlock()

	if c.autoTicker != nil {
		c.autoTicker.Stop()
		c.autoTicker = nil
	}
	if c.autoCancel != nil {
		c.autoCancel()
		c.autoCancel = nil
	}
	if c.autoStop != nil {
		close(c.autoStop)
		c.autoStop = nil
	}
	return nil
}
