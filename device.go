package instantbox

import (
	"context"
	"strings"

	"github.com/agentstation/instantbox/pkg/errors"
	"github.com/agentstation/instantbox/pkg/inventory"
	"github.com/agentstation/instantbox/pkg/logging"
)

// bucketDeviceID stores the generated device id.
const bucketDeviceID = "deviceID"

// resolveDeviceID returns the configured id, or the persisted one, or
// generates and persists a new one.
func (c *client) resolveDeviceID(ctx context.Context) (string, error) {
	if c.options.deviceID != "" {
		return c.options.deviceID, nil
	}

	data, err := c.options.persistence.Load(ctx, bucketDeviceID)
	if err != nil {
		return "", errors.WrapIO("load", bucketDeviceID, err)
	}
	if id := strings.TrimSpace(string(data)); id != "" {
		return id, nil
	}

	id := inventory.NewID()
	if err := c.options.persistence.Save(ctx, bucketDeviceID, []byte(id)); err != nil {
		return "", errors.WrapIO("save", bucketDeviceID, err)
	}
	logging.FromContext(ctx).Info().Str("device_id", id).Msg("Generated device id")
	return id, nil
}
