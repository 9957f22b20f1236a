// Package replication holds the remote replica adapters and the driver
// registry used to pick one from configuration.
package replication
