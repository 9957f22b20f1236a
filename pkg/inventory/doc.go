// Package inventory holds the cameras and film packs a user owns.
//
// The Store is the single owner of both collections. Every mutation runs
// inside Store.Update under one lock, so association read-modify-write
// sequences and merge replacements never interleave. Observers receive an
// Event per changed collection after the lock is released, in the order the
// mutations committed.
//
// Example:
//
//	store := inventory.NewStore()
//	err := store.Update(func(tx *inventory.Tx) error {
//		return tx.AddCamera(cam)
//	})
package inventory
