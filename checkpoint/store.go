package checkpoint

import "context"

// Store persists named checkpoints.
type Store interface {
	// Save writes the checkpoint under name, replacing any existing one.
	Save(ctx context.Context, name string, ckpt *Checkpoint) error

	// Load reads the checkpoint saved under name. Returns ErrNotFound if no
	// checkpoint with that name exists.
	Load(ctx context.Context, name string) (*Checkpoint, error)

	// Delete removes the checkpoint saved under name, if present.
	Delete(ctx context.Context, name string) error

	// List returns the names of all saved checkpoints.
	List(ctx context.Context) ([]string, error)

	// Close releases any resources held by the store.
	Close() error
}
