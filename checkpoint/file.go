package checkpoint

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

const fileExt = ".ckpt"

// FileStore keeps each checkpoint in its own file under a directory.
type FileStore struct {
	dir string
}

// NewFileStore creates a file-backed store rooted at dir, creating the
// directory if needed.
func NewFileStore(dir string) (*FileStore, error) {
	if dir == "" {
		return nil, fmt.Errorf("checkpoint directory is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating checkpoint directory: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

func (s *FileStore) path(name string) (string, error) {
	if name == "" || strings.ContainsAny(name, `/\`) {
		return "", fmt.Errorf("invalid checkpoint name %q", name)
	}
	return filepath.Join(s.dir, name+fileExt), nil
}

// Save writes the checkpoint atomically via a temp file rename.
func (s *FileStore) Save(ctx context.Context, name string, ckpt *Checkpoint) error {
	path, err := s.path(name)
	if err != nil {
		return err
	}
	tmp, err := os.CreateTemp(s.dir, name+".tmp*")
	if err != nil {
		return fmt.Errorf("creating temp checkpoint: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := Encode(tmp, ckpt); err != nil {
		tmp.Close()
		return fmt.Errorf("encoding checkpoint %q: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

// Load reads the checkpoint saved under name.
func (s *FileStore) Load(ctx context.Context, name string) (*Checkpoint, error) {
	path, err := s.path(name)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%q: %w", name, ErrNotFound)
		}
		return nil, err
	}
	defer f.Close()

	ckpt, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decoding checkpoint %q: %w", name, err)
	}
	return ckpt, nil
}

// Delete removes the checkpoint file for name, if present.
func (s *FileStore) Delete(ctx context.Context, name string) error {
	path, err := s.path(name)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// List returns the names of all checkpoints in the directory.
func (s *FileStore) List(ctx context.Context) ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, err
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), fileExt) {
			continue
		}
		names = append(names, strings.TrimSuffix(e.Name(), fileExt))
	}
	sort.Strings(names)
	return names, nil
}

// Close is a no-op for file stores.
func (s *FileStore) Close() error { return nil }

// WriteFile writes a single checkpoint to an arbitrary path. Used for
// producing pretrained weight files outside a store.
func WriteFile(path string, ckpt *Checkpoint) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := Encode(f, ckpt); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// ReadFile reads a single checkpoint from an arbitrary path. Used for
// loading pretrained weight files.
func ReadFile(path string) (*Checkpoint, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Decode(f)
}
