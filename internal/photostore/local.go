package photostore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

// Local stores photos as files in a single directory.
type Local struct {
	root string
}

// NewLocal creates a Local store rooted at dir.
// The directory is created (with parents) if it does not already exist.
func NewLocal(dir string) (*Local, error) {
	if dir == "" {
		return nil, errors.New("photo directory is required")
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolving photo directory: %w", err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("creating photo directory: %w", err)
	}
	return &Local{root: abs}, nil
}

// Root returns the absolute directory photos are written to.
func (l *Local) Root() string {
	return l.root
}

func (l *Local) resolve(ref string) (string, error) {
	if err := validateRef(ref); err != nil {
		return "", err
	}
	return filepath.Join(l.root, ref), nil
}

// Save writes data to a new uniquely named file.
func (l *Local) Save(_ context.Context, data []byte, contentType string) (string, error) {
	ref := newRef(contentType)
	full := filepath.Join(l.root, ref)

	f, err := os.OpenFile(full, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", fmt.Errorf("creating photo file: %w", err)
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(full)
		return "", fmt.Errorf("writing photo file: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(full)
		return "", fmt.Errorf("closing photo file: %w", err)
	}
	return ref, nil
}

// Open opens the named photo for reading.
func (l *Local) Open(_ context.Context, ref string) (io.ReadCloser, error) {
	full, err := l.resolve(ref)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(full)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("opening photo: %w", err)
	}
	return f, nil
}

// Delete removes the named photo. If the file does not exist, Delete
// returns nil (idempotent).
func (l *Local) Delete(_ context.Context, ref string) error {
	full, err := l.resolve(ref)
	if err != nil {
		return err
	}
	err = os.Remove(full)
	if err == nil || errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return fmt.Errorf("removing photo: %w", err)
}

// Exists reports whether the named photo exists.
func (l *Local) Exists(_ context.Context, ref string) (bool, error) {
	full, err := l.resolve(ref)
	if err != nil {
		return false, err
	}
	_, err = os.Stat(full)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, err
}
