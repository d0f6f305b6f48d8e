// Package segment crops analysis regions out of a source map image and
// persists them as PNG artifacts on disk.
package segment

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"
)

// Store persists segment images under a single output directory. Artifact
// names are validated before any path is built, so a caller-supplied name can
// never escape the directory.
type Store struct {
	dir string
}

// NewStore creates the output directory if needed and returns a store
// rooted there.
func NewStore(dir string) (*Store, error) {
	if dir == "" {
		return nil, fmt.Errorf("segment store: empty directory")
	}
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("segment store: create %s: %w", dir, err)
	}
	return &Store{dir: dir}, nil
}

// Dir returns the directory the store writes into.
func (s *Store) Dir() string {
	return s.dir
}

// Path resolves an artifact name to its on-disk path. Names containing path
// separators or parent references are rejected outright.
func (s *Store) Path(name string) (string, error) {
	if err := validateName(name); err != nil {
		return "", err
	}
	return filepath.Join(s.dir, name), nil
}

// SavePNG encodes img as PNG under the given artifact name.
func (s *Store) SavePNG(name string, img image.Image) error {
	path, err := s.Path(name)
	if err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("segment store: create %s: %w", name, err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("segment store: encode %s: %w", name, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("segment store: close %s: %w", name, err)
	}
	return nil
}

// Exists reports whether a stored artifact with the given name is present.
func (s *Store) Exists(name string) bool {
	path, err := s.Path(name)
	if err != nil {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

func validateName(name string) error {
	if name == "" {
		return fmt.Errorf("segment store: empty artifact name")
	}
	if strings.Contains(name, "..") ||
		strings.ContainsAny(name, `/\`) ||
		filepath.IsAbs(name) {
		return fmt.Errorf("segment store: illegal artifact name %q", name)
	}
	return nil
}
