package files

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// ErrNotFound is returned by Load when no file exists under a key.
var ErrNotFound = errors.New("file not found")

// Store persists uploaded file bytes on local disk under generated keys.
// A key is "<uuid><ext>" and never contains path separators, so callers can
// safely persist it in the database and hand it back later.
type Store struct {
	baseDir string
}

func NewStore(baseDir string) (*Store, error) {
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &Store{baseDir: baseDir}, nil
}

func (s *Store) BaseDir() string { return s.baseDir }

// Save writes data under a freshly generated key, keeping the original
// file extension so downloads carry a sensible type.
func (s *Store) Save(data []byte, originalName string) (string, error) {
	ext := strings.ToLower(filepath.Ext(originalName))
	key := uuid.New().String() + ext
	if err := os.WriteFile(filepath.Join(s.baseDir, key), data, 0o644); err != nil {
		return "", fmt.Errorf("store file: %w", err)
	}
	return key, nil
}

// Load returns the stored bytes for key, or ErrNotFound.
func (s *Store) Load(key string) ([]byte, error) {
	path, err := s.resolve(key)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("load file: %w", err)
	}
	return data, nil
}

// Delete removes the file under key. A missing file is not an error.
func (s *Store) Delete(key string) error {
	path, err := s.resolve(key)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("delete file: %w", err)
	}
	return nil
}

func (s *Store) resolve(key string) (string, error) {
	// Keys are generated by Save; anything with a separator is not ours.
	if key == "" || strings.ContainsAny(key, `/\`) || strings.Contains(key, "..") {
		return "", ErrNotFound
	}
	return filepath.Join(s.baseDir, key), nil
}
