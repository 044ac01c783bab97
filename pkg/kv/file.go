package kv

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"os"
	"path/filepath"
	"time"
)

// File stores each key as a JSON file in a directory.
// Writes go to a temporary file that is renamed into place, so readers never
// observe a partially written value.
type File struct {
	dir string
}

// NewFile creates a file-based store in the given directory.
// The directory will be created if it doesn't exist.
func NewFile(dir string) (*File, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}
	return &File{dir: dir}, nil
}

// Dir returns the directory backing the store.
func (f *File) Dir() string { return f.dir }

// fileEntry wraps stored data with metadata.
type fileEntry struct {
	Key       string    `json:"key"`
	Data      []byte    `json:"data"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Get reads the value for key. An unreadable entry is reported as missing.
func (f *File) Get(ctx context.Context, key string) ([]byte, bool, error) {
	data, err := os.ReadFile(f.path(key))
	if os.IsNotExist(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var entry fileEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil, false, nil
	}
	return entry.Data, true, nil
}

// Set writes the value for key atomically.
func (f *File) Set(ctx context.Context, key string, data []byte) error {
	entryData, err := json.Marshal(fileEntry{Key: key, Data: data, UpdatedAt: time.Now().UTC()})
	if err != nil {
		return err
	}

	path := f.path(key)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".tmp-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(entryData); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

// Delete removes the file for key.
func (f *File) Delete(ctx context.Context, key string) error {
	err := os.Remove(f.path(key))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

// Close does nothing for the file store.
func (f *File) Close() error {
	return nil
}

// path converts a key to a file path.
// The first two hash characters form a subdirectory.
func (f *File) path(key string) string {
	hash := Hash([]byte(key))
	return filepath.Join(f.dir, hash[:2], hash[2:]+".json")
}

// Hash computes a SHA-256 hash of the input data.
// Returns the full 64-character hex string.
func Hash(data []byte) string {
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}

var _ Store = (*File)(nil)
