package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Storage writes a single output file
type Storage struct {
	path string
}

// New creates a Storage for path
func New(path string) (*Storage, error) {
	path, err := ExpandHome(path)
	if err != nil {
		return nil, err
	}
	if path == "" {
		return nil, fmt.Errorf("output path is empty")
	}

	return &Storage{
		path: path,
	}, nil
}

// ExpandHome expands a leading "~/" to the home directory
func ExpandHome(path string) (string, error) {
	if !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, path[2:]), nil
}

// Path returns the resolved output path
func (s *Storage) Path() string {
	return s.path
}

// Write replaces the output file with data, creating parent directories
func (s *Storage) Write(data []byte) error {
	if dir := filepath.Dir(s.path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("creating output directory: %w", err)
		}
	}

	if err := os.WriteFile(s.path, data, 0644); err != nil {
		return fmt.Errorf("writing calendar: %w", err)
	}

	return nil
}

// WriteFile is a convenience wrapper around New(path).Write(data)
func WriteFile(path string, data []byte) error {
	s, err := New(path)
	if err != nil {
		return err
	}
	return s.Write(data)
}
