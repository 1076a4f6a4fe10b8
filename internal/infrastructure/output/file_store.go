// Package output writes run artifacts to the local filesystem.
package output

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"NewsAnalyzer/internal/ports"
)

// FileStore saves JSON dumps and the Markdown report under one directory.
type FileStore struct {
	dir    string
	logger *slog.Logger
}

var _ ports.OutputStore = (*FileStore)(nil)

// NewFileStore targets dir, creating it on first write.
func NewFileStore(dir string, logger *slog.Logger) *FileStore {
	return &FileStore{dir: dir, logger: logger}
}

// SaveJSON writes v as indented JSON.
func (s *FileStore) SaveJSON(name string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal %s: %w", name, err)
	}
	return s.write(name, data)
}

// SaveReport writes the rendered report text.
func (s *FileStore) SaveReport(name, content string) error {
	return s.write(name, []byte(content))
}

func (s *FileStore) write(name string, data []byte) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	path := filepath.Join(s.dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}

	if s.logger != nil {
		s.logger.Info("saved output", "path", path)
	}
	return nil
}
