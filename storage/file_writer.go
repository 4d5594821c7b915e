package storage

import (
	"fmt"
	"os"
	"path/filepath"

	"autolist/export"
)

// FileWriter saves export files into an output directory.
type FileWriter struct {
	dir string
}

// NewFileWriter creates a writer rooted at dir. The directory is
// created on first save, not here, so a dry run costs nothing.
func NewFileWriter(dir string) *FileWriter {
	return &FileWriter{dir: dir}
}

// Save writes the file under the output directory and returns the full
// path. Intermediate directories are created automatically.
func (w *FileWriter) Save(file *export.File) (string, error) {
	if err := os.MkdirAll(w.dir, 0755); err != nil {
		return "", fmt.Errorf("storage: create output dir: %w", err)
	}

	path := filepath.Join(w.dir, file.Name)
	if err := os.WriteFile(path, file.Data, 0644); err != nil {
		return "", fmt.Errorf("storage: write %q: %w", path, err)
	}
	return path, nil
}
