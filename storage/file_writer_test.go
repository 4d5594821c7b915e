package storage

import (
	"os"
	"path/filepath"
	"testing"

	"autolist/export"
)

func TestFileWriterSave(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "output")
	w := NewFileWriter(dir)

	path, err := w.Save(&export.File{
		Name: "mug-listing.json",
		MIME: "application/json",
		Data: []byte(`{"title":"Mug"}`),
	})
	if err != nil {
		t.Fatalf("save: %v", err)
	}

	if filepath.Dir(path) != dir {
		t.Errorf("path: got %q, want file under %q", path, dir)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if string(data) != `{"title":"Mug"}` {
		t.Errorf("content: %q", data)
	}
}

func TestFileWriterOverwrites(t *testing.T) {
	w := NewFileWriter(t.TempDir())

	file := &export.File{Name: "a.txt", Data: []byte("one")}
	if _, err := w.Save(file); err != nil {
		t.Fatalf("first save: %v", err)
	}
	file.Data = []byte("two")
	path, err := w.Save(file)
	if err != nil {
		t.Fatalf("second save: %v", err)
	}

	data, _ := os.ReadFile(path)
	if string(data) != "two" {
		t.Errorf("content after overwrite: %q", data)
	}
}
