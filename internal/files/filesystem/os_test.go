package filesystem

import (
	"os"
	"path/filepath"
	"testing"
)

func TestOSFileSystem_ReadDir_SortedNames(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.env", "a.json"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0644); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.Mkdir(filepath.Join(dir, "c"), 0755); err != nil {
		t.Fatal(err)
	}

	entries, err := NewOSFileSystem().ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir(%q) error = %v", dir, err)
	}
	want := []string{"a.json", "b.env", "c"}
	if len(entries) != len(want) {
		t.Fatalf("ReadDir returned %d entries, want %d", len(entries), len(want))
	}
	for i, e := range entries {
		if e.Name() != want[i] {
			t.Errorf("entry[%d] = %q, want %q", i, e.Name(), want[i])
		}
	}
	if !entries[2].IsDir() {
		t.Errorf("entry %q should be a directory", entries[2].Name())
	}
}

func TestOSFileSystem_ReadDir_NonexistentPath(t *testing.T) {
	_, err := NewOSFileSystem().ReadDir(filepath.Join(t.TempDir(), "nonexistent"))
	if err == nil {
		t.Error("ReadDir(nonexistent) should return error")
	}
}

func TestOSFileSystem_ReadFileAndStat(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "settings.py")
	if err := os.WriteFile(path, []byte("DATABASES = {}"), 0644); err != nil {
		t.Fatal(err)
	}

	p := NewOSFileSystem()
	content, err := p.ReadFile(path)
	if err != nil || string(content) != "DATABASES = {}" {
		t.Fatalf("ReadFile = %q, %v", content, err)
	}
	if !IsFile(p, path) {
		t.Error("IsFile should be true for a regular file")
	}
	if !IsDir(p, dir) {
		t.Error("IsDir should be true for the temp dir")
	}
	if IsFile(p, filepath.Join(dir, "missing")) {
		t.Error("IsFile should be false for a missing path")
	}
}
