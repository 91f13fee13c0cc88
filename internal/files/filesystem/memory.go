package filesystem

import (
	"fmt"
	"io/fs"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"
)

// memoryFileInfo implements fs.FileInfo for in-memory files
type memoryFileInfo struct {
	name    string
	size    int64
	mode    fs.FileMode
	modTime time.Time
	isDir   bool
}

func (f *memoryFileInfo) Name() string       { return f.name }
func (f *memoryFileInfo) Size() int64        { return f.size }
func (f *memoryFileInfo) Mode() fs.FileMode  { return f.mode }
func (f *memoryFileInfo) ModTime() time.Time { return f.modTime }
func (f *memoryFileInfo) IsDir() bool        { return f.isDir }
func (f *memoryFileInfo) Sys() interface{}   { return nil }

type memoryEntry struct {
	info    *memoryFileInfo
	content []byte
}

// MemoryFileSystem implements FileSystemProvider for in-memory testing.
// Paths are virtual, slash-separated and rooted at "/". Relative paths are
// resolved against the root. Safe for concurrent use.
type MemoryFileSystem struct {
	mu      sync.Mutex
	entries map[string]*memoryEntry
	denied  map[string]bool
	ops     int
}

// NewMemoryFileSystem creates an in-memory filesystem containing only "/".
func NewMemoryFileSystem() *MemoryFileSystem {
	mfs := &MemoryFileSystem{
		entries: make(map[string]*memoryEntry),
		denied:  make(map[string]bool),
	}
	mfs.entries["/"] = newDirEntry("/")
	return mfs
}

func newDirEntry(p string) *memoryEntry {
	return &memoryEntry{info: &memoryFileInfo{
		name:    path.Base(p),
		mode:    0755 | fs.ModeDir,
		modTime: time.Now(),
		isDir:   true,
	}}
}

func normalize(p string) string {
	p = filepath.ToSlash(p)
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return path.Clean(p)
}

// AddFile adds a file and any missing parent directories.
func (mfs *MemoryFileSystem) AddFile(filePath string, content string) {
	mfs.mu.Lock()
	defer mfs.mu.Unlock()

	abs := normalize(filePath)
	mfs.entries[abs] = &memoryEntry{
		info: &memoryFileInfo{
			name:    path.Base(abs),
			size:    int64(len(content)),
			mode:    0644,
			modTime: time.Now(),
		},
		content: []byte(content),
	}
	mfs.ensureDirectoriesExist(path.Dir(abs))
}

// AddDir adds an empty directory and any missing parents.
func (mfs *MemoryFileSystem) AddDir(dirPath string) {
	mfs.mu.Lock()
	defer mfs.mu.Unlock()
	mfs.ensureDirectoriesExist(normalize(dirPath))
}

// Deny makes ReadDir and ReadFile on p fail with fs.ErrPermission.
// Stat keeps working, as it does for an unreadable directory on disk.
func (mfs *MemoryFileSystem) Deny(p string) {
	mfs.mu.Lock()
	defer mfs.mu.Unlock()
	mfs.denied[normalize(p)] = true
}

// Operations returns how many provider calls have been served.
func (mfs *MemoryFileSystem) Operations() int {
	mfs.mu.Lock()
	defer mfs.mu.Unlock()
	return mfs.ops
}

func (mfs *MemoryFileSystem) ensureDirectoriesExist(dir string) {
	for {
		if _, exists := mfs.entries[dir]; exists {
			return
		}
		mfs.entries[dir] = newDirEntry(dir)
		dir = path.Dir(dir)
	}
}

// ReadFile implements FileSystemProvider.ReadFile
func (mfs *MemoryFileSystem) ReadFile(filePath string) ([]byte, error) {
	mfs.mu.Lock()
	defer mfs.mu.Unlock()
	mfs.ops++

	abs := normalize(filePath)
	if mfs.denied[abs] {
		return nil, &fs.PathError{Op: "open", Path: abs, Err: fs.ErrPermission}
	}
	entry, exists := mfs.entries[abs]
	if !exists {
		return nil, &fs.PathError{Op: "open", Path: abs, Err: fs.ErrNotExist}
	}
	if entry.info.isDir {
		return nil, fmt.Errorf("path is a directory, not a file: %s", abs)
	}
	return append([]byte(nil), entry.content...), nil
}

// ReadDir implements FileSystemProvider.ReadDir
func (mfs *MemoryFileSystem) ReadDir(dirPath string) ([]FileInfo, error) {
	mfs.mu.Lock()
	defer mfs.mu.Unlock()
	mfs.ops++

	abs := normalize(dirPath)
	if mfs.denied[abs] {
		return nil, &fs.PathError{Op: "readdir", Path: abs, Err: fs.ErrPermission}
	}
	entry, exists := mfs.entries[abs]
	if !exists {
		return nil, &fs.PathError{Op: "readdir", Path: abs, Err: fs.ErrNotExist}
	}
	if !entry.info.isDir {
		return nil, fmt.Errorf("path is not a directory: %s", abs)
	}

	var result []FileInfo
	for p, e := range mfs.entries {
		if p != "/" && path.Dir(p) == abs {
			result = append(result, e.info)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name() < result[j].Name() })
	return result, nil
}

// Stat implements FileSystemProvider.Stat
func (mfs *MemoryFileSystem) Stat(statPath string) (FileInfo, error) {
	mfs.mu.Lock()
	defer mfs.mu.Unlock()
	mfs.ops++

	abs := normalize(statPath)
	entry, exists := mfs.entries[abs]
	if !exists {
		return nil, &fs.PathError{Op: "stat", Path: abs, Err: fs.ErrNotExist}
	}
	return entry.info, nil
}

var _ FileSystemProvider = (*MemoryFileSystem)(nil)
