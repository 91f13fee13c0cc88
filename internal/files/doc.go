// Package files groups the filesystem access used by artifact discovery.
//
// The filesystem sub-package abstracts directory listing and file reads so
// the locator and settings resolver can be tested against an in-memory tree:
//
//	fsys := filesystem.NewMemoryFileSystem()
//	fsys.AddFile("/srv/app/settings.py", src)
//	loc := locator.New(fsys)
package files
