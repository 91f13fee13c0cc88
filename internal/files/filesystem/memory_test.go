package filesystem

import (
	"errors"
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryFileSystem_AddFileCreatesParents(t *testing.T) {
	mfs := NewMemoryFileSystem()
	mfs.AddFile("/srv/app/config/settings.py", "DATABASES = {}")

	for _, dir := range []string{"/srv", "/srv/app", "/srv/app/config"} {
		assert.True(t, IsDir(mfs, dir), dir)
	}
	assert.True(t, IsFile(mfs, "/srv/app/config/settings.py"))
	assert.False(t, IsFile(mfs, "/srv/app/config"))
}

func TestMemoryFileSystem_ReadFile(t *testing.T) {
	mfs := NewMemoryFileSystem()
	mfs.AddFile("app/.env", "POSTGRES_USER=alice\n")

	content, err := mfs.ReadFile("/app/.env")
	require.NoError(t, err)
	assert.Equal(t, "POSTGRES_USER=alice\n", string(content))

	_, err = mfs.ReadFile("/app/missing")
	assert.True(t, errors.Is(err, fs.ErrNotExist))

	_, err = mfs.ReadFile("/app")
	assert.Error(t, err)
}

func TestMemoryFileSystem_ReadDirSortedAndShallow(t *testing.T) {
	mfs := NewMemoryFileSystem()
	mfs.AddFile("/p/zeta.txt", "")
	mfs.AddFile("/p/alpha/deep/file.txt", "")
	mfs.AddDir("/p/mid")

	entries, err := mfs.ReadDir("/p")
	require.NoError(t, err)

	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	assert.Equal(t, []string{"alpha", "mid", "zeta.txt"}, names)
}

func TestMemoryFileSystem_Deny(t *testing.T) {
	mfs := NewMemoryFileSystem()
	mfs.AddFile("/locked/secret.env", "x=1")
	mfs.Deny("/locked")

	_, err := mfs.ReadDir("/locked")
	assert.True(t, errors.Is(err, fs.ErrPermission))

	info, err := mfs.Stat("/locked")
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestMemoryFileSystem_OperationsCounter(t *testing.T) {
	mfs := NewMemoryFileSystem()
	mfs.AddFile("/a.txt", "")

	_, _ = mfs.Stat("/a.txt")
	_, _ = mfs.ReadFile("/a.txt")
	_, _ = mfs.ReadDir("/")

	assert.Equal(t, 3, mfs.Operations())
}
