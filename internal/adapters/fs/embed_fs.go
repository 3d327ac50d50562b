package fs

import (
	"errors"
	iofs "io/fs"
)

var ErrReadOnly = errors.New("embedded filesystem is read-only")

// EmbedFileSystem serves a read-only tree such as an embedded project
// template. Paths use forward slashes and are relative to the tree root.
type EmbedFileSystem struct {
	fs iofs.FS
}

func NewEmbedFileSystem(fsys iofs.FS) *EmbedFileSystem {
	return &EmbedFileSystem{fs: fsys}
}

func (fs *EmbedFileSystem) ReadFile(path string) ([]byte, error) {
	return iofs.ReadFile(fs.fs, path)
}

func (fs *EmbedFileSystem) ReadDir(path string) ([]iofs.DirEntry, error) {
	return iofs.ReadDir(fs.fs, path)
}

func (fs *EmbedFileSystem) FileExists(path string) bool {
	_, err := iofs.Stat(fs.fs, path)
	return err == nil
}

func (fs *EmbedFileSystem) WriteFile(path string, data []byte, perm iofs.FileMode) error {
	return ErrReadOnly
}

func (fs *EmbedFileSystem) MkdirAll(path string, perm iofs.FileMode) error {
	return ErrReadOnly
}

func (fs *EmbedFileSystem) WalkDir(root string, fn iofs.WalkDirFunc) error {
	return iofs.WalkDir(fs.fs, root, fn)
}
