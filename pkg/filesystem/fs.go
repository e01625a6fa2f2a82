package filesystem

import (
	"errors"
	"io/fs"
)

// FS is the set of filesystem calls the reconciliation engine makes.
type FS interface {
	Stat(name string) (fs.FileInfo, error)
	// Lstat does not follow a trailing symlink, so dangling links are seen.
	Lstat(name string) (fs.FileInfo, error)
	ReadFile(name string) ([]byte, error)
	ReadDir(name string) ([]fs.DirEntry, error)
	WriteFile(name string, data []byte, perm fs.FileMode) error

	MkdirAll(path string, perm fs.FileMode) error

	Symlink(oldname, newname string) error
	Readlink(name string) (string, error)

	Rename(oldpath, newpath string) error
	Remove(name string) error
	RemoveAll(path string) error
}

// Exists reports whether name exists as a file, directory or symlink. A
// dangling symlink exists.
func Exists(fsys FS, name string) (bool, error) {
	_, err := fsys.Lstat(name)
	if err == nil {
		return true, nil
	}
	if IsNotExist(err) {
		return false, nil
	}
	return false, err
}

// IsNotExist is errors.Is(err, fs.ErrNotExist) spelled for call sites.
func IsNotExist(err error) bool {
	return err != nil && errors.Is(err, fs.ErrNotExist)
}
