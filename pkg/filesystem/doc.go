// Package filesystem provides the filesystem abstraction used by the
// reconciliation engine.
//
// FS is implemented on top of afero. The OS implementation supports
// symlinks and Lstat; in-memory filesystems report ErrNoSymlink from Symlink
// and fall back to Stat for Lstat.
package filesystem
