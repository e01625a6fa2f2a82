package testutil

import (
	"io/fs"
	"sync"

	"github.com/arthur-debert/dotsetup/pkg/filesystem"
)

// Call is one recorded filesystem call.
type Call struct {
	Op   string
	Path string
}

// mutating lists the calls that change the filesystem.
var mutating = map[string]bool{
	"WriteFile": true,
	"MkdirAll":  true,
	"Symlink":   true,
	"Rename":    true,
	"Remove":    true,
	"RemoveAll": true,
}

// RecordingFS forwards to an inner FS and records every call.
type RecordingFS struct {
	inner filesystem.FS

	mu    sync.Mutex
	calls []Call
}

// NewRecordingFS wraps inner.
func NewRecordingFS(inner filesystem.FS) *RecordingFS {
	return &RecordingFS{inner: inner}
}

func (r *RecordingFS) record(op, path string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, Call{Op: op, Path: path})
}

// Calls returns every recorded call in order.
func (r *RecordingFS) Calls() []Call {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Call(nil), r.calls...)
}

// Writes returns the recorded calls that mutate the filesystem.
func (r *RecordingFS) Writes() []Call {
	var writes []Call
	for _, c := range r.Calls() {
		if mutating[c.Op] {
			writes = append(writes, c)
		}
	}
	return writes
}

// Reset forgets the recorded calls.
func (r *RecordingFS) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = nil
}

func (r *RecordingFS) Stat(name string) (fs.FileInfo, error) {
	r.record("Stat", name)
	return r.inner.Stat(name)
}

func (r *RecordingFS) Lstat(name string) (fs.FileInfo, error) {
	r.record("Lstat", name)
	return r.inner.Lstat(name)
}

func (r *RecordingFS) ReadFile(name string) ([]byte, error) {
	r.record("ReadFile", name)
	return r.inner.ReadFile(name)
}

func (r *RecordingFS) ReadDir(name string) ([]fs.DirEntry, error) {
	r.record("ReadDir", name)
	return r.inner.ReadDir(name)
}

func (r *RecordingFS) WriteFile(name string, data []byte, perm fs.FileMode) error {
	r.record("WriteFile", name)
	return r.inner.WriteFile(name, data, perm)
}

func (r *RecordingFS) MkdirAll(path string, perm fs.FileMode) error {
	r.record("MkdirAll", path)
	return r.inner.MkdirAll(path, perm)
}

func (r *RecordingFS) Symlink(oldname, newname string) error {
	r.record("Symlink", newname)
	return r.inner.Symlink(oldname, newname)
}

func (r *RecordingFS) Readlink(name string) (string, error) {
	r.record("Readlink", name)
	return r.inner.Readlink(name)
}

func (r *RecordingFS) Rename(oldpath, newpath string) error {
	r.record("Rename", oldpath)
	return r.inner.Rename(oldpath, newpath)
}

func (r *RecordingFS) Remove(name string) error {
	r.record("Remove", name)
	return r.inner.Remove(name)
}

func (r *RecordingFS) RemoveAll(path string) error {
	r.record("RemoveAll", path)
	return r.inner.RemoveAll(path)
}

// FaultyFS forwards to an inner FS but fails the configured (op, path)
// pairs with the configured error.
type FaultyFS struct {
	filesystem.FS
	faults map[Call]error
}

// NewFaultyFS wraps inner.
func NewFaultyFS(inner filesystem.FS) *FaultyFS {
	return &FaultyFS{FS: inner, faults: make(map[Call]error)}
}

// Fail makes op on path return err.
func (f *FaultyFS) Fail(op, path string, err error) *FaultyFS {
	f.faults[Call{Op: op, Path: path}] = err
	return f
}

func (f *FaultyFS) fault(op, path string) error {
	return f.faults[Call{Op: op, Path: path}]
}

func (f *FaultyFS) Symlink(oldname, newname string) error {
	if err := f.fault("Symlink", newname); err != nil {
		return err
	}
	return f.FS.Symlink(oldname, newname)
}

func (f *FaultyFS) Rename(oldpath, newpath string) error {
	if err := f.fault("Rename", oldpath); err != nil {
		return err
	}
	return f.FS.Rename(oldpath, newpath)
}

func (f *FaultyFS) Remove(name string) error {
	if err := f.fault("Remove", name); err != nil {
		return err
	}
	return f.FS.Remove(name)
}

func (f *FaultyFS) RemoveAll(path string) error {
	if err := f.fault("RemoveAll", path); err != nil {
		return err
	}
	return f.FS.RemoveAll(path)
}

func (f *FaultyFS) MkdirAll(path string, perm fs.FileMode) error {
	if err := f.fault("MkdirAll", path); err != nil {
		return err
	}
	return f.FS.MkdirAll(path, perm)
}
