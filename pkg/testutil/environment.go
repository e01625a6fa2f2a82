// Package testutil holds helpers shared by dotsetup's tests: an isolated
// repository/home pair and filesystem wrappers that record or fail calls.
package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// Environment provides an isolated repository and home directory
type Environment struct {
	t       *testing.T
	baseDir string
	repo    string
	home    string
}

// NewEnvironment creates the directories and points HOME, DOTSETUP_ROOT and
// XDG_STATE_HOME at them.
func NewEnvironment(t *testing.T) *Environment {
	t.Helper()

	baseDir := t.TempDir()
	repo := filepath.Join(baseDir, "dotfiles")
	home := filepath.Join(baseDir, "home")

	require.NoError(t, os.MkdirAll(repo, 0755))
	require.NoError(t, os.MkdirAll(home, 0755))

	t.Setenv("HOME", home)
	t.Setenv("DOTSETUP_ROOT", repo)
	t.Setenv("DOTFILES_ROOT", "")
	t.Setenv("DOTSETUP_CONFIG_DIR", filepath.Join(baseDir, "config"))
	t.Setenv("XDG_STATE_HOME", filepath.Join(baseDir, "state"))

	return &Environment{t: t, baseDir: baseDir, repo: repo, home: home}
}

// Repo returns the repository root
func (e *Environment) Repo() string { return e.repo }

// Home returns the test home directory
func (e *Environment) Home() string { return e.home }

// Base returns the directory holding repo and home
func (e *Environment) Base() string { return e.baseDir }

// RepoPath joins elem onto the repository root
func (e *Environment) RepoPath(elem ...string) string {
	return filepath.Join(append([]string{e.repo}, elem...)...)
}

// HomePath joins elem onto the home directory
func (e *Environment) HomePath(elem ...string) string {
	return filepath.Join(append([]string{e.home}, elem...)...)
}

// WriteFile creates path (and its parents) with content
func (e *Environment) WriteFile(path, content string) string {
	e.t.Helper()
	require.NoError(e.t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(e.t, os.WriteFile(path, []byte(content), 0644))
	return path
}

// Mkdir creates path and its parents
func (e *Environment) Mkdir(path string) string {
	e.t.Helper()
	require.NoError(e.t, os.MkdirAll(path, 0755))
	return path
}

// Symlink creates link pointing at target
func (e *Environment) Symlink(target, link string) string {
	e.t.Helper()
	require.NoError(e.t, os.MkdirAll(filepath.Dir(link), 0755))
	require.NoError(e.t, os.Symlink(target, link))
	return link
}

// CreateCategory writes a descriptor file into <repo>/<dir>/<name>.
func (e *Environment) CreateCategory(dir, descriptorName, content string) string {
	e.t.Helper()
	return e.WriteFile(e.RepoPath(dir, descriptorName), content)
}
