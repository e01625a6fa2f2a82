package testutil

import (
	"io/fs"
	"testing"

	"github.com/arthur-debert/dotsetup/pkg/filesystem"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordingFS(t *testing.T) {
	rec := NewRecordingFS(filesystem.NewMemory())

	require.NoError(t, rec.MkdirAll("/a", 0755))
	require.NoError(t, rec.WriteFile("/a/f", []byte("x"), 0644))
	_, err := rec.Stat("/a/f")
	require.NoError(t, err)
	require.NoError(t, rec.Rename("/a/f", "/a/g"))
	_, err = rec.ReadFile("/a/g")
	require.NoError(t, err)
	require.NoError(t, rec.Remove("/a/g"))

	assert.Equal(t, []Call{
		{Op: "MkdirAll", Path: "/a"},
		{Op: "WriteFile", Path: "/a/f"},
		{Op: "Stat", Path: "/a/f"},
		{Op: "Rename", Path: "/a/f"},
		{Op: "ReadFile", Path: "/a/g"},
		{Op: "Remove", Path: "/a/g"},
	}, rec.Calls())
	assert.Len(t, rec.Writes(), 4)

	rec.Reset()
	assert.Empty(t, rec.Calls())
	assert.Empty(t, rec.Writes())
}

func TestFaultyFS(t *testing.T) {
	faulty := NewFaultyFS(filesystem.NewMemory()).
		Fail("Remove", "/b", fs.ErrPermission).
		Fail("MkdirAll", "/locked", fs.ErrPermission)

	require.NoError(t, faulty.WriteFile("/a", []byte("x"), 0644))
	require.NoError(t, faulty.WriteFile("/b", []byte("x"), 0644))

	assert.NoError(t, faulty.Remove("/a"))
	assert.ErrorIs(t, faulty.Remove("/b"), fs.ErrPermission)
	assert.ErrorIs(t, faulty.MkdirAll("/locked", 0755), fs.ErrPermission)
	assert.NoError(t, faulty.MkdirAll("/open", 0755))

	exists, err := filesystem.Exists(faulty, "/b")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestEnvironment(t *testing.T) {
	env := NewEnvironment(t)

	assert.DirExists(t, env.Repo())
	assert.DirExists(t, env.Home())
	assert.Equal(t, env.Home(), env.HomePath())

	path := env.CreateCategory("vim", ".category.json", "{}")
	assert.Equal(t, env.RepoPath("vim", ".category.json"), path)
	AssertFileContent(t, path, "{}")

	target := env.WriteFile(env.RepoPath("vim", "vimrc"), "set nu\n")
	link := env.Symlink(target, env.HomePath(".vimrc"))
	AssertSymlinkTo(t, link, target)
	AssertExists(t, link)
	AssertNotExists(t, env.HomePath(".missing"))
}
