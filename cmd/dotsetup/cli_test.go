package dotsetup

import (
	"bytes"
	"testing"

	"github.com/arthur-debert/dotsetup/pkg/testutil"
	"github.com/stretchr/testify/require"
)

const vimDescriptor = `{
  "category": {
    "name": "vim", "help": "set up vim",
    "install": [
      {"name": "plugins", "handler": "command", "command": ["touch", "plugins.installed"]},
      {"name": "helptags", "handler": "command", "command": "touch helptags.installed"}
    ]
  },
  "files": [{"src": "vimrc", "dst": "~/.vimrc"}],
  "directories": [{"src": "vim", "dst": "~/.vim"}]
}`

const bashDescriptor = `
files = [
  { src = "bashrc", dst = "~/.bashrc" },
  { src = "profile", dst = "~/.profile" },
]

[category]
name = "bash"
help = "shell startup files"
`

// newRepo builds a repository with a vim and a bash category.
func newRepo(t *testing.T) *testutil.Environment {
	t.Helper()
	env := testutil.NewEnvironment(t)

	env.CreateCategory("vim", ".category.json", vimDescriptor)
	env.WriteFile(env.RepoPath("vim", "vimrc"), "set nocompatible\n")
	env.WriteFile(env.RepoPath("vim", "vim", "colors", "dark.vim"), "\" colors\n")

	env.CreateCategory("bash", ".category.toml", bashDescriptor)
	env.WriteFile(env.RepoPath("bash", "bashrc"), "# bashrc\n")
	env.WriteFile(env.RepoPath("bash", "profile"), "# profile\n")

	return env
}

// execute runs the root command with args and captures both streams.
func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	cmd := NewRootCmd()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func mustExecute(t *testing.T, args ...string) (string, string) {
	t.Helper()
	stdout, stderr, err := execute(t, args...)
	require.NoError(t, err, "stderr: %s", stderr)
	return stdout, stderr
}
