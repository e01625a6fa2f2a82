package reconcile_test

import (
	"bufio"
	"bytes"
	"encoding/json"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/arthur-debert/dotsetup/pkg/errors"
	"github.com/arthur-debert/dotsetup/pkg/filesystem"
	"github.com/arthur-debert/dotsetup/pkg/host"
	"github.com/arthur-debert/dotsetup/pkg/logging"
	"github.com/arthur-debert/dotsetup/pkg/mapping"
	"github.com/arthur-debert/dotsetup/pkg/reconcile"
	"github.com/arthur-debert/dotsetup/pkg/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var unprivileged = host.Static{Elevated: false, ID: "arch"}

type harness struct {
	rec    *testutil.RecordingFS
	out    *bytes.Buffer
	policy *reconcile.Policy
}

func newHarness(t *testing.T, opts reconcile.Options, fsys filesystem.FS, h host.Host) *harness {
	t.Helper()
	if fsys == nil {
		fsys = filesystem.NewOS()
	}
	if h == nil {
		h = unprivileged
	}
	rec := testutil.NewRecordingFS(fsys)
	out := &bytes.Buffer{}
	policy, err := reconcile.NewPolicy(opts, rec, h, logging.NewJSONReporter(out, zerolog.DebugLevel))
	require.NoError(t, err)
	return &harness{rec: rec, out: out, policy: policy}
}

type logLine map[string]interface{}

func (h *harness) lines(t *testing.T) []logLine {
	t.Helper()
	var lines []logLine
	scanner := bufio.NewScanner(bytes.NewReader(h.out.Bytes()))
	for scanner.Scan() {
		var l logLine
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &l))
		lines = append(lines, l)
	}
	return lines
}

func (h *harness) messages(t *testing.T, level string) []string {
	var msgs []string
	for _, l := range h.lines(t) {
		if l["level"] == level {
			msgs = append(msgs, l["message"].(string))
		}
	}
	return msgs
}

func opts(handling reconcile.Handling) reconcile.Options {
	o := reconcile.DefaultOptions()
	o.Handling = handling
	return o
}

func TestLinkCreatesSymlinkAndParents(t *testing.T) {
	env := testutil.NewEnvironment(t)
	src := env.WriteFile(env.RepoPath("vim", "vimrc"), "set nocompatible\n")
	dst := env.HomePath(".config", "vim", "vimrc")

	h := newHarness(t, opts(reconcile.Keep), nil, nil)
	require.NoError(t, h.policy.Link(mapping.MustNew(src, dst, false)))

	testutil.AssertSymlinkTo(t, dst, src)
	assert.Equal(t, []string{"creating link"}, h.messages(t, "info"))
}

func TestLinkIsIdempotent(t *testing.T) {
	env := testutil.NewEnvironment(t)
	src := env.WriteFile(env.RepoPath("zsh", "zshrc"), "")
	m := mapping.MustNew(src, env.HomePath(".zshrc"), false)

	h := newHarness(t, opts(reconcile.Keep), nil, nil)
	require.NoError(t, h.policy.Link(m))
	h.rec.Reset()

	require.NoError(t, h.policy.Link(m))
	assert.Empty(t, h.rec.Writes(), "second link must not write")
	testutil.AssertSymlinkTo(t, m.Destination(), src)
}

func TestLinkKeepsBrokenSymlink(t *testing.T) {
	env := testutil.NewEnvironment(t)
	src := env.WriteFile(env.RepoPath("git", "gitconfig"), "")
	dst := env.Symlink(env.HomePath("nowhere"), env.HomePath(".gitconfig"))

	h := newHarness(t, opts(reconcile.Keep), nil, nil)
	require.NoError(t, h.policy.Link(mapping.MustNew(src, dst, false)))

	testutil.AssertSymlinkTo(t, dst, env.HomePath("nowhere"))
	assert.Empty(t, h.rec.Writes())
}

func TestLinkRejectsOccupiedDestination(t *testing.T) {
	env := testutil.NewEnvironment(t)
	src := env.WriteFile(env.RepoPath("vim", "vimrc"), "")
	dst := env.WriteFile(env.HomePath(".vimrc"), "old")

	for _, handling := range []reconcile.Handling{reconcile.Backup, reconcile.Delete} {
		t.Run(handling.String(), func(t *testing.T) {
			h := newHarness(t, opts(handling), nil, nil)
			err := h.policy.Link(mapping.MustNew(src, dst, false))
			require.Error(t, err)
			assert.True(t, errors.IsErrorCode(err, errors.ErrDestinationExists))
			testutil.AssertFileContent(t, dst, "old")
		})
	}
}

func TestDryRunLinkRejectsOccupiedDestination(t *testing.T) {
	env := testutil.NewEnvironment(t)
	src := env.WriteFile(env.RepoPath("vim", "vimrc"), "")
	dst := env.WriteFile(env.HomePath(".vimrc"), "old")
	m := mapping.MustNew(src, dst, false)

	for _, handling := range []reconcile.Handling{reconcile.Backup, reconcile.Delete} {
		t.Run(handling.String(), func(t *testing.T) {
			o := opts(handling)
			o.DryRun = true
			h := newHarness(t, o, nil, nil)

			err := h.policy.Link(m)
			require.Error(t, err)
			assert.True(t, errors.IsErrorCode(err, errors.ErrDestinationExists))
			assert.Empty(t, h.messages(t, "info"))
			assert.Empty(t, h.rec.Writes())
		})
	}

	t.Run("after the clearing step", func(t *testing.T) {
		o := opts(reconcile.Backup)
		o.DryRun = true
		h := newHarness(t, o, nil, nil)

		require.NoError(t, h.policy.Backup(m))
		require.NoError(t, h.policy.Link(m))
		assert.Equal(t, []string{"moving file", "creating link"}, h.messages(t, "info"))
		assert.Empty(t, h.rec.Writes())
		testutil.AssertFileContent(t, dst, "old")
	})
}

func TestLinkSourceMissing(t *testing.T) {
	env := testutil.NewEnvironment(t)
	dst := env.HomePath(".tmux.conf")

	h := newHarness(t, opts(reconcile.Keep), nil, nil)
	err := h.policy.Link(mapping.MustNew(env.RepoPath("tmux", "tmux.conf"), dst, false))
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrSourceMissing))
	testutil.AssertNotExists(t, dst)
	assert.Empty(t, h.rec.Writes())
}

func TestLinkAcceptsDanglingSourceSymlink(t *testing.T) {
	env := testutil.NewEnvironment(t)
	src := env.Symlink("/does/not/exist", env.RepoPath("misc", "dangling"))
	dst := env.HomePath(".dangling")

	h := newHarness(t, opts(reconcile.Keep), nil, nil)
	require.NoError(t, h.policy.Link(mapping.MustNew(src, dst, false)))
	testutil.AssertSymlinkTo(t, dst, src)
}

func TestLinkDisabled(t *testing.T) {
	env := testutil.NewEnvironment(t)
	src := env.WriteFile(env.RepoPath("vim", "vimrc"), "")

	o := opts(reconcile.Keep)
	o.Link = false
	h := newHarness(t, o, nil, nil)
	require.NoError(t, h.policy.Link(mapping.MustNew(src, env.HomePath(".vimrc"), false)))
	assert.Empty(t, h.rec.Calls())
}

func TestBackup(t *testing.T) {
	env := testutil.NewEnvironment(t)
	src := env.WriteFile(env.RepoPath("bash", "bashrc"), "")
	dst := env.WriteFile(env.HomePath(".bashrc"), "mine")
	m := mapping.MustNew(src, dst, false)

	t.Run("keep mode is a no-op", func(t *testing.T) {
		h := newHarness(t, opts(reconcile.Keep), nil, nil)
		require.NoError(t, h.policy.Backup(m))
		assert.Empty(t, h.rec.Calls())
	})

	t.Run("renames to suffix", func(t *testing.T) {
		o := opts(reconcile.Backup)
		o.BackupSuffix = "bak"
		h := newHarness(t, o, nil, nil)
		require.NoError(t, h.policy.Backup(m))
		testutil.AssertNotExists(t, dst)
		testutil.AssertFileContent(t, dst+".bak", "mine")
	})

	t.Run("missing destination is a no-op", func(t *testing.T) {
		h := newHarness(t, opts(reconcile.Backup), nil, nil)
		require.NoError(t, h.policy.Backup(m))
		assert.Empty(t, h.rec.Writes())
	})
}

func TestBackupMovesBrokenSymlink(t *testing.T) {
	env := testutil.NewEnvironment(t)
	src := env.WriteFile(env.RepoPath("bash", "bashrc"), "")
	dst := env.Symlink(env.HomePath("gone"), env.HomePath(".bashrc"))

	h := newHarness(t, opts(reconcile.Backup), nil, nil)
	require.NoError(t, h.policy.Backup(mapping.MustNew(src, dst, false)))
	testutil.AssertNotExists(t, dst)
	testutil.AssertSymlinkTo(t, dst+".old", env.HomePath("gone"))
}

func TestDelete(t *testing.T) {
	t.Run("regular file", func(t *testing.T) {
		env := testutil.NewEnvironment(t)
		dst := env.WriteFile(env.HomePath(".profile"), "x")
		h := newHarness(t, opts(reconcile.Delete), nil, nil)
		require.NoError(t, h.policy.Delete(mapping.MustNew(env.RepoPath("profile"), dst, false)))
		testutil.AssertNotExists(t, dst)
	})

	t.Run("directory is removed with contents", func(t *testing.T) {
		env := testutil.NewEnvironment(t)
		dst := env.Mkdir(env.HomePath(".vim"))
		env.WriteFile(filepath.Join(dst, "colors", "theme.vim"), "x")

		h := newHarness(t, opts(reconcile.Delete), nil, nil)
		require.NoError(t, h.policy.Delete(mapping.MustNew(env.RepoPath("vim"), dst, false)))
		testutil.AssertNotExists(t, dst)
		assert.Contains(t, h.rec.Writes(), testutil.Call{Op: "RemoveAll", Path: dst})
	})

	t.Run("symlink to directory is only unlinked", func(t *testing.T) {
		env := testutil.NewEnvironment(t)
		target := env.Mkdir(filepath.Join(env.Base(), "elsewhere"))
		keep := env.WriteFile(filepath.Join(target, "keep.txt"), "keep")
		dst := env.Symlink(target, env.HomePath(".vim"))

		h := newHarness(t, opts(reconcile.Delete), nil, nil)
		require.NoError(t, h.policy.Delete(mapping.MustNew(env.RepoPath("vim"), dst, false)))
		testutil.AssertNotExists(t, dst)
		testutil.AssertFileContent(t, keep, "keep")
		assert.Equal(t, []testutil.Call{{Op: "Remove", Path: dst}}, h.rec.Writes())
	})

	t.Run("other modes are no-ops", func(t *testing.T) {
		env := testutil.NewEnvironment(t)
		dst := env.WriteFile(env.HomePath(".profile"), "x")
		for _, handling := range []reconcile.Handling{reconcile.Keep, reconcile.Backup} {
			h := newHarness(t, opts(handling), nil, nil)
			require.NoError(t, h.policy.Delete(mapping.MustNew(env.RepoPath("profile"), dst, false)))
		}
		testutil.AssertFileContent(t, dst, "x")
	})
}

func TestDeleteBackup(t *testing.T) {
	env := testutil.NewEnvironment(t)
	dst := env.HomePath(".bashrc")
	backup := env.WriteFile(dst+".old", "stale")
	m := mapping.MustNew(env.RepoPath("bash", "bashrc"), dst, false)

	h := newHarness(t, opts(reconcile.Keep), nil, nil)
	require.NoError(t, h.policy.DeleteBackup(m))
	testutil.AssertExists(t, backup)

	o := opts(reconcile.Keep)
	o.DeleteBackups = true
	h = newHarness(t, o, nil, nil)
	require.NoError(t, h.policy.DeleteBackup(m))
	testutil.AssertNotExists(t, backup)
}

func TestTryIsolatesFailures(t *testing.T) {
	env := testutil.NewEnvironment(t)
	var ms []mapping.FileMapping
	for _, name := range []string{"a", "b", "c"} {
		dst := env.WriteFile(env.HomePath("."+name), name)
		ms = append(ms, mapping.MustNew(env.RepoPath(name), dst, false))
	}

	denied := &os.LinkError{Op: "rename", Old: ms[1].Destination(), New: ms[1].Destination() + ".old", Err: fs.ErrPermission}
	faulty := testutil.NewFaultyFS(filesystem.NewOS()).Fail("Rename", ms[1].Destination(), denied)
	h := newHarness(t, opts(reconcile.Backup), faulty, nil)

	var errs []error
	for _, m := range ms {
		errs = append(errs, h.policy.Try(reconcile.OpBackup, m))
	}

	assert.NoError(t, errs[0])
	require.Error(t, errs[1])
	assert.NoError(t, errs[2])
	assert.True(t, errors.IsErrorCode(errs[1], errors.ErrRename))
	assert.ErrorIs(t, errs[1], fs.ErrPermission)

	testutil.AssertFileContent(t, ms[0].Destination()+".old", "a")
	testutil.AssertFileContent(t, ms[1].Destination(), "b")
	testutil.AssertFileContent(t, ms[2].Destination()+".old", "c")

	errLines := h.messages(t, "error")
	require.Len(t, errLines, 1)
	assert.Equal(t, ms[1].String(), errLines[0])
}

func TestPrivilegeGating(t *testing.T) {
	env := testutil.NewEnvironment(t)
	src := env.WriteFile(env.RepoPath("etc", "pacman.conf"), "")
	dst := env.WriteFile(env.HomePath("pacman.conf"), "system")
	env.WriteFile(dst+".old", "older")
	m := mapping.MustNew(src, dst, true)

	for _, handling := range []reconcile.Handling{reconcile.Keep, reconcile.Backup, reconcile.Delete} {
		t.Run(handling.String(), func(t *testing.T) {
			o := opts(handling)
			o.DeleteBackups = true
			h := newHarness(t, o, nil, unprivileged)

			for _, op := range reconcile.SetUpOrder {
				require.NoError(t, h.policy.Try(op, m))
			}

			assert.Empty(t, h.rec.Calls(), "no filesystem calls")
			assert.Empty(t, h.messages(t, "error"))
			assert.Empty(t, h.messages(t, "info"))
			testutil.AssertFileContent(t, dst, "system")
			testutil.AssertFileContent(t, dst+".old", "older")
		})
	}
}

func TestPrivilegedHostApplies(t *testing.T) {
	env := testutil.NewEnvironment(t)
	src := env.WriteFile(env.RepoPath("etc", "hosts"), "")
	dst := env.HomePath("hosts")

	h := newHarness(t, opts(reconcile.Keep), nil, host.Static{Elevated: true})
	require.NoError(t, h.policy.Link(mapping.MustNew(src, dst, true)))
	testutil.AssertSymlinkTo(t, dst, src)
}

func TestPlatformGating(t *testing.T) {
	env := testutil.NewEnvironment(t)
	src := env.WriteFile(env.RepoPath("apt", "sources"), "")
	dst := env.HomePath("sources")

	h := newHarness(t, opts(reconcile.Keep), nil, host.Static{ID: "arch"})
	require.NoError(t, h.policy.Link(mapping.MustNew(src, dst, false, "debian", "ubuntu")))
	assert.Empty(t, h.rec.Calls())
	testutil.AssertNotExists(t, dst)

	debug := h.messages(t, "debug")
	assert.Equal(t, []string{"skipping mapping"}, debug)

	h = newHarness(t, opts(reconcile.Keep), nil, host.Static{ID: "debian"})
	require.NoError(t, h.policy.Link(mapping.MustNew(src, dst, false, "debian", "ubuntu")))
	testutil.AssertSymlinkTo(t, dst, src)
}

// fixture lays out a vim category with an existing ~/.vimrc, a stale backup
// and an existing directory destination under base.
func fixture(t *testing.T, env *testutil.Environment, base string) []mapping.FileMapping {
	t.Helper()
	src := env.WriteFile(filepath.Join(base, "repo", "vimrc"), "repo")
	srcDir := env.Mkdir(filepath.Join(base, "repo", "vim"))
	dst := env.WriteFile(filepath.Join(base, "home", ".vimrc"), "mine")
	env.WriteFile(dst+".old", "stale")
	dstDir := env.Mkdir(filepath.Join(base, "home", ".vim"))
	return []mapping.FileMapping{
		mapping.MustNew(src, dst, false),
		mapping.MustNew(srcDir, dstDir, false),
	}
}

func TestDryRunMatchesRealRun(t *testing.T) {
	env := testutil.NewEnvironment(t)

	for _, handling := range []reconcile.Handling{reconcile.Backup, reconcile.Delete} {
		t.Run(handling.String(), func(t *testing.T) {
			live := fixture(t, env, filepath.Join(env.Base(), handling.String(), "real"))
			dryMs := fixture(t, env, filepath.Join(env.Base(), handling.String(), "dry"))

			o := opts(handling)
			o.DeleteBackups = true
			realRun := newHarness(t, o, nil, nil)
			o.DryRun = true
			dryRun := newHarness(t, o, nil, nil)

			for _, op := range reconcile.SetUpOrder {
				for i := range live {
					require.NoError(t, realRun.policy.Try(op, live[i]))
					require.NoError(t, dryRun.policy.Try(op, dryMs[i]))
				}
			}

			assert.Empty(t, dryRun.rec.Writes(), "dry run must not mutate")
			assert.NotEmpty(t, realRun.rec.Writes())
			assert.Equal(t, realRun.messages(t, "info"), dryRun.messages(t, "info"))

			for _, l := range dryRun.lines(t) {
				if l["level"] == "info" {
					assert.Equal(t, true, l["dry_run"])
				}
			}

			testutil.AssertFileContent(t, dryMs[0].Destination(), "mine")
			testutil.AssertFileContent(t, dryMs[0].Destination()+".old", "stale")
			testutil.AssertSymlinkTo(t, live[0].Destination(), live[0].Source())
		})
	}
}

func TestVimrcBackupAndLinkScenario(t *testing.T) {
	env := testutil.NewEnvironment(t)
	src := env.WriteFile(env.RepoPath("vim", "vimrc"), "repo vimrc")
	env.WriteFile(env.HomePath(".vimrc"), "original")

	dst, err := filepath.Abs(env.HomePath(".vimrc"))
	require.NoError(t, err)
	m := mapping.MustNew(src, dst, false)

	o := opts(reconcile.Backup)
	o.BackupSuffix = ".old"
	h := newHarness(t, o, nil, nil)

	require.NoError(t, h.policy.Backup(m))
	require.NoError(t, h.policy.Link(m))

	testutil.AssertFileContent(t, dst+".old", "original")
	testutil.AssertSymlinkTo(t, dst, src)
}

func TestCorrectSymlinkZeroWrites(t *testing.T) {
	env := testutil.NewEnvironment(t)
	src := env.WriteFile(env.RepoPath("vim", "vimrc"), "")
	dst := env.Symlink(src, env.HomePath(".vimrc"))

	h := newHarness(t, opts(reconcile.Keep), nil, nil)
	for _, op := range reconcile.SetUpOrder {
		require.NoError(t, h.policy.Try(op, mapping.MustNew(src, dst, false)))
	}
	assert.Empty(t, h.rec.Writes())
	testutil.AssertSymlinkTo(t, dst, src)
}

func TestNewPolicyValidates(t *testing.T) {
	o := reconcile.DefaultOptions()
	o.Verbose, o.Quiet = true, true
	_, err := reconcile.NewPolicy(o, filesystem.NewMemory(), unprivileged, nil)
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))

	_, err = reconcile.NewPolicy(reconcile.DefaultOptions(), nil, unprivileged, nil)
	assert.Error(t, err)

	o = reconcile.DefaultOptions()
	o.BackupSuffix = "bak"
	p, err := reconcile.NewPolicy(o, filesystem.NewMemory(), unprivileged, nil)
	require.NoError(t, err)
	assert.Equal(t, ".bak", p.Options().BackupSuffix)
	assert.NotNil(t, p.Reporter())
}

func TestApplyUnknownOp(t *testing.T) {
	h := newHarness(t, reconcile.DefaultOptions(), filesystem.NewMemory(), nil)
	err := h.policy.Apply(reconcile.Op(42), mapping.MustNew("/a", "/b", false))
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))
	assert.Equal(t, "unknown", reconcile.Op(42).String())
	assert.Equal(t, "delete-backup", reconcile.OpDeleteBackup.String())
}
