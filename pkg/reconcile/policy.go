package reconcile

import (
	"io/fs"
	"path/filepath"
	"sync"

	"github.com/arthur-debert/dotsetup/pkg/errors"
	"github.com/arthur-debert/dotsetup/pkg/filesystem"
	"github.com/arthur-debert/dotsetup/pkg/host"
	"github.com/arthur-debert/dotsetup/pkg/logging"
	"github.com/arthur-debert/dotsetup/pkg/mapping"
)

// Policy applies Options to mappings through explicit collaborators.
type Policy struct {
	opts     Options
	fs       filesystem.FS
	host     host.Host
	reporter logging.Reporter

	// cleared holds paths a dry run would already have moved or deleted.
	mu      sync.Mutex
	cleared map[string]bool
}

// NewPolicy validates opts and normalizes the backup suffix. A nil reporter
// discards all output.
func NewPolicy(opts Options, fsys filesystem.FS, h host.Host, reporter logging.Reporter) (*Policy, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if fsys == nil {
		return nil, errors.New(errors.ErrInvalidInput, "policy needs a filesystem")
	}
	if h == nil {
		return nil, errors.New(errors.ErrInvalidInput, "policy needs a host")
	}
	if reporter == nil {
		reporter = logging.NopReporter()
	}
	opts.BackupSuffix = NormalizeSuffix(opts.BackupSuffix)

	return &Policy{opts: opts, fs: fsys, host: h, reporter: reporter, cleared: map[string]bool{}}, nil
}

// Options returns the normalized options the policy was built with.
func (p *Policy) Options() Options { return p.opts }

// Reporter returns the channel the policy reports on.
func (p *Policy) Reporter() logging.Reporter { return p.reporter }

// FS returns the filesystem the policy mutates.
func (p *Policy) FS() filesystem.FS { return p.fs }

// Host returns the host applicability is checked against.
func (p *Policy) Host() host.Host { return p.host }

// skip reports whether m cannot be applied on this host. Skips are traced at
// debug level only.
func (p *Policy) skip(op Op, m mapping.FileMapping) bool {
	if m.CanApply(p.host) {
		return false
	}
	p.reporter.Debug().
		Str("op", op.String()).
		Str("destination", m.Destination()).
		Bool("privileged", m.IsPrivileged(p.host)).
		Bool("platform", m.IsApplicablePlatform(p.host)).
		Msg("skipping mapping")
	return true
}

// Link creates the destination as a symlink to the source.
func (p *Policy) Link(m mapping.FileMapping) error {
	if !p.opts.Link || p.skip(OpLink, m) {
		return nil
	}

	dst, src := m.Destination(), m.Source()

	exists, err := filesystem.Exists(p.fs, dst)
	if err != nil {
		return errors.Wrapf(err, errors.ErrFileAccess, "cannot inspect %s", dst)
	}
	if exists {
		if p.opts.Handling == Keep {
			return nil
		}
		if !p.wouldHaveCleared(dst) {
			return errors.Newf(errors.ErrDestinationExists, "destination %s already exists", dst).
				WithDetail("destination", dst).
				WithDetail("handling", p.opts.Handling.String())
		}
	}

	srcExists, err := filesystem.Exists(p.fs, src)
	if err != nil {
		return errors.Wrapf(err, errors.ErrFileAccess, "cannot inspect %s", src)
	}
	if !srcExists {
		return errors.Newf(errors.ErrSourceMissing, "source %s does not exist", src).
			WithDetail("source", src)
	}

	p.reporter.Info().
		Str("destination", dst).
		Str("source", src).
		Bool("dry_run", p.opts.DryRun).
		Msg("creating link")
	if p.opts.DryRun {
		return nil
	}

	if err := p.fs.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return errors.Wrapf(err, errors.ErrDirCreate, "cannot create parent of %s", dst)
	}
	if err := p.fs.Symlink(src, dst); err != nil {
		return errors.Wrapf(err, errors.ErrSymlinkCreate, "cannot link %s", dst)
	}
	return nil
}

// Backup renames an existing destination to its backup path.
func (p *Policy) Backup(m mapping.FileMapping) error {
	if p.opts.Handling != Backup || p.skip(OpBackup, m) {
		return nil
	}

	dst := m.Destination()
	exists, err := filesystem.Exists(p.fs, dst)
	if err != nil {
		return errors.Wrapf(err, errors.ErrFileAccess, "cannot inspect %s", dst)
	}
	if !exists {
		return nil
	}

	backup := m.BackupPath(p.opts.BackupSuffix)
	p.reporter.Info().
		Str("from", dst).
		Str("to", backup).
		Bool("dry_run", p.opts.DryRun).
		Msg("moving file")
	if p.opts.DryRun {
		p.markCleared(dst)
		return nil
	}

	if err := p.fs.Rename(dst, backup); err != nil {
		return errors.Wrapf(err, errors.ErrRename, "cannot move %s to %s", dst, backup)
	}
	return nil
}

// Delete removes an existing destination.
func (p *Policy) Delete(m mapping.FileMapping) error {
	if p.opts.Handling != Delete || p.skip(OpDelete, m) {
		return nil
	}
	return p.remove(m.Destination())
}

// DeleteBackup removes the destination's backup path.
func (p *Policy) DeleteBackup(m mapping.FileMapping) error {
	if !p.opts.DeleteBackups || p.skip(OpDeleteBackup, m) {
		return nil
	}
	return p.remove(m.BackupPath(p.opts.BackupSuffix))
}

// remove unlinks files and symlinks (including links to directories) and
// removes real directories recursively.
func (p *Policy) remove(target string) error {
	info, err := p.fs.Lstat(target)
	if filesystem.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return errors.Wrapf(err, errors.ErrFileAccess, "cannot inspect %s", target)
	}

	p.reporter.Info().
		Str("path", target).
		Bool("dry_run", p.opts.DryRun).
		Msg("deleting file")
	if p.opts.DryRun {
		p.markCleared(target)
		return nil
	}

	if info.Mode()&fs.ModeSymlink == 0 && info.IsDir() {
		err = p.fs.RemoveAll(target)
	} else {
		err = p.fs.Remove(target)
	}
	if err != nil {
		return errors.Wrapf(err, errors.ErrRemove, "cannot delete %s", target)
	}
	return nil
}

func (p *Policy) markCleared(path string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.cleared[path] = true
}

// wouldHaveCleared reports whether an earlier dry-run step on this policy
// moved or deleted path.
func (p *Policy) wouldHaveCleared(path string) bool {
	if !p.opts.DryRun {
		return false
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.cleared[path]
}
