// Package mapping defines FileMapping, one declared link between a file in
// the managed repository and its place on the live system.
package mapping

import (
	"fmt"
	"path/filepath"
	"slices"

	"github.com/arthur-debert/dotsetup/pkg/errors"
	"github.com/arthur-debert/dotsetup/pkg/host"
)

// FileMapping is immutable once constructed.
type FileMapping struct {
	source            string
	destination       string
	requiresPrivilege bool
	platforms         []string
}

// New builds a mapping. Both paths must be absolute; they are cleaned.
// An empty platforms list means the mapping applies everywhere.
func New(source, destination string, requiresPrivilege bool, platforms ...string) (FileMapping, error) {
	for _, p := range []struct{ role, path string }{{"source", source}, {"destination", destination}} {
		if p.path == "" {
			return FileMapping{}, errors.Newf(errors.ErrInvalidInput, "mapping %s is empty", p.role)
		}
		if !filepath.IsAbs(p.path) {
			return FileMapping{}, errors.Newf(errors.ErrInvalidInput, "mapping %s %q is not absolute", p.role, p.path)
		}
	}

	var ids []string
	for _, id := range platforms {
		if id != "" && !slices.Contains(ids, id) {
			ids = append(ids, id)
		}
	}

	return FileMapping{
		source:            filepath.Clean(source),
		destination:       filepath.Clean(destination),
		requiresPrivilege: requiresPrivilege,
		platforms:         ids,
	}, nil
}

// MustNew is New for mappings known to be valid; it panics otherwise.
func MustNew(source, destination string, requiresPrivilege bool, platforms ...string) FileMapping {
	m, err := New(source, destination, requiresPrivilege, platforms...)
	if err != nil {
		panic(err)
	}
	return m
}

func (m FileMapping) Source() string          { return m.source }
func (m FileMapping) Destination() string     { return m.destination }
func (m FileMapping) RequiresPrivilege() bool { return m.requiresPrivilege }

// Platforms returns a copy of the applicable platform ids.
func (m FileMapping) Platforms() []string {
	return slices.Clone(m.platforms)
}

// IsPrivileged is true unless the mapping needs root and the host lacks it.
func (m FileMapping) IsPrivileged(h host.Host) bool {
	return !m.requiresPrivilege || h.IsElevated()
}

// IsApplicablePlatform is true when no platforms are declared or the host
// platform is one of them.
func (m FileMapping) IsApplicablePlatform(h host.Host) bool {
	return len(m.platforms) == 0 || slices.Contains(m.platforms, h.Platform())
}

// CanApply combines the privilege and platform checks.
func (m FileMapping) CanApply(h host.Host) bool {
	return m.IsPrivileged(h) && m.IsApplicablePlatform(h)
}

// BackupPath appends suffix to the destination: ".bashrc" + ".old" is
// ".bashrc.old".
func (m FileMapping) BackupPath(suffix string) string {
	return m.destination + suffix
}

// WithSuffix returns a copy whose destination is BackupPath(suffix).
func (m FileMapping) WithSuffix(suffix string) FileMapping {
	c := m
	c.destination = m.BackupPath(suffix)
	c.platforms = slices.Clone(m.platforms)
	return c
}

func (m FileMapping) String() string {
	return fmt.Sprintf("%s -> %s", m.destination, m.source)
}
