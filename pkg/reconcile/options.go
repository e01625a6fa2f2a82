package reconcile

import (
	"strings"

	"github.com/arthur-debert/dotsetup/pkg/errors"
)

// Handling says what to do with something already at a destination.
type Handling int

const (
	// Keep leaves it in place; linking that mapping is then a no-op.
	Keep Handling = iota
	// Backup renames it to destination+suffix.
	Backup
	// Delete removes it.
	Delete
)

var handlingNames = map[Handling]string{
	Keep:   "keep",
	Backup: "backup",
	Delete: "delete",
}

func (h Handling) String() string {
	if name, ok := handlingNames[h]; ok {
		return name
	}
	return "unknown"
}

// ParseHandling accepts "keep", "backup" and "delete", case-insensitively.
func ParseHandling(s string) (Handling, error) {
	want := strings.ToLower(strings.TrimSpace(s))
	for h, name := range handlingNames {
		if name == want {
			return h, nil
		}
	}
	return Keep, errors.Newf(errors.ErrInvalidInput, "unknown handling mode %q", s).
		WithDetail("value", s)
}

// DefaultSuffix is appended to destinations when backing them up.
const DefaultSuffix = ".old"

// Options configures a Policy.
type Options struct {
	Link          bool
	Handling      Handling
	BackupSuffix  string
	DryRun        bool
	Verbose       bool
	Quiet         bool
	DeleteBackups bool
	Confirm       bool
}

// DefaultOptions links, keeps existing files and asks for confirmation
// before install prompts.
func DefaultOptions() Options {
	return Options{
		Link:         true,
		Handling:     Keep,
		BackupSuffix: DefaultSuffix,
		Confirm:      true,
	}
}

// NormalizeSuffix makes sure the suffix starts with exactly one dot. An
// empty suffix becomes DefaultSuffix.
func NormalizeSuffix(suffix string) string {
	trimmed := strings.TrimLeft(suffix, ".")
	if trimmed == "" {
		return DefaultSuffix
	}
	return "." + trimmed
}

// Validate rejects contradictory options.
func (o Options) Validate() error {
	if o.Verbose && o.Quiet {
		return errors.New(errors.ErrInvalidInput, "verbose and quiet are mutually exclusive")
	}
	if _, ok := handlingNames[o.Handling]; !ok {
		return errors.Newf(errors.ErrInvalidInput, "invalid handling mode %d", int(o.Handling))
	}
	return nil
}
