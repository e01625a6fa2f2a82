package config

import (
	"github.com/arthur-debert/dotsetup/pkg/reconcile"
)

// Config is the decoded run configuration.
type Config struct {
	Link          bool   `koanf:"link"`
	Handling      string `koanf:"handling"`
	Suffix        string `koanf:"suffix"`
	DeleteBackups bool   `koanf:"delete_backups"`
	DryRun        bool   `koanf:"dry_run"`
	Confirm       bool   `koanf:"confirm"`
	Verbose       bool   `koanf:"verbose"`
	Quiet         bool   `koanf:"quiet"`
	Strict        bool   `koanf:"strict"`
}

// Options converts the configuration into policy options.
func (c *Config) Options() (reconcile.Options, error) {
	handling, err := reconcile.ParseHandling(c.Handling)
	if err != nil {
		return reconcile.Options{}, err
	}

	opts := reconcile.Options{
		Link:          c.Link,
		Handling:      handling,
		BackupSuffix:  reconcile.NormalizeSuffix(c.Suffix),
		DryRun:        c.DryRun,
		Verbose:       c.Verbose,
		Quiet:         c.Quiet,
		DeleteBackups: c.DeleteBackups,
		Confirm:       c.Confirm,
	}
	if err := opts.Validate(); err != nil {
		return reconcile.Options{}, err
	}
	return opts, nil
}
