package descriptor

import (
	"slices"
	"strings"

	"github.com/arthur-debert/dotsetup/pkg/errors"
)

// ReservedName is the name of the synthetic category that fans out to all
// others; no descriptor may use it.
const ReservedName = "all"

// Known install handlers
const (
	HandlerGitClone = "git-clone"
	HandlerPackages = "packages"
	HandlerCommand  = "command"
)

// KnownHandlers lists the install handlers a descriptor may name.
var KnownHandlers = []string{HandlerGitClone, HandlerPackages, HandlerCommand}

// Descriptor is the decoded content of a category descriptor file.
type Descriptor struct {
	Category    Info          `mapstructure:"category"`
	Files       []MappingSpec `mapstructure:"files"`
	Directories []MappingSpec `mapstructure:"directories"`

	// Path is the file the descriptor was loaded from, if any.
	Path string `mapstructure:"-"`
}

// Info is the category header.
type Info struct {
	Name    string        `mapstructure:"name"`
	Help    string        `mapstructure:"help"`
	Install []InstallSpec `mapstructure:"install"`
}

// MappingSpec is one declared mapping. Src is relative to the category
// directory, Dst to the home directory; both may start with ~.
type MappingSpec struct {
	Src          string   `mapstructure:"src"`
	Dst          string   `mapstructure:"dst"`
	Root         bool     `mapstructure:"root"`
	Distribution []string `mapstructure:"distribution"`
}

// InstallSpec declares one install action.
type InstallSpec struct {
	Name    string `mapstructure:"name"`
	Help    string `mapstructure:"help"`
	Handler string `mapstructure:"handler"`
	Root    bool   `mapstructure:"root"`

	// git-clone
	URL  string `mapstructure:"url"`
	Path string `mapstructure:"path"`

	// packages
	Manager       string              `mapstructure:"manager"`
	Packages      []string            `mapstructure:"packages"`
	Distributions map[string][]string `mapstructure:"distributions"`

	// command
	Command []string `mapstructure:"command"`
}

// Argv returns the command to run. A command given as one string is split
// on whitespace.
func (s InstallSpec) Argv() []string {
	if len(s.Command) == 1 {
		return strings.Fields(s.Command[0])
	}
	return slices.Clone(s.Command)
}

// Name returns the category name.
func (d *Descriptor) Name() string { return d.Category.Name }

// Validate checks the fields the rest of the program relies on.
func (d *Descriptor) Validate() error {
	name := strings.TrimSpace(d.Category.Name)
	if name == "" {
		return d.invalid("category name is required")
	}
	if name == ReservedName {
		return d.invalid("category name %q is reserved", ReservedName)
	}

	for i, spec := range d.Files {
		if err := d.validateMapping("files", i, spec); err != nil {
			return err
		}
	}
	for i, spec := range d.Directories {
		if err := d.validateMapping("directories", i, spec); err != nil {
			return err
		}
	}

	seen := make(map[string]bool)
	for i, spec := range d.Category.Install {
		if spec.Name == "" {
			return d.invalid("install[%d] has no name", i)
		}
		if spec.Name == ReservedName {
			return d.invalid("install action name %q is reserved", ReservedName)
		}
		if seen[spec.Name] {
			return d.invalid("install action %q is declared twice", spec.Name)
		}
		seen[spec.Name] = true

		if !slices.Contains(KnownHandlers, spec.Handler) {
			return d.invalid("install action %q has unknown handler %q", spec.Name, spec.Handler).
				WithDetail("known", KnownHandlers)
		}
		switch spec.Handler {
		case HandlerGitClone:
			if spec.URL == "" || spec.Path == "" {
				return d.invalid("install action %q needs url and path", spec.Name)
			}
		case HandlerPackages:
			if len(spec.Packages) == 0 && len(spec.Distributions) == 0 {
				return d.invalid("install action %q lists no packages", spec.Name)
			}
		case HandlerCommand:
			if len(spec.Argv()) == 0 {
				return d.invalid("install action %q has an empty command", spec.Name)
			}
		}
	}
	return nil
}

func (d *Descriptor) validateMapping(list string, i int, spec MappingSpec) error {
	if spec.Src == "" {
		return d.invalid("%s[%d] has no src", list, i)
	}
	if spec.Dst == "" {
		return d.invalid("%s[%d] has no dst", list, i)
	}
	return nil
}

func (d *Descriptor) invalid(format string, args ...interface{}) *errors.SetupError {
	err := errors.Newf(errors.ErrDescriptorInvalid, format, args...)
	if d.Path != "" {
		err.WithDetail("path", d.Path)
	}
	return err
}
