package category

import (
	"path/filepath"

	"github.com/arthur-debert/dotsetup/pkg/descriptor"
	"github.com/arthur-debert/dotsetup/pkg/errors"
	"github.com/arthur-debert/dotsetup/pkg/install"
	"github.com/arthur-debert/dotsetup/pkg/mapping"
	"github.com/arthur-debert/dotsetup/pkg/paths"
)

// FromDescriptor builds a category from a loaded descriptor. Sources
// resolve against the category directory (the descriptor's directory, or
// root/<name> when the descriptor was not read from a file); destinations
// resolve against the home directory.
func FromDescriptor(d *descriptor.Descriptor, root string, env install.Env) (*Category, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}

	dir := filepath.Join(root, d.Name())
	if d.Path != "" {
		dir = filepath.Dir(d.Path)
	}

	c := newCategory(d.Name())
	c.help = d.Category.Help
	c.dir = dir
	c.env = env

	var err error
	if c.files, err = buildMappings(dir, d.Files); err != nil {
		return nil, wrapBuild(err, d)
	}
	if c.directories, err = buildMappings(dir, d.Directories); err != nil {
		return nil, wrapBuild(err, d)
	}

	for _, spec := range d.Category.Install {
		action, err := install.FromSpec(spec, dir)
		if err != nil {
			return nil, wrapBuild(err, d)
		}
		if err := c.actions.Register(action.Name, action); err != nil {
			return nil, wrapBuild(err, d)
		}
	}
	return c, nil
}

func buildMappings(dir string, specs []descriptor.MappingSpec) ([]mapping.FileMapping, error) {
	ms := make([]mapping.FileMapping, 0, len(specs))
	for _, spec := range specs {
		src, err := paths.ResolveUnder(dir, spec.Src)
		if err != nil {
			return nil, err
		}
		dst, err := paths.ResolveDestination(spec.Dst)
		if err != nil {
			return nil, err
		}
		m, err := mapping.New(src, dst, spec.Root, spec.Distribution...)
		if err != nil {
			return nil, err
		}
		ms = append(ms, m)
	}
	return ms, nil
}

func wrapBuild(err error, d *descriptor.Descriptor) error {
	return errors.Wrapf(err, errors.ErrDescriptorInvalid, "cannot build category %s", d.Name()).
		WithDetail("path", d.Path)
}
