package category

import (
	"github.com/arthur-debert/dotsetup/pkg/descriptor"
	"github.com/arthur-debert/dotsetup/pkg/errors"
	"github.com/arthur-debert/dotsetup/pkg/filesystem"
	"github.com/arthur-debert/dotsetup/pkg/install"
	"github.com/arthur-debert/dotsetup/pkg/logging"
	"github.com/arthur-debert/dotsetup/pkg/registry"
)

// AllName names the synthetic category.
const AllName = descriptor.ReservedName

// Collection holds the categories of one repository.
type Collection struct {
	reg registry.Registry[*Category]
}

// NewCollection registers the given categories and the synthetic "all"
// category. Names must be unique and must not be "all".
func NewCollection(categories ...*Category) (*Collection, error) {
	col := &Collection{reg: registry.New[*Category]()}

	for _, c := range categories {
		if c == nil {
			continue
		}
		if c.name == AllName {
			return nil, errors.Newf(errors.ErrInvalidInput, "category name %q is reserved", AllName)
		}
		if err := col.reg.Register(c.name, c); err != nil {
			if errors.IsErrorCode(err, errors.ErrAlreadyExists) {
				return nil, errors.Newf(errors.ErrAlreadyExists, "category %s is declared twice", c.name).
					WithDetail("category", c.name).
					WithDetail("dir", c.dir)
			}
			return nil, err
		}
	}

	all := newCategory(AllName)
	all.help = "set up every category"
	all.members = col.Categories
	registry.MustRegister(col.reg, AllName, all)

	return col, nil
}

// Load discovers every category descriptor under root and builds the
// collection. env supplies the runner and confirmer for install actions.
func Load(fsys filesystem.FS, root string, env install.Env) (*Collection, error) {
	logger := logging.GetLogger("category.load").With().Str("root", root).Logger()

	found, err := descriptor.Discover(fsys, root)
	if err != nil {
		return nil, err
	}

	categories := make([]*Category, 0, len(found))
	for _, path := range found {
		d, err := descriptor.Load(fsys, path)
		if err != nil {
			return nil, err
		}
		c, err := FromDescriptor(d, root, env)
		if err != nil {
			return nil, err
		}
		categories = append(categories, c)
		logger.Trace().
			Str("category", c.name).
			Int("mappings", len(c.files)+len(c.directories)).
			Int("actions", c.actions.Count()).
			Msg("Category built")
	}

	col, err := NewCollection(categories...)
	if err != nil {
		return nil, err
	}
	logger.Debug().Int("count", len(categories)).Msg("Categories loaded")
	return col, nil
}

// Get returns the named category; "all" returns the synthetic category.
func (col *Collection) Get(name string) (*Category, error) {
	c, err := col.reg.Get(name)
	if err != nil {
		return nil, errors.Newf(errors.ErrCategoryNotFound, "no category named %q", name).
			WithDetail("category", name).
			WithDetail("available", col.Names())
	}
	return c, nil
}

// Has reports whether name is in the collection.
func (col *Collection) Has(name string) bool { return col.reg.Has(name) }

// Remove drops a category, including "all" when a caller must not offer it.
func (col *Collection) Remove(name string) error {
	if err := col.reg.Remove(name); err != nil {
		return errors.Newf(errors.ErrCategoryNotFound, "no category named %q", name).
			WithDetail("category", name)
	}
	return nil
}

// Names returns the real category names, sorted.
func (col *Collection) Names() []string {
	var names []string
	for _, name := range col.reg.List() {
		if name != AllName {
			names = append(names, name)
		}
	}
	return names
}

// Categories returns the real categories sorted by name.
func (col *Collection) Categories() []*Category {
	var out []*Category
	for _, c := range col.reg.Values() {
		if !c.IsSynthetic() {
			out = append(out, c)
		}
	}
	return out
}

// All returns the synthetic category, or nil once it was removed.
func (col *Collection) All() *Category {
	c, err := col.reg.Get(AllName)
	if err != nil {
		return nil
	}
	return c
}
