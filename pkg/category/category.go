package category

import (
	"context"
	"slices"

	"github.com/arthur-debert/dotsetup/pkg/descriptor"
	"github.com/arthur-debert/dotsetup/pkg/errors"
	"github.com/arthur-debert/dotsetup/pkg/install"
	"github.com/arthur-debert/dotsetup/pkg/mapping"
	"github.com/arthur-debert/dotsetup/pkg/reconcile"
	"github.com/arthur-debert/dotsetup/pkg/registry"
	"github.com/arthur-debert/dotsetup/pkg/ui/confirm"
)

// Category is one named feature area.
type Category struct {
	name string
	help string
	dir  string

	files       []mapping.FileMapping
	directories []mapping.FileMapping
	actions     registry.Registry[install.Action]

	// env supplies the runner and confirmer to install actions.
	env    install.Env
	policy *reconcile.Policy

	// members is set on the synthetic category only.
	members func() []*Category
}

// Option configures a Category built with New.
type Option func(*Category) error

// WithHelp sets the one-line description.
func WithHelp(help string) Option {
	return func(c *Category) error {
		c.help = help
		return nil
	}
}

// WithDir records the repository directory of the category.
func WithDir(dir string) Option {
	return func(c *Category) error {
		c.dir = dir
		return nil
	}
}

// WithFiles appends file mappings.
func WithFiles(ms ...mapping.FileMapping) Option {
	return func(c *Category) error {
		c.files = append(c.files, ms...)
		return nil
	}
}

// WithDirectories appends directory mappings.
func WithDirectories(ms ...mapping.FileMapping) Option {
	return func(c *Category) error {
		c.directories = append(c.directories, ms...)
		return nil
	}
}

// WithAction declares an install action; actions keep declaration order.
func WithAction(a install.Action) Option {
	return func(c *Category) error {
		if a.Name == descriptor.ReservedName {
			return errors.Newf(errors.ErrInvalidInput, "install action name %q is reserved", a.Name)
		}
		if a.Run == nil {
			return errors.Newf(errors.ErrInvalidInput, "install action %q has nothing to run", a.Name)
		}
		return c.actions.Register(a.Name, a)
	}
}

// WithInstallEnv sets the runner and confirmer install actions use.
func WithInstallEnv(env install.Env) Option {
	return func(c *Category) error {
		c.env = env
		return nil
	}
}

// New builds a category programmatically.
func New(name string, opts ...Option) (*Category, error) {
	if name == "" {
		return nil, errors.New(errors.ErrInvalidInput, "category name cannot be empty")
	}
	if name == descriptor.ReservedName {
		return nil, errors.Newf(errors.ErrInvalidInput, "category name %q is reserved", name)
	}

	c := newCategory(name)
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}
	return c, nil
}

func newCategory(name string) *Category {
	return &Category{
		name:    name,
		actions: registry.New[install.Action](),
	}
}

func (c *Category) Name() string { return c.name }
func (c *Category) Help() string { return c.help }
func (c *Category) Dir() string  { return c.dir }

// Files returns the file mappings in declaration order.
func (c *Category) Files() []mapping.FileMapping { return slices.Clone(c.files) }

// Directories returns the directory mappings in declaration order.
func (c *Category) Directories() []mapping.FileMapping { return slices.Clone(c.directories) }

// Mappings returns files followed by directories.
func (c *Category) Mappings() []mapping.FileMapping {
	return append(c.Files(), c.directories...)
}

// Actions returns the install actions in declaration order.
func (c *Category) Actions() []install.Action {
	names := c.actions.Ordered()
	actions := make([]install.Action, 0, len(names))
	for _, name := range names {
		if a, err := c.actions.Get(name); err == nil {
			actions = append(actions, a)
		}
	}
	return actions
}

// ActionNames returns the install action names in declaration order.
func (c *Category) ActionNames() []string { return c.actions.Ordered() }

// IsSynthetic is true for the fan-out category.
func (c *Category) IsSynthetic() bool { return c.members != nil }

// Bind stores the policy SetUp uses when called through a fan-out.
func (c *Category) Bind(p *reconcile.Policy) { c.policy = p }

// Policy returns the bound policy, if any.
func (c *Category) Policy() *reconcile.Policy { return c.policy }

// Link links every mapping.
func (c *Category) Link(p *reconcile.Policy) Report { return c.bulk(p, reconcile.OpLink) }

// BackUp moves every existing destination to its backup path.
func (c *Category) BackUp(p *reconcile.Policy) Report { return c.bulk(p, reconcile.OpBackup) }

// Delete removes every existing destination.
func (c *Category) Delete(p *reconcile.Policy) Report { return c.bulk(p, reconcile.OpDelete) }

// DeleteBackups removes every backup path.
func (c *Category) DeleteBackups(p *reconcile.Policy) Report {
	return c.bulk(p, reconcile.OpDeleteBackup)
}

// Run applies a single operation to every mapping.
func (c *Category) Run(p *reconcile.Policy, op reconcile.Op) Report { return c.bulk(p, op) }

func (c *Category) bulk(p *reconcile.Policy, op reconcile.Op) Report {
	if c.members != nil {
		return c.fanOut(func(m *Category) Report { return m.bulk(p, op) })
	}

	report := Report{Category: c.name}
	for _, m := range c.Mappings() {
		report.Processed++
		if err := p.Try(op, m); err != nil {
			report.fail(op.String(), m.String(), err)
		}
	}
	return report
}

// SetUp deletes old backups, backs up, deletes and links, in that order,
// then runs the requested install actions.
func (c *Category) SetUp(ctx context.Context, p *reconcile.Policy, installKeys []string) Report {
	if c.members != nil {
		return c.fanOut(func(m *Category) Report {
			m.Bind(p)
			return m.SetUp(ctx, p, installKeys)
		})
	}

	report := Report{Category: c.name}
	for _, op := range reconcile.SetUpOrder {
		report.Merge(c.bulk(p, op))
	}
	if len(installKeys) > 0 {
		report.Merge(c.install(ctx, p, installKeys, true))
	}
	return report
}

// Install runs the named actions in declaration order. "all" selects every
// action. Unknown names are reported as NOT_FOUND failures.
func (c *Category) Install(ctx context.Context, p *reconcile.Policy, keys []string) Report {
	if c.members != nil {
		return c.fanOut(func(m *Category) Report { return m.install(ctx, p, keys, false) })
	}
	return c.install(ctx, p, keys, true)
}

func (c *Category) install(ctx context.Context, p *reconcile.Policy, keys []string, strict bool) Report {
	report := Report{Category: c.name}
	if len(keys) == 0 {
		return report
	}

	selected := make(map[string]bool)
	for _, key := range keys {
		if key == descriptor.ReservedName {
			for _, name := range c.actions.Ordered() {
				selected[name] = true
			}
			continue
		}
		if !c.actions.Has(key) {
			if strict {
				report.Processed++
				err := errors.Newf(errors.ErrNotFound, "category %s has no install action %q", c.name, key).
					WithDetail("available", c.actions.Ordered())
				p.ReportFailure("install", key, err)
				report.fail("install", key, err)
			}
			continue
		}
		selected[key] = true
	}

	env := c.env
	env.FS = p.FS()
	env.Host = p.Host()
	env.Reporter = p.Reporter()
	env.DryRun = p.Options().DryRun
	if !p.Options().Confirm || p.Options().Quiet {
		env.Confirm = confirm.Auto{}
	}

	for _, action := range c.Actions() {
		if !selected[action.Name] {
			continue
		}
		report.Processed++
		if err := action.Execute(ctx, env); err != nil {
			p.ReportFailure("install", action.Name, err)
			report.fail("install", action.Name, err)
		}
	}
	return report
}

func (c *Category) fanOut(each func(*Category) Report) Report {
	report := Report{Category: c.name}
	for _, m := range c.members() {
		report.Merge(each(m))
	}
	return report
}
