package install

import (
	"context"
	"path/filepath"

	"github.com/arthur-debert/dotsetup/pkg/descriptor"
	"github.com/arthur-debert/dotsetup/pkg/errors"
	"github.com/arthur-debert/dotsetup/pkg/filesystem"
	"github.com/arthur-debert/dotsetup/pkg/host"
	"github.com/arthur-debert/dotsetup/pkg/logging"
	"github.com/arthur-debert/dotsetup/pkg/paths"
	"github.com/arthur-debert/dotsetup/pkg/ui/confirm"
)

// Func is the body of an install action.
type Func func(ctx context.Context, env Env) error

// Action is one named install step of a category.
type Action struct {
	Name string
	Help string
	// Root actions fail with PERMISSION unless the process is elevated.
	Root bool
	Run  Func
}

// Env carries what an action needs at run time.
type Env struct {
	Runner   Runner
	FS       filesystem.FS
	Host     host.Host
	Confirm  confirm.Confirmer
	Reporter logging.Reporter
	DryRun   bool
}

func (e Env) withDefaults() Env {
	if e.Runner == nil {
		e.Runner = &ExecRunner{}
	}
	if e.FS == nil {
		e.FS = filesystem.NewOS()
	}
	if e.Host == nil {
		e.Host = host.NewSystem()
	}
	if e.Confirm == nil {
		e.Confirm = confirm.Auto{}
	}
	if e.Reporter == nil {
		e.Reporter = logging.NopReporter()
	}
	return e
}

// Execute runs the action after the privilege check.
func (a Action) Execute(ctx context.Context, env Env) error {
	env = env.withDefaults()
	if a.Root && !env.Host.IsElevated() {
		return errors.Newf(errors.ErrPermission, "install action %q requires root", a.Name).
			WithDetail("action", a.Name)
	}
	if err := ctx.Err(); err != nil {
		return errors.Wrap(err, errors.ErrInstallFailed, "install cancelled")
	}

	env.Reporter.Info().Str("action", a.Name).Bool("dry_run", env.DryRun).Msg("running install action")
	return a.Run(ctx, env)
}

// run executes c or, in a dry run, only reports it.
func run(ctx context.Context, env Env, c Command) error {
	env.Reporter.Info().
		Str("command", c.String()).
		Str("dir", c.Dir).
		Bool("dry_run", env.DryRun).
		Msg("running command")
	if env.DryRun {
		return nil
	}
	return env.Runner.Run(ctx, c)
}

// FromSpec builds the action declared by spec. dir is the category
// directory commands run in.
func FromSpec(spec descriptor.InstallSpec, dir string) (Action, error) {
	action := Action{Name: spec.Name, Help: spec.Help, Root: spec.Root}

	switch spec.Handler {
	case descriptor.HandlerGitClone:
		target, err := paths.ResolveDestination(spec.Path)
		if err != nil {
			return Action{}, err
		}
		action.Run = GitClone(spec.URL, target, spec.Name)

	case descriptor.HandlerPackages:
		manager := spec.Manager
		if manager == "" {
			manager = ManagerSystem
		}
		if _, ok := managers[manager]; !ok && manager != ManagerSystem {
			return Action{}, errors.Newf(errors.ErrInvalidInput, "install action %q uses unknown package manager %q", spec.Name, manager).
				WithDetail("action", spec.Name)
		}
		action.Run = Packages(manager, spec.Packages, spec.Distributions)

	case descriptor.HandlerCommand:
		argv := spec.Argv()
		if len(argv) == 0 {
			return Action{}, errors.Newf(errors.ErrInvalidInput, "install action %q has an empty command", spec.Name)
		}
		action.Run = Exec(Command{Name: argv[0], Args: argv[1:], Dir: dir})

	default:
		return Action{}, errors.Newf(errors.ErrInstallUnknown, "install action %q has unknown handler %q", spec.Name, spec.Handler).
			WithDetail("action", spec.Name)
	}
	return action, nil
}

// Exec returns a Func that runs c.
func Exec(c Command) Func {
	return func(ctx context.Context, env Env) error {
		return run(ctx, env, c)
	}
}

// GitClone returns a Func cloning url into target. An existing checkout is
// left alone; an existing directory that is not a checkout is only cloned
// into after confirmation.
func GitClone(url, target, name string) Func {
	if name == "" {
		name = filepath.Base(target)
	}
	return func(ctx context.Context, env Env) error {
		exists, err := filesystem.Exists(env.FS, target)
		if err != nil {
			return errors.Wrapf(err, errors.ErrFileAccess, "cannot inspect %s", target)
		}
		if exists {
			isRepo, err := filesystem.Exists(env.FS, filepath.Join(target, ".git"))
			if err != nil {
				return errors.Wrapf(err, errors.ErrFileAccess, "cannot inspect %s", target)
			}
			if isRepo {
				env.Reporter.Info().Str("action", name).Str("path", target).Msg("already installed")
				return nil
			}
			if !env.Confirm.Confirm(target+" already exists, but is no git repo. Clone into the existing directory?", false) {
				env.Reporter.Info().Str("action", name).Str("path", target).Msg("skipping installation")
				return nil
			}
		}

		if !env.DryRun {
			if err := env.FS.MkdirAll(target, 0755); err != nil {
				return errors.Wrapf(err, errors.ErrDirCreate, "cannot create %s", target)
			}
		}
		return run(ctx, env, Command{Name: "git", Args: []string{"clone", "-v", url, target}})
	}
}
