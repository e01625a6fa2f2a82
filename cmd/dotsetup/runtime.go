package dotsetup

import (
	"fmt"
	"io"

	"github.com/arthur-debert/dotsetup/pkg/category"
	"github.com/arthur-debert/dotsetup/pkg/config"
	"github.com/arthur-debert/dotsetup/pkg/filesystem"
	"github.com/arthur-debert/dotsetup/pkg/host"
	"github.com/arthur-debert/dotsetup/pkg/install"
	"github.com/arthur-debert/dotsetup/pkg/logging"
	"github.com/arthur-debert/dotsetup/pkg/paths"
	"github.com/arthur-debert/dotsetup/pkg/reconcile"
	"github.com/arthur-debert/dotsetup/pkg/style"
	"github.com/arthur-debert/dotsetup/pkg/ui/confirm"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// runtime is everything a command needs for one run.
type runtime struct {
	cfg        *config.Config
	paths      paths.Paths
	policy     *reconcile.Policy
	collection *category.Collection
	runID      string
	out        io.Writer
	renderer   *style.Renderer
}

// newRuntime resolves the repository, loads the layered configuration with
// the given overrides on top of the global flags, and discovers the
// categories.
func newRuntime(cmd *cobra.Command, g *globalFlags, overrides map[string]interface{}) (*runtime, error) {
	renderer, err := g.renderer(cmd.OutOrStdout())
	if err != nil {
		return nil, err
	}
	p, err := initPaths(cmd, g)
	if err != nil {
		return nil, err
	}

	src := config.SourcesFor(p)
	src.Overrides = g.overrides(cmd)
	for k, v := range overrides {
		src.Overrides[k] = v
	}
	cfg, err := config.Load(src)
	if err != nil {
		return nil, fmt.Errorf(MsgErrLoadConfig, err)
	}
	opts, err := cfg.Options()
	if err != nil {
		return nil, fmt.Errorf(MsgErrLoadConfig, err)
	}

	// The global level gates every zerolog logger, the reporter included.
	if opts.Verbose && zerolog.GlobalLevel() > zerolog.InfoLevel {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	reporter, runID := logging.WithRunID(logging.NewReporter(cmd.ErrOrStderr(), opts.Verbose, opts.Quiet))
	log.Debug().
		Str("run_id", runID).
		Str("root", p.Root()).
		Str("handling", opts.Handling.String()).
		Bool("dry_run", opts.DryRun).
		Msg("Run configured")

	fsys := filesystem.NewOS()
	policy, err := reconcile.NewPolicy(opts, fsys, host.NewSystem(), reporter)
	if err != nil {
		return nil, err
	}

	runner := &install.ExecRunner{}
	if !opts.Quiet {
		runner.Stdout = cmd.OutOrStdout()
		runner.Stderr = cmd.ErrOrStderr()
	}
	env := install.Env{
		Runner:  runner,
		Confirm: confirm.New(opts.Confirm, opts.Quiet),
	}

	col, err := category.Load(fsys, p.Root(), env)
	if err != nil {
		return nil, fmt.Errorf(MsgErrLoadRepo, err)
	}

	return &runtime{
		cfg:        cfg,
		paths:      p,
		policy:     policy,
		collection: col,
		runID:      runID,
		out:        cmd.OutOrStdout(),
		renderer:   renderer,
	}, nil
}

// initPaths resolves the repository root and warns when it fell back to the
// current directory.
func initPaths(cmd *cobra.Command, g *globalFlags) (paths.Paths, error) {
	p, err := paths.New(g.root)
	if err != nil {
		return nil, fmt.Errorf(MsgErrInitPaths, err)
	}
	if p.UsedFallback() && !g.quiet {
		fmt.Fprintf(cmd.ErrOrStderr(), MsgFallbackWarning+"\n", p.Root())
	}
	return p, nil
}

// finish prints the report and escalates failures when strict.
func (rt *runtime) finish(command string, rep category.Report) error {
	log.Info().
		Str("run_id", rt.runID).
		Str("command", command).
		Str("category", rep.Category).
		Int("processed", rep.Processed).
		Int("failed", len(rep.Failures)).
		Msg("Run finished")

	if !rt.cfg.Quiet {
		fmt.Fprintln(rt.out, rt.renderer.RenderReport(command, rep, rt.cfg.DryRun))
	}
	if rt.cfg.Strict {
		return rep.Err()
	}
	return nil
}
