package dotsetup

import (
	"fmt"

	"github.com/arthur-debert/dotsetup/internal/version"
	"github.com/arthur-debert/dotsetup/pkg/category"
	"github.com/arthur-debert/dotsetup/pkg/filesystem"
	"github.com/arthur-debert/dotsetup/pkg/install"
	"github.com/arthur-debert/dotsetup/pkg/logging"
	"github.com/arthur-debert/dotsetup/pkg/reconcile"
	"github.com/spf13/cobra"
)

// categoryNamesCompletion provides shell completion for category names
func categoryNamesCompletion(g *globalFlags) func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
	return func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		if len(args) > 0 {
			return nil, cobra.ShellCompDirectiveNoFileComp
		}
		quiet := *g
		quiet.quiet = true
		p, err := initPaths(cmd, &quiet)
		if err != nil {
			return nil, cobra.ShellCompDirectiveError
		}
		col, err := category.Load(filesystem.NewOS(), p.Root(), install.Env{})
		if err != nil {
			return nil, cobra.ShellCompDirectiveError
		}
		return append(col.Names(), category.AllName), cobra.ShellCompDirectiveNoFileComp
	}
}

type setupFlags struct {
	link          bool
	noLink        bool
	keep          bool
	backup        bool
	delete        bool
	suffix        string
	deleteBackups bool
	noConfirm     bool
	install       []string
}

func (f *setupFlags) overrides(cmd *cobra.Command) map[string]interface{} {
	out := map[string]interface{}{}
	flags := cmd.Flags()
	switch {
	case flags.Changed("no-link"):
		out["link"] = !f.noLink
	case flags.Changed("link"):
		out["link"] = f.link
	}
	switch {
	case f.keep:
		out["handling"] = reconcile.Keep.String()
	case f.backup:
		out["handling"] = reconcile.Backup.String()
	case f.delete:
		out["handling"] = reconcile.Delete.String()
	}
	if flags.Changed("suffix") {
		out["suffix"] = f.suffix
	}
	if flags.Changed("delete-backups") {
		out["delete_backups"] = f.deleteBackups
	}
	if flags.Changed("no-confirm") {
		out["confirm"] = !f.noConfirm
	}
	return out
}

func newSetupCmd(g *globalFlags) *cobra.Command {
	f := &setupFlags{}

	cmd := &cobra.Command{
		Use:               "setup <category|all>",
		Short:             MsgSetupShort,
		Long:              MsgSetupLong,
		Example:           MsgSetupExample,
		GroupID:           "core",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: categoryNamesCompletion(g),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := newRuntime(cmd, g, f.overrides(cmd))
			if err != nil {
				return err
			}
			c, err := rt.collection.Get(args[0])
			if err != nil {
				return err
			}
			c.Bind(rt.policy)
			return rt.finish("setup", c.SetUp(cmd.Context(), rt.policy, f.install))
		},
	}

	flags := cmd.Flags()
	flags.BoolVarP(&f.link, "link", "l", true, MsgFlagLink)
	flags.BoolVarP(&f.noLink, "no-link", "n", false, MsgFlagNoLink)
	flags.BoolVarP(&f.keep, "keep", "k", false, MsgFlagKeep)
	flags.BoolVarP(&f.backup, "backup", "b", false, MsgFlagBackup)
	flags.BoolVarP(&f.delete, "delete", "d", false, MsgFlagDelete)
	flags.StringVarP(&f.suffix, "suffix", "s", reconcile.DefaultSuffix, MsgFlagSuffix)
	flags.BoolVar(&f.deleteBackups, "delete-backups", false, MsgFlagDeleteBackups)
	flags.BoolVar(&f.noConfirm, "no-confirm", false, MsgFlagNoConfirm)
	flags.StringSliceVar(&f.install, "install", nil, MsgFlagInstall)
	cmd.MarkFlagsMutuallyExclusive("link", "no-link")
	cmd.MarkFlagsMutuallyExclusive("keep", "backup", "delete")

	return cmd
}

// opCommand describes a command that applies one policy operation.
type opCommand struct {
	use       string
	short     string
	op        reconcile.Op
	overrides map[string]interface{}
}

var (
	linkCommand = opCommand{
		use: "link", short: MsgLinkShort, op: reconcile.OpLink,
		overrides: map[string]interface{}{"link": true},
	}
	backupCommand = opCommand{
		use: "backup", short: MsgBackupShort, op: reconcile.OpBackup,
		overrides: map[string]interface{}{"handling": reconcile.Backup.String()},
	}
	deleteCommand = opCommand{
		use: "delete", short: MsgDeleteShort, op: reconcile.OpDelete,
		overrides: map[string]interface{}{"handling": reconcile.Delete.String()},
	}
	deleteBackupsCommand = opCommand{
		use: "delete-backups", short: MsgDeleteBackupsShort, op: reconcile.OpDeleteBackup,
		overrides: map[string]interface{}{"delete_backups": true},
	}
)

func newOpCmd(g *globalFlags, oc opCommand) *cobra.Command {
	var suffix string

	cmd := &cobra.Command{
		Use:               oc.use + " <category|all>",
		Short:             oc.short,
		GroupID:           "core",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: categoryNamesCompletion(g),
		RunE: func(cmd *cobra.Command, args []string) error {
			overrides := map[string]interface{}{}
			for k, v := range oc.overrides {
				overrides[k] = v
			}
			if cmd.Flags().Changed("suffix") {
				overrides["suffix"] = suffix
			}

			rt, err := newRuntime(cmd, g, overrides)
			if err != nil {
				return err
			}
			c, err := rt.collection.Get(args[0])
			if err != nil {
				return err
			}
			c.Bind(rt.policy)
			return rt.finish(oc.use, c.Run(rt.policy, oc.op))
		},
	}

	if oc.op == reconcile.OpBackup || oc.op == reconcile.OpDeleteBackup {
		cmd.Flags().StringVarP(&suffix, "suffix", "s", reconcile.DefaultSuffix, MsgFlagSuffix)
	}
	return cmd
}

func newInstallCmd(g *globalFlags) *cobra.Command {
	var noConfirm bool

	cmd := &cobra.Command{
		Use:               "install <category|all> <key...>",
		Short:             MsgInstallShort,
		Long:              MsgInstallLong,
		Example:           MsgInstallExample,
		GroupID:           "core",
		Args:              cobra.MinimumNArgs(2),
		ValidArgsFunction: categoryNamesCompletion(g),
		RunE: func(cmd *cobra.Command, args []string) error {
			overrides := map[string]interface{}{}
			if cmd.Flags().Changed("no-confirm") {
				overrides["confirm"] = !noConfirm
			}

			rt, err := newRuntime(cmd, g, overrides)
			if err != nil {
				return err
			}
			c, err := rt.collection.Get(args[0])
			if err != nil {
				return err
			}
			c.Bind(rt.policy)
			return rt.finish("install", c.Install(cmd.Context(), rt.policy, args[1:]))
		},
	}

	cmd.Flags().BoolVar(&noConfirm, "no-confirm", false, MsgFlagNoConfirm)
	return cmd
}

func newListCmd(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Short:   MsgListShort,
		Long:    MsgListLong,
		Example: MsgListExample,
		GroupID: "misc",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			renderer, err := g.renderer(cmd.OutOrStdout())
			if err != nil {
				return err
			}
			p, err := initPaths(cmd, g)
			if err != nil {
				return err
			}

			logger := logging.GetLogger("cmd.list")
			logger.Info().Str("root", p.Root()).Msg("Listing categories")

			col, err := category.Load(filesystem.NewOS(), p.Root(), install.Env{})
			if err != nil {
				return fmt.Errorf(MsgErrLoadRepo, err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), renderer.RenderCategories(col.Categories()))
			return nil
		},
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "version",
		Short:   MsgVersionShort,
		GroupID: "misc",
		Args:    cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), MsgVersionFormat, version.Version, version.Commit, version.Date)
		},
	}
}

func newCompletionCmd() *cobra.Command {
	return &cobra.Command{
		Use:                   "completion [bash|zsh|fish|powershell]",
		Short:                 MsgCompletionShort,
		Long:                  MsgCompletionLong,
		GroupID:               "misc",
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			return GenCompletion(cmd.Root(), args[0], cmd.OutOrStdout())
		},
	}
}
