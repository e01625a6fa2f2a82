package dotsetup

import (
	"fmt"
	"io"

	"github.com/arthur-debert/dotsetup/internal/version"
	"github.com/arthur-debert/dotsetup/pkg/errors"
	"github.com/arthur-debert/dotsetup/pkg/logging"
	"github.com/arthur-debert/dotsetup/pkg/style"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// globalFlags holds the persistent flags shared by every command.
type globalFlags struct {
	verbosity int
	quiet     bool
	dryRun    bool
	root      string
	strict    bool
	format    string
}

// NewRootCmd creates and returns the root command
func NewRootCmd() *cobra.Command {
	// Initialize custom template formatting functions
	initTemplateFormatting()

	g := &globalFlags{}

	rootCmd := &cobra.Command{
		Use:     "dotsetup",
		Short:   MsgRootShort,
		Long:    MsgRootLong,
		Version: version.Version,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.SetupLogger(g.verbosity)
			log.Debug().Str("command", cmd.Name()).Msg("Command started")
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			// No subcommand: show help but still fail
			_ = cmd.Help()
			return fmt.Errorf(MsgErrNoCommand)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		DisableAutoGenTag: true,
	}

	// Global flags
	rootCmd.PersistentFlags().CountVarP(&g.verbosity, "verbose", "v", MsgFlagVerbose)
	rootCmd.PersistentFlags().BoolVarP(&g.quiet, "quiet", "q", false, MsgFlagQuiet)
	rootCmd.PersistentFlags().BoolVar(&g.dryRun, "dry-run", false, MsgFlagDryRun)
	rootCmd.PersistentFlags().StringVar(&g.root, "root", "", MsgFlagRoot)
	rootCmd.PersistentFlags().BoolVar(&g.strict, "strict", false, MsgFlagStrict)
	rootCmd.PersistentFlags().StringVar(&g.format, "format", "auto", MsgFlagFormat)

	rootCmd.AddGroup(&cobra.Group{ID: "core", Title: MsgGroupCore})
	rootCmd.AddGroup(&cobra.Group{ID: "misc", Title: MsgGroupMisc})
	rootCmd.SetHelpCommandGroupID("misc")

	rootCmd.SetUsageTemplate(MsgUsageTemplate)

	// Add all commands
	rootCmd.AddCommand(newSetupCmd(g))
	rootCmd.AddCommand(newOpCmd(g, linkCommand))
	rootCmd.AddCommand(newOpCmd(g, backupCommand))
	rootCmd.AddCommand(newOpCmd(g, deleteCommand))
	rootCmd.AddCommand(newOpCmd(g, deleteBackupsCommand))
	rootCmd.AddCommand(newInstallCmd(g))
	rootCmd.AddCommand(newListCmd(g))
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newCompletionCmd())

	return rootCmd
}

// overrides returns the configuration keys set by global flags the user
// actually passed.
func (g *globalFlags) overrides(cmd *cobra.Command) map[string]interface{} {
	out := map[string]interface{}{}
	flags := cmd.Flags()
	if flags.Changed("verbose") {
		out["verbose"] = g.verbosity > 0
	}
	if flags.Changed("quiet") {
		out["quiet"] = g.quiet
	}
	if flags.Changed("dry-run") {
		out["dry_run"] = g.dryRun
	}
	if flags.Changed("strict") {
		out["strict"] = g.strict
	}
	return out
}

// renderer builds the output renderer for the --format flag.
func (g *globalFlags) renderer(out io.Writer) (*style.Renderer, error) {
	format, err := style.ParseFormat(g.format)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrInvalidInput, "invalid --format").
			WithDetail("format", g.format)
	}
	return style.New(format, out), nil
}
