package dotsetup

import (
	_ "embed"
	"strings"
)

// Short messages (one-liners)
const (
	// Command descriptions
	MsgRootShort          = "Link and install the categories of a dotfiles repository"
	MsgSetupShort         = "Back up, delete and link a category, then run install actions"
	MsgLinkShort          = "Create the missing links of a category"
	MsgBackupShort        = "Move existing destinations of a category to their backup paths"
	MsgDeleteShort        = "Delete existing destinations of a category"
	MsgDeleteBackupsShort = "Delete the backups of a category"
	MsgInstallShort       = "Run install actions of a category"
	MsgListShort          = "List the categories of the repository"
	MsgListLong           = "List shows every category found in the repository with its mappings and install actions."
	MsgVersionShort       = "Print version information"
	MsgCompletionShort    = "Generate shell completion script"

	// Group titles
	MsgGroupCore = "COMMANDS:"
	MsgGroupMisc = "MISC:"

	// Status messages
	MsgVersionFormat = "dotsetup version %s\n  commit: %s\n  built:  %s\n"

	// Error messages
	MsgErrInitPaths    = "failed to initialize paths: %w"
	MsgErrLoadConfig   = "failed to load configuration: %w"
	MsgErrLoadRepo     = "failed to load categories: %w"
	MsgErrNoCommand    = "no command specified"
	MsgErrUnknownShell = "unknown shell %q"

	// Global flag descriptions
	MsgFlagVerbose = "Increase verbosity (-v shows every change, -vv DEBUG, -vvv TRACE)"
	MsgFlagQuiet   = "Print nothing but the final error"
	MsgFlagDryRun  = "Preview changes without executing them"
	MsgFlagRoot    = "Repository root (default: $DOTSETUP_ROOT, the git root or the current directory)"
	MsgFlagStrict  = "Exit with an error when any mapping or action failed"
	MsgFlagFormat  = "Output format: auto, term, text or json"

	// Setup flag descriptions
	MsgFlagLink          = "Create links (default)"
	MsgFlagNoLink        = "Do not create links"
	MsgFlagKeep          = "Leave existing destinations alone (default)"
	MsgFlagBackup        = "Move existing destinations to a backup path"
	MsgFlagDelete        = "Delete existing destinations"
	MsgFlagSuffix        = "Suffix appended to backup paths"
	MsgFlagDeleteBackups = "Delete old backups first"
	MsgFlagNoConfirm     = "Do not ask for confirmation, assume the default answer"
	MsgFlagInstall       = "Install actions to run after linking (repeatable, \"all\" for every action)"
)

// Long messages from embedded files
var (
	//go:embed msgs/root-long.txt
	msgRootLongRaw string
	MsgRootLong    = strings.TrimSpace(msgRootLongRaw)

	//go:embed msgs/setup-long.txt
	msgSetupLongRaw string
	MsgSetupLong    = strings.TrimSpace(msgSetupLongRaw)

	//go:embed msgs/setup-example.txt
	msgSetupExampleRaw string
	MsgSetupExample    = strings.TrimRight(msgSetupExampleRaw, "\n")

	//go:embed msgs/install-long.txt
	msgInstallLongRaw string
	MsgInstallLong    = strings.TrimSpace(msgInstallLongRaw)

	//go:embed msgs/install-example.txt
	msgInstallExampleRaw string
	MsgInstallExample    = strings.TrimRight(msgInstallExampleRaw, "\n")

	//go:embed msgs/list-example.txt
	msgListExampleRaw string
	MsgListExample    = strings.TrimRight(msgListExampleRaw, "\n")

	//go:embed msgs/fallback-warning.txt
	msgFallbackWarningRaw string
	MsgFallbackWarning    = strings.TrimSpace(msgFallbackWarningRaw)

	//go:embed msgs/usage-template.txt
	msgUsageTemplateRaw string
	MsgUsageTemplate    = strings.TrimSpace(msgUsageTemplateRaw) + "\n"

	//go:embed msgs/completion-long.txt
	msgCompletionLongRaw string
	MsgCompletionLong    = strings.TrimSpace(msgCompletionLongRaw)
)
