package alps

import (
	_ "embed"
	"strings"
)

// Short messages (one-liners)
const (
	// Command descriptions
	MsgRootShort       = "A profile manager for packages, configs and scripts"
	MsgInstallShort    = "Declare groups or add entries to a group"
	MsgRemoveShort     = "Remove groups or entries from a group"
	MsgSyncShort       = "Bring the machine in line with a group"
	MsgQueryShort      = "List or look up groups and entries"
	MsgEditShort       = "Open a group record or mirrored file in $EDITOR"
	MsgConfigShort     = "Print the effective configuration"
	MsgVersionShort    = "Print version information"
	MsgCompletionShort = "Generate shell completion script"
	MsgManShort        = "Generate man page"
	MsgGuideShort      = "Explain the group layout, records and sync"

	MsgKindGroupShort   = "Operate on groups"
	MsgKindPackageShort = "Operate on the packages of a group"
	MsgKindConfigShort  = "Operate on the configs of a group"
	MsgKindScriptShort  = "Operate on the scripts of a group"

	// Prompts and notices
	MsgConfirmRemove = "Remove %s with their records and mirrored files?"
	MsgAborted       = "Aborted!"
	MsgConfigSources = "# loaded from: %s\n"
	MsgNoConfigFile  = "# no config file, using defaults"

	// Error messages
	MsgErrLoadConfig = "failed to load configuration: %w"
	MsgErrPrompt     = "failed to read confirmation: %w"

	// Flag descriptions
	MsgFlagVerbose = "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)"
	MsgFlagRoot    = "Directory holding the groups (default $XDG_CONFIG_HOME/alps)"
	MsgFlagConfig  = "Config file (default $XDG_CONFIG_HOME/alps/config.toml)"
	MsgFlagNoColor = "Disable colored output"
	MsgFlagYes     = "Do not ask before removing groups"
	MsgFlagWidth   = "Wrap the guide at this many columns (0 disables wrapping)"
)

// Long messages from embedded files
var (
	//go:embed msgs/root-long.txt
	msgRootLongRaw string
	MsgRootLong    = strings.TrimSpace(msgRootLongRaw)

	//go:embed msgs/install-example.txt
	msgInstallExampleRaw string
	MsgInstallExample    = strings.TrimRight(msgInstallExampleRaw, "\n")

	//go:embed msgs/remove-example.txt
	msgRemoveExampleRaw string
	MsgRemoveExample    = strings.TrimRight(msgRemoveExampleRaw, "\n")

	//go:embed msgs/sync-long.txt
	msgSyncLongRaw string
	MsgSyncLong    = strings.TrimSpace(msgSyncLongRaw)

	//go:embed msgs/query-long.txt
	msgQueryLongRaw string
	MsgQueryLong    = strings.TrimSpace(msgQueryLongRaw)

	//go:embed msgs/guide.md
	MsgGuide string

	//go:embed msgs/usage-template.txt
	msgUsageTemplateRaw string
	MsgUsageTemplate    = strings.TrimSpace(msgUsageTemplateRaw)
)
