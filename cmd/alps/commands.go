package alps

import (
	"fmt"
	"strings"

	"github.com/arthur-debert/alps/internal/version"
	"github.com/arthur-debert/alps/pkg/core"
	"github.com/arthur-debert/alps/pkg/output"
	"github.com/arthur-debert/alps/pkg/types"
	"github.com/charmbracelet/huh"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/cobra/doc"
)

// kindCmd describes one kind subcommand of an operation.
type kindCmd struct {
	kind    types.Kind
	aliases []string
	short   string
}

var (
	groupKind   = kindCmd{types.KindGroup, []string{"g", "groups"}, MsgKindGroupShort}
	packageKind = kindCmd{types.KindPackage, []string{"p", "packages"}, MsgKindPackageShort}
	configKind  = kindCmd{types.KindConfig, []string{"c", "f", "configs"}, MsgKindConfigShort}
	scriptKind  = kindCmd{types.KindScript, []string{"s", "scripts"}, MsgKindScriptShort}

	allKinds = []kindCmd{groupKind, packageKind, configKind, scriptKind}
)

// opFunc runs an operation for one kind
type opFunc func(cmd *cobra.Command, app *core.App, kind types.Kind, args []string) error

// newOpCmd builds an operation command with one subcommand per kind.
// usage maps a kind to the argument part of its use line.
func (c *cli) newOpCmd(use, alias, short string, kinds []kindCmd, usage func(types.Kind) string, run opFunc) *cobra.Command {
	cmd := &cobra.Command{
		Use:     use + " <kind>",
		Aliases: []string{alias},
		Short:   short,
		GroupID: "core",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
	for _, k := range kinds {
		cmd.AddCommand(&cobra.Command{
			Use:     string(k.kind) + " " + usage(k.kind),
			Aliases: k.aliases,
			Short:   k.short,
			Args:    cobra.ArbitraryArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				app, err := c.load()
				if err != nil {
					return err
				}
				return run(cmd, app, k.kind, args)
			},
		})
	}
	return cmd
}

func entriesUsage(kind types.Kind) string {
	if kind == types.KindGroup {
		return "<names...>"
	}
	return "<group> <" + kind.Plural() + "...>"
}

func (c *cli) newInstallCmd() *cobra.Command {
	cmd := c.newOpCmd("install", "I", MsgInstallShort, allKinds, entriesUsage,
		func(cmd *cobra.Command, app *core.App, kind types.Kind, args []string) error {
			_, err := app.Install(cmd.Context(), kind, args)
			return err
		})
	cmd.Example = MsgInstallExample
	return cmd
}

func (c *cli) newRemoveCmd() *cobra.Command {
	cmd := c.newOpCmd("remove", "R", MsgRemoveShort, allKinds, entriesUsage,
		func(cmd *cobra.Command, app *core.App, kind types.Kind, args []string) error {
			if kind == types.KindGroup && !c.yes && c.confirm != nil {
				if groups := app.ValidGroups(args); len(groups) > 0 {
					ok, err := c.confirm(fmt.Sprintf(MsgConfirmRemove, strings.Join(groups, ", ")))
					if err != nil {
						return fmt.Errorf(MsgErrPrompt, err)
					}
					if !ok {
						app.Reporter.Report(output.Warning, MsgAborted)
						return nil
					}
				}
			}
			_, err := app.Remove(cmd.Context(), kind, args)
			return err
		})
	cmd.Example = MsgRemoveExample
	return cmd
}

func (c *cli) newSyncCmd() *cobra.Command {
	cmd := c.newOpCmd("sync", "S", MsgSyncShort, allKinds,
		func(types.Kind) string { return "<group>" },
		func(cmd *cobra.Command, app *core.App, kind types.Kind, args []string) error {
			return app.Sync(cmd.Context(), kind, args)
		})
	cmd.Long = MsgSyncLong
	return cmd
}

func (c *cli) newQueryCmd() *cobra.Command {
	cmd := c.newOpCmd("query", "Q", MsgQueryShort, allKinds,
		func(kind types.Kind) string {
			if kind == types.KindGroup {
				return "[names...]"
			}
			return "<group> [" + kind.Plural() + "...]"
		},
		func(cmd *cobra.Command, app *core.App, kind types.Kind, args []string) error {
			return app.Query(kind, args)
		})
	cmd.Long = MsgQueryLong
	return cmd
}

func (c *cli) newEditCmd() *cobra.Command {
	return c.newOpCmd("edit", "E", MsgEditShort, []kindCmd{groupKind, configKind, scriptKind}, entriesUsage,
		func(cmd *cobra.Command, app *core.App, kind types.Kind, args []string) error {
			return app.Edit(cmd.Context(), kind, args)
		})
}

func (c *cli) newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "config",
		Short:   MsgConfigShort,
		GroupID: "misc",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			data, err := cfg.TOML()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(cfg.Sources) == 0 {
				_, _ = fmt.Fprintln(out, MsgNoConfigFile)
			} else {
				_, _ = fmt.Fprintf(out, MsgConfigSources, strings.Join(cfg.Sources, ", "))
			}
			_, err = out.Write(data)
			return err
		},
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "version",
		Short:   MsgVersionShort,
		GroupID: "misc",
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(out, "alps version %s\n", version.Version)
			_, _ = fmt.Fprintf(out, "  commit: %s\n", version.Commit)
			_, _ = fmt.Fprintf(out, "  built:  %s\n", version.Date)
		},
	}
}

func newCompletionCmd() *cobra.Command {
	return &cobra.Command{
		Use:                   "completion [bash|zsh|fish|powershell]",
		Short:                 MsgCompletionShort,
		GroupID:               "misc",
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletionV2(cmd.OutOrStdout(), true)
			case "zsh":
				return cmd.Root().GenZshCompletion(cmd.OutOrStdout())
			case "fish":
				return cmd.Root().GenFishCompletion(cmd.OutOrStdout(), true)
			default:
				return cmd.Root().GenPowerShellCompletionWithDesc(cmd.OutOrStdout())
			}
		},
	}
}

func newManCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "man",
		Short:   MsgManShort,
		GroupID: "misc",
		Hidden:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			header := &doc.GenManHeader{
				Title:   "ALPS",
				Section: "1",
				Source:  "alps " + version.Version,
				Manual:  "alps manual",
			}
			return doc.GenMan(cmd.Root(), header, cmd.OutOrStdout())
		},
	}
}

// promptConfirm asks a yes/no question on the terminal.
func promptConfirm(title string) (bool, error) {
	var ok bool
	err := huh.NewConfirm().
		Title(title).
		Affirmative("Yes").
		Negative("No").
		Value(&ok).
		Run()
	if err != nil {
		log.Debug().Err(err).Msg("Confirmation prompt failed")
		return false, err
	}
	return ok, nil
}
