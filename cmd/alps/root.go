package alps

import (
	"fmt"
	"io"
	"os"

	"github.com/arthur-debert/alps/internal/version"
	"github.com/arthur-debert/alps/pkg/config"
	"github.com/arthur-debert/alps/pkg/core"
	"github.com/arthur-debert/alps/pkg/errors"
	"github.com/arthur-debert/alps/pkg/logging"
	"github.com/arthur-debert/alps/pkg/output"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// cli carries the global flags and the lazily built application.
type cli struct {
	verbosity  int
	root       string
	configFile string
	noColor    bool
	yes        bool

	// base holds injected dependencies; Config is filled in by load
	base core.Options
	// confirm asks the user a yes/no question. nil means "never ask".
	confirm func(title string) (bool, error)

	cfg *config.Config
	app *core.App
}

// NewRootCmd creates and returns the root command
func NewRootCmd() *cobra.Command {
	c := &cli{}
	if isTerminal(os.Stdin) {
		c.confirm = promptConfirm
	}
	return newRootCmd(c)
}

func newRootCmd(c *cli) *cobra.Command {
	initTemplateFormatting()

	rootCmd := &cobra.Command{
		Use:     "alps",
		Short:   MsgRootShort,
		Long:    MsgRootLong,
		Version: version.Version,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.Setup(logging.Options{Verbosity: c.verbosity, NoColor: c.noColor})
			if c.noColor {
				styledHelp = false
			}
			log.Debug().Str("command", cmd.CommandPath()).Strs("args", args).Msg("Command started")
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			_ = cmd.Help()
			return errors.New(errors.ErrInvalidFlag, "Expected operation!")
		},
		SilenceUsage:      true,
		SilenceErrors:     true,
		DisableAutoGenTag: true,
	}

	rootCmd.PersistentFlags().CountVarP(&c.verbosity, "verbose", "v", MsgFlagVerbose)
	rootCmd.PersistentFlags().StringVar(&c.root, "root", "", MsgFlagRoot)
	rootCmd.PersistentFlags().StringVar(&c.configFile, "config", "", MsgFlagConfig)
	rootCmd.PersistentFlags().BoolVar(&c.noColor, "no-color", false, MsgFlagNoColor)
	rootCmd.PersistentFlags().BoolVarP(&c.yes, "yes", "y", false, MsgFlagYes)

	rootCmd.AddGroup(&cobra.Group{ID: "core", Title: "COMMANDS:"})
	rootCmd.AddGroup(&cobra.Group{ID: "misc", Title: "MISC:"})
	rootCmd.SetUsageTemplate(MsgUsageTemplate)

	rootCmd.AddCommand(c.newInstallCmd())
	rootCmd.AddCommand(c.newRemoveCmd())
	rootCmd.AddCommand(c.newSyncCmd())
	rootCmd.AddCommand(c.newQueryCmd())
	rootCmd.AddCommand(c.newEditCmd())
	rootCmd.AddCommand(c.newConfigCmd())
	rootCmd.AddCommand(newGuideCmd())
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newCompletionCmd())
	rootCmd.AddCommand(newManCmd())

	return rootCmd
}

// loadConfig reads the configuration once per process.
func (c *cli) loadConfig() (*config.Config, error) {
	if c.cfg != nil {
		return c.cfg, nil
	}
	overrides := map[string]interface{}{}
	if c.root != "" {
		overrides["root"] = c.root
	}
	cfg, err := config.Load(config.LoadOptions{ConfigFile: c.configFile, Overrides: overrides})
	if err != nil {
		return nil, fmt.Errorf(MsgErrLoadConfig, err)
	}
	c.cfg = cfg
	return cfg, nil
}

// load builds the application on first use.
func (c *cli) load() (*core.App, error) {
	if c.app != nil {
		return c.app, nil
	}
	cfg, err := c.loadConfig()
	if err != nil {
		return nil, err
	}
	opts := c.base
	opts.Config = cfg
	opts.NoColor = opts.NoColor || c.noColor
	app, err := core.New(opts)
	if err != nil {
		return nil, err
	}
	c.app = app
	return app, nil
}

// PrintError shows err the way alps reports fatal problems. Errors already
// reported inline (query misses) are skipped.
func PrintError(w io.Writer, err error, noColor bool) {
	if err == nil || errors.Silent(err) {
		return
	}
	log.Debug().Err(err).Msg("Command failed")
	console := output.NewConsole(w, w, output.DetectColor(os.Stderr, noColor))
	console.Report(output.Fatal, "%s", errors.Message(err))
}
