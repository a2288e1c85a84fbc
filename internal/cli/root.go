package cli

import (
	"io"
	"log/slog"
	"os"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"github.com/spf13/cobra"

	"github.com/ytget/voicepack/internal/codec"
	"github.com/ytget/voicepack/internal/config"
	"github.com/ytget/voicepack/internal/platform"
)

// Env carries the process collaborators of the shell
type Env struct {
	In      io.Reader
	Out     io.Writer
	Err     io.Writer
	App     fyne.App
	Version string

	// Locator overrides the tool locator built from the running executable
	Locator *platform.Locator
}

// shell holds global flags and the services built from them
type shell struct {
	env Env

	// Global flags
	verbose bool
	yes     bool
	output  string

	format   OutputFormat
	logger   *slog.Logger
	settings *config.Settings
	loc      *Localization
	locator  *platform.Locator
	bridge   *codec.Bridge
	prompt   interactor
}

// Execute builds the shell for the current process and runs it
func Execute(version string) error {
	a := app.NewWithID(config.AppID)
	root := NewRootCommand(Env{
		In:      os.Stdin,
		Out:     os.Stdout,
		Err:     os.Stderr,
		App:     a,
		Version: version,
	})
	return root.Execute()
}

// NewRootCommand returns the voicepack command tree
func NewRootCommand(env Env) *cobra.Command {
	sh := &shell{env: env}

	root := &cobra.Command{
		Use:   "voicepack",
		Short: "Manage SILK voice packs",
		Long: `voicepack - manage a named collection of SILK speech clips stored in a
single plist container.

Media files are converted with ffmpeg and the SILK encoder one at a time;
every file is named interactively before it is encoded. Entries can be
renamed, deleted, previewed and exported back to mp3, wav or raw silk.

Tools are resolved from the configured paths, the directories next to the
executable, the usual install locations and finally PATH.

Examples:
  # Add two recordings to a pack, naming each one
  voicepack add voices.plist hello.m4a bye.mp3

  # List entries as YAML
  voicepack list voices.plist -o yaml

  # Export every entry as wav
  voicepack export voices.plist --dir ./out --format wav`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return sh.init(cmd)
		},
	}

	root.PersistentFlags().BoolVarP(&sh.verbose, "verbose", "v", false, "verbose output")
	root.PersistentFlags().BoolVarP(&sh.yes, "yes", "y", false, "accept proposed names, overwrites and saves without asking")
	root.PersistentFlags().StringVarP(&sh.output, "output", "o", string(FormatTable), "output format: table, yaml or json")

	root.AddCommand(
		sh.listCmd(),
		sh.addCmd(),
		sh.renameCmd(),
		sh.deleteCmd(),
		sh.exportCmd(),
		sh.playCmd(),
		sh.saveAsCmd(),
		sh.newCmd(),
		sh.configCmd(),
		sh.versionCmd(),
	)

	if env.In != nil {
		root.SetIn(env.In)
	}
	if env.Out != nil {
		root.SetOut(env.Out)
	}
	if env.Err != nil {
		root.SetErr(env.Err)
	}
	return root
}

// init builds the services once flags are parsed
func (sh *shell) init(cmd *cobra.Command) error {
	format, err := ParseOutputFormat(sh.output)
	if err != nil {
		return err
	}
	sh.format = format

	level := slog.LevelInfo
	if sh.verbose {
		level = slog.LevelDebug
	}
	sh.logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))

	sh.settings = config.NewSettings(sh.env.App)
	sh.loc = NewLocalization()
	sh.loc.SetLanguage(sh.settings.GetLanguage())

	sh.locator = sh.env.Locator
	if sh.locator == nil {
		sh.locator = platform.NewLocator(platform.WithLogger(sh.logger))
	}
	sh.settings.ApplyTo(sh.locator)
	sh.bridge = codec.NewBridge(sh.locator, codec.WithLogger(sh.logger))

	line := newLinePrompter(cmd.InOrStdin(), cmd.OutOrStdout(), sh.loc)
	if sh.yes {
		sh.prompt = autoPrompter{line}
	} else {
		sh.prompt = line
	}
	return nil
}
