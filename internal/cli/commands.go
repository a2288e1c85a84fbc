package cli

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/ytget/voicepack/internal/export"
	"github.com/ytget/voicepack/internal/format"
	"github.com/ytget/voicepack/internal/model"
	"github.com/ytget/voicepack/internal/platform"
	"github.com/ytget/voicepack/internal/preview"
	"github.com/ytget/voicepack/internal/queue"
	"github.com/ytget/voicepack/internal/workspace"
)

func (sh *shell) listCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list <container>",
		Short: "List the entries of a container",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := sh.openWorkspace(args[0])
			if err != nil {
				return err
			}

			infos := ws.Store().List()
			seen := make(map[string]int, len(infos))
			for _, info := range infos {
				seen[info.Fingerprint]++
			}

			result := entryTable{Container: ws.Path(), Entries: make([]entryView, 0, len(infos))}
			for _, info := range infos {
				result.Entries = append(result.Entries, entryView{
					Name:        info.Name,
					Kind:        info.Kind,
					Size:        info.Size,
					Fingerprint: info.Fingerprint,
					Duplicate:   seen[info.Fingerprint] > 1,
				})
			}

			if len(result.Entries) == 0 && sh.format == FormatTable {
				fmt.Fprintln(cmd.OutOrStdout(), sh.loc.GetText(KeyEmptyContainer))
				return nil
			}
			return Output(cmd.OutOrStdout(), sh.format, result)
		},
	}
}

func (sh *shell) addCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add <container> <media>...",
		Short: "Convert media files into new entries",
		Long: `Convert media files into SILK entries, one file at a time.

Each file is named before it is encoded. Press Enter to accept the proposed
name or answer "-" to skip the file. Existing names ask before they are
overwritten. Interrupting the batch skips the files that have not started.`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := sh.openWorkspace(args[0])
			if err != nil {
				return err
			}

			var paths []string
			for _, path := range args[1:] {
				if !format.IsSupportedSource(path) {
					fmt.Fprintln(cmd.ErrOrStderr(), sh.loc.Sprintf(KeyUnsupportedFile, path))
					continue
				}
				paths = append(paths, path)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()
			go func() {
				// a second interrupt terminates the process
				<-ctx.Done()
				stop()
			}()

			q := queue.New(sh.bridge, ws.Store(), sh.prompt, queue.WithLogger(sh.logger))
			q.SetUpdateCallback(func(job model.ConversionJob) {
				if job.Status == model.JobStatusFailed {
					fmt.Fprintln(cmd.ErrOrStderr(), sh.loc.Sprintf(KeyJobFailed, job.GetDisplayName(), job.Err))
				}
			})
			summary := q.Run(ctx, paths)

			if len(summary.Jobs) > 0 {
				if err := Output(cmd.OutOrStdout(), sh.format, newJobTable(summary)); err != nil {
					return err
				}
			}
			fmt.Fprintln(cmd.ErrOrStderr(), sh.loc.Sprintf(KeyBatchComplete,
				summary.Succeeded, summary.Total, summary.Failed, summary.Skipped))

			return sh.closeWorkspace(cmd, ws)
		},
	}
}

func (sh *shell) renameCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rename <container> <old> <new>",
		Short: "Rename an entry",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := sh.openWorkspace(args[0])
			if err != nil {
				return err
			}
			if err := ws.Store().Rename(args[1], args[2]); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), sh.loc.Sprintf(KeyRenamed, args[1], args[2]))
			return sh.closeWorkspace(cmd, ws)
		},
	}
}

func (sh *shell) deleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "delete <container> <name>...",
		Aliases: []string{"rm"},
		Short:   "Delete entries; nothing is deleted if any name is missing",
		Args:    cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := sh.openWorkspace(args[0])
			if err != nil {
				return err
			}
			if err := ws.Store().Delete(args[1:]...); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), sh.loc.Sprintf(KeyDeleted, len(args)-1))
			return sh.closeWorkspace(cmd, ws)
		},
	}
}

func (sh *shell) exportCmd() *cobra.Command {
	var dir, target string

	cmd := &cobra.Command{
		Use:   "export <container> [<name> <file>]",
		Short: "Export one entry to a file or every entry to a directory",
		Long: `Export entries out of a container.

With a name and a file, the entry is written in the format implied by the
file extension (.silk is written verbatim). With only the container, every
entry is exported into --dir as --format; both default to the configured
export directory and format.

Examples:
  voicepack export voices.plist hello ./hello.mp3
  voicepack export voices.plist --dir ./out --format wav`,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 && len(args) != 3 {
				return fmt.Errorf("accepts 1 or 3 arg(s), received %d", len(args))
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := sh.openWorkspace(args[0])
			if err != nil {
				return err
			}
			exporter := export.New(ws.Store(), sh.bridge, export.WithLogger(sh.logger))

			if len(args) == 3 {
				result := exporter.Entry(cmd.Context(), args[1], args[2])
				if result.Err != nil {
					return result.Err
				}
				fmt.Fprintln(cmd.OutOrStdout(), sh.loc.Sprintf(KeyExported, args[1], result.Path))
				return nil
			}

			if dir == "" {
				dir = sh.settings.GetExportDirectory()
			}
			exportFormat := sh.settings.GetExportFormat()
			if target != "" {
				if exportFormat, err = format.ParseExportFormat(target); err != nil {
					return err
				}
			}

			report, err := exporter.All(cmd.Context(), dir, exportFormat)
			if err != nil {
				return err
			}
			for _, r := range report.Results {
				if r.Err != nil {
					fmt.Fprintln(cmd.ErrOrStderr(), sh.loc.Sprintf(KeyExportFailed, r.Name, r.Err))
				}
			}
			if err := Output(cmd.OutOrStdout(), sh.format, newExportTable(report)); err != nil {
				return err
			}
			fmt.Fprintln(cmd.ErrOrStderr(), sh.loc.Sprintf(KeyExportComplete, report.Succeeded(), len(report.Results), dir))

			if report.Failed() > 0 {
				return fmt.Errorf("%d of %d entries failed to export", report.Failed(), len(report.Results))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&dir, "dir", "d", "", "export directory (default: configured export directory)")
	cmd.Flags().StringVarP(&target, "format", "f", "", "export format: mp3, wav, silk or any ffmpeg extension")
	return cmd
}

func (sh *shell) playCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "play <container> <name>",
		Short: "Preview an entry with the default audio player",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := sh.openWorkspace(args[0])
			if err != nil {
				return err
			}
			previewer := preview.New(ws.Store(), sh.bridge, preview.WithLogger(sh.logger))
			return previewer.Play(cmd.Context(), args[1], func() {
				sh.prompt.WaitForStop(args[1])
			})
		},
	}
}

func (sh *shell) saveAsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "save-as <container> <file>",
		Short: "Write a container to a new file",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := sh.openWorkspace(args[0])
			if err != nil {
				return err
			}
			if err := ws.SaveAs(args[1]); err != nil {
				return err
			}
			sh.settings.SetLastContainer(ws.Path())
			fmt.Fprintln(cmd.OutOrStdout(), sh.loc.Sprintf(KeySaved, ws.Path()))
			return nil
		},
	}
}

func (sh *shell) newCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "new <file>",
		Short: "Create an empty container",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := workspace.ContainerPath(args[0])
			if _, err := os.Stat(path); err == nil {
				return fmt.Errorf("container already exists: %s", path)
			}
			ws := workspace.New()
			ws.SetLogger(sh.logger)
			if err := ws.SaveAs(path); err != nil {
				return err
			}
			sh.settings.SetLastContainer(ws.Path())
			fmt.Fprintln(cmd.OutOrStdout(), sh.loc.Sprintf(KeyCreated, ws.Path()))
			return nil
		},
	}
}

func (sh *shell) configCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show and change settings",
		Long: `Show and change settings.

Keys:
  ffmpeg_path         explicit ffmpeg executable
  silk_decoder_path   explicit SILK decoder executable
  silk_encoder_path   explicit SILK encoder executable
  export_format       default bulk export format (mp3)
  export_directory    default bulk export directory
  last_container      most recently used container
  language            system, en or zh`,
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List all settings",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return Output(cmd.OutOrStdout(), sh.format, settingsTable(sh.settings.All()))
			},
		},
		&cobra.Command{
			Use:   "get <key>",
			Short: "Print one setting",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				value, err := sh.settings.Get(args[0])
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), value)
				return nil
			},
		},
		&cobra.Command{
			Use:   "set <key> <value>",
			Short: "Change one setting",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				return sh.settings.Set(args[0], args[1])
			},
		},
		&cobra.Command{
			Use:   "tools",
			Short: "Show the resolved external tools",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				tools := settingsTable{}
				for _, tool := range []string{platform.ToolFFmpeg, platform.ToolSilkDecoder, platform.ToolSilkEncoder} {
					tools[tool] = sh.locator.Resolve(tool)
				}
				return Output(cmd.OutOrStdout(), sh.format, tools)
			},
		},
	)
	return cmd
}

func (sh *shell) versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintf(cmd.OutOrStdout(), "voicepack %s\n", sh.env.Version)
			return nil
		},
	}
}

// openWorkspace opens path and remembers it as the last container
func (sh *shell) openWorkspace(path string) (*workspace.Workspace, error) {
	if path == "" {
		path = sh.settings.GetLastContainer()
	}
	if ext := filepath.Ext(path); ext != "" && !format.IsContainer(path) {
		return nil, fmt.Errorf("not a %s container: %s", format.ContainerExtension, path)
	}

	ws, err := workspace.Open(path)
	if err != nil {
		return nil, err
	}
	ws.SetLogger(sh.logger)
	sh.settings.SetLastContainer(path)
	sh.logger.Debug("container opened", "path", path, "entries", ws.Store().Len())
	return ws, nil
}

// closeWorkspace resolves unsaved changes before the process exits
func (sh *shell) closeWorkspace(cmd *cobra.Command, ws *workspace.Workspace) error {
	if !ws.Modified() {
		return nil
	}

	closed, err := ws.Close(func() workspace.Decision {
		return sh.prompt.DecideSave(ws.Title())
	})
	if err != nil {
		return err
	}
	if closed && !ws.Modified() {
		fmt.Fprintln(cmd.OutOrStdout(), sh.loc.Sprintf(KeySaved, ws.Path()))
		return nil
	}
	fmt.Fprintln(cmd.ErrOrStderr(), sh.loc.GetText(KeyNotSaved))
	return nil
}

func newJobTable(summary model.BatchSummary) jobTable {
	t := jobTable{
		Total:     summary.Total,
		Succeeded: summary.Succeeded,
		Failed:    summary.Failed,
		Skipped:   summary.Skipped,
		Jobs:      make([]jobView, 0, len(summary.Jobs)),
	}
	for _, job := range summary.Jobs {
		view := jobView{
			ID:     job.ID,
			Source: job.SourcePath,
			Name:   job.Name,
			Status: job.Status.String(),
			Error:  job.LastError,
		}
		if elapsed := job.Elapsed(); elapsed > 0 {
			view.Elapsed = elapsed.Round(time.Millisecond).String()
		}
		t.Jobs = append(t.Jobs, view)
	}
	return t
}

func newExportTable(report export.Report) exportTable {
	t := exportTable{
		Dir:       report.Dir,
		Format:    report.Format.String(),
		Succeeded: report.Succeeded(),
		Failed:    report.Failed(),
		Results:   make([]exportView, 0, len(report.Results)),
	}
	for _, r := range report.Results {
		view := exportView{Name: r.Name, Path: r.Path}
		if r.Duration > 0 {
			view.Duration = r.Duration.String()
		}
		if r.Err != nil {
			view.Error = r.Err.Error()
		}
		t.Results = append(t.Results, view)
	}
	return t
}
