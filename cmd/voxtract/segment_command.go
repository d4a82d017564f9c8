package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"voxtract/internal/segment"
)

func newSegmentCommand(ctx *commandContext) *cobra.Command {
	var csvPath string
	var baseDir string
	var outputFolder string
	var separator string
	var decimal string

	cmd := &cobra.Command{
		Use:   "segment",
		Short: "Cut task segments out of session recordings with ffmpeg",
		Long: "Reads a segment plan with the columns Path, Start, End and Task and cuts each\n" +
			"window into a file named after the recording and the task. Outputs go to the\n" +
			"input directory with \"/original\" replaced by the output folder.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}

			format, err := segment.ParseFormat(
				firstNonEmpty(separator, cfg.Segment.Separator),
				firstNonEmpty(decimal, cfg.Segment.Decimal),
			)
			if err != nil {
				return err
			}
			base := firstNonEmpty(baseDir, cfg.Segment.BaseDir)
			if base == "" {
				if base, err = os.Getwd(); err != nil {
					return fmt.Errorf("resolve base dir: %w", err)
				}
			}
			folder := strings.Trim(firstNonEmpty(outputFolder, cfg.Segment.OutputFolder), "/")

			plan, err := segment.LoadPlan(csvPath, format)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Loaded %d rows from %s\n\n", len(plan.Rows), csvPath)
			for _, invalid := range plan.Invalid {
				fmt.Fprintf(out, "Skipping %s\n", invalid.Error())
			}

			cutter := segment.NewCutter(cfg.FFmpegBinary())
			report, err := segment.NewSegmenter(cutter, logger).Run(cmd.Context(), plan, segment.Options{
				BaseDir:      base,
				OutputFolder: folder,
				OnEvent: func(event segment.Event) {
					printSegmentEvent(cmd, event)
				},
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "Done! Cut %d of %d segments (%d missing inputs, %d ffmpeg errors).\n",
				report.Cut, report.Rows, report.Missing, report.Failed)
			return nil
		},
	}

	cmd.Flags().StringVar(&csvPath, "csv", "", "Segment plan with Path, Start, End and Task columns")
	cmd.Flags().StringVar(&baseDir, "base-dir", "", "Base directory for relative recording paths (default: segment.base_dir or the working directory)")
	cmd.Flags().StringVar(&outputFolder, "output-folder", "", "Folder name that replaces \"original\" in output paths (default from config)")
	cmd.Flags().StringVar(&separator, "sep", "", "Plan column separator (default from config: ;)")
	cmd.Flags().StringVar(&decimal, "decimal", "", "Plan decimal separator (default from config: ,)")
	_ = cmd.MarkFlagRequired("csv")
	return cmd
}

func printSegmentEvent(cmd *cobra.Command, event segment.Event) {
	out := cmd.OutOrStdout()
	prefix := fmt.Sprintf("[%d/%d]", event.Index, event.Total)
	name := filepath.Base(event.Input)
	switch event.Status {
	case segment.StatusMissing:
		fmt.Fprintf(out, "%s File not found: %s\n", prefix, event.Input)
	case segment.StatusCut:
		fmt.Fprintf(out, "%s Cutting %s: %.2f - %.2fs → %s\n", prefix, name, event.Row.Start, event.Row.End, filepath.Base(event.Output))
		fmt.Fprintf(out, "Saved: %s\n\n", event.Output)
	default:
		fmt.Fprintf(out, "%s Cutting %s: %.2f - %.2fs → %s\n", prefix, name, event.Row.Start, event.Row.End, filepath.Base(event.Output))
		fmt.Fprintf(out, "ffmpeg error for %s\n", name)
		fmt.Fprintln(out, stderrOf(event.Err))
		fmt.Fprintln(out, strings.Repeat("-", 60))
	}
}

func stderrOf(err error) string {
	if err == nil {
		return ""
	}
	var cutErr *segment.CutError
	if errors.As(err, &cutErr) && cutErr.Stderr != "" {
		return cutErr.Stderr
	}
	return err.Error()
}

