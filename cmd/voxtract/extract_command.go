package main

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/spf13/cobra"

	"voxtract/internal/extraction"
	"voxtract/internal/features"
	"voxtract/internal/logging"
	"voxtract/internal/notifications"
	"voxtract/internal/progress"
)

func newExtractCommand(ctx *commandContext) *cobra.Command {
	var wavDir string
	var outputDir string
	var static bool
	var families []string
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "extract",
		Short: "Extract DisVoice features for every recording in a directory",
		Long: "Runs the Prosody, Articulation, Phonation and Glottal extractors over every WAV\n" +
			"file in the input directory and writes one .npz artifact per recording and family.\n" +
			"Existing artifacts are skipped, so an interrupted batch resumes where it stopped.\n" +
			"Failures are listed in the ledger under the output directory.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}

			inputDir := firstNonEmpty(wavDir, cfg.Paths.InputDir)
			outputRoot := firstNonEmpty(outputDir, cfg.Paths.OutputDir)
			if !cmd.Flags().Changed("static") {
				static = cfg.Extraction.Static
			}
			keys := families
			if len(keys) == 0 {
				keys = cfg.Extraction.Families
			}
			selected, err := features.Select(keys)
			if err != nil {
				return err
			}

			engine, err := ctx.engine()
			if err != nil {
				return err
			}

			var recorder extraction.Recorder
			if cfg.History.Enabled {
				store, err := ctx.openHistory()
				if err != nil {
					return err
				}
				defer store.Close()
				recorder = store
			}

			var progressReporter progress.Reporter = progress.Nop{}
			if !jsonOutput {
				progressReporter = progress.New(cmd.ErrOrStderr(), logger)
			}

			runCtx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			batch := extraction.NewBatch(extraction.Options{
				Families:   selected,
				Extension:  cfg.Extraction.Extension,
				LedgerName: cfg.Extraction.LedgerName,
				StateDir:   cfg.Paths.StateDir,
				Progress:   progressReporter,
				Recorder:   recorder,
			}, engine.Extractor, logger)

			notifier := notifications.NewService(cfg)
			summary, err := batch.Run(runCtx, inputDir, outputRoot, static)
			progressReporter.Close()
			if err != nil {
				if notifyErr := notifier.NotifyError(cmd.Context(), err, "extract"); notifyErr != nil {
					logger.Warn("notification failed", logging.Error(notifyErr))
				}
				return err
			}
			if !summary.Empty() {
				if notifyErr := notifier.NotifyBatchCompleted(cmd.Context(), batchResult(summary)); notifyErr != nil {
					logger.Warn("notification failed", logging.Error(notifyErr))
				}
			}
			if summary.Canceled {
				logging.WarnWithContext(logger, "batch interrupted", "batch_interrupted",
					logging.Int("pending", summary.Totals().Pending),
					logging.String(logging.FieldErrorHint, "rerun the same command to resume"),
					logging.String(logging.FieldImpact, "remaining recordings were not processed"),
				)
			}

			if jsonOutput {
				return writeJSON(cmd, summaryToJSON(summary))
			}
			printSummary(cmd.OutOrStdout(), summary)
			return nil
		},
	}

	cmd.Flags().StringVar(&wavDir, "wav-dir", "", "Directory containing the WAV recordings (default from config: paths.input_dir)")
	cmd.Flags().StringVar(&outputDir, "output-dir", "", "Root directory for feature artifacts (default from config: paths.output_dir)")
	cmd.Flags().BoolVar(&static, "static", false, "Write one summary vector per recording instead of per-frame matrices")
	cmd.Flags().StringSliceVar(&families, "families", nil, "Comma-separated families to run (prosody, articulation, phonation, glottal)")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Print the run summary as JSON")
	return cmd
}

func batchResult(summary extraction.Summary) notifications.BatchResult {
	totals := summary.Totals()
	return notifications.BatchResult{
		InputDir:   summary.InputDir,
		Recordings: summary.Recordings,
		Extracted:  totals.Extracted,
		Skipped:    totals.Skipped,
		Failures:   summary.Failures,
		LedgerPath: summary.LedgerPath,
		Canceled:   summary.Canceled,
		Duration:   summary.FinishedAt.Sub(summary.StartedAt),
	}
}

func printSummary(out io.Writer, summary extraction.Summary) {
	fmt.Fprintln(out)
	fmt.Fprintln(out, summary.Message())
	if summary.Empty() {
		return
	}

	rows := make([][]string, 0, len(summary.Families))
	for _, report := range summary.Families {
		rows = append(rows, []string{
			report.Family.Name,
			strconv.Itoa(report.Extracted),
			strconv.Itoa(report.Skipped),
			strconv.Itoa(report.Failed),
			strconv.Itoa(report.Pending),
		})
	}
	totals := summary.Totals()
	footer := []string{
		"Total",
		strconv.Itoa(totals.Extracted),
		strconv.Itoa(totals.Skipped),
		strconv.Itoa(totals.Failed),
		strconv.Itoa(totals.Pending),
	}
	fmt.Fprintln(out)
	fmt.Fprintln(out, renderTableWithFooter(
		[]string{"Family", "Extracted", "Skipped", "Failed", "Pending"},
		rows,
		footer,
		[]columnAlignment{alignLeft, alignRight, alignRight, alignRight, alignRight},
	))
	if totals.LedgerErrors > 0 {
		fmt.Fprintf(out, "Warning: %d failures could not be written to %s; see the log for details.\n", totals.LedgerErrors, summary.LedgerPath)
	}
	if summary.Canceled {
		fmt.Fprintf(out, "Interrupted: %d recordings left pending. Rerun the same command to resume.\n", totals.Pending)
	}
}

func summaryToJSON(summary extraction.Summary) summaryJSON {
	out := summaryJSON{
		RunID:      summary.RunID,
		InputDir:   summary.InputDir,
		OutputRoot: summary.OutputRoot,
		Static:     summary.Static,
		Recordings: summary.Recordings,
		Failures:   summary.Failures,
		LedgerPath: summary.LedgerPath,
		Canceled:   summary.Canceled,
		Message:    summary.Message(),
		Families:   make([]familyReportJSON, 0, len(summary.Families)),
	}
	for _, report := range summary.Families {
		out.Families = append(out.Families, familyReportJSON{
			Family:       report.Family.Dir,
			Total:        report.Total,
			Extracted:    report.Extracted,
			Skipped:      report.Skipped,
			Failed:       report.Failed,
			Pending:      report.Pending,
			LedgerErrors: report.LedgerErrors,
		})
	}
	return out
}
