package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"voxtract/internal/history"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var limit int
	var runID string
	var jsonOutput bool
	var state string
	var family string
	var pruneDays int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recorded extraction runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.openHistory()
			if err != nil {
				return err
			}
			defer store.Close()

			if pruneDays > 0 {
				cutoff := time.Now().Add(-time.Duration(pruneDays) * 24 * time.Hour)
				removed, err := store.PruneBefore(cmd.Context(), cutoff)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Pruned %d runs started before %s\n", removed, cutoff.Format("2006-01-02"))
				return nil
			}

			if strings.TrimSpace(runID) != "" {
				return showRun(cmd, store, runID, history.OutcomeFilter{Family: family, State: state}, jsonOutput)
			}

			runs, err := store.ListRuns(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if jsonOutput {
				return writeJSON(cmd, runsToJSON(runs))
			}
			out := cmd.OutOrStdout()
			if len(runs) == 0 {
				fmt.Fprintln(out, "No runs recorded")
				return nil
			}
			fmt.Fprintln(out, renderRunsTable(runs))
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum number of runs to list (0 for all)")
	cmd.Flags().StringVar(&runID, "run", "", "Show one run by ID, unique ID prefix, or \"latest\"")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Print JSON instead of tables")
	cmd.Flags().StringVar(&state, "state", "", "With --run, only show outcomes in this state (extracted, skipped, failed, pending)")
	cmd.Flags().StringVar(&family, "family", "", "With --run, only show outcomes for this family")
	cmd.Flags().IntVar(&pruneDays, "prune-days", 0, "Delete finished runs older than this many days")
	return cmd
}

// latestRunID selects the most recently started run for --run.
const latestRunID = "latest"

func showRun(cmd *cobra.Command, store *history.Store, id string, filter history.OutcomeFilter, jsonOutput bool) error {
	var (
		run *history.Run
		err error
	)
	if strings.EqualFold(strings.TrimSpace(id), latestRunID) {
		run, err = store.LatestRun(cmd.Context())
		if err == nil && run == nil {
			return fmt.Errorf("no runs recorded")
		}
	} else {
		run, err = store.GetRun(cmd.Context(), id)
		if err == nil && run == nil {
			return fmt.Errorf("run %q not found", id)
		}
	}
	if err != nil {
		return err
	}
	outcomes, err := store.Outcomes(cmd.Context(), run.ID, filter)
	if err != nil {
		return err
	}
	if jsonOutput {
		payload := struct {
			Run      runJSON       `json:"run"`
			Outcomes []outcomeJSON `json:"outcomes"`
		}{Run: runToJSON(run), Outcomes: outcomesToJSON(outcomes)}
		return writeJSON(cmd, payload)
	}

	out := cmd.OutOrStdout()
	printRunDetail(out, run)
	if len(outcomes) == 0 {
		fmt.Fprintln(out, "No outcomes recorded")
		return nil
	}
	rows := make([][]string, 0, len(outcomes))
	for _, outcome := range outcomes {
		rows = append(rows, []string{
			outcome.Family,
			outcome.Recording,
			outcome.State,
			outcome.Kind,
			formatDuration(outcome.Duration),
			truncate(outcome.ErrorMessage, 80),
		})
	}
	fmt.Fprintln(out, renderTable(
		[]string{"Family", "Recording", "State", "Kind", "Took", "Error"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignRight, alignLeft},
	))
	return nil
}

func printRunDetail(out io.Writer, run *history.Run) {
	fmt.Fprintf(out, "Run:        %s\n", run.ID)
	fmt.Fprintf(out, "Status:     %s\n", run.Status)
	fmt.Fprintf(out, "Input:      %s\n", run.InputDir)
	fmt.Fprintf(out, "Output:     %s\n", run.OutputRoot)
	fmt.Fprintf(out, "Static:     %s\n", yesNo(run.Static))
	fmt.Fprintf(out, "Families:   %s\n", strings.Join(run.Families, ", "))
	fmt.Fprintf(out, "Started:    %s\n", run.StartedAt.Local().Format(time.DateTime))
	if run.FinishedAt != nil {
		fmt.Fprintf(out, "Duration:   %s\n", formatDuration(run.Duration()))
	}
	fmt.Fprintf(out, "Recordings: %d (extracted %d, skipped %d, failed %d, pending %d)\n",
		run.Recordings, run.Extracted, run.Skipped, run.Failed, run.Pending)
	if run.LedgerPath != "" {
		fmt.Fprintf(out, "Ledger:     %s (%d lines)\n", run.LedgerPath, run.LedgerFailures)
	}
	fmt.Fprintln(out)
}

func renderRunsTable(runs []*history.Run) string {
	rows := make([][]string, 0, len(runs))
	for _, run := range runs {
		rows = append(rows, []string{
			shortID(run.ID),
			run.StartedAt.Local().Format(time.DateTime),
			string(run.Status),
			strings.Join(run.Families, ","),
			strconv.Itoa(run.Recordings),
			strconv.Itoa(run.Extracted),
			strconv.Itoa(run.Skipped),
			strconv.Itoa(run.Failed),
			strconv.Itoa(run.Pending),
			formatDuration(run.Duration()),
		})
	}
	return renderTable(
		[]string{"Run", "Started", "Status", "Families", "Recordings", "Extracted", "Skipped", "Failed", "Pending", "Took"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignRight, alignRight, alignRight, alignRight, alignRight, alignRight},
	)
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func formatDuration(d time.Duration) string {
	if d <= 0 {
		return "-"
	}
	if d < time.Second {
		return d.Round(time.Millisecond).String()
	}
	return d.Round(time.Second).String()
}

func truncate(value string, limit int) string {
	runes := []rune(value)
	if len(runes) <= limit {
		return value
	}
	return string(runes[:limit-1]) + "…"
}

type runJSON struct {
	ID             string     `json:"id"`
	Status         string     `json:"status"`
	InputDir       string     `json:"input_dir"`
	OutputRoot     string     `json:"output_root"`
	Static         bool       `json:"static"`
	Families       []string   `json:"families"`
	Recordings     int        `json:"recordings"`
	Extracted      int        `json:"extracted"`
	Skipped        int        `json:"skipped"`
	Failed         int        `json:"failed"`
	Pending        int        `json:"pending"`
	LedgerFailures int        `json:"ledger_failures"`
	LedgerPath     string     `json:"ledger_path,omitempty"`
	StartedAt      time.Time  `json:"started_at"`
	FinishedAt     *time.Time `json:"finished_at,omitempty"`
}

type outcomeJSON struct {
	Family       string `json:"family"`
	Recording    string `json:"recording"`
	State        string `json:"state"`
	Kind         string `json:"kind,omitempty"`
	Error        string `json:"error,omitempty"`
	ArtifactPath string `json:"artifact_path,omitempty"`
	DurationMS   int64  `json:"duration_ms"`
	NaNReplaced  int    `json:"nan_replaced,omitempty"`
}

func runToJSON(run *history.Run) runJSON {
	return runJSON{
		ID:             run.ID,
		Status:         string(run.Status),
		InputDir:       run.InputDir,
		OutputRoot:     run.OutputRoot,
		Static:         run.Static,
		Families:       run.Families,
		Recordings:     run.Recordings,
		Extracted:      run.Extracted,
		Skipped:        run.Skipped,
		Failed:         run.Failed,
		Pending:        run.Pending,
		LedgerFailures: run.LedgerFailures,
		LedgerPath:     run.LedgerPath,
		StartedAt:      run.StartedAt,
		FinishedAt:     run.FinishedAt,
	}
}

func runsToJSON(runs []*history.Run) []runJSON {
	out := make([]runJSON, 0, len(runs))
	for _, run := range runs {
		out = append(out, runToJSON(run))
	}
	return out
}

func outcomesToJSON(outcomes []*history.OutcomeRecord) []outcomeJSON {
	out := make([]outcomeJSON, 0, len(outcomes))
	for _, rec := range outcomes {
		out = append(out, outcomeJSON{
			Family:       rec.Family,
			Recording:    rec.Recording,
			State:        rec.State,
			Kind:         rec.Kind,
			Error:        rec.ErrorMessage,
			ArtifactPath: rec.ArtifactPath,
			DurationMS:   rec.Duration.Milliseconds(),
			NaNReplaced:  rec.NaNReplaced,
		})
	}
	return out
}
