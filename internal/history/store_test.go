package history_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"voxtract/internal/extraction"
	"voxtract/internal/features"
	"voxtract/internal/history"
	"voxtract/internal/recording"
	"voxtract/internal/services"
	"voxtract/internal/testsupport"
)

func beginRun(t *testing.T, store *history.Store, id string, started time.Time) {
	t.Helper()
	err := store.BeginRun(context.Background(), extraction.RunInfo{
		ID:         id,
		InputDir:   "/data/audios",
		OutputRoot: "/data/features",
		Static:     true,
		Families:   []features.Family{features.Prosody, features.Glottal},
		Recordings: 3,
		StartedAt:  started,
	})
	if err != nil {
		t.Fatalf("BeginRun failed: %v", err)
	}
}

func TestOpenCreatesSchema(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenHistory(t, cfg)

	if store.Path() != filepath.Join(cfg.Paths.StateDir, "history.db") {
		t.Fatalf("unexpected path %q", store.Path())
	}
	if _, err := os.Stat(store.Path()); err != nil {
		t.Fatalf("expected database file: %v", err)
	}
	runs, err := store.ListRuns(context.Background(), 0)
	if err != nil {
		t.Fatalf("ListRuns failed: %v", err)
	}
	if len(runs) != 0 {
		t.Fatalf("expected empty journal, got %d runs", len(runs))
	}
}

func TestOpenReusesExistingSchema(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	first, err := history.Open(cfg)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	beginRun(t, first, "run-1", time.Now())
	if err := first.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	second := testsupport.MustOpenHistory(t, cfg)
	run, err := second.GetRun(context.Background(), "run-1")
	if err != nil {
		t.Fatalf("GetRun failed: %v", err)
	}
	if run == nil {
		t.Fatal("expected run to survive reopen")
	}
}

func TestRunLifecycle(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenHistory(t, cfg)
	ctx := context.Background()

	started := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	beginRun(t, store, "run-lifecycle", started)

	run, err := store.GetRun(ctx, "run-lifecycle")
	if err != nil || run == nil {
		t.Fatalf("GetRun failed: %v %v", run, err)
	}
	if run.Status != history.RunRunning {
		t.Fatalf("expected running, got %s", run.Status)
	}
	if !run.Static || run.Recordings != 3 {
		t.Fatalf("unexpected run %#v", run)
	}
	if len(run.Families) != 2 || run.Families[0] != "prosody" || run.Families[1] != "glottal" {
		t.Fatalf("unexpected families %v", run.Families)
	}
	if run.Duration() != 0 {
		t.Fatalf("running run should report zero duration")
	}

	summary := extraction.Summary{
		RunID: "run-lifecycle",
		Families: []extraction.FamilyReport{
			{Family: features.Prosody, Total: 3, Extracted: 2, Failed: 1},
			{Family: features.Glottal, Total: 3, Skipped: 3},
		},
		LedgerPath: "/data/features/failed_files.log",
		Failures:   1,
		FinishedAt: started.Add(90 * time.Second),
	}
	if err := store.FinishRun(ctx, summary); err != nil {
		t.Fatalf("FinishRun failed: %v", err)
	}

	run, err = store.GetRun(ctx, "run-lifecycle")
	if err != nil {
		t.Fatalf("GetRun failed: %v", err)
	}
	if run.Status != history.RunCompleted {
		t.Fatalf("expected completed, got %s", run.Status)
	}
	if run.Extracted != 2 || run.Skipped != 3 || run.Failed != 1 || run.Pending != 0 {
		t.Fatalf("unexpected counts %#v", run)
	}
	if run.LedgerFailures != 1 || run.LedgerPath != summary.LedgerPath {
		t.Fatalf("unexpected ledger fields %#v", run)
	}
	if run.Duration() != 90*time.Second {
		t.Fatalf("unexpected duration %s", run.Duration())
	}
}

func TestFinishRunCanceled(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenHistory(t, cfg)
	ctx := context.Background()

	beginRun(t, store, "run-canceled", time.Now())
	err := store.FinishRun(ctx, extraction.Summary{
		RunID:    "run-canceled",
		Canceled: true,
		Families: []extraction.FamilyReport{{Family: features.Prosody, Total: 3, Extracted: 1, Pending: 2}},
	})
	if err != nil {
		t.Fatalf("FinishRun failed: %v", err)
	}
	run, err := store.GetRun(ctx, "run-canceled")
	if err != nil {
		t.Fatalf("GetRun failed: %v", err)
	}
	if run.Status != history.RunCanceled || run.Pending != 2 {
		t.Fatalf("unexpected run %#v", run)
	}
}

func TestFinishRunUnknownID(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenHistory(t, cfg)

	if err := store.FinishRun(context.Background(), extraction.Summary{RunID: "missing"}); err == nil {
		t.Fatal("expected error for unknown run")
	}
}

func TestRecordOutcomeAndFilter(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenHistory(t, cfg)
	ctx := context.Background()
	beginRun(t, store, "run-outcomes", time.Now())

	rec := func(name string) recording.Recording {
		path := filepath.Join("/data/audios", name)
		return recording.Recording{Path: path, ID: recording.NewID(path)}
	}
	outcomes := []extraction.Outcome{
		{RunID: "run-outcomes", Family: features.Prosody, Recording: rec("a.wav"), State: extraction.StateExtracted, ArtifactPath: "/data/features/prosody/a.npz", Duration: 1500 * time.Millisecond, Sanitized: 4},
		{RunID: "run-outcomes", Family: features.Prosody, Recording: rec("b.wav"), State: extraction.StateFailed, Kind: services.KindDecode, Err: errors.New("bad header")},
		{RunID: "run-outcomes", Family: features.Glottal, Recording: rec("a.wav"), State: extraction.StateSkipped},
	}
	for _, outcome := range outcomes {
		if err := store.RecordOutcome(ctx, outcome); err != nil {
			t.Fatalf("RecordOutcome failed: %v", err)
		}
	}

	all, err := store.Outcomes(ctx, "run-outcomes", history.OutcomeFilter{})
	if err != nil {
		t.Fatalf("Outcomes failed: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 outcomes, got %d", len(all))
	}
	first := all[0]
	if first.Recording != "a.wav" || first.Family != "Prosody" || first.State != "extracted" {
		t.Fatalf("unexpected first outcome %#v", first)
	}
	if first.Duration != 1500*time.Millisecond || first.NaNReplaced != 4 || first.Kind != "" {
		t.Fatalf("unexpected first outcome details %#v", first)
	}

	failed, err := store.Outcomes(ctx, "run-outcomes", history.OutcomeFilter{State: "failed"})
	if err != nil {
		t.Fatalf("Outcomes failed: %v", err)
	}
	if len(failed) != 1 || failed[0].Recording != "b.wav" {
		t.Fatalf("unexpected failed outcomes %#v", failed)
	}
	if failed[0].Kind != string(services.KindDecode) || failed[0].ErrorMessage != "bad header" {
		t.Fatalf("unexpected failure details %#v", failed[0])
	}

	glottal, err := store.Outcomes(ctx, "run-outcomes", history.OutcomeFilter{Family: "glottal"})
	if err != nil {
		t.Fatalf("Outcomes failed: %v", err)
	}
	if len(glottal) != 1 || glottal[0].State != "skipped" {
		t.Fatalf("unexpected glottal outcomes %#v", glottal)
	}
}

func TestRecordOutcomeRequiresRunID(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenHistory(t, cfg)

	if err := store.RecordOutcome(context.Background(), extraction.Outcome{State: extraction.StateSkipped}); err == nil {
		t.Fatal("expected error without run id")
	}
}

func TestListRunsNewestFirst(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenHistory(t, cfg)
	ctx := context.Background()

	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	beginRun(t, store, "run-old", base)
	beginRun(t, store, "run-mid", base.Add(time.Hour))
	beginRun(t, store, "run-new", base.Add(2*time.Hour))

	runs, err := store.ListRuns(ctx, 2)
	if err != nil {
		t.Fatalf("ListRuns failed: %v", err)
	}
	if len(runs) != 2 || runs[0].ID != "run-new" || runs[1].ID != "run-mid" {
		t.Fatalf("unexpected order %v", runIDs(runs))
	}

	latest, err := store.LatestRun(ctx)
	if err != nil {
		t.Fatalf("LatestRun failed: %v", err)
	}
	if latest == nil || latest.ID != "run-new" {
		t.Fatalf("unexpected latest run %#v", latest)
	}
}

func TestGetRunByPrefix(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenHistory(t, cfg)
	ctx := context.Background()

	beginRun(t, store, "abc123", time.Now())
	beginRun(t, store, "abd456", time.Now())

	run, err := store.GetRun(ctx, "abc")
	if err != nil {
		t.Fatalf("GetRun failed: %v", err)
	}
	if run == nil || run.ID != "abc123" {
		t.Fatalf("unexpected run %#v", run)
	}

	if _, err := store.GetRun(ctx, "ab"); !errors.Is(err, history.ErrAmbiguousRun) {
		t.Fatalf("expected ErrAmbiguousRun, got %v", err)
	}

	missing, err := store.GetRun(ctx, "zzz")
	if err != nil {
		t.Fatalf("GetRun failed: %v", err)
	}
	if missing != nil {
		t.Fatalf("expected nil for unknown run, got %#v", missing)
	}
}

func TestLatestRunEmpty(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenHistory(t, cfg)

	run, err := store.LatestRun(context.Background())
	if err != nil {
		t.Fatalf("LatestRun failed: %v", err)
	}
	if run != nil {
		t.Fatalf("expected no run, got %#v", run)
	}
}

func TestPruneBeforeCascadesOutcomes(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenHistory(t, cfg)
	ctx := context.Background()

	old := time.Now().Add(-48 * time.Hour)
	beginRun(t, store, "run-stale", old)
	if err := store.FinishRun(ctx, extraction.Summary{RunID: "run-stale", FinishedAt: old.Add(time.Minute)}); err != nil {
		t.Fatalf("FinishRun failed: %v", err)
	}
	if err := store.RecordOutcome(ctx, extraction.Outcome{RunID: "run-stale", Family: features.Prosody, State: extraction.StateSkipped}); err != nil {
		t.Fatalf("RecordOutcome failed: %v", err)
	}
	beginRun(t, store, "run-fresh", time.Now())

	removed, err := store.PruneBefore(ctx, time.Now().Add(-24*time.Hour))
	if err != nil {
		t.Fatalf("PruneBefore failed: %v", err)
	}
	if removed != 1 {
		t.Fatalf("expected 1 pruned run, got %d", removed)
	}
	outcomes, err := store.Outcomes(ctx, "run-stale", history.OutcomeFilter{})
	if err != nil {
		t.Fatalf("Outcomes failed: %v", err)
	}
	if len(outcomes) != 0 {
		t.Fatalf("expected outcomes to cascade, got %d", len(outcomes))
	}
	runs, err := store.ListRuns(ctx, 0)
	if err != nil {
		t.Fatalf("ListRuns failed: %v", err)
	}
	if len(runs) != 1 || runs[0].ID != "run-fresh" {
		t.Fatalf("unexpected remaining runs %v", runIDs(runs))
	}
}

func runIDs(runs []*history.Run) []string {
	ids := make([]string, 0, len(runs))
	for _, run := range runs {
		ids = append(ids, run.ID)
	}
	return ids
}
