//go:build integration

package steps

import (
	"context"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/cucumber/godog"

	"voxtract/internal/artifact"
	"voxtract/internal/extraction"
	"voxtract/internal/features"
	"voxtract/internal/logging"
	"voxtract/internal/services"
)

// fakeEngine stands in for the DisVoice engine.
type fakeEngine struct {
	mu       sync.Mutex
	calls    int
	failures map[string]bool
	withNaN  bool
}

func (f *fakeEngine) factory(family features.Family) features.Extractor {
	return features.ExtractorFunc(func(_ context.Context, path string, _ bool) (features.Array, error) {
		f.mu.Lock()
		defer f.mu.Unlock()
		f.calls++
		if f.failures[family.Name+"/"+filepath.Base(path)] {
			return features.Array{}, services.Wrap(services.ErrExternalTool, family.Name, "disvoice", "synthetic failure", nil)
		}
		data := []float64{1, 2, 3}
		if f.withNaN {
			data[1] = math.NaN()
		}
		return features.Vector(data), nil
	})
}

// extractionContext holds test state for extraction scenarios.
type extractionContext struct {
	baseDir    string
	inputDir   string
	outputRoot string
	stateDir   string
	families   []features.Family
	engine     *fakeEngine
	summary    extraction.Summary
	err        error
}

// SharedExtractionContext is reset before each scenario via Before hook.
var SharedExtractionContext *extractionContext

func getExtractionContext() *extractionContext {
	return SharedExtractionContext
}

func InitializeExtractionScenario(ctx *godog.ScenarioContext) {
	ctx.Before(func(c context.Context, sc *godog.Scenario) (context.Context, error) {
		base, err := os.MkdirTemp("", "voxtract-features-")
		if err != nil {
			return c, err
		}
		SharedExtractionContext = &extractionContext{
			baseDir:    base,
			inputDir:   filepath.Join(base, "audios"),
			outputRoot: filepath.Join(base, "features"),
			stateDir:   filepath.Join(base, "state"),
			engine:     &fakeEngine{failures: make(map[string]bool)},
		}
		return c, nil
	})
	ctx.After(func(c context.Context, sc *godog.Scenario, err error) (context.Context, error) {
		if ec := getExtractionContext(); ec != nil {
			_ = os.RemoveAll(ec.baseDir)
		}
		return c, nil
	})

	ctx.Step(`^an input directory with recordings "([^"]*)"$`, anInputDirectoryWithRecordings)
	ctx.Step(`^an empty input directory$`, anEmptyInputDirectory)
	ctx.Step(`^the extractor fails on "([^"]*)" for family "([^"]*)"$`, theExtractorFailsOn)
	ctx.Step(`^the extractor stops failing$`, theExtractorStopsFailing)
	ctx.Step(`^the extractor returns NaN values$`, theExtractorReturnsNaNValues)
	ctx.Step(`^the batch runs only the "([^"]*)" family$`, theBatchRunsOnlyTheFamily)
	ctx.Step(`^I run the batch$`, iRunTheBatch)
	ctx.Step(`^I run the batch again$`, iRunTheBatchAgain)
	ctx.Step(`^artifacts exist for "([^"]*)" in family "([^"]*)"$`, artifactsExistFor)
	ctx.Step(`^no artifact exists for "([^"]*)" in family "([^"]*)"$`, noArtifactExistsFor)
	ctx.Step(`^the ledger contains exactly "([^"]*)"$`, theLedgerContainsExactly)
	ctx.Step(`^the ledger is empty$`, theLedgerIsEmpty)
	ctx.Step(`^the summary reports (\d+) failures$`, theSummaryReportsFailures)
	ctx.Step(`^the summary message is "([^"]*)"$`, theSummaryMessageIs)
	ctx.Step(`^no output directory was created$`, noOutputDirectoryWasCreated)
	ctx.Step(`^the extractor was called (\d+) times$`, theExtractorWasCalledTimes)
	ctx.Step(`^every recording was skipped$`, everyRecordingWasSkipped)
	ctx.Step(`^the artifact for "([^"]*)" in family "([^"]*)" contains no NaN values$`, theArtifactContainsNoNaN)
}

func anInputDirectoryWithRecordings(list string) error {
	ec := getExtractionContext()
	if err := os.MkdirAll(ec.inputDir, 0o755); err != nil {
		return err
	}
	for _, name := range splitList(list) {
		if err := os.WriteFile(filepath.Join(ec.inputDir, name), []byte("RIFF"), 0o644); err != nil {
			return err
		}
	}
	return nil
}

func anEmptyInputDirectory() error {
	return os.MkdirAll(getExtractionContext().inputDir, 0o755)
}

func theExtractorFailsOn(name, family string) error {
	getExtractionContext().engine.failures[family+"/"+name] = true
	return nil
}

func theExtractorStopsFailing() error {
	getExtractionContext().engine.failures = make(map[string]bool)
	return nil
}

func theExtractorReturnsNaNValues() error {
	getExtractionContext().engine.withNaN = true
	return nil
}

func theBatchRunsOnlyTheFamily(key string) error {
	family, ok := features.Lookup(key)
	if !ok {
		return fmt.Errorf("unknown family %q", key)
	}
	ec := getExtractionContext()
	ec.families = append(ec.families, family)
	return nil
}

func iRunTheBatch() error {
	ec := getExtractionContext()
	batch := extraction.NewBatch(extraction.Options{
		Families: ec.families,
		StateDir: ec.stateDir,
	}, ec.engine.factory, logging.NewNop())
	ec.summary, ec.err = batch.Run(context.Background(), ec.inputDir, ec.outputRoot, false)
	return ec.err
}

func iRunTheBatchAgain() error {
	ec := getExtractionContext()
	ec.engine.mu.Lock()
	ec.engine.calls = 0
	ec.engine.mu.Unlock()
	return iRunTheBatch()
}

func artifactPath(family, stem string) string {
	return filepath.Join(getExtractionContext().outputRoot, family, stem+".npz")
}

func artifactsExistFor(list, family string) error {
	for _, stem := range splitList(list) {
		if _, err := os.Stat(artifactPath(family, stem)); err != nil {
			return fmt.Errorf("expected artifact for %s in %s: %w", stem, family, err)
		}
	}
	return nil
}

func noArtifactExistsFor(list, family string) error {
	for _, stem := range splitList(list) {
		if _, err := os.Stat(artifactPath(family, stem)); !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("expected no artifact for %s in %s, stat returned %v", stem, family, err)
		}
	}
	return nil
}

func readLedger() (string, error) {
	data, err := os.ReadFile(getExtractionContext().summary.LedgerPath)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}

func theLedgerContainsExactly(expected string) error {
	got, err := readLedger()
	if err != nil {
		return err
	}
	if got != expected {
		return fmt.Errorf("ledger = %q, want %q", got, expected)
	}
	return nil
}

func theLedgerIsEmpty() error {
	got, err := readLedger()
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}
	if got != "" {
		return fmt.Errorf("expected empty ledger, got %q", got)
	}
	return nil
}

func theSummaryReportsFailures(count int) error {
	ec := getExtractionContext()
	want := fmt.Sprintf("%d failures. Check %s for details.", count, ec.summary.LedgerPath)
	if got := ec.summary.Message(); got != want {
		return fmt.Errorf("summary = %q, want %q", got, want)
	}
	return nil
}

func theSummaryMessageIs(expected string) error {
	ec := getExtractionContext()
	expected = strings.ReplaceAll(expected, "<input>", ec.inputDir)
	if got := ec.summary.Message(); got != expected {
		return fmt.Errorf("summary = %q, want %q", got, expected)
	}
	return nil
}

func noOutputDirectoryWasCreated() error {
	if _, err := os.Stat(getExtractionContext().outputRoot); !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("expected no output directory, stat returned %v", err)
	}
	return nil
}

func theExtractorWasCalledTimes(count int) error {
	ec := getExtractionContext()
	ec.engine.mu.Lock()
	defer ec.engine.mu.Unlock()
	if ec.engine.calls != count {
		return fmt.Errorf("extractor called %d times, want %d", ec.engine.calls, count)
	}
	return nil
}

func everyRecordingWasSkipped() error {
	summary := getExtractionContext().summary
	totals := summary.Totals()
	if totals.Skipped != totals.Total || totals.Total == 0 {
		return fmt.Errorf("expected every recording skipped, got %+v", totals)
	}
	return nil
}

func theArtifactContainsNoNaN(stem, family string) error {
	arr, err := artifact.Read(artifactPath(family, stem))
	if err != nil {
		return err
	}
	for i, v := range arr.Data {
		if math.IsNaN(v) {
			return fmt.Errorf("artifact value %d is NaN", i)
		}
	}
	return nil
}

func splitList(list string) []string {
	var out []string
	for _, item := range strings.Split(list, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
