package notifications

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"voxtract/internal/config"
)

const userAgent = "voxtract/0.1.0"

// BatchResult is the slice of a batch summary worth announcing.
type BatchResult struct {
	InputDir   string
	Recordings int
	Extracted  int
	Skipped    int
	Failures   int
	LedgerPath string
	Canceled   bool
	Duration   time.Duration
}

// Service defines the notification surface used by the CLI.
type Service interface {
	NotifyBatchCompleted(ctx context.Context, result BatchResult) error
	NotifyError(ctx context.Context, err error, operation string) error
	TestNotification(ctx context.Context) error
}

// NewService builds an ntfy-backed service, or a no-op when no topic is set.
func NewService(cfg *config.Config) Service {
	if cfg == nil || strings.TrimSpace(cfg.Notifications.NtfyTopic) == "" {
		return noopService{}
	}
	return &ntfyService{
		endpoint: cfg.Notifications.NtfyTopic,
		client:   &http.Client{Timeout: cfg.NotifyTimeout()},
	}
}

type payload struct {
	title    string
	message  string
	tags     []string
	priority string
}

type ntfyService struct {
	endpoint string
	client   *http.Client
}

func (n *ntfyService) NotifyBatchCompleted(ctx context.Context, result BatchResult) error {
	duration := result.Duration.Round(time.Second)
	if duration < 0 {
		duration = 0
	}

	data := payload{tags: []string{"voxtract", "batch"}}
	switch {
	case result.Canceled:
		data.title = "voxtract - Batch Interrupted"
		data.message = fmt.Sprintf("Interrupted after %s: %d extracted, %d failures", duration, result.Extracted, result.Failures)
		data.tags = append(data.tags, "interrupted")
	case result.Failures > 0:
		data.title = "voxtract - Batch Complete (with failures)"
		data.message = fmt.Sprintf("%d recordings in %s: %d extracted, %d skipped, %d failures.\nLedger: %s",
			result.Recordings, duration, result.Extracted, result.Skipped, result.Failures, result.LedgerPath)
		data.tags = append(data.tags, "failures")
		data.priority = "high"
	default:
		data.title = "voxtract - Batch Complete"
		data.message = fmt.Sprintf("%d recordings in %s: %d extracted, %d skipped.",
			result.Recordings, duration, result.Extracted, result.Skipped)
		data.tags = append(data.tags, "completed")
	}
	if dir := strings.TrimSpace(result.InputDir); dir != "" {
		data.message += "\nInput: " + dir
	}
	return n.send(ctx, data)
}

func (n *ntfyService) NotifyError(ctx context.Context, err error, operation string) error {
	var builder strings.Builder
	builder.WriteString("Error")
	if operation = strings.TrimSpace(operation); operation != "" {
		builder.WriteString(" during ")
		builder.WriteString(operation)
	}
	builder.WriteString(": ")
	if err != nil {
		builder.WriteString(strings.TrimSpace(err.Error()))
	} else {
		builder.WriteString("unknown")
	}
	return n.send(ctx, payload{
		title:    "voxtract - Error",
		message:  builder.String(),
		tags:     []string{"voxtract", "error"},
		priority: "high",
	})
}

func (n *ntfyService) TestNotification(ctx context.Context) error {
	return n.send(ctx, payload{
		title:    "voxtract - Test",
		message:  "Notification system test",
		tags:     []string{"voxtract", "test"},
		priority: "low",
	})
}

func (n *ntfyService) send(ctx context.Context, data payload) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.endpoint, strings.NewReader(data.message))
	if err != nil {
		return fmt.Errorf("build ntfy request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Content-Type", "text/plain; charset=utf-8")
	if data.title != "" {
		req.Header.Set("Title", data.title)
	}
	if len(data.tags) > 0 {
		req.Header.Set("Tags", strings.Join(data.tags, ","))
	}
	if data.priority != "" {
		req.Header.Set("Priority", data.priority)
	}

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("send ntfy notification: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("ntfy returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

type noopService struct{}

func (noopService) NotifyBatchCompleted(context.Context, BatchResult) error { return nil }
func (noopService) NotifyError(context.Context, error, string) error        { return nil }
func (noopService) TestNotification(context.Context) error                  { return nil }
