package main

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"voxtract/internal/testsupport"
)

func TestExtractCommandSendsNotification(t *testing.T) {
	var (
		mu     sync.Mutex
		titles []string
		bodies []string
	)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		mu.Lock()
		titles = append(titles, r.Header.Get("Title"))
		bodies = append(bodies, string(body))
		mu.Unlock()
	}))
	t.Cleanup(server.Close)

	env := setupCLITestEnv(t)
	env.cfg.Notifications.NtfyTopic = server.URL
	writeTestConfig(t, env.configPath, env.cfg)
	testsupport.WriteWAVs(t, env.cfg.Paths.InputDir, "a.wav", "b.wav")

	if _, _, err := runCLI(t, []string{"extract", "--families", "prosody"}, env.configPath); err != nil {
		t.Fatalf("extract: %v", err)
	}

	mu.Lock()
	defer mu.Unlock()
	if len(titles) != 1 || titles[0] != "voxtract - Batch Complete (with failures)" {
		t.Fatalf("unexpected notifications %#v", titles)
	}
	if !strings.Contains(bodies[0], "2 recordings") || !strings.Contains(bodies[0], "1 failures") {
		t.Fatalf("unexpected notification body %q", bodies[0])
	}
}

func TestDoctorTestNotification(t *testing.T) {
	env := setupCLITestEnv(t)
	testsupport.WriteWAVs(t, env.cfg.Paths.InputDir, "a.wav")

	out, _, err := runCLI(t, []string{"doctor", "--skip-engine", "--test-notification"}, env.configPath)
	if err == nil {
		t.Fatal("expected doctor to fail without an ntfy topic")
	}
	requireContains(t, out, "notifications.ntfy_topic is not set")

	var got string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get("Title")
	}))
	t.Cleanup(server.Close)
	env.cfg.Notifications.NtfyTopic = server.URL
	writeTestConfig(t, env.configPath, env.cfg)

	if out, _, err := runCLI(t, []string{"doctor", "--skip-engine", "--test-notification"}, env.configPath); err != nil {
		t.Fatalf("doctor: %v\n%s", err, out)
	}
	if got != "voxtract - Test" {
		t.Fatalf("expected test notification, got title %q", got)
	}
}
