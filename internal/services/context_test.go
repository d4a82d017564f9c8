package services_test

import (
	"context"
	"testing"

	"voxtract/internal/services"
)

func TestContextHelpers(t *testing.T) {
	ctx := context.Background()
	ctx = services.WithRunID(ctx, "run-123")
	ctx = services.WithFamily(ctx, "Prosody")
	ctx = services.WithRecording(ctx, "a.wav")

	if id, ok := services.RunIDFromContext(ctx); !ok || id != "run-123" {
		t.Fatalf("unexpected run id: %v %v", id, ok)
	}
	if family, ok := services.FamilyFromContext(ctx); !ok || family != "Prosody" {
		t.Fatalf("unexpected family: %v %v", family, ok)
	}
	if rec, ok := services.RecordingFromContext(ctx); !ok || rec != "a.wav" {
		t.Fatalf("unexpected recording: %v %v", rec, ok)
	}
}

func TestBlankValuesPreserveContext(t *testing.T) {
	ctx := context.Background()
	ctx = services.WithFamily(ctx, "")
	ctx = services.WithRunID(ctx, "")
	if _, ok := services.FamilyFromContext(ctx); ok {
		t.Fatal("expected no family value")
	}
	if _, ok := services.RunIDFromContext(ctx); ok {
		t.Fatal("expected no run id value")
	}
}
