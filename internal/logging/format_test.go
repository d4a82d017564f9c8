package logging

import (
	"errors"
	"log/slog"
	"testing"
	"time"
)

func TestFormatValue(t *testing.T) {
	tests := []struct {
		name  string
		value slog.Value
		want  string
	}{
		{"plain string", slog.StringValue("b.wav"), "b.wav"},
		{"spaced string", slog.StringValue("bad header"), `"bad header"`},
		{"empty string", slog.StringValue(""), `""`},
		{"float", slog.Float64Value(0.123456789), "0.123457"},
		{"duration", slog.DurationValue(1500*time.Millisecond + 300*time.Microsecond), "1.5s"},
		{"error", slog.AnyValue(errors.New("exit status 1")), `"exit status 1"`},
		{"families", slog.AnyValue([]string{"prosody", "glottal"}), "prosody,glottal"},
		{"int", slog.IntValue(42), "42"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := formatValue(tc.value); got != tc.want {
				t.Fatalf("formatValue = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestAttrStringNeverQuotes(t *testing.T) {
	if got := attrString(slog.StringValue("P01 vowel.wav")); got != "P01 vowel.wav" {
		t.Fatalf("attrString = %q", got)
	}
	if got := formatTimestamp(time.Time{}); got != "" {
		t.Fatalf("zero timestamp = %q", got)
	}
}
