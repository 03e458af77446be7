package logging

import (
	"context"
	"testing"

	"github.com/sirupsen/logrus"
)

func TestParseLevelDefaultsToError(t *testing.T) {
	for _, input := range []string{"", "   "} {
		level, err := ParseLevel(input)
		if err != nil {
			t.Fatalf("parse %q: %v", input, err)
		}
		if level != logrus.ErrorLevel {
			t.Fatalf("expected error level for %q, got %v", input, level)
		}
	}
}

func TestParseLevelPassThrough(t *testing.T) {
	cases := map[string]logrus.Level{
		"debug":    logrus.DebugLevel,
		"info":     logrus.InfoLevel,
		"warning":  logrus.WarnLevel,
		"error":    logrus.ErrorLevel,
		"critical": logrus.FatalLevel,
		"DEBUG":    logrus.DebugLevel,
	}
	for input, want := range cases {
		level, err := ParseLevel(input)
		if err != nil {
			t.Fatalf("parse %q: %v", input, err)
		}
		if level != want {
			t.Fatalf("parse %q: got %v want %v", input, level, want)
		}
	}
}

func TestParseLevelRejectsUnknown(t *testing.T) {
	if _, err := ParseLevel("verbose"); err == nil {
		t.Fatal("expected error for unknown level")
	}
}

func TestNewRejectsInvalidLevel(t *testing.T) {
	if _, err := New("test", "nope"); err == nil {
		t.Fatal("expected error for invalid level")
	}
}

func TestTraceIDRoundTrip(t *testing.T) {
	id := NewTraceID()
	if id == "" {
		t.Fatal("expected non-empty trace id")
	}

	ctx := WithTraceID(context.Background(), id)
	if got := TraceID(ctx); got != id {
		t.Fatalf("trace id mismatch: got %q want %q", got, id)
	}
	if got := TraceID(context.Background()); got != "" {
		t.Fatalf("expected empty trace id on bare context, got %q", got)
	}
}
