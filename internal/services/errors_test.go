package services_test

import (
	"errors"
	"strings"
	"testing"

	"cutroom/internal/services"
)

func TestWrapIncludesContext(t *testing.T) {
	base := errors.New("boom")
	err := services.Wrap(services.ErrExternalTool, "batch", "run ffmpeg", "encode failed", base)
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected marker to be retained, got %v", err)
	}
	if !errors.Is(err, base) {
		t.Fatalf("expected wrapped error to contain base error, got %v", err)
	}
	msg := err.Error()
	for _, fragment := range []string{"batch", "run ffmpeg", "encode failed"} {
		if !strings.Contains(msg, fragment) {
			t.Fatalf("expected %q in error string %q", fragment, msg)
		}
	}
}

func TestWrapWithoutCause(t *testing.T) {
	err := services.Wrap(services.ErrNotFound, "editor", "split clip", "", nil)
	if !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected not-found marker, got %v", err)
	}
	if !strings.Contains(err.Error(), "editor: split clip") {
		t.Fatalf("unexpected message %q", err.Error())
	}
}

func TestWrapNilMarkerDefaultsToExternalTool(t *testing.T) {
	err := services.Wrap(nil, "batch", "probe", "", errors.New("io"))
	if !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected external tool fallback, got %v", err)
	}
}
