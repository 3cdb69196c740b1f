package toolchain

import (
	"context"
	"strings"
	"testing"

	"github.com/calebmaier/swiftadd/pkg/errors"
)

func TestRunSuccess(t *testing.T) {
	r := &Runner{Binary: "true", Dir: t.TempDir()}
	if err := r.run(context.Background(), "anything"); err != nil {
		t.Fatalf("expected success, got %v", err)
	}
}

func TestRunNonZeroExit(t *testing.T) {
	r := &Runner{Binary: "false", Dir: t.TempDir()}
	err := r.run(context.Background())
	if err == nil {
		t.Fatal("expected error for non-zero exit")
	}
	if !errors.Is(err, errors.ErrCodeToolchainFailed) {
		t.Errorf("expected TOOLCHAIN_FAILED, got %v", err)
	}
	if !strings.Contains(err.Error(), "status 1") {
		t.Errorf("expected exit status in message, got %v", err)
	}
}

func TestRunMissingBinary(t *testing.T) {
	r := &Runner{Binary: "swiftadd-no-such-binary", Dir: t.TempDir()}
	err := r.run(context.Background(), "package", "resolve")
	if !errors.Is(err, errors.ErrCodeToolchainFailed) {
		t.Errorf("expected TOOLCHAIN_FAILED, got %v", err)
	}
}

func TestRunCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r := &Runner{Binary: "sleep", Dir: t.TempDir()}
	if err := r.run(ctx, "10"); err == nil {
		t.Fatal("expected error for cancelled context")
	}
}

func TestNewDefaults(t *testing.T) {
	r := New("/tmp/project")
	if r.Binary != DefaultBinary {
		t.Errorf("expected %s, got %s", DefaultBinary, r.Binary)
	}
	if r.Dir != "/tmp/project" {
		t.Errorf("unexpected dir %s", r.Dir)
	}
}
