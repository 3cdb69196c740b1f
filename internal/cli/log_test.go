package cli

import (
	"context"
	"io"
	"testing"

	"github.com/charmbracelet/log"
)

func TestWithLoggerRoundTrip(t *testing.T) {
	l := log.New(io.Discard)
	ctx := withLogger(context.Background(), l)

	if got := loggerFromContext(ctx); got != l {
		t.Error("loggerFromContext did not return the attached logger")
	}
}

func TestLoggerFromContextDefault(t *testing.T) {
	if got := loggerFromContext(context.Background()); got == nil {
		t.Error("loggerFromContext returned nil for a bare context")
	}
}

func TestSetLogLevel(t *testing.T) {
	c := New(io.Discard, LogInfo)
	c.SetLogLevel(LogDebug)

	if got := c.Logger.GetLevel(); got != LogDebug {
		t.Errorf("level = %v, want debug", got)
	}
}
