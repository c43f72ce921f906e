package logging

import (
	"context"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestNewLogger(t *testing.T) {
	cfg := NewDefaultConfig()

	logger, err := NewLogger(cfg, nil)
	if err != nil {
		t.Fatalf("NewLogger() error = %v", err)
	}
	defer logger.Sync()

	if !logger.Enabled(zapcore.InfoLevel) {
		t.Error("info should be enabled at default level")
	}
	if logger.Enabled(zapcore.DebugLevel) {
		t.Error("debug should be disabled at default level")
	}
}

func TestNewLogger_InvalidConfig(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Format = "xml"

	if _, err := NewLogger(cfg, nil); err == nil {
		t.Error("NewLogger() should reject invalid config")
	}
}

func TestLogger_ContextFields(t *testing.T) {
	tl := NewTestLogger()
	ctx := WithRequestID(context.Background(), "req-123")
	ctx = WithCollection(ctx, "docs")

	tl.Info(ctx, "embedding request", zap.Int("batch", 4))

	tl.AssertLogged(t, zapcore.InfoLevel, "embedding request")
	tl.AssertField(t, "embedding request", "request.id", "req-123")
	tl.AssertField(t, "embedding request", "collection", "docs")
}

func TestLogger_TraceLevel(t *testing.T) {
	tl := NewTestLogger()
	ctx := context.Background()

	tl.Trace(ctx, "wire payload")
	tl.AssertLogged(t, TraceLevel, "wire payload")
}

func TestLogger_Children(t *testing.T) {
	tl := NewTestLogger()

	child := tl.Logger.Named("provider").With(zap.String("model", "BAAI/bge-small-en-v1.5"))
	child.Info(context.Background(), "loaded")

	entries := tl.FilterMessage("loaded").All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	if entries[0].LoggerName != "provider" {
		t.Errorf("LoggerName = %q, want provider", entries[0].LoggerName)
	}
}

func TestLogger_FromContext(t *testing.T) {
	tl := NewTestLogger()

	ctx := WithLogger(context.Background(), tl.Logger)
	FromContext(ctx).Info(ctx, "via context")
	tl.AssertLogged(t, zapcore.InfoLevel, "via context")

	// Missing logger falls back to a nop; must not panic.
	FromContext(context.Background()).Info(context.Background(), "dropped")
	tl.AssertNotLogged(t, zapcore.InfoLevel, "dropped")
}
