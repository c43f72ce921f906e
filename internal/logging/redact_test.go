package logging

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/fyrsmithlabs/embedd/internal/config"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// encodeWithRedaction runs fields through a redacting JSON encoder and
// returns the serialized entry.
func encodeWithRedaction(t *testing.T, cfg RedactionConfig, fields ...zap.Field) string {
	t.Helper()

	base := zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())
	enc, err := NewRedactingEncoder(base, cfg)
	if err != nil {
		t.Fatalf("NewRedactingEncoder() error = %v", err)
	}

	buf, err := enc.EncodeEntry(zapcore.Entry{
		Level:   zapcore.InfoLevel,
		Time:    time.Now(),
		Message: "test",
	}, fields)
	if err != nil {
		t.Fatalf("EncodeEntry() error = %v", err)
	}
	return buf.String()
}

func TestRedactingEncoder_FieldNames(t *testing.T) {
	cfg := NewDefaultConfig().Redaction

	out := encodeWithRedaction(t, cfg,
		zap.String("api_key", "hf_abcdef123456"),
		zap.String("Authorization", "Bearer tok"),
		zap.String("model", "BAAI/bge-small-en-v1.5"),
	)

	if strings.Contains(out, "hf_abcdef123456") {
		t.Errorf("api_key value leaked: %s", out)
	}
	if strings.Contains(out, "Bearer tok") {
		t.Errorf("authorization value leaked: %s", out)
	}
	if !strings.Contains(out, "BAAI/bge-small-en-v1.5") {
		t.Errorf("non-sensitive field redacted: %s", out)
	}
}

func TestRedactingEncoder_Patterns(t *testing.T) {
	cfg := NewDefaultConfig().Redaction

	out := encodeWithRedaction(t, cfg,
		zap.String("detail", "request used Bearer hf_secret_token"),
	)

	if strings.Contains(out, "hf_secret_token") {
		t.Errorf("bearer pattern leaked: %s", out)
	}
	if !strings.Contains(out, "[REDACTED:pattern]") {
		t.Errorf("expected pattern redaction marker: %s", out)
	}
}

func TestRedactingEncoder_Disabled(t *testing.T) {
	out := encodeWithRedaction(t, RedactionConfig{Enabled: false},
		zap.String("api_key", "plaintext"),
	)

	if !strings.Contains(out, "plaintext") {
		t.Errorf("disabled redaction should pass values through: %s", out)
	}
}

func TestRedactingEncoder_InvalidPattern(t *testing.T) {
	base := zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())
	_, err := NewRedactingEncoder(base, RedactionConfig{
		Enabled:  true,
		Patterns: []string{"[unclosed"},
	})
	if err == nil {
		t.Error("expected error for invalid pattern")
	}
}

func TestSecretField(t *testing.T) {
	tl := NewTestLogger()

	tl.Info(context.Background(), "configured provider", Secret("api_key", config.Secret("hf_secret")))

	entries := tl.FilterMessage("configured provider").All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
}

func TestRedactedString(t *testing.T) {
	f := RedactedString("token", "abcd1234")
	if f.String != "[REDACTED:8]" {
		t.Errorf("RedactedString value = %q, want [REDACTED:8]", f.String)
	}
}
