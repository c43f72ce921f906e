package logging

import (
	"context"
	"strings"
	"testing"
)

func TestRequestIDRoundTrip(t *testing.T) {
	ctx := WithRequestID(context.Background(), "req-abc-123")
	if got := RequestIDFromContext(ctx); got != "req-abc-123" {
		t.Errorf("RequestIDFromContext() = %q, want req-abc-123", got)
	}

	if got := RequestIDFromContext(context.Background()); got != "" {
		t.Errorf("RequestIDFromContext(empty) = %q, want empty", got)
	}
}

func TestCollectionRoundTrip(t *testing.T) {
	ctx := WithCollection(context.Background(), "my_docs")
	if got := CollectionFromContext(ctx); got != "my_docs" {
		t.Errorf("CollectionFromContext() = %q, want my_docs", got)
	}
}

func TestWithRequestID_Invalid(t *testing.T) {
	tests := []struct {
		name string
		id   string
	}{
		{"empty", ""},
		{"spaces", "has space"},
		{"slash", "a/b"},
		{"too long", strings.Repeat("x", maxIDLen+1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			defer func() {
				if recover() == nil {
					t.Errorf("WithRequestID(%q) should panic", tt.id)
				}
			}()
			WithRequestID(context.Background(), tt.id)
		})
	}
}

func TestContextFields_Empty(t *testing.T) {
	fields := ContextFields(context.Background())
	if len(fields) != 0 {
		t.Errorf("expected no fields for empty context, got %d", len(fields))
	}
}
