package config

import (
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func defaultTestConfig() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

func TestApplyDefaults(t *testing.T) {
	cfg := defaultTestConfig()

	if cfg.Server.Host != "127.0.0.1" {
		t.Errorf("Server.Host = %q, want 127.0.0.1", cfg.Server.Host)
	}
	if cfg.Server.Port != 8090 {
		t.Errorf("Server.Port = %d, want 8090", cfg.Server.Port)
	}
	if cfg.Server.ShutdownTimeout.Duration() != 10*time.Second {
		t.Errorf("Server.ShutdownTimeout = %v, want 10s", cfg.Server.ShutdownTimeout.Duration())
	}
	if cfg.Logging.Level != "info" || cfg.Logging.Format != "json" {
		t.Errorf("Logging defaults = %q/%q, want info/json", cfg.Logging.Level, cfg.Logging.Format)
	}
	if cfg.Observability.Enabled {
		t.Error("Observability.Enabled = true, want false by default")
	}
	if cfg.Observability.ServiceName != "embedd" {
		t.Errorf("Observability.ServiceName = %q, want embedd", cfg.Observability.ServiceName)
	}
	if cfg.Embeddings.Model != "BAAI/bge-small-en-v1.5" {
		t.Errorf("Embeddings.Model = %q, want BAAI/bge-small-en-v1.5", cfg.Embeddings.Model)
	}
	if cfg.VectorStore.DefaultCollection != "embedd_default" {
		t.Errorf("VectorStore.DefaultCollection = %q, want embedd_default", cfg.VectorStore.DefaultCollection)
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:   "defaults are valid",
			mutate: func(*Config) {},
		},
		{
			name:    "port too large",
			mutate:  func(c *Config) { c.Server.Port = 70000 },
			wantErr: "invalid server port",
		},
		{
			name:    "port zero",
			mutate:  func(c *Config) { c.Server.Port = -1 },
			wantErr: "invalid server port",
		},
		{
			name:    "bad logging format",
			mutate:  func(c *Config) { c.Logging.Format = "xml" },
			wantErr: "logging format",
		},
		{
			name: "observability enabled without service name",
			mutate: func(c *Config) {
				c.Observability.Enabled = true
				c.Observability.ServiceName = ""
			},
			wantErr: "service name required",
		},
		{
			name:    "unknown embeddings provider",
			mutate:  func(c *Config) { c.Embeddings.Provider = "cohere" },
			wantErr: "unknown embeddings provider",
		},
		{
			name:    "tei without base URL",
			mutate:  func(c *Config) { c.Embeddings.Provider = "tei" },
			wantErr: "base_url required",
		},
		{
			name: "inference with base URL is valid",
			mutate: func(c *Config) {
				c.Embeddings.Provider = "inference"
				c.Embeddings.BaseURL = "https://api-inference.huggingface.co"
			},
		},
		{
			name:    "bad pooling strategy",
			mutate:  func(c *Config) { c.Embeddings.Pooling = "max" },
			wantErr: "pooling must be",
		},
		{
			name:    "negative concurrency",
			mutate:  func(c *Config) { c.Embeddings.Concurrency = -1 },
			wantErr: "concurrency",
		},
		{
			name:    "zero vector size",
			mutate:  func(c *Config) { c.VectorStore.VectorSize = -5 },
			wantErr: "vector_size",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaultTestConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("Validate() error = %v, want nil", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("Validate() = nil, want error containing %q", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestDuration_UnmarshalText(t *testing.T) {
	var d Duration
	if err := d.UnmarshalText([]byte("90s")); err != nil {
		t.Fatalf("UnmarshalText() error = %v", err)
	}
	if d.Duration() != 90*time.Second {
		t.Errorf("Duration() = %v, want 90s", d.Duration())
	}

	if err := d.UnmarshalText([]byte("-1s")); err == nil {
		t.Error("UnmarshalText() should reject negative durations")
	}
	if err := d.UnmarshalText([]byte("bogus")); err == nil {
		t.Error("UnmarshalText() should reject invalid durations")
	}
}

func TestSecret_Redaction(t *testing.T) {
	s := Secret("hf_super_secret")

	if s.String() != "[REDACTED]" {
		t.Errorf("String() = %q, want [REDACTED]", s.String())
	}
	if s.Value() != "hf_super_secret" {
		t.Errorf("Value() = %q, want raw secret", s.Value())
	}
	if !s.IsSet() {
		t.Error("IsSet() = false, want true")
	}

	data, err := json.Marshal(s)
	if err != nil {
		t.Fatalf("json.Marshal() error = %v", err)
	}
	if string(data) != `"[REDACTED]"` {
		t.Errorf("json.Marshal() = %s, want redacted", data)
	}

	var empty Secret
	if empty.String() != "" {
		t.Errorf("empty String() = %q, want empty", empty.String())
	}
	if empty.IsSet() {
		t.Error("empty IsSet() = true, want false")
	}
}
