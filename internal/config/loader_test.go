package config

import (
	"bytes"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

// writeTestConfig writes a config file under a fake home's allowed directory
// and returns its path. HOME is redirected to the temp dir for the test.
func writeTestConfig(t *testing.T, content string, perm os.FileMode) string {
	t.Helper()

	home := t.TempDir()
	t.Setenv("HOME", home)

	configDir := filepath.Join(home, ".config", "embedd")
	if err := os.MkdirAll(configDir, 0700); err != nil {
		t.Fatalf("Failed to create config dir: %v", err)
	}

	configPath := filepath.Join(configDir, "config.yaml")
	if err := os.WriteFile(configPath, []byte(content), perm); err != nil {
		t.Fatalf("Failed to write test config: %v", err)
	}
	return configPath
}

func TestLoadWithFile_ValidYAML(t *testing.T) {
	configPath := writeTestConfig(t, `server:
  http_port: 9090

embeddings:
  provider: tei
  base_url: http://localhost:8080
  model: BAAI/bge-base-en-v1.5

vectorstore:
  default_collection: docs
  vector_size: 768
`, 0600)

	cfg, err := LoadWithFile(configPath)
	if err != nil {
		t.Fatalf("LoadWithFile() error = %v, want nil", err)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("Server.Port = %d, want 9090", cfg.Server.Port)
	}
	if cfg.Embeddings.Provider != "tei" {
		t.Errorf("Embeddings.Provider = %q, want tei", cfg.Embeddings.Provider)
	}
	if cfg.Embeddings.Model != "BAAI/bge-base-en-v1.5" {
		t.Errorf("Embeddings.Model = %q, want BAAI/bge-base-en-v1.5", cfg.Embeddings.Model)
	}
	if cfg.VectorStore.DefaultCollection != "docs" {
		t.Errorf("VectorStore.DefaultCollection = %q, want docs", cfg.VectorStore.DefaultCollection)
	}
	if cfg.VectorStore.VectorSize != 768 {
		t.Errorf("VectorStore.VectorSize = %d, want 768", cfg.VectorStore.VectorSize)
	}
}

func TestLoadWithFile_EnvironmentOverride(t *testing.T) {
	configPath := writeTestConfig(t, `server:
  http_port: 9090

embeddings:
  provider: tei
  base_url: http://yaml-host:8080
`, 0600)

	t.Setenv("SERVER_HTTP_PORT", "7777")
	t.Setenv("EMBEDDINGS_BASE_URL", "http://env-host:8080")

	cfg, err := LoadWithFile(configPath)
	if err != nil {
		t.Fatalf("LoadWithFile() error = %v, want nil", err)
	}

	if cfg.Server.Port != 7777 {
		t.Errorf("Server.Port = %d, want 7777 (from env override)", cfg.Server.Port)
	}
	if cfg.Embeddings.BaseURL != "http://env-host:8080" {
		t.Errorf("Embeddings.BaseURL = %q, want env override", cfg.Embeddings.BaseURL)
	}
}

func TestLoadWithFile_MissingFile(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	configPath := filepath.Join(home, ".config", "embedd", "config.yaml")

	cfg, err := LoadWithFile(configPath)
	if err != nil {
		t.Fatalf("LoadWithFile() should not error on missing file, got: %v", err)
	}

	// Defaults apply when no file exists.
	if cfg.Server.Port != 8090 {
		t.Errorf("Server.Port = %d, want default 8090", cfg.Server.Port)
	}
	if cfg.Embeddings.Model != "BAAI/bge-small-en-v1.5" {
		t.Errorf("Embeddings.Model = %q, want default model", cfg.Embeddings.Model)
	}
	if cfg.VectorStore.VectorSize != 384 {
		t.Errorf("VectorStore.VectorSize = %d, want default 384", cfg.VectorStore.VectorSize)
	}
}

func TestLoadWithFile_InvalidYAML(t *testing.T) {
	configPath := writeTestConfig(t, `server:
  http_port: [not
  closed
`, 0600)

	if _, err := LoadWithFile(configPath); err == nil {
		t.Error("LoadWithFile() should error on invalid YAML, got nil")
	}
}

func TestLoadWithFile_Validation(t *testing.T) {
	configPath := writeTestConfig(t, `server:
  http_port: 99999
`, 0600)

	if _, err := LoadWithFile(configPath); err == nil {
		t.Error("LoadWithFile() should error on invalid port, got nil")
	}
}

func TestLoadWithFile_PathTraversal(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	_, err := LoadWithFile("../../../../etc/passwd")
	if err == nil {
		t.Fatal("Expected error for path traversal, got nil")
	}
	if !strings.Contains(err.Error(), "must be in ~/.config/embedd/ or /etc/embedd/") {
		t.Errorf("Expected path validation error, got: %v", err)
	}
}

func TestLoadWithFile_InsecurePermissions(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("Skipping permission test on Windows")
	}

	configPath := writeTestConfig(t, "server:\n  http_port: 9090\n", 0644)

	_, err := LoadWithFile(configPath)
	if err == nil {
		t.Fatal("Expected error for insecure permissions, got nil")
	}
	if !strings.Contains(err.Error(), "insecure") {
		t.Errorf("Expected 'insecure permissions' error, got: %v", err)
	}
}

func TestLoadWithFile_SecurePermissions(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("Skipping permission test on Windows")
	}

	configPath := writeTestConfig(t, "server:\n  http_port: 9090\n", 0600)

	cfg, err := LoadWithFile(configPath)
	if err != nil {
		t.Fatalf("LoadWithFile() should succeed with 0600 permissions, got error: %v", err)
	}
	if cfg.Server.Port != 9090 {
		t.Errorf("Server.Port = %d, want 9090", cfg.Server.Port)
	}
}

func TestLoadWithFile_FileTooLarge(t *testing.T) {
	largeContent := bytes.Repeat([]byte("# comment line\n"), 150000) // ~2MB
	configPath := writeTestConfig(t, string(largeContent), 0600)

	_, err := LoadWithFile(configPath)
	if err == nil {
		t.Fatal("Expected error for large file, got nil")
	}
	if !strings.Contains(err.Error(), "too large") {
		t.Errorf("Expected 'too large' error, got: %v", err)
	}
}
