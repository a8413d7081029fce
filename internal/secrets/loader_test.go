package secrets

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadFromValue(t *testing.T) {
	got, err := Load(Source{Name: "api key", Value: "  inline-secret \n"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "inline-secret" {
		t.Fatalf("unexpected secret: %q", got)
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("CV_COPILOT_TEST_SECRET", "env-secret")

	got, err := Load(Source{Name: "api key", Env: "CV_COPILOT_TEST_SECRET", Value: "inline"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "env-secret" {
		t.Fatalf("env should take precedence over value, got %q", got)
	}
}

func TestLoadEnvUnsetFallsBackToValue(t *testing.T) {
	got, err := Load(Source{Name: "api key", Env: "CV_COPILOT_UNSET_SECRET", Value: "inline"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "inline" {
		t.Fatalf("unexpected secret: %q", got)
	}
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "secret")
	if err := os.WriteFile(path, []byte("file-secret\n"), 0o600); err != nil {
		t.Fatalf("writing secret file: %v", err)
	}

	t.Setenv("CV_COPILOT_TEST_SECRET", "env-secret")

	got, err := Load(Source{
		Name:  "api key",
		File:  path,
		Env:   "CV_COPILOT_TEST_SECRET",
		Value: "inline",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "file-secret" {
		t.Fatalf("file should take precedence, got %q", got)
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(Source{Name: "api key", File: filepath.Join(t.TempDir(), "absent")})
	if err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestLoadEmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "secret")
	if err := os.WriteFile(path, []byte("   \n"), 0o600); err != nil {
		t.Fatalf("writing secret file: %v", err)
	}

	_, err := Load(Source{Name: "api key", File: path})
	if err == nil {
		t.Fatalf("expected error for empty file")
	}
}

func TestLoadNothingConfigured(t *testing.T) {
	_, err := Load(Source{Name: "openai api key"})
	if err == nil {
		t.Fatalf("expected error when nothing is configured")
	}
}
