package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestAdvisoryAvailable(t *testing.T) {
	tests := []struct {
		name string
		key  string
		want bool
	}{
		{name: "empty", key: "", want: false},
		{name: "sentinel", key: "unset", want: false},
		{name: "sentinel uppercase", key: " UNSET ", want: false},
		{name: "real key", key: "AIza-test", want: true},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			cfg := Config{GeminiAPIKey: tt.key}
			if got := cfg.AdvisoryAvailable(); got != tt.want {
				t.Fatalf("AdvisoryAvailable(%q) = %v, want %v", tt.key, got, tt.want)
			}
		})
	}
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("CLASSIFIER_URL", "http://classifier:5000/")
	t.Setenv("CLASSIFIER_TIMEOUT_SECONDS", "bogus")

	cfg := Load()
	if cfg.AdvisoryAvailable() {
		t.Fatalf("expected advisory unavailable without key")
	}
	if cfg.ClassifierURL != "http://classifier:5000" {
		t.Fatalf("expected trailing slash trimmed, got %q", cfg.ClassifierURL)
	}
	if cfg.ClassifierField != "image" {
		t.Fatalf("expected default field image, got %q", cfg.ClassifierField)
	}
	if cfg.ClassifierTimeout != 60*time.Second {
		t.Fatalf("expected default timeout, got %s", cfg.ClassifierTimeout)
	}
}

func TestLoadEnvFilesDoesNotOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	content := "# comment\nexport AQUABOV_TEST_A=\"from-file\"\nAQUABOV_TEST_B=file-b\nnot a pair\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write env file: %v", err)
	}
	t.Setenv("AQUABOV_TEST_B", "from-env")
	os.Unsetenv("AQUABOV_TEST_A")
	t.Cleanup(func() { os.Unsetenv("AQUABOV_TEST_A") })

	loadEnvFiles(path)

	if got := os.Getenv("AQUABOV_TEST_A"); got != "from-file" {
		t.Fatalf("expected from-file, got %q", got)
	}
	if got := os.Getenv("AQUABOV_TEST_B"); got != "from-env" {
		t.Fatalf("expected env to win, got %q", got)
	}
}
