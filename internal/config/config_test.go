package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func noDotEnv(t *testing.T) string {
	t.Helper()
	return envEnvFile + "=" + filepath.Join(t.TempDir(), "absent.env")
}

func TestLoadArgsDefaults(t *testing.T) {
	cfg, err := LoadArgs(nil, []string{noDotEnv(t)})
	if err != nil {
		t.Fatalf("LoadArgs: %v", err)
	}
	if cfg.API.BaseURL != DefaultAPIURL {
		t.Fatalf("base url = %q", cfg.API.BaseURL)
	}
	if cfg.API.Timeout != 0 {
		t.Fatalf("requests must be unbounded by default, got %s", cfg.API.Timeout)
	}
	if cfg.Catalog != "" || cfg.Logging.FilePath != "" || cfg.Logging.Trace {
		t.Fatalf("unexpected defaults: %#v", cfg)
	}
	if !cfg.UI.AltScreen {
		t.Fatal("alt screen should be on by default")
	}
}

func TestLoadArgsPrecedence(t *testing.T) {
	dotenv := filepath.Join(t.TempDir(), ".env")
	contents := strings.Join([]string{
		"BENOTES_API_URL=https://dotenv.example",
		"BENOTES_CATALOG=dotenv.yaml",
		"BENOTES_LOG_FILE=dotenv.log",
	}, "\n")
	if err := os.WriteFile(dotenv, []byte(contents), 0o644); err != nil {
		t.Fatal(err)
	}

	environ := []string{
		envEnvFile + "=" + dotenv,
		"BENOTES_CATALOG=env.yaml",
		"BENOTES_LOG_FILE=env.log",
		"BENOTES_TRACE=true",
		"BENOTES_TIMEOUT=15",
	}
	args := []string{"-log-file", "flag.log", "-no-alt-screen"}

	cfg, err := LoadArgs(args, environ)
	if err != nil {
		t.Fatalf("LoadArgs: %v", err)
	}

	tests := []struct {
		name string
		got  string
		want string
	}{
		{"dotenv fills unset api url", cfg.API.BaseURL, "https://dotenv.example"},
		{"env beats dotenv", cfg.Catalog, "env.yaml"},
		{"flag beats env", cfg.Logging.FilePath, "flag.log"},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Fatalf("%s: got %q, want %q", tt.name, tt.got, tt.want)
		}
	}
	if !cfg.Logging.Trace {
		t.Fatal("trace from env not applied")
	}
	if cfg.API.Timeout != 15*time.Second {
		t.Fatalf("timeout = %s", cfg.API.Timeout)
	}
	if cfg.UI.AltScreen {
		t.Fatal("-no-alt-screen not applied")
	}
}

func TestLoadArgsTimeoutFormats(t *testing.T) {
	cfg, err := LoadArgs([]string{"-timeout", "2m"}, []string{noDotEnv(t), "BENOTES_TIMEOUT=5"})
	if err != nil {
		t.Fatal(err)
	}
	if cfg.API.Timeout != 2*time.Minute {
		t.Fatalf("timeout = %s", cfg.API.Timeout)
	}
	cfg, err = LoadArgs(nil, []string{noDotEnv(t), "BENOTES_TIMEOUT=750ms"})
	if err != nil {
		t.Fatal(err)
	}
	if cfg.API.Timeout != 750*time.Millisecond {
		t.Fatalf("timeout = %s", cfg.API.Timeout)
	}
}

func TestLoadArgsTrimsTrailingSlash(t *testing.T) {
	cfg, err := LoadArgs([]string{"-api-url", "http://localhost:3000/"}, []string{noDotEnv(t)})
	if err != nil {
		t.Fatal(err)
	}
	if cfg.API.BaseURL != "http://localhost:3000" {
		t.Fatalf("base url = %q", cfg.API.BaseURL)
	}
}

func TestLoadArgsRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"unknown flag", []string{"-bogus"}},
		{"no scheme", []string{"-api-url", "notes.example"}},
		{"ftp scheme", []string{"-api-url", "ftp://notes.example"}},
		{"no host", []string{"-api-url", "https://"}},
		{"negative timeout", []string{"-timeout", "-1s"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := LoadArgs(tt.args, []string{noDotEnv(t)}); err == nil {
				t.Fatalf("expected error for %v", tt.args)
			}
		})
	}
}
