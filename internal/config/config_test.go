package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, homeDir, content string) {
	t.Helper()

	dir := filepath.Join(homeDir, ConfigDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("failed to create config dir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, ConfigFileName), []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}
}

func TestLoadFromDir_NoFile(t *testing.T) {
	t.Setenv("TODOHUB_BIND", "")
	t.Setenv("TODOHUB_DB", "")

	homeDir := t.TempDir()
	cfg, err := LoadFromDir(homeDir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.ServerHost != DefaultHost {
		t.Errorf("expected host %s, got %s", DefaultHost, cfg.ServerHost)
	}
	if cfg.ServerPort != DefaultPort {
		t.Errorf("expected port %d, got %d", DefaultPort, cfg.ServerPort)
	}
	wantDB := filepath.Join(homeDir, ConfigDir, DefaultDBFileName)
	if cfg.DBPath != wantDB {
		t.Errorf("expected db path %s, got %s", wantDB, cfg.DBPath)
	}
	if cfg.Addr() != "localhost:8714" {
		t.Errorf("expected default addr, got %s", cfg.Addr())
	}
}

func TestLoadFromDir_WithFile(t *testing.T) {
	t.Setenv("TODOHUB_BIND", "")
	t.Setenv("TODOHUB_DB", "")

	homeDir := t.TempDir()
	writeConfig(t, homeDir, `
[server]
host = "0.0.0.0"
port = 9000

[database]
path = "/var/lib/todohub/data.db"
`)

	cfg, err := LoadFromDir(homeDir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.ServerHost != "0.0.0.0" {
		t.Errorf("expected host 0.0.0.0, got %s", cfg.ServerHost)
	}
	if cfg.ServerPort != 9000 {
		t.Errorf("expected port 9000, got %d", cfg.ServerPort)
	}
	if cfg.DBPath != "/var/lib/todohub/data.db" {
		t.Errorf("unexpected db path %s", cfg.DBPath)
	}
}

func TestLoadFromDir_PartialFile(t *testing.T) {
	t.Setenv("TODOHUB_BIND", "")
	t.Setenv("TODOHUB_DB", "")

	homeDir := t.TempDir()
	writeConfig(t, homeDir, `
[server]
port = 3333
`)

	cfg, err := LoadFromDir(homeDir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.ServerHost != DefaultHost {
		t.Errorf("expected default host, got %s", cfg.ServerHost)
	}
	if cfg.ServerPort != 3333 {
		t.Errorf("expected port 3333, got %d", cfg.ServerPort)
	}
}

func TestLoadFromDir_InvalidTOML(t *testing.T) {
	homeDir := t.TempDir()
	writeConfig(t, homeDir, "not [valid toml")

	if _, err := LoadFromDir(homeDir); err == nil {
		t.Errorf("expected error for invalid TOML")
	}
}

func TestLoadFromDir_EnvOverrides(t *testing.T) {
	homeDir := t.TempDir()
	writeConfig(t, homeDir, `
[server]
host = "filehost"
port = 1111
`)

	t.Setenv("TODOHUB_BIND", "envhost:2222")
	t.Setenv("TODOHUB_DB", "/tmp/env.db")

	cfg, err := LoadFromDir(homeDir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.ServerHost != "envhost" || cfg.ServerPort != 2222 {
		t.Errorf("expected env bind override, got %s:%d", cfg.ServerHost, cfg.ServerPort)
	}
	if cfg.DBPath != "/tmp/env.db" {
		t.Errorf("expected env db override, got %s", cfg.DBPath)
	}
}

func TestSplitBind(t *testing.T) {
	tests := []struct {
		bind string
		host string
		port int
		ok   bool
	}{
		{"localhost:8714", "localhost", 8714, true},
		{":8080", "", 8080, true},
		{"noport", "", 0, false},
		{"host:notanumber", "", 0, false},
	}

	for _, tt := range tests {
		host, port, ok := splitBind(tt.bind)
		if ok != tt.ok || host != tt.host || port != tt.port {
			t.Errorf("splitBind(%q) = %q, %d, %v; want %q, %d, %v",
				tt.bind, host, port, ok, tt.host, tt.port, tt.ok)
		}
	}
}
