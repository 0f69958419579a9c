package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func validConfig(t *testing.T) *Config {
	t.Helper()
	cfg := DefaultConfig()
	cfg.Directory = t.TempDir()
	return cfg
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Mode != "stdio" {
		t.Errorf("Expected default mode to be 'stdio', got '%s'", cfg.Mode)
	}
	if cfg.Host != "127.0.0.1" {
		t.Errorf("Expected default host to be '127.0.0.1', got '%s'", cfg.Host)
	}
	if cfg.Port != 8080 {
		t.Errorf("Expected default port to be 8080, got %d", cfg.Port)
	}
	if cfg.ServerName != "mcp-doc-analyzer" {
		t.Errorf("Expected default server name to be 'mcp-doc-analyzer', got '%s'", cfg.ServerName)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("Expected default log level to be 'info', got '%s'", cfg.LogLevel)
	}
	if cfg.MaxFileSize != 50*1024*1024 {
		t.Errorf("Expected default max file size to be 50MB, got %d", cfg.MaxFileSize)
	}
	if cfg.MaxTextLength != 100000 {
		t.Errorf("Expected default max text length to be 100000, got %d", cfg.MaxTextLength)
	}
	if cfg.Workers != 4 {
		t.Errorf("Expected default workers to be 4, got %d", cfg.Workers)
	}
	if cfg.Format != "json" {
		t.Errorf("Expected default format to be 'json', got '%s'", cfg.Format)
	}
	if cfg.HistoryEnabled() {
		t.Error("Expected history to be disabled by default")
	}

	currentDir, _ := os.Getwd()
	if cfg.Directory != currentDir {
		t.Errorf("Expected default directory to be '%s', got '%s'", currentDir, cfg.Directory)
	}
}

func TestConfigValidate(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "missing.yaml")

	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr string
	}{
		{name: "valid stdio", modify: func(*Config) {}},
		{name: "valid server", modify: func(c *Config) { c.Mode = ModeServer }},
		{name: "valid analyze", modify: func(c *Config) { c.Mode = ModeAnalyze; c.Format = "text" }},
		{name: "unlimited text", modify: func(c *Config) { c.MaxTextLength = 0 }},
		{name: "invalid mode", modify: func(c *Config) { c.Mode = "invalid" }, wantErr: "mode must be"},
		{name: "invalid port in server mode", modify: func(c *Config) { c.Mode = ModeServer; c.Port = 70000 }, wantErr: "port must be"},
		{name: "port ignored in stdio mode", modify: func(c *Config) { c.Port = 0 }},
		{name: "empty directory", modify: func(c *Config) { c.Directory = "" }, wantErr: "directory cannot be empty"},
		{name: "zero file size", modify: func(c *Config) { c.MaxFileSize = 0 }, wantErr: "file size must be positive"},
		{name: "negative text length", modify: func(c *Config) { c.MaxTextLength = -1 }, wantErr: "text length"},
		{name: "no workers", modify: func(c *Config) { c.Workers = 0 }, wantErr: "workers"},
		{name: "bad format", modify: func(c *Config) { c.Format = "xml" }, wantErr: "invalid format"},
		{name: "missing knowledge base", modify: func(c *Config) { c.KnowledgeBase = missing }, wantErr: "knowledge base"},
		{name: "missing lexicon", modify: func(c *Config) { c.Lexicon = missing }, wantErr: "lexicon"},
		{name: "bad log level", modify: func(c *Config) { c.LogLevel = "trace" }, wantErr: "invalid log level"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig(t)
			tt.modify(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() error = %v, want %q", err, tt.wantErr)
			}
		})
	}
}

func TestConfigValidateDirectoryCreation(t *testing.T) {
	cfg := validConfig(t)
	cfg.Directory = filepath.Join(cfg.Directory, "nested", "docs")

	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() unexpected error: %v", err)
	}
	if info, err := os.Stat(cfg.Directory); err != nil || !info.IsDir() {
		t.Errorf("Expected directory %s to be created", cfg.Directory)
	}
}

func TestConfigAddress(t *testing.T) {
	cfg := &Config{Host: "0.0.0.0", Port: 9090}
	if got := cfg.Address(); got != "0.0.0.0:9090" {
		t.Errorf("Address() = %s, want 0.0.0.0:9090", got)
	}
}

func TestConfigModes(t *testing.T) {
	tests := []struct {
		mode                   string
		stdio, server, analyze bool
	}{
		{mode: ModeStdio, stdio: true},
		{mode: ModeServer, server: true},
		{mode: ModeAnalyze, analyze: true},
	}

	for _, tt := range tests {
		t.Run(tt.mode, func(t *testing.T) {
			cfg := &Config{Mode: tt.mode}
			if cfg.IsStdioMode() != tt.stdio || cfg.IsServerMode() != tt.server || cfg.IsAnalyzeMode() != tt.analyze {
				t.Errorf("mode predicates wrong for %s", tt.mode)
			}
		})
	}
}

func TestConfigIsDebug(t *testing.T) {
	for level, want := range map[string]bool{"debug": true, "info": false, "error": false} {
		cfg := &Config{LogLevel: level}
		if cfg.IsDebug() != want {
			t.Errorf("IsDebug() for %s = %t, want %t", level, cfg.IsDebug(), want)
		}
	}
}

func TestConfigString(t *testing.T) {
	cfg := &Config{Mode: "server", Host: "localhost", Port: 8080, Directory: "/docs", LogLevel: "info", History: "h.db"}
	s := cfg.String()
	for _, want := range []string{"Mode: server", "Port: 8080", "Directory: /docs", "History: true"} {
		if !strings.Contains(s, want) {
			t.Errorf("String() = %s, missing %q", s, want)
		}
	}
}
