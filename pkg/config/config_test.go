package config

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"
)

func TestParseTemplate(t *testing.T) {
	cfg, err := Parse([]byte(Template))
	if err != nil {
		t.Fatalf("Parse(Template) returned error: %v", err)
	}
	if cfg.Repository.Name != "my-repository" || cfg.Repository.BaseURL != "https://example.com/data" {
		t.Fatalf("unexpected repository: %+v", cfg.Repository)
	}
	if cfg.Source.Type != SourceDir || len(cfg.Source.Exclude) != 4 {
		t.Fatalf("unexpected source: %+v", cfg.Source)
	}

	var raw map[string]any
	if err := yaml.Unmarshal([]byte(Template), &raw); err != nil {
		t.Fatalf("template is not valid yaml: %v", err)
	}
}

func TestParseAppliesDefaults(t *testing.T) {
	cfg, err := Parse([]byte("repository:\n  name: wh40k\n  base_url: https://example.com/data\n"))
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if cfg.Version != CurrentVersion {
		t.Fatalf("expected version %d got %d", CurrentVersion, cfg.Version)
	}
	if cfg.Source.Type != SourceDir || cfg.Source.Path != "." {
		t.Fatalf("unexpected source defaults: %+v", cfg.Source)
	}
	if cfg.Output.Dir != "out" || cfg.Output.Backup != BackupNone {
		t.Fatalf("unexpected output defaults: %+v", cfg.Output)
	}
	if cfg.Log.Level != "info" || cfg.Log.Format != "console" {
		t.Fatalf("unexpected log defaults: %+v", cfg.Log)
	}
}

func TestParseEnvironmentOverrides(t *testing.T) {
	t.Setenv("BSINDEX_REPOSITORY_BASE_URL", "https://mirror.example.com/data")
	t.Setenv("BSINDEX_SOURCE_EXCLUDE", "a/**, b/**")
	t.Setenv("BSINDEX_BUILD_WORKERS", "3")

	cfg, err := Parse([]byte(Template))
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if cfg.Repository.BaseURL != "https://mirror.example.com/data" {
		t.Fatalf("expected env base_url, got %q", cfg.Repository.BaseURL)
	}
	if len(cfg.Source.Exclude) != 2 || cfg.Source.Exclude[0] != "a/**" || cfg.Source.Exclude[1] != "b/**" {
		t.Fatalf("expected env exclude list to replace the file list, got %v", cfg.Source.Exclude)
	}
	if cfg.Build.Workers != 3 {
		t.Fatalf("expected workers=3 got %d", cfg.Build.Workers)
	}
}

func TestParseKeepsFileListWithoutEnvOverride(t *testing.T) {
	t.Setenv("BSINDEX_BUILD_WORKERS", "2")

	cfg, err := Parse([]byte(Template))
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	want := []string{".github/**", "**/*.md", "out/**", "bsindex.*"}
	if !reflect.DeepEqual(cfg.Source.Exclude, want) {
		t.Fatalf("expected file exclude list %v, got %v", want, cfg.Source.Exclude)
	}
	if cfg.Build.Workers != 2 {
		t.Fatalf("expected workers=2 got %d", cfg.Build.Workers)
	}
}

func TestParseValidationErrors(t *testing.T) {
	tests := []struct {
		name  string
		body  string
		field string
	}{
		{name: "missing name", body: "repository:\n  base_url: https://example.com\n", field: "repository.name"},
		{name: "bad url", body: "repository:\n  name: r\n  base_url: not-a-url\n", field: "repository.base_url"},
		{name: "bad source", body: "repository:\n  name: r\n  base_url: https://example.com\nsource:\n  type: http\n", field: "source.type"},
		{name: "bad mode", body: "repository:\n  name: r\n  base_url: https://example.com\noutput:\n  mode: \"999\"\n", field: "output.mode"},
		{name: "bad version", body: "version: 7\nrepository:\n  name: r\n  base_url: https://example.com\n", field: "version"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.body))
			if !errors.Is(err, ErrInvalidConfig) {
				t.Fatalf("expected ErrInvalidConfig, got %v", err)
			}
			if !strings.Contains(err.Error(), tt.field) {
				t.Fatalf("expected %q in error, got %v", tt.field, err)
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), DefaultFileName))
	if !errors.Is(err, ErrInvalidConfig) || !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected missing config error, got %v", err)
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultFileName)
	if err := os.WriteFile(path, []byte(Template), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := Load(path); err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
}

func TestParseFileMode(t *testing.T) {
	mode, err := ParseFileMode("")
	if err != nil || mode != 0o644 {
		t.Fatalf("expected default 0644, got %o err=%v", mode, err)
	}
	mode, err = ParseFileMode("0755")
	if err != nil || mode != 0o755 {
		t.Fatalf("expected 0755, got %o err=%v", mode, err)
	}
	if _, err := ParseFileMode("rw"); err == nil {
		t.Fatalf("expected error for non-octal mode")
	}
}
