package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"lexweave/internal/config"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")

	cfg, resolved, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if exists {
		t.Fatal("missing file reported as existing")
	}
	if resolved != path {
		t.Fatalf("resolved = %q", resolved)
	}
	if cfg.Languages.Source != "th" || cfg.Languages.Target != "en" {
		t.Fatalf("languages = %+v", cfg.Languages)
	}
	if cfg.Engine.MaxPasses <= 0 || cfg.Engine.PassTimeout <= 0 {
		t.Fatalf("engine = %+v", cfg.Engine)
	}
	if cfg.Logging.Format != "console" || cfg.Logging.Level != "info" {
		t.Fatalf("logging = %+v", cfg.Logging)
	}
}

func TestLoadParsesAndNormalizes(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `
[paths]
data_dir = "` + filepath.Join(dir, "data") + `"
log_dir = "` + filepath.Join(dir, "logs") + `"

[languages]
source = " th "
target = "en-US"

[engine]
max_passes = 4

[logging]
format = "JSON"
level = " Debug "
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, _, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !exists {
		t.Fatal("existing file not detected")
	}
	if cfg.Languages.Source != "th" || cfg.Languages.Target != "en-US" {
		t.Fatalf("languages = %+v", cfg.Languages)
	}
	if cfg.Engine.MaxPasses != 4 {
		t.Fatalf("max passes = %d", cfg.Engine.MaxPasses)
	}
	if cfg.Logging.Format != "json" || cfg.Logging.Level != "debug" {
		t.Fatalf("logging = %+v", cfg.Logging)
	}
	if cfg.DatabasePath() != filepath.Join(dir, "data", "lexweave.db") {
		t.Fatalf("database path = %q", cfg.DatabasePath())
	}
}

func TestLoadRejectsBadValues(t *testing.T) {
	cases := []struct {
		name    string
		content string
	}{
		{"bad source tag", "[languages]\nsource = \"!!\"\n"},
		{"same pair", "[languages]\nsource = \"en\"\ntarget = \"en\"\n"},
		{"pass bound too high", "[engine]\nmax_passes = 500\n"},
		{"bad log format", "[logging]\nformat = \"xml\"\n"},
		{"bad log level", "[logging]\nlevel = \"loud\"\n"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.toml")
			if err := os.WriteFile(path, []byte(tc.content), 0o644); err != nil {
				t.Fatalf("write config: %v", err)
			}
			if _, _, _, err := config.Load(path); err == nil {
				t.Fatal("expected a validation error")
			}
		})
	}
}

func TestEnvironmentOverrides(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("LEXWEAVE_DATA_DIR", filepath.Join(dir, "env-data"))
	t.Setenv("LEXWEAVE_LOG_LEVEL", "DEBUG")

	cfg, _, _, err := config.Load(filepath.Join(dir, "config.toml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Paths.DataDir != filepath.Join(dir, "env-data") {
		t.Fatalf("data dir = %q", cfg.Paths.DataDir)
	}
	if cfg.Logging.Level != "debug" {
		t.Fatalf("level = %q", cfg.Logging.Level)
	}
}

func TestCreateSampleIsLoadable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample: %v", err)
	}
	if _, _, exists, err := config.Load(path); err != nil || !exists {
		t.Fatalf("Load sample: exists=%v err=%v", exists, err)
	}
}

func TestLanguageTags(t *testing.T) {
	cfg := config.Default()
	if cfg.SourceTag().String() != "th" || cfg.TargetTag().String() != "en" {
		t.Fatalf("tags = %s / %s", cfg.SourceTag(), cfg.TargetTag())
	}
}

func TestExpandPathHome(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skipf("no home directory: %v", err)
	}
	got, err := config.ExpandPath("~/lexweave.toml")
	if err != nil {
		t.Fatalf("ExpandPath: %v", err)
	}
	if got != filepath.Join(home, "lexweave.toml") {
		t.Fatalf("expanded = %q", got)
	}
}
