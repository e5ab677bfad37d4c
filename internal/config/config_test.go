package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/abhisek/worksheetz/internal/validate"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Defaults.Subject != "math" {
		t.Errorf("expected default subject 'math', got %q", cfg.Defaults.Subject)
	}
	if cfg.Defaults.Grade != 0 {
		t.Errorf("expected no default grade, got %d", cfg.Defaults.Grade)
	}
	if cfg.Server.Addr != ":8080" {
		t.Errorf("expected server addr ':8080', got %q", cfg.Server.Addr)
	}
	if cfg.Engine.MinQuestionLength != 10 {
		t.Errorf("expected min question length 10, got %d", cfg.Engine.MinQuestionLength)
	}
	if cfg.Engine.MinInstructionLength != 3 {
		t.Errorf("expected min instruction length 3, got %d", cfg.Engine.MinInstructionLength)
	}
}

func TestLoadFromPath(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	configContent := `
db: /tmp/runs.db
defaults:
  subject: history
  grade: 6
server:
  addr: 127.0.0.1:9000
engine:
  min_question_length: 12
  number_ceilings:
    1: 10
    2: 50
`
	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	cfg, err := LoadFromPath(configPath)
	if err != nil {
		t.Fatalf("LoadFromPath failed: %v", err)
	}

	if cfg.DB != "/tmp/runs.db" {
		t.Errorf("expected db '/tmp/runs.db', got %q", cfg.DB)
	}
	if cfg.Defaults.Subject != "history" || cfg.Defaults.Grade != 6 {
		t.Errorf("unexpected defaults: %+v", cfg.Defaults)
	}
	if cfg.Server.Addr != "127.0.0.1:9000" {
		t.Errorf("expected server addr '127.0.0.1:9000', got %q", cfg.Server.Addr)
	}
	if cfg.Engine.MinQuestionLength != 12 {
		t.Errorf("expected min question length 12, got %d", cfg.Engine.MinQuestionLength)
	}
	if cfg.Engine.MinInstructionLength != 3 {
		t.Errorf("expected default min instruction length 3, got %d", cfg.Engine.MinInstructionLength)
	}

	ec, err := cfg.EngineConfig()
	if err != nil {
		t.Fatalf("EngineConfig failed: %v", err)
	}
	if ec.NumberCeilings[1] != 10 || ec.NumberCeilings[2] != 50 {
		t.Errorf("ceilings not overlaid: %v", ec.NumberCeilings)
	}
	if ec.NumberCeilings[3] != 1_000 {
		t.Errorf("grade 3 should keep its default ceiling, got %d", ec.NumberCeilings[3])
	}
	if ec.MinQuestionLength != 12 {
		t.Errorf("expected engine min question length 12, got %d", ec.MinQuestionLength)
	}
}

func TestLoadFromPath_Missing(t *testing.T) {
	if _, err := LoadFromPath(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error for missing config file")
	}
}

func TestLoad_NoUserConfig(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Server.Addr != ":8080" {
		t.Errorf("expected defaults, got %+v", cfg)
	}
}

func TestLoad_UserConfig(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	if err := os.MkdirAll(filepath.Join(dir, "worksheetz"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "worksheetz", "config.yaml"), []byte("defaults:\n  grade: 4\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Defaults.Grade != 4 {
		t.Errorf("expected grade 4, got %d", cfg.Defaults.Grade)
	}
	if UserConfigPath() != filepath.Join(dir, "worksheetz", "config.yaml") {
		t.Errorf("unexpected user config path %q", UserConfigPath())
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("WORKSHEETZ_SERVER_ADDR", ":7777")
	t.Setenv("WORKSHEETZ_DEFAULTS_GRADE", "9")
	t.Setenv("WORKSHEETZ_ENGINE_MIN_QUESTION_LENGTH", "20")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Server.Addr != ":7777" {
		t.Errorf("expected env addr, got %q", cfg.Server.Addr)
	}
	if cfg.Defaults.Grade != 9 {
		t.Errorf("expected env grade 9, got %d", cfg.Defaults.Grade)
	}
	if cfg.Engine.MinQuestionLength != 20 {
		t.Errorf("expected env min question length 20, got %d", cfg.Engine.MinQuestionLength)
	}
}

func TestEngineConfig_Defaults(t *testing.T) {
	ec, err := Default().EngineConfig()
	if err != nil {
		t.Fatalf("EngineConfig failed: %v", err)
	}
	def := validate.DefaultConfig()
	if ec.MinQuestionLength != def.MinQuestionLength || len(ec.NumberCeilings) != len(def.NumberCeilings) {
		t.Errorf("expected engine defaults, got %+v", ec)
	}
}

func TestEngineConfig_InvalidGrade(t *testing.T) {
	for _, key := range []string{"0", "12", "first"} {
		cfg := Default()
		cfg.Engine.NumberCeilings = map[string]int64{key: 10}
		if _, err := cfg.EngineConfig(); err == nil {
			t.Errorf("grade key %q: expected error", key)
		}
	}
}

func TestEngineConfig_NonPositiveCeiling(t *testing.T) {
	cfg := Default()
	cfg.Engine.NumberCeilings = map[string]int64{"5": 0}
	if _, err := cfg.EngineConfig(); err == nil {
		t.Error("expected error for zero ceiling")
	}
}
