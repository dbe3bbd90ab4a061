package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()

	if cfg.Version != "1" {
		t.Errorf("Expected version '1', got '%s'", cfg.Version)
	}

	if cfg.Session.ResumeWindow != 4*time.Hour {
		t.Errorf("Expected 4h resume window, got %s", cfg.Session.ResumeWindow)
	}

	if cfg.Session.CrashGrace != time.Minute {
		t.Errorf("Expected 60s crash grace, got %s", cfg.Session.CrashGrace)
	}

	if cfg.Store.LookbackDays != 7 {
		t.Errorf("Expected 7 lookback days, got %d", cfg.Store.LookbackDays)
	}

	p := cfg.Pressure
	if !(p.Advisory < p.Warning && p.Warning < p.Emergency && p.Emergency <= p.ContextLimit) {
		t.Errorf("Expected ascending pressure thresholds, got %+v", p)
	}
}

func TestWriteDefault(t *testing.T) {
	t.Parallel()
	tmpDir := t.TempDir()

	path := filepath.Join(tmpDir, "config.yaml")
	if err := WriteDefault(path); err != nil {
		t.Fatalf("WriteDefault failed: %v", err)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read config: %v", err)
	}

	if !strings.Contains(string(content), "resume_window: 4h") {
		t.Error("Expected resume_window in template")
	}

	// The template must round-trip through the loader unchanged
	cfg := DefaultConfig()
	if err := loadFile(path, cfg); err != nil {
		t.Fatalf("loadFile failed: %v", err)
	}
	if cfg.Session.ResumeWindow != 4*time.Hour {
		t.Errorf("Expected 4h after reload, got %s", cfg.Session.ResumeWindow)
	}
	if cfg.Pressure.Warning != 850000 {
		t.Errorf("Expected warning threshold 850000, got %d", cfg.Pressure.Warning)
	}
}

func TestLoadMergesProjectAndEnv(t *testing.T) {
	home := t.TempDir()
	project := t.TempDir()
	t.Setenv("HOME", home)

	if err := os.MkdirAll(filepath.Join(home, ".mci"), 0755); err != nil {
		t.Fatal(err)
	}
	global := "session:\n  resume_window: 2h\nstore:\n  lookback_days: 3\n"
	if err := os.WriteFile(filepath.Join(home, ".mci", "config.yaml"), []byte(global), 0644); err != nil {
		t.Fatal(err)
	}

	if err := os.MkdirAll(filepath.Join(project, ".claude-memory"), 0755); err != nil {
		t.Fatal(err)
	}
	proj := "session:\n  crash_grace: 30s\n"
	if err := os.WriteFile(filepath.Join(project, ".claude-memory", "config.yaml"), []byte(proj), 0644); err != nil {
		t.Fatal(err)
	}

	t.Setenv("MCI_PRESSURE_WARNING", "800000")

	cfg, err := Load(project)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Session.ResumeWindow != 2*time.Hour {
		t.Errorf("Expected global resume window 2h, got %s", cfg.Session.ResumeWindow)
	}
	if cfg.Session.CrashGrace != 30*time.Second {
		t.Errorf("Expected project crash grace 30s, got %s", cfg.Session.CrashGrace)
	}
	if cfg.Store.LookbackDays != 3 {
		t.Errorf("Expected 3 lookback days, got %d", cfg.Store.LookbackDays)
	}
	if cfg.Pressure.Warning != 800000 {
		t.Errorf("Expected env warning threshold 800000, got %d", cfg.Pressure.Warning)
	}
	// Untouched keys keep their defaults
	if cfg.Pressure.Emergency != 950000 {
		t.Errorf("Expected default emergency threshold, got %d", cfg.Pressure.Emergency)
	}
}

func TestLoadWithoutFiles(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cfg, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Snapshot.CheckpointInterval != 10 {
		t.Errorf("Expected default checkpoint interval, got %d", cfg.Snapshot.CheckpointInterval)
	}
}

func TestStorePath(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	if got := StorePath("/work/proj", cfg); got != filepath.Join("/work/proj", ".claude-memory") {
		t.Errorf("Unexpected store path %s", got)
	}

	cfg.Store.Dir = "/var/mci"
	if got := StorePath("/work/proj", cfg); got != "/var/mci" {
		t.Errorf("Expected absolute store dir to win, got %s", got)
	}
}
