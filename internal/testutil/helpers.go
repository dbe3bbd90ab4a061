// Package testutil provides reusable test utilities for mci package tests.
package testutil

import (
	"os"
	"path/filepath"
	"strconv"
	"testing"
	"time"
)

// TestEnv provides access to isolated test directories
type TestEnv struct {
	Home       string // Mocked HOME directory
	ProjectDir string // Test project directory
	Base       string // <project>/.claude-memory
	t          *testing.T
}

// SetupTestEnv creates an isolated test environment with mocked HOME.
// Uses t.TempDir() for cleanup and t.Setenv() for env restoration, so tests
// using it must not call t.Parallel.
func SetupTestEnv(t *testing.T) *TestEnv {
	t.Helper()

	tmpHome := t.TempDir()
	tmpProject := t.TempDir()
	base := filepath.Join(tmpProject, ".claude-memory")

	t.Setenv("HOME", tmpHome)
	t.Setenv("CLAUDE_PROJECT_DIR", tmpProject)

	return &TestEnv{
		Home:       tmpHome,
		ProjectDir: tmpProject,
		Base:       base,
		t:          t,
	}
}

// NewEnv is SetupTestEnv without touching process environment, safe for
// parallel tests.
func NewEnv(t *testing.T) *TestEnv {
	t.Helper()

	project := t.TempDir()
	return &TestEnv{
		Home:       t.TempDir(),
		ProjectDir: project,
		Base:       filepath.Join(project, ".claude-memory"),
		t:          t,
	}
}

// CreateFile creates a file with the given content. Relative paths are
// resolved against the project directory.
func (e *TestEnv) CreateFile(path, content string) string {
	e.t.Helper()
	return WriteFile(e.t, e.resolve(path), content)
}

// CreateStoreFile creates a file relative to the store base.
func (e *TestEnv) CreateStoreFile(relPath, content string) string {
	e.t.Helper()
	return WriteFile(e.t, filepath.Join(e.Base, relPath), content)
}

// ReadFile reads a file from the test environment.
func (e *TestEnv) ReadFile(path string) string {
	e.t.Helper()

	data, err := os.ReadFile(e.resolve(path))
	if err != nil {
		e.t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(data)
}

// FileExists checks if a file exists in the test environment.
func (e *TestEnv) FileExists(path string) bool {
	e.t.Helper()

	_, err := os.Stat(e.resolve(path))
	return err == nil
}

// SessionDir returns the directory of a session in the store
func (e *TestEnv) SessionDir(date string, ordinal int) string {
	return filepath.Join(e.Base, "sessions", date, "session-"+strconv.Itoa(ordinal))
}

// SeedSession creates a session directory with a narrative log last
// modified at lastActivity, and returns its path.
func (e *TestEnv) SeedSession(date string, ordinal int, narrative string, lastActivity time.Time) string {
	e.t.Helper()

	dir := e.SessionDir(date, ordinal)
	path := WriteFile(e.t, filepath.Join(dir, "memory.md"), narrative)
	Touch(e.t, path, lastActivity)
	return dir
}

func (e *TestEnv) resolve(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(e.ProjectDir, path)
}

// WriteFile creates parent directories and writes content
func WriteFile(t *testing.T, path, content string) string {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("Failed to create directory for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write file %s: %v", path, err)
	}
	return path
}

// Touch sets both access and modification time of path
func Touch(t *testing.T, path string, at time.Time) {
	t.Helper()

	if err := os.Chtimes(path, at, at); err != nil {
		t.Fatalf("Failed to set mtime on %s: %v", path, err)
	}
}

// Clock returns a clock function pinned to at
func Clock(at time.Time) func() time.Time {
	return func() time.Time { return at }
}

// Noon returns 12:00 local time on the given day
func Noon(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 12, 0, 0, 0, time.Local)
}
