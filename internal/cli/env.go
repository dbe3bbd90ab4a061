package cli

import (
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/mci-memory/mci/internal/catalog"
	"github.com/mci-memory/mci/internal/config"
	"github.com/mci-memory/mci/internal/snapshot"
	"github.com/mci-memory/mci/internal/store"
	"github.com/mci-memory/mci/internal/transcript"
)

// Env is the resolved context every command and hook runs in
type Env struct {
	ProjectDir string
	Config     *config.Config
	Store      *store.Store
	Now        func() time.Time
	Logger     *slog.Logger
}

// NewEnv binds a project directory to its configuration and store
func NewEnv(projectDir string, cfg *config.Config) *Env {
	return &Env{
		ProjectDir: projectDir,
		Config:     cfg,
		Store:      store.New(config.StorePath(projectDir, cfg)),
		Now:        time.Now,
		Logger:     slog.Default(),
	}
}

// loadEnv resolves the project directory and loads its configuration
func loadEnv(projectDir string) (*Env, error) {
	if projectDir == "" {
		projectDir = os.Getenv("CLAUDE_PROJECT_DIR")
	}
	if projectDir == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, err
		}
		projectDir = cwd
	}
	cfg, err := config.Load(projectDir)
	if err != nil {
		return NewEnv(projectDir, cfg), err
	}
	return NewEnv(projectDir, cfg), nil
}

// Writer returns a snapshot writer for sess
func (e *Env) Writer(sess *store.Session, transcriptPath string) *snapshot.Writer {
	w := snapshot.NewWriter(sess, snapshot.OptionsFromConfig(e.Config), transcriptPath, e.Now)
	w.Logger = e.Logger
	return w
}

// Transcript resolves the transcript to read: candidate when it exists,
// otherwise the newest one under the configured search root modified after
// after
func (e *Env) Transcript(candidate string, after time.Time) (string, bool) {
	root := config.ExpandHome(e.Config.Transcript.SearchRoot)
	return transcript.Locate(candidate, root, after)
}

// CatalogPath returns the catalog database location
func (e *Env) CatalogPath() string {
	p := config.ExpandHome(e.Config.Catalog.Path)
	if filepath.IsAbs(p) {
		return p
	}
	return e.Store.Path(p)
}

// OpenCatalog opens the search catalog; nil with no error when disabled
func (e *Env) OpenCatalog() (*catalog.Catalog, error) {
	if !e.Config.Catalog.Enabled {
		return nil, nil
	}
	return catalog.Open(e.CatalogPath())
}
