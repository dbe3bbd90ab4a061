package transcript

import (
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/bmatcuk/doublestar/v4"
)

// Locate returns candidate if it names a readable file, otherwise the most
// recently modified *.jsonl under searchRoot newer than after.
func Locate(candidate, searchRoot string, after time.Time) (string, bool) {
	if candidate != "" {
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, true
		}
	}
	if searchRoot == "" {
		return "", false
	}
	if _, err := os.Stat(searchRoot); err != nil {
		return "", false
	}

	var (
		best    string
		bestMod time.Time
	)
	fsys := os.DirFS(searchRoot)
	err := doublestar.GlobWalk(fsys, "**/*.jsonl", func(path string, d fs.DirEntry) error {
		if d.IsDir() {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return nil
		}
		mod := info.ModTime()
		if !mod.After(after) {
			return nil
		}
		if best == "" || mod.After(bestMod) {
			best = path
			bestMod = mod
		}
		return nil
	})
	if err != nil || best == "" {
		return "", false
	}
	return filepath.Join(searchRoot, filepath.FromSlash(best)), true
}
