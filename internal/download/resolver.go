package download

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Resolve locates the engine's output for prefix and ext inside dir.
//
// The exact name <prefix>.<ext> wins when present. Otherwise every regular
// file starting with prefix and ending (case-insensitively) in .<ext> is a
// candidate; the most recently modified one is returned, ties broken by name.
func Resolve(dir, prefix, ext string) (string, error) {
	ext = strings.TrimPrefix(ext, ".")

	exact := filepath.Join(dir, prefix+"."+ext)
	if info, err := os.Stat(exact); err == nil && info.Mode().IsRegular() {
		return exact, nil
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", &WorkspaceError{Op: "read", Dir: dir, Err: err}
	}

	suffix := "." + strings.ToLower(ext)
	var (
		bestName string
		bestMod  time.Time
	)
	for _, e := range entries {
		name := e.Name()
		if !e.Type().IsRegular() {
			continue
		}
		if !strings.HasPrefix(name, prefix) || !strings.HasSuffix(strings.ToLower(name), suffix) {
			continue
		}
		info, err := e.Info()
		if err != nil {
			// Removed between ReadDir and Info.
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return "", &WorkspaceError{Op: "read", Dir: dir, Err: err}
		}
		mod := info.ModTime()
		if bestName == "" || mod.After(bestMod) || (mod.Equal(bestMod) && name < bestName) {
			bestName = name
			bestMod = mod
		}
	}

	if bestName == "" {
		return "", &FileNotFoundError{Dir: dir, Prefix: prefix, Ext: ext}
	}
	return filepath.Join(dir, bestName), nil
}
