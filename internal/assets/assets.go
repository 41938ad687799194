// Package assets ships the icons used by the explorer hosts.
package assets

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"path/filepath"

	"github.com/adrg/xdg"
)

//go:embed images
var files embed.FS

const appIconPath = "images/appicon.svg"

// Context resolves asset paths against the directory the assets were
// extracted to.
type Context struct {
	Root string
}

// AsAbsolutePath maps a slash separated path relative to the assets root to
// an absolute filesystem path.
func (c Context) AsAbsolutePath(relativePath string) string {
	return filepath.Join(c.Root, filepath.FromSlash(path.Clean(relativePath)))
}

// Read returns the embedded content of relativePath.
func Read(relativePath string) ([]byte, error) {
	return files.ReadFile(path.Clean(relativePath))
}

func AppIcon() []byte {
	data, _ := files.ReadFile(appIconPath)
	return data
}

// DefaultDir is the per-user cache directory assets are extracted to.
func DefaultDir() string {
	return filepath.Join(xdg.CacheHome, "gitk-explorer", "assets")
}

// Extract writes the embedded assets under dir, skipping files whose content
// is already up to date.
func Extract(dir string) (Context, error) {
	root, err := filepath.Abs(dir)
	if err != nil {
		return Context{}, err
	}
	written := 0
	err = fs.WalkDir(files, ".", func(p string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		target := filepath.Join(root, filepath.FromSlash(p))
		if d.IsDir() {
			return os.MkdirAll(target, 0o755)
		}
		data, err := files.ReadFile(p)
		if err != nil {
			return err
		}
		existing, err := os.ReadFile(target)
		if err == nil && bytes.Equal(existing, data) {
			return nil
		}
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return err
		}
		if err := os.WriteFile(target, data, 0o644); err != nil {
			return err
		}
		written++
		return nil
	})
	if err != nil {
		return Context{}, fmt.Errorf("extract assets to %s: %w", root, err)
	}
	if written > 0 {
		slog.Debug("assets extracted", slog.String("dir", root), slog.Int("files", written))
	}
	return Context{Root: root}, nil
}
