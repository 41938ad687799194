// Package watch reports changes to a repository's git directory.
package watch

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/thiagokokada/gitk-explorer/internal/debounce"
)

const DefaultDelay = 350 * time.Millisecond

// Watcher calls onChange, debounced, whenever refs or HEAD of the watched
// repositories move.
type Watcher struct {
	mu       sync.Mutex
	roots    []string
	delay    time.Duration
	onChange func()

	fsw       *fsnotify.Watcher
	debouncer *debounce.Debouncer
	done      chan struct{}
}

func New(onChange func(), roots ...string) *Watcher {
	return &Watcher{roots: roots, delay: DefaultDelay, onChange: onChange}
}

// SetDelay changes the debounce delay. It takes effect on the next Start.
func (w *Watcher) SetDelay(d time.Duration) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.delay = d
}

func (w *Watcher) Running() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.fsw != nil
}

// Start begins watching. Calling it on a running watcher is a no-op.
func (w *Watcher) Start() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.fsw != nil {
		return nil
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("fsnotify: %w", err)
	}
	for _, root := range w.roots {
		for _, p := range Paths(root) {
			slog.Debug("adding path to FS watcher", slog.String("path", p))
			if err := fsw.Add(p); err != nil {
				err = errors.Join(err, fsw.Close())
				return fmt.Errorf("watch %s: %w", p, err)
			}
		}
	}
	w.debouncer = debounce.New(w.delay, w.onChange)
	w.fsw = fsw
	w.done = make(chan struct{})
	go w.loop(fsw, w.debouncer, w.done)
	return nil
}

// Stop ends watching and drops any pending callback. Calling it on a
// stopped watcher is a no-op.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	fsw, deb, done := w.fsw, w.debouncer, w.done
	w.fsw, w.debouncer, w.done = nil, nil, nil
	w.mu.Unlock()
	if fsw == nil {
		return nil
	}
	err := fsw.Close()
	<-done
	deb.Stop()
	return err
}

func (w *Watcher) loop(fsw *fsnotify.Watcher, deb *debounce.Debouncer, done chan struct{}) {
	defer close(done)
	for {
		select {
		case ev, ok := <-fsw.Events:
			if !ok {
				return
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			if ShouldIgnore(ev.Name) {
				continue
			}
			if ev.Op.Has(fsnotify.Create) {
				if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
					if err := fsw.Add(ev.Name); err != nil {
						slog.Debug("watch new directory", slog.String("path", ev.Name), slog.Any("error", err))
					}
				}
			}
			slog.Debug("fsnotify event",
				slog.String("op", ev.Op.String()),
				slog.String("path", ev.Name),
			)
			deb.Trigger()
		case err, ok := <-fsw.Errors:
			if !ok {
				return
			}
			slog.Error("fsnotify error", slog.Any("error", err))
		}
	}
}

// Paths lists the directories to watch for root: the git directory, the
// common directory of a linked worktree and every directory under the refs,
// or root itself when no git directory is found.
func Paths(root string) []string {
	if root == "" {
		return nil
	}
	gitDir, commonDir := gitDirs(root)
	paths := []string{gitDir, commonDir}
	refs := filepath.Join(commonDir, "refs")
	_ = filepath.WalkDir(refs, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			paths = append(paths, p)
		}
		return nil
	})
	slices.Sort(paths)
	return slices.Compact(paths)
}

// gitDirs resolves the git directory of root and the directory holding its
// refs. A .git file ("gitdir: <path>") points to the git directory of a
// linked worktree or submodule; a "commondir" file there names the shared
// repository directory.
func gitDirs(root string) (gitDir, commonDir string) {
	dotGit := filepath.Join(root, ".git")
	info, err := os.Stat(dotGit)
	if err != nil {
		return root, root
	}
	if info.IsDir() {
		return dotGit, dotGit
	}
	gitDir, ok := readPathFile(dotGit, root, "gitdir:")
	if !ok {
		return root, root
	}
	if info, err := os.Stat(gitDir); err != nil || !info.IsDir() {
		return root, root
	}
	commonDir, ok = readPathFile(filepath.Join(gitDir, "commondir"), gitDir, "")
	if !ok {
		return gitDir, gitDir
	}
	return gitDir, commonDir
}

// readPathFile reads a one-line path file, removing prefix and resolving a
// relative path against base.
func readPathFile(name, base, prefix string) (string, bool) {
	data, err := os.ReadFile(name)
	if err != nil {
		return "", false
	}
	line, _, _ := strings.Cut(string(data), "\n")
	line = strings.TrimSpace(line)
	if prefix != "" {
		var found bool
		if line, found = strings.CutPrefix(line, prefix); !found {
			slog.Debug("unexpected git pointer file", slog.String("path", name))
			return "", false
		}
		line = strings.TrimSpace(line)
	}
	if line == "" {
		return "", false
	}
	if !filepath.IsAbs(line) {
		line = filepath.Join(base, line)
	}
	return filepath.Clean(line), true
}

// ShouldIgnore reports whether an event on name is git bookkeeping noise.
func ShouldIgnore(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	return ext == ".lock" || ext == ".ipc"
}
