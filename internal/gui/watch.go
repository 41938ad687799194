package gui

import (
	"fmt"
	"log/slog"
	"sync"

	. "modernc.org/tk9.0"

	"github.com/thiagokokada/gitk-explorer/internal/watch"
)

type autoReloadState struct {
	mu         sync.Mutex
	configured bool
	enabled    bool
	watcher    *watch.Watcher
}

func (a *Controller) initAutoReload(requested bool) {
	a.state.watch.mu.Lock()
	a.state.watch.configured = requested
	a.state.watch.mu.Unlock()
	if requested {
		if err := a.enableAutoReload(); err != nil {
			slog.Error("auto reload disabled", slog.Any("error", err))
			a.state.watch.mu.Lock()
			a.state.watch.configured = false
			a.state.watch.mu.Unlock()
		}
	}
	a.updateReloadButtonLabel()
}

func (a *Controller) enableAutoReload() error {
	a.state.watch.mu.Lock()
	defer a.state.watch.mu.Unlock()
	if !a.state.watch.configured || a.state.watch.enabled {
		return nil
	}
	w := watch.New(func() {
		slog.Debug("auto reload triggered")
		PostEvent(a.refresh, false)
	}, a.repos...)
	if err := w.Start(); err != nil {
		return err
	}
	a.state.watch.watcher = w
	a.state.watch.enabled = true
	return nil
}

func (a *Controller) disableAutoReload() {
	a.state.watch.mu.Lock()
	defer a.state.watch.mu.Unlock()
	if a.state.watch.watcher != nil {
		if err := a.state.watch.watcher.Stop(); err != nil {
			slog.Error("watcher close", slog.Any("error", err))
		}
		a.state.watch.watcher = nil
	}
	a.state.watch.enabled = false
}

// restartAutoReload rebuilds the watcher so it covers every open repository.
func (a *Controller) restartAutoReload() {
	a.state.watch.mu.Lock()
	enabled := a.state.watch.enabled
	a.state.watch.mu.Unlock()
	if !enabled {
		return
	}
	a.disableAutoReload()
	if err := a.enableAutoReload(); err != nil {
		slog.Error("auto reload restart failed", slog.Any("error", err))
	}
	a.updateReloadButtonLabel()
}

func (a *Controller) shutdown() {
	a.cancelPendingDiffLoad()
	a.disableAutoReload()
}

func (a *Controller) updateReloadButtonLabel() {
	if a.ui.reloadButton == nil {
		return
	}
	label := "Reload"
	a.state.watch.mu.Lock()
	configured := a.state.watch.configured
	enabled := a.state.watch.enabled
	a.state.watch.mu.Unlock()
	if configured {
		state := "Off"
		if enabled {
			state = "On"
		}
		label = fmt.Sprintf("Reload (Auto %s)", state)
	}
	a.ui.reloadButton.Configure(Txt(label))
}

func (a *Controller) onReloadButton() {
	a.state.watch.mu.Lock()
	configured := a.state.watch.configured
	enabled := a.state.watch.enabled
	a.state.watch.mu.Unlock()
	if !configured {
		a.refresh()
		return
	}
	if enabled {
		a.disableAutoReload()
	} else if err := a.enableAutoReload(); err != nil {
		slog.Error("auto reload enable failed", slog.Any("error", err))
	}
	a.updateReloadButtonLabel()
	a.refresh()
}
