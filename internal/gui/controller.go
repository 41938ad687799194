package gui

import (
	"sync"
	"sync/atomic"

	. "modernc.org/tk9.0"

	"github.com/thiagokokada/gitk-explorer/internal/debounce"
	"github.com/thiagokokada/gitk-explorer/internal/explorer"
	"github.com/thiagokokada/gitk-explorer/internal/git"
)

type Controller struct {
	git      *git.Provider
	explorer *explorer.Explorer

	cfg   controllerConfig
	repos []string
	theme controllerTheme

	ui appWidgets

	state controllerState
}

type controllerConfig struct {
	autoReloadRequested bool
	syntaxHighlight     bool
}

type controllerTheme struct {
	pref    ThemePreference
	palette colorPalette
}

type appWidgets struct {
	status          *TLabelWidget
	repoLabel       *TLabelWidget
	reloadButton    *TButtonWidget
	treeView        *TTreeviewWidget
	treeMenu        *MenuWidget
	diffDetail      *TextWidget
	diffFileList    *ListboxWidget
	shortcutsWindow *ToplevelWidget
}

type controllerState struct {
	rows *rowTable
	// restore holds the keys of rows that were open before the last rebuild.
	restore map[string]bool
	icons   map[string]*Img

	diff      diffState
	selection atomic.Pointer[string]
	watch     autoReloadState
}

type diffState struct {
	fileSections          []fileSection
	syntaxTags            map[string]string
	suppressFileSelection bool
	skipNextSync          bool

	mu        sync.Mutex
	debouncer *debounce.Debouncer
	pending   *pendingDiff
}

type pendingDiff struct {
	repoPath string
	commit   *git.Commit
	header   string
}
